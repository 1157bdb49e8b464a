package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/mwalimu/shule/core"
	"github.com/mwalimu/shule/core/user"
)

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *sqlx.DB) *userRepository {
	return &userRepository{db: db}
}

// trapNoRowsErr maps "no rows" to user.ErrNotFound
func (repo userRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return user.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo userRepository) CheckUsernameUniqueness(ctx context.Context, username, email string, exec ...core.DBExecutor) error {
	ex := getExec(repo.db.DB, exec)

	var exists bool
	err := ex.QueryRowContext(ctx, "SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)", username).Scan(&exists)
	if err != nil {
		return errors.Wrap(err, "checking username uniqueness")
	}
	if exists {
		return user.ErrUsernameExists
	}

	err = ex.QueryRowContext(ctx, "SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)", email).Scan(&exists)
	if err != nil {
		return errors.Wrap(err, "checking email uniqueness")
	}
	if exists {
		return user.ErrEmailExists
	}
	return nil
}

func (repo userRepository) CreateUser(ctx context.Context, usr user.User, exec ...core.DBExecutor) (user.User, error) {
	usr.ID = uuid.New().String()

	const q = `
		INSERT INTO users (id, username, password_hash, role, name, email, phone, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := getExec(repo.db.DB, exec).ExecContext(ctx, q,
		usr.ID, usr.Username, usr.PasswordHash, usr.Role, usr.Name, usr.Email, usr.Phone,
		usr.IsActive, usr.CreatedAt, usr.UpdatedAt)
	if err != nil {
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	return usr, nil
}

func (repo userRepository) CreateStudent(ctx context.Context, st user.Student, exec ...core.DBExecutor) (user.Student, error) {
	const q = `
		INSERT INTO students (student_id, username, grade_level, assigned_teacher)
		VALUES ($1, $2, $3, $4)`
	_, err := getExec(repo.db.DB, exec).ExecContext(ctx, q,
		st.StudentID, st.Username, st.GradeLevel, st.AssignedTeacher)
	if err != nil {
		return user.Student{}, errors.Wrap(err, "inserting student")
	}
	return st, nil
}

const userColumns = "id, username, password_hash, role, name, email, phone, is_active, created_at, updated_at, last_login"

func (repo userRepository) GetUserByUsername(ctx context.Context, username string) (user.User, error) {
	var usr user.User
	err := repo.db.GetContext(ctx, &usr, "SELECT "+userColumns+" FROM users WHERE username = $1", username)
	if err != nil {
		return user.User{}, repo.trapNoRowsErr(err, "getting user by username")
	}
	return usr, nil
}

func (repo userRepository) GetUserByUsernameOrEmail(ctx context.Context, uname string) (user.User, error) {
	var usr user.User
	err := repo.db.GetContext(ctx, &usr, "SELECT "+userColumns+" FROM users WHERE username = $1 OR email = $1", uname)
	if err != nil {
		return user.User{}, repo.trapNoRowsErr(err, "getting user by username or email")
	}
	return usr, nil
}

func (repo userRepository) GetStudent(ctx context.Context, username string) (user.Student, error) {
	var st user.Student
	const q = "SELECT student_id, username, grade_level, assigned_teacher FROM students WHERE username = $1"
	if err := repo.db.GetContext(ctx, &st, q, username); err != nil {
		return user.Student{}, repo.trapNoRowsErr(err, "getting student")
	}
	return st, nil
}

func (repo userRepository) QueryAllUsers(ctx context.Context) ([]user.User, error) {
	users := make([]user.User, 0)
	err := repo.db.SelectContext(ctx, &users, "SELECT "+userColumns+" FROM users ORDER BY created_at")
	if err != nil {
		return nil, errors.Wrap(err, "querying users")
	}
	return users, nil
}

func (repo userRepository) QueryUsersByRole(ctx context.Context, role string) ([]user.User, error) {
	users := make([]user.User, 0)
	err := repo.db.SelectContext(ctx, &users, "SELECT "+userColumns+" FROM users WHERE role = $1 ORDER BY username", role)
	if err != nil {
		return nil, errors.Wrap(err, "querying users by role")
	}
	return users, nil
}

func (repo userRepository) QueryStudentsByTeacher(ctx context.Context, teacherUsername string) ([]user.StudentInfo, error) {
	const q = `
		SELECT s.student_id, s.username, u.name, s.grade_level
		FROM students s
		JOIN users u ON s.username = u.username
		WHERE s.assigned_teacher = $1
		ORDER BY s.student_id`
	students := make([]user.StudentInfo, 0)
	if err := repo.db.SelectContext(ctx, &students, q, teacherUsername); err != nil {
		return nil, errors.Wrap(err, "querying students by teacher")
	}
	return students, nil
}

func (repo userRepository) UpdateUser(ctx context.Context, usr user.User, exec ...core.DBExecutor) (user.User, error) {
	const q = `
		UPDATE users
		SET name = $2, email = $3, phone = $4, password_hash = $5, is_active = $6, updated_at = $7, last_login = $8
		WHERE username = $1`
	res, err := getExec(repo.db.DB, exec).ExecContext(ctx, q,
		usr.Username, usr.Name, usr.Email, usr.Phone, usr.PasswordHash, usr.IsActive, usr.UpdatedAt, usr.LastLogin)
	if err != nil {
		return user.User{}, errors.Wrap(err, "updating user")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return user.User{}, user.ErrNotFound
	}
	return usr, nil
}
