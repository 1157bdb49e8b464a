package user

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/mwalimu/shule/core"
)

var (
	// errors
	ErrNotFound           = errors.New("user not found")
	ErrEmailExists        = errors.New("a user with this email already exists")
	ErrUsernameExists     = errors.New("a user with this username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserInactive       = errors.New("this account has been deactivated")
	ErrTeacherNotFound    = errors.New("assigned teacher not found")
)

type (
	Repository interface {
		CheckUsernameUniqueness(ctx context.Context, username, email string, exec ...core.DBExecutor) error
		CreateUser(ctx context.Context, usr User, exec ...core.DBExecutor) (User, error)
		CreateStudent(ctx context.Context, st Student, exec ...core.DBExecutor) (Student, error)
		GetUserByUsername(ctx context.Context, username string) (User, error)
		GetUserByUsernameOrEmail(ctx context.Context, uname string) (User, error)
		GetStudent(ctx context.Context, username string) (Student, error)
		QueryAllUsers(ctx context.Context) ([]User, error)
		QueryUsersByRole(ctx context.Context, role string) ([]User, error)
		QueryStudentsByTeacher(ctx context.Context, teacherUsername string) ([]StudentInfo, error)
		UpdateUser(ctx context.Context, usr User, exec ...core.DBExecutor) (User, error)
	}

	// CourseCatalog is the slice of the course service the user service needs
	// for teacher course creation and student auto-enrollment.
	CourseCatalog interface {
		// CreateCourse creates a course with the default credit count.
		CreateCourse(ctx context.Context, name, teacherUsername string, exec ...core.DBExecutor) error
		CourseIDsByTeacher(ctx context.Context, teacherUsername string) ([]int, error)
		CreateEnrollment(ctx context.Context, studentUsername string, courseID int, exec ...core.DBExecutor) error
	}

	Service struct {
		db      core.DB // nil when the storage backend manages its own atomicity
		repo    Repository
		catalog CourseCatalog
		mailSvc core.EmailService
		log     core.Logger
	}
)

func NewService(db core.DB, repo Repository, catalog CourseCatalog, mailSvc core.EmailService, log core.Logger) *Service {
	return &Service{
		db:      db,
		repo:    repo,
		catalog: catalog,
		mailSvc: mailSvc,
		log:     log,
	}
}

func (svc *Service) checkUniqueness(ctx context.Context, uname, email string) error {
	if err := svc.repo.CheckUsernameUniqueness(ctx, uname, email); err != nil {
		var field string
		switch err {
		case ErrUsernameExists:
			field = "username"
		case ErrEmailExists:
			field = "email"
		default:
			return err
		}
		return core.NewValidationError(err, core.FieldError{Field: field, Error: err.Error()})
	}
	return nil
}

// Authenticate looks a user up by exact username and verifies the password.
// It is case- and whitespace-sensitive on the username.
func (svc *Service) Authenticate(ctx context.Context, username, password string) (*Session, error) {
	usr, err := svc.repo.GetUserByUsername(ctx, username)
	if err != nil {
		if err == ErrNotFound {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := usr.CheckPassword(password); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !usr.IsActive {
		return nil, ErrUserInactive
	}

	now := time.Now().UTC()
	usr.LastLogin.SetValid(now)
	usr.UpdatedAt = now
	if usr, err = svc.repo.UpdateUser(ctx, usr); err != nil {
		svc.log.Warn("recording last login", err)
	}
	return &Session{User: usr, LoginAt: now}, nil
}

// Create adds a user on behalf of sess, which must be an admin session.
// A student is given a derived student identifier and auto-enrolled into all
// courses taught by the assigned teacher; a teacher gets one course per entry
// in the comma-separated course list. The whole operation is atomic.
func (svc *Service) Create(ctx context.Context, sess *Session, nu NewUser) (User, error) {
	if err := sess.Require(RoleAdmin); err != nil {
		return User{}, err
	}
	if err := nu.Validate(ctx, svc); err != nil {
		return User{}, err
	}

	if nu.Role == RoleStudent && nu.AssignedTeacher != "" {
		teacher, err := svc.repo.GetUserByUsername(ctx, nu.AssignedTeacher)
		if err != nil || !teacher.IsTeacher() {
			return User{}, core.NewValidationError(
				ErrTeacherNotFound, core.FieldError{Field: "assigned_teacher", Error: ErrTeacherNotFound.Error()})
		}
	}

	now := time.Now().UTC()
	usr := User{
		Name:      nu.Name,
		Username:  nu.Username,
		Email:     nu.Email,
		Role:      nu.Role,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if nu.Phone != "" {
		usr.Phone.SetValid(nu.Phone)
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, err
	}

	tx, err := svc.beginTx(ctx)
	if err != nil {
		return User{}, err
	}
	usr, err = svc.create(ctx, usr, nu, execs(tx)...)
	if err != nil {
		rollback(tx)
		return User{}, err
	}
	if err := commit(tx); err != nil {
		return User{}, err
	}

	svc.sendWelcomeEmail(usr)
	return usr, nil
}

func (svc *Service) create(ctx context.Context, usr User, nu NewUser, exec ...core.DBExecutor) (User, error) {
	usr, err := svc.repo.CreateUser(ctx, usr, exec...)
	if err != nil {
		return User{}, err
	}

	switch usr.Role {
	case RoleStudent:
		st := Student{
			StudentID:  DeriveStudentID(usr.Username, nu.GradeLevel),
			Username:   usr.Username,
			GradeLevel: nu.GradeLevel,
		}
		if nu.AssignedTeacher != "" {
			st.AssignedTeacher.SetValid(nu.AssignedTeacher)
		}
		if _, err := svc.repo.CreateStudent(ctx, st, exec...); err != nil {
			return User{}, err
		}
		if nu.AssignedTeacher != "" {
			ids, err := svc.catalog.CourseIDsByTeacher(ctx, nu.AssignedTeacher)
			if err != nil {
				return User{}, err
			}
			for _, id := range ids {
				if err := svc.catalog.CreateEnrollment(ctx, usr.Username, id, exec...); err != nil {
					return User{}, err
				}
			}
		}
	case RoleTeacher:
		for _, name := range SplitCourseNames(nu.Courses) {
			if err := svc.catalog.CreateCourse(ctx, name, usr.Username, exec...); err != nil {
				return User{}, err
			}
		}
	}
	return usr, nil
}

func (svc *Service) sendWelcomeEmail(usr User) {
	if svc.mailSvc == nil || usr.Email == "" {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject:      "Welcome",
		TemplateName: "welcome",
		TemplateData: usr,
	})
}

// QueryAll lists every user; admin only.
func (svc *Service) QueryAll(ctx context.Context, sess *Session) ([]User, error) {
	if err := sess.Require(RoleAdmin); err != nil {
		return nil, err
	}
	return svc.repo.QueryAllUsers(ctx)
}

// Teachers lists users with the teacher role, for the admin add-user form.
func (svc *Service) Teachers(ctx context.Context, sess *Session) ([]User, error) {
	if err := sess.Require(RoleAdmin); err != nil {
		return nil, err
	}
	return svc.repo.QueryUsersByRole(ctx, RoleTeacher)
}

// MyStudents lists the students administratively assigned to the session teacher.
func (svc *Service) MyStudents(ctx context.Context, sess *Session) ([]StudentInfo, error) {
	if err := sess.Require(RoleTeacher); err != nil {
		return nil, err
	}
	return svc.repo.QueryStudentsByTeacher(ctx, sess.User.Username)
}

func (svc *Service) GetByUsername(ctx context.Context, uname string) (User, error) {
	return svc.repo.GetUserByUsername(ctx, uname)
}

func (svc *Service) GetStudent(ctx context.Context, uname string) (Student, error) {
	return svc.repo.GetStudent(ctx, uname)
}

// EnsureInitialAdmin creates the bootstrap admin account when the store holds
// no admin user yet.
func (svc *Service) EnsureInitialAdmin(ctx context.Context, username, password string) error {
	admins, err := svc.repo.QueryUsersByRole(ctx, RoleAdmin)
	if err != nil {
		return err
	}
	if len(admins) > 0 {
		return nil
	}

	now := time.Now().UTC()
	usr := User{
		Name:      "System Administrator",
		Username:  username,
		Email:     "admin@school.edu",
		Role:      RoleAdmin,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := usr.SetPassword(password); err != nil {
		return err
	}
	if _, err := svc.repo.CreateUser(ctx, usr); err != nil {
		return err
	}
	svc.log.Info("initial admin account created", username)
	return nil
}

// SplitCourseNames splits a comma-separated course list, dropping empty entries.
func SplitCourseNames(csv string) []string {
	var names []string
	for _, name := range strings.Split(csv, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// tx helpers: a nil DB means the storage backend manages its own atomicity
// (the in-memory backend), in which case repositories run on their default
// executor.

func (svc *Service) beginTx(ctx context.Context) (core.DBTransactor, error) {
	if svc.db == nil {
		return nil, nil
	}
	return svc.db.BeginTx(ctx, nil)
}

func execs(tx core.DBTransactor) []core.DBExecutor {
	if tx == nil {
		return nil
	}
	return []core.DBExecutor{tx}
}

func commit(tx core.DBTransactor) error {
	if tx == nil {
		return nil
	}
	return tx.Commit()
}

func rollback(tx core.DBTransactor) {
	if tx != nil {
		_ = tx.Rollback()
	}
}
