package user

import (
	"context"
	"fmt"
	"time"

	"github.com/volatiletech/null/v8"
	"golang.org/x/crypto/bcrypt"

	"github.com/mwalimu/shule/core"
)

// Roles. Every user holds exactly one.
const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

var AllRoles = []string{RoleAdmin, RoleTeacher, RoleStudent}

const (
	MinGradeLevel = 1
	MaxGradeLevel = 12
)

type User struct {
	ID           string      `json:"id" db:"id"`
	Name         string      `json:"name" db:"name"`
	Username     string      `json:"username" db:"username"`
	Email        string      `json:"email" db:"email"`
	Phone        null.String `json:"phone" db:"phone"`
	Role         string      `json:"role" db:"role"`
	IsActive     bool        `json:"is_active" db:"is_active"`
	PasswordHash []byte      `json:"-" db:"password_hash"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"` // UTC
	UpdatedAt    time.Time   `json:"updated_at" db:"updated_at"` // UTC
	LastLogin    null.Time   `json:"last_login" db:"last_login"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u *User) IsAdmin() bool   { return u.Role == RoleAdmin }
func (u *User) IsTeacher() bool { return u.Role == RoleTeacher }
func (u *User) IsStudent() bool { return u.Role == RoleStudent }

// Student is the 1:1 extension of a User with role "student".
type Student struct {
	StudentID       string      `json:"student_id" db:"student_id"`
	Username        string      `json:"username" db:"username"`
	GradeLevel      int         `json:"grade_level" db:"grade_level"`
	AssignedTeacher null.String `json:"assigned_teacher" db:"assigned_teacher"`
}

// StudentInfo is the listing row shown on teacher dashboards.
type StudentInfo struct {
	StudentID  string `json:"student_id" db:"student_id"`
	Username   string `json:"username" db:"username"`
	Name       string `json:"name" db:"name"`
	GradeLevel int    `json:"grade_level" db:"grade_level"`
}

// DeriveStudentID builds the student identifier from the last 4 characters of
// the username (left-padded with zeros) and the grade level. Deterministic for
// a given (username, gradeLevel) pair.
func DeriveStudentID(username string, gradeLevel int) string {
	tail := username
	if len(tail) > 4 {
		tail = tail[len(tail)-4:]
	}
	for len(tail) < 4 {
		tail = "0" + tail
	}
	return fmt.Sprintf("STU%s%02d", tail, gradeLevel)
}

// Session is the explicit logged-in identity passed to every operation.
type Session struct {
	User    User
	LoginAt time.Time
}

// Require is the uniform authorization check: it succeeds iff the session
// user holds one of the given roles and is active.
func (s *Session) Require(roles ...string) error {
	if s == nil || !s.User.IsActive {
		return core.ErrPermissionDenied
	}
	for _, role := range roles {
		if s.User.Role == role {
			return nil
		}
	}
	return core.ErrPermissionDenied
}

// NewUser contains information needed to create a new User.
type NewUser struct {
	Name            string `json:"name" validate:"required"`
	Username        string `json:"username" validate:"required,alphanum_"`
	Email           string `json:"email" validate:"required,email"`
	Phone           string `json:"phone" validate:"omitempty,phone"`
	Role            string `json:"role" validate:"required,oneof=admin teacher student"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`

	// student-only fields
	GradeLevel      int    `json:"grade_level" validate:"omitempty,min=1,max=12"`
	AssignedTeacher string `json:"assigned_teacher" validate:"omitempty,alphanum_"`

	// teacher-only field: comma-separated course names, one course per entry
	Courses string `json:"courses"`
}

func (nu *NewUser) Validate(ctx context.Context, svc *Service) error {
	nu.Name = core.CleanString(nu.Name)
	nu.Username = core.CleanString(nu.Username) // never lowered: logins are case-sensitive
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	nu.Phone = core.CleanString(nu.Phone)
	nu.AssignedTeacher = core.CleanString(nu.AssignedTeacher)

	if err := core.Validate.Struct(nu); err != nil {
		return core.TranslateValidatorErr(err)
	}
	return svc.checkUniqueness(ctx, nu.Username, nu.Email)
}

// UpdateUser defines what information may be provided to modify an existing User.
type UpdateUser struct {
	Name            string `json:"name"`
	Email           string `json:"email" validate:"omitempty,email"`
	Phone           string `json:"phone" validate:"omitempty,phone"`
	IsActive        *bool  `json:"is_active"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm" validate:"required_with=Password,eqfield=Password"`
}

func (uu *UpdateUser) Validate(origUsr User) error {
	name := core.CleanString(uu.Name)
	if name != "" {
		uu.Name = name
	} else {
		uu.Name = origUsr.Name
	}

	email := core.CleanString(uu.Email, true /* lower */)
	if email != "" {
		uu.Email = email
	} else {
		uu.Email = origUsr.Email
	}

	if err := core.Validate.Struct(uu); err != nil {
		return core.TranslateValidatorErr(err)
	}
	return nil
}
