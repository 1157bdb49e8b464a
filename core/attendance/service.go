package attendance

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/mwalimu/shule/core"
	"github.com/mwalimu/shule/core/user"
)

var (
	// errors
	ErrCourseNotFound = errors.New("course not found")
	ErrNotCourseOwner = errors.New("you do not teach this course")

	NowFunc = time.Now // mockable
)

type (
	Repository interface {
		CreateAttendance(ctx context.Context, att Attendance, exec ...core.DBExecutor) (Attendance, error)
		// CourseTeacher returns the owning teacher of the course, or
		// ErrCourseNotFound.
		CourseTeacher(ctx context.Context, courseID int) (null.String, error)
		QueryByTeacher(ctx context.Context, teacherUsername string) ([]Attendance, error)
		QueryByStudent(ctx context.Context, studentUsername string) ([]Record, error)
	}

	Service struct {
		repo Repository
		log  core.Logger
	}
)

func NewService(repo Repository, log core.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Mark records today's attendance for a student in a course. The session
// teacher must teach the course. Multiple records per (student, course, day)
// are not prevented.
func (svc *Service) Mark(ctx context.Context, sess *user.Session, na NewAttendance) error {
	if err := sess.Require(user.RoleTeacher); err != nil {
		return err
	}
	if err := na.Validate(); err != nil {
		return err
	}

	teacher, err := svc.repo.CourseTeacher(ctx, na.CourseID)
	if err != nil {
		return err
	}
	if teacher.String != sess.User.Username {
		return ErrNotCourseOwner
	}

	att := Attendance{
		StudentUsername: na.StudentUsername,
		CourseID:        na.CourseID,
		Date:            NowFunc().UTC().Truncate(24 * time.Hour),
		Status:          na.Status,
	}
	_, err = svc.repo.CreateAttendance(ctx, att)
	return err
}

// ByTeacher lists attendance records in the session teacher's courses.
func (svc *Service) ByTeacher(ctx context.Context, sess *user.Session) ([]Attendance, error) {
	if err := sess.Require(user.RoleTeacher); err != nil {
		return nil, err
	}
	return svc.repo.QueryByTeacher(ctx, sess.User.Username)
}

// MyAttendance lists the session student's attendance records.
func (svc *Service) MyAttendance(ctx context.Context, sess *user.Session) ([]Record, error) {
	if err := sess.Require(user.RoleStudent); err != nil {
		return nil, err
	}
	return svc.repo.QueryByStudent(ctx, sess.User.Username)
}
