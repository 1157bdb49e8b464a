package timetable

import (
	"context"

	"github.com/pkg/errors"

	"github.com/mwalimu/shule/core"
	"github.com/mwalimu/shule/core/user"
)

var ErrCourseNotFound = errors.New("course not found")

type (
	Repository interface {
		CreateEntry(ctx context.Context, e Entry, exec ...core.DBExecutor) (Entry, error)
		CourseExists(ctx context.Context, courseID int) (bool, error)
		QueryAllEntries(ctx context.Context) ([]Entry, error)
		QueryEntriesByStudent(ctx context.Context, studentUsername string) ([]StudentEntry, error)
	}

	Service struct {
		repo Repository
		log  core.Logger
	}
)

func NewService(repo Repository, log core.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Add creates a timetable entry; admin only. Overlapping slots and inverted
// start/end pairs are not prevented.
func (svc *Service) Add(ctx context.Context, sess *user.Session, ne NewEntry) error {
	if err := sess.Require(user.RoleAdmin); err != nil {
		return err
	}
	if err := ne.Validate(); err != nil {
		return err
	}

	exists, err := svc.repo.CourseExists(ctx, ne.CourseID)
	if err != nil {
		return err
	}
	if !exists {
		return core.NewValidationError(
			ErrCourseNotFound, core.FieldError{Field: "course_id", Error: ErrCourseNotFound.Error()})
	}

	_, err = svc.repo.CreateEntry(ctx, Entry{
		CourseID:  ne.CourseID,
		Day:       ne.Day,
		StartTime: ne.StartTime,
		EndTime:   ne.EndTime,
	})
	return err
}

// All lists every timetable entry; admin only.
func (svc *Service) All(ctx context.Context, sess *user.Session) ([]Entry, error) {
	if err := sess.Require(user.RoleAdmin); err != nil {
		return nil, err
	}
	return svc.repo.QueryAllEntries(ctx)
}

// MyTimetable lists the weekly schedule for the session student's courses.
func (svc *Service) MyTimetable(ctx context.Context, sess *user.Session) ([]StudentEntry, error) {
	if err := sess.Require(user.RoleStudent); err != nil {
		return nil, err
	}
	return svc.repo.QueryEntriesByStudent(ctx, sess.User.Username)
}
