package course

import (
	"context"

	"github.com/pkg/errors"

	"github.com/mwalimu/shule/core"
	"github.com/mwalimu/shule/core/user"
)

var (
	// errors
	ErrCourseNotFound     = errors.New("course not found")
	ErrStudentNotFound    = errors.New("student not found")
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	ErrNotCourseOwner     = errors.New("you do not teach this course")
)

type (
	Repository interface {
		CreateCourse(ctx context.Context, crs Course, exec ...core.DBExecutor) (Course, error)
		GetCourseByID(ctx context.Context, id int) (Course, error)
		QueryAllCourses(ctx context.Context) ([]Course, error)
		QueryCoursesByTeacher(ctx context.Context, teacherUsername string) ([]Course, error)
		QueryCoursesByStudent(ctx context.Context, studentUsername string) ([]StudentCourse, error)
		StudentExists(ctx context.Context, username string) (bool, error)
		CreateEnrollment(ctx context.Context, enr Enrollment, exec ...core.DBExecutor) (Enrollment, error)
		QueryEnrollmentsByTeacher(ctx context.Context, teacherUsername string) ([]EnrollmentInfo, error)
		QueryEnrollmentsByStudent(ctx context.Context, studentUsername string) ([]EnrollmentInfo, error)
		// UpdateGrade sets the grade on the matching enrollment rows and
		// reports how many were affected.
		UpdateGrade(ctx context.Context, studentUsername string, courseID int, grade float64) (int64, error)
	}

	Service struct {
		repo Repository
		log  core.Logger
	}
)

var _ user.CourseCatalog = (*Service)(nil) // interface compliance check

func NewService(repo Repository, log core.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// CreateCourse creates a course with the default credit count. Part of the
// user.CourseCatalog seam used when an admin creates a teacher.
func (svc *Service) CreateCourse(ctx context.Context, name, teacherUsername string, exec ...core.DBExecutor) error {
	crs := Course{Name: name, Credits: DefaultCredits}
	if teacherUsername != "" {
		crs.TeacherUsername.SetValid(teacherUsername)
	}
	_, err := svc.repo.CreateCourse(ctx, crs, exec...)
	return err
}

// CourseIDsByTeacher returns the IDs of all courses taught by the teacher.
func (svc *Service) CourseIDsByTeacher(ctx context.Context, teacherUsername string) ([]int, error) {
	courses, err := svc.repo.QueryCoursesByTeacher(ctx, teacherUsername)
	if err != nil {
		return nil, err
	}
	ids := make([]int, 0, len(courses))
	for _, crs := range courses {
		ids = append(ids, crs.ID)
	}
	return ids, nil
}

// CreateEnrollment inserts an enrollment with a null grade, without
// referential checks; callers on the user.CourseCatalog seam have already
// created the student inside the same transaction.
func (svc *Service) CreateEnrollment(ctx context.Context, studentUsername string, courseID int, exec ...core.DBExecutor) error {
	_, err := svc.repo.CreateEnrollment(ctx, Enrollment{StudentUsername: studentUsername, CourseID: courseID}, exec...)
	return err
}

// QueryAll lists every course; admin only.
func (svc *Service) QueryAll(ctx context.Context, sess *user.Session) ([]Course, error) {
	if err := sess.Require(user.RoleAdmin); err != nil {
		return nil, err
	}
	return svc.repo.QueryAllCourses(ctx)
}

// MyCourses lists the courses taught by the session teacher.
func (svc *Service) MyCourses(ctx context.Context, sess *user.Session) ([]Course, error) {
	if err := sess.Require(user.RoleTeacher); err != nil {
		return nil, err
	}
	return svc.repo.QueryCoursesByTeacher(ctx, sess.User.Username)
}

// StudentCourses lists the courses the session student is enrolled in.
func (svc *Service) StudentCourses(ctx context.Context, sess *user.Session) ([]StudentCourse, error) {
	if err := sess.Require(user.RoleStudent); err != nil {
		return nil, err
	}
	return svc.repo.QueryCoursesByStudent(ctx, sess.User.Username)
}

// Enroll adds a student to a course after checking both exist. Duplicate
// enrollments are not prevented.
func (svc *Service) Enroll(ctx context.Context, sess *user.Session, ne NewEnrollment) error {
	if err := sess.Require(user.RoleTeacher); err != nil {
		return err
	}
	if err := ne.Validate(); err != nil {
		return err
	}

	exists, err := svc.repo.StudentExists(ctx, ne.StudentUsername)
	if err != nil {
		return err
	}
	if !exists {
		return core.NewValidationError(
			ErrStudentNotFound, core.FieldError{Field: "student_username", Error: ErrStudentNotFound.Error()})
	}
	if _, err := svc.repo.GetCourseByID(ctx, ne.CourseID); err != nil {
		if err == ErrCourseNotFound {
			return core.NewValidationError(
				ErrCourseNotFound, core.FieldError{Field: "course_id", Error: ErrCourseNotFound.Error()})
		}
		return err
	}

	_, err = svc.repo.CreateEnrollment(ctx, Enrollment{StudentUsername: ne.StudentUsername, CourseID: ne.CourseID})
	return err
}

// AssignGrade records a grade on an enrollment. The session teacher must
// actually teach the course.
func (svc *Service) AssignGrade(ctx context.Context, sess *user.Session, ga GradeAssignment) error {
	if err := sess.Require(user.RoleTeacher); err != nil {
		return err
	}
	if err := ga.Validate(); err != nil {
		return err
	}

	crs, err := svc.repo.GetCourseByID(ctx, ga.CourseID)
	if err != nil {
		return err
	}
	if crs.TeacherUsername.String != sess.User.Username {
		return ErrNotCourseOwner
	}

	n, err := svc.repo.UpdateGrade(ctx, ga.StudentUsername, ga.CourseID, ga.Grade)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrEnrollmentNotFound
	}
	return nil
}

// Enrollments lists enrollments in the session teacher's courses.
func (svc *Service) Enrollments(ctx context.Context, sess *user.Session) ([]EnrollmentInfo, error) {
	if err := sess.Require(user.RoleTeacher); err != nil {
		return nil, err
	}
	return svc.repo.QueryEnrollmentsByTeacher(ctx, sess.User.Username)
}

// StudentGrades lists the session student's enrollments with their grades.
func (svc *Service) StudentGrades(ctx context.Context, sess *user.Session) ([]EnrollmentInfo, error) {
	if err := sess.Require(user.RoleStudent); err != nil {
		return nil, err
	}
	return svc.repo.QueryEnrollmentsByStudent(ctx, sess.User.Username)
}
