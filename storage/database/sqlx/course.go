package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/mwalimu/shule/core"
	"github.com/mwalimu/shule/core/course"
)

type courseRepository struct {
	db *sqlx.DB
}

var _ course.Repository = (*courseRepository)(nil) // interface compliance check

func NewCourseRepository(db *sqlx.DB) *courseRepository {
	return &courseRepository{db: db}
}

func (repo courseRepository) CreateCourse(ctx context.Context, crs course.Course, exec ...core.DBExecutor) (course.Course, error) {
	const q = `
		INSERT INTO courses (course_name, teacher_username, credits)
		VALUES ($1, $2, $3)
		RETURNING course_id`
	err := getExec(repo.db.DB, exec).
		QueryRowContext(ctx, q, crs.Name, crs.TeacherUsername, crs.Credits).
		Scan(&crs.ID)
	if err != nil {
		return course.Course{}, errors.Wrap(err, "inserting course")
	}
	return crs, nil
}

func (repo courseRepository) GetCourseByID(ctx context.Context, id int) (course.Course, error) {
	var crs course.Course
	const q = "SELECT course_id, course_name, teacher_username, credits FROM courses WHERE course_id = $1"
	if err := repo.db.GetContext(ctx, &crs, q, id); err != nil {
		if err == sql.ErrNoRows {
			return course.Course{}, course.ErrCourseNotFound
		}
		return course.Course{}, errors.Wrap(err, "getting course")
	}
	return crs, nil
}

func (repo courseRepository) QueryAllCourses(ctx context.Context) ([]course.Course, error) {
	courses := make([]course.Course, 0)
	const q = "SELECT course_id, course_name, teacher_username, credits FROM courses ORDER BY course_id"
	if err := repo.db.SelectContext(ctx, &courses, q); err != nil {
		return nil, errors.Wrap(err, "querying courses")
	}
	return courses, nil
}

func (repo courseRepository) QueryCoursesByTeacher(ctx context.Context, teacherUsername string) ([]course.Course, error) {
	courses := make([]course.Course, 0)
	const q = "SELECT course_id, course_name, teacher_username, credits FROM courses WHERE teacher_username = $1 ORDER BY course_id"
	if err := repo.db.SelectContext(ctx, &courses, q, teacherUsername); err != nil {
		return nil, errors.Wrap(err, "querying courses by teacher")
	}
	return courses, nil
}

func (repo courseRepository) QueryCoursesByStudent(ctx context.Context, studentUsername string) ([]course.StudentCourse, error) {
	const q = `
		SELECT c.course_id, c.course_name, c.teacher_username, c.credits
		FROM courses c
		JOIN enrollments e ON c.course_id = e.course_id
		WHERE e.student_username = $1
		ORDER BY c.course_id`
	courses := make([]course.StudentCourse, 0)
	if err := repo.db.SelectContext(ctx, &courses, q, studentUsername); err != nil {
		return nil, errors.Wrap(err, "querying courses by student")
	}
	return courses, nil
}

func (repo courseRepository) StudentExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	const q = "SELECT EXISTS (SELECT 1 FROM users WHERE username = $1 AND role = 'student')"
	if err := repo.db.QueryRowContext(ctx, q, username).Scan(&exists); err != nil {
		return false, errors.Wrap(err, "checking student exists")
	}
	return exists, nil
}

func (repo courseRepository) CreateEnrollment(ctx context.Context, enr course.Enrollment, exec ...core.DBExecutor) (course.Enrollment, error) {
	const q = `
		INSERT INTO enrollments (student_username, course_id, grade)
		VALUES ($1, $2, $3)
		RETURNING enrollment_id`
	err := getExec(repo.db.DB, exec).
		QueryRowContext(ctx, q, enr.StudentUsername, enr.CourseID, enr.Grade).
		Scan(&enr.ID)
	if err != nil {
		return course.Enrollment{}, errors.Wrap(err, "inserting enrollment")
	}
	return enr, nil
}

func (repo courseRepository) QueryEnrollmentsByTeacher(ctx context.Context, teacherUsername string) ([]course.EnrollmentInfo, error) {
	const q = `
		SELECT e.student_username, e.course_id, c.course_name, e.grade
		FROM enrollments e
		JOIN courses c ON e.course_id = c.course_id
		WHERE c.teacher_username = $1
		ORDER BY e.enrollment_id`
	enrs := make([]course.EnrollmentInfo, 0)
	if err := repo.db.SelectContext(ctx, &enrs, q, teacherUsername); err != nil {
		return nil, errors.Wrap(err, "querying enrollments by teacher")
	}
	return enrs, nil
}

func (repo courseRepository) QueryEnrollmentsByStudent(ctx context.Context, studentUsername string) ([]course.EnrollmentInfo, error) {
	const q = `
		SELECT e.student_username, e.course_id, c.course_name, e.grade
		FROM enrollments e
		JOIN courses c ON e.course_id = c.course_id
		WHERE e.student_username = $1
		ORDER BY e.enrollment_id`
	enrs := make([]course.EnrollmentInfo, 0)
	if err := repo.db.SelectContext(ctx, &enrs, q, studentUsername); err != nil {
		return nil, errors.Wrap(err, "querying enrollments by student")
	}
	return enrs, nil
}

func (repo courseRepository) UpdateGrade(ctx context.Context, studentUsername string, courseID int, grade float64) (int64, error) {
	const q = "UPDATE enrollments SET grade = $1 WHERE student_username = $2 AND course_id = $3"
	res, err := repo.db.ExecContext(ctx, q, grade, studentUsername, courseID)
	if err != nil {
		return 0, errors.Wrap(err, "updating grade")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "updating grade")
	}
	return n, nil
}
