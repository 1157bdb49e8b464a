package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/mwalimu/shule/core"
	"github.com/mwalimu/shule/core/attendance"
)

type attendanceRepository struct {
	db *sqlx.DB
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *sqlx.DB) *attendanceRepository {
	return &attendanceRepository{db: db}
}

func (repo attendanceRepository) CreateAttendance(ctx context.Context, att attendance.Attendance, exec ...core.DBExecutor) (attendance.Attendance, error) {
	const q = `
		INSERT INTO attendance (student_username, course_id, date, status)
		VALUES ($1, $2, $3, $4)
		RETURNING attendance_id`
	err := getExec(repo.db.DB, exec).
		QueryRowContext(ctx, q, att.StudentUsername, att.CourseID, att.Date, att.Status).
		Scan(&att.ID)
	if err != nil {
		return attendance.Attendance{}, errors.Wrap(err, "inserting attendance")
	}
	return att, nil
}

func (repo attendanceRepository) CourseTeacher(ctx context.Context, courseID int) (null.String, error) {
	var teacher null.String
	err := repo.db.QueryRowContext(ctx, "SELECT teacher_username FROM courses WHERE course_id = $1", courseID).Scan(&teacher)
	if err != nil {
		if err == sql.ErrNoRows {
			return null.String{}, attendance.ErrCourseNotFound
		}
		return null.String{}, errors.Wrap(err, "getting course teacher")
	}
	return teacher, nil
}

func (repo attendanceRepository) QueryByTeacher(ctx context.Context, teacherUsername string) ([]attendance.Attendance, error) {
	const q = `
		SELECT a.attendance_id, a.student_username, a.course_id, a.date, a.status
		FROM attendance a
		JOIN courses c ON a.course_id = c.course_id
		WHERE c.teacher_username = $1
		ORDER BY a.date DESC, a.attendance_id DESC`
	atts := make([]attendance.Attendance, 0)
	if err := repo.db.SelectContext(ctx, &atts, q, teacherUsername); err != nil {
		return nil, errors.Wrap(err, "querying attendance by teacher")
	}
	return atts, nil
}

func (repo attendanceRepository) QueryByStudent(ctx context.Context, studentUsername string) ([]attendance.Record, error) {
	const q = `
		SELECT a.student_username, a.course_id, c.course_name, a.date, a.status
		FROM attendance a
		JOIN courses c ON a.course_id = c.course_id
		WHERE a.student_username = $1
		ORDER BY a.date DESC, a.attendance_id DESC`
	recs := make([]attendance.Record, 0)
	if err := repo.db.SelectContext(ctx, &recs, q, studentUsername); err != nil {
		return nil, errors.Wrap(err, "querying attendance by student")
	}
	return recs, nil
}
