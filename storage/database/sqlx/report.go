package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/mwalimu/shule/core/report"
	"github.com/mwalimu/shule/core/user"
)

type reportRepository struct {
	db *sqlx.DB
}

var _ report.Repository = (*reportRepository)(nil) // interface compliance check

func NewReportRepository(db *sqlx.DB) *reportRepository {
	return &reportRepository{db: db}
}

func (repo reportRepository) GetStudent(ctx context.Context, username string) (user.Student, error) {
	var st user.Student
	const q = "SELECT student_id, username, grade_level, assigned_teacher FROM students WHERE username = $1"
	if err := repo.db.GetContext(ctx, &st, q, username); err != nil {
		if err == sql.ErrNoRows {
			return user.Student{}, report.ErrStudentNotFound
		}
		return user.Student{}, errors.Wrap(err, "getting student")
	}
	return st, nil
}

func (repo reportRepository) QueryReportRows(ctx context.Context, username string) ([]report.Row, error) {
	const q = `
		SELECT c.course_name, e.grade, a.status, a.date, t.day, t.start_time, t.end_time
		FROM enrollments e
		JOIN courses c ON e.course_id = c.course_id
		LEFT JOIN attendance a ON a.student_username = e.student_username AND a.course_id = e.course_id
		LEFT JOIN timetable t ON t.course_id = e.course_id
		WHERE e.student_username = $1
		ORDER BY e.enrollment_id, a.attendance_id, t.timetable_id`
	rows := make([]report.Row, 0)
	if err := repo.db.SelectContext(ctx, &rows, q, username); err != nil {
		return nil, errors.Wrap(err, "querying report rows")
	}
	return rows, nil
}
