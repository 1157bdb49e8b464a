package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/mwalimu/shule/core"
	"github.com/mwalimu/shule/core/timetable"
)

type timetableRepository struct {
	db *sqlx.DB
}

var _ timetable.Repository = (*timetableRepository)(nil) // interface compliance check

func NewTimetableRepository(db *sqlx.DB) *timetableRepository {
	return &timetableRepository{db: db}
}

func (repo timetableRepository) CreateEntry(ctx context.Context, e timetable.Entry, exec ...core.DBExecutor) (timetable.Entry, error) {
	const q = `
		INSERT INTO timetable (course_id, day, start_time, end_time)
		VALUES ($1, $2, $3, $4)
		RETURNING timetable_id`
	err := getExec(repo.db.DB, exec).
		QueryRowContext(ctx, q, e.CourseID, e.Day, e.StartTime, e.EndTime).
		Scan(&e.ID)
	if err != nil {
		return timetable.Entry{}, errors.Wrap(err, "inserting timetable entry")
	}
	return e, nil
}

func (repo timetableRepository) CourseExists(ctx context.Context, courseID int) (bool, error) {
	var exists bool
	const q = "SELECT EXISTS (SELECT 1 FROM courses WHERE course_id = $1)"
	if err := repo.db.QueryRowContext(ctx, q, courseID).Scan(&exists); err != nil {
		return false, errors.Wrap(err, "checking course exists")
	}
	return exists, nil
}

func (repo timetableRepository) QueryAllEntries(ctx context.Context) ([]timetable.Entry, error) {
	entries := make([]timetable.Entry, 0)
	const q = "SELECT timetable_id, course_id, day, start_time, end_time FROM timetable ORDER BY timetable_id"
	if err := repo.db.SelectContext(ctx, &entries, q); err != nil {
		return nil, errors.Wrap(err, "querying timetable")
	}
	return entries, nil
}

func (repo timetableRepository) QueryEntriesByStudent(ctx context.Context, studentUsername string) ([]timetable.StudentEntry, error) {
	const q = `
		SELECT t.course_id, c.course_name, t.day, t.start_time, t.end_time
		FROM timetable t
		JOIN courses c ON t.course_id = c.course_id
		JOIN enrollments e ON e.course_id = t.course_id
		WHERE e.student_username = $1
		ORDER BY t.timetable_id`
	entries := make([]timetable.StudentEntry, 0)
	if err := repo.db.SelectContext(ctx, &entries, q, studentUsername); err != nil {
		return nil, errors.Wrap(err, "querying timetable by student")
	}
	return entries, nil
}
