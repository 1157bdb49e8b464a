package inmemdb

import (
	"context"
	"sort"

	"github.com/mwalimu/shule/core"
	"github.com/mwalimu/shule/core/timetable"
)

type timetableRepository struct {
	db *DB
}

var _ timetable.Repository = (*timetableRepository)(nil) // interface compliance check

func NewTimetableRepository(db *DB) *timetableRepository {
	return &timetableRepository{db: db}
}

func (repo *timetableRepository) query() []timetable.Entry {
	entries := make([]timetable.Entry, 0, len(repo.db.timetable))
	for _, e := range repo.db.timetable {
		entries = append(entries, *e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries
}

func (repo *timetableRepository) CreateEntry(ctx context.Context, e timetable.Entry, exec ...core.DBExecutor) (timetable.Entry, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.timetableID++
	e.ID = repo.db.timetableID
	repo.db.timetable[e.ID] = &e
	return e, nil
}

func (repo *timetableRepository) CourseExists(ctx context.Context, courseID int) (bool, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	_, ok := repo.db.courses[courseID]
	return ok, nil
}

func (repo *timetableRepository) QueryAllEntries(ctx context.Context) ([]timetable.Entry, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.query(), nil
}

func (repo *timetableRepository) QueryEntriesByStudent(ctx context.Context, studentUsername string) ([]timetable.StudentEntry, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	enrolled := make(map[int]bool)
	for _, enr := range repo.db.enrollments {
		if enr.StudentUsername == studentUsername {
			enrolled[enr.CourseID] = true
		}
	}

	entries := make([]timetable.StudentEntry, 0)
	for _, e := range repo.query() {
		if !enrolled[e.CourseID] {
			continue
		}
		se := timetable.StudentEntry{
			CourseID:  e.CourseID,
			Day:       e.Day,
			StartTime: e.StartTime,
			EndTime:   e.EndTime,
		}
		if crs, ok := repo.db.courses[e.CourseID]; ok {
			se.CourseName = crs.Name
		}
		entries = append(entries, se)
	}
	return entries, nil
}
