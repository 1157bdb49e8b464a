package inmemdb

import (
	"context"
	"sort"

	"github.com/mwalimu/shule/core/report"
	"github.com/mwalimu/shule/core/user"
)

type reportRepository struct {
	db *DB
}

var _ report.Repository = (*reportRepository)(nil) // interface compliance check

func NewReportRepository(db *DB) *reportRepository {
	return &reportRepository{db: db}
}

func (repo *reportRepository) GetStudent(ctx context.Context, username string) (user.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if st, ok := repo.db.students[username]; ok {
		return *st, nil
	}
	return user.Student{}, report.ErrStudentNotFound
}

// QueryReportRows mirrors the SQL backend's flat join: one row per
// (enrollment, attendance, timetable) combination, with null attendance and
// schedule columns when a course has none.
func (repo *reportRepository) QueryReportRows(ctx context.Context, username string) ([]report.Row, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	enrIDs := make([]int, 0)
	for id, enr := range repo.db.enrollments {
		if enr.StudentUsername == username {
			enrIDs = append(enrIDs, id)
		}
	}
	sort.Ints(enrIDs)

	rows := make([]report.Row, 0)
	for _, id := range enrIDs {
		enr := repo.db.enrollments[id]

		base := report.Row{Grade: enr.Grade}
		if crs, ok := repo.db.courses[enr.CourseID]; ok {
			base.CourseName = crs.Name
		}

		attRows := []report.Row{base}
		attIDs := make([]int, 0)
		for aid, att := range repo.db.attendance {
			if att.StudentUsername == username && att.CourseID == enr.CourseID {
				attIDs = append(attIDs, aid)
			}
		}
		if len(attIDs) > 0 {
			sort.Ints(attIDs)
			attRows = attRows[:0]
			for _, aid := range attIDs {
				att := repo.db.attendance[aid]
				row := base
				row.Status.SetValid(att.Status)
				row.Date.SetValid(att.Date)
				attRows = append(attRows, row)
			}
		}

		ttIDs := make([]int, 0)
		for tid, e := range repo.db.timetable {
			if e.CourseID == enr.CourseID {
				ttIDs = append(ttIDs, tid)
			}
		}
		if len(ttIDs) == 0 {
			rows = append(rows, attRows...)
			continue
		}
		sort.Ints(ttIDs)
		for _, attRow := range attRows {
			for _, tid := range ttIDs {
				e := repo.db.timetable[tid]
				row := attRow
				row.Day.SetValid(e.Day)
				row.StartTime.SetValid(e.StartTime)
				row.EndTime.SetValid(e.EndTime)
				rows = append(rows, row)
			}
		}
	}
	return rows, nil
}
