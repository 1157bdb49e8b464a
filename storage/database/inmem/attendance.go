package inmemdb

import (
	"context"
	"sort"

	"github.com/volatiletech/null/v8"

	"github.com/mwalimu/shule/core"
	"github.com/mwalimu/shule/core/attendance"
)

type attendanceRepository struct {
	db *DB
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *DB) *attendanceRepository {
	return &attendanceRepository{db: db}
}

func (repo *attendanceRepository) query() []attendance.Attendance {
	atts := make([]attendance.Attendance, 0, len(repo.db.attendance))
	for _, att := range repo.db.attendance {
		atts = append(atts, *att)
	}
	// newest first, matching the SQL backend
	sort.Slice(atts, func(i, j int) bool { return atts[i].ID > atts[j].ID })
	return atts
}

func (repo *attendanceRepository) CreateAttendance(ctx context.Context, att attendance.Attendance, exec ...core.DBExecutor) (attendance.Attendance, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.attendanceID++
	att.ID = repo.db.attendanceID
	repo.db.attendance[att.ID] = &att
	return att, nil
}

func (repo *attendanceRepository) CourseTeacher(ctx context.Context, courseID int) (null.String, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if crs, ok := repo.db.courses[courseID]; ok {
		return crs.TeacherUsername, nil
	}
	return null.String{}, attendance.ErrCourseNotFound
}

func (repo *attendanceRepository) QueryByTeacher(ctx context.Context, teacherUsername string) ([]attendance.Attendance, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	atts := make([]attendance.Attendance, 0)
	for _, att := range repo.query() {
		crs, ok := repo.db.courses[att.CourseID]
		if ok && crs.TeacherUsername.String == teacherUsername {
			atts = append(atts, att)
		}
	}
	return atts, nil
}

func (repo *attendanceRepository) QueryByStudent(ctx context.Context, studentUsername string) ([]attendance.Record, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	recs := make([]attendance.Record, 0)
	for _, att := range repo.query() {
		if att.StudentUsername != studentUsername {
			continue
		}
		rec := attendance.Record{
			StudentUsername: att.StudentUsername,
			CourseID:        att.CourseID,
			Date:            att.Date,
			Status:          att.Status,
		}
		if crs, ok := repo.db.courses[att.CourseID]; ok {
			rec.CourseName = crs.Name
		}
		recs = append(recs, rec)
	}
	return recs, nil
}
