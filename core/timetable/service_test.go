package timetable_test

import (
	"context"
	"io"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwalimu/shule/core"
	"github.com/mwalimu/shule/core/course"
	"github.com/mwalimu/shule/core/timetable"
	"github.com/mwalimu/shule/core/user"
	logsvc "github.com/mwalimu/shule/services/logger"
	inmemdb "github.com/mwalimu/shule/storage/database/inmem"
	testutil "github.com/mwalimu/shule/tests"
)

type testEnv struct {
	svc     *timetable.Service
	ttRepo  timetable.Repository
	crsRepo course.Repository
}

func setup(t *testing.T) *testEnv {
	t.Helper()
	testutil.SetTestConfig()

	db := inmemdb.NewDB()
	ttRepo := inmemdb.NewTimetableRepository(db)
	return &testEnv{
		svc:     timetable.NewService(ttRepo, logsvc.NewStdLogger(log.New(io.Discard, "", 0))),
		ttRepo:  ttRepo,
		crsRepo: inmemdb.NewCourseRepository(db),
	}
}

func adminSession() *user.Session {
	return &user.Session{User: user.User{Username: "root", Role: user.RoleAdmin, IsActive: true}}
}

func TestService_Add(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	crs := testutil.CreateCourse(t, env.crsRepo, "Math", "jdoe")

	tests := []struct {
		name      string
		sess      *user.Session
		ne        timetable.NewEntry
		wantErr   error
		wantField string
	}{
		{
			name:    "teacher session denied",
			sess:    &user.Session{User: user.User{Username: "jdoe", Role: user.RoleTeacher, IsActive: true}},
			ne:      timetable.NewEntry{CourseID: crs.ID, Day: "Monday", StartTime: "09:00", EndTime: "10:00"},
			wantErr: core.ErrPermissionDenied,
		},
		{
			name:      "invalid day",
			sess:      adminSession(),
			ne:        timetable.NewEntry{CourseID: crs.ID, Day: "Sunday", StartTime: "09:00", EndTime: "10:00"},
			wantErr:   core.ErrInvalidInput,
			wantField: "day",
		},
		{
			name:      "invalid start time",
			sess:      adminSession(),
			ne:        timetable.NewEntry{CourseID: crs.ID, Day: "Monday", StartTime: "9am", EndTime: "10:00"},
			wantErr:   core.ErrInvalidInput,
			wantField: "start_time",
		},
		{
			name:      "invalid end time",
			sess:      adminSession(),
			ne:        timetable.NewEntry{CourseID: crs.ID, Day: "Monday", StartTime: "09:00", EndTime: "25:00"},
			wantErr:   core.ErrInvalidInput,
			wantField: "end_time",
		},
		{
			name:      "unknown course",
			sess:      adminSession(),
			ne:        timetable.NewEntry{CourseID: 999, Day: "Monday", StartTime: "09:00", EndTime: "10:00"},
			wantErr:   timetable.ErrCourseNotFound,
			wantField: "course_id",
		},
		{
			name: "ok",
			sess: adminSession(),
			ne:   timetable.NewEntry{CourseID: crs.ID, Day: "Monday", StartTime: "09:00", EndTime: "10:00"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := env.svc.Add(ctx, tt.sess, tt.ne)
			if tt.wantErr != nil {
				require.Error(t, err)
				if vErr, ok := err.(*core.ValidationError); ok {
					assert.Equal(t, tt.wantErr, vErr.Err)
					require.NotEmpty(t, vErr.Fields)
					assert.Equal(t, tt.wantField, vErr.Fields[0].Field)
				} else {
					assert.Equal(t, tt.wantErr, err)
				}
				return
			}
			require.NoError(t, err)

			entries, err := env.svc.All(ctx, adminSession())
			require.NoError(t, err)
			require.Len(t, entries, 1)
			assert.Equal(t, crs.ID, entries[0].CourseID)
			assert.Equal(t, "Monday", entries[0].Day)
		})
	}
}

func TestService_MyTimetable(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	math := testutil.CreateCourse(t, env.crsRepo, "Math", "jdoe")
	history := testutil.CreateCourse(t, env.crsRepo, "History", "other")
	testutil.CreateTimetableEntry(t, env.ttRepo, math.ID, "Monday", "09:00", "10:00")
	testutil.CreateTimetableEntry(t, env.ttRepo, history.ID, "Tuesday", "11:00", "12:00")
	testutil.CreateEnrollment(t, env.crsRepo, "mary", math.ID)

	t.Run("admin session denied", func(t *testing.T) {
		_, err := env.svc.MyTimetable(ctx, adminSession())
		assert.Equal(t, core.ErrPermissionDenied, err)
	})

	t.Run("only enrolled courses", func(t *testing.T) {
		sess := &user.Session{User: user.User{Username: "mary", Role: user.RoleStudent, IsActive: true}}
		entries, err := env.svc.MyTimetable(ctx, sess)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "Math", entries[0].CourseName)
		assert.Equal(t, "09:00", entries[0].StartTime)
	})
}
