package course_test

import (
	"context"
	"io"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwalimu/shule/core"
	"github.com/mwalimu/shule/core/course"
	"github.com/mwalimu/shule/core/user"
	logsvc "github.com/mwalimu/shule/services/logger"
	inmemdb "github.com/mwalimu/shule/storage/database/inmem"
	testutil "github.com/mwalimu/shule/tests"
)

type testEnv struct {
	svc     *course.Service
	crsRepo course.Repository
	usrRepo user.Repository
}

func setup(t *testing.T) *testEnv {
	t.Helper()
	testutil.SetTestConfig()

	db := inmemdb.NewDB()
	crsRepo := inmemdb.NewCourseRepository(db)
	return &testEnv{
		svc:     course.NewService(crsRepo, logsvc.NewStdLogger(log.New(io.Discard, "", 0))),
		crsRepo: crsRepo,
		usrRepo: inmemdb.NewUserRepository(db),
	}
}

func teacherSession(uname string) *user.Session {
	return &user.Session{User: user.User{Username: uname, Role: user.RoleTeacher, IsActive: true}}
}

func TestService_CreateCourse(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	require.NoError(t, env.svc.CreateCourse(ctx, "Math", "jdoe"))

	courses, err := env.crsRepo.QueryAllCourses(ctx)
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "Math", courses[0].Name)
	assert.Equal(t, "jdoe", courses[0].TeacherUsername.String)
	assert.Equal(t, course.DefaultCredits, courses[0].Credits)
}

func TestService_Enroll(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	testutil.CreateUser(t, env.usrRepo, "Jane Doe", "jdoe", "jane@school.edu", "", user.RoleTeacher, true)
	testutil.CreateUser(t, env.usrRepo, "Mary Major", "mary", "mary@school.edu", "", user.RoleStudent, true)
	crs := testutil.CreateCourse(t, env.crsRepo, "Math", "jdoe")

	t.Run("student session denied", func(t *testing.T) {
		sess := &user.Session{User: user.User{Username: "mary", Role: user.RoleStudent, IsActive: true}}
		err := env.svc.Enroll(ctx, sess, course.NewEnrollment{StudentUsername: "mary", CourseID: crs.ID})
		assert.Equal(t, core.ErrPermissionDenied, err)
	})

	t.Run("unknown student", func(t *testing.T) {
		err := env.svc.Enroll(ctx, teacherSession("jdoe"), course.NewEnrollment{StudentUsername: "ghost", CourseID: crs.ID})
		require.Error(t, err)
		vErr, ok := err.(*core.ValidationError)
		require.True(t, ok)
		assert.Equal(t, "student_username", vErr.Fields[0].Field)
	})

	t.Run("teacher is not a student", func(t *testing.T) {
		err := env.svc.Enroll(ctx, teacherSession("jdoe"), course.NewEnrollment{StudentUsername: "jdoe", CourseID: crs.ID})
		require.Error(t, err)
		vErr, ok := err.(*core.ValidationError)
		require.True(t, ok)
		assert.Equal(t, "student_username", vErr.Fields[0].Field)
	})

	t.Run("unknown course", func(t *testing.T) {
		err := env.svc.Enroll(ctx, teacherSession("jdoe"), course.NewEnrollment{StudentUsername: "mary", CourseID: 999})
		require.Error(t, err)
		vErr, ok := err.(*core.ValidationError)
		require.True(t, ok)
		assert.Equal(t, "course_id", vErr.Fields[0].Field)
	})

	t.Run("ok", func(t *testing.T) {
		err := env.svc.Enroll(ctx, teacherSession("jdoe"), course.NewEnrollment{StudentUsername: "mary", CourseID: crs.ID})
		require.NoError(t, err)

		enrs, err := env.crsRepo.QueryEnrollmentsByStudent(ctx, "mary")
		require.NoError(t, err)
		require.Len(t, enrs, 1)
		assert.Equal(t, crs.ID, enrs[0].CourseID)
		assert.False(t, enrs[0].Grade.Valid, "grade starts null")
	})
}

func TestService_AssignGrade(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	testutil.CreateUser(t, env.usrRepo, "Mary Major", "mary", "mary@school.edu", "", user.RoleStudent, true)
	crs := testutil.CreateCourse(t, env.crsRepo, "Math", "jdoe")
	testutil.CreateEnrollment(t, env.crsRepo, "mary", crs.ID)

	tests := []struct {
		name    string
		sess    *user.Session
		ga      course.GradeAssignment
		wantErr error
	}{
		{
			name:    "grade above 100",
			sess:    teacherSession("jdoe"),
			ga:      course.GradeAssignment{StudentUsername: "mary", CourseID: crs.ID, Grade: 101},
			wantErr: core.ErrInvalidInput,
		},
		{
			name:    "unknown course",
			sess:    teacherSession("jdoe"),
			ga:      course.GradeAssignment{StudentUsername: "mary", CourseID: 999, Grade: 80},
			wantErr: course.ErrCourseNotFound,
		},
		{
			name:    "not the course owner",
			sess:    teacherSession("other"),
			ga:      course.GradeAssignment{StudentUsername: "mary", CourseID: crs.ID, Grade: 80},
			wantErr: course.ErrNotCourseOwner,
		},
		{
			name:    "no enrollment",
			sess:    teacherSession("jdoe"),
			ga:      course.GradeAssignment{StudentUsername: "ghost", CourseID: crs.ID, Grade: 80},
			wantErr: course.ErrEnrollmentNotFound,
		},
		{
			name: "ok",
			sess: teacherSession("jdoe"),
			ga:   course.GradeAssignment{StudentUsername: "mary", CourseID: crs.ID, Grade: 88.5},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := env.svc.AssignGrade(ctx, tt.sess, tt.ga)
			if tt.wantErr != nil {
				require.Error(t, err)
				if vErr, ok := err.(*core.ValidationError); ok {
					assert.Equal(t, tt.wantErr, vErr.Err)
				} else {
					assert.Equal(t, tt.wantErr, err)
				}
				return
			}
			require.NoError(t, err)

			enrs, err := env.crsRepo.QueryEnrollmentsByStudent(ctx, "mary")
			require.NoError(t, err)
			require.Len(t, enrs, 1)
			assert.Equal(t, 88.5, enrs[0].Grade.Float64)
		})
	}
}

func TestService_roleViews(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	testutil.CreateUser(t, env.usrRepo, "Mary Major", "mary", "mary@school.edu", "", user.RoleStudent, true)
	math := testutil.CreateCourse(t, env.crsRepo, "Math", "jdoe")
	testutil.CreateCourse(t, env.crsRepo, "History", "other")
	testutil.CreateEnrollment(t, env.crsRepo, "mary", math.ID, 72)

	t.Run("admin list requires admin", func(t *testing.T) {
		_, err := env.svc.QueryAll(ctx, teacherSession("jdoe"))
		assert.Equal(t, core.ErrPermissionDenied, err)
	})

	t.Run("teacher sees only own courses", func(t *testing.T) {
		courses, err := env.svc.MyCourses(ctx, teacherSession("jdoe"))
		require.NoError(t, err)
		require.Len(t, courses, 1)
		assert.Equal(t, "Math", courses[0].Name)
	})

	t.Run("teacher sees enrollments in own courses", func(t *testing.T) {
		enrs, err := env.svc.Enrollments(ctx, teacherSession("jdoe"))
		require.NoError(t, err)
		require.Len(t, enrs, 1)
		assert.Equal(t, "mary", enrs[0].StudentUsername)
		assert.Equal(t, "Math", enrs[0].CourseName)
	})

	t.Run("student sees own courses and grades", func(t *testing.T) {
		sess := &user.Session{User: user.User{Username: "mary", Role: user.RoleStudent, IsActive: true}}

		courses, err := env.svc.StudentCourses(ctx, sess)
		require.NoError(t, err)
		require.Len(t, courses, 1)
		assert.Equal(t, "Math", courses[0].CourseName)

		grades, err := env.svc.StudentGrades(ctx, sess)
		require.NoError(t, err)
		require.Len(t, grades, 1)
		assert.Equal(t, 72.0, grades[0].Grade.Float64)
	})
}
