package user_test

import (
	"context"
	"io"
	"log"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwalimu/shule/core"
	"github.com/mwalimu/shule/core/course"
	"github.com/mwalimu/shule/core/user"
	dummymail "github.com/mwalimu/shule/services/email/dummy"
	logsvc "github.com/mwalimu/shule/services/logger"
	inmemdb "github.com/mwalimu/shule/storage/database/inmem"
	testutil "github.com/mwalimu/shule/tests"
)

type testEnv struct {
	usrSvc  *user.Service
	crsSvc  *course.Service
	usrRepo user.Repository
	crsRepo course.Repository
	mailSvc *dummymail.Service
}

func setup(t *testing.T) *testEnv {
	t.Helper()
	testutil.SetTestConfig()

	db := inmemdb.NewDB()
	logger := logsvc.NewStdLogger(log.New(io.Discard, "", 0))
	mailSvc := dummymail.NewService()
	usrRepo := inmemdb.NewUserRepository(db)
	crsRepo := inmemdb.NewCourseRepository(db)
	crsSvc := course.NewService(crsRepo, logger)
	return &testEnv{
		usrSvc:  user.NewService(nil, usrRepo, crsSvc, mailSvc, logger),
		crsSvc:  crsSvc,
		usrRepo: usrRepo,
		crsRepo: crsRepo,
		mailSvc: mailSvc,
	}
}

func adminSession() *user.Session {
	return &user.Session{User: user.User{Username: "root", Role: user.RoleAdmin, IsActive: true}}
}

// assertFieldError checks that err is a validation error carrying the field.
func assertFieldError(t *testing.T, err error, field string) {
	t.Helper()
	vErr, ok := err.(*core.ValidationError)
	require.Truef(t, ok, "expected *core.ValidationError, got %T: %v", err, err)
	for _, fe := range vErr.Fields {
		if fe.Field == field {
			return
		}
	}
	t.Errorf("no error for field %q in %+v", field, vErr.Fields)
}

func TestService_Authenticate(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	testutil.CreateUser(t, env.usrRepo, "Alice", "Alice", "alice@school.edu", "S3cretPass!", user.RoleTeacher, true)
	testutil.CreateUser(t, env.usrRepo, "Bob", "bob", "bob@school.edu", "S3cretPass!", user.RoleStudent, false)

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{name: "ok", username: "Alice", password: "S3cretPass!"},
		{name: "username is case-sensitive", username: "alice", password: "S3cretPass!", wantErr: user.ErrInvalidCredentials},
		{name: "wrong password", username: "Alice", password: "s3cretPass!", wantErr: user.ErrInvalidCredentials},
		{name: "unknown user", username: "nobody", password: "S3cretPass!", wantErr: user.ErrInvalidCredentials},
		{name: "inactive user", username: "bob", password: "S3cretPass!", wantErr: user.ErrUserInactive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess, err := env.usrSvc.Authenticate(ctx, tt.username, tt.password)
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
				assert.Nil(t, sess)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.username, sess.User.Username)
			assert.True(t, sess.User.LastLogin.Valid, "last login should be recorded")
		})
	}
}

func TestService_Create_permissions(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	sessions := map[string]*user.Session{
		"nil session":     nil,
		"student session": {User: user.User{Role: user.RoleStudent, IsActive: true}},
		"teacher session": {User: user.User{Role: user.RoleTeacher, IsActive: true}},
	}
	for name, sess := range sessions {
		t.Run(name, func(t *testing.T) {
			_, err := env.usrSvc.Create(ctx, sess, user.NewUser{})
			assert.Equal(t, core.ErrPermissionDenied, err)
		})
	}
}

func TestService_Create_teacherWithCourses(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	usr, err := env.usrSvc.Create(ctx, adminSession(), user.NewUser{
		Name:            "Jane Doe",
		Username:        "jdoe",
		Email:           "jane@school.edu",
		Role:            user.RoleTeacher,
		Password:        "S3cretPass!",
		PasswordConfirm: "S3cretPass!",
		Courses:         "Math, Science",
	})
	require.NoError(t, err)
	assert.True(t, usr.IsActive)

	courses, err := env.crsRepo.QueryCoursesByTeacher(ctx, "jdoe")
	require.NoError(t, err)
	require.Len(t, courses, 2)
	names := []string{courses[0].Name, courses[1].Name}
	assert.ElementsMatch(t, []string{"Math", "Science"}, names)
	for _, crs := range courses {
		assert.Equal(t, course.DefaultCredits, crs.Credits)
		assert.Equal(t, "jdoe", crs.TeacherUsername.String)
	}

	require.Len(t, env.mailSvc.SentMessages, 1)
	assert.Equal(t, "Welcome", env.mailSvc.SentMessages[0].Subject)
}

func TestService_Create_studentAutoEnroll(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	_, err := env.usrSvc.Create(ctx, adminSession(), user.NewUser{
		Name:            "Jane Doe",
		Username:        "jdoe",
		Email:           "jane@school.edu",
		Role:            user.RoleTeacher,
		Password:        "S3cretPass!",
		PasswordConfirm: "S3cretPass!",
		Courses:         "Math, Science",
	})
	require.NoError(t, err)

	_, err = env.usrSvc.Create(ctx, adminSession(), user.NewUser{
		Name:            "Mary Major",
		Username:        "mary",
		Email:           "mary@school.edu",
		Role:            user.RoleStudent,
		Password:        "S3cretPass!",
		PasswordConfirm: "S3cretPass!",
		GradeLevel:      7,
		AssignedTeacher: "jdoe",
	})
	require.NoError(t, err)

	st, err := env.usrRepo.GetStudent(ctx, "mary")
	require.NoError(t, err)
	assert.Equal(t, user.DeriveStudentID("mary", 7), st.StudentID)
	assert.Equal(t, 7, st.GradeLevel)
	assert.Equal(t, "jdoe", st.AssignedTeacher.String)

	// enrolled into every course taught by the assigned teacher, ungraded
	enrs, err := env.crsRepo.QueryEnrollmentsByStudent(ctx, "mary")
	require.NoError(t, err)
	require.Len(t, enrs, 2)
	for _, enr := range enrs {
		assert.False(t, enr.Grade.Valid)
	}

	students, err := env.usrRepo.QueryStudentsByTeacher(ctx, "jdoe")
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "mary", students[0].Username)
}

func TestService_Create_validation(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	testutil.CreateUser(t, env.usrRepo, "Taken", "taken", "taken@school.edu", "S3cretPass!", user.RoleTeacher, true)

	valid := user.NewUser{
		Name:            "Mary Major",
		Username:        "mary",
		Email:           "mary@school.edu",
		Role:            user.RoleStudent,
		Password:        "S3cretPass!",
		PasswordConfirm: "S3cretPass!",
		GradeLevel:      7,
	}

	tests := []struct {
		name      string
		mutate    func(nu *user.NewUser)
		wantField string
	}{
		{name: "duplicate username", mutate: func(nu *user.NewUser) { nu.Username = "taken"; nu.Email = "other@school.edu" }, wantField: "username"},
		{name: "duplicate email", mutate: func(nu *user.NewUser) { nu.Username = "other"; nu.Email = "taken@school.edu" }, wantField: "email"},
		{name: "invalid email", mutate: func(nu *user.NewUser) { nu.Email = "nope" }, wantField: "email"},
		{name: "unknown role", mutate: func(nu *user.NewUser) { nu.Role = "janitor" }, wantField: "role"},
		{name: "student without grade level", mutate: func(nu *user.NewUser) { nu.GradeLevel = 0 }, wantField: "grade_level"},
		{name: "grade level out of range", mutate: func(nu *user.NewUser) { nu.GradeLevel = 13 }, wantField: "grade_level"},
		{name: "short password", mutate: func(nu *user.NewUser) { nu.Password = "abc"; nu.PasswordConfirm = "abc" }, wantField: "password"},
		{name: "all-numeric password", mutate: func(nu *user.NewUser) { nu.Password = "12345678"; nu.PasswordConfirm = "12345678" }, wantField: "password"},
		{name: "password similar to username", mutate: func(nu *user.NewUser) { nu.Password = "marymary"; nu.PasswordConfirm = "marymary" }, wantField: "password"},
		{name: "password mismatch", mutate: func(nu *user.NewUser) { nu.PasswordConfirm = "Different1!" }, wantField: "password_confirm"},
		{name: "unknown assigned teacher", mutate: func(nu *user.NewUser) { nu.AssignedTeacher = "ghost" }, wantField: "assigned_teacher"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nu := valid
			tt.mutate(&nu)
			_, err := env.usrSvc.Create(ctx, adminSession(), nu)
			require.Error(t, err)
			assertFieldError(t, err, tt.wantField)
		})
	}
}

func TestService_EnsureInitialAdmin(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	require.NoError(t, env.usrSvc.EnsureInitialAdmin(ctx, "admin", "admin123"))

	usr, err := env.usrRepo.GetUserByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, user.RoleAdmin, usr.Role)
	assert.True(t, usr.IsActive)
	assert.NoError(t, usr.CheckPassword("admin123"))

	// second run is a no-op
	require.NoError(t, env.usrSvc.EnsureInitialAdmin(ctx, "admin2", "admin123"))
	_, err = env.usrRepo.GetUserByUsername(ctx, "admin2")
	assert.Equal(t, user.ErrNotFound, err)
}

func TestSplitCourseNames(t *testing.T) {
	tests := []struct {
		name string
		csv  string
		want []string
	}{
		{name: "empty", csv: "", want: nil},
		{name: "single", csv: "Math", want: []string{"Math"}},
		{name: "spaces trimmed", csv: " Math , Science ", want: []string{"Math", "Science"}},
		{name: "empty entries dropped", csv: "Math,,Science,", want: []string{"Math", "Science"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := user.SplitCourseNames(tt.csv); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitCourseNames() = %v, want %v", got, tt.want)
			}
		})
	}
}
