// Package testutil provides fixture helpers shared by the test suites. They
// write through the repositories directly so tests can arrange state without
// going through the services' authorization and validation layers.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/mwalimu/shule/core"
	"github.com/mwalimu/shule/core/attendance"
	"github.com/mwalimu/shule/core/course"
	"github.com/mwalimu/shule/core/timetable"
	"github.com/mwalimu/shule/core/user"
)

// SetTestConfig points core.Conf at a minimal test configuration.
func SetTestConfig() {
	core.Conf = &core.Config{
		Env:      "TEST",
		TestMode: true,
		AppName:  "Shule",
		WorkDir:  core.Getwd(),
	}
}

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, uname, email, pwd, role string,
	isActive bool,
	createdAt ...time.Time,
) user.User {
	t.Helper()

	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		Name:      name,
		Username:  uname,
		Email:     email,
		Role:      role,
		IsActive:  isActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateStudent(
	t *testing.T,
	repo user.Repository,
	uname string,
	gradeLevel int,
	assignedTeacher string,
) user.Student {
	t.Helper()

	st := user.Student{
		StudentID:  user.DeriveStudentID(uname, gradeLevel),
		Username:   uname,
		GradeLevel: gradeLevel,
	}
	if assignedTeacher != "" {
		st.AssignedTeacher.SetValid(assignedTeacher)
	}
	st, err := repo.CreateStudent(context.Background(), st)
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return st
}

func CreateCourse(t *testing.T, repo course.Repository, name, teacherUsername string) course.Course {
	t.Helper()

	crs := course.Course{Name: name, Credits: course.DefaultCredits}
	if teacherUsername != "" {
		crs.TeacherUsername.SetValid(teacherUsername)
	}
	crs, err := repo.CreateCourse(context.Background(), crs)
	if err != nil {
		t.Fatalf("CreateCourse() failed: %v", err)
	}
	return crs
}

func CreateEnrollment(t *testing.T, repo course.Repository, studentUsername string, courseID int, grade ...float64) course.Enrollment {
	t.Helper()

	enr := course.Enrollment{StudentUsername: studentUsername, CourseID: courseID}
	if len(grade) > 0 {
		enr.Grade = null.Float64From(grade[0])
	}
	enr, err := repo.CreateEnrollment(context.Background(), enr)
	if err != nil {
		t.Fatalf("CreateEnrollment() failed: %v", err)
	}
	return enr
}

func CreateAttendance(t *testing.T, repo attendance.Repository, studentUsername string, courseID int, date time.Time, status string) attendance.Attendance {
	t.Helper()

	att, err := repo.CreateAttendance(context.Background(), attendance.Attendance{
		StudentUsername: studentUsername,
		CourseID:        courseID,
		Date:            date,
		Status:          status,
	})
	if err != nil {
		t.Fatalf("CreateAttendance() failed: %v", err)
	}
	return att
}

func CreateTimetableEntry(t *testing.T, repo timetable.Repository, courseID int, day, start, end string) timetable.Entry {
	t.Helper()

	e, err := repo.CreateEntry(context.Background(), timetable.Entry{
		CourseID:  courseID,
		Day:       day,
		StartTime: start,
		EndTime:   end,
	})
	if err != nil {
		t.Fatalf("CreateTimetableEntry() failed: %v", err)
	}
	return e
}
