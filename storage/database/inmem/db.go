// Package inmemdb is a map-backed storage backend used by the test suites and
// for running the app without PostgreSQL. It manages its own atomicity, so
// services are wired with a nil core.DB and the optional executor arguments
// are ignored.
package inmemdb

import (
	"sync"

	"github.com/mwalimu/shule/core/attendance"
	"github.com/mwalimu/shule/core/course"
	"github.com/mwalimu/shule/core/timetable"
	"github.com/mwalimu/shule/core/user"
)

type DB struct {
	mutex sync.RWMutex

	// tables; users and students are keyed by username, the rest by their
	// serial primary key
	users       map[string]*user.User
	students    map[string]*user.Student
	courses     map[int]*course.Course
	enrollments map[int]*course.Enrollment
	attendance  map[int]*attendance.Attendance
	timetable   map[int]*timetable.Entry

	// pk counters
	courseID     int
	enrollmentID int
	attendanceID int
	timetableID  int
}

func NewDB() *DB {
	return &DB{
		users:       make(map[string]*user.User),
		students:    make(map[string]*user.Student),
		courses:     make(map[int]*course.Course),
		enrollments: make(map[int]*course.Enrollment),
		attendance:  make(map[int]*attendance.Attendance),
		timetable:   make(map[int]*timetable.Entry),
	}
}
