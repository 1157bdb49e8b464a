package attendance

import (
	"time"

	"github.com/mwalimu/shule/core"
)

// Statuses
const (
	StatusPresent = "Present"
	StatusAbsent  = "Absent"
	StatusLate    = "Late"
)

var AllStatuses = []string{StatusPresent, StatusAbsent, StatusLate}

type Attendance struct {
	ID              int       `json:"id" db:"attendance_id"`
	StudentUsername string    `json:"student_username" db:"student_username"`
	CourseID        int       `json:"course_id" db:"course_id"`
	Date            time.Time `json:"date" db:"date"`
	Status          string    `json:"status" db:"status"`
}

// Record is an attendance row joined with its course name, for student views.
type Record struct {
	StudentUsername string    `json:"student_username" db:"student_username"`
	CourseID        int       `json:"course_id" db:"course_id"`
	CourseName      string    `json:"course_name" db:"course_name"`
	Date            time.Time `json:"date" db:"date"`
	Status          string    `json:"status" db:"status"`
}

type NewAttendance struct {
	StudentUsername string `json:"student_username" validate:"required"`
	CourseID        int    `json:"course_id" validate:"required,min=1"`
	Status          string `json:"status" validate:"required,oneof=Present Absent Late"`
}

func (na *NewAttendance) Validate() error {
	na.StudentUsername = core.CleanString(na.StudentUsername)
	na.Status = core.CleanString(na.Status)
	return core.TranslateValidatorErr(core.Validate.Struct(na))
}
