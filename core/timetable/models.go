package timetable

import "github.com/mwalimu/shule/core"

// Days lists the school days in timetable order.
var Days = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}

type Entry struct {
	ID        int    `json:"id" db:"timetable_id"`
	CourseID  int    `json:"course_id" db:"course_id"`
	Day       string `json:"day" db:"day"`
	StartTime string `json:"start_time" db:"start_time"`
	EndTime   string `json:"end_time" db:"end_time"`
}

// StudentEntry is a timetable row joined with its course name, for the
// student's weekly view.
type StudentEntry struct {
	CourseID   int    `json:"course_id" db:"course_id"`
	CourseName string `json:"course_name" db:"course_name"`
	Day        string `json:"day" db:"day"`
	StartTime  string `json:"start_time" db:"start_time"`
	EndTime    string `json:"end_time" db:"end_time"`
}

type NewEntry struct {
	CourseID  int    `json:"course_id" validate:"required,min=1"`
	Day       string `json:"day" validate:"required,oneof=Monday Tuesday Wednesday Thursday Friday"`
	StartTime string `json:"start_time" validate:"required,hhmm"`
	EndTime   string `json:"end_time" validate:"required,hhmm"`
}

func (ne *NewEntry) Validate() error {
	ne.Day = core.CleanString(ne.Day)
	ne.StartTime = core.CleanString(ne.StartTime)
	ne.EndTime = core.CleanString(ne.EndTime)
	return core.TranslateValidatorErr(core.Validate.Struct(ne))
}
