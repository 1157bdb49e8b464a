package report

import (
	"strconv"
	"text/template"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/mwalimu/shule/core/user"
)

// Row is one line of the flat report join: an enrollment with its course,
// left-joined against attendance and timetable. Attendance and schedule
// columns are null when the course has none.
type Row struct {
	CourseName string       `json:"course_name" db:"course_name"`
	Grade      null.Float64 `json:"grade" db:"grade"`
	Status     null.String  `json:"status" db:"status"`
	Date       null.Time    `json:"date" db:"date"`
	Day        null.String  `json:"day" db:"day"`
	StartTime  null.String  `json:"start_time" db:"start_time"`
	EndTime    null.String  `json:"end_time" db:"end_time"`
}

// StudentReport is the rendered report's data.
type StudentReport struct {
	Student user.Student
	Rows    []Row
}

var reportTmpl = template.Must(template.New("report").
	Funcs(template.FuncMap{
		"orNone": func(s null.String) string {
			if s.Valid {
				return s.String
			}
			return "None"
		},
		"grade": func(g null.Float64) string {
			if g.Valid {
				return strconv.FormatFloat(g.Float64, 'f', -1, 64)
			}
			return "N/A"
		},
		"date": func(t null.Time) string { return t.Time.Format("2006-01-02") },
	}).
	Parse(`Report for {{.Student.Username}} (ID: {{.Student.StudentID}})
Grade Level: {{.Student.GradeLevel}}
Assigned Teacher: {{orNone .Student.AssignedTeacher}}

{{range .Rows}}Course: {{.CourseName}}
Grade: {{grade .Grade}}
{{if .Status.Valid}}Attendance: {{.Status.String}} on {{date .Date}}
{{end}}{{if .Day.Valid}}Schedule: {{.Day.String}} {{.StartTime.String}}-{{.EndTime.String}}
{{end}}
{{end}}`))

// Filename returns the report file name convention for a student and date.
func Filename(username string, now time.Time) string {
	return "report_" + username + "_" + now.Format("20060102") + ".txt"
}
