package course

import (
	"github.com/volatiletech/null/v8"

	"github.com/mwalimu/shule/core"
)

// DefaultCredits is the credit count given to courses created without an
// explicit value.
const DefaultCredits = 3

type Course struct {
	ID              int         `json:"id" db:"course_id"`
	Name            string      `json:"name" db:"course_name"`
	TeacherUsername null.String `json:"teacher_username" db:"teacher_username"`
	Credits         int         `json:"credits" db:"credits"`
}

// Enrollment links a student to a course; the grade stays null until a
// teacher assigns one.
type Enrollment struct {
	ID              int          `json:"id" db:"enrollment_id"`
	StudentUsername string       `json:"student_username" db:"student_username"`
	CourseID        int          `json:"course_id" db:"course_id"`
	Grade           null.Float64 `json:"grade" db:"grade"`
}

// EnrollmentInfo is an enrollment row joined with its course name, as listed
// on the teacher dashboard.
type EnrollmentInfo struct {
	StudentUsername string       `json:"student_username" db:"student_username"`
	CourseID        int          `json:"course_id" db:"course_id"`
	CourseName      string       `json:"course_name" db:"course_name"`
	Grade           null.Float64 `json:"grade" db:"grade"`
}

// StudentCourse is a course row joined through the student's enrollments.
type StudentCourse struct {
	CourseID        int         `json:"course_id" db:"course_id"`
	CourseName      string      `json:"course_name" db:"course_name"`
	TeacherUsername null.String `json:"teacher_username" db:"teacher_username"`
	Credits         int         `json:"credits" db:"credits"`
}

type NewEnrollment struct {
	StudentUsername string `json:"student_username" validate:"required"`
	CourseID        int    `json:"course_id" validate:"required,min=1"`
}

func (ne *NewEnrollment) Validate() error {
	ne.StudentUsername = core.CleanString(ne.StudentUsername)
	return core.TranslateValidatorErr(core.Validate.Struct(ne))
}

type GradeAssignment struct {
	StudentUsername string  `json:"student_username" validate:"required"`
	CourseID        int     `json:"course_id" validate:"required,min=1"`
	Grade           float64 `json:"grade" validate:"min=0,max=100"`
}

func (ga *GradeAssignment) Validate() error {
	ga.StudentUsername = core.CleanString(ga.StudentUsername)
	return core.TranslateValidatorErr(core.Validate.Struct(ga))
}
