package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/mwalimu/shule/core/attendance"
	"github.com/mwalimu/shule/core/course"
	"github.com/mwalimu/shule/core/user"
)

func (t *terminal) teacherMenu(ctx context.Context, sess *user.Session) error {
	for {
		choice, err := t.menu("Teacher dashboard",
			"My courses",
			"My students",
			"View enrollments",
			"Enroll student",
			"Assign grade",
			"Mark attendance",
			"View attendance",
			"Log out",
		)
		if err != nil {
			return err
		}

		var actionErr error
		switch choice {
		case 1:
			actionErr = t.myCourses(ctx, sess)
		case 2:
			actionErr = t.myStudents(ctx, sess)
		case 3:
			actionErr = t.viewEnrollments(ctx, sess)
		case 4:
			actionErr = t.enrollStudent(ctx, sess)
		case 5:
			actionErr = t.assignGrade(ctx, sess)
		case 6:
			actionErr = t.markAttendance(ctx, sess)
		case 7:
			actionErr = t.viewAttendance(ctx, sess)
		case 8:
			return nil
		}
		if err := t.runAction(actionErr); err != nil {
			return err
		}
	}
}

func (t *terminal) myCourses(ctx context.Context, sess *user.Session) error {
	courses, err := t.crsSvc.MyCourses(ctx, sess)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(courses))
	for _, c := range courses {
		rows = append(rows, []string{strconv.Itoa(c.ID), c.Name, strconv.Itoa(c.Credits)})
	}
	t.table([]string{"ID", "COURSE", "CREDITS"}, rows)
	return nil
}

func (t *terminal) myStudents(ctx context.Context, sess *user.Session) error {
	students, err := t.usrSvc.MyStudents(ctx, sess)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(students))
	for _, s := range students {
		rows = append(rows, []string{s.StudentID, s.Username, s.Name, strconv.Itoa(s.GradeLevel)})
	}
	t.table([]string{"STUDENT ID", "USERNAME", "NAME", "GRADE LEVEL"}, rows)
	return nil
}

func (t *terminal) viewEnrollments(ctx context.Context, sess *user.Session) error {
	enrs, err := t.crsSvc.Enrollments(ctx, sess)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(enrs))
	for _, e := range enrs {
		rows = append(rows, []string{e.StudentUsername, e.CourseName, formatGrade(e.Grade.Float64, e.Grade.Valid)})
	}
	t.table([]string{"STUDENT", "COURSE", "GRADE"}, rows)
	return nil
}

func (t *terminal) enrollStudent(ctx context.Context, sess *user.Session) error {
	var ne course.NewEnrollment
	var err error

	if ne.StudentUsername, err = t.prompt("Student username: "); err != nil {
		return err
	}
	if ne.CourseID, err = t.promptInt("Course ID: "); err != nil {
		return err
	}

	if err := t.crsSvc.Enroll(ctx, sess, ne); err != nil {
		return err
	}
	fmt.Fprintln(t.out, "student enrolled")
	return nil
}

func (t *terminal) assignGrade(ctx context.Context, sess *user.Session) error {
	var ga course.GradeAssignment
	var err error

	if ga.StudentUsername, err = t.prompt("Student username: "); err != nil {
		return err
	}
	if ga.CourseID, err = t.promptInt("Course ID: "); err != nil {
		return err
	}
	if ga.Grade, err = t.promptFloat("Grade (0-100): "); err != nil {
		return err
	}

	if err := t.crsSvc.AssignGrade(ctx, sess, ga); err != nil {
		return err
	}
	fmt.Fprintln(t.out, "grade assigned")
	return nil
}

func (t *terminal) markAttendance(ctx context.Context, sess *user.Session) error {
	var na attendance.NewAttendance
	var err error

	if na.StudentUsername, err = t.prompt("Student username: "); err != nil {
		return err
	}
	if na.CourseID, err = t.promptInt("Course ID: "); err != nil {
		return err
	}
	if na.Status, err = t.prompt("Status (Present/Absent/Late): "); err != nil {
		return err
	}

	if err := t.attSvc.Mark(ctx, sess, na); err != nil {
		return err
	}
	fmt.Fprintln(t.out, "attendance recorded")
	return nil
}

func (t *terminal) viewAttendance(ctx context.Context, sess *user.Session) error {
	atts, err := t.attSvc.ByTeacher(ctx, sess)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(atts))
	for _, a := range atts {
		rows = append(rows, []string{a.StudentUsername, strconv.Itoa(a.CourseID), a.Date.Format("2006-01-02"), a.Status})
	}
	t.table([]string{"STUDENT", "COURSE ID", "DATE", "STATUS"}, rows)
	return nil
}
