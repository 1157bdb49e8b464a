package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/mwalimu/shule/core"
	"github.com/mwalimu/shule/core/user"
)

func (t *terminal) studentMenu(ctx context.Context, sess *user.Session) error {
	for {
		choice, err := t.menu("Student dashboard",
			"My courses",
			"My grades",
			"My attendance",
			"My timetable",
			"Export my report",
			"Log out",
		)
		if err != nil {
			return err
		}

		var actionErr error
		switch choice {
		case 1:
			actionErr = t.studentCourses(ctx, sess)
		case 2:
			actionErr = t.studentGrades(ctx, sess)
		case 3:
			actionErr = t.studentAttendance(ctx, sess)
		case 4:
			actionErr = t.studentTimetable(ctx, sess)
		case 5:
			actionErr = t.studentExportReport(ctx, sess)
		case 6:
			return nil
		}
		if err := t.runAction(actionErr); err != nil {
			return err
		}
	}
}

func (t *terminal) studentCourses(ctx context.Context, sess *user.Session) error {
	courses, err := t.crsSvc.StudentCourses(ctx, sess)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(courses))
	for _, c := range courses {
		rows = append(rows, []string{strconv.Itoa(c.CourseID), c.CourseName, orNone(c.TeacherUsername), strconv.Itoa(c.Credits)})
	}
	t.table([]string{"ID", "COURSE", "TEACHER", "CREDITS"}, rows)
	return nil
}

func (t *terminal) studentGrades(ctx context.Context, sess *user.Session) error {
	enrs, err := t.crsSvc.StudentGrades(ctx, sess)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(enrs))
	for _, e := range enrs {
		rows = append(rows, []string{e.CourseName, formatGrade(e.Grade.Float64, e.Grade.Valid)})
	}
	t.table([]string{"COURSE", "GRADE"}, rows)
	return nil
}

func (t *terminal) studentAttendance(ctx context.Context, sess *user.Session) error {
	recs, err := t.attSvc.MyAttendance(ctx, sess)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, []string{r.CourseName, r.Date.Format("2006-01-02"), r.Status})
	}
	t.table([]string{"COURSE", "DATE", "STATUS"}, rows)
	return nil
}

func (t *terminal) studentExportReport(ctx context.Context, sess *user.Session) error {
	path, err := t.rptSvc.Export(ctx, sess.User.Username, core.Conf.ReportsDir)
	if err != nil {
		return err
	}
	fmt.Fprintf(t.out, "report written to %s\n", path)
	return nil
}

func (t *terminal) studentTimetable(ctx context.Context, sess *user.Session) error {
	entries, err := t.ttSvc.MyTimetable(ctx, sess)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.CourseName, e.Day, e.StartTime + "-" + e.EndTime})
	}
	t.table([]string{"COURSE", "DAY", "TIME"}, rows)
	return nil
}
