package main

import (
	"context"
	"fmt"
	"net/mail"
	"strconv"

	"github.com/volatiletech/null/v8"

	"github.com/mwalimu/shule/core"
	"github.com/mwalimu/shule/core/timetable"
	"github.com/mwalimu/shule/core/user"
)

func (t *terminal) adminMenu(ctx context.Context, sess *user.Session) error {
	for {
		choice, err := t.menu("Admin dashboard",
			"Add user",
			"List users",
			"List courses",
			"View timetable",
			"Add timetable entry",
			"Export student report",
			"Email student report",
			"Log out",
		)
		if err != nil {
			return err
		}

		var actionErr error
		switch choice {
		case 1:
			actionErr = t.addUserForm(ctx, sess)
		case 2:
			actionErr = t.listUsers(ctx, sess)
		case 3:
			actionErr = t.listCourses(ctx, sess)
		case 4:
			actionErr = t.viewTimetable(ctx, sess)
		case 5:
			actionErr = t.addTimetableEntry(ctx, sess)
		case 6:
			actionErr = t.exportReport(ctx)
		case 7:
			actionErr = t.emailReport(ctx)
		case 8:
			return nil
		}
		if err := t.runAction(actionErr); err != nil {
			return err
		}
	}
}

func (t *terminal) addUserForm(ctx context.Context, sess *user.Session) error {
	var nu user.NewUser
	var err error

	if nu.Name, err = t.prompt("Full name: "); err != nil {
		return err
	}
	if nu.Username, err = t.prompt("Username: "); err != nil {
		return err
	}
	if nu.Email, err = t.prompt("Email: "); err != nil {
		return err
	}
	if nu.Phone, err = t.prompt("Phone (optional): "); err != nil {
		return err
	}
	if nu.Role, err = t.prompt("Role (admin/teacher/student): "); err != nil {
		return err
	}

	switch nu.Role {
	case user.RoleStudent:
		if nu.GradeLevel, err = t.promptInt(fmt.Sprintf("Grade level (%d-%d): ", user.MinGradeLevel, user.MaxGradeLevel)); err != nil {
			return err
		}
		if err = t.listTeachers(ctx, sess); err != nil {
			return err
		}
		if nu.AssignedTeacher, err = t.prompt("Assigned teacher username (optional): "); err != nil {
			return err
		}
	case user.RoleTeacher:
		if nu.Courses, err = t.prompt("Courses taught (comma-separated): "); err != nil {
			return err
		}
	}

	if nu.Password, err = t.promptPassword("Password: "); err != nil {
		return err
	}
	if nu.PasswordConfirm, err = t.promptPassword("Confirm password: "); err != nil {
		return err
	}

	usr, err := t.usrSvc.Create(ctx, sess, nu)
	if err != nil {
		return err
	}
	fmt.Fprintf(t.out, "user %q created\n", usr.Username)
	if usr.IsStudent() {
		if st, err := t.usrSvc.GetStudent(ctx, usr.Username); err == nil {
			fmt.Fprintf(t.out, "student ID: %s\n", st.StudentID)
		}
	}
	return nil
}

func (t *terminal) listTeachers(ctx context.Context, sess *user.Session) error {
	teachers, err := t.usrSvc.Teachers(ctx, sess)
	if err != nil {
		return err
	}
	if len(teachers) == 0 {
		fmt.Fprintln(t.out, "(no teachers yet)")
		return nil
	}
	fmt.Fprintln(t.out, "Teachers:")
	for _, tc := range teachers {
		fmt.Fprintf(t.out, "  %s (%s)\n", tc.Username, tc.Name)
	}
	return nil
}

func (t *terminal) listUsers(ctx context.Context, sess *user.Session) error {
	users, err := t.usrSvc.QueryAll(ctx, sess)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{u.Username, u.Name, u.Email, u.Role, strconv.FormatBool(u.IsActive)})
	}
	t.table([]string{"USERNAME", "NAME", "EMAIL", "ROLE", "ACTIVE"}, rows)
	return nil
}

func (t *terminal) listCourses(ctx context.Context, sess *user.Session) error {
	courses, err := t.crsSvc.QueryAll(ctx, sess)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(courses))
	for _, c := range courses {
		rows = append(rows, []string{strconv.Itoa(c.ID), c.Name, orNone(c.TeacherUsername), strconv.Itoa(c.Credits)})
	}
	t.table([]string{"ID", "COURSE", "TEACHER", "CREDITS"}, rows)
	return nil
}

func (t *terminal) viewTimetable(ctx context.Context, sess *user.Session) error {
	entries, err := t.ttSvc.All(ctx, sess)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{strconv.Itoa(e.ID), strconv.Itoa(e.CourseID), e.Day, e.StartTime, e.EndTime})
	}
	t.table([]string{"ID", "COURSE ID", "DAY", "START", "END"}, rows)
	return nil
}

func (t *terminal) addTimetableEntry(ctx context.Context, sess *user.Session) error {
	var ne timetable.NewEntry
	var err error

	if ne.CourseID, err = t.promptInt("Course ID: "); err != nil {
		return err
	}
	if ne.Day, err = t.prompt("Day (Monday-Friday): "); err != nil {
		return err
	}
	if ne.StartTime, err = t.prompt("Start time (HH:MM): "); err != nil {
		return err
	}
	if ne.EndTime, err = t.prompt("End time (HH:MM): "); err != nil {
		return err
	}

	if err := t.ttSvc.Add(ctx, sess, ne); err != nil {
		return err
	}
	fmt.Fprintln(t.out, "timetable entry added")
	return nil
}

func (t *terminal) exportReport(ctx context.Context) error {
	uname, err := t.prompt("Student username: ")
	if err != nil {
		return err
	}
	path, err := t.rptSvc.Export(ctx, uname, core.Conf.ReportsDir)
	if err != nil {
		return err
	}
	fmt.Fprintf(t.out, "report written to %s\n", path)
	return nil
}

func (t *terminal) emailReport(ctx context.Context) error {
	uname, err := t.prompt("Student username: ")
	if err != nil {
		return err
	}
	addr, err := t.prompt("Recipient email: ")
	if err != nil {
		return err
	}
	if err := t.rptSvc.Email(ctx, uname, mail.Address{Address: addr}); err != nil {
		return err
	}
	fmt.Fprintln(t.out, "report sent")
	return nil
}

func orNone(s null.String) string {
	if s.Valid {
		return s.String
	}
	return "None"
}
