package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"golang.org/x/term"

	"github.com/mwalimu/shule/core"
	"github.com/mwalimu/shule/core/attendance"
	"github.com/mwalimu/shule/core/course"
	"github.com/mwalimu/shule/core/report"
	"github.com/mwalimu/shule/core/timetable"
	"github.com/mwalimu/shule/core/user"
)

var readPasswordFunc = term.ReadPassword // mockable

// terminal drives the interactive session: a login loop followed by the
// role's dashboard menu.
type terminal struct {
	inSrc io.Reader
	in    *bufio.Reader
	out   io.Writer

	usrSvc *user.Service
	crsSvc *course.Service
	attSvc *attendance.Service
	ttSvc  *timetable.Service
	rptSvc *report.Service
}

func newTerminal(
	in io.Reader,
	out io.Writer,
	usrSvc *user.Service,
	crsSvc *course.Service,
	attSvc *attendance.Service,
	ttSvc *timetable.Service,
	rptSvc *report.Service,
) *terminal {
	return &terminal{
		inSrc:  in,
		in:     bufio.NewReader(in),
		out:    out,
		usrSvc: usrSvc,
		crsSvc: crsSvc,
		attSvc: attSvc,
		ttSvc:  ttSvc,
		rptSvc: rptSvc,
	}
}

func (t *terminal) run(ctx context.Context) error {
	fmt.Fprintf(t.out, "%s - sign in (type 'exit' to quit)\n", core.Conf.AppName)
	for {
		uname, err := t.prompt("Username: ")
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		switch uname {
		case "exit", "quit":
			return nil
		case "":
			continue
		}

		pwd, err := t.promptPassword("Password: ")
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}

		sess, err := t.usrSvc.Authenticate(ctx, uname, pwd)
		if err != nil {
			t.showError(err)
			continue
		}
		fmt.Fprintf(t.out, "\nWelcome, %s (%s)\n", sess.User.Name, sess.User.Role)

		switch sess.User.Role {
		case user.RoleAdmin:
			err = t.adminMenu(ctx, sess)
		case user.RoleTeacher:
			err = t.teacherMenu(ctx, sess)
		case user.RoleStudent:
			err = t.studentMenu(ctx, sess)
		}
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
}

func (t *terminal) readLine() (string, error) {
	line, err := t.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (t *terminal) prompt(label string) (string, error) {
	fmt.Fprint(t.out, label)
	return t.readLine()
}

// promptPassword reads without echo when stdin is a real terminal; tests and
// piped input fall back to a plain line read.
func (t *terminal) promptPassword(label string) (string, error) {
	fmt.Fprint(t.out, label)
	if f, ok := t.inSrc.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		pwd, err := readPasswordFunc(int(f.Fd()))
		fmt.Fprintln(t.out)
		if err != nil {
			return "", err
		}
		return string(pwd), nil
	}
	return t.readLine()
}

func (t *terminal) promptInt(label string) (int, error) {
	s, err := t.prompt(label)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	return n, nil
}

func (t *terminal) promptFloat(label string) (float64, error) {
	s, err := t.prompt(label)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	return f, nil
}

// menu prints numbered options and reads a valid choice.
func (t *terminal) menu(title string, options ...string) (int, error) {
	fmt.Fprintf(t.out, "\n%s\n", title)
	for i, opt := range options {
		fmt.Fprintf(t.out, "  %d) %s\n", i+1, opt)
	}
	for {
		s, err := t.prompt("> ")
		if err != nil {
			return 0, err
		}
		if n, err := strconv.Atoi(s); err == nil && n >= 1 && n <= len(options) {
			return n, nil
		}
		fmt.Fprintln(t.out, "invalid choice")
	}
}

func (t *terminal) table(header []string, rows [][]string) {
	w := tabwriter.NewWriter(t.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(header, "\t"))
	for _, row := range rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	_ = w.Flush()
	if len(rows) == 0 {
		fmt.Fprintln(t.out, "(no records)")
	}
}

func (t *terminal) showError(err error) {
	if vErr, ok := err.(*core.ValidationError); ok {
		fmt.Fprintf(t.out, "error: %s\n", vErr.Error())
		for _, fe := range vErr.Fields {
			fmt.Fprintf(t.out, "  - %s: %s\n", fe.Field, fe.Error)
		}
		return
	}
	fmt.Fprintf(t.out, "error: %s\n", err)
}

// ranAction wraps a menu action: prompt errors from bad numeric input and
// service errors are shown and the menu continues; IO errors propagate.
func (t *terminal) runAction(err error) error {
	if err == nil {
		return nil
	}
	if err == io.EOF {
		return err
	}
	t.showError(err)
	return nil
}

func formatGrade(g float64, valid bool) string {
	if !valid {
		return "N/A"
	}
	return strconv.FormatFloat(g, 'f', -1, 64)
}
