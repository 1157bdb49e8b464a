package main

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"testing"

	"github.com/mwalimu/shule/core/user"
	inmemdb "github.com/mwalimu/shule/storage/database/inmem"
	testutil "github.com/mwalimu/shule/tests"
)

var usrRepo user.Repository

func setup(t *testing.T) *commandLine {
	t.Helper()
	testutil.SetTestConfig()
	usrRepo = inmemdb.NewUserRepository(inmemdb.NewDB())
	return &commandLine{usrRepo: usrRepo}
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	extra      interface{}
}

func Test_commandLine_migrate(t *testing.T) {
	cli := setup(t)

	gooseRunFunc = func(command string, db *sql.DB, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to", "down-to":
			if len(args) == 0 {
				return fmt.Errorf("%s requires a VERSION argument", command)
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		case "create":
			if len(args) == 0 {
				return fmt.Errorf("create requires a NAME argument")
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	tests := []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to requires a VERSION argument"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "down-to: no args", args: []string{"migrate", "down-to"}, wantErrStr: "down-to requires a VERSION argument"},
		{name: "create: no args", args: []string{"migrate", "create"}, wantErrStr: "create requires a NAME argument"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-by-one", args: []string{"migrate", "up-by-one"}},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "down-to", args: []string{"migrate", "down-to", "1"}},
		{name: "redo", args: []string{"migrate", "redo"}},
		{name: "reset", args: []string{"migrate", "reset"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "version", args: []string{"migrate", "version"}},
		{name: "create", args: []string{"migrate", "create", "course", "sql"}},
		{name: "fix", args: []string{"migrate", "fix"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != nil {
				if tt.wantErr != nil {
					if err != tt.wantErr {
						t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
					}
				} else if tt.wantErrStr != "" {
					if err.Error() != tt.wantErrStr {
						t.Errorf("cli.run() error.Error() = %s, wantErrStr %s", err.Error(), tt.wantErrStr)
					}
				} else {
					t.Errorf("cli.run() unexpected error = %v", err)
				}
			}
		})
	}
}

func Test_commandLine_addUser(t *testing.T) {
	cli := setup(t)

	type extra struct {
		pwd string
	}
	tests := []cliTest{
		{name: "no args", args: []string{"adduser"}, wantErr: errHelp},
		{name: "name but no password", args: []string{"adduser", "-name", "Head", "-username", "head", "-email", "head@school.edu"}, wantErr: errHelp},
		{
			name:  "create admin",
			args:  []string{"adduser", "-name", "Head", "-username", "head", "-email", "head@school.edu"},
			extra: extra{pwd: "s3cret"},
		},
		{
			name:  "create teacher",
			args:  []string{"adduser", "-name", "Jane", "-username", "jane", "-email", "jane@school.edu", "-role", "teacher"},
			extra: extra{pwd: "s3cret"},
		},
		{
			name:       "unknown role",
			args:       []string{"adduser", "-name", "Bob", "-username", "bob", "-email", "bob@school.edu", "-role", "janitor"},
			extra:      extra{pwd: "s3cret"},
			wantErrStr: `unknown role "janitor"`,
		},
		{
			name:       "student without grade level",
			args:       []string{"adduser", "-name", "Mary", "-username", "mary", "-email", "mary@school.edu", "-role", "student"},
			extra:      extra{pwd: "s3cret"},
			wantErrStr: "grade level must be between 1 and 12 (got 0)",
		},
		{
			name:       "student with grade level out of range",
			args:       []string{"adduser", "-name", "Mary", "-username", "mary", "-email", "mary@school.edu", "-role", "student", "-gradelevel", "13"},
			extra:      extra{pwd: "s3cret"},
			wantErrStr: "grade level must be between 1 and 12 (got 13)",
		},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		readPasswordFunc = func(fd int) ([]byte, error) {
			if extra, ok := tt.extra.(extra); ok {
				return []byte(extra.pwd), nil
			}
			return nil, nil
		}

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if err == nil {
				uname := args[5] // -username value
				usr, err := usrRepo.GetUserByUsername(context.Background(), uname)
				if err != nil {
					t.Fatalf("GetUserByUsername() failed, %v", err)
				}
				if !usr.IsActive {
					t.Error("created user should be active")
				}
				if err := usr.CheckPassword("s3cret"); err != nil {
					t.Error("failed to set password")
				}
			} else if err != tt.wantErr && err.Error() != tt.wantErrStr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func Test_commandLine_addUser_student(t *testing.T) {
	cli := setup(t)
	ctx := context.Background()

	readPasswordFunc = func(fd int) ([]byte, error) { return []byte("s3cret"), nil }

	args := []string{"admin", "adduser", "-name", "Mary Major", "-username", "mary", "-email", "mary@school.edu", "-role", "student", "-gradelevel", "7"}
	if err := cli.run(args); err != nil {
		t.Fatalf("cli.run() unexpected error = %v", err)
	}

	usr, err := usrRepo.GetUserByUsername(ctx, "mary")
	if err != nil {
		t.Fatalf("GetUserByUsername() failed, %v", err)
	}
	if usr.Role != user.RoleStudent {
		t.Errorf("Role = %q, want %q", usr.Role, user.RoleStudent)
	}

	// the student row must exist alongside the users row
	st, err := usrRepo.GetStudent(ctx, "mary")
	if err != nil {
		t.Fatalf("GetStudent() failed, %v", err)
	}
	if st.StudentID != "STUmary07" {
		t.Errorf("StudentID = %q, want %q", st.StudentID, "STUmary07")
	}
	if st.GradeLevel != 7 {
		t.Errorf("GradeLevel = %d, want 7", st.GradeLevel)
	}

	// re-running updates the user but keeps the existing student row
	if err := cli.run(args); err != nil {
		t.Fatalf("cli.run() unexpected error on rerun = %v", err)
	}
	if _, err := usrRepo.GetStudent(ctx, "mary"); err != nil {
		t.Errorf("GetStudent() after rerun failed, %v", err)
	}
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli := setup(t)

	usr := testutil.CreateUser(t, usrRepo, "User", "awe", "awe@school.edu", "mdr", user.RoleTeacher, true)

	type extra struct {
		pwd string
	}
	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no args", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "username but no password", args: []string{"resetpassword", "-username", "lol"}, wantErr: errHelp},
		{name: "user not found", args: []string{"resetpassword", "-username", "lol"}, extra: extra{pwd: "lol"}, wantErr: user.ErrNotFound},
		{name: "reset with username", args: []string{"resetpassword", "-username", usr.Username}, extra: extra{pwd: "lol"}},
		{name: "reset with email", args: []string{"resetpassword", "-username", usr.Email}, extra: extra{pwd: "lmao"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		readPasswordFunc = func(fd int) ([]byte, error) {
			if extra, ok := tt.extra.(extra); ok {
				return []byte(extra.pwd), nil
			}
			return nil, nil
		}

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if err == nil {
				refreshedUsr, err := usrRepo.GetUserByUsername(context.Background(), usr.Username)
				if err != nil {
					t.Fatalf("GetUserByUsername() failed, %v", err)
				}
				if bytes.Equal(refreshedUsr.PasswordHash, usr.PasswordHash) {
					t.Error("failed to update new password")
				}
			} else if err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
