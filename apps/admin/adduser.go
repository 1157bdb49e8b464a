package main

import (
	"context"
	"fmt"
	"time"

	"github.com/mwalimu/shule/core"
	"github.com/mwalimu/shule/core/user"
)

// addUser updates or creates a user.User directly on the repository,
// bypassing the password policy. Meant for bootstrap and recovery.
// A student user always gets its student row, so a users row with role
// "student" never exists without one.
func (cli *commandLine) addUser(name, uname, email, role string, gradeLevel int, pwd string) error {
	ctx := context.Background()
	name = core.CleanString(name)
	uname = core.CleanString(uname)
	email = core.CleanString(email, true /* lower */)

	switch role {
	case user.RoleAdmin, user.RoleTeacher: // pass
	case user.RoleStudent:
		if gradeLevel < user.MinGradeLevel || gradeLevel > user.MaxGradeLevel {
			return fmt.Errorf("grade level must be between %d and %d (got %d)", user.MinGradeLevel, user.MaxGradeLevel, gradeLevel)
		}
	default:
		return fmt.Errorf("unknown role %q", role)
	}

	now := time.Now().UTC()
	usr, err := cli.usrRepo.GetUserByUsernameOrEmail(ctx, uname)
	if err != nil {
		if err != user.ErrNotFound {
			return err
		}
		usr = user.User{
			Username:  uname,
			CreatedAt: now,
		}
	}
	usr.Name = name
	usr.Email = email
	usr.Role = role
	usr.IsActive = true
	usr.UpdatedAt = now
	if err := usr.SetPassword(pwd); err != nil {
		return err
	}

	if usr.ID == "" {
		_, err = cli.usrRepo.CreateUser(ctx, usr)
	} else {
		_, err = cli.usrRepo.UpdateUser(ctx, usr)
	}
	if err != nil {
		return err
	}

	if role == user.RoleStudent {
		if _, err := cli.usrRepo.GetStudent(ctx, uname); err != user.ErrNotFound {
			return err
		}
		_, err = cli.usrRepo.CreateStudent(ctx, user.Student{
			StudentID:  user.DeriveStudentID(uname, gradeLevel),
			Username:   uname,
			GradeLevel: gradeLevel,
		})
	}
	return err
}
