package main

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/taskspro/backend/core"
	"github.com/taskspro/backend/core/user"
)

// addUser updates or creates a user.User
func (cli *commandLine) addUser(uname, email, pwd string, isAdmin bool) error {
	ctx := context.Background()
	uname = core.CleanString(uname, true /* lower */)
	email = core.CleanString(email, true /* lower */)

	var created bool
	usr, err := cli.usrRepo.GetUserByUsernameOrEmail(ctx, uname)
	if err != nil {
		if errors.Cause(err) != user.ErrNotFound {
			return err
		}
		if usr, err = cli.usrRepo.GetUserByUsernameOrEmail(ctx, email); err != nil {
			if errors.Cause(err) != user.ErrNotFound {
				return err
			}
			now := time.Now().UTC()
			usr = user.User{
				ID:        uuid.New().String(),
				Name:      uname,
				CreatedAt: now,
			}
			created = true
		}
	}
	usr.Username = uname
	usr.Email = email
	usr.IsActive = true
	usr.UpdatedAt = time.Now().UTC()
	if isAdmin {
		usr.Roles = user.AllRoles
	}
	if err := usr.SetPassword(pwd); err != nil {
		return err
	}

	if created {
		return cli.usrRepo.CreateUser(ctx, &usr)
	}
	return cli.usrRepo.UpdateUser(ctx, &usr)
}
