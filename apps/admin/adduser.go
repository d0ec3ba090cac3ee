package main

import (
	"context"
	"time"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/user"
)

// addUser updates or creates a user account; -admin grants the admin role,
// otherwise the account gets the staff role.
func (cli *commandLine) addUser(name, email, pwd string, isAdmin bool) error {
	ctx := context.Background()
	now := time.Now().UTC()

	usr := user.User{
		Name:      core.CleanString(name),
		Email:     core.CleanString(email, true /* lower */),
		IsActive:  true,
		Role:      user.RoleStaff,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if isAdmin {
		usr.Role = user.RoleAdmin
	}
	if err := usr.SetPassword(pwd); err != nil {
		return err
	}
	if _, err := cli.usrRepo.UpdateOrCreateUser(ctx, usr); err != nil {
		return err
	}
	return nil
}
