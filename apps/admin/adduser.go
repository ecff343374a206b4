package main

import (
	"context"

	"github.com/pkg/errors"

	"github.com/mallasudi/smartschool/core/user"
)

// addUser updates or creates a user.User.
// An existing user keeps their role unless nu.Role is set.
func (cli *commandLine) addUser(ctx context.Context, nu user.NewUser) error {
	nu.Clean()

	key := nu.Username
	if key == "" {
		key = nu.Email
	}
	usr, err := cli.usrRepo.GetUser(ctx, user.GetFilter{UsernameOrEmail: key})
	exists := err == nil
	if err != nil && !errors.Is(err, user.ErrNotFound) {
		return err
	}
	if exists && nu.Role == "" {
		nu.Role = usr.Role
	}

	if err := nu.Validate(); err != nil {
		return err
	}
	if err := user.ValidatePassword(nu.Password, nu.Username, nu.Email, nu.Name); err != nil {
		return err
	}
	hash, err := cli.codec.Hash(nu.Password)
	if err != nil {
		return err
	}

	if !exists {
		usr, err = cli.usrRepo.CreateUser(ctx, user.User{
			Name:     nu.Name,
			Username: nu.Username,
			Email:    nu.Email,
			Password: hash,
			Role:     nu.Role,
			Status:   user.StatusActive,
		})
		if err != nil {
			return err
		}
		cli.logger.Info("user created", usr)
	} else {
		usr.Name = nu.Name
		usr.Username = nu.Username
		usr.Email = nu.Email
		usr.Role = nu.Role
		usr.Status = user.StatusActive
		if usr, err = cli.usrRepo.UpdateUser(ctx, usr); err != nil {
			return err
		}
		if err := cli.usrRepo.UpdatePassword(ctx, usr.ID, hash); err != nil {
			return err
		}
		cli.logger.Info("user updated", usr)
	}
	cli.printf("user %s saved\n", usr.ID)
	return nil
}
