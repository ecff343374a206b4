package main

import (
	"context"

	"github.com/mallasudi/smartschool/core"
	"github.com/mallasudi/smartschool/core/credential"
	"github.com/mallasudi/smartschool/core/user"
)

func (cli *commandLine) resetPassword(ctx context.Context, uname, pwd string) error {
	uname = core.CleanString(uname)
	usr, err := cli.usrRepo.GetUser(ctx, user.GetFilter{UsernameOrEmail: uname})
	if err != nil {
		return err
	}
	if err := user.ValidatePassword(pwd, usr.Username, usr.Email, usr.Name); err != nil {
		return err
	}

	resetter := credential.NewResetter(cli.usrRepo, cli.codec, cli.logger)
	resetter.Notifier = cli.mailer
	if _, err := resetter.Reset(ctx, uname, pwd); err != nil {
		return err
	}
	cli.printf("password of %s reset\n", uname)
	return nil
}
