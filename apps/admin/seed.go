package main

import (
	"context"

	"github.com/mallasudi/smartschool/core/seed"
)

func (cli *commandLine) seed(ctx context.Context) error {
	admin := seed.AdminFromConfig(cli.conf.Seed.Admin)
	report, err := seed.NewBootstrapper(cli.usrRepo, cli.gradeRepo, cli.codec, cli.logger, admin).Run(ctx)
	if report.Admin != "" {
		cli.printf("admin %s: %s\n", admin.Email, report.Admin)
	}
	if report.GradesSeeded {
		cli.printf("grade scale: %d bands\n", report.GradeBands)
	}
	return err
}
