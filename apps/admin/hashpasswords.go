package main

import (
	"context"

	"github.com/pkg/errors"

	"github.com/mallasudi/smartschool/core/credential"
)

func (cli *commandLine) hashPasswords(ctx context.Context, workers int) error {
	report, err := credential.NewMigrator(cli.usrRepo, cli.codec, cli.logger, workers).Run(ctx)
	if err != nil {
		return err
	}
	cli.printf("users: %d, converted: %d, already hashed: %d, failed: %d, pending: %d\n",
		report.Total, report.Converted, report.Skipped, len(report.Failures), report.Pending)
	for _, f := range report.Failures {
		cli.printf("  %s: %v\n", f.UserID, f.Err)
	}

	switch {
	case !report.OK():
		return errors.Errorf("%d password(s) could not be converted; run hashpasswords again to retry", len(report.Failures))
	case report.Pending > 0:
		return errors.Errorf("interrupted: %d password(s) left to convert", report.Pending)
	}
	return nil
}
