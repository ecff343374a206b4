package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"syscall"

	"github.com/jmoiron/sqlx"
	"golang.org/x/term"

	"github.com/mallasudi/smartschool/core"
	"github.com/mallasudi/smartschool/core/grade"
	"github.com/mallasudi/smartschool/core/password"
	"github.com/mallasudi/smartschool/core/user"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	conf      *core.Config
	db        *sqlx.DB
	usrRepo   user.Repository
	gradeRepo grade.Repository
	codec     password.Codec
	logger    core.Logger
	mailer    core.EmailService
	out       io.Writer
}

func (cli *commandLine) stdout() io.Writer {
	if cli.out == nil {
		return os.Stdout
	}
	return cli.out
}

func (cli *commandLine) printf(format string, a ...interface{}) {
	_, _ = fmt.Fprintf(cli.stdout(), format, a...)
}

func (cli *commandLine) printUsage() {
	cli.printf("Usage:\n")
	cli.printf("  migrate COMMAND [ARGS]                 - run a goose command (up, down, status, version...)\n")
	cli.printf("  hashpasswords [-workers N]             - hash every legacy plaintext password\n")
	cli.printf("  seed                                   - create the admin account and the grade scale\n")
	cli.printf("  resetpassword -username USERNAME|EMAIL - reset user's password\n")
	cli.printf("  adduser -username USERNAME -email EMAIL [-name NAME] [-role ROLE] - create or update a user\n")
}

// promptPassword reads a password from the terminal without echoing it.
func (cli *commandLine) promptPassword(fs *flag.FlagSet) (string, error) {
	cli.printf("Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	cli.printf("\n")
	if err != nil {
		return "", err
	}
	if len(pwd) == 0 {
		fs.Usage()
		return "", errHelp
	}
	return string(pwd), nil
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	hashPasswordsCmd := flag.NewFlagSet("hashpasswords", flag.ContinueOnError)
	hashPasswordsWorkers := hashPasswordsCmd.Int("workers", cli.conf.Migrator.Workers, "Number of passwords hashed concurrently.")

	seedCmd := flag.NewFlagSet("seed", flag.ContinueOnError)

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ContinueOnError)
	resetPasswordUname := resetPasswordCmd.String("username", "", "The user's username or email. The password will be prompted next.")

	addUserCmd := flag.NewFlagSet("adduser", flag.ContinueOnError)
	addUserUname := addUserCmd.String("username", "", "The user's username.")
	addUserEmail := addUserCmd.String("email", "", "The user's email.")
	addUserName := addUserCmd.String("name", "", "The user's name.")
	addUserRole := addUserCmd.String("role", "", "One of admin, teacher, student, parent. Required for a new user; an existing user keeps their role when omitted.")

	parse := func(fs *flag.FlagSet) error {
		fs.SetOutput(cli.stdout())
		if err := fs.Parse(args[2:]); err != nil {
			if err == flag.ErrHelp {
				return errHelp
			}
			return err
		}
		return nil
	}

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(ctx, args[2:])
	case "hashpasswords":
		if err := parse(hashPasswordsCmd); err != nil {
			return err
		}
		return cli.hashPasswords(ctx, *hashPasswordsWorkers)
	case "seed":
		if err := parse(seedCmd); err != nil {
			return err
		}
		return cli.seed(ctx)
	case "resetpassword":
		if err := parse(resetPasswordCmd); err != nil {
			return err
		}
		if core.CleanString(*resetPasswordUname) == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword(resetPasswordCmd)
		if err != nil {
			return err
		}
		return cli.resetPassword(ctx, *resetPasswordUname, pwd)
	case "adduser":
		if err := parse(addUserCmd); err != nil {
			return err
		}
		if *addUserUname == "" && *addUserEmail == "" {
			addUserCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword(addUserCmd)
		if err != nil {
			return err
		}
		return cli.addUser(ctx, user.NewUser{
			Name:     *addUserName,
			Username: *addUserUname,
			Email:    *addUserEmail,
			Password: pwd,
			Role:     user.Role(*addUserRole),
		})
	default:
		cli.printUsage()
		return errHelp
	}
}
