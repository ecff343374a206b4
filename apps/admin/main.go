package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/mallasudi/smartschool/core"
	"github.com/mallasudi/smartschool/core/password"
	emailsvc "github.com/mallasudi/smartschool/services/email"
	logsvc "github.com/mallasudi/smartschool/services/logger"
	"github.com/mallasudi/smartschool/storage/database"
	sqlxrepos "github.com/mallasudi/smartschool/storage/database/sqlx"
)

var std *log.Logger

func main() {
	os.Exit(run())
}

func run() int {
	std = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf, err := core.NewConfig()
	errAndDie(err)

	logger := logsvc.NewRollbarLogger(std, conf)
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// set up DB
	errAndDie(database.CreateIfNotExist(ctx, conf))
	db, err := database.Open(conf)
	errAndDie(err)
	defer func() { _ = db.Close() }()
	errAndDie(database.Ping(ctx, db))

	codec, err := password.NewBcryptCodec(conf.Hashing.Cost)
	errAndDie(err)

	// start CLI
	cli := commandLine{
		conf:      conf,
		db:        db,
		usrRepo:   sqlxrepos.NewUserRepository(db),
		gradeRepo: sqlxrepos.NewGradeRepository(db),
		codec:     codec,
		logger:    logger,
		mailer:    emailsvc.NewService(conf, emailsvc.NewConsoleService(os.Stdout, conf)),
	}
	if err := cli.run(ctx, os.Args); err != nil {
		if err != errHelp {
			logger.Error("admin command failed", err)
		}
		return 1
	}
	return 0
}

func errAndDie(err error) {
	if err != nil {
		std.Fatal(err)
	}
}
