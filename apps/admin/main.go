package main

import (
	"log"
	"os"

	"github.com/jmoiron/sqlx"

	"github.com/taskspro/backend/core"
	"github.com/taskspro/backend/core/progression"
	"github.com/taskspro/backend/core/quiz"
	"github.com/taskspro/backend/core/user"
	logsvc "github.com/taskspro/backend/services/logger"
	"github.com/taskspro/backend/storage/database"
	sqlxrepos "github.com/taskspro/backend/storage/database/sqlx"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf, err := core.NewConfig()
	errAndDie(err)

	// set up DB
	sdb, err := database.Open(conf)
	errAndDie(err)
	defer sdb.Close()
	errAndDie(sdb.Ping())
	db := sqlx.NewDb(sdb, "postgres")

	validate, translator := core.NewValidator()
	core.InitValidators(validate, translator)
	user.RegisterValidators(validate, translator)

	progSvc := progression.NewService(sqlxrepos.NewProgressionRepository(db))

	// start CLI
	cli := commandLine{
		db:      sdb,
		usrRepo: sqlxrepos.NewUserRepository(db),
		quizSvc: quiz.NewService(sqlxrepos.NewQuizRepository(db), progSvc, validate, logsvc.NewStdLogger(logger)),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
