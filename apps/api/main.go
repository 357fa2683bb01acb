package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	echoapi "github.com/taskspro/backend/apps/api/echo"
	"github.com/taskspro/backend/core"
	"github.com/taskspro/backend/core/assignment"
	"github.com/taskspro/backend/core/discussion"
	"github.com/taskspro/backend/core/focus"
	"github.com/taskspro/backend/core/note"
	"github.com/taskspro/backend/core/progression"
	"github.com/taskspro/backend/core/quiz"
	"github.com/taskspro/backend/core/todo"
	"github.com/taskspro/backend/core/user"
	emailsvc "github.com/taskspro/backend/services/email"
	logsvc "github.com/taskspro/backend/services/logger"
	"github.com/taskspro/backend/storage/database"
	sqlxrepos "github.com/taskspro/backend/storage/database/sqlx"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf, err := core.NewConfig()
	if err != nil {
		log.Fatalf("loading configuration: %v", err)
	}

	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	var logger core.Logger
	if conf.Debug {
		logger = logsvc.NewStdLogger(std)
	} else {
		rollbarLogger := logsvc.NewRollbarLogger(std, conf)
		rollbarLogger.Enable(!conf.Debug)
		logger = rollbarLogger
	}

	// set up DB
	db, err := setUpDB(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			logger.Error("closing database", err)
		}
	}()

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	validate, translator := core.NewValidator()
	core.InitValidators(validate, translator)
	user.RegisterValidators(validate, translator)

	progSvc := progression.NewService(sqlxrepos.NewProgressionRepository(db))
	usrSvc := user.NewService(sqlxrepos.NewUserRepository(db), mailSvc, conf, validate, logger)
	quizSvc := quiz.NewService(sqlxrepos.NewQuizRepository(db), progSvc, validate, logger)
	assnSvc := assignment.NewService(sqlxrepos.NewAssignmentRepository(db), progSvc, validate)
	noteSvc := note.NewService(sqlxrepos.NewNoteRepository(db), progSvc, validate)
	todoSvc := todo.NewService(sqlxrepos.NewTodoRepository(db), validate)
	fcsSvc := focus.NewService(sqlxrepos.NewFocusRepository(db), progSvc, validate)
	discSvc := discussion.NewService(sqlxrepos.NewDiscussionRepository(db), progSvc, validate)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(echoapi.ServerDeps{
		Conf:       conf,
		Logger:     logger,
		Validate:   validate,
		Translator: translator,
		UserSvc:    usrSvc,
		ProgSvc:    progSvc,
		QuizSvc:    quizSvc,
		AssnSvc:    assnSvc,
		NoteSvc:    noteSvc,
		TodoSvc:    todoSvc,
		FcsSvc:     fcsSvc,
		DiscSvc:    discSvc,
	})

	go server.Start()

	// drive active quiz session countdowns
	tickCtx, stopTicker := context.WithCancel(context.Background())
	defer stopTicker()
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				quizSvc.TickSessions(tickCtx)
			case <-tickCtx.Done():
				return
			}
		}
	}()

	// =========================================================================
	// Shutdown

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	stop := func(reason string) {
		logger.Info(fmt.Sprintf("%s: Start shutdown...", reason))
		stopTicker()

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Stop(ctx); err != nil {
			logger.Fatal(fmt.Sprintf("could not stop server gracefully: %v", err), err)
		}
	}

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-shutdown:
		stop(sig.String())

	case <-server.ShutdownSignal():
		stop("integrity issue")
	}
}

func setUpDB(conf *core.Config) (*sqlx.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db); err != nil {
		return nil, err
	}
	return sqlx.NewDb(db, "postgres"), nil
}
