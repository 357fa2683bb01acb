package echoapi

import (
	"context"
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/taskspro/backend/core"
	"github.com/taskspro/backend/core/assignment"
	"github.com/taskspro/backend/core/discussion"
	"github.com/taskspro/backend/core/focus"
	"github.com/taskspro/backend/core/note"
	"github.com/taskspro/backend/core/progression"
	"github.com/taskspro/backend/core/quiz"
	"github.com/taskspro/backend/core/todo"
	"github.com/taskspro/backend/core/user"
)

type (
	ServerDeps struct {
		Conf       *core.Config
		Logger     core.Logger
		Validate   *validator.Validate
		Translator ut.Translator

		UserSvc user.Service
		ProgSvc progression.Service
		QuizSvc quiz.Service
		AssnSvc assignment.Service
		NoteSvc note.Service
		TodoSvc todo.Service
		FcsSvc  focus.Service
		DiscSvc discussion.Service
	}

	Server interface {
		http.Handler
		Start()
		Stop(context.Context) error
		Errors() <-chan error
		ShutdownSignal() <-chan struct{}
	}

	server struct {
		deps     ServerDeps
		app      *echo.Echo
		errors   chan error
		shutdown chan struct{}
	}
)

var _ Server = (*server)(nil)

func NewServer(deps ServerDeps) Server {
	s := &server{
		deps:     deps,
		app:      echo.New(),
		errors:   make(chan error, 1),
		shutdown: make(chan struct{}, 1),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.deps.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.TestMode {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.signalShutdown)
	s.app.Debug = conf.Debug
	s.app.HideBanner = true

	s.app.GET("/", home)

	jwt := ConfigureAuth(
		conf.AppName,
		conf.SecretKey,
		conf.Server.JWTExpirationDelta,
		conf.Server.JWTRefreshExpirationDelta,
	)
	v1 := s.app.Group("/v1")

	registerUserAPI(v1, jwt, s.deps.UserSvc, s.deps.ProgSvc, s.deps.Validate)
	registerProgressionAPI(v1, jwt, s.deps.ProgSvc)
	registerQuizAPI(v1, jwt, s.deps.QuizSvc, s.deps.Validate)
	registerAssignmentAPI(v1, jwt, s.deps.AssnSvc, s.deps.Validate)
	registerNoteAPI(v1, jwt, s.deps.NoteSvc, s.deps.Validate)
	registerTodoAPI(v1, jwt, s.deps.TodoSvc, s.deps.Validate)
	registerFocusAPI(v1, jwt, s.deps.FcsSvc, s.deps.Validate)
	registerDiscussionAPI(v1, jwt, s.deps.DiscSvc, s.deps.Validate)
}

func (s *server) Start() {
	s.errors <- s.app.Start(s.deps.Conf.Server.Address())
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) Errors() <-chan error { return s.errors }

func (s *server) ShutdownSignal() <-chan struct{} { return s.shutdown }

// signalShutdown is called by the error handler on unrecoverable errors.
func (s *server) signalShutdown() {
	select {
	case s.shutdown <- struct{}{}:
	default:
	}
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to TasksPro API!")
}
