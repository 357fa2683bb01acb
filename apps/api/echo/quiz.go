package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/taskspro/backend/core"
	"github.com/taskspro/backend/core/quiz"
)

type quizApi struct {
	svc      quiz.Service
	validate *validator.Validate
}

func registerQuizAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc quiz.Service, validate *validator.Validate) {
	api := quizApi{svc: svc, validate: validate}

	qg := g.Group("/quizzes", jwt)
	qg.GET("", api.query)
	qg.POST("", api.create, staffMiddleware())
	qg.GET("/results", api.queryResults)

	// session endpoints; static segments beat the ":id" param
	qg.GET("/session", api.retrieveSession)
	qg.PUT("/session/answer", api.answer)
	qg.POST("/session/submit", api.submit)

	qg.GET("/:id", api.retrieve)
	qg.POST("/:id/start", api.start)
}

// Handlers

func (api *quizApi) create(ctx echo.Context) error {
	var data quiz.NewQuiz
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewQuiz")
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	qz, err := api.svc.Create(ctx.Request().Context(), claims.Subject, data)
	if err != nil {
		return errors.Wrap(err, "creating quiz")
	}
	return ctx.JSON(http.StatusCreated, qz)
}

func (api *quizApi) query(ctx echo.Context) error {
	quizzes, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying quizzes")
	}
	if quizzes == nil {
		quizzes = []quiz.Quiz{}
	}

	// correct answers are only revealed in attempt reviews
	res := make([]QuizResponse, len(quizzes))
	for i, qz := range quizzes {
		res[i] = newQuizResponse(qz)
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *quizApi) retrieve(ctx echo.Context) error {
	qz, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == quiz.ErrNotFound {
			return errNotFound
		}
		return errors.Wrap(err, "finding quiz by ID")
	}
	return ctx.JSON(http.StatusOK, newQuizResponse(qz))
}

func (api *quizApi) queryResults(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	attempts, err := api.svc.QueryResults(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "querying quiz results")
	}
	if attempts == nil {
		attempts = []quiz.Attempt{}
	}
	return ctx.JSON(http.StatusOK, attempts)
}

func (api *quizApi) start(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	sess, err := api.svc.StartSession(ctx.Request().Context(), claims.Subject, ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == quiz.ErrNotFound {
			return errNotFound
		}
		return errors.Wrap(err, "starting quiz session")
	}
	return ctx.JSON(http.StatusOK, newSessionResponse(sess))
}

func (api *quizApi) retrieveSession(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	sess, ok := api.svc.ActiveSession(claims.Subject)
	if !ok {
		return errNotFound
	}
	return ctx.JSON(http.StatusOK, newSessionResponse(sess))
}

func (api *quizApi) answer(ctx echo.Context) error {
	var data AnswerRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AnswerRequest")
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	if err := api.svc.SelectAnswer(claims.Subject, data.Question, data.Option); err != nil {
		switch errors.Cause(err) {
		case quiz.ErrNoActiveSession, quiz.ErrSessionNotActive:
			return core.NewValidationError(err)
		case quiz.ErrQuestionIndex:
			return core.NewValidationError(nil, core.FieldError{Field: "question", Error: err.Error()})
		case quiz.ErrOptionIndex:
			return core.NewValidationError(nil, core.FieldError{Field: "option", Error: err.Error()})
		}
		return errors.Wrap(err, "selecting answer")
	}

	sess, ok := api.svc.ActiveSession(claims.Subject)
	if !ok {
		return errNotFound
	}
	return ctx.JSON(http.StatusOK, newSessionResponse(sess))
}

func (api *quizApi) submit(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	attempt, err := api.svc.Submit(ctx.Request().Context(), claims.Subject)
	if err != nil {
		switch errors.Cause(err) {
		case quiz.ErrNoActiveSession, quiz.ErrSessionNotActive:
			return core.NewValidationError(err)
		}
		return errors.Wrap(err, "submitting quiz session")
	}
	return ctx.JSON(http.StatusOK, attempt)
}

// Bindings

type (
	QuizResponse struct {
		ID         string             `json:"id"`
		Title      string             `json:"title"`
		Subject    string             `json:"subject"`
		Difficulty string             `json:"difficulty"`
		TimeLimit  int                `json:"time_limit"`
		CreatedBy  string             `json:"created_by"`
		Questions  []QuestionResponse `json:"questions"`
	}

	QuestionResponse struct {
		ID      string   `json:"id"`
		Prompt  string   `json:"prompt"`
		Options []string `json:"options"`
	}

	SessionResponse struct {
		Quiz      QuizResponse `json:"quiz"`
		State     string       `json:"state"`
		Remaining int          `json:"remaining"` // seconds
		Answers   map[int]int  `json:"answers"`
	}

	AnswerRequest struct {
		Question int `json:"question"`
		Option   int `json:"option"`
	}
)

func newQuizResponse(qz quiz.Quiz) QuizResponse {
	questions := make([]QuestionResponse, len(qz.Questions))
	for i, q := range qz.Questions {
		questions[i] = QuestionResponse{ID: q.ID, Prompt: q.Prompt, Options: q.Options}
	}
	return QuizResponse{
		ID:         qz.ID,
		Title:      qz.Title,
		Subject:    qz.Subject,
		Difficulty: qz.Difficulty,
		TimeLimit:  qz.TimeLimit,
		CreatedBy:  qz.CreatedBy,
		Questions:  questions,
	}
}

func newSessionResponse(sess *quiz.Session) SessionResponse {
	return SessionResponse{
		Quiz:      newQuizResponse(sess.Quiz()),
		State:     sess.State().String(),
		Remaining: sess.Remaining(),
		Answers:   sess.Answers(),
	}
}
