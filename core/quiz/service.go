package quiz

import (
	"context"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/taskspro/backend/core"
	"github.com/taskspro/backend/core/progression"
)

var nowFunc = time.Now // mockable

var ErrNoActiveSession = errors.New("no active quiz session")

type (
	Repository interface {
		CreateQuiz(ctx context.Context, q Quiz) (Quiz, error)
		GetQuizByID(ctx context.Context, id string) (Quiz, error)
		QueryAllQuizzes(ctx context.Context) ([]Quiz, error)
		CreateAttempt(ctx context.Context, a Attempt) (Attempt, error)
		QueryAttemptsByUser(ctx context.Context, userID string) ([]Attempt, error)
		CountAttemptsByUser(ctx context.Context, userID string) (int, error)
	}

	Service interface {
		Create(ctx context.Context, userID string, nq NewQuiz) (Quiz, error)
		GetByID(ctx context.Context, id string) (Quiz, error)
		QueryAll(ctx context.Context) ([]Quiz, error)
		QueryResults(ctx context.Context, userID string) ([]Attempt, error)

		// StartSession opens a new session for the user, abandoning any
		// session still in progress (no XP for the abandoned attempt).
		StartSession(ctx context.Context, userID, quizID string) (*Session, error)
		ActiveSession(userID string) (*Session, bool)
		SelectAnswer(userID string, questionIdx, optionIdx int) error
		// Submit finalizes the user's active session: persists the attempt
		// and applies the XP/badge side effects in order.
		Submit(ctx context.Context, userID string) (Attempt, error)
		// TickSessions advances all active sessions by one second,
		// auto-submitting those that ran out of time. Driven by an external
		// ticker; the service owns no timers.
		TickSessions(ctx context.Context)
	}

	service struct {
		repo     Repository
		progSvc  progression.Service
		validate *validator.Validate
		logger   core.Logger

		mu       sync.Mutex
		sessions map[string]*Session // one active session per user
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, progSvc progression.Service, validate *validator.Validate, logger core.Logger) Service {
	return &service{
		repo:     repo,
		progSvc:  progSvc,
		validate: validate,
		logger:   logger,
		sessions: make(map[string]*Session),
	}
}

func (svc *service) Create(ctx context.Context, userID string, nq NewQuiz) (Quiz, error) {
	if err := nq.Validate(svc.validate); err != nil {
		return Quiz{}, err
	}

	questions := make([]Question, 0, len(nq.Questions))
	for _, q := range nq.Questions {
		questions = append(questions, Question{
			ID:          uuid.New().String(),
			Prompt:      q.Prompt,
			Options:     q.Options,
			Correct:     q.Correct,
			Explanation: q.Explanation,
		})
	}
	quiz := Quiz{
		ID:         uuid.New().String(),
		Title:      nq.Title,
		Subject:    nq.Subject,
		Difficulty: nq.Difficulty,
		TimeLimit:  nq.TimeLimit,
		CreatedBy:  userID,
		CreatedAt:  nowFunc().UTC(),
		Questions:  questions,
	}
	return svc.repo.CreateQuiz(ctx, quiz)
}

func (svc *service) GetByID(ctx context.Context, id string) (Quiz, error) {
	return svc.repo.GetQuizByID(ctx, id)
}

func (svc *service) QueryAll(ctx context.Context) ([]Quiz, error) {
	return svc.repo.QueryAllQuizzes(ctx)
}

func (svc *service) QueryResults(ctx context.Context, userID string) ([]Attempt, error) {
	return svc.repo.QueryAttemptsByUser(ctx, userID)
}

func (svc *service) StartSession(ctx context.Context, userID, quizID string) (*Session, error) {
	quiz, err := svc.repo.GetQuizByID(ctx, quizID)
	if err != nil {
		return nil, err
	}

	sess := NewSession(quiz, userID)
	if err := sess.Start(nowFunc()); err != nil {
		return nil, err
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()
	// an abandoned in-progress session is simply dropped
	svc.sessions[userID] = sess
	return sess, nil
}

func (svc *service) ActiveSession(userID string) (*Session, bool) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	sess, ok := svc.sessions[userID]
	return sess, ok
}

func (svc *service) SelectAnswer(userID string, questionIdx, optionIdx int) error {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	sess, ok := svc.sessions[userID]
	if !ok {
		return ErrNoActiveSession
	}
	return sess.SelectAnswer(questionIdx, optionIdx)
}

func (svc *service) Submit(ctx context.Context, userID string) (Attempt, error) {
	svc.mu.Lock()
	sess, ok := svc.sessions[userID]
	svc.mu.Unlock()
	if !ok {
		return Attempt{}, ErrNoActiveSession
	}
	return svc.submit(ctx, sess)
}

func (svc *service) TickSessions(ctx context.Context) {
	svc.mu.Lock()
	var expired []*Session
	for _, sess := range svc.sessions {
		if sess.Tick() {
			expired = append(expired, sess)
		}
	}
	svc.mu.Unlock()

	for _, sess := range expired {
		// forced auto-submit with whatever answers were recorded
		if _, err := svc.submit(ctx, sess); err != nil && err != ErrSessionNotActive {
			svc.logger.Error("auto-submitting expired quiz session", err,
				"user: "+sess.UserID(), "quiz: "+sess.Quiz().ID)
		}
	}
}

// submit finalizes a session. The session's terminal state is authoritative:
// if a forced auto-submit and a manual submit race, the loser gets
// ErrSessionNotActive and no side effect fires twice.
func (svc *service) submit(ctx context.Context, sess *Session) (Attempt, error) {
	svc.mu.Lock()
	attempt, err := sess.Submit(nowFunc())
	if err == nil && svc.sessions[sess.UserID()] == sess {
		delete(svc.sessions, sess.UserID())
	}
	svc.mu.Unlock()
	if err != nil {
		return Attempt{}, err
	}

	// first-ever attempt check happens before the attempt is persisted
	attemptCount, err := svc.repo.CountAttemptsByUser(ctx, sess.UserID())
	if err != nil {
		return Attempt{}, errors.Wrap(err, "counting attempts")
	}

	if attempt, err = svc.repo.CreateAttempt(ctx, attempt); err != nil {
		return Attempt{}, errors.Wrap(err, "saving attempt")
	}

	userID := sess.UserID()
	if _, err := svc.progSvc.Record(ctx, userID, progression.Event{
		Kind:   progression.ActivityQuizCompleted,
		Detail: attempt.QuizTitle,
	}); err != nil {
		return Attempt{}, err
	}
	if attempt.Score == 100 {
		if _, err := svc.progSvc.Record(ctx, userID, progression.Event{
			Kind: progression.ActivityQuizPerfect,
		}); err != nil {
			return Attempt{}, err
		}
	}
	if attemptCount == 0 {
		if _, err := svc.progSvc.AwardBadge(ctx, userID, progression.BadgeFirstQuiz); err != nil {
			return Attempt{}, err
		}
	}
	return attempt, nil
}
