package focus

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/taskspro/backend/core/progression"
)

var nowFunc = time.Now // mockable

type (
	Repository interface {
		CreateSession(ctx context.Context, s *Session) error
		QuerySessionsByUser(ctx context.Context, userID string) ([]Session, error)
	}

	Service interface {
		// Record stores a completed focus session and grants the focus XP.
		// The session's minutes feed the cumulative focus badge rules.
		Record(ctx context.Context, userID string, ns NewSession) (Session, error)
		Query(ctx context.Context, userID string) ([]Session, error)
		Stats(ctx context.Context, userID string) (Stats, error)
	}

	service struct {
		repo     Repository
		progSvc  progression.Service
		validate *validator.Validate
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, progSvc progression.Service, validate *validator.Validate) Service {
	return &service{
		repo:     repo,
		progSvc:  progSvc,
		validate: validate,
	}
}

func (svc service) Record(ctx context.Context, userID string, ns NewSession) (Session, error) {
	if err := ns.Validate(svc.validate); err != nil {
		return Session{}, err
	}

	s := Session{
		ID:              uuid.New().String(),
		UserID:          userID,
		DurationMinutes: ns.DurationMinutes,
		Label:           ns.Label,
		CompletedAt:     nowFunc().UTC(),
	}
	if err := svc.repo.CreateSession(ctx, &s); err != nil {
		return Session{}, errors.Wrap(err, "saving focus session")
	}

	evt := progression.Event{
		Kind:   progression.ActivityFocusSession,
		Amount: s.DurationMinutes,
		Detail: fmt.Sprintf("Completed a %d min focus session", s.DurationMinutes),
	}
	if _, err := svc.progSvc.Record(ctx, userID, evt); err != nil {
		return Session{}, errors.Wrap(err, "recording focus activity")
	}
	return s, nil
}

func (svc service) Query(ctx context.Context, userID string) ([]Session, error) {
	return svc.repo.QuerySessionsByUser(ctx, userID)
}

func (svc service) Stats(ctx context.Context, userID string) (Stats, error) {
	sessions, err := svc.Query(ctx, userID)
	if err != nil {
		return Stats{}, err
	}
	var stats Stats
	for _, s := range sessions {
		stats.TotalMinutes += s.DurationMinutes
		stats.TotalSessions++
	}
	return stats, nil
}
