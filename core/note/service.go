package note

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/taskspro/backend/core/progression"
)

var nowFunc = time.Now // mockable

type (
	Repository interface {
		CreateNote(ctx context.Context, n *Note) error
		QueryNotesByUser(ctx context.Context, userID string) ([]Note, error)
		GetNoteByID(ctx context.Context, id string) (Note, error)
		UpdateNote(ctx context.Context, n *Note) error
		DeleteNote(ctx context.Context, id string) error
	}

	Service interface {
		// Create stores a note and grants the note creation XP.
		Create(ctx context.Context, userID string, nn NewNote) (Note, error)
		Query(ctx context.Context, userID string) ([]Note, error)
		GetByID(ctx context.Context, userID, id string) (Note, error)
		Update(ctx context.Context, userID, id string, un UpdateNote) (Note, error)
		Delete(ctx context.Context, userID, id string) error
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

func (svc service) Create(ctx context.Context, userID string, nn NewNote) (Note, error) {
	if err := nn.Validate(svc.validate); err != nil {
		return Note{}, err
	}

	now := nowFunc().UTC()
	n := Note{
		ID:        uuid.New().String(),
		UserID:    userID,
		Title:     nn.Title,
		Content:   nn.Content,
		Subject:   nn.Subject,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := svc.repo.CreateNote(ctx, &n); err != nil {
		return Note{}, errors.Wrap(err, "creating note")
	}

	evt := progression.Event{Kind: progression.ActivityNoteCreated, Detail: "Created note: " + n.Title}
	if _, err := svc.progSvc.Record(ctx, userID, evt); err != nil {
		return Note{}, errors.Wrap(err, "recording note activity")
	}
	return n, nil
}

func (svc service) Query(ctx context.Context, userID string) ([]Note, error) {
	return svc.repo.QueryNotesByUser(ctx, userID)
}

func (svc service) GetByID(ctx context.Context, userID, id string) (Note, error) {
	n, err := svc.repo.GetNoteByID(ctx, id)
	if err != nil {
		return Note{}, err
	}
	if n.UserID != userID {
		return Note{}, ErrNotFound
	}
	return n, nil
}

func (svc service) Update(ctx context.Context, userID, id string, un UpdateNote) (Note, error) {
	n, err := svc.GetByID(ctx, userID, id)
	if err != nil {
		return Note{}, err
	}
	if err := un.Validate(svc.validate); err != nil {
		return Note{}, err
	}

	if un.Title != "" {
		n.Title = un.Title
	}
	if un.Content != nil {
		n.Content = *un.Content
	}
	if un.Subject != "" {
		n.Subject = un.Subject
	}
	if un.Pinned != nil {
		n.Pinned = *un.Pinned
	}
	n.UpdatedAt = nowFunc().UTC()

	if err := svc.repo.UpdateNote(ctx, &n); err != nil {
		return Note{}, errors.Wrap(err, "updating note")
	}
	return n, nil
}

func (svc service) Delete(ctx context.Context, userID, id string) error {
	if _, err := svc.GetByID(ctx, userID, id); err != nil {
		return err
	}
	return svc.repo.DeleteNote(ctx, id)
}
