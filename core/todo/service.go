package todo

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var nowFunc = time.Now // mockable

type (
	Repository interface {
		CreateTodo(ctx context.Context, t *Todo) error
		QueryTodosByUser(ctx context.Context, userID string) ([]Todo, error)
		GetTodoByID(ctx context.Context, id string) (Todo, error)
		UpdateTodo(ctx context.Context, t *Todo) error
		DeleteTodo(ctx context.Context, id string) error
	}

	Service interface {
		Create(ctx context.Context, userID string, nt NewTodo) (Todo, error)
		Query(ctx context.Context, userID string) ([]Todo, error)
		GetByID(ctx context.Context, userID, id string) (Todo, error)
		Update(ctx context.Context, userID, id string, ut UpdateTodo) (Todo, error)
		Delete(ctx context.Context, userID, id string) error
	}

	service struct {
		repo     Repository
		validate *validator.Validate
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, validate *validator.Validate) Service {
	return &service{
		repo:     repo,
		validate: validate,
	}
}

func (svc service) Create(ctx context.Context, userID string, nt NewTodo) (Todo, error) {
	if err := nt.Validate(svc.validate); err != nil {
		return Todo{}, err
	}

	now := nowFunc().UTC()
	t := Todo{
		ID:        uuid.New().String(),
		UserID:    userID,
		Text:      nt.Text,
		Priority:  nt.Priority,
		DueDate:   nt.DueDate,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := svc.repo.CreateTodo(ctx, &t); err != nil {
		return Todo{}, errors.Wrap(err, "creating todo")
	}
	return t, nil
}

func (svc service) Query(ctx context.Context, userID string) ([]Todo, error) {
	return svc.repo.QueryTodosByUser(ctx, userID)
}

func (svc service) GetByID(ctx context.Context, userID, id string) (Todo, error) {
	t, err := svc.repo.GetTodoByID(ctx, id)
	if err != nil {
		return Todo{}, err
	}
	if t.UserID != userID {
		return Todo{}, ErrNotFound
	}
	return t, nil
}

func (svc service) Update(ctx context.Context, userID, id string, ut UpdateTodo) (Todo, error) {
	t, err := svc.GetByID(ctx, userID, id)
	if err != nil {
		return Todo{}, err
	}
	if err := ut.Validate(svc.validate); err != nil {
		return Todo{}, err
	}

	if ut.Text != "" {
		t.Text = ut.Text
	}
	if ut.Priority != "" {
		t.Priority = ut.Priority
	}
	if ut.Done != nil {
		t.Done = *ut.Done
	}
	if ut.DueDate.Valid {
		t.DueDate = ut.DueDate
	}
	t.UpdatedAt = nowFunc().UTC()

	if err := svc.repo.UpdateTodo(ctx, &t); err != nil {
		return Todo{}, errors.Wrap(err, "updating todo")
	}
	return t, nil
}

func (svc service) Delete(ctx context.Context, userID, id string) error {
	if _, err := svc.GetByID(ctx, userID, id); err != nil {
		return err
	}
	return svc.repo.DeleteTodo(ctx, id)
}
