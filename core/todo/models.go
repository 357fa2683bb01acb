package todo

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/taskspro/backend/core"
)

var ErrNotFound = errors.New("todo not found")

// Priorities
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

type Todo struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Text      string    `json:"text" db:"text"`
	Priority  string    `json:"priority" db:"priority"`
	Done      bool      `json:"done" db:"done"`
	DueDate   null.Time `json:"due_date" db:"due_date"`
	CreatedAt time.Time `json:"created_at" db:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"` // UTC
}

type NewTodo struct {
	Text     string    `json:"text" validate:"required"`
	Priority string    `json:"priority" validate:"omitempty,oneof=low medium high"`
	DueDate  null.Time `json:"due_date"`
}

func (nt *NewTodo) Validate(validate *validator.Validate) error {
	nt.Text = core.CleanString(nt.Text)
	nt.Priority = core.CleanString(nt.Priority, true /* lower */)
	if nt.Priority == "" {
		nt.Priority = PriorityMedium
	}
	return validate.Struct(nt)
}

type UpdateTodo struct {
	Text     string    `json:"text"`
	Priority string    `json:"priority" validate:"omitempty,oneof=low medium high"`
	Done     *bool     `json:"done"`
	DueDate  null.Time `json:"due_date"`
}

func (ut *UpdateTodo) Validate(validate *validator.Validate) error {
	ut.Text = core.CleanString(ut.Text)
	ut.Priority = core.CleanString(ut.Priority, true /* lower */)
	return validate.Struct(ut)
}
