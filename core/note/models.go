package note

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/taskspro/backend/core"
)

var ErrNotFound = errors.New("note not found")

type Note struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Title     string    `json:"title" db:"title"`
	Content   string    `json:"content" db:"content"`
	Subject   string    `json:"subject" db:"subject"`
	Pinned    bool      `json:"pinned" db:"pinned"`
	CreatedAt time.Time `json:"created_at" db:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"` // UTC
}

type NewNote struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content"`
	Subject string `json:"subject"`
}

func (nn *NewNote) Validate(validate *validator.Validate) error {
	nn.Title = core.CleanString(nn.Title)
	nn.Subject = core.CleanString(nn.Subject)
	if nn.Subject == "" {
		nn.Subject = "General"
	}
	return validate.Struct(nn)
}

type UpdateNote struct {
	Title   string  `json:"title"`
	Content *string `json:"content"`
	Subject string  `json:"subject"`
	Pinned  *bool   `json:"pinned"`
}

func (un *UpdateNote) Validate(validate *validator.Validate) error {
	un.Title = core.CleanString(un.Title)
	un.Subject = core.CleanString(un.Subject)
	return validate.Struct(un)
}
