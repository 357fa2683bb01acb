package focus

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/taskspro/backend/core"
)

var ErrNotFound = errors.New("focus session not found")

// Session is a completed focus (pomodoro) session.
type Session struct {
	ID              string    `json:"id" db:"id"`
	UserID          string    `json:"user_id" db:"user_id"`
	DurationMinutes int       `json:"duration_minutes" db:"duration_minutes"`
	Label           string    `json:"label" db:"label"`
	CompletedAt     time.Time `json:"completed_at" db:"completed_at"` // UTC
}

type NewSession struct {
	DurationMinutes int    `json:"duration_minutes" validate:"required,min=1"`
	Label           string `json:"label"`
}

func (ns *NewSession) Validate(validate *validator.Validate) error {
	ns.Label = core.CleanString(ns.Label)
	return validate.Struct(ns)
}

// Stats summarizes a user's focus history.
type Stats struct {
	TotalMinutes  int `json:"total_minutes"`
	TotalSessions int `json:"total_sessions"`
}
