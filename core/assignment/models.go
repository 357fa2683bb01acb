package assignment

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/taskspro/backend/core"
)

var (
	ErrNotFound = errors.New("assignment not found")
	ErrPastDue  = errors.New("assignment is past due")
)

type Assignment struct {
	ID          string    `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Subject     string    `json:"subject" db:"subject"`
	DueDate     null.Time `json:"due_date" db:"due_date"`
	CreatedBy   string    `json:"created_by" db:"created_by"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"` // UTC
}

// PastDue reports whether the assignment's due date has passed.
func (a Assignment) PastDue(now time.Time) bool {
	return a.DueDate.Valid && now.After(a.DueDate.Time)
}

type Submission struct {
	ID           string    `json:"id" db:"id"`
	AssignmentID string    `json:"assignment_id" db:"assignment_id"`
	UserID       string    `json:"user_id" db:"user_id"`
	Content      string    `json:"content" db:"content"`
	SubmittedAt  time.Time `json:"submitted_at" db:"submitted_at"` // UTC
}

type NewAssignment struct {
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description"`
	Subject     string    `json:"subject"`
	DueDate     null.Time `json:"due_date"`
}

func (na *NewAssignment) Validate(validate *validator.Validate) error {
	na.Title = core.CleanString(na.Title)
	na.Description = core.CleanString(na.Description)
	na.Subject = core.CleanString(na.Subject)
	if na.Subject == "" {
		na.Subject = "General"
	}
	return validate.Struct(na)
}

type NewSubmission struct {
	Content string `json:"content" validate:"required"`
}

func (ns *NewSubmission) Validate(validate *validator.Validate) error {
	ns.Content = core.CleanString(ns.Content)
	return validate.Struct(ns)
}
