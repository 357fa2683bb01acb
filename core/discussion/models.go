package discussion

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/taskspro/backend/core"
)

var (
	ErrNotFound      = errors.New("discussion not found")
	ErrReplyNotFound = errors.New("reply not found")
	ErrNotAuthor     = errors.New("only the thread author can mark a reply helpful")
	ErrAlreadyMarked = errors.New("a helpful reply has already been marked")
	ErrOwnReply      = errors.New("cannot mark own reply helpful")
)

type Thread struct {
	ID             string    `json:"id" db:"id"`
	AuthorID       string    `json:"author_id" db:"author_id"`
	Title          string    `json:"title" db:"title"`
	Body           string    `json:"body" db:"body"`
	Subject        string    `json:"subject" db:"subject"`
	HelpfulReplyID string    `json:"helpful_reply_id,omitempty" db:"helpful_reply_id"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"` // UTC
	Replies        []Reply   `json:"replies,omitempty" db:"-"`
}

type Reply struct {
	ID        string    `json:"id" db:"id"`
	ThreadID  string    `json:"thread_id" db:"thread_id"`
	AuthorID  string    `json:"author_id" db:"author_id"`
	Body      string    `json:"body" db:"body"`
	Helpful   bool      `json:"helpful" db:"helpful"`
	CreatedAt time.Time `json:"created_at" db:"created_at"` // UTC
}

type NewThread struct {
	Title   string `json:"title" validate:"required"`
	Body    string `json:"body" validate:"required"`
	Subject string `json:"subject"`
}

func (nt *NewThread) Validate(validate *validator.Validate) error {
	nt.Title = core.CleanString(nt.Title)
	nt.Subject = core.CleanString(nt.Subject)
	if nt.Subject == "" {
		nt.Subject = "General"
	}
	return validate.Struct(nt)
}

type NewReply struct {
	Body string `json:"body" validate:"required"`
}

func (nr *NewReply) Validate(validate *validator.Validate) error {
	return validate.Struct(nr)
}
