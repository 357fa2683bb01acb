package quiz

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/taskspro/backend/core"
)

var (
	// errors
	ErrNotFound = errors.New("quiz not found")
)

type (
	// Question is one multiple-choice question with exactly four options.
	Question struct {
		ID          string   `json:"id"`
		Prompt      string   `json:"prompt"`
		Options     []string `json:"options"`
		Correct     int      `json:"correct"`
		Explanation string   `json:"explanation,omitempty"`
	}

	// Quiz is immutable once created; there is no edit operation.
	Quiz struct {
		ID         string     `json:"id"`
		Title      string     `json:"title"`
		Subject    string     `json:"subject"`
		Difficulty string     `json:"difficulty"` // easy | medium | hard
		TimeLimit  int        `json:"time_limit"` // seconds
		CreatedBy  string     `json:"created_by"` // user ID; "system" for seeded quizzes
		CreatedAt  time.Time  `json:"created_at"` // UTC
		Questions  []Question `json:"questions"`
	}

	// Attempt is one scored, immutable record of a user taking a quiz.
	Attempt struct {
		ID           string      `json:"id"`
		QuizID       string      `json:"quiz_id"`
		QuizTitle    string      `json:"quiz_title"`
		UserID       string      `json:"user_id"`
		Answers      map[int]int `json:"answers"` // question index -> chosen option index
		Score        int         `json:"score"`   // percentage 0-100
		CorrectCount int         `json:"correct"`
		TotalCount   int         `json:"total"`
		TimeTaken    int         `json:"time_taken"` // seconds
		CompletedAt  time.Time   `json:"completed_at"`
	}
)

// NewQuiz contains information needed to create a new Quiz. An empty question
// list is rejected here so scoring never has to handle it.
type NewQuiz struct {
	Title      string        `json:"title" validate:"required"`
	Subject    string        `json:"subject"`
	Difficulty string        `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	TimeLimit  int           `json:"time_limit" validate:"required,gte=30,lte=7200"`
	Questions  []NewQuestion `json:"questions" validate:"required,min=1,dive"`
}

type NewQuestion struct {
	Prompt      string   `json:"prompt" validate:"required"`
	Options     []string `json:"options" validate:"required,len=4,dive,required"`
	Correct     int      `json:"correct" validate:"gte=0,lte=3"`
	Explanation string   `json:"explanation"`
}

func (nq *NewQuiz) Validate(validate *validator.Validate) error {
	nq.Title = core.CleanString(nq.Title)
	nq.Subject = core.CleanString(nq.Subject)
	if nq.Subject == "" {
		nq.Subject = "General"
	}
	if nq.Difficulty == "" {
		nq.Difficulty = "medium"
	}
	return validate.Struct(nq)
}
