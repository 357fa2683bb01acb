package quiz

import (
	"errors"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	// errors
	ErrSessionNotActive = errors.New("quiz session is not in progress")
	ErrQuestionIndex    = errors.New("question index out of range")
	ErrOptionIndex      = errors.New("option index out of range")
)

// State is a quiz session's lifecycle state.
type State int

const (
	StateNotStarted State = iota
	StateInProgress
	StateSubmitted
)

func (s State) String() string {
	switch s {
	case StateInProgress:
		return "in_progress"
	case StateSubmitted:
		return "submitted"
	default:
		return "not_started"
	}
}

// Session drives a single quiz attempt from start through answering to a
// scored result. Submitted is terminal: a retry is a new Session, never a
// resume. The session holds no timers; an external scheduler calls Tick once
// per second and submits when Tick reports expiry. Safe for concurrent use:
// the scheduler ticks from its own goroutine while handlers read.
type Session struct {
	mu        sync.Mutex
	quiz      Quiz   // immutable
	userID    string // immutable
	state     State
	remaining int // seconds
	answers   map[int]int
	startedAt time.Time
}

func NewSession(quiz Quiz, userID string) *Session {
	return &Session{
		quiz:   quiz,
		userID: userID,
		state:  StateNotStarted,
	}
}

func (s *Session) Quiz() Quiz     { return s.quiz }
func (s *Session) UserID() string { return s.userID }

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remaining
}

// Answers returns a copy of the recorded answers.
func (s *Session) Answers() map[int]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyAnswers()
}

func (s *Session) copyAnswers() map[int]int {
	out := make(map[int]int, len(s.answers))
	for k, v := range s.answers {
		out[k] = v
	}
	return out
}

// Start transitions NotStarted -> InProgress.
func (s *Session) Start(now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateNotStarted {
		return ErrSessionNotActive
	}
	s.state = StateInProgress
	s.remaining = s.quiz.TimeLimit
	s.answers = make(map[int]int)
	s.startedAt = now
	return nil
}

// SelectAnswer records (or overwrites) the answer for a question. Valid only
// while InProgress; out-of-range indices are rejected.
func (s *Session) SelectAnswer(questionIdx, optionIdx int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateInProgress {
		return ErrSessionNotActive
	}
	if questionIdx < 0 || questionIdx >= len(s.quiz.Questions) {
		return ErrQuestionIndex
	}
	if optionIdx < 0 || optionIdx >= len(s.quiz.Questions[questionIdx].Options) {
		return ErrOptionIndex
	}
	s.answers[questionIdx] = optionIdx
	return nil
}

// Tick decrements the remaining time by one second and reports whether the
// session just ran out of time. The caller is expected to Submit then; Tick
// itself never changes state.
func (s *Session) Tick() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateInProgress {
		return false
	}
	if s.remaining > 0 {
		s.remaining--
	}
	return s.remaining == 0
}

// Submit scores the recorded answers and transitions to the terminal
// Submitted state. Unanswered questions count as incorrect. Calling Submit on
// an already-submitted session fails with ErrSessionNotActive and never
// produces a second Attempt.
func (s *Session) Submit(now time.Time) (Attempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateInProgress {
		return Attempt{}, ErrSessionNotActive
	}
	s.state = StateSubmitted

	var correct int
	for i, q := range s.quiz.Questions {
		if answer, ok := s.answers[i]; ok && answer == q.Correct {
			correct++
		}
	}
	total := len(s.quiz.Questions)

	return Attempt{
		ID:           uuid.New().String(),
		QuizID:       s.quiz.ID,
		QuizTitle:    s.quiz.Title,
		UserID:       s.userID,
		Answers:      s.copyAnswers(),
		Score:        int(math.Round(float64(correct) / float64(total) * 100)),
		CorrectCount: correct,
		TotalCount:   total,
		TimeTaken:    s.quiz.TimeLimit - s.remaining,
		CompletedAt:  now.UTC(),
	}, nil
}
