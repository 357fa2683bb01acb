package progression

import (
	"errors"
	"time"

	"github.com/volatiletech/null/v8"
)

var (
	// errors
	ErrNotFound        = errors.New("progression record not found")
	ErrInvalidXPAmount = errors.New("xp amount must be a positive integer")
	ErrUnknownBadge    = errors.New("badge is not in the catalog")
)

// HistoryLimit caps the number of XP events kept per user, newest first.
const HistoryLimit = 50

// XP rewards per activity.
const (
	XPCompleteAssignment = 25
	XPCompleteQuiz       = 30
	XPQuizPerfect        = 50
	XPPostDiscussion     = 10
	XPHelpfulAnswer      = 15
	XPDailyLogin         = 5
	XPFocusSession       = 10
	XPCreateNote         = 5
	XPBadgeUnlock        = 20
)

// Badge IDs.
const (
	BadgeFirstLogin   = "first_login"
	BadgeFirstQuiz    = "first_quiz"
	BadgeQuizAce      = "quiz_ace"
	BadgeStreak3      = "streak_3"
	BadgeStreak7      = "streak_7"
	BadgeStreak30     = "streak_30"
	BadgeFocus60      = "focus_60"
	BadgeFocus300     = "focus_300"
	BadgeContributor  = "contributor"
	BadgeNoteTaker    = "note_taker"
	BadgeAssignment5  = "assignment_5"
	BadgeSemesterChmp = "semester_champ"
)

type (
	// Level is a named tier unlocked at a cumulative XP threshold.
	Level struct {
		Name  string `json:"name"`
		MinXP int    `json:"min_xp"`
		Emoji string `json:"emoji"`
	}

	// Badge is a one-time, non-revocable achievement flag.
	Badge struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
	}

	// XPEvent is one entry in a user's XP history.
	XPEvent struct {
		Amount int       `json:"amount"`
		Reason string    `json:"reason"` // display-only annotation
		At     time.Time `json:"at"`     // UTC
	}

	// Counters tracks lifetime activity totals read by badge rules.
	Counters struct {
		FocusMinutes         int `json:"focus_minutes"`
		NotesCreated         int `json:"notes_created"`
		HelpfulAnswers       int `json:"helpful_answers"`
		AssignmentsSubmitted int `json:"assignments_submitted"`
		DiscussionPosts      int `json:"discussion_posts"`
		QuizAttempts         int `json:"quiz_attempts"`
	}

	// Progression is one user's gamification record. It is only ever mutated
	// through the Service and persisted as a whole.
	Progression struct {
		UserID           string    `json:"user_id"`
		XP               int       `json:"xp"`
		Badges           []string  `json:"badges"`
		Streak           int       `json:"streak"`
		LastActivityDate null.Time `json:"last_activity_date"` // local midnight
		History          []XPEvent `json:"xp_history"`         // newest first
		Counters         Counters  `json:"counters"`
		UpdatedAt        time.Time `json:"updated_at"` // UTC
	}
)

// Levels is the static level catalog, ascending by MinXP.
var Levels = []Level{
	{Name: "Beginner", MinXP: 0, Emoji: "🌱"},
	{Name: "Learner", MinXP: 100, Emoji: "📘"},
	{Name: "Achiever", MinXP: 300, Emoji: "⭐"},
	{Name: "Scholar", MinXP: 600, Emoji: "🎓"},
	{Name: "Master", MinXP: 1000, Emoji: "🏆"},
	{Name: "Legend", MinXP: 2000, Emoji: "👑"},
}

// Badges is the static badge catalog. semester_champ is awarded externally
// (end-of-semester job), never by the engine.
var Badges = []Badge{
	{ID: BadgeFirstLogin, Name: "First Steps", Description: "Logged into TasksPro", Icon: "🚀"},
	{ID: BadgeFirstQuiz, Name: "Quiz Taker", Description: "Completed your first quiz", Icon: "📝"},
	{ID: BadgeQuizAce, Name: "Quiz Ace", Description: "Scored 100% on a quiz", Icon: "💯"},
	{ID: BadgeStreak3, Name: "On Fire", Description: "3-day study streak", Icon: "🔥"},
	{ID: BadgeStreak7, Name: "Unstoppable", Description: "7-day study streak", Icon: "⚡"},
	{ID: BadgeStreak30, Name: "Legendary Streak", Description: "30-day study streak", Icon: "💎"},
	{ID: BadgeFocus60, Name: "Deep Focus", Description: "60 minutes of focused study", Icon: "🧠"},
	{ID: BadgeFocus300, Name: "Focus Master", Description: "300 minutes total focus", Icon: "🎯"},
	{ID: BadgeContributor, Name: "Top Contributor", Description: "Helped 10 peers in discussions", Icon: "🤝"},
	{ID: BadgeNoteTaker, Name: "Note Expert", Description: "Created 20 notes", Icon: "📒"},
	{ID: BadgeAssignment5, Name: "Diligent", Description: "Submitted 5 assignments", Icon: "📋"},
	{ID: BadgeSemesterChmp, Name: "Semester Champion", Description: "Highest XP this semester", Icon: "🏅"},
}

// BadgeByID looks a badge up in the catalog.
func BadgeByID(id string) (Badge, bool) {
	for _, b := range Badges {
		if b.ID == id {
			return b, true
		}
	}
	return Badge{}, false
}

// NewProgression returns a fresh zero-value record for a user.
func NewProgression(userID string) Progression {
	return Progression{
		UserID:  userID,
		Badges:  []string{},
		History: []XPEvent{},
	}
}

func (p *Progression) HasBadge(id string) bool {
	for _, b := range p.Badges {
		if b == id {
			return true
		}
	}
	return false
}

// addXP increments XP and prepends a history entry, evicting the oldest
// entries beyond HistoryLimit. Zero and negative amounts are rejected and
// leave the record untouched.
func (p *Progression) addXP(amount int, reason string, at time.Time) error {
	if amount <= 0 {
		return ErrInvalidXPAmount
	}
	p.XP += amount
	p.History = append([]XPEvent{{Amount: amount, Reason: reason, At: at.UTC()}}, p.History...)
	if len(p.History) > HistoryLimit {
		p.History = p.History[:HistoryLimit]
	}
	return nil
}

// awardBadge adds the badge to the set and grants the unlock XP. It reports
// false without mutating when the badge is unknown or already held.
func (p *Progression) awardBadge(id string, at time.Time) bool {
	badge, ok := BadgeByID(id)
	if !ok || p.HasBadge(id) {
		return false
	}
	p.Badges = append(p.Badges, id)
	_ = p.addXP(XPBadgeUnlock, "Badge unlocked: "+badge.Name, at)
	return true
}

// recordDay applies the daily streak rule for `today` (a local midnight).
// It reports false when activity was already recorded today.
func (p *Progression) recordDay(today time.Time) bool {
	if p.LastActivityDate.Valid && p.LastActivityDate.Time.Equal(today) {
		return false
	}
	if p.LastActivityDate.Valid && p.LastActivityDate.Time.Equal(today.AddDate(0, 0, -1)) {
		p.Streak++
	} else {
		p.Streak = 1
	}
	p.LastActivityDate = null.TimeFrom(today)
	return true
}

// DateOf truncates t to its local midnight.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
