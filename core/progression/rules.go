package progression

import "time"

// Kind identifies an activity fed into the engine.
type Kind string

const (
	ActivityDailyLogin          Kind = "daily_login"
	ActivityQuizCompleted       Kind = "quiz_completed"
	ActivityQuizPerfect         Kind = "quiz_perfect"
	ActivityFocusSession        Kind = "focus_session"
	ActivityNoteCreated         Kind = "note_created"
	ActivityDiscussionPost      Kind = "discussion_post"
	ActivityHelpfulAnswer       Kind = "helpful_answer"
	ActivityAssignmentSubmitted Kind = "assignment_submitted"
)

// Event is a single activity occurrence.
type Event struct {
	Kind   Kind
	Amount int    // focus session minutes
	Detail string // display annotation (quiz title, assignment title, ...)
}

// badgeRule awards a badge when its predicate holds over the post-update
// record and the triggering event.
type badgeRule struct {
	badgeID string
	applies func(p *Progression, evt Event) bool
}

// badgeRules are evaluated in order after every state-changing operation.
// Threshold rules are ascending so several thresholds crossed in one update
// each fire independently. awardBadge is idempotent, so re-evaluating a rule
// that already fired is harmless.
var badgeRules = []badgeRule{
	{BadgeFirstLogin, func(p *Progression, evt Event) bool {
		return evt.Kind == ActivityDailyLogin
	}},
	{BadgeStreak3, func(p *Progression, evt Event) bool { return p.Streak >= 3 }},
	{BadgeStreak7, func(p *Progression, evt Event) bool { return p.Streak >= 7 }},
	{BadgeStreak30, func(p *Progression, evt Event) bool { return p.Streak >= 30 }},
	{BadgeFocus60, func(p *Progression, evt Event) bool { return p.Counters.FocusMinutes >= 60 }},
	{BadgeFocus300, func(p *Progression, evt Event) bool { return p.Counters.FocusMinutes >= 300 }},
	{BadgeContributor, func(p *Progression, evt Event) bool { return p.Counters.HelpfulAnswers >= 10 }},
	{BadgeNoteTaker, func(p *Progression, evt Event) bool { return p.Counters.NotesCreated >= 20 }},
	{BadgeAssignment5, func(p *Progression, evt Event) bool { return p.Counters.AssignmentsSubmitted >= 5 }},
	{BadgeQuizAce, func(p *Progression, evt Event) bool { return evt.Kind == ActivityQuizPerfect }},
}

// evaluateRules awards every badge whose rule holds.
func evaluateRules(p *Progression, evt Event, at time.Time) {
	for _, rule := range badgeRules {
		if rule.applies(p, evt) {
			p.awardBadge(rule.badgeID, at)
		}
	}
}
