package progression

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var nowFunc = time.Now // mockable

type (
	// Repository persists whole Progression records keyed by user ID.
	// A missing or unreadable record is reported as ErrNotFound; the service
	// treats both as a fresh zero-value record.
	Repository interface {
		GetProgression(ctx context.Context, userID string) (Progression, error)
		SaveProgression(ctx context.Context, p Progression) error
	}

	Service interface {
		// Get returns the user's record, a zero-value one if none exists yet.
		Get(ctx context.Context, userID string) (Progression, error)
		// AddXP grants XP with a display reason. amount must be positive.
		AddXP(ctx context.Context, userID string, amount int, reason string) (Progression, error)
		// AwardBadge awards a catalog badge once, granting the unlock XP on
		// first award. It reports false for unknown or already-held badges.
		AwardBadge(ctx context.Context, userID, badgeID string) (bool, error)
		// RecordDailyActivity applies the daily login streak rule and the
		// streak badge rules. Calling it again on the same calendar day is a
		// no-op.
		RecordDailyActivity(ctx context.Context, userID string) (Progression, error)
		// Record applies an activity event: counters, reward XP, badge rules.
		Record(ctx context.Context, userID string, evt Event) (Progression, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) Get(ctx context.Context, userID string) (Progression, error) {
	p, err := svc.repo.GetProgression(ctx, userID)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return NewProgression(userID), nil
		}
		return Progression{}, errors.Wrap(err, "getting progression")
	}
	return p, nil
}

func (svc *service) AddXP(ctx context.Context, userID string, amount int, reason string) (Progression, error) {
	p, err := svc.Get(ctx, userID)
	if err != nil {
		return Progression{}, err
	}
	if err := p.addXP(amount, reason, nowFunc()); err != nil {
		return Progression{}, err
	}
	return svc.save(ctx, p)
}

func (svc *service) AwardBadge(ctx context.Context, userID, badgeID string) (bool, error) {
	if _, ok := BadgeByID(badgeID); !ok {
		return false, ErrUnknownBadge
	}
	p, err := svc.Get(ctx, userID)
	if err != nil {
		return false, err
	}
	if !p.awardBadge(badgeID, nowFunc()) {
		return false, nil
	}
	if _, err := svc.save(ctx, p); err != nil {
		return false, err
	}
	return true, nil
}

func (svc *service) RecordDailyActivity(ctx context.Context, userID string) (Progression, error) {
	p, err := svc.Get(ctx, userID)
	if err != nil {
		return Progression{}, err
	}

	now := nowFunc()
	if !p.recordDay(DateOf(now)) {
		return p, nil // already recorded today
	}
	_ = p.addXP(XPDailyLogin, "Daily Login", now)
	evaluateRules(&p, Event{Kind: ActivityDailyLogin}, now)
	return svc.save(ctx, p)
}

func (svc *service) Record(ctx context.Context, userID string, evt Event) (Progression, error) {
	p, err := svc.Get(ctx, userID)
	if err != nil {
		return Progression{}, err
	}

	now := nowFunc()
	switch evt.Kind {
	case ActivityQuizCompleted:
		p.Counters.QuizAttempts++
		_ = p.addXP(XPCompleteQuiz, "Completed quiz: "+evt.Detail, now)
	case ActivityQuizPerfect:
		_ = p.addXP(XPQuizPerfect, "Perfect quiz score!", now)
	case ActivityFocusSession:
		if evt.Amount <= 0 {
			return Progression{}, ErrInvalidXPAmount
		}
		p.Counters.FocusMinutes += evt.Amount
		_ = p.addXP(XPFocusSession, "Focus session completed", now)
	case ActivityNoteCreated:
		p.Counters.NotesCreated++
		_ = p.addXP(XPCreateNote, "Created a note", now)
	case ActivityDiscussionPost:
		p.Counters.DiscussionPosts++
		_ = p.addXP(XPPostDiscussion, "Posted in discussions", now)
	case ActivityHelpfulAnswer:
		p.Counters.HelpfulAnswers++
		_ = p.addXP(XPHelpfulAnswer, "Helpful answer", now)
	case ActivityAssignmentSubmitted:
		p.Counters.AssignmentsSubmitted++
		_ = p.addXP(XPCompleteAssignment, "Submitted assignment: "+evt.Detail, now)
	default:
		return Progression{}, errors.Errorf("unknown activity kind %q", evt.Kind)
	}

	evaluateRules(&p, evt, now)
	return svc.save(ctx, p)
}

func (svc *service) save(ctx context.Context, p Progression) (Progression, error) {
	p.UpdatedAt = nowFunc().UTC()
	if err := svc.repo.SaveProgression(ctx, p); err != nil {
		return Progression{}, errors.Wrap(err, "saving progression")
	}
	return p, nil
}
