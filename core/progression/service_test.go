package progression

import (
	"context"
	"fmt"
	"testing"
	"time"
)

type mockRepo struct {
	records map[string]Progression
}

func newMockRepo() *mockRepo {
	return &mockRepo{records: make(map[string]Progression)}
}

func (m *mockRepo) GetProgression(ctx context.Context, userID string) (Progression, error) {
	p, ok := m.records[userID]
	if !ok {
		return Progression{}, ErrNotFound
	}
	return p, nil
}

func (m *mockRepo) SaveProgression(ctx context.Context, p Progression) error {
	m.records[p.UserID] = p
	return nil
}

func setNow(t *testing.T, at time.Time) {
	t.Helper()
	nowFunc = func() time.Time { return at }
	t.Cleanup(func() { nowFunc = time.Now })
}

func TestService_AddXP(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()

	p, err := svc.AddXP(ctx, "u1", 30, "Completed quiz: Algorithms")
	if err != nil {
		t.Fatalf("AddXP() error = %v", err)
	}
	if p.XP != 30 {
		t.Errorf("XP = %d, want 30", p.XP)
	}
	if len(p.History) != 1 || p.History[0].Reason != "Completed quiz: Algorithms" {
		t.Errorf("unexpected history: %+v", p.History)
	}

	if _, err := svc.AddXP(ctx, "u1", 0, "zero"); err != ErrInvalidXPAmount {
		t.Errorf("AddXP(0) error = %v, want ErrInvalidXPAmount", err)
	}
	if _, err := svc.AddXP(ctx, "u1", -5, "negative"); err != ErrInvalidXPAmount {
		t.Errorf("AddXP(-5) error = %v, want ErrInvalidXPAmount", err)
	}
	p, _ = svc.Get(ctx, "u1")
	if p.XP != 30 {
		t.Errorf("XP after rejected grants = %d, want 30", p.XP)
	}
}

func TestService_AddXP_historyCap(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()

	for i := 1; i <= 60; i++ {
		if _, err := svc.AddXP(ctx, "u1", i, fmt.Sprintf("grant %d", i)); err != nil {
			t.Fatalf("AddXP() error = %v", err)
		}
	}

	p, _ := svc.Get(ctx, "u1")
	if len(p.History) != HistoryLimit {
		t.Fatalf("history length = %d, want %d", len(p.History), HistoryLimit)
	}
	// newest first: grants 60 down to 11 remain
	if p.History[0].Reason != "grant 60" {
		t.Errorf("History[0].Reason = %q, want \"grant 60\"", p.History[0].Reason)
	}
	if p.History[HistoryLimit-1].Reason != "grant 11" {
		t.Errorf("History[49].Reason = %q, want \"grant 11\"", p.History[HistoryLimit-1].Reason)
	}
}

func TestService_AwardBadge_idempotent(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()

	awarded, err := svc.AwardBadge(ctx, "u1", BadgeQuizAce)
	if err != nil {
		t.Fatalf("AwardBadge() error = %v", err)
	}
	if !awarded {
		t.Fatal("AwardBadge() = false on first award, want true")
	}

	awarded, err = svc.AwardBadge(ctx, "u1", BadgeQuizAce)
	if err != nil {
		t.Fatalf("AwardBadge() second call error = %v", err)
	}
	if awarded {
		t.Error("AwardBadge() = true on second award, want false")
	}

	p, _ := svc.Get(ctx, "u1")
	if p.XP != XPBadgeUnlock {
		t.Errorf("XP = %d, want exactly one unlock grant of %d", p.XP, XPBadgeUnlock)
	}
	if len(p.Badges) != 1 {
		t.Errorf("badges = %v, want exactly one entry", p.Badges)
	}

	if _, err := svc.AwardBadge(ctx, "u1", "no_such_badge"); err != ErrUnknownBadge {
		t.Errorf("AwardBadge(unknown) error = %v, want ErrUnknownBadge", err)
	}
}

func TestService_RecordDailyActivity(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()
	day1 := time.Date(2026, time.March, 2, 9, 30, 0, 0, time.Local)

	setNow(t, day1)
	p, err := svc.RecordDailyActivity(ctx, "u1")
	if err != nil {
		t.Fatalf("RecordDailyActivity() error = %v", err)
	}
	if p.Streak != 1 {
		t.Errorf("streak = %d, want 1 on first activity", p.Streak)
	}
	if !p.HasBadge(BadgeFirstLogin) {
		t.Error("first_login badge not awarded on first activity")
	}
	// 5 daily login XP + 20 badge XP
	if p.XP != XPDailyLogin+XPBadgeUnlock {
		t.Errorf("XP = %d, want %d", p.XP, XPDailyLogin+XPBadgeUnlock)
	}

	// same day again: no-op
	setNow(t, day1.Add(6*time.Hour))
	p2, err := svc.RecordDailyActivity(ctx, "u1")
	if err != nil {
		t.Fatalf("RecordDailyActivity() error = %v", err)
	}
	if p2.Streak != 1 || p2.XP != p.XP {
		t.Errorf("same-day activity mutated record: streak=%d xp=%d", p2.Streak, p2.XP)
	}

	// consecutive days increment
	for i := 1; i <= 2; i++ {
		setNow(t, day1.AddDate(0, 0, i))
		if p, err = svc.RecordDailyActivity(ctx, "u1"); err != nil {
			t.Fatalf("RecordDailyActivity() error = %v", err)
		}
	}
	if p.Streak != 3 {
		t.Errorf("streak = %d, want 3 after three consecutive days", p.Streak)
	}
	if !p.HasBadge(BadgeStreak3) {
		t.Error("streak_3 badge not awarded at streak 3")
	}

	// a 2-day gap resets to 1
	setNow(t, day1.AddDate(0, 0, 5))
	if p, err = svc.RecordDailyActivity(ctx, "u1"); err != nil {
		t.Fatalf("RecordDailyActivity() error = %v", err)
	}
	if p.Streak != 1 {
		t.Errorf("streak = %d, want 1 after gap", p.Streak)
	}
}

func TestService_RecordDailyActivity_streakBadgeProgression(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()
	start := time.Date(2026, time.January, 5, 8, 0, 0, 0, time.Local)

	var p Progression
	var err error
	for i := 0; i < 30; i++ {
		setNow(t, start.AddDate(0, 0, i))
		if p, err = svc.RecordDailyActivity(ctx, "u1"); err != nil {
			t.Fatalf("RecordDailyActivity() day %d error = %v", i, err)
		}
	}
	if p.Streak != 30 {
		t.Fatalf("streak = %d, want 30", p.Streak)
	}
	for _, id := range []string{BadgeStreak3, BadgeStreak7, BadgeStreak30} {
		if !p.HasBadge(id) {
			t.Errorf("badge %s not awarded by day 30", id)
		}
	}
}

func TestService_Record_counterBadges(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()

	var p Progression
	var err error
	for i := 0; i < 6; i++ {
		if p, err = svc.Record(ctx, "u1", Event{Kind: ActivityFocusSession, Amount: 25}); err != nil {
			t.Fatalf("Record(focus) error = %v", err)
		}
	}
	if p.Counters.FocusMinutes != 150 {
		t.Errorf("focus minutes = %d, want 150", p.Counters.FocusMinutes)
	}
	if !p.HasBadge(BadgeFocus60) {
		t.Error("focus_60 badge not awarded at 150 cumulative minutes")
	}
	if p.HasBadge(BadgeFocus300) {
		t.Error("focus_300 badge awarded below threshold")
	}

	for i := 0; i < 10; i++ {
		if p, err = svc.Record(ctx, "u1", Event{Kind: ActivityHelpfulAnswer}); err != nil {
			t.Fatalf("Record(helpful) error = %v", err)
		}
	}
	if !p.HasBadge(BadgeContributor) {
		t.Error("contributor badge not awarded after 10 helpful answers")
	}
}

func TestService_Record_quizPerfectAwardsAce(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()

	p, err := svc.Record(ctx, "u1", Event{Kind: ActivityQuizCompleted, Detail: "Algorithms"})
	if err != nil {
		t.Fatalf("Record(quiz_completed) error = %v", err)
	}
	if p.HasBadge(BadgeQuizAce) {
		t.Error("quiz_ace awarded without a perfect score")
	}

	p, err = svc.Record(ctx, "u1", Event{Kind: ActivityQuizPerfect})
	if err != nil {
		t.Fatalf("Record(quiz_perfect) error = %v", err)
	}
	if !p.HasBadge(BadgeQuizAce) {
		t.Error("quiz_ace not awarded on perfect score")
	}
	wantXP := XPCompleteQuiz + XPQuizPerfect + XPBadgeUnlock
	if p.XP != wantXP {
		t.Errorf("XP = %d, want %d", p.XP, wantXP)
	}
}

func TestService_Get_absentRecord(t *testing.T) {
	svc := NewService(newMockRepo())

	p, err := svc.Get(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if p.UserID != "ghost" || p.XP != 0 || p.Streak != 0 || len(p.Badges) != 0 {
		t.Errorf("Get() on absent record = %+v, want zero value", p)
	}
}
