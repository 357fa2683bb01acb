package focus

import (
	"context"
	"testing"

	"github.com/taskspro/backend/core"
	"github.com/taskspro/backend/core/progression"
)

type mockRepo struct {
	sessions []Session
}

func (m *mockRepo) CreateSession(ctx context.Context, s *Session) error {
	m.sessions = append(m.sessions, *s)
	return nil
}

func (m *mockRepo) QuerySessionsByUser(ctx context.Context, userID string) ([]Session, error) {
	var out []Session
	for _, s := range m.sessions {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

type mockProgRepo struct {
	records map[string]progression.Progression
}

func (m *mockProgRepo) GetProgression(ctx context.Context, userID string) (progression.Progression, error) {
	p, ok := m.records[userID]
	if !ok {
		return progression.Progression{}, progression.ErrNotFound
	}
	return p, nil
}

func (m *mockProgRepo) SaveProgression(ctx context.Context, p progression.Progression) error {
	m.records[p.UserID] = p
	return nil
}

func setup(t *testing.T) (Service, progression.Service) {
	t.Helper()
	progSvc := progression.NewService(&mockProgRepo{records: make(map[string]progression.Progression)})
	validate, _ := core.NewValidator()
	return NewService(&mockRepo{}, progSvc, validate), progSvc
}

func TestService_Record(t *testing.T) {
	ctx := context.Background()
	svc, progSvc := setup(t)

	s, err := svc.Record(ctx, "user1", NewSession{DurationMinutes: 25, Label: "Deep work"})
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if s.DurationMinutes != 25 {
		t.Errorf("DurationMinutes = %d, want 25", s.DurationMinutes)
	}

	p, err := progSvc.Get(ctx, "user1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if p.XP != progression.XPFocusSession {
		t.Errorf("XP = %d, want %d", p.XP, progression.XPFocusSession)
	}
	if p.Counters.FocusMinutes != 25 {
		t.Errorf("FocusMinutes = %d, want 25", p.Counters.FocusMinutes)
	}
}

func TestService_Record_rejectsZeroMinutes(t *testing.T) {
	svc, _ := setup(t)
	if _, err := svc.Record(context.Background(), "user1", NewSession{DurationMinutes: 0}); err == nil {
		t.Error("Record() error = nil, want validation error")
	}
}

func TestService_Record_cumulativeMinutesAwardBadges(t *testing.T) {
	ctx := context.Background()
	svc, progSvc := setup(t)

	// 2 x 25 min: below the first threshold
	for i := 0; i < 2; i++ {
		if _, err := svc.Record(ctx, "user1", NewSession{DurationMinutes: 25}); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}
	p, _ := progSvc.Get(ctx, "user1")
	if p.HasBadge(progression.BadgeFocus60) {
		t.Error("unexpected focus_60 badge at 50 minutes")
	}

	// third session crosses 60 cumulative minutes
	if _, err := svc.Record(ctx, "user1", NewSession{DurationMinutes: 25}); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	p, _ = progSvc.Get(ctx, "user1")
	if !p.HasBadge(progression.BadgeFocus60) {
		t.Error("expected focus_60 badge at 75 minutes")
	}
	if p.HasBadge(progression.BadgeFocus300) {
		t.Error("unexpected focus_300 badge at 75 minutes")
	}

	stats, err := svc.Stats(ctx, "user1")
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.TotalMinutes != 75 || stats.TotalSessions != 3 {
		t.Errorf("Stats() = %+v, want 75 minutes over 3 sessions", stats)
	}
}
