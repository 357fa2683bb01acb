package quiz

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/taskspro/backend/core"
	"github.com/taskspro/backend/core/progression"
)

type mockRepo struct {
	quizzes          map[string]Quiz
	attempts         []Attempt
	createAttemptErr error
}

func newMockRepo() *mockRepo {
	return &mockRepo{quizzes: make(map[string]Quiz)}
}

func (m *mockRepo) CreateQuiz(ctx context.Context, q Quiz) (Quiz, error) {
	m.quizzes[q.ID] = q
	return q, nil
}

func (m *mockRepo) GetQuizByID(ctx context.Context, id string) (Quiz, error) {
	q, ok := m.quizzes[id]
	if !ok {
		return Quiz{}, ErrNotFound
	}
	return q, nil
}

func (m *mockRepo) QueryAllQuizzes(ctx context.Context) ([]Quiz, error) {
	out := make([]Quiz, 0, len(m.quizzes))
	for _, q := range m.quizzes {
		out = append(out, q)
	}
	return out, nil
}

func (m *mockRepo) CreateAttempt(ctx context.Context, a Attempt) (Attempt, error) {
	if m.createAttemptErr != nil {
		return Attempt{}, m.createAttemptErr
	}
	m.attempts = append(m.attempts, a)
	return a, nil
}

func (m *mockRepo) QueryAttemptsByUser(ctx context.Context, userID string) ([]Attempt, error) {
	var out []Attempt
	for _, a := range m.attempts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *mockRepo) CountAttemptsByUser(ctx context.Context, userID string) (int, error) {
	attempts, _ := m.QueryAttemptsByUser(ctx, userID)
	return len(attempts), nil
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

// recordLogger captures Error calls, discarding everything else.
type recordLogger struct {
	mu     sync.Mutex
	errors []string
}

func (l *recordLogger) Enable(bool)                  {}
func (l *recordLogger) Debug(string, ...interface{}) {}
func (l *recordLogger) Info(string, ...interface{})  {}
func (l *recordLogger) Warn(string, ...interface{})  {}
func (l *recordLogger) Fatal(string, ...interface{}) {}

func (l *recordLogger) Error(msg string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, msg)
}

func setup(t *testing.T) (Service, *mockRepo, progression.Service) {
	t.Helper()
	repo := newMockRepo()
	progSvc := progression.NewService(&mockProgRepo{records: make(map[string]progression.Progression)})
	validate, _ := core.NewValidator()
	return NewService(repo, progSvc, validate, &recordLogger{}), repo, progSvc
}

func createQuiz(t *testing.T, svc Service) Quiz {
	t.Helper()
	nq := NewQuiz{
		Title:     "Data Structures Basics",
		Subject:   "DSA",
		TimeLimit: 300,
		Questions: []NewQuestion{
			{Prompt: "hash table lookup", Options: []string{"O(n)", "O(1)", "O(log n)", "O(n²)"}, Correct: 1},
			{Prompt: "LIFO structure", Options: []string{"Queue", "Array", "Stack", "List"}, Correct: 2},
			{Prompt: "quicksort worst case", Options: []string{"O(n log n)", "O(n)", "O(n²)", "O(log n)"}, Correct: 2},
			{Prompt: "inorder traversal", Options: []string{"Preorder", "Inorder", "Postorder", "Level"}, Correct: 1},
			{Prompt: "complete tree height", Options: []string{"O(n)", "O(log n)", "O(n²)", "O(1)"}, Correct: 1},
		},
	}
	q, err := svc.Create(context.Background(), "author", nq)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	return q
}

func TestService_Create_rejectsEmptyQuestions(t *testing.T) {
	svc, _, _ := setup(t)
	nq := NewQuiz{Title: "Empty", TimeLimit: 300}
	if _, err := svc.Create(context.Background(), "author", nq); err == nil {
		t.Fatal("Create() with no questions succeeded, want validation error")
	}
}

func TestService_Create_rejectsBadOptionCount(t *testing.T) {
	svc, _, _ := setup(t)
	nq := NewQuiz{
		Title:     "Bad",
		TimeLimit: 300,
		Questions: []NewQuestion{{Prompt: "q", Options: []string{"a", "b"}, Correct: 0}},
	}
	if _, err := svc.Create(context.Background(), "author", nq); err == nil {
		t.Fatal("Create() with 2 options succeeded, want validation error")
	}
}

func TestService_Submit_sideEffects(t *testing.T) {
	svc, _, progSvc := setup(t)
	ctx := context.Background()
	q := createQuiz(t, svc)

	sess, err := svc.StartSession(ctx, "student", q.ID)
	if err != nil {
		t.Fatalf("StartSession() error = %v", err)
	}
	// 3 of 5 correct
	_ = sess.SelectAnswer(0, 1)
	_ = sess.SelectAnswer(1, 2)
	_ = sess.SelectAnswer(2, 2)
	_ = sess.SelectAnswer(3, 0)

	attempt, err := svc.Submit(ctx, "student")
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if attempt.Score != 60 || attempt.CorrectCount != 3 {
		t.Errorf("attempt = %d%% (%d correct), want 60%% (3)", attempt.Score, attempt.CorrectCount)
	}

	p, _ := progSvc.Get(ctx, "student")
	// 30 completion XP + first_quiz badge (20)
	if p.XP != progression.XPCompleteQuiz+progression.XPBadgeUnlock {
		t.Errorf("XP = %d, want %d", p.XP, progression.XPCompleteQuiz+progression.XPBadgeUnlock)
	}
	if !p.HasBadge(progression.BadgeFirstQuiz) {
		t.Error("first_quiz badge not awarded on first attempt")
	}
	if p.HasBadge(progression.BadgeQuizAce) {
		t.Error("quiz_ace awarded for a 60% score")
	}

	// a second submit without an active session is rejected
	if _, err := svc.Submit(ctx, "student"); err != ErrNoActiveSession {
		t.Errorf("Submit() without session error = %v, want ErrNoActiveSession", err)
	}
}

func TestService_Submit_perfectScore(t *testing.T) {
	svc, _, progSvc := setup(t)
	ctx := context.Background()
	q := createQuiz(t, svc)

	sess, err := svc.StartSession(ctx, "student", q.ID)
	if err != nil {
		t.Fatalf("StartSession() error = %v", err)
	}
	for i, qq := range sess.Quiz().Questions {
		_ = sess.SelectAnswer(i, qq.Correct)
	}

	attempt, err := svc.Submit(ctx, "student")
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if attempt.Score != 100 {
		t.Fatalf("score = %d, want 100", attempt.Score)
	}

	p, _ := progSvc.Get(ctx, "student")
	if !p.HasBadge(progression.BadgeQuizAce) {
		t.Error("quiz_ace badge not awarded on perfect score")
	}
	if !p.HasBadge(progression.BadgeFirstQuiz) {
		t.Error("first_quiz badge not awarded on first attempt")
	}
	// 30 + 50 + two badge unlocks
	want := progression.XPCompleteQuiz + progression.XPQuizPerfect + 2*progression.XPBadgeUnlock
	if p.XP != want {
		t.Errorf("XP = %d, want %d", p.XP, want)
	}
}

func TestService_Submit_secondAttemptNoFirstQuizBadge(t *testing.T) {
	svc, repo, progSvc := setup(t)
	ctx := context.Background()
	q := createQuiz(t, svc)

	for i := 0; i < 2; i++ {
		if _, err := svc.StartSession(ctx, "student", q.ID); err != nil {
			t.Fatalf("StartSession() error = %v", err)
		}
		if _, err := svc.Submit(ctx, "student"); err != nil {
			t.Fatalf("Submit() error = %v", err)
		}
	}
	if len(repo.attempts) != 2 {
		t.Fatalf("attempts = %d, want 2", len(repo.attempts))
	}

	p, _ := progSvc.Get(ctx, "student")
	// two completions (60 XP) + one first_quiz unlock (20)
	want := 2*progression.XPCompleteQuiz + progression.XPBadgeUnlock
	if p.XP != want {
		t.Errorf("XP = %d, want %d (first_quiz must fire once)", p.XP, want)
	}
}

func TestService_TickSessions_autoSubmit(t *testing.T) {
	svc, repo, _ := setup(t)
	ctx := context.Background()

	nq := NewQuiz{
		Title:     "Speed Round",
		TimeLimit: 30,
		Questions: []NewQuestion{{Prompt: "q", Options: []string{"a", "b", "c", "d"}, Correct: 0}},
	}
	q, err := svc.Create(ctx, "author", nq)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := svc.StartSession(ctx, "student", q.ID); err != nil {
		t.Fatalf("StartSession() error = %v", err)
	}
	_ = svc.SelectAnswer("student", 0, 0)

	for i := 0; i < 30; i++ {
		svc.TickSessions(ctx)
	}

	if _, ok := svc.ActiveSession("student"); ok {
		t.Error("session still active after time ran out")
	}
	if len(repo.attempts) != 1 {
		t.Fatalf("attempts = %d, want 1 auto-submitted", len(repo.attempts))
	}
	if repo.attempts[0].Score != 100 {
		t.Errorf("auto-submitted score = %d, want 100", repo.attempts[0].Score)
	}

	// extra ticks after submission change nothing
	svc.TickSessions(ctx)
	if len(repo.attempts) != 1 {
		t.Errorf("attempts = %d after extra tick, want 1", len(repo.attempts))
	}
}

func TestService_StartSession_abandonsPrevious(t *testing.T) {
	svc, repo, progSvc := setup(t)
	ctx := context.Background()
	q := createQuiz(t, svc)

	first, err := svc.StartSession(ctx, "student", q.ID)
	if err != nil {
		t.Fatalf("StartSession() error = %v", err)
	}
	second, err := svc.StartSession(ctx, "student", q.ID)
	if err != nil {
		t.Fatalf("StartSession() error = %v", err)
	}
	if first == second {
		t.Fatal("second StartSession() returned the same session")
	}

	active, ok := svc.ActiveSession("student")
	if !ok || active != second {
		t.Error("active session is not the newest one")
	}
	if len(repo.attempts) != 0 {
		t.Error("abandoning a session persisted an attempt")
	}
	p, _ := progSvc.Get(ctx, "student")
	if p.XP != 0 {
		t.Errorf("abandoned session granted %d XP, want 0", p.XP)
	}
}

func TestService_TickSessions_logsFailedAutoSubmit(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepo()
	progSvc := progression.NewService(&mockProgRepo{records: make(map[string]progression.Progression)})
	validate, _ := core.NewValidator()
	logger := &recordLogger{}
	svc := NewService(repo, progSvc, validate, logger)

	nq := NewQuiz{
		Title:     "Speed Round",
		TimeLimit: 30,
		Questions: []NewQuestion{{Prompt: "q", Options: []string{"a", "b", "c", "d"}, Correct: 0}},
	}
	q, err := svc.Create(ctx, "author", nq)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := svc.StartSession(ctx, "student", q.ID); err != nil {
		t.Fatalf("StartSession() error = %v", err)
	}

	repo.createAttemptErr = errors.New("connection refused")
	for i := 0; i < 30; i++ {
		svc.TickSessions(ctx)
	}

	if len(repo.attempts) != 0 {
		t.Fatalf("attempts = %d, want 0 persisted", len(repo.attempts))
	}
	if len(logger.errors) != 1 {
		t.Fatalf("logged errors = %d, want 1 for the failed auto-submit", len(logger.errors))
	}
}

func TestService_sessionConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := setup(t)
	q := createQuiz(t, svc)

	if _, err := svc.StartSession(ctx, "student", q.ID); err != nil {
		t.Fatalf("StartSession() error = %v", err)
	}

	// ticker goroutine advancing time while readers and writers hit the
	// session, as the API does in production
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			svc.TickSessions(ctx)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			if sess, ok := svc.ActiveSession("student"); ok {
				_ = sess.State()
				_ = sess.Remaining()
				_ = sess.Answers()
			}
			_ = svc.SelectAnswer("student", 0, i%4)
		}
	}()
	wg.Wait()

	sess, ok := svc.ActiveSession("student")
	if !ok {
		t.Fatal("session expired during the test, raise the time limit")
	}
	if got := sess.Remaining(); got != q.TimeLimit-100 {
		t.Errorf("Remaining() = %d, want %d", got, q.TimeLimit-100)
	}
	if _, err := svc.Submit(ctx, "student"); err != nil {
		t.Errorf("Submit() after concurrent access error = %v", err)
	}
}
