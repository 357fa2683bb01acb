package discussion

import (
	"context"
	"testing"

	"github.com/taskspro/backend/core"
	"github.com/taskspro/backend/core/progression"
)

type mockRepo struct {
	threads map[string]Thread
	replies map[string]Reply
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		threads: make(map[string]Thread),
		replies: make(map[string]Reply),
	}
}

func (m *mockRepo) CreateThread(ctx context.Context, t *Thread) error {
	m.threads[t.ID] = *t
	return nil
}

func (m *mockRepo) QueryAllThreads(ctx context.Context) ([]Thread, error) {
	out := make([]Thread, 0, len(m.threads))
	for _, t := range m.threads {
		out = append(out, t)
	}
	return out, nil
}

func (m *mockRepo) GetThreadByID(ctx context.Context, id string) (Thread, error) {
	t, ok := m.threads[id]
	if !ok {
		return Thread{}, ErrNotFound
	}
	return t, nil
}

func (m *mockRepo) SetHelpfulReply(ctx context.Context, threadID, replyID string) error {
	t := m.threads[threadID]
	t.HelpfulReplyID = replyID
	m.threads[threadID] = t

	r := m.replies[replyID]
	r.Helpful = true
	m.replies[replyID] = r
	return nil
}

func (m *mockRepo) CreateReply(ctx context.Context, r *Reply) error {
	m.replies[r.ID] = *r
	return nil
}

func (m *mockRepo) GetReplyByID(ctx context.Context, id string) (Reply, error) {
	r, ok := m.replies[id]
	if !ok {
		return Reply{}, ErrReplyNotFound
	}
	return r, nil
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
	return NewService(newMockRepo(), progSvc, validate), progSvc
}

func TestService_CreateThreadAndReply_grantXP(t *testing.T) {
	ctx := context.Background()
	svc, progSvc := setup(t)

	th, err := svc.CreateThread(ctx, "author1", NewThread{Title: "Binary trees", Body: "How do rotations work?"})
	if err != nil {
		t.Fatalf("CreateThread() error = %v", err)
	}

	p, _ := progSvc.Get(ctx, "author1")
	if p.XP != progression.XPPostDiscussion {
		t.Errorf("author XP = %d, want %d", p.XP, progression.XPPostDiscussion)
	}
	if p.Counters.DiscussionPosts != 1 {
		t.Errorf("DiscussionPosts = %d, want 1", p.Counters.DiscussionPosts)
	}

	if _, err := svc.Reply(ctx, th.ID, "helper1", NewReply{Body: "Rebalance around the pivot."}); err != nil {
		t.Fatalf("Reply() error = %v", err)
	}
	p, _ = progSvc.Get(ctx, "helper1")
	if p.XP != progression.XPPostDiscussion {
		t.Errorf("replier XP = %d, want %d", p.XP, progression.XPPostDiscussion)
	}
}

func TestService_MarkHelpful(t *testing.T) {
	ctx := context.Background()
	svc, progSvc := setup(t)

	th, err := svc.CreateThread(ctx, "author1", NewThread{Title: "Recursion", Body: "Base cases?"})
	if err != nil {
		t.Fatalf("CreateThread() error = %v", err)
	}
	r, err := svc.Reply(ctx, th.ID, "helper1", NewReply{Body: "Always terminate."})
	if err != nil {
		t.Fatalf("Reply() error = %v", err)
	}
	r2, err := svc.Reply(ctx, th.ID, "helper2", NewReply{Body: "Me too thanks."})
	if err != nil {
		t.Fatalf("Reply() error = %v", err)
	}

	// only the thread author may mark
	if err := svc.MarkHelpful(ctx, th.ID, r.ID, "helper2"); err != ErrNotAuthor {
		t.Errorf("MarkHelpful() by non-author error = %v, want %v", err, ErrNotAuthor)
	}

	if err := svc.MarkHelpful(ctx, th.ID, r.ID, "author1"); err != nil {
		t.Fatalf("MarkHelpful() error = %v", err)
	}

	p, _ := progSvc.Get(ctx, "helper1")
	wantXP := progression.XPPostDiscussion + progression.XPHelpfulAnswer
	if p.XP != wantXP {
		t.Errorf("helper XP = %d, want %d", p.XP, wantXP)
	}
	if p.Counters.HelpfulAnswers != 1 {
		t.Errorf("HelpfulAnswers = %d, want 1", p.Counters.HelpfulAnswers)
	}

	// one helpful reply per thread
	if err := svc.MarkHelpful(ctx, th.ID, r2.ID, "author1"); err != ErrAlreadyMarked {
		t.Errorf("MarkHelpful() second mark error = %v, want %v", err, ErrAlreadyMarked)
	}
}

func TestService_MarkHelpful_ownReply(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t)

	th, err := svc.CreateThread(ctx, "author1", NewThread{Title: "Self answer", Body: "Solved it myself."})
	if err != nil {
		t.Fatalf("CreateThread() error = %v", err)
	}
	r, err := svc.Reply(ctx, th.ID, "author1", NewReply{Body: "Here is how."})
	if err != nil {
		t.Fatalf("Reply() error = %v", err)
	}

	if err := svc.MarkHelpful(ctx, th.ID, r.ID, "author1"); err != ErrOwnReply {
		t.Errorf("MarkHelpful() own reply error = %v, want %v", err, ErrOwnReply)
	}
}
