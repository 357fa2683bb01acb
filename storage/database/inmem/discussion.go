package inmemdb

import (
	"context"
	"sort"

	"github.com/taskspro/backend/core/discussion"
)

type discussionRepository struct {
	db *discussionTable
}

var _ discussion.Repository = (*discussionRepository)(nil) // interface compliance check

func NewDiscussionRepository(db *DB) discussion.Repository {
	return &discussionRepository{db: db.discussion}
}

func (repo *discussionRepository) CreateThread(ctx context.Context, t *discussion.Thread) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.threads[t.ID] = *t
	return nil
}

func (repo *discussionRepository) QueryAllThreads(ctx context.Context) ([]discussion.Thread, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	threads := make([]discussion.Thread, 0, len(repo.db.threads))
	for _, t := range repo.db.threads {
		threads = append(threads, t)
	}
	sort.Slice(threads, func(i, j int) bool { return threads[i].CreatedAt.After(threads[j].CreatedAt) })
	return threads, nil
}

func (repo *discussionRepository) GetThreadByID(ctx context.Context, id string) (discussion.Thread, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	t, ok := repo.db.threads[id]
	if !ok {
		return discussion.Thread{}, discussion.ErrNotFound
	}

	var replies []discussion.Reply
	for _, r := range repo.db.replies {
		if r.ThreadID == id {
			replies = append(replies, r)
		}
	}
	sort.Slice(replies, func(i, j int) bool { return replies[i].CreatedAt.Before(replies[j].CreatedAt) })
	t.Replies = replies
	return t, nil
}

func (repo *discussionRepository) SetHelpfulReply(ctx context.Context, threadID, replyID string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	t, ok := repo.db.threads[threadID]
	if !ok {
		return discussion.ErrNotFound
	}
	r, ok := repo.db.replies[replyID]
	if !ok {
		return discussion.ErrReplyNotFound
	}

	t.HelpfulReplyID = replyID
	repo.db.threads[threadID] = t
	r.Helpful = true
	repo.db.replies[replyID] = r
	return nil
}

func (repo *discussionRepository) CreateReply(ctx context.Context, r *discussion.Reply) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.replies[r.ID] = *r
	return nil
}

func (repo *discussionRepository) GetReplyByID(ctx context.Context, id string) (discussion.Reply, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if r, ok := repo.db.replies[id]; ok {
		return r, nil
	}
	return discussion.Reply{}, discussion.ErrReplyNotFound
}
