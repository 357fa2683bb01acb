package inmemdb

import (
	"context"
	"sort"

	"github.com/taskspro/backend/core/focus"
)

type focusRepository struct {
	db *focusTable
}

var _ focus.Repository = (*focusRepository)(nil) // interface compliance check

func NewFocusRepository(db *DB) focus.Repository {
	return &focusRepository{db: db.focus}
}

func (repo *focusRepository) CreateSession(ctx context.Context, s *focus.Session) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.sessions = append(repo.db.sessions, *s)
	return nil
}

func (repo *focusRepository) QuerySessionsByUser(ctx context.Context, userID string) ([]focus.Session, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var sessions []focus.Session
	for _, s := range repo.db.sessions {
		if s.UserID == userID {
			sessions = append(sessions, s)
		}
	}
	sort.Slice(sessions, func(i, j int) bool { return sessions[i].CompletedAt.After(sessions[j].CompletedAt) })
	return sessions, nil
}
