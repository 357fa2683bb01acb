package inmemdb

import (
	"context"

	"github.com/taskspro/backend/core/progression"
)

type progressionRepository struct {
	db *progressionTable
}

var _ progression.Repository = (*progressionRepository)(nil) // interface compliance check

func NewProgressionRepository(db *DB) progression.Repository {
	return &progressionRepository{db: db.progression}
}

func (repo *progressionRepository) GetProgression(ctx context.Context, userID string) (progression.Progression, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if p, ok := repo.db.table[userID]; ok {
		return p, nil
	}
	return progression.Progression{}, progression.ErrNotFound
}

func (repo *progressionRepository) SaveProgression(ctx context.Context, p progression.Progression) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.table[p.UserID] = p
	return nil
}
