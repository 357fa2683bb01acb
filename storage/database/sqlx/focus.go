package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/taskspro/backend/core/focus"
)

type focusRepository struct {
	db *sqlx.DB
}

var _ focus.Repository = (*focusRepository)(nil) // interface compliance check

func NewFocusRepository(db *sqlx.DB) focus.Repository {
	return &focusRepository{db: db}
}

func (repo *focusRepository) CreateSession(ctx context.Context, s *focus.Session) error {
	q := `INSERT INTO focus_session (id, user_id, duration_minutes, label, completed_at)
	VALUES (:id, :user_id, :duration_minutes, :label, :completed_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, s); err != nil {
		return errors.Wrap(err, "inserting focus session")
	}
	return nil
}

func (repo *focusRepository) QuerySessionsByUser(ctx context.Context, userID string) ([]focus.Session, error) {
	sessions := make([]focus.Session, 0)
	q := `SELECT * FROM focus_session WHERE user_id = $1 ORDER BY completed_at DESC`
	if err := repo.db.SelectContext(ctx, &sessions, q, userID); err != nil {
		return nil, errors.Wrap(err, "querying focus sessions")
	}
	return sessions, nil
}
