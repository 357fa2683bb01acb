package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/taskspro/backend/core/progression"
)

type progressionRepository struct {
	db *sqlx.DB
}

var _ progression.Repository = (*progressionRepository)(nil) // interface compliance check

func NewProgressionRepository(db *sqlx.DB) progression.Repository {
	return &progressionRepository{db: db}
}

type progressionRow struct {
	UserID           string          `db:"user_id"`
	XP               int             `db:"xp"`
	Badges           json.RawMessage `db:"badges"`
	Streak           int             `db:"streak"`
	LastActivityDate sql.NullTime    `db:"last_activity_date"`
	History          json.RawMessage `db:"xp_history"`
	Counters         json.RawMessage `db:"counters"`
	UpdatedAt        time.Time       `db:"updated_at"`
}

func (repo *progressionRepository) GetProgression(ctx context.Context, userID string) (progression.Progression, error) {
	var row progressionRow
	q := `SELECT * FROM user_progression WHERE user_id = $1`
	if err := repo.db.GetContext(ctx, &row, q, userID); err != nil {
		if err == sql.ErrNoRows {
			return progression.Progression{}, progression.ErrNotFound
		}
		return progression.Progression{}, errors.Wrap(err, "getting progression")
	}

	p := progression.Progression{
		UserID:    row.UserID,
		XP:        row.XP,
		Streak:    row.Streak,
		UpdatedAt: row.UpdatedAt,
	}
	if row.LastActivityDate.Valid {
		p.LastActivityDate = null.TimeFrom(row.LastActivityDate.Time)
	}
	// a record with unreadable columns loads as the zero value
	if err := json.Unmarshal(row.Badges, &p.Badges); err != nil {
		return progression.Progression{}, progression.ErrNotFound
	}
	if err := json.Unmarshal(row.History, &p.History); err != nil {
		return progression.Progression{}, progression.ErrNotFound
	}
	if err := json.Unmarshal(row.Counters, &p.Counters); err != nil {
		return progression.Progression{}, progression.ErrNotFound
	}
	return p, nil
}

func (repo *progressionRepository) SaveProgression(ctx context.Context, p progression.Progression) error {
	badges, err := json.Marshal(p.Badges)
	if err != nil {
		return errors.Wrap(err, "encoding badges")
	}
	history, err := json.Marshal(p.History)
	if err != nil {
		return errors.Wrap(err, "encoding history")
	}
	counters, err := json.Marshal(p.Counters)
	if err != nil {
		return errors.Wrap(err, "encoding counters")
	}

	row := progressionRow{
		UserID:    p.UserID,
		XP:        p.XP,
		Badges:    badges,
		Streak:    p.Streak,
		History:   history,
		Counters:  counters,
		UpdatedAt: p.UpdatedAt,
	}
	if p.LastActivityDate.Valid {
		row.LastActivityDate = sql.NullTime{Time: p.LastActivityDate.Time, Valid: true}
	}

	q := `INSERT INTO user_progression (user_id, xp, badges, streak, last_activity_date, xp_history, counters, updated_at)
	VALUES (:user_id, :xp, :badges, :streak, :last_activity_date, :xp_history, :counters, :updated_at)
	ON CONFLICT (user_id) DO UPDATE SET
		xp = EXCLUDED.xp,
		badges = EXCLUDED.badges,
		streak = EXCLUDED.streak,
		last_activity_date = EXCLUDED.last_activity_date,
		xp_history = EXCLUDED.xp_history,
		counters = EXCLUDED.counters,
		updated_at = EXCLUDED.updated_at`
	if _, err := repo.db.NamedExecContext(ctx, q, row); err != nil {
		return errors.Wrap(err, "saving progression")
	}
	return nil
}
