package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/taskspro/backend/core/note"
)

type noteRepository struct {
	db *sqlx.DB
}

var _ note.Repository = (*noteRepository)(nil) // interface compliance check

func NewNoteRepository(db *sqlx.DB) note.Repository {
	return &noteRepository{db: db}
}

func (repo *noteRepository) CreateNote(ctx context.Context, n *note.Note) error {
	q := `INSERT INTO note (id, user_id, title, content, subject, pinned, created_at, updated_at)
	VALUES (:id, :user_id, :title, :content, :subject, :pinned, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, n); err != nil {
		return errors.Wrap(err, "inserting note")
	}
	return nil
}

func (repo *noteRepository) QueryNotesByUser(ctx context.Context, userID string) ([]note.Note, error) {
	notes := make([]note.Note, 0)
	q := `SELECT * FROM note WHERE user_id = $1 ORDER BY pinned DESC, updated_at DESC`
	if err := repo.db.SelectContext(ctx, &notes, q, userID); err != nil {
		return nil, errors.Wrap(err, "querying notes")
	}
	return notes, nil
}

func (repo *noteRepository) GetNoteByID(ctx context.Context, id string) (note.Note, error) {
	var n note.Note
	q := `SELECT * FROM note WHERE id = $1`
	if err := repo.db.GetContext(ctx, &n, q, id); err != nil {
		if err == sql.ErrNoRows {
			return note.Note{}, note.ErrNotFound
		}
		return note.Note{}, errors.Wrap(err, "getting note")
	}
	return n, nil
}

func (repo *noteRepository) UpdateNote(ctx context.Context, n *note.Note) error {
	q := `UPDATE note SET title = :title, content = :content, subject = :subject, pinned = :pinned, updated_at = :updated_at
	WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, q, n)
	if err != nil {
		return errors.Wrap(err, "updating note")
	}
	if count, err := res.RowsAffected(); err == nil && count == 0 {
		return note.ErrNotFound
	}
	return nil
}

func (repo *noteRepository) DeleteNote(ctx context.Context, id string) error {
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM note WHERE id = $1`, id); err != nil {
		return errors.Wrap(err, "deleting note")
	}
	return nil
}
