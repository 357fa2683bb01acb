package inmemdb

import (
	"context"
	"sort"

	"github.com/taskspro/backend/core/note"
)

type noteRepository struct {
	db *noteTable
}

var _ note.Repository = (*noteRepository)(nil) // interface compliance check

func NewNoteRepository(db *DB) note.Repository {
	return &noteRepository{db: db.note}
}

func (repo *noteRepository) CreateNote(ctx context.Context, n *note.Note) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.table[n.ID] = *n
	return nil
}

func (repo *noteRepository) QueryNotesByUser(ctx context.Context, userID string) ([]note.Note, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var notes []note.Note
	for _, n := range repo.db.table {
		if n.UserID == userID {
			notes = append(notes, n)
		}
	}
	sort.Slice(notes, func(i, j int) bool {
		if notes[i].Pinned != notes[j].Pinned {
			return notes[i].Pinned
		}
		return notes[i].UpdatedAt.After(notes[j].UpdatedAt)
	})
	return notes, nil
}

func (repo *noteRepository) GetNoteByID(ctx context.Context, id string) (note.Note, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if n, ok := repo.db.table[id]; ok {
		return n, nil
	}
	return note.Note{}, note.ErrNotFound
}

func (repo *noteRepository) UpdateNote(ctx context.Context, n *note.Note) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[n.ID]; !ok {
		return note.ErrNotFound
	}
	repo.db.table[n.ID] = *n
	return nil
}

func (repo *noteRepository) DeleteNote(ctx context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	delete(repo.db.table, id)
	return nil
}
