package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/taskspro/backend/core/todo"
)

type todoRepository struct {
	db *sqlx.DB
}

var _ todo.Repository = (*todoRepository)(nil) // interface compliance check

func NewTodoRepository(db *sqlx.DB) todo.Repository {
	return &todoRepository{db: db}
}

func (repo *todoRepository) CreateTodo(ctx context.Context, t *todo.Todo) error {
	q := `INSERT INTO todo (id, user_id, text, priority, done, due_date, created_at, updated_at)
	VALUES (:id, :user_id, :text, :priority, :done, :due_date, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, t); err != nil {
		return errors.Wrap(err, "inserting todo")
	}
	return nil
}

func (repo *todoRepository) QueryTodosByUser(ctx context.Context, userID string) ([]todo.Todo, error) {
	todos := make([]todo.Todo, 0)
	q := `SELECT * FROM todo WHERE user_id = $1 ORDER BY created_at DESC`
	if err := repo.db.SelectContext(ctx, &todos, q, userID); err != nil {
		return nil, errors.Wrap(err, "querying todos")
	}
	return todos, nil
}

func (repo *todoRepository) GetTodoByID(ctx context.Context, id string) (todo.Todo, error) {
	var t todo.Todo
	q := `SELECT * FROM todo WHERE id = $1`
	if err := repo.db.GetContext(ctx, &t, q, id); err != nil {
		if err == sql.ErrNoRows {
			return todo.Todo{}, todo.ErrNotFound
		}
		return todo.Todo{}, errors.Wrap(err, "getting todo")
	}
	return t, nil
}

func (repo *todoRepository) UpdateTodo(ctx context.Context, t *todo.Todo) error {
	q := `UPDATE todo SET text = :text, priority = :priority, done = :done, due_date = :due_date, updated_at = :updated_at
	WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, q, t)
	if err != nil {
		return errors.Wrap(err, "updating todo")
	}
	if count, err := res.RowsAffected(); err == nil && count == 0 {
		return todo.ErrNotFound
	}
	return nil
}

func (repo *todoRepository) DeleteTodo(ctx context.Context, id string) error {
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM todo WHERE id = $1`, id); err != nil {
		return errors.Wrap(err, "deleting todo")
	}
	return nil
}
