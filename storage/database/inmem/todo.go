package inmemdb

import (
	"context"
	"sort"

	"github.com/taskspro/backend/core/todo"
)

type todoRepository struct {
	db *todoTable
}

var _ todo.Repository = (*todoRepository)(nil) // interface compliance check

func NewTodoRepository(db *DB) todo.Repository {
	return &todoRepository{db: db.todo}
}

func (repo *todoRepository) CreateTodo(ctx context.Context, t *todo.Todo) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.table[t.ID] = *t
	return nil
}

func (repo *todoRepository) QueryTodosByUser(ctx context.Context, userID string) ([]todo.Todo, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var todos []todo.Todo
	for _, t := range repo.db.table {
		if t.UserID == userID {
			todos = append(todos, t)
		}
	}
	sort.Slice(todos, func(i, j int) bool { return todos[i].CreatedAt.After(todos[j].CreatedAt) })
	return todos, nil
}

func (repo *todoRepository) GetTodoByID(ctx context.Context, id string) (todo.Todo, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if t, ok := repo.db.table[id]; ok {
		return t, nil
	}
	return todo.Todo{}, todo.ErrNotFound
}

func (repo *todoRepository) UpdateTodo(ctx context.Context, t *todo.Todo) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[t.ID]; !ok {
		return todo.ErrNotFound
	}
	repo.db.table[t.ID] = *t
	return nil
}

func (repo *todoRepository) DeleteTodo(ctx context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	delete(repo.db.table, id)
	return nil
}
