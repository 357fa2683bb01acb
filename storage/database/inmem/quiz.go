package inmemdb

import (
	"context"
	"sort"

	"github.com/taskspro/backend/core/quiz"
)

type quizRepository struct {
	db *quizTable
}

var _ quiz.Repository = (*quizRepository)(nil) // interface compliance check

func NewQuizRepository(db *DB) quiz.Repository {
	return &quizRepository{db: db.quiz}
}

func (repo *quizRepository) CreateQuiz(ctx context.Context, q quiz.Quiz) (quiz.Quiz, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.table[q.ID] = q
	return q, nil
}

func (repo *quizRepository) GetQuizByID(ctx context.Context, id string) (quiz.Quiz, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if q, ok := repo.db.table[id]; ok {
		return q, nil
	}
	return quiz.Quiz{}, quiz.ErrNotFound
}

func (repo *quizRepository) QueryAllQuizzes(ctx context.Context) ([]quiz.Quiz, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	quizzes := make([]quiz.Quiz, 0, len(repo.db.table))
	for _, q := range repo.db.table {
		quizzes = append(quizzes, q)
	}
	sort.Slice(quizzes, func(i, j int) bool { return quizzes[i].CreatedAt.After(quizzes[j].CreatedAt) })
	return quizzes, nil
}

func (repo *quizRepository) CreateAttempt(ctx context.Context, a quiz.Attempt) (quiz.Attempt, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.attempts = append(repo.db.attempts, a)
	return a, nil
}

func (repo *quizRepository) QueryAttemptsByUser(ctx context.Context, userID string) ([]quiz.Attempt, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var attempts []quiz.Attempt
	for _, a := range repo.db.attempts {
		if a.UserID == userID {
			attempts = append(attempts, a)
		}
	}
	sort.Slice(attempts, func(i, j int) bool { return attempts[i].CompletedAt.After(attempts[j].CompletedAt) })
	return attempts, nil
}

func (repo *quizRepository) CountAttemptsByUser(ctx context.Context, userID string) (int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var count int
	for _, a := range repo.db.attempts {
		if a.UserID == userID {
			count++
		}
	}
	return count, nil
}
