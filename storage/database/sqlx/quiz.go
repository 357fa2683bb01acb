package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/taskspro/backend/core/quiz"
)

type quizRepository struct {
	db *sqlx.DB
}

var _ quiz.Repository = (*quizRepository)(nil) // interface compliance check

func NewQuizRepository(db *sqlx.DB) quiz.Repository {
	return &quizRepository{db: db}
}

type quizRow struct {
	ID         string          `db:"id"`
	Title      string          `db:"title"`
	Subject    string          `db:"subject"`
	Difficulty string          `db:"difficulty"`
	TimeLimit  int             `db:"time_limit"`
	Questions  json.RawMessage `db:"questions"`
	CreatedBy  string          `db:"created_by"`
	CreatedAt  time.Time       `db:"created_at"`
}

func (r quizRow) quiz() (quiz.Quiz, error) {
	q := quiz.Quiz{
		ID:         r.ID,
		Title:      r.Title,
		Subject:    r.Subject,
		Difficulty: r.Difficulty,
		TimeLimit:  r.TimeLimit,
		CreatedBy:  r.CreatedBy,
		CreatedAt:  r.CreatedAt,
	}
	if err := json.Unmarshal(r.Questions, &q.Questions); err != nil {
		return quiz.Quiz{}, errors.Wrap(err, "decoding questions")
	}
	return q, nil
}

type attemptRow struct {
	ID           string          `db:"id"`
	QuizID       string          `db:"quiz_id"`
	QuizTitle    string          `db:"quiz_title"`
	UserID       string          `db:"user_id"`
	Answers      json.RawMessage `db:"answers"`
	Score        int             `db:"score"`
	CorrectCount int             `db:"correct_count"`
	TotalCount   int             `db:"total_count"`
	TimeTaken    int             `db:"time_taken"`
	CompletedAt  time.Time       `db:"completed_at"`
}

func (r attemptRow) attempt() (quiz.Attempt, error) {
	a := quiz.Attempt{
		ID:           r.ID,
		QuizID:       r.QuizID,
		QuizTitle:    r.QuizTitle,
		UserID:       r.UserID,
		Score:        r.Score,
		CorrectCount: r.CorrectCount,
		TotalCount:   r.TotalCount,
		TimeTaken:    r.TimeTaken,
		CompletedAt:  r.CompletedAt,
	}
	if err := json.Unmarshal(r.Answers, &a.Answers); err != nil {
		return quiz.Attempt{}, errors.Wrap(err, "decoding answers")
	}
	return a, nil
}

func (repo *quizRepository) CreateQuiz(ctx context.Context, q quiz.Quiz) (quiz.Quiz, error) {
	questions, err := json.Marshal(q.Questions)
	if err != nil {
		return quiz.Quiz{}, errors.Wrap(err, "encoding questions")
	}
	row := quizRow{
		ID:         q.ID,
		Title:      q.Title,
		Subject:    q.Subject,
		Difficulty: q.Difficulty,
		TimeLimit:  q.TimeLimit,
		Questions:  questions,
		CreatedBy:  q.CreatedBy,
		CreatedAt:  q.CreatedAt,
	}
	stmt := `INSERT INTO quiz (id, title, subject, difficulty, time_limit, questions, created_by, created_at)
	VALUES (:id, :title, :subject, :difficulty, :time_limit, :questions, :created_by, :created_at)`
	if _, err := repo.db.NamedExecContext(ctx, stmt, row); err != nil {
		return quiz.Quiz{}, errors.Wrap(err, "inserting quiz")
	}
	return q, nil
}

func (repo *quizRepository) GetQuizByID(ctx context.Context, id string) (quiz.Quiz, error) {
	var row quizRow
	stmt := `SELECT * FROM quiz WHERE id = $1`
	if err := repo.db.GetContext(ctx, &row, stmt, id); err != nil {
		if err == sql.ErrNoRows {
			return quiz.Quiz{}, quiz.ErrNotFound
		}
		return quiz.Quiz{}, errors.Wrap(err, "getting quiz")
	}
	return row.quiz()
}

func (repo *quizRepository) QueryAllQuizzes(ctx context.Context) ([]quiz.Quiz, error) {
	var rows []quizRow
	stmt := `SELECT * FROM quiz ORDER BY created_at DESC`
	if err := repo.db.SelectContext(ctx, &rows, stmt); err != nil {
		return nil, errors.Wrap(err, "querying quizzes")
	}
	quizzes := make([]quiz.Quiz, 0, len(rows))
	for _, row := range rows {
		q, err := row.quiz()
		if err != nil {
			return nil, err
		}
		quizzes = append(quizzes, q)
	}
	return quizzes, nil
}

func (repo *quizRepository) CreateAttempt(ctx context.Context, a quiz.Attempt) (quiz.Attempt, error) {
	answers, err := json.Marshal(a.Answers)
	if err != nil {
		return quiz.Attempt{}, errors.Wrap(err, "encoding answers")
	}
	row := attemptRow{
		ID:           a.ID,
		QuizID:       a.QuizID,
		QuizTitle:    a.QuizTitle,
		UserID:       a.UserID,
		Answers:      answers,
		Score:        a.Score,
		CorrectCount: a.CorrectCount,
		TotalCount:   a.TotalCount,
		TimeTaken:    a.TimeTaken,
		CompletedAt:  a.CompletedAt,
	}
	stmt := `INSERT INTO quiz_attempt (id, quiz_id, quiz_title, user_id, answers, score, correct_count, total_count, time_taken, completed_at)
	VALUES (:id, :quiz_id, :quiz_title, :user_id, :answers, :score, :correct_count, :total_count, :time_taken, :completed_at)`
	if _, err := repo.db.NamedExecContext(ctx, stmt, row); err != nil {
		return quiz.Attempt{}, errors.Wrap(err, "inserting attempt")
	}
	return a, nil
}

func (repo *quizRepository) QueryAttemptsByUser(ctx context.Context, userID string) ([]quiz.Attempt, error) {
	var rows []attemptRow
	stmt := `SELECT * FROM quiz_attempt WHERE user_id = $1 ORDER BY completed_at DESC`
	if err := repo.db.SelectContext(ctx, &rows, stmt, userID); err != nil {
		return nil, errors.Wrap(err, "querying attempts")
	}
	attempts := make([]quiz.Attempt, 0, len(rows))
	for _, row := range rows {
		a, err := row.attempt()
		if err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}
	return attempts, nil
}

func (repo *quizRepository) CountAttemptsByUser(ctx context.Context, userID string) (int, error) {
	var count int
	stmt := `SELECT COUNT(*) FROM quiz_attempt WHERE user_id = $1`
	if err := repo.db.GetContext(ctx, &count, stmt, userID); err != nil {
		return 0, errors.Wrap(err, "counting attempts")
	}
	return count, nil
}
