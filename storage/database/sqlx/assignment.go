package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/taskspro/backend/core/assignment"
)

type assignmentRepository struct {
	db *sqlx.DB
}

var _ assignment.Repository = (*assignmentRepository)(nil) // interface compliance check

func NewAssignmentRepository(db *sqlx.DB) assignment.Repository {
	return &assignmentRepository{db: db}
}

func (repo *assignmentRepository) CreateAssignment(ctx context.Context, a *assignment.Assignment) error {
	q := `INSERT INTO assignment (id, title, description, subject, due_date, created_by, created_at, updated_at)
	VALUES (:id, :title, :description, :subject, :due_date, :created_by, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, a); err != nil {
		return errors.Wrap(err, "inserting assignment")
	}
	return nil
}

func (repo *assignmentRepository) QueryAllAssignments(ctx context.Context) ([]assignment.Assignment, error) {
	assignments := make([]assignment.Assignment, 0)
	q := `SELECT * FROM assignment ORDER BY created_at DESC`
	if err := repo.db.SelectContext(ctx, &assignments, q); err != nil {
		return nil, errors.Wrap(err, "querying assignments")
	}
	return assignments, nil
}

func (repo *assignmentRepository) GetAssignmentByID(ctx context.Context, id string) (assignment.Assignment, error) {
	var a assignment.Assignment
	q := `SELECT * FROM assignment WHERE id = $1`
	if err := repo.db.GetContext(ctx, &a, q, id); err != nil {
		if err == sql.ErrNoRows {
			return assignment.Assignment{}, assignment.ErrNotFound
		}
		return assignment.Assignment{}, errors.Wrap(err, "getting assignment")
	}
	return a, nil
}

func (repo *assignmentRepository) GetSubmission(ctx context.Context, assignmentID, userID string) (assignment.Submission, error) {
	var s assignment.Submission
	q := `SELECT * FROM assignment_submission WHERE assignment_id = $1 AND user_id = $2`
	if err := repo.db.GetContext(ctx, &s, q, assignmentID, userID); err != nil {
		if err == sql.ErrNoRows {
			return assignment.Submission{}, assignment.ErrNotFound
		}
		return assignment.Submission{}, errors.Wrap(err, "getting submission")
	}
	return s, nil
}

func (repo *assignmentRepository) UpsertSubmission(ctx context.Context, sub *assignment.Submission) error {
	q := `INSERT INTO assignment_submission (id, assignment_id, user_id, content, submitted_at)
	VALUES (:id, :assignment_id, :user_id, :content, :submitted_at)
	ON CONFLICT (assignment_id, user_id) DO UPDATE SET
		content = EXCLUDED.content,
		submitted_at = EXCLUDED.submitted_at`
	if _, err := repo.db.NamedExecContext(ctx, q, sub); err != nil {
		return errors.Wrap(err, "saving submission")
	}
	return nil
}

func (repo *assignmentRepository) QuerySubmissionsByAssignment(ctx context.Context, assignmentID string) ([]assignment.Submission, error) {
	submissions := make([]assignment.Submission, 0)
	q := `SELECT * FROM assignment_submission WHERE assignment_id = $1 ORDER BY submitted_at DESC`
	if err := repo.db.SelectContext(ctx, &submissions, q, assignmentID); err != nil {
		return nil, errors.Wrap(err, "querying submissions")
	}
	return submissions, nil
}
