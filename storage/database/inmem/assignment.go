package inmemdb

import (
	"context"
	"sort"

	"github.com/taskspro/backend/core/assignment"
)

type assignmentRepository struct {
	db *assignmentTable
}

var _ assignment.Repository = (*assignmentRepository)(nil) // interface compliance check

func NewAssignmentRepository(db *DB) assignment.Repository {
	return &assignmentRepository{db: db.assignment}
}

func submissionKey(assignmentID, userID string) string {
	return assignmentID + "|" + userID
}

func (repo *assignmentRepository) CreateAssignment(ctx context.Context, a *assignment.Assignment) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.table[a.ID] = *a
	return nil
}

func (repo *assignmentRepository) QueryAllAssignments(ctx context.Context) ([]assignment.Assignment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	assignments := make([]assignment.Assignment, 0, len(repo.db.table))
	for _, a := range repo.db.table {
		assignments = append(assignments, a)
	}
	sort.Slice(assignments, func(i, j int) bool { return assignments[i].CreatedAt.After(assignments[j].CreatedAt) })
	return assignments, nil
}

func (repo *assignmentRepository) GetAssignmentByID(ctx context.Context, id string) (assignment.Assignment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if a, ok := repo.db.table[id]; ok {
		return a, nil
	}
	return assignment.Assignment{}, assignment.ErrNotFound
}

func (repo *assignmentRepository) GetSubmission(ctx context.Context, assignmentID, userID string) (assignment.Submission, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if s, ok := repo.db.submissions[submissionKey(assignmentID, userID)]; ok {
		return s, nil
	}
	return assignment.Submission{}, assignment.ErrNotFound
}

func (repo *assignmentRepository) UpsertSubmission(ctx context.Context, sub *assignment.Submission) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.submissions[submissionKey(sub.AssignmentID, sub.UserID)] = *sub
	return nil
}

func (repo *assignmentRepository) QuerySubmissionsByAssignment(ctx context.Context, assignmentID string) ([]assignment.Submission, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var submissions []assignment.Submission
	for _, s := range repo.db.submissions {
		if s.AssignmentID == assignmentID {
			submissions = append(submissions, s)
		}
	}
	sort.Slice(submissions, func(i, j int) bool { return submissions[i].SubmittedAt.After(submissions[j].SubmittedAt) })
	return submissions, nil
}
