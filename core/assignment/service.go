package assignment

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/taskspro/backend/core/progression"
)

var nowFunc = time.Now // mockable

type (
	Repository interface {
		CreateAssignment(ctx context.Context, a *Assignment) error
		QueryAllAssignments(ctx context.Context) ([]Assignment, error)
		GetAssignmentByID(ctx context.Context, id string) (Assignment, error)
		GetSubmission(ctx context.Context, assignmentID, userID string) (Submission, error)
		UpsertSubmission(ctx context.Context, sub *Submission) error
		QuerySubmissionsByAssignment(ctx context.Context, assignmentID string) ([]Submission, error)
	}

	Service interface {
		Create(ctx context.Context, createdBy string, na NewAssignment) (Assignment, error)
		Query(ctx context.Context) ([]Assignment, error)
		GetByID(ctx context.Context, id string) (Assignment, error)
		// Submit records a student's submission. Resubmission before the due
		// date overwrites the previous one; XP is only granted once.
		Submit(ctx context.Context, assignmentID, userID string, ns NewSubmission) (Submission, error)
		QuerySubmissions(ctx context.Context, assignmentID string) ([]Submission, error)
	}

	service struct {
		repo     Repository
		progSvc  progression.Service
		validate *validator.Validate
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, progSvc progression.Service, validate *validator.Validate) Service {
	return &service{
		repo:     repo,
		progSvc:  progSvc,
		validate: validate,
	}
}

func (svc service) Create(ctx context.Context, createdBy string, na NewAssignment) (Assignment, error) {
	if err := na.Validate(svc.validate); err != nil {
		return Assignment{}, err
	}

	now := nowFunc().UTC()
	a := Assignment{
		ID:          uuid.New().String(),
		Title:       na.Title,
		Description: na.Description,
		Subject:     na.Subject,
		DueDate:     na.DueDate,
		CreatedBy:   createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := svc.repo.CreateAssignment(ctx, &a); err != nil {
		return Assignment{}, errors.Wrap(err, "creating assignment")
	}
	return a, nil
}

func (svc service) Query(ctx context.Context) ([]Assignment, error) {
	return svc.repo.QueryAllAssignments(ctx)
}

func (svc service) GetByID(ctx context.Context, id string) (Assignment, error) {
	return svc.repo.GetAssignmentByID(ctx, id)
}

func (svc service) Submit(ctx context.Context, assignmentID, userID string, ns NewSubmission) (Submission, error) {
	if err := ns.Validate(svc.validate); err != nil {
		return Submission{}, err
	}

	a, err := svc.GetByID(ctx, assignmentID)
	if err != nil {
		return Submission{}, err
	}
	now := nowFunc().UTC()
	if a.PastDue(now) {
		return Submission{}, ErrPastDue
	}

	sub, err := svc.repo.GetSubmission(ctx, assignmentID, userID)
	first := false
	switch errors.Cause(err) {
	case nil:
		sub.Content = ns.Content
		sub.SubmittedAt = now
	case ErrNotFound:
		first = true
		sub = Submission{
			ID:           uuid.New().String(),
			AssignmentID: assignmentID,
			UserID:       userID,
			Content:      ns.Content,
			SubmittedAt:  now,
		}
	default:
		return Submission{}, err
	}

	if err := svc.repo.UpsertSubmission(ctx, &sub); err != nil {
		return Submission{}, errors.Wrap(err, "saving submission")
	}
	if first {
		evt := progression.Event{Kind: progression.ActivityAssignmentSubmitted, Detail: "Submitted assignment: " + a.Title}
		if _, err := svc.progSvc.Record(ctx, userID, evt); err != nil {
			return Submission{}, errors.Wrap(err, "recording assignment activity")
		}
	}
	return sub, nil
}

func (svc service) QuerySubmissions(ctx context.Context, assignmentID string) ([]Submission, error) {
	return svc.repo.QuerySubmissionsByAssignment(ctx, assignmentID)
}
