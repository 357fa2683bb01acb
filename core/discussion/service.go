package discussion

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
		CreateThread(ctx context.Context, t *Thread) error
		QueryAllThreads(ctx context.Context) ([]Thread, error)
		GetThreadByID(ctx context.Context, id string) (Thread, error)
		SetHelpfulReply(ctx context.Context, threadID, replyID string) error
		CreateReply(ctx context.Context, r *Reply) error
		GetReplyByID(ctx context.Context, id string) (Reply, error)
	}

	Service interface {
		// CreateThread posts a new thread and grants the discussion XP.
		CreateThread(ctx context.Context, authorID string, nt NewThread) (Thread, error)
		Query(ctx context.Context) ([]Thread, error)
		GetByID(ctx context.Context, id string) (Thread, error)
		// Reply posts a reply on a thread and grants the discussion XP.
		Reply(ctx context.Context, threadID, authorID string, nr NewReply) (Reply, error)
		// MarkHelpful lets the thread author single out one reply, granting
		// the reply's author the helpful answer XP. One per thread.
		MarkHelpful(ctx context.Context, threadID, replyID, callerID string) error
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

func (svc service) CreateThread(ctx context.Context, authorID string, nt NewThread) (Thread, error) {
	if err := nt.Validate(svc.validate); err != nil {
		return Thread{}, err
	}

	t := Thread{
		ID:        uuid.New().String(),
		AuthorID:  authorID,
		Title:     nt.Title,
		Body:      nt.Body,
		Subject:   nt.Subject,
		CreatedAt: nowFunc().UTC(),
	}
	if err := svc.repo.CreateThread(ctx, &t); err != nil {
		return Thread{}, errors.Wrap(err, "creating thread")
	}

	evt := progression.Event{Kind: progression.ActivityDiscussionPost, Detail: "Posted discussion: " + t.Title}
	if _, err := svc.progSvc.Record(ctx, authorID, evt); err != nil {
		return Thread{}, errors.Wrap(err, "recording discussion activity")
	}
	return t, nil
}

func (svc service) Query(ctx context.Context) ([]Thread, error) {
	return svc.repo.QueryAllThreads(ctx)
}

func (svc service) GetByID(ctx context.Context, id string) (Thread, error) {
	return svc.repo.GetThreadByID(ctx, id)
}

func (svc service) Reply(ctx context.Context, threadID, authorID string, nr NewReply) (Reply, error) {
	if err := nr.Validate(svc.validate); err != nil {
		return Reply{}, err
	}

	t, err := svc.GetByID(ctx, threadID)
	if err != nil {
		return Reply{}, err
	}

	r := Reply{
		ID:        uuid.New().String(),
		ThreadID:  t.ID,
		AuthorID:  authorID,
		Body:      nr.Body,
		CreatedAt: nowFunc().UTC(),
	}
	if err := svc.repo.CreateReply(ctx, &r); err != nil {
		return Reply{}, errors.Wrap(err, "creating reply")
	}

	evt := progression.Event{Kind: progression.ActivityDiscussionPost, Detail: "Replied to discussion: " + t.Title}
	if _, err := svc.progSvc.Record(ctx, authorID, evt); err != nil {
		return Reply{}, errors.Wrap(err, "recording discussion activity")
	}
	return r, nil
}

func (svc service) MarkHelpful(ctx context.Context, threadID, replyID, callerID string) error {
	t, err := svc.GetByID(ctx, threadID)
	if err != nil {
		return err
	}
	if t.AuthorID != callerID {
		return ErrNotAuthor
	}
	if t.HelpfulReplyID != "" {
		return ErrAlreadyMarked
	}

	r, err := svc.repo.GetReplyByID(ctx, replyID)
	if err != nil {
		return err
	}
	if r.ThreadID != t.ID {
		return ErrReplyNotFound
	}
	if r.AuthorID == callerID {
		return ErrOwnReply
	}

	if err := svc.repo.SetHelpfulReply(ctx, t.ID, r.ID); err != nil {
		return errors.Wrap(err, "marking helpful reply")
	}

	evt := progression.Event{Kind: progression.ActivityHelpfulAnswer, Detail: "Answer marked helpful: " + t.Title}
	if _, err := svc.progSvc.Record(ctx, r.AuthorID, evt); err != nil {
		return errors.Wrap(err, "recording helpful answer activity")
	}
	return nil
}
