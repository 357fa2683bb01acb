package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/taskspro/backend/core/discussion"
)

type discussionRepository struct {
	db *sqlx.DB
}

var _ discussion.Repository = (*discussionRepository)(nil) // interface compliance check

func NewDiscussionRepository(db *sqlx.DB) discussion.Repository {
	return &discussionRepository{db: db}
}

func (repo *discussionRepository) CreateThread(ctx context.Context, t *discussion.Thread) error {
	q := `INSERT INTO discussion_thread (id, author_id, title, body, subject, helpful_reply_id, created_at)
	VALUES (:id, :author_id, :title, :body, :subject, :helpful_reply_id, :created_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, t); err != nil {
		return errors.Wrap(err, "inserting thread")
	}
	return nil
}

func (repo *discussionRepository) QueryAllThreads(ctx context.Context) ([]discussion.Thread, error) {
	threads := make([]discussion.Thread, 0)
	q := `SELECT * FROM discussion_thread ORDER BY created_at DESC`
	if err := repo.db.SelectContext(ctx, &threads, q); err != nil {
		return nil, errors.Wrap(err, "querying threads")
	}
	return threads, nil
}

func (repo *discussionRepository) GetThreadByID(ctx context.Context, id string) (discussion.Thread, error) {
	var t discussion.Thread
	q := `SELECT * FROM discussion_thread WHERE id = $1`
	if err := repo.db.GetContext(ctx, &t, q, id); err != nil {
		if err == sql.ErrNoRows {
			return discussion.Thread{}, discussion.ErrNotFound
		}
		return discussion.Thread{}, errors.Wrap(err, "getting thread")
	}

	replies := make([]discussion.Reply, 0)
	q = `SELECT * FROM discussion_reply WHERE thread_id = $1 ORDER BY created_at`
	if err := repo.db.SelectContext(ctx, &replies, q, id); err != nil {
		return discussion.Thread{}, errors.Wrap(err, "querying replies")
	}
	t.Replies = replies
	return t, nil
}

func (repo *discussionRepository) SetHelpfulReply(ctx context.Context, threadID, replyID string) error {
	q := `UPDATE discussion_thread SET helpful_reply_id = $1 WHERE id = $2`
	if _, err := repo.db.ExecContext(ctx, q, replyID, threadID); err != nil {
		return errors.Wrap(err, "marking thread helpful reply")
	}
	q = `UPDATE discussion_reply SET helpful = TRUE WHERE id = $1`
	if _, err := repo.db.ExecContext(ctx, q, replyID); err != nil {
		return errors.Wrap(err, "marking reply helpful")
	}
	return nil
}

func (repo *discussionRepository) CreateReply(ctx context.Context, r *discussion.Reply) error {
	q := `INSERT INTO discussion_reply (id, thread_id, author_id, body, helpful, created_at)
	VALUES (:id, :thread_id, :author_id, :body, :helpful, :created_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, r); err != nil {
		return errors.Wrap(err, "inserting reply")
	}
	return nil
}

func (repo *discussionRepository) GetReplyByID(ctx context.Context, id string) (discussion.Reply, error) {
	var r discussion.Reply
	q := `SELECT * FROM discussion_reply WHERE id = $1`
	if err := repo.db.GetContext(ctx, &r, q, id); err != nil {
		if err == sql.ErrNoRows {
			return discussion.Reply{}, discussion.ErrReplyNotFound
		}
		return discussion.Reply{}, errors.Wrap(err, "getting reply")
	}
	return r, nil
}
