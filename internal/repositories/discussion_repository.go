package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"fantasy-book-hub/internal/models"
)

var ErrDiscussionNotFound = errors.New("discussion not found")

// DiscussionRepository abstracts discussion-thread persistence.
type DiscussionRepository interface {
	CreateDiscussion(ctx context.Context, groupID, userID, bookID int, title, content string) (models.Discussion, error)
	ListGroupDiscussions(ctx context.Context, groupID int) ([]models.Discussion, error)
	GetDiscussion(ctx context.Context, discussionID int) (models.Discussion, error)
	UpdateDiscussion(ctx context.Context, discussionID int, title, content *string) (models.Discussion, error)
	DeleteDiscussion(ctx context.Context, discussionID int) error
	GroupCreatorFor(ctx context.Context, discussionID int) (int, bool, error)
}

// DiscussionRepo is a sqlx implementation of DiscussionRepository.
type DiscussionRepo struct {
	db *sqlx.DB
}

// NewDiscussionRepo constructs a DiscussionRepo.
func NewDiscussionRepo(db *sqlx.DB) *DiscussionRepo {
	return &DiscussionRepo{db: db}
}

// CreateDiscussion inserts a thread in a group, tied to a book.
func (r *DiscussionRepo) CreateDiscussion(ctx context.Context, groupID, userID, bookID int, title, content string) (models.Discussion, error) {
	var discussion models.Discussion
	err := r.db.GetContext(ctx, &discussion,
		`INSERT INTO group_discussions (group_id, user_id, book_id, title, content)
         VALUES ($1, $2, $3, $4, $5)
         RETURNING id, group_id, user_id, book_id, title, content, created_at`,
		groupID, userID, bookID, title, content)
	return discussion, err
}

// ListGroupDiscussions returns a group's threads, newest first.
func (r *DiscussionRepo) ListGroupDiscussions(ctx context.Context, groupID int) ([]models.Discussion, error) {
	var discussions []models.Discussion
	err := r.db.SelectContext(ctx, &discussions,
		`SELECT id, group_id, user_id, book_id, title, content, created_at
         FROM group_discussions
         WHERE group_id=$1
         ORDER BY created_at DESC`, groupID)
	return discussions, err
}

// GetDiscussion fetches a single thread.
func (r *DiscussionRepo) GetDiscussion(ctx context.Context, discussionID int) (models.Discussion, error) {
	var discussion models.Discussion
	err := r.db.GetContext(ctx, &discussion,
		`SELECT id, group_id, user_id, book_id, title, content, created_at
         FROM group_discussions WHERE id=$1`, discussionID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Discussion{}, ErrDiscussionNotFound
	}
	return discussion, err
}

// UpdateDiscussion applies the non-nil fields to the thread.
func (r *DiscussionRepo) UpdateDiscussion(ctx context.Context, discussionID int, title, content *string) (models.Discussion, error) {
	var discussion models.Discussion
	err := r.db.GetContext(ctx, &discussion,
		`UPDATE group_discussions
         SET title = COALESCE($2, title),
             content = COALESCE($3, content)
         WHERE id=$1
         RETURNING id, group_id, user_id, book_id, title, content, created_at`,
		discussionID, title, content)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Discussion{}, ErrDiscussionNotFound
	}
	return discussion, err
}

// DeleteDiscussion removes the thread; its messages cascade.
func (r *DiscussionRepo) DeleteDiscussion(ctx context.Context, discussionID int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM group_discussions WHERE id=$1`, discussionID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrDiscussionNotFound
	}
	return nil
}

// GroupCreatorFor looks up the creator of a discussion's parent group in one
// hop. ok is false when the discussion is missing or the creator was deleted.
func (r *DiscussionRepo) GroupCreatorFor(ctx context.Context, discussionID int) (int, bool, error) {
	var createdBy sql.NullInt64
	err := r.db.GetContext(ctx, &createdBy,
		`SELECT g.created_by
         FROM group_discussions d
         INNER JOIN groups g ON g.id = d.group_id
         WHERE d.id=$1`, discussionID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	if !createdBy.Valid {
		return 0, false, nil
	}
	return int(createdBy.Int64), true, nil
}
