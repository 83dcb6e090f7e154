package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"

	"fantasy-book-hub/internal/models"
)

// MessageRepository abstracts discussion-message persistence.
type MessageRepository interface {
	CreateMessage(ctx context.Context, discussionID, userID int, content string) (models.DiscussionMessage, error)
	ListDiscussionMessages(ctx context.Context, discussionID int) ([]models.MessageWithUser, error)
}

// MessageRepo is a sqlx implementation of MessageRepository.
type MessageRepo struct {
	db *sqlx.DB
}

// NewMessageRepo constructs a MessageRepo.
func NewMessageRepo(db *sqlx.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

// CreateMessage persists a message in a discussion thread.
func (r *MessageRepo) CreateMessage(ctx context.Context, discussionID, userID int, content string) (models.DiscussionMessage, error) {
	var msg models.DiscussionMessage
	err := r.db.GetContext(ctx, &msg,
		`INSERT INTO discussion_messages (discussion_id, user_id, content)
         VALUES ($1, $2, $3)
         RETURNING id, discussion_id, user_id, content, created_at`,
		discussionID, userID, content)
	return msg, err
}

// ListDiscussionMessages returns a thread's messages, oldest first, with the
// sender's username where the sender still exists.
func (r *MessageRepo) ListDiscussionMessages(ctx context.Context, discussionID int) ([]models.MessageWithUser, error) {
	var msgs []models.MessageWithUser
	err := r.db.SelectContext(ctx, &msgs,
		`SELECT m.id, m.discussion_id, m.user_id, m.content, m.created_at, u.username
         FROM discussion_messages m
         LEFT JOIN users u ON u.id = m.user_id
         WHERE m.discussion_id=$1
         ORDER BY m.created_at ASC`, discussionID)
	return msgs, err
}
