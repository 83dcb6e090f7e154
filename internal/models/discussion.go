package models

import "time"

// Discussion is a thread inside a group, tied to a book. UserID is nullable:
// deleting the author keeps the thread with user_id set to NULL.
type Discussion struct {
	ID        int       `db:"id" json:"id"`
	GroupID   int       `db:"group_id" json:"group_id"`
	UserID    *int      `db:"user_id" json:"user_id"`
	BookID    int       `db:"book_id" json:"book_id"`
	Title     string    `db:"title" json:"title"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// DiscussionMessage is a message posted in a discussion thread.
type DiscussionMessage struct {
	ID           int       `db:"id" json:"id"`
	DiscussionID int       `db:"discussion_id" json:"discussion_id"`
	UserID       *int      `db:"user_id" json:"user_id"`
	Content      string    `db:"content" json:"content"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// MessageWithUser attaches the sender's username for list responses.
type MessageWithUser struct {
	DiscussionMessage
	Username *string `db:"username" json:"username"`
}
