package models

import "time"

// Review is a user's rating of a book. One review per (user, book) is enforced
// by a unique constraint.
type Review struct {
	ID         int       `db:"id" json:"id"`
	UserID     int       `db:"user_id" json:"user_id"`
	BookID     int       `db:"book_id" json:"book_id"`
	Rating     int       `db:"rating" json:"rating"`
	ReviewText string    `db:"review_text" json:"review_text"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// ReviewWithUser attaches the reviewer's username for list responses.
type ReviewWithUser struct {
	Review
	Username string `db:"username" json:"username"`
}
