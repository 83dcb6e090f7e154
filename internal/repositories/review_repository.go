package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"fantasy-book-hub/internal/models"
)

var (
	ErrReviewNotFound  = errors.New("review not found")
	ErrDuplicateReview = errors.New("user already reviewed this book")
)

// ReviewRepository abstracts review persistence.
type ReviewRepository interface {
	CreateReview(ctx context.Context, userID, bookID, rating int, reviewText string) (models.Review, error)
	ListBookReviews(ctx context.Context, bookID int) ([]models.ReviewWithUser, error)
	GetReview(ctx context.Context, reviewID int) (models.Review, error)
	DeleteReview(ctx context.Context, reviewID int) error
}

// ReviewRepo is a sqlx implementation of ReviewRepository.
type ReviewRepo struct {
	db *sqlx.DB
}

// NewReviewRepo constructs a ReviewRepo.
func NewReviewRepo(db *sqlx.DB) *ReviewRepo {
	return &ReviewRepo{db: db}
}

// CreateReview inserts a review. One review per (user, book) is enforced by a
// unique constraint; a second attempt yields ErrDuplicateReview.
func (r *ReviewRepo) CreateReview(ctx context.Context, userID, bookID, rating int, reviewText string) (models.Review, error) {
	var review models.Review
	err := r.db.GetContext(ctx, &review,
		`INSERT INTO reviews (user_id, book_id, rating, review_text)
         VALUES ($1, $2, $3, $4)
         RETURNING id, user_id, book_id, rating, review_text, created_at`,
		userID, bookID, rating, reviewText)
	if isUniqueViolation(err) {
		return models.Review{}, ErrDuplicateReview
	}
	return review, err
}

// ListBookReviews returns a book's reviews, newest first, with usernames.
func (r *ReviewRepo) ListBookReviews(ctx context.Context, bookID int) ([]models.ReviewWithUser, error) {
	var reviews []models.ReviewWithUser
	err := r.db.SelectContext(ctx, &reviews,
		`SELECT r.id, r.user_id, r.book_id, r.rating, r.review_text, r.created_at, u.username
         FROM reviews r
         INNER JOIN users u ON u.id = r.user_id
         WHERE r.book_id=$1
         ORDER BY r.created_at DESC`, bookID)
	return reviews, err
}

// GetReview fetches a single review. Callers decide ownership from the row,
// which keeps "not found" distinguishable from "not yours".
func (r *ReviewRepo) GetReview(ctx context.Context, reviewID int) (models.Review, error) {
	var review models.Review
	err := r.db.GetContext(ctx, &review,
		`SELECT id, user_id, book_id, rating, review_text, created_at FROM reviews WHERE id=$1`, reviewID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Review{}, ErrReviewNotFound
	}
	return review, err
}

// DeleteReview removes a review.
func (r *ReviewRepo) DeleteReview(ctx context.Context, reviewID int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id=$1`, reviewID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrReviewNotFound
	}
	return nil
}
