package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fantasy-book-hub/internal/observability"
	"fantasy-book-hub/internal/repositories"
	"fantasy-book-hub/internal/telemetry"
)

// ReviewHandler manages review endpoints.
type ReviewHandler struct {
	reviewRepo repositories.ReviewRepository
	bookRepo   repositories.BookRepository
	audit      *telemetry.AuditEmitter
}

// NewReviewHandler constructs a ReviewHandler.
func NewReviewHandler(reviewRepo repositories.ReviewRepository, bookRepo repositories.BookRepository, audit *telemetry.AuditEmitter) *ReviewHandler {
	return &ReviewHandler{reviewRepo: reviewRepo, bookRepo: bookRepo, audit: audit}
}

// ListBookReviews handles GET /books/:book_id/reviews.
func (h *ReviewHandler) ListBookReviews(c *gin.Context) {
	if _, ok := requireIdentity(c); !ok {
		return
	}
	bookID, ok := parseIDParam(c, "book_id")
	if !ok {
		return
	}

	if _, err := h.bookRepo.GetBook(c.Request.Context(), bookID); err != nil {
		if errors.Is(err, repositories.ErrBookNotFound) {
			respondError(c, http.StatusNotFound, "book not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to load book")
		return
	}

	reviews, err := h.reviewRepo.ListBookReviews(c.Request.Context(), bookID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load reviews")
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

// CreateReview handles POST /books/:book_id/reviews. Any authenticated user;
// the rating is validated before any row is written.
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	bookID, ok := parseIDParam(c, "book_id")
	if !ok {
		return
	}

	var req struct {
		Rating     int    `json:"rating" binding:"required,min=1,max=5"`
		ReviewText string `json:"review_text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := h.bookRepo.GetBook(c.Request.Context(), bookID); err != nil {
		if errors.Is(err, repositories.ErrBookNotFound) {
			respondError(c, http.StatusNotFound, "book not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to load book")
		return
	}

	review, err := h.reviewRepo.CreateReview(c.Request.Context(), identity.UserID, bookID, req.Rating, req.ReviewText)
	if errors.Is(err, repositories.ErrDuplicateReview) {
		respondError(c, http.StatusBadRequest, "you already reviewed this book")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "could not create review")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"review": review})
}

// DeleteReview handles DELETE /reviews/:review_id. Owner or admin; the
// ownership check and the admin override are independent gates.
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	reviewID, ok := parseIDParam(c, "review_id")
	if !ok {
		return
	}

	review, err := h.reviewRepo.GetReview(c.Request.Context(), reviewID)
	if errors.Is(err, repositories.ErrReviewNotFound) {
		respondError(c, http.StatusNotFound, "review not found")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load review")
		return
	}

	allowed := identity.IsAdmin || review.UserID == identity.UserID
	observability.RecordAuthDecision("delete_review", allowed)
	if !allowed {
		respondError(c, http.StatusUnauthorized, "not allowed")
		return
	}

	if err := h.reviewRepo.DeleteReview(c.Request.Context(), reviewID); err != nil {
		respondError(c, http.StatusInternalServerError, "could not delete review")
		return
	}

	h.audit.Emit(c.Request.Context(), "INFO", "review deleted", requestIDFromContext(c), userIDFromContext(c))
	c.Status(http.StatusNoContent)
}
