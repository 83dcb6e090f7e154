package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fantasy-book-hub/internal/observability"
	"fantasy-book-hub/internal/repositories"
	"fantasy-book-hub/internal/telemetry"
)

// BookHandler manages the book catalogue endpoints. Every route, including
// the reads, requires a logged-in caller.
type BookHandler struct {
	bookRepo repositories.BookRepository
	audit    *telemetry.AuditEmitter
}

// NewBookHandler constructs a BookHandler.
func NewBookHandler(bookRepo repositories.BookRepository, audit *telemetry.AuditEmitter) *BookHandler {
	return &BookHandler{bookRepo: bookRepo, audit: audit}
}

// ListBooks handles GET /books?search=.
func (h *BookHandler) ListBooks(c *gin.Context) {
	if _, ok := requireIdentity(c); !ok {
		return
	}

	books, err := h.bookRepo.ListBooks(c.Request.Context(), c.Query("search"))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load books")
		return
	}
	c.JSON(http.StatusOK, gin.H{"books": books})
}

// GetBook handles GET /books/:book_id.
func (h *BookHandler) GetBook(c *gin.Context) {
	if _, ok := requireIdentity(c); !ok {
		return
	}
	bookID, ok := parseIDParam(c, "book_id")
	if !ok {
		return
	}

	book, err := h.bookRepo.GetBook(c.Request.Context(), bookID)
	if errors.Is(err, repositories.ErrBookNotFound) {
		respondError(c, http.StatusNotFound, "book not found")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load book")
		return
	}
	c.JSON(http.StatusOK, gin.H{"book": book})
}

// CreateBook handles POST /books. Admin only.
func (h *BookHandler) CreateBook(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	observability.RecordAuthDecision("create_book", identity.IsAdmin)
	if !identity.IsAdmin {
		respondError(c, http.StatusUnauthorized, "admin required")
		return
	}

	var req struct {
		Title         string   `json:"title" binding:"required"`
		CoverImage    string   `json:"cover_image"`
		YearPublished int      `json:"year_published"`
		Synopsis      string   `json:"synopsis"`
		Authors       []string `json:"authors"`
		Topics        []string `json:"topics"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	book, err := h.bookRepo.CreateBook(c.Request.Context(), repositories.CreateBookInput{
		Title:         req.Title,
		CoverImage:    req.CoverImage,
		YearPublished: req.YearPublished,
		Synopsis:      req.Synopsis,
		Authors:       req.Authors,
		Topics:        req.Topics,
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "could not create book")
		return
	}

	h.audit.Emit(c.Request.Context(), "INFO", "book created", requestIDFromContext(c), userIDFromContext(c))
	c.JSON(http.StatusCreated, gin.H{"book": book})
}

// DeleteBook handles DELETE /books/:book_id. Admin only.
func (h *BookHandler) DeleteBook(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
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

	observability.RecordAuthDecision("delete_book", identity.IsAdmin)
	if !identity.IsAdmin {
		respondError(c, http.StatusUnauthorized, "admin required")
		return
	}

	if err := h.bookRepo.DeleteBook(c.Request.Context(), bookID); err != nil {
		respondError(c, http.StatusInternalServerError, "could not delete book")
		return
	}

	h.audit.Emit(c.Request.Context(), "INFO", "book deleted", requestIDFromContext(c), userIDFromContext(c))
	c.Status(http.StatusNoContent)
}

// ListAuthors handles GET /authors.
func (h *BookHandler) ListAuthors(c *gin.Context) {
	if _, ok := requireIdentity(c); !ok {
		return
	}

	authors, err := h.bookRepo.ListAuthors(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load authors")
		return
	}
	c.JSON(http.StatusOK, gin.H{"authors": authors})
}

// ListTopics handles GET /topics.
func (h *BookHandler) ListTopics(c *gin.Context) {
	if _, ok := requireIdentity(c); !ok {
		return
	}

	topics, err := h.bookRepo.ListTopics(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load topics")
		return
	}
	c.JSON(http.StatusOK, gin.H{"topics": topics})
}
