package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fantasy-book-hub/internal/mocks"
	"fantasy-book-hub/internal/models"
	"fantasy-book-hub/internal/repositories"
)

func setupReviewRouter(reviewRepo *mocks.ReviewRepositoryMock, bookRepo *mocks.BookRepositoryMock, identity gin.HandlerFunc) *gin.Engine {
	handler := NewReviewHandler(reviewRepo, bookRepo, nil)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	if identity != nil {
		r.Use(identity)
	}
	r.GET("/books/:book_id/reviews", handler.ListBookReviews)
	r.POST("/books/:book_id/reviews", handler.CreateReview)
	r.DELETE("/reviews/:review_id", handler.DeleteReview)
	return r
}

func TestCreateReviewSuccess(t *testing.T) {
	reviewRepo := new(mocks.ReviewRepositoryMock)
	bookRepo := new(mocks.BookRepositoryMock)
	router := setupReviewRouter(reviewRepo, bookRepo, asUser(2, false))

	bookRepo.On("GetBook", mock.Anything, 1).Return(models.BookDetail{Book: models.Book{ID: 1}}, nil).Once()
	reviewRepo.On("CreateReview", mock.Anything, 2, 1, 5, "loved it").
		Return(models.Review{ID: 3, UserID: 2, BookID: 1, Rating: 5, ReviewText: "loved it"}, nil).Once()

	rec := doRequest(router, http.MethodPost, "/books/1/reviews", `{"rating":5,"review_text":"loved it"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	reviewRepo.AssertExpectations(t)
}

func TestCreateReviewRatingOutOfRange(t *testing.T) {
	reviewRepo := new(mocks.ReviewRepositoryMock)
	bookRepo := new(mocks.BookRepositoryMock)
	router := setupReviewRouter(reviewRepo, bookRepo, asUser(2, false))

	rec := doRequest(router, http.MethodPost, "/books/1/reviews", `{"rating":6,"review_text":"too good"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	reviewRepo.AssertNotCalled(t, "CreateReview", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateReviewDuplicateIsBadRequest(t *testing.T) {
	reviewRepo := new(mocks.ReviewRepositoryMock)
	bookRepo := new(mocks.BookRepositoryMock)
	router := setupReviewRouter(reviewRepo, bookRepo, asUser(2, false))

	bookRepo.On("GetBook", mock.Anything, 1).Return(models.BookDetail{Book: models.Book{ID: 1}}, nil).Once()
	reviewRepo.On("CreateReview", mock.Anything, 2, 1, 4, "").
		Return(models.Review{}, repositories.ErrDuplicateReview).Once()

	rec := doRequest(router, http.MethodPost, "/books/1/reviews", `{"rating":4}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateReviewMissingBookNotFound(t *testing.T) {
	reviewRepo := new(mocks.ReviewRepositoryMock)
	bookRepo := new(mocks.BookRepositoryMock)
	router := setupReviewRouter(reviewRepo, bookRepo, asUser(2, false))

	bookRepo.On("GetBook", mock.Anything, 404).Return(models.BookDetail{}, repositories.ErrBookNotFound).Once()

	rec := doRequest(router, http.MethodPost, "/books/404/reviews", `{"rating":4}`)

	require.Equal(t, http.StatusNotFound, rec.Code)
	reviewRepo.AssertNotCalled(t, "CreateReview", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteReviewByOwner(t *testing.T) {
	reviewRepo := new(mocks.ReviewRepositoryMock)
	bookRepo := new(mocks.BookRepositoryMock)
	router := setupReviewRouter(reviewRepo, bookRepo, asUser(2, false))

	reviewRepo.On("GetReview", mock.Anything, 3).Return(models.Review{ID: 3, UserID: 2}, nil).Once()
	reviewRepo.On("DeleteReview", mock.Anything, 3).Return(nil).Once()

	rec := doRequest(router, http.MethodDelete, "/reviews/3", "")

	require.Equal(t, http.StatusNoContent, rec.Code)
	reviewRepo.AssertExpectations(t)
}

func TestDeleteReviewByAdminNonOwner(t *testing.T) {
	reviewRepo := new(mocks.ReviewRepositoryMock)
	bookRepo := new(mocks.BookRepositoryMock)
	router := setupReviewRouter(reviewRepo, bookRepo, asUser(99, true))

	reviewRepo.On("GetReview", mock.Anything, 3).Return(models.Review{ID: 3, UserID: 2}, nil).Once()
	reviewRepo.On("DeleteReview", mock.Anything, 3).Return(nil).Once()

	rec := doRequest(router, http.MethodDelete, "/reviews/3", "")

	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestDeleteReviewByStrangerUnauthorized(t *testing.T) {
	reviewRepo := new(mocks.ReviewRepositoryMock)
	bookRepo := new(mocks.BookRepositoryMock)
	router := setupReviewRouter(reviewRepo, bookRepo, asUser(4, false))

	reviewRepo.On("GetReview", mock.Anything, 3).Return(models.Review{ID: 3, UserID: 2}, nil).Once()

	rec := doRequest(router, http.MethodDelete, "/reviews/3", "")

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	reviewRepo.AssertNotCalled(t, "DeleteReview", mock.Anything, mock.Anything)
}

func TestDeleteMissingReviewNotFound(t *testing.T) {
	reviewRepo := new(mocks.ReviewRepositoryMock)
	bookRepo := new(mocks.BookRepositoryMock)
	router := setupReviewRouter(reviewRepo, bookRepo, asUser(4, false))

	reviewRepo.On("GetReview", mock.Anything, 404).Return(models.Review{}, repositories.ErrReviewNotFound).Once()

	rec := doRequest(router, http.MethodDelete, "/reviews/404", "")

	require.Equal(t, http.StatusNotFound, rec.Code)
}
