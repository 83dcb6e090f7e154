package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"fantasy-book-hub/internal/auth"
	"fantasy-book-hub/internal/mocks"
	"fantasy-book-hub/internal/models"
	"fantasy-book-hub/internal/repositories"
)

func setupUserRouter(userRepo *mocks.UserRepositoryMock, identity gin.HandlerFunc) *gin.Engine {
	handler := NewUserHandler(userRepo, auth.NewHasher(bcrypt.MinCost), nil)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	if identity != nil {
		r.Use(identity)
	}
	r.GET("/users", handler.ListUsers)
	r.GET("/users/:user_id", handler.GetUser)
	r.PATCH("/users/:user_id", handler.UpdateUser)
	r.DELETE("/users/:user_id", handler.DeleteUser)
	return r
}

func TestListUsersNonAdminUnauthorized(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	router := setupUserRouter(userRepo, asUser(2, false))

	rec := doRequest(router, http.MethodGet, "/users", "")

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	userRepo.AssertNotCalled(t, "ListUsers", mock.Anything)
}

func TestListUsersAsAdmin(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	router := setupUserRouter(userRepo, asUser(99, true))

	userRepo.On("ListUsers", mock.Anything).
		Return([]models.User{{ID: 2, Username: "bilbo"}}, nil).Once()

	rec := doRequest(router, http.MethodGet, "/users", "")

	require.Equal(t, http.StatusOK, rec.Code)
	userRepo.AssertExpectations(t)
}

func TestGetOwnAccount(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	router := setupUserRouter(userRepo, asUser(2, false))

	userRepo.On("GetUser", mock.Anything, 2).Return(models.User{ID: 2, Username: "bilbo"}, nil).Once()

	rec := doRequest(router, http.MethodGet, "/users/2", "")

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestGetOtherAccountUnauthorized(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	router := setupUserRouter(userRepo, asUser(2, false))

	userRepo.On("GetUser", mock.Anything, 3).Return(models.User{ID: 3, Username: "frodo"}, nil).Once()

	rec := doRequest(router, http.MethodGet, "/users/3", "")

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetMissingUserNotFound(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	router := setupUserRouter(userRepo, asUser(2, false))

	userRepo.On("GetUser", mock.Anything, 404).Return(models.User{}, repositories.ErrUserNotFound).Once()

	rec := doRequest(router, http.MethodGet, "/users/404", "")

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateOwnEmail(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	router := setupUserRouter(userRepo, asUser(2, false))

	userRepo.On("GetUser", mock.Anything, 2).Return(models.User{ID: 2}, nil).Once()
	userRepo.On("UpdateUser", mock.Anything, 2, mock.Anything, mock.Anything).
		Return(models.User{ID: 2, Email: "bilbo@shire.me"}, nil).Once()

	rec := doRequest(router, http.MethodPatch, "/users/2", `{"email":"bilbo@shire.me"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	userRepo.AssertExpectations(t)
}

func TestUpdateOtherAccountUnauthorized(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	router := setupUserRouter(userRepo, asUser(2, false))

	userRepo.On("GetUser", mock.Anything, 3).Return(models.User{ID: 3}, nil).Once()

	rec := doRequest(router, http.MethodPatch, "/users/3", `{"email":"stolen@shire.me"}`)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	userRepo.AssertNotCalled(t, "UpdateUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateUserEmptyBody(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	router := setupUserRouter(userRepo, asUser(2, false))

	userRepo.On("GetUser", mock.Anything, 2).Return(models.User{ID: 2}, nil).Once()

	rec := doRequest(router, http.MethodPatch, "/users/2", `{}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	userRepo.AssertNotCalled(t, "UpdateUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteUserNonAdminUnauthorized(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	router := setupUserRouter(userRepo, asUser(2, false))

	userRepo.On("GetUser", mock.Anything, 2).Return(models.User{ID: 2}, nil).Once()

	rec := doRequest(router, http.MethodDelete, "/users/2", "")

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	userRepo.AssertNotCalled(t, "DeleteUser", mock.Anything, mock.Anything)
}

func TestDeleteUserAsAdmin(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	router := setupUserRouter(userRepo, asUser(99, true))

	userRepo.On("GetUser", mock.Anything, 2).Return(models.User{ID: 2}, nil).Once()
	userRepo.On("DeleteUser", mock.Anything, 2).Return(nil).Once()

	rec := doRequest(router, http.MethodDelete, "/users/2", "")

	require.Equal(t, http.StatusNoContent, rec.Code)
	userRepo.AssertExpectations(t)
}
