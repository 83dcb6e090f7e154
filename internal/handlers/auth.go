package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fantasy-book-hub/internal/auth"
	"fantasy-book-hub/internal/repositories"
	"fantasy-book-hub/internal/telemetry"
)

// AuthHandler manages registration and login.
type AuthHandler struct {
	userRepo repositories.UserRepository
	tokens   *auth.TokenManager
	hasher   *auth.Hasher
	audit    *telemetry.AuditEmitter
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(userRepo repositories.UserRepository, tokens *auth.TokenManager, hasher *auth.Hasher, audit *telemetry.AuditEmitter) *AuthHandler {
	return &AuthHandler{
		userRepo: userRepo,
		tokens:   tokens,
		hasher:   hasher,
		audit:    audit,
	}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required,min=3,max=50"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	hash, err := h.hasher.Hash(req.Password)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "could not register")
		return
	}

	user, err := h.userRepo.CreateUser(c.Request.Context(), req.Username, req.Email, hash)
	if errors.Is(err, repositories.ErrDuplicateUser) {
		respondError(c, http.StatusBadRequest, "username or email already taken")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "could not register")
		return
	}

	token, err := h.tokens.Generate(user.ID, user.IsAdmin)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "could not issue token")
		return
	}

	h.audit.Emit(c.Request.Context(), "INFO", "user registered", requestIDFromContext(c), &user.ID)
	c.JSON(http.StatusCreated, gin.H{"token": token, "user": user})
}

// Login handles POST /auth/login. Unknown username and wrong password are
// indistinguishable to the caller.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.userRepo.GetUserByUsername(c.Request.Context(), req.Username)
	if errors.Is(err, repositories.ErrUserNotFound) {
		respondError(c, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "could not log in")
		return
	}

	if !h.hasher.Compare(user.PasswordHash, req.Password) {
		respondError(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := h.tokens.Generate(user.ID, user.IsAdmin)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "could not issue token")
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}
