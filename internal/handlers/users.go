package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fantasy-book-hub/internal/auth"
	"fantasy-book-hub/internal/observability"
	"fantasy-book-hub/internal/repositories"
	"fantasy-book-hub/internal/telemetry"
)

// UserHandler manages account endpoints.
type UserHandler struct {
	userRepo repositories.UserRepository
	hasher   *auth.Hasher
	audit    *telemetry.AuditEmitter
}

// NewUserHandler constructs a UserHandler.
func NewUserHandler(userRepo repositories.UserRepository, hasher *auth.Hasher, audit *telemetry.AuditEmitter) *UserHandler {
	return &UserHandler{userRepo: userRepo, hasher: hasher, audit: audit}
}

// ListUsers handles GET /users. Admin only.
func (h *UserHandler) ListUsers(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	observability.RecordAuthDecision("list_users", identity.IsAdmin)
	if !identity.IsAdmin {
		respondError(c, http.StatusUnauthorized, "admin required")
		return
	}

	users, err := h.userRepo.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load users")
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// GetUser handles GET /users/:user_id. Admin or the account itself.
func (h *UserHandler) GetUser(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	userID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}

	user, err := h.userRepo.GetUser(c.Request.Context(), userID)
	if errors.Is(err, repositories.ErrUserNotFound) {
		respondError(c, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load user")
		return
	}

	allowed := identity.IsAdmin || identity.UserID == userID
	observability.RecordAuthDecision("get_user", allowed)
	if !allowed {
		respondError(c, http.StatusUnauthorized, "not allowed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateUser handles PATCH /users/:user_id. Admin or the account itself.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	userID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}

	if _, err := h.userRepo.GetUser(c.Request.Context(), userID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			respondError(c, http.StatusNotFound, "user not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to load user")
		return
	}

	allowed := identity.IsAdmin || identity.UserID == userID
	observability.RecordAuthDecision("update_user", allowed)
	if !allowed {
		respondError(c, http.StatusUnauthorized, "not allowed")
		return
	}

	var req struct {
		Email    *string `json:"email" binding:"omitempty,email"`
		Password *string `json:"password" binding:"omitempty,min=6"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if req.Email == nil && req.Password == nil {
		respondError(c, http.StatusBadRequest, "nothing to update")
		return
	}

	var passwordHash *string
	if req.Password != nil {
		hash, err := h.hasher.Hash(*req.Password)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "could not update user")
			return
		}
		passwordHash = &hash
	}

	user, err := h.userRepo.UpdateUser(c.Request.Context(), userID, req.Email, passwordHash)
	if errors.Is(err, repositories.ErrDuplicateUser) {
		respondError(c, http.StatusBadRequest, "email already taken")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "could not update user")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// DeleteUser handles DELETE /users/:user_id. Admin only.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	userID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}

	if _, err := h.userRepo.GetUser(c.Request.Context(), userID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			respondError(c, http.StatusNotFound, "user not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to load user")
		return
	}

	observability.RecordAuthDecision("delete_user", identity.IsAdmin)
	if !identity.IsAdmin {
		respondError(c, http.StatusUnauthorized, "admin required")
		return
	}

	if err := h.userRepo.DeleteUser(c.Request.Context(), userID); err != nil {
		respondError(c, http.StatusInternalServerError, "could not delete user")
		return
	}

	h.audit.Emit(c.Request.Context(), "INFO", "user deleted", requestIDFromContext(c), userIDFromContext(c))
	c.Status(http.StatusNoContent)
}
