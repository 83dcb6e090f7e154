package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fantasy-book-hub/internal/observability"
	"fantasy-book-hub/internal/repositories"
	"fantasy-book-hub/internal/telemetry"
)

// GroupHandler manages discussion-group endpoints.
type GroupHandler struct {
	groupRepo repositories.GroupRepository
	audit     *telemetry.AuditEmitter
}

// NewGroupHandler constructs a GroupHandler.
func NewGroupHandler(groupRepo repositories.GroupRepository, audit *telemetry.AuditEmitter) *GroupHandler {
	return &GroupHandler{groupRepo: groupRepo, audit: audit}
}

// CreateGroup handles POST /groups. Any authenticated user. The creator is
// recorded on the group but does not become a member.
func (h *GroupHandler) CreateGroup(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	var req struct {
		GroupName   string `json:"group_name" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	group, err := h.groupRepo.CreateGroup(c.Request.Context(), identity.UserID, req.GroupName, req.Description)
	if errors.Is(err, repositories.ErrDuplicateGroup) {
		respondError(c, http.StatusBadRequest, "group name already taken")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "could not create group")
		return
	}

	h.audit.Emit(c.Request.Context(), "INFO", "group created", requestIDFromContext(c), userIDFromContext(c))
	c.JSON(http.StatusCreated, gin.H{"group": group})
}

// ListGroups handles GET /groups.
func (h *GroupHandler) ListGroups(c *gin.Context) {
	if _, ok := requireIdentity(c); !ok {
		return
	}

	groups, err := h.groupRepo.ListGroups(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load groups")
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

// GetGroup handles GET /groups/:group_id.
func (h *GroupHandler) GetGroup(c *gin.Context) {
	if _, ok := requireIdentity(c); !ok {
		return
	}
	groupID, ok := parseIDParam(c, "group_id")
	if !ok {
		return
	}

	group, err := h.groupRepo.GetGroup(c.Request.Context(), groupID)
	if errors.Is(err, repositories.ErrGroupNotFound) {
		respondError(c, http.StatusNotFound, "group not found")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load group")
		return
	}
	c.JSON(http.StatusOK, gin.H{"group": group})
}

// UpdateGroup handles PATCH /groups/:group_id. Admin or group creator.
func (h *GroupHandler) UpdateGroup(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	groupID, ok := parseIDParam(c, "group_id")
	if !ok {
		return
	}

	allowed, ok := h.manageGate(c, "update_group", groupID, identity.UserID, identity.IsAdmin)
	if !ok {
		return
	}
	if !allowed {
		respondError(c, http.StatusUnauthorized, "not allowed")
		return
	}

	var req struct {
		GroupName   *string `json:"group_name"`
		Description *string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if req.GroupName == nil && req.Description == nil {
		respondError(c, http.StatusBadRequest, "nothing to update")
		return
	}

	group, err := h.groupRepo.UpdateGroup(c.Request.Context(), groupID, req.GroupName, req.Description)
	if errors.Is(err, repositories.ErrDuplicateGroup) {
		respondError(c, http.StatusBadRequest, "group name already taken")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "could not update group")
		return
	}

	h.audit.Emit(c.Request.Context(), "INFO", "group updated", requestIDFromContext(c), userIDFromContext(c))
	c.JSON(http.StatusOK, gin.H{"group": group})
}

// DeleteGroup handles DELETE /groups/:group_id. Admin or group creator.
// Discussions and their messages cascade away with the group.
func (h *GroupHandler) DeleteGroup(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	groupID, ok := parseIDParam(c, "group_id")
	if !ok {
		return
	}

	allowed, ok := h.manageGate(c, "delete_group", groupID, identity.UserID, identity.IsAdmin)
	if !ok {
		return
	}
	if !allowed {
		respondError(c, http.StatusUnauthorized, "not allowed")
		return
	}

	if err := h.groupRepo.DeleteGroup(c.Request.Context(), groupID); err != nil {
		respondError(c, http.StatusInternalServerError, "could not delete group")
		return
	}

	h.audit.Emit(c.Request.Context(), "INFO", "group deleted", requestIDFromContext(c), userIDFromContext(c))
	c.Status(http.StatusNoContent)
}

// JoinGroup handles POST /groups/:group_id/join. Joining twice is a bad
// request, not an authorization failure.
func (h *GroupHandler) JoinGroup(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	groupID, ok := parseIDParam(c, "group_id")
	if !ok {
		return
	}

	if _, err := h.groupRepo.GetGroup(c.Request.Context(), groupID); err != nil {
		if errors.Is(err, repositories.ErrGroupNotFound) {
			respondError(c, http.StatusNotFound, "group not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to load group")
		return
	}

	err := h.groupRepo.AddMember(c.Request.Context(), groupID, identity.UserID)
	if errors.Is(err, repositories.ErrAlreadyMember) {
		respondError(c, http.StatusBadRequest, "already a member")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "could not join group")
		return
	}

	h.audit.Emit(c.Request.Context(), "INFO", "joined group", requestIDFromContext(c), userIDFromContext(c))
	c.JSON(http.StatusCreated, gin.H{"group_id": groupID, "user_id": identity.UserID})
}

// LeaveGroup handles POST /groups/:group_id/leave.
func (h *GroupHandler) LeaveGroup(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	groupID, ok := parseIDParam(c, "group_id")
	if !ok {
		return
	}

	if _, err := h.groupRepo.GetGroup(c.Request.Context(), groupID); err != nil {
		if errors.Is(err, repositories.ErrGroupNotFound) {
			respondError(c, http.StatusNotFound, "group not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to load group")
		return
	}

	err := h.groupRepo.RemoveMember(c.Request.Context(), groupID, identity.UserID)
	if errors.Is(err, repositories.ErrNotMember) {
		respondError(c, http.StatusBadRequest, "not a member")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "could not leave group")
		return
	}

	h.audit.Emit(c.Request.Context(), "INFO", "left group", requestIDFromContext(c), userIDFromContext(c))
	c.Status(http.StatusNoContent)
}

// ListMembers handles GET /groups/:group_id/members. Admin, member, or
// creator.
func (h *GroupHandler) ListMembers(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	groupID, ok := parseIDParam(c, "group_id")
	if !ok {
		return
	}

	if _, err := h.groupRepo.GetGroup(c.Request.Context(), groupID); err != nil {
		if errors.Is(err, repositories.ErrGroupNotFound) {
			respondError(c, http.StatusNotFound, "group not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to load group")
		return
	}

	allowed := identity.IsAdmin
	if !allowed {
		member, err := h.groupRepo.IsMember(c.Request.Context(), groupID, identity.UserID)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "membership check failed")
			return
		}
		allowed = member
	}
	if !allowed {
		creator, err := h.groupRepo.IsCreator(c.Request.Context(), groupID, identity.UserID)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "membership check failed")
			return
		}
		allowed = creator
	}
	observability.RecordAuthDecision("list_members", allowed)
	if !allowed {
		respondError(c, http.StatusUnauthorized, "not allowed")
		return
	}

	members, err := h.groupRepo.ListMembers(c.Request.Context(), groupID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load members")
		return
	}
	c.JSON(http.StatusOK, gin.H{"members": members})
}

// manageGate resolves the admin-or-creator decision for group mutations.
// Existence is checked first so a missing group is 404, never 401. The second
// return value is false when a response has already been written.
func (h *GroupHandler) manageGate(c *gin.Context, operation string, groupID, userID int, isAdmin bool) (bool, bool) {
	if _, err := h.groupRepo.GetGroup(c.Request.Context(), groupID); err != nil {
		if errors.Is(err, repositories.ErrGroupNotFound) {
			respondError(c, http.StatusNotFound, "group not found")
			return false, false
		}
		respondError(c, http.StatusInternalServerError, "failed to load group")
		return false, false
	}

	allowed := isAdmin
	if !allowed {
		creator, err := h.groupRepo.IsCreator(c.Request.Context(), groupID, userID)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "creator check failed")
			return false, false
		}
		allowed = creator
	}
	observability.RecordAuthDecision(operation, allowed)
	return allowed, true
}
