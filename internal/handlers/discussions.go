package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fantasy-book-hub/internal/models"
	"fantasy-book-hub/internal/observability"
	"fantasy-book-hub/internal/repositories"
	"fantasy-book-hub/internal/telemetry"
)

// DiscussionHandler manages discussion threads and their messages.
//
// Two distinct gates apply: viewing allows admins alongside members and the
// group creator, while participating (creating threads, posting messages)
// requires membership or creatorship; admin status alone is not enough.
type DiscussionHandler struct {
	discussionRepo repositories.DiscussionRepository
	messageRepo    repositories.MessageRepository
	groupRepo      repositories.GroupRepository
	bookRepo       repositories.BookRepository
	audit          *telemetry.AuditEmitter
}

// NewDiscussionHandler constructs a DiscussionHandler.
func NewDiscussionHandler(discussionRepo repositories.DiscussionRepository, messageRepo repositories.MessageRepository, groupRepo repositories.GroupRepository, bookRepo repositories.BookRepository, audit *telemetry.AuditEmitter) *DiscussionHandler {
	return &DiscussionHandler{
		discussionRepo: discussionRepo,
		messageRepo:    messageRepo,
		groupRepo:      groupRepo,
		bookRepo:       bookRepo,
		audit:          audit,
	}
}

// ListGroupDiscussions handles GET /groups/:group_id/discussions.
func (h *DiscussionHandler) ListGroupDiscussions(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	groupID, ok := parseIDParam(c, "group_id")
	if !ok {
		return
	}

	if !h.groupExists(c, groupID) {
		return
	}

	allowed, ok := h.memberOrCreator(c, groupID, identity.UserID)
	if !ok {
		return
	}
	allowed = allowed || identity.IsAdmin
	observability.RecordAuthDecision("view_discussions", allowed)
	if !allowed {
		respondError(c, http.StatusUnauthorized, "not allowed")
		return
	}

	discussions, err := h.discussionRepo.ListGroupDiscussions(c.Request.Context(), groupID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load discussions")
		return
	}
	c.JSON(http.StatusOK, gin.H{"discussions": discussions})
}

// CreateDiscussion handles POST /groups/:group_id/discussions. Members and
// the group creator only; admin status alone does not grant this.
func (h *DiscussionHandler) CreateDiscussion(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	groupID, ok := parseIDParam(c, "group_id")
	if !ok {
		return
	}

	if !h.groupExists(c, groupID) {
		return
	}

	allowed, ok := h.memberOrCreator(c, groupID, identity.UserID)
	if !ok {
		return
	}
	observability.RecordAuthDecision("create_discussion", allowed)
	if !allowed {
		respondError(c, http.StatusUnauthorized, "not allowed")
		return
	}

	var req struct {
		BookID  int    `json:"book_id" binding:"required"`
		Title   string `json:"title" binding:"required"`
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := h.bookRepo.GetBook(c.Request.Context(), req.BookID); err != nil {
		if errors.Is(err, repositories.ErrBookNotFound) {
			respondError(c, http.StatusNotFound, "book not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to load book")
		return
	}

	discussion, err := h.discussionRepo.CreateDiscussion(c.Request.Context(), groupID, identity.UserID, req.BookID, req.Title, req.Content)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "could not create discussion")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"discussion": discussion})
}

// GetDiscussion handles GET /discussions/:discussion_id.
func (h *DiscussionHandler) GetDiscussion(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	discussionID, ok := parseIDParam(c, "discussion_id")
	if !ok {
		return
	}

	discussion, ok := h.fetchDiscussion(c, discussionID)
	if !ok {
		return
	}

	allowed, ok := h.memberOrCreator(c, discussion.GroupID, identity.UserID)
	if !ok {
		return
	}
	allowed = allowed || identity.IsAdmin
	observability.RecordAuthDecision("view_discussion", allowed)
	if !allowed {
		respondError(c, http.StatusUnauthorized, "not allowed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"discussion": discussion})
}

// UpdateDiscussion handles PATCH /discussions/:discussion_id. Admin, the
// thread's creator, or the creator of its parent group.
func (h *DiscussionHandler) UpdateDiscussion(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	discussionID, ok := parseIDParam(c, "discussion_id")
	if !ok {
		return
	}

	discussion, ok := h.fetchDiscussion(c, discussionID)
	if !ok {
		return
	}

	allowed, ok := h.canManage(c, discussion, identity.UserID, identity.IsAdmin)
	if !ok {
		return
	}
	observability.RecordAuthDecision("update_discussion", allowed)
	if !allowed {
		respondError(c, http.StatusUnauthorized, "not allowed")
		return
	}

	var req struct {
		Title   *string `json:"title"`
		Content *string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if req.Title == nil && req.Content == nil {
		respondError(c, http.StatusBadRequest, "nothing to update")
		return
	}

	updated, err := h.discussionRepo.UpdateDiscussion(c.Request.Context(), discussionID, req.Title, req.Content)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "could not update discussion")
		return
	}
	c.JSON(http.StatusOK, gin.H{"discussion": updated})
}

// DeleteDiscussion handles DELETE /discussions/:discussion_id. Same gate as
// update; messages cascade away with the thread.
func (h *DiscussionHandler) DeleteDiscussion(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	discussionID, ok := parseIDParam(c, "discussion_id")
	if !ok {
		return
	}

	discussion, ok := h.fetchDiscussion(c, discussionID)
	if !ok {
		return
	}

	allowed, ok := h.canManage(c, discussion, identity.UserID, identity.IsAdmin)
	if !ok {
		return
	}
	observability.RecordAuthDecision("delete_discussion", allowed)
	if !allowed {
		respondError(c, http.StatusUnauthorized, "not allowed")
		return
	}

	if err := h.discussionRepo.DeleteDiscussion(c.Request.Context(), discussionID); err != nil {
		respondError(c, http.StatusInternalServerError, "could not delete discussion")
		return
	}

	h.audit.Emit(c.Request.Context(), "INFO", "discussion deleted", requestIDFromContext(c), userIDFromContext(c))
	c.Status(http.StatusNoContent)
}

// ListMessages handles GET /discussions/:discussion_id/messages.
func (h *DiscussionHandler) ListMessages(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	discussionID, ok := parseIDParam(c, "discussion_id")
	if !ok {
		return
	}

	discussion, ok := h.fetchDiscussion(c, discussionID)
	if !ok {
		return
	}

	allowed, ok := h.memberOrCreator(c, discussion.GroupID, identity.UserID)
	if !ok {
		return
	}
	allowed = allowed || identity.IsAdmin
	observability.RecordAuthDecision("view_messages", allowed)
	if !allowed {
		respondError(c, http.StatusUnauthorized, "not allowed")
		return
	}

	msgs, err := h.messageRepo.ListDiscussionMessages(c.Request.Context(), discussionID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load messages")
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

// PostMessage handles POST /discussions/:discussion_id/messages. Members and
// the group creator only; admin status alone does not grant this.
func (h *DiscussionHandler) PostMessage(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	discussionID, ok := parseIDParam(c, "discussion_id")
	if !ok {
		return
	}

	discussion, ok := h.fetchDiscussion(c, discussionID)
	if !ok {
		return
	}

	allowed, ok := h.memberOrCreator(c, discussion.GroupID, identity.UserID)
	if !ok {
		return
	}
	observability.RecordAuthDecision("post_message", allowed)
	if !allowed {
		respondError(c, http.StatusUnauthorized, "not allowed")
		return
	}

	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	msg, err := h.messageRepo.CreateMessage(c.Request.Context(), discussionID, identity.UserID, req.Content)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "could not post message")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": msg})
}

func (h *DiscussionHandler) groupExists(c *gin.Context, groupID int) bool {
	if _, err := h.groupRepo.GetGroup(c.Request.Context(), groupID); err != nil {
		if errors.Is(err, repositories.ErrGroupNotFound) {
			respondError(c, http.StatusNotFound, "group not found")
			return false
		}
		respondError(c, http.StatusInternalServerError, "failed to load group")
		return false
	}
	return true
}

func (h *DiscussionHandler) fetchDiscussion(c *gin.Context, discussionID int) (models.Discussion, bool) {
	discussion, err := h.discussionRepo.GetDiscussion(c.Request.Context(), discussionID)
	if errors.Is(err, repositories.ErrDiscussionNotFound) {
		respondError(c, http.StatusNotFound, "discussion not found")
		return models.Discussion{}, false
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load discussion")
		return models.Discussion{}, false
	}
	return discussion, true
}

// memberOrCreator resolves the membership-or-creatorship predicate against a
// group. The second return value is false when a response was written.
func (h *DiscussionHandler) memberOrCreator(c *gin.Context, groupID, userID int) (bool, bool) {
	member, err := h.groupRepo.IsMember(c.Request.Context(), groupID, userID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "membership check failed")
		return false, false
	}
	if member {
		return true, true
	}
	creator, err := h.groupRepo.IsCreator(c.Request.Context(), groupID, userID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "creator check failed")
		return false, false
	}
	return creator, true
}

// canManage resolves the update/delete gate for a thread: admin, the thread's
// creator, or the creator of the thread's parent group.
func (h *DiscussionHandler) canManage(c *gin.Context, discussion models.Discussion, userID int, isAdmin bool) (bool, bool) {
	if isAdmin {
		return true, true
	}
	if discussion.UserID != nil && *discussion.UserID == userID {
		return true, true
	}
	groupCreator, found, err := h.discussionRepo.GroupCreatorFor(c.Request.Context(), discussion.ID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "creator check failed")
		return false, false
	}
	return found && groupCreator == userID, true
}
