package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fantasy-book-hub/internal/mocks"
	"fantasy-book-hub/internal/models"
	"fantasy-book-hub/internal/repositories"
)

type discussionMocks struct {
	discussions *mocks.DiscussionRepositoryMock
	messages    *mocks.MessageRepositoryMock
	groups      *mocks.GroupRepositoryMock
	books       *mocks.BookRepositoryMock
}

func setupDiscussionRouter(identity gin.HandlerFunc) (*gin.Engine, discussionMocks) {
	m := discussionMocks{
		discussions: new(mocks.DiscussionRepositoryMock),
		messages:    new(mocks.MessageRepositoryMock),
		groups:      new(mocks.GroupRepositoryMock),
		books:       new(mocks.BookRepositoryMock),
	}
	handler := NewDiscussionHandler(m.discussions, m.messages, m.groups, m.books, nil)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	if identity != nil {
		r.Use(identity)
	}
	r.GET("/groups/:group_id/discussions", handler.ListGroupDiscussions)
	r.POST("/groups/:group_id/discussions", handler.CreateDiscussion)
	r.GET("/discussions/:discussion_id", handler.GetDiscussion)
	r.PATCH("/discussions/:discussion_id", handler.UpdateDiscussion)
	r.DELETE("/discussions/:discussion_id", handler.DeleteDiscussion)
	r.GET("/discussions/:discussion_id/messages", handler.ListMessages)
	r.POST("/discussions/:discussion_id/messages", handler.PostMessage)
	return r, m
}

func TestCreateDiscussionNonMemberUnauthorized(t *testing.T) {
	router, m := setupDiscussionRouter(asUser(2, false))

	m.groups.On("GetGroup", mock.Anything, 9).Return(models.Group{ID: 9}, nil).Once()
	m.groups.On("IsMember", mock.Anything, 9, 2).Return(false, nil).Once()
	m.groups.On("IsCreator", mock.Anything, 9, 2).Return(false, nil).Once()

	rec := doRequest(router, http.MethodPost, "/groups/9/discussions", `{"book_id":1,"title":"The Hobbit"}`)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	m.discussions.AssertNotCalled(t, "CreateDiscussion", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateDiscussionAfterJoining(t *testing.T) {
	router, m := setupDiscussionRouter(asUser(2, false))

	creator := 2
	m.groups.On("GetGroup", mock.Anything, 9).Return(models.Group{ID: 9}, nil).Once()
	m.groups.On("IsMember", mock.Anything, 9, 2).Return(true, nil).Once()
	m.books.On("GetBook", mock.Anything, 1).Return(models.BookDetail{Book: models.Book{ID: 1}}, nil).Once()
	m.discussions.On("CreateDiscussion", mock.Anything, 9, 2, 1, "The Hobbit", "chapter one").
		Return(models.Discussion{ID: 7, GroupID: 9, UserID: &creator, BookID: 1, Title: "The Hobbit", Content: "chapter one"}, nil).Once()

	rec := doRequest(router, http.MethodPost, "/groups/9/discussions", `{"book_id":1,"title":"The Hobbit","content":"chapter one"}`)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Discussion models.Discussion `json:"discussion"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 9, resp.Discussion.GroupID)
	require.NotNil(t, resp.Discussion.UserID)
	require.Equal(t, 2, *resp.Discussion.UserID)
	m.discussions.AssertExpectations(t)
}

func TestCreateDiscussionAdminAloneInsufficient(t *testing.T) {
	router, m := setupDiscussionRouter(asUser(99, true))

	m.groups.On("GetGroup", mock.Anything, 9).Return(models.Group{ID: 9}, nil).Once()
	m.groups.On("IsMember", mock.Anything, 9, 99).Return(false, nil).Once()
	m.groups.On("IsCreator", mock.Anything, 9, 99).Return(false, nil).Once()

	rec := doRequest(router, http.MethodPost, "/groups/9/discussions", `{"book_id":1,"title":"The Hobbit"}`)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestViewDiscussionsAdminAllowed(t *testing.T) {
	router, m := setupDiscussionRouter(asUser(99, true))

	m.groups.On("GetGroup", mock.Anything, 9).Return(models.Group{ID: 9}, nil).Once()
	m.groups.On("IsMember", mock.Anything, 9, 99).Return(false, nil).Once()
	m.groups.On("IsCreator", mock.Anything, 9, 99).Return(false, nil).Once()
	m.discussions.On("ListGroupDiscussions", mock.Anything, 9).Return([]models.Discussion{}, nil).Once()

	rec := doRequest(router, http.MethodGet, "/groups/9/discussions", "")

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestGetDiscussionNotFound(t *testing.T) {
	router, m := setupDiscussionRouter(asUser(2, false))

	m.discussions.On("GetDiscussion", mock.Anything, 404).
		Return(models.Discussion{}, repositories.ErrDiscussionNotFound).Once()

	rec := doRequest(router, http.MethodGet, "/discussions/404", "")

	require.Equal(t, http.StatusNotFound, rec.Code)
	m.groups.AssertNotCalled(t, "IsMember", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateDiscussionByThreadCreator(t *testing.T) {
	router, m := setupDiscussionRouter(asUser(2, false))

	creator := 2
	m.discussions.On("GetDiscussion", mock.Anything, 7).
		Return(models.Discussion{ID: 7, GroupID: 9, UserID: &creator}, nil).Once()
	m.discussions.On("UpdateDiscussion", mock.Anything, 7, mock.Anything, mock.Anything).
		Return(models.Discussion{ID: 7, GroupID: 9, UserID: &creator, Title: "Edited"}, nil).Once()

	rec := doRequest(router, http.MethodPatch, "/discussions/7", `{"title":"Edited"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	m.discussions.AssertExpectations(t)
}

func TestUpdateDiscussionByGroupCreator(t *testing.T) {
	router, m := setupDiscussionRouter(asUser(3, false))

	creator := 2
	m.discussions.On("GetDiscussion", mock.Anything, 7).
		Return(models.Discussion{ID: 7, GroupID: 9, UserID: &creator}, nil).Once()
	m.discussions.On("GroupCreatorFor", mock.Anything, 7).Return(3, true, nil).Once()
	m.discussions.On("UpdateDiscussion", mock.Anything, 7, mock.Anything, mock.Anything).
		Return(models.Discussion{ID: 7, GroupID: 9, UserID: &creator, Title: "Edited"}, nil).Once()

	rec := doRequest(router, http.MethodPatch, "/discussions/7", `{"title":"Edited"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	m.discussions.AssertExpectations(t)
}

func TestUpdateDiscussionByThirdMemberUnauthorized(t *testing.T) {
	router, m := setupDiscussionRouter(asUser(4, false))

	creator := 2
	m.discussions.On("GetDiscussion", mock.Anything, 7).
		Return(models.Discussion{ID: 7, GroupID: 9, UserID: &creator}, nil).Once()
	m.discussions.On("GroupCreatorFor", mock.Anything, 7).Return(3, true, nil).Once()

	rec := doRequest(router, http.MethodPatch, "/discussions/7", `{"title":"Edited"}`)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	m.discussions.AssertNotCalled(t, "UpdateDiscussion", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteDiscussionByAdmin(t *testing.T) {
	router, m := setupDiscussionRouter(asUser(99, true))

	creator := 2
	m.discussions.On("GetDiscussion", mock.Anything, 7).
		Return(models.Discussion{ID: 7, GroupID: 9, UserID: &creator}, nil).Once()
	m.discussions.On("DeleteDiscussion", mock.Anything, 7).Return(nil).Once()

	rec := doRequest(router, http.MethodDelete, "/discussions/7", "")

	require.Equal(t, http.StatusNoContent, rec.Code)
	m.discussions.AssertNotCalled(t, "GroupCreatorFor", mock.Anything, mock.Anything)
}

func TestPostMessageAsMember(t *testing.T) {
	router, m := setupDiscussionRouter(asUser(2, false))

	sender := 2
	m.discussions.On("GetDiscussion", mock.Anything, 7).
		Return(models.Discussion{ID: 7, GroupID: 9}, nil).Once()
	m.groups.On("IsMember", mock.Anything, 9, 2).Return(true, nil).Once()
	m.messages.On("CreateMessage", mock.Anything, 7, 2, "hello").
		Return(models.DiscussionMessage{ID: 1, DiscussionID: 7, UserID: &sender, Content: "hello"}, nil).Once()

	rec := doRequest(router, http.MethodPost, "/discussions/7/messages", `{"content":"hello"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	m.messages.AssertExpectations(t)
}

func TestPostMessageAdminAloneInsufficient(t *testing.T) {
	router, m := setupDiscussionRouter(asUser(99, true))

	m.discussions.On("GetDiscussion", mock.Anything, 7).
		Return(models.Discussion{ID: 7, GroupID: 9}, nil).Once()
	m.groups.On("IsMember", mock.Anything, 9, 99).Return(false, nil).Once()
	m.groups.On("IsCreator", mock.Anything, 9, 99).Return(false, nil).Once()

	rec := doRequest(router, http.MethodPost, "/discussions/7/messages", `{"content":"hello"}`)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	m.messages.AssertNotCalled(t, "CreateMessage", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestListMessagesAdminAllowed(t *testing.T) {
	router, m := setupDiscussionRouter(asUser(99, true))

	m.discussions.On("GetDiscussion", mock.Anything, 7).
		Return(models.Discussion{ID: 7, GroupID: 9}, nil).Once()
	m.groups.On("IsMember", mock.Anything, 9, 99).Return(false, nil).Once()
	m.groups.On("IsCreator", mock.Anything, 9, 99).Return(false, nil).Once()
	m.messages.On("ListDiscussionMessages", mock.Anything, 7).Return([]models.MessageWithUser{}, nil).Once()

	rec := doRequest(router, http.MethodGet, "/discussions/7/messages", "")

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestListMessagesOutsiderUnauthorized(t *testing.T) {
	router, m := setupDiscussionRouter(asUser(4, false))

	m.discussions.On("GetDiscussion", mock.Anything, 7).
		Return(models.Discussion{ID: 7, GroupID: 9}, nil).Once()
	m.groups.On("IsMember", mock.Anything, 9, 4).Return(false, nil).Once()
	m.groups.On("IsCreator", mock.Anything, 9, 4).Return(false, nil).Once()

	rec := doRequest(router, http.MethodGet, "/discussions/7/messages", "")

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
