package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"fantasy-book-hub/internal/models"
	"fantasy-book-hub/internal/repositories"
)

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) CreateUser(ctx context.Context, username, email, passwordHash string) (models.User, error) {
	args := m.Called(ctx, username, email, passwordHash)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) GetUser(ctx context.Context, userID int) (models.User, error) {
	args := m.Called(ctx, userID)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	args := m.Called(ctx, username)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) ListUsers(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	var users []models.User
	if val := args.Get(0); val != nil {
		users = val.([]models.User)
	}
	return users, args.Error(1)
}

func (m *UserRepositoryMock) UpdateUser(ctx context.Context, userID int, email, passwordHash *string) (models.User, error) {
	args := m.Called(ctx, userID, email, passwordHash)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) DeleteUser(ctx context.Context, userID int) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type BookRepositoryMock struct {
	mock.Mock
}

func (m *BookRepositoryMock) CreateBook(ctx context.Context, input repositories.CreateBookInput) (models.BookDetail, error) {
	args := m.Called(ctx, input)
	var book models.BookDetail
	if val := args.Get(0); val != nil {
		book = val.(models.BookDetail)
	}
	return book, args.Error(1)
}

func (m *BookRepositoryMock) ListBooks(ctx context.Context, search string) ([]models.BookDetail, error) {
	args := m.Called(ctx, search)
	var books []models.BookDetail
	if val := args.Get(0); val != nil {
		books = val.([]models.BookDetail)
	}
	return books, args.Error(1)
}

func (m *BookRepositoryMock) GetBook(ctx context.Context, bookID int) (models.BookDetail, error) {
	args := m.Called(ctx, bookID)
	var book models.BookDetail
	if val := args.Get(0); val != nil {
		book = val.(models.BookDetail)
	}
	return book, args.Error(1)
}

func (m *BookRepositoryMock) DeleteBook(ctx context.Context, bookID int) error {
	args := m.Called(ctx, bookID)
	return args.Error(0)
}

func (m *BookRepositoryMock) ListAuthors(ctx context.Context) ([]models.Author, error) {
	args := m.Called(ctx)
	var authors []models.Author
	if val := args.Get(0); val != nil {
		authors = val.([]models.Author)
	}
	return authors, args.Error(1)
}

func (m *BookRepositoryMock) ListTopics(ctx context.Context) ([]models.Topic, error) {
	args := m.Called(ctx)
	var topics []models.Topic
	if val := args.Get(0); val != nil {
		topics = val.([]models.Topic)
	}
	return topics, args.Error(1)
}

type ReviewRepositoryMock struct {
	mock.Mock
}

func (m *ReviewRepositoryMock) CreateReview(ctx context.Context, userID, bookID, rating int, reviewText string) (models.Review, error) {
	args := m.Called(ctx, userID, bookID, rating, reviewText)
	var review models.Review
	if val := args.Get(0); val != nil {
		review = val.(models.Review)
	}
	return review, args.Error(1)
}

func (m *ReviewRepositoryMock) ListBookReviews(ctx context.Context, bookID int) ([]models.ReviewWithUser, error) {
	args := m.Called(ctx, bookID)
	var reviews []models.ReviewWithUser
	if val := args.Get(0); val != nil {
		reviews = val.([]models.ReviewWithUser)
	}
	return reviews, args.Error(1)
}

func (m *ReviewRepositoryMock) GetReview(ctx context.Context, reviewID int) (models.Review, error) {
	args := m.Called(ctx, reviewID)
	var review models.Review
	if val := args.Get(0); val != nil {
		review = val.(models.Review)
	}
	return review, args.Error(1)
}

func (m *ReviewRepositoryMock) DeleteReview(ctx context.Context, reviewID int) error {
	args := m.Called(ctx, reviewID)
	return args.Error(0)
}

type GroupRepositoryMock struct {
	mock.Mock
}

func (m *GroupRepositoryMock) CreateGroup(ctx context.Context, createdBy int, name, description string) (models.Group, error) {
	args := m.Called(ctx, createdBy, name, description)
	var group models.Group
	if val := args.Get(0); val != nil {
		group = val.(models.Group)
	}
	return group, args.Error(1)
}

func (m *GroupRepositoryMock) ListGroups(ctx context.Context) ([]models.GroupSummary, error) {
	args := m.Called(ctx)
	var groups []models.GroupSummary
	if val := args.Get(0); val != nil {
		groups = val.([]models.GroupSummary)
	}
	return groups, args.Error(1)
}

func (m *GroupRepositoryMock) GetGroup(ctx context.Context, groupID int) (models.Group, error) {
	args := m.Called(ctx, groupID)
	var group models.Group
	if val := args.Get(0); val != nil {
		group = val.(models.Group)
	}
	return group, args.Error(1)
}

func (m *GroupRepositoryMock) UpdateGroup(ctx context.Context, groupID int, name, description *string) (models.Group, error) {
	args := m.Called(ctx, groupID, name, description)
	var group models.Group
	if val := args.Get(0); val != nil {
		group = val.(models.Group)
	}
	return group, args.Error(1)
}

func (m *GroupRepositoryMock) DeleteGroup(ctx context.Context, groupID int) error {
	args := m.Called(ctx, groupID)
	return args.Error(0)
}

func (m *GroupRepositoryMock) IsCreator(ctx context.Context, groupID int, userID int) (bool, error) {
	args := m.Called(ctx, groupID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *GroupRepositoryMock) IsMember(ctx context.Context, groupID int, userID int) (bool, error) {
	args := m.Called(ctx, groupID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *GroupRepositoryMock) AddMember(ctx context.Context, groupID int, userID int) error {
	args := m.Called(ctx, groupID, userID)
	return args.Error(0)
}

func (m *GroupRepositoryMock) RemoveMember(ctx context.Context, groupID int, userID int) error {
	args := m.Called(ctx, groupID, userID)
	return args.Error(0)
}

func (m *GroupRepositoryMock) ListMembers(ctx context.Context, groupID int) ([]models.GroupMember, error) {
	args := m.Called(ctx, groupID)
	var members []models.GroupMember
	if val := args.Get(0); val != nil {
		members = val.([]models.GroupMember)
	}
	return members, args.Error(1)
}

type DiscussionRepositoryMock struct {
	mock.Mock
}

func (m *DiscussionRepositoryMock) CreateDiscussion(ctx context.Context, groupID, userID, bookID int, title, content string) (models.Discussion, error) {
	args := m.Called(ctx, groupID, userID, bookID, title, content)
	var discussion models.Discussion
	if val := args.Get(0); val != nil {
		discussion = val.(models.Discussion)
	}
	return discussion, args.Error(1)
}

func (m *DiscussionRepositoryMock) ListGroupDiscussions(ctx context.Context, groupID int) ([]models.Discussion, error) {
	args := m.Called(ctx, groupID)
	var discussions []models.Discussion
	if val := args.Get(0); val != nil {
		discussions = val.([]models.Discussion)
	}
	return discussions, args.Error(1)
}

func (m *DiscussionRepositoryMock) GetDiscussion(ctx context.Context, discussionID int) (models.Discussion, error) {
	args := m.Called(ctx, discussionID)
	var discussion models.Discussion
	if val := args.Get(0); val != nil {
		discussion = val.(models.Discussion)
	}
	return discussion, args.Error(1)
}

func (m *DiscussionRepositoryMock) UpdateDiscussion(ctx context.Context, discussionID int, title, content *string) (models.Discussion, error) {
	args := m.Called(ctx, discussionID, title, content)
	var discussion models.Discussion
	if val := args.Get(0); val != nil {
		discussion = val.(models.Discussion)
	}
	return discussion, args.Error(1)
}

func (m *DiscussionRepositoryMock) DeleteDiscussion(ctx context.Context, discussionID int) error {
	args := m.Called(ctx, discussionID)
	return args.Error(0)
}

func (m *DiscussionRepositoryMock) GroupCreatorFor(ctx context.Context, discussionID int) (int, bool, error) {
	args := m.Called(ctx, discussionID)
	return args.Int(0), args.Bool(1), args.Error(2)
}

type MessageRepositoryMock struct {
	mock.Mock
}

func (m *MessageRepositoryMock) CreateMessage(ctx context.Context, discussionID, userID int, content string) (models.DiscussionMessage, error) {
	args := m.Called(ctx, discussionID, userID, content)
	var msg models.DiscussionMessage
	if val := args.Get(0); val != nil {
		msg = val.(models.DiscussionMessage)
	}
	return msg, args.Error(1)
}

func (m *MessageRepositoryMock) ListDiscussionMessages(ctx context.Context, discussionID int) ([]models.MessageWithUser, error) {
	args := m.Called(ctx, discussionID)
	var msgs []models.MessageWithUser
	if val := args.Get(0); val != nil {
		msgs = val.([]models.MessageWithUser)
	}
	return msgs, args.Error(1)
}

var _ repositories.UserRepository = (*UserRepositoryMock)(nil)
var _ repositories.BookRepository = (*BookRepositoryMock)(nil)
var _ repositories.ReviewRepository = (*ReviewRepositoryMock)(nil)
var _ repositories.GroupRepository = (*GroupRepositoryMock)(nil)
var _ repositories.DiscussionRepository = (*DiscussionRepositoryMock)(nil)
var _ repositories.MessageRepository = (*MessageRepositoryMock)(nil)
