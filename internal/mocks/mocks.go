package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"social-service/internal/models"
	"social-service/internal/presence"
)

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) CreateUser(ctx context.Context, username string, email string) (models.User, error) {
	args := m.Called(ctx, username, email)
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

func (m *UserRepositoryMock) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	args := m.Called(ctx, email)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) BulkUsers(ctx context.Context, ids []int) ([]models.User, error) {
	args := m.Called(ctx, ids)
	var users []models.User
	if val := args.Get(0); val != nil {
		users = val.([]models.User)
	}
	return users, args.Error(1)
}

type ChatRepositoryMock struct {
	mock.Mock
}

func (m *ChatRepositoryMock) CreateChat(ctx context.Context) (models.Chat, error) {
	args := m.Called(ctx)
	var chat models.Chat
	if val := args.Get(0); val != nil {
		chat = val.(models.Chat)
	}
	return chat, args.Error(1)
}

func (m *ChatRepositoryMock) GetChat(ctx context.Context, chatID int) (models.Chat, error) {
	args := m.Called(ctx, chatID)
	var chat models.Chat
	if val := args.Get(0); val != nil {
		chat = val.(models.Chat)
	}
	return chat, args.Error(1)
}

func (m *ChatRepositoryMock) DeleteChat(ctx context.Context, chatID int) error {
	args := m.Called(ctx, chatID)
	return args.Error(0)
}

func (m *ChatRepositoryMock) AddMember(ctx context.Context, chatID int, userID int) error {
	args := m.Called(ctx, chatID, userID)
	return args.Error(0)
}

func (m *ChatRepositoryMock) RemoveMember(ctx context.Context, chatID int, userID int) error {
	args := m.Called(ctx, chatID, userID)
	return args.Error(0)
}

func (m *ChatRepositoryMock) IsMember(ctx context.Context, chatID int, userID int) (bool, error) {
	args := m.Called(ctx, chatID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *ChatRepositoryMock) ListMemberIDs(ctx context.Context, chatID int) ([]int, error) {
	args := m.Called(ctx, chatID)
	var ids []int
	if val := args.Get(0); val != nil {
		ids = val.([]int)
	}
	return ids, args.Error(1)
}

func (m *ChatRepositoryMock) ListChatsForUser(ctx context.Context, userID int) ([]models.ChatSummary, error) {
	args := m.Called(ctx, userID)
	var list []models.ChatSummary
	if val := args.Get(0); val != nil {
		list = val.([]models.ChatSummary)
	}
	return list, args.Error(1)
}

type MessageRepositoryMock struct {
	mock.Mock
}

func (m *MessageRepositoryMock) CreateMessage(ctx context.Context, chatID int, senderID int, content string) (models.Message, error) {
	args := m.Called(ctx, chatID, senderID, content)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *MessageRepositoryMock) GetMessage(ctx context.Context, messageID int) (models.Message, error) {
	args := m.Called(ctx, messageID)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *MessageRepositoryMock) ListChatMessages(ctx context.Context, chatID int) ([]models.Message, error) {
	args := m.Called(ctx, chatID)
	var msgs []models.Message
	if val := args.Get(0); val != nil {
		msgs = val.([]models.Message)
	}
	return msgs, args.Error(1)
}

func (m *MessageRepositoryMock) CreateSeenState(ctx context.Context, messageID int, recipientID int, seen bool) (int, error) {
	args := m.Called(ctx, messageID, recipientID, seen)
	return args.Int(0), args.Error(1)
}

func (m *MessageRepositoryMock) MarkSeen(ctx context.Context, seenStateID int) error {
	args := m.Called(ctx, seenStateID)
	return args.Error(0)
}

func (m *MessageRepositoryMock) ListUnseenForUserInChat(ctx context.Context, userID int, chatID int) ([]models.UnseenMessage, error) {
	args := m.Called(ctx, userID, chatID)
	var unseen []models.UnseenMessage
	if val := args.Get(0); val != nil {
		unseen = val.([]models.UnseenMessage)
	}
	return unseen, args.Error(1)
}

type NotificationRepositoryMock struct {
	mock.Mock
}

func (m *NotificationRepositoryMock) CreateNotification(ctx context.Context, n models.Notification) (int, error) {
	args := m.Called(ctx, n)
	return args.Int(0), args.Error(1)
}

func (m *NotificationRepositoryMock) GetNotification(ctx context.Context, id int) (models.Notification, error) {
	args := m.Called(ctx, id)
	var n models.Notification
	if val := args.Get(0); val != nil {
		n = val.(models.Notification)
	}
	return n, args.Error(1)
}

func (m *NotificationRepositoryMock) DeleteNotification(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *NotificationRepositoryMock) ListForUser(ctx context.Context, userID int) ([]models.Notification, error) {
	args := m.Called(ctx, userID)
	var list []models.Notification
	if val := args.Get(0); val != nil {
		list = val.([]models.Notification)
	}
	return list, args.Error(1)
}

func (m *NotificationRepositoryMock) CountForUser(ctx context.Context, userID int) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *NotificationRepositoryMock) CreateFriendship(ctx context.Context, userA int, userB int) error {
	args := m.Called(ctx, userA, userB)
	return args.Error(0)
}

func (m *NotificationRepositoryMock) RemoveFriendship(ctx context.Context, userA int, userB int) error {
	args := m.Called(ctx, userA, userB)
	return args.Error(0)
}

func (m *NotificationRepositoryMock) AreFriends(ctx context.Context, userA int, userB int) (bool, error) {
	args := m.Called(ctx, userA, userB)
	return args.Bool(0), args.Error(1)
}

func (m *NotificationRepositoryMock) ListFriendIDs(ctx context.Context, userID int) ([]int, error) {
	args := m.Called(ctx, userID)
	var ids []int
	if val := args.Get(0); val != nil {
		ids = val.([]int)
	}
	return ids, args.Error(1)
}

type PostRepositoryMock struct {
	mock.Mock
}

func (m *PostRepositoryMock) CreatePost(ctx context.Context, userID int, title string, content string) (models.Post, error) {
	args := m.Called(ctx, userID, title, content)
	var post models.Post
	if val := args.Get(0); val != nil {
		post = val.(models.Post)
	}
	return post, args.Error(1)
}

func (m *PostRepositoryMock) UpdatePost(ctx context.Context, postID int, title string, content string) error {
	args := m.Called(ctx, postID, title, content)
	return args.Error(0)
}

func (m *PostRepositoryMock) DeletePost(ctx context.Context, postID int) error {
	args := m.Called(ctx, postID)
	return args.Error(0)
}

func (m *PostRepositoryMock) GetPostWithVotes(ctx context.Context, postID int) (models.Post, error) {
	args := m.Called(ctx, postID)
	var post models.Post
	if val := args.Get(0); val != nil {
		post = val.(models.Post)
	}
	return post, args.Error(1)
}

func (m *PostRepositoryMock) ListPostsWithVotes(ctx context.Context) ([]models.Post, error) {
	args := m.Called(ctx)
	var posts []models.Post
	if val := args.Get(0); val != nil {
		posts = val.([]models.Post)
	}
	return posts, args.Error(1)
}

func (m *PostRepositoryMock) CreateVote(ctx context.Context, postID int, userID int, isPositive bool) (int, error) {
	args := m.Called(ctx, postID, userID, isPositive)
	return args.Int(0), args.Error(1)
}

func (m *PostRepositoryMock) UpdateVote(ctx context.Context, voteID int, isPositive bool) error {
	args := m.Called(ctx, voteID, isPositive)
	return args.Error(0)
}

func (m *PostRepositoryMock) DeleteVote(ctx context.Context, voteID int) error {
	args := m.Called(ctx, voteID)
	return args.Error(0)
}

type PusherMock struct {
	mock.Mock
}

func (m *PusherMock) Send(connID string, event models.Event) bool {
	args := m.Called(connID, event)
	return args.Bool(0)
}

func (m *PusherMock) BroadcastAll(event models.Event) {
	m.Called(event)
}

type DirectoryMock struct {
	mock.Mock
}

func (m *DirectoryMock) SetConnection(ctx context.Context, userID int, connID string) error {
	args := m.Called(ctx, userID, connID)
	return args.Error(0)
}

func (m *DirectoryMock) ClearConnection(ctx context.Context, userID int, connID string) error {
	args := m.Called(ctx, userID, connID)
	return args.Error(0)
}

func (m *DirectoryMock) SetActiveChat(ctx context.Context, userID int, chatID int) error {
	args := m.Called(ctx, userID, chatID)
	return args.Error(0)
}

func (m *DirectoryMock) ClearActiveChat(ctx context.Context, userID int) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *DirectoryMock) Lookup(ctx context.Context, userID int) (presence.Entry, bool, error) {
	args := m.Called(ctx, userID)
	var entry presence.Entry
	if val := args.Get(0); val != nil {
		entry = val.(presence.Entry)
	}
	return entry, args.Bool(1), args.Error(2)
}
