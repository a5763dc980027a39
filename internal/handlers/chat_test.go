package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"social-service/internal/mocks"
	"social-service/internal/models"
)

func setupChatRouter(handler *ChatHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", 1)
		c.Next()
	})
	r.GET("/chats", handler.ListChats)
	r.POST("/chats", handler.CreateChat)
	r.POST("/chats/:chat_id/leave", handler.LeaveChat)
	r.GET("/chats/:chat_id/messages", handler.GetChatMessages)
	return r
}

func TestListChatsSuccess(t *testing.T) {
	chatRepo := new(mocks.ChatRepositoryMock)
	handler := NewChatHandler(chatRepo, nil, nil, nil)
	router := setupChatRouter(handler)

	chatRepo.On("ListChatsForUser", mock.Anything, 1).Return([]models.ChatSummary{{ChatID: 3}}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/chats", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	chatRepo.AssertExpectations(t)
}

func TestListChatsRepoError(t *testing.T) {
	chatRepo := new(mocks.ChatRepositoryMock)
	handler := NewChatHandler(chatRepo, nil, nil, nil)
	router := setupChatRouter(handler)

	chatRepo.On("ListChatsForUser", mock.Anything, 1).Return(([]models.ChatSummary)(nil), assert.AnError).Once()

	req := httptest.NewRequest(http.MethodGet, "/chats", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	chatRepo.AssertExpectations(t)
}

func TestCreateChatSuccess(t *testing.T) {
	chatRepo := new(mocks.ChatRepositoryMock)
	userRepo := new(mocks.UserRepositoryMock)
	notificationRepo := new(mocks.NotificationRepositoryMock)
	handler := NewChatHandler(chatRepo, nil, userRepo, notificationRepo)
	router := setupChatRouter(handler)

	userRepo.On("GetUserByUsername", mock.Anything, "bob").Return(models.User{ID: 2, Username: "bob"}, nil).Once()
	notificationRepo.On("AreFriends", mock.Anything, 1, 2).Return(true, nil).Once()
	chatRepo.On("CreateChat", mock.Anything).Return(models.Chat{ID: 9}, nil).Once()
	chatRepo.On("AddMember", mock.Anything, 9, 1).Return(nil).Once()
	chatRepo.On("AddMember", mock.Anything, 9, 2).Return(nil).Once()

	body := bytes.NewBufferString(`{"friend_usernames":["bob"]}`)
	req := httptest.NewRequest(http.MethodPost, "/chats", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.EqualValues(t, 9, resp["chat_id"])
	chatRepo.AssertExpectations(t)
}

func TestCreateChatRequiresFriendship(t *testing.T) {
	chatRepo := new(mocks.ChatRepositoryMock)
	userRepo := new(mocks.UserRepositoryMock)
	notificationRepo := new(mocks.NotificationRepositoryMock)
	handler := NewChatHandler(chatRepo, nil, userRepo, notificationRepo)
	router := setupChatRouter(handler)

	userRepo.On("GetUserByUsername", mock.Anything, "mallory").Return(models.User{ID: 3, Username: "mallory"}, nil).Once()
	notificationRepo.On("AreFriends", mock.Anything, 1, 3).Return(false, nil).Once()

	body := bytes.NewBufferString(`{"friend_usernames":["mallory"]}`)
	req := httptest.NewRequest(http.MethodPost, "/chats", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	chatRepo.AssertNotCalled(t, "CreateChat", mock.Anything)
}

func TestLeaveChatRemovesMember(t *testing.T) {
	chatRepo := new(mocks.ChatRepositoryMock)
	handler := NewChatHandler(chatRepo, nil, nil, nil)
	router := setupChatRouter(handler)

	chatRepo.On("IsMember", mock.Anything, 9, 1).Return(true, nil).Once()
	chatRepo.On("ListMemberIDs", mock.Anything, 9).Return([]int{1, 2}, nil).Once()
	chatRepo.On("RemoveMember", mock.Anything, 9, 1).Return(nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/chats/9/leave", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	chatRepo.AssertExpectations(t)
}

func TestLeaveChatDestroysEmptyChat(t *testing.T) {
	chatRepo := new(mocks.ChatRepositoryMock)
	handler := NewChatHandler(chatRepo, nil, nil, nil)
	router := setupChatRouter(handler)

	chatRepo.On("IsMember", mock.Anything, 9, 1).Return(true, nil).Once()
	chatRepo.On("ListMemberIDs", mock.Anything, 9).Return([]int{1}, nil).Once()
	chatRepo.On("DeleteChat", mock.Anything, 9).Return(nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/chats/9/leave", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	chatRepo.AssertNotCalled(t, "RemoveMember", mock.Anything, mock.Anything, mock.Anything)
	chatRepo.AssertExpectations(t)
}

func TestGetChatMessagesRequiresMembership(t *testing.T) {
	chatRepo := new(mocks.ChatRepositoryMock)
	messageRepo := new(mocks.MessageRepositoryMock)
	handler := NewChatHandler(chatRepo, messageRepo, nil, nil)
	router := setupChatRouter(handler)

	chatRepo.On("IsMember", mock.Anything, 9, 1).Return(false, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/chats/9/messages", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	messageRepo.AssertNotCalled(t, "ListChatMessages", mock.Anything, mock.Anything)
}

func TestGetChatMessagesSuccess(t *testing.T) {
	chatRepo := new(mocks.ChatRepositoryMock)
	messageRepo := new(mocks.MessageRepositoryMock)
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewChatHandler(chatRepo, messageRepo, userRepo, nil)
	router := setupChatRouter(handler)

	chatRepo.On("IsMember", mock.Anything, 9, 1).Return(true, nil).Once()
	messageRepo.On("ListChatMessages", mock.Anything, 9).Return([]models.Message{
		{ID: 10, ChatID: 9, SenderID: 2, Content: "hi"},
	}, nil).Once()
	userRepo.On("BulkUsers", mock.Anything, []int{2}).Return([]models.User{{ID: 2, Username: "bob"}}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/chats/9/messages", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"sender_username":"bob"`)
	messageRepo.AssertExpectations(t)
}
