package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"social-service/internal/mocks"
	"social-service/internal/models"
	"social-service/internal/repositories"
)

func setupNotificationRouter(handler *NotificationHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", 1)
		c.Next()
	})
	r.GET("/notifications", handler.ListNotifications)
	r.GET("/notifications/count", handler.GetNotificationCount)
	r.DELETE("/notifications/:notification_id", handler.DismissNotification)
	return r
}

func TestListNotificationsSuccess(t *testing.T) {
	notificationRepo := new(mocks.NotificationRepositoryMock)
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewNotificationHandler(notificationRepo, userRepo)
	router := setupNotificationRouter(handler)

	notificationRepo.On("ListForUser", mock.Anything, 1).Return([]models.Notification{
		{ID: 7, Kind: models.NotificationNewFriendRequest, FromUserID: 2, ToUserID: 1},
	}, nil).Once()
	userRepo.On("BulkUsers", mock.Anything, []int{2}).Return([]models.User{{ID: 2, Username: "bob"}}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/notifications", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"sender_username":"bob"`)
	notificationRepo.AssertExpectations(t)
}

func TestGetNotificationCount(t *testing.T) {
	notificationRepo := new(mocks.NotificationRepositoryMock)
	handler := NewNotificationHandler(notificationRepo, nil)
	router := setupNotificationRouter(handler)

	notificationRepo.On("CountForUser", mock.Anything, 1).Return(5, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/notifications/count", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"count":5}`, rec.Body.String())
}

func TestDismissNotificationSuccess(t *testing.T) {
	notificationRepo := new(mocks.NotificationRepositoryMock)
	handler := NewNotificationHandler(notificationRepo, nil)
	router := setupNotificationRouter(handler)

	notificationRepo.On("GetNotification", mock.Anything, 7).Return(models.Notification{ID: 7, ToUserID: 1}, nil).Once()
	notificationRepo.On("DeleteNotification", mock.Anything, 7).Return(nil).Once()

	req := httptest.NewRequest(http.MethodDelete, "/notifications/7", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	notificationRepo.AssertExpectations(t)
}

func TestDismissNotificationOwnershipEnforced(t *testing.T) {
	notificationRepo := new(mocks.NotificationRepositoryMock)
	handler := NewNotificationHandler(notificationRepo, nil)
	router := setupNotificationRouter(handler)

	notificationRepo.On("GetNotification", mock.Anything, 7).Return(models.Notification{ID: 7, ToUserID: 2}, nil).Once()

	req := httptest.NewRequest(http.MethodDelete, "/notifications/7", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	notificationRepo.AssertNotCalled(t, "DeleteNotification", mock.Anything, mock.Anything)
}

func TestDismissNotificationNotFound(t *testing.T) {
	notificationRepo := new(mocks.NotificationRepositoryMock)
	handler := NewNotificationHandler(notificationRepo, nil)
	router := setupNotificationRouter(handler)

	notificationRepo.On("GetNotification", mock.Anything, 7).Return(models.Notification{}, repositories.ErrNotificationNotFound).Once()

	req := httptest.NewRequest(http.MethodDelete, "/notifications/7", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}
