package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"social-service/internal/models"
	"social-service/internal/repositories"
)

// NotificationHandler manages the notification REST endpoints.
type NotificationHandler struct {
	notifications repositories.NotificationRepository
	users         repositories.UserRepository
}

// NewNotificationHandler builds a NotificationHandler.
func NewNotificationHandler(notifications repositories.NotificationRepository, users repositories.UserRepository) *NotificationHandler {
	return &NotificationHandler{notifications: notifications, users: users}
}

// ListNotifications returns the user's notifications newest first, with
// sender usernames resolved.
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	userID := c.GetInt("userID")
	ctx := c.Request.Context()

	notifications, err := h.notifications.ListForUser(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load notifications"})
		return
	}

	senderIDs := make([]int, 0, len(notifications))
	senderIDSet := map[int]struct{}{}
	for _, n := range notifications {
		if _, ok := senderIDSet[n.FromUserID]; !ok {
			senderIDSet[n.FromUserID] = struct{}{}
			senderIDs = append(senderIDs, n.FromUserID)
		}
	}

	users, err := h.users.BulkUsers(ctx, senderIDs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load senders"})
		return
	}
	senderNames := map[int]string{}
	for _, u := range users {
		senderNames[u.ID] = u.Username
	}

	type notificationResponse struct {
		models.Notification
		SenderUsername string `json:"sender_username,omitempty"`
	}

	resp := make([]notificationResponse, 0, len(notifications))
	for _, n := range notifications {
		resp = append(resp, notificationResponse{Notification: n, SenderUsername: senderNames[n.FromUserID]})
	}

	c.JSON(http.StatusOK, gin.H{"notifications": resp})
}

// GetNotificationCount returns the unread total, used by clients to restore
// their badge after a reconnect.
func (h *NotificationHandler) GetNotificationCount(c *gin.Context) {
	userID := c.GetInt("userID")

	count, err := h.notifications.CountForUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

// DismissNotification deletes a notification owned by the caller.
func (h *NotificationHandler) DismissNotification(c *gin.Context) {
	notificationID, err := strconv.Atoi(c.Param("notification_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
		return
	}

	userID := c.GetInt("userID")
	ctx := c.Request.Context()

	n, err := h.notifications.GetNotification(ctx, notificationID)
	if errors.Is(err, repositories.ErrNotificationNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load notification"})
		return
	}
	if n.ToUserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your notification"})
		return
	}

	if err := h.notifications.DeleteNotification(ctx, notificationID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete notification"})
		return
	}

	c.Status(http.StatusNoContent)
}
