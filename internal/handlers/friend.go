package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"social-service/internal/repositories"
)

// FriendHandler manages the friends REST endpoints. Friendships are created
// through the notification websocket (accepting an invitation); this surface
// lists and removes them.
type FriendHandler struct {
	notifications repositories.NotificationRepository
	users         repositories.UserRepository
}

// NewFriendHandler builds a FriendHandler.
func NewFriendHandler(notifications repositories.NotificationRepository, users repositories.UserRepository) *FriendHandler {
	return &FriendHandler{notifications: notifications, users: users}
}

// ListFriends returns the caller's friends with usernames.
func (h *FriendHandler) ListFriends(c *gin.Context) {
	userID := c.GetInt("userID")
	ctx := c.Request.Context()

	friendIDs, err := h.notifications.ListFriendIDs(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load friends"})
		return
	}

	friends, err := h.users.BulkUsers(ctx, friendIDs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load friends"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"friends": friends})
}

// RemoveFriend dissolves the friendship between the caller and the given user.
func (h *FriendHandler) RemoveFriend(c *gin.Context) {
	friendID, err := strconv.Atoi(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	userID := c.GetInt("userID")
	ctx := c.Request.Context()

	friends, err := h.notifications.AreFriends(ctx, userID, friendID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to verify friendship"})
		return
	}
	if !friends {
		c.JSON(http.StatusNotFound, gin.H{"error": "not in your friends list"})
		return
	}

	if err := h.notifications.RemoveFriendship(ctx, userID, friendID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not remove friend"})
		return
	}

	c.Status(http.StatusNoContent)
}
