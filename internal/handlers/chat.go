package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"social-service/internal/models"
	"social-service/internal/repositories"
)

// ChatHandler manages the chat REST endpoints.
type ChatHandler struct {
	chats         repositories.ChatRepository
	messages      repositories.MessageRepository
	users         repositories.UserRepository
	notifications repositories.NotificationRepository
}

// NewChatHandler builds a ChatHandler.
func NewChatHandler(chats repositories.ChatRepository, messages repositories.MessageRepository, users repositories.UserRepository, notifications repositories.NotificationRepository) *ChatHandler {
	return &ChatHandler{chats: chats, messages: messages, users: users, notifications: notifications}
}

// ListChats returns the user's chats ordered by most recent message.
func (h *ChatHandler) ListChats(c *gin.Context) {
	userID := c.GetInt("userID")

	chats, err := h.chats.ListChatsForUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load chats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"chats": chats})
}

// CreateChat starts a chat with a chosen set of friends.
func (h *ChatHandler) CreateChat(c *gin.Context) {
	var req struct {
		FriendUsernames []string `json:"friend_usernames" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetInt("userID")
	ctx := c.Request.Context()

	friendIDs := make([]int, 0, len(req.FriendUsernames))
	for _, username := range req.FriendUsernames {
		friend, err := h.users.GetUserByUsername(ctx, username)
		if errors.Is(err, repositories.ErrUserNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown user: " + username})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve users"})
			return
		}
		areFriends, err := h.notifications.AreFriends(ctx, userID, friend.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to verify friendship"})
			return
		}
		if !areFriends {
			c.JSON(http.StatusForbidden, gin.H{"error": "can only start chats with friends"})
			return
		}
		friendIDs = append(friendIDs, friend.ID)
	}

	chat, err := h.chats.CreateChat(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create chat"})
		return
	}
	if err := h.chats.AddMember(ctx, chat.ID, userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not add members"})
		return
	}
	for _, friendID := range friendIDs {
		if err := h.chats.AddMember(ctx, chat.ID, friendID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not add members"})
			return
		}
	}

	c.JSON(http.StatusCreated, gin.H{"chat_id": chat.ID})
}

// LeaveChat removes the caller from the chat; the chat itself is destroyed
// when the last member leaves.
func (h *ChatHandler) LeaveChat(c *gin.Context) {
	chatID, err := strconv.Atoi(c.Param("chat_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chat id"})
		return
	}

	userID := c.GetInt("userID")
	ctx := c.Request.Context()

	member, err := h.chats.IsMember(ctx, chatID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to verify membership"})
		return
	}
	if !member {
		c.JSON(http.StatusForbidden, gin.H{"error": "not a chat member"})
		return
	}

	memberIDs, err := h.chats.ListMemberIDs(ctx, chatID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load members"})
		return
	}

	if len(memberIDs) > 1 {
		err = h.chats.RemoveMember(ctx, chatID, userID)
	} else {
		err = h.chats.DeleteChat(ctx, chatID)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not leave chat"})
		return
	}

	c.Status(http.StatusNoContent)
}

// GetChatMessages returns the chat's messages with sender usernames.
func (h *ChatHandler) GetChatMessages(c *gin.Context) {
	chatID, err := strconv.Atoi(c.Param("chat_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chat id"})
		return
	}

	userID := c.GetInt("userID")
	ctx := c.Request.Context()

	member, err := h.chats.IsMember(ctx, chatID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to verify membership"})
		return
	}
	if !member {
		c.JSON(http.StatusForbidden, gin.H{"error": "not a chat member"})
		return
	}

	msgs, err := h.messages.ListChatMessages(ctx, chatID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load messages"})
		return
	}

	senderIDs := make([]int, 0, len(msgs))
	senderIDSet := map[int]struct{}{}
	for _, m := range msgs {
		if _, ok := senderIDSet[m.SenderID]; !ok {
			senderIDSet[m.SenderID] = struct{}{}
			senderIDs = append(senderIDs, m.SenderID)
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

	type messageResponse struct {
		models.Message
		SenderUsername string `json:"sender_username,omitempty"`
	}

	resp := make([]messageResponse, 0, len(msgs))
	for _, m := range msgs {
		resp = append(resp, messageResponse{Message: m, SenderUsername: senderNames[m.SenderID]})
	}

	c.JSON(http.StatusOK, gin.H{"messages": resp})
}
