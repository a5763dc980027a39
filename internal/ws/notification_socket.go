package ws

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"social-service/internal/auth"
	"social-service/internal/gateway"
	"social-service/internal/observability"
)

// Client action names on the notification socket.
const (
	actionEnterChat     = "enter_chat"
	actionLeaveChat     = "leave_chat"
	actionSendMessage   = "send_message"
	actionFriendRequest = "send_friend_request"
	actionAcceptFriend  = "accept_friend_invitation"
	actionRejectFriend  = "reject_friend_invitation"
)

type actionFrame struct {
	Action         string `json:"action"`
	ChatID         int    `json:"chat_id,omitempty"`
	Content        string `json:"content,omitempty"`
	ColorTag       string `json:"color_tag,omitempty"`
	Username       string `json:"username,omitempty"`
	Email          string `json:"email,omitempty"`
	NotificationID int    `json:"notification_id,omitempty"`
	SenderID       int    `json:"sender_id,omitempty"`
}

type resultFrame struct {
	Type              string `json:"type"`
	Action            string `json:"action"`
	OK                bool   `json:"ok"`
	Severity          string `json:"severity,omitempty"`
	Message           string `json:"message,omitempty"`
	NotificationCount int    `json:"notification_count,omitempty"`
}

// NotificationSocketHandler serves the presence and notification websocket.
// Connecting registers the user in the presence directory; the read loop
// dispatches client actions to the gateway.
type NotificationSocketHandler struct {
	hub       *Hub
	gateway   *gateway.NotificationGateway
	jwtSecret string
	logger    *zap.SugaredLogger
}

// NewNotificationSocketHandler constructs the handler.
func NewNotificationSocketHandler(hub *Hub, gw *gateway.NotificationGateway, jwtSecret string, logger *zap.SugaredLogger) *NotificationSocketHandler {
	return &NotificationSocketHandler{hub: hub, gateway: gw, jwtSecret: jwtSecret, logger: logger}
}

// Handle upgrades the connection, registers presence and serves actions.
func (h *NotificationSocketHandler) Handle(c *gin.Context) {
	ctx, span := otel.Tracer("social-service/ws").Start(c.Request.Context(), "ws.notifications.handshake")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	token, err := auth.ParseBearerToken(resolveToken(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}
	userID, err := auth.ValidateToken(h.jwtSecret, token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	info := buildConnInfo(c, userID, span)
	h.hub.Add(info, conn)
	if err := h.gateway.Register(ctx, userID, info.ConnID); err != nil {
		h.logger.Errorw("register presence failed", "user_id", userID, "error", err)
		h.hub.Remove(info.ConnID)
		conn.Close()
		return
	}

	observability.IncWSActive("notifications")
	publishSocketEvent(ctx, "notifications", "ws_connect", info, "")

	go h.readLoop(context.WithoutCancel(ctx), conn, info)
}

func (h *NotificationSocketHandler) readLoop(ctx context.Context, conn *websocket.Conn, info ConnInfo) {
	var closeReason string
	defer func() {
		h.gateway.Unregister(ctx, info.UserID, info.ConnID)
		h.hub.Remove(info.ConnID)
		observability.DecWSActive("notifications")
		publishSocketEvent(ctx, "notifications", "ws_disconnect", info, closeReason)
		conn.Close()
	}()

	for {
		var frame actionFrame
		if err := conn.ReadJSON(&frame); err != nil {
			closeReason = err.Error()
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				publishSocketEvent(ctx, "notifications", "ws_error", info, closeReason)
			}
			return
		}
		h.dispatch(ctx, info, frame)
	}
}

func (h *NotificationSocketHandler) dispatch(ctx context.Context, info ConnInfo, frame actionFrame) {
	observability.IncWSEvent("notifications", frame.Action)

	switch frame.Action {
	case actionEnterChat:
		err := h.gateway.EnterChat(ctx, info.UserID, frame.ChatID)
		h.writeAck(info.ConnID, frame.Action, err)
	case actionLeaveChat:
		err := h.gateway.LeaveChat(ctx, info.UserID)
		h.writeAck(info.ConnID, frame.Action, err)
	case actionSendMessage:
		err := h.gateway.SendMessage(ctx, info.UserID, frame.Content, frame.ColorTag)
		h.writeAck(info.ConnID, frame.Action, err)
	case actionFriendRequest:
		result := h.gateway.SendFriendRequest(ctx, info.UserID, frame.Username, frame.Email)
		h.writeResult(info.ConnID, frame.Action, result)
	case actionAcceptFriend:
		result := h.gateway.AcceptFriendInvitation(ctx, info.UserID, frame.NotificationID, frame.SenderID)
		h.writeResult(info.ConnID, frame.Action, result)
	case actionRejectFriend:
		result := h.gateway.RejectFriendInvitation(ctx, info.UserID, frame.NotificationID, frame.SenderID)
		h.writeResult(info.ConnID, frame.Action, result)
	default:
		h.logger.Warnw("unknown websocket action", "action", frame.Action, "user_id", info.UserID)
	}
}

func (h *NotificationSocketHandler) writeAck(connID string, action string, err error) {
	frame := resultFrame{Type: "result", Action: action, OK: err == nil}
	if err != nil {
		frame.Message = err.Error()
	}
	if writeErr := h.hub.WriteFrame(connID, frame); writeErr != nil {
		h.logger.Debugw("result frame dropped", "conn_id", connID, "action", action)
	}
}

func (h *NotificationSocketHandler) writeResult(connID string, action string, result gateway.Result) {
	frame := resultFrame{
		Type:              "result",
		Action:            action,
		OK:                result.Severity == gateway.SeveritySuccess,
		Severity:          string(result.Severity),
		Message:           result.Message,
		NotificationCount: result.NotificationCount,
	}
	if err := h.hub.WriteFrame(connID, frame); err != nil {
		h.logger.Debugw("result frame dropped", "conn_id", connID, "action", action)
	}
}
