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

const actionUpdatePostVote = "update_post_vote"

type voteFrame struct {
	Action     string `json:"action"`
	PostID     int    `json:"post_id"`
	IsPositive bool   `json:"is_positive"`
}

// VoteSocketHandler serves the post-vote websocket. Every connected client
// receives tally broadcasts regardless of which post they are viewing.
type VoteSocketHandler struct {
	hub       *Hub
	gateway   *gateway.VoteGateway
	jwtSecret string
	logger    *zap.SugaredLogger
}

// NewVoteSocketHandler constructs the handler.
func NewVoteSocketHandler(hub *Hub, gw *gateway.VoteGateway, jwtSecret string, logger *zap.SugaredLogger) *VoteSocketHandler {
	return &VoteSocketHandler{hub: hub, gateway: gw, jwtSecret: jwtSecret, logger: logger}
}

// Handle upgrades the connection and serves vote actions.
func (h *VoteSocketHandler) Handle(c *gin.Context) {
	ctx, span := otel.Tracer("social-service/ws").Start(c.Request.Context(), "ws.votes.handshake")
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
	observability.IncWSActive("votes")
	publishSocketEvent(ctx, "votes", "ws_connect", info, "")

	go h.readLoop(context.WithoutCancel(ctx), conn, info)
}

func (h *VoteSocketHandler) readLoop(ctx context.Context, conn *websocket.Conn, info ConnInfo) {
	var closeReason string
	defer func() {
		h.hub.Remove(info.ConnID)
		observability.DecWSActive("votes")
		publishSocketEvent(ctx, "votes", "ws_disconnect", info, closeReason)
		conn.Close()
	}()

	for {
		var frame voteFrame
		if err := conn.ReadJSON(&frame); err != nil {
			closeReason = err.Error()
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				publishSocketEvent(ctx, "votes", "ws_error", info, closeReason)
			}
			return
		}
		if frame.Action != actionUpdatePostVote {
			h.logger.Warnw("unknown vote action", "action", frame.Action, "user_id", info.UserID)
			continue
		}
		observability.IncWSEvent("votes", frame.Action)
		found, err := h.gateway.UpdatePostVote(ctx, info.UserID, frame.PostID, frame.IsPositive)
		if err != nil {
			h.logger.Errorw("update post vote failed", "post_id", frame.PostID, "user_id", info.UserID, "error", err)
			continue
		}
		if !found {
			h.logger.Warnw("vote on missing post", "post_id", frame.PostID, "user_id", info.UserID)
		}
	}
}
