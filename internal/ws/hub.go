package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"social-service/internal/models"
	"social-service/internal/observability"
)

// Hub owns the live websocket connections, keyed by connection id. The
// presence directory stores connection ids; the hub resolves them to sockets.
type Hub struct {
	mu            sync.RWMutex
	clients       map[string]*client
	logger        *zap.SugaredLogger
	writeDeadline time.Duration
}

type client struct {
	conn *websocket.Conn
	info ConnInfo

	// serializes writes; pushes and result frames race otherwise
	writeMu sync.Mutex
}

// NewHub creates an empty hub. writeDeadline bounds each socket write; zero
// means no deadline.
func NewHub(logger *zap.SugaredLogger, writeDeadline time.Duration) *Hub {
	return &Hub{clients: make(map[string]*client), logger: logger, writeDeadline: writeDeadline}
}

// Add registers a connection under its id.
func (h *Hub) Add(info ConnInfo, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[info.ConnID] = &client{conn: conn, info: info}
}

// Remove drops a connection.
func (h *Hub) Remove(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, connID)
}

// IsConnected reports whether the connection id has a live socket.
func (h *Hub) IsConnected(connID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[connID]
	return ok
}

// Send pushes an event to one connection. Delivery is best-effort: a write
// failure closes and removes the connection and is not retried or reported
// beyond the return value.
func (h *Hub) Send(connID string, event models.Event) bool {
	h.mu.RLock()
	c, ok := h.clients[connID]
	h.mu.RUnlock()
	if !ok {
		observability.IncPush(event.Type, "absent")
		return false
	}

	if err := h.write(c, event); err != nil {
		h.logger.Warnw("websocket write failed", "conn_id", connID, "user_id", c.info.UserID, "error", err)
		c.conn.Close()
		h.Remove(connID)
		observability.IncPush(event.Type, "error")
		return false
	}
	observability.IncPush(event.Type, "ok")
	return true
}

// BroadcastAll pushes an event to every live connection.
func (h *Hub) BroadcastAll(event models.Event) {
	h.mu.RLock()
	targets := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		if err := h.write(c, event); err != nil {
			h.logger.Warnw("websocket broadcast write failed", "conn_id", c.info.ConnID, "error", err)
			c.conn.Close()
			h.Remove(c.info.ConnID)
			observability.IncPush(event.Type, "error")
			continue
		}
		observability.IncPush(event.Type, "ok")
	}
}

func (h *Hub) write(c *client, event models.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if h.writeDeadline > 0 {
		_ = c.conn.SetWriteDeadline(time.Now().Add(h.writeDeadline))
	}
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

// WriteFrame sends a raw JSON frame (action results) to one connection.
func (h *Hub) WriteFrame(connID string, frame any) error {
	h.mu.RLock()
	c, ok := h.clients[connID]
	h.mu.RUnlock()
	if !ok {
		return websocket.ErrCloseSent
	}
	payload, err := json.Marshal(frame)
	if err != nil {
		return err
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if h.writeDeadline > 0 {
		_ = c.conn.SetWriteDeadline(time.Now().Add(h.writeDeadline))
	}
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}
