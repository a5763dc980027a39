package gateway

import "social-service/internal/models"

// Pusher delivers events to live connections. Implemented by ws.Hub.
// Delivery is best-effort; a false return means the handle was dead or absent.
type Pusher interface {
	Send(connID string, event models.Event) bool
	BroadcastAll(event models.Event)
}
