package ws

import (
	"crypto/rand"
	"encoding/hex"
)

// newConnID mints the handle the presence directory maps a user to. It must
// be unguessable because the hub pushes private events by handle alone.
func newConnID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return ""
	}
	return hex.EncodeToString(buf)
}
