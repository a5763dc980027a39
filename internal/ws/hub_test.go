package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"social-service/internal/models"
)

// dialTestConn upgrades a loopback connection and registers it in the hub.
func dialTestConn(t *testing.T, hub *Hub, connID string, userID int) *websocket.Conn {
	t.Helper()

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		hub.Add(ConnInfo{ConnID: connID, UserID: userID}, conn)
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

func TestHubSendToAbsentConnection(t *testing.T) {
	hub := NewHub(zap.NewNop().Sugar(), time.Second)

	ok := hub.Send("missing", models.NewNotificationCountEvent(1))

	assert.False(t, ok)
	assert.False(t, hub.IsConnected("missing"))
}

func TestHubSendDeliversEvent(t *testing.T) {
	hub := NewHub(zap.NewNop().Sugar(), time.Second)
	client := dialTestConn(t, hub, "c1", 1)

	require.True(t, hub.IsConnected("c1"))
	require.True(t, hub.Send("c1", models.NewNotificationCountEvent(3)))

	_, payload, err := client.ReadMessage()
	require.NoError(t, err)

	var event models.Event
	require.NoError(t, json.Unmarshal(payload, &event))
	assert.Equal(t, models.EventUpdateNotificationCount, event.Type)
	require.NotNil(t, event.NotificationCount)
	assert.Equal(t, 3, *event.NotificationCount)
}

func TestHubBroadcastAllReachesEveryConnection(t *testing.T) {
	hub := NewHub(zap.NewNop().Sugar(), time.Second)
	first := dialTestConn(t, hub, "c1", 1)
	second := dialTestConn(t, hub, "c2", 2)

	hub.BroadcastAll(models.Event{
		Type:      models.EventPostVotesChanged,
		PostVotes: &models.PostVotesPush{PostID: 9, Positive: 1},
	})

	for _, client := range []*websocket.Conn{first, second} {
		_, payload, err := client.ReadMessage()
		require.NoError(t, err)
		var event models.Event
		require.NoError(t, json.Unmarshal(payload, &event))
		assert.Equal(t, models.EventPostVotesChanged, event.Type)
	}
}

func TestHubWriteFrameToAbsentConnection(t *testing.T) {
	hub := NewHub(zap.NewNop().Sugar(), time.Second)

	err := hub.WriteFrame("missing", map[string]string{"type": "result"})

	assert.Error(t, err)
}

func TestHubRemove(t *testing.T) {
	hub := NewHub(zap.NewNop().Sugar(), time.Second)
	dialTestConn(t, hub, "c1", 1)

	require.True(t, hub.IsConnected("c1"))
	hub.Remove("c1")
	assert.False(t, hub.IsConnected("c1"))
}
