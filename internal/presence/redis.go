package presence

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// RedisDirectory stores presence entries in Redis so other instances can
// route pushes. One hash per user:
//   <prefix>:user:<id> -> {conn_id, active_chat}
type RedisDirectory struct {
	client *redis.Client
	prefix string
}

// NewRedisDirectory wraps an existing Redis client.
func NewRedisDirectory(client *redis.Client, prefix string) *RedisDirectory {
	return &RedisDirectory{client: client, prefix: prefix}
}

func (d *RedisDirectory) key(userID int) string {
	return fmt.Sprintf("%s:user:%d", d.prefix, userID)
}

// clearConnScript deletes the entry only while it still holds the given
// connection id.
var clearConnScript = redis.NewScript(`
if redis.call("HGET", KEYS[1], "conn_id") == ARGV[1] then
    return redis.call("DEL", KEYS[1])
end
return 0
`)

func (d *RedisDirectory) SetConnection(ctx context.Context, userID int, connID string) error {
	key := d.key(userID)
	pipe := d.client.TxPipeline()
	pipe.Del(ctx, key)
	pipe.HSet(ctx, key, "conn_id", connID, "active_chat", 0)
	_, err := pipe.Exec(ctx)
	return err
}

func (d *RedisDirectory) ClearConnection(ctx context.Context, userID int, connID string) error {
	return clearConnScript.Run(ctx, d.client, []string{d.key(userID)}, connID).Err()
}

func (d *RedisDirectory) SetActiveChat(ctx context.Context, userID int, chatID int) error {
	return d.client.HSet(ctx, d.key(userID), "active_chat", chatID).Err()
}

func (d *RedisDirectory) ClearActiveChat(ctx context.Context, userID int) error {
	return d.client.HSet(ctx, d.key(userID), "active_chat", 0).Err()
}

func (d *RedisDirectory) Lookup(ctx context.Context, userID int) (Entry, bool, error) {
	vals, err := d.client.HGetAll(ctx, d.key(userID)).Result()
	if err != nil {
		return Entry{}, false, err
	}
	if len(vals) == 0 {
		return Entry{}, false, nil
	}
	chat, _ := strconv.Atoi(vals["active_chat"])
	return Entry{ConnID: vals["conn_id"], ActiveChat: chat}, true, nil
}

var _ Directory = (*RedisDirectory)(nil)
var _ Directory = (*MemoryDirectory)(nil)
