package presence

import (
	"context"
	"sync"
)

// Entry is the runtime presence state of one user. ActiveChat is 0 when the
// user is not viewing any chat.
type Entry struct {
	ConnID     string
	ActiveChat int
}

// Directory answers "is user X online, through which connection, and which
// chat are they viewing". Last write wins per user.
type Directory interface {
	SetConnection(ctx context.Context, userID int, connID string) error
	// ClearConnection removes the entry only while it still holds connID, so
	// a reconnect is not wiped by the old connection's teardown.
	ClearConnection(ctx context.Context, userID int, connID string) error
	SetActiveChat(ctx context.Context, userID int, chatID int) error
	ClearActiveChat(ctx context.Context, userID int) error
	Lookup(ctx context.Context, userID int) (Entry, bool, error)
}

const shardCount = 32

type shard struct {
	mu      sync.RWMutex
	entries map[int]Entry
}

// MemoryDirectory is the in-process Directory used for single-instance
// deployments and tests.
type MemoryDirectory struct {
	shards [shardCount]*shard
}

// NewMemoryDirectory creates an empty directory.
func NewMemoryDirectory() *MemoryDirectory {
	d := &MemoryDirectory{}
	for i := range d.shards {
		d.shards[i] = &shard{entries: make(map[int]Entry)}
	}
	return d
}

func (d *MemoryDirectory) shardFor(userID int) *shard {
	if userID < 0 {
		userID = -userID
	}
	return d.shards[userID%shardCount]
}

// SetConnection records the user's live-connection handle, replacing any
// previous one. The active chat of a previous connection does not carry over.
func (d *MemoryDirectory) SetConnection(_ context.Context, userID int, connID string) error {
	s := d.shardFor(userID)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[userID] = Entry{ConnID: connID}
	return nil
}

// ClearConnection drops the entry if it still belongs to connID.
func (d *MemoryDirectory) ClearConnection(_ context.Context, userID int, connID string) error {
	s := d.shardFor(userID)
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[userID]; ok && e.ConnID == connID {
		delete(s.entries, userID)
	}
	return nil
}

// SetActiveChat records which chat the user is currently viewing.
func (d *MemoryDirectory) SetActiveChat(_ context.Context, userID int, chatID int) error {
	s := d.shardFor(userID)
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.entries[userID]
	e.ActiveChat = chatID
	s.entries[userID] = e
	return nil
}

// ClearActiveChat marks the user as viewing no chat.
func (d *MemoryDirectory) ClearActiveChat(_ context.Context, userID int) error {
	s := d.shardFor(userID)
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[userID]; ok {
		e.ActiveChat = 0
		s.entries[userID] = e
	}
	return nil
}

// Lookup returns the user's presence entry, if any.
func (d *MemoryDirectory) Lookup(_ context.Context, userID int) (Entry, bool, error) {
	s := d.shardFor(userID)
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[userID]
	return e, ok, nil
}
