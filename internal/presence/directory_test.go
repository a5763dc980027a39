package presence

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryDirectoryConnectionLifecycle(t *testing.T) {
	d := NewMemoryDirectory()
	ctx := context.Background()

	_, ok, err := d.Lookup(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, d.SetConnection(ctx, 1, "c1"))

	entry, ok, err := d.Lookup(ctx, 1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "c1", entry.ConnID)
	assert.Zero(t, entry.ActiveChat)

	require.NoError(t, d.ClearConnection(ctx, 1, "c1"))

	_, ok, err = d.Lookup(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryDirectoryReconnectReplacesHandle(t *testing.T) {
	d := NewMemoryDirectory()
	ctx := context.Background()

	require.NoError(t, d.SetConnection(ctx, 1, "old"))
	require.NoError(t, d.SetConnection(ctx, 1, "new"))

	// teardown of the old connection must not wipe the new one
	require.NoError(t, d.ClearConnection(ctx, 1, "old"))

	entry, ok, err := d.Lookup(ctx, 1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "new", entry.ConnID)
}

func TestMemoryDirectoryActiveChat(t *testing.T) {
	d := NewMemoryDirectory()
	ctx := context.Background()

	require.NoError(t, d.SetConnection(ctx, 1, "c1"))
	require.NoError(t, d.SetActiveChat(ctx, 1, 5))

	entry, ok, err := d.Lookup(ctx, 1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "c1", entry.ConnID)
	assert.Equal(t, 5, entry.ActiveChat)

	require.NoError(t, d.ClearActiveChat(ctx, 1))

	entry, ok, err = d.Lookup(ctx, 1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "c1", entry.ConnID)
	assert.Zero(t, entry.ActiveChat)
}

func TestMemoryDirectoryConcurrentAccess(t *testing.T) {
	d := NewMemoryDirectory()
	ctx := context.Background()

	var wg sync.WaitGroup
	for userID := 1; userID <= 64; userID++ {
		wg.Add(1)
		go func(userID int) {
			defer wg.Done()
			_ = d.SetConnection(ctx, userID, "c")
			_ = d.SetActiveChat(ctx, userID, 5)
			_, _, _ = d.Lookup(ctx, userID)
			_ = d.ClearActiveChat(ctx, userID)
		}(userID)
	}
	wg.Wait()

	for userID := 1; userID <= 64; userID++ {
		entry, ok, err := d.Lookup(ctx, userID)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "c", entry.ConnID)
		assert.Zero(t, entry.ActiveChat)
	}
}

func TestMemoryDirectoryIsolatesUsers(t *testing.T) {
	d := NewMemoryDirectory()
	ctx := context.Background()

	for userID := 1; userID <= 100; userID++ {
		require.NoError(t, d.SetConnection(ctx, userID, "c"))
		require.NoError(t, d.SetActiveChat(ctx, userID, userID*10))
	}

	require.NoError(t, d.ClearConnection(ctx, 50, "c"))

	_, ok, err := d.Lookup(ctx, 50)
	require.NoError(t, err)
	assert.False(t, ok)

	entry, ok, err := d.Lookup(ctx, 51)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 510, entry.ActiveChat)
}
