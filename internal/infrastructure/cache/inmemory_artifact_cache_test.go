package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryArtifactCache_GetSet(t *testing.T) {
	cache := NewInMemoryArtifactCache(1 * time.Hour)
	defer cache.Close()

	ctx := context.Background()

	t.Run("miss on unknown key", func(t *testing.T) {
		data, ok, err := cache.Get(ctx, "render:unknown")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, data)
	})

	t.Run("hit after set", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, "render:abc", []byte("%PDF-1.7")))

		data, ok, err := cache.Get(ctx, "render:abc")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []byte("%PDF-1.7"), data)
	})

	t.Run("set overwrites previous entry", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, "render:ow", []byte("old")))
		require.NoError(t, cache.Set(ctx, "render:ow", []byte("new")))

		data, ok, err := cache.Get(ctx, "render:ow")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []byte("new"), data)
	})
}

func TestInMemoryArtifactCache_Expiration(t *testing.T) {
	cache := NewInMemoryArtifactCache(10 * time.Millisecond)
	defer cache.Close()

	ctx := context.Background()
	require.NoError(t, cache.Set(ctx, "render:short", []byte("data")))

	// Wait for expiration
	time.Sleep(20 * time.Millisecond)

	_, ok, err := cache.Get(ctx, "render:short")
	require.NoError(t, err)
	assert.False(t, ok, "expired entry should be a miss")
}

func TestInMemoryArtifactCache_CleanupRemovesExpired(t *testing.T) {
	cache := NewInMemoryArtifactCache(10 * time.Millisecond)
	defer cache.Close()

	ctx := context.Background()
	require.NoError(t, cache.Set(ctx, "render:a", []byte("a")))
	require.NoError(t, cache.Set(ctx, "render:b", []byte("b")))
	assert.Equal(t, 2, cache.Size())

	time.Sleep(20 * time.Millisecond)
	cache.cleanup()

	assert.Equal(t, 0, cache.Size())
}

func TestInMemoryArtifactCache_CloseIsIdempotent(t *testing.T) {
	cache := NewInMemoryArtifactCache(time.Hour)

	require.NoError(t, cache.Close())
	require.NoError(t, cache.Close())
}
