package webhook

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestReplayCache(t *testing.T) *ReplayCache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr})
	return NewReplayCache(client)
}

func TestReplayCache_FirstSeenThenDuplicate(t *testing.T) {
	cache := newTestReplayCache(t)
	ctx := context.Background()

	seen, err := cache.SeenBefore(ctx, "checkout", "evt_1")
	require.NoError(t, err)
	assert.False(t, seen)

	seen, err = cache.SeenBefore(ctx, "checkout", "evt_1")
	require.NoError(t, err)
	assert.True(t, seen)
}

func TestReplayCache_DistinctConnectorsIndependent(t *testing.T) {
	cache := newTestReplayCache(t)
	ctx := context.Background()

	seen, err := cache.SeenBefore(ctx, "checkout", "evt_1")
	require.NoError(t, err)
	assert.False(t, seen)

	seen, err = cache.SeenBefore(ctx, "elavon", "evt_1")
	require.NoError(t, err)
	assert.False(t, seen)
}
