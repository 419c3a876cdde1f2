package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAdapter(t *testing.T) (*RedisAdapter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	adapter, err := NewRedisAdapter("redis://"+mr.Addr(), "geo")
	require.NoError(t, err)
	t.Cleanup(func() { adapter.Close() })

	return adapter, mr
}

// TestRedisAdapter_GetSet verifies round-tripping a value under the namespace.
func TestRedisAdapter_GetSet(t *testing.T) {
	adapter, mr := newTestAdapter(t)
	ctx := context.Background()

	err := adapter.Set(ctx, "350 5th ave", []byte(`{"lat":40.7,"lon":-73.9}`), 10*time.Second)
	require.NoError(t, err)

	got, err := adapter.Get(ctx, "350 5th ave")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"lat":40.7,"lon":-73.9}`), got)

	assert.True(t, mr.Exists("geo:350 5th ave"))
}

// TestRedisAdapter_GetNotFound verifies that misses wrap ErrCacheMiss.
func TestRedisAdapter_GetNotFound(t *testing.T) {
	adapter, _ := newTestAdapter(t)

	_, err := adapter.Get(context.Background(), "non_existent_key")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

// TestRedisAdapter_Delete verifies that deleted keys miss.
func TestRedisAdapter_Delete(t *testing.T) {
	adapter, _ := newTestAdapter(t)
	ctx := context.Background()

	require.NoError(t, adapter.Set(ctx, "delete_test", []byte("value"), 0))
	require.NoError(t, adapter.Delete(ctx, "delete_test"))

	_, err := adapter.Get(ctx, "delete_test")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

// TestRedisAdapter_TTL verifies that entries expire.
func TestRedisAdapter_TTL(t *testing.T) {
	adapter, mr := newTestAdapter(t)
	ctx := context.Background()

	require.NoError(t, adapter.Set(ctx, "ttl_test", []byte("value"), time.Second))

	mr.FastForward(2 * time.Second)

	_, err := adapter.Get(ctx, "ttl_test")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

// TestRedisAdapter_Ping verifies connectivity checks against a live and a stopped server.
func TestRedisAdapter_Ping(t *testing.T) {
	adapter, mr := newTestAdapter(t)

	assert.NoError(t, adapter.Ping(context.Background()))

	mr.Close()
	assert.Error(t, adapter.Ping(context.Background()))
}

// TestNewRedisAdapter_InvalidURL verifies URL parsing errors are surfaced.
func TestNewRedisAdapter_InvalidURL(t *testing.T) {
	_, err := NewRedisAdapter("not-a-url", "")
	assert.Error(t, err)
}
