package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := NewRedisClient(context.Background(), mr.Addr(), "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRateLimiter_Allow(t *testing.T) {
	ctx := context.Background()
	mr, client := setupRedis(t)
	rl := NewRateLimiter(client, 3, time.Minute, "test")

	for i := 0; i < 3; i++ {
		ok, err := rl.Allow(ctx, "user:u1")
		require.NoError(t, err)
		assert.True(t, ok, "request %d", i)
	}
	ok, err := rl.Allow(ctx, "user:u1")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, _ = rl.Allow(ctx, "user:u2")
	assert.True(t, ok, "limits are per key")

	ttl := rl.RetryAfter(ctx, "user:u1")
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Minute)

	mr.FastForward(time.Minute + time.Second)
	ok, err = rl.Allow(ctx, "user:u1")
	require.NoError(t, err)
	assert.True(t, ok, "window resets")
}

func TestRateLimiter_WindowNotExtendedByTraffic(t *testing.T) {
	ctx := context.Background()
	mr, client := setupRedis(t)
	rl := NewRateLimiter(client, 100, time.Minute, "")

	_, _ = rl.Allow(ctx, "k")
	mr.FastForward(40 * time.Second)
	_, _ = rl.Allow(ctx, "k")

	assert.LessOrEqual(t, mr.TTL("ratelimit:k"), 20*time.Second)
}

func TestRateLimiter_FailsOpen(t *testing.T) {
	ctx := context.Background()
	mr, client := setupRedis(t)
	rl := NewRateLimiter(client, 1, time.Minute, "test")
	mr.Close()

	ok, err := rl.Allow(ctx, "user:u1")
	assert.Error(t, err)
	assert.True(t, ok)
	assert.Equal(t, time.Minute, rl.RetryAfter(ctx, "user:u1"))
}

func TestNewRedisClient_BadAddress(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := NewRedisClient(ctx, "127.0.0.1:1", "", 0)
	assert.Error(t, err)
}
