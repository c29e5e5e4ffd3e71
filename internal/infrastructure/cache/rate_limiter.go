package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter is a fixed-window counter shared by every instance through
// Redis.
type RateLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	prefix string
}

func NewRateLimiter(client *redis.Client, limit int, window time.Duration, prefix string) *RateLimiter {
	if prefix == "" {
		prefix = "ratelimit"
	}
	return &RateLimiter{client: client, limit: limit, window: window, prefix: prefix}
}

// Allow counts one request for key. On a Redis error it allows the request
// and returns the error so the caller can log it.
func (rl *RateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := fmt.Sprintf("%s:%s", rl.prefix, key)

	pipe := rl.client.Pipeline()
	incr := pipe.Incr(ctx, redisKey)
	ttl := pipe.TTL(ctx, redisKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return true, fmt.Errorf("redis error: %w", err)
	}

	// Only a fresh counter gets an expiry, so traffic never stretches the window.
	if ttl.Val() < 0 {
		if err := rl.client.Expire(ctx, redisKey, rl.window).Err(); err != nil {
			return true, fmt.Errorf("redis error: %w", err)
		}
	}
	return incr.Val() <= int64(rl.limit), nil
}

// RetryAfter is how long until key's window resets.
func (rl *RateLimiter) RetryAfter(ctx context.Context, key string) time.Duration {
	ttl, err := rl.client.TTL(ctx, fmt.Sprintf("%s:%s", rl.prefix, key)).Result()
	if err != nil || ttl < 0 {
		return rl.window
	}
	return ttl
}

// NewRedisClient pings before returning so a bad address fails at startup.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return client, nil
}
