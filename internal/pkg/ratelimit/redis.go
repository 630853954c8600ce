package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter implements Limiter on a shared Redis instance, so the limit
// holds across replicas. INCR is atomic; the first increment of a window
// key also arms its expiry.
type RedisLimiter struct {
	client *redis.Client
	prefix string
}

var _ Limiter = &RedisLimiter{}

func NewRedisLimiter(client *redis.Client) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		prefix: "ratelimit",
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string, window Window) (Result, error) {
	windowStart := time.Now().Unix() / int64(window.Period.Seconds())
	redisKey := fmt.Sprintf("%s:%s:%d", l.prefix, key, windowStart)

	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return Result{}, fmt.Errorf("increment rate counter: %w", err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, redisKey, window.Period).Err(); err != nil {
			return Result{}, fmt.Errorf("arm rate counter expiry: %w", err)
		}
	}

	if count <= int64(window.Limit) {
		return Result{
			Allowed:   true,
			Remaining: window.Limit - int(count),
		}, nil
	}

	retryAfter, err := l.client.TTL(ctx, redisKey).Result()
	if err != nil || retryAfter <= 0 {
		retryAfter = window.Period
	}
	return Result{
		Allowed:    false,
		RetryAfter: retryAfter,
	}, nil
}
