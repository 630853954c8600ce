package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// LocalLimiter is the single-process fallback used when Redis is not
// configured. Counters live in an in-memory cache keyed by window start;
// a mutex stands in for the store-level atomicity Redis provides.
type LocalLimiter struct {
	mu    sync.Mutex
	cache *gocache.Cache
}

var _ Limiter = &LocalLimiter{}

func NewLocalLimiter() *LocalLimiter {
	return &LocalLimiter{
		cache: gocache.New(5*time.Minute, 10*time.Minute),
	}
}

func (l *LocalLimiter) Allow(_ context.Context, key string, window Window) (Result, error) {
	now := time.Now()
	windowStart := now.Unix() / int64(window.Period.Seconds())
	cacheKey := fmt.Sprintf("%s:%d", key, windowStart)

	l.mu.Lock()
	defer l.mu.Unlock()

	count := 1
	if existing, expiry, ok := l.cache.GetWithExpiration(cacheKey); ok {
		count = existing.(int) + 1
		l.cache.Set(cacheKey, count, time.Until(expiry))
	} else {
		l.cache.Set(cacheKey, count, window.Period)
	}

	if count <= window.Limit {
		return Result{
			Allowed:   true,
			Remaining: window.Limit - count,
		}, nil
	}

	_, expiry, ok := l.cache.GetWithExpiration(cacheKey)
	retryAfter := window.Period
	if ok && expiry.After(now) {
		retryAfter = expiry.Sub(now)
	}
	return Result{
		Allowed:    false,
		RetryAfter: retryAfter,
	}, nil
}
