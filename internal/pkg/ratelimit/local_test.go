package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalLimiter_AllowsWithinLimit(t *testing.T) {
	limiter := NewLocalLimiter()
	window := Window{Limit: 3, Period: time.Minute}

	for i := 0; i < 3; i++ {
		result, err := limiter.Allow(context.Background(), "client-a", window)
		require.NoError(t, err)
		assert.True(t, result.Allowed, "request %d", i+1)
		assert.Equal(t, 3-(i+1), result.Remaining)
	}
}

func TestLocalLimiter_DeniesBeyondLimit(t *testing.T) {
	limiter := NewLocalLimiter()
	window := Window{Limit: 2, Period: time.Minute}

	for i := 0; i < 2; i++ {
		_, err := limiter.Allow(context.Background(), "client-b", window)
		require.NoError(t, err)
	}

	result, err := limiter.Allow(context.Background(), "client-b", window)
	require.NoError(t, err)
	assert.False(t, result.Allowed)
	assert.Greater(t, result.RetryAfter, time.Duration(0))
	assert.LessOrEqual(t, result.RetryAfter, time.Minute)
}

func TestLocalLimiter_KeysAreIndependent(t *testing.T) {
	limiter := NewLocalLimiter()
	window := Window{Limit: 1, Period: time.Minute}

	first, err := limiter.Allow(context.Background(), "client-c", window)
	require.NoError(t, err)
	assert.True(t, first.Allowed)

	other, err := limiter.Allow(context.Background(), "client-d", window)
	require.NoError(t, err)
	assert.True(t, other.Allowed)

	denied, err := limiter.Allow(context.Background(), "client-c", window)
	require.NoError(t, err)
	assert.False(t, denied.Allowed)
}

func TestLocalLimiter_ConcurrentCounting(t *testing.T) {
	limiter := NewLocalLimiter()
	window := Window{Limit: 50, Period: time.Hour}

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := limiter.Allow(context.Background(), "client-e", window)
			assert.NoError(t, err)
			if result.Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, allowed)
}
