package ratelimit

import (
	"context"
	"time"
)

// Window is one rate-limit policy: at most Limit requests per Period.
type Window struct {
	Limit  int
	Period time.Duration
}

type Result struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// Limiter counts requests per client key inside a rolling window. Counter
// increments must be atomic in the backing store, because concurrent
// requests for one key race.
type Limiter interface {
	Allow(ctx context.Context, key string, window Window) (Result, error)
}
