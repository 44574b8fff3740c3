package ratelimit

import (
	"context"
	"time"
)

// RateLimiter answers whether one more event under the key fits inside
// the sliding window. Keys are caller-scoped, e.g. "magic_email:x@y.org".
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}
