package ratelimit

import (
	"context"
	"math"
	"sync"
	"time"
)

// bucket tracks the refill state for one (operation, subject) pair.
type bucket struct {
	tokens float64
	last   time.Time
}

// TokenBucketLimiter is an in-process token bucket limiter. Buckets are
// created lazily per key and refilled continuously based on elapsed time.
type TokenBucketLimiter struct {
	config  Config
	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time
}

var _ Limiter = (*TokenBucketLimiter)(nil)

// NewTokenBucketLimiter creates a new in-process limiter.
func NewTokenBucketLimiter(opts ...Option) *TokenBucketLimiter {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	return &TokenBucketLimiter{
		config:  config,
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
}

// Allow consumes one token from the bucket for (operation, subject).
// When the bucket is empty it reports the wait until the next token.
func (l *TokenBucketLimiter) Allow(_ context.Context, operation, subject string) (*Result, error) {
	limit := l.config.limitFor(operation)
	rate := float64(limit.Capacity) / float64(limit.Window) // tokens per ns

	key := operation + ":" + subject
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{tokens: float64(limit.Capacity), last: now}
		l.buckets[key] = b
	} else {
		elapsed := now.Sub(b.last)
		if elapsed > 0 {
			b.tokens = math.Min(float64(limit.Capacity), b.tokens+float64(elapsed)*rate)
		}
		b.last = now
	}

	if b.tokens >= 1 {
		b.tokens--
		return &Result{
			Allowed:   true,
			Remaining: int(b.tokens),
		}, nil
	}

	retryAfter := time.Duration(math.Ceil((1 - b.tokens) / rate))
	return &Result{
		Allowed:    false,
		Remaining:  0,
		RetryAfter: retryAfter,
	}, nil
}

// Close releases limiter resources. The in-process limiter holds none.
func (l *TokenBucketLimiter) Close() error {
	return nil
}
