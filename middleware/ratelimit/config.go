// Package ratelimit provides token-bucket rate limiting keyed by
// (operation, subject), with an in-process implementation and a
// Redis-backed one for multi-instance deployments.
package ratelimit

import (
	"context"
	"time"
)

// Limit defines a token bucket: a burst of up to Capacity requests,
// refilled continuously at Capacity per Window.
type Limit struct {
	Capacity int
	Window   time.Duration
}

// Result represents the outcome of a rate limit check.
type Result struct {
	// Allowed indicates whether the request may proceed.
	Allowed bool
	// Remaining is the number of whole tokens left in the bucket.
	Remaining int
	// RetryAfter is the wait until the next token (only set when denied).
	RetryAfter time.Duration
}

// Limiter is the interface for rate limiting implementations. The bucket
// key is operation plus subject, so each user gets an independent bucket
// per operation.
type Limiter interface {
	Allow(ctx context.Context, operation, subject string) (*Result, error)
	Close() error
}

// Config holds limiter configuration.
type Config struct {
	// DefaultLimit applies to operations without a specific limit.
	DefaultLimit Limit

	// OperationLimits maps operation names to their specific limits.
	OperationLimits map[string]Limit

	// KeyPrefix is the prefix for Redis keys (default: "ratelimit:").
	KeyPrefix string
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		DefaultLimit:    Limit{Capacity: 60, Window: time.Minute},
		OperationLimits: make(map[string]Limit),
		KeyPrefix:       "ratelimit:",
	}
}

// Option is a function that modifies Config.
type Option func(*Config)

// WithDefaultLimit sets the default token bucket parameters.
func WithDefaultLimit(capacity int, window time.Duration) Option {
	return func(c *Config) {
		c.DefaultLimit = Limit{Capacity: capacity, Window: window}
	}
}

// WithOperationLimit sets a specific bucket for one operation.
func WithOperationLimit(operation string, capacity int, window time.Duration) Option {
	return func(c *Config) {
		c.OperationLimits[operation] = Limit{Capacity: capacity, Window: window}
	}
}

// WithKeyPrefix sets the Redis key prefix.
func WithKeyPrefix(prefix string) Option {
	return func(c *Config) {
		c.KeyPrefix = prefix
	}
}

// limitFor returns the bucket parameters for an operation.
func (c Config) limitFor(operation string) Limit {
	if l, ok := c.OperationLimits[operation]; ok {
		return l
	}
	return c.DefaultLimit
}
