package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter implements the token bucket on Redis so that buckets are
// shared across application instances. Bucket state (token count, last
// refill timestamp) lives in a hash and is updated atomically by a Lua
// script.
type RedisLimiter struct {
	client *redis.Client
	config Config
}

var _ Limiter = (*RedisLimiter)(nil)

// NewRedisLimiter creates a Redis-backed limiter using the given client.
func NewRedisLimiter(client *redis.Client, opts ...Option) *RedisLimiter {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	return &RedisLimiter{
		client: client,
		config: config,
	}
}

// tokenBucketScript refills the bucket from elapsed time, consumes one
// token when available, and returns {allowed, remaining, retry_after_ms}.
var tokenBucketScript = redis.NewScript(`
	local key = KEYS[1]
	local now_ms = tonumber(ARGV[1])
	local capacity = tonumber(ARGV[2])
	local window_ms = tonumber(ARGV[3])
	local rate = capacity / window_ms

	local state = redis.call('HMGET', key, 'tokens', 'ts')
	local tokens = tonumber(state[1])
	local ts = tonumber(state[2])
	if tokens == nil or ts == nil then
		tokens = capacity
		ts = now_ms
	end

	local elapsed = now_ms - ts
	if elapsed > 0 then
		tokens = math.min(capacity, tokens + elapsed * rate)
	end

	local allowed = 0
	local retry_ms = 0
	if tokens >= 1 then
		tokens = tokens - 1
		allowed = 1
	else
		retry_ms = math.ceil((1 - tokens) / rate)
	end

	redis.call('HSET', key, 'tokens', tokens, 'ts', now_ms)
	redis.call('PEXPIRE', key, window_ms * 2)

	return {allowed, math.floor(tokens), retry_ms}
`)

// Allow consumes one token from the shared bucket for (operation, subject).
func (l *RedisLimiter) Allow(ctx context.Context, operation, subject string) (*Result, error) {
	limit := l.config.limitFor(operation)
	key := l.config.KeyPrefix + operation + ":" + subject

	result, err := tokenBucketScript.Run(ctx, l.client, []string{key},
		time.Now().UnixMilli(),
		limit.Capacity,
		limit.Window.Milliseconds(),
	).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("failed to run token bucket script: %w", err)
	}
	if len(result) != 3 {
		return nil, fmt.Errorf("unexpected token bucket response length: %d", len(result))
	}

	res := &Result{
		Allowed:   result[0] == 1,
		Remaining: int(result[1]),
	}
	if !res.Allowed {
		res.RetryAfter = time.Duration(result[2]) * time.Millisecond
	}
	return res, nil
}

// Close closes the underlying Redis client.
func (l *RedisLimiter) Close() error {
	return l.client.Close()
}

// NewRedisClient builds a Redis client with the connection settings used
// across the application.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})
}
