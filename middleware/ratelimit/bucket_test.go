package ratelimit

import (
	"context"
	"testing"
	"time"
)

// fakeClock lets tests advance bucket time deterministically.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newTestLimiter(opts ...Option) (*TokenBucketLimiter, *fakeClock) {
	limiter := NewTokenBucketLimiter(opts...)
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	limiter.now = clock.Now
	return limiter, clock
}

func TestTokenBucketAllowsBurst(t *testing.T) {
	limiter, _ := newTestLimiter(WithOperationLimit("thread.create", 5, time.Minute))
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		res, err := limiter.Allow(ctx, "thread.create", "user-1")
		if err != nil {
			t.Fatalf("Allow returned error: %v", err)
		}
		if !res.Allowed {
			t.Fatalf("call %d should be allowed", i+1)
		}
	}

	res, err := limiter.Allow(ctx, "thread.create", "user-1")
	if err != nil {
		t.Fatalf("Allow returned error: %v", err)
	}
	if res.Allowed {
		t.Error("6th call within the window should be denied")
	}
	if res.RetryAfter <= 0 {
		t.Errorf("denied result should carry a positive RetryAfter, got %v", res.RetryAfter)
	}
}

func TestTokenBucketRefill(t *testing.T) {
	limiter, clock := newTestLimiter(WithOperationLimit("thread.create", 5, time.Minute))
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if res, _ := limiter.Allow(ctx, "thread.create", "user-1"); !res.Allowed {
			t.Fatalf("call %d should be allowed", i+1)
		}
	}
	if res, _ := limiter.Allow(ctx, "thread.create", "user-1"); res.Allowed {
		t.Fatal("bucket should be empty")
	}

	// 5 per minute refills one token every 12 seconds
	clock.Advance(12 * time.Second)
	res, err := limiter.Allow(ctx, "thread.create", "user-1")
	if err != nil {
		t.Fatalf("Allow returned error: %v", err)
	}
	if !res.Allowed {
		t.Error("call after refill interval should be allowed")
	}
}

func TestTokenBucketNeverExceedsCapacity(t *testing.T) {
	limiter, clock := newTestLimiter(WithOperationLimit("op", 3, time.Minute))
	ctx := context.Background()

	if res, _ := limiter.Allow(ctx, "op", "user-1"); !res.Allowed {
		t.Fatal("first call should be allowed")
	}

	// A long idle period must not accumulate more than capacity.
	clock.Advance(time.Hour)
	for i := 0; i < 3; i++ {
		if res, _ := limiter.Allow(ctx, "op", "user-1"); !res.Allowed {
			t.Fatalf("call %d after idle should be allowed", i+1)
		}
	}
	if res, _ := limiter.Allow(ctx, "op", "user-1"); res.Allowed {
		t.Error("bucket should be capped at capacity")
	}
}

func TestTokenBucketKeysAreIndependent(t *testing.T) {
	limiter, _ := newTestLimiter(WithOperationLimit("op", 1, time.Minute))
	ctx := context.Background()

	if res, _ := limiter.Allow(ctx, "op", "user-1"); !res.Allowed {
		t.Fatal("user-1 first call should be allowed")
	}
	if res, _ := limiter.Allow(ctx, "op", "user-1"); res.Allowed {
		t.Fatal("user-1 second call should be denied")
	}

	// Another user has an independent bucket.
	if res, _ := limiter.Allow(ctx, "op", "user-2"); !res.Allowed {
		t.Error("user-2 should not be affected by user-1's bucket")
	}
	// Another operation for the same user too.
	if res, _ := limiter.Allow(ctx, "other", "user-1"); !res.Allowed {
		t.Error("other operations should use separate buckets")
	}
}

func TestTokenBucketDefaultLimit(t *testing.T) {
	limiter, _ := newTestLimiter(WithDefaultLimit(2, time.Minute))
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if res, _ := limiter.Allow(ctx, "unconfigured", "user-1"); !res.Allowed {
			t.Fatalf("call %d should use the default limit", i+1)
		}
	}
	if res, _ := limiter.Allow(ctx, "unconfigured", "user-1"); res.Allowed {
		t.Error("default limit should apply to unconfigured operations")
	}
}

func TestConfigLimitFor(t *testing.T) {
	config := DefaultConfig()
	config.OperationLimits["special"] = Limit{Capacity: 7, Window: time.Hour}

	if got := config.limitFor("special"); got.Capacity != 7 {
		t.Errorf("limitFor(special) capacity = %d, want 7", got.Capacity)
	}
	if got := config.limitFor("other"); got != config.DefaultLimit {
		t.Errorf("limitFor(other) = %+v, want default", got)
	}
}
