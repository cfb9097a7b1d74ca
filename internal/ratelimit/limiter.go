package ratelimit

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "ratelimit:"

// Result describes one admission decision.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter int
}

// Store counts hits per key inside a fixed window.
type Store interface {
	// Hit increments key and returns the new count and the time left in the
	// window. The window starts on the first hit.
	Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

// hitScript starts the window on the first hit so later hits never extend it.
var hitScript = redis.NewScript(`
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return {count, redis.call('PTTL', KEYS[1])}
`)

// RedisStore implements Store on a Redis counter per key.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Hit increments the counter for key atomically.
func (s *RedisStore) Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	values, err := hitScript.Run(ctx, s.client, []string{keyPrefix + key}, window.Milliseconds()).Int64Slice()
	if err != nil {
		return 0, 0, err
	}
	if len(values) != 2 {
		return 0, 0, fmt.Errorf("unexpected rate limit reply %v", values)
	}
	ttl := time.Duration(values[1]) * time.Millisecond
	if ttl < 0 {
		ttl = window
	}
	return values[0], ttl, nil
}

// Limiter admits at most max requests per key per window.
type Limiter struct {
	store  Store
	max    int
	window time.Duration
	now    func() time.Time
}

// NewLimiter builds a fixed-window limiter.
func NewLimiter(store Store, max int, window time.Duration) *Limiter {
	if max <= 0 {
		max = 100
	}
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &Limiter{store: store, max: max, window: window, now: time.Now}
}

// Check records a hit for key and reports whether it is within the limit.
func (l *Limiter) Check(ctx context.Context, key string) (Result, error) {
	count, ttl, err := l.store.Hit(ctx, key, l.window)
	if err != nil {
		return Result{}, err
	}
	remaining := l.max - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return Result{
		Allowed:    count <= int64(l.max),
		Limit:      l.max,
		Remaining:  remaining,
		ResetAt:    l.now().Add(ttl),
		RetryAfter: int(math.Ceil(ttl.Seconds())),
	}, nil
}
