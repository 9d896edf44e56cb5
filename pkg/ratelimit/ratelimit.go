// Package ratelimit limits requests per key, typically a client address.
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"activation-service.backend/pkg/redis"
)

// Limiter decides whether one more request for key may proceed
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// TokenBucket keeps one token bucket per key in process memory. Refill rate is
// max/window with a burst of max, so a fresh key may spend max requests at once.
type TokenBucket struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	limit   rate.Limit
	burst   int
	idleTTL time.Duration
	now     func() time.Time
	sweeps  int
}

// NewTokenBucket creates a limiter allowing max requests per window per key
func NewTokenBucket(max int, window time.Duration) *TokenBucket {
	if max <= 0 {
		max = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &TokenBucket{
		buckets: make(map[string]*bucket),
		limit:   rate.Limit(float64(max) / window.Seconds()),
		burst:   max,
		idleTTL: 2 * window,
		now:     time.Now,
	}
}

func (tb *TokenBucket) Allow(_ context.Context, key string) (bool, error) {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := tb.now()
	b, ok := tb.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(tb.limit, tb.burst)}
		tb.buckets[key] = b
	}
	b.lastSeen = now

	tb.sweeps++
	if tb.sweeps >= 1024 {
		tb.sweeps = 0
		tb.sweepLocked(now)
	}

	return b.limiter.AllowN(now, 1), nil
}

func (tb *TokenBucket) sweepLocked(now time.Time) {
	for key, b := range tb.buckets {
		if now.Sub(b.lastSeen) > tb.idleTTL {
			delete(tb.buckets, key)
		}
	}
}

// RetryAfter is the time one token takes to refill
func (tb *TokenBucket) RetryAfter(context.Context, string) time.Duration {
	return time.Duration(float64(time.Second) / float64(tb.limit))
}

var (
	incrWindow = redis.IncrWindow
	keyTTL     = redis.TTL
)

// RedisWindow is a fixed-window counter shared by every instance using the
// same redis. The window starts at a key's first request.
type RedisWindow struct {
	prefix string
	max    int64
	window time.Duration
}

// NewRedisWindow creates a redis backed limiter. Keys are stored as prefix:key.
func NewRedisWindow(prefix string, max int, window time.Duration) *RedisWindow {
	if prefix == "" {
		prefix = "rate_limit"
	}
	return &RedisWindow{prefix: prefix, max: int64(max), window: window}
}

// Allow returns true together with the error when redis fails, so callers
// that ignore the error fail open.
func (rw *RedisWindow) Allow(ctx context.Context, key string) (bool, error) {
	count, err := incrWindow(ctx, rw.key(key), rw.window)
	if err != nil {
		return true, err
	}
	return count <= rw.max, nil
}

// RetryAfter returns how long until key's window resets. It falls back to a
// full window when redis cannot say.
func (rw *RedisWindow) RetryAfter(ctx context.Context, key string) time.Duration {
	ttl, err := keyTTL(ctx, rw.key(key))
	if err != nil || ttl <= 0 {
		return rw.window
	}
	return ttl
}

func (rw *RedisWindow) key(key string) string {
	return fmt.Sprintf("%s:%s", rw.prefix, key)
}
