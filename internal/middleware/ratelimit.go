package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// RateLimiter limits requests per client IP. With a Redis client it keeps a
// fixed-window counter shared by every instance; without one it falls back to
// an in-process token bucket per IP.
type RateLimiter struct {
	rdb       *redis.Client
	maxReqs   int
	windowSec int

	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a rate limiter. rdb may be nil.
func NewRateLimiter(rdb *redis.Client, maxReqs, windowSec int) *RateLimiter {
	return &RateLimiter{
		rdb:       rdb,
		maxReqs:   maxReqs,
		windowSec: windowSec,
		buckets:   map[string]*bucket{},
		now:       time.Now,
	}
}

// Handler returns a Fiber middleware handler for rate limiting.
func (rl *RateLimiter) Handler() fiber.Handler {
	return func(c fiber.Ctx) error {
		ip := c.IP()
		c.Set("X-RateLimit-Limit", strconv.Itoa(rl.maxReqs))

		var allowed bool
		var retryAfter int
		if rl.rdb != nil {
			var ok bool
			allowed, retryAfter, ok = rl.allowRedis(c, ip)
			if !ok {
				// Redis failed: fall back to the local bucket.
				allowed, retryAfter = rl.allowLocal(ip)
			}
		} else {
			allowed, retryAfter = rl.allowLocal(ip)
		}

		if !allowed {
			c.Set("Retry-After", strconv.Itoa(retryAfter))
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":       "rate limit exceeded",
				"retry_after": retryAfter,
			})
		}
		return c.Next()
	}
}

func (rl *RateLimiter) allowRedis(c fiber.Ctx, ip string) (allowed bool, retryAfter int, ok bool) {
	key := fmt.Sprintf("ratelimit:%s", ip)
	ctx, cancel := context.WithTimeout(c.Context(), 500*time.Millisecond)
	defer cancel()

	count, err := rl.rdb.Incr(ctx, key).Result()
	if err != nil {
		slog.Warn("rate limiter redis unavailable", "error", err)
		return false, 0, false
	}

	ttl, err := rl.rdb.TTL(ctx, key).Result()
	if err != nil {
		slog.Warn("rate limiter ttl lookup failed", "key", key, "error", err)
		return false, 0, false
	}

	// A counter without expiry never resets. A count above one means an
	// earlier EXPIRE was lost, so that window is stale and starts over.
	if ttl < 0 {
		window := time.Duration(rl.windowSec) * time.Second
		if count > 1 {
			if err := rl.rdb.Set(ctx, key, 1, window).Err(); err != nil {
				slog.Warn("rate limiter window reset failed", "key", key, "error", err)
				return false, 0, false
			}
			count = 1
		} else if set, err := rl.rdb.Expire(ctx, key, window).Result(); err != nil || !set {
			slog.Warn("rate limiter expire failed", "key", key, "error", err)
			return false, 0, false
		}
		ttl = window
	}
	reset := max(1, int(ttl.Round(time.Second).Seconds()))

	c.Set("X-RateLimit-Remaining", strconv.FormatInt(max(0, int64(rl.maxReqs)-count), 10))
	c.Set("X-RateLimit-Reset", strconv.Itoa(reset))

	return int(count) <= rl.maxReqs, reset, true
}

func (rl *RateLimiter) allowLocal(ip string) (bool, int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	b, ok := rl.buckets[ip]
	if !ok {
		every := time.Duration(rl.windowSec) * time.Second / time.Duration(max(1, rl.maxReqs))
		b = &bucket{limiter: rate.NewLimiter(rate.Every(every), rl.maxReqs), lastSeen: now}
		rl.buckets[ip] = b
		rl.prune(now)
	}
	b.lastSeen = now

	if b.limiter.AllowN(now, 1) {
		return true, 0
	}
	r := b.limiter.ReserveN(now, 1)
	wait := r.DelayFrom(now)
	r.CancelAt(now)
	return false, max(1, int(wait.Round(time.Second).Seconds()))
}

// prune drops buckets idle for more than two windows. Caller holds mu.
func (rl *RateLimiter) prune(now time.Time) {
	if len(rl.buckets) < 1024 {
		return
	}
	idle := 2 * time.Duration(rl.windowSec) * time.Second
	for ip, b := range rl.buckets {
		if now.Sub(b.lastSeen) > idle {
			delete(rl.buckets, ip)
		}
	}
}
