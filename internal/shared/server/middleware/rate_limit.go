package middleware

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimitRule describes a token bucket: Rate tokens per second refill up to
// a Burst-sized bucket.
type RateLimitRule struct {
	Rate  float64
	Burst int
}

// RateLimiter tracks one bucket per caller.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*rateBucket
	now     func() time.Time
}

type rateBucket struct {
	remaining float64
	refilled  time.Time
}

// refill credits tokens accrued since the last call, capped at the burst.
func (b *rateBucket) refill(now time.Time, rule RateLimitRule) {
	elapsed := now.Sub(b.refilled).Seconds()
	if elapsed <= 0 {
		return
	}
	b.remaining = math.Min(float64(rule.Burst), b.remaining+elapsed*rule.Rate)
	b.refilled = now
}

// NewRateLimiter creates a limiter. now is overridable for tests; nil means
// time.Now.
func NewRateLimiter(now func() time.Time) *RateLimiter {
	if now == nil {
		now = time.Now
	}
	return &RateLimiter{
		buckets: make(map[string]*rateBucket),
		now:     now,
	}
}

// RateLimit throttles requests per client token, falling back to the client
// IP before the token cookie exists. A zero-valued rule disables the limit.
func RateLimit(rule RateLimitRule, limiter *RateLimiter) gin.HandlerFunc {
	if limiter == nil {
		limiter = NewRateLimiter(nil)
	}
	return func(c *gin.Context) {
		key := strings.TrimSpace(ClientTokenFromContext(c))
		if key == "" {
			key = strings.TrimSpace(c.ClientIP())
		}
		allowed, retryAfter := limiter.Allow(key, rule)
		if allowed {
			c.Next()
			return
		}
		retryAfterSeconds := int(math.Ceil(retryAfter.Seconds()))
		if retryAfterSeconds <= 0 {
			retryAfterSeconds = 1
		}
		c.Header("Retry-After", strconv.Itoa(retryAfterSeconds))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"success": false,
			"error":   "Too many requests. Slow down and retry.",
		})
	}
}

// Allow reports whether one request may pass for key under rule, and if not,
// how long until the next token accrues.
func (l *RateLimiter) Allow(key string, rule RateLimitRule) (bool, time.Duration) {
	if l == nil || rule.Rate <= 0 || rule.Burst <= 0 {
		return true, 0
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	b := l.buckets[key]
	if b == nil {
		b = &rateBucket{remaining: float64(rule.Burst), refilled: now}
		l.buckets[key] = b
	}
	b.refill(now, rule)

	if b.remaining >= 1 {
		b.remaining--
		return true, 0
	}
	wait := (1 - b.remaining) / rule.Rate
	return false, time.Duration(math.Ceil(wait*1000)) * time.Millisecond
}
