package middleware

import (
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/placefinder/placefinder/internal/apperr"
)

const loginRateKeyPrefix = "rl:login:"

// LoginRateLimit limits login attempts per username, or per IP when the body
// names none. Redis holds the counters when available; otherwise each
// process keeps token buckets of its own.
func LoginRateLimit(cache *redis.Client, maxPerMin int) fiber.Handler {
	if maxPerMin <= 0 {
		maxPerMin = 5
	}
	local := newLocalLimiter(maxPerMin)
	return func(c *fiber.Ctx) error {
		subject := loginSubject(c)
		if cache == nil {
			if !local.allow(subject) {
				return tooManyAttempts()
			}
			return c.Next()
		}
		key := loginRateKeyPrefix + subject
		cnt, err := cache.Incr(c.UserContext(), key).Result()
		if err != nil {
			return c.Next() // fail-open on cache errors
		}
		if cnt == 1 {
			cache.Expire(c.UserContext(), key, time.Minute)
		}
		if cnt > int64(maxPerMin) {
			return tooManyAttempts()
		}
		return c.Next()
	}
}

func loginSubject(c *fiber.Ctx) string {
	var req struct {
		Username string `json:"username"`
	}
	_ = json.Unmarshal(c.Body(), &req)
	if name := strings.TrimSpace(req.Username); name != "" {
		return "user:" + name
	}
	return "ip:" + c.IP()
}

func tooManyAttempts() error {
	return apperr.New(apperr.CodeRateLimited, "Too many login attempts, try again later.")
}

type localLimiter struct {
	mu       sync.Mutex
	perMin   int
	buckets  map[string]*localBucket
	lastScan time.Time
}

type localBucket struct {
	lim  *rate.Limiter
	seen time.Time
}

func newLocalLimiter(perMin int) *localLimiter {
	return &localLimiter{perMin: perMin, buckets: make(map[string]*localBucket), lastScan: time.Now()}
}

func (l *localLimiter) allow(subject string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if now.Sub(l.lastScan) > time.Minute {
		for k, b := range l.buckets {
			if now.Sub(b.seen) > 5*time.Minute {
				delete(l.buckets, k)
			}
		}
		l.lastScan = now
	}

	b, ok := l.buckets[subject]
	if !ok {
		b = &localBucket{lim: rate.NewLimiter(rate.Every(time.Minute/time.Duration(l.perMin)), l.perMin)}
		l.buckets[subject] = b
	}
	b.seen = now
	return b.lim.Allow()
}
