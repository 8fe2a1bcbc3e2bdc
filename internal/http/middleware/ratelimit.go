package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/slotdesk/slotdesk/pkg/logging"
)

// RedisRateLimiter is a fixed-window per-client rate limiter backed by
// Redis, so the limit holds across multiple API instances. It fails open:
// if Redis is unreachable the request goes through.
type RedisRateLimiter struct {
	rdb    *redis.Client
	limit  int
	window time.Duration
	prefix string
	logger *logging.Logger
}

var fixedWindowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

func NewRedisRateLimiter(rdb *redis.Client, limit int, window time.Duration, logger *logging.Logger) *RedisRateLimiter {
	if limit <= 0 {
		limit = 60
	}
	if window <= 0 {
		window = time.Minute
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &RedisRateLimiter{rdb: rdb, limit: limit, window: window, prefix: "rl:create", logger: logger}
}

// Middleware rejects requests over the limit with 429 Too Many Requests.
func (rl *RedisRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := rl.prefix + ":" + clientIP(r)
		count, err := rl.incr(r.Context(), key)
		if err != nil {
			rl.logger.Warn("rate limiter unavailable", "error", err)
			next.ServeHTTP(w, r)
			return
		}
		if count > int64(rl.limit) {
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (rl *RedisRateLimiter) incr(ctx context.Context, key string) (int64, error) {
	res, err := fixedWindowScript.Run(ctx, rl.rdb, []string{key}, rl.window.Milliseconds()).Result()
	if err != nil {
		return 0, err
	}
	switch v := res.(type) {
	case int64:
		return v, nil
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, err
		}
		return n, nil
	default:
		return 0, fmt.Errorf("unexpected redis script result type %T", res)
	}
}

func clientIP(r *http.Request) string {
	// Prefer X-Real-Ip set by chi's RealIP middleware.
	if xri := strings.TrimSpace(r.Header.Get("X-Real-Ip")); xri != "" {
		return xri
	}
	host := r.RemoteAddr
	if i := strings.LastIndex(host, ":"); i > 0 {
		host = host[:i]
	}
	return host
}
