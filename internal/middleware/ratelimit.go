package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/lab-lighting/internal/config"
)

// tokenBucket refills continuously at rate tokens per millisecond and
// returns {allowed, tokens left, wait in ms}.
var tokenBucket = redis.NewScript(`
local now = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local rate = tonumber(ARGV[3])
local ttl_ms = tonumber(ARGV[4])

local b = redis.call('HMGET', KEYS[1], 'tokens', 'ts')
local tokens = tonumber(b[1]) or capacity
local ts = tonumber(b[2]) or now
tokens = math.min(capacity, tokens + math.max(0, now - ts) * rate)

local allowed, wait = 0, 0
if tokens >= 1 then
	allowed = 1
	tokens = tokens - 1
else
	wait = math.ceil((1 - tokens) / rate)
end

redis.call('HSET', KEYS[1], 'tokens', tokens, 'ts', now)
redis.call('PEXPIRE', KEYS[1], ttl_ms)
return {allowed, math.floor(tokens), wait}
`)

// NewTokenBucket rate limits requests with token buckets kept in Redis.
// Light control requests draw from a bucket per lab and user, everything
// else from a bucket per user.  Without Redis it is a no-op, and a Redis
// error lets the request through.  It must run after JWTAuth.
func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return newTokenBucket(cfg, rdb)
}

func newTokenBucket(cfg config.RateLimitConfig, rdb redis.Scripter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key, capacity, refill := rateBucket(cfg, c)
			rate := float64(refill) / float64(cfg.RefillInterval.Milliseconds())
			res, err := tokenBucket.Run(c.Request().Context(), rdb, []string{key},
				time.Now().UnixMilli(),
				capacity,
				strconv.FormatFloat(rate, 'f', -1, 64),
				cfg.TTL.Milliseconds(),
			).Int64Slice()
			if err != nil || len(res) != 3 {
				if cfg.Debug {
					c.Logger().Warnf("[ratelimit] key=%s: %v %v", key, res, err)
				}
				return next(c)
			}

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(capacity))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(res[1], 10))
			if cfg.Debug {
				h.Set("X-RateLimit-Key", key)
			}
			if res[0] != 1 {
				secs := (res[2] + 999) / 1000
				h.Set("Retry-After", strconv.FormatInt(secs, 10))
				return c.JSON(http.StatusTooManyRequests, echo.Map{
					"error":       "rate limit exceeded",
					"retry_after": secs,
				})
			}
			return next(c)
		}
	}
}

// rateBucket picks the bucket for the request: light control routes get
// "<prefix>:lab:<id>:<user>" with the control limits, the rest
// "<prefix>:user:<user>".  Unauthenticated callers are keyed by IP.
func rateBucket(cfg config.RateLimitConfig, c echo.Context) (key string, capacity, refill int) {
	who := userID(c)
	if who == "anon" {
		who = "ip:" + c.RealIP()
	}
	if isLightControl(c) {
		return cfg.Prefix + ":lab:" + c.Param("id") + ":" + who, cfg.ControlCapacity, cfg.ControlRefillTokens
	}
	return cfg.Prefix + ":user:" + who, cfg.Capacity, cfg.RefillTokens
}

// isLightControl matches the mutating routes below /labs/:id/lights and
// preset application.
func isLightControl(c echo.Context) bool {
	if c.Request().Method == http.MethodGet {
		return false
	}
	route := c.Path()
	return strings.Contains(route, "/labs/:id/lights") || strings.HasSuffix(route, "/practices/:practice_id/apply")
}
