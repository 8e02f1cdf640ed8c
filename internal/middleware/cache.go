package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/lab-lighting/internal/config"
)

// Revisioner reports a counter that changes whenever the cached data does.
// *labstore.Store satisfies it.
type Revisioner interface {
	Revision() uint64
}

// responseCache is the part of *redis.Client the cache uses.
type responseCache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	SetEx(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

type cachedResponse struct {
	Status int         `json:"status"`
	Header http.Header `json:"header"`
	Body   []byte      `json:"body"`
}

// bodyRecorder tees the response body into buf until limit bytes; a
// longer body marks the response as not cacheable.
type bodyRecorder struct {
	http.ResponseWriter
	status   int
	buf      bytes.Buffer
	limit    int
	overflow bool
}

func (w *bodyRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	if !w.overflow {
		if w.limit > 0 && w.buf.Len()+len(b) > w.limit {
			w.overflow = true
			w.buf.Reset()
		} else {
			w.buf.Write(b)
		}
	}
	return w.ResponseWriter.Write(b)
}

// cacheKeyFrom hashes method, route, query and the state revision, so any
// state change makes older entries unreachable and they simply expire.
func cacheKeyFrom(cfg config.CacheConfig, c echo.Context, rev uint64) string {
	r := c.Request()
	sum := sha1.Sum([]byte(strings.Join([]string{r.Method, c.Path(), r.URL.RawQuery}, "\n")))
	return cfg.Prefix + ":" + strconv.FormatUint(rev, 10) + ":" + hex.EncodeToString(sum[:])
}

// NewRedisCache serves repeated reads of unchanged lab state from Redis.
// Only 200 responses of the configured methods are stored.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client, src Revisioner) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil || src == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return newRedisCache(cfg, rdb, src)
}

func newRedisCache(cfg config.CacheConfig, rdb responseCache, src Revisioner) echo.MiddlewareFunc {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !cfg.Methods[c.Request().Method] {
				return next(c)
			}
			key := cacheKeyFrom(cfg, c, src.Revision())
			if bs, err := rdb.Get(c.Request().Context(), key).Bytes(); err == nil {
				var cached cachedResponse
				if json.Unmarshal(bs, &cached) == nil {
					h := c.Response().Header()
					for k, vals := range cached.Header {
						if k != echo.HeaderContentLength {
							h[k] = vals
						}
					}
					h.Set("X-Cache", "HIT")
					return c.Blob(cached.Status, h.Get(echo.HeaderContentType), cached.Body)
				}
			}

			rec := &bodyRecorder{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: cfg.MaxBodyBytes}
			c.Response().Writer = rec
			c.Response().Header().Set("X-Cache", "MISS")
			if err := next(c); err != nil {
				return err
			}
			if rec.status != http.StatusOK || rec.overflow {
				return nil
			}
			header := c.Response().Header().Clone()
			header.Del("X-Cache")
			payload, err := json.Marshal(cachedResponse{Status: rec.status, Header: header, Body: rec.buf.Bytes()})
			if err == nil {
				// request context may already be done once the body is sent
				_ = rdb.SetEx(context.Background(), key, payload, ttl).Err()
			}
			return nil
		}
	}
}
