package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/lab-lighting/internal/config"
)

// memCache answers Get/SetEx from a map the way Redis would.
type memCache struct {
	data map[string]string
	sets int
}

func (m *memCache) Get(_ context.Context, key string) *redis.StringCmd {
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *memCache) SetEx(_ context.Context, key string, value interface{}, _ time.Duration) *redis.StatusCmd {
	m.sets++
	m.data[key] = string(value.([]byte))
	return redis.NewStatusResult("OK", nil)
}

type fixedRev struct{ rev uint64 }

func (f *fixedRev) Revision() uint64 { return f.rev }

func newCachedApp(store *memCache, rev *fixedRev, calls *int, maxBody int) *echo.Echo {
	cfg := config.CacheConfig{Enabled: true, Methods: map[string]bool{"GET": true}, TTL: time.Minute, Prefix: "labcache", MaxBodyBytes: maxBody}
	e := echo.New()
	e.Use(newRedisCache(cfg, store, rev))
	e.GET("/v1/labs/:id", func(c echo.Context) error {
		*calls++
		return c.JSON(http.StatusOK, echo.Map{"id": c.Param("id"), "rev": rev.rev})
	})
	e.GET("/v1/missing", func(c echo.Context) error {
		*calls++
		return c.JSON(http.StatusNotFound, echo.Map{"error": "lab not found"})
	})
	return e
}

func get(e *echo.Echo, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestCacheServesHitAfterMiss(t *testing.T) {
	store := &memCache{data: map[string]string{}}
	rev := &fixedRev{rev: 1}
	calls := 0
	e := newCachedApp(store, rev, &calls, 0)

	first := get(e, "/v1/labs/1")
	if first.Header().Get("X-Cache") != "MISS" || calls != 1 || store.sets != 1 {
		t.Fatalf("first: x-cache=%q calls=%d sets=%d", first.Header().Get("X-Cache"), calls, store.sets)
	}
	second := get(e, "/v1/labs/1")
	if second.Header().Get("X-Cache") != "HIT" || calls != 1 {
		t.Fatalf("second: x-cache=%q calls=%d", second.Header().Get("X-Cache"), calls)
	}
	if second.Code != http.StatusOK || second.Body.String() != first.Body.String() {
		t.Fatalf("hit = %d %q, want %q", second.Code, second.Body, first.Body)
	}
	if !strings.HasPrefix(second.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		t.Fatalf("content type = %q", second.Header().Get(echo.HeaderContentType))
	}

	// another lab is another key
	get(e, "/v1/labs/2")
	if calls != 2 {
		t.Fatalf("calls = %d, want 2", calls)
	}
}

func TestCacheMissesAfterStateChange(t *testing.T) {
	store := &memCache{data: map[string]string{}}
	rev := &fixedRev{rev: 1}
	calls := 0
	e := newCachedApp(store, rev, &calls, 0)

	get(e, "/v1/labs/1")
	rev.rev = 2
	rec := get(e, "/v1/labs/1")
	if rec.Header().Get("X-Cache") != "MISS" || calls != 2 {
		t.Fatalf("x-cache=%q calls=%d", rec.Header().Get("X-Cache"), calls)
	}
	if !strings.Contains(rec.Body.String(), `"rev":2`) {
		t.Fatalf("stale body %s", rec.Body)
	}
}

func TestCacheSkipsErrorsAndLargeBodies(t *testing.T) {
	store := &memCache{data: map[string]string{}}
	calls := 0
	e := newCachedApp(store, &fixedRev{rev: 1}, &calls, 0)
	get(e, "/v1/missing")
	get(e, "/v1/missing")
	if calls != 2 || store.sets != 0 {
		t.Fatalf("404 cached: calls=%d sets=%d", calls, store.sets)
	}

	small := &memCache{data: map[string]string{}}
	calls = 0
	e = newCachedApp(small, &fixedRev{rev: 1}, &calls, 4)
	rec := get(e, "/v1/labs/1")
	if rec.Code != http.StatusOK || small.sets != 0 {
		t.Fatalf("oversized body cached: code=%d sets=%d", rec.Code, small.sets)
	}
}

func TestCacheKeyChangesWithRevision(t *testing.T) {
	e := echo.New()
	cfg := config.CacheConfig{Prefix: "labcache"}
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/v1/labs?x=1", nil), httptest.NewRecorder())
	c.SetPath("/v1/labs")

	k1 := cacheKeyFrom(cfg, c, 1)
	if k1 != cacheKeyFrom(cfg, c, 1) {
		t.Fatalf("key not stable")
	}
	if k1 == cacheKeyFrom(cfg, c, 2) {
		t.Fatalf("key must change with revision")
	}
	if !strings.HasPrefix(k1, "labcache:1:") {
		t.Fatalf("key %q", k1)
	}
}
