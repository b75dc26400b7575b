package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/inkwell-blog/api/internal/config"
)

func TestResponseCache_NoRedisIsPassthrough(t *testing.T) {
	mw := ResponseCache(config.CacheConfig{Enabled: true, TTL: time.Minute, Prefix: "cache"}, nil)

	e := echo.New()
	calls := 0
	e.GET("/blogs", func(c echo.Context) error {
		calls++
		return c.JSON(http.StatusOK, echo.Map{"blogs": []string{}})
	}, mw)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/blogs", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
	assert.Equal(t, 2, calls)
}

func TestResponseCache_DisabledIsPassthrough(t *testing.T) {
	mw := ResponseCache(config.CacheConfig{Enabled: false}, nil)

	e := echo.New()
	e.GET("/blogs", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}, mw)

	req := httptest.NewRequest(http.MethodGet, "/blogs", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestCacheKey_VariesWithQuery(t *testing.T) {
	e := echo.New()

	key := func(target, route string) string {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		c := e.NewContext(req, httptest.NewRecorder())
		c.SetPath(route)
		return cacheKey("cache", c)
	}

	assert.NotEqual(t, key("/blogs?page=1", "/blogs"), key("/blogs?page=2", "/blogs"))
	assert.Equal(t, key("/blogs?page=1", "/blogs"), key("/blogs?page=1", "/blogs"))
}

func TestCacheKey_VariesWithRouteParam(t *testing.T) {
	e := echo.New()

	key := func(target string) string {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		c := e.NewContext(req, httptest.NewRecorder())
		// Both requests resolve to the same registered route pattern.
		c.SetPath("/blogs/:slug")
		return cacheKey("cache", c)
	}

	// Two different slugs must never share a cache entry.
	assert.NotEqual(t, key("/blogs/first-post-abc123"), key("/blogs/second-post-def456"))
	assert.Equal(t, key("/blogs/first-post-abc123"), key("/blogs/first-post-abc123"))
}
