package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/trip-planner/internal/config"
)

func limiterEnv(t *testing.T, cfg config.RateLimitConfig) (echo.HandlerFunc, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	next := func(c echo.Context) error { return c.String(http.StatusOK, "ok") }
	return RateLimit(cfg, rdb, zerolog.Nop())(next), mr
}

func hit(t *testing.T, h echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	rec := httptest.NewRecorder()
	require.NoError(t, h(e.NewContext(req, rec)))
	return rec
}

func TestRateLimitBlocksOverLimit(t *testing.T) {
	t.Parallel()

	cfg := config.RateLimitConfig{Enabled: true, Limit: 2, Window: time.Minute, Prefix: "rl"}
	h, _ := limiterEnv(t, cfg)

	assert.Equal(t, http.StatusOK, hit(t, h).Code)
	assert.Equal(t, http.StatusOK, hit(t, h).Code)

	rec := hit(t, h)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
}

func TestRateLimitWindowResets(t *testing.T) {
	t.Parallel()

	cfg := config.RateLimitConfig{Enabled: true, Limit: 1, Window: time.Minute, Prefix: "rl"}
	h, mr := limiterEnv(t, cfg)

	assert.Equal(t, http.StatusOK, hit(t, h).Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(t, h).Code)

	mr.FastForward(2 * time.Minute)
	assert.Equal(t, http.StatusOK, hit(t, h).Code)
}

func TestRateLimitDisabled(t *testing.T) {
	t.Parallel()

	cfg := config.RateLimitConfig{Enabled: false, Limit: 1, Window: time.Minute, Prefix: "rl"}
	h, _ := limiterEnv(t, cfg)
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, hit(t, h).Code)
	}
}

func TestRateLimitNilClientPassesThrough(t *testing.T) {
	t.Parallel()

	cfg := config.RateLimitConfig{Enabled: true, Limit: 1, Window: time.Minute, Prefix: "rl"}
	next := func(c echo.Context) error { return c.String(http.StatusOK, "ok") }
	h := RateLimit(cfg, nil, zerolog.Nop())(next)
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, hit(t, h).Code)
	}
}
