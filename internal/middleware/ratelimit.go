package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/iliyamo/trip-planner/internal/config"
)

// RateLimit returns a fixed-window request limiter backed by Redis, keyed by
// client IP and route.  It exists to slow down credential stuffing on the
// auth endpoints.  With rate limiting disabled or no Redis client available
// the middleware is a pass-through, and a Redis error at request time fails
// open so an outage never locks users out.
func RateLimit(cfg config.RateLimitConfig, rdb *redis.Client, log zerolog.Logger) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()
			if ip == "" {
				ip = "unknown"
			}
			key := cfg.Prefix + ":" + ip + ":" + c.Request().Method + " " + c.Path()
			ctx := c.Request().Context()

			n, err := rdb.Incr(ctx, key).Result()
			if err != nil {
				log.Warn().Err(err).Str("key", key).Msg("rate limiter unavailable")
				return next(c)
			}
			if n == 1 {
				_ = rdb.Expire(ctx, key, cfg.Window).Err()
			}

			remaining := int64(cfg.Limit) - n
			if remaining < 0 {
				remaining = 0
			}
			c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.Limit))
			c.Response().Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

			if n > int64(cfg.Limit) {
				retry := cfg.Window
				if ttl, err := rdb.TTL(ctx, key).Result(); err == nil && ttl > 0 {
					retry = ttl
				}
				secs := int(retry / time.Second)
				if secs < 1 {
					secs = 1
				}
				c.Response().Header().Set("Retry-After", strconv.Itoa(secs))
				return c.JSON(http.StatusTooManyRequests, echo.Map{
					"success": false,
					"message": "Too many requests, please retry later",
				})
			}
			return next(c)
		}
	}
}
