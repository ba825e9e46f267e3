package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// RequestLogger logs one line per request with method, path, status and
// latency.  Expected 4xx outcomes (validation, bad credentials) stay at
// info level; only 5xx responses are logged as errors.
func RequestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			ev := log.Info()
			if status >= 500 {
				ev = log.Error()
			}
			ev.Str("method", c.Request().Method).
				Str("path", c.Request().URL.Path).
				Int("status", status).
				Str("remote", c.RealIP()).
				Dur("latency", time.Since(start)).
				Msg("request")
			return nil
		}
	}
}
