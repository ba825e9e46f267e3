package config

import "time"

// RateLimitConfig controls the fixed-window request limiter applied to the
// auth endpoints.  When Enabled is false or no Redis client is available the
// middleware becomes a pass-through.
type RateLimitConfig struct {
	Enabled bool
	Limit   int           // requests allowed per window
	Window  time.Duration // window length
	Prefix  string        // Redis key namespace
}

// LoadRateLimitConfig reads environment variables to build a RateLimitConfig.
// Defaults permit 30 requests per minute per client IP and route.
func LoadRateLimitConfig() RateLimitConfig {
	cfg := RateLimitConfig{
		Enabled: envBool("RATE_LIMIT_ENABLED", true),
		Limit:   envInt("RATE_LIMIT_REQUESTS", 30),
		Window:  envDur("RATE_LIMIT_WINDOW", time.Minute),
		Prefix:  envStr("RATE_LIMIT_PREFIX", "rl"),
	}
	if cfg.Limit < 1 {
		cfg.Limit = 1
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	return cfg
}
