package config

import (
	"context"
	"crypto/tls"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisPingTimeout = 2 * time.Second

// NewRedisClient builds a Redis client from the environment and verifies the
// connection with a ping.  It reads REDIS_ADDR (host:port), or REDIS_HOST
// plus REDIS_PORT when both are set, falling back to localhost:6379.
// REDIS_PASSWORD, REDIS_DB and REDIS_TLS are optional.
//
// A nil return means Redis is unreachable; the rate limiter treats a nil
// client as "limiting disabled" so the API keeps serving without it.
func NewRedisClient() *redis.Client {
	addr := envStr("REDIS_ADDR", "localhost:6379")
	if host, port := envStr("REDIS_HOST", ""), envStr("REDIS_PORT", ""); host != "" && port != "" {
		addr = host + ":" + port
	}

	opts := &redis.Options{
		Addr:     addr,
		Password: envStr("REDIS_PASSWORD", ""),
		DB:       envInt("REDIS_DB", 0),
	}
	if envBool("REDIS_TLS", false) {
		opts.TLSConfig = &tls.Config{InsecureSkipVerify: true}
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil
	}
	return client
}
