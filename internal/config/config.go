package config // package config loads application configuration from environment variables

import (
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/trip-planner/internal/utils"
)

// DefaultJWTSecret is the fallback signing secret for local development.
// Running with it in production would let anyone forge tokens, so Load
// refuses it when APP_ENV is "prod".
const DefaultJWTSecret = "your-super-secret-jwt-key-change-in-production"

// ErrUnsafeSecret is returned by Load when the default signing secret is
// still configured in a production environment.
var ErrUnsafeSecret = errors.New("JWT_SECRET must be set when APP_ENV=prod")

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, durations for
// lifetimes, ints for cost factors.
type Config struct {
	Env            string        // application environment (e.g. "dev", "prod")
	Port           string        // HTTP port to listen on
	JWTSecret      string        // secret used to sign JWTs
	TokenTTL       time.Duration // access token time-to-live
	BcryptCost     int           // bcrypt cost for password hashing
	AllowedOrigins []string      // origins allowed for CORS requests
	PurgeInterval  time.Duration // how often expired registry entries are swept

	// Optional MySQL-backed user store.  An empty DBHost keeps the
	// in-memory store.
	DBUser string
	DBPass string
	DBHost string
	DBPort string
	DBName string

	// EventsEnabled is true when a broker URL is configured; registration
	// events are only published in that case.
	EventsEnabled bool
}

// Load reads configuration values from environment variables and returns a
// Config.  Every value has a development default; the only hard requirement
// is a real JWT secret when running in prod.
func Load() (Config, error) {
	cfg := Config{
		Env:            envStr("APP_ENV", "dev"),
		Port:           envStr("APP_PORT", "3001"),
		JWTSecret:      envStr("JWT_SECRET", DefaultJWTSecret),
		TokenTTL:       envDur("TOKEN_TTL", 24*time.Hour),
		BcryptCost:     envInt("BCRYPT_COST", utils.DefaultBcryptCost),
		AllowedOrigins: splitList(envStr("ALLOWED_ORIGINS", "http://localhost:5173")),
		PurgeInterval:  envDur("TOKEN_PURGE_INTERVAL", 10*time.Minute),
		DBUser:         envStr("DB_USER", ""),
		DBPass:         envStr("DB_PASS", ""),
		DBHost:         envStr("DB_HOST", ""),
		DBPort:         envStr("DB_PORT", "3306"),
		DBName:         envStr("DB_NAME", ""),
	}
	if envStr("RABBITMQ_URL", "") != "" || envStr("AMQP_URL", "") != "" {
		cfg.EventsEnabled = true
	}
	if cfg.Env == "prod" && cfg.JWTSecret == DefaultJWTSecret {
		return Config{}, ErrUnsafeSecret
	}
	return cfg, nil
}

// UseMySQL reports whether enough database configuration is present to back
// the user store with MySQL instead of process memory.
func (c Config) UseMySQL() bool {
	return c.DBHost != "" && c.DBUser != "" && c.DBName != ""
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
