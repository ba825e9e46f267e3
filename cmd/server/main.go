package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/trip-planner/internal/config"
	"github.com/iliyamo/trip-planner/internal/database"
	"github.com/iliyamo/trip-planner/internal/handler"
	"github.com/iliyamo/trip-planner/internal/repository"
	"github.com/iliyamo/trip-planner/internal/router"
	"github.com/iliyamo/trip-planner/internal/validate"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win

	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("configuration error")
	}
	if cfg.JWTSecret == config.DefaultJWTSecret {
		log.Warn().Msg("using the built-in JWT secret; set JWT_SECRET outside local development")
	}

	var users repository.UserStore = repository.NewMemoryUserStore()
	if cfg.UseMySQL() {
		db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			log.Fatal().Err(err).Msg("database connection failed")
		}
		defer db.Close()
		users = repository.NewMySQLUserStore(db)
		log.Info().Str("host", cfg.DBHost).Msg("user store backed by MySQL")
	} else {
		log.Info().Msg("user store kept in memory; records don't survive restarts")
	}

	registry := repository.NewTokenRegistry(cfg.PurgeInterval)
	defer registry.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn().Msg("redis unreachable; auth rate limiting disabled")
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = validate.New()

	authH := handler.NewAuthHandler(cfg, users, registry, log)
	tripH := handler.NewTripHandler(repository.NewMemoryTripStore(), log)
	router.Register(e, cfg, authH, tripH, rdb, log)

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")
	if err := e.Start(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
