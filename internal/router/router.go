package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/iliyamo/trip-planner/internal/config"
	"github.com/iliyamo/trip-planner/internal/handler"
	"github.com/iliyamo/trip-planner/internal/middleware"
)

// Register wires every route of the API onto the provided Echo instance.
//
// Unauthenticated surface: the health check plus register/login under
// /api/auth, rate limited when Redis is available.  Everything else runs
// behind the JWT auth gate: logout/verify/profile, and the trip CRUD under
// /api/trips.
func Register(e *echo.Echo, cfg config.Config, auth *handler.AuthHandler, trips *handler.TripHandler, rdb *redis.Client, log zerolog.Logger) {
	e.Use(middleware.RequestLogger(log))
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowCredentials: true,
	}))

	e.GET("/api/health", handler.Health)

	guard := middleware.JWTAuth(cfg.JWTSecret, auth.Registry)

	a := e.Group("/api/auth")
	a.Use(middleware.RateLimit(config.LoadRateLimitConfig(), rdb, log))
	a.POST("/register", auth.Register)
	a.POST("/login", auth.Login)
	a.POST("/logout", auth.Logout, guard)
	a.GET("/verify", auth.Verify, guard)
	a.GET("/profile", auth.Profile, guard)

	t := e.Group("/api/trips", guard)
	t.GET("/my-trips", trips.MyTrips)
	t.GET("/itinerary", trips.Itinerary)
	t.GET("/activities", trips.Activities)
	t.GET("/dashboard", trips.Dashboard)
	t.POST("", trips.Create)
	t.GET("/:tripId/details", trips.Details)
	t.PATCH("/:tripId", trips.Patch)
	t.DELETE("/:tripId", trips.Delete)
	t.POST("/:tripId/itinerary", trips.AddItineraryItem)
	t.PATCH("/:tripId/itinerary/:itemId", trips.PatchItineraryItem)
	t.DELETE("/:tripId/itinerary/:itemId", trips.DeleteItineraryItem)
	t.POST("/:tripId/itinerary/:itemId/activities", trips.AddActivity)
	t.PATCH("/:tripId/itinerary/:itemId/activities/:activityId", trips.PatchActivity)
	t.DELETE("/:tripId/itinerary/:itemId/activities/:activityId", trips.DeleteActivity)
}
