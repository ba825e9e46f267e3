package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/trip-planner/internal/config"
	"github.com/iliyamo/trip-planner/internal/middleware"
	"github.com/iliyamo/trip-planner/internal/queue"
	"github.com/iliyamo/trip-planner/internal/repository"
	queue_publisher "github.com/iliyamo/trip-planner/internal/service"
	"github.com/iliyamo/trip-planner/internal/utils"
	"github.com/iliyamo/trip-planner/internal/validate"
)

// AuthHandler bundles dependencies for the auth endpoints.
type AuthHandler struct {
	Cfg      config.Config
	Users    repository.UserStore
	Registry *repository.TokenRegistry
	Log      zerolog.Logger

	// dummyHash is verified against on login when the email does not
	// exist, so both failure paths cost one bcrypt comparison.
	dummyHash string
}

func NewAuthHandler(cfg config.Config, users repository.UserStore, reg *repository.TokenRegistry, log zerolog.Logger) *AuthHandler {
	dummy, err := utils.HashPassword("timing-equalizer", cfg.BcryptCost)
	if err != nil {
		// bcrypt only fails on an out-of-range cost, which Load never produces.
		dummy = ""
	}
	return &AuthHandler{Cfg: cfg, Users: users, Registry: reg, Log: log, dummyHash: dummy}
}

// ----- DTOs -----

type registerReq struct {
	Name     string `json:"name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Register: validate, create the user, return a fresh token plus the public
// user view.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"message": "Validation failed",
			"errors":  validate.Describe(err),
		})
	}

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		h.Log.Error().Err(err).Msg("password hashing failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Internal server error"})
	}

	u, err := h.Users.Create(c.Request().Context(), req.Name, req.Email, hash)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Email already exists"})
		}
		h.Log.Error().Err(err).Msg("create user failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Internal server error"})
	}

	token, exp, err := utils.IssueToken(h.Cfg.JWTSecret, u, h.Cfg.TokenTTL)
	if err != nil {
		h.Log.Error().Err(err).Msg("token signing failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Internal server error"})
	}
	h.Registry.Register(token, exp)

	if h.Cfg.EventsEnabled {
		evt := queue.UserRegisteredEvent{
			UserID:       u.ID,
			Email:        u.Email,
			Name:         u.Name,
			RegisteredAt: u.CreatedAt.Format(time.RFC3339),
		}
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = queue_publisher.PublishUserRegistered(ctx, evt)
		}()
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "User registered successfully",
		"token":   token,
		"user":    u.Public(),
	})
}

// Login: verify credentials and return a fresh token.  Unknown email and
// wrong password produce the same response, and both paths run one bcrypt
// comparison so they are not distinguishable by timing either.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid body"})
	}
	req.Email = strings.TrimSpace(req.Email)
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"message": "Validation failed",
			"errors":  validate.Describe(err),
		})
	}

	u, err := h.Users.GetByEmail(c.Request().Context(), req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.VerifyPassword(h.dummyHash, req.Password)
			return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "Invalid credentials"})
		}
		h.Log.Error().Err(err).Msg("user lookup failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Internal server error"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "Invalid credentials"})
	}

	token, exp, err := utils.IssueToken(h.Cfg.JWTSecret, u, h.Cfg.TokenTTL)
	if err != nil {
		h.Log.Error().Err(err).Msg("token signing failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Internal server error"})
	}
	h.Registry.Register(token, exp)

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Login successful",
		"token":   token,
		"user":    u.Public(),
	})
}

// Logout: revoke the presented token.  Runs behind JWTAuth, so the token in
// context has already been verified; revoking is idempotent and succeeds
// even if the entry was already gone.
func (h *AuthHandler) Logout(c echo.Context) error {
	if tok, ok := c.Get(middleware.CtxToken).(string); ok {
		h.Registry.Revoke(tok)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Logged out successfully",
	})
}

// Verify: confirm the token and echo back the identity it carries.  The
// user fields come from the claims, not a store lookup.
func (h *AuthHandler) Verify(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"valid":   true,
		"message": "Token is valid",
		"user": echo.Map{
			"id":    c.Get(middleware.CtxUserID),
			"email": c.Get(middleware.CtxEmail),
			"name":  c.Get(middleware.CtxName),
		},
	})
}

// Profile: return the freshest public view of the authenticated user.
func (h *AuthHandler) Profile(c echo.Context) error {
	id, _ := c.Get(middleware.CtxUserID).(string)
	u, err := h.Users.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "User not found"})
		}
		h.Log.Error().Err(err).Msg("user lookup failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Internal server error"})
	}
	return c.JSON(http.StatusOK, u.Public())
}
