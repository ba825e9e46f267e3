package middleware // middleware provides reusable HTTP middleware functions

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/trip-planner/internal/repository"
	"github.com/iliyamo/trip-planner/internal/utils"
)

// Context keys set by JWTAuth for downstream handlers.
const (
	CtxUserID = "user_id"
	CtxEmail  = "email"
	CtxName   = "name"
	CtxToken  = "token"
)

// JWTAuth returns an Echo middleware that guards protected routes.  It
// extracts the bearer token from the Authorization header, verifies the
// signature and expiry, and checks the token is still live in the registry
// (logout removes it there before natural expiry).  On success the decoded
// claims are attached to the request context; handlers that need fresh
// profile data must re-fetch from the user store themselves.
//
// All verification failures produce the same 401 body so a caller cannot
// tell a bad signature from an expired or revoked token.
func JWTAuth(secret string, registry *repository.TokenRegistry) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"success": false,
					"message": "Access token required",
				})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			claims, err := utils.VerifyToken(secret, raw)
			if err != nil || !registry.IsLive(raw) {
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"success": false,
					"message": "Invalid or expired token",
				})
			}

			c.Set(CtxUserID, claims.UserID)
			c.Set(CtxEmail, claims.Email)
			c.Set(CtxName, claims.Name)
			c.Set(CtxToken, raw)
			return next(c)
		}
	}
}
