package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/trip-planner/internal/model"
	"github.com/iliyamo/trip-planner/internal/repository"
	"github.com/iliyamo/trip-planner/internal/utils"
)

const testSecret = "test-secret"

func runGate(t *testing.T, authz string, reg *repository.TokenRegistry) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	next := func(c echo.Context) error { return c.String(http.StatusOK, "ok") }
	err := JWTAuth(testSecret, reg)(next)(c)
	require.NoError(t, err)
	return rec, c
}

func issueLive(t *testing.T, reg *repository.TokenRegistry, ttl time.Duration) string {
	t.Helper()
	tok, exp, err := utils.IssueToken(testSecret, model.User{ID: "u1", Email: "ana@x.com", Name: "Ana"}, ttl)
	require.NoError(t, err)
	reg.Register(tok, exp)
	return tok
}

func TestJWTAuthPassesValidToken(t *testing.T) {
	t.Parallel()

	reg := repository.NewTokenRegistry(0)
	defer reg.Close()
	tok := issueLive(t, reg, time.Hour)

	rec, c := runGate(t, "Bearer "+tok, reg)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1", c.Get(CtxUserID))
	assert.Equal(t, "ana@x.com", c.Get(CtxEmail))
	assert.Equal(t, "Ana", c.Get(CtxName))
	assert.Equal(t, tok, c.Get(CtxToken))
}

func TestJWTAuthMissingHeader(t *testing.T) {
	t.Parallel()

	reg := repository.NewTokenRegistry(0)
	defer reg.Close()

	rec, _ := runGate(t, "", reg)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = runGate(t, "Token abc", reg)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// A bad signature, an expired token and a revoked token must be
// indistinguishable from each other in the response.
func TestJWTAuthUniformRejection(t *testing.T) {
	t.Parallel()

	reg := repository.NewTokenRegistry(0)
	defer reg.Close()

	revoked := issueLive(t, reg, time.Hour)
	reg.Revoke(revoked)

	expired, _, err := utils.IssueToken(testSecret, model.User{ID: "u1"}, -time.Minute)
	require.NoError(t, err)

	forged, _, err := utils.IssueToken("other-secret", model.User{ID: "u1"}, time.Hour)
	require.NoError(t, err)

	var bodies []string
	for _, tok := range []string{revoked, expired, forged, "garbage"} {
		rec, _ := runGate(t, "Bearer "+tok, reg)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		bodies = append(bodies, rec.Body.String())
	}
	for i := 1; i < len(bodies); i++ {
		assert.Equal(t, bodies[0], bodies[i])
	}
}
