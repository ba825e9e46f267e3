package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/trip-planner/internal/config"
	"github.com/iliyamo/trip-planner/internal/handler"
	"github.com/iliyamo/trip-planner/internal/model"
	"github.com/iliyamo/trip-planner/internal/repository"
	"github.com/iliyamo/trip-planner/internal/router"
	"github.com/iliyamo/trip-planner/internal/utils"
	"github.com/iliyamo/trip-planner/internal/validate"
)

type testApp struct {
	e        *echo.Echo
	cfg      config.Config
	registry *repository.TokenRegistry
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	cfg := config.Config{
		Env:            "test",
		JWTSecret:      "test-secret",
		TokenTTL:       time.Hour,
		BcryptCost:     bcrypt.MinCost,
		AllowedOrigins: []string{"http://localhost:5173"},
	}

	users := repository.NewMemoryUserStore()
	registry := repository.NewTokenRegistry(0)
	t.Cleanup(registry.Close)

	e := echo.New()
	e.Validator = validate.New()
	authH := handler.NewAuthHandler(cfg, users, registry, zerolog.Nop())
	tripH := handler.NewTripHandler(repository.NewMemoryTripStore(), zerolog.Nop())
	router.Register(e, cfg, authH, tripH, nil, zerolog.Nop())

	return &testApp{e: e, cfg: cfg, registry: registry}
}

func (a *testApp) do(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	return m
}

func (a *testApp) register(t *testing.T, name, email, password string) (string, map[string]any) {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"name": name, "email": email, "password": password})
	rec := a.do(http.MethodPost, "/api/auth/register", string(body), "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	m := decode(t, rec)
	tok, _ := m["token"].(string)
	require.NotEmpty(t, tok)
	user, _ := m["user"].(map[string]any)
	return tok, user
}

func TestRegisterSuccess(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)

	tok, user := app.register(t, "Ana", " ANA@x.com ", "secret1")

	assert.Equal(t, "ana@x.com", user["email"], "stored email is normalized")
	assert.Equal(t, "Ana", user["name"])
	assert.NotEmpty(t, user["id"])
	_, hasPassword := user["password"]
	assert.False(t, hasPassword)
	_, hasHash := user["password_hash"]
	assert.False(t, hasHash)

	// The fresh token is immediately usable.
	rec := app.do(http.MethodGet, "/api/auth/verify", "", tok)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)

	app.register(t, "Ana", "ana@x.com", "secret1")

	body := `{"name":"Other","email":"  ANA@x.com","password":"secret2"}`
	rec := app.do(http.MethodPost, "/api/auth/register", body, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Email already exists", decode(t, rec)["message"])
}

func TestRegisterValidation(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)

	cases := []string{
		`{"name":"A","email":"ana@x.com","password":"secret1"}`, // name too short
		`{"name":"Ana","email":"not-an-email","password":"secret1"}`,
		`{"name":"Ana","email":"ana@x.com","password":"short"}`, // under 6 chars
		`{"name":"","email":"","password":""}`,
	}
	for _, body := range cases {
		rec := app.do(http.MethodPost, "/api/auth/register", body, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		m := decode(t, rec)
		assert.Equal(t, "Validation failed", m["message"], body)
		assert.NotEmpty(t, m["errors"], body)
	}
}

func TestLoginSuccess(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)
	app.register(t, "Ana", "ana@x.com", "secret1")

	rec := app.do(http.MethodPost, "/api/auth/login", `{"email":"ANA@x.com","password":"secret1"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	m := decode(t, rec)
	assert.Equal(t, "Login successful", m["message"])
	assert.NotEmpty(t, m["token"])
}

// Wrong password and unknown email must be byte-identical responses.
func TestLoginFailuresIndistinguishable(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)
	app.register(t, "Ana", "ana@x.com", "secret1")

	wrongPass := app.do(http.MethodPost, "/api/auth/login", `{"email":"ana@x.com","password":"wrong-pass"}`, "")
	unknown := app.do(http.MethodPost, "/api/auth/login", `{"email":"ghost@x.com","password":"whatever"}`, "")

	assert.Equal(t, http.StatusUnauthorized, wrongPass.Code)
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, wrongPass.Body.String(), unknown.Body.String())
}

func TestLogoutRevokesToken(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)
	tok, _ := app.register(t, "Ana", "ana@x.com", "secret1")

	rec := app.do(http.MethodPost, "/api/auth/logout", "", tok)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Logged out successfully", decode(t, rec)["message"])

	// The token has not expired, but it is no longer accepted.
	rec = app.do(http.MethodGet, "/api/auth/verify", "", tok)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Logging out without a valid token is rejected.
	rec = app.do(http.MethodPost, "/api/auth/logout", "", tok)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestVerifyReturnsClaims(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)
	tok, user := app.register(t, "Ana", "ana@x.com", "secret1")

	rec := app.do(http.MethodGet, "/api/auth/verify", "", tok)
	require.Equal(t, http.StatusOK, rec.Code)
	m := decode(t, rec)
	assert.Equal(t, true, m["valid"])
	claims, _ := m["user"].(map[string]any)
	assert.Equal(t, user["id"], claims["id"])
	assert.Equal(t, "ana@x.com", claims["email"])
	assert.Equal(t, "Ana", claims["name"])
}

func TestProfile(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)
	tok, user := app.register(t, "Ana", "ana@x.com", "secret1")

	rec := app.do(http.MethodGet, "/api/auth/profile", "", tok)
	require.Equal(t, http.StatusOK, rec.Code)
	m := decode(t, rec)
	assert.Equal(t, user["id"], m["id"])
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestProfileUserGone(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)

	// A valid, live token whose subject never existed in the store.
	ghost := model.User{ID: "ghost", Email: "ghost@x.com", Name: "Ghost"}
	tok, exp, err := utils.IssueToken(app.cfg.JWTSecret, ghost, time.Hour)
	require.NoError(t, err)
	app.registry.Register(tok, exp)

	rec := app.do(http.MethodGet, "/api/auth/profile", "", tok)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "User not found", decode(t, rec)["message"])
}

func TestProtectedRoutesRejectMissingToken(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)

	for _, path := range []string{"/api/auth/verify", "/api/auth/profile", "/api/trips/my-trips"} {
		rec := app.do(http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)

	rec := app.do(http.MethodGet, "/api/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", decode(t, rec)["status"])
}
