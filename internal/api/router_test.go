package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"despesabot/internal/api/handlers"
	"despesabot/internal/service"
	"despesabot/pkg/auth"
	"despesabot/pkg/config"
	"despesabot/pkg/middleware"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestApp(t *testing.T) (*testAppDeps, *handlers.AuthHandler) {
	t.Helper()

	oauth := service.NewOAuthService(&config.DiscordConfig{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
	}, "http://localhost:3333", nil, zap.NewNop())

	tokens := auth.NewTokenManager("test-secret", time.Hour)
	handler := handlers.NewAuthHandler(oauth, tokens, nil, zap.NewNop())

	return &testAppDeps{tokens: tokens}, handler
}

type testAppDeps struct {
	tokens *auth.TokenManager
}

func TestHealthEndpoint(t *testing.T) {
	deps, handler := newTestApp(t)
	app := SetupRouter(handler, deps.tokens, zap.NewNop())

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestLoginRedirectsToDiscord(t *testing.T) {
	deps, handler := newTestApp(t)
	app := SetupRouter(handler, deps.tokens, zap.NewNop())

	resp, err := app.Test(httptest.NewRequest("GET", "/login/discord", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 307, resp.StatusCode)
	location := resp.Header.Get("Location")
	assert.Contains(t, location, "https://discord.com/oauth2/authorize")
	assert.Contains(t, location, "client_id=client-id")
	assert.Contains(t, location, "state=")
}

func TestCallbackRejectsMismatchedState(t *testing.T) {
	deps, handler := newTestApp(t)
	app := SetupRouter(handler, deps.tokens, zap.NewNop())

	req := httptest.NewRequest("GET", "/api/auth/callback/discord?code=abc&state=forged", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 500, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "AUTH_FAILED", body["error"])
}

func TestMeRequiresSession(t *testing.T) {
	deps, handler := newTestApp(t)
	app := SetupRouter(handler, deps.tokens, zap.NewNop())

	resp, err := app.Test(httptest.NewRequest("GET", "/api/auth/me", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 401, resp.StatusCode)
}

func TestMeRejectsForgedToken(t *testing.T) {
	deps, handler := newTestApp(t)
	app := SetupRouter(handler, deps.tokens, zap.NewNop())

	forged, err := auth.NewTokenManager("other-secret", time.Hour).Generate("u-1", "Ana")
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/api/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: forged})

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 401, resp.StatusCode)
}

func TestLoginSuccessPage(t *testing.T) {
	deps, handler := newTestApp(t)
	app := SetupRouter(handler, deps.tokens, zap.NewNop())

	resp, err := app.Test(httptest.NewRequest("GET", "/login-success", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 200, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
}
