package api

import (
	"context"
	"encoding/json/v2"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundfolio/soundfolio-server/internal/auth"
	"github.com/soundfolio/soundfolio-server/internal/config"
	"github.com/soundfolio/soundfolio-server/internal/domain"
	"github.com/soundfolio/soundfolio-server/internal/service"
	"github.com/soundfolio/soundfolio-server/internal/sse"
	"github.com/soundfolio/soundfolio-server/internal/store"
)

// testServer wires a full API server onto a throwaway store.
type testServer struct {
	*Server
	api    humatest.TestAPI
	tokens *auth.TokenService
}

func newTestServer(t *testing.T) *testServer {
	return newTestServerWithRates(t, 1000, 1000)
}

// newTestServerWithRates lets rate-limit tests shrink the per-minute budgets.
// Everything else gets budgets high enough to never interfere.
func newTestServerWithRates(t *testing.T, loginRate, contactRate int) *testServer {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)

	st, err := store.New(t.TempDir(), logger, store.NewNoopEmitter())
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	tokens, err := auth.NewTokenService(strings.Repeat("ab", 32), 15*time.Minute, 30*24*time.Hour)
	require.NoError(t, err)

	sessions := service.NewSessionService(st, tokens, logger)
	relationships := service.NewRelationshipSync(st, logger)

	services := &Services{
		Auth:     service.NewAuthService(st, tokens, sessions, logger),
		Session:  sessions,
		Page:     service.NewPageService(st, logger),
		Track:    service.NewTrackService(st, relationships, logger),
		Playlist: service.NewPlaylistService(st, logger),
		Contact:  service.NewContactService(st, logger),
	}

	cfg := &config.Config{
		Server: config.ServerConfig{Name: "Soundfolio Test"},
		Auth: config.AuthConfig{
			LoginRatePerMinute:   loginRate,
			ContactRatePerMinute: contactRate,
		},
	}

	sseManager := sse.NewManager(logger)
	sseHandler := sse.NewHandler(sseManager, logger)

	srv := NewServer(cfg, st, services, sseManager, sseHandler, nil, logger)

	return &testServer{
		Server: srv,
		api:    humatest.Wrap(t, srv.api),
		tokens: tokens,
	}
}

// setupAdmin runs first-run setup and returns the resulting auth payload.
func (ts *testServer) setupAdmin(t *testing.T) AuthResponse {
	t.Helper()

	resp := ts.api.Post("/api/v1/auth/setup", map[string]any{
		"email":       "admin@example.com",
		"password":    "correct-horse-battery",
		"displayName": "Admin",
	})
	require.Equal(t, http.StatusOK, resp.Code, "setup failed: %s", resp.Body.String())

	env := decodeEnvelope[AuthResponse](t, resp)
	require.True(t, env.Success)
	return env.Data
}

// createEditor stores a non-admin account directly and mints a token for it.
func (ts *testServer) createEditor(t *testing.T) (string, *domain.User) {
	t.Helper()

	user := &domain.User{
		Document:     domain.Document{ID: "user-editor-test"},
		Email:        "editor@example.com",
		PasswordHash: "unused",
		DisplayName:  "Editor",
		Role:         domain.RoleEditor,
	}
	user.InitTimestamps()
	require.NoError(t, ts.store.CreateUser(context.Background(), user))

	token, err := ts.tokens.GenerateAccessToken(user)
	require.NoError(t, err)

	return token, user
}

func authHeader(token string) string {
	return "Authorization: Bearer " + token
}

// testEnvelope mirrors the wire envelope for decoding in tests.
type testEnvelope[T any] struct {
	Success    bool                `json:"success"`
	Data       T                   `json:"data"`
	Message    string              `json:"message"`
	Error      string              `json:"error"`
	Code       string              `json:"code"`
	Details    []map[string]string `json:"details"`
	Pagination *store.Pagination   `json:"pagination"`
}

func decodeEnvelope[T any](t *testing.T, resp *httptest.ResponseRecorder) testEnvelope[T] {
	t.Helper()

	var env testEnvelope[T]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &env), "body: %s", resp.Body.String())
	return env
}

func TestSetup_CreatesRootAdmin(t *testing.T) {
	ts := newTestServer(t)

	auth := ts.setupAdmin(t)

	assert.Equal(t, "admin@example.com", auth.User.Email)
	assert.Equal(t, domain.RoleAdmin, auth.User.Role)
	assert.True(t, auth.User.IsRoot)

	assert.NotEmpty(t, auth.AccessToken)
	assert.NotEmpty(t, auth.RefreshToken)
	assert.NotEmpty(t, auth.SessionID)
	assert.Equal(t, "Bearer", auth.TokenType)
}

func TestSetup_OnlyOnce(t *testing.T) {
	ts := newTestServer(t)
	ts.setupAdmin(t)

	resp := ts.api.Post("/api/v1/auth/setup", map[string]any{
		"email":    "second@example.com",
		"password": "another-long-password",
	})
	require.Equal(t, http.StatusConflict, resp.Code)

	env := decodeEnvelope[struct{}](t, resp)
	assert.False(t, env.Success)
	assert.Equal(t, "ALREADY_CONFIGURED", env.Code)
	assert.NotEmpty(t, env.Error)
}

func TestSetup_MissingRequiredFields(t *testing.T) {
	ts := newTestServer(t)

	// Huma rejects missing required fields before the handler runs.
	resp := ts.api.Post("/api/v1/auth/setup", map[string]any{
		"email": "admin@example.com",
	})
	require.Equal(t, http.StatusUnprocessableEntity, resp.Code)

	env := decodeEnvelope[struct{}](t, resp)
	assert.False(t, env.Success)
	assert.Equal(t, "VALIDATION", env.Code)
	assert.NotEmpty(t, env.Details)
}

func TestLogin_WrongPassword(t *testing.T) {
	ts := newTestServer(t)
	ts.setupAdmin(t)

	resp := ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    "admin@example.com",
		"password": "not-the-password",
	})
	require.Equal(t, http.StatusUnauthorized, resp.Code)

	env := decodeEnvelope[struct{}](t, resp)
	assert.False(t, env.Success)
	assert.Equal(t, "INVALID_CREDENTIALS", env.Code)
}

func TestLogin_SemanticValidation(t *testing.T) {
	ts := newTestServer(t)
	ts.setupAdmin(t)

	// Both fields present, so the request clears the schema check and the
	// service-level validator rejects the malformed email with a 400.
	resp := ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    "not-an-email",
		"password": "whatever-password",
	})
	require.Equal(t, http.StatusBadRequest, resp.Code)

	env := decodeEnvelope[struct{}](t, resp)
	assert.False(t, env.Success)
	assert.Equal(t, "VALIDATION", env.Code)
}

func TestLogin_Succeeds(t *testing.T) {
	ts := newTestServer(t)
	ts.setupAdmin(t)

	resp := ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    "admin@example.com",
		"password": "correct-horse-battery",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	env := decodeEnvelope[AuthResponse](t, resp)
	assert.True(t, env.Success)
	assert.NotEmpty(t, env.Data.AccessToken)
	assert.Equal(t, "admin@example.com", env.Data.User.Email)
}

func TestRefresh_RotatesTokens(t *testing.T) {
	ts := newTestServer(t)
	auth := ts.setupAdmin(t)

	resp := ts.api.Post("/api/v1/auth/refresh", map[string]any{
		"refreshToken": auth.RefreshToken,
	})
	require.Equal(t, http.StatusOK, resp.Code)

	env := decodeEnvelope[AuthResponse](t, resp)
	assert.NotEqual(t, auth.RefreshToken, env.Data.RefreshToken)
	assert.Equal(t, auth.SessionID, env.Data.SessionID)

	// The old refresh token died with the rotation.
	replay := ts.api.Post("/api/v1/auth/refresh", map[string]any{
		"refreshToken": auth.RefreshToken,
	})
	require.Equal(t, http.StatusUnauthorized, replay.Code)

	replayEnv := decodeEnvelope[struct{}](t, replay)
	assert.Equal(t, "TOKEN_EXPIRED", replayEnv.Code)
}

func TestLogout_RevokesSession(t *testing.T) {
	ts := newTestServer(t)
	auth := ts.setupAdmin(t)

	resp := ts.api.Post("/api/v1/auth/logout", authHeader(auth.AccessToken), map[string]any{
		"sessionId": auth.SessionID,
	})
	require.Equal(t, http.StatusOK, resp.Code)

	env := decodeEnvelope[struct{}](t, resp)
	assert.True(t, env.Success)
	assert.Equal(t, "Logged out successfully", env.Message)

	refresh := ts.api.Post("/api/v1/auth/refresh", map[string]any{
		"refreshToken": auth.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, refresh.Code)
}

func TestLogout_RequiresAuth(t *testing.T) {
	ts := newTestServer(t)
	auth := ts.setupAdmin(t)

	resp := ts.api.Post("/api/v1/auth/logout", map[string]any{
		"sessionId": auth.SessionID,
	})
	require.Equal(t, http.StatusUnauthorized, resp.Code)

	// The session survived the rejected call.
	refresh := ts.api.Post("/api/v1/auth/refresh", map[string]any{
		"refreshToken": auth.RefreshToken,
	})
	assert.Equal(t, http.StatusOK, refresh.Code)
}

func TestLogout_OtherUsersSession(t *testing.T) {
	ts := newTestServer(t)
	auth := ts.setupAdmin(t)
	editorToken, _ := ts.createEditor(t)

	resp := ts.api.Post("/api/v1/auth/logout", authHeader(editorToken), map[string]any{
		"sessionId": auth.SessionID,
	})
	require.Equal(t, http.StatusForbidden, resp.Code)

	env := decodeEnvelope[struct{}](t, resp)
	assert.Equal(t, "FORBIDDEN", env.Code)
}

func TestCurrentUser(t *testing.T) {
	ts := newTestServer(t)
	auth := ts.setupAdmin(t)

	resp := ts.api.Get("/api/v1/auth/me", authHeader(auth.AccessToken))
	require.Equal(t, http.StatusOK, resp.Code)

	env := decodeEnvelope[UserResponse](t, resp)
	assert.Equal(t, "admin@example.com", env.Data.Email)
	assert.True(t, env.Data.IsRoot)
}

func TestCurrentUser_Unauthenticated(t *testing.T) {
	ts := newTestServer(t)
	ts.setupAdmin(t)

	resp := ts.api.Get("/api/v1/auth/me")
	require.Equal(t, http.StatusUnauthorized, resp.Code)

	env := decodeEnvelope[struct{}](t, resp)
	assert.False(t, env.Success)
	assert.Equal(t, "UNAUTHORIZED", env.Code)
}
