package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundfolio/soundfolio-server/internal/auth"
	"github.com/soundfolio/soundfolio-server/internal/domain"
	domainerrors "github.com/soundfolio/soundfolio-server/internal/errors"
	"github.com/soundfolio/soundfolio-server/internal/store"
)

func newAuthService(t *testing.T) (*AuthService, *store.Store) {
	t.Helper()

	st := newTestStore(t)
	logger := testLogger()

	tokens, err := auth.NewTokenService(strings.Repeat("ab", 32), 15*time.Minute, 30*24*time.Hour)
	require.NoError(t, err)

	sessions := NewSessionService(st, tokens, logger)
	return NewAuthService(st, tokens, sessions, logger), st
}

func setupTestAdmin(t *testing.T, authSvc *AuthService) *AuthResponse {
	t.Helper()

	resp, err := authSvc.Setup(context.Background(), SetupRequest{
		Email:       "admin@example.com",
		Password:    "correct-horse-battery",
		DisplayName: "Admin",
	}, "127.0.0.1", "tests")
	require.NoError(t, err)

	return resp
}

func TestAuthService_SetupCreatesRootAdmin(t *testing.T) {
	authSvc, _ := newAuthService(t)

	resp, err := authSvc.Setup(context.Background(), SetupRequest{
		Email:       "  Admin@Example.COM  ",
		Password:    "correct-horse-battery",
		DisplayName: "Admin",
	}, "127.0.0.1", "tests")
	require.NoError(t, err)

	assert.Equal(t, "admin@example.com", resp.User.Email)
	assert.Equal(t, domain.RoleAdmin, resp.User.Role)
	assert.True(t, resp.User.IsRoot)

	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.NotEmpty(t, resp.SessionID)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, int(15*time.Minute/time.Second), resp.ExpiresIn)
}

func TestAuthService_SetupOnlyOnce(t *testing.T) {
	authSvc, _ := newAuthService(t)
	setupTestAdmin(t, authSvc)

	_, err := authSvc.Setup(context.Background(), SetupRequest{
		Email:    "second@example.com",
		Password: "another-long-password",
	}, "127.0.0.1", "tests")
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyConfigured)
}

func TestAuthService_SetupValidation(t *testing.T) {
	authSvc, _ := newAuthService(t)
	ctx := context.Background()

	_, err := authSvc.Setup(ctx, SetupRequest{
		Email:    "not-an-email",
		Password: "correct-horse-battery",
	}, "", "")
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	_, err = authSvc.Setup(ctx, SetupRequest{
		Email:    "admin@example.com",
		Password: "short",
	}, "", "")
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestAuthService_Login(t *testing.T) {
	authSvc, _ := newAuthService(t)
	setup := setupTestAdmin(t, authSvc)
	ctx := context.Background()

	// Email lookup is case-insensitive.
	resp, err := authSvc.Login(ctx, LoginRequest{
		Email:    "ADMIN@example.com",
		Password: "correct-horse-battery",
	}, "127.0.0.1", "tests")
	require.NoError(t, err)
	assert.Equal(t, setup.User.ID, resp.User.ID)
	assert.NotEmpty(t, resp.AccessToken)

	// Each login opens its own session.
	assert.NotEqual(t, setup.SessionID, resp.SessionID)
}

func TestAuthService_LoginBadCredentials(t *testing.T) {
	authSvc, _ := newAuthService(t)
	setupTestAdmin(t, authSvc)
	ctx := context.Background()

	// A wrong password and an unknown account produce the same error, so the
	// response cannot be used to probe which emails exist.
	_, err := authSvc.Login(ctx, LoginRequest{
		Email:    "admin@example.com",
		Password: "wrong-password-entirely",
	}, "", "")
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)

	_, err = authSvc.Login(ctx, LoginRequest{
		Email:    "nobody@example.com",
		Password: "correct-horse-battery",
	}, "", "")
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestAuthService_VerifyAccessToken(t *testing.T) {
	authSvc, _ := newAuthService(t)
	setup := setupTestAdmin(t, authSvc)
	ctx := context.Background()

	user, claims, err := authSvc.VerifyAccessToken(ctx, setup.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, setup.User.ID, user.ID)
	assert.Equal(t, setup.User.ID, claims.UserID)
	assert.Equal(t, domain.RoleAdmin, claims.Role)

	_, _, err = authSvc.VerifyAccessToken(ctx, "v4.local.garbage")
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}

func TestAuthService_RefreshRotation(t *testing.T) {
	authSvc, _ := newAuthService(t)
	setup := setupTestAdmin(t, authSvc)
	ctx := context.Background()

	refreshed, err := authSvc.RefreshTokens(ctx, RefreshRequest{
		RefreshToken: setup.RefreshToken,
	}, "127.0.0.1", "tests")
	require.NoError(t, err)

	assert.Equal(t, setup.User.ID, refreshed.User.ID)
	assert.Equal(t, setup.SessionID, refreshed.SessionID, "refresh keeps the session")
	assert.NotEqual(t, setup.RefreshToken, refreshed.RefreshToken, "refresh token rotates")

	// The replaced refresh token is dead.
	_, err = authSvc.RefreshTokens(ctx, RefreshRequest{
		RefreshToken: setup.RefreshToken,
	}, "", "")
	assert.ErrorIs(t, err, domainerrors.ErrTokenExpired)

	// The rotated one works.
	_, err = authSvc.RefreshTokens(ctx, RefreshRequest{
		RefreshToken: refreshed.RefreshToken,
	}, "", "")
	assert.NoError(t, err)
}

func TestAuthService_Logout(t *testing.T) {
	authSvc, _ := newAuthService(t)
	setup := setupTestAdmin(t, authSvc)
	ctx := context.Background()

	require.NoError(t, authSvc.Logout(ctx, setup.User.ID, setup.SessionID))

	_, err := authSvc.RefreshTokens(ctx, RefreshRequest{
		RefreshToken: setup.RefreshToken,
	}, "", "")
	assert.ErrorIs(t, err, domainerrors.ErrTokenExpired)

	// A second logout for the same session is a quiet no-op.
	assert.NoError(t, authSvc.Logout(ctx, setup.User.ID, setup.SessionID))
}

func TestAuthService_LogoutOwnership(t *testing.T) {
	authSvc, _ := newAuthService(t)
	setup := setupTestAdmin(t, authSvc)
	ctx := context.Background()

	err := authSvc.Logout(ctx, "user-someone-else", setup.SessionID)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	// The session survived the rejected attempt.
	_, err = authSvc.RefreshTokens(ctx, RefreshRequest{
		RefreshToken: setup.RefreshToken,
	}, "", "")
	assert.NoError(t, err)
}

func TestSessionService_DeleteExpiredSessions(t *testing.T) {
	st := newTestStore(t)
	logger := testLogger()

	// A refresh window in the past makes every new session start expired.
	expiring, err := auth.NewTokenService(strings.Repeat("ab", 32), 15*time.Minute, -time.Hour)
	require.NoError(t, err)

	sessions := NewSessionService(st, expiring, logger)
	authSvc := NewAuthService(st, expiring, sessions, logger)
	setup := setupTestAdmin(t, authSvc)

	deleted, err := sessions.DeleteExpiredSessions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	_, err = st.GetSession(context.Background(), setup.SessionID)
	assert.Error(t, err)
}
