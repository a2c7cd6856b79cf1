package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/soundfolio/soundfolio-server/internal/auth"
	"github.com/soundfolio/soundfolio-server/internal/domain"
	domainerrors "github.com/soundfolio/soundfolio-server/internal/errors"
	"github.com/soundfolio/soundfolio-server/internal/id"
	"github.com/soundfolio/soundfolio-server/internal/store"
)

// SessionService handles session lifecycle. Each login creates its own
// session, and only the refresh token hash is stored, so a database dump
// never yields a replayable credential.
type SessionService struct {
	store  *store.Store
	tokens *auth.TokenService
	logger *slog.Logger
}

// NewSessionService creates a new session management service.
func NewSessionService(store *store.Store, tokens *auth.TokenService, logger *slog.Logger) *SessionService {
	return &SessionService{
		store:  store,
		tokens: tokens,
		logger: logger,
	}
}

// SessionResponse contains session tokens and metadata.
type SessionResponse struct {
	AccessToken  string `json:"accessToken" doc:"Short-lived PASETO access token"`
	RefreshToken string `json:"refreshToken" doc:"Long-lived token for obtaining new token pairs"`
	TokenType    string `json:"tokenType" doc:"Always Bearer"`
	ExpiresIn    int    `json:"expiresIn" doc:"Seconds until the access token expires"`
	SessionID    string `json:"sessionId" doc:"Session identifier, needed for logout"`
}

// CreateSession generates a token pair and records the session.
func (s *SessionService) CreateSession(ctx context.Context, user *domain.User, ipAddress, userAgent string) (*SessionResponse, error) {
	accessToken, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	refreshToken, err := s.tokens.GenerateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	sessionID, err := id.Generate("session")
	if err != nil {
		return nil, fmt.Errorf("generate session ID: %w", err)
	}

	now := time.Now()
	session := &domain.Session{
		ID:               sessionID,
		UserID:           user.ID,
		RefreshTokenHash: auth.HashRefreshToken(refreshToken),
		ExpiresAt:        now.Add(s.tokens.RefreshTokenDuration()),
		CreatedAt:        now,
		LastSeenAt:       now,
		IPAddress:        ipAddress,
		UserAgent:        userAgent,
	}

	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	return &SessionResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int(s.tokens.AccessTokenDuration().Seconds()),
		SessionID:    sessionID,
	}, nil
}

// RefreshSession rotates tokens for an existing session. The old refresh
// token is invalidated the moment the new one is written.
func (s *SessionService) RefreshSession(ctx context.Context, refreshToken, ipAddress, userAgent string) (*SessionResponse, *domain.User, error) {
	tokenHash := auth.HashRefreshToken(refreshToken)
	session, err := s.store.GetSessionByRefreshToken(ctx, tokenHash)
	if err != nil {
		return nil, nil, domainerrors.TokenExpired("invalid or expired refresh token").WithCause(err)
	}

	user, err := s.store.GetUser(ctx, session.UserID)
	if err != nil {
		// User was deleted, clean up the orphaned session
		_ = s.store.DeleteSession(ctx, session.ID)
		return nil, nil, domainerrors.NotFound("user not found").WithCause(err)
	}

	accessToken, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, nil, fmt.Errorf("generate access token: %w", err)
	}

	newRefreshToken, err := s.tokens.GenerateRefreshToken()
	if err != nil {
		return nil, nil, fmt.Errorf("generate refresh token: %w", err)
	}

	session.RefreshTokenHash = auth.HashRefreshToken(newRefreshToken)
	session.Touch()
	if ipAddress != "" {
		session.IPAddress = ipAddress
	}
	if userAgent != "" {
		session.UserAgent = userAgent
	}

	if err := s.store.UpdateSession(ctx, session); err != nil {
		return nil, nil, fmt.Errorf("update session: %w", err)
	}

	return &SessionResponse{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int(s.tokens.AccessTokenDuration().Seconds()),
		SessionID:    session.ID,
	}, user, nil
}

// DeleteSession ends a session (logout).
func (s *SessionService) DeleteSession(ctx context.Context, sessionID string) error {
	if err := s.store.DeleteSession(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	s.logger.Info("session deleted", "session_id", sessionID)
	return nil
}

// DeleteExpiredSessions removes all expired sessions. Runs periodically from
// the server's background cleanup loop.
func (s *SessionService) DeleteExpiredSessions(ctx context.Context) (int, error) {
	count, err := s.store.DeleteExpiredSessions(ctx)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}

	if count > 0 {
		s.logger.Info("deleted expired sessions", "count", count)
	}

	return count, nil
}
