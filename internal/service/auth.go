package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/soundfolio/soundfolio-server/internal/auth"
	"github.com/soundfolio/soundfolio-server/internal/domain"
	domainerrors "github.com/soundfolio/soundfolio-server/internal/errors"
	"github.com/soundfolio/soundfolio-server/internal/id"
	"github.com/soundfolio/soundfolio-server/internal/store"
	"github.com/soundfolio/soundfolio-server/internal/validation"
)

// validate is the shared request validator for all services.
var validate = validation.New()

// AuthService handles the credential side of the admin API: first-run setup,
// login, token refresh, and resolving access tokens to users on every
// authenticated request.
type AuthService struct {
	store    *store.Store
	tokens   *auth.TokenService
	sessions *SessionService
	logger   *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	store *store.Store,
	tokens *auth.TokenService,
	sessions *SessionService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		store:    store,
		tokens:   tokens,
		sessions: sessions,
		logger:   logger,
	}
}

// SetupRequest is the input for first-run server setup.
type SetupRequest struct {
	Email       string `json:"email" validate:"required,email,max=254" doc:"Admin email address"`
	Password    string `json:"password" validate:"required,min=8,max=1024" doc:"Admin password"`
	DisplayName string `json:"displayName,omitempty" validate:"omitempty,max=100" doc:"Name shown in the admin UI"`
}

// LoginRequest is the input for user login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=254" doc:"User email"`
	Password string `json:"password" validate:"required,max=1024" doc:"User password"`
}

// RefreshRequest is the input for rotating session tokens.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required" doc:"Refresh token issued at login"`
}

// LogoutRequest is the input for ending a session.
type LogoutRequest struct {
	SessionID string `json:"sessionId" validate:"required,max=100" doc:"Session to revoke"`
}

// AuthResponse contains the authenticated user and their session tokens.
type AuthResponse struct {
	User *domain.User `json:"user"`
	SessionResponse
}

// Setup creates the first user and opens their session. The first user is
// root and always an admin. Once any user exists the endpoint is closed for
// good; there is no open registration, admins create further accounts.
func (s *AuthService) Setup(ctx context.Context, req SetupRequest, ipAddress, userAgent string) (*AuthResponse, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	hasUsers, err := s.store.HasUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("check setup status: %w", err)
	}
	if hasUsers {
		return nil, domainerrors.AlreadyConfigured("server is already set up")
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	userID, err := id.Generate("user")
	if err != nil {
		return nil, fmt.Errorf("generate user ID: %w", err)
	}

	user := &domain.User{
		Document:     domain.Document{ID: userID},
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: passwordHash,
		DisplayName:  req.DisplayName,
		Role:         domain.RoleAdmin,
		IsRoot:       true,
		LastLoginAt:  time.Now(),
	}
	user.InitTimestamps()

	if err := s.store.CreateUser(ctx, user); err != nil {
		// Two concurrent setup calls race on the empty-store check; the
		// email unique index catches the loser.
		if errors.Is(err, domainerrors.ErrDuplicate) {
			return nil, domainerrors.AlreadyConfigured("server is already set up")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	session, err := s.sessions.CreateSession(ctx, user, ipAddress, userAgent)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.logger.Info("server setup complete", "user_id", userID, "email", user.Email)

	return &AuthResponse{
		User:            user,
		SessionResponse: *session,
	}, nil
}

// Login verifies credentials and opens a new session. A missing account and
// a wrong password produce the same error, so responses do not reveal which
// email addresses have accounts.
func (s *AuthService) Login(ctx context.Context, req LoginRequest, ipAddress, userAgent string) (*AuthResponse, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.InvalidCredentials("invalid email or password")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	ok, err := auth.VerifyPassword(user.PasswordHash, req.Password)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, domainerrors.InvalidCredentials("invalid email or password")
	}

	user.LastLoginAt = time.Now()
	user.Touch()
	if err := s.store.UpdateUser(ctx, user); err != nil {
		// Not worth failing a valid login over.
		s.logger.Warn("failed to update last login time", "user_id", user.ID, "error", err)
	}

	session, err := s.sessions.CreateSession(ctx, user, ipAddress, userAgent)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.logger.Info("user logged in", "user_id", user.ID)

	return &AuthResponse{
		User:            user,
		SessionResponse: *session,
	}, nil
}

// RefreshTokens exchanges a valid refresh token for a new token pair,
// invalidating the old refresh token.
func (s *AuthService) RefreshTokens(ctx context.Context, req RefreshRequest, ipAddress, userAgent string) (*AuthResponse, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	session, user, err := s.sessions.RefreshSession(ctx, req.RefreshToken, ipAddress, userAgent)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		User:            user,
		SessionResponse: *session,
	}, nil
}

// Logout ends the given session. The access token stays technically valid
// until it expires; only the refresh token dies immediately. Users can only
// end their own sessions; ending one that is already gone succeeds.
func (s *AuthService) Logout(ctx context.Context, userID, sessionID string) error {
	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, store.ErrSessionNotFound) || errors.Is(err, store.ErrSessionExpired) {
			return nil
		}
		return fmt.Errorf("load session: %w", err)
	}

	if session.UserID != userID {
		return domainerrors.Forbidden("session belongs to another user")
	}

	return s.sessions.DeleteSession(ctx, sessionID)
}

// VerifyAccessToken resolves a bearer token to its user. The store is
// authoritative for the user's current role and existence; the token only
// proves who logged in.
func (s *AuthService) VerifyAccessToken(ctx context.Context, tokenString string) (*domain.User, *auth.AccessClaims, error) {
	claims, err := s.tokens.VerifyAccessToken(tokenString)
	if err != nil {
		return nil, nil, domainerrors.Unauthorized("invalid or expired access token").WithCause(err)
	}

	user, err := s.store.GetUser(ctx, claims.UserID)
	if err != nil {
		return nil, nil, domainerrors.Unauthorized("user no longer exists").WithCause(err)
	}

	return user, claims, nil
}
