package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/soundfolio/soundfolio-server/internal/domain"
	"github.com/soundfolio/soundfolio-server/internal/service"
)

func (s *Server) registerAuthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "setup",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/setup",
		Summary:     "Initial server setup",
		Description: "Creates the first admin user. Can only be called once.",
		Tags:        []string{"Authentication"},
		Middlewares: huma.Middlewares{s.rateLimitByIP(s.authRateLimiter)},
	}, s.handleSetup)

	huma.Register(s.api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/login",
		Summary:     "User login",
		Description: "Authenticates a user and returns access and refresh tokens",
		Tags:        []string{"Authentication"},
		Middlewares: huma.Middlewares{s.rateLimitByIP(s.authRateLimiter)},
	}, s.handleLogin)

	huma.Register(s.api, huma.Operation{
		OperationID: "refresh",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/refresh",
		Summary:     "Refresh tokens",
		Description: "Exchanges a refresh token for a new token pair",
		Tags:        []string{"Authentication"},
		Middlewares: huma.Middlewares{s.rateLimitByIP(s.authRateLimiter)},
	}, s.handleRefresh)

	huma.Register(s.api, huma.Operation{
		OperationID: "logout",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/logout",
		Summary:     "Logout",
		Description: "Revokes one of the caller's sessions",
		Tags:        []string{"Authentication"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleLogout)

	huma.Register(s.api, huma.Operation{
		OperationID: "get-current-user",
		Method:      http.MethodGet,
		Path:        "/api/v1/auth/me",
		Summary:     "Current user",
		Description: "Returns the account behind the presented access token",
		Tags:        []string{"Authentication"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCurrentUser)
}

// === DTOs ===

// SetupInput wraps the setup request for Huma.
type SetupInput struct {
	Body          service.SetupRequest
	XForwardedFor string `header:"X-Forwarded-For"`
	XRealIP       string `header:"X-Real-IP"`
	UserAgent     string `header:"User-Agent"`
}

// LoginInput wraps the login request with client headers for Huma.
type LoginInput struct {
	Body          service.LoginRequest
	XForwardedFor string `header:"X-Forwarded-For"`
	XRealIP       string `header:"X-Real-IP"`
	UserAgent     string `header:"User-Agent"`
}

// RefreshInput wraps the refresh request with client headers for Huma.
type RefreshInput struct {
	Body          service.RefreshRequest
	XForwardedFor string `header:"X-Forwarded-For"`
	XRealIP       string `header:"X-Real-IP"`
	UserAgent     string `header:"User-Agent"`
}

// LogoutInput wraps the logout request for Huma.
type LogoutInput struct {
	Body service.LogoutRequest
}

// UserResponse contains user information in auth responses. The stored user
// carries a password hash, so users are always mapped through this type
// before leaving the API.
type UserResponse struct {
	ID          string      `json:"id" doc:"User ID"`
	Email       string      `json:"email" doc:"User email"`
	DisplayName string      `json:"displayName,omitempty" doc:"Name shown in the admin UI"`
	Role        domain.Role `json:"role" doc:"User role (admin, editor)"`
	IsRoot      bool        `json:"isRoot" doc:"Whether this is the root admin"`
	CreatedAt   time.Time   `json:"createdAt" doc:"Creation timestamp"`
	UpdatedAt   time.Time   `json:"updatedAt" doc:"Last update timestamp"`
	LastLoginAt time.Time   `json:"lastLoginAt,omitzero" doc:"Last login timestamp"`
}

// AuthResponse contains authentication tokens and user info.
type AuthResponse struct {
	AccessToken  string       `json:"accessToken" doc:"PASETO access token"`
	RefreshToken string       `json:"refreshToken" doc:"Refresh token"`
	SessionID    string       `json:"sessionId" doc:"Session identifier, needed for logout"`
	TokenType    string       `json:"tokenType" doc:"Token type (Bearer)"`
	ExpiresIn    int          `json:"expiresIn" doc:"Token expiry in seconds"`
	User         UserResponse `json:"user" doc:"Authenticated user"`
}

// AuthOutput wraps the auth response for Huma.
type AuthOutput struct {
	Body AuthResponse
}

// UserOutput wraps a single user for Huma.
type UserOutput struct {
	Body UserResponse
}

// MessageResponse contains a simple message.
type MessageResponse struct {
	Message string `json:"message" doc:"Success message"`
}

// MessageOutput wraps the message response for Huma.
type MessageOutput struct {
	Body MessageResponse
}

// === Handlers ===

func (s *Server) handleSetup(ctx context.Context, input *SetupInput) (*AuthOutput, error) {
	resp, err := s.services.Auth.Setup(ctx, input.Body, extractIP(input.XForwardedFor, input.XRealIP), input.UserAgent)
	if err != nil {
		return nil, err
	}

	return &AuthOutput{Body: mapAuthResponse(resp)}, nil
}

func (s *Server) handleLogin(ctx context.Context, input *LoginInput) (*AuthOutput, error) {
	resp, err := s.services.Auth.Login(ctx, input.Body, extractIP(input.XForwardedFor, input.XRealIP), input.UserAgent)
	if err != nil {
		return nil, err
	}

	return &AuthOutput{Body: mapAuthResponse(resp)}, nil
}

func (s *Server) handleRefresh(ctx context.Context, input *RefreshInput) (*AuthOutput, error) {
	resp, err := s.services.Auth.RefreshTokens(ctx, input.Body, extractIP(input.XForwardedFor, input.XRealIP), input.UserAgent)
	if err != nil {
		return nil, err
	}

	return &AuthOutput{Body: mapAuthResponse(resp)}, nil
}

func (s *Server) handleLogout(ctx context.Context, input *LogoutInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Auth.Logout(ctx, userID, input.Body.SessionID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Logged out successfully"}}, nil
}

func (s *Server) handleCurrentUser(ctx context.Context, _ *struct{}) (*UserOutput, error) {
	user, err := s.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	return &UserOutput{Body: mapUserResponse(user)}, nil
}

// === Mappers ===

func mapAuthResponse(resp *service.AuthResponse) AuthResponse {
	return AuthResponse{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		SessionID:    resp.SessionID,
		TokenType:    resp.TokenType,
		ExpiresIn:    resp.ExpiresIn,
		User:         mapUserResponse(resp.User),
	}
}

func mapUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        user.Role,
		IsRoot:      user.IsRoot,
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
		LastLoginAt: user.LastLoginAt,
	}
}

func extractIP(xForwardedFor, xRealIP string) string {
	if xForwardedFor != "" {
		for i := 0; i < len(xForwardedFor); i++ {
			if xForwardedFor[i] == ',' {
				return xForwardedFor[:i]
			}
		}
		return xForwardedFor
	}
	return xRealIP
}
