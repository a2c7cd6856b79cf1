package auth

import (
	"time"

	"github.com/soundfolio/soundfolio-server/internal/domain"
)

// AccessClaims represents the claims stored in a PASETO access token.
// v4.local tokens are encrypted, so none of this is readable without the key,
// but the store stays authoritative: role changes take effect on the next
// request, not the next token refresh.
type AccessClaims struct {
	UserID string      `json:"user_id"`
	Email  string      `json:"email"`
	Role   domain.Role `json:"role"`

	// Standard PASETO claims
	Issuer     string    `json:"iss"`
	Subject    string    `json:"sub"`
	Audience   string    `json:"aud"`
	Expiration time.Time `json:"exp"`
	NotBefore  time.Time `json:"nbf"`
	IssuedAt   time.Time `json:"iat"`
	TokenID    string    `json:"jti"`
}
