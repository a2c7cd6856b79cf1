package auth_test

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundfolio/soundfolio-server/internal/auth"
	"github.com/soundfolio/soundfolio-server/internal/domain"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := auth.HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))

	ok, err := auth.VerifyPassword(hash, "correct horse battery staple")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = auth.VerifyPassword(hash, "wrong password")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPassword_EmptyPassword(t *testing.T) {
	_, err := auth.HashPassword("")
	assert.Error(t, err)
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	first, err := auth.HashPassword("same password")
	require.NoError(t, err)

	second, err := auth.HashPassword("same password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	tests := []struct {
		name string
		hash string
	}{
		{"empty", ""},
		{"garbage", "not-a-hash"},
		{"wrong algorithm", "$bcrypt$v=19$m=65536,t=3,p=4$c2FsdA$aGFzaA"},
		{"missing sections", "$argon2id$v=19$m=65536,t=3,p=4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := auth.VerifyPassword(tt.hash, "whatever")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func testTokenService(t *testing.T, accessDuration time.Duration) *auth.TokenService {
	t.Helper()

	keyHex := strings.Repeat("ab", 32)
	svc, err := auth.NewTokenService(keyHex, accessDuration, 30*24*time.Hour)
	require.NoError(t, err)
	return svc
}

func TestNewTokenService_RejectsBadKeys(t *testing.T) {
	_, err := auth.NewTokenService("too-short", time.Hour, time.Hour)
	assert.Error(t, err)

	_, err = auth.NewTokenService(strings.Repeat("zz", 32), time.Hour, time.Hour)
	assert.Error(t, err)
}

func TestAccessToken_RoundTrip(t *testing.T) {
	svc := testTokenService(t, time.Hour)

	user := &domain.User{
		Email:       "owner@example.com",
		DisplayName: "Owner",
		Role:        domain.RoleAdmin,
	}
	user.ID = "user-abc123"

	token, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(token, "v4.local."))

	claims, err := svc.VerifyAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-abc123", claims.UserID)
	assert.Equal(t, "owner@example.com", claims.Email)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
	assert.Equal(t, "user-abc123", claims.Subject)
	assert.NotEmpty(t, claims.TokenID)
}

func TestAccessToken_Expired(t *testing.T) {
	svc := testTokenService(t, -time.Minute)

	user := &domain.User{Email: "owner@example.com", Role: domain.RoleAdmin}
	user.ID = "user-abc123"

	token, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)

	_, err = svc.VerifyAccessToken(token)
	assert.Error(t, err)
}

func TestAccessToken_WrongKey(t *testing.T) {
	svc := testTokenService(t, time.Hour)

	other, err := auth.NewTokenService(strings.Repeat("cd", 32), time.Hour, time.Hour)
	require.NoError(t, err)

	user := &domain.User{Email: "owner@example.com", Role: domain.RoleAdmin}
	user.ID = "user-abc123"

	token, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)

	_, err = other.VerifyAccessToken(token)
	assert.Error(t, err)
}

func TestVerifyAccessToken_Garbage(t *testing.T) {
	svc := testTokenService(t, time.Hour)

	_, err := svc.VerifyAccessToken("v4.local.definitely-not-a-token")
	assert.Error(t, err)
}

func TestRefreshToken_HashIsStable(t *testing.T) {
	svc := testTokenService(t, time.Hour)

	token, err := svc.GenerateRefreshToken()
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	// Same token always hashes the same, different tokens don't collide.
	assert.Equal(t, auth.HashRefreshToken(token), auth.HashRefreshToken(token))

	other, err := svc.GenerateRefreshToken()
	require.NoError(t, err)
	assert.NotEqual(t, auth.HashRefreshToken(token), auth.HashRefreshToken(other))
	assert.NotEqual(t, token, auth.HashRefreshToken(token))
}

func TestLoadOrGenerateKey_Persists(t *testing.T) {
	dir := t.TempDir()

	first, err := auth.LoadOrGenerateKey(dir)
	require.NoError(t, err)
	assert.Len(t, first, 32)

	// The same key comes back on subsequent loads.
	second, err := auth.LoadOrGenerateKey(dir)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// And it round-trips through the hex file on disk.
	raw, err := os.ReadFile(filepath.Join(dir, "auth.key"))
	require.NoError(t, err)
	decoded, err := hex.DecodeString(strings.TrimSpace(string(raw)))
	require.NoError(t, err)
	assert.Equal(t, first, decoded)
}

func TestLoadOrGenerateKey_RejectsCorruptKey(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "auth.key"), []byte("not hex at all"), 0o600))

	_, err := auth.LoadOrGenerateKey(dir)
	assert.Error(t, err)
}
