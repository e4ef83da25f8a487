package jwt

import (
	"net/http"
	"testing"
	"time"

	"github.com/presencehr/attendance-backend-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-jwt"

func TestGenerateAccessToken(t *testing.T) {
	svc := NewJWTService(testSecret, "1h", "24h")

	token, expiresAt, err := svc.GenerateAccessToken("user-1", "ada@example.com", user.RoleHR)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Greater(t, expiresAt, time.Now().Unix())

	decoded, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)

	userID, _ := decoded.Get("user_id")
	assert.Equal(t, "user-1", userID)
	email, _ := decoded.Get("email")
	assert.Equal(t, "ada@example.com", email)
	role, _ := decoded.Get("role")
	assert.Equal(t, "HR", role)
	tokenType, _ := decoded.Get("type")
	assert.Equal(t, "access", tokenType)
}

func TestGenerateAccessToken_InvalidExpiration(t *testing.T) {
	svc := NewJWTService(testSecret, "not-a-duration", "24h")

	_, _, err := svc.GenerateAccessToken("user-1", "ada@example.com", user.RoleEmployee)
	assert.Error(t, err)
}

func TestDecodeRefreshToken(t *testing.T) {
	svc := NewJWTService(testSecret, "1h", "24h")

	token, _, err := svc.GenerateRefreshToken("user-42")
	require.NoError(t, err)

	userID, err := svc.DecodeRefreshToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "user-42", userID)
}

func TestDecodeRefreshToken_RejectsAccessToken(t *testing.T) {
	svc := NewJWTService(testSecret, "1h", "24h")

	accessToken, _, err := svc.GenerateAccessToken("user-42", "ada@example.com", user.RoleEmployee)
	require.NoError(t, err)

	_, err = svc.DecodeRefreshToken(accessToken)
	assert.Error(t, err)
}

func TestDecodeRefreshToken_RejectsWrongSecret(t *testing.T) {
	issuer := NewJWTService("another-secret", "1h", "24h")
	verifier := NewJWTService(testSecret, "1h", "24h")

	token, _, err := issuer.GenerateRefreshToken("user-42")
	require.NoError(t, err)

	_, err = verifier.DecodeRefreshToken(token)
	assert.Error(t, err)
}

func TestRefreshTokenCookie(t *testing.T) {
	svc := NewJWTService(testSecret, "1h", "24h")
	expiresAt := time.Now().Add(24 * time.Hour).Unix()

	cookie := svc.RefreshTokenCookie("some-token", expiresAt)
	assert.Equal(t, "refresh_token", cookie.Name)
	assert.Equal(t, "some-token", cookie.Value)
	assert.Equal(t, "/api/v1/auth", cookie.Path)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
	assert.Equal(t, time.Unix(expiresAt, 0).Unix(), cookie.Expires.Unix())
}
