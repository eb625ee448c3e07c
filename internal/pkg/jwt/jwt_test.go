package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() Service {
	return NewJWTService("test-secret-key", "1h", "24h")
}

func TestAccessTokenClaims(t *testing.T) {
	svc := newTestService()

	token, exp, err := svc.GenerateAccessToken(42, "anna@example.com", true)
	require.NoError(t, err)
	assert.Greater(t, exp, time.Now().Unix())

	decoded, err := jwtauth.VerifyToken(svc.JWTAuth(), token)
	require.NoError(t, err)
	claims, err := decoded.AsMap(context.Background())
	require.NoError(t, err)

	id, ok := UserIDFromClaims(claims)
	require.True(t, ok)
	assert.Equal(t, int64(42), id)
	assert.True(t, IsAdminFromClaims(claims))
	assert.Equal(t, "access", claims["type"])
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	svc := newTestService()

	token, _, err := svc.GenerateRefreshToken(7)
	require.NoError(t, err)

	id, err := svc.VerifyRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
}

func TestVerifyRefreshTokenRejectsAccessToken(t *testing.T) {
	svc := newTestService()

	token, _, err := svc.GenerateAccessToken(7, "a@example.com", false)
	require.NoError(t, err)

	_, err = svc.VerifyRefreshToken(token)
	assert.Error(t, err)
}

func TestSSEToken(t *testing.T) {
	svc := newTestService()

	token, expiresIn, err := svc.GenerateSSEToken(9)
	require.NoError(t, err)
	assert.Equal(t, 300, expiresIn)

	id, err := svc.ValidateSSEToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(9), id)

	_, err = svc.ValidateSSEToken("garbage")
	assert.Error(t, err)
}

func TestRevocation(t *testing.T) {
	svc := newTestService()

	assert.False(t, svc.IsTokenRevoked("abc"))
	svc.RevokeToken("abc")
	assert.True(t, svc.IsTokenRevoked("abc"))

	assert.Equal(t, 0, svc.PurgeRevoked(time.Hour))
	assert.Equal(t, 1, svc.PurgeRevoked(-time.Second))
	assert.False(t, svc.IsTokenRevoked("abc"))
}

func TestRefreshTokenCookie(t *testing.T) {
	svc := newTestService()
	c := svc.RefreshTokenCookie("tok", time.Now().Add(time.Hour).Unix())
	assert.Equal(t, "refresh_token", c.Name)
	assert.Equal(t, "/api/v1/auth", c.Path)
	assert.True(t, c.HttpOnly)
}
