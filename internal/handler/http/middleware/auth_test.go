package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/grafik-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJWT() jwt.Service {
	return jwt.NewJWTService("middleware-test-secret", "1h", "24h")
}

// echoPrincipal records the principal the chain stored.
func echoPrincipal(got *auth.Principal, seen *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got, *seen = auth.PrincipalFrom(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuthRequired(t *testing.T) {
	svc := newJWT()
	chain := func(next http.Handler) http.Handler {
		return jwtauth.Verifier(svc.JWTAuth())(AuthRequired(svc.JWTAuth())(next))
	}

	t.Run("access token sets the principal", func(t *testing.T) {
		token, _, err := svc.GenerateAccessToken(42, "anna@example.com", true)
		require.NoError(t, err)

		var got auth.Principal
		var seen bool
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		chain(echoPrincipal(&got, &seen)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		require.True(t, seen)
		assert.Equal(t, auth.Principal{UserID: 42, Email: "anna@example.com", IsAdmin: true}, got)
	})

	t.Run("refresh token is refused", func(t *testing.T) {
		token, _, err := svc.GenerateRefreshToken(42)
		require.NoError(t, err)

		var got auth.Principal
		var seen bool
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		chain(echoPrincipal(&got, &seen)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, seen)
	})

	t.Run("missing token", func(t *testing.T) {
		var got auth.Principal
		var seen bool
		rec := httptest.NewRecorder()
		chain(echoPrincipal(&got, &seen)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, seen)
	})
}

func TestAdminOnly(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name      string
		principal *auth.Principal
		want      int
	}{
		{"admin passes", &auth.Principal{UserID: 1, IsAdmin: true}, http.StatusNoContent},
		{"worker is forbidden", &auth.Principal{UserID: 3}, http.StatusForbidden},
		{"no principal", nil, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.principal != nil {
				req = req.WithContext(auth.WithPrincipal(req.Context(), *tt.principal))
			}
			rec := httptest.NewRecorder()
			AdminOnly(next).ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestStreamAuth(t *testing.T) {
	svc := newJWT()

	t.Run("sse token in the query", func(t *testing.T) {
		token, _, err := svc.GenerateSSEToken(5)
		require.NoError(t, err)

		var got auth.Principal
		var seen bool
		rec := httptest.NewRecorder()
		StreamAuth(svc)(echoPrincipal(&got, &seen)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/events?token="+token, nil))

		assert.Equal(t, http.StatusNoContent, rec.Code)
		require.True(t, seen)
		assert.Equal(t, int64(5), got.UserID)
		assert.False(t, got.IsAdmin)
	})

	t.Run("access token is not an sse token", func(t *testing.T) {
		token, _, err := svc.GenerateAccessToken(5, "a@example.com", false)
		require.NoError(t, err)

		var got auth.Principal
		var seen bool
		rec := httptest.NewRecorder()
		StreamAuth(svc)(echoPrincipal(&got, &seen)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/events?token="+token, nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, seen)
	})

	t.Run("bearer access token", func(t *testing.T) {
		token, _, err := svc.GenerateAccessToken(5, "a@example.com", false)
		require.NoError(t, err)

		var got auth.Principal
		var seen bool
		req := httptest.NewRequest(http.MethodGet, "/events", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		StreamAuth(svc)(echoPrincipal(&got, &seen)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, int64(5), got.UserID)
	})
}
