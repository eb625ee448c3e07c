package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/grafik-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/grafik-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

// AuthRequired accepts access tokens only and stores the caller as an
// auth.Principal in the request context.
func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())

			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			if token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			tokenType, ok := claims["type"].(string)
			if tokenType != "access" || !ok {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}
			userID, ok := jwt.UserIDFromClaims(claims)
			if !ok {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}
			email, _ := claims["email"].(string)

			ctx := auth.WithPrincipal(r.Context(), auth.Principal{
				UserID:  userID,
				Email:   email,
				IsAdmin: jwt.IsAdminFromClaims(claims),
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(hfn)
	}
}

// StreamAuth authenticates event streams. Browsers cannot set headers on an
// EventSource, so a short-lived SSE token in ?token= is accepted as well as
// a regular access token. SSE tokens carry no admin flag; handlers that
// need it must load the user.
func StreamAuth(svc jwt.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		bearer := jwtauth.Verifier(svc.JWTAuth())(AuthRequired(svc.JWTAuth())(next))
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.URL.Query().Get("token")
			if token == "" {
				bearer.ServeHTTP(w, r)
				return
			}
			userID, err := svc.ValidateSSEToken(token)
			if err != nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}
			ctx := auth.WithPrincipal(r.Context(), auth.Principal{UserID: userID})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
