package http

import (
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/grafik-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

// principalOf returns the caller set by middleware.AuthRequired and writes
// 401 when it is missing.
func principalOf(w http.ResponseWriter, r *http.Request) (auth.Principal, bool) {
	p, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
	}
	return p, ok
}

// idParam parses a positive int64 URL parameter and writes 400 otherwise.
func idParam(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(w, "invalid "+name+" parameter", nil)
		return 0, false
	}
	return id, true
}

// queryInt64 returns 0 for a missing or malformed query value.
func queryInt64(r *http.Request, name string) int64 {
	v, err := strconv.ParseInt(r.URL.Query().Get(name), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

func queryInt(r *http.Request, name string) int {
	return int(queryInt64(r, name))
}
