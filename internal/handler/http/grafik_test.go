package http

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/department"
	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/grafik"
	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/grafik-backend-go/internal/pkg/sse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGrafikService struct {
	grafik.GrafikService
	err      error
	count    int
	upserted grafik.UpsertEntryRequest
}

func (f *fakeGrafikService) Upsert(ctx context.Context, viewer auth.Principal, req grafik.UpsertEntryRequest) (grafik.UpsertEntryResponse, error) {
	f.upserted = req
	if f.err != nil {
		return grafik.UpsertEntryResponse{}, f.err
	}
	return grafik.UpsertEntryResponse{Success: true, Skrot: "D", Kolor: "#FFEE00"}, nil
}

func (f *fakeGrafikService) Delete(ctx context.Context, viewer auth.Principal, req grafik.DeleteEntryRequest) error {
	return f.err
}

func (f *fakeGrafikService) AutoPlan(ctx context.Context, viewer auth.Principal, req grafik.AutoPlanRequest) (int, error) {
	return f.count, f.err
}

type fakeDepartmentService struct {
	department.DepartmentService
}

// Access makes every user a member of department 1 only.
func (fakeDepartmentService) Access(ctx context.Context, userID int64, isAdmin bool) (department.Access, error) {
	return department.Access{
		UserID:  userID,
		IsAdmin: isAdmin,
		Memberships: map[int64]department.Membership{
			1: {UserID: userID, DepartmentID: 1, IsMain: true},
		},
	}, nil
}

type fakeUserService struct {
	user.UserService
}

func (fakeUserService) Me(ctx context.Context, id int64) (user.UserResponse, error) {
	return user.UserResponse{ID: id, Email: "anna@example.com"}, nil
}

func withPrincipal(r *http.Request, p auth.Principal) *http.Request {
	return r.WithContext(auth.WithPrincipal(r.Context(), p))
}

func decodeFlat(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestGrafikHandler_Upsert(t *testing.T) {
	worker := auth.Principal{UserID: 3}
	validBody := `{"employeeId":3,"departmentId":1,"date":"2025-03-04","shiftTypeId":2}`

	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
		wantBody   map[string]interface{}
	}{
		{
			name:       "success returns the flat cell body",
			body:       validBody,
			wantStatus: http.StatusOK,
			wantBody:   map[string]interface{}{"success": true, "skrot": "D", "kolor": "#FFEE00"},
		},
		{
			name:       "malformed json",
			body:       `{"employeeId":`,
			wantStatus: http.StatusBadRequest,
			wantBody:   map[string]interface{}{"error": "Nieprawidłowe dane żądania"},
		},
		{
			name:       "shift type not available carries the user message",
			body:       validBody,
			err:        grafik.NotAvailableError("Dyżur"),
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   map[string]interface{}{"error": `Typ "Dyżur" nie jest dostępny w tym departamencie.`},
		},
		{
			name:       "forbidden",
			body:       validBody,
			err:        grafik.ErrForbidden,
			wantStatus: http.StatusForbidden,
			wantBody:   map[string]interface{}{"error": "Brak uprawnień"},
		},
		{
			name:       "unexpected errors are not leaked",
			body:       validBody,
			err:        errors.New("connection reset"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   map[string]interface{}{"error": "Wystąpił błąd serwera"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeGrafikService{err: tt.err}
			h := NewGrafikHandler(svc, fakeDepartmentService{}, fakeUserService{}, sse.NewHub())

			req := withPrincipal(httptest.NewRequest(http.MethodPost, "/api/v1/grafik/entries", strings.NewReader(tt.body)), worker)
			rec := httptest.NewRecorder()
			h.Upsert(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantBody, decodeFlat(t, rec))
		})
	}
}

func TestGrafikHandler_Upsert_ValidationError(t *testing.T) {
	svc := &fakeGrafikService{}
	h := NewGrafikHandler(svc, fakeDepartmentService{}, fakeUserService{}, sse.NewHub())

	req := withPrincipal(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"employeeId":3,"date":"04.03.2025"}`)), auth.Principal{UserID: 3})
	rec := httptest.NewRecorder()
	h.Upsert(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotEmpty(t, decodeFlat(t, rec)["error"])
	assert.Zero(t, svc.upserted.EmployeeID, "service must not be called")
}

func TestGrafikHandler_Upsert_Unauthenticated(t *testing.T) {
	h := NewGrafikHandler(&fakeGrafikService{}, fakeDepartmentService{}, fakeUserService{}, sse.NewHub())

	rec := httptest.NewRecorder()
	h.Upsert(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`)))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGrafikHandler_DeleteAndAutoPlan(t *testing.T) {
	admin := auth.Principal{UserID: 1, IsAdmin: true}
	svc := &fakeGrafikService{count: 0}
	h := NewGrafikHandler(svc, fakeDepartmentService{}, fakeUserService{}, sse.NewHub())

	rec := httptest.NewRecorder()
	h.Delete(rec, withPrincipal(httptest.NewRequest(http.MethodDelete, "/",
		strings.NewReader(`{"employeeId":3,"departmentId":1,"date":"2025-03-04"}`)), admin))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())

	rec = httptest.NewRecorder()
	h.AutoPlan(rec, withPrincipal(httptest.NewRequest(http.MethodPost, "/",
		strings.NewReader(`{"departmentId":1,"year":2025,"month":3}`)), admin))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"count":0}`, rec.Body.String())

	svc.err = grafik.AutoPlanNotSetError()
	rec = httptest.NewRecorder()
	h.AutoPlan(rec, withPrincipal(httptest.NewRequest(http.MethodPost, "/",
		strings.NewReader(`{"departmentId":1,"year":2025,"month":3}`)), admin))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decodeFlat(t, rec)["error"], "Brak skonfigurowanych typów zmian")
}

func TestGrafikHandler_Events(t *testing.T) {
	hub := sse.NewHub()
	h := NewGrafikHandler(&fakeGrafikService{}, fakeDepartmentService{}, fakeUserService{}, hub)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.Events(w, withPrincipal(r, auth.Principal{UserID: 3}))
	}))
	defer server.Close()

	t.Run("department outside the memberships is refused", func(t *testing.T) {
		resp, err := http.Get(server.URL + "?department=2")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("missing department", func(t *testing.T) {
		resp, err := http.Get(server.URL)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("streams updates of the department", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"?department=1", nil)
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

		lines := bufio.NewScanner(resp.Body)
		require.True(t, lines.Scan())
		assert.Equal(t, "event: connected", lines.Text())

		require.Eventually(t, func() bool {
			return hub.SubscriberCount(grafik.Topic(1)) == 1
		}, time.Second, 10*time.Millisecond)
		hub.Publish(grafik.Topic(1), sse.Event{
			Topic: grafik.Topic(1),
			Event: grafik.EventUpdated,
			Data:  map[string]int{"year": 2025, "month": 3},
		})

		var got []string
		for lines.Scan() {
			if lines.Text() == "" {
				continue
			}
			got = append(got, lines.Text())
			if strings.HasPrefix(lines.Text(), "data: {\"month\"") {
				break
			}
		}
		assert.Contains(t, got, "event: grafik.updated")
		assert.Contains(t, got, `data: {"month":3,"year":2025}`)
	})
}
