package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/department"
	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/report"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStaffService makes user 7 the head of department 2.
type fakeStaffService struct {
	department.DepartmentService
	updated []department.UpdateStaffRequest
}

func (f *fakeStaffService) Access(ctx context.Context, userID int64, isAdmin bool) (department.Access, error) {
	access := department.Access{UserID: userID, IsAdmin: isAdmin, Memberships: map[int64]department.Membership{}}
	if userID == 7 {
		access.Memberships[2] = department.Membership{UserID: 7, DepartmentID: 2, IsHead: true}
	}
	return access, nil
}

func (f *fakeStaffService) Staff(ctx context.Context, access department.Access, departmentID int64) ([]department.MemberResponse, error) {
	if !access.CanEdit(departmentID) {
		return nil, department.ErrForbidden
	}
	return []department.MemberResponse{{UserID: 7, FullName: "Anna Nowak", LeaveDaysPerYear: 26}}, nil
}

func (f *fakeStaffService) UpdateStaff(ctx context.Context, access department.Access, req department.UpdateStaffRequest) ([]department.MemberResponse, error) {
	if !access.CanEdit(req.DepartmentID) {
		return nil, department.ErrForbidden
	}
	f.updated = append(f.updated, req)
	return nil, nil
}

func staffRouter(svc department.DepartmentService) http.Handler {
	h := NewDepartmentHandler(svc)
	r := chi.NewRouter()
	r.Get("/departments/{id}/staff", h.Staff)
	r.Put("/departments/{id}/staff", h.UpdateStaff)
	return r
}

func TestDepartmentHandler_Staff(t *testing.T) {
	tests := []struct {
		name       string
		principal  auth.Principal
		path       string
		wantStatus int
	}{
		{"head reads own department", auth.Principal{UserID: 7}, "/departments/2/staff", http.StatusOK},
		{"head of another department", auth.Principal{UserID: 7}, "/departments/1/staff", http.StatusForbidden},
		{"plain user", auth.Principal{UserID: 8}, "/departments/2/staff", http.StatusForbidden},
		{"admin reads any department", auth.Principal{UserID: 1, IsAdmin: true}, "/departments/1/staff", http.StatusOK},
		{"malformed id", auth.Principal{UserID: 7}, "/departments/x/staff", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := withPrincipal(httptest.NewRequest(http.MethodGet, tt.path, nil), tt.principal)
			rec := httptest.NewRecorder()

			staffRouter(&fakeStaffService{}).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestDepartmentHandler_UpdateStaff(t *testing.T) {
	body := `{"staff":[{"user_id":7,"address":"ul. Długa 1","leave_days_per_year":26,"position":1}]}`

	t.Run("head saves own department", func(t *testing.T) {
		svc := &fakeStaffService{}
		req := withPrincipal(httptest.NewRequest(http.MethodPut, "/departments/2/staff", strings.NewReader(body)), auth.Principal{UserID: 7})
		rec := httptest.NewRecorder()

		staffRouter(svc).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Len(t, svc.updated, 1)
		assert.Equal(t, int64(2), svc.updated[0].DepartmentID)
		assert.Equal(t, 26, *svc.updated[0].Staff[0].LeaveDaysPerYear)
		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Dane pracowników zostały zapisane.", resp["message"])
	})

	t.Run("head of another department is forbidden", func(t *testing.T) {
		svc := &fakeStaffService{}
		req := withPrincipal(httptest.NewRequest(http.MethodPut, "/departments/3/staff", strings.NewReader(body)), auth.Principal{UserID: 7})
		rec := httptest.NewRecorder()

		staffRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Empty(t, svc.updated)
	})

	t.Run("leave limit out of range", func(t *testing.T) {
		svc := &fakeStaffService{}
		bad := `{"staff":[{"user_id":7,"leave_days_per_year":0}]}`
		req := withPrincipal(httptest.NewRequest(http.MethodPut, "/departments/2/staff", strings.NewReader(bad)), auth.Principal{UserID: 7})
		rec := httptest.NewRecorder()

		staffRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Empty(t, svc.updated)
	})
}

type fakeReportService struct {
	report.ReportService
}

func (fakeReportService) Vacation(ctx context.Context, req report.VacationReportRequest) (report.VacationReport, error) {
	if !req.Access.CanEdit(req.DepartmentID) {
		return report.VacationReport{}, department.ErrForbidden
	}
	return report.VacationReport{DepartmentID: req.DepartmentID, Year: req.Year}, nil
}

func TestReportHandler_DepartmentVacation(t *testing.T) {
	h := NewReportHandler(fakeReportService{}, &fakeStaffService{})
	r := chi.NewRouter()
	r.Get("/departments/{id}/reports/vacation", h.DepartmentVacation)

	tests := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{"head downloads own department", "/departments/2/reports/vacation?year=2025", http.StatusOK},
		{"head of another department", "/departments/3/reports/vacation?year=2025", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := withPrincipal(httptest.NewRequest(http.MethodGet, tt.path, nil), auth.Principal{UserID: 7})
			rec := httptest.NewRecorder()

			r.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
