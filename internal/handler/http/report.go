package http

import (
	"net/http"
	"strings"

	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/department"
	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/grafik-backend-go/internal/handler/http/response"
)

type ReportHandler interface {
	// Vacation handles GET /admin/reports/vacation?department=&year=&format=
	Vacation(w http.ResponseWriter, r *http.Request)
	// DepartmentVacation handles GET /departments/{id}/reports/vacation?year=&format=
	// for administrators and heads of the department.
	DepartmentVacation(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService     report.ReportService
	departmentService department.DepartmentService
}

func NewReportHandler(reportService report.ReportService, departmentService department.DepartmentService) ReportHandler {
	return &reportHandlerImpl{
		reportService:     reportService,
		departmentService: departmentService,
	}
}

func (h *reportHandlerImpl) Vacation(w http.ResponseWriter, r *http.Request) {
	h.vacation(w, r, queryInt64(r, "department"))
}

func (h *reportHandlerImpl) DepartmentVacation(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	h.vacation(w, r, id)
}

func (h *reportHandlerImpl) vacation(w http.ResponseWriter, r *http.Request, departmentID int64) {
	ctx := r.Context()
	principal, ok := principalOf(w, r)
	if !ok {
		return
	}

	req := report.VacationReportRequest{
		DepartmentID: departmentID,
		Year:         queryInt(r, "year"),
		Format:       strings.ToLower(r.URL.Query().Get("format")),
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}
	access, err := h.departmentService.Access(ctx, principal.UserID, principal.IsAdmin)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	req.Access = access

	if req.Format == report.FormatJSON {
		rep, err := h.reportService.Vacation(ctx, req)
		if err != nil {
			response.HandleError(w, err)
			return
		}
		response.Success(w, rep)
		return
	}

	file, err := h.reportService.VacationFile(ctx, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.File(w, file.Name, file.ContentType, file.Data)
}
