package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/department"
	"github.com/cmlabs-hris/grafik-backend-go/internal/handler/http/response"
)

type DepartmentHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Members(w http.ResponseWriter, r *http.Request)
	SyncMembers(w http.ResponseWriter, r *http.Request)
	Staff(w http.ResponseWriter, r *http.Request)
	UpdateStaff(w http.ResponseWriter, r *http.Request)
}

type departmentHandlerImpl struct {
	departmentService department.DepartmentService
}

func NewDepartmentHandler(departmentService department.DepartmentService) DepartmentHandler {
	return &departmentHandlerImpl{departmentService: departmentService}
}

// List implements DepartmentHandler. Non-admins only see departments they
// belong to.
func (h *departmentHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalOf(w, r)
	if !ok {
		return
	}
	if principal.IsAdmin {
		all, err := h.departmentService.List(r.Context())
		if err != nil {
			response.HandleError(w, err)
			return
		}
		response.Success(w, all)
		return
	}

	access, err := h.departmentService.Access(r.Context(), principal.UserID, principal.IsAdmin)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	accessible, err := h.departmentService.Accessible(r.Context(), access)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	out := make([]department.DepartmentResponse, 0, len(accessible))
	for _, d := range accessible {
		out = append(out, department.NewDepartmentResponse(d))
	}
	response.Success(w, out)
}

// Get implements DepartmentHandler.
func (h *departmentHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	d, err := h.departmentService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, d)
}

// Create implements DepartmentHandler.
func (h *departmentHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req department.CreateDepartmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}
	d, err := h.departmentService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Department created successfully", d)
}

// Update implements DepartmentHandler.
func (h *departmentHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var req department.UpdateDepartmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = id
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}
	d, err := h.departmentService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Department updated successfully", d)
}

// Delete implements DepartmentHandler.
func (h *departmentHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.departmentService.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Department deleted successfully", nil)
}

// Members implements DepartmentHandler.
func (h *departmentHandlerImpl) Members(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	members, err := h.departmentService.Members(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, members)
}

// SyncMembers implements DepartmentHandler.
func (h *departmentHandlerImpl) SyncMembers(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var req department.SyncMembersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.DepartmentID = id
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}
	members, err := h.departmentService.SyncMembers(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Members updated successfully", members)
}

// Staff implements DepartmentHandler.
func (h *departmentHandlerImpl) Staff(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	access, ok := h.access(w, r)
	if !ok {
		return
	}
	staff, err := h.departmentService.Staff(r.Context(), access, id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, staff)
}

// UpdateStaff implements DepartmentHandler.
func (h *departmentHandlerImpl) UpdateStaff(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	access, ok := h.access(w, r)
	if !ok {
		return
	}
	var req department.UpdateStaffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.DepartmentID = id
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}
	staff, err := h.departmentService.UpdateStaff(r.Context(), access, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Dane pracowników zostały zapisane.", staff)
}

func (h *departmentHandlerImpl) access(w http.ResponseWriter, r *http.Request) (department.Access, bool) {
	principal, ok := principalOf(w, r)
	if !ok {
		return department.Access{}, false
	}
	access, err := h.departmentService.Access(r.Context(), principal.UserID, principal.IsAdmin)
	if err != nil {
		response.HandleError(w, err)
		return department.Access{}, false
	}
	return access, true
}
