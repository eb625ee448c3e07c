package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/shifttype"
	"github.com/cmlabs-hris/grafik-backend-go/internal/handler/http/response"
)

type ShiftTypeHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	ToggleActive(w http.ResponseWriter, r *http.Request)
	Reorder(w http.ResponseWriter, r *http.Request)
}

type shiftTypeHandlerImpl struct {
	shiftTypeService shifttype.ShiftTypeService
}

func NewShiftTypeHandler(shiftTypeService shifttype.ShiftTypeService) ShiftTypeHandler {
	return &shiftTypeHandlerImpl{shiftTypeService: shiftTypeService}
}

// List implements ShiftTypeHandler.
func (h *shiftTypeHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	types, err := h.shiftTypeService.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, types)
}

// Get implements ShiftTypeHandler.
func (h *shiftTypeHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	st, err := h.shiftTypeService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, st)
}

// Create implements ShiftTypeHandler.
func (h *shiftTypeHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req shifttype.CreateShiftTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}
	st, err := h.shiftTypeService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Shift type created successfully", st)
}

// Update implements ShiftTypeHandler.
func (h *shiftTypeHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var req shifttype.UpdateShiftTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = id
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}
	st, err := h.shiftTypeService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Shift type updated successfully", st)
}

// Delete implements ShiftTypeHandler.
func (h *shiftTypeHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.shiftTypeService.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Shift type deleted successfully", nil)
}

// ToggleActive implements ShiftTypeHandler.
func (h *shiftTypeHandlerImpl) ToggleActive(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	st, err := h.shiftTypeService.ToggleActive(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, st)
}

// Reorder implements ShiftTypeHandler.
func (h *shiftTypeHandlerImpl) Reorder(w http.ResponseWriter, r *http.Request) {
	var req shifttype.ReorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}
	if err := h.shiftTypeService.Reorder(r.Context(), req); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Shift types reordered successfully", nil)
}
