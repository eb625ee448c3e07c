package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/podanie"
	"github.com/cmlabs-hris/grafik-backend-go/internal/handler/http/response"
)

type PodanieHandler interface {
	Form(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	PDF(w http.ResponseWriter, r *http.Request)
}

type podanieHandlerImpl struct {
	podanieService podanie.PodanieService
}

func NewPodanieHandler(podanieService podanie.PodanieService) PodanieHandler {
	return &podanieHandlerImpl{podanieService: podanieService}
}

// Form handles GET /podania/form?shiftType=&from=&to=&employee=
func (h *podanieHandlerImpl) Form(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalOf(w, r)
	if !ok {
		return
	}
	req := podanie.FormRequest{
		EmployeeID: queryInt64(r, "employee"),
		DateFrom:   r.URL.Query().Get("from"),
		DateTo:     r.URL.Query().Get("to"),
	}
	if id := queryInt64(r, "shiftType"); id > 0 {
		req.ShiftTypeID = &id
	}

	form, err := h.podanieService.Form(r.Context(), principal, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, form)
}

// Create implements PodanieHandler.
func (h *podanieHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalOf(w, r)
	if !ok {
		return
	}
	var req podanie.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	created, err := h.podanieService.Create(r.Context(), principal, req)
	if err != nil {
		slog.Error("Create leave request error", "error", err, "user_id", principal.UserID)
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Podanie zostało złożone", created)
}

// List implements PodanieHandler.
func (h *podanieHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalOf(w, r)
	if !ok {
		return
	}
	requests, err := h.podanieService.List(r.Context(), principal)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, requests)
}

// Get implements PodanieHandler.
func (h *podanieHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalOf(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	req, err := h.podanieService.Get(r.Context(), principal, id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, req)
}

// Delete implements PodanieHandler.
func (h *podanieHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalOf(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.podanieService.Delete(r.Context(), principal, id); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Podanie zostało usunięte", nil)
}

// PDF handles GET /podania/{id}/pdf
func (h *podanieHandlerImpl) PDF(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalOf(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	name, data, err := h.podanieService.PDF(r.Context(), principal, id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.File(w, name, "application/pdf", data)
}
