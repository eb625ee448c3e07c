package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/holiday"
	"github.com/cmlabs-hris/grafik-backend-go/internal/handler/http/response"
)

type HolidayHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	ListDaysOff(w http.ResponseWriter, r *http.Request)
	CreateDayOff(w http.ResponseWriter, r *http.Request)
	UpdateDayOff(w http.ResponseWriter, r *http.Request)
	DeleteDayOff(w http.ResponseWriter, r *http.Request)
}

type holidayHandlerImpl struct {
	holidayService holiday.HolidayService
	now            func() time.Time
}

func NewHolidayHandler(holidayService holiday.HolidayService) HolidayHandler {
	return &holidayHandlerImpl{holidayService: holidayService, now: time.Now}
}

func (h *holidayHandlerImpl) year(r *http.Request) int {
	if y := queryInt(r, "year"); y > 0 {
		return y
	}
	return h.now().Year()
}

// List handles GET /holidays?year= and merges public holidays with
// company days off.
func (h *holidayHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	holidays, err := h.holidayService.ForYear(r.Context(), h.year(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, holidays)
}

// ListDaysOff implements HolidayHandler.
func (h *holidayHandlerImpl) ListDaysOff(w http.ResponseWriter, r *http.Request) {
	days, err := h.holidayService.ListDaysOff(r.Context(), h.year(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, days)
}

// CreateDayOff implements HolidayHandler.
func (h *holidayHandlerImpl) CreateDayOff(w http.ResponseWriter, r *http.Request) {
	var req holiday.CreateDayOffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}
	day, err := h.holidayService.CreateDayOff(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Day off created successfully", day)
}

// UpdateDayOff implements HolidayHandler.
func (h *holidayHandlerImpl) UpdateDayOff(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var req holiday.UpdateDayOffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = id
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}
	day, err := h.holidayService.UpdateDayOff(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Day off updated successfully", day)
}

// DeleteDayOff implements HolidayHandler.
func (h *holidayHandlerImpl) DeleteDayOff(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.holidayService.DeleteDayOff(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Day off deleted successfully", nil)
}
