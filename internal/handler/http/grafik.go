package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/department"
	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/grafik"
	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/grafik-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/grafik-backend-go/internal/pkg/sse"
)

type GrafikHandler interface {
	MonthView(w http.ResponseWriter, r *http.Request)
	Upsert(w http.ResponseWriter, r *http.Request)
	Batch(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	AutoPlan(w http.ResponseWriter, r *http.Request)
	Events(w http.ResponseWriter, r *http.Request)
}

type grafikHandlerImpl struct {
	grafikService     grafik.GrafikService
	departmentService department.DepartmentService
	userService       user.UserService
	hub               *sse.Hub
	keepalive         time.Duration
}

func NewGrafikHandler(grafikService grafik.GrafikService, departmentService department.DepartmentService, userService user.UserService, hub *sse.Hub) GrafikHandler {
	return &grafikHandlerImpl{
		grafikService:     grafikService,
		departmentService: departmentService,
		userService:       userService,
		hub:               hub,
		keepalive:         30 * time.Second,
	}
}

// MonthView handles GET /grafik?department=&year=&month=
func (h *grafikHandlerImpl) MonthView(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalOf(w, r)
	if !ok {
		return
	}
	view, err := h.grafikService.MonthView(r.Context(), principal, grafik.MonthViewRequest{
		DepartmentID: queryInt64(r, "department"),
		Year:         queryInt(r, "year"),
		Month:        queryInt(r, "month"),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, view)
}

// decodeGrid decodes and validates a flat grid body, writing {error} on
// failure.
func decodeGrid(w http.ResponseWriter, r *http.Request, dst interface{ Validate() error }) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.GridError(w, grafik.ErrInvalidBody)
		return false
	}
	if err := dst.Validate(); err != nil {
		response.GridError(w, err)
		return false
	}
	return true
}

// Upsert handles POST /grafik/entries
func (h *grafikHandlerImpl) Upsert(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalOf(w, r)
	if !ok {
		return
	}
	var req grafik.UpsertEntryRequest
	if !decodeGrid(w, r, &req) {
		return
	}
	resp, err := h.grafikService.Upsert(r.Context(), principal, req)
	if err != nil {
		response.GridError(w, err)
		return
	}
	response.GridSuccess(w, resp)
}

// Batch handles POST /grafik/entries/batch
func (h *grafikHandlerImpl) Batch(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalOf(w, r)
	if !ok {
		return
	}
	var req grafik.BatchEntriesRequest
	if !decodeGrid(w, r, &req) {
		return
	}
	resp, err := h.grafikService.Batch(r.Context(), principal, req)
	if err != nil {
		response.GridError(w, err)
		return
	}
	response.GridSuccess(w, resp)
}

// Delete handles DELETE /grafik/entries
func (h *grafikHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalOf(w, r)
	if !ok {
		return
	}
	var req grafik.DeleteEntryRequest
	if !decodeGrid(w, r, &req) {
		return
	}
	if err := h.grafikService.Delete(r.Context(), principal, req); err != nil {
		response.GridError(w, err)
		return
	}
	response.GridSuccess(w, grafik.DeleteEntryResponse{Success: true})
}

// AutoPlan handles POST /grafik/auto-plan
func (h *grafikHandlerImpl) AutoPlan(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalOf(w, r)
	if !ok {
		return
	}
	var req grafik.AutoPlanRequest
	if !decodeGrid(w, r, &req) {
		return
	}
	count, err := h.grafikService.AutoPlan(r.Context(), principal, req)
	if err != nil {
		response.GridError(w, err)
		return
	}
	response.GridSuccess(w, grafik.AutoPlanResponse{Success: true, Count: count})
}

// Events streams grafik.updated events of one department as SSE.
func (h *grafikHandlerImpl) Events(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalOf(w, r)
	if !ok {
		return
	}
	departmentID := queryInt64(r, "department")
	if departmentID <= 0 {
		response.BadRequest(w, "department is required", nil)
		return
	}

	// Stream tokens carry no admin flag, so read it from the account.
	me, err := h.userService.Me(r.Context(), principal.UserID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	access, err := h.departmentService.Access(r.Context(), me.ID, me.IsAdmin)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if !access.CanView(departmentID) {
		response.HandleError(w, department.ErrForbidden)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		response.InternalServerError(w, "Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	topic := grafik.Topic(departmentID)
	events, cleanup := h.hub.Subscribe(topic)
	defer cleanup()
	slog.Debug("grid stream opened", "topic", topic, "subscribers", h.hub.SubscriberCount(topic))

	fmt.Fprintf(w, "event: connected\ndata: {\"department_id\":%d}\n\n", departmentID)
	flusher.Flush()

	keepalive := time.NewTicker(h.keepalive)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(event.Data)
			if err != nil {
				slog.Error("failed to encode grid event", "error", err, "topic", event.Topic)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Event, data)
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
