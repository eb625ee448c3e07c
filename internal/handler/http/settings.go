package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/grafik-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/grafik-backend-go/internal/service/file"
)

type SettingsHandler interface {
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	UploadLogo(w http.ResponseWriter, r *http.Request)
	DeleteLogo(w http.ResponseWriter, r *http.Request)
}

type settingsHandlerImpl struct {
	settingsService settings.SettingsService
}

func NewSettingsHandler(settingsService settings.SettingsService) SettingsHandler {
	return &settingsHandlerImpl{settingsService: settingsService}
}

// Get implements SettingsHandler.
func (h *settingsHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	s, err := h.settingsService.Get(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, s)
}

// Update implements SettingsHandler.
func (h *settingsHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req settings.UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}
	s, err := h.settingsService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Settings updated successfully", s)
}

// UploadLogo handles multipart POST /settings/logo with the "logo" field.
func (h *settingsHandlerImpl) UploadLogo(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, file.MaxLogoBytes+1<<20)
	if err := r.ParseMultipartForm(file.MaxLogoBytes); err != nil {
		response.HandleError(w, settings.ErrLogoTooLarge)
		return
	}
	logo, header, err := r.FormFile("logo")
	if err != nil {
		response.BadRequest(w, "logo file is required", nil)
		return
	}
	defer logo.Close()

	s, err := h.settingsService.UploadLogo(r.Context(), logo, header.Size)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Logo uploaded successfully", s)
}

// DeleteLogo implements SettingsHandler.
func (h *settingsHandlerImpl) DeleteLogo(w http.ResponseWriter, r *http.Request) {
	s, err := h.settingsService.DeleteLogo(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Logo removed successfully", s)
}
