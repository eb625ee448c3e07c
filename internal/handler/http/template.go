package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/podanie"
	"github.com/cmlabs-hris/grafik-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/grafik-backend-go/internal/pkg/placeholder"
	"github.com/go-chi/chi/v5"
)

// TemplateHandler serves the admin side of request forms: templates and
// the two dictionaries.
type TemplateHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Preview(w http.ResponseWriter, r *http.Request)
	Import(w http.ResponseWriter, r *http.Request)
	Placeholders(w http.ResponseWriter, r *http.Request)

	ListDictionary(w http.ResponseWriter, r *http.Request)
	CreateDictionaryItem(w http.ResponseWriter, r *http.Request)
	UpdateDictionaryItem(w http.ResponseWriter, r *http.Request)
	DeleteDictionaryItem(w http.ResponseWriter, r *http.Request)
}

type templateHandlerImpl struct {
	templateService podanie.TemplateService
}

func NewTemplateHandler(templateService podanie.TemplateService) TemplateHandler {
	return &templateHandlerImpl{templateService: templateService}
}

// List implements TemplateHandler.
func (h *templateHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	templates, err := h.templateService.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, templates)
}

// Get implements TemplateHandler.
func (h *templateHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	t, err := h.templateService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, t)
}

// Create implements TemplateHandler.
func (h *templateHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req podanie.SaveTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}
	t, err := h.templateService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Template created successfully", t)
}

// Update implements TemplateHandler.
func (h *templateHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var req podanie.SaveTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = id
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}
	t, err := h.templateService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Template updated successfully", t)
}

// Delete implements TemplateHandler.
func (h *templateHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.templateService.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Template deleted successfully", nil)
}

type previewRequest struct {
	BodyHTML string `json:"body_html"`
}

// Preview renders the posted body with sample data and returns the PDF inline.
func (h *templateHandlerImpl) Preview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	data, err := h.templateService.Preview(r.Context(), req.BodyHTML)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Inline(w, "application/pdf", data)
}

// Import converts an uploaded DOCX ("file" field) into a template body the
// editor can load. Nothing is saved.
func (h *templateHandlerImpl) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, podanie.MaxImportBytes+1<<20)
	if err := r.ParseMultipartForm(podanie.MaxImportBytes); err != nil {
		response.HandleError(w, podanie.ErrImportTooLarge)
		return
	}
	f, header, err := r.FormFile("file")
	if err != nil {
		response.UnprocessableEntity(w, "Nie przesłano pliku.")
		return
	}
	defer f.Close()

	imported, err := h.templateService.Import(r.Context(), f, header.Filename)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, imported)
}

// Placeholders lists the markers a template body may contain.
func (h *templateHandlerImpl) Placeholders(w http.ResponseWriter, r *http.Request) {
	response.Success(w, placeholder.Reference())
}

func dictionaryKind(w http.ResponseWriter, r *http.Request) (podanie.DictionaryKind, bool) {
	kind := podanie.DictionaryKind(chi.URLParam(r, "kind"))
	if !kind.Valid() {
		response.HandleError(w, podanie.ErrUnknownDictionary)
		return "", false
	}
	return kind, true
}

// ListDictionary implements TemplateHandler.
func (h *templateHandlerImpl) ListDictionary(w http.ResponseWriter, r *http.Request) {
	kind, ok := dictionaryKind(w, r)
	if !ok {
		return
	}
	items, err := h.templateService.Dictionary(r.Context(), kind)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, items)
}

func (h *templateHandlerImpl) saveDictionaryItem(w http.ResponseWriter, r *http.Request, id int64) (podanie.DictionaryItemResponse, bool) {
	kind, ok := dictionaryKind(w, r)
	if !ok {
		return podanie.DictionaryItemResponse{}, false
	}
	var req podanie.SaveDictionaryItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return podanie.DictionaryItemResponse{}, false
	}
	req.Kind = kind
	req.ID = id
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return podanie.DictionaryItemResponse{}, false
	}
	item, err := h.templateService.SaveDictionaryItem(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return podanie.DictionaryItemResponse{}, false
	}
	return item, true
}

// CreateDictionaryItem implements TemplateHandler.
func (h *templateHandlerImpl) CreateDictionaryItem(w http.ResponseWriter, r *http.Request) {
	if item, ok := h.saveDictionaryItem(w, r, 0); ok {
		response.Created(w, "Dictionary item created successfully", item)
	}
}

// UpdateDictionaryItem implements TemplateHandler.
func (h *templateHandlerImpl) UpdateDictionaryItem(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	if item, ok := h.saveDictionaryItem(w, r, id); ok {
		response.SuccessWithMessage(w, "Dictionary item updated successfully", item)
	}
}

// DeleteDictionaryItem implements TemplateHandler.
func (h *templateHandlerImpl) DeleteDictionaryItem(w http.ResponseWriter, r *http.Request) {
	kind, ok := dictionaryKind(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.templateService.DeleteDictionaryItem(r.Context(), kind, id); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Dictionary item deleted successfully", nil)
}
