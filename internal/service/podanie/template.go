package podanie

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/podanie"
	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/grafik-backend-go/internal/pkg/docx"
	"github.com/cmlabs-hris/grafik-backend-go/internal/pkg/pdf"
	"github.com/cmlabs-hris/grafik-backend-go/internal/pkg/placeholder"
)

type TemplateServiceImpl struct {
	podanie.TemplateRepository
	dictionaries podanie.DictionaryRepository
	settings     settings.SettingsService
	renderer     *pdf.Renderer
	now          func() time.Time
}

func NewTemplateService(templateRepository podanie.TemplateRepository, dictionaryRepository podanie.DictionaryRepository, settingsService settings.SettingsService, renderer *pdf.Renderer) podanie.TemplateService {
	return &TemplateServiceImpl{
		TemplateRepository: templateRepository,
		dictionaries:       dictionaryRepository,
		settings:           settingsService,
		renderer:           renderer,
		now:                time.Now,
	}
}

// List implements podanie.TemplateService.
func (s *TemplateServiceImpl) List(ctx context.Context) ([]podanie.TemplateResponse, error) {
	templates, err := s.TemplateRepository.List(ctx, false)
	if err != nil {
		return nil, err
	}
	out := make([]podanie.TemplateResponse, 0, len(templates))
	for _, t := range templates {
		out = append(out, podanie.NewTemplateResponse(t))
	}
	return out, nil
}

// Get implements podanie.TemplateService.
func (s *TemplateServiceImpl) Get(ctx context.Context, id int64) (podanie.TemplateResponse, error) {
	t, err := s.TemplateRepository.GetByID(ctx, id)
	if err != nil {
		return podanie.TemplateResponse{}, err
	}
	return podanie.NewTemplateResponse(t), nil
}

// uniqueFields drops duplicates and keeps the order of first appearance.
func uniqueFields(fields []string) []string {
	out := make([]string, 0, len(fields))
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out
}

// Create implements podanie.TemplateService. New templates are active
// unless the request says otherwise.
func (s *TemplateServiceImpl) Create(ctx context.Context, req podanie.SaveTemplateRequest) (podanie.TemplateResponse, error) {
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	t, err := s.TemplateRepository.Create(ctx, podanie.Template{
		Name:       strings.TrimSpace(req.Name),
		BodyHTML:   req.BodyHTML,
		FormFields: uniqueFields(req.FormFields),
		Active:     active,
	})
	if err != nil {
		return podanie.TemplateResponse{}, err
	}
	return podanie.NewTemplateResponse(t), nil
}

// Update implements podanie.TemplateService.
func (s *TemplateServiceImpl) Update(ctx context.Context, req podanie.SaveTemplateRequest) (podanie.TemplateResponse, error) {
	current, err := s.TemplateRepository.GetByID(ctx, req.ID)
	if err != nil {
		return podanie.TemplateResponse{}, err
	}
	current.Name = strings.TrimSpace(req.Name)
	current.BodyHTML = req.BodyHTML
	current.FormFields = uniqueFields(req.FormFields)
	if req.Active != nil {
		current.Active = *req.Active
	}
	if err := s.TemplateRepository.Update(ctx, current); err != nil {
		return podanie.TemplateResponse{}, err
	}
	return s.Get(ctx, req.ID)
}

// Delete implements podanie.TemplateService.
func (s *TemplateServiceImpl) Delete(ctx context.Context, id int64) error {
	return s.TemplateRepository.Delete(ctx, id)
}

// Preview implements podanie.TemplateService.
func (s *TemplateServiceImpl) Preview(ctx context.Context, body string) ([]byte, error) {
	company, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	html := placeholder.ReplaceSample(body, company.CompanyName, company.CompanyAddress, s.now())

	var logo *pdf.Logo
	data, typ, err := s.settings.Logo(ctx)
	if err != nil {
		return nil, err
	}
	if len(data) > 0 {
		logo = &pdf.Logo{Data: data, Type: typ}
	}
	return s.renderer.Document(html, logo)
}

var zipMagic = []byte("PK\x03\x04")

// Import implements podanie.TemplateService. Only DOCX is accepted; the file
// is recognised by its zip signature so a renamed .doc or PDF is refused.
func (s *TemplateServiceImpl) Import(ctx context.Context, r io.Reader, filename string) (podanie.ImportTemplateResponse, error) {
	data, err := io.ReadAll(io.LimitReader(r, podanie.MaxImportBytes+1))
	if err != nil {
		return podanie.ImportTemplateResponse{}, fmt.Errorf("read upload: %w", err)
	}
	if len(data) > podanie.MaxImportBytes {
		return podanie.ImportTemplateResponse{}, podanie.ErrImportTooLarge
	}
	if !bytes.HasPrefix(data, zipMagic) {
		return podanie.ImportTemplateResponse{}, podanie.ErrImportFormat
	}

	body, err := docx.ToHTML(data)
	if err != nil {
		return podanie.ImportTemplateResponse{}, err
	}
	// Browsers may send a full client path.
	name := filename[strings.LastIndexAny(filename, `/\`)+1:]
	return podanie.ImportTemplateResponse{HTML: body, Filename: name}, nil
}

// Dictionary implements podanie.TemplateService.
func (s *TemplateServiceImpl) Dictionary(ctx context.Context, kind podanie.DictionaryKind) ([]podanie.DictionaryItemResponse, error) {
	if !kind.Valid() {
		return nil, podanie.ErrUnknownDictionary
	}
	items, err := s.dictionaries.List(ctx, kind)
	if err != nil {
		return nil, err
	}
	out := make([]podanie.DictionaryItemResponse, 0, len(items))
	for _, i := range items {
		out = append(out, podanie.NewDictionaryItemResponse(i))
	}
	return out, nil
}

// SaveDictionaryItem implements podanie.TemplateService. A zero ID creates
// a new item.
func (s *TemplateServiceImpl) SaveDictionaryItem(ctx context.Context, req podanie.SaveDictionaryItemRequest) (podanie.DictionaryItemResponse, error) {
	item := podanie.DictionaryItem{ID: req.ID, Name: strings.TrimSpace(req.Name), Position: req.Position}
	if req.ID == 0 {
		created, err := s.dictionaries.Create(ctx, req.Kind, item)
		if err != nil {
			return podanie.DictionaryItemResponse{}, err
		}
		return podanie.NewDictionaryItemResponse(created), nil
	}
	if err := s.dictionaries.Update(ctx, req.Kind, item); err != nil {
		return podanie.DictionaryItemResponse{}, err
	}
	return podanie.NewDictionaryItemResponse(item), nil
}

// DeleteDictionaryItem implements podanie.TemplateService.
func (s *TemplateServiceImpl) DeleteDictionaryItem(ctx context.Context, kind podanie.DictionaryKind, id int64) error {
	return s.dictionaries.Delete(ctx, kind, id)
}
