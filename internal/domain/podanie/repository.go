package podanie

import (
	"context"
	"io"
	"time"

	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/auth"
)

type TemplateRepository interface {
	Create(ctx context.Context, t Template) (Template, error)
	GetByID(ctx context.Context, id int64) (Template, error)
	List(ctx context.Context, onlyActive bool) ([]Template, error)
	Update(ctx context.Context, t Template) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

type DictionaryRepository interface {
	List(ctx context.Context, kind DictionaryKind) ([]DictionaryItem, error)
	GetByID(ctx context.Context, kind DictionaryKind, id int64) (DictionaryItem, error)
	Create(ctx context.Context, kind DictionaryKind, item DictionaryItem) (DictionaryItem, error)
	Update(ctx context.Context, kind DictionaryKind, item DictionaryItem) error
	Delete(ctx context.Context, kind DictionaryKind, id int64) error
	Count(ctx context.Context, kind DictionaryKind) (int64, error)
}

type RequestRepository interface {
	Create(ctx context.Context, r Request) (Request, error)
	// GetByID returns the request with its joined fields.
	GetByID(ctx context.Context, id int64) (Request, error)
	List(ctx context.Context, scope ListScope) ([]Request, error)
	Delete(ctx context.Context, id int64) error
	// Overlapping returns the department's requests that intersect [from, to].
	Overlapping(ctx context.Context, departmentID int64, from, to time.Time) ([]Request, error)
}

type PodanieService interface {
	Form(ctx context.Context, viewer auth.Principal, req FormRequest) (FormResponse, error)
	Create(ctx context.Context, viewer auth.Principal, req CreateRequest) (RequestResponse, error)
	List(ctx context.Context, viewer auth.Principal) ([]RequestResponse, error)
	Get(ctx context.Context, viewer auth.Principal, id int64) (RequestResponse, error)
	Delete(ctx context.Context, viewer auth.Principal, id int64) error
	PDF(ctx context.Context, viewer auth.Principal, id int64) (filename string, data []byte, err error)
	// RequestsByCell maps "<userId>-<day>" to the request covering the cell.
	RequestsByCell(ctx context.Context, departmentID int64, year int, month time.Month) (map[string]int64, error)
}

type TemplateService interface {
	List(ctx context.Context) ([]TemplateResponse, error)
	Get(ctx context.Context, id int64) (TemplateResponse, error)
	Create(ctx context.Context, req SaveTemplateRequest) (TemplateResponse, error)
	Update(ctx context.Context, req SaveTemplateRequest) (TemplateResponse, error)
	Delete(ctx context.Context, id int64) error
	// Preview renders body with sample data.
	Preview(ctx context.Context, body string) ([]byte, error)
	// Import converts an uploaded Word document into a template body. Nothing
	// is stored.
	Import(ctx context.Context, r io.Reader, filename string) (ImportTemplateResponse, error)
	Dictionary(ctx context.Context, kind DictionaryKind) ([]DictionaryItemResponse, error)
	SaveDictionaryItem(ctx context.Context, req SaveDictionaryItemRequest) (DictionaryItemResponse, error)
	DeleteDictionaryItem(ctx context.Context, kind DictionaryKind, id int64) error
}
