package podanie

import (
	"time"

	"github.com/cmlabs-hris/grafik-backend-go/internal/pkg/validator"
)

// FormRequest asks for the defaults of a new request. EmployeeID zero means
// the caller.
type FormRequest struct {
	EmployeeID  int64
	ShiftTypeID *int64
	DateFrom    string
	DateTo      string
}

type Coworker struct {
	ID       int64  `json:"id"`
	FullName string `json:"full_name"`
}

type FormResponse struct {
	EmployeeID     int64                    `json:"employee_id"`
	EmployeeName   string                   `json:"employee_name"`
	Address        string                   `json:"address"`
	EditAddress    bool                     `json:"edit_address"`
	DepartmentID   int64                    `json:"department_id"`
	DepartmentName string                   `json:"department_name"`
	ShiftTypeID    *int64                   `json:"shift_type_id,omitempty"`
	TemplateName   string                   `json:"template_name"`
	TemplateKey    string                   `json:"template_key"`
	Fields         []string                 `json:"fields"`
	DateFrom       string                   `json:"date_from"`
	DateTo         string                   `json:"date_to"`
	RequestKinds   []DictionaryItemResponse `json:"request_kinds,omitempty"`
	LeaveKinds     []DictionaryItemResponse `json:"leave_kinds,omitempty"`
	Coworkers      []Coworker               `json:"coworkers,omitempty"`
}

type CreateRequest struct {
	EmployeeID    int64   `json:"employee_id"`
	ShiftTypeID   *int64  `json:"shift_type_id,omitempty"`
	DateFrom      string  `json:"date_from"`
	DateTo        string  `json:"date_to"`
	Substitute    *string `json:"zastepca,omitempty"`
	Phone         *string `json:"telefon,omitempty"`
	Justification *string `json:"uzasadnienie,omitempty"`
	RequestKindID *int64  `json:"typ_podania_id,omitempty"`
	LeaveKindID   *int64  `json:"rodzaj_urlopu_id,omitempty"`
	Signature     *string `json:"podpis,omitempty"`
	Address       *string `json:"adres,omitempty"`
}

func (r *CreateRequest) Validate() error {
	var errs validator.ValidationErrors

	from, okFrom := validator.IsValidDate(r.DateFrom)
	if !okFrom {
		errs.Add("date_from", "date_from must be in YYYY-MM-DD format")
	}
	to, okTo := validator.IsValidDate(r.DateTo)
	if !okTo {
		errs.Add("date_to", "date_to must be in YYYY-MM-DD format")
	}
	if okFrom && okTo && from.After(to) {
		errs.Add("date_to", "date_to must not be before date_from")
	}

	checkLen := func(field string, v *string, n int) {
		if v != nil && !validator.MaxLen(*v, n) {
			errs.Add(field, field+" must not exceed "+validator.Itoa(n)+" characters")
		}
	}
	checkLen(FieldSubstitute, r.Substitute, 150)
	checkLen(FieldPhone, r.Phone, 50)
	checkLen(FieldJustification, r.Justification, 500)
	checkLen(FieldSignature, r.Signature, 255)
	checkLen(FieldAddress, r.Address, 500)

	return errs.Err()
}

type RequestResponse struct {
	ID             int64   `json:"id"`
	EmployeeID     int64   `json:"employee_id"`
	EmployeeName   string  `json:"employee_name"`
	DepartmentID   int64   `json:"department_id"`
	DepartmentName string  `json:"department_name"`
	ShiftTypeID    *int64  `json:"shift_type_id,omitempty"`
	ShiftTypeCode  *string `json:"shift_type_code,omitempty"`
	Title          string  `json:"title"`
	DateFrom       string  `json:"date_from"`
	DateTo         string  `json:"date_to"`
	Substitute     *string `json:"zastepca,omitempty"`
	Phone          *string `json:"telefon,omitempty"`
	Justification  *string `json:"uzasadnienie,omitempty"`
	RequestKind    *string `json:"typ_podania,omitempty"`
	LeaveKind      *string `json:"rodzaj_urlopu,omitempty"`
	Signature      *string `json:"podpis,omitempty"`
	CreatedAt      string  `json:"created_at"`
}

// NewRequestResponse maps a joined request. title is the template name.
func NewRequestResponse(r Request, title string) RequestResponse {
	return RequestResponse{
		ID:             r.ID,
		EmployeeID:     r.UserID,
		EmployeeName:   r.UserName,
		DepartmentID:   r.DepartmentID,
		DepartmentName: r.DepartmentName,
		ShiftTypeID:    r.ShiftTypeID,
		ShiftTypeCode:  r.ShiftTypeCode,
		Title:          title,
		DateFrom:       r.DateFrom.Format(validator.DateLayout),
		DateTo:         r.DateTo.Format(validator.DateLayout),
		Substitute:     r.Substitute,
		Phone:          r.Phone,
		Justification:  r.Justification,
		RequestKind:    r.RequestKindName,
		LeaveKind:      r.LeaveKindName,
		Signature:      r.Signature,
		CreatedAt:      r.CreatedAt.Format(time.RFC3339),
	}
}

type SaveTemplateRequest struct {
	ID         int64    `json:"-"`
	Name       string   `json:"name"`
	BodyHTML   string   `json:"body_html"`
	FormFields []string `json:"form_fields"`
	Active     *bool    `json:"active,omitempty"`
}

func (r *SaveTemplateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs.Add("name", "name is required")
	} else if !validator.MaxLen(r.Name, 100) {
		errs.Add("name", "name must not exceed 100 characters")
	}
	if validator.IsEmpty(r.BodyHTML) {
		errs.Add("body_html", "body_html is required")
	}
	for _, f := range r.FormFields {
		if !validator.IsInSlice(f, AllFields) {
			errs.Add("form_fields", "unknown form field "+f)
			break
		}
	}

	return errs.Err()
}

// MaxImportBytes is the largest document accepted by template import.
const MaxImportBytes = 5 << 20

type ImportTemplateResponse struct {
	HTML     string `json:"html"`
	Filename string `json:"filename"`
}

type TemplateResponse struct {
	ID         int64    `json:"id"`
	Name       string   `json:"name"`
	BodyHTML   string   `json:"body_html"`
	FormFields []string `json:"form_fields"`
	Active     bool     `json:"active"`
	CreatedAt  string   `json:"created_at"`
}

func NewTemplateResponse(t Template) TemplateResponse {
	fields := t.FormFields
	if fields == nil {
		fields = []string{}
	}
	return TemplateResponse{
		ID:         t.ID,
		Name:       t.Name,
		BodyHTML:   t.BodyHTML,
		FormFields: fields,
		Active:     t.Active,
		CreatedAt:  t.CreatedAt.Format(time.RFC3339),
	}
}

type SaveDictionaryItemRequest struct {
	Kind     DictionaryKind `json:"-"`
	ID       int64          `json:"-"`
	Name     string         `json:"name"`
	Position int            `json:"position"`
}

func (r *SaveDictionaryItemRequest) Validate() error {
	var errs validator.ValidationErrors
	if !r.Kind.Valid() {
		errs.Add("kind", "kind must be request_kinds or leave_kinds")
	}
	if validator.IsEmpty(r.Name) {
		errs.Add("name", "name is required")
	} else if !validator.MaxLen(r.Name, 100) {
		errs.Add("name", "name must not exceed 100 characters")
	}
	return errs.Err()
}

type DictionaryItemResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Position int    `json:"position"`
}

func NewDictionaryItemResponse(i DictionaryItem) DictionaryItemResponse {
	return DictionaryItemResponse{ID: i.ID, Name: i.Name, Position: i.Position}
}
