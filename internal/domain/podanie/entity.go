package podanie

import "time"

// Form fields a template may enable.
const (
	FieldSubstitute    = "zastepca"
	FieldPhone         = "telefon"
	FieldJustification = "uzasadnienie"
	FieldRequestKind   = "typ_podania"
	FieldLeaveKind     = "rodzaj_urlopu"
	FieldSignature     = "podpis"
	FieldAddress       = "adres"
)

var AllFields = []string{FieldSubstitute, FieldPhone, FieldJustification, FieldRequestKind, FieldLeaveKind, FieldSignature, FieldAddress}

// Template is an admin-editable HTML body with [[TOKEN]] placeholders.
type Template struct {
	ID         int64
	Name       string
	BodyHTML   string
	FormFields []string
	Active     bool
	CreatedAt  time.Time
	UpdatedAt  *time.Time
}

func (t Template) Enables(field string) bool {
	for _, f := range t.FormFields {
		if f == field {
			return true
		}
	}
	return false
}

type DictionaryKind string

const (
	DictRequestKinds DictionaryKind = "request_kinds"
	DictLeaveKinds   DictionaryKind = "leave_kinds"
)

func (k DictionaryKind) Valid() bool {
	return k == DictRequestKinds || k == DictLeaveKinds
}

type DictionaryItem struct {
	ID       int64
	Name     string
	Position int
}

// Request is a filed leave request ("podanie").
type Request struct {
	ID            int64
	UserID        int64
	DepartmentID  int64
	ShiftTypeID   *int64
	DateFrom      time.Time
	DateTo        time.Time
	Substitute    *string
	Phone         *string
	Justification *string
	RequestKindID *int64
	LeaveKindID   *int64
	Signature     *string
	CreatedAt     time.Time

	// Joined
	UserName        string
	UserEmail       string
	UserAddress     *string
	DepartmentName  string
	ShiftTypeCode   *string
	ShiftTypeName   *string
	TemplateID      *int64
	LegacyTemplate  *string
	RequestKindName *string
	LeaveKindName   *string
}

// Covers reports whether the request spans the date.
func (r Request) Covers(t time.Time) bool {
	return !t.Before(r.DateFrom) && !t.After(r.DateTo)
}

// ListScope restricts a request listing.
type ListScope struct {
	All           bool
	DepartmentIDs []int64
	UserID        int64
}
