package shifttype

import (
	"strings"

	"github.com/cmlabs-hris/grafik-backend-go/internal/pkg/colorutil"
	"github.com/cmlabs-hris/grafik-backend-go/internal/pkg/keycombo"
	"github.com/cmlabs-hris/grafik-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

var legacyTemplates = []string{"urlop", "praca_zdalna", "nadgodziny", "opieka"}

type CreateShiftTypeRequest struct {
	Name           string  `json:"name"`
	Code           string  `json:"code"`
	Color          string  `json:"color"`
	HoursFrom      *string `json:"hours_from,omitempty"`
	HoursTo        *string `json:"hours_to,omitempty"`
	Shortcut       *string `json:"shortcut,omitempty"`
	MainOnly       bool    `json:"main_only"`
	TemplateID     *int64  `json:"template_id,omitempty"`
	LegacyTemplate *string `json:"legacy_template,omitempty"`
	DepartmentIDs  []int64 `json:"department_ids"`
}

func (r *CreateShiftTypeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name is required"})
	} else if !validator.MaxLen(r.Name, 50) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name must not exceed 50 characters"})
	}

	if validator.IsEmpty(r.Code) {
		errs = append(errs, validator.ValidationError{Field: "code", Message: "code is required"})
	} else if !validator.MaxLen(r.Code, 5) {
		errs = append(errs, validator.ValidationError{Field: "code", Message: "code must not exceed 5 characters"})
	}

	if !validator.IsValidHexColor(r.Color) {
		errs = append(errs, validator.ValidationError{Field: "color", Message: "color must be a #rrggbb value"})
	}

	errs = append(errs, validateHours(r.HoursFrom, r.HoursTo)...)
	errs = append(errs, validateShortcut(r.Shortcut)...)
	errs = append(errs, validateTemplate(r.TemplateID, r.LegacyTemplate)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpdateShiftTypeRequest replaces every editable field; ID comes from the URL.
type UpdateShiftTypeRequest struct {
	ID int64 `json:"-"`
	CreateShiftTypeRequest
}

func (r *UpdateShiftTypeRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.ID <= 0 {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "id is required"})
	}
	if err := r.CreateShiftTypeRequest.Validate(); err != nil {
		if ve, ok := err.(validator.ValidationErrors); ok {
			errs = append(errs, ve...)
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ReorderRequest struct {
	IDs []int64 `json:"ids"`
}

func (r *ReorderRequest) Validate() error {
	if len(r.IDs) == 0 {
		return validator.ValidationErrors{{Field: "ids", Message: "ids must not be empty"}}
	}
	seen := make(map[int64]struct{}, len(r.IDs))
	for _, id := range r.IDs {
		if _, dup := seen[id]; dup {
			return validator.ValidationErrors{{Field: "ids", Message: "ids must be unique"}}
		}
		seen[id] = struct{}{}
	}
	return nil
}

func validateHours(from, to *string) validator.ValidationErrors {
	var errs validator.ValidationErrors
	if from != nil && *from != "" && !validator.IsValidClock(*from) {
		errs.Add("hours_from", "hours_from must be HH:MM")
	}
	if to != nil && *to != "" && !validator.IsValidClock(*to) {
		errs.Add("hours_to", "hours_to must be HH:MM")
	}
	if (from == nil || *from == "") != (to == nil || *to == "") {
		errs.Add("hours_to", "hours_from and hours_to must be set together")
	}
	return errs
}

func validateShortcut(shortcut *string) validator.ValidationErrors {
	var errs validator.ValidationErrors
	if shortcut == nil || strings.TrimSpace(*shortcut) == "" {
		return nil
	}
	if !validator.MaxLen(*shortcut, 30) {
		errs.Add("shortcut", "shortcut must not exceed 30 characters")
		return errs
	}
	if _, err := keycombo.Parse(*shortcut); err != nil {
		errs.Add("shortcut", err.Error())
	}
	return errs
}

func validateTemplate(templateID *int64, legacy *string) validator.ValidationErrors {
	var errs validator.ValidationErrors
	if templateID != nil && legacy != nil && *legacy != "" {
		errs.Add("template_id", "choose either template_id or legacy_template")
	}
	if legacy != nil && *legacy != "" && !validator.IsInSlice(*legacy, legacyTemplates) {
		errs.Add("legacy_template", "legacy_template must be one of "+strings.Join(legacyTemplates, ", "))
	}
	return errs
}

type ShiftTypeResponse struct {
	ID             int64           `json:"id"`
	Name           string          `json:"name"`
	Code           string          `json:"code"`
	Color          string          `json:"color"`
	TextColor      string          `json:"text_color"`
	HoursFrom      *string         `json:"hours_from,omitempty"`
	HoursTo        *string         `json:"hours_to,omitempty"`
	Hours          decimal.Decimal `json:"hours"`
	Active         bool            `json:"active"`
	Position       int             `json:"position"`
	Shortcut       *string         `json:"shortcut,omitempty"`
	MainOnly       bool            `json:"main_only"`
	TemplateID     *int64          `json:"template_id,omitempty"`
	LegacyTemplate *string         `json:"legacy_template,omitempty"`
	TemplateKey    string          `json:"template_key,omitempty"`
	DepartmentIDs  []int64         `json:"department_ids"`
}

func NewShiftTypeResponse(st ShiftType) ShiftTypeResponse {
	deps := st.DepartmentIDs
	if deps == nil {
		deps = []int64{}
	}
	return ShiftTypeResponse{
		ID:             st.ID,
		Name:           st.Name,
		Code:           st.Code,
		Color:          st.Color,
		TextColor:      colorutil.Contrast(st.Color),
		HoursFrom:      st.HoursFrom,
		HoursTo:        st.HoursTo,
		Hours:          st.Hours(),
		Active:         st.Active,
		Position:       st.Position,
		Shortcut:       st.Shortcut,
		MainOnly:       st.MainOnly,
		TemplateID:     st.TemplateID,
		LegacyTemplate: st.LegacyTemplate,
		TemplateKey:    st.TemplateKey(),
		DepartmentIDs:  deps,
	}
}
