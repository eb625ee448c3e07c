package fixtures

import (
	"embed"

	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/podanie"
	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/shifttype"
)

//go:embed templates/*.html
var templateFiles embed.FS

// ==========================================
// HELPER FUNCTIONS
// ==========================================

func strPtr(s string) *string { return &s }

// ==========================================
// DICTIONARIES
// ==========================================

// GetDefaultRequestKinds returns the request kinds offered on the leave form.
func GetDefaultRequestKinds() []podanie.DictionaryItem {
	return []podanie.DictionaryItem{
		{Name: "urlopu", Position: 1},
		{Name: "czasu wolnego od pracy", Position: 2},
	}
}

// GetDefaultLeaveKinds returns the leave kinds offered on the leave form.
func GetDefaultLeaveKinds() []podanie.DictionaryItem {
	return []podanie.DictionaryItem{
		{Name: "wypoczynkowego", Position: 1},
		{Name: "okolicznościowego", Position: 2},
		{Name: "na żądanie", Position: 3},
		{Name: "odbiór nadgodzin", Position: 4},
	}
}

// ==========================================
// REQUEST TEMPLATES
// ==========================================

const (
	TemplateLeave     = "Podanie o urlop"
	TemplateRemote    = "Wniosek o pracę zdalną"
	TemplateChildcare = "Opieka nad dzieckiem (art. 188 KP)"
)

// GetDefaultTemplates returns the three stock request templates with their
// HTML bodies.
func GetDefaultTemplates() ([]podanie.Template, error) {
	defs := []struct {
		name   string
		file   string
		fields []string
	}{
		{TemplateLeave, "templates/urlop.html", []string{"typ_podania", "rodzaj_urlopu", "zastepca", "telefon", "uzasadnienie", "podpis", "adres"}},
		{TemplateRemote, "templates/praca_zdalna.html", []string{"podpis"}},
		{TemplateChildcare, "templates/opieka.html", []string{"podpis"}},
	}

	templates := make([]podanie.Template, 0, len(defs))
	for _, d := range defs {
		body, err := templateFiles.ReadFile(d.file)
		if err != nil {
			return nil, err
		}
		templates = append(templates, podanie.Template{
			Name:       d.name,
			BodyHTML:   string(body),
			FormFields: d.fields,
			Active:     true,
		})
	}
	return templates, nil
}

// ==========================================
// SHIFT TYPES
// ==========================================

// DefaultShiftType is a stock shift type and the template it files requests with.
type DefaultShiftType struct {
	ShiftType    shifttype.ShiftType
	TemplateName string
}

// GetDefaultShiftTypes returns the eight stock shift types in grid order.
func GetDefaultShiftTypes() []DefaultShiftType {
	return []DefaultShiftType{
		{ShiftType: shifttype.ShiftType{Name: "1 zmiana", Code: "1", Color: "#b6dafc", Position: 0, Shortcut: strPtr("1"), Active: true,
			HoursFrom: strPtr("06:00"), HoursTo: strPtr("14:00")}},
		{ShiftType: shifttype.ShiftType{Name: "2 zmiana", Code: "2", Color: "#b8b8b7", Position: 1, Shortcut: strPtr("2"), Active: true,
			HoursFrom: strPtr("14:00"), HoursTo: strPtr("22:00")}},
		{ShiftType: shifttype.ShiftType{Name: "Praca zdalna", Code: "PZ", Color: "#0f8055", Position: 2, Shortcut: strPtr("Z"), Active: true},
			TemplateName: TemplateRemote},
		{ShiftType: shifttype.ShiftType{Name: "Urlop", Code: "U", Color: "#f2d545", Position: 3, Shortcut: strPtr("U"), Active: true, MainOnly: true},
			TemplateName: TemplateLeave},
		{ShiftType: shifttype.ShiftType{Name: "Wolne", Code: "W", Color: "#01d065", Position: 4, Shortcut: strPtr("W"), Active: true}},
		{ShiftType: shifttype.ShiftType{Name: "Odbiór nadgodzin", Code: "ON", Color: "#694cae", Position: 5, Shortcut: strPtr("N"), Active: true}},
		{ShiftType: shifttype.ShiftType{Name: "Chorobowe", Code: "L4", Color: "#f44336", Position: 6, Shortcut: strPtr("L"), Active: true, MainOnly: true}},
		{ShiftType: shifttype.ShiftType{Name: "Opieka nad dzieckiem", Code: "OD", Color: "#f74a7e", Position: 7, Shortcut: strPtr("D"), Active: true, MainOnly: true},
			TemplateName: TemplateChildcare},
	}
}

// Auto-plan fills working days with AutoPlanShiftCode and weekends and
// holidays with AutoPlanFreeCode.
const (
	AutoPlanShiftCode = "1"
	AutoPlanFreeCode  = "W"
)
