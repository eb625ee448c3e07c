package shifttype

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type ShiftType struct {
	ID             int64
	Name           string
	Code           string
	Color          string
	HoursFrom      *string
	HoursTo        *string
	Active         bool
	Position       int
	Shortcut       *string
	MainOnly       bool
	LegacyTemplate *string
	TemplateID     *int64
	DepartmentIDs  []int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// AvailableIn reports whether the type may be used in the department.
// A type without departments is available everywhere.
func (s ShiftType) AvailableIn(departmentID int64) bool {
	if len(s.DepartmentIDs) == 0 {
		return true
	}
	for _, id := range s.DepartmentIDs {
		if id == departmentID {
			return true
		}
	}
	return false
}

// HasTemplate reports whether cells of this type can produce a leave request.
func (s ShiftType) HasTemplate() bool {
	return s.TemplateID != nil || (s.LegacyTemplate != nil && *s.LegacyTemplate != "")
}

// TemplateKey groups cells that share one request document.
func (s ShiftType) TemplateKey() string {
	return TemplateKey(s.TemplateID, s.LegacyTemplate)
}

func TemplateKey(templateID *int64, legacy *string) string {
	if templateID != nil {
		return "id_" + strconv.FormatInt(*templateID, 10)
	}
	if legacy != nil {
		return *legacy
	}
	return ""
}

// Hours returns the length of the shift in hours. Shifts ending before they
// start run past midnight. Types without hours count as zero.
func (s ShiftType) Hours() decimal.Decimal {
	if s.HoursFrom == nil || s.HoursTo == nil {
		return decimal.Zero
	}
	from, ok1 := minutesOfDay(*s.HoursFrom)
	to, ok2 := minutesOfDay(*s.HoursTo)
	if !ok1 || !ok2 {
		return decimal.Zero
	}
	d := to - from
	if d <= 0 {
		d += 24 * 60
	}
	return decimal.NewFromInt(int64(d)).Div(decimal.NewFromInt(60)).Round(2)
}

func minutesOfDay(hhmm string) (int, bool) {
	h, m, ok := strings.Cut(hhmm, ":")
	if !ok {
		return 0, false
	}
	hour, err := strconv.Atoi(h)
	if err != nil {
		return 0, false
	}
	// Postgres TIME renders as HH:MM:SS.
	m, _, _ = strings.Cut(m, ":")
	minute, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return hour*60 + minute, true
}
