package grafik

import (
	"strconv"

	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/shifttype"
	"github.com/cmlabs-hris/grafik-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// The entry endpoints below are consumed by the grid client and use a flat
// body ({success, ...} or {error}) instead of the REST envelope.

type UpsertEntryRequest struct {
	EmployeeID   int64  `json:"employeeId"`
	DepartmentID int64  `json:"departmentId"`
	Date         string `json:"date"`
	ShiftTypeID  int64  `json:"shiftTypeId"`
}

func (r *UpsertEntryRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.EmployeeID <= 0 {
		errs = append(errs, validator.ValidationError{Field: "employeeId", Message: "employeeId is required"})
	}
	if r.DepartmentID <= 0 {
		errs = append(errs, validator.ValidationError{Field: "departmentId", Message: "departmentId is required"})
	}
	if r.ShiftTypeID <= 0 {
		errs = append(errs, validator.ValidationError{Field: "shiftTypeId", Message: "shiftTypeId is required"})
	}
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "date must be in YYYY-MM-DD format"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpsertEntryResponse struct {
	Success bool   `json:"success,omitempty"`
	Skrot   string `json:"skrot,omitempty"`
	Kolor   string `json:"kolor,omitempty"`
	Error   string `json:"error,omitempty"`
}

type BatchEntry struct {
	EmployeeID int64  `json:"employeeId"`
	Date       string `json:"date"`
}

// BatchEntriesRequest assigns ShiftTypeID to every entry. A nil
// ShiftTypeID clears the entries.
type BatchEntriesRequest struct {
	DepartmentID int64        `json:"departmentId"`
	ShiftTypeID  *int64       `json:"shiftTypeId"`
	Entries      []BatchEntry `json:"entries"`
}

func (r *BatchEntriesRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.DepartmentID <= 0 {
		errs = append(errs, validator.ValidationError{Field: "departmentId", Message: "departmentId is required"})
	}
	if r.ShiftTypeID != nil && *r.ShiftTypeID <= 0 {
		errs = append(errs, validator.ValidationError{Field: "shiftTypeId", Message: "shiftTypeId must be positive or null"})
	}
	if len(r.Entries) == 0 {
		errs = append(errs, validator.ValidationError{Field: "entries", Message: "entries must not be empty"})
	}
	for _, e := range r.Entries {
		if e.EmployeeID <= 0 {
			errs = append(errs, validator.ValidationError{Field: "entries", Message: "every entry needs an employeeId"})
			break
		}
		if _, ok := validator.IsValidDate(e.Date); !ok {
			errs = append(errs, validator.ValidationError{Field: "entries", Message: "every entry date must be in YYYY-MM-DD format"})
			break
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// BatchResult is the authoritative state of one cell after a batch.
// A nil Skrot means the cell is now empty.
type BatchResult struct {
	EmployeeID int64   `json:"employeeId"`
	Date       string  `json:"date"`
	Skrot      *string `json:"skrot"`
	Kolor      *string `json:"kolor"`
}

type BatchEntriesResponse struct {
	Success bool          `json:"success,omitempty"`
	Results []BatchResult `json:"results,omitempty"`
	Error   string        `json:"error,omitempty"`
}

type DeleteEntryRequest struct {
	EmployeeID   int64  `json:"employeeId"`
	DepartmentID int64  `json:"departmentId"`
	Date         string `json:"date"`
}

func (r *DeleteEntryRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.EmployeeID <= 0 {
		errs = append(errs, validator.ValidationError{Field: "employeeId", Message: "employeeId is required"})
	}
	if r.DepartmentID <= 0 {
		errs = append(errs, validator.ValidationError{Field: "departmentId", Message: "departmentId is required"})
	}
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "date must be in YYYY-MM-DD format"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type DeleteEntryResponse struct {
	Success bool   `json:"success,omitempty"`
	Error   string `json:"error,omitempty"`
}

type AutoPlanRequest struct {
	DepartmentID int64 `json:"departmentId"`
	Year         int   `json:"year"`
	Month        int   `json:"month"`
}

func (r *AutoPlanRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.DepartmentID <= 0 {
		errs = append(errs, validator.ValidationError{Field: "departmentId", Message: "departmentId is required"})
	}
	if r.Year < 2000 || r.Year > 2100 {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "year must be between 2000 and 2100"})
	}
	if r.Month < 1 || r.Month > 12 {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "month must be between 1 and 12"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AutoPlanResponse struct {
	Success bool   `json:"success,omitempty"`
	Count   int    `json:"count"`
	Error   string `json:"error,omitempty"`
}

// MonthViewRequest selects the grid to render. Zero values fall back to the
// caller's main department and the current month.
type MonthViewRequest struct {
	DepartmentID int64
	Year         int
	Month        int
}

type DepartmentRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

type MonthRef struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

type DayInfo struct {
	Day         int    `json:"day"`
	Date        string `json:"date"`
	Weekday     string `json:"weekday"`
	Weekend     bool   `json:"weekend"`
	Holiday     bool   `json:"holiday"`
	HolidayName string `json:"holiday_name,omitempty"`
}

// NonWorking reports whether the day is a weekend or a holiday.
func (d DayInfo) NonWorking() bool {
	return d.Weekend || d.Holiday
}

type RowInfo struct {
	EmployeeID   int64           `json:"employee_id"`
	FullName     string          `json:"full_name"`
	Main         bool            `json:"main"`
	Head         bool            `json:"head"`
	FreeDays     int             `json:"free_days"`
	PlannedHours decimal.Decimal `json:"planned_hours"`
}

type EntryView struct {
	EmployeeID  int64  `json:"employee_id"`
	Day         int    `json:"day"`
	ShiftTypeID int64  `json:"shift_type_id"`
	Code        string `json:"code"`
	Color       string `json:"color"`
}

// MonthView is the data behind one department month of the grid. Requests
// maps "<employeeId>-<day>" to the leave request covering that cell.
type MonthView struct {
	Department     DepartmentRef                 `json:"department"`
	Departments    []DepartmentRef               `json:"departments"`
	Year           int                           `json:"year"`
	Month          int                           `json:"month"`
	MonthName      string                        `json:"month_name"`
	Days           []DayInfo                     `json:"days"`
	NonWorkingDays int                           `json:"non_working_days"`
	Rows           []RowInfo                     `json:"rows"`
	Entries        []EntryView                   `json:"entries"`
	ShiftTypes     []shifttype.ShiftTypeResponse `json:"shift_types"`
	Requests       map[string]int64              `json:"requests"`
	CanEdit        bool                          `json:"can_edit"`
	ViewerID       int64                         `json:"viewer_id"`
	FreeDayCode    string                        `json:"free_day_code"`
	LeaveCode      string                        `json:"leave_code"`
	Prev           MonthRef                      `json:"prev"`
	Next           MonthRef                      `json:"next"`
}

// RequestKey is the Requests map key of a cell.
func RequestKey(employeeID int64, day int) string {
	return strconv.FormatInt(employeeID, 10) + "-" + strconv.Itoa(day)
}
