package report

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/department"
	"github.com/cmlabs-hris/grafik-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========================================
// VACATION REPORT
// ========================================

const (
	FormatJSON = "json"
	FormatXLSX = "xlsx"
	FormatPDF  = "pdf"
)

type VacationReportRequest struct {
	DepartmentID int64  `json:"department_id"`
	Year         int    `json:"year"`
	Format       string `json:"format"`

	// Access of the caller; admins and heads of the department may read it.
	Access department.Access `json:"-"`
}

func (r *VacationReportRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.DepartmentID <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "department",
			Message: "department is required",
		})
	}

	currentYear := time.Now().Year()
	if r.Year < 2000 || r.Year > currentYear+1 {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: fmt.Sprintf("year must be between 2000 and %d", currentYear+1),
		})
	}

	if r.Format == "" {
		r.Format = FormatJSON
	}
	if !validator.IsInSlice(r.Format, []string{FormatJSON, FormatXLSX, FormatPDF}) {
		errs = append(errs, validator.ValidationError{
			Field:   "format",
			Message: "format must be json, xlsx or pdf",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type VacationReport struct {
	DepartmentID   int64         `json:"department_id"`
	DepartmentName string        `json:"department_name"`
	DepartmentCode string        `json:"department_code"`
	Year           int           `json:"year"`
	GeneratedAt    string        `json:"generated_at"`
	Months         []string      `json:"months"`
	Employees      []VacationRow `json:"employees"`
}

type VacationRow struct {
	EmployeeID   int64           `json:"employee_id"`
	EmployeeName string          `json:"employee_name"`
	Months       []VacationMonth `json:"months"`
	Total        int             `json:"total"`
	Limit        int             `json:"limit"`
	Remaining    int             `json:"remaining"`
	// UsedShare is Total/Limit, rounded to two places.
	UsedShare decimal.Decimal `json:"used_share"`
}

type VacationMonth struct {
	Days   int    `json:"days"`
	Ranges string `json:"ranges"`
}

// File is a rendered report ready for download.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}
