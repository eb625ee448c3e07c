package report

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/department"
	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/grafik"
	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/grafik-backend-go/internal/pkg/pdf"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypePDF  = "application/pdf"
	sheetName       = "Urlopy"
)

type ReportServiceImpl struct {
	departments department.DepartmentRepository
	memberships department.MembershipRepository
	users       user.UserRepository
	grafik      grafik.GrafikService
	renderer    *pdf.Renderer
	now         func() time.Time
}

func NewReportService(
	departmentRepository department.DepartmentRepository,
	membershipRepository department.MembershipRepository,
	userRepository user.UserRepository,
	grafikService grafik.GrafikService,
	renderer *pdf.Renderer,
) report.ReportService {
	return &ReportServiceImpl{
		departments: departmentRepository,
		memberships: membershipRepository,
		users:       userRepository,
		grafik:      grafikService,
		renderer:    renderer,
		now:         time.Now,
	}
}

// Vacation implements report.ReportService. Only members whose main
// department is the reported one are listed.
func (s *ReportServiceImpl) Vacation(ctx context.Context, req report.VacationReportRequest) (report.VacationReport, error) {
	if !req.Access.CanEdit(req.DepartmentID) {
		return report.VacationReport{}, department.ErrForbidden
	}
	dept, err := s.departments.GetByID(ctx, req.DepartmentID)
	if err != nil {
		return report.VacationReport{}, err
	}
	members, err := s.memberships.ListMembers(ctx, dept.ID, false)
	if err != nil {
		return report.VacationReport{}, fmt.Errorf("failed to load members: %w", err)
	}

	ids := make([]int64, 0, len(members))
	for _, m := range members {
		if m.IsMain {
			ids = append(ids, m.UserID)
		}
	}
	users, err := s.users.GetByIDs(ctx, ids)
	if err != nil {
		return report.VacationReport{}, fmt.Errorf("failed to load users: %w", err)
	}
	leave, err := s.grafik.LeaveDays(ctx, dept.ID, req.Year)
	if err != nil {
		return report.VacationReport{}, fmt.Errorf("failed to load leave days: %w", err)
	}

	out := report.VacationReport{
		DepartmentID:   dept.ID,
		DepartmentName: dept.Name,
		DepartmentCode: dept.Code,
		Year:           req.Year,
		GeneratedAt:    s.now().Format(time.RFC3339),
		Months:         report.MonthAbbrevs(),
		Employees:      make([]report.VacationRow, 0, len(ids)),
	}
	for _, m := range members {
		if !m.IsMain {
			continue
		}
		row := report.VacationRow{
			EmployeeID:   m.UserID,
			EmployeeName: m.FullName,
			Months:       make([]report.VacationMonth, 12),
			Limit:        users[m.UserID].LeaveDaysPerYear,
		}
		for month := 1; month <= 12; month++ {
			days := leave[m.UserID][month]
			row.Months[month-1] = report.VacationMonth{Days: len(days), Ranges: report.DaysToRanges(days)}
			row.Total += len(days)
		}
		row.Remaining = row.Limit - row.Total
		row.UsedShare = decimal.Zero
		if row.Limit > 0 {
			row.UsedShare = decimal.NewFromInt(int64(row.Total)).Div(decimal.NewFromInt(int64(row.Limit))).Round(2)
		}
		out.Employees = append(out.Employees, row)
	}
	return out, nil
}

// VacationFile implements report.ReportService.
func (s *ReportServiceImpl) VacationFile(ctx context.Context, req report.VacationReportRequest) (report.File, error) {
	if req.Format != report.FormatXLSX && req.Format != report.FormatPDF {
		return report.File{}, report.ErrUnsupportedFormat
	}
	rep, err := s.Vacation(ctx, req)
	if err != nil {
		return report.File{}, err
	}

	var data []byte
	contentType := contentTypeXLSX
	if req.Format == report.FormatXLSX {
		data, err = vacationXLSX(rep)
	} else {
		contentType = contentTypePDF
		data, err = s.vacationPDF(rep)
	}
	if err != nil {
		return report.File{}, fmt.Errorf("%w: %v", report.ErrReportGenerationFailed, err)
	}
	return report.File{
		Name:        report.FileName(rep.DepartmentCode, rep.Year, req.Format),
		ContentType: contentType,
		Data:        data,
	}, nil
}

func vacationHeaders(rep report.VacationReport) []string {
	headers := append([]string{"Pracownik"}, rep.Months...)
	return append(headers, "Razem", "Limit", "Pozostało", "Wykorzystanie")
}

// monthCell prints the day count with its ranges, e.g. "3 (1-3)".
func monthCell(m report.VacationMonth) string {
	if m.Days == 0 {
		return ""
	}
	return strconv.Itoa(m.Days) + " (" + m.Ranges + ")"
}

func vacationRows(rep report.VacationReport) [][]string {
	rows := make([][]string, 0, len(rep.Employees))
	for _, e := range rep.Employees {
		row := []string{e.EmployeeName}
		for _, m := range e.Months {
			row = append(row, monthCell(m))
		}
		row = append(row,
			strconv.Itoa(e.Total),
			strconv.Itoa(e.Limit),
			strconv.Itoa(e.Remaining),
			e.UsedShare.Mul(decimal.NewFromInt(100)).StringFixed(0)+"%",
		)
		rows = append(rows, row)
	}
	return rows
}

func vacationTitle(rep report.VacationReport) string {
	return fmt.Sprintf("Raport urlopów %d: %s", rep.Year, rep.DepartmentName)
}

func vacationXLSX(rep report.VacationReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}
	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#3b82f6"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, err
	}

	if err := f.SetCellValue(sheetName, "A1", vacationTitle(rep)); err != nil {
		return nil, err
	}
	headers := vacationHeaders(rep)
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 3)
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, err
		}
	}
	first, _ := excelize.CoordinatesToCellName(1, 3)
	last, _ := excelize.CoordinatesToCellName(len(headers), 3)
	if err := f.SetCellStyle(sheetName, first, last, header); err != nil {
		return nil, err
	}

	for r, e := range rep.Employees {
		rowNum := r + 4
		values := []any{e.EmployeeName}
		for _, m := range e.Months {
			values = append(values, monthCell(m))
		}
		values = append(values, e.Total, e.Limit, e.Remaining, e.UsedShare.InexactFloat64())
		cell, _ := excelize.CoordinatesToCellName(1, rowNum)
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return nil, err
		}
	}

	if err := f.SetColWidth(sheetName, "A", "A", 28); err != nil {
		return nil, err
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *ReportServiceImpl) vacationPDF(rep report.VacationReport) ([]byte, error) {
	widths := []float64{45}
	for range rep.Months {
		widths = append(widths, 13)
	}
	widths = append(widths, 14, 14, 18, 22)
	return s.renderer.Table(vacationTitle(rep), vacationHeaders(rep), widths, vacationRows(rep))
}
