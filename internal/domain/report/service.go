package report

import "context"

// ReportService defines the interface for report generation
type ReportService interface {
	// Vacation counts leave days per main-department member and month.
	Vacation(ctx context.Context, req VacationReportRequest) (VacationReport, error)

	// VacationFile renders the report as XLSX or PDF.
	VacationFile(ctx context.Context, req VacationReportRequest) (File, error)
}
