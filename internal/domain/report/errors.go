package report

import "errors"

var (
	ErrInvalidYear            = errors.New("year must be a valid year")
	ErrUnsupportedFormat      = errors.New("unsupported report format")
	ErrReportGenerationFailed = errors.New("failed to generate report")
)
