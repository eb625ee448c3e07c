package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDaysToRanges(t *testing.T) {
	tests := []struct {
		name string
		days []int
		want string
	}{
		{"empty", nil, ""},
		{"single", []int{5}, "5"},
		{"mixed", []int{1, 2, 3, 7, 8, 14}, "1-3, 7-8, 14"},
		{"unsorted with duplicates", []int{8, 7, 7, 1}, "1, 7-8"},
		{"one run", []int{28, 29, 30, 31}, "28-31"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysToRanges(tt.days))
		})
	}
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "raport_urlopy_it_2025.xlsx", FileName("IT", 2025, "xlsx"))
	assert.Equal(t, "raport_urlopy_dzial_2025.pdf", FileName("", 2025, "pdf"))
}

func TestMonthAbbrevs(t *testing.T) {
	m := MonthAbbrevs()
	assert.Len(t, m, 12)
	assert.Equal(t, "Paź", m[9])
}

func TestVacationReportRequestDefaultsFormat(t *testing.T) {
	req := VacationReportRequest{DepartmentID: 1, Year: 2025}
	assert.NoError(t, req.Validate())
	assert.Equal(t, FormatJSON, req.Format)

	bad := VacationReportRequest{DepartmentID: 1, Year: 2025, Format: "csv"}
	assert.Error(t, bad.Validate())
}
