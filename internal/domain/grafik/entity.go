package grafik

import (
	"time"

	"github.com/shopspring/decimal"
)

// Entry assigns a shift type to one employee on one day in one department.
type Entry struct {
	ID           int64
	UserID       int64
	DepartmentID int64
	Date         time.Time
	ShiftTypeID  int64
	Note         *string
	CreatedBy    *int64
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Joined from the shift type
	Code  string
	Color string
	Hours decimal.Decimal
}

// CellRef addresses one cell of a department grid.
type CellRef struct {
	UserID int64
	Date   time.Time
}

var weekdayAbbrev = [...]string{"Nd", "Pn", "Wt", "Śr", "Cz", "Pt", "So"}

// WeekdayAbbrev returns the Polish two-letter weekday name.
func WeekdayAbbrev(d time.Weekday) string {
	return weekdayAbbrev[d]
}

var monthNames = [...]string{
	"Styczeń", "Luty", "Marzec", "Kwiecień", "Maj", "Czerwiec",
	"Lipiec", "Sierpień", "Wrzesień", "Październik", "Listopad", "Grudzień",
}

func MonthName(m time.Month) string {
	return monthNames[m-1]
}

// DaysIn returns the number of days in the month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// IsWeekend reports Saturday and Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// Adjacent returns the previous and next month.
func Adjacent(year int, month time.Month) (prev, next MonthRef) {
	p := time.Date(year, month-1, 1, 0, 0, 0, 0, time.UTC)
	n := time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC)
	return MonthRef{Year: p.Year(), Month: int(p.Month())}, MonthRef{Year: n.Year(), Month: int(n.Month())}
}

// ClampMonth forces m into 1..12.
func ClampMonth(m int) int {
	if m < 1 {
		return 1
	}
	if m > 12 {
		return 12
	}
	return m
}
