// Package holiday computes Polish statutory public holidays.
package holiday

import (
	"sort"
	"time"
)

type Holiday struct {
	Date time.Time
	Name string
}

type fixed struct {
	month time.Month
	day   int
	name  string
}

var fixedHolidays = []fixed{
	{time.January, 1, "Nowy Rok"},
	{time.January, 6, "Święto Trzech Króli"},
	{time.May, 1, "Święto Pracy"},
	{time.May, 3, "Święto Konstytucji 3 Maja"},
	{time.August, 15, "Wniebowzięcie Najświętszej Maryi Panny"},
	{time.November, 1, "Wszystkich Świętych"},
	{time.November, 11, "Narodowe Święto Niepodległości"},
	{time.December, 24, "Wigilia Bożego Narodzenia"},
	{time.December, 25, "Boże Narodzenie (pierwszy dzień)"},
	{time.December, 26, "Boże Narodzenie (drugi dzień)"},
}

// Easter returns Easter Sunday of the Gregorian year using Gauss's
// algorithm with the Gregorian corrections.
func Easter(year int) time.Time {
	a := year % 19
	b := year % 4
	c := year % 7
	k := year / 100
	p := (13 + 8*k) / 25
	q := k / 4
	m := (15 - p + k - q) % 30
	n := (4 + k - q) % 7
	d := (19*a + m) % 30
	e := (2*b + 4*c + 6*d + n) % 7

	day := 22 + d + e
	month := time.March
	if day > 31 {
		day = d + e - 9
		month = time.April
	}
	// Exceptions for the April 26 and April 25 cases.
	if month == time.April && day == 26 {
		day = 19
	}
	if month == time.April && day == 25 && d == 28 && e == 6 && a > 10 {
		day = 18
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// ForYear returns the year's holidays sorted by date.
func ForYear(year int) []Holiday {
	out := make([]Holiday, 0, len(fixedHolidays)+5)
	for _, f := range fixedHolidays {
		out = append(out, Holiday{Date: time.Date(year, f.month, f.day, 0, 0, 0, 0, time.UTC), Name: f.name})
	}
	easter := Easter(year)
	out = append(out,
		Holiday{Date: easter, Name: "Wielkanoc"},
		Holiday{Date: easter.AddDate(0, 0, 1), Name: "Poniedziałek Wielkanocny"},
		Holiday{Date: easter.AddDate(0, 0, 49), Name: "Zielone Świątki"},
		Holiday{Date: easter.AddDate(0, 0, 60), Name: "Boże Ciało"},
	)
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// ForMonth maps day of month to holiday name.
func ForMonth(year int, month time.Month) map[int]string {
	out := make(map[int]string)
	for _, h := range ForYear(year) {
		if h.Date.Month() == month {
			out[h.Date.Day()] = h.Name
		}
	}
	return out
}
