package report

import (
	"sort"
	"strconv"
	"strings"
)

var monthAbbrev = [12]string{"Sty", "Lut", "Mar", "Kwi", "Maj", "Cze", "Lip", "Sie", "Wrz", "Paź", "Lis", "Gru"}

// MonthAbbrevs returns the Polish three-letter month names.
func MonthAbbrevs() []string {
	return monthAbbrev[:]
}

// DaysToRanges compresses days into "1-3, 7-8, 14". Duplicates are ignored.
func DaysToRanges(days []int) string {
	if len(days) == 0 {
		return ""
	}
	sorted := append([]int(nil), days...)
	sort.Ints(sorted)

	var parts []string
	start, prev := sorted[0], sorted[0]
	flush := func() {
		if start == prev {
			parts = append(parts, strconv.Itoa(start))
		} else {
			parts = append(parts, strconv.Itoa(start)+"-"+strconv.Itoa(prev))
		}
	}
	for _, d := range sorted[1:] {
		if d == prev {
			continue
		}
		if d == prev+1 {
			prev = d
			continue
		}
		flush()
		start, prev = d, d
	}
	flush()
	return strings.Join(parts, ", ")
}

// FileName builds "raport_urlopy_<code>_<year>.<ext>".
func FileName(departmentCode string, year int, ext string) string {
	code := strings.ToLower(strings.TrimSpace(departmentCode))
	if code == "" {
		code = "dzial"
	}
	return "raport_urlopy_" + code + "_" + strconv.Itoa(year) + "." + ext
}
