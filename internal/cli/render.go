package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"github.com/cmlabs-hris/grafik-backend-go/internal/clientconfig"
	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/grafik"
	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/holiday"
	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/podanie"
	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/grafik-backend-go/internal/pkg/colorutil"
)

// Color definitions for consistent styling across the output.
var (
	colorHeader     = color.New(color.Bold)
	colorNonWorking = color.New(color.FgRed)
	colorMuted      = color.New(color.FgWhite, color.Faint)
	colorFree       = color.New(color.FgGreen)
)

const gridCellWidth = 3

// printMonth draws the grid with the shift colors as cell backgrounds.
// Cells are padded before coloring, so uitable is not used here: it would
// count the escape codes as width.
func printMonth(w io.Writer, v grafik.MonthView) {
	title := fmt.Sprintf("%s, %s %d", v.Department.Name, v.MonthName, v.Year)
	if v.MonthName == "" {
		title = fmt.Sprintf("%s, %02d.%d", v.Department.Name, v.Month, v.Year)
	}
	fmt.Fprintln(w, colorHeader.Sprint(title))

	nameW := len("Pracownik")
	for _, r := range v.Rows {
		if n := utf8.RuneCountInString(r.FullName); n > nameW {
			nameW = n
		}
	}

	var header strings.Builder
	header.WriteString(pad("Pracownik", nameW+1))
	for _, d := range v.Days {
		cell := fmt.Sprintf("%2d ", d.Day)
		if d.NonWorking() {
			cell = colorNonWorking.Sprint(cell)
		}
		header.WriteString(cell)
	}
	header.WriteString(" " + pad(v.FreeDayCode, 3) + " Godz.")
	fmt.Fprintln(w, colorHeader.Sprint(header.String()))

	entries := make(map[string]grafik.EntryView, len(v.Entries))
	for _, e := range v.Entries {
		entries[grafik.RequestKey(e.EmployeeID, e.Day)] = e
	}

	for _, r := range v.Rows {
		var line strings.Builder
		name := pad(r.FullName, nameW+1)
		if r.Main {
			name = colorHeader.Sprint(name)
		}
		line.WriteString(name)
		for _, d := range v.Days {
			key := grafik.RequestKey(r.EmployeeID, d.Day)
			e, ok := entries[key]
			if !ok {
				line.WriteString(colorMuted.Sprint(" · "))
				continue
			}
			text := " " + pad(e.Code, gridCellWidth-1)
			if _, hasRequest := v.Requests[key]; hasRequest {
				text = "•" + pad(e.Code, gridCellWidth-1)
			}
			line.WriteString(cellColor(e.Color).Sprint(text))
		}
		line.WriteString(" " + colorFree.Sprint(pad(strconv.Itoa(r.FreeDays), 3)))
		line.WriteString(" " + r.PlannedHours.String())
		fmt.Fprintln(w, line.String())
	}

	if len(v.ShiftTypes) > 0 {
		legend := make([]string, 0, len(v.ShiftTypes))
		for _, t := range v.ShiftTypes {
			legend = append(legend, cellColor(t.Color).Sprint(" "+t.Code+" ")+" "+t.Name)
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, strings.Join(legend, "  "))
	}
}

// cellColor paints the shift color as background with a readable text color.
func cellColor(hex string) *color.Color {
	r, g, b, ok := colorutil.RGB(hex)
	if !ok {
		return color.New(color.Reset)
	}
	c := color.BgRGB(r, g, b)
	if tr, tg, tb, ok := colorutil.RGB(colorutil.Contrast(hex)); ok {
		c.AddRGB(tr, tg, tb)
	}
	return c
}

func pad(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

func printHolidays(w io.Writer, list []holiday.HolidayResponse) {
	if len(list) == 0 {
		fmt.Fprintln(w, "Brak świąt.")
		return
	}
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(colorHeader.Sprint("Data"), colorHeader.Sprint("Nazwa"), colorHeader.Sprint("Rodzaj"))
	for _, h := range list {
		kind := "ustawowe"
		if h.Company {
			kind = "firmowe"
		}
		tbl.AddRow(h.Date, h.Name, kind)
	}
	fmt.Fprintln(w, tbl)
}

func printRequests(w io.Writer, list []podanie.RequestResponse) {
	if len(list) == 0 {
		fmt.Fprintln(w, "Brak podań.")
		return
	}
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 40
	tbl.AddRow(colorHeader.Sprint("ID"), colorHeader.Sprint("Pracownik"), colorHeader.Sprint("Dział"),
		colorHeader.Sprint("Tytuł"), colorHeader.Sprint("Od"), colorHeader.Sprint("Do"), colorHeader.Sprint("Złożono"))
	for _, r := range list {
		tbl.AddRow(r.ID, r.EmployeeName, r.DepartmentName, r.Title, r.DateFrom, r.DateTo, r.CreatedAt)
	}
	tbl.RightAlign(0)
	fmt.Fprintln(w, tbl)
}

func printVacation(w io.Writer, r report.VacationReport) {
	fmt.Fprintln(w, colorHeader.Sprintf("Urlopy %d: %s", r.Year, r.DepartmentName))
	if len(r.Employees) == 0 {
		fmt.Fprintln(w, "Brak pracowników.")
		return
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	header := []interface{}{colorHeader.Sprint("Pracownik")}
	for _, m := range r.Months {
		header = append(header, colorHeader.Sprint(m))
	}
	header = append(header, colorHeader.Sprint("Razem"), colorHeader.Sprint("Limit"), colorHeader.Sprint("Zostało"))
	tbl.AddRow(header...)

	for _, e := range r.Employees {
		row := []interface{}{e.EmployeeName}
		for _, m := range e.Months {
			if m.Days == 0 {
				row = append(row, "-")
				continue
			}
			row = append(row, m.Days)
		}
		row = append(row, e.Total, e.Limit, e.Remaining)
		tbl.AddRow(row...)
	}
	for i := 1; i < len(header); i++ {
		tbl.RightAlign(i)
	}
	fmt.Fprintln(w, tbl)
}

func printConfig(w io.Writer, cfg *clientconfig.Config) {
	token := "(brak)"
	if t := cfg.Server.Token; t != "" {
		token = t
		if len(t) > 8 {
			token = t[:4] + "…" + t[len(t)-4:]
		}
	}
	department := "(dział główny)"
	if cfg.Grid.DefaultDepartment > 0 {
		department = strconv.FormatInt(cfg.Grid.DefaultDepartment, 10)
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("server.url", cfg.Server.URL)
	tbl.AddRow("server.timeout", cfg.Server.Timeout)
	tbl.AddRow("server.token", token)
	tbl.AddRow("grid.default_department", department)
	tbl.AddRow("cache.path", cfg.Cache.Path)
	fmt.Fprintln(w, tbl)
}
