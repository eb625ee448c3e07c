package tui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/cmlabs-hris/grafik-backend-go/internal/grid"
)

const (
	headerLines = 3 // title, day numbers, weekdays
	footerLines = 3 // blank, status, help
	cellW       = 3
	minNameW    = 12
	maxNameW    = 24
)

const helpText = "strzałki: ruch  shift+strzałki: zaznacz  enter: menu  del: wyczyść  esc: odznacz  " +
	"ctrl+y: kopiuj  ctrl+a: auto-plan  pgup/pgdn: miesiąc  ctrl+q: wyjście"

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}

func (m *Model) nameWidth() int {
	w := minNameW
	for _, r := range m.ctrl.Grid().Rows() {
		if n := utf8.RuneCountInString(r.Name) + 1; n > w {
			w = n
		}
	}
	if w > maxNameW {
		w = maxNameW
	}
	return w
}

func (m *Model) visibleRows() int {
	n := len(m.ctrl.Grid().Rows())
	if m.height == 0 {
		return n
	}
	v := m.height - headerLines - footerLines
	if v < 1 {
		v = 1
	}
	if v > n {
		v = n
	}
	return v
}

func (m *Model) rowIndex(employeeID int64) int {
	for i, r := range m.ctrl.Grid().Rows() {
		if r.EmployeeID == employeeID {
			return i
		}
	}
	return -1
}

func (m *Model) dayIndex(day int) int {
	for i, d := range m.ctrl.Grid().Days() {
		if d.Day == day {
			return i
		}
	}
	return -1
}

// scrollToCursor keeps the keyboard cursor inside the visible rows.
func (m *Model) scrollToCursor() {
	if m.ctrl == nil {
		return
	}
	k, ok := m.ctrl.Selection().Cursor()
	if !ok {
		return
	}
	idx := m.rowIndex(k.EmployeeID)
	if idx < 0 {
		return
	}
	visible := m.visibleRows()
	if idx < m.rowOffset {
		m.rowOffset = idx
	}
	if idx >= m.rowOffset+visible {
		m.rowOffset = idx - visible + 1
	}
}

// cellRect returns the screen rectangle of a visible cell.
func (m *Model) cellRect(k grid.Key) (grid.Rect, bool) {
	row := m.rowIndex(k.EmployeeID)
	day := m.dayIndex(k.Day)
	if row < m.rowOffset || row >= m.rowOffset+m.visibleRows() || day < 0 {
		return grid.Rect{}, false
	}
	return grid.Rect{
		X: m.nameWidth() + day*cellW,
		Y: headerLines + row - m.rowOffset,
		W: cellW,
		H: 1,
	}, true
}

// cellAt hit-tests a screen position against the grid.
func (m *Model) cellAt(x, y int) (grid.Key, bool) {
	row := y - headerLines + m.rowOffset
	if y < headerLines || row >= m.rowOffset+m.visibleRows() {
		return grid.Key{}, false
	}
	nameW := m.nameWidth()
	days := m.ctrl.Grid().Days()
	col := (x - nameW) / cellW
	if x < nameW || col >= len(days) {
		return grid.Key{}, false
	}
	rows := m.ctrl.Grid().Rows()
	return grid.Key{EmployeeID: rows[row].EmployeeID, Day: days[col].Day}, true
}

// menuLayout renders the open menu and places it next to its anchor.
// lines maps every content line to an item index, or -1 for headers and
// dividers.
func (m *Model) menuLayout() (box string, rect grid.Rect, lines []int, ok bool) {
	menu := m.ctrl.Menu()
	if menu == nil || len(menu.Items) == 0 {
		return "", grid.Rect{}, nil, false
	}

	var content []string
	if menu.Header != "" {
		content = append(content, menuHeaderStyle.Render(menu.Header))
		lines = append(lines, -1)
	}
	width := 0
	for _, item := range menu.Items {
		if n := utf8.RuneCountInString(item.Label) + utf8.RuneCountInString(item.Hint) + 2; n > width {
			width = n
		}
	}
	for i, item := range menu.Items {
		if item.Separator && i > 0 {
			content = append(content, menuDividerStyle.Render(strings.Repeat("─", width)))
			lines = append(lines, -1)
		}
		label := item.Label
		if i == m.menuIndex {
			label = menuActiveStyle.Render(label)
		}
		if item.Hint != "" {
			label += "  " + menuHintStyle.Render(item.Hint)
		}
		content = append(content, label)
		lines = append(lines, i)
	}

	box = menuStyle.Render(strings.Join(content, "\n"))
	w, h := lipgloss.Width(box), lipgloss.Height(box)

	anchor, visible := m.cellRect(menu.Anchor)
	if !visible {
		anchor = grid.Rect{X: m.nameWidth(), Y: headerLines, W: cellW, H: 1}
	}
	vw, vh := m.width, m.height
	if vw == 0 {
		vw = 200
	}
	if vh == 0 {
		vh = headerLines + len(m.ctrl.Grid().Rows()) + footerLines + h
	}
	x, y := grid.PlaceMenu(anchor, w, h, vw, vh)
	return box, grid.Rect{X: x, Y: y, W: w, H: h}, lines, true
}

// menuItemAt returns the item under a screen position inside the menu.
func (m *Model) menuItemAt(x, y int) (int, bool, bool) {
	_, rect, lines, ok := m.menuLayout()
	if !ok || x < rect.X || x >= rect.Right() || y < rect.Y || y >= rect.Bottom() {
		return 0, false, false
	}
	// One border line above the content.
	idx := y - rect.Y - 1
	if idx < 0 || idx >= len(lines) || lines[idx] < 0 {
		return 0, false, true
	}
	return lines[idx], true, true
}

func (m *Model) renderCell(c *grid.Cell, nonWorking bool) string {
	code := c.Code
	if utf8.RuneCountInString(code) > 2 {
		code = string([]rune(code)[:2])
	}
	marker := " "
	if c.RequestID != 0 {
		marker = "•"
	}
	text := marker + code + strings.Repeat(" ", 2-utf8.RuneCountInString(code))

	var style lipgloss.Style
	switch {
	case !c.Empty():
		style = lipgloss.NewStyle().Background(lipgloss.Color(c.Color)).Foreground(lipgloss.Color(c.TextColor))
	case nonWorking:
		style = offCellStyle
		text = " · "
	default:
		style = emptyCellStyle
		text = " · "
	}
	if c.Selected {
		style = style.Reverse(true)
	}
	if c.Cursor {
		style = style.Underline(true).Bold(true)
	}
	return style.Render(text)
}

func (m *Model) renderGrid() []string {
	g := m.ctrl.Grid()
	nameW := m.nameWidth()
	days := g.Days()

	title := fmt.Sprintf("Grafik: %s, %s %d", m.view.Department.Name, m.view.MonthName, m.view.Year)
	if m.view.MonthName == "" {
		title = fmt.Sprintf("Grafik: %s, %02d.%d", m.view.Department.Name, m.view.Month, m.view.Year)
	}
	if !m.ctrl.CanEdit() {
		title += " (podgląd)"
	}
	if m.loading {
		title += "  wczytywanie..."
	}
	lines := []string{titleStyle.Render(title)}

	var nums, wds strings.Builder
	nums.WriteString(strings.Repeat(" ", nameW))
	wds.WriteString(strings.Repeat(" ", nameW))
	weekdays := make(map[int]string, len(m.view.Days))
	for _, d := range m.view.Days {
		weekdays[d.Day] = d.Weekday
	}
	for _, d := range days {
		style := headerStyle
		if d.NonWorking {
			style = nonWorkingStyle
		}
		nums.WriteString(style.Render(fmt.Sprintf("%2d ", d.Day)))
		wd := []rune(weekdays[d.Day] + "  ")
		wds.WriteString(style.Render(string(wd[:2]) + " "))
	}
	nums.WriteString(headerStyle.Render(" " + m.view.FreeDayCode))
	lines = append(lines, nums.String(), wds.String())

	rows := g.Rows()
	end := m.rowOffset + m.visibleRows()
	for _, r := range rows[m.rowOffset:end] {
		var b strings.Builder
		ns := nameStyle
		if r.Main {
			ns = mainNameStyle
		}
		name := truncate(r.Name, nameW-1)
		b.WriteString(ns.Render(name + strings.Repeat(" ", nameW-utf8.RuneCountInString(name))))
		for _, d := range days {
			c, ok := g.Cell(grid.Key{EmployeeID: r.EmployeeID, Day: d.Day})
			if !ok {
				b.WriteString(strings.Repeat(" ", cellW))
				continue
			}
			b.WriteString(m.renderCell(c, d.NonWorking))
		}
		b.WriteString(freeStyle.Render(fmt.Sprintf(" %d", g.FreeDays(r.EmployeeID))))
		lines = append(lines, b.String())
	}
	return lines
}

// overlay draws box over base with its top-left corner at (x, y).
func overlay(base []string, box string, x, y int) []string {
	boxLines := strings.Split(box, "\n")
	for len(base) < y+len(boxLines) {
		base = append(base, "")
	}
	for i, bl := range boxLines {
		line := base[y+i]
		bw := ansi.StringWidth(bl)
		if w := ansi.StringWidth(line); w < x+bw {
			line += strings.Repeat(" ", x+bw-w)
		}
		width := ansi.StringWidth(line)
		base[y+i] = ansi.Cut(line, 0, x) + bl + ansi.Cut(line, x+bw, width)
	}
	return base
}

func (m *Model) View() string {
	if m.ctrl == nil {
		if m.status != "" {
			return errorStyle.Render(m.status) + "\n" + helpStyle.Render("ctrl+r: ponów  q: wyjście")
		}
		return "Wczytywanie grafiku..."
	}

	lines := m.renderGrid()
	lines = append(lines, "")

	status := ""
	switch {
	case m.form != nil:
		status = formPromptStyle.Render("Podpis: ") + m.form.signature.View()
	case m.statusErr:
		status = errorStyle.Render(m.status)
	case m.status != "":
		status = statusStyle.Render(m.status)
	}
	lines = append(lines, status, helpStyle.Render(helpText))

	if box, rect, _, ok := m.menuLayout(); ok {
		lines = overlay(lines, box, rect.X, rect.Y)
	}
	return strings.Join(lines, "\n")
}
