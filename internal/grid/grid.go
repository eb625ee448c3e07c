// Package grid is the headless selection and edit controller behind the
// schedule grid. It owns the cell map, the selection, the action menu and
// the reconciliation of server results; rendering and transport live
// elsewhere (see internal/tui and internal/client).
package grid

import (
	"fmt"
	"sort"
	"time"

	"github.com/cmlabs-hris/grafik-backend-go/internal/pkg/colorutil"
)

// Key identifies one cell of the grid.
type Key struct {
	EmployeeID int64
	Day        int
}

func (k Key) String() string {
	return fmt.Sprintf("%d-%d", k.EmployeeID, k.Day)
}

// Cell is the rendered state of one (employee, day) slot. Code, Color and
// TextColor change only when a server result is applied.
type Cell struct {
	Key
	Date      string
	Code      string
	Color     string
	TextColor string
	RequestID int64

	Selected bool
	Cursor   bool

	applied uint64
}

func (c *Cell) Empty() bool {
	return c.Code == ""
}

type Row struct {
	EmployeeID int64
	Name       string
	// Main marks employees whose primary department is the viewed one;
	// only they may receive main-only shift types.
	Main     bool
	FreeDays int
}

type Day struct {
	Day        int
	Date       string
	NonWorking bool
}

type CellState struct {
	EmployeeID int64
	Day        int
	Code       string
	Color      string
	RequestID  int64
}

// Layout is everything needed to build a controller for one month.
type Layout struct {
	DepartmentID int64
	Year         int
	Month        time.Month
	Rows         []Row
	Days         []Day
	Cells        []CellState
	ShiftTypes   []ShiftType
	CanEdit      bool
	ViewerID     int64
	FreeDayCode  string
	LeaveCode    string
}

// Grid holds the cells of one department month in rendered row order.
type Grid struct {
	DepartmentID int64
	Year         int
	Month        time.Month

	rows       []Row
	rowIndex   map[int64]int
	days       []Day
	cells      map[Key]*Cell
	nonWorking map[int]bool
	minDay     int
	maxDay     int
	freeCode   string
}

func newGrid(l Layout) *Grid {
	g := &Grid{
		DepartmentID: l.DepartmentID,
		Year:         l.Year,
		Month:        l.Month,
		rows:         append([]Row(nil), l.Rows...),
		rowIndex:     make(map[int64]int, len(l.Rows)),
		days:         append([]Day(nil), l.Days...),
		cells:        make(map[Key]*Cell, len(l.Rows)*len(l.Days)),
		nonWorking:   make(map[int]bool),
		freeCode:     l.FreeDayCode,
	}
	sort.Slice(g.days, func(i, j int) bool { return g.days[i].Day < g.days[j].Day })
	if len(g.days) > 0 {
		g.minDay = g.days[0].Day
		g.maxDay = g.days[len(g.days)-1].Day
	}

	for i, r := range g.rows {
		g.rowIndex[r.EmployeeID] = i
		for _, d := range g.days {
			k := Key{EmployeeID: r.EmployeeID, Day: d.Day}
			date := d.Date
			if date == "" {
				date = g.date(d.Day)
			}
			g.cells[k] = &Cell{Key: k, Date: date}
		}
	}
	for _, d := range g.days {
		if d.NonWorking {
			g.nonWorking[d.Day] = true
		}
	}
	for _, cs := range l.Cells {
		c, ok := g.cells[Key{EmployeeID: cs.EmployeeID, Day: cs.Day}]
		if !ok {
			continue
		}
		c.RequestID = cs.RequestID
		c.setCode(cs.Code, cs.Color)
	}
	for _, r := range g.rows {
		g.recountFree(r.EmployeeID)
	}
	return g
}

func (c *Cell) setCode(code, color string) {
	if code == "" {
		c.Code, c.Color, c.TextColor = "", "", ""
		return
	}
	c.Code = code
	c.Color = color
	c.TextColor = colorutil.Contrast(color)
}

// Cell returns the cell at k.
func (g *Grid) Cell(k Key) (*Cell, bool) {
	c, ok := g.cells[k]
	return c, ok
}

// Rows returns the rows in rendered order.
func (g *Grid) Rows() []Row {
	return g.rows
}

func (g *Grid) Days() []Day {
	return g.days
}

// DayRange returns the first and last day of the grid.
func (g *Grid) DayRange() (int, int) {
	return g.minDay, g.maxDay
}

func (g *Grid) NonWorking(day int) bool {
	return g.nonWorking[day]
}

func (g *Grid) rowOf(employeeID int64) (int, bool) {
	i, ok := g.rowIndex[employeeID]
	return i, ok
}

func (g *Grid) row(employeeID int64) *Row {
	if i, ok := g.rowIndex[employeeID]; ok {
		return &g.rows[i]
	}
	return nil
}

// FreeDays returns the number of free-day cells in the employee's row.
func (g *Grid) FreeDays(employeeID int64) int {
	if r := g.row(employeeID); r != nil {
		return r.FreeDays
	}
	return 0
}

func (g *Grid) recountFree(employeeID int64) {
	r := g.row(employeeID)
	if r == nil {
		return
	}
	n := 0
	for _, d := range g.days {
		if c := g.cells[Key{EmployeeID: employeeID, Day: d.Day}]; c != nil && c.Code == g.freeCode {
			n++
		}
	}
	r.FreeDays = n
}

// rowCodes maps day to code for one employee's non-empty cells.
func (g *Grid) rowCodes(employeeID int64) map[int]string {
	out := make(map[int]string)
	for _, d := range g.days {
		if c := g.cells[Key{EmployeeID: employeeID, Day: d.Day}]; c != nil && c.Code != "" {
			out[d.Day] = c.Code
		}
	}
	return out
}

func (g *Grid) date(day int) string {
	return time.Date(g.Year, g.Month, day, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
}
