package grid

import (
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/grafik-backend-go/internal/pkg/keycombo"
)

type State int

const (
	StateIdle State = iota
	StateDragging
	StateCursorActive
)

func (s State) String() string {
	switch s {
	case StateDragging:
		return "dragging"
	case StateCursorActive:
		return "cursor"
	}
	return "idle"
}

type Modifiers struct {
	Shift bool
	// Ctrl covers Cmd/Meta as well.
	Ctrl bool
	Alt  bool
}

// Effect is what the caller must do after an event: run the ops against the
// Remote and hand each Outcome to Apply, open the request form, or fetch a
// request PDF.
type Effect struct {
	Ops      []*Op
	Submit   *RequestDraft
	Download int64
}

func (e Effect) Empty() bool {
	return len(e.Ops) == 0 && e.Submit == nil && e.Download == 0
}

// Controller interprets pointer and keyboard input over one grid. It is not
// safe for concurrent use; all events and outcomes must be delivered from a
// single goroutine.
type Controller struct {
	grid *Grid
	sel  *Selection

	types      []ShiftType
	typeByID   map[int64]*ShiftType
	typeByCode map[string]*ShiftType
	shortcuts  map[keycombo.Combo]int64

	canEdit   bool
	viewerID  int64
	freeCode  string
	leaveCode string

	mounted     bool
	state       State
	dragStart   Key
	dragCurrent Key
	menu        *Menu
	suppress    bool

	alert        string
	reloadNeeded bool
	seq          uint64
	inflight     int

	logger *slog.Logger
}

// New builds a controller for the layout. A nil logger means slog.Default().
func New(l Layout, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	if l.FreeDayCode == "" {
		l.FreeDayCode = "W"
	}
	if l.LeaveCode == "" {
		l.LeaveCode = "U"
	}

	c := &Controller{
		grid:       newGrid(l),
		types:      append([]ShiftType(nil), l.ShiftTypes...),
		typeByID:   make(map[int64]*ShiftType, len(l.ShiftTypes)),
		typeByCode: make(map[string]*ShiftType, len(l.ShiftTypes)),
		shortcuts:  make(map[keycombo.Combo]int64),
		canEdit:    l.CanEdit,
		viewerID:   l.ViewerID,
		freeCode:   l.FreeDayCode,
		leaveCode:  l.LeaveCode,
		logger:     logger.With("component", "grid", "department_id", l.DepartmentID),
	}
	c.sel = newSelection(c.grid, c.closeMenu)

	for i := range c.types {
		t := &c.types[i]
		c.typeByID[t.ID] = t
		if _, dup := c.typeByCode[t.Code]; !dup {
			c.typeByCode[t.Code] = t
		}
		if t.Shortcut == "" {
			continue
		}
		if other, dup := c.shortcuts[t.Shortcut]; dup {
			c.logger.Warn("duplicate shortcut ignored", "shortcut", t.Shortcut.String(), "shift_type_id", t.ID, "bound_to", other)
			continue
		}
		c.shortcuts[t.Shortcut] = t.ID
	}
	return c
}

func (c *Controller) Grid() *Grid           { return c.grid }
func (c *Controller) Selection() *Selection { return c.sel }
func (c *Controller) State() State          { return c.state }
func (c *Controller) CanEdit() bool         { return c.canEdit }
func (c *Controller) ShiftTypes() []ShiftType {
	return c.types
}

// Menu returns the open dropdown, or nil.
func (c *Controller) Menu() *Menu { return c.menu }

// Alert returns the message that should be shown to the user, if any.
func (c *Controller) Alert() string { return c.alert }

func (c *Controller) DismissAlert() { c.alert = "" }

// TakeReload reports, once, that the month must be fetched again.
func (c *Controller) TakeReload() bool {
	r := c.reloadNeeded
	c.reloadNeeded = false
	return r
}

// ShortcutFor returns the shift type bound to combo.
func (c *Controller) ShortcutFor(combo keycombo.Combo) (*ShiftType, bool) {
	id, ok := c.shortcuts[combo]
	if !ok {
		return nil, false
	}
	return c.typeByID[id], true
}

func (c *Controller) closeMenu() {
	c.menu = nil
}

func (c *Controller) openMenu(anchor Key) {
	c.menu = c.buildMenu(anchor)
}

// openMenuAtCursor opens the menu for a keyboard-made selection.
func (c *Controller) openMenuAtCursor() {
	if !c.canEdit || c.sel.Len() == 0 {
		return
	}
	anchor, ok := c.sel.Cursor()
	if !ok {
		anchor, _ = c.sel.First()
	}
	c.openMenu(anchor)
}

func (c *Controller) allSelectedMain() bool {
	for _, id := range c.sel.Employees() {
		r := c.grid.row(id)
		if r == nil || !r.Main {
			return false
		}
	}
	return true
}

func (c *Controller) press(k Key, mods Modifiers) {
	cell, ok := c.grid.Cell(k)
	if !ok {
		return
	}

	if !c.canEdit {
		if !c.ownRequestCell(cell) {
			return
		}
		c.closeMenu()
		c.sel.clear()
		c.sel.Select(k)
		c.sel.setAnchor(k)
		c.menu = c.buildLimitedMenu(k)
		return
	}

	c.sel.clearCursor()

	if anchor, ok := c.sel.Anchor(); mods.Shift && ok {
		c.selectRange(anchor, k)
		c.sel.setAnchor(k)
		c.state = StateIdle
		if c.sel.Len() > 0 {
			c.openMenu(k)
		}
		return
	}

	if mods.Ctrl {
		c.sel.Toggle(k)
		c.closeMenu()
		c.sel.setAnchor(k)
		c.state = StateIdle
		if c.sel.Len() > 0 {
			c.openMenu(k)
		}
		return
	}

	c.closeMenu()
	c.sel.clear()
	c.state = StateDragging
	c.dragStart = k
	c.dragCurrent = k
	c.sel.Select(k)
}

func (c *Controller) ownRequestCell(cell *Cell) bool {
	if c.viewerID == 0 || cell.EmployeeID != c.viewerID || cell.Empty() {
		return false
	}
	t := c.typeByCode[cell.Code]
	return t != nil && t.HasTemplate()
}

// selectRange adds the inclusive day range between from and to. Across rows
// it falls back to selecting only the target.
func (c *Controller) selectRange(from, to Key) {
	if from.EmployeeID != to.EmployeeID {
		c.sel.ClearAll()
		c.sel.Select(to)
		return
	}
	lo, hi := from.Day, to.Day
	if lo > hi {
		lo, hi = hi, lo
	}
	for d := lo; d <= hi; d++ {
		c.sel.Select(Key{EmployeeID: to.EmployeeID, Day: d})
	}
}

func (c *Controller) move(k Key) {
	if c.state != StateDragging || k == c.dragCurrent {
		return
	}
	if _, ok := c.grid.Cell(k); !ok {
		return
	}
	c.dragCurrent = k
	c.sel.Replace(c.rectangle(c.dragStart, k))
}

// rectangle lists the cells spanned by two corners, rows in rendered order.
func (c *Controller) rectangle(a, b Key) []Key {
	ra, okA := c.grid.rowOf(a.EmployeeID)
	rb, okB := c.grid.rowOf(b.EmployeeID)
	if !okA || !okB {
		return nil
	}
	if ra > rb {
		ra, rb = rb, ra
	}
	lo, hi := a.Day, b.Day
	if lo > hi {
		lo, hi = hi, lo
	}
	rows := c.grid.Rows()
	keys := make([]Key, 0, (rb-ra+1)*(hi-lo+1))
	for r := ra; r <= rb; r++ {
		for d := lo; d <= hi; d++ {
			keys = append(keys, Key{EmployeeID: rows[r].EmployeeID, Day: d})
		}
	}
	return keys
}

func (c *Controller) release() {
	if c.state != StateDragging {
		return
	}
	c.state = StateIdle
	anchor := c.dragCurrent
	c.sel.setAnchor(anchor)
	if c.sel.Len() > 0 {
		c.openMenu(anchor)
	}
	// The click that follows a release must not clear the new selection.
	c.suppress = true
}

func (c *Controller) outsideClick() {
	if c.suppress {
		return
	}
	c.sel.ClearAll()
}

var (
	comboEscape = keycombo.New("Escape", false, false, false)
	comboDelete = keycombo.New("Delete", false, false, false)
	comboEnter  = keycombo.New("Enter", false, false, false)
)

func arrowDelta(combo keycombo.Combo) (dRow, dCol int, shift, ok bool) {
	parts := strings.Split(combo.String(), "+")
	switch parts[len(parts)-1] {
	case "Up":
		dRow = -1
	case "Down":
		dRow = 1
	case "Left":
		dCol = -1
	case "Right":
		dCol = 1
	default:
		return 0, 0, false, false
	}
	for _, p := range parts[:len(parts)-1] {
		if p == "Shift" {
			shift = true
		}
	}
	return dRow, dCol, shift, true
}

func (c *Controller) key(combo keycombo.Combo) Effect {
	if combo == comboEscape {
		c.sel.ClearAll()
		c.sel.clearCursor()
		c.state = StateIdle
		return Effect{}
	}
	if !c.canEdit {
		return Effect{}
	}

	if dRow, dCol, shift, ok := arrowDelta(combo); ok {
		c.navigate(dRow, dCol, shift)
		return Effect{}
	}

	if c.sel.Len() == 0 {
		return Effect{}
	}

	switch combo {
	case comboDelete:
		ops := c.clearSelected("delete_key")
		c.closeMenu()
		c.sel.clear()
		return Effect{Ops: ops}
	case comboEnter:
		c.openMenuAtCursor()
		return Effect{}
	}

	t, ok := c.ShortcutFor(combo)
	if !ok {
		return Effect{}
	}
	if t.MainOnly && !c.allSelectedMain() {
		return Effect{}
	}

	cursor, hasCursor := c.sel.Cursor()
	advance := hasCursor && c.sel.Len() <= 1
	ops := c.applyType(t, "shortcut")
	c.closeMenu()
	c.sel.clear()
	if advance {
		next := c.step(cursor, 0, 1)
		c.sel.Select(next)
		c.sel.setCursor(next)
		c.state = StateCursorActive
	} else {
		c.sel.clearCursor()
		c.state = StateIdle
	}
	return Effect{Ops: ops}
}

func (c *Controller) navigate(dRow, dCol int, shift bool) {
	rows := c.grid.Rows()
	if len(rows) == 0 {
		return
	}
	cur, ok := c.sel.Cursor()
	if !ok {
		if first, ok := c.sel.First(); ok {
			cur = first
		} else {
			minDay, _ := c.grid.DayRange()
			cur = Key{EmployeeID: rows[0].EmployeeID, Day: minDay}
		}
	}
	next := c.step(cur, dRow, dCol)

	if shift {
		c.sel.Select(next)
		c.sel.setCursor(next)
		c.state = StateCursorActive
		return
	}
	c.closeMenu()
	c.sel.clear()
	c.sel.Select(next)
	c.sel.setCursor(next)
	c.sel.setAnchor(next)
	c.state = StateCursorActive
}

// step moves a cursor position. Rows clamp; days wrap into the adjacent row
// and stop at the first and last cell of the grid.
func (c *Controller) step(cur Key, dRow, dCol int) Key {
	rows := c.grid.Rows()
	last := len(rows) - 1
	minDay, maxDay := c.grid.DayRange()

	idx, ok := c.grid.rowOf(cur.EmployeeID)
	if !ok {
		idx = 0
	}
	day := cur.Day

	if dRow != 0 {
		idx += dRow
		if idx < 0 {
			idx = 0
		}
		if idx > last {
			idx = last
		}
	}
	if dCol != 0 {
		day += dCol
		switch {
		case day > maxDay && idx == last:
			day = maxDay
		case day > maxDay:
			day = minDay
			idx++
		case day < minDay && idx == 0:
			day = minDay
		case day < minDay:
			day = maxDay
			idx--
		}
	}
	return Key{EmployeeID: rows[idx].EmployeeID, Day: day}
}

func (c *Controller) choose(item Item) Effect {
	c.closeMenu()
	switch item.Kind {
	case ItemDownloadRequest:
		return Effect{Download: item.RequestID}
	case ItemSubmitRequest:
		return Effect{Submit: item.Draft}
	}

	if !c.canEdit || c.sel.Len() == 0 {
		return Effect{}
	}
	var ops []*Op
	switch item.Kind {
	case ItemShiftType:
		if item.ShiftType == nil {
			return Effect{}
		}
		t, ok := c.typeByID[item.ShiftType.ID]
		if !ok {
			return Effect{}
		}
		ops = c.applyType(t, "menu")
	case ItemRepeatPrevious:
		ops = c.repeatPrevious()
	case ItemClear:
		ops = c.clearSelected("menu_clear")
	}
	c.sel.ClearAll()
	return Effect{Ops: ops}
}

// applyType prepares the ops that assign t to the selection. The leave type
// lands as the free-day type on non-working days.
func (c *Controller) applyType(t *ShiftType, reason string) []*Op {
	keys := c.sel.Keys()
	if len(keys) == 0 {
		return nil
	}
	var free *ShiftType
	if t.Code == c.leaveCode {
		free = c.typeByCode[c.freeCode]
	}
	onFreeDay := func(k Key) bool {
		return free != nil && c.grid.NonWorking(k.Day)
	}

	if len(keys) == 1 {
		id := t.ID
		if onFreeDay(keys[0]) {
			id = free.ID
		}
		op := c.newUpsert(keys[0], id)
		op.Reason = reason
		return []*Op{op}
	}

	var main, freeDays []Key
	for _, k := range keys {
		if onFreeDay(k) {
			freeDays = append(freeDays, k)
		} else {
			main = append(main, k)
		}
	}
	var ops []*Op
	if len(main) > 0 {
		id := t.ID
		op := c.newBatch(main, &id)
		op.Reason = reason
		ops = append(ops, op)
	}
	if len(freeDays) > 0 {
		id := free.ID
		op := c.newBatch(freeDays, &id)
		op.Reason = reason
		ops = append(ops, op)
	}
	return ops
}

func (c *Controller) clearSelected(reason string) []*Op {
	keys := c.sel.Keys()
	var op *Op
	switch len(keys) {
	case 0:
		return nil
	case 1:
		op = c.newDelete(keys[0])
	default:
		op = c.newBatch(keys, nil)
	}
	op.Reason = reason
	return []*Op{op}
}

// repeatPrevious copies the previous day's type onto every selected cell,
// one batch per resulting type. Cells without a typed predecessor are skipped.
func (c *Controller) repeatPrevious() []*Op {
	var order []int64
	byType := make(map[int64][]Key)
	for _, k := range c.sel.Keys() {
		prev, ok := c.grid.Cell(Key{EmployeeID: k.EmployeeID, Day: k.Day - 1})
		if !ok || prev.Empty() {
			continue
		}
		t := c.typeByCode[prev.Code]
		if t == nil {
			continue
		}
		if _, seen := byType[t.ID]; !seen {
			order = append(order, t.ID)
		}
		byType[t.ID] = append(byType[t.ID], k)
	}

	ops := make([]*Op, 0, len(order))
	for _, id := range order {
		op := c.newBatch(byType[id], &id)
		op.Reason = "repeat_previous"
		ops = append(ops, op)
	}
	return ops
}

// autoPlan prepares the month-wide fill of the department.
func (c *Controller) autoPlan() Effect {
	if !c.canEdit {
		return Effect{}
	}
	op := &Op{Kind: OpAutoPlan, Reason: "auto_plan"}
	op.AutoPlan.DepartmentID = c.grid.DepartmentID
	op.AutoPlan.Year = c.grid.Year
	op.AutoPlan.Month = int(c.grid.Month)
	return Effect{Ops: []*Op{c.stamp(op, nil)}}
}
