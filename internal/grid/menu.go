package grid

import (
	"fmt"

	"github.com/cmlabs-hris/grafik-backend-go/internal/pkg/keycombo"
)

// ShiftType is the controller's read-only view of a selectable shift code.
type ShiftType struct {
	ID       int64
	Name     string
	Code     string
	Color    string
	Hours    string
	Shortcut keycombo.Combo
	MainOnly bool
	// TemplateKey is "id_<n>" for a stored template, the legacy kind name
	// otherwise, and empty when the type produces no request.
	TemplateKey    string
	TemplateID     *int64
	LegacyTemplate string
}

func (t ShiftType) HasTemplate() bool {
	return t.TemplateKey != ""
}

// RequestNoun is the document name used in menu labels.
func (t ShiftType) RequestNoun() string {
	if t.LegacyTemplate == "urlop" && t.TemplateID == nil {
		return "podanie"
	}
	return "wniosek"
}

type ItemKind int

const (
	ItemShiftType ItemKind = iota
	ItemDownloadRequest
	ItemSubmitRequest
	ItemRepeatPrevious
	ItemClear
)

// RequestDraft pre-fills the leave-request form.
type RequestDraft struct {
	EmployeeID  int64
	ShiftTypeID int64
	DateFrom    string
	DateTo      string
}

type Item struct {
	Kind      ItemKind
	Label     string
	Hint      string
	ShiftType *ShiftType
	RequestID int64
	Draft     *RequestDraft
	// Separator asks the renderer for a divider above this item.
	Separator bool
}

// Menu is the action dropdown bound to one anchor cell.
type Menu struct {
	Anchor Key
	Header string
	Items  []Item
	// Limited menus only offer request entries; they open for viewers who
	// cannot edit but click their own request-backed cells.
	Limited bool
}

func (c *Controller) buildMenu(anchor Key) *Menu {
	m := &Menu{Anchor: anchor}
	n := c.sel.Len()
	if n > 1 {
		m.Header = fmt.Sprintf("Zaznaczono: %d dni", n)
	}

	allMain := c.allSelectedMain()
	for i := range c.types {
		t := &c.types[i]
		if t.MainOnly && !allMain {
			continue
		}
		m.Items = append(m.Items, Item{
			Kind:      ItemShiftType,
			Label:     t.Code + " " + t.Name,
			Hint:      typeHint(*t),
			ShiftType: t,
		})
	}

	employees := c.sel.Employees()
	if len(employees) == 1 {
		items := c.requestItems(employees[0], c.sel.Keys())
		if len(items) > 0 {
			items[0].Separator = true
			m.Items = append(m.Items, items...)
		}
	}

	m.Items = append(m.Items,
		Item{Kind: ItemRepeatPrevious, Label: "Powtórz poprzedni", Separator: true},
		Item{Kind: ItemClear, Label: "Wyczyść", Separator: true},
	)
	return m
}

// buildLimitedMenu offers only the request entries of a single cell.
func (c *Controller) buildLimitedMenu(anchor Key) *Menu {
	m := &Menu{Anchor: anchor, Limited: true}
	cell, ok := c.grid.Cell(anchor)
	if !ok {
		return m
	}
	t := c.typeByCode[cell.Code]
	if t == nil || !t.HasTemplate() {
		return m
	}
	noun := t.RequestNoun()
	if cell.RequestID != 0 {
		m.Items = append(m.Items, Item{Kind: ItemDownloadRequest, Label: "Pobierz " + noun, ShiftType: t, RequestID: cell.RequestID})
	}
	if draft := c.draftFor(anchor.EmployeeID, t, anchor.Day); draft != nil {
		m.Items = append(m.Items, Item{Kind: ItemSubmitRequest, Label: "Złóż " + noun, ShiftType: t, Draft: draft})
	}
	return m
}

// requestItems groups the employee's selected cells by request template and
// returns one download or submit entry per template.
func (c *Controller) requestItems(employeeID int64, keys []Key) []Item {
	type group struct {
		typ   *ShiftType
		cells []*Cell
	}
	var order []string
	groups := make(map[string]*group)

	for _, k := range keys {
		cell, ok := c.grid.Cell(k)
		if !ok || cell.Empty() {
			continue
		}
		t := c.typeByCode[cell.Code]
		if t == nil || !t.HasTemplate() {
			continue
		}
		g, ok := groups[t.TemplateKey]
		if !ok {
			g = &group{typ: t}
			groups[t.TemplateKey] = g
			order = append(order, t.TemplateKey)
		}
		g.cells = append(g.cells, cell)
	}

	var items []Item
	for _, key := range order {
		g := groups[key]
		noun := g.typ.RequestNoun()
		var requestID int64
		for _, cell := range g.cells {
			if cell.RequestID != 0 {
				requestID = cell.RequestID
				break
			}
		}
		if requestID != 0 {
			items = append(items, Item{
				Kind:      ItemDownloadRequest,
				Label:     fmt.Sprintf("Pobierz %s (%s)", noun, g.typ.Code),
				ShiftType: g.typ,
				RequestID: requestID,
			})
			continue
		}
		ref, _ := c.sel.First()
		draft := c.draftFor(employeeID, g.typ, ref.Day)
		if draft == nil {
			continue
		}
		items = append(items, Item{
			Kind:      ItemSubmitRequest,
			Label:     fmt.Sprintf("Złóż %s (%s)", noun, g.typ.Code),
			ShiftType: g.typ,
			Draft:     draft,
		})
	}
	return items
}

func (c *Controller) draftFor(employeeID int64, t *ShiftType, refDay int) *RequestDraft {
	days := c.grid.TypeGroup(employeeID, t.Code, refDay)
	if len(days) == 0 {
		return nil
	}
	first, _ := c.grid.Cell(Key{EmployeeID: employeeID, Day: days[0]})
	last, _ := c.grid.Cell(Key{EmployeeID: employeeID, Day: days[len(days)-1]})
	return &RequestDraft{
		EmployeeID:  employeeID,
		ShiftTypeID: t.ID,
		DateFrom:    first.Date,
		DateTo:      last.Date,
	}
}

func typeHint(t ShiftType) string {
	hint := t.Hours
	if t.Shortcut != "" {
		if hint != "" {
			hint += " "
		}
		hint += "[" + t.Shortcut.String() + "]"
	}
	return hint
}

// Rect is a screen rectangle in renderer units (pixels or terminal cells).
type Rect struct {
	X, Y, W, H int
}

func (r Rect) Right() int  { return r.X + r.W }
func (r Rect) Bottom() int { return r.Y + r.H }

// PlaceMenu positions a w×h menu below-left of the anchor, shifting it left
// when it would overflow the right edge and flipping it above the anchor
// when it would overflow the bottom.
func PlaceMenu(anchor Rect, w, h, viewportW, viewportH int) (x, y int) {
	x = anchor.X
	y = anchor.Bottom() + 2
	if x+w > viewportW {
		x = viewportW - w - 8
	}
	if y+h > viewportH {
		y = anchor.Y - h - 2
	}
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	return x, y
}
