package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cmlabs-hris/grafik-backend-go/internal/grid"
)

// handleMouse feeds press, drag and release into the controller. Every
// release and outside click is followed by a tick so the controller can
// tell the click that ends a drag from a fresh one.
func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if m.ctrl == nil || m.form != nil || (msg.Button != tea.MouseButtonLeft && msg.Action != tea.MouseActionRelease) {
		return nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if idx, onItem, inMenu := m.menuItemAt(msg.X, msg.Y); inMenu {
			if !onItem {
				return nil
			}
			m.menuIndex = idx
			item := m.ctrl.Menu().Items[idx]
			return m.run(m.ctrl.Handle(grid.ChooseEvent{Item: item}))
		}
		if k, ok := m.cellAt(msg.X, msg.Y); ok {
			m.ctrl.Handle(grid.PressEvent{Key: k, Mods: grid.Modifiers{Shift: msg.Shift, Ctrl: msg.Ctrl, Alt: msg.Alt}})
			return nil
		}
		m.ctrl.Handle(grid.OutsideClickEvent{})
		m.ctrl.Handle(grid.TickEvent{})

	case tea.MouseActionMotion:
		if k, ok := m.cellAt(msg.X, msg.Y); ok {
			m.ctrl.Handle(grid.MoveEvent{Key: k})
		}

	case tea.MouseActionRelease:
		m.ctrl.Handle(grid.ReleaseEvent{})
		m.ctrl.Handle(grid.TickEvent{})
	}
	return nil
}

// SelectionTSV renders the selected cells as tab-separated codes, one line
// per employee over the selected day span. Unselected cells are blank.
func SelectionTSV(c *grid.Controller) string {
	if c == nil || c.Selection().Len() == 0 {
		return ""
	}
	g := c.Grid()
	sel := c.Selection()

	minDay, maxDay := 0, 0
	for i, k := range sel.Keys() {
		if i == 0 || k.Day < minDay {
			minDay = k.Day
		}
		if i == 0 || k.Day > maxDay {
			maxDay = k.Day
		}
	}

	var lines []string
	for _, r := range g.Rows() {
		cols := make([]string, 0, maxDay-minDay+1)
		hit := false
		for d := minDay; d <= maxDay; d++ {
			k := grid.Key{EmployeeID: r.EmployeeID, Day: d}
			if !sel.Has(k) {
				cols = append(cols, "")
				continue
			}
			hit = true
			if cell, ok := g.Cell(k); ok {
				cols = append(cols, cell.Code)
			} else {
				cols = append(cols, "")
			}
		}
		if hit {
			lines = append(lines, strings.Join(cols, "\t"))
		}
	}
	return strings.Join(lines, "\n")
}
