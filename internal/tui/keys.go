package tui

import (
	"strings"
	"unicode"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cmlabs-hris/grafik-backend-go/internal/grid"
	"github.com/cmlabs-hris/grafik-backend-go/internal/pkg/keycombo"
)

// comboFor converts a bubbletea key into the controller's combo form.
// Backspace counts as Delete. Terminals report Shift+letter as the
// uppercase rune, so a cased uppercase letter carries Shift.
func comboFor(msg tea.KeyMsg) (keycombo.Combo, bool) {
	if msg.Type == tea.KeyRunes {
		if len(msg.Runes) != 1 {
			return "", false
		}
		r := msg.Runes[0]
		shift := unicode.IsUpper(r) && unicode.ToLower(r) != r
		return keycombo.New(string(r), false, shift, msg.Alt), true
	}

	s := msg.String()
	alt := strings.HasPrefix(s, "alt+")
	s = strings.TrimPrefix(s, "alt+")
	parts := strings.Split(s, "+")
	key := parts[len(parts)-1]
	var ctrl, shift bool
	for _, p := range parts[:len(parts)-1] {
		switch p {
		case "ctrl":
			ctrl = true
		case "shift":
			shift = true
		}
	}

	switch key {
	case "backspace", "delete":
		key = "Delete"
	case "esc":
		key = "Escape"
	case "", " ":
		return "", false
	}
	return keycombo.New(key, ctrl, shift, alt), true
}

// handleKey reports whether the program should quit.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	if msg.String() == "ctrl+c" {
		return nil, true
	}

	if m.form != nil {
		switch msg.String() {
		case "esc":
			m.form = nil
			m.setStatus("Anulowano", false)
			return nil, false
		case "enter":
			return m.submitForm(), false
		}
		var cmd tea.Cmd
		m.form.signature, cmd = m.form.signature.Update(msg)
		return cmd, false
	}

	if m.confirmAutoPlan {
		m.confirmAutoPlan = false
		switch msg.String() {
		case "t", "T", "y", "Y", "enter":
			m.setStatus("Generowanie planu...", false)
			return m.run(m.ctrl.Handle(grid.AutoPlanEvent{})), false
		}
		m.setStatus("Anulowano", false)
		return nil, false
	}

	if m.ctrl == nil {
		switch msg.String() {
		case "q", "esc":
			return nil, true
		case "ctrl+r":
			return m.load(), false
		}
		return nil, false
	}

	switch msg.String() {
	case "ctrl+q":
		return nil, true
	case "ctrl+r":
		return m.load(), false
	case "pgup":
		return m.shiftMonth(-1), false
	case "pgdown":
		return m.shiftMonth(1), false
	case "ctrl+y":
		m.copySelection()
		return nil, false
	case "ctrl+a":
		if !m.ctrl.CanEdit() {
			m.setStatus("Brak uprawnień do edycji grafiku", true)
			return nil, false
		}
		m.confirmAutoPlan = true
		m.setStatus("Wypełnić miesiąc automatycznie? Istniejące wpisy zostaną zastąpione (t/n)", false)
		return nil, false
	}

	if menu := m.ctrl.Menu(); menu != nil && len(menu.Items) > 0 {
		switch msg.String() {
		case "up":
			if m.menuIndex > 0 {
				m.menuIndex--
			}
			return nil, false
		case "down":
			if m.menuIndex < len(menu.Items)-1 {
				m.menuIndex++
			}
			return nil, false
		case "enter":
			item := menu.Items[m.menuIndex]
			return m.run(m.ctrl.Handle(grid.ChooseEvent{Item: item})), false
		}
	}

	combo, ok := comboFor(msg)
	if !ok {
		return nil, false
	}
	cmd := m.run(m.ctrl.Handle(grid.KeyEvent{Combo: combo}))
	m.scrollToCursor()
	return cmd, false
}
