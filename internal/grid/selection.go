package grid

// Selection is the set of selected cells plus the range anchor and the
// keyboard cursor. Every member is a cell of the grid and carries the
// Selected marker; nothing else does.
type Selection struct {
	grid    *Grid
	order   []Key
	members map[Key]struct{}
	anchor  *Key
	cursor  *Key
	onClear func()
}

func newSelection(g *Grid, onClear func()) *Selection {
	return &Selection{
		grid:    g,
		members: make(map[Key]struct{}),
		onClear: onClear,
	}
}

// Select adds k. Keys outside the grid are ignored.
func (s *Selection) Select(k Key) {
	c, ok := s.grid.Cell(k)
	if !ok {
		return
	}
	if _, in := s.members[k]; in {
		return
	}
	s.members[k] = struct{}{}
	s.order = append(s.order, k)
	c.Selected = true
}

func (s *Selection) Deselect(k Key) {
	if _, in := s.members[k]; !in {
		return
	}
	delete(s.members, k)
	for i, o := range s.order {
		if o == k {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	if c, ok := s.grid.Cell(k); ok {
		c.Selected = false
	}
}

func (s *Selection) Toggle(k Key) {
	if s.Has(k) {
		s.Deselect(k)
		return
	}
	s.Select(k)
}

// ClearAll empties the selection and closes the dropdown.
func (s *Selection) ClearAll() {
	s.clear()
	if s.onClear != nil {
		s.onClear()
	}
}

// Replace clears the selection without touching the dropdown and selects keys.
func (s *Selection) Replace(keys []Key) {
	s.clear()
	for _, k := range keys {
		s.Select(k)
	}
}

func (s *Selection) clear() {
	for _, k := range s.order {
		if c, ok := s.grid.Cell(k); ok {
			c.Selected = false
		}
	}
	s.order = s.order[:0]
	s.members = make(map[Key]struct{})
}

func (s *Selection) Has(k Key) bool {
	_, ok := s.members[k]
	return ok
}

func (s *Selection) Len() int {
	return len(s.order)
}

// Keys returns the members in the order they were selected.
func (s *Selection) Keys() []Key {
	return append([]Key(nil), s.order...)
}

func (s *Selection) First() (Key, bool) {
	if len(s.order) == 0 {
		return Key{}, false
	}
	return s.order[0], true
}

// Employees returns the distinct employees of the selection in first-seen order.
func (s *Selection) Employees() []int64 {
	seen := make(map[int64]struct{})
	var out []int64
	for _, k := range s.order {
		if _, ok := seen[k.EmployeeID]; ok {
			continue
		}
		seen[k.EmployeeID] = struct{}{}
		out = append(out, k.EmployeeID)
	}
	return out
}

func (s *Selection) Anchor() (Key, bool) {
	if s.anchor == nil {
		return Key{}, false
	}
	return *s.anchor, true
}

func (s *Selection) setAnchor(k Key) {
	if _, ok := s.grid.Cell(k); !ok {
		s.anchor = nil
		return
	}
	s.anchor = &k
}

func (s *Selection) Cursor() (Key, bool) {
	if s.cursor == nil {
		return Key{}, false
	}
	return *s.cursor, true
}

// setCursor moves the keyboard cursor marker to k.
func (s *Selection) setCursor(k Key) {
	s.clearCursorMarker()
	c, ok := s.grid.Cell(k)
	if !ok {
		s.cursor = nil
		return
	}
	c.Cursor = true
	s.cursor = &k
}

// clearCursorMarker removes the marker but keeps the logical position.
func (s *Selection) clearCursorMarker() {
	if s.cursor == nil {
		return
	}
	if c, ok := s.grid.Cell(*s.cursor); ok {
		c.Cursor = false
	}
}

func (s *Selection) clearCursor() {
	s.clearCursorMarker()
	s.cursor = nil
}
