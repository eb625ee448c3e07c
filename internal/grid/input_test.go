package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInput_DragSelectsRectangle(t *testing.T) {
	c := newTestController()

	c.Handle(PressEvent{Key: k(annaID, 2)})
	assert.Equal(t, StateDragging, c.State())
	c.Handle(MoveEvent{Key: k(annaID, 3)})
	c.Handle(MoveEvent{Key: k(borysID, 4)})
	c.Handle(ReleaseEvent{})

	assert.Equal(t, StateIdle, c.State())
	assert.Equal(t, []Key{
		k(annaID, 2), k(annaID, 3), k(annaID, 4),
		k(borysID, 2), k(borysID, 3), k(borysID, 4),
	}, c.Selection().Keys())
	assertMarkers(t, c)

	require.NotNil(t, c.Menu())
	assert.Equal(t, k(borysID, 4), c.Menu().Anchor)
	anchor, ok := c.Selection().Anchor()
	require.True(t, ok)
	assert.Equal(t, k(borysID, 4), anchor)
}

func TestInput_DragBackShrinksRectangle(t *testing.T) {
	c := newTestController()

	c.Handle(PressEvent{Key: k(borysID, 5)})
	c.Handle(MoveEvent{Key: k(celinaID, 8)})
	c.Handle(MoveEvent{Key: k(annaID, 5)})
	c.Handle(ReleaseEvent{})

	assert.Equal(t, []Key{k(annaID, 5), k(borysID, 5)}, c.Selection().Keys())
	assertMarkers(t, c)
}

func TestInput_ReleaseSuppressesFollowingOutsideClick(t *testing.T) {
	c := newTestController()

	c.Handle(PressEvent{Key: k(annaID, 2)})
	c.Handle(MoveEvent{Key: k(annaID, 4)})
	c.Handle(ReleaseEvent{})
	c.Handle(OutsideClickEvent{})
	assert.Equal(t, 3, c.Selection().Len())
	assert.NotNil(t, c.Menu())

	c.Handle(TickEvent{})
	c.Handle(OutsideClickEvent{})
	assert.Zero(t, c.Selection().Len())
	assert.Nil(t, c.Menu())
	assertMarkers(t, c)
}

func TestInput_ShiftExtendsWithinRow(t *testing.T) {
	c := newTestController()
	drag(c, k(annaID, 3), k(annaID, 3))

	c.Handle(PressEvent{Key: k(annaID, 6), Mods: Modifiers{Shift: true}})

	assert.Equal(t, []Key{k(annaID, 3), k(annaID, 4), k(annaID, 5), k(annaID, 6)}, c.Selection().Keys())
	require.NotNil(t, c.Menu())
	assert.Equal(t, k(annaID, 6), c.Menu().Anchor)
	assert.Equal(t, "Zaznaczono: 4 dni", c.Menu().Header)
}

func TestInput_ShiftBackwardsSelectsInclusiveRange(t *testing.T) {
	c := newTestController()
	drag(c, k(borysID, 9), k(borysID, 9))

	c.Handle(PressEvent{Key: k(borysID, 7), Mods: Modifiers{Shift: true}})

	assert.Equal(t, 3, c.Selection().Len())
	assert.True(t, c.Selection().Has(k(borysID, 8)))
}

func TestInput_ShiftAcrossRowsSelectsOnlyTarget(t *testing.T) {
	c := newTestController()
	drag(c, k(annaID, 3), k(annaID, 5))

	c.Handle(PressEvent{Key: k(borysID, 6), Mods: Modifiers{Shift: true}})

	assert.Equal(t, []Key{k(borysID, 6)}, c.Selection().Keys())
	assertMarkers(t, c)
}

func TestInput_CtrlTogglesCells(t *testing.T) {
	c := newTestController()
	drag(c, k(annaID, 3), k(annaID, 3))

	c.Handle(PressEvent{Key: k(celinaID, 5), Mods: Modifiers{Ctrl: true}})
	assert.Equal(t, []Key{k(annaID, 3), k(celinaID, 5)}, c.Selection().Keys())
	assert.NotNil(t, c.Menu())

	c.Handle(PressEvent{Key: k(celinaID, 5), Mods: Modifiers{Ctrl: true}})
	assert.Equal(t, []Key{k(annaID, 3)}, c.Selection().Keys())

	c.Handle(PressEvent{Key: k(annaID, 3), Mods: Modifiers{Ctrl: true}})
	assert.Zero(t, c.Selection().Len())
	assert.Nil(t, c.Menu())
	assertMarkers(t, c)
}

func TestInput_PlainPressReplacesSelection(t *testing.T) {
	c := newTestController()
	drag(c, k(annaID, 3), k(borysID, 5))

	c.Handle(PressEvent{Key: k(celinaID, 9)})

	assert.Equal(t, []Key{k(celinaID, 9)}, c.Selection().Keys())
	assert.Nil(t, c.Menu())
}

func TestInput_ArrowsMoveCursor(t *testing.T) {
	c := newTestController()

	press(c, "right")
	cur, ok := c.Selection().Cursor()
	require.True(t, ok)
	assert.Equal(t, k(annaID, 2), cur)
	assert.Equal(t, []Key{k(annaID, 2)}, c.Selection().Keys())
	assert.Equal(t, StateCursorActive, c.State())
	cl, _ := c.Grid().Cell(k(annaID, 2))
	assert.True(t, cl.Cursor)

	press(c, "down")
	cur, _ = c.Selection().Cursor()
	assert.Equal(t, k(borysID, 2), cur)
	cl, _ = c.Grid().Cell(k(annaID, 2))
	assert.False(t, cl.Cursor)
	assertMarkers(t, c)
}

func TestInput_ArrowsClampAtGridEdges(t *testing.T) {
	c := newTestController()

	press(c, "right")
	press(c, "left")
	press(c, "left")
	cur, _ := c.Selection().Cursor()
	assert.Equal(t, k(annaID, 1), cur)

	press(c, "up")
	cur, _ = c.Selection().Cursor()
	assert.Equal(t, k(annaID, 1), cur)

	for range 5 {
		press(c, "down")
	}
	cur, _ = c.Selection().Cursor()
	assert.Equal(t, k(celinaID, 1), cur)

	drag(c, k(celinaID, 14), k(celinaID, 14))
	press(c, "right")
	cur, _ = c.Selection().Cursor()
	assert.Equal(t, k(celinaID, 14), cur)
}

func TestInput_ArrowsWrapBetweenRows(t *testing.T) {
	c := newTestController()
	drag(c, k(annaID, 14), k(annaID, 14))

	press(c, "right")
	cur, _ := c.Selection().Cursor()
	assert.Equal(t, k(borysID, 1), cur)

	press(c, "left")
	cur, _ = c.Selection().Cursor()
	assert.Equal(t, k(annaID, 14), cur)
}

func TestInput_ShiftArrowExtendsSelection(t *testing.T) {
	c := newTestController()

	press(c, "right")
	press(c, "shift+right")
	press(c, "shift+right")

	assert.Equal(t, []Key{k(annaID, 2), k(annaID, 3), k(annaID, 4)}, c.Selection().Keys())
	cur, _ := c.Selection().Cursor()
	assert.Equal(t, k(annaID, 4), cur)
	anchor, _ := c.Selection().Anchor()
	assert.Equal(t, k(annaID, 2), anchor)
}

func TestInput_EscapeClearsEverything(t *testing.T) {
	c := newTestController()
	press(c, "right")
	press(c, "enter")
	require.NotNil(t, c.Menu())

	press(c, "esc")

	assert.Zero(t, c.Selection().Len())
	_, hasCursor := c.Selection().Cursor()
	assert.False(t, hasCursor)
	assert.Nil(t, c.Menu())
	assert.Equal(t, StateIdle, c.State())
	assertMarkers(t, c)
}

func TestInput_EnterOpensMenuAtCursor(t *testing.T) {
	c := newTestController()
	press(c, "right")
	press(c, "shift+down")

	press(c, "enter")

	require.NotNil(t, c.Menu())
	assert.Equal(t, k(borysID, 2), c.Menu().Anchor)
	assert.Equal(t, "Zaznaczono: 2 dni", c.Menu().Header)
}

func TestInput_ShortcutAppliesAndAdvances(t *testing.T) {
	c := newTestController()
	press(c, "right")

	eff := press(c, "1")

	require.Len(t, eff.Ops, 1)
	op := eff.Ops[0]
	assert.Equal(t, OpUpsert, op.Kind)
	assert.Equal(t, "2025-10-02", op.Upsert.Date)
	assert.Equal(t, typeDay, op.Upsert.ShiftTypeID)
	assert.Equal(t, int64(10), op.Upsert.DepartmentID)

	cur, _ := c.Selection().Cursor()
	assert.Equal(t, k(annaID, 3), cur)
	assert.Equal(t, []Key{k(annaID, 3)}, c.Selection().Keys())
	assert.Equal(t, StateCursorActive, c.State())
	assert.Empty(t, codeAt(c, k(annaID, 2)), "cell changes only when the server answers")

	runAll(c, newFakeRemote(), eff)
	assert.Equal(t, "1", codeAt(c, k(annaID, 2)))
}

func TestInput_ShortcutOnRangeSendsOneBatch(t *testing.T) {
	c := newTestController()
	drag(c, k(annaID, 6), k(annaID, 8))

	eff := press(c, "1")

	require.Len(t, eff.Ops, 1)
	assert.Equal(t, OpBatch, eff.Ops[0].Kind)
	assert.Len(t, eff.Ops[0].Batch.Entries, 3)
	assert.Zero(t, c.Selection().Len())
	assert.Equal(t, StateIdle, c.State())
}

func TestInput_MainOnlyShortcutNeedsMainEmployees(t *testing.T) {
	c := newTestController()
	drag(c, k(celinaID, 6), k(celinaID, 6))

	eff := press(c, "ctrl+n")
	assert.True(t, eff.Empty())
	assert.Equal(t, 1, c.Selection().Len())

	drag(c, k(annaID, 6), k(annaID, 6))
	eff = press(c, "ctrl+n")
	require.Len(t, eff.Ops, 1)
	assert.Equal(t, typeNight, eff.Ops[0].Upsert.ShiftTypeID)
}

func TestInput_UnboundKeyDoesNothing(t *testing.T) {
	c := newTestController()
	drag(c, k(annaID, 6), k(annaID, 6))

	eff := press(c, "q")

	assert.True(t, eff.Empty())
	assert.Equal(t, 1, c.Selection().Len())
}

func TestInput_DeleteKey(t *testing.T) {
	c := newTestController(cell(annaID, 6, "1", "#b6dafc"), cell(annaID, 7, "1", "#b6dafc"))

	drag(c, k(annaID, 6), k(annaID, 6))
	eff := press(c, "delete")
	require.Len(t, eff.Ops, 1)
	assert.Equal(t, OpDelete, eff.Ops[0].Kind)
	assert.Equal(t, "2025-10-06", eff.Ops[0].Delete.Date)
	assert.Zero(t, c.Selection().Len())

	drag(c, k(annaID, 6), k(annaID, 7))
	eff = press(c, "del")
	require.Len(t, eff.Ops, 1)
	assert.Equal(t, OpBatch, eff.Ops[0].Kind)
	assert.Nil(t, eff.Ops[0].Batch.ShiftTypeID)
	assert.Len(t, eff.Ops[0].Batch.Entries, 2)
}

func TestInput_KeysWithoutSelectionAreIgnored(t *testing.T) {
	c := newTestController()

	assert.True(t, press(c, "1").Empty())
	assert.True(t, press(c, "delete").Empty())
	assert.Nil(t, c.Menu())
}

func TestInput_ViewerWithoutEditRights(t *testing.T) {
	l := testLayout(
		CellState{EmployeeID: borysID, Day: 9, Code: "U", Color: "#fde68a", RequestID: 55},
		cell(annaID, 9, "U", "#fde68a"),
	)
	l.CanEdit = false
	c := New(l, nil)
	c.Mount()

	c.Handle(PressEvent{Key: k(annaID, 9)})
	assert.Zero(t, c.Selection().Len())
	assert.Nil(t, c.Menu())

	c.Handle(PressEvent{Key: k(borysID, 6)})
	assert.Zero(t, c.Selection().Len())

	assert.True(t, press(c, "right").Empty())
	_, hasCursor := c.Selection().Cursor()
	assert.False(t, hasCursor)

	c.Handle(PressEvent{Key: k(borysID, 9)})
	m := c.Menu()
	require.NotNil(t, m)
	assert.True(t, m.Limited)
	require.Len(t, m.Items, 2)
	assert.Equal(t, ItemDownloadRequest, m.Items[0].Kind)
	assert.Equal(t, "Pobierz podanie", m.Items[0].Label)
	assert.Equal(t, int64(55), m.Items[0].RequestID)
	assert.Equal(t, ItemSubmitRequest, m.Items[1].Kind)

	eff := c.Handle(ChooseEvent{Item: m.Items[0]})
	assert.Equal(t, int64(55), eff.Download)
	assert.Empty(t, eff.Ops)
	assert.Nil(t, c.Menu())
}

func TestInput_UnmountedControllerIgnoresEvents(t *testing.T) {
	c := New(testLayout(), nil)

	c.Handle(PressEvent{Key: k(annaID, 2)})
	assert.Zero(t, c.Selection().Len())

	c.Mount()
	c.Handle(PressEvent{Key: k(annaID, 2)})
	assert.Equal(t, StateDragging, c.State())

	c.Unmount()
	assert.False(t, c.Mounted())
	assert.Equal(t, StateIdle, c.State())
	assert.True(t, c.Handle(AutoPlanEvent{}).Empty())
}

func TestInput_DuplicateShortcutKeepsFirstBinding(t *testing.T) {
	l := testLayout()
	l.ShiftTypes = append(l.ShiftTypes, ShiftType{ID: 9, Name: "Inny", Code: "X", Shortcut: l.ShiftTypes[0].Shortcut})
	c := New(l, nil)

	st, ok := c.ShortcutFor(l.ShiftTypes[0].Shortcut)
	require.True(t, ok)
	assert.Equal(t, typeDay, st.ID)
}
