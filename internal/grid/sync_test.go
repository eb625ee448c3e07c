package grid

import (
	"context"
	"errors"
	"testing"

	"github.com/cmlabs-hris/grafik-backend-go/internal/pkg/colorutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSync_BatchFromMenuPaintsCells(t *testing.T) {
	c := newTestController()
	remote := newFakeRemote()
	drag(c, k(annaID, 10), k(annaID, 12))

	eff := c.Handle(ChooseEvent{Item: findItem(t, c.Menu(), "1 Dzień")})

	require.Len(t, eff.Ops, 1)
	op := eff.Ops[0]
	assert.Equal(t, OpBatch, op.Kind)
	require.NotNil(t, op.Batch.ShiftTypeID)
	assert.Equal(t, typeDay, *op.Batch.ShiftTypeID)
	assert.Len(t, op.Batch.Entries, 3)
	assert.Zero(t, c.Selection().Len())
	assert.Nil(t, c.Menu())
	assert.Equal(t, 1, c.InFlight())

	runAll(c, remote, eff)

	require.Len(t, remote.batches, 1)
	for d := 10; d <= 12; d++ {
		cl, _ := c.Grid().Cell(k(annaID, d))
		assert.Equal(t, "1", cl.Code)
		assert.Equal(t, "#b6dafc", cl.Color)
		assert.Equal(t, colorutil.Contrast("#b6dafc"), cl.TextColor)
	}
	assert.Zero(t, c.InFlight())
}

func TestSync_ClearEmptiesCellsAndRecountsFreeDays(t *testing.T) {
	c := newTestController(
		cell(annaID, 6, "W", "#e2e8f0"),
		cell(annaID, 7, "W", "#e2e8f0"),
		cell(annaID, 8, "1", "#b6dafc"),
	)
	assert.Equal(t, 2, c.Grid().FreeDays(annaID))
	drag(c, k(annaID, 6), k(annaID, 8))

	eff := c.Handle(ChooseEvent{Item: findItem(t, c.Menu(), "Wyczyść")})
	require.Len(t, eff.Ops, 1)
	assert.Nil(t, eff.Ops[0].Batch.ShiftTypeID)

	runAll(c, newFakeRemote(), eff)

	for d := 6; d <= 8; d++ {
		cl, _ := c.Grid().Cell(k(annaID, d))
		assert.True(t, cl.Empty())
		assert.Empty(t, cl.Color)
		assert.Empty(t, cl.TextColor)
	}
	assert.Zero(t, c.Grid().FreeDays(annaID))
}

func TestSync_LeaveOnNonWorkingDaysBecomesFreeDay(t *testing.T) {
	c := newTestController()
	drag(c, k(annaID, 10), k(annaID, 12))

	eff := c.Handle(ChooseEvent{Item: findItem(t, c.Menu(), "U Urlop")})

	require.Len(t, eff.Ops, 2)
	assert.Equal(t, typeLeave, *eff.Ops[0].Batch.ShiftTypeID)
	assert.Len(t, eff.Ops[0].Batch.Entries, 1)
	assert.Equal(t, "2025-10-10", eff.Ops[0].Batch.Entries[0].Date)
	assert.Equal(t, typeFree, *eff.Ops[1].Batch.ShiftTypeID)
	assert.Len(t, eff.Ops[1].Batch.Entries, 2)

	runAll(c, newFakeRemote(), eff)
	assert.Equal(t, "U", codeAt(c, k(annaID, 10)))
	assert.Equal(t, "W", codeAt(c, k(annaID, 11)))
	assert.Equal(t, "W", codeAt(c, k(annaID, 12)))
	assert.Equal(t, 2, c.Grid().FreeDays(annaID))
}

func TestSync_SingleLeaveOnWeekendUpsertsFreeDay(t *testing.T) {
	c := newTestController()
	drag(c, k(borysID, 11), k(borysID, 11))

	eff := press(c, "shift+u")

	require.Len(t, eff.Ops, 1)
	assert.Equal(t, OpUpsert, eff.Ops[0].Kind)
	assert.Equal(t, typeFree, eff.Ops[0].Upsert.ShiftTypeID)
}

func TestSync_RepeatPrevious(t *testing.T) {
	c := newTestController(
		cell(annaID, 5, "1", "#b6dafc"),
		cell(annaID, 8, "U", "#fde68a"),
	)
	for _, d := range []int{6, 9, 3} {
		c.Handle(PressEvent{Key: k(annaID, d), Mods: Modifiers{Ctrl: true}})
	}
	require.Equal(t, 3, c.Selection().Len())

	eff := c.Handle(ChooseEvent{Item: findItem(t, c.Menu(), "Powtórz poprzedni")})

	require.Len(t, eff.Ops, 2)
	assert.Equal(t, typeDay, *eff.Ops[0].Batch.ShiftTypeID)
	assert.Equal(t, "2025-10-06", eff.Ops[0].Batch.Entries[0].Date)
	assert.Equal(t, typeLeave, *eff.Ops[1].Batch.ShiftTypeID)
	assert.Equal(t, "2025-10-09", eff.Ops[1].Batch.Entries[0].Date)

	runAll(c, newFakeRemote(), eff)
	assert.Equal(t, "1", codeAt(c, k(annaID, 6)))
	assert.Equal(t, "U", codeAt(c, k(annaID, 9)))
	assert.Empty(t, codeAt(c, k(annaID, 3)))
}

func TestSync_StaleResultIsDropped(t *testing.T) {
	c := newTestController()
	remote := newFakeRemote()

	drag(c, k(annaID, 6), k(annaID, 6))
	first := press(c, "1")
	drag(c, k(annaID, 6), k(annaID, 6))
	second := press(c, "delete")
	assert.Equal(t, 2, c.InFlight())

	older := Run(context.Background(), remote, first.Ops[0])
	newer := Run(context.Background(), remote, second.Ops[0])
	c.Apply(newer)
	c.Apply(older)

	assert.Empty(t, codeAt(c, k(annaID, 6)))
	assert.Zero(t, c.InFlight())
}

func TestSync_TransportErrorOnUpsertAlerts(t *testing.T) {
	c := newTestController()
	remote := newFakeRemote()
	remote.err = errors.New("dial tcp: connection refused")

	drag(c, k(annaID, 6), k(annaID, 6))
	runAll(c, remote, press(c, "1"))

	assert.Equal(t, "Błąd połączenia z serwerem.", c.Alert())
	assert.Empty(t, codeAt(c, k(annaID, 6)))
	assert.Zero(t, c.InFlight())

	c.DismissAlert()
	assert.Empty(t, c.Alert())
}

func TestSync_RejectedUpsertShowsServerMessage(t *testing.T) {
	c := newTestController()
	remote := newFakeRemote()
	remote.rejectAs = "Ten typ zmiany nie jest dostępny w tym dziale."

	drag(c, k(annaID, 6), k(annaID, 6))
	runAll(c, remote, press(c, "1"))

	assert.Equal(t, remote.rejectAs, c.Alert())
}

func TestSync_BatchFailuresAreOnlyLogged(t *testing.T) {
	c := newTestController(cell(annaID, 6, "1", "#b6dafc"))
	remote := newFakeRemote()
	remote.rejectAs = "Brak uprawnień."

	drag(c, k(annaID, 6), k(annaID, 7))
	runAll(c, remote, press(c, "w"))
	assert.Empty(t, c.Alert())
	assert.Equal(t, "1", codeAt(c, k(annaID, 6)))

	remote.rejectAs = ""
	remote.err = errors.New("timeout")
	drag(c, k(annaID, 6), k(annaID, 7))
	runAll(c, remote, press(c, "delete"))
	assert.Empty(t, c.Alert())
	assert.Equal(t, "1", codeAt(c, k(annaID, 6)))
}

func TestSync_AutoPlan(t *testing.T) {
	c := newTestController()
	remote := newFakeRemote()
	remote.planned = 42

	eff := c.Handle(AutoPlanEvent{})
	require.Len(t, eff.Ops, 1)
	req := eff.Ops[0].AutoPlan
	assert.Equal(t, int64(10), req.DepartmentID)
	assert.Equal(t, 2025, req.Year)
	assert.Equal(t, 10, req.Month)

	out := Run(context.Background(), remote, eff.Ops[0])
	assert.Equal(t, 42, out.Count)
	c.Apply(out)

	assert.Empty(t, c.Alert())
	assert.True(t, c.TakeReload())
	assert.False(t, c.TakeReload())
}

func TestSync_AutoPlanFailureAlerts(t *testing.T) {
	c := newTestController()
	remote := newFakeRemote()
	remote.err = errors.New("connection reset")

	runAll(c, remote, c.Handle(AutoPlanEvent{}))

	assert.Equal(t, "Wystąpił błąd podczas generowania planu.", c.Alert())
	assert.False(t, c.TakeReload())

	c.DismissAlert()
	remote.err = nil
	remote.rejectAs = "Brak typu zmiany o kodzie W."
	runAll(c, remote, c.Handle(AutoPlanEvent{}))
	assert.Equal(t, remote.rejectAs, c.Alert())
}

func TestSync_AutoPlanNeedsEditRights(t *testing.T) {
	l := testLayout()
	l.CanEdit = false
	c := New(l, nil)
	c.Mount()

	assert.True(t, c.Handle(AutoPlanEvent{}).Empty())
}

func TestRun_UnknownOpKind(t *testing.T) {
	out := Run(context.Background(), newFakeRemote(), &Op{Kind: OpKind(99)})
	assert.ErrorIs(t, out.Err, ErrUnexpectedResponse)
}

func TestFailureMessage(t *testing.T) {
	assert.Equal(t, ErrUnexpectedResponse.Error(), failureMessage(""))
	assert.Equal(t, "Brak uprawnień.", failureMessage("Brak uprawnień."))
}
