package grafik

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/department"
	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/grafik"
	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/holiday"
	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/shifttype"
	"github.com/cmlabs-hris/grafik-backend-go/internal/pkg/sse"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTx struct{}

func (fakeTx) Do(ctx context.Context, fn func(txCtx context.Context) error) error { return fn(ctx) }

type cellKey struct {
	dept int64
	user int64
	date string
}

type fakeEntries struct {
	grafik.EntryRepository
	types map[int64]shifttype.ShiftType
	cells map[cellKey]int64
}

func (f *fakeEntries) Upsert(ctx context.Context, e grafik.Entry) error {
	f.cells[cellKey{e.DepartmentID, e.UserID, e.Date.Format("2006-01-02")}] = e.ShiftTypeID
	return nil
}

func (f *fakeEntries) Delete(ctx context.Context, departmentID int64, ref grafik.CellRef) error {
	delete(f.cells, cellKey{departmentID, ref.UserID, ref.Date.Format("2006-01-02")})
	return nil
}

func (f *fakeEntries) ListBetween(ctx context.Context, departmentID int64, from, to time.Time) ([]grafik.Entry, error) {
	var out []grafik.Entry
	for k, typeID := range f.cells {
		if k.dept != departmentID {
			continue
		}
		date, _ := time.Parse("2006-01-02", k.date)
		if date.Before(from) || date.After(to) {
			continue
		}
		st := f.types[typeID]
		out = append(out, grafik.Entry{
			UserID: k.user, DepartmentID: k.dept, Date: date, ShiftTypeID: typeID,
			Code: st.Code, Color: st.Color, Hours: st.Hours(),
		})
	}
	return out, nil
}

func (f *fakeEntries) ListByCode(ctx context.Context, departmentID int64, year int, code string) ([]grafik.Entry, error) {
	from := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year, 12, 31, 0, 0, 0, 0, time.UTC)
	all, _ := f.ListBetween(ctx, departmentID, from, to)
	var out []grafik.Entry
	for _, e := range all {
		if e.Code == code {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeShiftTypes struct {
	shifttype.ShiftTypeRepository
	types map[int64]shifttype.ShiftType
}

func (f *fakeShiftTypes) GetByID(ctx context.Context, id int64) (shifttype.ShiftType, error) {
	st, ok := f.types[id]
	if !ok {
		return shifttype.ShiftType{}, shifttype.ErrShiftTypeNotFound
	}
	return st, nil
}

func (f *fakeShiftTypes) ListForDepartment(ctx context.Context, departmentID int64) ([]shifttype.ShiftType, error) {
	var out []shifttype.ShiftType
	for _, st := range f.types {
		if st.Active && st.AvailableIn(departmentID) {
			out = append(out, st)
		}
	}
	return out, nil
}

type fakeDepartments struct {
	department.DepartmentRepository
	items []department.Department
}

func (f *fakeDepartments) GetByID(ctx context.Context, id int64) (department.Department, error) {
	for _, d := range f.items {
		if d.ID == id {
			return d, nil
		}
	}
	return department.Department{}, department.ErrDepartmentNotFound
}

func (f *fakeDepartments) List(ctx context.Context) ([]department.Department, error) {
	return f.items, nil
}

type fakeMemberships struct {
	department.MembershipRepository
	items []department.Member
}

func (f *fakeMemberships) ListMembers(ctx context.Context, departmentID int64, includeHidden bool) ([]department.Member, error) {
	var out []department.Member
	for _, m := range f.items {
		if m.DepartmentID == departmentID && (includeHidden || !m.IsHidden) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMemberships) ListByUser(ctx context.Context, userID int64) ([]department.Membership, error) {
	var out []department.Membership
	for _, m := range f.items {
		if m.UserID == userID {
			out = append(out, m.Membership)
		}
	}
	return out, nil
}

func (f *fakeMemberships) ListByUsers(ctx context.Context, userIDs []int64) (map[int64][]department.Membership, error) {
	out := make(map[int64][]department.Membership)
	for _, id := range userIDs {
		ms, _ := f.ListByUser(ctx, id)
		out[id] = ms
	}
	return out, nil
}

// fakeAccess derives access from the membership fake the same way the
// department service does.
type fakeAccess struct {
	department.DepartmentService
	depts       *fakeDepartments
	memberships *fakeMemberships
}

func (f *fakeAccess) Access(ctx context.Context, userID int64, isAdmin bool) (department.Access, error) {
	ms, _ := f.memberships.ListByUser(ctx, userID)
	a := department.Access{UserID: userID, IsAdmin: isAdmin, Memberships: map[int64]department.Membership{}}
	for _, m := range ms {
		a.Memberships[m.DepartmentID] = m
	}
	return a, nil
}

func (f *fakeAccess) Accessible(ctx context.Context, access department.Access) ([]department.Department, error) {
	var out []department.Department
	for _, d := range f.depts.items {
		if access.CanView(d.ID) {
			out = append(out, d)
		}
	}
	return out, nil
}

type fakeHolidays struct {
	holiday.HolidayService
	days map[int]string
}

func (f *fakeHolidays) ForMonth(ctx context.Context, year int, month time.Month) (map[int]string, error) {
	return f.days, nil
}

type fakeSettings struct {
	settings.SettingsRepository
	value settings.Settings
}

func (f *fakeSettings) Get(ctx context.Context) (settings.Settings, error) { return f.value, nil }

type fakeRequests struct {
	cells map[string]int64
}

func (f *fakeRequests) RequestsByCell(ctx context.Context, departmentID int64, year int, month time.Month) (map[string]int64, error) {
	return f.cells, nil
}

type recordingHub struct {
	events []sse.Event
}

func (h *recordingHub) Publish(topic string, event sse.Event) {
	event.Topic = topic
	h.events = append(h.events, event)
}

func strPtr(s string) *string { return &s }
func idPtr(i int64) *int64    { return &i }

type fixture struct {
	svc      *GrafikServiceImpl
	entries  *fakeEntries
	settings *fakeSettings
	hub      *recordingHub
}

const (
	reception = int64(1)
	kitchen   = int64(2)

	admin   = int64(1)
	head    = int64(2)
	worker  = int64(3)
	visitor = int64(4)
	ghost   = int64(5)
)

func newFixture() *fixture {
	types := map[int64]shifttype.ShiftType{
		1: {ID: 1, Name: "Dzienna", Code: "1", Color: "#ffffff", HoursFrom: strPtr("07:00"), HoursTo: strPtr("15:00"), Active: true},
		2: {ID: 2, Name: "Nocna", Code: "2", Color: "#1e293b", HoursFrom: strPtr("19:00"), HoursTo: strPtr("07:00"), Active: true},
		3: {ID: 3, Name: "Wolne", Code: "W", Color: "#e2e8f0", Active: true},
		4: {ID: 4, Name: "Urlop", Code: "U", Color: "#22c55e", Active: true, MainOnly: true},
		5: {ID: 5, Name: "Kuchnia", Code: "K", Color: "#f97316", Active: true, DepartmentIDs: []int64{kitchen}},
	}
	depts := &fakeDepartments{items: []department.Department{
		{ID: reception, Name: "Recepcja", Code: "REC"},
		{ID: kitchen, Name: "Kuchnia", Code: "KUCH"},
	}}
	memberships := &fakeMemberships{items: []department.Member{
		{Membership: department.Membership{UserID: head, DepartmentID: reception, IsMain: true, IsHead: true}, FullName: "Anna Kierownik"},
		{Membership: department.Membership{UserID: worker, DepartmentID: reception, IsMain: true}, FullName: "Jan Kowalski"},
		{Membership: department.Membership{UserID: visitor, DepartmentID: reception}, FullName: "Ewa Nowak"},
		{Membership: department.Membership{UserID: visitor, DepartmentID: kitchen, IsMain: true}, FullName: "Ewa Nowak"},
		{Membership: department.Membership{UserID: ghost, DepartmentID: reception, IsHidden: true}, FullName: "Ukryty"},
	}}
	entries := &fakeEntries{types: types, cells: map[cellKey]int64{}}
	st := &fakeSettings{}
	hub := &recordingHub{}

	svc := NewGrafikService(
		fakeTx{},
		entries,
		&fakeShiftTypes{types: types},
		depts,
		memberships,
		&fakeAccess{depts: depts, memberships: memberships},
		&fakeHolidays{days: map[int]string{}},
		st,
		&fakeRequests{cells: map[string]int64{"3-6": 77}},
		hub,
		nil,
		Config{},
	).(*GrafikServiceImpl)
	svc.now = func() time.Time { return time.Date(2025, 10, 17, 12, 0, 0, 0, time.UTC) }

	return &fixture{svc: svc, entries: entries, settings: st, hub: hub}
}

func (f *fixture) cell(dept, user int64, date string) (int64, bool) {
	id, ok := f.entries.cells[cellKey{dept, user, date}]
	return id, ok
}

func TestMonthView(t *testing.T) {
	ctx := context.Background()

	t.Run("falls back to the main department and current month", func(t *testing.T) {
		f := newFixture()
		f.entries.cells[cellKey{reception, worker, "2025-10-06"}] = 2
		f.entries.cells[cellKey{reception, worker, "2025-10-04"}] = 3
		f.entries.cells[cellKey{reception, ghost, "2025-10-06"}] = 1

		view, err := f.svc.MonthView(ctx, auth.Principal{UserID: worker}, grafik.MonthViewRequest{DepartmentID: kitchen})
		require.NoError(t, err)

		assert.Equal(t, reception, view.Department.ID)
		assert.Equal(t, 2025, view.Year)
		assert.Equal(t, 10, view.Month)
		assert.Equal(t, "Październik", view.MonthName)
		assert.Len(t, view.Days, 31)
		assert.Equal(t, "Śr", view.Days[0].Weekday)
		assert.Equal(t, 8, view.NonWorkingDays)
		assert.False(t, view.CanEdit)
		assert.Equal(t, grafik.MonthRef{Year: 2025, Month: 9}, view.Prev)
		assert.Equal(t, grafik.MonthRef{Year: 2025, Month: 11}, view.Next)
		assert.Equal(t, int64(77), view.Requests["3-6"])

		require.Len(t, view.Rows, 3)
		var row grafik.RowInfo
		for _, r := range view.Rows {
			assert.NotEqual(t, ghost, r.EmployeeID)
			if r.EmployeeID == worker {
				row = r
			}
		}
		assert.Equal(t, 1, row.FreeDays)
		assert.True(t, row.PlannedHours.Equal(decimal.NewFromInt(12)))
		assert.Len(t, view.Entries, 2)

		for _, st := range view.ShiftTypes {
			assert.NotEqual(t, "K", st.Code)
		}
	})

	t.Run("holidays count as non-working days", func(t *testing.T) {
		f := newFixture()
		f.svc.holidays = &fakeHolidays{days: map[int]string{1: "Nowy Rok", 6: "Trzech Króli"}}

		view, err := f.svc.MonthView(ctx, auth.Principal{UserID: head}, grafik.MonthViewRequest{Year: 2025, Month: 1})
		require.NoError(t, err)
		assert.True(t, view.Days[0].Holiday)
		assert.Equal(t, "Nowy Rok", view.Days[0].HolidayName)
		// 8 weekend days in January 2025 plus two weekday holidays.
		assert.Equal(t, 10, view.NonWorkingDays)
		assert.True(t, view.CanEdit)
	})

	t.Run("month is clamped", func(t *testing.T) {
		f := newFixture()
		view, err := f.svc.MonthView(ctx, auth.Principal{UserID: head}, grafik.MonthViewRequest{Year: 2025, Month: 14})
		require.NoError(t, err)
		assert.Equal(t, 12, view.Month)
	})

	t.Run("admin may open any department", func(t *testing.T) {
		f := newFixture()
		view, err := f.svc.MonthView(ctx, auth.Principal{UserID: admin, IsAdmin: true}, grafik.MonthViewRequest{DepartmentID: kitchen})
		require.NoError(t, err)
		assert.Equal(t, kitchen, view.Department.ID)
		assert.Len(t, view.Departments, 2)
		assert.True(t, view.CanEdit)
	})

	t.Run("user without departments", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.MonthView(ctx, auth.Principal{UserID: 99}, grafik.MonthViewRequest{})
		assert.ErrorIs(t, err, department.ErrNoDepartment)
	})
}

func TestUpsert(t *testing.T) {
	ctx := context.Background()
	req := grafik.UpsertEntryRequest{EmployeeID: worker, DepartmentID: reception, Date: "2025-10-06", ShiftTypeID: 1}

	t.Run("head assigns a shift", func(t *testing.T) {
		f := newFixture()
		resp, err := f.svc.Upsert(ctx, auth.Principal{UserID: head}, req)
		require.NoError(t, err)
		assert.Equal(t, grafik.UpsertEntryResponse{Success: true, Skrot: "1", Kolor: "#ffffff"}, resp)

		id, ok := f.cell(reception, worker, "2025-10-06")
		require.True(t, ok)
		assert.Equal(t, int64(1), id)

		require.Len(t, f.hub.events, 1)
		ev := f.hub.events[0]
		assert.Equal(t, "department:1", ev.Topic)
		assert.Equal(t, grafik.EventUpdated, ev.Event)
		data := ev.Data.(grafik.UpdatedEvent)
		assert.Equal(t, "upsert", data.Reason)
		assert.Equal(t, 10, data.Month)
		require.Len(t, data.Cells, 1)
		assert.Equal(t, "1", *data.Cells[0].Skrot)
	})

	t.Run("plain member is refused", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.Upsert(ctx, auth.Principal{UserID: worker}, req)
		assert.ErrorIs(t, err, grafik.ErrForbidden)
		assert.Empty(t, f.entries.cells)
		assert.Empty(t, f.hub.events)
	})

	t.Run("type restricted to another department", func(t *testing.T) {
		f := newFixture()
		r := req
		r.ShiftTypeID = 5
		_, err := f.svc.Upsert(ctx, auth.Principal{UserID: head}, r)
		require.ErrorIs(t, err, grafik.ErrNotAvailable)
		assert.Equal(t, `Typ "Kuchnia" nie jest dostępny w tym departamencie.`, grafik.Message(err))
	})

	t.Run("main-only type outside the main department", func(t *testing.T) {
		f := newFixture()
		r := req
		r.EmployeeID = visitor
		r.ShiftTypeID = 4
		_, err := f.svc.Upsert(ctx, auth.Principal{UserID: head}, r)
		require.ErrorIs(t, err, grafik.ErrMainOnly)
		assert.Equal(t, `Typ "Urlop" można przypisać tylko w głównym departamencie pracownika.`, grafik.Message(err))
	})

	t.Run("unknown shift type", func(t *testing.T) {
		f := newFixture()
		r := req
		r.ShiftTypeID = 42
		_, err := f.svc.Upsert(ctx, auth.Principal{UserID: admin, IsAdmin: true}, r)
		assert.ErrorIs(t, err, grafik.ErrShiftTypeNotFound)
	})

	t.Run("employee outside the department", func(t *testing.T) {
		f := newFixture()
		r := req
		r.DepartmentID = kitchen
		_, err := f.svc.Upsert(ctx, auth.Principal{UserID: admin, IsAdmin: true}, r)
		assert.ErrorIs(t, err, grafik.ErrEmployeeNotFound)
	})

	t.Run("unknown department", func(t *testing.T) {
		f := newFixture()
		r := req
		r.DepartmentID = 9
		_, err := f.svc.Upsert(ctx, auth.Principal{UserID: admin, IsAdmin: true}, r)
		assert.ErrorIs(t, err, department.ErrDepartmentNotFound)
	})
}

func TestBatch(t *testing.T) {
	ctx := context.Background()
	entries := []grafik.BatchEntry{
		{EmployeeID: worker, Date: "2025-10-06"},
		{EmployeeID: visitor, Date: "2025-10-06"},
		{EmployeeID: 99, Date: "2025-10-06"},
	}

	t.Run("main-only type skips non-main employees", func(t *testing.T) {
		f := newFixture()
		resp, err := f.svc.Batch(ctx, auth.Principal{UserID: head}, grafik.BatchEntriesRequest{
			DepartmentID: reception, ShiftTypeID: idPtr(4), Entries: entries,
		})
		require.NoError(t, err)
		assert.True(t, resp.Success)
		require.Len(t, resp.Results, 1)
		assert.Equal(t, worker, resp.Results[0].EmployeeID)
		assert.Equal(t, "U", *resp.Results[0].Skrot)

		_, ok := f.cell(reception, visitor, "2025-10-06")
		assert.False(t, ok)
	})

	t.Run("regular type applies to every member", func(t *testing.T) {
		f := newFixture()
		resp, err := f.svc.Batch(ctx, auth.Principal{UserID: head}, grafik.BatchEntriesRequest{
			DepartmentID: reception, ShiftTypeID: idPtr(2), Entries: entries,
		})
		require.NoError(t, err)
		assert.Len(t, resp.Results, 2)
		assert.Len(t, f.entries.cells, 2)

		require.Len(t, f.hub.events, 1)
		assert.Len(t, f.hub.events[0].Data.(grafik.UpdatedEvent).Cells, 2)
	})

	t.Run("null type clears the cells", func(t *testing.T) {
		f := newFixture()
		f.entries.cells[cellKey{reception, worker, "2025-10-06"}] = 1

		resp, err := f.svc.Batch(ctx, auth.Principal{UserID: head}, grafik.BatchEntriesRequest{
			DepartmentID: reception, Entries: entries,
		})
		require.NoError(t, err)
		require.Len(t, resp.Results, 2)
		for _, r := range resp.Results {
			assert.Nil(t, r.Skrot)
			assert.Nil(t, r.Kolor)
			assert.NotEqual(t, int64(99), r.EmployeeID, "users outside the department get no result")
		}
		assert.Empty(t, f.entries.cells)
	})

	t.Run("unavailable type fails the whole batch", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.Batch(ctx, auth.Principal{UserID: head}, grafik.BatchEntriesRequest{
			DepartmentID: reception, ShiftTypeID: idPtr(5), Entries: entries,
		})
		assert.ErrorIs(t, err, grafik.ErrNotAvailable)
		assert.Empty(t, f.entries.cells)
	})

	t.Run("non-head is refused", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.Batch(ctx, auth.Principal{UserID: visitor}, grafik.BatchEntriesRequest{
			DepartmentID: reception, ShiftTypeID: idPtr(1), Entries: entries,
		})
		assert.ErrorIs(t, err, grafik.ErrForbidden)
	})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.entries.cells[cellKey{reception, worker, "2025-10-06"}] = 1
	req := grafik.DeleteEntryRequest{EmployeeID: worker, DepartmentID: reception, Date: "2025-10-06"}

	require.NoError(t, f.svc.Delete(ctx, auth.Principal{UserID: head}, req))
	assert.Empty(t, f.entries.cells)

	// Deleting an empty cell succeeds.
	require.NoError(t, f.svc.Delete(ctx, auth.Principal{UserID: head}, req))

	err := f.svc.Delete(ctx, auth.Principal{UserID: worker}, req)
	assert.ErrorIs(t, err, grafik.ErrForbidden)
}

func TestAutoPlan(t *testing.T) {
	ctx := context.Background()
	req := grafik.AutoPlanRequest{DepartmentID: reception, Year: 2025, Month: 11}

	t.Run("not configured", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.AutoPlan(ctx, auth.Principal{UserID: head}, req)
		require.ErrorIs(t, err, grafik.ErrAutoPlanNotSet)
		assert.Equal(t, "Brak skonfigurowanych typów zmian w ustawieniach. Przejdź do Admin → Ustawienia.", grafik.Message(err))
	})

	t.Run("fills work and free days for visible members", func(t *testing.T) {
		f := newFixture()
		f.svc.holidays = &fakeHolidays{days: map[int]string{1: "Wszystkich Świętych", 11: "Narodowe Święto Niepodległości"}}
		f.settings.value = settings.Settings{AutoPlanShiftID: idPtr(1), AutoPlanFreeID: idPtr(3)}

		n, err := f.svc.AutoPlan(ctx, auth.Principal{UserID: head}, req)
		require.NoError(t, err)
		// Three visible members, 30 days each.
		assert.Equal(t, 90, n)

		id, _ := f.cell(reception, worker, "2025-11-03")
		assert.Equal(t, int64(1), id)
		id, _ = f.cell(reception, worker, "2025-11-08")
		assert.Equal(t, int64(3), id)
		id, _ = f.cell(reception, worker, "2025-11-11")
		assert.Equal(t, int64(3), id)
		_, ok := f.cell(reception, ghost, "2025-11-03")
		assert.False(t, ok)

		require.Len(t, f.hub.events, 1)
		assert.Equal(t, "auto_plan", f.hub.events[0].Data.(grafik.UpdatedEvent).Reason)
	})

	t.Run("only the work type set", func(t *testing.T) {
		f := newFixture()
		f.settings.value = settings.Settings{AutoPlanShiftID: idPtr(1)}

		n, err := f.svc.AutoPlan(ctx, auth.Principal{UserID: head}, req)
		require.NoError(t, err)
		// November 2025 has 20 weekdays and 10 weekend days.
		assert.Equal(t, 60, n)
	})

	t.Run("plain member is refused", func(t *testing.T) {
		f := newFixture()
		f.settings.value = settings.Settings{AutoPlanShiftID: idPtr(1)}
		_, err := f.svc.AutoPlan(ctx, auth.Principal{UserID: worker}, req)
		assert.ErrorIs(t, err, grafik.ErrForbidden)
	})

	t.Run("all departments", func(t *testing.T) {
		f := newFixture()
		f.settings.value = settings.Settings{AutoPlanFreeID: idPtr(3)}

		n, err := f.svc.AutoPlanAll(ctx, 2025, time.November)
		require.NoError(t, err)
		// Reception has three visible members, the kitchen one; 10 free days each.
		assert.Equal(t, 40, n)
		assert.Len(t, f.hub.events, 2)
	})
}

func TestLeaveDays(t *testing.T) {
	f := newFixture()
	for _, d := range []string{"2025-03-14", "2025-03-03", "2025-03-04", "2025-07-01"} {
		f.entries.cells[cellKey{reception, worker, d}] = 4
	}
	f.entries.cells[cellKey{reception, worker, "2025-03-05"}] = 1

	days, err := f.svc.LeaveDays(context.Background(), reception, 2025)
	require.NoError(t, err)
	assert.Equal(t, map[int64]map[int][]int{
		worker: {3: {3, 4, 14}, 7: {1}},
	}, days)
}

func TestResolveDepartment(t *testing.T) {
	depts := []department.Department{{ID: 1}, {ID: 2}, {ID: 3}}
	access := department.Access{Memberships: map[int64]department.Membership{
		2: {DepartmentID: 2, IsMain: true},
	}}

	assert.Equal(t, int64(3), resolveDepartment(access, depts, 3).ID)
	assert.Equal(t, int64(2), resolveDepartment(access, depts, 0).ID)
	assert.Equal(t, int64(2), resolveDepartment(access, depts, 9).ID)
	assert.Equal(t, int64(1), resolveDepartment(department.Access{}, depts, 0).ID)
}
