package grid

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/grafik"
	"github.com/cmlabs-hris/grafik-backend-go/internal/pkg/keycombo"
)

// October 2025 starts on a Wednesday; days 4, 5, 11 and 12 are the weekends.
const (
	annaID   int64 = 1
	borysID  int64 = 2
	celinaID int64 = 3

	typeDay    int64 = 1
	typeFree   int64 = 2
	typeLeave  int64 = 3
	typeNight  int64 = 4
	typeRemote int64 = 5
)

func k(emp int64, day int) Key {
	return Key{EmployeeID: emp, Day: day}
}

func testShiftTypes() []ShiftType {
	remoteTemplate := int64(7)
	return []ShiftType{
		{ID: typeDay, Name: "Dzień", Code: "1", Color: "#b6dafc", Hours: "07:00-19:00", Shortcut: keycombo.MustParse("1")},
		{ID: typeFree, Name: "Wolne", Code: "W", Color: "#e2e8f0", Shortcut: keycombo.MustParse("w")},
		{ID: typeLeave, Name: "Urlop", Code: "U", Color: "#fde68a", Shortcut: keycombo.MustParse("shift+u"), TemplateKey: "urlop", LegacyTemplate: "urlop"},
		{ID: typeNight, Name: "Nocka", Code: "N", Color: "#1e3a8a", Shortcut: keycombo.MustParse("ctrl+n"), MainOnly: true},
		{ID: typeRemote, Name: "Praca zdalna", Code: "PZ", Color: "#bbf7d0", TemplateKey: "id_7", TemplateID: &remoteTemplate},
	}
}

func testLayout(cells ...CellState) Layout {
	l := Layout{
		DepartmentID: 10,
		Year:         2025,
		Month:        10,
		Rows: []Row{
			{EmployeeID: annaID, Name: "Anna Nowak", Main: true},
			{EmployeeID: borysID, Name: "Borys Wiśniewski", Main: true},
			{EmployeeID: celinaID, Name: "Celina Zając"},
		},
		Cells:       cells,
		ShiftTypes:  testShiftTypes(),
		CanEdit:     true,
		ViewerID:    borysID,
		FreeDayCode: "W",
		LeaveCode:   "U",
	}
	for d := 1; d <= 14; d++ {
		l.Days = append(l.Days, Day{
			Day:        d,
			Date:       fmt.Sprintf("2025-10-%02d", d),
			NonWorking: d == 4 || d == 5 || d == 11 || d == 12,
		})
	}
	return l
}

func newTestController(cells ...CellState) *Controller {
	c := New(testLayout(cells...), nil)
	c.Mount()
	return c
}

func cell(emp int64, day int, code, color string) CellState {
	return CellState{EmployeeID: emp, Day: day, Code: code, Color: color}
}

// drag presses on from, moves to to, releases and ends the input batch.
func drag(c *Controller, from, to Key) {
	c.Handle(PressEvent{Key: from})
	c.Handle(MoveEvent{Key: to})
	c.Handle(ReleaseEvent{})
	c.Handle(TickEvent{})
}

func press(c *Controller, key string) Effect {
	return c.Handle(KeyEvent{Combo: keycombo.MustParse(key)})
}

// fakeRemote answers like the server: every accepted entry comes back with
// the code and color of its shift type.
type fakeRemote struct {
	types map[int64]ShiftType

	upserts []grafik.UpsertEntryRequest
	batches []grafik.BatchEntriesRequest
	deletes []grafik.DeleteEntryRequest
	plans   []grafik.AutoPlanRequest

	err      error
	rejectAs string
	planned  int
}

func newFakeRemote() *fakeRemote {
	f := &fakeRemote{types: make(map[int64]ShiftType)}
	for _, t := range testShiftTypes() {
		f.types[t.ID] = t
	}
	return f
}

func (f *fakeRemote) Upsert(_ context.Context, req grafik.UpsertEntryRequest) (grafik.UpsertEntryResponse, error) {
	f.upserts = append(f.upserts, req)
	if f.err != nil {
		return grafik.UpsertEntryResponse{}, f.err
	}
	if f.rejectAs != "" {
		return grafik.UpsertEntryResponse{Error: f.rejectAs}, nil
	}
	t := f.types[req.ShiftTypeID]
	return grafik.UpsertEntryResponse{Success: true, Skrot: t.Code, Kolor: t.Color}, nil
}

func (f *fakeRemote) Batch(_ context.Context, req grafik.BatchEntriesRequest) (grafik.BatchEntriesResponse, error) {
	f.batches = append(f.batches, req)
	if f.err != nil {
		return grafik.BatchEntriesResponse{}, f.err
	}
	if f.rejectAs != "" {
		return grafik.BatchEntriesResponse{Error: f.rejectAs}, nil
	}
	resp := grafik.BatchEntriesResponse{Success: true}
	for _, e := range req.Entries {
		r := grafik.BatchResult{EmployeeID: e.EmployeeID, Date: e.Date}
		if req.ShiftTypeID != nil {
			t := f.types[*req.ShiftTypeID]
			r.Skrot, r.Kolor = &t.Code, &t.Color
		}
		resp.Results = append(resp.Results, r)
	}
	return resp, nil
}

func (f *fakeRemote) Delete(_ context.Context, req grafik.DeleteEntryRequest) (grafik.DeleteEntryResponse, error) {
	f.deletes = append(f.deletes, req)
	if f.err != nil {
		return grafik.DeleteEntryResponse{}, f.err
	}
	if f.rejectAs != "" {
		return grafik.DeleteEntryResponse{Error: f.rejectAs}, nil
	}
	return grafik.DeleteEntryResponse{Success: true}, nil
}

func (f *fakeRemote) AutoPlan(_ context.Context, req grafik.AutoPlanRequest) (grafik.AutoPlanResponse, error) {
	f.plans = append(f.plans, req)
	if f.err != nil {
		return grafik.AutoPlanResponse{}, f.err
	}
	if f.rejectAs != "" {
		return grafik.AutoPlanResponse{Error: f.rejectAs}, nil
	}
	return grafik.AutoPlanResponse{Success: true, Count: f.planned}, nil
}

// runAll executes every op of the effect and applies the outcomes in order.
func runAll(c *Controller, r Remote, eff Effect) {
	for _, op := range eff.Ops {
		c.Apply(Run(context.Background(), r, op))
	}
}

func codeAt(c *Controller, key Key) string {
	cl, _ := c.Grid().Cell(key)
	return cl.Code
}
