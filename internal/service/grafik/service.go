package grafik

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/department"
	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/grafik"
	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/holiday"
	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/shifttype"
	"github.com/cmlabs-hris/grafik-backend-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/grafik-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/grafik-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/grafik-backend-go/internal/repository/postgresql"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Config holds grid service configuration
type Config struct {
	FreeDayCode string // default: W
	LeaveCode   string // default: U
}

// RequestIndex finds the leave requests covering the cells of a month.
type RequestIndex interface {
	RequestsByCell(ctx context.Context, departmentID int64, year int, month time.Month) (map[string]int64, error)
}

// Publisher delivers grid events to live subscribers.
type Publisher interface {
	Publish(topic string, event sse.Event)
}

type GrafikServiceImpl struct {
	tx          postgresql.Transactor
	entries     grafik.EntryRepository
	shiftTypes  shifttype.ShiftTypeRepository
	departments department.DepartmentRepository
	memberships department.MembershipRepository
	access      department.DepartmentService
	holidays    holiday.HolidayService
	settings    settings.SettingsRepository
	requests    RequestIndex
	hub         Publisher
	metrics     *metrics.Metrics
	config      Config
	now         func() time.Time
}

func NewGrafikService(
	tx postgresql.Transactor,
	entryRepository grafik.EntryRepository,
	shiftTypeRepository shifttype.ShiftTypeRepository,
	departmentRepository department.DepartmentRepository,
	membershipRepository department.MembershipRepository,
	departmentService department.DepartmentService,
	holidayService holiday.HolidayService,
	settingsRepository settings.SettingsRepository,
	requests RequestIndex,
	hub Publisher,
	m *metrics.Metrics,
	cfg Config,
) grafik.GrafikService {
	if cfg.FreeDayCode == "" {
		cfg.FreeDayCode = "W"
	}
	if cfg.LeaveCode == "" {
		cfg.LeaveCode = "U"
	}
	return &GrafikServiceImpl{
		tx:          tx,
		entries:     entryRepository,
		shiftTypes:  shiftTypeRepository,
		departments: departmentRepository,
		memberships: membershipRepository,
		access:      departmentService,
		holidays:    holidayService,
		settings:    settingsRepository,
		requests:    requests,
		hub:         hub,
		metrics:     m,
		config:      cfg,
		now:         time.Now,
	}
}

func monthBounds(year int, month time.Month) (time.Time, time.Time) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return first, first.AddDate(0, 1, -1)
}

func departmentRef(d department.Department) grafik.DepartmentRef {
	return grafik.DepartmentRef{ID: d.ID, Name: d.Name, Code: d.Code}
}

// resolveDepartment picks the requested department when the viewer may see
// it, then the viewer's main department, then the first accessible one.
func resolveDepartment(access department.Access, accessible []department.Department, requested int64) department.Department {
	byID := make(map[int64]department.Department, len(accessible))
	for _, d := range accessible {
		byID[d.ID] = d
	}
	if d, ok := byID[requested]; ok && requested > 0 {
		return d
	}
	if mainID, ok := access.MainDepartment(); ok {
		if d, ok := byID[mainID]; ok {
			return d
		}
	}
	return accessible[0]
}

// MonthView implements grafik.GrafikService.
func (s *GrafikServiceImpl) MonthView(ctx context.Context, viewer auth.Principal, req grafik.MonthViewRequest) (grafik.MonthView, error) {
	access, err := s.access.Access(ctx, viewer.UserID, viewer.IsAdmin)
	if err != nil {
		return grafik.MonthView{}, err
	}
	accessible, err := s.access.Accessible(ctx, access)
	if err != nil {
		return grafik.MonthView{}, err
	}
	if len(accessible) == 0 {
		return grafik.MonthView{}, department.ErrNoDepartment
	}

	now := s.now()
	year := req.Year
	if year == 0 {
		year = now.Year()
	}
	month := now.Month()
	if req.Month != 0 {
		month = time.Month(grafik.ClampMonth(req.Month))
	}

	dept := resolveDepartment(access, accessible, req.DepartmentID)
	from, to := monthBounds(year, month)

	var (
		members    []department.Member
		entries    []grafik.Entry
		types      []shifttype.ShiftType
		holidayMap map[int]string
		requestMap map[string]int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		members, err = s.memberships.ListMembers(gctx, dept.ID, false)
		return err
	})
	g.Go(func() error {
		var err error
		entries, err = s.entries.ListBetween(gctx, dept.ID, from, to)
		return err
	})
	g.Go(func() error {
		var err error
		types, err = s.shiftTypes.ListForDepartment(gctx, dept.ID)
		return err
	})
	g.Go(func() error {
		var err error
		holidayMap, err = s.holidays.ForMonth(gctx, year, month)
		return err
	})
	g.Go(func() error {
		if s.requests == nil {
			return nil
		}
		var err error
		requestMap, err = s.requests.RequestsByCell(gctx, dept.ID, year, month)
		return err
	})
	if err := g.Wait(); err != nil {
		return grafik.MonthView{}, fmt.Errorf("load month view: %w", err)
	}
	if requestMap == nil {
		requestMap = map[string]int64{}
	}

	view := grafik.MonthView{
		Department:  departmentRef(dept),
		Departments: make([]grafik.DepartmentRef, 0, len(accessible)),
		Year:        year,
		Month:       int(month),
		MonthName:   grafik.MonthName(month),
		Requests:    requestMap,
		CanEdit:     access.CanEdit(dept.ID),
		ViewerID:    viewer.UserID,
		FreeDayCode: s.config.FreeDayCode,
		LeaveCode:   s.config.LeaveCode,
	}
	view.Prev, view.Next = grafik.Adjacent(year, month)
	for _, d := range accessible {
		view.Departments = append(view.Departments, departmentRef(d))
	}

	days := grafik.DaysIn(year, month)
	view.Days = make([]grafik.DayInfo, 0, days)
	for d := 1; d <= days; d++ {
		date := time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
		name, isHoliday := holidayMap[d]
		info := grafik.DayInfo{
			Day:         d,
			Date:        date.Format(validator.DateLayout),
			Weekday:     grafik.WeekdayAbbrev(date.Weekday()),
			Weekend:     grafik.IsWeekend(date),
			Holiday:     isHoliday,
			HolidayName: name,
		}
		if info.NonWorking() {
			view.NonWorkingDays++
		}
		view.Days = append(view.Days, info)
	}

	rowIndex := make(map[int64]int, len(members))
	view.Rows = make([]grafik.RowInfo, 0, len(members))
	for i, m := range members {
		rowIndex[m.UserID] = i
		view.Rows = append(view.Rows, grafik.RowInfo{
			EmployeeID:   m.UserID,
			FullName:     m.FullName,
			Main:         m.IsMain,
			Head:         m.IsHead,
			PlannedHours: decimal.Zero,
		})
	}

	view.Entries = make([]grafik.EntryView, 0, len(entries))
	for _, e := range entries {
		i, ok := rowIndex[e.UserID]
		if !ok {
			continue
		}
		row := &view.Rows[i]
		if e.Code == s.config.FreeDayCode {
			row.FreeDays++
		}
		row.PlannedHours = row.PlannedHours.Add(e.Hours)
		view.Entries = append(view.Entries, grafik.EntryView{
			EmployeeID:  e.UserID,
			Day:         e.Date.Day(),
			ShiftTypeID: e.ShiftTypeID,
			Code:        e.Code,
			Color:       e.Color,
		})
	}

	view.ShiftTypes = make([]shifttype.ShiftTypeResponse, 0, len(types))
	for _, st := range types {
		view.ShiftTypes = append(view.ShiftTypes, shifttype.NewShiftTypeResponse(st))
	}

	return view, nil
}

// requireEditor loads the department and checks that the viewer may edit it.
func (s *GrafikServiceImpl) requireEditor(ctx context.Context, viewer auth.Principal, departmentID int64) (department.Department, error) {
	dept, err := s.departments.GetByID(ctx, departmentID)
	if err != nil {
		return department.Department{}, err
	}
	access, err := s.access.Access(ctx, viewer.UserID, viewer.IsAdmin)
	if err != nil {
		return department.Department{}, err
	}
	if !access.CanEdit(dept.ID) {
		return department.Department{}, grafik.ErrForbidden
	}
	return dept, nil
}

// usableType loads the shift type and checks it may be used in the department.
func (s *GrafikServiceImpl) usableType(ctx context.Context, id, departmentID int64) (shifttype.ShiftType, error) {
	st, err := s.shiftTypes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, shifttype.ErrShiftTypeNotFound) {
			return shifttype.ShiftType{}, grafik.ErrShiftTypeNotFound
		}
		return shifttype.ShiftType{}, err
	}
	if !st.AvailableIn(departmentID) {
		return shifttype.ShiftType{}, grafik.NotAvailableError(st.Name)
	}
	return st, nil
}

func membershipIn(memberships []department.Membership, departmentID int64) (department.Membership, bool) {
	for _, m := range memberships {
		if m.DepartmentID == departmentID {
			return m, true
		}
	}
	return department.Membership{}, false
}

func (s *GrafikServiceImpl) publish(departmentID int64, by int64, reason string, year int, month time.Month, cells []grafik.BatchResult) {
	if s.hub == nil {
		return
	}
	s.hub.Publish(grafik.Topic(departmentID), sse.Event{
		Event: grafik.EventUpdated,
		Data: grafik.UpdatedEvent{
			DepartmentID: departmentID,
			Year:         year,
			Month:        int(month),
			Reason:       reason,
			Cells:        cells,
			By:           by,
		},
	})
}

// Upsert implements grafik.GrafikService.
func (s *GrafikServiceImpl) Upsert(ctx context.Context, viewer auth.Principal, req grafik.UpsertEntryRequest) (grafik.UpsertEntryResponse, error) {
	date, ok := validator.IsValidDate(req.Date)
	if !ok {
		return grafik.UpsertEntryResponse{}, validator.ValidationErrors{{Field: "date", Message: "date must be in YYYY-MM-DD format"}}
	}
	dept, err := s.requireEditor(ctx, viewer, req.DepartmentID)
	if err != nil {
		return grafik.UpsertEntryResponse{}, err
	}

	memberships, err := s.memberships.ListByUser(ctx, req.EmployeeID)
	if err != nil {
		return grafik.UpsertEntryResponse{}, err
	}
	membership, ok := membershipIn(memberships, dept.ID)
	if !ok {
		return grafik.UpsertEntryResponse{}, grafik.ErrEmployeeNotFound
	}

	st, err := s.usableType(ctx, req.ShiftTypeID, dept.ID)
	if err != nil {
		return grafik.UpsertEntryResponse{}, err
	}
	if st.MainOnly && !membership.IsMain {
		return grafik.UpsertEntryResponse{}, grafik.MainOnlyError(st.Name)
	}

	by := viewer.UserID
	err = s.entries.Upsert(ctx, grafik.Entry{
		UserID:       req.EmployeeID,
		DepartmentID: dept.ID,
		Date:         date,
		ShiftTypeID:  st.ID,
		CreatedBy:    &by,
	})
	if err != nil {
		return grafik.UpsertEntryResponse{}, err
	}

	code, color := st.Code, st.Color
	s.metrics.GridMutation("upsert", 1)
	s.publish(dept.ID, viewer.UserID, "upsert", date.Year(), date.Month(), []grafik.BatchResult{
		{EmployeeID: req.EmployeeID, Date: req.Date, Skrot: &code, Kolor: &color},
	})

	return grafik.UpsertEntryResponse{Success: true, Skrot: st.Code, Kolor: st.Color}, nil
}

// Batch implements grafik.GrafikService. Entries for users outside the
// department and main-only mismatches are skipped without an error.
func (s *GrafikServiceImpl) Batch(ctx context.Context, viewer auth.Principal, req grafik.BatchEntriesRequest) (grafik.BatchEntriesResponse, error) {
	dept, err := s.requireEditor(ctx, viewer, req.DepartmentID)
	if err != nil {
		return grafik.BatchEntriesResponse{}, err
	}

	var st *shifttype.ShiftType
	if req.ShiftTypeID != nil {
		t, err := s.usableType(ctx, *req.ShiftTypeID, dept.ID)
		if err != nil {
			return grafik.BatchEntriesResponse{}, err
		}
		st = &t
	}

	ids := make([]int64, 0, len(req.Entries))
	seen := make(map[int64]bool, len(req.Entries))
	for _, e := range req.Entries {
		if !seen[e.EmployeeID] {
			seen[e.EmployeeID] = true
			ids = append(ids, e.EmployeeID)
		}
	}
	byUser, err := s.memberships.ListByUsers(ctx, ids)
	if err != nil {
		return grafik.BatchEntriesResponse{}, err
	}

	by := viewer.UserID
	results := make([]grafik.BatchResult, 0, len(req.Entries))
	var first time.Time

	err = s.tx.Do(ctx, func(txCtx context.Context) error {
		for _, item := range req.Entries {
			date, ok := validator.IsValidDate(item.Date)
			if !ok {
				continue
			}
			// Clears skip non-members too. They have no row in this grid, so a
			// cleared result for them would name a cell no client shows.
			membership, ok := membershipIn(byUser[item.EmployeeID], dept.ID)
			if !ok {
				continue
			}

			if st == nil {
				if err := s.entries.Delete(txCtx, dept.ID, grafik.CellRef{UserID: item.EmployeeID, Date: date}); err != nil {
					return err
				}
				results = append(results, grafik.BatchResult{EmployeeID: item.EmployeeID, Date: item.Date})
			} else {
				if st.MainOnly && !membership.IsMain {
					continue
				}
				err := s.entries.Upsert(txCtx, grafik.Entry{
					UserID:       item.EmployeeID,
					DepartmentID: dept.ID,
					Date:         date,
					ShiftTypeID:  st.ID,
					CreatedBy:    &by,
				})
				if err != nil {
					return err
				}
				code, color := st.Code, st.Color
				results = append(results, grafik.BatchResult{EmployeeID: item.EmployeeID, Date: item.Date, Skrot: &code, Kolor: &color})
			}
			if first.IsZero() {
				first = date
			}
		}
		return nil
	})
	if err != nil {
		return grafik.BatchEntriesResponse{}, err
	}

	if len(results) > 0 {
		s.metrics.GridMutation("batch", len(results))
		s.publish(dept.ID, viewer.UserID, "batch", first.Year(), first.Month(), results)
	}

	return grafik.BatchEntriesResponse{Success: true, Results: results}, nil
}

// Delete implements grafik.GrafikService. Clearing an empty cell succeeds.
func (s *GrafikServiceImpl) Delete(ctx context.Context, viewer auth.Principal, req grafik.DeleteEntryRequest) error {
	date, ok := validator.IsValidDate(req.Date)
	if !ok {
		return validator.ValidationErrors{{Field: "date", Message: "date must be in YYYY-MM-DD format"}}
	}
	dept, err := s.requireEditor(ctx, viewer, req.DepartmentID)
	if err != nil {
		return err
	}
	if err := s.entries.Delete(ctx, dept.ID, grafik.CellRef{UserID: req.EmployeeID, Date: date}); err != nil {
		return err
	}

	s.metrics.GridMutation("delete", 1)
	s.publish(dept.ID, viewer.UserID, "delete", date.Year(), date.Month(), []grafik.BatchResult{
		{EmployeeID: req.EmployeeID, Date: req.Date},
	})
	return nil
}

// AutoPlan implements grafik.GrafikService.
func (s *GrafikServiceImpl) AutoPlan(ctx context.Context, viewer auth.Principal, req grafik.AutoPlanRequest) (int, error) {
	dept, err := s.requireEditor(ctx, viewer, req.DepartmentID)
	if err != nil {
		return 0, err
	}
	types, err := s.autoPlanTypes(ctx)
	if err != nil {
		return 0, err
	}
	by := viewer.UserID
	return s.autoPlanDepartment(ctx, dept.ID, req.Year, time.Month(req.Month), types, &by)
}

// AutoPlanAll implements grafik.GrafikService.
func (s *GrafikServiceImpl) AutoPlanAll(ctx context.Context, year int, month time.Month) (int, error) {
	types, err := s.autoPlanTypes(ctx)
	if err != nil {
		return 0, err
	}
	depts, err := s.departments.List(ctx)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, d := range depts {
		n, err := s.autoPlanDepartment(ctx, d.ID, year, month, types, nil)
		if err != nil {
			return total, fmt.Errorf("auto-plan department %d: %w", d.ID, err)
		}
		total += n
	}
	return total, nil
}

// planTypes holds the configured auto-plan types; either may be nil.
type planTypes struct {
	work *shifttype.ShiftType
	free *shifttype.ShiftType
}

func (s *GrafikServiceImpl) autoPlanTypes(ctx context.Context) (planTypes, error) {
	cfg, err := s.settings.Get(ctx)
	if err != nil {
		return planTypes{}, err
	}
	if cfg.AutoPlanShiftID == nil && cfg.AutoPlanFreeID == nil {
		return planTypes{}, grafik.AutoPlanNotSetError()
	}

	var types planTypes
	load := func(id *int64) (*shifttype.ShiftType, error) {
		if id == nil {
			return nil, nil
		}
		st, err := s.shiftTypes.GetByID(ctx, *id)
		if err != nil {
			if errors.Is(err, shifttype.ErrShiftTypeNotFound) {
				return nil, grafik.ErrShiftTypeNotFound
			}
			return nil, err
		}
		return &st, nil
	}
	if types.work, err = load(cfg.AutoPlanShiftID); err != nil {
		return planTypes{}, err
	}
	if types.free, err = load(cfg.AutoPlanFreeID); err != nil {
		return planTypes{}, err
	}
	return types, nil
}

func (s *GrafikServiceImpl) autoPlanDepartment(ctx context.Context, departmentID int64, year int, month time.Month, types planTypes, by *int64) (int, error) {
	members, err := s.memberships.ListMembers(ctx, departmentID, false)
	if err != nil {
		return 0, err
	}
	holidays, err := s.holidays.ForMonth(ctx, year, month)
	if err != nil {
		return 0, err
	}

	days := grafik.DaysIn(year, month)
	count := 0
	err = s.tx.Do(ctx, func(txCtx context.Context) error {
		for _, m := range members {
			for d := 1; d <= days; d++ {
				date := time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
				st := types.work
				if _, isHoliday := holidays[d]; isHoliday || grafik.IsWeekend(date) {
					st = types.free
				}
				if st == nil {
					continue
				}
				err := s.entries.Upsert(txCtx, grafik.Entry{
					UserID:       m.UserID,
					DepartmentID: departmentID,
					Date:         date,
					ShiftTypeID:  st.ID,
					CreatedBy:    by,
				})
				if err != nil {
					return err
				}
				count++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	var actor int64
	if by != nil {
		actor = *by
	}
	s.metrics.GridMutation("auto_plan", count)
	s.publish(departmentID, actor, "auto_plan", year, month, nil)
	slog.Info("auto-plan finished", "department_id", departmentID, "year", year, "month", int(month), "count", count)

	return count, nil
}

// LeaveDays implements grafik.GrafikService.
func (s *GrafikServiceImpl) LeaveDays(ctx context.Context, departmentID int64, year int) (map[int64]map[int][]int, error) {
	entries, err := s.entries.ListByCode(ctx, departmentID, year, s.config.LeaveCode)
	if err != nil {
		return nil, err
	}
	out := make(map[int64]map[int][]int)
	for _, e := range entries {
		months, ok := out[e.UserID]
		if !ok {
			months = make(map[int][]int)
			out[e.UserID] = months
		}
		m := int(e.Date.Month())
		months[m] = append(months[m], e.Date.Day())
	}
	for _, months := range out {
		for _, days := range months {
			sort.Ints(days)
		}
	}
	return out, nil
}
