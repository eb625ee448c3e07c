package grafik

import (
	"context"
	"time"

	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/auth"
)

type EntryRepository interface {
	// ListBetween returns the department's entries in [from, to] joined
	// with their shift type.
	ListBetween(ctx context.Context, departmentID int64, from, to time.Time) ([]Entry, error)
	// Upsert stores the entry, replacing the shift type of an existing
	// (user, date, department) row.
	Upsert(ctx context.Context, e Entry) error
	// Delete removes one cell. Deleting a missing cell is not an error.
	Delete(ctx context.Context, departmentID int64, ref CellRef) error
	// ListByCode returns the department's entries of the given shift code
	// within the year.
	ListByCode(ctx context.Context, departmentID int64, year int, code string) ([]Entry, error)
}

type GrafikService interface {
	MonthView(ctx context.Context, viewer auth.Principal, req MonthViewRequest) (MonthView, error)
	Upsert(ctx context.Context, viewer auth.Principal, req UpsertEntryRequest) (UpsertEntryResponse, error)
	Batch(ctx context.Context, viewer auth.Principal, req BatchEntriesRequest) (BatchEntriesResponse, error)
	Delete(ctx context.Context, viewer auth.Principal, req DeleteEntryRequest) error
	AutoPlan(ctx context.Context, viewer auth.Principal, req AutoPlanRequest) (int, error)
	// AutoPlanAll fills the month for every department. It runs unattended
	// from the scheduler.
	AutoPlanAll(ctx context.Context, year int, month time.Month) (int, error)
	// LeaveDays maps user id to month to the sorted days carrying the leave code.
	LeaveDays(ctx context.Context, departmentID int64, year int) (map[int64]map[int][]int, error)
}
