package holiday

import (
	"context"
	"time"
)

type DayOffRepository interface {
	Create(ctx context.Context, d DayOff) (DayOff, error)
	GetByID(ctx context.Context, id int64) (DayOff, error)
	Update(ctx context.Context, d DayOff) error
	Delete(ctx context.Context, id int64) error
	// ListBetween returns days off in [from, to] ordered by date.
	ListBetween(ctx context.Context, from, to time.Time) ([]DayOff, error)
}

type HolidayService interface {
	// ForYear merges public holidays with company days off.
	ForYear(ctx context.Context, year int) ([]HolidayResponse, error)
	// ForMonth maps day of month to holiday name.
	ForMonth(ctx context.Context, year int, month time.Month) (map[int]string, error)
	ListDaysOff(ctx context.Context, year int) ([]DayOffResponse, error)
	CreateDayOff(ctx context.Context, req CreateDayOffRequest) (DayOffResponse, error)
	UpdateDayOff(ctx context.Context, req UpdateDayOffRequest) (DayOffResponse, error)
	DeleteDayOff(ctx context.Context, id int64) error
}
