package holiday

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/holiday"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDaysOff struct {
	holiday.DayOffRepository
	items []holiday.DayOff
}

func (f *fakeDaysOff) ListBetween(ctx context.Context, from, to time.Time) ([]holiday.DayOff, error) {
	var out []holiday.DayOff
	for _, d := range f.items {
		if !d.Date.Before(from) && !d.Date.After(to) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeDaysOff) Create(ctx context.Context, d holiday.DayOff) (holiday.DayOff, error) {
	for _, existing := range f.items {
		if existing.Date.Equal(d.Date) {
			return holiday.DayOff{}, holiday.ErrDayOffDateExists
		}
	}
	d.ID = int64(len(f.items) + 1)
	f.items = append(f.items, d)
	return d, nil
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newService() holiday.HolidayService {
	return NewHolidayService(&fakeDaysOff{items: []holiday.DayOff{
		{ID: 1, Date: day(2025, time.May, 2), Name: "Dzień wolny za 3 maja"},
		{ID: 2, Date: day(2025, time.December, 24), Name: "Wigilia firmowa"},
		{ID: 3, Date: day(2024, time.May, 2), Name: "Poprzedni rok"},
	}})
}

func TestForMonth_MergesCompanyDays(t *testing.T) {
	svc := newService()

	may, err := svc.ForMonth(context.Background(), 2025, time.May)

	require.NoError(t, err)
	assert.Equal(t, "Dzień wolny za 3 maja", may[2])
	assert.Contains(t, may, 1)
	assert.Contains(t, may, 3)
	assert.Len(t, may, 3)
}

func TestForMonth_PublicHolidayWinsOnSameDate(t *testing.T) {
	svc := newService()

	dec, err := svc.ForMonth(context.Background(), 2025, time.December)

	require.NoError(t, err)
	assert.NotEqual(t, "Wigilia firmowa", dec[24])
}

func TestForYear_SortedAndFlagged(t *testing.T) {
	svc := newService()

	list, err := svc.ForYear(context.Background(), 2025)

	require.NoError(t, err)
	assert.Len(t, list, 14+2)
	for i := 1; i < len(list); i++ {
		assert.LessOrEqual(t, list[i-1].Date, list[i].Date)
	}
	company := 0
	for _, h := range list {
		if h.Company {
			company++
			assert.NotNil(t, h.DayOff)
		}
	}
	assert.Equal(t, 2, company)
}

func TestCreateDayOff_DuplicateDate(t *testing.T) {
	svc := newService()

	_, err := svc.CreateDayOff(context.Background(), holiday.CreateDayOffRequest{Date: "2025-05-02", Name: "Drugi"})

	assert.ErrorIs(t, err, holiday.ErrDayOffDateExists)
}
