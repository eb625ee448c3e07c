package holiday

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/holiday"
	publicholiday "github.com/cmlabs-hris/grafik-backend-go/internal/pkg/holiday"
	"github.com/cmlabs-hris/grafik-backend-go/internal/pkg/validator"
)

type HolidayServiceImpl struct {
	holiday.DayOffRepository
}

func NewHolidayService(repo holiday.DayOffRepository) holiday.HolidayService {
	return &HolidayServiceImpl{DayOffRepository: repo}
}

func yearBounds(year int) (time.Time, time.Time) {
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
}

// ForYear implements holiday.HolidayService. On a shared date the public
// holiday comes first.
func (s *HolidayServiceImpl) ForYear(ctx context.Context, year int) ([]holiday.HolidayResponse, error) {
	from, to := yearBounds(year)
	daysOff, err := s.DayOffRepository.ListBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}

	out := make([]holiday.HolidayResponse, 0, 16+len(daysOff))
	for _, h := range publicholiday.ForYear(year) {
		out = append(out, holiday.NewPublicHoliday(h.Date, h.Name))
	}
	for _, d := range daysOff {
		id := d.ID
		out = append(out, holiday.HolidayResponse{
			Date:    d.Date.Format(validator.DateLayout),
			Name:    d.Name,
			Company: true,
			DayOff:  &id,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

// ForMonth implements holiday.HolidayService.
func (s *HolidayServiceImpl) ForMonth(ctx context.Context, year int, month time.Month) (map[int]string, error) {
	out := publicholiday.ForMonth(year, month)

	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)
	daysOff, err := s.DayOffRepository.ListBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}
	for _, d := range daysOff {
		if _, taken := out[d.Date.Day()]; !taken {
			out[d.Date.Day()] = d.Name
		}
	}
	return out, nil
}

// ListDaysOff implements holiday.HolidayService.
func (s *HolidayServiceImpl) ListDaysOff(ctx context.Context, year int) ([]holiday.DayOffResponse, error) {
	from, to := yearBounds(year)
	daysOff, err := s.DayOffRepository.ListBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}
	out := make([]holiday.DayOffResponse, 0, len(daysOff))
	for _, d := range daysOff {
		out = append(out, holiday.NewDayOffResponse(d))
	}
	return out, nil
}

// CreateDayOff implements holiday.HolidayService.
func (s *HolidayServiceImpl) CreateDayOff(ctx context.Context, req holiday.CreateDayOffRequest) (holiday.DayOffResponse, error) {
	date, _ := validator.IsValidDate(req.Date)
	created, err := s.DayOffRepository.Create(ctx, holiday.DayOff{Date: date, Name: strings.TrimSpace(req.Name)})
	if err != nil {
		return holiday.DayOffResponse{}, err
	}
	return holiday.NewDayOffResponse(created), nil
}

// UpdateDayOff implements holiday.HolidayService.
func (s *HolidayServiceImpl) UpdateDayOff(ctx context.Context, req holiday.UpdateDayOffRequest) (holiday.DayOffResponse, error) {
	date, _ := validator.IsValidDate(req.Date)
	d := holiday.DayOff{ID: req.ID, Date: date, Name: strings.TrimSpace(req.Name)}
	if err := s.DayOffRepository.Update(ctx, d); err != nil {
		return holiday.DayOffResponse{}, err
	}
	return holiday.NewDayOffResponse(d), nil
}

// DeleteDayOff implements holiday.HolidayService.
func (s *HolidayServiceImpl) DeleteDayOff(ctx context.Context, id int64) error {
	return s.DayOffRepository.Delete(ctx, id)
}
