package holiday

import (
	"time"

	"github.com/cmlabs-hris/grafik-backend-go/internal/pkg/validator"
)

type CreateDayOffRequest struct {
	Date string `json:"date"`
	Name string `json:"name"`
}

func (r *CreateDayOffRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs.Add("date", "date must be in YYYY-MM-DD format")
	}
	if validator.IsEmpty(r.Name) {
		errs.Add("name", "name is required")
	} else if !validator.MaxLen(r.Name, 100) {
		errs.Add("name", "name must not exceed 100 characters")
	}

	return errs.Err()
}

type UpdateDayOffRequest struct {
	ID int64 `json:"-"`
	CreateDayOffRequest
}

func (r *UpdateDayOffRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.ID <= 0 {
		errs.Add("id", "id is required")
	}
	if err := r.CreateDayOffRequest.Validate(); err != nil {
		if ve, ok := err.(validator.ValidationErrors); ok {
			errs = append(errs, ve...)
		}
	}
	return errs.Err()
}

type DayOffResponse struct {
	ID   int64  `json:"id"`
	Date string `json:"date"`
	Name string `json:"name"`
}

func NewDayOffResponse(d DayOff) DayOffResponse {
	return DayOffResponse{ID: d.ID, Date: d.Date.Format(validator.DateLayout), Name: d.Name}
}

// HolidayResponse is one entry of the merged holiday calendar.
type HolidayResponse struct {
	Date    string `json:"date"`
	Name    string `json:"name"`
	Company bool   `json:"company"`
	DayOff  *int64 `json:"day_off_id,omitempty"`
}

func NewPublicHoliday(date time.Time, name string) HolidayResponse {
	return HolidayResponse{Date: date.Format(validator.DateLayout), Name: name}
}
