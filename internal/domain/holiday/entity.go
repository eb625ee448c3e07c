package holiday

import "time"

// DayOff is a company-wide non-working day on top of public holidays.
type DayOff struct {
	ID        int64
	Date      time.Time
	Name      string
	CreatedAt time.Time
}
