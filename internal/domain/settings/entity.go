package settings

import "time"

// Settings is the single company-wide configuration row.
type Settings struct {
	CompanyName     string
	CompanyAddress  string
	AutoPlanShiftID *int64
	AutoPlanFreeID  *int64
	LogoPath        *string
	UpdatedAt       time.Time
}
