package settings

import (
	"time"

	"github.com/cmlabs-hris/grafik-backend-go/internal/pkg/validator"
)

type UpdateSettingsRequest struct {
	CompanyName     string `json:"company_name"`
	CompanyAddress  string `json:"company_address"`
	AutoPlanShiftID *int64 `json:"auto_plan_shift_id"`
	AutoPlanFreeID  *int64 `json:"auto_plan_free_id"`
}

func (r *UpdateSettingsRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.MaxLen(r.CompanyName, 255) {
		errs.Add("company_name", "company_name must not exceed 255 characters")
	}
	if !validator.MaxLen(r.CompanyAddress, 1000) {
		errs.Add("company_address", "company_address must not exceed 1000 characters")
	}
	if r.AutoPlanShiftID != nil && *r.AutoPlanShiftID <= 0 {
		errs.Add("auto_plan_shift_id", "auto_plan_shift_id must be positive or null")
	}
	if r.AutoPlanFreeID != nil && *r.AutoPlanFreeID <= 0 {
		errs.Add("auto_plan_free_id", "auto_plan_free_id must be positive or null")
	}

	return errs.Err()
}

type SettingsResponse struct {
	CompanyName     string  `json:"company_name"`
	CompanyAddress  string  `json:"company_address"`
	AutoPlanShiftID *int64  `json:"auto_plan_shift_id"`
	AutoPlanFreeID  *int64  `json:"auto_plan_free_id"`
	LogoURL         *string `json:"logo_url,omitempty"`
	UpdatedAt       string  `json:"updated_at"`
}

// NewSettingsResponse maps s; logoURL is the public URL of the stored logo.
func NewSettingsResponse(s Settings, logoURL *string) SettingsResponse {
	return SettingsResponse{
		CompanyName:     s.CompanyName,
		CompanyAddress:  s.CompanyAddress,
		AutoPlanShiftID: s.AutoPlanShiftID,
		AutoPlanFreeID:  s.AutoPlanFreeID,
		LogoURL:         logoURL,
		UpdatedAt:       s.UpdatedAt.Format(time.RFC3339),
	}
}
