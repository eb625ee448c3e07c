package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/grafik-backend-go/internal/pkg/database"
)

type settingsRepositoryImpl struct {
	db *database.DB
}

func NewSettingsRepository(db *database.DB) settings.SettingsRepository {
	return &settingsRepositoryImpl{db: db}
}

// Get implements settings.SettingsRepository.
func (r *settingsRepositoryImpl) Get(ctx context.Context) (settings.Settings, error) {
	q := GetQuerier(ctx, r.db)
	if _, err := q.Exec(ctx, `INSERT INTO settings (id) VALUES (1) ON CONFLICT (id) DO NOTHING`); err != nil {
		return settings.Settings{}, fmt.Errorf("ensure settings row: %w", err)
	}

	var s settings.Settings
	err := q.QueryRow(ctx, `
		SELECT company_name, company_address, auto_plan_shift_id, auto_plan_free_id, logo_path, updated_at
		FROM settings WHERE id = 1
	`).Scan(&s.CompanyName, &s.CompanyAddress, &s.AutoPlanShiftID, &s.AutoPlanFreeID, &s.LogoPath, &s.UpdatedAt)
	if err != nil {
		return settings.Settings{}, fmt.Errorf("load settings: %w", err)
	}
	return s, nil
}

// Update implements settings.SettingsRepository.
func (r *settingsRepositoryImpl) Update(ctx context.Context, s settings.Settings) error {
	q := GetQuerier(ctx, r.db)
	_, err := q.Exec(ctx, `
		INSERT INTO settings (id, company_name, company_address, auto_plan_shift_id, auto_plan_free_id, logo_path, updated_at)
		VALUES (1, $1, $2, $3, $4, $5, NOW())
		ON CONFLICT (id) DO UPDATE SET
			company_name = EXCLUDED.company_name,
			company_address = EXCLUDED.company_address,
			auto_plan_shift_id = EXCLUDED.auto_plan_shift_id,
			auto_plan_free_id = EXCLUDED.auto_plan_free_id,
			logo_path = EXCLUDED.logo_path,
			updated_at = NOW()
	`, s.CompanyName, s.CompanyAddress, s.AutoPlanShiftID, s.AutoPlanFreeID, s.LogoPath)
	if err != nil {
		if isForeignKeyViolation(err) {
			return settings.ErrUnknownShiftType
		}
		return fmt.Errorf("update settings: %w", err)
	}
	return nil
}
