package fixtures

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/podanie"
	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/shifttype"
)

// Seeder installs the stock dictionaries, templates and shift types into an
// empty database. Each group is skipped when its table already has rows.
type Seeder struct {
	templates   podanie.TemplateRepository
	dictionary  podanie.DictionaryRepository
	shiftTypes  shifttype.ShiftTypeRepository
	settingsRep settings.SettingsRepository
}

func NewSeeder(
	templateRepo podanie.TemplateRepository,
	dictionaryRepo podanie.DictionaryRepository,
	shiftTypeRepo shifttype.ShiftTypeRepository,
	settingsRepo settings.SettingsRepository,
) *Seeder {
	return &Seeder{
		templates:   templateRepo,
		dictionary:  dictionaryRepo,
		shiftTypes:  shiftTypeRepo,
		settingsRep: settingsRepo,
	}
}

// Seed runs every group in dependency order: shift types link to the
// templates, settings link to the shift types.
func (s *Seeder) Seed(ctx context.Context) error {
	if err := s.seedDictionary(ctx, podanie.DictRequestKinds, GetDefaultRequestKinds()); err != nil {
		return err
	}
	if err := s.seedDictionary(ctx, podanie.DictLeaveKinds, GetDefaultLeaveKinds()); err != nil {
		return err
	}
	templateIDs, err := s.seedTemplates(ctx)
	if err != nil {
		return err
	}
	codes, err := s.seedShiftTypes(ctx, templateIDs)
	if err != nil {
		return err
	}
	return s.seedSettings(ctx, codes)
}

func (s *Seeder) seedDictionary(ctx context.Context, kind podanie.DictionaryKind, items []podanie.DictionaryItem) error {
	n, err := s.dictionary.Count(ctx, kind)
	if err != nil {
		return fmt.Errorf("count %s: %w", kind, err)
	}
	if n > 0 {
		return nil
	}
	for _, item := range items {
		if _, err := s.dictionary.Create(ctx, kind, item); err != nil {
			return fmt.Errorf("seed %s %q: %w", kind, item.Name, err)
		}
	}
	slog.Info("Seeded default dictionary", "kind", kind, "count", len(items))
	return nil
}

// seedTemplates returns template ids by name, including templates that
// already existed.
func (s *Seeder) seedTemplates(ctx context.Context) (map[string]int64, error) {
	n, err := s.templates.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count templates: %w", err)
	}
	if n == 0 {
		defaults, err := GetDefaultTemplates()
		if err != nil {
			return nil, fmt.Errorf("load default templates: %w", err)
		}
		for _, t := range defaults {
			if _, err := s.templates.Create(ctx, t); err != nil {
				return nil, fmt.Errorf("seed template %q: %w", t.Name, err)
			}
		}
		slog.Info("Seeded default request templates", "count", len(defaults))
	}

	existing, err := s.templates.List(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	ids := make(map[string]int64, len(existing))
	for _, t := range existing {
		ids[t.Name] = t.ID
	}
	return ids, nil
}

// seedShiftTypes returns the ids of the created types by code, or nil when
// the table was not empty.
func (s *Seeder) seedShiftTypes(ctx context.Context, templateIDs map[string]int64) (map[string]int64, error) {
	n, err := s.shiftTypes.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count shift types: %w", err)
	}
	if n > 0 {
		return nil, nil
	}

	created := make(map[string]int64)
	for _, d := range GetDefaultShiftTypes() {
		st := d.ShiftType
		if d.TemplateName != "" {
			if id, ok := templateIDs[d.TemplateName]; ok {
				st.TemplateID = &id
			}
		}
		saved, err := s.shiftTypes.Create(ctx, st)
		if err != nil {
			return nil, fmt.Errorf("seed shift type %q: %w", st.Code, err)
		}
		created[saved.Code] = saved.ID
	}
	slog.Info("Seeded default shift types", "count", len(created))
	return created, nil
}

// seedSettings makes sure the settings row exists and points auto-plan at
// the stock types when they were installed in this run.
func (s *Seeder) seedSettings(ctx context.Context, codes map[string]int64) error {
	current, err := s.settingsRep.Get(ctx)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	if codes == nil || current.AutoPlanShiftID != nil || current.AutoPlanFreeID != nil {
		return nil
	}

	shiftID, okShift := codes[AutoPlanShiftCode]
	freeID, okFree := codes[AutoPlanFreeCode]
	if !okShift || !okFree {
		return nil
	}
	current.AutoPlanShiftID = &shiftID
	current.AutoPlanFreeID = &freeID
	if err := s.settingsRep.Update(ctx, current); err != nil {
		return fmt.Errorf("seed settings: %w", err)
	}
	slog.Info("Seeded auto-plan settings", "shift_type_id", shiftID, "free_type_id", freeID)
	return nil
}
