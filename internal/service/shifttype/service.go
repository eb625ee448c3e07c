package shifttype

import (
	"context"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/shifttype"
	"github.com/cmlabs-hris/grafik-backend-go/internal/pkg/keycombo"
	"github.com/cmlabs-hris/grafik-backend-go/internal/repository/postgresql"
)

type ShiftTypeServiceImpl struct {
	tx postgresql.Transactor
	shifttype.ShiftTypeRepository
}

func NewShiftTypeService(tx postgresql.Transactor, repo shifttype.ShiftTypeRepository) shifttype.ShiftTypeService {
	return &ShiftTypeServiceImpl{tx: tx, ShiftTypeRepository: repo}
}

// List implements shifttype.ShiftTypeService. Inactive types are included
// for the admin screen.
func (s *ShiftTypeServiceImpl) List(ctx context.Context) ([]shifttype.ShiftTypeResponse, error) {
	types, err := s.ShiftTypeRepository.List(ctx, false)
	if err != nil {
		return nil, err
	}
	out := make([]shifttype.ShiftTypeResponse, 0, len(types))
	for _, st := range types {
		out = append(out, shifttype.NewShiftTypeResponse(st))
	}
	return out, nil
}

// Get implements shifttype.ShiftTypeService.
func (s *ShiftTypeServiceImpl) Get(ctx context.Context, id int64) (shifttype.ShiftTypeResponse, error) {
	st, err := s.ShiftTypeRepository.GetByID(ctx, id)
	if err != nil {
		return shifttype.ShiftTypeResponse{}, err
	}
	return shifttype.NewShiftTypeResponse(st), nil
}

// normalizeShortcut returns the canonical combo, or nil for an empty one,
// and rejects combos already bound to another type.
func (s *ShiftTypeServiceImpl) normalizeShortcut(ctx context.Context, id int64, raw *string) (*string, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	combo, err := keycombo.Parse(*raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shifttype.ErrInvalidShortcut, err)
	}
	taken, err := s.ShiftTypeRepository.Shortcuts(ctx)
	if err != nil {
		return nil, err
	}
	for otherID, existing := range taken {
		if otherID == id {
			continue
		}
		if other, err := keycombo.Parse(existing); err == nil && other == combo {
			return nil, shifttype.ErrShortcutTaken
		}
	}
	normalized := string(combo)
	return &normalized, nil
}

func emptyToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

func (s *ShiftTypeServiceImpl) fromRequest(ctx context.Context, id int64, req shifttype.CreateShiftTypeRequest) (shifttype.ShiftType, error) {
	shortcut, err := s.normalizeShortcut(ctx, id, req.Shortcut)
	if err != nil {
		return shifttype.ShiftType{}, err
	}
	return shifttype.ShiftType{
		ID:             id,
		Name:           strings.TrimSpace(req.Name),
		Code:           strings.TrimSpace(req.Code),
		Color:          strings.ToLower(req.Color),
		HoursFrom:      emptyToNil(req.HoursFrom),
		HoursTo:        emptyToNil(req.HoursTo),
		Shortcut:       shortcut,
		MainOnly:       req.MainOnly,
		TemplateID:     req.TemplateID,
		LegacyTemplate: emptyToNil(req.LegacyTemplate),
		DepartmentIDs:  req.DepartmentIDs,
	}, nil
}

// Create implements shifttype.ShiftTypeService.
func (s *ShiftTypeServiceImpl) Create(ctx context.Context, req shifttype.CreateShiftTypeRequest) (shifttype.ShiftTypeResponse, error) {
	var created shifttype.ShiftType
	err := s.tx.Do(ctx, func(txCtx context.Context) error {
		st, err := s.fromRequest(txCtx, 0, req)
		if err != nil {
			return err
		}
		st.Active = true
		created, err = s.ShiftTypeRepository.Create(txCtx, st)
		return err
	})
	if err != nil {
		return shifttype.ShiftTypeResponse{}, err
	}
	return shifttype.NewShiftTypeResponse(created), nil
}

// Update implements shifttype.ShiftTypeService.
func (s *ShiftTypeServiceImpl) Update(ctx context.Context, req shifttype.UpdateShiftTypeRequest) (shifttype.ShiftTypeResponse, error) {
	var updated shifttype.ShiftType
	err := s.tx.Do(ctx, func(txCtx context.Context) error {
		current, err := s.ShiftTypeRepository.GetByID(txCtx, req.ID)
		if err != nil {
			return err
		}
		st, err := s.fromRequest(txCtx, req.ID, req.CreateShiftTypeRequest)
		if err != nil {
			return err
		}
		st.Active = current.Active
		st.Position = current.Position
		if err := s.ShiftTypeRepository.Update(txCtx, st); err != nil {
			return err
		}
		updated, err = s.ShiftTypeRepository.GetByID(txCtx, req.ID)
		return err
	})
	if err != nil {
		return shifttype.ShiftTypeResponse{}, err
	}
	return shifttype.NewShiftTypeResponse(updated), nil
}

// Delete implements shifttype.ShiftTypeService. Types with schedule entries
// are kept; deactivate them instead.
func (s *ShiftTypeServiceImpl) Delete(ctx context.Context, id int64) error {
	return s.tx.Do(ctx, func(txCtx context.Context) error {
		if _, err := s.ShiftTypeRepository.GetByID(txCtx, id); err != nil {
			return err
		}
		n, err := s.ShiftTypeRepository.CountUsage(txCtx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("%w: %d", shifttype.ErrShiftTypeInUse, n)
		}
		return s.ShiftTypeRepository.Delete(txCtx, id)
	})
}

// ToggleActive implements shifttype.ShiftTypeService.
func (s *ShiftTypeServiceImpl) ToggleActive(ctx context.Context, id int64) (shifttype.ShiftTypeResponse, error) {
	st, err := s.ShiftTypeRepository.GetByID(ctx, id)
	if err != nil {
		return shifttype.ShiftTypeResponse{}, err
	}
	if err := s.ShiftTypeRepository.SetActive(ctx, id, !st.Active); err != nil {
		return shifttype.ShiftTypeResponse{}, err
	}
	st.Active = !st.Active
	return shifttype.NewShiftTypeResponse(st), nil
}

// Reorder implements shifttype.ShiftTypeService.
func (s *ShiftTypeServiceImpl) Reorder(ctx context.Context, req shifttype.ReorderRequest) error {
	return s.tx.Do(ctx, func(txCtx context.Context) error {
		return s.ShiftTypeRepository.UpdatePositions(txCtx, req.IDs)
	})
}
