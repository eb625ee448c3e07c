package shifttype

import "context"

type ShiftTypeRepository interface {
	Create(ctx context.Context, st ShiftType) (ShiftType, error)
	GetByID(ctx context.Context, id int64) (ShiftType, error)
	GetByCode(ctx context.Context, code string) (ShiftType, error)
	List(ctx context.Context, onlyActive bool) ([]ShiftType, error)
	// ListForDepartment returns active types available in the department.
	ListForDepartment(ctx context.Context, departmentID int64) ([]ShiftType, error)
	Update(ctx context.Context, st ShiftType) error
	Delete(ctx context.Context, id int64) error
	SetActive(ctx context.Context, id int64, active bool) error
	UpdatePositions(ctx context.Context, ids []int64) error
	CountUsage(ctx context.Context, id int64) (int64, error)
	// Shortcuts maps shift type id to its stored shortcut.
	Shortcuts(ctx context.Context) (map[int64]string, error)
	Count(ctx context.Context) (int64, error)
}
