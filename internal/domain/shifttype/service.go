package shifttype

import "context"

type ShiftTypeService interface {
	List(ctx context.Context) ([]ShiftTypeResponse, error)
	Get(ctx context.Context, id int64) (ShiftTypeResponse, error)
	Create(ctx context.Context, req CreateShiftTypeRequest) (ShiftTypeResponse, error)
	Update(ctx context.Context, req UpdateShiftTypeRequest) (ShiftTypeResponse, error)
	Delete(ctx context.Context, id int64) error
	ToggleActive(ctx context.Context, id int64) (ShiftTypeResponse, error)
	Reorder(ctx context.Context, req ReorderRequest) error
}
