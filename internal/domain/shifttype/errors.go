package shifttype

import "errors"

var (
	ErrShiftTypeNotFound     = errors.New("shift type not found")
	ErrShiftTypeCodeExists   = errors.New("shift type code already exists")
	ErrShortcutTaken         = errors.New("keyboard shortcut already assigned to another shift type")
	ErrShiftTypeInUse        = errors.New("shift type is used by schedule entries")
	ErrShiftTypeNotAvailable = errors.New("shift type is not available in this department")
	ErrShiftTypeMainOnly     = errors.New("shift type is reserved for main-department employees")
	ErrInvalidShortcut       = errors.New("invalid keyboard shortcut")
)
