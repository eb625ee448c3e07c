package grafik

import (
	"errors"
	"fmt"
)

var (
	ErrForbidden          = errors.New("Brak uprawnień")
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrDepartmentNotFound = errors.New("department not found")
	ErrShiftTypeNotFound  = errors.New("shift type not found")
	ErrNotAvailable       = errors.New("shift type not available in department")
	ErrMainOnly           = errors.New("shift type limited to main department")
	ErrAutoPlanNotSet     = errors.New("auto-plan shift types are not configured")
	ErrInvalidBody        = errors.New("Nieprawidłowe dane żądania")
)

// UserError pairs a sentinel with the message shown to the person at the grid.
type UserError struct {
	Err     error
	Message string
}

func (e *UserError) Error() string { return e.Message }
func (e *UserError) Unwrap() error { return e.Err }

func NotAvailableError(typeName string) error {
	return &UserError{Err: ErrNotAvailable, Message: fmt.Sprintf("Typ \"%s\" nie jest dostępny w tym departamencie.", typeName)}
}

func MainOnlyError(typeName string) error {
	return &UserError{Err: ErrMainOnly, Message: fmt.Sprintf("Typ \"%s\" można przypisać tylko w głównym departamencie pracownika.", typeName)}
}

func AutoPlanNotSetError() error {
	return &UserError{Err: ErrAutoPlanNotSet, Message: "Brak skonfigurowanych typów zmian w ustawieniach. Przejdź do Admin → Ustawienia."}
}

// Message returns the text to show for err: the UserError message when
// there is one, the sentinel text otherwise.
func Message(err error) string {
	var ue *UserError
	if errors.As(err, &ue) {
		return ue.Message
	}
	return err.Error()
}
