package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/department"
	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/grafik"
	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/holiday"
	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/podanie"
	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/shifttype"
	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/grafik-backend-go/internal/pkg/docx"
	"github.com/cmlabs-hris/grafik-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")
	case errors.Is(err, auth.ErrAccountNotLinked):
		Forbidden(w, err.Error())
	case errors.Is(err, auth.ErrPasswordMismatch):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, auth.ErrUserNotFound), errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")

	// User domain errors
	case errors.Is(err, user.ErrUserEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, user.ErrAdminPrivilegeRequired), errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, err.Error())

	// Department domain errors
	case errors.Is(err, department.ErrDepartmentNotFound), errors.Is(err, grafik.ErrDepartmentNotFound):
		NotFound(w, "Department not found")
	case errors.Is(err, department.ErrDepartmentNameExists):
		Conflict(w, err.Error())
	case errors.Is(err, department.ErrMultipleMain):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, department.ErrNotMember):
		NotFound(w, err.Error())
	case errors.Is(err, department.ErrNoDepartment), errors.Is(err, podanie.ErrNoDepartment):
		Forbidden(w, err.Error())
	case errors.Is(err, department.ErrForbidden), errors.Is(err, grafik.ErrForbidden), errors.Is(err, podanie.ErrForbidden):
		Forbidden(w, err.Error())

	// Shift type errors
	case errors.Is(err, shifttype.ErrShiftTypeNotFound), errors.Is(err, grafik.ErrShiftTypeNotFound):
		NotFound(w, "Shift type not found")
	case errors.Is(err, shifttype.ErrShiftTypeCodeExists), errors.Is(err, shifttype.ErrShortcutTaken):
		Conflict(w, err.Error())
	case errors.Is(err, shifttype.ErrShiftTypeInUse):
		// The message carries the number of entries.
		Conflict(w, err.Error())
	case errors.Is(err, shifttype.ErrInvalidShortcut):
		BadRequest(w, err.Error(), nil)

	// Grid errors
	case errors.Is(err, grafik.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, grafik.ErrNotAvailable), errors.Is(err, grafik.ErrMainOnly), errors.Is(err, grafik.ErrAutoPlanNotSet):
		UnprocessableEntity(w, grafik.Message(err))

	// Holiday errors
	case errors.Is(err, holiday.ErrDayOffNotFound):
		NotFound(w, "Company day off not found")
	case errors.Is(err, holiday.ErrDayOffDateExists):
		Conflict(w, err.Error())

	// Leave request errors
	case errors.Is(err, podanie.ErrRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, podanie.ErrTemplateNotFound):
		NotFound(w, "Request template not found")
	case errors.Is(err, podanie.ErrDictionaryNotFound):
		NotFound(w, "Dictionary item not found")
	case errors.Is(err, podanie.ErrTemplateInUse):
		Conflict(w, err.Error())
	case errors.Is(err, podanie.ErrUnknownDictionary), errors.Is(err, podanie.ErrInvalidDateRange):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, podanie.ErrImportFormat):
		UnprocessableEntity(w, err.Error())
	case errors.Is(err, docx.ErrInvalid):
		UnprocessableEntity(w, docx.ErrInvalid.Error())
	case errors.Is(err, podanie.ErrImportTooLarge):
		writeJSON(w, http.StatusRequestEntityTooLarge, Response{
			Success: false,
			Error:   &ErrorDetail{Code: "PAYLOAD_TOO_LARGE", Message: err.Error()},
		})

	// Settings errors
	case errors.Is(err, settings.ErrUnsupportedLogo), errors.Is(err, settings.ErrUnknownShiftType):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, settings.ErrLogoTooLarge):
		writeJSON(w, http.StatusRequestEntityTooLarge, Response{
			Success: false,
			Error:   &ErrorDetail{Code: "PAYLOAD_TOO_LARGE", Message: err.Error()},
		})

	// Report errors
	case errors.Is(err, report.ErrInvalidYear), errors.Is(err, report.ErrUnsupportedFormat):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}

// gridStatus picks the status of a grid endpoint error. The grid client
// reads the body; the status only has to be truthful.
func gridStatus(err error) int {
	var validationErrs validator.ValidationErrors
	switch {
	case errors.As(err, &validationErrs), errors.Is(err, grafik.ErrInvalidBody):
		return http.StatusBadRequest
	case errors.Is(err, grafik.ErrForbidden), errors.Is(err, department.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, grafik.ErrNotAvailable), errors.Is(err, grafik.ErrMainOnly), errors.Is(err, grafik.ErrAutoPlanNotSet):
		return http.StatusUnprocessableEntity
	case errors.Is(err, grafik.ErrEmployeeNotFound), errors.Is(err, grafik.ErrShiftTypeNotFound),
		errors.Is(err, grafik.ErrDepartmentNotFound), errors.Is(err, department.ErrDepartmentNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// GridError writes the flat {error:"..."} body used by the grid endpoints.
func GridError(w http.ResponseWriter, err error) {
	status := gridStatus(err)
	message := grafik.Message(err)
	if status == http.StatusInternalServerError {
		slog.Error("grid request failed", "error", err)
		message = "Wystąpił błąd serwera"
	}
	writeJSON(w, status, map[string]string{"error": message})
}

// GridSuccess writes a flat grid body as is.
func GridSuccess(w http.ResponseWriter, payload interface{}) {
	writeJSON(w, http.StatusOK, payload)
}
