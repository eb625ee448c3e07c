package podanie

import "errors"

var (
	ErrRequestNotFound    = errors.New("leave request not found")
	ErrTemplateNotFound   = errors.New("request template not found")
	ErrTemplateInUse      = errors.New("request template is used by shift types")
	ErrDictionaryNotFound = errors.New("dictionary item not found")
	ErrUnknownDictionary  = errors.New("unknown dictionary")
	ErrForbidden          = errors.New("Brak uprawnień.")
	ErrNoDepartment       = errors.New("Użytkownik nie ma przypisanego departamentu.")
	ErrInvalidDateRange   = errors.New("date_from must not be after date_to")
	ErrImportTooLarge     = errors.New("Plik jest za duży (maks. 5 MB).")
	ErrImportFormat       = errors.New("Plik musi być w formacie DOCX.")
)
