package department

import "errors"

var (
	ErrDepartmentNotFound   = errors.New("department not found")
	ErrDepartmentNameExists = errors.New("department name already exists")
	ErrNoDepartment         = errors.New("user does not belong to any department")
	ErrForbidden            = errors.New("Brak uprawnień")
	ErrMultipleMain         = errors.New("a user can have only one main department")
	ErrNotMember            = errors.New("user is not a member of the department")
)
