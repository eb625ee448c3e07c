package department

import (
	"github.com/cmlabs-hris/grafik-backend-go/internal/pkg/validator"
)

type CreateDepartmentRequest struct {
	Name     string `json:"name"`
	Code     string `json:"code"`
	Position int    `json:"position"`
}

func (r *CreateDepartmentRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs.Add("name", "name is required")
	} else if !validator.MaxLen(r.Name, 100) {
		errs.Add("name", "name must not exceed 100 characters")
	}
	if !validator.MaxLen(r.Code, 20) {
		errs.Add("code", "code must not exceed 20 characters")
	}

	return errs.Err()
}

type UpdateDepartmentRequest struct {
	ID int64 `json:"-"`
	CreateDepartmentRequest
}

func (r *UpdateDepartmentRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.ID <= 0 {
		errs.Add("id", "id is required")
	}
	if err := r.CreateDepartmentRequest.Validate(); err != nil {
		if ve, ok := err.(validator.ValidationErrors); ok {
			errs = append(errs, ve...)
		}
	}
	return errs.Err()
}

type MemberInput struct {
	UserID   int64 `json:"user_id"`
	IsMain   bool  `json:"is_main"`
	IsHead   bool  `json:"is_head"`
	IsHidden bool  `json:"is_hidden"`
	Position int   `json:"position"`
}

// SyncMembersRequest replaces the department's member list.
type SyncMembersRequest struct {
	DepartmentID int64         `json:"-"`
	Members      []MemberInput `json:"members"`
}

func (r *SyncMembersRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.DepartmentID <= 0 {
		errs.Add("department_id", "department_id is required")
	}
	seen := make(map[int64]struct{}, len(r.Members))
	for _, m := range r.Members {
		if m.UserID <= 0 {
			errs.Add("members", "every member needs a user_id")
			break
		}
		if _, dup := seen[m.UserID]; dup {
			errs.Add("members", "a user may appear only once")
			break
		}
		seen[m.UserID] = struct{}{}
	}
	return errs.Err()
}

type StaffInput struct {
	UserID           int64   `json:"user_id"`
	Address          *string `json:"address,omitempty"`
	LeaveDaysPerYear *int    `json:"leave_days_per_year,omitempty"`
	Position         *int    `json:"position,omitempty"`
}

// UpdateStaffRequest carries the member details a department head may
// change. Omitted fields are left as they are.
type UpdateStaffRequest struct {
	DepartmentID int64        `json:"-"`
	Staff        []StaffInput `json:"staff"`
}

func (r *UpdateStaffRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.DepartmentID <= 0 {
		errs.Add("department_id", "department_id is required")
	}
	for _, s := range r.Staff {
		if s.UserID <= 0 {
			errs.Add("staff", "every entry needs a user_id")
			break
		}
		if s.Address != nil && !validator.MaxLen(*s.Address, 500) {
			errs.Add("address", "address must not exceed 500 characters")
		}
		if s.LeaveDaysPerYear != nil && (*s.LeaveDaysPerYear < 1 || *s.LeaveDaysPerYear > 100) {
			errs.Add("leave_days_per_year", "leave_days_per_year must be between 1 and 100")
		}
		if s.Position != nil && *s.Position < 0 {
			errs.Add("position", "position must not be negative")
		}
	}
	return errs.Err()
}

type DepartmentResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Code     string `json:"code"`
	Position int    `json:"position"`
}

func NewDepartmentResponse(d Department) DepartmentResponse {
	return DepartmentResponse{ID: d.ID, Name: d.Name, Code: d.Code, Position: d.Position}
}

type MemberResponse struct {
	UserID   int64  `json:"user_id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	IsMain   bool   `json:"is_main"`
	IsHead   bool   `json:"is_head"`
	IsHidden bool   `json:"is_hidden"`
	Position int    `json:"position"`

	Address          *string `json:"address,omitempty"`
	LeaveDaysPerYear int     `json:"leave_days_per_year"`
}

func NewMemberResponse(m Member) MemberResponse {
	return MemberResponse{
		UserID:           m.UserID,
		FullName:         m.FullName,
		Email:            m.Email,
		IsMain:           m.IsMain,
		IsHead:           m.IsHead,
		IsHidden:         m.IsHidden,
		Position:         m.Position,
		Address:          m.Address,
		LeaveDaysPerYear: m.LeaveDaysPerYear,
	}
}
