package user

import (
	"time"

	"github.com/cmlabs-hris/grafik-backend-go/internal/pkg/validator"
)

// UserResponse represents user data in API responses
type UserResponse struct {
	ID               int64   `json:"id"`
	Email            string  `json:"email"`
	FullName         string  `json:"full_name"`
	IsAdmin          bool    `json:"is_admin"`
	Address          *string `json:"address,omitempty"`
	LeaveDaysPerYear int     `json:"leave_days_per_year"`
	OAuthProvider    *string `json:"oauth_provider,omitempty"`
	CreatedAt        string  `json:"created_at"`
	UpdatedAt        string  `json:"updated_at"`
}

func NewUserResponse(u User) UserResponse {
	return UserResponse{
		ID:               u.ID,
		Email:            u.Email,
		FullName:         u.FullName,
		IsAdmin:          u.IsAdmin,
		Address:          u.Address,
		LeaveDaysPerYear: u.LeaveDaysPerYear,
		OAuthProvider:    u.OAuthProvider,
		CreatedAt:        u.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        u.UpdatedAt.Format(time.RFC3339),
	}
}

// CreateUserRequest represents request to create a new user
type CreateUserRequest struct {
	Email            string  `json:"email"`
	FullName         string  `json:"full_name"`
	Password         string  `json:"password"`
	IsAdmin          bool    `json:"is_admin"`
	Address          *string `json:"address,omitempty"`
	LeaveDaysPerYear *int    `json:"leave_days_per_year,omitempty"`
}

func (r *CreateUserRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email is required",
		})
	} else if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "invalid email format",
		})
	}

	if validator.IsEmpty(r.FullName) {
		errs = append(errs, validator.ValidationError{
			Field:   "full_name",
			Message: "full_name is required",
		})
	} else if !validator.MaxLen(r.FullName, 150) {
		errs = append(errs, validator.ValidationError{
			Field:   "full_name",
			Message: "full_name must not exceed 150 characters",
		})
	}

	if validator.IsEmpty(r.Password) {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password is required",
		})
	} else if len(r.Password) < 8 {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password must be at least 8 characters",
		})
	}

	if r.LeaveDaysPerYear != nil && (*r.LeaveDaysPerYear < 0 || *r.LeaveDaysPerYear > 366) {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_days_per_year",
			Message: "leave_days_per_year must be between 0 and 366",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// UpdateUserRequest represents request to update user
type UpdateUserRequest struct {
	ID               int64   `json:"-"`
	Email            *string `json:"email,omitempty"`
	FullName         *string `json:"full_name,omitempty"`
	Password         *string `json:"password,omitempty"`
	IsAdmin          *bool   `json:"is_admin,omitempty"`
	Address          *string `json:"address,omitempty"`
	LeaveDaysPerYear *int    `json:"leave_days_per_year,omitempty"`

	// PasswordHash is filled by the service before the update is stored.
	PasswordHash *string `json:"-"`
}

func (r *UpdateUserRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.ID <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}

	if r.Email != nil {
		if validator.IsEmpty(*r.Email) {
			errs = append(errs, validator.ValidationError{
				Field:   "email",
				Message: "email must not be empty",
			})
		} else if !validator.IsValidEmail(*r.Email) {
			errs = append(errs, validator.ValidationError{
				Field:   "email",
				Message: "invalid email format",
			})
		}
	}

	if r.FullName != nil && validator.IsEmpty(*r.FullName) {
		errs = append(errs, validator.ValidationError{
			Field:   "full_name",
			Message: "full_name must not be empty",
		})
	}

	if r.Password != nil && len(*r.Password) < 8 {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password must be at least 8 characters",
		})
	}

	if r.LeaveDaysPerYear != nil && (*r.LeaveDaysPerYear < 0 || *r.LeaveDaysPerYear > 366) {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_days_per_year",
			Message: "leave_days_per_year must be between 0 and 366",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}
