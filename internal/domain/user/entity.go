package user

import "time"

type User struct {
	ID               int64
	Email            string
	FullName         string
	PasswordHash     *string
	IsAdmin          bool
	Address          *string
	LeaveDaysPerYear int
	OAuthProvider    *string
	OAuthProviderID  *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// HasPassword reports whether the account can sign in with a password.
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// AddressOrEmpty returns the stored postal address, or "" when unset.
func (u *User) AddressOrEmpty() string {
	if u.Address == nil {
		return ""
	}
	return *u.Address
}
