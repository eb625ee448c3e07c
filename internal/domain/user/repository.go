package user

import (
	"context"
)

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id int64) (User, error)
	GetByIDs(ctx context.Context, ids []int64) (map[int64]User, error)
	List(ctx context.Context) ([]User, error)
	Create(ctx context.Context, newUser User) (User, error)
	Update(ctx context.Context, req UpdateUserRequest) error
	UpdateAddress(ctx context.Context, id int64, address string) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	LinkGoogleAccount(ctx context.Context, googleID string, email string) (User, error)
	Count(ctx context.Context) (int64, error)
}

type UserService interface {
	Me(ctx context.Context, id int64) (UserResponse, error)
	List(ctx context.Context) ([]UserResponse, error)
	Create(ctx context.Context, req CreateUserRequest) (UserResponse, error)
	Update(ctx context.Context, req UpdateUserRequest) (UserResponse, error)
}
