package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/user"
	"golang.org/x/crypto/bcrypt"
)

type UserServiceImpl struct {
	user.UserRepository
	defaultLeaveDays int
}

func NewUserService(userRepository user.UserRepository, defaultLeaveDays int) user.UserService {
	return &UserServiceImpl{
		UserRepository:   userRepository,
		defaultLeaveDays: defaultLeaveDays,
	}
}

// Me implements user.UserService.
func (s *UserServiceImpl) Me(ctx context.Context, id int64) (user.UserResponse, error) {
	u, err := s.UserRepository.GetByID(ctx, id)
	if err != nil {
		return user.UserResponse{}, err
	}
	return user.NewUserResponse(u), nil
}

// List implements user.UserService.
func (s *UserServiceImpl) List(ctx context.Context) ([]user.UserResponse, error) {
	users, err := s.UserRepository.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]user.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, user.NewUserResponse(u))
	}
	return out, nil
}

// Create implements user.UserService.
func (s *UserServiceImpl) Create(ctx context.Context, req user.CreateUserRequest) (user.UserResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}
	hashed := string(hash)

	leaveDays := s.defaultLeaveDays
	if req.LeaveDaysPerYear != nil {
		leaveDays = *req.LeaveDaysPerYear
	}

	created, err := s.UserRepository.Create(ctx, user.User{
		Email:            strings.ToLower(strings.TrimSpace(req.Email)),
		FullName:         strings.TrimSpace(req.FullName),
		PasswordHash:     &hashed,
		IsAdmin:          req.IsAdmin,
		Address:          req.Address,
		LeaveDaysPerYear: leaveDays,
	})
	if err != nil {
		return user.UserResponse{}, err
	}
	return user.NewUserResponse(created), nil
}

// Update implements user.UserService.
func (s *UserServiceImpl) Update(ctx context.Context, req user.UpdateUserRequest) (user.UserResponse, error) {
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return user.UserResponse{}, fmt.Errorf("failed to hash password: %w", err)
		}
		hashed := string(hash)
		req.PasswordHash = &hashed
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		req.Email = &email
	}

	if err := s.UserRepository.Update(ctx, req); err != nil {
		return user.UserResponse{}, err
	}
	return s.Me(ctx, req.ID)
}
