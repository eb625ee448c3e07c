package user

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeUsers struct {
	user.UserRepository
	byID    map[int64]user.User
	updates []user.UpdateUserRequest
}

func (f *fakeUsers) Create(ctx context.Context, u user.User) (user.User, error) {
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return user.User{}, user.ErrUserEmailExists
		}
	}
	u.ID = int64(len(f.byID) + 1)
	f.byID[u.ID] = u
	return u, nil
}

func (f *fakeUsers) GetByID(ctx context.Context, id int64) (user.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUsers) Update(ctx context.Context, req user.UpdateUserRequest) error {
	f.updates = append(f.updates, req)
	u, ok := f.byID[req.ID]
	if !ok {
		return user.ErrUserNotFound
	}
	if req.FullName != nil {
		u.FullName = *req.FullName
	}
	if req.Email != nil {
		u.Email = *req.Email
	}
	f.byID[req.ID] = u
	return nil
}

func TestUserService_Create_DefaultsLeaveDays(t *testing.T) {
	repo := &fakeUsers{byID: map[int64]user.User{}}
	svc := NewUserService(repo, 26)

	resp, err := svc.Create(context.Background(), user.CreateUserRequest{
		Email:    " Anna@Example.com ",
		FullName: "Anna Nowak",
		Password: "password123",
	})

	require.NoError(t, err)
	assert.Equal(t, "anna@example.com", resp.Email)
	assert.Equal(t, 26, resp.LeaveDaysPerYear)

	stored := repo.byID[resp.ID]
	require.NotNil(t, stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*stored.PasswordHash), []byte("password123")))
}

func TestUserService_Create_DuplicateEmail(t *testing.T) {
	repo := &fakeUsers{byID: map[int64]user.User{1: {ID: 1, Email: "anna@example.com"}}}
	svc := NewUserService(repo, 26)

	_, err := svc.Create(context.Background(), user.CreateUserRequest{Email: "anna@example.com", FullName: "A", Password: "password123"})

	assert.ErrorIs(t, err, user.ErrUserEmailExists)
}

func TestUserService_Update_HashesPassword(t *testing.T) {
	repo := &fakeUsers{byID: map[int64]user.User{1: {ID: 1, Email: "anna@example.com", FullName: "Anna"}}}
	svc := NewUserService(repo, 26)
	pw := "newpassword"
	name := "Anna Kowalska"

	resp, err := svc.Update(context.Background(), user.UpdateUserRequest{ID: 1, Password: &pw, FullName: &name})

	require.NoError(t, err)
	assert.Equal(t, "Anna Kowalska", resp.FullName)
	require.Len(t, repo.updates, 1)
	require.NotNil(t, repo.updates[0].PasswordHash)
	assert.NotEqual(t, pw, *repo.updates[0].PasswordHash)
}
