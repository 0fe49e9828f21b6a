package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorhub/backend/internal/model"
)

func newAuthService(users *fakeUserStore) *AuthService {
	return NewAuthService(users, fakeTokenIssuer{}, fakeHasher{}, newFixedClock(), testLogger())
}

func TestRegisterTeacher(t *testing.T) {
	users := newFakeUserStore()
	svc := newAuthService(users)

	result, err := svc.Register(context.Background(), RegisterInput{
		Email:    "  Teacher@Example.COM ",
		Password: "secret-pass",
		Role:     "teacher",
		Name:     "Alex",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "teacher@example.com", result.User.Email)
	assert.Equal(t, model.RoleTeacher, result.User.Role)
	assert.Nil(t, result.User.StudentCode)
	assert.True(t, result.User.IsActive)
}

func TestRegisterStudentGetsCode(t *testing.T) {
	users := newFakeUserStore()
	svc := newAuthService(users)

	result, err := svc.Register(context.Background(), RegisterInput{
		Email:    "student@example.com",
		Password: "secret-pass",
		Role:     "Student",
		Name:     "Sam",
	})
	require.NoError(t, err)
	require.NotNil(t, result.User.StudentCode)
	assert.Len(t, *result.User.StudentCode, 9)
}

func TestRegisterValidation(t *testing.T) {
	users := newFakeUserStore()
	svc := newAuthService(users)
	ctx := context.Background()

	base := RegisterInput{
		Email:    "user@example.com",
		Password: "secret-pass",
		Role:     "teacher",
		Name:     "Alex",
	}

	in := base
	in.Role = "admin"
	_, err := svc.Register(ctx, in)
	assert.ErrorIs(t, err, ErrInvalidRole)

	in = base
	in.Email = "not-an-email"
	_, err = svc.Register(ctx, in)
	assert.ErrorIs(t, err, ErrInvalidInput)

	in = base
	in.Password = "short"
	_, err = svc.Register(ctx, in)
	assert.ErrorIs(t, err, ErrInvalidInput)

	in = base
	in.Name = "  "
	_, err = svc.Register(ctx, in)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	users := newFakeUserStore()
	svc := newAuthService(users)
	ctx := context.Background()

	in := RegisterInput{
		Email:    "user@example.com",
		Password: "secret-pass",
		Role:     "teacher",
		Name:     "Alex",
	}
	_, err := svc.Register(ctx, in)
	require.NoError(t, err)

	_, err = svc.Register(ctx, in)
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)

	// Case-insensitive duplicate.
	in.Email = "USER@example.com"
	_, err = svc.Register(ctx, in)
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestLogin(t *testing.T) {
	users := newFakeUserStore()
	svc := newAuthService(users)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{
		Email:    "user@example.com",
		Password: "secret-pass",
		Role:     "teacher",
		Name:     "Alex",
	})
	require.NoError(t, err)

	result, err := svc.Login(ctx, LoginInput{Email: "User@Example.com", Password: "secret-pass"})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)

	_, err = svc.Login(ctx, LoginInput{Email: "user@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "secret-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginInactiveUser(t *testing.T) {
	users := newFakeUserStore()
	svc := newAuthService(users)
	ctx := context.Background()

	result, err := svc.Register(ctx, RegisterInput{
		Email:    "user@example.com",
		Password: "secret-pass",
		Role:     "teacher",
		Name:     "Alex",
	})
	require.NoError(t, err)

	stored := users.users[result.User.ID]
	stored.IsActive = false

	_, err = svc.Login(ctx, LoginInput{Email: "user@example.com", Password: "secret-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
