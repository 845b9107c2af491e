package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/fekuna/penstore/internal/auth"
	"github.com/fekuna/penstore/internal/model"
	"github.com/fekuna/penstore/internal/testutil"
	"github.com/fekuna/penstore/internal/user"
	"github.com/fekuna/penstore/internal/user/dto"
	"github.com/fekuna/penstore/internal/user/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func setup(t *testing.T) (user.UseCase, *auth.TokenManager) {
	t.Helper()
	HashCost = bcrypt.MinCost
	tm := auth.NewTokenManager("secret", time.Hour)
	return NewUserUseCase(repository.NewPGRepository(testutil.NewDB(t)), tm, testutil.Logger(t)), tm
}

func TestCreateUserAndLogin(t *testing.T) {
	uc, tm := setup(t)
	ctx := context.Background()

	u, err := uc.CreateUser(ctx, &dto.CreateUserInput{Email: " Admin@Example.com ", Password: "correct-horse", Name: "Admin"})
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", u.Email)
	assert.Equal(t, model.RoleAdmin, u.Role)
	assert.NotEqual(t, "correct-horse", u.PasswordHash)

	res, err := uc.Login(ctx, &dto.LoginInput{Email: "admin@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	claims, err := tm.Parse(res.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.Subject)
	assert.Equal(t, model.RoleAdmin, claims.Role)

	_, err = uc.CreateUser(ctx, &dto.CreateUserInput{Email: "admin@example.com", Password: "another-pass"})
	assert.ErrorIs(t, err, model.ErrConflict)
}

func TestLoginRejects(t *testing.T) {
	uc, _ := setup(t)
	ctx := context.Background()
	_, err := uc.CreateUser(ctx, &dto.CreateUserInput{Email: "admin@example.com", Password: "correct-horse"})
	require.NoError(t, err)

	tests := []struct {
		name  string
		input dto.LoginInput
		want  error
	}{
		{"wrong password", dto.LoginInput{Email: "admin@example.com", Password: "wrong-horse"}, model.ErrUnauthorized},
		{"unknown email", dto.LoginInput{Email: "who@example.com", Password: "correct-horse"}, model.ErrUnauthorized},
		{"missing password", dto.LoginInput{Email: "admin@example.com"}, model.ErrMissingFields},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Login(ctx, &tt.input)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCreateUserValidation(t *testing.T) {
	uc, _ := setup(t)
	ctx := context.Background()

	_, err := uc.CreateUser(ctx, &dto.CreateUserInput{Email: "not-an-email", Password: "correct-horse"})
	assert.ErrorIs(t, err, model.ErrInvalid)
	_, err = uc.CreateUser(ctx, &dto.CreateUserInput{Email: "a@example.com", Password: "short"})
	assert.ErrorIs(t, err, model.ErrInvalid)
	_, err = uc.CreateUser(ctx, &dto.CreateUserInput{Password: "correct-horse"})
	assert.ErrorIs(t, err, model.ErrMissingFields)
}
