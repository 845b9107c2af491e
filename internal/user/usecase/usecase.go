package usecase

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/fekuna/penstore/internal/auth"
	"github.com/fekuna/penstore/internal/model"
	"github.com/fekuna/penstore/internal/user"
	"github.com/fekuna/penstore/internal/user/dto"
	"github.com/fekuna/penstore/pkg/database"
	"github.com/fekuna/penstore/pkg/logger"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

// HashCost is lowered by tests.
var HashCost = bcrypt.DefaultCost

type userUseCase struct {
	repo   user.Repository
	tokens *auth.TokenManager
	logger logger.ZapLogger
}

func NewUserUseCase(repo user.Repository, tokens *auth.TokenManager, log logger.ZapLogger) user.UseCase {
	return &userUseCase{repo: repo, tokens: tokens, logger: log}
}

// Login answers ErrUnauthorized for an unknown email and a wrong password alike.
func (uc *userUseCase) Login(ctx context.Context, input *dto.LoginInput) (*dto.LoginResult, error) {
	email := strings.TrimSpace(input.Email)
	if email == "" || input.Password == "" {
		return nil, model.ErrMissingFields
	}

	u, err := uc.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, errors.Wrap(model.ErrUnauthorized, "invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(input.Password)); err != nil {
		uc.logger.Warn("login rejected", zap.String("email", email))
		return nil, errors.Wrap(model.ErrUnauthorized, "invalid credentials")
	}

	token, exp, err := uc.tokens.Issue(u)
	if err != nil {
		return nil, err
	}
	uc.logger.Info("user logged in", zap.String("user_id", u.ID))
	return &dto.LoginResult{Token: token, ExpiresAt: exp, User: u}, nil
}

func (uc *userUseCase) CreateUser(ctx context.Context, input *dto.CreateUserInput) (*model.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || input.Password == "" {
		return nil, model.ErrMissingFields
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return nil, errors.Wrapf(model.ErrInvalid, "email %q is not valid", email)
	}
	if len(input.Password) < minPasswordLength {
		return nil, errors.Wrapf(model.ErrInvalid, "password must be at least %d characters", minPasswordLength)
	}
	role := strings.TrimSpace(input.Role)
	if role == "" {
		role = model.RoleAdmin
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), HashCost)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}

	now := time.Now().UTC()
	u := &model.User{
		BaseModel:    model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		Email:        email,
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(input.Name),
		Role:         role,
	}
	if err := uc.repo.Create(ctx, u); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, errors.Wrapf(model.ErrConflict, "user %s already exists", email)
		}
		return nil, err
	}
	uc.logger.Info("user created", zap.String("id", u.ID), zap.String("role", u.Role))
	return u, nil
}
