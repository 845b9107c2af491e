package user

import (
	"context"

	"github.com/fekuna/penstore/internal/model"
	"github.com/fekuna/penstore/internal/user/dto"
)

type UseCase interface {
	Login(ctx context.Context, input *dto.LoginInput) (*dto.LoginResult, error)
	CreateUser(ctx context.Context, input *dto.CreateUserInput) (*model.User, error)
}
