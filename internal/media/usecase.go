package media

import (
	"context"

	"github.com/fekuna/penstore/internal/media/dto"
	"github.com/fekuna/penstore/internal/model"
)

type UseCase interface {
	Upload(ctx context.Context, input *dto.UploadInput) (*model.Media, error)
	GetMedia(ctx context.Context, id string) (*model.Media, error)
	ListMedia(ctx context.Context, opts model.QueryOptions) (*model.Page[model.Media], error)
	DeleteMedia(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) (int, error)
	BackfillBlur(ctx context.Context) (*dto.BackfillReport, error)
}
