package collection

import (
	"context"

	"github.com/fekuna/penstore/internal/collection/dto"
	"github.com/fekuna/penstore/internal/model"
)

type UseCase interface {
	ListCollections(ctx context.Context, opts model.QueryOptions) (*model.Page[model.Collection], error)
	GetCollectionBySlug(ctx context.Context, slug string) (*model.Collection, error)
	ListFeaturedCollections(ctx context.Context) ([]model.Collection, error)

	CreateCollection(ctx context.Context, input *dto.CreateCollectionInput) (*model.Collection, error)
	GetCollection(ctx context.Context, id string) (*model.Collection, error)
	UpdateCollection(ctx context.Context, input *dto.UpdateCollectionInput) (*model.Collection, error)
	DeleteCollection(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) (int, error)
}
