package collection

import (
	"context"

	"github.com/fekuna/penstore/internal/collection/dto"
	"github.com/fekuna/penstore/internal/model"
)

type Repository interface {
	Create(ctx context.Context, collection *model.Collection) error
	FindByID(ctx context.Context, id string) (*model.Collection, error)
	FindBySlug(ctx context.Context, slug string) (*model.Collection, error)
	FindByIDs(ctx context.Context, ids []string) (map[string]*model.Collection, error)
	FindAll(ctx context.Context, filters *dto.CollectionFilters) ([]model.Collection, int, error)
	Update(ctx context.Context, collection *model.Collection) error
	Delete(ctx context.Context, id string) error

	IsSlugUnique(ctx context.Context, slug, excludeID string) (bool, error)
	CountProducts(ctx context.Context, id string) (int, error)
}
