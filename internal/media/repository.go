package media

import (
	"context"

	"github.com/fekuna/penstore/internal/media/dto"
	"github.com/fekuna/penstore/internal/model"
)

type Repository interface {
	Create(ctx context.Context, m *model.Media) error
	FindByID(ctx context.Context, id string) (*model.Media, error)
	FindByIDs(ctx context.Context, ids []string) (map[string]*model.Media, error)
	FindAll(ctx context.Context, filters *dto.MediaFilters) ([]model.Media, int, error)
	UpdateBlur(ctx context.Context, id, blurDataURL string) error
	Delete(ctx context.Context, id string) error
	// CountReferences counts product heroes, gallery entries and collection heroes using the media.
	CountReferences(ctx context.Context, id string) (int, error)
}

// Storage keeps the original files and their variants.
type Storage interface {
	Save(ctx context.Context, name string, data []byte) error
	Read(ctx context.Context, name string) ([]byte, error)
	Remove(ctx context.Context, name string) error
	URL(name string) string
}
