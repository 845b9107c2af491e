package product

import (
	"context"

	"github.com/fekuna/penstore/internal/model"
	"github.com/fekuna/penstore/internal/product/dto"
)

type UseCase interface {
	ListProducts(ctx context.Context, filters *dto.ProductFilters, opts model.QueryOptions) (*model.Page[model.Product], error)
	GetProductBySlug(ctx context.Context, slug string) (*model.Product, error)
	ListFeaturedProducts(ctx context.Context, limit int) ([]model.Product, error)
	ListProductsByCollection(ctx context.Context, collectionSlug string, opts model.QueryOptions) (*model.Page[model.Product], error)
	ListRelatedProducts(ctx context.Context, productID, collectionID string, limit int) ([]model.Product, error)
	SearchProducts(ctx context.Context, query string, opts model.QueryOptions) (*model.Page[model.Product], error)

	CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error)
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) (int, error)
}
