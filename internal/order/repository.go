package order

import (
	"context"

	"github.com/fekuna/penstore/internal/model"
	"github.com/fekuna/penstore/internal/order/dto"
)

type Repository interface {
	// Create writes the order and its items in one transaction.
	Create(ctx context.Context, order *model.Order) error
	FindByID(ctx context.Context, id string) (*model.Order, error)
	FindByNumber(ctx context.Context, number string) (*model.Order, error)
	FindAll(ctx context.Context, filters *dto.OrderFilters) ([]model.Order, int, error)
	// Update applies the change only if the stored status is still previous.
	Update(ctx context.Context, order *model.Order, previous model.OrderStatus) error
}
