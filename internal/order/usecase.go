package order

import (
	"context"

	"github.com/fekuna/penstore/internal/model"
	"github.com/fekuna/penstore/internal/order/dto"
)

type UseCase interface {
	CreateOrder(ctx context.Context, input *dto.CreateOrderInput) (*model.Order, error)
	GetOrderByNumber(ctx context.Context, number string) (*model.Order, error)

	ListOrders(ctx context.Context, filters *dto.OrderFilters, opts model.QueryOptions) (*model.Page[model.Order], error)
	GetOrder(ctx context.Context, id string) (*model.Order, error)
	UpdateOrder(ctx context.Context, input *dto.UpdateOrderInput) (*model.Order, error)
}

// EventPublisher delivers order lifecycle events.
type EventPublisher interface {
	Publish(ctx context.Context, event *model.OrderEvent) error
}
