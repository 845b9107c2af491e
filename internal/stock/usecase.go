package stock

import (
	"context"

	"github.com/fekuna/penstore/internal/model"
	"github.com/fekuna/penstore/internal/stock/dto"
)

type UseCase interface {
	AdjustStock(ctx context.Context, input *dto.AdjustStockInput) (*model.StockMovement, error)
	// ApplyOrder reserves stock for a confirmed order or releases it for a
	// cancelled one. Replayed events are ignored.
	ApplyOrder(ctx context.Context, event *model.OrderEvent) error
	ListMovements(ctx context.Context, filters *dto.MovementFilters) (*model.Page[model.StockMovement], error)
}
