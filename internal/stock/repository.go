package stock

import (
	"context"

	"github.com/fekuna/penstore/internal/model"
	"github.com/fekuna/penstore/internal/stock/dto"
)

type Repository interface {
	// ApplyMovements changes product stock and records each movement in one
	// transaction. QuantityBefore and QuantityAfter are filled in.
	ApplyMovements(ctx context.Context, movements []model.StockMovement) error
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error)
	HasMovement(ctx context.Context, referenceID, movementType string) (bool, error)
}
