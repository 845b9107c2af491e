package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fekuna/penstore/internal/model"
	"github.com/fekuna/penstore/internal/stock"
	"github.com/fekuna/penstore/internal/stock/dto"
	"github.com/fekuna/penstore/pkg/cache"
	"github.com/fekuna/penstore/pkg/logger"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	lockAttempts = 3
	lockBackoff  = 100 * time.Millisecond
	lockTTL      = 5 * time.Second

	referenceOrder = "order"
	systemActor    = "system"
)

type stockUseCase struct {
	repo   stock.Repository
	cache  *cache.RedisClient
	logger logger.ZapLogger
}

// NewStockUseCase builds the use case. Without a redis client no distributed
// lock is taken.
func NewStockUseCase(repo stock.Repository, cache *cache.RedisClient, log logger.ZapLogger) stock.UseCase {
	return &stockUseCase{
		repo:   repo,
		cache:  cache,
		logger: log,
	}
}

func (uc *stockUseCase) AdjustStock(ctx context.Context, input *dto.AdjustStockInput) (*model.StockMovement, error) {
	if input.ProductID == "" {
		return nil, errors.Wrap(model.ErrInvalid, "product is required")
	}
	if input.Change == 0 {
		return nil, errors.Wrap(model.ErrInvalid, "change must not be zero")
	}

	release, err := uc.lock(ctx, []string{input.ProductID})
	if err != nil {
		return nil, err
	}
	defer release()

	var createdBy *string
	if input.UserID != "" {
		createdBy = &input.UserID
	}
	movements := []model.StockMovement{{
		ID:             uuid.New().String(),
		ProductID:      input.ProductID,
		MovementType:   model.MovementAdjustment,
		QuantityChange: input.Change,
		Notes:          strings.TrimSpace(input.Reason),
		CreatedBy:      createdBy,
		CreatedAt:      time.Now().UTC(),
	}}
	if err := uc.repo.ApplyMovements(ctx, movements); err != nil {
		return nil, err
	}

	m := movements[0]
	uc.logger.Info("stock adjusted",
		zap.String("product_id", m.ProductID),
		zap.Int("change", m.QuantityChange),
		zap.Int("quantity_after", m.QuantityAfter),
	)
	go uc.invalidateCache(context.Background())
	return &m, nil
}

func (uc *stockUseCase) ApplyOrder(ctx context.Context, event *model.OrderEvent) error {
	var (
		movementType string
		sign         int
	)
	switch event.EventType {
	case model.EventOrderConfirmed:
		movementType, sign = model.MovementReserve, -1
	case model.EventOrderCancelled:
		movementType, sign = model.MovementRelease, 1
	default:
		return nil
	}

	order := event.Payload
	if len(order.Items) == 0 {
		return nil
	}

	productIDs := make([]string, 0, len(order.Items))
	for _, item := range order.Items {
		productIDs = append(productIDs, item.ProductID)
	}
	release, err := uc.lock(ctx, productIDs)
	if err != nil {
		return err
	}
	defer release()

	done, err := uc.repo.HasMovement(ctx, order.ID, movementType)
	if err != nil {
		return err
	}
	if done {
		uc.logger.Info("order already applied to stock",
			zap.String("order_id", order.ID),
			zap.String("movement_type", movementType),
		)
		return nil
	}
	if movementType == model.MovementRelease {
		// only orders that reserved stock give it back
		reserved, err := uc.repo.HasMovement(ctx, order.ID, model.MovementReserve)
		if err != nil {
			return err
		}
		if !reserved {
			return nil
		}
	}

	now := time.Now().UTC()
	refType := referenceOrder
	refID := order.ID
	actor := systemActor
	movements := make([]model.StockMovement, 0, len(order.Items))
	for _, item := range order.Items {
		movements = append(movements, model.StockMovement{
			ID:             uuid.New().String(),
			ProductID:      item.ProductID,
			MovementType:   movementType,
			QuantityChange: sign * item.Quantity,
			ReferenceType:  &refType,
			ReferenceID:    &refID,
			Notes:          fmt.Sprintf("order %s", order.OrderNumber),
			CreatedBy:      &actor,
			CreatedAt:      now,
		})
	}
	if err := uc.repo.ApplyMovements(ctx, movements); err != nil {
		return err
	}

	uc.logger.Info("order applied to stock",
		zap.String("order_id", order.ID),
		zap.String("order_number", order.OrderNumber),
		zap.String("movement_type", movementType),
		zap.Int("lines", len(movements)),
	)
	go uc.invalidateCache(context.Background())
	return nil
}

func (uc *stockUseCase) ListMovements(ctx context.Context, filters *dto.MovementFilters) (*model.Page[model.StockMovement], error) {
	f := *filters
	opts := model.QueryOptions{Limit: f.PageSize, Page: f.Page}.Normalize(50, 200, "-createdAt")
	f.Page, f.PageSize = opts.Page, opts.Limit

	items, count, err := uc.repo.ListMovements(ctx, &f)
	if err != nil {
		return nil, err
	}
	return model.NewPage(items, count, f.Page, f.PageSize), nil
}

// lock takes one redis lock per product in sorted order so concurrent
// multi-line orders cannot deadlock each other.
func (uc *stockUseCase) lock(ctx context.Context, productIDs []string) (func(), error) {
	if uc.cache == nil {
		return func() {}, nil
	}

	ids := append([]string(nil), productIDs...)
	sort.Strings(ids)

	type held struct{ key, value string }
	var locks []held
	release := func() {
		for _, l := range locks {
			if err := uc.cache.ReleaseLock(context.Background(), l.key, l.value); err != nil {
				uc.logger.Warn("failed to release stock lock", zap.String("key", l.key), zap.Error(err))
			}
		}
	}

	for i, id := range ids {
		if i > 0 && id == ids[i-1] {
			continue
		}
		key := "lock:stock:" + id
		value := uuid.New().String()

		acquired := false
		for attempt := 0; attempt < lockAttempts; attempt++ {
			ok, err := uc.cache.AcquireLock(ctx, key, value, lockTTL)
			if err != nil {
				uc.logger.Error("failed to acquire lock redis error", zap.String("key", key), zap.Error(err))
			}
			if ok {
				acquired = true
				break
			}
			time.Sleep(lockBackoff)
		}
		if !acquired {
			release()
			return nil, errors.Wrapf(model.ErrBusy, "stock of product %s is locked", id)
		}
		locks = append(locks, held{key: key, value: value})
	}
	return release, nil
}

func (uc *stockUseCase) invalidateCache(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.DeleteByPattern(ctx, "products:*"); err != nil {
		uc.logger.Warn("failed to invalidate cache", zap.String("pattern", "products:*"), zap.Error(err))
	}
}
