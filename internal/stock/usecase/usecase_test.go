package usecase

import (
	"context"
	"testing"

	"github.com/fekuna/penstore/internal/model"
	"github.com/fekuna/penstore/internal/stock"
	"github.com/fekuna/penstore/internal/stock/dto"
	"github.com/fekuna/penstore/internal/stock/repository"
	"github.com/fekuna/penstore/internal/testutil"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (stock.UseCase, *sqlx.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	return NewStockUseCase(repository.NewPGRepository(db), nil, testutil.Logger(t)), db
}

func stockOf(t *testing.T, db *sqlx.DB, productID string) int {
	t.Helper()
	var n int
	require.NoError(t, db.Get(&n, `SELECT stock FROM products WHERE id = ?`, productID))
	return n
}

func TestAdjustStock(t *testing.T) {
	uc, db := setup(t)
	ctx := context.Background()
	c := testutil.InsertCollection(t, db, "Heritage", "heritage", false)
	p := testutil.InsertProduct(t, db, testutil.ProductFixture{Name: "Rouge et Noir", Slug: "rouge-et-noir", CollectionID: c.ID, Stock: 2})

	m, err := uc.AdjustStock(ctx, &dto.AdjustStockInput{ProductID: p.ID, Change: 5, Reason: " restock ", UserID: "admin-1"})
	require.NoError(t, err)
	assert.Equal(t, 2, m.QuantityBefore)
	assert.Equal(t, 7, m.QuantityAfter)
	assert.Equal(t, "restock", m.Notes)
	assert.Equal(t, model.MovementAdjustment, m.MovementType)
	assert.Equal(t, 7, stockOf(t, db, p.ID))

	_, err = uc.AdjustStock(ctx, &dto.AdjustStockInput{ProductID: p.ID, Change: -8})
	assert.ErrorIs(t, err, model.ErrInsufficientStock)
	assert.Equal(t, 7, stockOf(t, db, p.ID))

	_, err = uc.AdjustStock(ctx, &dto.AdjustStockInput{ProductID: p.ID})
	assert.ErrorIs(t, err, model.ErrInvalid)

	_, err = uc.AdjustStock(ctx, &dto.AdjustStockInput{ProductID: "missing", Change: 1})
	assert.ErrorIs(t, err, model.ErrNotFound)

	page, err := uc.ListMovements(ctx, &dto.MovementFilters{ProductID: p.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, page.TotalDocs)
	assert.Equal(t, 50, page.Limit)
}

func orderEvent(eventType, orderID string, items ...model.OrderEventItemPayload) *model.OrderEvent {
	return &model.OrderEvent{
		EventID:   "evt-" + orderID,
		EventType: eventType,
		Payload: model.OrderEventPayload{
			ID:          orderID,
			OrderNumber: "MB-TEST-" + orderID,
			Items:       items,
		},
	}
}

func TestApplyOrderReserveAndRelease(t *testing.T) {
	uc, db := setup(t)
	ctx := context.Background()
	c := testutil.InsertCollection(t, db, "Heritage", "heritage", false)
	a := testutil.InsertProduct(t, db, testutil.ProductFixture{Name: "A", Slug: "a", CollectionID: c.ID, Stock: 5})
	b := testutil.InsertProduct(t, db, testutil.ProductFixture{Name: "B", Slug: "b", CollectionID: c.ID, Stock: 1})
	items := []model.OrderEventItemPayload{{ProductID: a.ID, Quantity: 2}, {ProductID: b.ID, Quantity: 1}}

	require.NoError(t, uc.ApplyOrder(ctx, orderEvent(model.EventOrderConfirmed, "o1", items...)))
	assert.Equal(t, 3, stockOf(t, db, a.ID))
	assert.Equal(t, 0, stockOf(t, db, b.ID))

	// replayed event is ignored
	require.NoError(t, uc.ApplyOrder(ctx, orderEvent(model.EventOrderConfirmed, "o1", items...)))
	assert.Equal(t, 3, stockOf(t, db, a.ID))

	require.NoError(t, uc.ApplyOrder(ctx, orderEvent(model.EventOrderCancelled, "o1", items...)))
	assert.Equal(t, 5, stockOf(t, db, a.ID))
	assert.Equal(t, 1, stockOf(t, db, b.ID))

	page, err := uc.ListMovements(ctx, &dto.MovementFilters{ReferenceID: "o1"})
	require.NoError(t, err)
	assert.Equal(t, 4, page.TotalDocs)
}

func TestApplyOrderIsAtomic(t *testing.T) {
	uc, db := setup(t)
	ctx := context.Background()
	c := testutil.InsertCollection(t, db, "Heritage", "heritage", false)
	a := testutil.InsertProduct(t, db, testutil.ProductFixture{Name: "A", Slug: "a", CollectionID: c.ID, Stock: 5})
	b := testutil.InsertProduct(t, db, testutil.ProductFixture{Name: "B", Slug: "b", CollectionID: c.ID, Stock: 1})

	err := uc.ApplyOrder(ctx, orderEvent(model.EventOrderConfirmed, "o2",
		model.OrderEventItemPayload{ProductID: a.ID, Quantity: 2},
		model.OrderEventItemPayload{ProductID: b.ID, Quantity: 3},
	))
	assert.ErrorIs(t, err, model.ErrInsufficientStock)
	assert.Equal(t, 5, stockOf(t, db, a.ID))
	assert.Equal(t, 1, stockOf(t, db, b.ID))
}

func TestApplyOrderIgnoresUnreservedCancellation(t *testing.T) {
	uc, db := setup(t)
	ctx := context.Background()
	c := testutil.InsertCollection(t, db, "Heritage", "heritage", false)
	a := testutil.InsertProduct(t, db, testutil.ProductFixture{Name: "A", Slug: "a", CollectionID: c.ID, Stock: 5})
	item := model.OrderEventItemPayload{ProductID: a.ID, Quantity: 2}

	require.NoError(t, uc.ApplyOrder(ctx, orderEvent(model.EventOrderCancelled, "o3", item)))
	require.NoError(t, uc.ApplyOrder(ctx, orderEvent(model.EventOrderCreated, "o3", item)))
	assert.Equal(t, 5, stockOf(t, db, a.ID))
}
