package usecase

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/fekuna/penstore/internal/model"
	"github.com/fekuna/penstore/internal/order"
	"github.com/fekuna/penstore/internal/order/dto"
	"github.com/fekuna/penstore/internal/order/repository"
	productrepo "github.com/fekuna/penstore/internal/product/repository"
	"github.com/fekuna/penstore/internal/testutil"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu     sync.Mutex
	events []*model.OrderEvent
}

func (r *recorder) Publish(_ context.Context, event *model.OrderEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.EventType
	}
	return out
}

type fixture struct {
	uc        *orderUseCase
	db        *sqlx.DB
	published *recorder
	pen       *model.Product
	ink       *model.Product
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	rec := &recorder{}
	uc := NewOrderUseCase(repository.NewPGRepository(db), productrepo.NewPGRepository(db), rec, "", testutil.Logger(t)).(*orderUseCase)

	c := testutil.InsertCollection(t, db, "Meisterstück", "meisterstuck", true)
	return &fixture{
		uc:        uc,
		db:        db,
		published: rec,
		pen:       testutil.InsertProduct(t, db, testutil.ProductFixture{Name: "149", Slug: "149", CollectionID: c.ID, Price: "1110"}),
		ink:       testutil.InsertProduct(t, db, testutil.ProductFixture{Name: "Ink Bottle", Slug: "ink-bottle", CollectionID: c.ID, Price: "25.50"}),
	}
}

func (f *fixture) input() *dto.CreateOrderInput {
	return &dto.CreateOrderInput{
		CustomerName: "Ada Lovelace",
		Email:        "ada@example.com",
		Phone:        "+44 20 7946 0000",
		Notes:        "Gift wrap please",
		Items: []dto.OrderItemInput{
			{ProductID: f.pen.ID, Quantity: 1},
			{ProductID: f.ink.ID, Quantity: 2},
		},
	}
}

func TestGenerateOrderNumber(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	n := GenerateOrderNumber("MB", now)
	assert.Regexp(t, regexp.MustCompile(`^MB-LOYW3V28-[0-9A-Z]{4}$`), n)
}

func TestCreateOrderSnapshotsPrices(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	o, err := f.uc.CreateOrder(ctx, f.input())
	require.NoError(t, err)
	assert.Equal(t, model.OrderPending, o.Status)
	assert.Regexp(t, `^MB-[0-9A-Z]+-[0-9A-Z]{4}$`, o.OrderNumber)
	assert.True(t, decimal.RequireFromString("1161").Equal(o.TotalAmount), o.TotalAmount.String())
	require.Len(t, o.Items, 2)
	assert.Equal(t, 1, o.Items[1].Position)

	// later price changes leave the order untouched
	_, err = f.db.Exec(`UPDATE products SET price = 2000 WHERE id = ?`, f.pen.ID)
	require.NoError(t, err)

	got, err := f.uc.GetOrderByNumber(ctx, o.OrderNumber)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, decimal.RequireFromString("1110").Equal(got.Items[0].PriceAtTime))
	assert.True(t, decimal.RequireFromString("1161").Equal(got.TotalAmount))
	require.NotNil(t, got.Items[0].Product)
	assert.Equal(t, "149", got.Items[0].Product.Name)

	assert.Equal(t, []string{model.EventOrderCreated}, f.published.types())
	assert.Equal(t, 2, f.published.events[0].Payload.Items[1].Quantity)
}

func TestCreateOrderValidation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*dto.CreateOrderInput)
		want   error
	}{
		{"missing name", func(in *dto.CreateOrderInput) { in.CustomerName = "" }, model.ErrMissingFields},
		{"missing email", func(in *dto.CreateOrderInput) { in.Email = " " }, model.ErrMissingFields},
		{"missing phone", func(in *dto.CreateOrderInput) { in.Phone = "" }, model.ErrMissingFields},
		{"no items", func(in *dto.CreateOrderInput) { in.Items = nil }, model.ErrMissingFields},
		{"short name", func(in *dto.CreateOrderInput) { in.CustomerName = "A" }, model.ErrInvalid},
		{"bad email", func(in *dto.CreateOrderInput) { in.Email = "ada-at-example" }, model.ErrInvalid},
		{"short phone", func(in *dto.CreateOrderInput) { in.Phone = "12345" }, model.ErrInvalid},
		{"zero quantity", func(in *dto.CreateOrderInput) { in.Items[0].Quantity = 0 }, model.ErrInvalid},
		{"unknown product", func(in *dto.CreateOrderInput) { in.Items[1].ProductID = "missing" }, model.ErrInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := f.input()
			tt.mutate(in)
			_, err := f.uc.CreateOrder(ctx, in)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Empty(t, f.published.events)
}

func TestCreateOrderRetriesNumberCollision(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	numbers := []string{"MB-DUP-0000", "MB-DUP-0000", "MB-NEW-0001"}
	f.uc.newNumber = func(string, time.Time) string {
		n := numbers[0]
		numbers = numbers[1:]
		return n
	}

	first, err := f.uc.CreateOrder(ctx, f.input())
	require.NoError(t, err)
	assert.Equal(t, "MB-DUP-0000", first.OrderNumber)

	second, err := f.uc.CreateOrder(ctx, f.input())
	require.NoError(t, err)
	assert.Equal(t, "MB-NEW-0001", second.OrderNumber)

	f.uc.newNumber = func(string, time.Time) string { return "MB-DUP-0000" }
	_, err = f.uc.CreateOrder(ctx, f.input())
	require.Error(t, err)
}

func TestUpdateOrderTransitions(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	o, err := f.uc.CreateOrder(ctx, f.input())
	require.NoError(t, err)

	status := func(s model.OrderStatus) *model.OrderStatus { return &s }
	notes := "called customer"

	_, err = f.uc.UpdateOrder(ctx, &dto.UpdateOrderInput{ID: o.ID, Status: status(model.OrderCompleted)})
	assert.ErrorIs(t, err, model.ErrInvalidTransition)

	_, err = f.uc.UpdateOrder(ctx, &dto.UpdateOrderInput{ID: o.ID, Status: status("shipped")})
	assert.ErrorIs(t, err, model.ErrInvalid)

	got, err := f.uc.UpdateOrder(ctx, &dto.UpdateOrderInput{ID: o.ID, Status: status(model.OrderConfirmed), AdminNotes: &notes})
	require.NoError(t, err)
	assert.Equal(t, model.OrderConfirmed, got.Status)
	assert.Equal(t, notes, got.AdminNotes)

	// same status only touches notes
	more := "deposit received"
	got, err = f.uc.UpdateOrder(ctx, &dto.UpdateOrderInput{ID: o.ID, Status: status(model.OrderConfirmed), AdminNotes: &more})
	require.NoError(t, err)
	assert.Equal(t, more, got.AdminNotes)

	_, err = f.uc.UpdateOrder(ctx, &dto.UpdateOrderInput{ID: o.ID, Status: status(model.OrderCancelled)})
	require.NoError(t, err)

	_, err = f.uc.UpdateOrder(ctx, &dto.UpdateOrderInput{ID: o.ID, Status: status(model.OrderPending)})
	assert.ErrorIs(t, err, model.ErrInvalidTransition)

	assert.Equal(t, []string{model.EventOrderCreated, model.EventOrderConfirmed, model.EventOrderCancelled}, f.published.types())

	_, err = f.uc.UpdateOrder(ctx, &dto.UpdateOrderInput{ID: "missing"})
	assert.ErrorIs(t, err, model.ErrNotFound)
}

// interleavedRepo runs a competing write just before the first Update lands.
type interleavedRepo struct {
	order.Repository
	before func()
}

func (r *interleavedRepo) Update(ctx context.Context, o *model.Order, previous model.OrderStatus) error {
	if r.before != nil {
		before := r.before
		r.before = nil
		before()
	}
	return r.Repository.Update(ctx, o, previous)
}

func TestUpdateOrderRejectsStaleStatus(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	o, err := f.uc.CreateOrder(ctx, f.input())
	require.NoError(t, err)

	base := f.uc.repo
	f.uc.repo = &interleavedRepo{Repository: base, before: func() {
		other := *o
		other.Status = model.OrderCancelled
		other.UpdatedAt = time.Now().UTC()
		require.NoError(t, base.Update(ctx, &other, model.OrderPending))
	}}

	confirmed := model.OrderConfirmed
	_, err = f.uc.UpdateOrder(ctx, &dto.UpdateOrderInput{ID: o.ID, Status: &confirmed})
	assert.ErrorIs(t, err, model.ErrConflict)

	got, err := f.uc.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderCancelled, got.Status)
	assert.Equal(t, []string{model.EventOrderCreated}, f.published.types())
}

func TestConcurrentTransitionsFromPending(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	for round := 0; round < 20; round++ {
		o, err := f.uc.CreateOrder(ctx, f.input())
		require.NoError(t, err)

		var wg sync.WaitGroup
		errs := make(map[model.OrderStatus]error, 2)
		var mu sync.Mutex
		for _, next := range []model.OrderStatus{model.OrderConfirmed, model.OrderCancelled} {
			wg.Add(1)
			go func(next model.OrderStatus) {
				defer wg.Done()
				_, err := f.uc.UpdateOrder(ctx, &dto.UpdateOrderInput{ID: o.ID, Status: &next})
				mu.Lock()
				errs[next] = err
				mu.Unlock()
			}(next)
		}
		wg.Wait()

		got, err := f.uc.GetOrder(ctx, o.ID)
		require.NoError(t, err)
		confirmErr, cancelErr := errs[model.OrderConfirmed], errs[model.OrderCancelled]
		switch {
		case confirmErr == nil && cancelErr == nil:
			// confirm landed first, then a legal cancel
			assert.Equal(t, model.OrderCancelled, got.Status)
		case confirmErr == nil:
			assert.Equal(t, model.OrderConfirmed, got.Status)
			assert.True(t, errors.Is(cancelErr, model.ErrConflict) || errors.Is(cancelErr, model.ErrInvalidTransition), cancelErr)
		case cancelErr == nil:
			assert.Equal(t, model.OrderCancelled, got.Status)
			assert.True(t, errors.Is(confirmErr, model.ErrConflict) || errors.Is(confirmErr, model.ErrInvalidTransition), confirmErr)
		default:
			t.Fatalf("both transitions failed: %v / %v", confirmErr, cancelErr)
		}
	}
}

func TestCancelPendingOrderPublishesNothing(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	o, err := f.uc.CreateOrder(ctx, f.input())
	require.NoError(t, err)

	cancelled := model.OrderCancelled
	_, err = f.uc.UpdateOrder(ctx, &dto.UpdateOrderInput{ID: o.ID, Status: &cancelled})
	require.NoError(t, err)
	assert.Equal(t, []string{model.EventOrderCreated}, f.published.types())
}

func TestListOrders(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := f.uc.CreateOrder(ctx, f.input())
		require.NoError(t, err)
	}

	page, err := f.uc.ListOrders(ctx, &dto.OrderFilters{Status: "pending"}, model.QueryOptions{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, page.TotalDocs)
	assert.Len(t, page.Docs, 2)
	assert.True(t, page.HasNextPage)
	assert.Len(t, page.Docs[0].Items, 2)

	page, err = f.uc.ListOrders(ctx, &dto.OrderFilters{Status: "confirmed"}, model.QueryOptions{})
	require.NoError(t, err)
	assert.Equal(t, 0, page.TotalDocs)

	_, err = f.uc.ListOrders(ctx, &dto.OrderFilters{Status: "lost"}, model.QueryOptions{})
	assert.ErrorIs(t, err, model.ErrInvalid)
}
