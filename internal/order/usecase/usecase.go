package usecase

import (
	"context"
	"crypto/rand"
	"math/big"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/fekuna/penstore/internal/model"
	"github.com/fekuna/penstore/internal/order"
	"github.com/fekuna/penstore/internal/order/dto"
	"github.com/fekuna/penstore/internal/product"
	productdto "github.com/fekuna/penstore/internal/product/dto"
	"github.com/fekuna/penstore/pkg/database"
	"github.com/fekuna/penstore/pkg/logger"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	maxNumberAttempts = 3
	minNameLength     = 2
	minPhoneLength    = 10
	base36            = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

var sortKeys = map[string]string{
	"createdAt":   "created_at",
	"totalAmount": "total_amount",
	"orderNumber": "order_number",
	"status":      "status",
}

type orderUseCase struct {
	repo      order.Repository
	products  product.Repository
	publisher order.EventPublisher
	prefix    string
	newNumber func(prefix string, now time.Time) string
	logger    logger.ZapLogger
}

// NewOrderUseCase builds the use case; publisher may be nil.
func NewOrderUseCase(repo order.Repository, products product.Repository, publisher order.EventPublisher, numberPrefix string, log logger.ZapLogger) order.UseCase {
	if numberPrefix == "" {
		numberPrefix = "MB"
	}
	return &orderUseCase{
		repo:      repo,
		products:  products,
		publisher: publisher,
		prefix:    numberPrefix,
		newNumber: GenerateOrderNumber,
		logger:    log,
	}
}

// GenerateOrderNumber returns PREFIX-<base36 ms timestamp>-<4 random base36>,
// upper case, e.g. MB-LZ3K9Q2A-7F1X.
func GenerateOrderNumber(prefix string, now time.Time) string {
	ts := strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36))
	suffix := make([]byte, 4)
	for i := range suffix {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(base36))))
		if err != nil {
			n = big.NewInt(now.UnixNano() % int64(len(base36)))
		}
		suffix[i] = base36[n.Int64()]
	}
	return prefix + "-" + ts + "-" + string(suffix)
}

func (uc *orderUseCase) CreateOrder(ctx context.Context, input *dto.CreateOrderInput) (*model.Order, error) {
	name := strings.TrimSpace(input.CustomerName)
	email := strings.TrimSpace(input.Email)
	phone := strings.TrimSpace(input.Phone)
	if name == "" || email == "" || phone == "" || len(input.Items) == 0 {
		return nil, model.ErrMissingFields
	}
	if len([]rune(name)) < minNameLength {
		return nil, errors.Wrapf(model.ErrInvalid, "name must be at least %d characters", minNameLength)
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return nil, errors.Wrapf(model.ErrInvalid, "email %q is not valid", email)
	}
	if len(phone) < minPhoneLength {
		return nil, errors.Wrapf(model.ErrInvalid, "phone must be at least %d characters", minPhoneLength)
	}

	items, err := uc.snapshotItems(ctx, input.Items)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	o := &model.Order{
		BaseModel:    model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		CustomerName: name,
		Email:        email,
		Phone:        phone,
		Company:      strings.TrimSpace(input.Company),
		Status:       model.OrderPending,
		Notes:        strings.TrimSpace(input.Notes),
		Items:        items,
	}
	for _, item := range items {
		o.TotalAmount = o.TotalAmount.Add(item.LineTotal())
	}

	for attempt := 1; ; attempt++ {
		o.OrderNumber = uc.newNumber(uc.prefix, now)
		err = uc.repo.Create(ctx, o)
		if err == nil {
			break
		}
		if !database.IsUniqueViolation(err) || attempt == maxNumberAttempts {
			return nil, errors.Wrap(err, "create order")
		}
		uc.logger.Warn("order number collision, retrying",
			zap.String("order_number", o.OrderNumber),
			zap.Int("attempt", attempt),
		)
	}

	uc.logger.Info("order created",
		zap.String("id", o.ID),
		zap.String("order_number", o.OrderNumber),
		zap.String("total", o.TotalAmount.StringFixed(2)),
		zap.Int("lines", len(o.Items)),
	)
	uc.publish(ctx, model.EventOrderCreated, o)
	return o, nil
}

// snapshotItems validates the lines and captures each product's current price.
func (uc *orderUseCase) snapshotItems(ctx context.Context, lines []dto.OrderItemInput) ([]model.OrderItem, error) {
	ids := make([]string, 0, len(lines))
	for i, line := range lines {
		if strings.TrimSpace(line.ProductID) == "" {
			return nil, errors.Wrapf(model.ErrInvalid, "item %d has no product", i+1)
		}
		if line.Quantity < 1 {
			return nil, errors.Wrapf(model.ErrInvalid, "item %d quantity must be at least 1", i+1)
		}
		ids = append(ids, strings.TrimSpace(line.ProductID))
	}

	found, _, err := uc.products.FindAll(ctx, &productdto.ProductFilters{IDs: ids})
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*model.Product, len(found))
	for i := range found {
		byID[found[i].ID] = &found[i]
	}

	items := make([]model.OrderItem, 0, len(lines))
	for i, id := range ids {
		p := byID[id]
		if p == nil {
			return nil, errors.Wrapf(model.ErrInvalid, "product %s does not exist", id)
		}
		items = append(items, model.OrderItem{
			ProductID:   id,
			Quantity:    lines[i].Quantity,
			PriceAtTime: p.Price,
			Product:     summary(p),
		})
	}
	return items, nil
}

// GetOrderByNumber returns nil without error when the number is unknown.
func (uc *orderUseCase) GetOrderByNumber(ctx context.Context, number string) (*model.Order, error) {
	o, err := uc.repo.FindByNumber(ctx, strings.TrimSpace(number))
	if err != nil || o == nil {
		return nil, err
	}
	if err := uc.attachProducts(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (uc *orderUseCase) ListOrders(ctx context.Context, filters *dto.OrderFilters, opts model.QueryOptions) (*model.Page[model.Order], error) {
	if filters == nil {
		filters = &dto.OrderFilters{}
	}
	opts = opts.Normalize(20, 100, "-createdAt")

	f := *filters
	if f.Status != "" && !model.OrderStatus(f.Status).Valid() {
		return nil, errors.Wrapf(model.ErrInvalid, "unknown status %q", f.Status)
	}
	field, desc := opts.SortField()
	if col, ok := sortKeys[field]; ok {
		f.SortBy, f.Desc = col, desc
	} else {
		f.SortBy, f.Desc = "created_at", true
	}
	f.Page, f.PageSize = opts.Page, opts.Limit

	orders, count, err := uc.repo.FindAll(ctx, &f)
	if err != nil {
		return nil, err
	}
	return model.NewPage(orders, count, opts.Page, opts.Limit), nil
}

func (uc *orderUseCase) GetOrder(ctx context.Context, id string) (*model.Order, error) {
	o, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, errors.Wrapf(model.ErrNotFound, "order %s", id)
	}
	if err := uc.attachProducts(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (uc *orderUseCase) UpdateOrder(ctx context.Context, input *dto.UpdateOrderInput) (*model.Order, error) {
	o, err := uc.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, errors.Wrapf(model.ErrNotFound, "order %s", input.ID)
	}

	previous := o.Status
	if input.Status != nil && *input.Status != o.Status {
		next := *input.Status
		if !next.Valid() {
			return nil, errors.Wrapf(model.ErrInvalid, "unknown status %q", next)
		}
		if !o.Status.CanTransitionTo(next) {
			return nil, errors.Wrapf(model.ErrInvalidTransition, "%s -> %s", o.Status, next)
		}
		o.Status = next
	}
	if input.AdminNotes != nil {
		o.AdminNotes = strings.TrimSpace(*input.AdminNotes)
	}
	o.UpdatedAt = time.Now().UTC()

	if err := uc.repo.Update(ctx, o, previous); err != nil {
		return nil, err
	}
	uc.logger.Info("order updated",
		zap.String("order_number", o.OrderNumber),
		zap.String("from", string(previous)),
		zap.String("to", string(o.Status)),
	)

	switch {
	case o.Status == previous:
	case o.Status == model.OrderConfirmed:
		uc.publish(ctx, model.EventOrderConfirmed, o)
	case o.Status == model.OrderCancelled && previous.HoldsStock():
		uc.publish(ctx, model.EventOrderCancelled, o)
	}

	if err := uc.attachProducts(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// attachProducts fills item product summaries from the catalog.
func (uc *orderUseCase) attachProducts(ctx context.Context, o *model.Order) error {
	ids := make([]string, 0, len(o.Items))
	for _, item := range o.Items {
		ids = append(ids, item.ProductID)
	}
	if len(ids) == 0 {
		return nil
	}

	found, _, err := uc.products.FindAll(ctx, &productdto.ProductFilters{IDs: ids})
	if err != nil {
		return err
	}
	byID := make(map[string]*model.Product, len(found))
	for i := range found {
		byID[found[i].ID] = &found[i]
	}
	for i := range o.Items {
		if p := byID[o.Items[i].ProductID]; p != nil {
			o.Items[i].Product = summary(p)
		}
	}
	return nil
}

// publish never fails the caller; delivery problems are logged.
func (uc *orderUseCase) publish(ctx context.Context, eventType string, o *model.Order) {
	if uc.publisher == nil {
		return
	}
	event := &model.OrderEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Payload: model.OrderEventPayload{
			ID:          o.ID,
			OrderNumber: o.OrderNumber,
			Status:      o.Status,
			Items:       make([]model.OrderEventItemPayload, 0, len(o.Items)),
		},
		Timestamp: time.Now().UTC(),
	}
	for _, item := range o.Items {
		event.Payload.Items = append(event.Payload.Items, model.OrderEventItemPayload{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.logger.Error("failed to publish order event",
			zap.String("event_type", eventType),
			zap.String("order_number", o.OrderNumber),
			zap.Error(err),
		)
	}
}

// summary keeps the fields an order view needs.
func summary(p *model.Product) *model.Product {
	return &model.Product{
		BaseModel: model.BaseModel{ID: p.ID},
		Name:      p.Name,
		Slug:      p.Slug,
		SKU:       p.SKU,
		Price:     p.Price,
	}
}
