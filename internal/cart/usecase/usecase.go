package usecase

import (
	"context"
	"strings"

	"github.com/fekuna/penstore/internal/cart"
	"github.com/fekuna/penstore/internal/cart/dto"
	"github.com/fekuna/penstore/internal/model"
	"github.com/fekuna/penstore/internal/order"
	orderdto "github.com/fekuna/penstore/internal/order/dto"
	"github.com/fekuna/penstore/internal/product"
	"github.com/fekuna/penstore/pkg/logger"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type cartUseCase struct {
	store    cart.Store
	products product.Repository
	orders   order.UseCase
	logger   logger.ZapLogger
}

func NewCartUseCase(store cart.Store, products product.Repository, orders order.UseCase, log logger.ZapLogger) cart.UseCase {
	return &cartUseCase{
		store:    store,
		products: products,
		orders:   orders,
		logger:   log,
	}
}

func (uc *cartUseCase) GetCart(ctx context.Context, key string) (*model.Cart, error) {
	return uc.load(ctx, key)
}

func (uc *cartUseCase) AddItem(ctx context.Context, key string, input *dto.AddItemInput) (*model.Cart, error) {
	productID := strings.TrimSpace(input.ProductID)
	if productID == "" {
		return nil, errors.Wrap(model.ErrMissingFields, "product_id")
	}
	p, err := uc.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, errors.Wrapf(model.ErrNotFound, "product %s", productID)
	}

	c, err := uc.load(ctx, key)
	if err != nil {
		return nil, err
	}
	c.Add(productID, snapshot(p))
	if input.Quantity > 1 {
		for _, item := range c.Items {
			if item.ProductID == productID {
				c.UpdateQuantity(productID, item.Quantity+input.Quantity-1)
				break
			}
		}
	}
	return uc.save(ctx, key, c)
}

func (uc *cartUseCase) RemoveItem(ctx context.Context, key, productID string) (*model.Cart, error) {
	c, err := uc.load(ctx, key)
	if err != nil {
		return nil, err
	}
	c.Remove(productID)
	return uc.save(ctx, key, c)
}

func (uc *cartUseCase) UpdateQuantity(ctx context.Context, key, productID string, quantity int) (*model.Cart, error) {
	c, err := uc.load(ctx, key)
	if err != nil {
		return nil, err
	}
	c.UpdateQuantity(productID, quantity)
	return uc.save(ctx, key, c)
}

func (uc *cartUseCase) ClearCart(ctx context.Context, key string) error {
	if strings.TrimSpace(key) == "" {
		return errors.Wrap(model.ErrMissingFields, "cart id")
	}
	return uc.store.Delete(ctx, key)
}

func (uc *cartUseCase) Checkout(ctx context.Context, key string, input *dto.CheckoutInput) (*model.Order, error) {
	c, err := uc.load(ctx, key)
	if err != nil {
		return nil, err
	}

	items := make([]orderdto.OrderItemInput, 0, len(c.Items))
	for _, item := range c.Items {
		items = append(items, orderdto.OrderItemInput{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	o, err := uc.orders.CreateOrder(ctx, &orderdto.CreateOrderInput{
		CustomerName: input.CustomerName,
		Email:        input.Email,
		Phone:        input.Phone,
		Company:      input.Company,
		Notes:        input.Notes,
		Items:        items,
	})
	if err != nil {
		return nil, err
	}

	if err := uc.store.Delete(ctx, key); err != nil {
		uc.logger.Warn("order placed but cart was not cleared",
			zap.String("order_number", o.OrderNumber),
			zap.Error(err),
		)
	}
	return o, nil
}

// load replaces undecodable carts with an empty one.
func (uc *cartUseCase) load(ctx context.Context, key string) (*model.Cart, error) {
	if strings.TrimSpace(key) == "" {
		return nil, errors.Wrap(model.ErrMissingFields, "cart id")
	}
	c, err := uc.store.Get(ctx, key)
	if errors.Is(err, cart.ErrCorrupt) {
		uc.logger.Warn("Failed to load cart, starting empty", zap.String("cart", key), zap.Error(err))
		return &model.Cart{}, nil
	}
	return c, err
}

// save drops empty carts from the store instead of writing them.
func (uc *cartUseCase) save(ctx context.Context, key string, c *model.Cart) (*model.Cart, error) {
	var err error
	if len(c.Items) == 0 {
		err = uc.store.Delete(ctx, key)
	} else {
		err = uc.store.Put(ctx, key, c)
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// snapshot is the display copy kept on the cart line.
func snapshot(p *model.Product) *model.Product {
	return &model.Product{
		BaseModel:   model.BaseModel{ID: p.ID},
		Name:        p.Name,
		Slug:        p.Slug,
		SKU:         p.SKU,
		Price:       p.Price,
		HeroImageID: p.HeroImageID,
		Stock:       p.Stock,
	}
}
