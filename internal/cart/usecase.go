package cart

import (
	"context"

	"github.com/fekuna/penstore/internal/cart/dto"
	"github.com/fekuna/penstore/internal/model"
)

type UseCase interface {
	GetCart(ctx context.Context, key string) (*model.Cart, error)
	AddItem(ctx context.Context, key string, input *dto.AddItemInput) (*model.Cart, error)
	RemoveItem(ctx context.Context, key, productID string) (*model.Cart, error)
	UpdateQuantity(ctx context.Context, key, productID string, quantity int) (*model.Cart, error)
	ClearCart(ctx context.Context, key string) error
	// Checkout places an order from the cart lines and clears the cart.
	Checkout(ctx context.Context, key string, input *dto.CheckoutInput) (*model.Order, error)
}
