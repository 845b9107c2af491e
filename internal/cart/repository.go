package cart

import (
	"context"
	"errors"

	"github.com/fekuna/penstore/internal/model"
)

// ErrCorrupt marks stored cart data that cannot be decoded.
var ErrCorrupt = errors.New("corrupt cart data")

// Store persists carts by key. Get returns an empty cart for unknown keys.
type Store interface {
	Get(ctx context.Context, key string) (*model.Cart, error)
	Put(ctx context.Context, key string, cart *model.Cart) error
	Delete(ctx context.Context, key string) error
}
