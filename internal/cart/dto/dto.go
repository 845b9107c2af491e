package dto

import (
	"github.com/fekuna/penstore/internal/model"
	"github.com/shopspring/decimal"
)

// CartView is the cart with its derived totals.
type CartView struct {
	Items []model.CartItem `json:"items"`
	Total decimal.Decimal  `json:"total"`
	Count int              `json:"count"`
}

func NewCartView(c *model.Cart) CartView {
	items := c.Items
	if items == nil {
		items = []model.CartItem{}
	}
	return CartView{Items: items, Total: c.Total(), Count: c.Count()}
}
