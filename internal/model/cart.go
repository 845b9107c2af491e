package model

import "github.com/shopspring/decimal"

// CartItem is one cart line. Product is a display snapshot and may be nil.
type CartItem struct {
	ProductID string   `json:"product_id"`
	Quantity  int      `json:"quantity"`
	Product   *Product `json:"product,omitempty"`
}

type Cart struct {
	Items []CartItem `json:"items"`
}

func (c *Cart) find(productID string) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// Add increments an existing line by one or appends a new line with
// quantity 1. A non-nil product refreshes the snapshot.
func (c *Cart) Add(productID string, product *Product) {
	if i := c.find(productID); i >= 0 {
		c.Items[i].Quantity++
		if product != nil {
			c.Items[i].Product = product
		}
		return
	}
	c.Items = append(c.Items, CartItem{ProductID: productID, Quantity: 1, Product: product})
}

func (c *Cart) Remove(productID string) {
	if i := c.find(productID); i >= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
	}
}

// UpdateQuantity sets the line quantity; zero or less removes the line.
// Unknown products are ignored.
func (c *Cart) UpdateQuantity(productID string, quantity int) {
	if quantity <= 0 {
		c.Remove(productID)
		return
	}
	if i := c.find(productID); i >= 0 {
		c.Items[i].Quantity = quantity
	}
}

func (c *Cart) Clear() {
	c.Items = nil
}

// Total sums price times quantity; lines without a snapshot count as zero.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		if item.Product == nil {
			continue
		}
		total = total.Add(item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

func (c *Cart) Count() int {
	n := 0
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}

// Normalize drops lines that break the quantity >= 1 rule, e.g. after
// loading hand-edited storage.
func (c *Cart) Normalize() {
	kept := c.Items[:0]
	for _, item := range c.Items {
		if item.ProductID != "" && item.Quantity >= 1 {
			kept = append(kept, item)
		}
	}
	c.Items = kept
}
