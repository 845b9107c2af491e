package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func priced(id, price string) *Product {
	return &Product{BaseModel: BaseModel{ID: id}, Price: decimal.RequireFromString(price)}
}

func TestCartAdd(t *testing.T) {
	var c Cart
	c.Add("a", priced("a", "100"))
	c.Add("b", nil)
	c.Add("a", nil)

	require.Len(t, c.Items, 2)
	assert.Equal(t, 2, c.Items[0].Quantity)
	assert.NotNil(t, c.Items[0].Product, "nil product keeps the old snapshot")
	assert.Equal(t, 1, c.Items[1].Quantity)

	c.Add("a", priced("a", "120"))
	assert.Equal(t, 3, c.Items[0].Quantity)
	assert.Equal(t, "120", c.Items[0].Product.Price.String())
}

func TestCartUpdateQuantityAndRemove(t *testing.T) {
	var c Cart
	c.Add("a", nil)
	c.Add("b", nil)

	c.UpdateQuantity("a", 5)
	assert.Equal(t, 5, c.Items[0].Quantity)

	c.UpdateQuantity("missing", 3)
	assert.Len(t, c.Items, 2)

	c.UpdateQuantity("a", 0)
	require.Len(t, c.Items, 1)
	assert.Equal(t, "b", c.Items[0].ProductID)

	c.UpdateQuantity("b", -2)
	assert.Empty(t, c.Items)

	c.Add("c", nil)
	c.Remove("c")
	c.Remove("c")
	assert.Empty(t, c.Items)
}

func TestCartTotals(t *testing.T) {
	var c Cart
	c.Add("a", priced("a", "615.50"))
	c.Add("a", nil)
	c.Add("b", priced("b", "25"))
	c.Add("c", nil)

	assert.True(t, decimal.RequireFromString("1256").Equal(c.Total()), c.Total().String())
	assert.Equal(t, 4, c.Count())

	c.Clear()
	assert.True(t, c.Total().IsZero())
	assert.Equal(t, 0, c.Count())
}

func TestCartNormalize(t *testing.T) {
	c := Cart{Items: []CartItem{{ProductID: "a", Quantity: 0}, {ProductID: "b", Quantity: 2}, {Quantity: 1}}}
	c.Normalize()
	require.Len(t, c.Items, 1)
	assert.Equal(t, "b", c.Items[0].ProductID)
}
