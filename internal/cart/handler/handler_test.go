package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fekuna/penstore/internal/cart/dto"
	"github.com/fekuna/penstore/internal/model"
	"github.com/fekuna/penstore/internal/testutil"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryUseCase keeps carts in a map keyed by cart id.
type memoryUseCase struct {
	carts       map[string]*model.Cart
	checkoutErr error
}

func newMemoryUseCase() *memoryUseCase {
	return &memoryUseCase{carts: map[string]*model.Cart{}}
}

func (m *memoryUseCase) get(key string) *model.Cart {
	if m.carts[key] == nil {
		m.carts[key] = &model.Cart{}
	}
	return m.carts[key]
}

func (m *memoryUseCase) GetCart(_ context.Context, key string) (*model.Cart, error) {
	return m.get(key), nil
}

func (m *memoryUseCase) AddItem(_ context.Context, key string, in *dto.AddItemInput) (*model.Cart, error) {
	if in.ProductID == "" {
		return nil, model.ErrMissingFields
	}
	c := m.get(key)
	c.Add(in.ProductID, &model.Product{Name: in.ProductID, Price: decimal.NewFromInt(100)})
	return c, nil
}

func (m *memoryUseCase) RemoveItem(_ context.Context, key, productID string) (*model.Cart, error) {
	c := m.get(key)
	c.Remove(productID)
	return c, nil
}

func (m *memoryUseCase) UpdateQuantity(_ context.Context, key, productID string, quantity int) (*model.Cart, error) {
	c := m.get(key)
	c.UpdateQuantity(productID, quantity)
	return c, nil
}

func (m *memoryUseCase) ClearCart(_ context.Context, key string) error {
	delete(m.carts, key)
	return nil
}

func (m *memoryUseCase) Checkout(context.Context, string, *dto.CheckoutInput) (*model.Order, error) {
	if m.checkoutErr != nil {
		return nil, m.checkoutErr
	}
	return &model.Order{OrderNumber: "MB-TEST-0001"}, nil
}

func router(t *testing.T, uc *memoryUseCase) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	h := NewCartHandler(uc, testutil.Logger(t))
	r := gin.New()
	r.GET("/api/cart", h.Get)
	r.DELETE("/api/cart", h.Clear)
	r.POST("/api/cart/items", h.AddItem)
	r.PATCH("/api/cart/items/:productId", h.UpdateQuantity)
	r.DELETE("/api/cart/items/:productId", h.RemoveItem)
	r.POST("/api/cart/checkout", h.Checkout)
	return r
}

func do(r *gin.Engine, method, path, cartID, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if cartID != "" {
		req.Header.Set(CartHeader, cartID)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestIssuesCartIDWhenAbsent(t *testing.T) {
	r := router(t, newMemoryUseCase())

	w := do(r, http.MethodGet, "/api/cart", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(CartHeader))

	w = do(r, http.MethodGet, "/api/cart", "abc", "")
	assert.Equal(t, "abc", w.Header().Get(CartHeader))
}

func TestCartLifecycle(t *testing.T) {
	r := router(t, newMemoryUseCase())

	do(r, http.MethodPost, "/api/cart/items", "abc", `{"product_id":"p1"}`)
	do(r, http.MethodPost, "/api/cart/items", "abc", `{"product_id":"p1"}`)
	w := do(r, http.MethodPost, "/api/cart/items", "abc", `{"product_id":"p2"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var view dto.CartView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, 3, view.Count)
	assert.True(t, decimal.NewFromInt(300).Equal(view.Total))

	w = do(r, http.MethodPatch, "/api/cart/items/p1", "abc", `{"quantity":0}`)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, 1, view.Count)

	w = do(r, http.MethodDelete, "/api/cart/items/p2", "abc", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Empty(t, view.Items)

	w = do(r, http.MethodPost, "/api/cart/items", "abc", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckoutErrors(t *testing.T) {
	uc := newMemoryUseCase()
	r := router(t, uc)

	uc.checkoutErr = model.ErrMissingFields
	w := do(r, http.MethodPost, "/api/cart/checkout", "abc", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	uc.checkoutErr = errors.New("disk full")
	w = do(r, http.MethodPost, "/api/cart/checkout", "abc", `{}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to create order")

	uc.checkoutErr = nil
	w = do(r, http.MethodPost, "/api/cart/checkout", "abc", `{"customer_name":"Ada"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "MB-TEST-0001")
}
