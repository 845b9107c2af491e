package dto

import "github.com/fekuna/penstore/internal/model"

type OrderItemInput struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// CreateOrderInput is the checkout form. Prices are never taken from the
// client; they are read from the catalog when the order is placed.
type CreateOrderInput struct {
	CustomerName string           `json:"customer_name"`
	Email        string           `json:"email"`
	Phone        string           `json:"phone"`
	Company      string           `json:"company"`
	Notes        string           `json:"notes"`
	Items        []OrderItemInput `json:"items"`
}

// UpdateOrderInput changes status and admin notes; nil fields are left alone.
type UpdateOrderInput struct {
	ID         string             `json:"-"`
	Status     *model.OrderStatus `json:"status"`
	AdminNotes *string            `json:"admin_notes"`
}
