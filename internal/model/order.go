package model

import "github.com/shopspring/decimal"

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderConfirmed  OrderStatus = "confirmed"
	OrderProcessing OrderStatus = "processing"
	OrderCompleted  OrderStatus = "completed"
	OrderCancelled  OrderStatus = "cancelled"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:    {OrderConfirmed, OrderCancelled},
	OrderConfirmed:  {OrderProcessing, OrderCancelled},
	OrderProcessing: {OrderCompleted, OrderCancelled},
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderProcessing, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether an order in s may move to next.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// HoldsStock is true once the order has reserved stock.
func (s OrderStatus) HoldsStock() bool {
	return s == OrderConfirmed || s == OrderProcessing
}

type Order struct {
	BaseModel
	OrderNumber  string          `db:"order_number" json:"order_number"`
	CustomerName string          `db:"customer_name" json:"customer_name"`
	Email        string          `db:"email" json:"email"`
	Phone        string          `db:"phone" json:"phone"`
	Company      string          `db:"company" json:"company,omitempty"`
	TotalAmount  decimal.Decimal `db:"total_amount" json:"total_amount"`
	Status       OrderStatus     `db:"status" json:"status"`
	Notes        string          `db:"notes" json:"notes,omitempty"`
	AdminNotes   string          `db:"admin_notes" json:"admin_notes,omitempty"`
	Items        []OrderItem     `db:"-" json:"items"`
}

// OrderItem captures the price when the order was placed.
type OrderItem struct {
	OrderID     string          `db:"order_id" json:"-"`
	Position    int             `db:"position" json:"position"`
	ProductID   string          `db:"product_id" json:"product_id"`
	Quantity    int             `db:"quantity" json:"quantity"`
	PriceAtTime decimal.Decimal `db:"price_at_time" json:"price_at_time"`
	Product     *Product        `db:"-" json:"product,omitempty"`
}

// LineTotal is price at time multiplied by quantity.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.PriceAtTime.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
