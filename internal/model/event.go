package model

import "time"

const (
	EventOrderCreated   = "OrderCreated"
	EventOrderConfirmed = "OrderConfirmed"
	EventOrderCancelled = "OrderCancelled"
)

type OrderEvent struct {
	EventID   string            `json:"event_id"`
	EventType string            `json:"event_type"`
	Payload   OrderEventPayload `json:"payload"`
	Timestamp time.Time         `json:"timestamp"`
}

type OrderEventPayload struct {
	ID          string                  `json:"id"`
	OrderNumber string                  `json:"order_number"`
	Status      OrderStatus             `json:"status"`
	Items       []OrderEventItemPayload `json:"items"`
}

type OrderEventItemPayload struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}
