package dto

type AddItemInput struct {
	ProductID string `json:"product_id"`
	// Quantity defaults to 1.
	Quantity int `json:"quantity"`
}

type UpdateQuantityInput struct {
	Quantity int `json:"quantity"`
}

type CheckoutInput struct {
	CustomerName string `json:"customer_name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Company      string `json:"company"`
	Notes        string `json:"notes"`
}
