package dto

type OrderFilters struct {
	Status   string `json:"status,omitempty"`
	Email    string `json:"email,omitempty"`
	SortBy   string `json:"sort_by,omitempty"` // created_at, total_amount, order_number, status
	Desc     bool   `json:"desc,omitempty"`
	Page     int    `json:"page,omitempty"`
	PageSize int    `json:"page_size,omitempty"`
}
