package dto

type AdjustStockInput struct {
	ProductID string `json:"-"`
	Change    int    `json:"change"`
	Reason    string `json:"reason"`
	UserID    string `json:"-"`
}
