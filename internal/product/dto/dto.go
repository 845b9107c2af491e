package dto

import "github.com/shopspring/decimal"

// ProductFilters are the storefront filters plus the paging the repository needs.
// Zero values mean "no filter".
type ProductFilters struct {
	CollectionSlug string           `json:"collection,omitempty"`
	CollectionID   string           `json:"collection_id,omitempty"`
	NibSize        string           `json:"nib_size,omitempty"`
	TrimColor      string           `json:"trim_color,omitempty"`
	MinPrice       *decimal.Decimal `json:"min_price,omitempty"`
	MaxPrice       *decimal.Decimal `json:"max_price,omitempty"`
	Featured       *bool            `json:"featured,omitempty"`
	ExcludeID      string           `json:"exclude_id,omitempty"`
	SearchQuery    string           `json:"q,omitempty"`
	IDs            []string         `json:"ids,omitempty"`

	SortBy   string `json:"sort_by,omitempty"` // name, price, created_at, updated_at, stock
	Desc     bool   `json:"desc,omitempty"`
	Page     int    `json:"page,omitempty"`
	PageSize int    `json:"page_size,omitempty"`
}
