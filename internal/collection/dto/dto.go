package dto

type CollectionFilters struct {
	Featured *bool
	SortBy   string // name, created_at, updated_at
	Desc     bool
	Page     int
	PageSize int
}
