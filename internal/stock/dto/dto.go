package dto

type MovementFilters struct {
	ProductID    string
	MovementType string
	ReferenceID  string
	Page         int
	PageSize     int
}
