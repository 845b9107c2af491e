package model

// Page is one page of a paginated listing.
type Page[T any] struct {
	Docs        []T  `json:"docs"`
	TotalDocs   int  `json:"total_docs"`
	TotalPages  int  `json:"total_pages"`
	Page        int  `json:"page"`
	Limit       int  `json:"limit"`
	HasNextPage bool `json:"has_next_page"`
	HasPrevPage bool `json:"has_prev_page"`
}

// NewPage fills the derived counters from total, page and limit.
func NewPage[T any](docs []T, total, page, limit int) *Page[T] {
	if docs == nil {
		docs = []T{}
	}
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return &Page[T]{
		Docs:        docs,
		TotalDocs:   total,
		TotalPages:  totalPages,
		Page:        page,
		Limit:       limit,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}
}
