package model

import "strings"

// MaxDepth is the deepest relationship expansion: a product's collection and
// that collection's hero image.
const MaxDepth = 2

// QueryOptions are the paging and ordering knobs shared by list use cases.
// Sort is a field name, prefixed with "-" for descending (e.g. "-createdAt").
// Depth 0 means MaxDepth.
type QueryOptions struct {
	Limit int
	Page  int
	Sort  string
	Depth int
}

// Normalize applies defaults and clamps the limit to maxLimit when maxLimit > 0.
func (o QueryOptions) Normalize(defaultLimit, maxLimit int, defaultSort string) QueryOptions {
	if o.Limit <= 0 {
		o.Limit = defaultLimit
	}
	if maxLimit > 0 && o.Limit > maxLimit {
		o.Limit = maxLimit
	}
	if o.Page < 1 {
		o.Page = 1
	}
	if strings.TrimSpace(o.Sort) == "" {
		o.Sort = defaultSort
	}
	if o.Depth <= 0 || o.Depth > MaxDepth {
		o.Depth = MaxDepth
	}
	return o
}

func (o QueryOptions) Offset() int {
	return (o.Page - 1) * o.Limit
}

// SortField splits Sort into the field name and direction.
func (o QueryOptions) SortField() (field string, desc bool) {
	s := strings.TrimSpace(o.Sort)
	if strings.HasPrefix(s, "-") {
		return s[1:], true
	}
	return s, false
}
