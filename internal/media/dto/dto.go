package dto

type MediaFilters struct {
	MissingBlur bool
	Page        int
	PageSize    int
}

type BackfillFailure struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// BackfillReport summarizes one placeholder backfill run.
type BackfillReport struct {
	Total    int               `json:"total"`
	Success  int               `json:"success"`
	Skipped  int               `json:"skipped"`
	Failed   int               `json:"failed"`
	Failures []BackfillFailure `json:"failures,omitempty"`
}
