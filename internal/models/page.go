package models

// Page is the pagination envelope shared by every listing endpoint.
type Page[T any] struct {
	Docs        []T   `json:"data"`
	Count       int64 `json:"count"`
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	TotalPages  int   `json:"totalPages"`
	HasPrevPage bool  `json:"hasPrevPage"`
	HasNextPage bool  `json:"hasNextPage"`
	PrevPage    *int  `json:"prevPage"`
	NextPage    *int  `json:"nextPage"`
}

// NewPage computes the page metadata for docs out of total matches.
func NewPage[T any](docs []T, total int64, page, limit int) *Page[T] {
	if docs == nil {
		docs = []T{}
	}
	if limit <= 0 {
		limit = 1
	}
	if page <= 0 {
		page = 1
	}
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	if totalPages == 0 {
		totalPages = 1
	}
	p := &Page[T]{
		Docs:        docs,
		Count:       total,
		Page:        page,
		Limit:       limit,
		TotalPages:  totalPages,
		HasPrevPage: page > 1,
		HasNextPage: page < totalPages,
	}
	if p.HasPrevPage {
		prev := page - 1
		p.PrevPage = &prev
	}
	if p.HasNextPage {
		next := page + 1
		p.NextPage = &next
	}
	return p
}
