package shared

import "math"

// DefaultPageSize mirrors the backend's fixed page size.
const DefaultPageSize = 10

// Pagination contains metadata for paginated listings.
type Pagination struct {
	Page       int
	PerPage    int
	Total      int
	TotalPages int
	HasPrev    bool
	HasNext    bool
}

// NewPagination computes pagination metadata.
func NewPagination(page, perPage, total int) Pagination {
	if perPage <= 0 {
		perPage = DefaultPageSize
	}
	if page <= 0 {
		page = 1
	}
	if total < 0 {
		total = 0
	}
	totalPages := int(math.Ceil(float64(total) / float64(perPage)))
	return Pagination{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
		HasPrev:    page > 1,
		HasNext:    page < totalPages,
	}
}

// Links returns at most width page numbers centred on the current page.
// Zero marks an elided gap next to the first or last page.
func (p Pagination) Links(width int) []int {
	if p.TotalPages <= 1 {
		return nil
	}
	if width < 3 {
		width = 3
	}
	start := p.Page - width/2
	if start < 1 {
		start = 1
	}
	end := start + width - 1
	if end > p.TotalPages {
		end = p.TotalPages
		start = end - width + 1
		if start < 1 {
			start = 1
		}
	}
	links := make([]int, 0, width+4)
	if start > 1 {
		links = append(links, 1)
		if start > 2 {
			links = append(links, 0)
		}
	}
	for i := start; i <= end; i++ {
		links = append(links, i)
	}
	if end < p.TotalPages {
		if end < p.TotalPages-1 {
			links = append(links, 0)
		}
		links = append(links, p.TotalPages)
	}
	return links
}
