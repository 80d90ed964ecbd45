package models

// Pagination pages through an in-memory list.
type Pagination struct {
	Page     int
	PageSize int
}

// Limit returns the page size, clamped to a sane range.
func (p Pagination) Limit() int {
	if p.PageSize < 1 {
		return 15
	}
	if p.PageSize > 100 {
		return 100
	}
	return p.PageSize
}

// TotalPages calculates the total number of pages.
func (p Pagination) TotalPages(total int) int {
	limit := p.Limit()
	pages := total / limit
	if total%limit > 0 {
		pages++
	}
	if pages < 1 {
		return 1
	}
	return pages
}

// Bounds returns the [start, end) slice indexes of the current page,
// clamping the page number into range.
func (p Pagination) Bounds(total int) (start, end int) {
	page := p.Page
	if page < 1 {
		page = 1
	}
	if last := p.TotalPages(total); page > last {
		page = last
	}
	start = (page - 1) * p.Limit()
	end = start + p.Limit()
	if end > total {
		end = total
	}
	if start > end {
		start = end
	}
	return start, end
}

// Paginate returns the current page of items.
func Paginate[T any](items []T, p Pagination) []T {
	start, end := p.Bounds(len(items))
	return items[start:end]
}
