package repository

// Filter values accepted by list endpoints. Trending is blog-specific.
const (
	FilterNewest   = "newest"
	FilterOldest   = "oldest"
	FilterTrending = "trending"
)

// ListQuery carries pagination and filtering parameters shared by the user
// and blog list operations. Page is 1-based.
type ListQuery struct {
	Page        int
	PageSize    int
	SearchQuery string
	Filter      string
}

// Normalize applies the documented defaults: page 1, page size 10.
func (q ListQuery) Normalize() ListQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = 10
	}
	return q
}

// Offset returns how many matching rows precede the requested page.
func (q ListQuery) Offset() int {
	return (q.Page - 1) * q.PageSize
}

// Pages returns the total page count for a result set:
// ceiling(total / pageSize).
func Pages(total int64, pageSize int) int {
	if pageSize < 1 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}
