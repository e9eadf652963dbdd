package services

const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Pagination is the metadata returned with every paged list.
type Pagination struct {
	TotalResults int64 `json:"totalResults"`
	Page         int   `json:"page"`
	PageSize     int   `json:"pageSize"`
	TotalPages   int   `json:"totalPages"`
}

// NewPagination computes pagination metadata. TotalPages is never below 1 so
// clients always have a valid page to show.
func NewPagination(page, pageSize int, totalResults int64) Pagination {
	page, pageSize = normalizePage(page, pageSize)

	totalPages := int((totalResults + int64(pageSize) - 1) / int64(pageSize))
	if totalPages < 1 {
		totalPages = 1
	}

	return Pagination{
		TotalResults: totalResults,
		Page:         page,
		PageSize:     pageSize,
		TotalPages:   totalPages,
	}
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if pageSize < 1 || pageSize > MaxPageSize {
		pageSize = DefaultPageSize
	}
	return page, pageSize
}

// beyondLastPage reports whether page starts after the last of total results.
// Callers must check it before computing an offset, which would overflow for huge pages.
func beyondLastPage(page, pageSize int, total int64) bool {
	return int64(page-1) >= (total+int64(pageSize)-1)/int64(pageSize)
}

func offset(page, pageSize int) int {
	return (page - 1) * pageSize
}
