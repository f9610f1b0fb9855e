package dto

// PageQuery represents pagination and sorting query parameters
type PageQuery struct {
	PageNumber int    `form:"pageNumber" binding:"omitempty,min=1"`
	PageSize   int    `form:"pageSize" binding:"omitempty,min=1,max=100"`
	SortBy     string `form:"sortBy"`
	SortOrder  string `form:"sortOrder" binding:"omitempty,oneof=ASC DESC"`
}

// Normalize fills in defaults for unset pagination parameters.
func (q *PageQuery) Normalize() {
	if q.PageNumber == 0 {
		q.PageNumber = 1
	}
	if q.PageSize == 0 {
		q.PageSize = 10
	}
	if q.SortBy == "" {
		q.SortBy = "createdAt"
	}
	if q.SortOrder == "" {
		q.SortOrder = "ASC"
	}
}

// Offset returns the number of records to skip for the current page.
func (q *PageQuery) Offset() int {
	return (q.PageNumber - 1) * q.PageSize
}

// Page represents one page of results with pagination metadata
type Page[T any] struct {
	Data        []T   `json:"data"`
	TotalCount  int64 `json:"totalCount"`
	CurrentPage int   `json:"currentPage"`
	PageSize    int   `json:"pageSize"`
	TotalPages  int   `json:"totalPages"`
}

// NewPage builds a Page from items and a total count.
func NewPage[T any](data []T, totalCount int64, pageNumber, pageSize int) *Page[T] {
	totalPages := int((totalCount + int64(pageSize) - 1) / int64(pageSize))
	return &Page[T]{
		Data:        data,
		TotalCount:  totalCount,
		CurrentPage: pageNumber,
		PageSize:    pageSize,
		TotalPages:  totalPages,
	}
}
