package search

// Result is one page returned by the backend.
type Result[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	PageNumber    int   `json:"pageNumber"`
	PageSize      int   `json:"pageSize"`
	First         bool  `json:"first"`
	Last          bool  `json:"last"` // no rows exist beyond this page
	Empty         bool  `json:"empty"`
}
