package dto

import (
	"gridsearch/internal/domain/grid"
	"gridsearch/internal/domain/search"
	"gridsearch/internal/metadata"
)

// RowsRequest is one row-window request from a browser grid.
type RowsRequest struct {
	StartRow    int                  `json:"startRow"`
	EndRow      int                  `json:"endRow"`
	SortModel   []grid.SortModelItem `json:"sortModel"`
	FilterModel grid.FilterModel     `json:"filterModel"`
	FullText    string               `json:"fullText"`
}

// ToGrid drops the full-text part, which selects the data source instead.
func (r RowsRequest) ToGrid() grid.RowsRequest {
	return grid.RowsRequest{
		StartRow:    r.StartRow,
		EndRow:      r.EndRow,
		SortModel:   r.SortModel,
		FilterModel: r.FilterModel,
	}
}

// RowsResponse answers a RowsRequest. LastRow is -1 while the end of data is unknown.
type RowsResponse[T any] struct {
	Rows           []T   `json:"rows"`
	LastRow        int   `json:"lastRow"`
	ResponseTimeMs int64 `json:"responseTimeMs"`
}

// ColumnsResponse lists the filterable fields of a technology, the row fields
// and the grid columns built from both.
type ColumnsResponse struct {
	Technology  search.Technology        `json:"technology"`
	Descriptors []search.FieldDescriptor `json:"descriptors"`
	Fields      []metadata.FieldDef      `json:"fields"`
	Columns     []grid.ColumnDef         `json:"columns"`
}

// RefreshResponse lists the technologies whose cached descriptors were dropped.
type RefreshResponse struct {
	Invalidated []search.Technology `json:"invalidated"`
}

// TechnologiesResponse lists the selectable backends.
type TechnologiesResponse struct {
	Technologies []search.Technology `json:"technologies"`
	Default      search.Technology   `json:"default"`
}
