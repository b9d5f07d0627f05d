package grid

// UnknownLastRow tells the widget the end of data has not been reached yet.
const UnknownLastRow = -1

// SortModelItem is one sorted column as the widget reports it, in priority order.
type SortModelItem struct {
	ColID string `json:"colId"`
	Sort  string `json:"sort"`
}

// RowsRequest asks for rows [StartRow, EndRow).
type RowsRequest struct {
	StartRow    int             `json:"startRow"`
	EndRow      int             `json:"endRow"`
	SortModel   []SortModelItem `json:"sortModel"`
	FilterModel FilterModel     `json:"filterModel"`
}

// RowsCallback receives the outcome of one row-window request. Exactly one of
// Success or Fail is called.
type RowsCallback[T any] interface {
	// Success hands over the rows. lastRow is the total row count once the end
	// of data is known, UnknownLastRow otherwise.
	Success(rows []T, lastRow int)
	Fail(err error)
}

// CallbackFuncs adapts two functions to RowsCallback.
type CallbackFuncs[T any] struct {
	OnSuccess func(rows []T, lastRow int)
	OnFail    func(err error)
}

func (c CallbackFuncs[T]) Success(rows []T, lastRow int) {
	if c.OnSuccess != nil {
		c.OnSuccess(rows, lastRow)
	}
}

func (c CallbackFuncs[T]) Fail(err error) {
	if c.OnFail != nil {
		c.OnFail(err)
	}
}
