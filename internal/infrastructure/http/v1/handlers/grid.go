package handlers

import (
	"github.com/gin-gonic/gin"

	"gridsearch/internal/domain/datasource"
	"gridsearch/internal/infrastructure/http/v1/dto"
)

// GridHandler serves row windows to browser grids.
type GridHandler[T any] struct {
	*BaseHandler
	factory *datasource.Factory[T]
}

func NewGridHandler[T any](base *BaseHandler, factory *datasource.Factory[T]) *GridHandler[T] {
	return &GridHandler[T]{
		BaseHandler: base,
		factory:     factory,
	}
}

// Rows fetches one window.
// POST /api/v1/grid/rows?technology=
func (h *GridHandler[T]) Rows(c *gin.Context) {
	tech, ok := h.Technology(c)
	if !ok {
		return
	}
	var req dto.RowsRequest
	if !h.BindJSON(c, &req) {
		return
	}

	source := h.factory.New(datasource.Params{Technology: tech, FullText: req.FullText})
	source.GetRows(c.Request.Context(), req.ToGrid(), rowsCallback[T]{h: h, c: c, source: source})
}

// rowsCallback writes the outcome of GetRows to the response.
type rowsCallback[T any] struct {
	h      *GridHandler[T]
	c      *gin.Context
	source *datasource.Source[T]
}

func (r rowsCallback[T]) Success(rows []T, lastRow int) {
	r.h.OK(r.c, dto.RowsResponse[T]{
		Rows:           rows,
		LastRow:        lastRow,
		ResponseTimeMs: r.source.LastResponseTime().Milliseconds(),
	})
}

func (r rowsCallback[T]) Fail(err error) {
	r.h.Error(r.c, err)
}
