// Package datasource adapts the search backend to a grid widget's incremental
// row model: each row-window request becomes one search.Query.
package datasource

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"gridsearch/internal/core/apperror"
	"gridsearch/internal/domain/grid"
	"gridsearch/internal/domain/search"
	"gridsearch/pkg/logger"
)

const (
	DefaultSortKey   = "name"
	DefaultBlockSize = 20
)

// Outcomes passed to Recorder.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Searcher executes one search against the backend.
type Searcher[T any] interface {
	Search(ctx context.Context, query search.Query, tech search.Technology) (search.Result[T], error)
}

// Recorder observes completed backend requests.
type Recorder interface {
	ObserveSearch(tech search.Technology, outcome string, elapsed time.Duration)
}

// DescriptorSource serves the field descriptors of a technology.
type DescriptorSource interface {
	Get(ctx context.Context, tech search.Technology) ([]search.FieldDescriptor, error)
}

// Config tunes a Factory. Zero values fall back to the defaults.
type Config struct {
	DefaultSort string
	BlockSize   int
	Recorder    Recorder

	// Descriptors, when set, supply column field types to the translator.
	Descriptors DescriptorSource
}

// Params are the inputs that select a data source. Any change calls for a new Source.
type Params struct {
	Technology search.Technology
	FullText   string
}

// Factory builds Sources sharing one client, translator and logger.
type Factory[T any] struct {
	searcher    Searcher[T]
	translator  *grid.Translator
	log         *logger.Logger
	defaultSort string
	blockSize   int
	recorder    Recorder
	descriptors DescriptorSource
}

// NewFactory creates a new Factory.
func NewFactory[T any](searcher Searcher[T], translator *grid.Translator, log *logger.Logger, cfg Config) *Factory[T] {
	f := &Factory[T]{
		searcher:    searcher,
		translator:  translator,
		log:         log.WithComponent("datasource"),
		defaultSort: cfg.DefaultSort,
		blockSize:   cfg.BlockSize,
		recorder:    cfg.Recorder,
		descriptors: cfg.Descriptors,
	}
	if f.defaultSort == "" {
		f.defaultSort = DefaultSortKey
	}
	if f.blockSize <= 0 {
		f.blockSize = DefaultBlockSize
	}
	return f
}

// New returns a fresh Source bound to p.
func (f *Factory[T]) New(p Params) *Source[T] {
	return &Source[T]{factory: f, params: p}
}

// Block is one fetched row window.
type Block[T any] struct {
	Rows    []T
	LastRow int
	Elapsed time.Duration
}

// Source serves row windows for one technology and full-text query.
// It is safe for concurrent use.
type Source[T any] struct {
	factory      *Factory[T]
	params       Params
	lastResponse atomic.Int64
}

// Params returns the inputs this source was built with.
func (s *Source[T]) Params() Params {
	return s.params
}

// LastResponseTime is the elapsed time of the most recent completed request,
// zero before the first one.
func (s *Source[T]) LastResponseTime() time.Duration {
	return time.Duration(s.lastResponse.Load())
}

// Window normalizes a row request into a zero-based page. Negative starts are
// clamped to zero and empty or inverted windows use the fallback block size.
func (s *Source[T]) Window(req grid.RowsRequest) (start int, page search.PageSpec) {
	start = max(req.StartRow, 0)
	size := req.EndRow - start
	if size <= 0 {
		size = s.factory.blockSize
	}
	return start, search.PageSpec{Number: start / size, Size: size}
}

// BuildQuery assembles the search.Query for req.
func (s *Source[T]) BuildQuery(ctx context.Context, req grid.RowsRequest) search.Query {
	_, page := s.Window(req)
	q := search.Query{
		Filters: s.factory.translator.TranslateAll(ctx, req.FilterModel, s.fieldTypes(ctx, req.FilterModel)),
		Sorts:   s.sorts(ctx, req.SortModel),
		Page:    &page,
	}
	if text := strings.TrimSpace(s.params.FullText); text != "" {
		q.FullText = &search.FullText{Query: text}
	}
	return q
}

// fieldTypes looks up column types for a non-empty filter model. A lookup
// failure only costs type-driven normalization, so it is logged and ignored.
func (s *Source[T]) fieldTypes(ctx context.Context, model grid.FilterModel) grid.FieldTypes {
	if s.factory.descriptors == nil || len(model) == 0 {
		return nil
	}
	descs, err := s.factory.descriptors.Get(ctx, s.params.Technology)
	if err != nil {
		s.factory.log.WithContext(ctx).Warnw("field types unavailable",
			"technology", s.params.Technology, "error", err)
		return nil
	}
	return grid.FieldTypesOf(descs)
}

func (s *Source[T]) sorts(ctx context.Context, model []grid.SortModelItem) []search.SortSpec {
	sorts := make([]search.SortSpec, 0, len(model))
	for _, item := range model {
		dir, err := search.ParseDirection(item.Sort)
		if err != nil || item.ColID == "" {
			s.factory.log.WithContext(ctx).Warnw("sort entry ignored", "col_id", item.ColID, "sort", item.Sort)
			continue
		}
		sorts = append(sorts, search.SortSpec{Key: item.ColID, Direction: dir})
	}
	if len(sorts) == 0 {
		sorts = append(sorts, search.SortSpec{Key: s.factory.defaultSort, Direction: search.Asc})
	}
	return sorts
}

// Fetch runs one backend search for req.
func (s *Source[T]) Fetch(ctx context.Context, req grid.RowsRequest) (Block[T], error) {
	start, _ := s.Window(req)
	query := s.BuildQuery(ctx, req)
	log := s.factory.log.WithContext(ctx).With("technology", s.params.Technology)

	begin := time.Now()
	result, err := s.factory.searcher.Search(ctx, query, s.params.Technology)
	elapsed := time.Since(begin)
	s.lastResponse.Store(int64(elapsed))

	if err != nil {
		s.observe(OutcomeError, elapsed)
		logFailure := log.Errorw
		if apperror.IsValidation(err) {
			logFailure = log.Warnw
		}
		logFailure("row window fetch failed",
			"start_row", start,
			"end_row", req.EndRow,
			"elapsed_ms", elapsed.Milliseconds(),
			"error", err,
		)
		return Block[T]{Elapsed: elapsed}, err
	}
	s.observe(OutcomeSuccess, elapsed)

	rows := result.Content
	if rows == nil {
		rows = []T{}
	}
	block := Block[T]{
		Rows:    rows,
		LastRow: LastRow(start, len(rows), result.Last),
		Elapsed: elapsed,
	}
	log.Debugw("row window fetched",
		"start_row", start,
		"rows", len(rows),
		"last_row", block.LastRow,
		"elapsed_ms", elapsed.Milliseconds(),
	)
	return block, nil
}

// GetRows is the callback form of Fetch. Exactly one of cb.Success or cb.Fail is called.
func (s *Source[T]) GetRows(ctx context.Context, req grid.RowsRequest, cb grid.RowsCallback[T]) {
	block, err := s.Fetch(ctx, req)
	if err != nil {
		cb.Fail(err)
		return
	}
	cb.Success(block.Rows, block.LastRow)
}

func (s *Source[T]) observe(outcome string, elapsed time.Duration) {
	if s.factory.recorder != nil {
		s.factory.recorder.ObserveSearch(s.params.Technology, outcome, elapsed)
	}
}

// LastRow is start+count once the backend reports the final page, grid.UnknownLastRow otherwise.
func LastRow(start, count int, last bool) int {
	if last {
		return start + count
	}
	return grid.UnknownLastRow
}
