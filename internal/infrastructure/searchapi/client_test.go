package searchapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"gridsearch/internal/core/apperror"
	appctx "gridsearch/internal/core/context"
	"gridsearch/internal/domain/search"
	"gridsearch/pkg/logger"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client[search.OperatingSystem] {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New[search.OperatingSystem](Config{
		BaseURL:    srv.URL + "/",
		Propagator: propagation.TraceContext{},
	}, logger.Nop())
}

func TestSearch_PostsQueryAndDecodesResult(t *testing.T) {
	var gotPath, gotMethod, gotContentType string
	var gotBody map[string]any

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotMethod, gotContentType = r.URL.Path, r.Method, r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"content": [{"id": 7, "name": "Ubuntu", "version": "22.04", "kernel": "Linux", "releaseDate": "2022-04-21", "usages": 1200}],
			"totalElements": 41, "totalPages": 3, "pageNumber": 2, "pageSize": 20,
			"first": false, "last": true, "empty": false
		}`)
	})

	query := search.Query{
		Sorts: []search.SortSpec{{Key: "name", Direction: search.Asc}},
		Page:  &search.PageSpec{Number: 2, Size: 20},
	}
	result, err := client.Search(context.Background(), query, search.JPA)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/api/operating-systems/jpa/search", gotPath)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, []any{}, gotBody["filters"])
	assert.NotContains(t, gotBody, "fullText")

	assert.True(t, result.Last)
	assert.Equal(t, int64(41), result.TotalElements)
	require.Len(t, result.Content, 1)
	assert.Equal(t, "Ubuntu", result.Content[0].Name)
	assert.Equal(t, int64(1200), result.Content[0].Usages)
}

func TestSearch_SingleBackendHasNoSegment(t *testing.T) {
	var gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = io.WriteString(w, `{"content":[],"last":true,"empty":true}`)
	})

	_, err := client.Search(context.Background(), search.Query{}, search.TechnologyNone)
	require.NoError(t, err)
	assert.Equal(t, "/api/operating-systems/search", gotPath)
}

func TestSearch_ErrorStatusIsTransportError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"index unavailable"}`, http.StatusInternalServerError)
	})

	_, err := client.Search(context.Background(), search.Query{}, search.Elastic)

	require.Error(t, err)
	assert.True(t, apperror.IsTransport(err))
	appErr, _ := apperror.AsAppError(err)
	assert.Equal(t, http.StatusInternalServerError, appErr.Details["status"])
	assert.Equal(t, http.MethodPost, appErr.Details["method"])
	assert.Contains(t, appErr.Details["url"], "/elastic/search")
	assert.Contains(t, appErr.Details["body"], "index unavailable")
}

func TestSearch_MalformedBodyIsDecodeError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"content": [`)
	})

	_, err := client.Search(context.Background(), search.Query{}, search.Mongo)

	assert.True(t, apperror.IsDecode(err))
}

func TestSearch_NetworkFailureIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := New[search.OperatingSystem](Config{BaseURL: url, Timeout: time.Second}, logger.Nop())
	_, err := client.Search(context.Background(), search.Query{}, search.JPA)

	require.Error(t, err)
	assert.True(t, apperror.IsTransport(err))
	appErr, _ := apperror.AsAppError(err)
	assert.Equal(t, 0, appErr.Details["status"])
	assert.NotNil(t, appErr.Unwrap())
}

func TestSearch_InvalidTechnologyFailsBeforeIO(t *testing.T) {
	called := false
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	_, err := client.Search(context.Background(), search.Query{}, search.Technology("../admin"))

	assert.True(t, apperror.IsValidation(err))
	assert.False(t, called)
}

func TestSearch_InvalidQueryFailsBeforeIO(t *testing.T) {
	called := false
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	_, err := client.Search(context.Background(), search.Query{
		Filters: []search.FilterCondition{{Key: "releaseDate", Operator: search.Between, Value: "2023-01-01"}},
		Page:    &search.PageSpec{Number: 0, Size: 0},
	}, search.JPA)

	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
	assert.Contains(t, err.Error(), "requires value and valueTo")
	assert.Contains(t, err.Error(), "page size")
	assert.False(t, called)
}

func TestFetchFieldDescriptors(t *testing.T) {
	var gotPath, gotMethod string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotMethod = r.URL.Path, r.Method
		_, _ = io.WriteString(w, `[
			{"key":"name","fieldType":"string","nullable":false,"availableOperators":["equals","contains"]},
			{"key":"usages","fieldType":"number","nullable":true,"availableOperators":["between"]}
		]`)
	})

	descs, err := client.FetchFieldDescriptors(context.Background(), search.Mongo)
	require.NoError(t, err)

	assert.Equal(t, http.MethodGet, gotMethod)
	assert.Equal(t, "/api/operating-systems/mongo/filters", gotPath)
	require.Len(t, descs, 2)
	assert.Equal(t, search.FieldString, descs[0].FieldType)
	assert.Equal(t, []search.Operator{search.Between}, descs[1].AvailableOperators)
	assert.True(t, descs[1].Nullable)
}

func TestClient_PropagatesRequestAndTraceHeaders(t *testing.T) {
	var headers http.Header
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		headers = r.Header.Clone()
		_, _ = io.WriteString(w, `[]`)
	})

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))
	ctx = appctx.WithTrace(ctx, &appctx.TraceContext{TraceID: "t-1", RequestID: "req-42"})

	_, err := client.FetchFieldDescriptors(ctx, search.JPA)
	require.NoError(t, err)

	assert.Equal(t, "req-42", headers.Get(HeaderRequestID))
	assert.Contains(t, headers.Get("traceparent"), "4bf92f3577b34da6a3ce929d0e0e4736")
}

func TestURL_NormalizesSlashes(t *testing.T) {
	client := New[search.OperatingSystem](Config{BaseURL: "http://backend:8080/", ResourcePath: "api/os/"}, logger.Nop())

	assert.Equal(t, "http://backend:8080/api/os/jpa/filters", client.URL(search.JPA, "filters"))
	assert.Equal(t, "http://backend:8080/api/os/search", client.URL(search.TechnologyNone, "search"))
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "short", Excerpt([]byte("short"), 10))
	assert.Equal(t, "abc...", Excerpt([]byte("abcdef"), 3))

	cut := Excerpt([]byte("aé"), 2)
	assert.Equal(t, "a...", cut)
	assert.True(t, strings.HasSuffix(Excerpt([]byte(strings.Repeat("x", 600)), bodyExcerptLimit), "..."))
}
