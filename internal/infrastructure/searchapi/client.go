// Package searchapi is the HTTP client of the search backend.
package searchapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"gridsearch/internal/core/apperror"
	appctx "gridsearch/internal/core/context"
	"gridsearch/internal/domain/search"
	"gridsearch/pkg/logger"
)

var tracer = otel.Tracer("gridsearch/searchapi")

const (
	// HeaderRequestID carries the caller's request id to the backend.
	HeaderRequestID = "X-Request-ID"

	DefaultResourcePath = "/api/operating-systems"

	bodyExcerptLimit = 512
)

// Config configures a Client.
type Config struct {
	BaseURL      string
	ResourcePath string
	// Timeout bounds each request. Zero means no timeout.
	Timeout time.Duration
	// HTTPClient overrides the transport. Timeout is ignored when set.
	HTTPClient *http.Client
	// Propagator injects trace headers. Defaults to the global propagator.
	Propagator propagation.TextMapPropagator
}

// Client talks to one search resource. It keeps no state between calls.
type Client[T any] struct {
	baseURL      string
	resourcePath string
	http         *http.Client
	propagator   propagation.TextMapPropagator
	log          *logger.Logger
}

// New creates a Client for rows of type T.
func New[T any](cfg Config, log *logger.Logger) *Client[T] {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	resource := cfg.ResourcePath
	if resource == "" {
		resource = DefaultResourcePath
	}
	propagator := cfg.Propagator
	if propagator == nil {
		propagator = otel.GetTextMapPropagator()
	}
	return &Client[T]{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		resourcePath: "/" + strings.Trim(resource, "/"),
		http:         httpClient,
		propagator:   propagator,
		log:          log.WithComponent("searchapi"),
	}
}

// FetchFieldDescriptors returns the filterable fields of the resource.
func (c *Client[T]) FetchFieldDescriptors(ctx context.Context, tech search.Technology) ([]search.FieldDescriptor, error) {
	var out []search.FieldDescriptor
	if err := c.do(ctx, http.MethodGet, tech, "filters", nil, "field descriptors", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Search runs query and decodes one result page. An invalid query is rejected before any I/O.
func (c *Client[T]) Search(ctx context.Context, query search.Query, tech search.Technology) (search.Result[T], error) {
	var out search.Result[T]
	if err := query.Validate(); err != nil {
		return out, apperror.NewValidation("invalid search query").
			WithDetail("error", err.Error()).
			WithCause(err)
	}
	body, err := json.Marshal(query)
	if err != nil {
		return out, apperror.NewInternal(fmt.Errorf("encode search query: %w", err))
	}
	if err := c.do(ctx, http.MethodPost, tech, "search", body, "search result", &out); err != nil {
		return search.Result[T]{}, err
	}
	return out, nil
}

// URL returns the endpoint for tech and action.
func (c *Client[T]) URL(tech search.Technology, action string) string {
	return c.baseURL + c.resourcePath + tech.PathSegment() + "/" + action
}

func (c *Client[T]) do(ctx context.Context, method string, tech search.Technology, action string, body []byte, what string, out any) error {
	if err := tech.Validate(); err != nil {
		return apperror.NewValidation(err.Error()).WithDetail("technology", string(tech))
	}
	url := c.URL(tech, action)

	ctx, span := tracer.Start(ctx, "searchapi."+action,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.full", url),
			attribute.String("search.technology", string(tech)),
		),
	)
	defer span.End()

	err := c.exchange(ctx, method, url, body, what, out)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (c *Client[T]) exchange(ctx context.Context, method, url string, body []byte, what string, out any) error {
	log := c.log.WithContext(ctx).With("method", method, "url", url)

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return apperror.NewTransport(method, url, 0).WithCause(err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if requestID := appctx.GetRequestID(ctx); requestID != "" {
		req.Header.Set(HeaderRequestID, requestID)
	}
	c.propagator.Inject(ctx, propagation.HeaderCarrier(req.Header))

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.Warnw("search backend unreachable", "error", err)
		return apperror.NewTransport(method, url, 0).WithCause(err)
	}
	defer resp.Body.Close()

	trace.SpanFromContext(ctx).SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperror.NewTransport(method, url, resp.StatusCode).WithCause(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		excerpt := Excerpt(payload, bodyExcerptLimit)
		log.Warnw("search backend returned error status",
			"status", resp.StatusCode,
			"body", excerpt,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return apperror.NewTransport(method, url, resp.StatusCode).WithDetail("body", excerpt)
	}

	if err := json.Unmarshal(payload, out); err != nil {
		log.Warnw("search backend returned malformed payload", "error", err)
		return apperror.NewDecode(what, err).WithDetail("url", url)
	}

	log.Debugw("search backend call completed",
		"status", resp.StatusCode,
		"bytes", len(payload),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// Excerpt truncates a response body for diagnostics without splitting a rune.
func Excerpt(body []byte, limit int) string {
	if len(body) <= limit {
		return string(body)
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(body[cut]) {
		cut--
	}
	return string(body[:cut]) + "..."
}
