package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"gridsearch/internal/domain/search"
	"gridsearch/internal/infrastructure/cache"
	"gridsearch/internal/infrastructure/http/v1/dto"
)

// BackendChecker checks that the search backend answers.
type BackendChecker interface {
	FetchFieldDescriptors(ctx context.Context, tech search.Technology) ([]search.FieldDescriptor, error)
}

// HealthHandler provides health check endpoints.
type HealthHandler struct {
	backend BackendChecker
	tech    search.Technology
	timeout time.Duration
	stats   func() cache.CacheStats
	version string
}

// HealthConfig configures HealthHandler.
type HealthConfig struct {
	Backend    BackendChecker
	Technology search.Technology
	// Timeout bounds the readiness check. Defaults to 3s.
	Timeout    time.Duration
	CacheStats func() cache.CacheStats
	Version    string
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(cfg HealthConfig) *HealthHandler {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 3 * time.Second
	}
	return &HealthHandler{
		backend: cfg.Backend,
		tech:    cfg.Technology,
		timeout: cfg.Timeout,
		stats:   cfg.CacheStats,
		version: cfg.Version,
	}
}

// Live handles liveness check (is the process alive?).
// GET /health/live
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HealthResponse{Status: "ok"})
}

// Ready handles readiness check: the backend descriptor endpoint must answer.
// GET /health/ready
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	if _, err := h.backend.FetchFieldDescriptors(ctx, h.tech); err != nil {
		c.JSON(http.StatusServiceUnavailable, dto.HealthResponse{
			Status: "error",
			Checks: map[string]string{"search_backend": "unhealthy: " + err.Error()},
		})
		return
	}

	c.JSON(http.StatusOK, dto.HealthResponse{
		Status: "ok",
		Checks: map[string]string{"search_backend": "healthy"},
	})
}

// Info returns application information.
// GET /health/info
func (h *HealthHandler) Info(c *gin.Context) {
	body := gin.H{
		"app":     "gridsearch",
		"version": h.version,
	}
	if h.stats != nil {
		s := h.stats()
		body["descriptor_cache"] = gin.H{
			"entries":      s.Entries,
			"descriptors":  s.Descriptors,
			"hits":         s.Hits,
			"misses":       s.Misses,
			"technologies": s.Technologies,
		}
	}
	c.JSON(http.StatusOK, body)
}
