package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzhttp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gridsearch/internal/domain/datasource"
	"gridsearch/internal/domain/search"
	"gridsearch/internal/infrastructure/cache"
	"gridsearch/internal/infrastructure/http/v1/handlers"
	"gridsearch/internal/infrastructure/http/v1/middleware"
	"gridsearch/internal/infrastructure/metrics"
	"gridsearch/internal/metadata"
	"gridsearch/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	// Logger for request logging
	Logger *logger.Logger

	// Factory builds a data source per rows request
	Factory *datasource.Factory[search.OperatingSystem]

	// Descriptors serves (cached) field descriptors
	Descriptors *cache.DescriptorCache

	// Backend is asked by the readiness endpoint; usually the search client itself
	Backend handlers.BackendChecker

	// Technologies accepted in ?technology=, first is default
	Technologies []search.Technology

	// Metrics is optional; Gatherer defaults to the global registry
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer

	Version string
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	if cfg.Metrics != nil {
		router.Use(middleware.Metrics(cfg.Metrics))
	}
	router.Use(middleware.ErrorHandler())

	healthHandler := handlers.NewHealthHandler(handlers.HealthConfig{
		Backend:    cfg.Backend,
		Technology: defaultTechnology(cfg.Technologies),
		CacheStats: cfg.Descriptors.GetStats,
		Version:    cfg.Version,
	})
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	gatherer := cfg.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	base := handlers.NewBaseHandler(cfg.Technologies)
	v1 := router.Group("/api/v1")
	{
		RegisterGridRoutes(v1.Group("/grid"),
			handlers.NewMetadataHandler(base, cfg.Descriptors, metadata.Inspect(search.OperatingSystem{}, "operating-systems")),
			handlers.NewGridHandler(base, cfg.Factory),
		)
	}

	return router
}

// NewHandler wraps the router with response compression for clients sending Accept-Encoding: gzip.
func NewHandler(cfg RouterConfig) http.Handler {
	return gzhttp.GzipHandler(NewRouter(cfg))
}

func defaultTechnology(techs []search.Technology) search.Technology {
	if len(techs) == 0 {
		return search.TechnologyNone
	}
	return techs[0]
}
