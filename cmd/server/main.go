// Package main is the entry point of the grid gateway: it serves row windows
// and column metadata to browser grids on top of the search backend.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"gridsearch/internal/app"
	"gridsearch/internal/config"
	v1 "gridsearch/internal/infrastructure/http/v1"
	"gridsearch/pkg/logger"
)

var version = "0.1.0-dev"

func main() {
	v, err := config.NewViper(getEnv("GRIDSEARCH_CONFIG", ""))
	if err != nil {
		fmt.Printf("failed to read configuration: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.Load(v)
	if err != nil {
		fmt.Printf("invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(app.LoggerConfig(cfg.Log))
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Infow("starting grid gateway",
		"version", version,
		"backend", cfg.Backend.BaseURL,
		"technologies", cfg.Backend.Technologies,
	)

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	if !cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	components, err := app.New(cfg, log, prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatalw("failed to wire components", "error", err)
	}

	handler := v1.NewHandler(v1.RouterConfig{
		Logger:       log,
		Factory:      components.Factory,
		Descriptors:  components.Descriptors,
		Backend:      components.Client,
		Technologies: components.Technologies,
		Metrics:      components.Metrics,
		Version:      version,
	})

	// --- HTTP Server ---
	port := strconv.Itoa(cfg.Server.Port)
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
