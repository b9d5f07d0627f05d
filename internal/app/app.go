// Package app wires the search client, descriptor cache and data source factory
// from configuration. Both binaries build on it.
package app

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"gridsearch/internal/config"
	"gridsearch/internal/domain/datasource"
	"gridsearch/internal/domain/grid"
	"gridsearch/internal/domain/search"
	"gridsearch/internal/infrastructure/cache"
	"gridsearch/internal/infrastructure/metrics"
	"gridsearch/internal/infrastructure/searchapi"
	"gridsearch/pkg/logger"
)

// App holds the wired components.
type App struct {
	Client       *searchapi.Client[search.OperatingSystem]
	Descriptors  *cache.DescriptorCache
	Translator   *grid.Translator
	Factory      *datasource.Factory[search.OperatingSystem]
	Metrics      *metrics.Metrics
	Technologies []search.Technology
}

// New builds the components. Metrics are registered on reg.
func New(cfg *config.Config, log *logger.Logger, reg prometheus.Registerer) (*App, error) {
	techs, err := cfg.Technologies()
	if err != nil {
		return nil, fmt.Errorf("technologies: %w", err)
	}

	m := metrics.New(reg)
	client := searchapi.New[search.OperatingSystem](searchapi.Config{
		BaseURL:      cfg.Backend.BaseURL,
		ResourcePath: cfg.Backend.ResourcePath,
		Timeout:      cfg.Backend.Timeout,
	}, log)

	descriptors, err := cache.NewDescriptorCache(client, cfg.Grid.DescriptorCacheSize, log)
	if err != nil {
		return nil, err
	}
	m.RegisterDescriptorCache(descriptors.GetStats)
	descriptors.OnInvalidation(m.DescriptorsInvalidated)

	translator := grid.NewTranslator(log, grid.WithDropObserver(m))
	factory := datasource.NewFactory[search.OperatingSystem](client, translator, log, datasource.Config{
		DefaultSort: cfg.Grid.DefaultSort,
		BlockSize:   cfg.Grid.BlockSize,
		Recorder:    m,
		Descriptors: descriptors,
	})

	return &App{
		Client:       client,
		Descriptors:  descriptors,
		Translator:   translator,
		Factory:      factory,
		Metrics:      m,
		Technologies: techs,
	}, nil
}

// LoggerConfig maps the log section onto logger.Config.
func LoggerConfig(cfg config.LogConfig) logger.Config {
	return logger.Config{
		Level:       cfg.Level,
		Development: cfg.Development,
		File:        cfg.File,
		Rotation: logger.RotationConfig{
			MaxSize:    cfg.Rotation.MaxSize,
			MaxBackups: cfg.Rotation.MaxBackups,
			MaxAge:     cfg.Rotation.MaxAge,
			Compress:   cfg.Rotation.Compress,
		},
	}
}
