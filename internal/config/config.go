// Package config loads gateway and console settings from files, .env files and
// GRIDSEARCH_* environment variables.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"gridsearch/internal/domain/search"
)

// EnvPrefix prefixes every environment override, e.g. GRIDSEARCH_BACKEND_BASE_URL.
const EnvPrefix = "GRIDSEARCH"

type Config struct {
	Backend BackendConfig `mapstructure:"backend" yaml:"backend"`
	Grid    GridConfig    `mapstructure:"grid"    yaml:"grid"`
	Server  ServerConfig  `mapstructure:"server"  yaml:"server"`
	Log     LogConfig     `mapstructure:"log"     yaml:"log"`
}

type BackendConfig struct {
	BaseURL      string        `mapstructure:"base_url"      yaml:"base_url"`
	ResourcePath string        `mapstructure:"resource_path" yaml:"resource_path"`
	Timeout      time.Duration `mapstructure:"timeout"       yaml:"timeout"`
	Technologies []string      `mapstructure:"technologies"  yaml:"technologies"`
}

type GridConfig struct {
	DefaultSort         string `mapstructure:"default_sort"          yaml:"default_sort"`
	BlockSize           int    `mapstructure:"block_size"            yaml:"block_size"`
	DescriptorCacheSize int    `mapstructure:"descriptor_cache_size" yaml:"descriptor_cache_size"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"             yaml:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

type LogConfig struct {
	Level       string         `mapstructure:"level"       yaml:"level"`
	Development bool           `mapstructure:"development" yaml:"development"`
	File        string         `mapstructure:"file"        yaml:"file"`
	Rotation    RotationConfig `mapstructure:"rotation"    yaml:"rotation"`
}

type RotationConfig struct {
	MaxSize    int  `mapstructure:"max_size"    yaml:"max_size"`
	MaxBackups int  `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge     int  `mapstructure:"max_age"     yaml:"max_age"`
	Compress   bool `mapstructure:"compress"    yaml:"compress"`
}

// SetDefaults registers every key with its default value. Keys must be known
// to viper for environment overrides to reach Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("backend.base_url", "http://localhost:8080")
	v.SetDefault("backend.resource_path", "/api/operating-systems")
	v.SetDefault("backend.timeout", "0s")
	v.SetDefault("backend.technologies", []string{"jpa", "mongo", "elastic"})

	v.SetDefault("grid.default_sort", "name")
	v.SetDefault("grid.block_size", 20)
	v.SetDefault("grid.descriptor_cache_size", 16)

	v.SetDefault("server.port", 8081)
	v.SetDefault("server.shutdown_timeout", "30s")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
	v.SetDefault("log.file", "")
	v.SetDefault("log.rotation.max_size", 128)
	v.SetDefault("log.rotation.max_backups", 5)
	v.SetDefault("log.rotation.max_age", 16)
	v.SetDefault("log.rotation.compress", false)
}

var envFiles = []string{".env", ".env.local"}

// NewViper prepares a viper instance: .env files are loaded into the process
// environment, then the config file at path (or config.yaml in the usual
// locations) is read when present.
func NewViper(path string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	dirs := []string{".", "./config", "/etc/gridsearch"}
	if path != "" {
		v.SetConfigFile(path)
		dirs = []string{".", filepath.Dir(path)}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		for _, dir := range dirs {
			v.AddConfigPath(dir)
		}
	}
	for _, dir := range dirs {
		for _, name := range envFiles {
			// missing .env files are fine
			_ = godotenv.Load(filepath.Join(dir, name))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}
	return v, nil
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail later at request time.
func (c *Config) Validate() error {
	var errs []error

	u, err := url.Parse(c.Backend.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("backend.base_url: %q is not an http(s) URL", c.Backend.BaseURL))
	}
	if c.Backend.Timeout < 0 {
		errs = append(errs, errors.New("backend.timeout must not be negative"))
	}
	if _, err := c.Technologies(); err != nil {
		errs = append(errs, fmt.Errorf("backend.technologies: %w", err))
	}
	if c.Grid.BlockSize <= 0 {
		errs = append(errs, fmt.Errorf("grid.block_size must be positive, got %d", c.Grid.BlockSize))
	}
	if strings.TrimSpace(c.Grid.DefaultSort) == "" {
		errs = append(errs, errors.New("grid.default_sort is empty"))
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	return errors.Join(errs...)
}

// Technologies parses the configured backend selectors.
func (c *Config) Technologies() ([]search.Technology, error) {
	out := make([]search.Technology, 0, len(c.Backend.Technologies))
	for _, s := range c.Backend.Technologies {
		t, err := search.ParseTechnology(strings.TrimSpace(s))
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}
