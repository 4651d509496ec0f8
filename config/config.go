// Package config loads the estimator's engine limits and cache settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"estimator/services"
)

// Environment variables that override file values.
const (
	EnvConfigPath    = "ESTIMATOR_CONFIG"
	EnvPaidTolerance = "ESTIMATOR_PAID_TOLERANCE"
	EnvCacheSize     = "ESTIMATOR_CACHE_SIZE"
)

// DefaultPath is read when neither the caller nor ESTIMATOR_CONFIG names a file.
const DefaultPath = "estimator.yaml"

// Config holds every tunable of the calculation engine. A zero field means
// "use the default".
type Config struct {
	// MaxTaxRate is the upper bound of settings.taxRate (default 0.5).
	MaxTaxRate float64 `yaml:"max_tax_rate"`

	// MaxMarkupRate is the upper bound of settings.markup (default 5.0).
	MaxMarkupRate float64 `yaml:"max_markup_rate"`

	// MaxWasteFactor is the upper bound of waste factors (default 1.0).
	MaxWasteFactor float64 `yaml:"max_waste_factor"`

	// MaxUnits caps the total units of one work item (default 1,000,000).
	MaxUnits float64 `yaml:"max_units"`

	// MaxSurfaceQuantity caps a single surface measurement (default 100,000).
	MaxSurfaceQuantity float64 `yaml:"max_surface_quantity"`

	// MaxRate is the upper bound of per-unit material and labor rates (default 100,000).
	MaxRate float64 `yaml:"max_rate"`

	// PaidTolerance is the remaining balance at or below which a project is
	// fully paid (default 0.01).
	PaidTolerance *float64 `yaml:"paid_tolerance"`

	// CacheSize is the entry cap of the totals cache (default 500).
	CacheSize int `yaml:"cache_size"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	var c Config
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if c.MaxTaxRate == 0 {
		c.MaxTaxRate = services.DefaultMaxTaxRate
	}
	if c.MaxMarkupRate == 0 {
		c.MaxMarkupRate = services.DefaultMaxMarkupRate
	}
	if c.MaxWasteFactor == 0 {
		c.MaxWasteFactor = services.DefaultMaxWasteFactor
	}
	if c.MaxUnits == 0 {
		c.MaxUnits = services.DefaultMaxUnits
	}
	if c.MaxSurfaceQuantity == 0 {
		c.MaxSurfaceQuantity = services.DefaultMaxSurfaceQuantity
	}
	if c.MaxRate == 0 {
		c.MaxRate = services.DefaultMaxRate
	}
	if c.PaidTolerance == nil {
		t := services.DefaultPaidTolerance
		c.PaidTolerance = &t
	}
	if c.CacheSize == 0 {
		c.CacheSize = services.DefaultCacheSize
	}
}

func (c Config) validate() error {
	var errs []error
	for _, l := range []struct {
		name  string
		value float64
	}{
		{"max_tax_rate", c.MaxTaxRate},
		{"max_markup_rate", c.MaxMarkupRate},
		{"max_waste_factor", c.MaxWasteFactor},
		{"max_units", c.MaxUnits},
		{"max_surface_quantity", c.MaxSurfaceQuantity},
		{"max_rate", c.MaxRate},
	} {
		if l.value < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative, got %g", l.name, l.value))
		}
	}
	if t := *c.PaidTolerance; t < 0 || t > 1 {
		errs = append(errs, fmt.Errorf("paid_tolerance must be between 0 and 1, got %g", t))
	}
	if c.CacheSize < 0 {
		errs = append(errs, fmt.Errorf("cache_size must not be negative, got %d", c.CacheSize))
	}
	return errors.Join(errs...)
}

// Load reads .env (if present), then the YAML file at path, then the
// ESTIMATOR_* environment overrides. An empty path falls back to
// ESTIMATOR_CONFIG and then DefaultPath; a missing file is not an error.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("reading .env: %w", err)
	}

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path == "" {
		path = DefaultPath
	}

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("reading config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := strings.TrimSpace(os.Getenv(EnvPaidTolerance)); v != "" {
		t, err := cast.ToFloat64E(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvPaidTolerance, err)
		}
		c.PaidTolerance = &t
	}
	if v := strings.TrimSpace(os.Getenv(EnvCacheSize)); v != "" {
		n, err := cast.ToIntE(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvCacheSize, err)
		}
		c.CacheSize = n
	}
	return nil
}

// EngineConfig converts c into the engine's limits.
func (c Config) EngineConfig() services.EngineConfig {
	c.applyDefaults()
	ec := services.DefaultEngineConfig()
	ec.MaxTaxRate = c.MaxTaxRate
	ec.MaxMarkupRate = c.MaxMarkupRate
	ec.MaxWasteFactor = c.MaxWasteFactor
	ec.MaxUnits = c.MaxUnits
	ec.MaxSurfaceQuantity = c.MaxSurfaceQuantity
	ec.MaxRate = c.MaxRate
	ec.PaidTolerance = *c.PaidTolerance
	return ec
}

// NewCalculator builds the engine, cache and calculator described by c.
func (c Config) NewCalculator() *services.Calculator {
	c.applyDefaults()
	return services.NewCalculator(
		services.NewEngine(c.EngineConfig()),
		services.NewTotalsCache(c.CacheSize),
	)
}
