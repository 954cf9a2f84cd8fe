// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/caarlos0/env/v9"
	"gopkg.in/yaml.v3"

	"github.com/jongio/psnap/logutil"
	"github.com/jongio/psnap/owner"
	"github.com/jongio/psnap/procscan"
	"github.com/jongio/psnap/security"
)

// EnvConfigFile names the environment variable holding the YAML file path.
const EnvConfigFile = "PSNAP_CONFIG"

// Process sources.
const (
	SourceProcfs   = "procfs"
	SourceGopsutil = "gopsutil"
)

// Output formats.
const (
	FormatDefault = "default"
	FormatJSON    = "json"
)

// ErrInvalidConfig is returned when a setting has an unusable value.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds every psnap setting.
type Config struct {
	ProcRoot       string `yaml:"proc_root" env:"PSNAP_PROC_ROOT"`
	Source         string `yaml:"source" env:"PSNAP_SOURCE"`
	Format         string `yaml:"format" env:"PSNAP_FORMAT"`
	Strict         bool   `yaml:"strict" env:"PSNAP_STRICT"`
	Workers        int    `yaml:"workers" env:"PSNAP_WORKERS"`
	Wide           bool   `yaml:"wide" env:"PSNAP_WIDE"`
	OwnerCacheSize int    `yaml:"owner_cache_size" env:"PSNAP_OWNER_CACHE_SIZE"`
	MetricsFile    string `yaml:"metrics_file" env:"PSNAP_METRICS_FILE"`
	Debug          bool   `yaml:"debug" env:"PSNAP_DEBUG"`
	LogJSON        bool   `yaml:"log_json" env:"PSNAP_LOG_JSON"`
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		ProcRoot:       procscan.DefaultRoot,
		Source:         SourceProcfs,
		Format:         FormatDefault,
		Workers:        1,
		OwnerCacheSize: owner.DefaultCacheSize,
	}
}

// Load builds a Config from defaults, the optional PSNAP_CONFIG file and the
// variables in environ. The result is validated.
func Load(environ map[string]string) (*Config, error) {
	cfg := Default()

	if path := environ[EnvConfigFile]; path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Environment: environ}); err != nil {
		return nil, fmt.Errorf("%w: reading env vars: %w", ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	if err := security.ValidatePath(path); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, EnvConfigFile, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading YAML configuration: %w", err)
	}

	if err := security.ValidateFilePermissions(path); err != nil {
		logutil.Warn("configuration file is writable by other users", "path", path, "error", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: parsing YAML configuration %s: %w", ErrInvalidConfig, path, err)
	}
	return nil
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	switch {
	case c.ProcRoot == "":
		return fmt.Errorf("%w: proc_root must not be empty", ErrInvalidConfig)
	case c.Source != SourceProcfs && c.Source != SourceGopsutil:
		return fmt.Errorf("%w: unknown source %q", ErrInvalidConfig, c.Source)
	case c.Format != FormatDefault && c.Format != FormatJSON:
		return fmt.Errorf("%w: unknown format %q", ErrInvalidConfig, c.Format)
	case c.Workers < 1:
		return fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalidConfig, c.Workers)
	case c.OwnerCacheSize < 1:
		return fmt.Errorf("%w: owner_cache_size must be at least 1, got %d", ErrInvalidConfig, c.OwnerCacheSize)
	}

	if c.MetricsFile != "" {
		if err := security.ValidatePath(c.MetricsFile); err != nil {
			return fmt.Errorf("%w: metrics_file: %w", ErrInvalidConfig, err)
		}
	}
	return nil
}
