// Package config provides application configuration management with support
// for TOML files, environment variable overrides, and configuration
// overlays.
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/photodesk/photodesk/internal/gateway"
	"github.com/photodesk/photodesk/internal/mutation"
	"github.com/photodesk/photodesk/internal/sharing"
	"github.com/photodesk/photodesk/internal/snapshot"
	"github.com/photodesk/photodesk/pkg/logging"
	"github.com/photodesk/photodesk/pkg/pagination"
)

const (
	// BaseConfigFile is the primary configuration file name.
	BaseConfigFile = "config.toml"

	// OverlayConfigPattern is the file name pattern for environment-specific overlays.
	OverlayConfigPattern = "config.%s.toml"

	// EnvAppEnv specifies the environment name for configuration overlays.
	EnvAppEnv = "PHOTODESK_ENV"

	// EnvLogLevel and EnvLogFormat override logging configuration.
	EnvLogLevel  = "LOG_LEVEL"
	EnvLogFormat = "LOG_FORMAT"
)

// Config represents the root application configuration.
type Config struct {
	Gateway    gateway.Config    `toml:"gateway"`
	Logging    logging.Config    `toml:"logging"`
	Pagination pagination.Config `toml:"pagination"`
	Upload     mutation.Config   `toml:"upload"`
	Snapshot   snapshot.Config   `toml:"snapshot"`
	Share      sharing.Config    `toml:"share"`
}

// Load reads and parses the base configuration file and applies any
// environment-specific overlay. A missing base file yields a default
// configuration.
func Load() (*Config, error) {
	cfg, err := load(BaseConfigFile)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		cfg = &Config{}
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}
	return cfg, nil
}

// Finalize applies defaults, loads environment overrides, and validates
// every configuration section.
func (c *Config) Finalize() error {
	if err := c.Gateway.Finalize(); err != nil {
		return fmt.Errorf("gateway: %w", err)
	}
	if err := c.Logging.Finalize(&logging.Env{Level: EnvLogLevel, Format: EnvLogFormat}); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if err := c.Pagination.Finalize(); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	if err := c.Upload.Finalize(); err != nil {
		return fmt.Errorf("upload: %w", err)
	}
	if err := c.Snapshot.Finalize(); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	if err := c.Share.Finalize(); err != nil {
		return fmt.Errorf("share: %w", err)
	}
	return nil
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *Config) Merge(overlay *Config) {
	c.Gateway.Merge(&overlay.Gateway)
	c.Logging.Merge(&overlay.Logging)
	c.Pagination.Merge(&overlay.Pagination)
	c.Upload.Merge(&overlay.Upload)
	c.Snapshot.Merge(&overlay.Snapshot)
	c.Share.Merge(&overlay.Share)
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvAppEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
