// Package snapshot persists the last successfully fetched collection page
// per filter in a local sqlite database, so the application can present the
// last-known collection before the first fetch of a session completes.
package snapshot

import (
	"fmt"
	"os"
	"time"
)

// Environment variable names for snapshot cache configuration.
const (
	EnvSnapshotPath   = "SNAPSHOT_PATH"
	EnvSnapshotMaxAge = "SNAPSHOT_MAX_AGE"
)

// Config holds snapshot cache settings.
type Config struct {
	// Path is the sqlite database file. Default: ".data/photodesk.db"
	Path   string `toml:"path"`
	MaxAge string `toml:"max_age"`

	maxAgeVal time.Duration
}

// MaxAgeDuration returns the parsed maximum snapshot age.
func (c *Config) MaxAgeDuration() time.Duration {
	return c.maxAgeVal
}

// Finalize applies defaults, loads environment overrides, and validates the configuration.
func (c *Config) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge applies non-zero values from overlay onto the receiver.
func (c *Config) Merge(overlay *Config) {
	if overlay.Path != "" {
		c.Path = overlay.Path
	}
	if overlay.MaxAge != "" {
		c.MaxAge = overlay.MaxAge
	}
}

func (c *Config) loadDefaults() {
	if c.Path == "" {
		c.Path = ".data/photodesk.db"
	}
	if c.MaxAge == "" {
		c.MaxAge = "168h"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvSnapshotPath); v != "" {
		c.Path = v
	}
	if v := os.Getenv(EnvSnapshotMaxAge); v != "" {
		c.MaxAge = v
	}
}

func (c *Config) validate() error {
	d, err := time.ParseDuration(c.MaxAge)
	if err != nil {
		return fmt.Errorf("invalid max_age: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("max_age must be positive")
	}
	c.maxAgeVal = d
	return nil
}
