package mutation

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/docker/go-units"
)

// Environment variable names for mutation configuration.
const (
	EnvUploadMaxFileSize = "UPLOAD_MAX_FILE_SIZE"
	EnvUploadMaxFiles    = "UPLOAD_MAX_FILES"
	EnvBatchWorkers      = "BATCH_WORKERS"
)

// Config holds upload constraints and batch concurrency settings.
type Config struct {
	MaxFileSize  string   `toml:"max_file_size"`
	MaxFiles     int      `toml:"max_files"`
	AllowedTypes []string `toml:"allowed_types"`
	BatchWorkers int      `toml:"batch_workers"`

	maxFileSizeVal int64
}

// MaxFileSizeBytes returns the parsed per-file upload limit.
func (c *Config) MaxFileSizeBytes() int64 {
	return c.maxFileSizeVal
}

// AllowsType reports whether the given content type may be uploaded.
func (c *Config) AllowsType(contentType string) bool {
	for _, allowed := range c.AllowedTypes {
		if strings.EqualFold(allowed, contentType) {
			return true
		}
	}
	return false
}

// Finalize applies defaults, loads environment overrides, and validates the configuration.
func (c *Config) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge applies non-zero values from overlay onto the receiver.
func (c *Config) Merge(overlay *Config) {
	if overlay.MaxFileSize != "" {
		c.MaxFileSize = overlay.MaxFileSize
	}
	if overlay.MaxFiles != 0 {
		c.MaxFiles = overlay.MaxFiles
	}
	if len(overlay.AllowedTypes) > 0 {
		c.AllowedTypes = overlay.AllowedTypes
	}
	if overlay.BatchWorkers != 0 {
		c.BatchWorkers = overlay.BatchWorkers
	}
}

func (c *Config) loadDefaults() {
	if c.MaxFileSize == "" {
		c.MaxFileSize = "25MB"
	}
	if c.MaxFiles == 0 {
		c.MaxFiles = 20
	}
	if len(c.AllowedTypes) == 0 {
		c.AllowedTypes = []string{"image/jpeg", "image/png", "image/webp"}
	}
	if c.BatchWorkers == 0 {
		c.BatchWorkers = 4
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvUploadMaxFileSize); v != "" {
		c.MaxFileSize = v
	}
	if v := os.Getenv(EnvUploadMaxFiles); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxFiles = n
		}
	}
	if v := os.Getenv(EnvBatchWorkers); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.BatchWorkers = n
		}
	}
}

func (c *Config) validate() error {
	size, err := units.FromHumanSize(c.MaxFileSize)
	if err != nil {
		return fmt.Errorf("invalid max_file_size: %w", err)
	}
	c.maxFileSizeVal = size

	if c.MaxFiles < 1 {
		return fmt.Errorf("max_files must be positive")
	}
	if c.BatchWorkers < 1 {
		return fmt.Errorf("batch_workers must be positive")
	}
	return nil
}
