package gateway

import (
	"fmt"
	"net/url"
	"os"
	"time"
)

// Environment variable names for gateway configuration.
const (
	EnvGatewayBaseURL = "GATEWAY_BASE_URL"
	EnvGatewayTimeout = "GATEWAY_TIMEOUT"
)

// Config holds remote gateway connection settings.
type Config struct {
	BaseURL string `toml:"base_url"`
	Timeout string `toml:"timeout"`

	timeoutVal time.Duration
}

// TimeoutDuration returns the parsed request timeout.
func (c *Config) TimeoutDuration() time.Duration {
	return c.timeoutVal
}

// Finalize applies defaults, loads environment overrides, and validates the configuration.
func (c *Config) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge applies non-zero values from overlay onto the receiver.
func (c *Config) Merge(overlay *Config) {
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
}

func (c *Config) loadDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = "http://localhost:8080"
	}
	if c.Timeout == "" {
		c.Timeout = "30s"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvGatewayBaseURL); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv(EnvGatewayTimeout); v != "" {
		c.Timeout = v
	}
}

func (c *Config) validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid base_url: %s", c.BaseURL)
	}

	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	c.timeoutVal = d

	return nil
}
