package sharing

import (
	"fmt"
	"net/url"
	"os"
)

// EnvShareOrigin overrides the origin used to build share URLs.
const EnvShareOrigin = "SHARE_ORIGIN"

// Config holds share URL construction settings.
type Config struct {
	// Origin is the application origin prefixed to share tokens.
	Origin string `toml:"origin"`
}

// Finalize applies defaults, loads environment overrides, and validates the configuration.
func (c *Config) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge applies non-zero values from overlay onto the receiver.
func (c *Config) Merge(overlay *Config) {
	if overlay.Origin != "" {
		c.Origin = overlay.Origin
	}
}

func (c *Config) loadDefaults() {
	if c.Origin == "" {
		c.Origin = "http://localhost:3000"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvShareOrigin); v != "" {
		c.Origin = v
	}
}

func (c *Config) validate() error {
	u, err := url.Parse(c.Origin)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid origin: %s", c.Origin)
	}
	return nil
}
