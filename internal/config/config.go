// Package config loads the CLI configuration file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/adamwoolhether/fetchjson/client"
	"github.com/adamwoolhether/fetchjson/client/throttle"
)

// Config represents the CLI configuration file. Base seeds the client
// BaseOptions; the remaining fields tune the HTTP transport.
type Config struct {
	Base      client.Options   `json:"base" yaml:"base"`
	UserAgent string           `json:"userAgent,omitempty" yaml:"userAgent,omitempty"`
	Timeout   string           `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	Throttle  *throttle.Config `json:"throttle,omitempty" yaml:"throttle,omitempty"`
	Log       bool             `json:"log,omitempty" yaml:"log,omitempty"`
}

// Load reads and parses the file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data, path)
}

// Parse parses configuration data. The format follows the extension of
// path: ".json" is JSON, anything else is YAML.
func Parse(data []byte, path string) (*Config, error) {
	var cfg Config

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	}

	if _, err := cfg.timeout(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) timeout() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}

	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", c.Timeout, err)
	}
	return d, nil
}

// ClientOptions maps the configuration onto [client.Option]s.
func (c *Config) ClientOptions() ([]client.Option, error) {
	opts := []client.Option{client.WithBaseOptions(c.Base)}

	if c.UserAgent != "" {
		opts = append(opts, client.WithUserAgent(c.UserAgent))
	}

	d, err := c.timeout()
	if err != nil {
		return nil, err
	}
	if d > 0 {
		opts = append(opts, client.WithTimeout(d))
	}

	if c.Throttle != nil {
		opts = append(opts, client.WithThrottle(c.Throttle.RPS, c.Throttle.Burst))
	}

	if c.Log {
		opts = append(opts, client.WithLogFunc(nil))
	}

	return opts, nil
}
