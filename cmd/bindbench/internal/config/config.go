package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const DefaultFile = "bindbench.yaml"

// Config represents the optional bindbench.yaml configuration.
type Config struct {
	Iterations int           `yaml:"iterations,omitempty"`
	Format     string        `yaml:"format,omitempty"`
	Timeout    time.Duration `yaml:"timeout,omitempty"`
	Scenarios  []string      `yaml:"scenarios,omitempty"`
	Verbose    bool          `yaml:"verbose,omitempty"`
}

func Default() *Config {
	return &Config{
		Iterations: 10_000,
		Format:     "text",
		Timeout:    10 * time.Second,
	}
}

// LoadOptional reads path if present and fills in defaults for anything it
// leaves out. A missing file yields the defaults.
func LoadOptional(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	cfg.merge(&file)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) merge(o *Config) {
	if o.Iterations != 0 {
		c.Iterations = o.Iterations
	}
	if f := strings.TrimSpace(o.Format); f != "" {
		c.Format = f
	}
	if o.Timeout != 0 {
		c.Timeout = o.Timeout
	}
	if len(o.Scenarios) > 0 {
		c.Scenarios = o.Scenarios
	}
	c.Verbose = c.Verbose || o.Verbose
}

func (c *Config) Validate() error {
	if c.Iterations <= 0 {
		return fmt.Errorf("iterations must be positive, got %d", c.Iterations)
	}
	switch c.Format {
	case "text", "markdown":
	default:
		return fmt.Errorf("unknown format %q", c.Format)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	return nil
}
