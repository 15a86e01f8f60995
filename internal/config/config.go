// Package config loads the stubmock configuration file
// (.stubmock.yaml) and supplies defaults for every setting.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up in the working
// directory when no explicit path is given.
const FileName = ".stubmock.yaml"

// Count modifier policies.
const (
	// CountModifiersFlag reports chains with order or count modifiers
	// like any other chain.
	CountModifiersFlag = "flag"

	// CountModifiersSkip never reports chains with order or count
	// modifiers.
	CountModifiersSkip = "skip"
)

// Config is the top-level configuration.
type Config struct {
	// Enabled turns the rule on or off.
	Enabled bool `yaml:"enabled"`

	// Include lists glob patterns the Ruby source path must match.
	// Patterns without a slash match the base name.
	Include []string `yaml:"include"`

	// Exclude lists glob patterns for Ruby sources and input documents
	// to skip. "dir/**" excludes everything below dir.
	Exclude []string `yaml:"exclude"`

	// CountModifiers is the policy for .once, .ordered and friends:
	// "flag" or "skip".
	CountModifiers string `yaml:"count_modifiers"`

	// ResponseMethods are the chained methods that configure a
	// response.
	ResponseMethods []string `yaml:"response_methods"`

	// Workers bounds how many documents are checked concurrently.
	// Zero means GOMAXPROCS.
	Workers int `yaml:"workers"`

	// Scan configures input discovery.
	Scan Scan `yaml:"scan"`
}

// Scan configures input discovery.
type Scan struct {
	// Timeout bounds the directory walk. Zero means no timeout.
	Timeout time.Duration `yaml:"timeout"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Enabled:         true,
		Include:         []string{"*_spec.rb"},
		Exclude:         []string{"vendor/**"},
		CountModifiers:  CountModifiersFlag,
		ResponseMethods: []string{"and_return"},
		Workers:         0,
		Scan: Scan{
			Timeout: 30 * time.Second,
		},
	}
}

// Load reads the YAML file at path on top of DefaultConfig and
// validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %q: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %q: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %q: %w", path, err)
	}
	return cfg, nil
}

// Find loads FileName from dir when it exists and returns
// DefaultConfig otherwise. The returned path is empty when no file
// was found.
func Find(dir string) (*Config, string, error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), "", nil
		}
		return nil, "", fmt.Errorf("checking config %q: %w", path, err)
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch c.CountModifiers {
	case CountModifiersFlag, CountModifiersSkip:
	default:
		return fmt.Errorf("count_modifiers must be %q or %q, got %q",
			CountModifiersFlag, CountModifiersSkip, c.CountModifiers)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if c.Scan.Timeout < 0 {
		return fmt.Errorf("scan.timeout must not be negative, got %s", c.Scan.Timeout)
	}
	for _, pattern := range append(append([]string{}, c.Include...), c.Exclude...) {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return fmt.Errorf("bad glob pattern %q: %w", pattern, err)
		}
	}
	return nil
}
