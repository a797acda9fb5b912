// Package config loads and saves openspec/config.yaml.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	FileName       = "config.yaml"
	CurrentVersion = 1

	DefaultConcurrency = 4
	maxConcurrency     = 64
)

const header = "# openspec project configuration\n"

type ValidationConfig struct {
	Concurrency int `yaml:"concurrency"`
}

type ArchiveConfig struct {
	SkipSpecs bool `yaml:"skip_specs"`
}

// Config models openspec/config.yaml.
type Config struct {
	Version    int              `yaml:"version"`
	Tools      []string         `yaml:"tools"`
	Validation ValidationConfig `yaml:"validation"`
	Archive    ArchiveConfig    `yaml:"archive"`
}

func Default() Config {
	return Config{
		Version:    CurrentVersion,
		Tools:      []string{},
		Validation: ValidationConfig{Concurrency: DefaultConcurrency},
	}
}

// Load reads path. A missing file yields the defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.normalize()
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Marshal renders the config as YAML with a leading comment line.
func (c Config) Marshal() ([]byte, error) {
	c.normalize()
	body, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("config: encode: %w", err)
	}
	return append([]byte(header), body...), nil
}

func (c *Config) normalize() {
	if c.Version == 0 {
		c.Version = CurrentVersion
	}
	if c.Validation.Concurrency <= 0 {
		c.Validation.Concurrency = DefaultConcurrency
	}
	tools := make([]string, 0, len(c.Tools))
	seen := make(map[string]bool, len(c.Tools))
	for _, tool := range c.Tools {
		tool = strings.ToLower(strings.TrimSpace(tool))
		if tool == "" || seen[tool] {
			continue
		}
		seen[tool] = true
		tools = append(tools, tool)
	}
	sort.Strings(tools)
	c.Tools = tools
}

func (c Config) validate() error {
	if c.Version > CurrentVersion {
		return fmt.Errorf("unsupported config version %d (max %d)", c.Version, CurrentVersion)
	}
	if c.Validation.Concurrency > maxConcurrency {
		return fmt.Errorf("validation.concurrency must be <= %d (got %d)", maxConcurrency, c.Validation.Concurrency)
	}
	return nil
}
