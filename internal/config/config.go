// Package config loads the mustache CLI's YAML configuration file:
// default delimiters, the partials directory, and render limits.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Common errors for configuration loading.
var (
	ErrFileNotFound = errors.New("config file not found")
	ErrEmptyFile    = errors.New("config file is empty")
)

// Config is the CLI's persistent configuration.
type Config struct {
	// Delimiters overrides the default {{ }} pair for every render
	// unless a template's own {{=...=}} tag changes it.
	Delimiters struct {
		Open  string `yaml:"open"`
		Close string `yaml:"close"`
	} `yaml:"delimiters"`

	// PartialsDir is watched for *.mustache files and made available
	// to {{> name}} tags.
	PartialsDir string `yaml:"partials_dir"`

	// MaxOutputBytes bounds the buffers a single render stages at once
	// (not the bytes written to the output), 0 for unbounded.
	MaxOutputBytes int64 `yaml:"max_output_bytes"`

	// MaxDepth caps partial/lambda re-entrancy.
	MaxDepth int `yaml:"max_depth"`
}

// Default returns the configuration the CLI runs with when no file is
// given.
func Default() *Config {
	c := &Config{MaxDepth: 100}
	c.Delimiters.Open = "{{"
	c.Delimiters.Close = "}}"
	return c
}

// Load reads and parses a YAML config file at path.
func Load(path string) (*Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("stat config file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("config path is a directory: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFile, path)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}
