// Copyright 2026 The Rewind Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for Rewind commands.
//
// Configuration is loaded from a single file specified by:
//   - REWIND_CONFIG environment variable, or
//   - --config flag passed to the command
//
// There are no fallbacks or automatic discovery of the master file.
// A per-project .rewind.jsonc overlay may adjust a small set of
// values after the master config is loaded; see overlay.go.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the master configuration for Rewind.
type Config struct {
	// Paths configures directory locations.
	Paths PathsConfig `yaml:"paths"`

	// Replay configures segmentation and delivery.
	Replay ReplayConfig `yaml:"replay"`

	// Logging configures the structured log output.
	Logging LoggingConfig `yaml:"logging"`
}

// PathsConfig configures directory locations.
type PathsConfig struct {
	// Root is the base directory for Rewind data.
	Root string `yaml:"root"`

	// Sessions is the directory scanned for session transcripts.
	Sessions string `yaml:"sessions"`

	// Cache is where the session index cache lives.
	Cache string `yaml:"cache"`

	// OpLog is where per-replay operation audit logs are written.
	// Empty disables op logging.
	OpLog string `yaml:"op_log"`
}

// ReplayConfig configures segmentation and delivery.
type ReplayConfig struct {
	// MaxTokensPerChunk is the segmentation budget.
	// Default: 2000
	MaxTokensPerChunk int `yaml:"max_tokens_per_chunk"`

	// MaxTokensPerSend is the per-send ceiling; segments above it are
	// bisected at delivery time.
	// Default: 1800
	MaxTokensPerSend int `yaml:"max_tokens_per_send"`

	// AutoAdvance delivers segments on a timer instead of waiting for
	// keypresses.
	// Default: true
	AutoAdvance bool `yaml:"auto_advance"`

	// AdvanceInterval is the delay between automatic sends, as a Go
	// duration string.
	// Default: 150ms
	AdvanceInterval string `yaml:"advance_interval"`
}

// LoggingConfig configures the structured log output.
type LoggingConfig struct {
	// Output is the log file path. Empty discards logs — a TUI owns
	// the terminal, so stderr is not a useful default.
	Output string `yaml:"output"`

	// Level is the minimum level: debug, info, warn, error.
	// Default: info
	Level string `yaml:"level"`
}

// Default returns the default configuration. These defaults make the
// commands usable without any config file at all; a file only needs
// to state what differs.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	defaultRoot := filepath.Join(homeDir, ".rewind")

	return &Config{
		Paths: PathsConfig{
			Root:     defaultRoot,
			Sessions: filepath.Join(defaultRoot, "sessions"),
			Cache:    filepath.Join(defaultRoot, "cache"),
			OpLog:    "",
		},
		Replay: ReplayConfig{
			MaxTokensPerChunk: 2000,
			MaxTokensPerSend:  1800,
			AutoAdvance:       true,
			AdvanceInterval:   "150ms",
		},
		Logging: LoggingConfig{
			Output: "",
			Level:  "info",
		},
	}
}

// Load loads configuration from the REWIND_CONFIG environment
// variable, or returns defaults when it is unset.
func Load() (*Config, error) {
	configPath := os.Getenv("REWIND_CONFIG")
	if configPath == "" {
		cfg := Default()
		cfg.expandVariables()
		return cfg, nil
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path, merged over
// the defaults. Environment variables do not override config values;
// the only expansion performed is ${VAR} in paths for portability.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.expandVariables()
	return cfg, nil
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in
// configured paths.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"REWIND_ROOT": c.Paths.Root,
		"HOME":        os.Getenv("HOME"),
	}

	c.Paths.Root = expandVars(c.Paths.Root, vars)
	vars["REWIND_ROOT"] = c.Paths.Root // dependent paths see the expanded root

	c.Paths.Sessions = expandVars(c.Paths.Sessions, vars)
	c.Paths.Cache = expandVars(c.Paths.Cache, vars)
	c.Paths.OpLog = expandVars(c.Paths.OpLog, vars)
	c.Logging.Output = expandVars(c.Logging.Output, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}
		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Paths.Sessions == "" {
		errs = append(errs, fmt.Errorf("paths.sessions is required"))
	}
	if c.Replay.MaxTokensPerChunk < 1 {
		errs = append(errs, fmt.Errorf("replay.max_tokens_per_chunk must be at least 1"))
	}
	if c.Replay.MaxTokensPerSend < 1 {
		errs = append(errs, fmt.Errorf("replay.max_tokens_per_send must be at least 1"))
	}
	if _, err := time.ParseDuration(c.Replay.AdvanceInterval); err != nil {
		errs = append(errs, fmt.Errorf("replay.advance_interval: %w", err))
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("logging.level must be one of: debug, info, warn, error"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// AdvanceInterval returns the parsed advance interval. Call Validate
// first; an unparseable value falls back to the default here.
func (c *Config) AdvanceInterval() time.Duration {
	interval, err := time.ParseDuration(c.Replay.AdvanceInterval)
	if err != nil || interval <= 0 {
		return 150 * time.Millisecond
	}
	return interval
}

// CachePath returns the session index cache file path, or empty when
// caching is disabled.
func (c *Config) CachePath() string {
	if c.Paths.Cache == "" {
		return ""
	}
	return filepath.Join(c.Paths.Cache, "sessionindex.cbor")
}

// EnsurePaths creates the configured directories if they don't exist.
func (c *Config) EnsurePaths() error {
	paths := []string{
		c.Paths.Root,
		c.Paths.Sessions,
		c.Paths.Cache,
		c.Paths.OpLog,
	}
	for _, path := range paths {
		if path == "" {
			continue
		}
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
	}
	return nil
}
