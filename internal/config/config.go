/*
 * Copyright (c) 2026 Firefly Software Solutions Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

/*
Package config provides configuration management for the SQLFront tools.

Configuration is resolved from multiple sources with clear precedence:
 1. Environment variables (highest priority)
 2. Configuration file
 3. Default values (lowest priority)

The configuration file uses a flat key = value format (a TOML subset):

	# SQLFront configuration
	format = "ascii"
	color = true
	log_level = "info"
	log_json = false
	history_file = "~/.sqlfront_history"

Environment Variables:
  - SQLFRONT_FORMAT: Tree output format (tree, ascii, json)
  - SQLFRONT_COLOR: Enable ANSI colors (true/false)
  - SQLFRONT_LOG_LEVEL: Log level (debug, info, warn, error)
  - SQLFRONT_LOG_JSON: Enable JSON logging (true/false)
  - SQLFRONT_HISTORY_FILE: Shell history file path
  - SQLFRONT_CONFIG_FILE: Path to configuration file
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Environment variable names for configuration.
const (
	EnvFormat      = "SQLFRONT_FORMAT"
	EnvColor       = "SQLFRONT_COLOR"
	EnvLogLevel    = "SQLFRONT_LOG_LEVEL"
	EnvLogJSON     = "SQLFRONT_LOG_JSON"
	EnvHistoryFile = "SQLFRONT_HISTORY_FILE"
	EnvConfigFile  = "SQLFRONT_CONFIG_FILE"
)

// Tree output formats accepted by the tools.
const (
	FormatTree  = "tree"  // indented plain-text dump
	FormatASCII = "ascii" // connector-drawn tree
	FormatJSON  = "json"  // nested JSON export
)

// DefaultConfigPaths are the configuration file locations searched in
// order when SQLFRONT_CONFIG_FILE is not set.
var DefaultConfigPaths = []string{
	"./sqlfront.conf",
	"$HOME/.config/sqlfront/sqlfront.conf",
}

// Config holds all configuration values for the SQLFront tools.
type Config struct {
	// Output configuration
	Format string `json:"format"` // tree, ascii, or json
	Color  bool   `json:"color"`  // ANSI colors when stdout is a TTY

	// Logging configuration
	LogLevel string `json:"log_level"`
	LogJSON  bool   `json:"log_json"`

	// Shell configuration
	HistoryFile string `json:"history_file"`

	// Metadata
	ConfigFile string `json:"-"` // Path to loaded config file
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Format:      FormatASCII,
		Color:       true,
		LogLevel:    "info",
		LogJSON:     false,
		HistoryFile: defaultHistoryFile(),
	}
}

// defaultHistoryFile returns the default shell history location.
func defaultHistoryFile() string {
	if home := os.Getenv("HOME"); home != "" {
		return filepath.Join(home, ".sqlfront_history")
	}
	return "./.sqlfront_history"
}

// Manager handles configuration loading, validation, and access.
type Manager struct {
	config *Config
	mu     sync.RWMutex
}

// NewManager creates a Manager holding the default configuration.
func NewManager() *Manager {
	return &Manager{config: DefaultConfig()}
}

// Get returns the current configuration.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

// Set replaces the current configuration.
func (m *Manager) Set(cfg *Config) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.config = cfg
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	switch c.Format {
	case FormatTree, FormatASCII, FormatJSON:
	default:
		return fmt.Errorf("invalid format %q (want tree, ascii, or json)", c.Format)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	return nil
}

// LoadFromFile loads configuration from the given file path.
func (m *Manager) LoadFromFile(path string) error {
	path = os.ExpandEnv(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := parseFile(string(data), cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ConfigFile = path
	m.Set(cfg)
	return nil
}

// LoadFromEnv merges environment variables over the current
// configuration. Env vars override file values.
func (m *Manager) LoadFromEnv() {
	cfg := m.Get()

	if v := os.Getenv(EnvFormat); v != "" {
		cfg.Format = strings.ToLower(v)
	}
	if v := os.Getenv(EnvColor); v != "" {
		cfg.Color = parseBool(v, cfg.Color)
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv(EnvLogJSON); v != "" {
		cfg.LogJSON = parseBool(v, cfg.LogJSON)
	}
	if v := os.Getenv(EnvHistoryFile); v != "" {
		cfg.HistoryFile = v
	}

	m.Set(cfg)
}

// FindConfigFile returns the first existing config file path, checking
// SQLFRONT_CONFIG_FILE and then the default search paths. Returns ""
// when no file is found.
func FindConfigFile() string {
	if path := os.Getenv(EnvConfigFile); path != "" {
		return path
	}
	for _, path := range DefaultConfigPaths {
		expanded := os.ExpandEnv(path)
		if _, err := os.Stat(expanded); err == nil {
			return expanded
		}
	}
	return ""
}

// Load resolves the full configuration: defaults, then an optional
// config file, then environment variables.
func (m *Manager) Load() error {
	if path := FindConfigFile(); path != "" {
		if err := m.LoadFromFile(path); err != nil {
			return err
		}
	}
	m.LoadFromEnv()
	return m.Get().Validate()
}

// parseFile parses the flat key = value configuration format.
// Lines starting with # are comments; string values may be quoted.
func parseFile(data string, cfg *Config) error {
	for i, raw := range strings.Split(data, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return fmt.Errorf("line %d: expected key = value, got %q", i+1, line)
		}

		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		value = strings.Trim(value, `"'`)

		if err := applyValue(cfg, key, value); err != nil {
			return fmt.Errorf("line %d: %w", i+1, err)
		}
	}
	return nil
}

// applyValue sets a single configuration key.
func applyValue(cfg *Config, key, value string) error {
	switch key {
	case "format":
		cfg.Format = strings.ToLower(value)
	case "color":
		cfg.Color = parseBool(value, cfg.Color)
	case "log_level":
		cfg.LogLevel = value
	case "log_json":
		cfg.LogJSON = parseBool(value, cfg.LogJSON)
	case "history_file":
		cfg.HistoryFile = value
	default:
		return fmt.Errorf("unknown configuration key %q", key)
	}
	return nil
}

// parseBool parses a boolean config value, falling back to def on
// unrecognized input.
func parseBool(s string, def bool) bool {
	switch strings.ToLower(s) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	default:
		return def
	}
}

// String returns a printable summary of the configuration.
func (c *Config) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "format=%s color=%t log_level=%s log_json=%t",
		c.Format, c.Color, c.LogLevel, c.LogJSON)
	if c.ConfigFile != "" {
		fmt.Fprintf(&b, " config_file=%s", c.ConfigFile)
	}
	return b.String()
}
