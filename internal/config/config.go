// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for navi.
//
// Configuration sources (in order of precedence):
//   - NAVI_* environment variables
//   - ./navi.toml
//   - ~/.navi/config.toml
//   - Built-in defaults
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete navi configuration.
type Config struct {
	// API configuration (chat completion backend)
	API APIConfig `toml:"api"`

	// UI configuration
	UI UIConfig `toml:"ui"`

	// Logging configuration (console logger + buffered file writer)
	Logging LoggingConfig `toml:"logging"`

	// Server configuration (feedback relay)
	Server ServerConfig `toml:"server"`
}

// APIConfig contains chat completion backend configuration.
type APIConfig struct {
	// BaseURL is the base URL of the completion backend
	BaseURL string `toml:"base_url"`
	// Endpoint is the completion path appended to BaseURL
	Endpoint string `toml:"endpoint"`
	// Model is the default model identifier sent with each request
	Model string `toml:"model"`
}

// UIConfig contains chat UI configuration.
type UIConfig struct {
	// Theme is the UI theme: "dark", "light", "auto"
	Theme string `toml:"theme"`
	// TypingIntervalMs is the delay between revealed characters
	TypingIntervalMs int `toml:"typing_interval_ms"`
	// RichMarkdown enables full markdown rendering for bot messages
	RichMarkdown bool `toml:"rich_markdown"`
	// ShowTokens displays token counts next to bot messages
	ShowTokens bool `toml:"show_tokens"`
}

// LoggingConfig contains console and file logging configuration.
type LoggingConfig struct {
	// MinLevel is the minimum console log level: debug, info, warn, error, silent
	MinLevel string `toml:"min_level"`
	// Dir is the directory for daily NDJSON log files
	Dir string `toml:"dir"`
	// FlushIntervalSecs is the periodic flush interval for buffered entries
	FlushIntervalSecs int `toml:"flush_interval_secs"`
	// FlushThreshold is the buffered entry count that forces an immediate flush
	FlushThreshold int `toml:"flush_threshold"`
}

// ServerConfig contains feedback relay configuration.
type ServerConfig struct {
	// Enabled controls whether the relay is started alongside the UI
	Enabled bool `toml:"enabled"`
	// Addr is the listen address for the relay
	Addr string `toml:"addr"`
	// AllowedOrigins is the CORS allow-list ("*" allows any origin)
	AllowedOrigins []string `toml:"allowed_origins"`
	// RateLimitPerMin caps feedback submissions per client IP per minute
	RateLimitPerMin int `toml:"rate_limit_per_min"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:  "http://172.20.23.104:3000",
			Endpoint: "/api/v1/chat/completions",
			Model:    "gemma3:1b",
		},

		UI: UIConfig{
			Theme:            "dark",
			TypingIntervalMs: 50,
			RichMarkdown:     false,
			ShowTokens:       false,
		},

		Logging: LoggingConfig{
			MinLevel:          "debug",
			Dir:               "logs",
			FlushIntervalSecs: 5,
			FlushThreshold:    100,
		},

		Server: ServerConfig{
			Enabled:         true,
			Addr:            ":8787",
			AllowedOrigins:  []string{"*"},
			RateLimitPerMin: 60,
		},
	}
}

// TypingInterval returns the reveal tick interval as a duration.
func (c *Config) TypingInterval() time.Duration {
	return time.Duration(c.UI.TypingIntervalMs) * time.Millisecond
}

// FlushInterval returns the log flush interval as a duration.
func (c *Config) FlushInterval() time.Duration {
	return time.Duration(c.Logging.FlushIntervalSecs) * time.Second
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the navi configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".navi"), nil
}

// ConfigPath returns the path to the user config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// candidatePaths returns config file locations in order of precedence.
func candidatePaths() []string {
	paths := []string{"navi.toml"}
	if userPath, err := ConfigPath(); err == nil {
		paths = append(paths, userPath)
	}
	return paths
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the first config file found, falling back to
// defaults. Environment overrides are applied last.
func Load() (*Config, error) {
	for _, path := range candidatePaths() {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		return LoadFromPath(path)
	}

	cfg := Default()
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFromPath loads configuration from a specific TOML file with full
// validation.
func LoadFromPath(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}

	fillDefaults(cfg)
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// fillDefaults fills in any missing values with defaults.
func fillDefaults(cfg *Config) {
	defaults := Default()

	// API
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = defaults.API.BaseURL
	}
	if cfg.API.Endpoint == "" {
		cfg.API.Endpoint = defaults.API.Endpoint
	}
	if cfg.API.Model == "" {
		cfg.API.Model = defaults.API.Model
	}

	// UI
	if cfg.UI.Theme == "" {
		cfg.UI.Theme = defaults.UI.Theme
	}
	if cfg.UI.TypingIntervalMs == 0 {
		cfg.UI.TypingIntervalMs = defaults.UI.TypingIntervalMs
	}

	// Logging
	if cfg.Logging.MinLevel == "" {
		cfg.Logging.MinLevel = defaults.Logging.MinLevel
	}
	if cfg.Logging.Dir == "" {
		cfg.Logging.Dir = defaults.Logging.Dir
	}
	if cfg.Logging.FlushIntervalSecs == 0 {
		cfg.Logging.FlushIntervalSecs = defaults.Logging.FlushIntervalSecs
	}
	if cfg.Logging.FlushThreshold == 0 {
		cfg.Logging.FlushThreshold = defaults.Logging.FlushThreshold
	}

	// Server
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = defaults.Server.Addr
	}
	if len(cfg.Server.AllowedOrigins) == 0 {
		cfg.Server.AllowedOrigins = defaults.Server.AllowedOrigins
	}
	if cfg.Server.RateLimitPerMin == 0 {
		cfg.Server.RateLimitPerMin = defaults.Server.RateLimitPerMin
	}
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the user config file.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file.
func SaveTOML(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	fmt.Fprintln(file, "# navi configuration file")
	fmt.Fprintln(file, "# Generated by navi - edit with care")
	fmt.Fprintln(file, "")

	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	// Validate backend base URL
	if c.API.BaseURL == "" {
		errs = append(errs, ValidationError{
			Field:   "api.base_url",
			Message: "must not be empty",
		})
	} else {
		u, err := url.Parse(c.API.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, ValidationError{
				Field:   "api.base_url",
				Message: fmt.Sprintf("invalid URL '%s'", c.API.BaseURL),
			})
		}
	}

	// Validate completion endpoint
	if !strings.HasPrefix(c.API.Endpoint, "/") {
		errs = append(errs, ValidationError{
			Field:   "api.endpoint",
			Message: fmt.Sprintf("must start with '/', got '%s'", c.API.Endpoint),
		})
	}

	// Validate model identifier
	if strings.TrimSpace(c.API.Model) == "" {
		errs = append(errs, ValidationError{
			Field:   "api.model",
			Message: "must not be empty",
		})
	}

	// Validate UI theme
	validThemes := map[string]bool{"dark": true, "light": true, "auto": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: dark, light, auto", c.UI.Theme),
		})
	}

	// Validate typing interval (1ms-1000ms keeps the reveal readable)
	if c.UI.TypingIntervalMs < 1 || c.UI.TypingIntervalMs > 1000 {
		errs = append(errs, ValidationError{
			Field:   "ui.typing_interval_ms",
			Message: fmt.Sprintf("must be 1-1000, got %d", c.UI.TypingIntervalMs),
		})
	}

	// Validate log level
	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "silent": true,
	}
	if !validLevels[strings.ToLower(c.Logging.MinLevel)] {
		errs = append(errs, ValidationError{
			Field:   "logging.min_level",
			Message: fmt.Sprintf("invalid level '%s', must be one of: debug, info, warn, error, silent", c.Logging.MinLevel),
		})
	}

	// Validate flush settings
	if c.Logging.FlushIntervalSecs < 1 {
		errs = append(errs, ValidationError{
			Field:   "logging.flush_interval_secs",
			Message: fmt.Sprintf("must be at least 1, got %d", c.Logging.FlushIntervalSecs),
		})
	}
	if c.Logging.FlushThreshold < 1 {
		errs = append(errs, ValidationError{
			Field:   "logging.flush_threshold",
			Message: fmt.Sprintf("must be at least 1, got %d", c.Logging.FlushThreshold),
		})
	}

	// Validate relay rate limit
	if c.Server.RateLimitPerMin < 1 {
		errs = append(errs, ValidationError{
			Field:   "server.rate_limit_per_min",
			Message: fmt.Sprintf("must be at least 1, got %d", c.Server.RateLimitPerMin),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - NAVI_API_URL: overrides api.base_url
//   - NAVI_API_ENDPOINT: overrides api.endpoint
//   - NAVI_MODEL: overrides api.model
//   - NAVI_THEME: overrides ui.theme
//   - NAVI_TYPING_INTERVAL_MS: overrides ui.typing_interval_ms
//   - NAVI_LOG_LEVEL: overrides logging.min_level
//   - NAVI_LOG_DIR: overrides logging.dir
//   - NAVI_RELAY_ADDR: overrides server.addr
//   - NAVI_RELAY_DISABLED: set to "1" or "true" to disable the relay
func (c *Config) ApplyEnvOverrides() {
	if baseURL := os.Getenv("NAVI_API_URL"); baseURL != "" {
		c.API.BaseURL = baseURL
	}

	if endpoint := os.Getenv("NAVI_API_ENDPOINT"); endpoint != "" {
		c.API.Endpoint = endpoint
	}

	if model := os.Getenv("NAVI_MODEL"); model != "" {
		c.API.Model = model
	}

	if theme := os.Getenv("NAVI_THEME"); theme != "" {
		c.UI.Theme = theme
	}

	if interval := os.Getenv("NAVI_TYPING_INTERVAL_MS"); interval != "" {
		if ms, err := strconv.Atoi(interval); err == nil {
			c.UI.TypingIntervalMs = ms
		}
	}

	if level := os.Getenv("NAVI_LOG_LEVEL"); level != "" {
		c.Logging.MinLevel = level
	}

	if dir := os.Getenv("NAVI_LOG_DIR"); dir != "" {
		c.Logging.Dir = dir
	}

	if addr := os.Getenv("NAVI_RELAY_ADDR"); addr != "" {
		c.Server.Addr = addr
	}

	if disabled := os.Getenv("NAVI_RELAY_DISABLED"); disabled != "" {
		c.Server.Enabled = !(disabled == "1" || strings.ToLower(disabled) == "true")
	}
}
