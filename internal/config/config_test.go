// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.API.BaseURL != "http://172.20.23.104:3000" {
		t.Errorf("API.BaseURL = %q, want http://172.20.23.104:3000", cfg.API.BaseURL)
	}
	if cfg.API.Endpoint != "/api/v1/chat/completions" {
		t.Errorf("API.Endpoint = %q, want /api/v1/chat/completions", cfg.API.Endpoint)
	}
	if cfg.API.Model != "gemma3:1b" {
		t.Errorf("API.Model = %q, want gemma3:1b", cfg.API.Model)
	}
	if cfg.UI.TypingIntervalMs != 50 {
		t.Errorf("UI.TypingIntervalMs = %d, want 50", cfg.UI.TypingIntervalMs)
	}
	if cfg.Logging.FlushThreshold != 100 {
		t.Errorf("Logging.FlushThreshold = %d, want 100", cfg.Logging.FlushThreshold)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got: %v", err)
	}
}

func TestDurationHelpers(t *testing.T) {
	cfg := Default()

	if got := cfg.TypingInterval(); got != 50*time.Millisecond {
		t.Errorf("TypingInterval() = %v, want 50ms", got)
	}
	if got := cfg.FlushInterval(); got != 5*time.Second {
		t.Errorf("FlushInterval() = %v, want 5s", got)
	}
}

func TestLoadFromPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "navi.toml")

	content := `
[api]
base_url = "http://localhost:9000"
model = "gemma3:4b"

[ui]
typing_interval_ms = 25

[logging]
min_level = "warn"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}

	if cfg.API.BaseURL != "http://localhost:9000" {
		t.Errorf("API.BaseURL = %q, want http://localhost:9000", cfg.API.BaseURL)
	}
	if cfg.API.Model != "gemma3:4b" {
		t.Errorf("API.Model = %q, want gemma3:4b", cfg.API.Model)
	}
	if cfg.UI.TypingIntervalMs != 25 {
		t.Errorf("UI.TypingIntervalMs = %d, want 25", cfg.UI.TypingIntervalMs)
	}
	if cfg.Logging.MinLevel != "warn" {
		t.Errorf("Logging.MinLevel = %q, want warn", cfg.Logging.MinLevel)
	}

	// Unset fields fall back to defaults.
	if cfg.API.Endpoint != "/api/v1/chat/completions" {
		t.Errorf("API.Endpoint = %q, want default", cfg.API.Endpoint)
	}
	if cfg.Logging.FlushThreshold != 100 {
		t.Errorf("Logging.FlushThreshold = %d, want default 100", cfg.Logging.FlushThreshold)
	}
}

func TestLoadFromPathInvalidTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "navi.toml")

	if err := os.WriteFile(path, []byte("not [valid toml"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFromPath(path); err == nil {
		t.Error("expected error for malformed TOML")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{
			name:   "empty base URL",
			mutate: func(c *Config) { c.API.BaseURL = "" },
			field:  "api.base_url",
		},
		{
			name:   "URL without scheme",
			mutate: func(c *Config) { c.API.BaseURL = "172.20.23.104:3000" },
			field:  "api.base_url",
		},
		{
			name:   "endpoint without leading slash",
			mutate: func(c *Config) { c.API.Endpoint = "api/v1/chat" },
			field:  "api.endpoint",
		},
		{
			name:   "blank model",
			mutate: func(c *Config) { c.API.Model = "   " },
			field:  "api.model",
		},
		{
			name:   "unknown theme",
			mutate: func(c *Config) { c.UI.Theme = "neon" },
			field:  "ui.theme",
		},
		{
			name:   "typing interval too large",
			mutate: func(c *Config) { c.UI.TypingIntervalMs = 5000 },
			field:  "ui.typing_interval_ms",
		},
		{
			name:   "unknown log level",
			mutate: func(c *Config) { c.Logging.MinLevel = "verbose" },
			field:  "logging.min_level",
		},
		{
			name:   "zero flush threshold",
			mutate: func(c *Config) { c.Logging.FlushThreshold = -1 },
			field:  "logging.flush_threshold",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("error %q does not mention field %s", err.Error(), tt.field)
			}
		})
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("NAVI_API_URL", "http://10.0.0.5:3000")
	t.Setenv("NAVI_MODEL", "gemma3:12b")
	t.Setenv("NAVI_LOG_LEVEL", "error")
	t.Setenv("NAVI_TYPING_INTERVAL_MS", "30")
	t.Setenv("NAVI_RELAY_DISABLED", "true")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	if cfg.API.BaseURL != "http://10.0.0.5:3000" {
		t.Errorf("API.BaseURL = %q, want env override", cfg.API.BaseURL)
	}
	if cfg.API.Model != "gemma3:12b" {
		t.Errorf("API.Model = %q, want gemma3:12b", cfg.API.Model)
	}
	if cfg.Logging.MinLevel != "error" {
		t.Errorf("Logging.MinLevel = %q, want error", cfg.Logging.MinLevel)
	}
	if cfg.UI.TypingIntervalMs != 30 {
		t.Errorf("UI.TypingIntervalMs = %d, want 30", cfg.UI.TypingIntervalMs)
	}
	if cfg.Server.Enabled {
		t.Error("Server.Enabled should be false after NAVI_RELAY_DISABLED=true")
	}
}

func TestApplyEnvOverridesIgnoresBadInterval(t *testing.T) {
	t.Setenv("NAVI_TYPING_INTERVAL_MS", "fast")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	if cfg.UI.TypingIntervalMs != 50 {
		t.Errorf("UI.TypingIntervalMs = %d, want untouched 50", cfg.UI.TypingIntervalMs)
	}
}

func TestSaveTOMLRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	cfg := Default()
	cfg.API.Model = "gemma3:27b"
	cfg.UI.TypingIntervalMs = 40

	if err := SaveTOML(cfg, path); err != nil {
		t.Fatalf("SaveTOML() error: %v", err)
	}

	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}

	if loaded.API.Model != "gemma3:27b" {
		t.Errorf("API.Model = %q, want gemma3:27b", loaded.API.Model)
	}
	if loaded.UI.TypingIntervalMs != 40 {
		t.Errorf("UI.TypingIntervalMs = %d, want 40", loaded.UI.TypingIntervalMs)
	}
}

func TestWatcherReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "navi.toml")

	write := func(model string) {
		t.Helper()
		content := "[api]\nmodel = \"" + model + "\"\n"
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	write("gemma3:1b")

	reloaded := make(chan *Config, 4)
	w, err := NewWatcher(path, func(c *Config) { reloaded <- c }, nil)
	if err != nil {
		t.Fatalf("NewWatcher() error: %v", err)
	}
	defer w.Close()

	if err := w.Watch(); err != nil {
		t.Fatalf("Watch() error: %v", err)
	}

	write("gemma3:4b")

	select {
	case cfg := <-reloaded:
		if cfg.API.Model != "gemma3:4b" {
			t.Errorf("reloaded API.Model = %q, want gemma3:4b", cfg.API.Model)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
}

func TestWatcherReportsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "navi.toml")
	if err := os.WriteFile(path, []byte("[api]\nmodel = \"gemma3:1b\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	errs := make(chan error, 4)
	w, err := NewWatcher(path, func(*Config) {
		t.Error("onReload should not fire for a broken config")
	}, func(e error) { errs <- e })
	if err != nil {
		t.Fatalf("NewWatcher() error: %v", err)
	}
	defer w.Close()

	if err := w.Watch(); err != nil {
		t.Fatalf("Watch() error: %v", err)
	}

	if err := os.WriteFile(path, []byte("not [valid toml"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-errs:
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for reload error")
	}
}
