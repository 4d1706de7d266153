// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
	if cfg.Backend.BaseURL != "http://localhost:8000" {
		t.Errorf("default backend URL = %q", cfg.Backend.BaseURL)
	}
	if cfg.Storage.Backend != "snapshot" {
		t.Errorf("default storage backend = %q", cfg.Storage.Backend)
	}
}

func TestLoadFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
version = "1"

[backend]
base_url = "http://backend.internal:9000"
timeout_secs = 30

[storage]
backend = "sqlite"

[session]
surface_errors = true

[ui]
theme = "light"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if cfg.Backend.BaseURL != "http://backend.internal:9000" {
		t.Errorf("base URL = %q", cfg.Backend.BaseURL)
	}
	if cfg.Backend.TimeoutSecs != 30 {
		t.Errorf("timeout = %d", cfg.Backend.TimeoutSecs)
	}
	// Unset values fall back to defaults.
	if cfg.Backend.MaxRetries != 3 {
		t.Errorf("max retries = %d, want default 3", cfg.Backend.MaxRetries)
	}
	if cfg.Storage.Backend != "sqlite" {
		t.Errorf("storage backend = %q", cfg.Storage.Backend)
	}
	if !cfg.Session.SurfaceErrors {
		t.Error("surface_errors should be true")
	}
	if cfg.UI.Theme != "light" {
		t.Errorf("theme = %q", cfg.UI.Theme)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad URL", func(c *Config) { c.Backend.BaseURL = "not a url" }},
		{"bad scheme", func(c *Config) { c.Backend.BaseURL = "ftp://host" }},
		{"negative timeout", func(c *Config) { c.Backend.TimeoutSecs = -1 }},
		{"negative retries", func(c *Config) { c.Backend.MaxRetries = -1 }},
		{"unknown storage", func(c *Config) { c.Storage.Backend = "cassandra" }},
		{"unknown theme", func(c *Config) { c.UI.Theme = "sepia" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("AETHERIS_BACKEND_URL", "http://override:1234")
	t.Setenv("AETHERIS_STORAGE", "SQLITE")
	t.Setenv("AETHERIS_SURFACE_ERRORS", "true")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	if cfg.Backend.BaseURL != "http://override:1234" {
		t.Errorf("base URL = %q", cfg.Backend.BaseURL)
	}
	if cfg.Storage.Backend != "sqlite" {
		t.Errorf("storage backend = %q", cfg.Storage.Backend)
	}
	if !cfg.Session.SurfaceErrors {
		t.Error("surface_errors should be true")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := Default()
	cfg.Backend.BaseURL = "https://api.example.com"
	cfg.UI.Theme = "light"
	if err := SaveTOML(cfg, path); err != nil {
		t.Fatalf("SaveTOML: %v", err)
	}

	// Saved file gets restrictive permissions.
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("permissions = %o, want 0600", perm)
	}

	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if loaded.Backend.BaseURL != "https://api.example.com" {
		t.Errorf("base URL = %q", loaded.Backend.BaseURL)
	}
	if loaded.UI.Theme != "light" {
		t.Errorf("theme = %q", loaded.UI.Theme)
	}
}

func TestResolveSQLitePath(t *testing.T) {
	cfg := Default()
	cfg.DataDir = "/tmp/aetheris-test"

	path, err := cfg.ResolveSQLitePath()
	if err != nil {
		t.Fatalf("ResolveSQLitePath: %v", err)
	}
	if path != filepath.Join("/tmp/aetheris-test", "aetheris.db") {
		t.Errorf("path = %q", path)
	}

	cfg.Storage.SQLitePath = "/elsewhere/chats.db"
	path, err = cfg.ResolveSQLitePath()
	if err != nil {
		t.Fatalf("ResolveSQLitePath: %v", err)
	}
	if path != "/elsewhere/chats.db" {
		t.Errorf("path = %q", path)
	}
}

func TestWatcherReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := SaveTOML(Default(), path); err != nil {
		t.Fatalf("SaveTOML: %v", err)
	}

	var reloads int32
	var lastURL atomic.Value
	watcher, err := NewWatcher(path, func(cfg *Config) {
		atomic.AddInt32(&reloads, 1)
		lastURL.Store(cfg.Backend.BaseURL)
	})
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer watcher.Close()

	updated := Default()
	updated.Backend.BaseURL = "http://reloaded:8000"
	if err := SaveTOML(updated, path); err != nil {
		t.Fatalf("SaveTOML update: %v", err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for atomic.LoadInt32(&reloads) == 0 && time.Now().Before(deadline) {
		time.Sleep(50 * time.Millisecond)
	}
	if atomic.LoadInt32(&reloads) == 0 {
		t.Fatal("watcher never delivered a reload")
	}
	if got := lastURL.Load(); got != "http://reloaded:8000" {
		t.Errorf("reloaded URL = %v", got)
	}
}
