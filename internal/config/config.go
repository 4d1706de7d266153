// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete Aetheris configuration.
type Config struct {
	// Version of the config format, for future migrations.
	Version string `toml:"version"`

	// DataDir is where chats, preferences, and credentials live.
	// Default: ~/.aetheris
	DataDir string `toml:"data_dir"`

	// Backend configuration
	Backend BackendConfig `toml:"backend"`

	// Storage configuration
	Storage StorageConfig `toml:"storage"`

	// Session configuration
	Session SessionConfig `toml:"session"`

	// UI configuration
	UI UIConfig `toml:"ui"`
}

// BackendConfig points at the generation backend.
type BackendConfig struct {
	// BaseURL is the backend API base URL
	BaseURL string `toml:"base_url"`
	// TimeoutSecs bounds a single generation request
	TimeoutSecs int `toml:"timeout_secs"`
	// MaxRetries is the retry budget for transient backend errors
	MaxRetries int `toml:"max_retries"`
}

// StorageConfig selects and tunes the persistence backend.
type StorageConfig struct {
	// Backend is "snapshot" (JSON file, default) or "sqlite"
	Backend string `toml:"backend"`
	// SQLitePath overrides the database location (empty = DataDir/aetheris.db)
	SQLitePath string `toml:"sqlite_path"`
}

// SessionConfig tunes conversation behavior.
type SessionConfig struct {
	// SurfaceErrors keeps a visible error message in the transcript when
	// generation fails, instead of silently rolling back the send.
	SurfaceErrors bool `toml:"surface_errors"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is "light" or "dark"
	Theme string `toml:"theme"`
	// Markdown enables rendered markdown in the transcript
	Markdown bool `toml:"markdown"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns the built-in default configuration.
func Default() *Config {
	return &Config{
		Version: "1",
		Backend: BackendConfig{
			BaseURL:     "http://localhost:8000",
			TimeoutSecs: 60,
			MaxRetries:  3,
		},
		Storage: StorageConfig{
			Backend: "snapshot",
		},
		Session: SessionConfig{
			SurfaceErrors: false,
		},
		UI: UIConfig{
			Theme:    "dark",
			Markdown: true,
		},
	}
}

// =============================================================================
// PATHS
// =============================================================================

// ConfigDir returns the Aetheris configuration directory.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".aetheris"), nil
}

// ConfigPath returns the path to the TOML config file.
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

// ensureSecurePermissions checks and fixes permissions on config files.
// SECURITY: Config files should be 0600 (owner read/write only).
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if mode := info.Mode().Perm(); mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}
	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the default file, falling back to
// defaults when none exists. Environment overrides apply last.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	if _, statErr := os.Stat(path); statErr != nil {
		cfg := Default()
		cfg.ApplyEnvOverrides()
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid config: %w", err)
		}
		return cfg, nil
	}
	return LoadFromPath(path)
}

// LoadFromPath loads configuration from a specific TOML file with full
// validation.
func LoadFromPath(path string) (*Config, error) {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode TOML file: %w", err)
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

	if cfg.Version == "" {
		cfg.Version = defaults.Version
	}
	if cfg.Backend.BaseURL == "" {
		cfg.Backend.BaseURL = defaults.Backend.BaseURL
	}
	if cfg.Backend.TimeoutSecs == 0 {
		cfg.Backend.TimeoutSecs = defaults.Backend.TimeoutSecs
	}
	if cfg.Backend.MaxRetries == 0 {
		cfg.Backend.MaxRetries = defaults.Backend.MaxRetries
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = defaults.Storage.Backend
	}
	if cfg.UI.Theme == "" {
		cfg.UI.Theme = defaults.UI.Theme
	}
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file.
// SECURITY: Creates config files with 0600 permissions.
func SaveTOML(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	if err := os.Chmod(path, 0600); err != nil {
		return fmt.Errorf("failed to set config file permissions: %w", err)
	}

	fmt.Fprintln(file, "# Aetheris configuration file")
	fmt.Fprintln(file, "# Generated by aetheris - edit with care")
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

// ValidationError describes a single invalid field.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Backend.BaseURL != "" {
		u, err := url.Parse(c.Backend.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return ValidationError{Field: "backend.base_url", Message: "must be a valid http(s) URL"}
		}
	}
	if c.Backend.TimeoutSecs < 0 {
		return ValidationError{Field: "backend.timeout_secs", Message: "must not be negative"}
	}
	if c.Backend.MaxRetries < 0 {
		return ValidationError{Field: "backend.max_retries", Message: "must not be negative"}
	}
	switch c.Storage.Backend {
	case "snapshot", "sqlite":
	default:
		return ValidationError{Field: "storage.backend", Message: `must be "snapshot" or "sqlite"`}
	}
	switch c.UI.Theme {
	case "light", "dark":
	default:
		return ValidationError{Field: "ui.theme", Message: `must be "light" or "dark"`}
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies AETHERIS_* environment variables on top of
// the loaded configuration.
func (c *Config) ApplyEnvOverrides() {
	// AETHERIS_BACKEND_URL
	if u := os.Getenv("AETHERIS_BACKEND_URL"); u != "" {
		c.Backend.BaseURL = u
	}

	// AETHERIS_DATA_DIR
	if dir := os.Getenv("AETHERIS_DATA_DIR"); dir != "" {
		c.DataDir = dir
	}

	// AETHERIS_STORAGE
	if backend := os.Getenv("AETHERIS_STORAGE"); backend != "" {
		c.Storage.Backend = strings.ToLower(backend)
	}

	// AETHERIS_THEME
	if theme := os.Getenv("AETHERIS_THEME"); theme != "" {
		c.UI.Theme = strings.ToLower(theme)
	}

	// AETHERIS_SURFACE_ERRORS
	if surface := os.Getenv("AETHERIS_SURFACE_ERRORS"); surface != "" {
		c.Session.SurfaceErrors = surface == "1" || strings.ToLower(surface) == "true"
	}
}

// =============================================================================
// RESOLVED PATHS
// =============================================================================

// ResolveDataDir returns the effective data directory, defaulting to
// the config directory itself.
func (c *Config) ResolveDataDir() (string, error) {
	if c.DataDir != "" {
		return c.DataDir, nil
	}
	return ConfigDir()
}

// ResolveSQLitePath returns the effective SQLite database path.
func (c *Config) ResolveSQLitePath() (string, error) {
	if c.Storage.SQLitePath != "" {
		return c.Storage.SQLitePath, nil
	}
	dir, err := c.ResolveDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "aetheris.db"), nil
}

// =============================================================================
// GLOBAL CONFIG
// =============================================================================

var (
	globalMu     sync.RWMutex
	globalConfig *Config
)

// Global returns the process-wide configuration, loading it on first use.
func Global() *Config {
	globalMu.RLock()
	if globalConfig != nil {
		defer globalMu.RUnlock()
		return globalConfig
	}
	globalMu.RUnlock()

	globalMu.Lock()
	defer globalMu.Unlock()
	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			cfg = Default()
		}
		globalConfig = cfg
	}
	return globalConfig
}

// SetGlobal replaces the process-wide configuration.
func SetGlobal(cfg *Config) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting clears the global config.
func ResetGlobalForTesting() {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalConfig = nil
}
