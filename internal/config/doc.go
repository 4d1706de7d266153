// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for the
// Aetheris TUI.
//
// Configuration is TOML with sensible defaults, environment variable
// overrides, and validation. The file lives at ~/.aetheris/config.toml
// and can be watched for live reload.
package config
