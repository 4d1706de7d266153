// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small shared helpers: rune-safe string
// truncation, atomic file writes, and numeric conversions.
package util
