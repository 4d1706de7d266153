// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the Aetheris TUI.
//
// Unlike terminal-detected adaptive styling, the palette here follows
// the user's persisted theme preference: the light and dark palettes
// are explicit, and switching themes rebuilds every style. Terminal
// color capability still comes from termenv detection.
package styles
