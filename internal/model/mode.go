// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// =============================================================================
// MODE TYPE
// =============================================================================

// Mode is the per-message directive that governs how the response
// generator is invoked and how its reply is post-processed.
type Mode string

const (
	// ModeChat is the default plain conversation mode.
	ModeChat Mode = "chat"

	// ModeWebSearch enriches replies with retrieved source citations.
	ModeWebSearch Mode = "web_search"

	// ModeImageGen asks the generator for image artifacts instead of text.
	ModeImageGen Mode = "image_gen"

	// ModeInvestigate permits higher latency and deeper reasoning.
	// Same result shape as ModeChat; purely a quality-of-service hint.
	ModeInvestigate Mode = "investigate"
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	return string(m)
}

// Valid reports whether the mode is one of the known values.
func (m Mode) Valid() bool {
	switch m {
	case ModeChat, ModeWebSearch, ModeImageGen, ModeInvestigate:
		return true
	}
	return false
}

// DisplayName returns a human-readable label for the mode.
func (m Mode) DisplayName() string {
	switch m {
	case ModeChat:
		return "Chat"
	case ModeWebSearch:
		return "Web Search"
	case ModeImageGen:
		return "Create Image"
	case ModeInvestigate:
		return "Investigate"
	default:
		return string(m)
	}
}

// =============================================================================
// THEME TYPE
// =============================================================================

// Theme is the persisted UI theme preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Valid reports whether the theme is a known value.
func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}

// Toggle returns the opposite theme.
func (t Theme) Toggle() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}
