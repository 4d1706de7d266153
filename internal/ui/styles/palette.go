// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "github.com/charmbracelet/lipgloss"

// Palette holds the named colors for one theme variant.
type Palette struct {
	// Accents
	Primary   lipgloss.Color // Brand accent, assistant messages, selections
	Secondary lipgloss.Color // User highlights, info
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Danger    lipgloss.Color

	// Surfaces
	Surface       lipgloss.Color // Main background
	SurfaceDim    lipgloss.Color // Headers, footers
	SurfaceBright lipgloss.Color // Highlights, selected rows
	Overlay       lipgloss.Color // Borders, separators

	// Text
	TextPrimary   lipgloss.Color
	TextSecondary lipgloss.Color
	TextMuted     lipgloss.Color
	TextInverse   lipgloss.Color

	// Message bubbles
	UserBubbleBg  lipgloss.Color
	UserBubbleFg  lipgloss.Color
	ModelBubbleBg lipgloss.Color
	ModelBubbleFg lipgloss.Color
}

// DarkPalette returns the dark theme colors (Catppuccin Mocha tones).
func DarkPalette() Palette {
	return Palette{
		Primary:   lipgloss.Color("#A78BFA"),
		Secondary: lipgloss.Color("#22D3EE"),
		Success:   lipgloss.Color("#34D399"),
		Warning:   lipgloss.Color("#FBBF24"),
		Danger:    lipgloss.Color("#FB7185"),

		Surface:       lipgloss.Color("#1E1E2E"),
		SurfaceDim:    lipgloss.Color("#181825"),
		SurfaceBright: lipgloss.Color("#313244"),
		Overlay:       lipgloss.Color("#45475A"),

		TextPrimary:   lipgloss.Color("#CDD6F4"),
		TextSecondary: lipgloss.Color("#A6ADC8"),
		TextMuted:     lipgloss.Color("#6C7086"),
		TextInverse:   lipgloss.Color("#1E1E2E"),

		UserBubbleBg:  lipgloss.Color("#1D4ED8"),
		UserBubbleFg:  lipgloss.Color("#E0F2FE"),
		ModelBubbleBg: lipgloss.Color("#3B3655"),
		ModelBubbleFg: lipgloss.Color("#E9E4F5"),
	}
}

// LightPalette returns the light theme colors (Catppuccin Latte tones).
func LightPalette() Palette {
	return Palette{
		Primary:   lipgloss.Color("#7C3AED"),
		Secondary: lipgloss.Color("#0891B2"),
		Success:   lipgloss.Color("#059669"),
		Warning:   lipgloss.Color("#D97706"),
		Danger:    lipgloss.Color("#E11D48"),

		Surface:       lipgloss.Color("#FFFFFF"),
		SurfaceDim:    lipgloss.Color("#F5F5F5"),
		SurfaceBright: lipgloss.Color("#FAFAFA"),
		Overlay:       lipgloss.Color("#E5E5E5"),

		TextPrimary:   lipgloss.Color("#1F2937"),
		TextSecondary: lipgloss.Color("#6B7280"),
		TextMuted:     lipgloss.Color("#9CA3AF"),
		TextInverse:   lipgloss.Color("#FFFFFF"),

		UserBubbleBg:  lipgloss.Color("#DBEAFE"),
		UserBubbleFg:  lipgloss.Color("#1E40AF"),
		ModelBubbleBg: lipgloss.Color("#F5F3FF"),
		ModelBubbleFg: lipgloss.Color("#5B4B8A"),
	}
}
