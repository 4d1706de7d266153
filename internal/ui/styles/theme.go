// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/jeranaias/aetheris-tui/internal/model"
)

// Theme holds all the styled components for the application.
type Theme struct {
	// Selected variant
	Variant model.Theme

	// Terminal capabilities
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Palette the styles were built from
	Palette Palette

	// ==========================================================================
	// APPLICATION CONTAINER STYLES
	// ==========================================================================

	App       lipgloss.Style
	Container lipgloss.Style

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header      lipgloss.Style
	HeaderTitle lipgloss.Style
	HeaderUser  lipgloss.Style

	// ==========================================================================
	// SIDEBAR STYLES
	// ==========================================================================

	Sidebar          lipgloss.Style
	ChatItem         lipgloss.Style
	ChatItemSelected lipgloss.Style
	ChatItemMeta     lipgloss.Style

	// ==========================================================================
	// MESSAGE BUBBLE STYLES
	// ==========================================================================

	UserBubble    lipgloss.Style
	ModelBubble   lipgloss.Style
	MessageMeta   lipgloss.Style
	AttachmentTag lipgloss.Style

	// ==========================================================================
	// INPUT AREA STYLES
	// ==========================================================================

	InputContainer   lipgloss.Style
	InputPrompt      lipgloss.Style
	InputPlaceholder lipgloss.Style

	// ==========================================================================
	// STATUS BAR STYLES
	// ==========================================================================

	StatusBar    lipgloss.Style
	ModeChat     lipgloss.Style
	ModeSearch   lipgloss.Style
	ModeImage    lipgloss.Style
	ModeDeep     lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style

	// ==========================================================================
	// SPINNER AND STATE STYLES
	// ==========================================================================

	Spinner      lipgloss.Style
	ThinkingText lipgloss.Style
	ErrorText    lipgloss.Style
	StatusText   lipgloss.Style
}

// DetectVariant picks a default theme from the terminal background.
func DetectVariant() model.Theme {
	if termenv.HasDarkBackground() {
		return model.ThemeDark
	}
	return model.ThemeLight
}

// NewTheme creates a theme for the given variant.
func NewTheme(variant model.Theme) *Theme {
	colorProfile := termenv.ColorProfile()

	palette := DarkPalette()
	if variant == model.ThemeLight {
		palette = LightPalette()
	}

	t := &Theme{
		Variant:      variant,
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
		Palette:      palette,
	}
	t.initStyles()
	return t
}

// Toggle returns a theme for the other variant.
func (t *Theme) Toggle() *Theme {
	return NewTheme(t.Variant.Toggle())
}

// initStyles initializes all the lip gloss styles from the palette.
func (t *Theme) initStyles() {
	p := t.Palette

	// App container
	t.App = lipgloss.NewStyle()
	t.Container = lipgloss.NewStyle().Padding(0, 1)

	// Header
	t.Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Primary).
		Background(p.SurfaceDim).
		Padding(0, 2)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Primary)

	t.HeaderUser = lipgloss.NewStyle().
		Foreground(p.TextSecondary).
		Italic(true)

	// Sidebar
	t.Sidebar = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderRight(true).
		BorderForeground(p.Overlay).
		PaddingRight(1)

	t.ChatItem = lipgloss.NewStyle().
		Foreground(p.TextSecondary).
		Padding(0, 1)

	t.ChatItemSelected = lipgloss.NewStyle().
		Foreground(p.TextPrimary).
		Background(p.SurfaceBright).
		Bold(true).
		Padding(0, 1)

	t.ChatItemMeta = lipgloss.NewStyle().
		Foreground(p.TextMuted)

	// Message bubbles
	t.UserBubble = lipgloss.NewStyle().
		Foreground(p.UserBubbleFg).
		Background(p.UserBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(p.Secondary).
		Padding(0, 2).
		MarginLeft(4)

	t.ModelBubble = lipgloss.NewStyle().
		Foreground(p.ModelBubbleFg).
		Background(p.ModelBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(p.Primary).
		Padding(0, 2).
		MarginRight(4)

	t.MessageMeta = lipgloss.NewStyle().
		Foreground(p.TextMuted)

	t.AttachmentTag = lipgloss.NewStyle().
		Foreground(p.Secondary).
		Italic(true)

	// Input area
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(p.Overlay).
		Padding(0, 1)

	t.InputPrompt = lipgloss.NewStyle().
		Foreground(p.Secondary).
		Bold(true)

	t.InputPlaceholder = lipgloss.NewStyle().
		Foreground(p.TextMuted).
		Italic(true)

	// Status bar
	t.StatusBar = lipgloss.NewStyle().
		Background(p.SurfaceDim).
		Foreground(p.TextSecondary).
		Padding(0, 1)

	t.ModeChat = lipgloss.NewStyle().Foreground(p.Secondary).Bold(true)
	t.ModeSearch = lipgloss.NewStyle().Foreground(p.Success).Bold(true)
	t.ModeImage = lipgloss.NewStyle().Foreground(p.Warning).Bold(true)
	t.ModeDeep = lipgloss.NewStyle().Foreground(p.Primary).Bold(true)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(p.Primary).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(p.TextMuted)

	// Spinner and state
	t.Spinner = lipgloss.NewStyle().Foreground(p.Primary)
	t.ThinkingText = lipgloss.NewStyle().Foreground(p.TextMuted).Italic(true)
	t.ErrorText = lipgloss.NewStyle().Foreground(p.Danger).Bold(true)
	t.StatusText = lipgloss.NewStyle().Foreground(p.TextSecondary)
}

// ModeStyle returns the status bar style for a conversation mode.
func (t *Theme) ModeStyle(m model.Mode) lipgloss.Style {
	switch m {
	case model.ModeWebSearch:
		return t.ModeSearch
	case model.ModeImageGen:
		return t.ModeImage
	case model.ModeInvestigate:
		return t.ModeDeep
	default:
		return t.ModeChat
	}
}
