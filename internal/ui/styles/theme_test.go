// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"testing"

	"github.com/jeranaias/aetheris-tui/internal/model"
)

func TestNewThemeVariants(t *testing.T) {
	dark := NewTheme(model.ThemeDark)
	if dark.Variant != model.ThemeDark {
		t.Errorf("variant = %q", dark.Variant)
	}
	if dark.Palette.Surface != DarkPalette().Surface {
		t.Error("dark theme did not use dark palette")
	}

	light := NewTheme(model.ThemeLight)
	if light.Palette.Surface != LightPalette().Surface {
		t.Error("light theme did not use light palette")
	}
}

func TestToggle(t *testing.T) {
	dark := NewTheme(model.ThemeDark)
	light := dark.Toggle()
	if light.Variant != model.ThemeLight {
		t.Errorf("toggled variant = %q, want light", light.Variant)
	}
	if back := light.Toggle(); back.Variant != model.ThemeDark {
		t.Errorf("double toggle variant = %q, want dark", back.Variant)
	}
}

func TestModeStyleDistinct(t *testing.T) {
	theme := NewTheme(model.ThemeDark)
	chat := theme.ModeStyle(model.ModeChat).GetForeground()
	image := theme.ModeStyle(model.ModeImageGen).GetForeground()
	if chat == image {
		t.Error("chat and image modes share a color")
	}
}
