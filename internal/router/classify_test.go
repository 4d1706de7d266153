// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package router

import (
	"testing"

	"github.com/jeranaias/aetheris-tui/internal/model"
)

// =============================================================================
// IMAGE INTENT TESTS
// =============================================================================

func TestIsImageRequest(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"english draw", "please draw a cat for me", true},
		{"english generate", "Generate image of a sunset", true},
		{"english picture of", "can I have a picture of Lisbon?", true},
		{"portuguese accented", "faça um desenho de um gato", true},
		{"portuguese unaccented", "faca um desenho de um gato", true},
		{"portuguese imagem de", "quero uma imagem de um dragão", true},
		{"portuguese foto de", "me manda uma foto de uma praia", true},
		{"mixed case", "DESENHE um castelo", true},
		{"plain question", "what is the capital of France?", false},
		{"no trigger phrasing", "let's settle this via a coin toss", false},
		{"empty", "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsImageRequest(tc.text); got != tc.want {
				t.Errorf("IsImageRequest(%q) = %v, want %v", tc.text, got, tc.want)
			}
		})
	}
}

// =============================================================================
// MODE SUGGESTION TESTS
// =============================================================================

func TestSuggestMode(t *testing.T) {
	tests := []struct {
		text string
		want model.Mode
	}{
		{"draw me a horse", model.ModeImageGen},
		{"search the web for Go 1.24 release notes", model.ModeWebSearch},
		{"pesquise sobre energia solar", model.ModeWebSearch},
		{"investigate why my tests are flaky", model.ModeInvestigate},
		{"explique isso a fundo", model.ModeInvestigate},
		{"hello there", model.ModeChat},
	}

	for _, tc := range tests {
		t.Run(tc.text, func(t *testing.T) {
			if got := SuggestMode(tc.text); got != tc.want {
				t.Errorf("SuggestMode(%q) = %q, want %q", tc.text, got, tc.want)
			}
		})
	}
}

func TestSuggestMode_ImageWinsOverSearch(t *testing.T) {
	// A prompt matching both image and search phrasing routes to image.
	got := SuggestMode("search for a picture of the Eiffel Tower")
	if got != model.ModeImageGen {
		t.Errorf("SuggestMode = %q, want %q", got, model.ModeImageGen)
	}
}

// =============================================================================
// FOLDING TESTS
// =============================================================================

func TestFold(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Faça", "faca"},
		{"DESENHE", "desenhe"},
		{"ação", "acao"},
		{"plain ascii", "plain ascii"},
	}

	for _, tc := range tests {
		if got := Fold(tc.in); got != tc.want {
			t.Errorf("Fold(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
