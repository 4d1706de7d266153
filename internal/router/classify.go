// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package router classifies prompt text to drive mode handling.
//
// Classification is deliberately cheap: lower-cased, accent-folded
// substring matching against fixed trigger lists. More sophisticated
// classification could use embeddings.
package router

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jeranaias/aetheris-tui/internal/model"
)

// ============================================================================
// IMAGE INTENT
// ============================================================================

// imageTriggers are the phrases (English and Portuguese) that signal an
// image-generation request. Matching is substring-based on folded text.
var imageTriggers = []string{
	"gerar imagem",
	"crie uma imagem",
	"desenhe",
	"faca um desenho",
	"generate image",
	"create image",
	"draw",
	"make a picture",
	"imagem de",
	"foto de",
	"photo of",
	"picture of",
}

// IsImageRequest reports whether the prompt phrasing implies an image
// request. Used to short-circuit sends when the mode is NOT image
// generation: image requests must be explicit about mode, so matching
// text outside that mode gets a fixed redirect instead of a generation.
func IsImageRequest(text string) bool {
	folded := Fold(text)
	for _, trigger := range imageTriggers {
		if strings.Contains(folded, trigger) {
			return true
		}
	}
	return false
}

// ============================================================================
// MODE SUGGESTION
// ============================================================================

// searchTriggers signal a retrieval-flavored prompt.
var searchTriggers = []string{
	"search for",
	"search the web",
	"look up",
	"latest news",
	"pesquise",
	"procure na web",
}

// investigateTriggers signal a deep-reasoning prompt.
var investigateTriggers = []string{
	"investigate",
	"deep dive",
	"in depth",
	"investigar",
	"a fundo",
}

// SuggestMode proposes an operating mode from prompt text alone.
// Purely a UI hint; the user's explicit mode selection always wins.
//
// Rules (in order of priority):
//  1. ImageGen: any image trigger phrase
//  2. WebSearch: retrieval phrasing
//  3. Investigate: deep-analysis phrasing
//  4. Chat: default fallback
func SuggestMode(text string) model.Mode {
	if IsImageRequest(text) {
		return model.ModeImageGen
	}

	folded := Fold(text)
	for _, trigger := range searchTriggers {
		if strings.Contains(folded, trigger) {
			return model.ModeWebSearch
		}
	}
	for _, trigger := range investigateTriggers {
		if strings.Contains(folded, trigger) {
			return model.ModeInvestigate
		}
	}
	return model.ModeChat
}

// ============================================================================
// TEXT FOLDING
// ============================================================================

// foldTransformer strips combining marks after NFD decomposition, so
// "faça" and "faca" compare equal. Portuguese trigger phrases would
// otherwise miss unaccented typing (common on non-BR keyboards).
var foldTransformer = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// Fold lower-cases text and removes diacritics for trigger matching.
func Fold(text string) string {
	lowered := strings.ToLower(text)
	folded, _, err := transform.String(foldTransformer, lowered)
	if err != nil {
		// Fold never fails on valid UTF-8; fall back to the lowered text.
		return lowered
	}
	return folded
}
