// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"sync"

	"github.com/charmbracelet/glamour"
)

// markdownWrap is the word wrap width for rendered replies.
const markdownWrap = 76

var (
	markdownOnce     sync.Once
	markdownRenderer *glamour.TermRenderer
)

// renderMarkdown renders markdown content for terminal display.
// Returns the original content if rendering fails or the renderer is
// unavailable.
func renderMarkdown(content string) string {
	markdownOnce.Do(func() {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(markdownWrap),
		)
		if err != nil {
			markdownRenderer = nil
			return
		}
		markdownRenderer = r
	})

	if markdownRenderer == nil {
		return content
	}
	rendered, err := markdownRenderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}
