// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"context"
	"log"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/aetheris-tui/internal/model"
	"github.com/jeranaias/aetheris-tui/internal/session"
	"github.com/jeranaias/aetheris-tui/internal/storage"
	"github.com/jeranaias/aetheris-tui/internal/ui/styles"
)

// sidebarWidth is the fixed width of the chat list column.
const sidebarWidth = 26

// modeCycle is the Tab rotation order for conversation modes.
var modeCycle = []model.Mode{
	model.ModeChat,
	model.ModeWebSearch,
	model.ModeImageGen,
	model.ModeInvestigate,
}

// Options configures the UI model.
type Options struct {
	// User is the signed-in account shown in the header.
	User *model.User

	// Theme is the starting theme variant.
	Theme model.Theme

	// Markdown enables glamour rendering of replies.
	Markdown bool

	// ExportDir receives chat transcripts written with the export key.
	// Empty disables export.
	ExportDir string
}

// Model is the Bubble Tea model for the Aetheris application.
type Model struct {
	// Collaborators
	manager *session.Manager
	store   storage.Store

	// Styling
	theme *styles.Theme

	// Dimensions
	width  int
	height int
	ready  bool

	// UI components
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model

	// Key bindings
	keyMap KeyMap

	// Options
	user      *model.User
	markdown  bool
	exportDir string

	// Transient status line, cleared on next key press
	statusMsg string
}

// New creates the application model.
func New(manager *session.Manager, store storage.Store, opts Options) Model {
	theme := styles.NewTheme(opts.Theme)

	input := textinput.New()
	input.Placeholder = "Message Aetheris..."
	input.Prompt = "> "
	input.CharLimit = 0
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Spinner

	return Model{
		manager:   manager,
		store:     store,
		theme:     theme,
		input:     input,
		spinner:   sp,
		keyMap:    DefaultKeyMap(),
		user:      opts.User,
		markdown:  opts.Markdown,
		exportDir: opts.ExportDir,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// =============================================================================
// COMMANDS
// =============================================================================

// sendDoneMsg reports a settled send transaction.
type sendDoneMsg struct {
	err error
}

// sendCmd runs the send transaction off the UI goroutine. The manager
// owns all chat state mutation; the UI re-reads it on settle.
func sendCmd(manager *session.Manager, text string, mode model.Mode) tea.Cmd {
	return func() tea.Msg {
		err := manager.SendMessage(context.Background(), text, nil, mode)
		return sendDoneMsg{err: err}
	}
}

// themeSavedMsg reports a persisted theme preference.
type themeSavedMsg struct {
	err error
}

// saveThemeCmd persists the theme preference in the background.
func saveThemeCmd(store storage.Store, theme model.Theme) tea.Cmd {
	return func() tea.Msg {
		if store == nil {
			return themeSavedMsg{}
		}
		err := store.SaveTheme(theme)
		if err != nil {
			log.Printf("ui: theme persist failed: %v", err)
		}
		return themeSavedMsg{err: err}
	}
}

// exportDoneMsg reports a written transcript export.
type exportDoneMsg struct {
	path string
	err  error
}

// exportCmd writes the active chat's transcript to the export dir.
func exportCmd(chat *model.Chat, dir string) tea.Cmd {
	return func() tea.Msg {
		path, err := storage.WriteExport(chat, dir, "markdown")
		return exportDoneMsg{path: path, err: err}
	}
}
