// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/aetheris-tui/internal/model"
	"github.com/jeranaias/aetheris-tui/internal/router"
	"github.com/jeranaias/aetheris-tui/internal/session"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.refreshTranscript()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		// The send runs on another goroutine, so the optimistic user
		// message and the thinking placeholder land after submit's
		// refresh. Ticks are the redraw heartbeat while in flight.
		if m.manager.Busy() {
			m.refreshTranscript()
			m.viewport.GotoBottom()
		}
		return m, cmd

	case sendDoneMsg:
		if msg.err != nil && !errors.Is(msg.err, session.ErrGenerationInFlight) {
			m.statusMsg = "Send failed: " + msg.err.Error()
		}
		m.refreshTranscript()
		m.viewport.GotoBottom()
		return m, nil

	case themeSavedMsg:
		return m, nil

	case exportDoneMsg:
		if msg.err != nil {
			m.statusMsg = "Export failed: " + msg.err.Error()
		} else {
			m.statusMsg = "Exported to " + msg.path
		}
		return m, nil
	}

	return m, nil
}

// handleKey dispatches a key press.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.statusMsg = ""

	switch {
	case key.Matches(msg, m.keyMap.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keyMap.Submit):
		return m.submit()

	case key.Matches(msg, m.keyMap.NewChat):
		m.manager.NewChat()
		m.refreshTranscript()
		return m, nil

	case key.Matches(msg, m.keyMap.DeleteChat):
		if id := m.manager.ActiveChatID(); id != "" {
			m.manager.DeleteChat(id)
		}
		m.refreshTranscript()
		return m, nil

	case key.Matches(msg, m.keyMap.PrevChat):
		m.selectAdjacentChat(-1)
		return m, nil

	case key.Matches(msg, m.keyMap.NextChat):
		m.selectAdjacentChat(1)
		return m, nil

	case key.Matches(msg, m.keyMap.CycleMode):
		m.cycleMode()
		return m, nil

	case key.Matches(msg, m.keyMap.Theme):
		m.theme = m.theme.Toggle()
		m.spinner.Style = m.theme.Spinner
		m.refreshTranscript()
		return m, saveThemeCmd(m.store, m.theme.Variant)

	case key.Matches(msg, m.keyMap.Export):
		if chat := m.manager.ActiveChat(); chat != nil && m.exportDir != "" {
			return m, exportCmd(chat, m.exportDir)
		}
		return m, nil

	case key.Matches(msg, m.keyMap.ScrollUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keyMap.ScrollDown):
		m.viewport.HalfViewDown()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit starts a send transaction for the typed text.
func (m Model) submit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}
	if m.manager.Busy() {
		m.statusMsg = "Still thinking..."
		return m, nil
	}

	m.input.Reset()
	mode := m.manager.Mode()
	cmd := sendCmd(m.manager, text, mode)

	// Nudge toward a better mode when the phrasing suggests one and the
	// user has not picked one themselves.
	if hint := router.SuggestMode(text); mode == model.ModeChat && hint != mode {
		m.statusMsg = "Hint: " + hint.DisplayName() + " mode suits prompts like this (Tab to switch)"
	}

	// The send runs as a command; spinner ticks redraw the optimistic
	// insert while in flight and sendDoneMsg delivers the settle.
	m.refreshTranscript()
	m.viewport.GotoBottom()
	return m, cmd
}

// cycleMode advances the conversation mode in Tab order.
func (m *Model) cycleMode() {
	current := m.manager.Mode()
	for i, mode := range modeCycle {
		if mode == current {
			m.manager.SetMode(modeCycle[(i+1)%len(modeCycle)])
			return
		}
	}
	m.manager.SetMode(modeCycle[0])
}

// selectAdjacentChat moves the active chat pointer within the sidebar.
func (m *Model) selectAdjacentChat(delta int) {
	chats := m.manager.Chats()
	if len(chats) == 0 {
		return
	}
	active := m.manager.ActiveChatID()
	idx := 0
	for i, chat := range chats {
		if chat.ID == active {
			idx = i
			break
		}
	}
	idx += delta
	if idx < 0 {
		idx = 0
	}
	if idx >= len(chats) {
		idx = len(chats) - 1
	}
	m.manager.SelectChat(chats[idx].ID)
	m.refreshTranscript()
	m.viewport.GotoBottom()
}

// resize lays the components out for the current terminal size.
func (m *Model) resize() {
	headerHeight := 1
	inputHeight := 2
	statusHeight := 1

	vpWidth := m.width - sidebarWidth - 1
	if vpWidth < 20 {
		vpWidth = 20
	}
	vpHeight := m.height - headerHeight - inputHeight - statusHeight
	if vpHeight < 3 {
		vpHeight = 3
	}

	if !m.ready {
		m.viewport = newViewport(vpWidth, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = vpWidth
		m.viewport.Height = vpHeight
	}
	m.input.Width = m.width - 6
}

// refreshTranscript re-renders the active chat into the viewport.
func (m *Model) refreshTranscript() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderTranscript())
}
