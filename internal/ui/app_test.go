// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/aetheris-tui/internal/model"
	"github.com/jeranaias/aetheris-tui/internal/session"
)

// stubGenerator settles immediately with a fixed reply.
type stubGenerator struct{}

func (stubGenerator) Generate(_ context.Context, _ session.Request) (*session.Response, error) {
	return &session.Response{Text: "ok"}, nil
}

// blockingGenerator holds the send in flight until released.
type blockingGenerator struct {
	started chan struct{}
	release chan struct{}
}

func (g *blockingGenerator) Generate(_ context.Context, _ session.Request) (*session.Response, error) {
	g.started <- struct{}{}
	<-g.release
	return &session.Response{Text: "done"}, nil
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	manager := session.NewManager(stubGenerator{}, nil, session.Options{})
	m := New(manager, nil, Options{
		User:  &model.User{Username: "ada", Email: "ada@example.com"},
		Theme: model.ThemeDark,
	})
	sized, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return sized.(Model)
}

func TestWindowSizeMakesReady(t *testing.T) {
	m := newTestModel(t)
	if !m.ready {
		t.Fatal("model not ready after window size")
	}
	view := m.View()
	if !strings.Contains(view, "Aetheris") {
		t.Error("view missing header title")
	}
	if !strings.Contains(view, "ada") {
		t.Error("view missing signed-in user")
	}
}

func TestNewChatKey(t *testing.T) {
	m := newTestModel(t)
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlN})
	m = updated.(Model)

	if len(m.manager.Chats()) != 1 {
		t.Fatalf("chats = %d, want 1", len(m.manager.Chats()))
	}
	if !strings.Contains(m.View(), "Chat 1") {
		t.Error("sidebar missing new chat name")
	}
}

func TestDeleteChatKey(t *testing.T) {
	m := newTestModel(t)
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlN})
	m = updated.(Model)
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlD})
	m = updated.(Model)

	if len(m.manager.Chats()) != 0 {
		t.Errorf("chats = %d, want 0 after delete", len(m.manager.Chats()))
	}
}

func TestCycleModeOrder(t *testing.T) {
	m := newTestModel(t)

	want := []model.Mode{
		model.ModeWebSearch,
		model.ModeImageGen,
		model.ModeInvestigate,
		model.ModeChat,
	}
	for _, expected := range want {
		updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
		m = updated.(Model)
		if got := m.manager.Mode(); got != expected {
			t.Fatalf("mode after tab = %q, want %q", got, expected)
		}
	}
}

func TestThemeToggleKey(t *testing.T) {
	m := newTestModel(t)
	if m.theme.Variant != model.ThemeDark {
		t.Fatalf("start variant = %q", m.theme.Variant)
	}
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	m = updated.(Model)
	if m.theme.Variant != model.ThemeLight {
		t.Errorf("variant after toggle = %q, want light", m.theme.Variant)
	}
}

func TestSubmitEmptyInputIsNoop(t *testing.T) {
	m := newTestModel(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("empty submit should not produce a command")
	}
}

func TestSpinnerTickShowsInFlightTranscript(t *testing.T) {
	gen := &blockingGenerator{started: make(chan struct{}, 1), release: make(chan struct{})}
	manager := session.NewManager(gen, nil, session.Options{})
	sized, _ := New(manager, nil, Options{Theme: model.ThemeDark}).
		Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m := sized.(Model)

	m.input.SetValue("tell me a story")
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	if cmd == nil {
		t.Fatal("submit returned no send command")
	}

	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	<-gen.started // placeholder is appended before the generator runs

	ticked, _ := m.Update(spinner.TickMsg{})
	m = ticked.(Model)
	view := m.View()
	if !strings.Contains(view, "thinking") {
		t.Error("in-flight view missing the thinking indicator")
	}
	if !strings.Contains(view, "tell me a story") {
		t.Error("in-flight view missing the optimistic user message")
	}

	close(gen.release)
	settled, _ := m.Update(<-done)
	m = settled.(Model)
	if strings.Contains(m.View(), "thinking...") {
		t.Error("thinking indicator survived settlement")
	}
}

func TestSubmitHintsBetterMode(t *testing.T) {
	m := newTestModel(t)
	m.input.SetValue("search for the latest news on solar flares")
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	if !strings.Contains(m.statusMsg, model.ModeWebSearch.DisplayName()) {
		t.Errorf("statusMsg = %q, want web search hint", m.statusMsg)
	}
}

func TestSubmitNoHintWhenModeChosen(t *testing.T) {
	m := newTestModel(t)
	m.manager.SetMode(model.ModeWebSearch)
	m.input.SetValue("search for the latest news on solar flares")
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	if m.statusMsg != "" {
		t.Errorf("statusMsg = %q, want empty", m.statusMsg)
	}
}

func TestSelectAdjacentChatClamps(t *testing.T) {
	m := newTestModel(t)
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlN})
	m = updated.(Model)
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlN})
	m = updated.(Model)

	// Newest chat sits at the head and is active.
	first := m.manager.ActiveChatID()
	m.selectAdjacentChat(-1)
	if m.manager.ActiveChatID() != first {
		t.Error("moving past the head should clamp")
	}
	m.selectAdjacentChat(1)
	if m.manager.ActiveChatID() == first {
		t.Error("next chat should change the active pointer")
	}
}

func TestStripANSI(t *testing.T) {
	in := "\x1b[1;35mAetheris\x1b[0m"
	if got := stripANSI(in); got != "Aetheris" {
		t.Errorf("stripANSI = %q", got)
	}
}
