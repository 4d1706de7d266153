// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"testing"
)

// =============================================================================
// ID ALLOCATION TESTS
// =============================================================================

func TestNextID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NextID()
		if seen[id] {
			t.Fatalf("NextID() returned duplicate %q", id)
		}
		seen[id] = true
	}
}

func TestNewMessage_TimestampsStrictlyIncrease(t *testing.T) {
	first := NewUserMessage("hello", nil)
	second := NewThinkingMessage()

	if !second.Timestamp.After(first.Timestamp) {
		t.Errorf("second timestamp %v not after first %v", second.Timestamp, first.Timestamp)
	}
	if first.ID == second.ID {
		t.Error("consecutive messages share an ID")
	}
}

// =============================================================================
// CHAT TESTS
// =============================================================================

func TestNameFromText(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"short text kept", "hello there", "hello there"},
		{"empty text falls back", "", FallbackChatName},
		{
			"long text truncated to 30 runes",
			"this message is definitely longer than thirty characters",
			"this message is definitely lon",
		},
		{"unicode counted in runes", strings.Repeat("ação", 10), strings.Repeat("ação", 7) + "aç"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := NameFromText(tc.text)
			if got != tc.want {
				t.Errorf("NameFromText(%q) = %q, want %q", tc.text, got, tc.want)
			}
			if len([]rune(got)) > MaxChatNameRunes {
				t.Errorf("name %q exceeds %d runes", got, MaxChatNameRunes)
			}
		})
	}
}

func TestChat_ReplaceMessage(t *testing.T) {
	chat := NewChat("Chat 1")
	chat.AppendMessage(NewUserMessage("question", nil))
	placeholder := NewThinkingMessage()
	chat.AppendMessage(placeholder)

	final := NewModelMessage("answer")
	if !chat.ReplaceMessage(placeholder.ID, final) {
		t.Fatal("ReplaceMessage did not find the placeholder")
	}
	if chat.MessageCount() != 2 {
		t.Errorf("MessageCount = %d, want 2", chat.MessageCount())
	}
	if chat.Messages[1] != final {
		t.Error("replacement not at the placeholder's position")
	}
	if chat.ReplaceMessage("missing", final) {
		t.Error("ReplaceMessage matched a missing ID")
	}
}

func TestChat_RemoveMessage(t *testing.T) {
	chat := NewChat("Chat 1")
	msg := NewUserMessage("hi", nil)
	chat.AppendMessage(msg)

	if !chat.RemoveMessage(msg.ID) {
		t.Fatal("RemoveMessage did not find the message")
	}
	if !chat.IsEmpty() {
		t.Error("chat should be empty after removal")
	}
	if chat.RemoveMessage(msg.ID) {
		t.Error("RemoveMessage should be a no-op on a missing ID")
	}
}

func TestChat_HistorySnapshot_ExcludesThinking(t *testing.T) {
	chat := NewChat("Chat 1")
	chat.AppendMessage(NewUserMessage("one", nil))
	chat.AppendMessage(NewModelMessage("two"))
	chat.AppendMessage(NewThinkingMessage())

	history := chat.HistorySnapshot()
	if len(history) != 2 {
		t.Fatalf("history length = %d, want 2", len(history))
	}
	for _, msg := range history {
		if msg.IsThinking {
			t.Error("history contains a thinking message")
		}
	}

	// The snapshot must be detached from the chat.
	chat.AppendMessage(NewUserMessage("three", nil))
	if len(history) != 2 {
		t.Error("snapshot grew after a later append")
	}
}

func TestChat_DropThinking(t *testing.T) {
	chat := NewChat("Chat 1")
	chat.AppendMessage(NewUserMessage("one", nil))
	chat.AppendMessage(NewThinkingMessage())
	chat.DropThinking()

	if chat.MessageCount() != 1 {
		t.Errorf("MessageCount = %d, want 1", chat.MessageCount())
	}
	if chat.Messages[0].Role != RoleUser {
		t.Error("surviving message should be the user message")
	}
}

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestMessage_Preview(t *testing.T) {
	msg := NewUserMessage("a fairly long message body for preview", nil)
	got := msg.Preview(10)
	if len([]rune(got)) > 10 {
		t.Errorf("Preview(10) = %q, longer than 10 runes", got)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("Preview(10) = %q, want ellipsis suffix", got)
	}
}

func TestMessage_HasImages(t *testing.T) {
	msg := NewModelMessage("")
	msg.Attachments = []Attachment{NewAttachment("out.png", AttachmentImage, "image/png")}
	if !msg.HasImages() {
		t.Error("HasImages should be true for an image attachment")
	}

	msg.Attachments = []Attachment{NewAttachment("notes.txt", AttachmentFile, "text/plain")}
	if msg.HasImages() {
		t.Error("HasImages should be false for a plain file")
	}
}

func TestMode_Valid(t *testing.T) {
	for _, mode := range []Mode{ModeChat, ModeWebSearch, ModeImageGen, ModeInvestigate} {
		if !mode.Valid() {
			t.Errorf("mode %q should be valid", mode)
		}
	}
	if Mode("voice").Valid() {
		t.Error("unknown mode should not be valid")
	}
}

func TestTheme_Toggle(t *testing.T) {
	if ThemeDark.Toggle() != ThemeLight || ThemeLight.Toggle() != ThemeDark {
		t.Error("Toggle should flip between light and dark")
	}
}
