// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/jeranaias/aetheris-tui/internal/util"
)

// MaxChatNameRunes is the maximum length of an auto-generated chat name.
const MaxChatNameRunes = 30

// FallbackChatName names a chat whose first message carried no text.
const FallbackChatName = "New Conversation"

// =============================================================================
// CHAT TYPE
// =============================================================================

// Chat holds a named, ordered sequence of messages with an independent
// lifecycle. Messages and attachments are owned by their parent chat and
// never shared across chats.
type Chat struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Messages  []*Message `json:"messages"`
	CreatedAt time.Time  `json:"created_at"`
}

// NewChat creates an empty chat with a time-based ID.
func NewChat(name string) *Chat {
	return &Chat{
		ID:        NextID(),
		Name:      name,
		Messages:  make([]*Message, 0),
		CreatedAt: time.Now(),
	}
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// Clone returns a deep copy of the chat, its messages, and their
// attachments. Mutating a clone never touches the original.
func (c *Chat) Clone() *Chat {
	out := *c
	out.Messages = make([]*Message, len(c.Messages))
	for i, msg := range c.Messages {
		out.Messages[i] = msg.Clone()
	}
	return &out
}

// AppendMessage adds a message to the end of the chat.
func (c *Chat) AppendMessage(msg *Message) {
	c.Messages = append(c.Messages, msg)
}

// RemoveMessage removes the message with the given ID.
// Returns false if no message matched.
func (c *Chat) RemoveMessage(id string) bool {
	for i, msg := range c.Messages {
		if msg.ID == id {
			c.Messages = append(c.Messages[:i], c.Messages[i+1:]...)
			return true
		}
	}
	return false
}

// ReplaceMessage swaps the message with the given ID for a replacement,
// preserving its position. Returns false if no message matched.
func (c *Chat) ReplaceMessage(id string, replacement *Message) bool {
	for i, msg := range c.Messages {
		if msg.ID == id {
			c.Messages[i] = replacement
			return true
		}
	}
	return false
}

// MessageByID returns the message with the given ID, or nil.
func (c *Chat) MessageByID(id string) *Message {
	for _, msg := range c.Messages {
		if msg.ID == id {
			return msg
		}
	}
	return nil
}

// MessageCount returns the number of messages in the chat.
func (c *Chat) MessageCount() int {
	return len(c.Messages)
}

// IsEmpty reports whether the chat has no messages.
func (c *Chat) IsEmpty() bool {
	return len(c.Messages) == 0
}

// =============================================================================
// HISTORY
// =============================================================================

// HistorySnapshot returns a copy of the current message sequence with
// any thinking placeholder excluded. The slice is independent of the
// chat, so later mutations do not leak into an in-flight generation.
func (c *Chat) HistorySnapshot() []*Message {
	history := make([]*Message, 0, len(c.Messages))
	for _, msg := range c.Messages {
		if msg.IsThinking {
			continue
		}
		history = append(history, msg)
	}
	return history
}

// DropThinking removes any thinking placeholders from the chat.
// Used when restoring a saved snapshot that caught a send mid-flight.
func (c *Chat) DropThinking() {
	kept := c.Messages[:0]
	for _, msg := range c.Messages {
		if !msg.IsThinking {
			kept = append(kept, msg)
		}
	}
	c.Messages = kept
}

// =============================================================================
// NAMING
// =============================================================================

// NameFromText derives a chat display name from first-message text:
// a prefix of at most MaxChatNameRunes runes, or the fallback literal
// when the text is empty.
func NameFromText(text string) string {
	if text == "" {
		return FallbackChatName
	}
	return util.TruncateRunesNoEllipsis(text, MaxChatNameRunes)
}
