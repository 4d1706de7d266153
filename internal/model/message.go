// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleModel:
		return "Aetheris"
	default:
		return string(r)
	}
}

// =============================================================================
// ATTACHMENT TYPE
// =============================================================================

// AttachmentKind distinguishes previewable images from opaque files.
type AttachmentKind string

const (
	AttachmentImage AttachmentKind = "image"
	AttachmentFile  AttachmentKind = "file"
)

// Attachment is a file carried by a message: either uploaded by the user
// alongside a prompt, or produced by the generator in image mode.
type Attachment struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Kind     AttachmentKind `json:"kind"`
	MimeType string         `json:"mime_type"`

	// Base64 holds the encoded content for small previewable payloads.
	Base64 string `json:"base64,omitempty"`

	// PreviewURL is an ephemeral, session-local handle (a temp file path
	// or data URL). Not valid across restarts, so never persisted.
	PreviewURL string `json:"-"`
}

// NewAttachment creates an attachment with a generated ID.
func NewAttachment(name string, kind AttachmentKind, mimeType string) Attachment {
	return Attachment{
		ID:       uuid.NewString(),
		Name:     name,
		Kind:     kind,
		MimeType: mimeType,
	}
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single message in a chat.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`

	Attachments []Attachment `json:"attachments,omitempty"`

	// IsThinking marks the transient placeholder for an in-flight
	// generation. A thinking message is always replaced or removed
	// before the send transaction completes; one that survives into a
	// saved snapshot (e.g. after a crash) is dropped on restore.
	IsThinking bool `json:"is_thinking,omitempty"`
}

// newMessage allocates a message whose ID and timestamp come from the
// same monotonic stamp, so later messages always compare strictly after.
func newMessage(role Role, text string) *Message {
	stamp := nextStamp()
	return &Message{
		ID:        strconv.FormatInt(stamp, 10),
		Role:      role,
		Text:      text,
		Timestamp: time.UnixMilli(stamp),
	}
}

// NewUserMessage creates a user message with optional attachments.
func NewUserMessage(text string, attachments []Attachment) *Message {
	msg := newMessage(RoleUser, text)
	msg.Attachments = attachments
	return msg
}

// NewModelMessage creates a finalized model message.
func NewModelMessage(text string) *Message {
	return newMessage(RoleModel, text)
}

// NewThinkingMessage creates the transient placeholder that marks an
// in-flight generation. Empty text, no attachments.
func NewThinkingMessage() *Message {
	msg := newMessage(RoleModel, "")
	msg.IsThinking = true
	return msg
}

// =============================================================================
// MESSAGE METHODS
// =============================================================================

// Preview returns a truncated preview of the message text.
// Rune-based so multi-byte characters are never split.
func (m *Message) Preview(maxRunes int) string {
	runes := []rune(m.Text)
	if len(runes) <= maxRunes {
		return m.Text
	}
	if maxRunes <= 3 {
		return string(runes[:maxRunes])
	}
	return string(runes[:maxRunes-3]) + "..."
}

// Clone returns a deep copy of the message and its attachments.
func (m *Message) Clone() *Message {
	out := *m
	if m.Attachments != nil {
		out.Attachments = make([]Attachment, len(m.Attachments))
		copy(out.Attachments, m.Attachments)
	}
	return &out
}

// IsEmpty reports whether the message has neither text nor attachments.
func (m *Message) IsEmpty() bool {
	return m.Text == "" && len(m.Attachments) == 0
}

// HasImages reports whether any attachment is an image.
func (m *Message) HasImages() bool {
	for _, a := range m.Attachments {
		if a.Kind == AttachmentImage {
			return true
		}
	}
	return false
}
