// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"time"

	"github.com/jeranaias/aetheris-tui/internal/model"
	"github.com/jeranaias/aetheris-tui/internal/util"
)

// =============================================================================
// CHAT EXPORT
// =============================================================================

// ExportMarkdown renders a chat as a Markdown transcript. Thinking
// placeholders are skipped; attachments are listed by name.
func ExportMarkdown(chat *model.Chat) string {
	var sb strings.Builder
	sb.WriteString("# " + chat.Name + "\n\n")
	sb.WriteString("Created: " + chat.CreatedAt.Format(time.RFC3339) + "\n\n")
	sb.WriteString("---\n\n")

	for _, msg := range chat.Messages {
		if msg.IsThinking {
			continue
		}
		sb.WriteString("**" + msg.Role.DisplayName() + "** (" + msg.Timestamp.Format("15:04") + "):\n\n")
		sb.WriteString(msg.Text)
		sb.WriteString("\n")
		for _, att := range msg.Attachments {
			sb.WriteString("\n- Attachment: " + att.Name + " (" + att.MimeType + ")")
		}
		sb.WriteString("\n---\n\n")
	}

	return sb.String()
}

// ExportJSON renders a chat as pretty-printed JSON.
func ExportJSON(chat *model.Chat) ([]byte, error) {
	return json.MarshalIndent(chat, "", "  ")
}

// WriteExport writes an exported chat transcript to dir, named from the
// chat ID and format, and returns the written path.
func WriteExport(chat *model.Chat, dir, format string) (string, error) {
	var data []byte
	var ext string

	switch format {
	case "json":
		var err error
		data, err = ExportJSON(chat)
		if err != nil {
			return "", err
		}
		ext = ".json"
	default:
		data = []byte(ExportMarkdown(chat))
		ext = ".md"
	}

	path := filepath.Join(dir, "chat-"+chat.ID+ext)
	if err := util.AtomicWriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}
