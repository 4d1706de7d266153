// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/jeranaias/aetheris-tui/internal/model"
)

// schemaVersion tracks the database schema version for migrations.
const schemaVersion = 1

// SQLite schema for the chat database.
const schema = `
-- Settings table for preferences and schema version
CREATE TABLE IF NOT EXISTS settings (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
) WITHOUT ROWID;

-- Chats table: one row per conversation, position preserves sidebar order
CREATE TABLE IF NOT EXISTS chats (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    created_at INTEGER NOT NULL,  -- Unix milliseconds
    position INTEGER NOT NULL
);

-- Messages table: ordered messages per chat
CREATE TABLE IF NOT EXISTS messages (
    id TEXT PRIMARY KEY,
    chat_id TEXT NOT NULL,
    role TEXT NOT NULL,           -- user, model
    text TEXT NOT NULL,
    timestamp INTEGER NOT NULL,   -- Unix milliseconds
    is_thinking INTEGER NOT NULL DEFAULT 0,
    position INTEGER NOT NULL,
    FOREIGN KEY(chat_id) REFERENCES chats(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_messages_chat_id ON messages(chat_id);

-- Attachments table: files and generated images carried by messages
CREATE TABLE IF NOT EXISTS attachments (
    id TEXT PRIMARY KEY,
    message_id TEXT NOT NULL,
    name TEXT NOT NULL,
    kind TEXT NOT NULL,           -- image, file
    mime_type TEXT NOT NULL,
    data TEXT,                    -- base64 payload
    position INTEGER NOT NULL,
    FOREIGN KEY(message_id) REFERENCES messages(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_attachments_message_id ON attachments(message_id);
`

const initSettings = `
INSERT OR IGNORE INTO settings (key, value) VALUES ('schema_version', '1');
`

// =============================================================================
// SQLITE STORE
// =============================================================================

// SQLiteStore persists chats in a single SQLite database file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Single writer; the pure Go driver serializes access anyway.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	if _, err := db.Exec(initSettings); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// =============================================================================
// CHAT OPERATIONS
// =============================================================================

// SaveChats replaces the persisted collection in one transaction.
func (s *SQLiteStore) SaveChats(chats []*model.Chat) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Replace-all keeps save semantics identical to the snapshot store.
	if _, err := tx.Exec("DELETE FROM chats"); err != nil {
		return err
	}

	for pos, chat := range chats {
		_, err := tx.Exec(
			"INSERT INTO chats (id, name, created_at, position) VALUES (?, ?, ?, ?)",
			chat.ID, chat.Name, chat.CreatedAt.UnixMilli(), pos,
		)
		if err != nil {
			return err
		}

		for mpos, msg := range chat.Messages {
			thinking := 0
			if msg.IsThinking {
				thinking = 1
			}
			_, err := tx.Exec(
				"INSERT INTO messages (id, chat_id, role, text, timestamp, is_thinking, position) VALUES (?, ?, ?, ?, ?, ?, ?)",
				msg.ID, chat.ID, string(msg.Role), msg.Text, msg.Timestamp.UnixMilli(), thinking, mpos,
			)
			if err != nil {
				return err
			}

			for apos, att := range msg.Attachments {
				_, err := tx.Exec(
					"INSERT INTO attachments (id, message_id, name, kind, mime_type, data, position) VALUES (?, ?, ?, ?, ?, ?, ?)",
					att.ID, msg.ID, att.Name, string(att.Kind), att.MimeType, att.Base64, apos,
				)
				if err != nil {
					return err
				}
			}
		}
	}

	return tx.Commit()
}

// LoadChats returns the persisted collection in saved order.
func (s *SQLiteStore) LoadChats() ([]*model.Chat, error) {
	rows, err := s.db.Query("SELECT id, name, created_at FROM chats ORDER BY position")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	chats := []*model.Chat{}
	for rows.Next() {
		var chat model.Chat
		var createdAt int64
		if err := rows.Scan(&chat.ID, &chat.Name, &createdAt); err != nil {
			return nil, err
		}
		chat.CreatedAt = time.UnixMilli(createdAt)
		chat.Messages = []*model.Message{}
		chats = append(chats, &chat)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, chat := range chats {
		if err := s.loadMessages(chat); err != nil {
			return nil, err
		}
	}
	return chats, nil
}

// loadMessages fills in a chat's messages and their attachments.
func (s *SQLiteStore) loadMessages(chat *model.Chat) error {
	rows, err := s.db.Query(
		"SELECT id, role, text, timestamp, is_thinking FROM messages WHERE chat_id = ? ORDER BY position",
		chat.ID,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var msg model.Message
		var role string
		var ts int64
		var thinking int
		if err := rows.Scan(&msg.ID, &role, &msg.Text, &ts, &thinking); err != nil {
			return err
		}
		msg.Role = model.Role(role)
		msg.Timestamp = time.UnixMilli(ts)
		msg.IsThinking = thinking != 0
		chat.Messages = append(chat.Messages, &msg)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, msg := range chat.Messages {
		if err := s.loadAttachments(msg); err != nil {
			return err
		}
	}
	return nil
}

// loadAttachments fills in a message's attachments.
func (s *SQLiteStore) loadAttachments(msg *model.Message) error {
	rows, err := s.db.Query(
		"SELECT id, name, kind, mime_type, data FROM attachments WHERE message_id = ? ORDER BY position",
		msg.ID,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var att model.Attachment
		var kind string
		if err := rows.Scan(&att.ID, &att.Name, &kind, &att.MimeType, &att.Base64); err != nil {
			return err
		}
		att.Kind = model.AttachmentKind(kind)
		msg.Attachments = append(msg.Attachments, att)
	}
	return rows.Err()
}

// =============================================================================
// PREFERENCE OPERATIONS
// =============================================================================

// SaveTheme persists the theme preference.
func (s *SQLiteStore) SaveTheme(theme model.Theme) error {
	_, err := s.db.Exec(
		"INSERT INTO settings (key, value) VALUES ('theme', ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		string(theme),
	)
	return err
}

// LoadTheme returns the persisted theme preference.
func (s *SQLiteStore) LoadTheme() (model.Theme, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM settings WHERE key = 'theme'").Scan(&value)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	theme := model.Theme(value)
	if !theme.Valid() {
		return "", ErrNotFound
	}
	return theme, nil
}
