// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/jeranaias/aetheris-tui/internal/model"
	"github.com/jeranaias/aetheris-tui/internal/util"
)

// snapshotVersion is the on-disk format version, bumped on any
// incompatible change to the snapshot shape.
const snapshotVersion = 1

const (
	chatsFileName = "chats.json"
	prefsFileName = "preferences.json"
)

// =============================================================================
// SNAPSHOT TYPES
// =============================================================================

// chatSnapshot is the on-disk envelope for the whole chat collection.
type chatSnapshot struct {
	Version int           `json:"version"`
	SavedAt time.Time     `json:"saved_at"`
	Chats   []*model.Chat `json:"chats"`
}

// preferences holds persisted user preferences.
type preferences struct {
	Version int    `json:"version"`
	Theme   string `json:"theme,omitempty"`
}

// =============================================================================
// SNAPSHOT STORE
// =============================================================================

// SnapshotStore persists the chat collection as a single JSON file.
type SnapshotStore struct {
	// BaseDir is the data directory.
	// Default: ~/.aetheris/
	BaseDir string
}

// NewSnapshotStore creates a snapshot store rooted at baseDir, creating
// the directory if needed. An empty baseDir uses ~/.aetheris.
func NewSnapshotStore(baseDir string) (*SnapshotStore, error) {
	if baseDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		baseDir = filepath.Join(homeDir, ".aetheris")
	}

	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}

	return &SnapshotStore{BaseDir: baseDir}, nil
}

// =============================================================================
// CHAT OPERATIONS
// =============================================================================

// SaveChats replaces the persisted collection.
func (s *SnapshotStore) SaveChats(chats []*model.Chat) error {
	snap := chatSnapshot{
		Version: snapshotVersion,
		SavedAt: time.Now(),
		Chats:   chats,
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}

	// RELIABILITY: Atomic write with fsync prevents data loss on crash
	return util.AtomicWriteFile(filepath.Join(s.BaseDir, chatsFileName), data, 0644)
}

// LoadChats returns the persisted collection. A missing snapshot file
// loads as an empty collection.
func (s *SnapshotStore) LoadChats() ([]*model.Chat, error) {
	data, err := os.ReadFile(filepath.Join(s.BaseDir, chatsFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return []*model.Chat{}, nil
		}
		return nil, err
	}

	var snap chatSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	if snap.Chats == nil {
		return []*model.Chat{}, nil
	}
	return snap.Chats, nil
}

// =============================================================================
// PREFERENCE OPERATIONS
// =============================================================================

// SaveTheme persists the theme preference.
func (s *SnapshotStore) SaveTheme(theme model.Theme) error {
	prefs, err := s.loadPreferences()
	if err != nil {
		return err
	}
	prefs.Theme = string(theme)

	data, err := json.MarshalIndent(prefs, "", "  ")
	if err != nil {
		return err
	}
	return util.AtomicWriteFile(filepath.Join(s.BaseDir, prefsFileName), data, 0644)
}

// LoadTheme returns the persisted theme preference.
func (s *SnapshotStore) LoadTheme() (model.Theme, error) {
	prefs, err := s.loadPreferences()
	if err != nil {
		return "", err
	}
	if prefs.Theme == "" {
		return "", ErrNotFound
	}
	theme := model.Theme(prefs.Theme)
	if !theme.Valid() {
		return "", ErrNotFound
	}
	return theme, nil
}

// loadPreferences reads the preferences file, returning zero-valued
// preferences when none exists yet.
func (s *SnapshotStore) loadPreferences() (preferences, error) {
	prefs := preferences{Version: snapshotVersion}

	data, err := os.ReadFile(filepath.Join(s.BaseDir, prefsFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return prefs, nil
		}
		return prefs, err
	}
	if err := json.Unmarshal(data, &prefs); err != nil {
		return preferences{Version: snapshotVersion}, nil // Corrupted prefs reset to defaults
	}
	return prefs, nil
}
