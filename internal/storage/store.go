// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"github.com/jeranaias/aetheris-tui/internal/model"
)

// =============================================================================
// STORE INTERFACE
// =============================================================================

// Store is the persistence surface the rest of the application sees.
// Implementations replace the stored collection wholesale on save.
type Store interface {
	// SaveChats replaces the persisted collection with the given one.
	SaveChats(chats []*model.Chat) error

	// LoadChats returns the persisted collection. No persisted data
	// yields an empty slice and a nil error.
	LoadChats() ([]*model.Chat, error)

	// SaveTheme persists the UI theme preference.
	SaveTheme(theme model.Theme) error

	// LoadTheme returns the persisted theme preference, or ErrNotFound
	// when none was ever saved.
	LoadTheme() (model.Theme, error)
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrNotFound is returned when a requested record doesn't exist.
// Use errors.Is(err, ErrNotFound) to check for this error.
var ErrNotFound = &StoreError{Message: "record not found"}

// StoreError represents a storage-related error.
// It implements the error interface and can be compared using errors.Is.
type StoreError struct {
	Message string
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	return e.Message
}

// Is implements errors.Is support for comparing store errors.
func (e *StoreError) Is(target error) bool {
	t, ok := target.(*StoreError)
	if !ok {
		return false
	}
	return e.Message == t.Message
}
