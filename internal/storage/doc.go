// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists Aetheris chats and user preferences.
//
// Two backends implement the same Store interface:
//
//   - SnapshotStore: the full chat collection as one JSON file under
//     the data directory, written atomically. The default.
//   - SQLiteStore: normalized chats/messages/attachments tables in a
//     single SQLite database file. Opt-in via configuration.
//
// Both backends persist whole collections with last-write-wins
// semantics; callers own ordering and dedup. A missing data file or
// empty database loads as an empty collection, never an error.
//
// # Usage
//
// Create a store and save the collection:
//
//	store, err := storage.NewSnapshotStore(dataDir)
//	err = store.SaveChats(chats)
//
// Load on startup:
//
//	chats, err := store.LoadChats()
package storage
