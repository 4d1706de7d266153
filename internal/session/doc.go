// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session implements the application's conversation state manager.
//
// The Manager owns the chat collection and the active-chat pointer, and
// orchestrates the send-message transaction: optimistic user-message
// insert, thinking placeholder, generator dispatch, then finalize on
// success or rollback on failure. The presentation layer never mutates
// chats directly; it calls Manager methods and renders what it reads
// back. Persistence is a one-way mirror written through after every
// mutation and read once at startup.
package session
