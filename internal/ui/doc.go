// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ui provides the Bubble Tea application for Aetheris.
//
// The layout is a sidebar of chats, a scrollable transcript, an input
// line, and a status bar showing the active conversation mode. Sends
// run as background commands against the session manager; the UI polls
// the manager for state after every settle.
package ui
