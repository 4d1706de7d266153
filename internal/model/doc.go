// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chats, messages, and
// attachments, plus the per-message operating mode.
//
// All identifiers are time-based (millisecond resolution) and unique
// within a session; the allocator bumps forward on collision so rapid
// consecutive allocations still produce strictly increasing IDs and
// timestamps.
package model
