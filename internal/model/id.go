// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strconv"
	"sync"
	"time"
)

// =============================================================================
// ID ALLOCATION
// =============================================================================

var (
	stampMu   sync.Mutex
	lastStamp int64
)

// nextStamp returns a unix-millisecond timestamp guaranteed to be strictly
// greater than any previously returned value in this process. Two entities
// allocated back to back therefore never share an ID, and a message created
// after another always carries a later timestamp.
func nextStamp() int64 {
	stampMu.Lock()
	defer stampMu.Unlock()

	now := time.Now().UnixMilli()
	if now <= lastStamp {
		now = lastStamp + 1
	}
	lastStamp = now
	return now
}

// NextID allocates a time-based identifier unique within the session.
func NextID() string {
	return strconv.FormatInt(nextStamp(), 10)
}
