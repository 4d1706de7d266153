// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// User identifies the person chatting. Created at login and immutable
// for the session; the credential store behind it is a separate concern.
type User struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}
