// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth provides local account handling for the Aetheris TUI.
//
// Accounts live in a JSON credential file under the data directory with
// bcrypt password hashes. Any user may additionally enroll a TOTP
// second factor.
//
// When no accounts exist yet the store runs in demo mode: any
// email and non-empty password sign in as an ad-hoc user named from
// the email's local part. Registering a first account ends demo mode.
package auth
