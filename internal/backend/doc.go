// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package backend implements the response generator: an HTTP client for
// the Aetheris backend API.
//
// The backend keeps the provider API key server-side; this client only
// ever speaks to it. The session manager depends on the settling
// contract: Generate returns a populated response or an error, never
// hangs (request timeout), and handles transient overload itself with
// bounded exponential-backoff retries. The session manager performs no
// retries of its own.
package backend
