// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backend

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jeranaias/aetheris-tui/internal/model"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrNotConfigured indicates no backend URL is set.
	ErrNotConfigured = errors.New("backend URL not configured")

	// ErrRateLimited indicates the backend kept refusing with 429
	// through every retry attempt.
	ErrRateLimited = errors.New("rate limited")

	// ErrBackendUnavailable indicates the backend could not be reached
	// or kept failing with server errors through every retry attempt.
	ErrBackendUnavailable = errors.New("backend unavailable")
)

// APIError is a structured error returned by the backend itself
// (FastAPI-style {"detail": ...} body).
type APIError struct {
	Status int
	Detail string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend error (HTTP %d): %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("backend error (HTTP %d)", e.Status)
}

// =============================================================================
// WIRE TYPES
// =============================================================================

// wireMessage is one turn of conversation history on the wire.
type wireMessage struct {
	Role string `json:"role"` // "user" or "model"
	Text string `json:"text"`
}

// wireAttachment carries an uploaded file to the backend.
type wireAttachment struct {
	Name     string `json:"name"`
	MimeType string `json:"mime_type"`
	Data     string `json:"data,omitempty"` // base64
}

// chatRequest is the request body for POST /chat.
type chatRequest struct {
	Message     string           `json:"message"`
	History     []wireMessage    `json:"history,omitempty"`
	Attachments []wireAttachment `json:"attachments,omitempty"`
	Mode        string           `json:"mode,omitempty"`
}

// wireSource is one retrieved citation under web_search.
type wireSource struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// wireImage is one generated image artifact under image_gen.
type wireImage struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"` // base64
}

// chatResponse is the response body for POST /chat.
type chatResponse struct {
	Response string       `json:"response"`
	Sources  []wireSource `json:"sources,omitempty"`
	Images   []wireImage  `json:"images,omitempty"`
}

// errorResponse is the backend's error body.
type errorResponse struct {
	Detail string `json:"detail"`
}

// =============================================================================
// RESPONSE POST-PROCESSING
// =============================================================================

// renderSources appends a readable citation list to reply text.
func renderSources(text string, sources []wireSource) string {
	if len(sources) == 0 {
		return text
	}

	var sb strings.Builder
	sb.WriteString(text)
	sb.WriteString("\n\nSources:\n")
	for i, src := range sources {
		sb.WriteString(fmt.Sprintf("%d. %s (%s)\n", i+1, src.Title, src.URL))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// imageAttachments converts wire images to model attachments.
func imageAttachments(images []wireImage) []model.Attachment {
	if len(images) == 0 {
		return nil
	}
	out := make([]model.Attachment, 0, len(images))
	for i, img := range images {
		att := model.NewAttachment(
			fmt.Sprintf("generated-%d%s", i+1, extensionFor(img.MimeType)),
			model.AttachmentImage,
			img.MimeType,
		)
		att.Base64 = img.Data
		out = append(out, att)
	}
	return out
}

// extensionFor maps common image MIME types to file extensions.
func extensionFor(mimeType string) string {
	switch mimeType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ""
	}
}
