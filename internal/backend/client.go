// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/jeranaias/aetheris-tui/internal/model"
	"github.com/jeranaias/aetheris-tui/internal/session"
)

// Configuration constants for the Aetheris backend API.
const (
	// DefaultBaseURL is where a locally run backend listens.
	DefaultBaseURL = "http://localhost:8000"

	// DefaultTimeout bounds a single chat request. Investigate mode is
	// allowed a longer budget; see investigateTimeout.
	DefaultTimeout = 60 * time.Second

	// investigateTimeout is the per-request budget in investigate mode,
	// which is permitted higher latency by contract.
	investigateTimeout = 5 * time.Minute

	// DefaultMaxRetries is the number of retry attempts for transient
	// errors (429 and 5xx) before failure is surfaced to the caller.
	DefaultMaxRetries = 3

	// retryBaseDelay is the base delay for exponential backoff.
	retryBaseDelay = 500 * time.Millisecond

	// retryMaxDelay caps the exponential backoff delay.
	retryMaxDelay = 10 * time.Second

	// MaxResponseSize caps the response body read.
	// SECURITY: Response size limit prevents memory exhaustion.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB
)

// PERFORMANCE: Connection pooling reduces TCP handshake overhead.
// One shared HTTP transport for all backend requests; per-request
// deadlines come from the context, not the client.
var sharedTransport = &http.Transport{
	MaxIdleConns:        100,
	MaxIdleConnsPerHost: 10,
	IdleConnTimeout:     90 * time.Second,
	TLSHandshakeTimeout: 10 * time.Second,
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the Aetheris backend API. It implements
// session.Generator. Safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
	timeout    time.Duration
	retryBase  time.Duration

	// limiter smooths bursts client-side so rapid resends do not trip
	// the backend's rate limits in the first place.
	limiter *rate.Limiter
}

// NewClient creates a client for the given base URL. An empty URL still
// yields a usable client whose Generate fails with ErrNotConfigured.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{Transport: sharedTransport},
		maxRetries: DefaultMaxRetries,
		timeout:    DefaultTimeout,
		retryBase:  retryBaseDelay,
		limiter:    rate.NewLimiter(rate.Every(time.Second), 2),
	}
}

// WithTimeout sets the per-request timeout.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	if timeout > 0 {
		c.timeout = timeout
	}
	return c
}

// WithMaxRetries sets the retry budget for transient errors.
func (c *Client) WithMaxRetries(maxRetries int) *Client {
	if maxRetries >= 0 {
		c.maxRetries = maxRetries
	}
	return c
}

// IsConfigured reports whether a backend URL is set.
func (c *Client) IsConfigured() bool {
	return c.baseURL != ""
}

// =============================================================================
// GENERATION
// =============================================================================

// Generate sends the prompt, history, and attachments to the backend
// and returns the settled reply. Implements session.Generator.
//
// Mode handling:
//   - web_search: returned source citations are rendered onto the text.
//   - image_gen: returned images become image attachments; when the
//     backend produced neither text nor images, a fixed apology text
//     stands in so the transaction still finalizes.
//   - investigate: request shape identical to chat, longer timeout.
func (c *Client) Generate(ctx context.Context, req session.Request) (*session.Response, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}

	body, err := json.Marshal(buildChatRequest(req))
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	timeout := c.timeout
	if req.Mode == model.ModeInvestigate {
		timeout = investigateTimeout
	}
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	wire, err := c.postChatWithRetry(reqCtx, body)
	if err != nil {
		return nil, err
	}

	resp := &session.Response{Text: wire.Response}
	switch req.Mode {
	case model.ModeWebSearch:
		resp.Text = renderSources(resp.Text, wire.Sources)
	case model.ModeImageGen:
		resp.Attachments = imageAttachments(wire.Images)
		if resp.Text == "" && len(resp.Attachments) == 0 {
			resp.Text = "I couldn't create that image this time. Try rephrasing your prompt!"
		}
	}
	return resp, nil
}

// buildChatRequest maps the logical request onto the wire shape.
func buildChatRequest(req session.Request) chatRequest {
	wire := chatRequest{
		Message: req.Prompt,
		Mode:    req.Mode.String(),
	}
	for _, msg := range req.History {
		wire.History = append(wire.History, wireMessage{
			Role: msg.Role.String(),
			Text: msg.Text,
		})
	}
	for _, att := range req.Attachments {
		wire.Attachments = append(wire.Attachments, wireAttachment{
			Name:     att.Name,
			MimeType: att.MimeType,
			Data:     att.Base64,
		})
	}
	return wire
}

// =============================================================================
// TRANSPORT
// =============================================================================

// postChatWithRetry performs POST /chat with bounded exponential
// backoff on 429 and 5xx. Backoff: 500ms, 1s, 2s, ... capped at 10s.
func (c *Client) postChatWithRetry(ctx context.Context, body []byte) (*chatResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	url := c.baseURL + "/chat"
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := c.retryBase << (attempt - 1)
			if delay > retryMaxDelay {
				delay = retryMaxDelay
			}
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.Header.Set("User-Agent", "aetheris-tui/0.1")

		log.Printf("backend: POST /chat (attempt %d)", attempt+1)
		start := time.Now()
		httpResp, err := c.httpClient.Do(httpReq)
		if err != nil {
			// Network-level failure; retry unless the context is done.
			lastErr = err
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue
		}

		wire, retryable, err := decodeChatResponse(httpResp)
		log.Printf("backend: %d (%v)", httpResp.StatusCode, time.Since(start).Round(time.Millisecond))
		if err == nil {
			return wire, nil
		}
		lastErr = err
		if !retryable {
			return nil, err
		}
	}

	switch {
	case lastErr == nil:
		return nil, ErrBackendUnavailable
	default:
		return nil, fmt.Errorf("%w: %v", classifyTransient(lastErr), lastErr)
	}
}

// decodeChatResponse reads one HTTP response. The second return value
// reports whether the failure is worth retrying.
func decodeChatResponse(httpResp *http.Response) (*chatResponse, bool, error) {
	defer httpResp.Body.Close()

	limited := io.LimitReader(httpResp.Body, MaxResponseSize)
	data, err := io.ReadAll(limited)
	if err != nil {
		return nil, true, fmt.Errorf("read response: %w", err)
	}

	switch {
	case httpResp.StatusCode == http.StatusOK:
		var wire chatResponse
		if err := json.Unmarshal(data, &wire); err != nil {
			return nil, false, fmt.Errorf("decode response: %w", err)
		}
		return &wire, false, nil

	case httpResp.StatusCode == http.StatusTooManyRequests:
		return nil, true, fmt.Errorf("%w (HTTP 429)", ErrRateLimited)

	case httpResp.StatusCode >= 500:
		return nil, true, &APIError{Status: httpResp.StatusCode, Detail: decodeDetail(data)}

	default:
		// Client errors (4xx) are not transient; surface immediately.
		return nil, false, &APIError{Status: httpResp.StatusCode, Detail: decodeDetail(data)}
	}
}

// decodeDetail extracts the backend's {"detail": ...} message, if any.
func decodeDetail(data []byte) string {
	var er errorResponse
	if err := json.Unmarshal(data, &er); err != nil {
		return ""
	}
	return er.Detail
}

// classifyTransient maps an exhausted-retries error to a sentinel.
func classifyTransient(err error) error {
	if strings.Contains(err.Error(), "429") {
		return ErrRateLimited
	}
	return ErrBackendUnavailable
}
