// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/jeranaias/aetheris-tui/internal/model"
	"github.com/jeranaias/aetheris-tui/internal/router"
	"github.com/jeranaias/aetheris-tui/internal/util"
)

// ImageRedirectText is the fixed assistant reply appended when image
// phrasing is detected outside image mode. Policy, not an error: image
// requests must be explicit about mode.
const ImageRedirectText = "I can't generate images in standard chat. " +
	"Please switch to 'Create Image' mode in the + menu!"

// GenerationFailedText is the visible assistant reply used in place of
// a silent rollback when Options.SurfaceErrors is enabled.
const GenerationFailedText = "Something went wrong while generating a reply. " +
	"Your message was kept; please try again."

// =============================================================================
// COLLABORATOR CONTRACTS
// =============================================================================

// Request is the logical request handed to the response generator.
type Request struct {
	Prompt      string
	History     []*model.Message
	Attachments []model.Attachment
	Mode        model.Mode
}

// Response is a settled generation result.
type Response struct {
	Text        string
	Attachments []model.Attachment
}

// Generator produces assistant replies. The manager relies on Generate
// always settling: either a populated response or an error, with no
// partial mutation of caller state. Retries for transient provider
// overload belong inside the generator; the manager performs none.
type Generator interface {
	Generate(ctx context.Context, req Request) (*Response, error)
}

// Store is the slice of the persistence collaborator the manager needs.
// Last write wins; no transactional guarantees are assumed.
type Store interface {
	SaveChats(chats []*model.Chat) error
	LoadChats() ([]*model.Chat, error)
}

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrGenerationInFlight is returned when a send targets a chat that
	// already has a pending generation. One placeholder per chat.
	ErrGenerationInFlight = errors.New("a generation is already in flight for this chat")

	// ErrNoGenerator is returned when the manager was built without a
	// response generator.
	ErrNoGenerator = errors.New("no response generator configured")
)

// =============================================================================
// MANAGER
// =============================================================================

// Options configures manager behavior.
type Options struct {
	// SurfaceErrors finalizes the placeholder with a visible error
	// message on generation failure instead of silently removing it.
	// Default false: silent rollback, failures only logged.
	SurfaceErrors bool
}

// Manager owns the chat collection (most-recent-first), the active-chat
// pointer, and the send transaction. Safe for concurrent use: all
// accessors return deep copies, so a settle mutating the live chats on
// another goroutine can never race a caller's reads.
type Manager struct {
	mu       sync.Mutex
	chats    []*model.Chat
	activeID string
	busy     bool
	inFlight map[string]bool
	mode     model.Mode

	gen    Generator
	store  Store
	opts   Options
	logger *log.Logger
}

// NewManager creates a manager and restores any persisted chats.
// Both gen and store may be nil: a nil store means session-only
// operation, a nil gen makes SendMessage fail fast.
func NewManager(gen Generator, store Store, opts Options) *Manager {
	m := &Manager{
		inFlight: make(map[string]bool),
		mode:     model.ModeChat,
		gen:      gen,
		store:    store,
		opts:     opts,
		logger:   log.New(log.Writer(), "session: ", log.LstdFlags),
	}
	m.restore()
	return m
}

// restore reads the persisted snapshot once at startup. The in-memory
// collection is the source of truth from here on.
func (m *Manager) restore() {
	if m.store == nil {
		return
	}
	chats, err := m.store.LoadChats()
	if err != nil {
		m.logger.Printf("restore skipped: %v", err)
		return
	}
	// A thinking placeholder in a snapshot means a send was caught
	// mid-flight; it must never reappear in a terminal state.
	for _, chat := range chats {
		chat.DropThinking()
	}
	m.chats = chats
	if len(chats) > 0 {
		m.activeID = chats[0].ID
	}
}

// =============================================================================
// CHAT LIFECYCLE
// =============================================================================

// NewChat allocates an empty chat named "Chat {N+1}", inserts it at the
// head of the collection, and makes it active. Returns a copy; the
// manager never hands out live chat pointers.
func (m *Manager) NewChat() *model.Chat {
	m.mu.Lock()
	defer m.mu.Unlock()
	chat := m.newChatLocked()
	m.persistLocked()
	return chat.Clone()
}

func (m *Manager) newChatLocked() *model.Chat {
	chat := model.NewChat("Chat " + util.IntToString(len(m.chats)+1))
	m.chats = append([]*model.Chat{chat}, m.chats...)
	m.activeID = chat.ID
	return chat
}

// DeleteChat removes the chat with the given ID. Idempotent: a missing
// ID is a no-op. When the active chat is removed, the new head of the
// remaining collection becomes active, or none if the collection is
// empty. The snapshot is rewritten unconditionally, bypassing the
// non-empty guard, so deleting the last chat sticks.
func (m *Manager) DeleteChat(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := -1
	for i, chat := range m.chats {
		if chat.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}

	m.chats = append(m.chats[:idx], m.chats[idx+1:]...)
	if m.activeID == id {
		if len(m.chats) > 0 {
			m.activeID = m.chats[0].ID
		} else {
			m.activeID = ""
		}
	}

	if m.store != nil {
		if err := m.store.SaveChats(m.chats); err != nil {
			m.logger.Printf("persist after delete failed: %v", err)
		}
	}
}

// SelectChat sets the active-chat pointer. An unknown ID is a no-op.
func (m *Manager) SelectChat(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, chat := range m.chats {
		if chat.ID == id {
			m.activeID = id
			return
		}
	}
}

// =============================================================================
// SEND TRANSACTION
// =============================================================================

// SendMessage runs the send transaction against the active chat,
// creating one first if none is active:
//
//  1. Outside image mode, image-flavored phrasing appends the user
//     message plus a fixed redirect and stops; the generator is never
//     invoked.
//  2. Otherwise the user message and a thinking placeholder are
//     appended (placeholder timestamp strictly after the user's), the
//     chat is named from its first message, and the generator is called
//     with the pre-send history snapshot.
//  3. On success the placeholder is replaced in place; on failure it is
//     removed (or finalized with an error message under
//     Options.SurfaceErrors) and the user message is kept.
//
// The busy flag is cleared on every path. Blocks until settlement; run
// it from a goroutine (the UI wraps it in a tea.Cmd).
func (m *Manager) SendMessage(ctx context.Context, text string, attachments []model.Attachment, mode model.Mode) error {
	m.mu.Lock()

	chat := m.activeChatLocked()
	if chat == nil {
		chat = m.newChatLocked()
	}

	if m.inFlight[chat.ID] {
		m.mu.Unlock()
		return ErrGenerationInFlight
	}

	// Intent guard. Deliberately does not rename the chat.
	if mode != model.ModeImageGen && router.IsImageRequest(text) {
		chat.AppendMessage(model.NewUserMessage(text, attachments))
		chat.AppendMessage(model.NewModelMessage(ImageRedirectText))
		m.resetModeLocked(mode)
		m.persistLocked()
		m.mu.Unlock()
		return nil
	}

	if m.gen == nil {
		m.mu.Unlock()
		return ErrNoGenerator
	}

	// History is the snapshot as it existed before this transaction's
	// appends, with thinking placeholders excluded; the prompt itself
	// travels separately.
	history := chat.HistorySnapshot()

	firstMessage := chat.IsEmpty()
	chat.AppendMessage(model.NewUserMessage(text, attachments))
	placeholder := model.NewThinkingMessage()
	chat.AppendMessage(placeholder)
	if firstMessage {
		chat.Name = model.NameFromText(text)
	}

	m.busy = true
	m.inFlight[chat.ID] = true
	chatID := chat.ID
	placeholderID := placeholder.ID
	m.persistLocked()
	m.mu.Unlock()

	resp, err := m.gen.Generate(ctx, Request{
		Prompt:      text,
		History:     history,
		Attachments: attachments,
		Mode:        mode,
	})

	m.settle(chatID, placeholderID, mode, resp, err)
	return nil
}

// settle finalizes or rolls back the placeholder and clears the busy
// state. Runs even when the generator failed; the busy flag must never
// stay set.
func (m *Manager) settle(chatID, placeholderID string, mode model.Mode, resp *Response, genErr error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	defer func() {
		delete(m.inFlight, chatID)
		m.busy = len(m.inFlight) > 0
		m.resetModeLocked(mode)
	}()

	chat := m.chatByIDLocked(chatID)
	if chat == nil {
		// Chat was deleted mid-flight; nothing to finalize.
		if genErr != nil {
			m.logger.Printf("generation failed for deleted chat %s: %v", chatID, genErr)
		}
		return
	}

	if genErr != nil {
		m.logger.Printf("generation failed for chat %s: %v", chatID, genErr)
		if m.opts.SurfaceErrors {
			failed := model.NewModelMessage(GenerationFailedText)
			failed.ID = placeholderID
			chat.ReplaceMessage(placeholderID, failed)
		} else {
			chat.RemoveMessage(placeholderID)
		}
		m.persistLocked()
		return
	}

	final := model.NewModelMessage(resp.Text)
	final.Attachments = resp.Attachments
	final.ID = placeholderID
	chat.ReplaceMessage(placeholderID, final)
	m.persistLocked()
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Chats returns a deep copy of the chat collection, most recent first.
// A settle on another goroutine mutates the live chats, so callers only
// ever get copies to read from.
func (m *Manager) Chats() []*model.Chat {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.Chat, len(m.chats))
	for i, chat := range m.chats {
		out[i] = chat.Clone()
	}
	return out
}

// ActiveChat returns a deep copy of the active chat, or nil when none
// is selected.
func (m *Manager) ActiveChat() *model.Chat {
	m.mu.Lock()
	defer m.mu.Unlock()
	chat := m.activeChatLocked()
	if chat == nil {
		return nil
	}
	return chat.Clone()
}

// ActiveChatID returns the active chat's ID, or "" when none.
func (m *Manager) ActiveChatID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activeID
}

// Busy reports whether any generation is in flight.
func (m *Manager) Busy() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.busy
}

// Mode returns the current operating mode.
func (m *Manager) Mode() model.Mode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mode
}

// SetMode selects the operating mode for subsequent sends.
// Invalid modes are ignored.
func (m *Manager) SetMode(mode model.Mode) {
	if !mode.Valid() {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mode = mode
}

// SetLogger replaces the manager's logger. Intended for tests and for
// redirecting diagnostics away from the TUI's stdout.
func (m *Manager) SetLogger(logger *log.Logger) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if logger != nil {
		m.logger = logger
	}
}

// =============================================================================
// INTERNAL HELPERS
// =============================================================================

// resetModeLocked applies mode stickiness after a send: back to chat
// unless the message was sent in image mode, which stays active.
func (m *Manager) resetModeLocked(sent model.Mode) {
	if sent != model.ModeImageGen {
		m.mode = model.ModeChat
	}
}

func (m *Manager) activeChatLocked() *model.Chat {
	if m.activeID == "" {
		return nil
	}
	return m.chatByIDLocked(m.activeID)
}

func (m *Manager) chatByIDLocked(id string) *model.Chat {
	for _, chat := range m.chats {
		if chat.ID == id {
			return chat
		}
	}
	return nil
}

// persistLocked mirrors the collection to the store. An empty collection
// is not written, so a fresh session never clobbers a previously saved
// non-empty snapshot; DeleteChat writes unconditionally instead.
// Persistence failure is non-fatal and only logged.
func (m *Manager) persistLocked() {
	if m.store == nil || len(m.chats) == 0 {
		return
	}
	if err := m.store.SaveChats(m.chats); err != nil {
		m.logger.Printf("persist failed: %v", err)
	}
}
