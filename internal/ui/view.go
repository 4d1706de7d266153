// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/jeranaias/aetheris-tui/internal/model"
	"github.com/jeranaias/aetheris-tui/internal/util"
)

// newViewport creates the transcript viewport.
func newViewport(width, height int) viewport.Model {
	vp := viewport.New(width, height)
	vp.MouseWheelEnabled = true
	return vp
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Starting Aetheris..."
	}

	main := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.renderSidebar(),
		m.viewport.View(),
	)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderHeader(),
		main,
		m.renderInput(),
		m.renderStatusBar(),
	)
}

// =============================================================================
// HEADER
// =============================================================================

func (m Model) renderHeader() string {
	title := m.theme.HeaderTitle.Render("Aetheris")
	who := ""
	if m.user != nil {
		who = m.theme.HeaderUser.Render("  " + m.user.Username)
	}
	return m.theme.Header.Width(m.width).Render(title + who)
}

// =============================================================================
// SIDEBAR
// =============================================================================

func (m Model) renderSidebar() string {
	chats := m.manager.Chats()
	active := m.manager.ActiveChatID()

	var lines []string
	for _, chat := range chats {
		name := util.TruncateRunes(util.FirstLine(chat.Name), sidebarWidth-4)
		style := m.theme.ChatItem
		if chat.ID == active {
			style = m.theme.ChatItemSelected
		}
		lines = append(lines, style.Width(sidebarWidth-2).Render(name))
		if last := lastSettledMessage(chat); last != nil {
			preview := util.FirstLine(last.Preview(sidebarWidth - 4))
			lines = append(lines, m.theme.ChatItemMeta.Render("  "+preview))
		}
	}
	if len(lines) == 0 {
		lines = append(lines, m.theme.ChatItemMeta.Render("No chats yet"))
		lines = append(lines, m.theme.ChatItemMeta.Render("C-n to start"))
	}

	body := strings.Join(lines, "\n")
	return m.theme.Sidebar.
		Width(sidebarWidth).
		Height(m.viewport.Height).
		Render(body)
}

// lastSettledMessage returns the chat's newest non-thinking message,
// or nil for an empty chat.
func lastSettledMessage(chat *model.Chat) *model.Message {
	for i := len(chat.Messages) - 1; i >= 0; i-- {
		if msg := chat.Messages[i]; !msg.IsThinking {
			return msg
		}
	}
	return nil
}

// =============================================================================
// TRANSCRIPT
// =============================================================================

// renderTranscript renders the active chat's messages.
func (m Model) renderTranscript() string {
	chat := m.manager.ActiveChat()
	if chat == nil {
		return m.theme.ThinkingText.Render("\n  Start a conversation with Enter, or press C-n for a new chat.")
	}

	var sb strings.Builder
	for _, msg := range chat.Messages {
		sb.WriteString(m.renderMessage(msg))
		sb.WriteString("\n")
	}
	return sb.String()
}

// renderMessage renders one message bubble with its metadata line.
func (m Model) renderMessage(msg *model.Message) string {
	if msg.IsThinking {
		return m.spinner.View() + m.theme.ThinkingText.Render(" thinking...")
	}

	text := msg.Text
	if m.markdown && msg.Role == model.RoleModel {
		text = strings.TrimRight(renderMarkdown(text), "\n")
	}

	bubble := m.theme.ModelBubble
	if msg.Role == model.RoleUser {
		bubble = m.theme.UserBubble
	}

	var sb strings.Builder
	sb.WriteString(m.theme.MessageMeta.Render(
		msg.Role.DisplayName() + " " + msg.Timestamp.Format("15:04"),
	))
	sb.WriteString("\n")
	sb.WriteString(bubble.MaxWidth(m.viewport.Width - 2).Render(text))

	for _, att := range msg.Attachments {
		sb.WriteString("\n")
		sb.WriteString(m.theme.AttachmentTag.Render("  [" + att.Name + "]"))
	}
	return sb.String()
}

// =============================================================================
// INPUT AND STATUS
// =============================================================================

func (m Model) renderInput() string {
	return m.theme.InputContainer.Width(m.width).Render(m.input.View())
}

func (m Model) renderStatusBar() string {
	mode := m.manager.Mode()
	left := m.theme.ModeStyle(mode).Render(mode.DisplayName())

	if m.manager.Busy() {
		left += m.theme.ThinkingText.Render("  generating")
	}
	if m.statusMsg != "" {
		left += "  " + m.theme.StatusText.Render(m.statusMsg)
	}

	help := m.theme.ShortcutKey.Render("Tab") + m.theme.ShortcutDesc.Render(" mode ") +
		m.theme.ShortcutKey.Render("C-n") + m.theme.ShortcutDesc.Render(" new ") +
		m.theme.ShortcutKey.Render("C-t") + m.theme.ShortcutDesc.Render(" theme ") +
		m.theme.ShortcutKey.Render("C-c") + m.theme.ShortcutDesc.Render(" quit")

	gap := m.width - runewidth.StringWidth(stripANSI(left)) - runewidth.StringWidth(stripANSI(help)) - 2
	if gap < 1 {
		gap = 1
	}
	return m.theme.StatusBar.Width(m.width).Render(left + strings.Repeat(" ", gap) + help)
}

// stripANSI removes escape sequences for width measurement.
func stripANSI(s string) string {
	var sb strings.Builder
	inEscape := false
	for _, r := range s {
		switch {
		case inEscape:
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEscape = false
			}
		case r == '\x1b':
			inEscape = true
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
