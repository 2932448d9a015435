// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file contains the rendering logic for the chat interface.
// Layout: header + messages (viewport) + typing indicator + input + status.
// Total height must equal m.height exactly to prevent overflow.
package chat

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/navilabs/navi-tui/internal/ui/styles"
)

// =============================================================================
// MAIN RENDER
// =============================================================================

// View renders the complete chat view.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "로딩 중..."
	}

	if m.state == StateError {
		return m.errView.View()
	}

	header := m.renderHeader()
	typing := m.renderTyping()
	input := m.inputArea.View()
	status := m.renderStatusLine()

	headerHeight := lipgloss.Height(header)
	typingHeight := 0
	if typing != "" {
		typingHeight = lipgloss.Height(typing)
	}
	inputHeight := lipgloss.Height(input)
	statusHeight := lipgloss.Height(status)

	availableHeight := m.height - headerHeight - typingHeight - inputHeight - statusHeight
	if availableHeight < 1 {
		availableHeight = 1
	}

	messages := m.viewport.View()
	if lipgloss.Height(messages) != availableHeight {
		messages = lipgloss.NewStyle().
			Height(availableHeight).
			MaxHeight(availableHeight).
			Width(m.width).
			Render(messages)
	}

	parts := []string{header, messages}
	if typing != "" {
		parts = append(parts, typing)
	}
	parts = append(parts, input, status)

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// =============================================================================
// SECTIONS
// =============================================================================

func (m Model) renderHeader() string {
	if m.theme.GetLayoutMode() == styles.LayoutNarrow {
		return m.header.ViewCompact()
	}
	return m.header.View()
}

func (m Model) renderTyping() string {
	if m.state != StateWaiting {
		return ""
	}
	return lipgloss.NewStyle().PaddingLeft(2).Render(m.typing.View())
}

// renderStatusLine shows the transient status message when present,
// otherwise the regular status bar.
func (m Model) renderStatusLine() string {
	if m.statusMsg != "" {
		style := lipgloss.NewStyle().
			Foreground(styles.Cyan).
			PaddingLeft(2).
			Width(m.width)
		return style.Render(m.statusMsg)
	}
	return m.statusBar.View()
}

// =============================================================================
// LAYOUT
// =============================================================================

// resize recomputes component widths and the viewport height.
func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	m.theme.SetSize(width, height)
	m.header.SetWidth(width)
	m.statusBar.SetWidth(width)
	m.inputArea.SetWidth(width)
	m.messageList.SetWidth(width - 2)
	m.renderer.SetMaxWidth(width - 12)
	m.errView.SetSize(width, height)

	// Header box is 4 lines, input 5, status 1, typing up to 1.
	viewportHeight := height - 11
	if viewportHeight < 3 {
		viewportHeight = 3
	}
	m.viewport.Width = width
	m.viewport.Height = viewportHeight
}

// refreshViewport re-renders the message list into the viewport and
// follows the newest message.
func (m *Model) refreshViewport() {
	if m.controller == nil {
		return
	}

	conv := m.controller.Conversation()
	m.messageList.SetMessages(conv.Messages)
	m.statusBar.SetMessageCount(conv.Len())

	if m.state == StateRevealing && m.cursorOn {
		m.messageList.RevealingID = m.revealer.MessageID()
	} else {
		m.messageList.RevealingID = ""
	}

	atBottom := m.viewport.AtBottom()
	m.viewport.SetContent(m.messageList.View())
	if atBottom || m.state == StateRevealing || m.state == StateWaiting {
		m.viewport.GotoBottom()
	}
}
