// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the navi TUI.
package components

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/navilabs/navi-tui/internal/model"
	"github.com/navilabs/navi-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGE BUBBLE COMPONENT
// =============================================================================

// MessageBubble renders one conversation message as a chat bubble.
type MessageBubble struct {
	Message       *model.Message
	Width         int
	ShowTimestamp bool
	ShowTokens    bool

	// Revealing adds a blinking cursor after the content while the
	// typewriter is still playing the reply out.
	Revealing bool

	// Rendered, when set, replaces the raw content. The chat view puts
	// highlighted code blocks and inline code through here.
	Rendered string

	theme *styles.Theme
}

// NewMessageBubble creates a message bubble with defaults.
func NewMessageBubble(msg *model.Message, theme *styles.Theme) *MessageBubble {
	return &MessageBubble{
		Message:       msg,
		Width:         80,
		ShowTimestamp: true,
		theme:         theme,
	}
}

// SetWidth sets the bubble width.
func (b *MessageBubble) SetWidth(width int) {
	b.Width = width
}

// View renders the message bubble.
func (b *MessageBubble) View() string {
	if b.Message == nil {
		return ""
	}
	if b.Message.Sender == model.SenderUser {
		return b.renderUserBubble()
	}
	return b.renderBotBubble()
}

// ==========================================================================
// USER BUBBLE - blue, right-aligned
// ==========================================================================

func (b *MessageBubble) renderUserBubble() string {
	content := b.Message.Content
	if content == "" {
		content = "..."
	}

	maxContentWidth := b.Width - 12
	if maxContentWidth < 20 {
		maxContentWidth = 20
	}
	wrapped := wordWrap(content, maxContentWidth)
	contentWidth := minInt(maxLineWidth(wrapped)+4, b.Width-8)

	bubbleStyle := lipgloss.NewStyle().
		Foreground(styles.UserBubbleFg).
		Background(styles.UserBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.UserBubbleBorder).
		Padding(0, 2).
		Width(contentWidth)

	bubble := bubbleStyle.Render(wrapped)
	header := b.renderHeader("나")

	leftMargin := b.Width - contentWidth - 4
	if leftMargin < 0 {
		leftMargin = 0
	}
	marginStyle := lipgloss.NewStyle().MarginLeft(leftMargin)

	return lipgloss.JoinVertical(lipgloss.Right,
		marginStyle.Render(header),
		marginStyle.Render(bubble),
	)
}

// ==========================================================================
// BOT BUBBLE - neutral (rose for the fixed error replies), left-aligned
// ==========================================================================

func (b *MessageBubble) renderBotBubble() string {
	content := b.Message.Content
	if b.Rendered != "" {
		content = b.Rendered
	}

	if b.Revealing {
		content += b.theme.TypingCursor.Render("▌")
	}
	if content == "" {
		content = "..."
	}

	maxContentWidth := b.Width - 12
	if maxContentWidth < 20 {
		maxContentWidth = 20
	}

	// Pre-rendered content already fits its width; only wrap raw text.
	wrapped := content
	if b.Rendered == "" {
		wrapped = wordWrap(content, maxContentWidth)
	}
	contentWidth := minInt(maxLineWidth(wrapped)+4, b.Width-8)

	bubbleStyle := lipgloss.NewStyle().
		Foreground(styles.BotBubbleFg).
		Background(styles.BotBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.BotBubbleBorder).
		Padding(0, 2).
		Width(contentWidth).
		MarginRight(4)

	if isErrorReply(b.Message.Content) {
		bubbleStyle = bubbleStyle.
			Foreground(styles.ErrorBubbleFg).
			Background(styles.ErrorBubbleBg).
			BorderForeground(styles.ErrorBubbleBorder)
	}

	bubble := bubbleStyle.Render(wrapped)
	header := b.renderHeader("나비")

	result := lipgloss.JoinVertical(lipgloss.Left, header, bubble)

	footer := b.renderFooter()
	if footer != "" {
		result = lipgloss.JoinVertical(lipgloss.Left, result, footer)
	}

	return result
}

// renderHeader renders the sender label and timestamp above a bubble.
func (b *MessageBubble) renderHeader(sender string) string {
	labelStyle := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Italic(true)

	parts := []string{labelStyle.Render(sender)}
	if b.ShowTimestamp && !b.Message.Timestamp.IsZero() {
		parts = append(parts, b.theme.Timestamp.Render(b.Message.FormatTime()))
	}

	return strings.Join(parts, " ")
}

// renderFooter renders the feedback marks and token badge below a bot
// bubble. Revealing messages get no footer; feedback targets settled
// replies.
func (b *MessageBubble) renderFooter() string {
	if b.Revealing {
		return ""
	}

	var parts []string

	switch b.Message.Feedback {
	case model.FeedbackPositive:
		parts = append(parts, b.theme.FeedbackOn.Render("👍"))
	case model.FeedbackNegative:
		parts = append(parts, b.theme.FeedbackOn.Render("👎"))
	}

	if b.ShowTokens && b.Message.TokenCount > 0 {
		parts = append(parts, b.theme.TokenBadge.Render(formatTokens(b.Message.TokenCount)))
	}

	if len(parts) == 0 {
		return ""
	}
	return lipgloss.NewStyle().PaddingLeft(2).Render(strings.Join(parts, " "))
}

// isErrorReply reports whether content is one of the fixed failure
// replies the session controller substitutes for a real answer.
func isErrorReply(content string) bool {
	return content == "죄송합니다. 오류가 발생했습니다. 다시 시도해주세요." ||
		content == "죄송합니다. 응답을 받을 수 없습니다."
}

// =============================================================================
// MESSAGE LIST COMPONENT
// =============================================================================

// MessageList renders a conversation as a column of bubbles.
type MessageList struct {
	Messages       []*model.Message
	Width          int
	ShowTimestamps bool
	ShowTokens     bool

	// RevealingID is the message currently being played out; it gets
	// the blinking cursor and no feedback footer.
	RevealingID string

	// RenderContent produces styled content for bot messages. Raw
	// content is shown when nil.
	RenderContent func(raw string) string

	theme *styles.Theme
}

// NewMessageList creates an empty message list.
func NewMessageList(theme *styles.Theme) *MessageList {
	return &MessageList{
		Width:          80,
		ShowTimestamps: true,
		theme:          theme,
	}
}

// SetMessages sets the messages to display.
func (ml *MessageList) SetMessages(messages []*model.Message) {
	ml.Messages = messages
}

// SetWidth sets the list width.
func (ml *MessageList) SetWidth(width int) {
	ml.Width = width
}

// View renders all messages.
func (ml *MessageList) View() string {
	if len(ml.Messages) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Italic(true).
			Width(ml.Width).
			Align(lipgloss.Center).
			Padding(2, 0)

		return emptyStyle.Render("궁금한 점을 입력해 주세요.")
	}

	var bubbles []string

	for _, msg := range ml.Messages {
		bubble := NewMessageBubble(msg, ml.theme)
		bubble.SetWidth(ml.Width)
		bubble.ShowTimestamp = ml.ShowTimestamps
		bubble.ShowTokens = ml.ShowTokens
		bubble.Revealing = msg.ID == ml.RevealingID

		if msg.Sender == model.SenderBot && ml.RenderContent != nil && !bubble.Revealing {
			bubble.Rendered = ml.RenderContent(msg.Content)
		}

		bubbles = append(bubbles, bubble.View())
	}

	return strings.Join(bubbles, "\n")
}

// ==========================================================================
// UTILITY FUNCTIONS
// ==========================================================================

// wordWrap wraps text to fit within the specified display width.
// Widths are terminal cells, not runes: Korean text is double-width.
func wordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	var result strings.Builder
	lines := strings.Split(text, "\n")

	for lineIdx, line := range lines {
		if lineIdx > 0 {
			result.WriteString("\n")
		}

		words := strings.Fields(line)
		if len(words) == 0 {
			continue
		}

		currentLine := words[0]

		for _, word := range words[1:] {
			if runewidth.StringWidth(currentLine)+1+runewidth.StringWidth(word) <= width {
				currentLine += " " + word
			} else {
				result.WriteString(currentLine)
				result.WriteString("\n")
				currentLine = word
			}
		}

		result.WriteString(currentLine)
	}

	return result.String()
}

// maxLineWidth returns the display width of the widest line.
func maxLineWidth(text string) int {
	maxWidth := 0
	for _, line := range strings.Split(text, "\n") {
		lineWidth := runewidth.StringWidth(line)
		if lineWidth > maxWidth {
			maxWidth = lineWidth
		}
	}
	return maxWidth
}

// minInt returns the minimum of two integers.
func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// formatTokens renders a token count badge.
func formatTokens(n int) string {
	return strconv.Itoa(n) + " tokens"
}
