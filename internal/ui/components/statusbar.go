// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/navilabs/navi-tui/internal/ui/styles"
)

// =============================================================================
// STATUS BAR COMPONENT - bottom bar with shortcuts and session info
// =============================================================================

// Shortcut is one key hint shown in the status bar.
type Shortcut struct {
	Key  string
	Desc string
}

// DefaultShortcuts are the key hints for the chat screen.
var DefaultShortcuts = []Shortcut{
	{Key: "Enter", Desc: "전송"},
	{Key: ".", Desc: "좋아요"},
	{Key: ",", Desc: "싫어요"},
	{Key: "Ctrl+Y", Desc: "복사"},
	{Key: "Ctrl+C", Desc: "종료"},
}

// StatusBar represents the bottom status bar.
type StatusBar struct {
	Status        Status // Backend connection status
	SessionID     string // Short session identifier
	MessageCount  int    // Messages in the conversation
	Width         int    // Available width
	ShowShortcuts bool   // Show keyboard shortcuts
	Shortcuts     []Shortcut
	theme         *styles.Theme
}

// NewStatusBar creates a new StatusBar component.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{
		Status:        StatusConnecting,
		Width:         80,
		ShowShortcuts: true,
		Shortcuts:     DefaultShortcuts,
		theme:         theme,
	}
}

// SetWidth updates the status bar width.
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// SetStatus updates the connection status.
func (s *StatusBar) SetStatus(status Status) {
	s.Status = status
}

// SetSessionID sets the session identifier. Only a short prefix is
// displayed.
func (s *StatusBar) SetSessionID(id string) {
	if len(id) > 8 {
		id = id[:8]
	}
	s.SessionID = id
}

// SetMessageCount updates the message counter.
func (s *StatusBar) SetMessageCount(n int) {
	s.MessageCount = n
}

// View renders the status bar.
func (s *StatusBar) View() string {
	left := s.renderStatus()

	var right string
	if s.ShowShortcuts {
		right = s.renderShortcuts()
	}

	leftWidth := lipgloss.Width(left)
	rightWidth := lipgloss.Width(right)

	gap := s.Width - leftWidth - rightWidth - 2
	if gap < 1 {
		gap = 1
		right = s.renderShortcutsCompact()
	}

	content := left + strings.Repeat(" ", gap) + right

	return s.theme.StatusBar.Width(s.Width).Render(content)
}

// renderStatus renders the connection dot, session id and message count.
func (s *StatusBar) renderStatus() string {
	parts := []string{s.statusDot()}

	if s.SessionID != "" {
		idStyle := lipgloss.NewStyle().Foreground(styles.TextMuted)
		parts = append(parts, idStyle.Render(s.SessionID))
	}

	if s.MessageCount > 0 {
		countStyle := lipgloss.NewStyle().Foreground(styles.TextSecondary)
		parts = append(parts, countStyle.Render(formatNumber(s.MessageCount)+"개 메시지"))
	}

	return strings.Join(parts, " | ")
}

// renderShortcuts renders all key hints.
func (s *StatusBar) renderShortcuts() string {
	var parts []string
	for _, sc := range s.Shortcuts {
		parts = append(parts,
			s.theme.ShortcutKey.Render(sc.Key)+" "+s.theme.ShortcutDesc.Render(sc.Desc))
	}
	return strings.Join(parts, "  ")
}

// renderShortcutsCompact renders keys only, for narrow terminals.
func (s *StatusBar) renderShortcutsCompact() string {
	var keys []string
	for _, sc := range s.Shortcuts {
		keys = append(keys, sc.Key)
	}
	text := strings.Join(keys, " ")
	if runewidth.StringWidth(text) > s.Width/2 {
		return ""
	}
	return s.theme.ShortcutKey.Render(text)
}

// statusDot renders the colored connection indicator.
func (s *StatusBar) statusDot() string {
	var style lipgloss.Style
	switch s.Status {
	case StatusOnline:
		style = lipgloss.NewStyle().Foreground(styles.Emerald)
	case StatusConnecting:
		style = lipgloss.NewStyle().Foreground(styles.Amber)
	case StatusOffline:
		style = lipgloss.NewStyle().Foreground(styles.Rose)
	default:
		style = lipgloss.NewStyle().Foreground(styles.TextMuted)
	}
	return style.Render("● " + s.Status.String())
}
