// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/navilabs/navi-tui/internal/ui/styles"
)

// =============================================================================
// ERROR DISPLAY MODEL
// =============================================================================

// ErrorDisplay is a styled error screen component. The chat model shows
// it when startup checks fail before the first message can be sent.
type ErrorDisplay struct {
	title       string
	message     string
	suggestions []string

	visible bool

	width  int
	height int

	theme *styles.Theme
}

// NewErrorDisplay creates a hidden error display.
func NewErrorDisplay(theme *styles.Theme) ErrorDisplay {
	return ErrorDisplay{theme: theme}
}

// NewError creates a visible error display with title and message.
func NewError(theme *styles.Theme, title, message string) ErrorDisplay {
	return ErrorDisplay{
		title:   title,
		message: message,
		visible: true,
		theme:   theme,
	}
}

// NewErrorWithSuggestions creates an error with recovery suggestions.
func NewErrorWithSuggestions(theme *styles.Theme, title, message string, suggestions []string) ErrorDisplay {
	e := NewError(theme, title, message)
	e.suggestions = suggestions
	return e
}

// SetTitle sets the error title.
func (e *ErrorDisplay) SetTitle(title string) {
	e.title = title
}

// SetMessage sets the error message.
func (e *ErrorDisplay) SetMessage(message string) {
	e.message = message
}

// SetSuggestions sets the list of suggestions.
func (e *ErrorDisplay) SetSuggestions(suggestions []string) {
	e.suggestions = suggestions
}

// SetSize sets the display dimensions.
func (e *ErrorDisplay) SetSize(width, height int) {
	e.width = width
	e.height = height
}

// Show makes the display visible.
func (e *ErrorDisplay) Show() {
	e.visible = true
}

// Hide hides the display.
func (e *ErrorDisplay) Hide() {
	e.visible = false
}

// Visible returns whether the display is showing.
func (e *ErrorDisplay) Visible() bool {
	return e.visible
}

// View renders the error box.
func (e ErrorDisplay) View() string {
	if !e.visible {
		return ""
	}

	title := e.title
	if title == "" {
		title = "오류"
	}

	var lines []string
	lines = append(lines, e.theme.ErrorTitle.Render(styles.StatusIndicators.Error+" "+title))
	lines = append(lines, "")
	lines = append(lines, e.theme.ErrorMessage.Render(e.message))

	if len(e.suggestions) > 0 {
		lines = append(lines, "")
		for _, s := range e.suggestions {
			lines = append(lines, e.theme.ErrorSuggestion.Render("- "+s))
		}
	}

	lines = append(lines, "")
	hintStyle := lipgloss.NewStyle().Foreground(styles.TextMuted).Italic(true)
	lines = append(lines, hintStyle.Render("r 다시 시도 | Ctrl+C 종료"))

	content := strings.Join(lines, "\n")
	box := e.theme.ErrorBox.Render(content)

	if e.width > 0 && e.height > 0 {
		return lipgloss.Place(e.width, e.height, lipgloss.Center, lipgloss.Center, box)
	}
	return box
}
