// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/navilabs/navi-tui/internal/ui/styles"
)

// =============================================================================
// HEADER COMPONENT - navi brand bar
// =============================================================================

// Status represents the backend connection status shown in the header.
type Status int

const (
	StatusOnline Status = iota
	StatusConnecting
	StatusOffline
)

// String returns the display string for the status.
func (s Status) String() string {
	switch s {
	case StatusOnline:
		return "온라인"
	case StatusConnecting:
		return "연결 중"
	case StatusOffline:
		return "오프라인"
	default:
		return "알 수 없음"
	}
}

// Header represents the title bar component.
type Header struct {
	Title     string // Main title (default: "나비")
	Subtitle  string // Tagline below the title
	ModelName string // Current model name
	Status    Status // Backend connection status
	Width     int    // Available width
	theme     *styles.Theme
}

// NewHeader creates a new Header component with default values.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{
		Title:    "나비",
		Subtitle: "상담 도우미",
		Status:   StatusConnecting,
		Width:    80,
		theme:    theme,
	}
}

// SetWidth updates the header width.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// SetModel updates the current model name.
func (h *Header) SetModel(model string) {
	h.ModelName = model
}

// SetStatus updates the connection status.
func (h *Header) SetStatus(status Status) {
	h.Status = status
}

// View renders the header component.
func (h *Header) View() string {
	width := h.Width
	if width < 40 {
		width = 40
	}

	innerWidth := width - 6

	brandStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.Blue)

	accentStyle := lipgloss.NewStyle().
		Foreground(styles.Cyan)

	brand := accentStyle.Render("< ") +
		brandStyle.Render(h.Title) +
		accentStyle.Render(" >")

	subtitleParts := []string{}

	if h.Subtitle != "" {
		subtitleParts = append(subtitleParts, h.theme.HeaderSubtitle.Render(h.Subtitle))
	}

	if h.ModelName != "" {
		modelStyle := lipgloss.NewStyle().
			Foreground(styles.TextSecondary)
		subtitleParts = append(subtitleParts, modelStyle.Render(h.ModelName))
	}

	subtitleParts = append(subtitleParts, h.statusBadge())

	subtitle := strings.Join(subtitleParts, " ")

	brandLine := lipgloss.NewStyle().
		Width(innerWidth).
		Align(lipgloss.Center).
		Render(brand)

	subtitleLine := lipgloss.NewStyle().
		Width(innerWidth).
		Align(lipgloss.Center).
		Foreground(styles.TextMuted).
		Render(subtitle)

	content := lipgloss.JoinVertical(lipgloss.Center, brandLine, subtitleLine)

	headerBox := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.Blue).
		Background(styles.SurfaceDim).
		Padding(0, 2).
		Width(width)

	return headerBox.Render(content)
}

// ViewCompact renders a compact single-line header for narrow terminals.
func (h *Header) ViewCompact() string {
	brandStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.Blue)

	accentStyle := lipgloss.NewStyle().
		Foreground(styles.Cyan)

	brand := accentStyle.Render("<") +
		brandStyle.Render(h.Title) +
		accentStyle.Render(">")

	parts := []string{brand}

	if h.ModelName != "" {
		modelStyle := lipgloss.NewStyle().
			Foreground(styles.TextMuted)
		parts = append(parts, modelStyle.Render(h.ModelName))
	}

	parts = append(parts, h.statusBadge())

	separator := lipgloss.NewStyle().
		Foreground(styles.Overlay).
		Render(" | ")

	return strings.Join(parts, separator)
}

// statusBadge renders the colored status dot and label.
func (h *Header) statusBadge() string {
	return h.statusStyle().Render("● " + h.Status.String())
}

// statusStyle returns the appropriate style for the current status.
func (h *Header) statusStyle() lipgloss.Style {
	switch h.Status {
	case StatusOnline:
		return lipgloss.NewStyle().
			Foreground(styles.Emerald).
			Bold(true)
	case StatusConnecting:
		return lipgloss.NewStyle().
			Foreground(styles.Amber).
			Bold(true)
	case StatusOffline:
		return lipgloss.NewStyle().
			Foreground(styles.Rose).
			Bold(true)
	default:
		return lipgloss.NewStyle().
			Foreground(styles.TextMuted)
	}
}
