// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package render turns raw bot replies into styled terminal output.
package render

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/navilabs/navi-tui/internal/ui/styles"
)

// =============================================================================
// RENDERER
// =============================================================================

// Renderer styles message segments for the terminal.
type Renderer struct {
	// MaxWidth bounds code block width.
	MaxWidth int

	// DefaultLanguage is used when a fence carries no tag and
	// detection finds nothing (default "plaintext").
	DefaultLanguage string

	// Rich enables the glamour markdown pass for text segments.
	Rich bool

	markdown *glamour.TermRenderer
}

// NewRenderer creates a renderer with the given width.
func NewRenderer(maxWidth int) *Renderer {
	if maxWidth <= 0 {
		maxWidth = 80
	}
	return &Renderer{
		MaxWidth:        maxWidth,
		DefaultLanguage: "plaintext",
	}
}

// EnableRichMarkdown switches text segments to glamour rendering.
// Falls back to plain styling if the renderer cannot initialize.
func (r *Renderer) EnableRichMarkdown() error {
	tr, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(r.MaxWidth),
	)
	if err != nil {
		return err
	}
	r.markdown = tr
	r.Rich = true
	return nil
}

// SetMaxWidth updates the render width on terminal resize.
func (r *Renderer) SetMaxWidth(width int) {
	if width > 0 {
		r.MaxWidth = width
	}
}

// Message splits and styles a full message body.
func (r *Renderer) Message(raw string) string {
	segments := Split(raw)

	var parts []string
	for _, seg := range segments {
		switch seg.Kind {
		case KindCode:
			parts = append(parts, r.codeBlock(seg))
		default:
			parts = append(parts, r.text(seg.Content))
		}
	}
	return strings.Join(parts, "\n")
}

func (r *Renderer) text(content string) string {
	if r.Rich && r.markdown != nil {
		if out, err := r.markdown.Render(content); err == nil {
			return strings.TrimRight(out, "\n")
		}
	}
	return ParseInlineCode(content)
}

// =============================================================================
// CODE BLOCK RENDERER
// =============================================================================

// codeBlock renders one fenced block with a language badge, line
// numbers, and chroma highlighting.
func (r *Renderer) codeBlock(seg Segment) string {
	code := strings.TrimRight(seg.Content, "\n")

	language := seg.Language
	if language == "" {
		language = detectLanguage(code)
	}
	if language == "" {
		language = r.DefaultLanguage
	}

	highlighted := highlightCode(code, language)
	lines := strings.Split(highlighted, "\n")

	lineNumStyle := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Width(4).
		Align(lipgloss.Right).
		MarginRight(1)

	var renderedLines []string
	for i, line := range lines {
		renderedLines = append(renderedLines, lineNumStyle.Render(formatLineNum(i+1))+line)
	}
	content := strings.Join(renderedLines, "\n")

	var header string
	if seg.Language != "" {
		badge := lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Background(styles.OverlayDim).
			Padding(0, 1).
			Bold(true).
			Render(seg.Language)
		header = badge + "\n"
	}

	maxWidth := r.MaxWidth - 4
	if maxWidth < 20 {
		maxWidth = 20
	}

	return lipgloss.NewStyle().
		Background(styles.SurfaceDim).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.Overlay).
		Padding(1, 2).
		MaxWidth(maxWidth).
		Render(header + content)
}

// =============================================================================
// INLINE CODE
// =============================================================================

// RenderInlineCode styles an inline code span.
func RenderInlineCode(code string) string {
	return lipgloss.NewStyle().
		Background(styles.SurfaceDim).
		Foreground(styles.Cyan).
		Padding(0, 1).
		Render(code)
}

// ParseInlineCode replaces `code` spans with styled inline code. An
// unclosed backtick is left literal.
func ParseInlineCode(text string) string {
	var result strings.Builder
	var codeBuffer strings.Builder
	inCode := false

	for _, r := range text {
		switch {
		case r == '`':
			if inCode {
				result.WriteString(RenderInlineCode(codeBuffer.String()))
				codeBuffer.Reset()
				inCode = false
			} else {
				inCode = true
			}
		case inCode:
			codeBuffer.WriteRune(r)
		default:
			result.WriteRune(r)
		}
	}

	if inCode {
		result.WriteString("`")
		result.WriteString(codeBuffer.String())
	}

	return result.String()
}

// =============================================================================
// SYNTAX HIGHLIGHTING (Chroma-based)
// =============================================================================

// highlightCode applies chroma syntax highlighting with ANSI-safe
// terminal output. Returns the code unchanged if highlighting fails.
func highlightCode(code, language string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := chromaStyles.Get("monokai")
	if style == nil {
		style = chromaStyles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return code
	}

	return buf.String()
}

// detectLanguage attempts to detect the language of untagged code.
func detectLanguage(code string) string {
	lexer := lexers.Analyse(code)
	if lexer != nil {
		return lexer.Config().Name
	}
	return ""
}

// formatLineNum converts a line number to string without fmt.
func formatLineNum(n int) string {
	if n == 0 {
		return "0"
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}
