// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging provides the leveled console logger used across the
// client: per-category instances, paired timers, and cosmetic groups.
package logging

import (
	"encoding/json"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// LEVELS
// =============================================================================

// Level is a log severity. Messages below the logger's minimum level
// are discarded.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelSilent // nothing at all
)

// String returns the level's display tag.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "SILENT"
	}
}

// ParseLevel parses a level name. Unknown names fall back to debug so a
// typo in config never silences the log.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	case "silent", "none":
		return LevelSilent
	default:
		return LevelDebug
	}
}

// Level tag styles.
var (
	debugStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#6C7086"})
	infoStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#0891B2", Dark: "#22D3EE"})
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}).Bold(true)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"}).Bold(true)
)

func (l Level) render(styled bool) string {
	if !styled {
		return l.String()
	}
	switch l {
	case LevelDebug:
		return debugStyle.Render(l.String())
	case LevelInfo:
		return infoStyle.Render(l.String())
	case LevelWarn:
		return warnStyle.Render(l.String())
	default:
		return errorStyle.Render(l.String())
	}
}

// =============================================================================
// LOGGER
// =============================================================================

// Logger writes leveled, category-prefixed lines to a single writer.
// Safe for concurrent use.
type Logger struct {
	mu       sync.Mutex
	out      io.Writer
	min      Level
	category string
	styled   bool
	timers   map[string]time.Time
	depth    int

	// now is replaceable for deterministic tests
	now func() time.Time
}

// New creates a logger with the given category prefix and minimum level.
func New(out io.Writer, category string, min Level) *Logger {
	return &Logger{
		out:      out,
		min:      min,
		category: category,
		styled:   true,
		timers:   make(map[string]time.Time),
		now:      time.Now,
	}
}

// SetLevel changes the minimum level. Used by the config watcher for
// hot reload.
func (l *Logger) SetLevel(min Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.min = min
}

// MinLevel returns the current minimum level.
func (l *Logger) MinLevel() Level {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.min
}

// SetStyled toggles color output. Disabled for non-TTY destinations.
func (l *Logger) SetStyled(styled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.styled = styled
}

// Category returns the logger's category prefix.
func (l *Logger) Category() string {
	return l.category
}

// Debug logs at debug level. The optional payload is rendered as
// compact JSON after the message.
func (l *Logger) Debug(msg string, data ...interface{}) {
	l.log(LevelDebug, msg, data...)
}

// Info logs at info level.
func (l *Logger) Info(msg string, data ...interface{}) {
	l.log(LevelInfo, msg, data...)
}

// Warn logs at warn level.
func (l *Logger) Warn(msg string, data ...interface{}) {
	l.log(LevelWarn, msg, data...)
}

// Error logs at error level.
func (l *Logger) Error(msg string, data ...interface{}) {
	l.log(LevelError, msg, data...)
}

func (l *Logger) log(level Level, msg string, data ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.min || l.min == LevelSilent {
		return
	}

	var b strings.Builder
	b.WriteString(l.now().Format(time.RFC3339))
	b.WriteString(" ")
	b.WriteString(level.render(l.styled))
	b.WriteString(" [")
	b.WriteString(l.category)
	b.WriteString("] ")
	b.WriteString(strings.Repeat("  ", l.depth))
	b.WriteString(msg)

	if len(data) > 0 && data[0] != nil {
		if encoded, err := json.Marshal(data[0]); err == nil {
			b.WriteString(" ")
			b.Write(encoded)
		}
	}
	b.WriteString("\n")

	io.WriteString(l.out, b.String())
}

// =============================================================================
// PAIRED TIMERS
// =============================================================================

// Time starts a named timer. A second Time with the same label restarts it.
func (l *Logger) Time(label string) {
	l.mu.Lock()
	l.timers[label] = l.now()
	l.mu.Unlock()
}

// TimeEnd stops a named timer and logs the elapsed milliseconds at
// debug level. Ending an unknown label logs a warning; the label is
// forgotten after the first end.
func (l *Logger) TimeEnd(label string) {
	l.mu.Lock()
	start, ok := l.timers[label]
	if ok {
		delete(l.timers, label)
	}
	now := l.now()
	l.mu.Unlock()

	if !ok {
		l.Warn("timer '" + label + "' does not exist")
		return
	}
	elapsed := now.Sub(start).Milliseconds()
	l.Debug(label + ": " + formatInt64(elapsed) + "ms")
}

// =============================================================================
// GROUPS
// =============================================================================

// Group opens a cosmetic indentation block under a header line.
// Filtering is unaffected: grouping never changes what gets logged,
// only how it is indented.
func (l *Logger) Group(label string) {
	l.Info(label)
	l.mu.Lock()
	l.depth++
	l.mu.Unlock()
}

// GroupEnd closes the innermost group. Extra ends are ignored.
func (l *Logger) GroupEnd() {
	l.mu.Lock()
	if l.depth > 0 {
		l.depth--
	}
	l.mu.Unlock()
}

// =============================================================================
// LOGGER SET
// =============================================================================

// Set bundles the named logger instances the client uses. All share the
// same writer; levels can diverge per instance. The set is constructed
// once at startup and handed to whoever needs it.
type Set struct {
	General *Logger // category ChatBot
	API     *Logger // category API
	UI      *Logger // category UI
	Error   *Logger // category ERROR, always at error level

	SessionID string
}

// NewSet builds the standard logger set writing to out.
func NewSet(out io.Writer, min Level, sessionID string) *Set {
	errLogger := New(out, "ERROR", LevelError)
	return &Set{
		General:   New(out, "ChatBot", min),
		API:       New(out, "API", min),
		UI:        New(out, "UI", min),
		Error:     errLogger,
		SessionID: sessionID,
	}
}

// SetLevel adjusts the minimum level of every logger except the error
// instance, which always reports.
func (s *Set) SetLevel(min Level) {
	s.General.SetLevel(min)
	s.API.SetLevel(min)
	s.UI.SetLevel(min)
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// formatInt64 converts an int64 to string without fmt.
func formatInt64(n int64) string {
	if n == 0 {
		return "0"
	}
	if n == -9223372036854775808 { // math.MinInt64
		return "-9223372036854775808"
	}

	negative := n < 0
	if negative {
		n = -n
	}

	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}

	if negative {
		return "-" + string(digits)
	}
	return string(digits)
}
