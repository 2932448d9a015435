// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import (
	"strconv"
	"sync"
	"time"
)

// =============================================================================
// SENDER TYPE
// =============================================================================

// Sender identifies who produced a message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// String returns the string representation of the sender.
func (s Sender) String() string {
	return string(s)
}

// APIRole maps a sender to the role name used on the wire.
func (s Sender) APIRole() string {
	if s == SenderBot {
		return "assistant"
	}
	return "user"
}

// =============================================================================
// FEEDBACK TYPE
// =============================================================================

// Feedback is a user verdict on a bot message. Empty means no verdict yet.
type Feedback string

const (
	FeedbackNone     Feedback = ""
	FeedbackPositive Feedback = "positive"
	FeedbackNegative Feedback = "negative"
)

// Valid reports whether f is one of the two recognized verdicts.
func (f Feedback) Valid() bool {
	return f == FeedbackPositive || f == FeedbackNegative
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single message in a conversation.
//
// During a typing reveal the Content field holds the portion revealed so
// far; it only ever grows until the full reply is present.
type Message struct {
	ID        string    `json:"id"`
	Sender    Sender    `json:"sender"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Feedback  Feedback  `json:"feedback,omitempty"`

	// Token statistics reported by the completion endpoint, if any.
	TokenCount int `json:"token_count,omitempty"`
}

// NewMessage creates a new message with a time-derived ID.
func NewMessage(sender Sender, content string) *Message {
	now := time.Now()
	return &Message{
		ID:        generateID(now),
		Sender:    sender,
		Content:   content,
		Timestamp: now,
	}
}

// NewUserMessage creates a new user message.
func NewUserMessage(content string) *Message {
	return NewMessage(SenderUser, content)
}

// NewBotMessage creates a new bot message. Content usually starts empty
// and is filled in by the typing reveal.
func NewBotMessage(content string) *Message {
	return NewMessage(SenderBot, content)
}

// Preview returns a truncated preview of the message content.
// Uses rune-based truncation to handle Unicode correctly.
func (m *Message) Preview(maxLen int) string {
	runes := []rune(m.Content)
	if maxLen <= 0 {
		return ""
	}
	if len(runes) <= maxLen {
		return m.Content
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// IsEmpty returns true if the message has no content.
func (m *Message) IsEmpty() bool {
	return len(m.Content) == 0
}

// FormatTime renders the message time as a 12-hour clock with a Korean
// meridiem marker, matching the chat transcript display.
func (m *Message) FormatTime() string {
	h := m.Timestamp.Hour()
	meridiem := "오전"
	if h >= 12 {
		meridiem = "오후"
	}
	h12 := h % 12
	if h12 == 0 {
		h12 = 12
	}
	return meridiem + " " + formatInt(h12) + ":" + pad2(m.Timestamp.Minute())
}

// =============================================================================
// ID GENERATION
// =============================================================================

// Message IDs are derived from the creation time in unix milliseconds.
// Two messages created inside the same millisecond get a bump suffix so
// that IDs stay unique within the process.
var (
	idMu       sync.Mutex
	lastIDTime int64
	idBump     int
)

func generateID(t time.Time) string {
	ms := t.UnixMilli()

	idMu.Lock()
	defer idMu.Unlock()

	if ms == lastIDTime {
		idBump++
		return strconv.FormatInt(ms, 10) + "-" + strconv.Itoa(idBump)
	}
	lastIDTime = ms
	idBump = 0
	return strconv.FormatInt(ms, 10)
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// formatInt formats an integer without using fmt.
func formatInt(n int) string {
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

// pad2 formats n as a two-digit string.
func pad2(n int) string {
	if n < 10 {
		return "0" + formatInt(n)
	}
	return formatInt(n)
}
