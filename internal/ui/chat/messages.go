// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file defines all Bubble Tea message types used by the chat interface.
// Messages are organized into the following categories:
//   - Send: chat completion round trips
//   - Reveal: typewriter ticks and cursor blink
//   - Feedback: thumbs up/down submission results
//   - Copy: clipboard operations
//   - Status: transient status line updates
//
// All message types follow Bubble Tea conventions and are immutable.
package chat

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/navilabs/navi-tui/internal/model"
	"github.com/navilabs/navi-tui/internal/session"
)

// =============================================================================
// SEND MESSAGES
// =============================================================================

// SendResultMsg delivers the outcome of a chat completion round trip.
// The result is present even on backend failure; the controller
// substitutes a fixed apology reply so the conversation always gets a
// bot bubble.
type SendResultMsg struct {
	Result *session.SendResult
	Err    error
}

// =============================================================================
// REVEAL MESSAGES
// =============================================================================

// TypeTickMsg advances the typewriter reveal by one step.
type TypeTickMsg struct {
	Time time.Time
}

// BlinkTickMsg toggles the reveal cursor visibility.
type BlinkTickMsg struct {
	Time time.Time
}

// typeTick schedules the next typewriter advance.
func typeTick(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TypeTickMsg{Time: t}
	})
}

// blinkTick schedules the next cursor blink toggle.
func blinkTick(rate time.Duration) tea.Cmd {
	return tea.Tick(rate, func(t time.Time) tea.Msg {
		return BlinkTickMsg{Time: t}
	})
}

// =============================================================================
// FEEDBACK MESSAGES
// =============================================================================

// FeedbackResultMsg reports the outcome of a feedback submission.
type FeedbackResultMsg struct {
	MessageID string
	Verdict   model.Feedback
	Err       error
}

// =============================================================================
// COPY MESSAGES
// =============================================================================

// CopyResultMsg confirms a clipboard copy operation.
type CopyResultMsg struct {
	Err error
}

// =============================================================================
// STATUS MESSAGES
// =============================================================================

// StatusClearMsg clears the transient status line.
type StatusClearMsg struct{}

// clearStatusAfter schedules clearing the status line.
func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return StatusClearMsg{}
	})
}
