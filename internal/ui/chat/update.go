// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/navilabs/navi-tui/internal/model"
	"github.com/navilabs/navi-tui/internal/ui/styles"
)

// statusDisplayTime is how long transient status messages stay visible.
const statusDisplayTime = 3 * time.Second

// =============================================================================
// UPDATE
// =============================================================================

// Update handles messages for the chat model. The tea.Model contract
// wants the interface back; update keeps the concrete type for
// in-package dispatch.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m.update(msg)
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		m.refreshViewport()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case SendResultMsg:
		return m.handleSendResult(msg)

	case TypeTickMsg:
		return m.handleTypeTick()

	case BlinkTickMsg:
		m.cursorOn = !m.cursorOn
		if m.state == StateRevealing {
			m.refreshViewport()
		}
		return m, blinkTick(styles.CursorBlinkRate)

	case FeedbackResultMsg:
		return m.handleFeedbackResult(msg)

	case CopyResultMsg:
		if msg.Err != nil {
			m.statusMsg = "복사에 실패했습니다"
		} else {
			m.statusMsg = "클립보드에 복사되었습니다"
		}
		return m, clearStatusAfter(statusDisplayTime)

	case StatusClearMsg:
		m.statusMsg = ""
		return m, nil
	}

	// Typing indicator animation frames.
	var cmd tea.Cmd
	m.typing, cmd = m.typing.Update(msg)
	if cmd != nil {
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if key.Matches(msg, m.keyMap.Quit) {
		m.logs.UI.Info("chat unmounted", map[string]interface{}{
			"messages": m.conversationLen(),
		})
		return m, tea.Quit
	}

	if m.state == StateError {
		if key.Matches(msg, m.keyMap.Retry) {
			return m.handleRetry()
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keyMap.Submit):
		if m.state == StateRevealing {
			// Skip the rest of the reveal.
			return m.finishReveal()
		}
		if m.state == StateReady {
			return m.submit()
		}
		return m, nil

	case key.Matches(msg, m.keyMap.FeedbackUp):
		if m.feedbackKeysActive() {
			return m.submitFeedback(model.FeedbackPositive)
		}

	case key.Matches(msg, m.keyMap.FeedbackDown):
		if m.feedbackKeysActive() {
			return m.submitFeedback(model.FeedbackNegative)
		}

	case key.Matches(msg, m.keyMap.Copy):
		return m.copyLastReply()

	case key.Matches(msg, m.keyMap.Up):
		m.viewport.LineUp(1)
		return m, nil

	case key.Matches(msg, m.keyMap.Down):
		m.viewport.LineDown(1)
		return m, nil

	case key.Matches(msg, m.keyMap.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keyMap.PageDown):
		m.viewport.HalfViewDown()
		return m, nil
	}

	// Everything else goes to the input field.
	var cmd tea.Cmd
	m.inputArea, cmd = m.inputArea.Update(msg)
	m.logInputProgress()
	return m, cmd
}

// feedbackKeysActive reports whether "." and "," act as feedback keys.
// With text in the input field they type their literal character.
func (m Model) feedbackKeysActive() bool {
	return m.state == StateReady && m.inputArea.Value() == ""
}

// =============================================================================
// SENDING
// =============================================================================

func (m Model) submit() (Model, tea.Cmd) {
	text := strings.TrimSpace(m.inputArea.Value())
	if text == "" {
		return m, nil
	}

	m.logs.UI.Info("message submitted", map[string]interface{}{
		"length": len([]rune(text)),
	})

	m.inputArea.Reset()
	m.lastInputStep = 0
	m.state = StateWaiting
	m.refreshViewport()

	ctrl := m.controller
	send := func() tea.Msg {
		res, err := ctrl.SendMessage(context.Background(), text)
		return SendResultMsg{Result: res, Err: err}
	}

	return m, tea.Batch(m.typing.Start(), send)
}

func (m Model) handleSendResult(msg SendResultMsg) (Model, tea.Cmd) {
	m.typing.Stop()

	if msg.Result == nil {
		// Only empty input produces this, and submit already guards
		// against it.
		m.state = StateReady
		return m, nil
	}

	m.state = StateRevealing
	m.cursorOn = true
	m.revealer.Start(msg.Result.MessageID, msg.Result.Reply)
	if !m.revealer.Active() {
		return m.revealDone()
	}
	m.refreshViewport()

	return m, typeTick(m.typingInterval)
}

// =============================================================================
// TYPEWRITER REVEAL
// =============================================================================

func (m Model) handleTypeTick() (Model, tea.Cmd) {
	if !m.revealer.Active() {
		return m, nil
	}

	prefix := m.revealer.Advance()
	m.controller.Conversation().SetContent(m.revealer.MessageID(), prefix)
	m.refreshViewport()

	if m.revealer.Active() {
		return m, typeTick(m.typingInterval)
	}
	return m.revealDone()
}

// finishReveal skips ahead to the fully revealed reply.
func (m Model) finishReveal() (Model, tea.Cmd) {
	for m.revealer.Active() {
		m.revealer.Advance()
	}
	m.controller.Conversation().SetContent(m.revealer.MessageID(), m.revealer.Revealed())
	return m.revealDone()
}

func (m Model) revealDone() (Model, tea.Cmd) {
	m.state = StateReady
	m.logs.UI.Debug("reveal complete", map[string]interface{}{
		"messageId": m.revealer.MessageID(),
	})
	m.refreshViewport()
	return m, nil
}

// =============================================================================
// FEEDBACK
// =============================================================================

func (m Model) submitFeedback(verdict model.Feedback) (Model, tea.Cmd) {
	last := m.controller.Conversation().LastBot()
	if last == nil {
		return m, nil
	}

	id := last.ID
	ctrl := m.controller
	cmd := func() tea.Msg {
		err := ctrl.SubmitFeedback(context.Background(), id, verdict)
		return FeedbackResultMsg{MessageID: id, Verdict: verdict, Err: err}
	}
	return m, cmd
}

func (m Model) handleFeedbackResult(msg FeedbackResultMsg) (Model, tea.Cmd) {
	if msg.Err != nil {
		m.statusMsg = "피드백 전송에 실패했습니다"
	} else {
		m.statusMsg = "피드백이 전송되었습니다"
	}
	m.refreshViewport()
	return m, clearStatusAfter(statusDisplayTime)
}

// =============================================================================
// CLIPBOARD
// =============================================================================

func (m Model) copyLastReply() (Model, tea.Cmd) {
	last := m.controller.Conversation().LastBot()
	if last == nil || last.Content == "" {
		return m, nil
	}

	content := last.Content
	ctrl := m.controller
	cmd := func() tea.Msg {
		return CopyResultMsg{Err: ctrl.CopyContent(content)}
	}
	return m, cmd
}

// =============================================================================
// STARTUP RETRY
// =============================================================================

func (m Model) handleRetry() (Model, tea.Cmd) {
	if m.retry == nil {
		return m, nil
	}

	m.logs.UI.Info("startup retry requested", map[string]interface{}{
		"error": m.startupErr.Error(),
	})

	if err := m.retry(); err != nil {
		m.setStartupError(err)
		return m, nil
	}

	m.clearStartupError()
	m.refreshViewport()
	return m, m.inputArea.Focus()
}

// =============================================================================
// HELPERS
// =============================================================================

// logInputProgress logs input length every inputLogStep characters.
func (m *Model) logInputProgress() {
	n := m.inputArea.Length()
	step := n / inputLogStep
	if step != m.lastInputStep {
		m.lastInputStep = step
		if n > 0 {
			m.logs.UI.Debug("input progress", map[string]interface{}{
				"length": n,
			})
		}
	}
}

func (m Model) conversationLen() int {
	if m.controller == nil {
		return 0
	}
	return m.controller.Conversation().Len()
}
