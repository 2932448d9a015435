// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session owns the chat conversation and coordinates the
// completion backend, the feedback relay, and the clipboard.
package session

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/atotto/clipboard"
	"github.com/google/uuid"

	"github.com/navilabs/navi-tui/internal/api"
	"github.com/navilabs/navi-tui/internal/logging"
	"github.com/navilabs/navi-tui/internal/model"
)

// =============================================================================
// ERRORS AND FALLBACK REPLIES
// =============================================================================

// ErrEmptyMessage is returned when a send is attempted with no content.
var ErrEmptyMessage = errors.New("message is empty")

// ErrUnknownMessage is returned when feedback targets a message ID that
// does not exist in the conversation.
var ErrUnknownMessage = errors.New("unknown message id")

// ErrInvalidVerdict is returned for feedback verdicts other than
// positive or negative.
var ErrInvalidVerdict = errors.New("invalid feedback verdict")

// Fixed Korean replies shown in place of a usable backend response.
const (
	replyNoResponse = "죄송합니다. 응답을 받을 수 없습니다."
	replySendFailed = "죄송합니다. 오류가 발생했습니다. 다시 시도해주세요."
)

// =============================================================================
// DEPENDENCIES
// =============================================================================

// Completer is the completion backend the controller talks to.
type Completer interface {
	Chat(ctx context.Context, model string, messages []api.ChatMessage) (*api.ChatResponse, error)
	DefaultModel() string
}

// FeedbackPoster delivers feedback verdicts to the relay.
type FeedbackPoster interface {
	Submit(ctx context.Context, req api.FeedbackRequest) (*api.FeedbackResponse, error)
}

// Config holds the controller's injected dependencies.
type Config struct {
	// SessionID identifies this chat session; generated when empty.
	SessionID string

	// Completer is required.
	Completer Completer

	// Feedback may be nil when no relay is configured.
	Feedback FeedbackPoster

	// Clipboard writes text to the system clipboard; defaults to
	// atotto/clipboard.
	Clipboard func(text string) error

	// Logs is the console logger set; a silent set is used when nil.
	Logs *logging.Set
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller owns the conversation and the waiting flag. All methods
// are safe for concurrent use.
type Controller struct {
	mu sync.Mutex

	sessionID string
	conv      *model.Conversation
	waiting   bool

	completer Completer
	feedback  FeedbackPoster
	clipboard func(string) error
	logs      *logging.Set
}

// New creates a session controller with the given dependencies.
func New(cfg Config) *Controller {
	if cfg.SessionID == "" {
		cfg.SessionID = uuid.NewString()
	}
	if cfg.Clipboard == nil {
		cfg.Clipboard = clipboard.WriteAll
	}
	if cfg.Logs == nil {
		cfg.Logs = logging.NewSet(io.Discard, logging.LevelSilent, cfg.SessionID)
	}

	return &Controller{
		sessionID: cfg.SessionID,
		conv:      model.NewConversation(cfg.SessionID),
		completer: cfg.Completer,
		feedback:  cfg.Feedback,
		clipboard: cfg.Clipboard,
		logs:      cfg.Logs,
	}
}

// SessionID returns the session identifier.
func (c *Controller) SessionID() string {
	return c.sessionID
}

// Conversation returns the conversation owned by this controller.
func (c *Controller) Conversation() *model.Conversation {
	return c.conv
}

// Waiting reports whether a send is in flight.
func (c *Controller) Waiting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.waiting
}

// =============================================================================
// SEND
// =============================================================================

// SendResult is what the UI needs to start the typing reveal.
type SendResult struct {
	// MessageID is the ID of the appended bot message.
	MessageID string

	// Reply is the full reply text the revealer should play out.
	Reply string

	// TokenCount is the completion token count when reported.
	TokenCount int

	// Failed marks the reply as a fixed error message rather than a
	// backend response.
	Failed bool
}

// SendMessage appends the user message, calls the completion backend
// with the full role-mapped history, and appends the bot reply.
//
// The reply message is appended with empty content; the caller reveals
// Reply into it via the conversation's SetContent. On backend failure
// a fixed Korean error message is used as the reply and no error is
// returned, matching the chat surface where every send produces a
// bubble. Only an empty input returns an error.
func (c *Controller) SendMessage(ctx context.Context, text string) (*SendResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		c.logs.General.Warn("empty message ignored")
		return nil, ErrEmptyMessage
	}

	c.mu.Lock()
	c.waiting = true
	userMsg := c.conv.AppendUser(text)
	history := c.conv.ToAPIMessages()
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.waiting = false
		c.mu.Unlock()
	}()

	c.logs.General.Info("message sent", map[string]interface{}{
		"messageId": userMsg.ID,
		"length":    len([]rune(text)),
	})

	c.logs.API.Time("chat-request")
	start := time.Now()
	resp, err := c.completer.Chat(ctx, c.completer.DefaultModel(), history)
	elapsed := time.Since(start)
	c.logs.API.TimeEnd("chat-request")

	if err != nil {
		c.logs.Error.Error("chat request failed", map[string]interface{}{
			"error":     err.Error(),
			"elapsedMs": elapsed.Milliseconds(),
		})
		botMsg := c.appendReply("")
		return &SendResult{MessageID: botMsg.ID, Reply: replySendFailed, Failed: true}, nil
	}

	reply := resp.Response
	if reply == "" {
		c.logs.API.Warn("response body missing reply text")
		reply = replyNoResponse
	}

	c.logs.API.Info("response received", map[string]interface{}{
		"model":      resp.Model,
		"tokenCount": resp.TokenCount,
		"elapsedMs":  elapsed.Milliseconds(),
	})

	botMsg := c.appendReply("")
	botMsg.TokenCount = resp.TokenCount

	c.logs.General.Debug("reply queued", map[string]interface{}{
		"messageId": botMsg.ID,
		"preview":   (&model.Message{Content: reply}).Preview(40),
	})

	return &SendResult{MessageID: botMsg.ID, Reply: reply, TokenCount: resp.TokenCount}, nil
}

// appendReply appends an empty bot message under the lock.
func (c *Controller) appendReply(content string) *model.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conv.AppendBot(content)
}

// =============================================================================
// FEEDBACK
// =============================================================================

// SubmitFeedback posts a verdict for the given bot message to the relay
// and records it on the message once the relay accepts it. The bot
// message is paired with the nearest preceding user message; earlier
// error bubbles between the two are skipped.
func (c *Controller) SubmitFeedback(ctx context.Context, messageID string, verdict model.Feedback) error {
	if !verdict.Valid() {
		return ErrInvalidVerdict
	}

	c.mu.Lock()
	botMsg := c.conv.MessageByID(messageID)
	var userMsg *model.Message
	if botMsg != nil {
		userMsg = c.conv.PrecedingUserMessage(messageID)
	}
	c.mu.Unlock()

	if botMsg == nil || botMsg.Sender != model.SenderBot {
		return ErrUnknownMessage
	}

	req := api.FeedbackRequest{
		MessageID:  messageID,
		Feedback:   string(verdict),
		BotMessage: botMsg.Content,
		Timestamp:  time.Now().Format(time.RFC3339),
		SessionID:  c.sessionID,
	}
	if userMsg != nil {
		req.UserMessage = userMsg.Content
	}

	if c.feedback == nil {
		return errors.New("no feedback relay configured")
	}

	c.logs.General.Info("feedback submitted", map[string]interface{}{
		"messageId": messageID,
		"feedback":  string(verdict),
	})

	if _, err := c.feedback.Submit(ctx, req); err != nil {
		c.logs.Error.Error("feedback submission failed", map[string]interface{}{
			"messageId": messageID,
			"error":     err.Error(),
		})
		return err
	}

	c.mu.Lock()
	c.conv.SetFeedback(messageID, verdict)
	c.mu.Unlock()

	c.logs.General.Debug("feedback recorded", map[string]interface{}{"messageId": messageID})
	return nil
}

// =============================================================================
// CLIPBOARD
// =============================================================================

// CopyContent writes text to the system clipboard. Failures are logged
// and returned so the UI can surface them without treating them as
// fatal.
func (c *Controller) CopyContent(text string) error {
	if err := c.clipboard(text); err != nil {
		c.logs.UI.Warn("clipboard write failed", map[string]interface{}{"error": err.Error()})
		return err
	}
	c.logs.UI.Debug("content copied", map[string]interface{}{"length": len([]rune(text))})
	return nil
}
