// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import (
	"time"

	"github.com/navilabs/navi-tui/internal/api"
)

// MaxMessages is the maximum number of messages to keep in conversation history.
// When exceeded, old messages are pruned to prevent unbounded memory growth.
const MaxMessages = 1000

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation holds an ordered, append-only chat transcript.
// Messages are never reordered or removed mid-list; pruning only drops
// from the front once MaxMessages is exceeded.
type Conversation struct {
	ID        string     `json:"id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	Messages  []*Message `json:"messages"`
}

// NewConversation creates an empty conversation.
func NewConversation(id string) *Conversation {
	return &Conversation{
		ID:        id,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
		Messages:  make([]*Message, 0),
	}
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// Append adds a message to the conversation.
func (c *Conversation) Append(msg *Message) {
	c.Messages = append(c.Messages, msg)
	c.UpdatedAt = time.Now()
	c.pruneOldMessages()
}

// AppendUser creates and appends a user message.
func (c *Conversation) AppendUser(content string) *Message {
	msg := NewUserMessage(content)
	c.Append(msg)
	return msg
}

// AppendBot creates and appends a bot message.
func (c *Conversation) AppendBot(content string) *Message {
	msg := NewBotMessage(content)
	c.Append(msg)
	return msg
}

// Last returns the most recent message, or nil if empty.
func (c *Conversation) Last() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return c.Messages[len(c.Messages)-1]
}

// LastBot returns the most recent bot message, or nil.
func (c *Conversation) LastBot() *Message {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].Sender == SenderBot {
			return c.Messages[i]
		}
	}
	return nil
}

// MessageByID returns the message with the given ID, or nil.
func (c *Conversation) MessageByID(id string) *Message {
	for _, m := range c.Messages {
		if m.ID == id {
			return m
		}
	}
	return nil
}

// SetContent replaces the content of the message with the given ID.
// Used by the typing reveal: each call carries a longer prefix of the
// final reply.
func (c *Conversation) SetContent(id, content string) bool {
	msg := c.MessageByID(id)
	if msg == nil {
		return false
	}
	msg.Content = content
	c.UpdatedAt = time.Now()
	return true
}

// SetFeedback records a verdict on the message with the given ID.
// A repeat verdict overwrites the previous one; nothing is ever
// auto-cleared.
func (c *Conversation) SetFeedback(id string, verdict Feedback) bool {
	msg := c.MessageByID(id)
	if msg == nil || !verdict.Valid() {
		return false
	}
	msg.Feedback = verdict
	c.UpdatedAt = time.Now()
	return true
}

// PrecedingUserMessage returns the nearest user message that appears
// before the message with the given ID. Error bubbles and consecutive
// bot replies are skipped, so a feedback verdict always pairs with the
// question that actually produced the reply.
func (c *Conversation) PrecedingUserMessage(id string) *Message {
	idx := -1
	for i, m := range c.Messages {
		if m.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	for i := idx - 1; i >= 0; i-- {
		if c.Messages[i].Sender == SenderUser {
			return c.Messages[i]
		}
	}
	return nil
}

// Len returns the number of messages.
func (c *Conversation) Len() int {
	return len(c.Messages)
}

// Clear removes all messages.
func (c *Conversation) Clear() {
	c.Messages = c.Messages[:0]
	c.UpdatedAt = time.Now()
}

// ToAPIMessages converts the transcript to the wire format expected by
// the completion endpoint. User messages map to role "user", bot
// messages to role "assistant".
func (c *Conversation) ToAPIMessages() []api.ChatMessage {
	out := make([]api.ChatMessage, 0, len(c.Messages))
	for _, m := range c.Messages {
		if m.IsEmpty() {
			continue
		}
		out = append(out, api.ChatMessage{
			Role:    m.Sender.APIRole(),
			Content: m.Content,
		})
	}
	return out
}

// pruneOldMessages drops the oldest messages once the cap is exceeded.
func (c *Conversation) pruneOldMessages() {
	if len(c.Messages) <= MaxMessages {
		return
	}
	excess := len(c.Messages) - MaxMessages
	c.Messages = append(c.Messages[:0:0], c.Messages[excess:]...)
}
