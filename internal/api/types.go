// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP clients for the completion endpoint and
// the feedback relay.
package api

// =============================================================================
// CHAT WIRE TYPES
// =============================================================================

// ChatMessage is a single turn in the completion request.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the body sent to the completion endpoint.
// Stream is always false; replies are delivered whole and revealed
// client-side.
type ChatRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

// ChatResponse is the completion endpoint's reply.
// Response may be absent on a technically-successful call; callers
// substitute a fixed placeholder in that case.
type ChatResponse struct {
	Response   string `json:"response"`
	Model      string `json:"model,omitempty"`
	TokenCount int    `json:"token_count,omitempty"`
}

// apiError is the error body some endpoints return on non-2xx.
type apiError struct {
	Error string `json:"error"`
}

// =============================================================================
// FEEDBACK WIRE TYPES
// =============================================================================

// FeedbackRequest is the body posted to the feedback relay.
type FeedbackRequest struct {
	MessageID   string `json:"messageId"`
	Feedback    string `json:"feedback"`
	UserMessage string `json:"userMessage"`
	BotMessage  string `json:"botMessage"`
	Timestamp   string `json:"timestamp"`
	SessionID   string `json:"sessionId,omitempty"`
}

// FeedbackResponse is the relay's reply.
type FeedbackResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message,omitempty"`
	Feedback string `json:"feedback,omitempty"`
	Error    string `json:"error,omitempty"`
}
