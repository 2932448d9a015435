// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
//
// This package defines the core domain types used throughout the application
// for representing the chat transcript and user feedback.
//
// # Key Types
//
//   - Conversation: Ordered, append-only list of messages
//   - Message: Single message with sender, content, timestamp, and feedback
//   - Sender: Message origin enumeration (user, bot)
//   - Feedback: Thumbs up/down verdict on a bot reply
//
// # Usage
//
// Create a new conversation:
//
//	conv := model.NewConversation(sessionID)
//	conv.AppendUser("안녕하세요")
package model
