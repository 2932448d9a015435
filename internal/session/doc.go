// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session owns a chat session: the conversation, the
// waiting/typing flag, and the side channels around a send.
//
// # Key Types
//
//   - Controller: coordinates the completion backend, the feedback
//     relay, and the clipboard around one conversation
//   - Config: injected dependencies (completion client, feedback
//     poster, clipboard writer, logger set)
//   - SendResult: what the UI needs to start the typing reveal
//
// Every dependency is injected through Config; the package holds no
// global state, so tests run against fakes.
package session
