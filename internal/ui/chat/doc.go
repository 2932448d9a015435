// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the main chat view for the navi TUI.

The chat package implements the terminal chat interface using the
Bubble Tea framework: a scrollable conversation, a message input, a
typewriter reveal for bot replies, and feedback keys on the latest
reply.

# Key Components

## Model (model.go)

The Model struct is the central Bubble Tea model:
  - Conversation display through the session controller
  - Reveal state driven by the typewriter package
  - Startup error screen with retry

## View Rendering (view.go)

Layout and rendering for the complete interface: header, message
viewport, typing indicator, input area and status line. The viewport
height is derived from the measured heights of the fixed sections.

## Update Loop (update.go)

Handles all Bubble Tea messages:
  - Enter submits the input; during a reveal it skips to the full reply
  - "." and "," submit thumbs up/down on the last bot reply when the
    input field is empty
  - Ctrl+Y copies the last reply to the clipboard
  - TypeTickMsg advances the reveal one rune per configured interval

# Usage

Create a chat model and run it as a Bubble Tea program:

	ctrl := session.New(session.Config{Completer: client, Feedback: relay})
	m := chat.New(chat.Config{
		Controller: ctrl,
		ModelName:  "gemma3:1b",
	})
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatal(err)
	}
*/
package chat
