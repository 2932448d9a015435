// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides reusable UI components for the navi TUI.

This package contains a collection of styled, interactive components built on
top of the Bubble Tea and Lip Gloss libraries.

# Core Components

Header (header.go) - Brand bar with model name and connection status.
StatusBar (statusbar.go) - Bottom bar with session info and keyboard shortcuts.
MessageBubble / MessageList (message.go) - Chat bubbles with feedback marks,
timestamps and the reveal cursor.
InputArea (input.go) - Message input with character counter.
Spinner / TypingIndicator (spinner.go) - Waiting animation while a reply is
pending.
ErrorDisplay (error.go) - Startup failure screen with retry hint.

# Theme Integration

All components accept a *styles.Theme for consistent styling:

	theme := styles.NewTheme()
	header := components.NewHeader(theme)
	header.SetWidth(80)
	header.SetModel("gemma3:1b")
	view := header.View()

Stateful components follow the Bubble Tea update cycle; pure display
components only expose View.
*/
package components
