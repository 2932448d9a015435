// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the navi TUI.
//
// All colors are lipgloss.AdaptiveColor pairs so the widget reads well
// on both light and dark terminals. The palette follows the original
// widget: blue brand header and user bubbles, neutral bot bubbles, rose
// error bubbles.
//
// # Key Types
//
//   - Theme: every lipgloss style the UI renders with, built once at
//     startup after termenv profile detection
//   - SpinnerConfig: frame sets for the typing indicator
//   - LayoutMode: responsive layout buckets by terminal width
package styles
