// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides the plain-terminal chat REPL for navi.
//
// The REPL is the fallback for environments where the full-screen TUI
// is unavailable or unwanted (ssh sessions, piped output, --plain flag).
// It reads lines with persistent history, sends them through the same
// session controller the TUI uses, and prints replies to stdout.
//
// # Key Types
//
//   - ChatCLI: liner wrapper with history persisted in the config directory
//   - Options: controller, logger, and output wiring for the REPL
//
// # Usage
//
//	ctrl := session.New(session.Config{...})
//	err := cli.Run(ctx, cli.Options{
//	    Controller: ctrl,
//	    Logs:       logs,
//	    ModelName:  cfg.API.Model,
//	})
//
// Color output respects NO_COLOR and TTY detection; rich markdown
// rendering is enabled only when stdout is a terminal.
package cli
