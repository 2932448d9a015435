// navi - terminal chat client for the 나비 merchant-support assistant.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/navilabs/navi-tui/internal/api"
	"github.com/navilabs/navi-tui/internal/cli"
	"github.com/navilabs/navi-tui/internal/config"
	"github.com/navilabs/navi-tui/internal/logfile"
	"github.com/navilabs/navi-tui/internal/logging"
	"github.com/navilabs/navi-tui/internal/server"
	"github.com/navilabs/navi-tui/internal/session"
	"github.com/navilabs/navi-tui/internal/ui/chat"
	"github.com/navilabs/navi-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "1.0.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	plainFlag := flag.Bool("plain", false, "use the line-based REPL instead of the full-screen UI")
	configPath := flag.String("config", "", "path to navi.toml (default: ./navi.toml, ~/.navi/config.toml)")
	initFlag := flag.Bool("init", false, "write a default navi.toml and exit")
	versionFlag := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("navi %s (%s, %s)\n", Version, GitCommit, BuildDate)
		return 0
	}

	if *initFlag {
		path := *configPath
		if path == "" {
			path = "navi.toml"
		}
		if err := config.SaveTOML(config.Default(), path); err != nil {
			fmt.Fprintf(os.Stderr, "navi: %v\n", err)
			return 1
		}
		fmt.Printf("navi: wrote %s\n", path)
		return 0
	}

	// .env is optional; real environment wins either way.
	_ = godotenv.Load()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "navi: %v\n", err)
		return 1
	}

	sessionID := uuid.NewString()

	// The full-screen UI owns stdout and stderr, so console logs go to
	// a file in that mode. The plain REPL logs to stderr like any CLI.
	// The TUI needs a terminal on both ends; piped stdin or stdout
	// falls back to the REPL.
	plain := *plainFlag || !cli.IsTTY() || !cli.IsStdoutTTY()
	logOut, logClose := consoleOutput(plain, cfg)
	defer logClose()

	minLevel := logging.ParseLevel(cfg.Logging.MinLevel)
	logs := logging.NewSet(logOut, minLevel, sessionID)
	if !plain {
		setUnstyled(logs)
	}
	logs.General.Info("navi starting", map[string]interface{}{
		"version":   Version,
		"sessionId": sessionID,
		"model":     cfg.API.Model,
	})

	// Buffered NDJSON writer. Close is a contract: the final flush
	// happens here, not in a signal hook.
	writer, err := logfile.NewWriter(logfile.Config{
		Dir:            cfg.Logging.Dir,
		FlushInterval:  cfg.FlushInterval(),
		FlushThreshold: cfg.Logging.FlushThreshold,
	}, logs.General)
	if err != nil {
		fmt.Fprintf(os.Stderr, "navi: log writer: %v\n", err)
		return 1
	}
	defer func() {
		if err := writer.Close(); err != nil {
			logs.Error.Error("log writer close failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Feedback relay runs next to the UI when enabled.
	var feedback session.FeedbackPoster
	if cfg.Server.Enabled {
		relay := server.NewRelay(server.Config{
			Addr:            cfg.Server.Addr,
			AllowedOrigins:  cfg.Server.AllowedOrigins,
			RateLimitPerMin: cfg.Server.RateLimitPerMin,
		}, writer, logs.General)
		go func() {
			if err := relay.Start(); err != nil {
				logs.Error.Error("relay failed", map[string]interface{}{"error": err.Error()})
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := relay.Shutdown(shutdownCtx); err != nil {
				logs.Error.Error("relay shutdown failed", map[string]interface{}{"error": err.Error()})
			}
		}()
		feedback = api.NewFeedbackClient(relayBaseURL(cfg.Server.Addr))
	}

	// Hot-reload of log levels when the config file changes.
	if path := watchPath(*configPath); path != "" {
		watcher, err := config.NewWatcher(path,
			func(next *config.Config) {
				logs.SetLevel(logging.ParseLevel(next.Logging.MinLevel))
				logs.General.Info("config reloaded", map[string]interface{}{
					"minLevel": next.Logging.MinLevel,
				})
			},
			func(err error) {
				logs.Error.Error("config reload failed", map[string]interface{}{"error": err.Error()})
			})
		if err == nil && watcher.Watch() == nil {
			defer watcher.Close()
		}
	}

	client := api.NewClientWithConfig(&api.ClientConfig{
		BaseURL:      cfg.API.BaseURL,
		Endpoint:     cfg.API.Endpoint,
		DefaultModel: cfg.API.Model,
	})

	ctrl := session.New(session.Config{
		SessionID: sessionID,
		Completer: client,
		Feedback:  feedback,
		Logs:      logs,
	})

	if plain {
		if err := cli.Run(ctx, cli.Options{
			Controller: ctrl,
			Logs:       logs,
			ModelName:  cfg.API.Model,
		}); err != nil {
			fmt.Fprintf(os.Stderr, "navi: %v\n", err)
			return 1
		}
		return 0
	}

	return runTUI(ctx, cfg, ctrl, logs)
}

// runTUI runs the full-screen chat until the user quits or ctx is
// cancelled.
func runTUI(ctx context.Context, cfg *config.Config, ctrl *session.Controller, logs *logging.Set) int {
	model := chat.New(chat.Config{
		Controller:     ctrl,
		Logs:           logs,
		Theme:          styles.NewTheme(),
		ModelName:      cfg.API.Model,
		TypingInterval: cfg.TypingInterval(),
		ShowTokens:     cfg.UI.ShowTokens,
		RichMarkdown:   cfg.UI.RichMarkdown,
		StartupErr:     validateEnvironment(cfg),
		Retry:          func() error { return validateEnvironment(cfg) },
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	go func() {
		<-ctx.Done()
		p.Quit()
	}()

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "navi: %v\n", err)
		return 1
	}
	return 0
}

// loadConfig loads from an explicit path when given, otherwise walks
// the default candidates.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromPath(path)
	}
	return config.Load()
}

// validateEnvironment checks the pieces the chat cannot run without.
// Failures land on the error-recovery screen with a retry hook.
func validateEnvironment(cfg *config.Config) error {
	u, err := url.Parse(cfg.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid API base URL %q: set NAVI_API_URL or api.base_url in navi.toml", cfg.API.BaseURL)
	}
	if cfg.API.Model == "" {
		return fmt.Errorf("no model configured: set NAVI_MODEL or api.model in navi.toml")
	}
	return nil
}

// consoleOutput picks where the console logger writes. Plain mode uses
// stderr; TUI mode appends to console.log under the logs dir so the
// alternate screen stays clean.
func consoleOutput(plain bool, cfg *config.Config) (io.Writer, func()) {
	if plain {
		return os.Stderr, func() {}
	}
	if err := os.MkdirAll(cfg.Logging.Dir, 0o755); err != nil {
		return io.Discard, func() {}
	}
	path := filepath.Join(cfg.Logging.Dir, "console.log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return io.Discard, func() {}
	}
	return f, func() { f.Close() }
}

// setUnstyled turns off ANSI styling on every logger in the set.
func setUnstyled(s *logging.Set) {
	s.General.SetStyled(false)
	s.API.SetStyled(false)
	s.UI.SetStyled(false)
	s.Error.SetStyled(false)
}

// watchPath returns the config file to hot-reload, or "" when none
// exists on disk.
func watchPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if _, err := os.Stat("navi.toml"); err == nil {
		return "navi.toml"
	}
	return ""
}

// relayBaseURL turns a listen address into a client base URL.
func relayBaseURL(addr string) string {
	if addr == "" {
		addr = server.DefaultAddr
	}
	if addr[0] == ':' {
		return "http://127.0.0.1" + addr
	}
	return "http://" + addr
}
