// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Plain-terminal chat REPL for navi.
//
// Handles the --plain mode which provides a line-based REPL for talking
// to the support assistant without the full-screen TUI. Useful over ssh,
// in narrow terminals, and when stdout is piped.
//
// Interactive commands (during chat):
//   /help, /h           Show available commands
//   /up                 좋아요 on the last reply
//   /down               싫어요 on the last reply
//   /clear, /c          Clear the conversation
//   /quit, /q           Exit chat
//   exit, quit, 종료    Exit chat
//   Ctrl+C, Ctrl+D      Exit chat

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/peterh/liner"

	"github.com/navilabs/navi-tui/internal/config"
	"github.com/navilabs/navi-tui/internal/logging"
	"github.com/navilabs/navi-tui/internal/model"
	"github.com/navilabs/navi-tui/internal/render"
	"github.com/navilabs/navi-tui/internal/session"
	"github.com/navilabs/navi-tui/internal/ui/styles"
)

// =============================================================================
// LINE INPUT
// =============================================================================

// historyFileName is the readline history file under the config directory.
const historyFileName = "chat_history"

// ChatCLI wraps liner with persistent history for the plain REPL.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a line reader with Ctrl+C aborts enabled and
// history persisted under the navi config directory.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	c := &ChatCLI{line: line}
	if dir, err := config.ConfigDir(); err == nil {
		c.historyFile = filepath.Join(dir, historyFileName)
	}
	c.loadHistory()
	return c
}

func (c *ChatCLI) loadHistory() {
	if c.historyFile == "" {
		return
	}
	f, err := os.Open(c.historyFile)
	if err != nil {
		return
	}
	defer f.Close()
	c.line.ReadHistory(f)
}

func (c *ChatCLI) saveHistory() {
	if c.historyFile == "" {
		return
	}
	if err := config.EnsureConfigDir(); err != nil {
		return
	}
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	c.line.WriteHistory(f)
}

// ReadInput reads one line, recording non-empty input in history.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// Close saves history and restores the terminal.
func (c *ChatCLI) Close() {
	c.saveHistory()
	c.line.Close()
}

// =============================================================================
// PLAIN CHAT REPL
// =============================================================================

// Options configures the plain chat REPL.
type Options struct {
	Controller *session.Controller
	Logs       *logging.Set
	ModelName  string
	Out        io.Writer
}

type chatREPL struct {
	ctrl     *session.Controller
	logs     *logging.Set
	out      io.Writer
	renderer *render.Renderer

	userPrompt string
	botLabel   lipgloss.Style
	dim        lipgloss.Style
}

// Run starts the plain REPL and blocks until the user exits or ctx is
// cancelled. Rich rendering is enabled only when stdout is a terminal.
func Run(ctx context.Context, opts Options) error {
	if opts.Controller == nil {
		return fmt.Errorf("chat: controller is required")
	}
	if opts.Logs == nil {
		opts.Logs = logging.NewSet(io.Discard, logging.LevelSilent, "")
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	r := &chatREPL{
		ctrl:       opts.Controller,
		logs:       opts.Logs,
		out:        opts.Out,
		userPrompt: "나 > ",
		botLabel:   lipgloss.NewStyle().Foreground(styles.Blue).Bold(true),
		dim:        lipgloss.NewStyle().Foreground(styles.TextMuted),
	}
	if IsStdoutTTY() {
		renderer := render.NewRenderer(GetTerminalWidth() - 4)
		if err := renderer.EnableRichMarkdown(); err == nil {
			r.renderer = renderer
		}
	}

	input := NewChatCLI()
	defer input.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	r.printWelcome(opts.ModelName)
	r.logs.UI.Info("plain chat started", map[string]interface{}{
		"sessionId": r.ctrl.SessionID(),
		"model":     opts.ModelName,
	})

	for {
		select {
		case <-ctx.Done():
			r.printGoodbye()
			return nil
		default:
		}

		line, err := input.ReadInput(r.userPrompt)
		if err != nil {
			if err == liner.ErrPromptAborted || err == io.EOF {
				r.printGoodbye()
				return nil
			}
			return fmt.Errorf("read input: %w", err)
		}

		text := strings.TrimSpace(line)
		if text == "" {
			continue
		}

		if strings.HasPrefix(text, "/") {
			if r.handleCommand(ctx, text) {
				r.printGoodbye()
				return nil
			}
			continue
		}
		switch strings.ToLower(text) {
		case "exit", "quit", "종료":
			r.printGoodbye()
			return nil
		}

		r.processMessage(ctx, text)
	}
}

// handleCommand dispatches a slash command. Returns true on quit.
func (r *chatREPL) handleCommand(ctx context.Context, text string) bool {
	switch strings.ToLower(text) {
	case "/quit", "/q":
		return true
	case "/help", "/h":
		r.printHelp()
	case "/up":
		r.submitFeedback(ctx, model.FeedbackPositive)
	case "/down":
		r.submitFeedback(ctx, model.FeedbackNegative)
	case "/clear", "/c":
		r.ctrl.Conversation().Clear()
		r.logs.UI.Info("conversation cleared", map[string]interface{}{
			"sessionId": r.ctrl.SessionID(),
		})
		fmt.Fprintln(r.out, r.dim.Render("대화를 초기화했습니다."))
	default:
		fmt.Fprintln(r.out, r.dim.Render("알 수 없는 명령입니다. /help 를 입력하세요."))
	}
	return false
}

func (r *chatREPL) processMessage(ctx context.Context, text string) {
	fmt.Fprintln(r.out, r.dim.Render("상담원이 입력 중..."))

	result, err := r.ctrl.SendMessage(ctx, text)
	if err != nil {
		fmt.Fprintln(r.out, r.dim.Render("오류: "+err.Error()))
		return
	}

	// The reveal is a TUI affair; here the full reply lands at once so
	// the transcript carries the assistant turn for later sends.
	r.ctrl.Conversation().SetContent(result.MessageID, result.Reply)

	reply := result.Reply
	if r.renderer != nil && !result.Failed {
		reply = r.renderer.Message(reply)
	}
	fmt.Fprintln(r.out, r.botLabel.Render("나비 >"))
	fmt.Fprintln(r.out, reply)
	fmt.Fprintln(r.out)
}

func (r *chatREPL) submitFeedback(ctx context.Context, verdict model.Feedback) {
	last := r.ctrl.Conversation().LastBot()
	if last == nil {
		fmt.Fprintln(r.out, r.dim.Render("평가할 답변이 없습니다."))
		return
	}
	if err := r.ctrl.SubmitFeedback(ctx, last.ID, verdict); err != nil {
		fmt.Fprintln(r.out, r.dim.Render("피드백 전송에 실패했습니다"))
		return
	}
	fmt.Fprintln(r.out, r.dim.Render("피드백이 전송되었습니다"))
}

func (r *chatREPL) printWelcome(modelName string) {
	title := r.botLabel.Render("나비") + " " + r.dim.Render("상담 도우미")
	fmt.Fprintln(r.out, title)
	if modelName != "" {
		fmt.Fprintln(r.out, r.dim.Render("모델: "+modelName))
	}
	fmt.Fprintln(r.out, r.dim.Render("/help 명령, exit 또는 Ctrl+D 로 종료"))
	fmt.Fprintln(r.out)
}

func (r *chatREPL) printHelp() {
	help := []string{
		"/help, /h     명령 목록",
		"/up           마지막 답변에 좋아요",
		"/down         마지막 답변에 싫어요",
		"/clear, /c    대화 초기화",
		"/quit, /q     종료",
	}
	for _, line := range help {
		fmt.Fprintln(r.out, r.dim.Render("  "+line))
	}
}

func (r *chatREPL) printGoodbye() {
	conv := r.ctrl.Conversation()
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, r.dim.Render(fmt.Sprintf("상담을 종료합니다. (메시지 %d개)", conv.Len())))
	r.logs.UI.Info("plain chat ended", map[string]interface{}{
		"sessionId": r.ctrl.SessionID(),
		"messages":  conv.Len(),
	})
}
