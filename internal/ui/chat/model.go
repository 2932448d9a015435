// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
package chat

import (
	"io"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/navilabs/navi-tui/internal/logging"
	"github.com/navilabs/navi-tui/internal/render"
	"github.com/navilabs/navi-tui/internal/session"
	"github.com/navilabs/navi-tui/internal/typewriter"
	"github.com/navilabs/navi-tui/internal/ui/components"
	"github.com/navilabs/navi-tui/internal/ui/styles"
)

// =============================================================================
// CHAT STATE
// =============================================================================

// State represents the current state of the chat view.
type State int

const (
	StateReady     State = iota // Ready for input
	StateWaiting                // Waiting for the backend reply
	StateRevealing              // Playing the reply out rune by rune
	StateError                  // Startup failed; showing the error screen
)

// inputLogStep is the input-length interval at which typing progress is
// logged.
const inputLogStep = 50

// =============================================================================
// CHAT MODEL
// =============================================================================

// Config carries the dependencies for a chat Model.
type Config struct {
	Controller *session.Controller
	Logs       *logging.Set
	Theme      *styles.Theme

	ModelName      string
	TypingInterval time.Duration
	ShowTokens     bool
	RichMarkdown   bool

	// StartupErr puts the model straight into the error screen. Retry
	// is invoked when the user asks to try again; a nil return clears
	// the error.
	StartupErr error
	Retry      func() error
}

// Model is the Bubble Tea model for the chat view.
type Model struct {
	state State

	theme *styles.Theme

	width  int
	height int

	controller *session.Controller
	logs       *logging.Set

	// UI components
	header      *components.Header
	statusBar   *components.StatusBar
	messageList *components.MessageList
	inputArea   *components.InputArea
	typing      components.TypingIndicator
	errView     components.ErrorDisplay
	viewport    viewport.Model

	keyMap KeyMap

	// Reveal machinery
	revealer       *typewriter.Revealer
	renderer       *render.Renderer
	typingInterval time.Duration
	cursorOn       bool

	// Transient status line
	statusMsg string

	// Startup failure handling
	startupErr error
	retry      func() error

	// Last logged input length step
	lastInputStep int
}

var _ tea.Model = Model{}

// New creates a new chat model.
func New(cfg Config) Model {
	theme := cfg.Theme
	if theme == nil {
		theme = styles.NewTheme()
	}

	interval := cfg.TypingInterval
	if interval <= 0 {
		interval = 50 * time.Millisecond
	}

	header := components.NewHeader(theme)
	header.SetModel(cfg.ModelName)

	statusBar := components.NewStatusBar(theme)
	if cfg.Controller != nil {
		statusBar.SetSessionID(cfg.Controller.SessionID())
	}

	messageList := components.NewMessageList(theme)
	messageList.ShowTokens = cfg.ShowTokens

	inputArea := components.NewInputArea(theme)

	vp := viewport.New(80, 20)
	vp.SetContent("")

	renderer := render.NewRenderer(72)
	if cfg.RichMarkdown {
		// Falls back to plain rendering when the terminal cannot do
		// better.
		_ = renderer.EnableRichMarkdown()
	}
	messageList.RenderContent = renderer.Message

	logs := cfg.Logs
	if logs == nil {
		logs = logging.NewSet(io.Discard, logging.LevelSilent, "")
	}

	m := Model{
		state:          StateReady,
		theme:          theme,
		controller:     cfg.Controller,
		logs:           logs,
		header:         header,
		statusBar:      statusBar,
		messageList:    messageList,
		inputArea:      inputArea,
		typing:         components.NewTypingIndicator(),
		errView:        components.NewErrorDisplay(theme),
		viewport:       vp,
		keyMap:         DefaultKeyMap(),
		revealer:       typewriter.New(),
		renderer:       renderer,
		typingInterval: interval,
		retry:          cfg.Retry,
	}

	if cfg.StartupErr != nil {
		m.setStartupError(cfg.StartupErr)
	} else {
		header.SetStatus(components.StatusOnline)
		statusBar.SetStatus(components.StatusOnline)
	}

	return m
}

// Init initializes the chat model.
func (m Model) Init() tea.Cmd {
	m.logs.UI.Info("chat mounted", map[string]interface{}{
		"state": m.stateName(),
	})

	cmds := []tea.Cmd{
		m.inputArea.Focus(),
		blinkTick(styles.CursorBlinkRate),
	}
	return tea.Batch(cmds...)
}

// State returns the current view state.
func (m Model) State() State {
	return m.state
}

// setStartupError switches to the error screen.
func (m *Model) setStartupError(err error) {
	m.state = StateError
	m.startupErr = err
	m.header.SetStatus(components.StatusOffline)
	m.statusBar.SetStatus(components.StatusOffline)
	m.errView = components.NewErrorWithSuggestions(m.theme,
		"시작할 수 없습니다",
		err.Error(),
		[]string{
			"백엔드 서버 주소를 확인해 주세요.",
			"NAVI_API_URL 환경 변수 또는 navi.toml 설정을 확인해 주세요.",
		})
	m.errView.SetSize(m.width, m.height)
}

// clearStartupError returns to the ready state after a successful retry.
func (m *Model) clearStartupError() {
	m.state = StateReady
	m.startupErr = nil
	m.errView.Hide()
	m.header.SetStatus(components.StatusOnline)
	m.statusBar.SetStatus(components.StatusOnline)
}

// stateName returns the state as a log-friendly string.
func (m Model) stateName() string {
	switch m.state {
	case StateReady:
		return "ready"
	case StateWaiting:
		return "waiting"
	case StateRevealing:
		return "revealing"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}
