// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/navilabs/navi-tui/internal/api"
	"github.com/navilabs/navi-tui/internal/logging"
	"github.com/navilabs/navi-tui/internal/model"
	"github.com/navilabs/navi-tui/internal/session"
)

type fakeCompleter struct {
	resp    string
	err     error
	gotMsgs []api.ChatMessage
}

func (f *fakeCompleter) Chat(_ context.Context, _ string, messages []api.ChatMessage) (*api.ChatResponse, error) {
	f.gotMsgs = messages
	if f.err != nil {
		return nil, f.err
	}
	return &api.ChatResponse{Response: f.resp, TokenCount: 3}, nil
}

func (f *fakeCompleter) DefaultModel() string { return "gemma3:1b" }

type fakeRelay struct {
	err   error
	calls int
	got   api.FeedbackRequest
}

func (f *fakeRelay) Submit(_ context.Context, req api.FeedbackRequest) (*api.FeedbackResponse, error) {
	f.calls++
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &api.FeedbackResponse{Success: true}, nil
}

func newTestREPL(t *testing.T, completer *fakeCompleter, relay *fakeRelay) (*chatREPL, *bytes.Buffer) {
	t.Helper()
	ctrl := session.New(session.Config{
		SessionID: "sess-test",
		Completer: completer,
		Feedback:  relay,
		Clipboard: func(string) error { return nil },
		Logs:      logging.NewSet(io.Discard, logging.LevelSilent, ""),
	})

	out := &bytes.Buffer{}
	return &chatREPL{
		ctrl: ctrl,
		logs: logging.NewSet(io.Discard, logging.LevelSilent, ""),
		out:  out,
	}, out
}

func TestProcessMessagePrintsReply(t *testing.T) {
	r, out := newTestREPL(t, &fakeCompleter{resp: "배송은 보통 2-3일 걸립니다."}, &fakeRelay{})

	r.processMessage(context.Background(), "배송 기간 알려주세요")

	assert.Contains(t, out.String(), "나비 >")
	assert.Contains(t, out.String(), "배송은 보통 2-3일 걸립니다.")
}

func TestProcessMessageRecordsReply(t *testing.T) {
	completer := &fakeCompleter{resp: "환불은 7일 이내 가능합니다."}
	relay := &fakeRelay{}
	r, _ := newTestREPL(t, completer, relay)

	r.processMessage(context.Background(), "환불 규정이 궁금해요")

	last := r.ctrl.Conversation().LastBot()
	require.NotNil(t, last)
	assert.Equal(t, "환불은 7일 이내 가능합니다.", last.Content)

	// The next send must carry the assistant turn in its history.
	r.processMessage(context.Background(), "감사합니다")
	roles := make([]string, 0, len(completer.gotMsgs))
	for _, m := range completer.gotMsgs {
		roles = append(roles, m.Role)
	}
	assert.Equal(t, []string{"user", "assistant", "user"}, roles)

	// Feedback on a reply carries its text, not an empty bubble.
	r.submitFeedback(context.Background(), model.FeedbackPositive)
	require.Equal(t, 1, relay.calls)
	assert.Equal(t, "환불은 7일 이내 가능합니다.", relay.got.BotMessage)
}

func TestProcessMessageBackendFailure(t *testing.T) {
	r, out := newTestREPL(t, &fakeCompleter{err: errors.New("connection refused")}, &fakeRelay{})

	r.processMessage(context.Background(), "안녕하세요")

	// Backend failures surface as the apology reply, not as errors.
	assert.Contains(t, out.String(), "죄송합니다")
}

func TestSubmitFeedbackNoReply(t *testing.T) {
	relay := &fakeRelay{}
	r, out := newTestREPL(t, &fakeCompleter{resp: "ok"}, relay)

	r.submitFeedback(context.Background(), model.FeedbackPositive)

	assert.Equal(t, 0, relay.calls)
	assert.Contains(t, out.String(), "평가할 답변이 없습니다")
}

func TestSubmitFeedbackOnLastReply(t *testing.T) {
	relay := &fakeRelay{}
	r, out := newTestREPL(t, &fakeCompleter{resp: "환불은 7일 이내 가능합니다."}, relay)

	r.processMessage(context.Background(), "환불 규정이 궁금해요")
	r.submitFeedback(context.Background(), model.FeedbackPositive)

	require.Equal(t, 1, relay.calls)
	assert.Contains(t, out.String(), "피드백이 전송되었습니다")

	last := r.ctrl.Conversation().LastBot()
	require.NotNil(t, last)
	assert.Equal(t, model.FeedbackPositive, last.Feedback)
}

func TestSubmitFeedbackRelayFailure(t *testing.T) {
	relay := &fakeRelay{err: errors.New("relay down")}
	r, out := newTestREPL(t, &fakeCompleter{resp: "ok"}, relay)

	r.processMessage(context.Background(), "질문")
	r.submitFeedback(context.Background(), model.FeedbackNegative)

	assert.Contains(t, out.String(), "피드백 전송에 실패했습니다")
}

func TestHandleCommand(t *testing.T) {
	r, out := newTestREPL(t, &fakeCompleter{resp: "ok"}, &fakeRelay{})
	ctx := context.Background()

	assert.True(t, r.handleCommand(ctx, "/quit"))
	assert.True(t, r.handleCommand(ctx, "/q"))
	assert.False(t, r.handleCommand(ctx, "/help"))
	assert.Contains(t, out.String(), "/up")

	out.Reset()
	assert.False(t, r.handleCommand(ctx, "/unknown"))
	assert.Contains(t, out.String(), "알 수 없는 명령")
}

func TestClearCommand(t *testing.T) {
	r, out := newTestREPL(t, &fakeCompleter{resp: "ok"}, &fakeRelay{})
	ctx := context.Background()

	r.processMessage(ctx, "질문")
	require.NotZero(t, r.ctrl.Conversation().Len())

	assert.False(t, r.handleCommand(ctx, "/clear"))
	assert.Zero(t, r.ctrl.Conversation().Len())
	assert.Contains(t, out.String(), "대화를 초기화했습니다")
}

func TestPrintWelcomeAndGoodbye(t *testing.T) {
	r, out := newTestREPL(t, &fakeCompleter{resp: "ok"}, &fakeRelay{})

	r.printWelcome("gemma3:1b")
	assert.Contains(t, out.String(), "나비")
	assert.Contains(t, out.String(), "gemma3:1b")

	out.Reset()
	r.printGoodbye()
	assert.Contains(t, out.String(), "상담을 종료합니다")
}

func TestRunRequiresController(t *testing.T) {
	err := Run(context.Background(), Options{})
	require.Error(t, err)
}

func TestForceColorsEnabled(t *testing.T) {
	ForceColorsEnabled(false)
	assert.False(t, ColorsEnabled())
	ForceColorsEnabled(true)
	assert.True(t, ColorsEnabled())
}
