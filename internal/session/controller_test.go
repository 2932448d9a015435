// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"testing"

	"github.com/navilabs/navi-tui/internal/api"
	"github.com/navilabs/navi-tui/internal/model"
)

// fakeCompleter records calls and returns a canned response.
type fakeCompleter struct {
	resp     *api.ChatResponse
	err      error
	calls    int
	gotModel string
	gotMsgs  []api.ChatMessage
}

func (f *fakeCompleter) Chat(_ context.Context, model string, messages []api.ChatMessage) (*api.ChatResponse, error) {
	f.calls++
	f.gotModel = model
	f.gotMsgs = messages
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func (f *fakeCompleter) DefaultModel() string { return "gemma3:1b" }

// fakeRelay records the last feedback request.
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
	return &api.FeedbackResponse{Success: true, Feedback: req.Feedback}, nil
}

func newTestController(completer Completer, relay FeedbackPoster) *Controller {
	return New(Config{
		SessionID: "sess-test",
		Completer: completer,
		Feedback:  relay,
		Clipboard: func(string) error { return nil },
	})
}

func TestSendMessage(t *testing.T) {
	completer := &fakeCompleter{
		resp: &api.ChatResponse{Response: "안녕하세요!", Model: "m1", TokenCount: 3},
	}
	c := newTestController(completer, nil)

	result, err := c.SendMessage(context.Background(), "안녕")
	if err != nil {
		t.Fatalf("SendMessage() error: %v", err)
	}

	if result.Reply != "안녕하세요!" {
		t.Errorf("Reply = %q, want 안녕하세요!", result.Reply)
	}
	if result.TokenCount != 3 {
		t.Errorf("TokenCount = %d, want 3", result.TokenCount)
	}
	if result.Failed {
		t.Error("Failed should be false on success")
	}
	if completer.gotModel != "gemma3:1b" {
		t.Errorf("model = %q, want gemma3:1b", completer.gotModel)
	}

	conv := c.Conversation()
	if conv.Len() != 2 {
		t.Fatalf("conversation has %d messages, want 2", conv.Len())
	}
	user := conv.Messages[0]
	if user.Sender != model.SenderUser || user.Content != "안녕" {
		t.Errorf("first message = %s %q, want user 안녕", user.Sender, user.Content)
	}

	// The bot bubble starts empty; the revealer fills it.
	bot := conv.Messages[1]
	if bot.ID != result.MessageID {
		t.Errorf("MessageID = %q, want %q", result.MessageID, bot.ID)
	}
	if bot.Content != "" {
		t.Errorf("bot content = %q, want empty before reveal", bot.Content)
	}

	conv.SetContent(result.MessageID, result.Reply)
	if conv.LastBot().Content != "안녕하세요!" {
		t.Errorf("final bot content = %q, want 안녕하세요!", conv.LastBot().Content)
	}
}

func TestSendMessageEmpty(t *testing.T) {
	completer := &fakeCompleter{resp: &api.ChatResponse{Response: "x"}}
	c := newTestController(completer, nil)

	for _, input := range []string{"", "   ", "\n\t"} {
		if _, err := c.SendMessage(context.Background(), input); !errors.Is(err, ErrEmptyMessage) {
			t.Errorf("SendMessage(%q) error = %v, want ErrEmptyMessage", input, err)
		}
	}

	if completer.calls != 0 {
		t.Errorf("completer called %d times, want 0", completer.calls)
	}
	if c.Conversation().Len() != 0 {
		t.Errorf("conversation has %d messages, want 0", c.Conversation().Len())
	}
}

func TestSendMessageHistoryRoles(t *testing.T) {
	completer := &fakeCompleter{resp: &api.ChatResponse{Response: "첫 번째 답변"}}
	c := newTestController(completer, nil)

	first, err := c.SendMessage(context.Background(), "재고 확인해줘")
	if err != nil {
		t.Fatal(err)
	}
	c.Conversation().SetContent(first.MessageID, first.Reply)

	completer.resp = &api.ChatResponse{Response: "두 번째 답변"}
	if _, err := c.SendMessage(context.Background(), "주문 상태는?"); err != nil {
		t.Fatal(err)
	}

	want := []api.ChatMessage{
		{Role: "user", Content: "재고 확인해줘"},
		{Role: "assistant", Content: "첫 번째 답변"},
		{Role: "user", Content: "주문 상태는?"},
	}
	if len(completer.gotMsgs) != len(want) {
		t.Fatalf("history has %d messages, want %d", len(completer.gotMsgs), len(want))
	}
	for i, w := range want {
		if completer.gotMsgs[i] != w {
			t.Errorf("history[%d] = %+v, want %+v", i, completer.gotMsgs[i], w)
		}
	}
}

func TestSendMessageBackendFailure(t *testing.T) {
	completer := &fakeCompleter{err: errors.New("connection refused")}
	c := newTestController(completer, nil)

	result, err := c.SendMessage(context.Background(), "안녕")
	if err != nil {
		t.Fatalf("SendMessage() should not propagate backend errors, got: %v", err)
	}

	if !result.Failed {
		t.Error("Failed should be true on backend failure")
	}
	if result.Reply != "죄송합니다. 오류가 발생했습니다. 다시 시도해주세요." {
		t.Errorf("Reply = %q, want fixed error message", result.Reply)
	}
	if c.Conversation().Len() != 2 {
		t.Errorf("conversation has %d messages, want user + error bubble", c.Conversation().Len())
	}
}

func TestSendMessageMissingResponse(t *testing.T) {
	completer := &fakeCompleter{resp: &api.ChatResponse{Model: "m1"}}
	c := newTestController(completer, nil)

	result, err := c.SendMessage(context.Background(), "안녕")
	if err != nil {
		t.Fatal(err)
	}

	if result.Reply != "죄송합니다. 응답을 받을 수 없습니다." {
		t.Errorf("Reply = %q, want missing-response placeholder", result.Reply)
	}
	if result.Failed {
		t.Error("a 2xx with missing reply text is not a failed send")
	}
}

func TestWaitingClearedOnAllPaths(t *testing.T) {
	tests := []struct {
		name      string
		completer *fakeCompleter
	}{
		{"success", &fakeCompleter{resp: &api.ChatResponse{Response: "ok"}}},
		{"failure", &fakeCompleter{err: errors.New("boom")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestController(tt.completer, nil)
			if _, err := c.SendMessage(context.Background(), "hi"); err != nil {
				t.Fatal(err)
			}
			if c.Waiting() {
				t.Error("Waiting() should be false after the send returns")
			}
		})
	}
}

func TestSubmitFeedback(t *testing.T) {
	relay := &fakeRelay{}
	c := newTestController(&fakeCompleter{}, relay)

	conv := c.Conversation()
	conv.AppendUser("환불 규정 알려줘")
	bot := conv.AppendBot("환불은 7일 이내 가능합니다.")

	if err := c.SubmitFeedback(context.Background(), bot.ID, model.FeedbackPositive); err != nil {
		t.Fatalf("SubmitFeedback() error: %v", err)
	}

	if relay.got.MessageID != bot.ID {
		t.Errorf("messageId = %q, want %q", relay.got.MessageID, bot.ID)
	}
	if relay.got.Feedback != "positive" {
		t.Errorf("feedback = %q, want positive", relay.got.Feedback)
	}
	if relay.got.UserMessage != "환불 규정 알려줘" {
		t.Errorf("userMessage = %q, want paired user turn", relay.got.UserMessage)
	}
	if relay.got.BotMessage != "환불은 7일 이내 가능합니다." {
		t.Errorf("botMessage = %q", relay.got.BotMessage)
	}
	if relay.got.SessionID != "sess-test" {
		t.Errorf("sessionId = %q, want sess-test", relay.got.SessionID)
	}
	if relay.got.Timestamp == "" {
		t.Error("timestamp should be set")
	}

	if bot.Feedback != model.FeedbackPositive {
		t.Errorf("message feedback = %q, want positive", bot.Feedback)
	}
}

func TestSubmitFeedbackPairsAcrossErrorBubble(t *testing.T) {
	relay := &fakeRelay{}
	c := newTestController(&fakeCompleter{}, relay)

	conv := c.Conversation()
	conv.AppendUser("질문입니다")
	conv.AppendBot("죄송합니다. 오류가 발생했습니다. 다시 시도해주세요.")
	bot := conv.AppendBot("다시 답변드립니다.")

	if err := c.SubmitFeedback(context.Background(), bot.ID, model.FeedbackNegative); err != nil {
		t.Fatal(err)
	}

	if relay.got.UserMessage != "질문입니다" {
		t.Errorf("userMessage = %q, want the user turn behind the error bubble", relay.got.UserMessage)
	}
}

func TestSubmitFeedbackRelayFailure(t *testing.T) {
	relay := &fakeRelay{err: errors.New("relay down")}
	c := newTestController(&fakeCompleter{}, relay)

	conv := c.Conversation()
	conv.AppendUser("질문")
	bot := conv.AppendBot("답변")

	if err := c.SubmitFeedback(context.Background(), bot.ID, model.FeedbackPositive); err == nil {
		t.Fatal("expected error when the relay rejects")
	}

	if bot.Feedback != model.FeedbackNone {
		t.Errorf("feedback = %q, want unchanged after relay failure", bot.Feedback)
	}
}

func TestSubmitFeedbackOverwrite(t *testing.T) {
	relay := &fakeRelay{}
	c := newTestController(&fakeCompleter{}, relay)

	conv := c.Conversation()
	conv.AppendUser("질문")
	bot := conv.AppendBot("답변")

	if err := c.SubmitFeedback(context.Background(), bot.ID, model.FeedbackPositive); err != nil {
		t.Fatal(err)
	}
	if err := c.SubmitFeedback(context.Background(), bot.ID, model.FeedbackNegative); err != nil {
		t.Fatal(err)
	}

	if bot.Feedback != model.FeedbackNegative {
		t.Errorf("feedback = %q, want negative after overwrite", bot.Feedback)
	}
	if relay.calls != 2 {
		t.Errorf("relay called %d times, want 2", relay.calls)
	}
}

func TestSubmitFeedbackValidation(t *testing.T) {
	relay := &fakeRelay{}
	c := newTestController(&fakeCompleter{}, relay)

	conv := c.Conversation()
	user := conv.AppendUser("질문")
	bot := conv.AppendBot("답변")

	if err := c.SubmitFeedback(context.Background(), bot.ID, model.Feedback("meh")); !errors.Is(err, ErrInvalidVerdict) {
		t.Errorf("invalid verdict error = %v, want ErrInvalidVerdict", err)
	}
	if err := c.SubmitFeedback(context.Background(), "no-such-id", model.FeedbackPositive); !errors.Is(err, ErrUnknownMessage) {
		t.Errorf("unknown id error = %v, want ErrUnknownMessage", err)
	}
	if err := c.SubmitFeedback(context.Background(), user.ID, model.FeedbackPositive); !errors.Is(err, ErrUnknownMessage) {
		t.Errorf("user-message target error = %v, want ErrUnknownMessage", err)
	}

	if relay.calls != 0 {
		t.Errorf("relay called %d times, want 0", relay.calls)
	}
}

func TestCopyContent(t *testing.T) {
	var copied string
	c := New(Config{
		Completer: &fakeCompleter{},
		Clipboard: func(text string) error {
			copied = text
			return nil
		},
	})

	if err := c.CopyContent("복사할 내용"); err != nil {
		t.Fatalf("CopyContent() error: %v", err)
	}
	if copied != "복사할 내용" {
		t.Errorf("copied = %q, want 복사할 내용", copied)
	}
}

func TestCopyContentFailure(t *testing.T) {
	c := New(Config{
		Completer: &fakeCompleter{},
		Clipboard: func(string) error { return errors.New("no display") },
	})

	if err := c.CopyContent("x"); err == nil {
		t.Error("expected clipboard error to propagate")
	}
}

func TestNewGeneratesSessionID(t *testing.T) {
	c := New(Config{Completer: &fakeCompleter{}})
	if c.SessionID() == "" {
		t.Error("SessionID() should be generated when not provided")
	}
}
