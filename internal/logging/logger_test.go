// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging provides the leveled console logger used across the
// client.
package logging

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func newTestLogger(min Level) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	l := New(&buf, "ChatBot", min)
	l.SetStyled(false)
	return l, &buf
}

// =============================================================================
// LEVEL FILTERING
// =============================================================================

func TestLevelFiltering(t *testing.T) {
	tests := []struct {
		min      Level
		logged   []string
		silenced []string
	}{
		{LevelDebug, []string{"d", "i", "w", "e"}, nil},
		{LevelInfo, []string{"i", "w", "e"}, []string{"d"}},
		{LevelWarn, []string{"w", "e"}, []string{"d", "i"}},
		{LevelError, []string{"e"}, []string{"d", "i", "w"}},
		{LevelSilent, nil, []string{"d", "i", "w", "e"}},
	}

	for _, tc := range tests {
		l, buf := newTestLogger(tc.min)
		l.Debug("d")
		l.Info("i")
		l.Warn("w")
		l.Error("e")

		out := buf.String()
		for _, want := range tc.logged {
			if !strings.Contains(out, " "+want) {
				t.Errorf("min=%v: %q missing from output", tc.min, want)
			}
		}
		for _, absent := range tc.silenced {
			if strings.Contains(out, " "+absent+"\n") {
				t.Errorf("min=%v: %q should be filtered", tc.min, absent)
			}
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"silent", LevelSilent},
		{"none", LevelSilent},
		{"garbage", LevelDebug},
	}

	for _, tc := range tests {
		if got := ParseLevel(tc.in); got != tc.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

// =============================================================================
// LINE SHAPE
// =============================================================================

func TestLineCarriesCategoryAndPayload(t *testing.T) {
	l, buf := newTestLogger(LevelDebug)
	l.Info("메시지 전송", map[string]int{"chars": 12})

	out := buf.String()
	if !strings.Contains(out, "[ChatBot]") {
		t.Errorf("category prefix missing: %q", out)
	}
	if !strings.Contains(out, "메시지 전송") {
		t.Errorf("message missing: %q", out)
	}
	if !strings.Contains(out, `{"chars":12}`) {
		t.Errorf("payload missing: %q", out)
	}
	// RFC3339 timestamps carry a T separator.
	if !strings.Contains(out, "T") {
		t.Errorf("timestamp missing: %q", out)
	}
}

// =============================================================================
// TIMERS
// =============================================================================

func TestTimeEndLogsElapsed(t *testing.T) {
	l, buf := newTestLogger(LevelDebug)

	fake := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return fake }

	l.Time("api-request")
	fake = fake.Add(250 * time.Millisecond)
	l.TimeEnd("api-request")

	if !strings.Contains(buf.String(), "api-request: 250ms") {
		t.Errorf("elapsed line missing: %q", buf.String())
	}

	// Label is discarded after the first end.
	buf.Reset()
	l.TimeEnd("api-request")
	if !strings.Contains(buf.String(), "does not exist") {
		t.Errorf("second TimeEnd should warn: %q", buf.String())
	}
}

func TestTimeRestartsTimer(t *testing.T) {
	l, buf := newTestLogger(LevelDebug)

	fake := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return fake }

	l.Time("x")
	fake = fake.Add(time.Second)
	l.Time("x") // restart
	fake = fake.Add(100 * time.Millisecond)
	l.TimeEnd("x")

	if !strings.Contains(buf.String(), "x: 100ms") {
		t.Errorf("restart not honored: %q", buf.String())
	}
}

// =============================================================================
// GROUPS
// =============================================================================

func TestGroupIndentsCosmeticOnly(t *testing.T) {
	l, buf := newTestLogger(LevelDebug)
	l.Group("startup")
	l.Info("inner")
	l.GroupEnd()
	l.Info("outer")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("line count = %d, want 3", len(lines))
	}
	if !strings.Contains(lines[1], "  inner") {
		t.Errorf("grouped line not indented: %q", lines[1])
	}
	if strings.Contains(lines[2], "  outer") {
		t.Errorf("ungrouped line indented: %q", lines[2])
	}

	// Extra GroupEnd is a no-op, never a negative depth.
	l.GroupEnd()
	l.GroupEnd()
	buf.Reset()
	l.Info("after")
	if !strings.Contains(buf.String(), "] after") {
		t.Errorf("depth went negative: %q", buf.String())
	}
}

// =============================================================================
// SET
// =============================================================================

func TestNewSetCategories(t *testing.T) {
	var buf bytes.Buffer
	set := NewSet(&buf, LevelInfo, "sess-1")

	if set.General.Category() != "ChatBot" {
		t.Errorf("General category = %q", set.General.Category())
	}
	if set.API.Category() != "API" {
		t.Errorf("API category = %q", set.API.Category())
	}
	if set.UI.Category() != "UI" {
		t.Errorf("UI category = %q", set.UI.Category())
	}
	if set.Error.Category() != "ERROR" {
		t.Errorf("Error category = %q", set.Error.Category())
	}
	if set.SessionID != "sess-1" {
		t.Errorf("SessionID = %q", set.SessionID)
	}

	// SetLevel leaves the error instance reporting.
	set.SetLevel(LevelSilent)
	if set.Error.MinLevel() != LevelError {
		t.Error("Set.SetLevel must not silence the error logger")
	}
	if set.General.MinLevel() != LevelSilent {
		t.Error("Set.SetLevel should apply to the general logger")
	}
}
