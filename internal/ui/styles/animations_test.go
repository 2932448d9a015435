// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"testing"
	"time"
)

func TestSpinnerDuration(t *testing.T) {
	if d := DotsSpinner.Duration(); d != time.Second/6 {
		t.Errorf("DotsSpinner.Duration() = %v, want %v", d, time.Second/6)
	}
}

func TestSpinnerFrameWraps(t *testing.T) {
	n := len(DotsSpinner.Frames)
	for tick := 0; tick < n*3; tick++ {
		want := DotsSpinner.Frames[tick%n]
		if got := DotsSpinner.Frame(tick); got != want {
			t.Errorf("Frame(%d) = %q, want %q", tick, got, want)
		}
	}

	// Negative ticks must not panic.
	if got := DotsSpinner.Frame(-1); got == "" {
		t.Error("Frame(-1) should return a frame")
	}
}

func TestCursorFrameAlternates(t *testing.T) {
	if CursorFrame(0) == CursorFrame(1) {
		t.Error("consecutive cursor frames should differ")
	}
	if CursorFrame(0) != CursorFrame(2) {
		t.Error("cursor frames should repeat with period 2")
	}
}
