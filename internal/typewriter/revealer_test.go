// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package typewriter implements the character-by-character reveal used
// for bot replies.
package typewriter

import "testing"

func TestRevealAdvancesByRune(t *testing.T) {
	r := New()
	r.Start("m1", "안녕하세요")

	want := []string{"안", "안녕", "안녕하", "안녕하세", "안녕하세요"}
	for i, prefix := range want {
		got := r.Advance()
		if got != prefix {
			t.Errorf("Advance #%d = %q, want %q", i+1, got, prefix)
		}
	}

	if r.State() != StateComplete {
		t.Errorf("State = %v, want Complete", r.State())
	}

	// Further advances are no-ops returning the full text.
	if got := r.Advance(); got != "안녕하세요" {
		t.Errorf("post-complete Advance = %q", got)
	}
}

func TestStartEmptyCompletesImmediately(t *testing.T) {
	r := New()
	r.Start("m1", "")
	if r.State() != StateComplete {
		t.Errorf("State = %v, want Complete for empty text", r.State())
	}
	if got := r.Advance(); got != "" {
		t.Errorf("Advance = %q, want empty", got)
	}
}

func TestStartImplicitlyCancelsPrevious(t *testing.T) {
	r := New()
	r.Start("m1", "first reply")
	r.Advance()
	r.Advance()

	r.Start("m2", "zz")
	if r.MessageID() != "m2" {
		t.Errorf("MessageID = %q, want m2", r.MessageID())
	}
	if got := r.Advance(); got != "z" {
		t.Errorf("Advance after restart = %q, want fresh prefix", got)
	}
}

func TestCancelFreezesPrefix(t *testing.T) {
	r := New()
	r.Start("m1", "abcdef")
	r.Advance()
	r.Advance()
	r.Cancel()

	if r.State() != StateIdle {
		t.Errorf("State = %v, want Idle", r.State())
	}
	if got := r.Revealed(); got != "ab" {
		t.Errorf("Revealed = %q, want frozen prefix ab", got)
	}
	// Canceled reveal does not advance.
	if got := r.Advance(); got != "ab" {
		t.Errorf("Advance after Cancel = %q, want ab", got)
	}

	// Cancel on a complete reveal leaves it complete.
	r.Start("m2", "x")
	r.Advance()
	r.Cancel()
	if r.State() != StateComplete {
		t.Errorf("Cancel after completion changed state to %v", r.State())
	}
}

func TestRemaining(t *testing.T) {
	r := New()
	r.Start("m1", "hello")
	if r.Remaining() != 5 {
		t.Errorf("Remaining = %d, want 5", r.Remaining())
	}
	r.Advance()
	r.Advance()
	if r.Remaining() != 3 {
		t.Errorf("Remaining = %d, want 3", r.Remaining())
	}
}
