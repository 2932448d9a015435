// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package typewriter implements the character-by-character reveal used
// for bot replies.
package typewriter

// State is the revealer's lifecycle phase.
type State int

const (
	StateIdle      State = iota // no reveal in progress
	StateRevealing              // prefix is growing
	StateComplete               // full text revealed
)

// Revealer walks one target string forward a rune at a time. It holds
// no timer: the caller decides the cadence by calling Advance, so tests
// run it synchronously and the UI drives it from a tick loop.
//
// Not safe for concurrent use; the Bubble Tea update loop owns it.
type Revealer struct {
	state    State
	target   []rune
	pos      int
	targetID string
}

// New returns an idle revealer.
func New() *Revealer {
	return &Revealer{}
}

// Start begins revealing full, tagged with the message ID it belongs
// to. An in-flight reveal is implicitly abandoned; its partial text
// stays wherever the caller last put it. Starting with empty text
// completes immediately.
func (r *Revealer) Start(messageID, full string) {
	r.target = []rune(full)
	r.pos = 0
	r.targetID = messageID
	if len(r.target) == 0 {
		r.state = StateComplete
		return
	}
	r.state = StateRevealing
}

// Advance reveals one more rune and returns the current prefix. Once
// the whole text is out the state flips to Complete and further calls
// return the full text unchanged.
func (r *Revealer) Advance() string {
	if r.state != StateRevealing {
		return string(r.target[:r.pos])
	}

	r.pos++
	if r.pos >= len(r.target) {
		r.pos = len(r.target)
		r.state = StateComplete
	}
	return string(r.target[:r.pos])
}

// Cancel abandons the reveal, freezing whatever prefix is out.
func (r *Revealer) Cancel() {
	if r.state == StateRevealing {
		r.state = StateIdle
	}
}

// Revealed returns the prefix revealed so far.
func (r *Revealer) Revealed() string {
	return string(r.target[:r.pos])
}

// Remaining returns how many runes are still hidden.
func (r *Revealer) Remaining() int {
	return len(r.target) - r.pos
}

// State returns the current lifecycle phase.
func (r *Revealer) State() State {
	return r.state
}

// MessageID returns the ID of the message being revealed.
func (r *Revealer) MessageID() string {
	return r.targetID
}

// Active reports whether a reveal is in progress.
func (r *Revealer) Active() bool {
	return r.state == StateRevealing
}
