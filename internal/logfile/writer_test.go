// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logfile provides the buffered day-bucketed NDJSON log writer.
package logfile

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/navilabs/navi-tui/internal/logging"
)

func newTestWriter(t *testing.T, cfg Config) (*Writer, string, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	cfg.Dir = dir
	if cfg.FlushInterval == 0 {
		cfg.FlushInterval = time.Hour // keep the ticker out of the way
	}

	var buf bytes.Buffer
	fallback := logging.New(&buf, "FileLogger", logging.LevelDebug)
	fallback.SetStyled(false)

	w, err := NewWriter(cfg, fallback)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	t.Cleanup(func() { w.Close() })
	return w, dir, &buf
}

func readEntries(t *testing.T, path string) []Entry {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	var out []Entry
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		if line == "" {
			continue
		}
		var e Entry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			t.Fatalf("bad NDJSON line %q: %v", line, err)
		}
		out = append(out, e)
	}
	return out
}

// =============================================================================
// BUFFERING AND FLUSH
// =============================================================================

func TestLogBuffersUntilFlush(t *testing.T) {
	w, dir, _ := newTestWriter(t, Config{FlushThreshold: 100})

	w.Log(Entry{Level: "info", Category: "FEEDBACK", Message: "one"})
	w.Log(Entry{Level: "info", Category: "FEEDBACK", Message: "two"})

	if w.Pending() != 2 {
		t.Fatalf("Pending = %d, want 2", w.Pending())
	}

	// Nothing on disk yet.
	files, _ := filepath.Glob(filepath.Join(dir, "*.log"))
	if len(files) != 0 {
		t.Fatalf("premature write: %v", files)
	}

	w.Flush()

	if w.Pending() != 0 {
		t.Errorf("Pending after flush = %d", w.Pending())
	}

	day := time.Now().Format("2006-01-02")
	entries := readEntries(t, filepath.Join(dir, "chatbot-"+day+".log"))
	if len(entries) != 2 {
		t.Fatalf("entries on disk = %d, want 2", len(entries))
	}
	if entries[0].Message != "one" || entries[1].Message != "two" {
		t.Errorf("order broken: %+v", entries)
	}
	if entries[0].Timestamp == "" {
		t.Error("timestamp should be assigned at log time")
	}
}

func TestThresholdTriggersImmediateFlush(t *testing.T) {
	w, dir, _ := newTestWriter(t, Config{FlushThreshold: 5})

	for i := 0; i < 5; i++ {
		w.Log(Entry{Level: "info", Category: "API", Message: "m"})
	}

	if w.Pending() != 0 {
		t.Errorf("Pending = %d, threshold should have flushed", w.Pending())
	}

	day := time.Now().Format("2006-01-02")
	entries := readEntries(t, filepath.Join(dir, "chatbot-"+day+".log"))
	if len(entries) != 5 {
		t.Errorf("entries on disk = %d, want 5", len(entries))
	}
}

func TestBucketsByCalendarDay(t *testing.T) {
	w, dir, _ := newTestWriter(t, Config{FlushThreshold: 100})

	w.Log(Entry{Timestamp: "2025-03-01T23:59:00Z", Message: "yesterday"})
	w.Log(Entry{Timestamp: "2025-03-02T00:01:00Z", Message: "today"})
	w.Flush()

	a := readEntries(t, filepath.Join(dir, "chatbot-2025-03-01.log"))
	b := readEntries(t, filepath.Join(dir, "chatbot-2025-03-02.log"))
	if len(a) != 1 || a[0].Message != "yesterday" {
		t.Errorf("2025-03-01 bucket = %+v", a)
	}
	if len(b) != 1 || b[0].Message != "today" {
		t.Errorf("2025-03-02 bucket = %+v", b)
	}
}

func TestAppendAcrossFlushes(t *testing.T) {
	w, dir, _ := newTestWriter(t, Config{FlushThreshold: 100})

	w.Log(Entry{Timestamp: "2025-03-01T10:00:00Z", Message: "first"})
	w.Flush()
	w.Log(Entry{Timestamp: "2025-03-01T11:00:00Z", Message: "second"})
	w.Flush()

	entries := readEntries(t, filepath.Join(dir, "chatbot-2025-03-01.log"))
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2 (append, not truncate)", len(entries))
	}
}

// =============================================================================
// FAILURE ISOLATION
// =============================================================================

func TestFailedBucketRetainsEntries(t *testing.T) {
	w, dir, fallbackOut := newTestWriter(t, Config{FlushThreshold: 100})

	// Make the target file path unwritable by turning it into a directory.
	blocked := filepath.Join(dir, "chatbot-2025-03-01.log")
	if err := os.Mkdir(blocked, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	w.Log(Entry{Timestamp: "2025-03-01T10:00:00Z", Message: "stuck"})
	w.Log(Entry{Timestamp: "2025-03-02T10:00:00Z", Message: "fine"})
	w.Flush()

	// The healthy bucket flushed; the blocked one kept its entry.
	if w.Pending() != 1 {
		t.Errorf("Pending = %d, want 1 retained", w.Pending())
	}
	ok := readEntries(t, filepath.Join(dir, "chatbot-2025-03-02.log"))
	if len(ok) != 1 || ok[0].Message != "fine" {
		t.Errorf("healthy bucket blocked: %+v", ok)
	}
	if !strings.Contains(fallbackOut.String(), "log flush failed") {
		t.Errorf("failure not reported to fallback: %q", fallbackOut.String())
	}

	// Unblock and flush again: the retained entry lands.
	if err := os.Remove(blocked); err != nil {
		t.Fatalf("remove: %v", err)
	}
	w.Flush()
	retried := readEntries(t, blocked)
	if len(retried) != 1 || retried[0].Message != "stuck" {
		t.Errorf("retained entry lost: %+v", retried)
	}
}

// =============================================================================
// LIFECYCLE
// =============================================================================

func TestCloseFlushesAndStops(t *testing.T) {
	w, dir, _ := newTestWriter(t, Config{FlushThreshold: 100})

	w.Log(Entry{Timestamp: "2025-03-01T10:00:00Z", Message: "last words"})
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	entries := readEntries(t, filepath.Join(dir, "chatbot-2025-03-01.log"))
	if len(entries) != 1 {
		t.Fatalf("final flush missing: %d entries", len(entries))
	}

	// Logging after Close is a silent no-op.
	w.Log(Entry{Message: "too late"})
	if w.Pending() != 0 {
		t.Error("Log after Close should be dropped")
	}

	// Close is idempotent.
	if err := w.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}

func TestPeriodicFlush(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(Config{Dir: dir, FlushInterval: 20 * time.Millisecond, FlushThreshold: 100}, nil)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	defer w.Close()

	w.Log(Entry{Message: "tick me out"})

	deadline := time.After(2 * time.Second)
	for w.Pending() != 0 {
		select {
		case <-deadline:
			t.Fatal("ticker never flushed")
		case <-time.After(10 * time.Millisecond):
		}
	}
}
