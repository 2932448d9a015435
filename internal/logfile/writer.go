// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logfile provides the buffered day-bucketed NDJSON log writer
// backing the feedback relay and API logging.
package logfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/navilabs/navi-tui/internal/logging"
)

// =============================================================================
// ENTRY
// =============================================================================

// Entry is one structured log record. Data may carry any
// JSON-marshalable payload.
type Entry struct {
	Timestamp string      `json:"timestamp"`
	Level     string      `json:"level"`
	Category  string      `json:"category"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	UserAgent string      `json:"userAgent,omitempty"`
	IP        string      `json:"ip,omitempty"`
	SessionID string      `json:"sessionId,omitempty"`
}

// =============================================================================
// CONFIGURATION
// =============================================================================

// Config holds writer tuning knobs.
type Config struct {
	// Dir is the directory log files are written to (default "logs").
	Dir string

	// FlushInterval is how often buffered entries are written out
	// regardless of volume (default 5s).
	FlushInterval time.Duration

	// FlushThreshold is the buffered-entry count that triggers an
	// immediate flush (default 100).
	FlushThreshold int
}

// DefaultConfig returns the default writer configuration.
func DefaultConfig() Config {
	return Config{
		Dir:            "logs",
		FlushInterval:  5 * time.Second,
		FlushThreshold: 100,
	}
}

func (c *Config) fillDefaults() {
	if c.Dir == "" {
		c.Dir = "logs"
	}
	if c.FlushInterval <= 0 {
		c.FlushInterval = 5 * time.Second
	}
	if c.FlushThreshold <= 0 {
		c.FlushThreshold = 100
	}
}

// =============================================================================
// WRITER
// =============================================================================

// Writer buffers entries in per-day buckets and appends them as NDJSON
// to chatbot-YYYY-MM-DD.log files. Entries are written out either when
// the buffered count reaches the threshold or on the periodic flush
// tick. A bucket that fails to write keeps its entries for the next
// cycle; other buckets are unaffected.
//
// The hosting application must call Close before exit: the final flush
// happens there, not in a process signal hook.
type Writer struct {
	mu      sync.Mutex
	cfg     Config
	buckets map[string][]Entry
	total   int
	closed  bool

	// fallback reports flush failures and flush summaries. It must
	// never be a logger that feeds back into this writer.
	fallback *logging.Logger

	done chan struct{}
	wg   sync.WaitGroup

	// now is replaceable for deterministic tests
	now func() time.Time
}

// NewWriter creates the log directory and starts the background
// flusher.
func NewWriter(cfg Config, fallback *logging.Logger) (*Writer, error) {
	cfg.fillDefaults()

	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	w := &Writer{
		cfg:      cfg,
		buckets:  make(map[string][]Entry),
		fallback: fallback,
		done:     make(chan struct{}),
		now:      time.Now,
	}

	w.wg.Add(1)
	go w.flushLoop()

	return w, nil
}

// Log buffers one entry. A missing timestamp is filled in at call time;
// the entry lands in the bucket for its timestamp's calendar day. When
// the buffered count reaches the threshold, everything is flushed
// immediately.
func (w *Writer) Log(e Entry) {
	w.mu.Lock()

	if w.closed {
		w.mu.Unlock()
		return
	}

	now := w.now()
	if e.Timestamp == "" {
		e.Timestamp = now.Format(time.RFC3339)
	}

	key := dateKey(e.Timestamp, now)
	w.buckets[key] = append(w.buckets[key], e)
	w.total++

	trigger := w.total >= w.cfg.FlushThreshold
	w.mu.Unlock()

	if trigger {
		w.Flush()
	}
}

// Flush writes every buffered bucket to disk. Buckets are cleared only
// on a successful append; failed buckets retain their entries and the
// failure goes to the fallback logger.
func (w *Writer) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.flushLocked()
}

func (w *Writer) flushLocked() {
	for key, entries := range w.buckets {
		if len(entries) == 0 {
			delete(w.buckets, key)
			continue
		}

		path := filepath.Join(w.cfg.Dir, "chatbot-"+key+".log")
		if err := appendNDJSON(path, entries); err != nil {
			if w.fallback != nil {
				w.fallback.Error("log flush failed for "+path, map[string]interface{}{
					"entries": len(entries),
					"error":   err.Error(),
				})
			}
			// Entries stay buffered for the next cycle.
			continue
		}

		w.total -= len(entries)
		delete(w.buckets, key)

		if w.fallback != nil {
			w.fallback.Debug(fmt.Sprintf("%d entries flushed to %s", len(entries), path))
		}
	}

	if w.total < 0 {
		w.total = 0
	}
}

// Pending returns the number of buffered, unflushed entries.
func (w *Writer) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.total
}

// Close stops the background flusher and performs one final
// synchronous flush. Logging after Close is a no-op.
func (w *Writer) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	close(w.done)
	w.wg.Wait()

	w.Flush()
	return nil
}

func (w *Writer) flushLoop() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.cfg.FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.Flush()
		case <-w.done:
			return
		}
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// dateKey extracts the YYYY-MM-DD bucket key from an RFC3339 timestamp,
// falling back to the current day when the timestamp does not parse.
func dateKey(timestamp string, now time.Time) string {
	if t, err := time.Parse(time.RFC3339, timestamp); err == nil {
		return t.Format("2006-01-02")
	}
	return now.Format("2006-01-02")
}

// appendNDJSON appends entries to path, one JSON object per line.
func appendNDJSON(path string, entries []Entry) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	for _, e := range entries {
		if err := enc.Encode(e); err != nil {
			return fmt.Errorf("failed to encode entry: %w", err)
		}
	}
	return nil
}
