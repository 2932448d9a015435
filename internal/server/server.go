// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package server provides the feedback relay: a small HTTP server that
// accepts thumbs up/down verdicts from the chat client and records them
// through the buffered log writer.
//
// Endpoints:
//   - POST /api/feedback - record a feedback verdict
//   - GET  /health       - health check
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/navilabs/navi-tui/internal/api"
	"github.com/navilabs/navi-tui/internal/logfile"
	"github.com/navilabs/navi-tui/internal/logging"
)

// ============================================================================
// CONSTANTS
// ============================================================================

const (
	// DefaultAddr is the default listen address for the relay.
	DefaultAddr = ":8787"

	// MaxRequestBodySize caps the feedback request body (64KB).
	MaxRequestBodySize = 64 * 1024

	// Version is the relay version.
	Version = "0.1.0"
)

// validVerdicts is the set of acceptable feedback values.
var validVerdicts = map[string]bool{
	"positive": true,
	"negative": true,
}

// ============================================================================
// RELAY
// ============================================================================

// FeedbackWriter is where accepted verdicts are recorded. Satisfied by
// logfile.Writer.
type FeedbackWriter interface {
	Log(e logfile.Entry)
}

// Config holds relay configuration.
type Config struct {
	// Addr is the listen address. DefaultAddr when empty.
	Addr string

	// AllowedOrigins is the CORS allow-list ("*" allows any origin).
	AllowedOrigins []string

	// RateLimitPerMin caps feedback submissions per client IP per
	// minute. 60 when zero.
	RateLimitPerMin int
}

// fillDefaults applies defaults to unset fields.
func (c *Config) fillDefaults() {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
	if c.RateLimitPerMin == 0 {
		c.RateLimitPerMin = 60
	}
}

// Relay is the feedback relay HTTP server.
type Relay struct {
	cfg    Config
	router chi.Router
	server *http.Server

	writer  FeedbackWriter
	logs    *logging.Logger
	limiter *RateLimiter
}

// NewRelay creates a relay that records feedback through writer and
// reports its own activity through logger.
func NewRelay(cfg Config, writer FeedbackWriter, logger *logging.Logger) *Relay {
	cfg.fillDefaults()

	rl := &Relay{
		cfg:    cfg,
		writer: writer,
		logs:   logger,
	}
	rl.router = rl.buildRouter()
	return rl
}

// buildRouter assembles the middleware stack and routes.
func (rl *Relay) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: rl.cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	rl.limiter = NewRateLimiter(rl.cfg.RateLimitPerMin)
	r.Use(RateLimitMiddleware(rl.limiter))

	r.Post("/api/feedback", rl.handleFeedback)
	r.Get("/health", rl.handleHealth)

	return r
}

// Handler returns the relay's HTTP handler. Used directly by tests.
func (rl *Relay) Handler() http.Handler {
	return rl.router
}

// Addr returns the configured listen address.
func (rl *Relay) Addr() string {
	return rl.cfg.Addr
}

// ============================================================================
// HANDLERS
// ============================================================================

// handleFeedback validates a verdict and records it through the
// buffered log writer.
func (rl *Relay) handleFeedback(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBodySize)

	var req api.FeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rl.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.MessageID == "" {
		rl.writeError(w, http.StatusBadRequest, "messageId is required")
		return
	}
	if !validVerdicts[req.Feedback] {
		rl.writeError(w, http.StatusBadRequest, "feedback must be positive or negative")
		return
	}

	if req.Timestamp == "" {
		req.Timestamp = time.Now().Format(time.RFC3339)
	}

	if rl.writer == nil {
		rl.writeError(w, http.StatusInternalServerError, "feedback storage unavailable")
		return
	}

	rl.writer.Log(logfile.Entry{
		Timestamp: req.Timestamp,
		Level:     "info",
		Category:  "FEEDBACK",
		Message:   "feedback received",
		Data: map[string]interface{}{
			"messageId":   req.MessageID,
			"feedback":    req.Feedback,
			"userMessage": req.UserMessage,
			"botMessage":  req.BotMessage,
		},
		UserAgent: r.UserAgent(),
		IP:        r.RemoteAddr,
		SessionID: req.SessionID,
	})

	rl.logs.Info("feedback recorded", map[string]interface{}{
		"messageId": req.MessageID,
		"feedback":  req.Feedback,
	})

	rl.writeJSON(w, http.StatusOK, api.FeedbackResponse{
		Success:  true,
		Message:  "feedback recorded",
		Feedback: req.Feedback,
	})
}

// handleHealth reports relay liveness.
func (rl *Relay) handleHealth(w http.ResponseWriter, r *http.Request) {
	rl.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"version": Version,
	})
}

// ============================================================================
// LIFECYCLE
// ============================================================================

// Start runs the relay until the listener fails or Shutdown is called.
func (rl *Relay) Start() error {
	rl.server = &http.Server{
		Addr:         rl.cfg.Addr,
		Handler:      rl.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	rl.logs.Info("relay listening", map[string]interface{}{"addr": rl.cfg.Addr})
	err := rl.server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown gracefully shuts down the relay and stops the limiter's
// background sweep.
func (rl *Relay) Shutdown(ctx context.Context) error {
	rl.limiter.Stop()
	if rl.server == nil {
		return nil
	}
	rl.logs.Info("relay shutting down")
	return rl.server.Shutdown(ctx)
}

// ============================================================================
// HELPERS
// ============================================================================

// writeJSON writes a JSON response.
func (rl *Relay) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response in the relay's envelope.
func (rl *Relay) writeError(w http.ResponseWriter, status int, message string) {
	rl.writeJSON(w, status, api.FeedbackResponse{
		Success: false,
		Error:   message,
	})
}
