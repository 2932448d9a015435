// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package server provides the feedback relay HTTP server.
//
// The relay sits next to the chat client and accepts thumbs up/down
// verdicts over HTTP, recording each one through the buffered log
// writer so verdicts land in the daily NDJSON files alongside the rest
// of the chat telemetry.
//
// # Endpoints
//
//   - POST /api/feedback - validate and record a verdict
//   - GET  /health       - liveness check
//
// # Middleware
//
// chi RequestID/RealIP/Recoverer, CORS with a configurable origin
// allow-list, and a per-IP token-bucket rate limiter.
package server
