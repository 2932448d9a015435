// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP clients for the completion endpoint and
// the feedback relay.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"
)

// =============================================================================
// FEEDBACK CLIENT
// =============================================================================

// FeedbackClient posts thumbs up/down verdicts to the feedback relay.
// Best-effort, fire-once: a failed post is reported but never retried.
type FeedbackClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewFeedbackClient creates a feedback client for the given relay base URL.
func NewFeedbackClient(baseURL string) *FeedbackClient {
	return &FeedbackClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Submit posts a feedback verdict. Returns the relay's response on 2xx
// and a ClientError otherwise.
func (c *FeedbackClient) Submit(ctx context.Context, req FeedbackRequest) (*FeedbackResponse, error) {
	if req.Timestamp == "" {
		req.Timestamp = time.Now().Format(time.RFC3339)
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal feedback", Cause: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/feedback", bytes.NewReader(body))
	if err != nil {
		return nil, &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrCanceled
		}
		return nil, ErrUnreachable
	}
	defer resp.Body.Close()

	var result FeedbackResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 || !result.Success {
		msg := result.Error
		if msg == "" {
			msg = "feedback request failed: " + resp.Status
		}
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: msg}
	}

	return &result, nil
}
