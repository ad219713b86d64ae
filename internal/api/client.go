// Package api wraps the Elevate backend's task and chat endpoints in
// typed request/response clients. Both clients are stateless: every
// call is a single request/response pair with no retries or batching.
// Identity is supplied per request via the X-User-ID header.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 30 * time.Second

// send issues one JSON request and decodes the response into out (when
// out is non-nil). Transport failures come back as *NetworkError,
// non-2xx responses as *RequestError with the body's detail field.
func send(ctx context.Context, hc *http.Client, method, url, userID string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-User-ID", userID)

	resp, err := hc.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &RequestError{Status: resp.StatusCode, Detail: readDetail(resp.Body)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// readDetail extracts the "detail" field from a JSON error body, falling
// back to a generic message when the body has none.
func readDetail(r io.Reader) string {
	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(r).Decode(&body); err == nil && body.Detail != "" {
		return body.Detail
	}
	return "request failed"
}

func joinURL(base, path string) string {
	return strings.TrimRight(base, "/") + path
}
