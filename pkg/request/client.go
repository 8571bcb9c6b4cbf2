// Package request provides the shared HTTP client used by backend adapters.
// Retry policy lives here, at the adapter boundary; the customization core
// itself never retries.
package request

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Options configures retry behavior for a Client.
type Options struct {
	Retries   int           // attempts beyond the first
	Timeout   time.Duration // per-request timeout
	BaseDelay time.Duration // first retry delay, doubled per attempt
	MaxDelay  time.Duration
}

// DefaultOptions is a conservative retry profile for speech backends.
func DefaultOptions() Options {
	return Options{
		Retries:   2,
		Timeout:   60 * time.Second,
		BaseDelay: 500 * time.Millisecond,
		MaxDelay:  5 * time.Second,
	}
}

// Client wraps http.Client with bounded retries on transport errors and
// retryable status codes (429, 5xx).
type Client struct {
	httpClient *http.Client
	opts       Options
}

// New creates a Client with the given options.
func New(opts Options) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: opts.Timeout},
		opts:       opts,
	}
}

// Response carries the body and status of a completed request.
type Response struct {
	Status int
	Body   []byte
}

// Post sends a POST with the given headers and returns the response body.
// Non-2xx statuses are returned as errors carrying the status and body.
func (c *Client) Post(ctx context.Context, url string, body []byte, headers map[string]string) (*Response, error) {
	return c.do(ctx, http.MethodPost, url, body, headers)
}

// Get sends a GET with the given headers.
func (c *Client) Get(ctx context.Context, url string, headers map[string]string) (*Response, error) {
	return c.do(ctx, http.MethodGet, url, nil, headers)
}

// StatusError reports a non-2xx response.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.Status, e.Body)
}

func (c *Client) do(ctx context.Context, method, url string, body []byte, headers map[string]string) (*Response, error) {
	var lastErr error
	delay := c.opts.BaseDelay

	for attempt := 0; attempt <= c.opts.Retries; attempt++ {
		if attempt > 0 {
			slog.Debug("request: retrying", "url", url, "attempt", attempt, "delay", delay)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
			if delay > c.opts.MaxDelay {
				delay = c.opts.MaxDelay
			}
		}

		resp, err := c.once(ctx, method, url, body, headers)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		var serr *StatusError
		if !isRetryable(err, &serr) {
			return nil, err
		}
	}
	return nil, lastErr
}

func isRetryable(err error, serr **StatusError) bool {
	if se, ok := err.(*StatusError); ok {
		*serr = se
		return se.Status == http.StatusTooManyRequests || se.Status >= 500
	}
	// transport-level failure
	return true
}

func (c *Client) once(ctx context.Context, method, url string, body []byte, headers map[string]string) (*Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Status: resp.StatusCode, Body: truncate(string(data), 512)}
	}
	return &Response{Status: resp.StatusCode, Body: data}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
