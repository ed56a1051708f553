package emotionapi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxResponseSize bounds how much of a detection reply is buffered
const maxResponseSize = 4 * 1024 * 1024

// Config holds the configuration for the emotion API client
type Config struct {
	URL        string
	Timeout    time.Duration
	RetryCount int
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() Config {
	return Config{
		URL:        "http://localhost:5000/emotion",
		Timeout:    10 * time.Second,
		RetryCount: 0,
	}
}

// Client posts raw image bytes to the emotion API
type Client struct {
	httpClient *http.Client
	config     Config
}

// NewClient creates a new emotion API client
func NewClient(config Config) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		config: config,
	}
}

// statusError is returned for non-2xx replies
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("emotion api returned status %d: %s", e.code, e.body)
}

func (e *statusError) Unwrap() error {
	return ErrUnexpectedStatus
}

// Detect posts the image and returns the raw reply body
func (c *Client) Detect(ctx context.Context, image []byte, mimeType string) ([]byte, error) {
	if c.config.URL == "" {
		return nil, ErrMissingEndpointURL
	}

	var lastErr error
	for attempt := 0; attempt <= c.config.RetryCount; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff(attempt)):
			}
		}

		body, err := c.do(ctx, image, mimeType)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		// 4xx will not get better on retry
		var se *statusError
		if errors.As(err, &se) && se.code < 500 {
			return nil, err
		}
	}

	return nil, fmt.Errorf("%w: %w", ErrUnavailable, lastErr)
}

// backoff returns 250ms, 500ms, 1s, ... capped at 4s
func backoff(attempt int) time.Duration {
	d := 250 * time.Millisecond
	for i := 1; i < attempt && d < 4*time.Second; i++ {
		d *= 2
	}
	return d
}

func (c *Client) do(ctx context.Context, image []byte, mimeType string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.URL, bytes.NewReader(image))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mimeType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &statusError{code: resp.StatusCode, body: string(respBody)}
	}

	return respBody, nil
}
