package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"codeberg.org/snonux/vopet/internal/api"
)

// Defaults of EnsureServiceAvailable.
const (
	DefaultMaxRetries = 10
	DefaultRetryDelay = 200 * time.Millisecond
)

// ErrServiceUnavailable is returned when the service does not answer.
var ErrServiceUnavailable = errors.New("vopet service is not available")

// Error is a failure reported by the service.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("service error (%d): %s", e.Status, e.Message)
}

// Client calls the service at BaseURL.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// New creates a client for the service at baseURL.
func New(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// Ping checks that the service is active.
func (c *Client) Ping(ctx context.Context) error {
	var out api.PingResponse
	if err := c.do(ctx, http.MethodGet, api.PathPing, nil, &out); err != nil {
		return err
	}
	if out.Status != api.StatusActive {
		return fmt.Errorf("%w: unexpected status %q", ErrServiceUnavailable, out.Status)
	}
	return nil
}

// EnsureServiceAvailable pings the service up to maxRetries times, waiting
// delay between attempts.
func (c *Client) EnsureServiceAvailable(ctx context.Context, maxRetries int, delay time.Duration) error {
	if maxRetries < 1 {
		maxRetries = DefaultMaxRetries
	}
	if delay <= 0 {
		delay = DefaultRetryDelay
	}

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		if lastErr = c.Ping(ctx); lastErr == nil {
			return nil
		}
		if attempt == maxRetries {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return fmt.Errorf("%w after %d attempts: %v", ErrServiceUnavailable, maxRetries, lastErr)
}

// Translate translates text. Empty languages use detection and the service
// default target.
func (c *Client) Translate(ctx context.Context, req api.TranslateRequest) (api.TranslateResponse, error) {
	var out api.TranslateResponse
	err := c.do(ctx, http.MethodPost, api.PathTranslate, req, &out)
	return out, err
}

// Words translates each word of text.
func (c *Client) Words(ctx context.Context, req api.WordsRequest) (api.WordsResponse, error) {
	var out api.WordsResponse
	err := c.do(ctx, http.MethodPost, api.PathWords, req, &out)
	return out, err
}

// SaveWord appends a word to the connected ledger.
func (c *Client) SaveWord(ctx context.Context, req api.SaveRequest) (api.SaveResponse, error) {
	var out api.SaveResponse
	err := c.do(ctx, http.MethodPost, api.PathSave, req, &out)
	return out, err
}

// Records lists the ledger rows.
func (c *Client) Records(ctx context.Context) (api.RecordsResponse, error) {
	var out api.RecordsResponse
	err := c.do(ctx, http.MethodGet, api.PathRecords, nil, &out)
	return out, err
}

// OCR recognizes and translates the text of a screenshot.
func (c *Client) OCR(ctx context.Context, req api.OCRRequest) (api.OCRResponse, error) {
	var out api.OCRResponse
	err := c.do(ctx, http.MethodPost, api.PathOCR, req, &out)
	return out, err
}

// Connect connects the CSV file at path as the ledger.
func (c *Client) Connect(ctx context.Context, path string) (api.LedgerResponse, error) {
	var out api.LedgerResponse
	err := c.do(ctx, http.MethodPost, api.PathConnect, api.ConnectRequest{Path: path}, &out)
	return out, err
}

// Disconnect forgets the connected ledger.
func (c *Client) Disconnect(ctx context.Context) (api.LedgerResponse, error) {
	var out api.LedgerResponse
	err := c.do(ctx, http.MethodPost, api.PathDisconnect, nil, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var env api.Response
		msg := strings.TrimSpace(string(data))
		if json.Unmarshal(data, &env) == nil && env.Error != "" {
			msg = env.Error
		}
		// Keep the decoded envelope for callers that inspect it.
		_ = json.Unmarshal(data, out)
		return &Error{Status: resp.StatusCode, Message: msg}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
