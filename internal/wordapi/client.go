package wordapi

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

// Word is the payload accepted by the vocabulary service.
type Word struct {
	UserID        string `json:"userId"`
	Word          string `json:"word"`
	Translation   string `json:"translation"`
	Pronunciation string `json:"pronunciation"`
	Example       string `json:"example"`
}

// Error is a non-2xx answer of the vocabulary service.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("word service (%d): %s", e.Status, e.Message)
}

// Client posts words to the service at URL.
type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient creates a client for url.
func NewClient(url string) *Client {
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Save posts w and returns the decoded response body, if any.
func (c *Client) Save(ctx context.Context, w Word) (map[string]any, error) {
	payload, err := json.Marshal(w)
	if err != nil {
		return nil, fmt.Errorf("failed to encode word: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{Status: resp.StatusCode, Message: errorMessage(resp.StatusCode, body, c.url)}
	}

	var data map[string]any
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &data); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return data, nil
}

func errorMessage(status int, body []byte, url string) string {
	if status == http.StatusNotFound {
		return "endpoint not found, check that the service is running at " + url
	}
	var detail struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &detail) == nil && detail.Message != "" {
		return detail.Message
	}
	if msg := strings.TrimSpace(string(body)); msg != "" {
		return msg
	}
	return http.StatusText(status)
}
