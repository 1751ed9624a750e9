package translation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	googleFreeURL  = "https://translate.googleapis.com/translate_a/single"
	googleCloudURL = "https://translation.googleapis.com/language/translate/v2"
	httpTimeout    = 30 * time.Second
)

// GoogleFree uses the keyless Google Translate endpoint.
type GoogleFree struct {
	baseURL    string
	httpClient *http.Client
}

// NewGoogleFree creates a keyless Google translator. An empty baseURL uses
// the public endpoint.
func NewGoogleFree(baseURL string) *GoogleFree {
	if baseURL == "" {
		baseURL = googleFreeURL
	}
	return &GoogleFree{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: httpTimeout},
	}
}

// Name returns the service name.
func (g *GoogleFree) Name() string { return "google-free" }

// Translate translates req.Text. All sentence segments of the response are
// joined, so multi-sentence input is translated in full.
func (g *GoogleFree) Translate(ctx context.Context, req Request) (Result, error) {
	res, done, err := prepare(&req, g.Name())
	if err != nil || done {
		return res, err
	}

	params := url.Values{}
	params.Set("client", "gtx")
	params.Set("sl", res.Source.GoogleCode())
	params.Set("tl", req.Target.GoogleCode())
	params.Set("dt", "t")
	params.Set("q", req.Text)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return Result{}, fmt.Errorf("failed to create request: %w", err)
	}

	body, err := doRequest(g.httpClient, httpReq, g.Name())
	if err != nil {
		return Result{}, err
	}

	text, err := parseGoogleFree(body)
	if err != nil {
		return Result{}, &Error{Service: g.Name(), Message: "unexpected response", Err: err}
	}
	res.Text = text
	return res, nil
}

// parseGoogleFree joins the translated part of every segment in data[0].
// The response looks like [[["안녕","hello",...],...],null,"en",...].
func parseGoogleFree(body []byte) (string, error) {
	var data []json.RawMessage
	if err := json.Unmarshal(body, &data); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(data) == 0 {
		return "", ErrNoTranslation
	}

	var segments [][]json.RawMessage
	if err := json.Unmarshal(data[0], &segments); err != nil {
		return "", fmt.Errorf("failed to decode segments: %w", err)
	}

	var b strings.Builder
	for _, seg := range segments {
		if len(seg) == 0 {
			continue
		}
		var part string
		if err := json.Unmarshal(seg[0], &part); err != nil {
			continue
		}
		b.WriteString(part)
	}
	if strings.TrimSpace(b.String()) == "" {
		return "", ErrNoTranslation
	}
	return b.String(), nil
}

// GoogleCloud uses the Cloud Translation v2 REST API.
type GoogleCloud struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewGoogleCloud creates a Cloud Translation client.
func NewGoogleCloud(apiKey, baseURL string) *GoogleCloud {
	if baseURL == "" {
		baseURL = googleCloudURL
	}
	return &GoogleCloud{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: httpTimeout},
	}
}

// Name returns the service name.
func (g *GoogleCloud) Name() string { return "google" }

type googleCloudRequest struct {
	Q      string `json:"q"`
	Source string `json:"source,omitempty"`
	Target string `json:"target"`
	Format string `json:"format"`
}

type googleCloudResponse struct {
	Data struct {
		Translations []struct {
			TranslatedText         string `json:"translatedText"`
			DetectedSourceLanguage string `json:"detectedSourceLanguage"`
		} `json:"translations"`
	} `json:"data"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Translate translates req.Text with the Cloud API.
func (g *GoogleCloud) Translate(ctx context.Context, req Request) (Result, error) {
	key := apiKey(req, g.apiKey)
	if key == "" {
		return Result{}, ErrMissingAPIKey
	}

	res, done, err := prepare(&req, g.Name())
	if err != nil || done {
		return res, err
	}

	payload, err := json.Marshal(googleCloudRequest{
		Q:      req.Text,
		Source: req.Source.GoogleCode(),
		Target: req.Target.GoogleCode(),
		Format: "text",
	})
	if err != nil {
		return Result{}, fmt.Errorf("failed to encode request: %w", err)
	}

	reqURL := g.baseURL + "?" + url.Values{"key": {key}}.Encode()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(payload))
	if err != nil {
		return Result{}, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	body, err := doRequest(g.httpClient, httpReq, g.Name())
	if err != nil {
		var gErr googleCloudResponse
		var tErr *Error
		if errors.As(err, &tErr) && json.Unmarshal([]byte(tErr.Message), &gErr) == nil && gErr.Error != nil {
			tErr.Message = gErr.Error.Message
		}
		return Result{}, err
	}

	var gResp googleCloudResponse
	if err := json.Unmarshal(body, &gResp); err != nil {
		return Result{}, &Error{Service: g.Name(), Message: "unexpected response", Err: err}
	}
	if len(gResp.Data.Translations) == 0 {
		return Result{}, &Error{Service: g.Name(), Err: ErrNoTranslation}
	}
	res.Text = gResp.Data.Translations[0].TranslatedText
	return res, nil
}

// doRequest performs req and returns the body of a 2xx response. Other
// statuses become an *Error carrying the body text.
func doRequest(client *http.Client, req *http.Request, service string) ([]byte, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, &Error{Service: service, Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Service: service, Message: "failed to read response", Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{Service: service, Status: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}
	return body, nil
}
