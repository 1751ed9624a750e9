package translation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const deeplFreeURL = "https://api-free.deepl.com/v2/translate"

// StatusQuotaExceeded is the DeepL status for an exhausted character quota.
const StatusQuotaExceeded = 456

// DeepL uses the DeepL REST API.
type DeepL struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewDeepL creates a DeepL client. An empty baseURL uses the free API.
func NewDeepL(apiKey, baseURL string) *DeepL {
	if baseURL == "" {
		baseURL = deeplFreeURL
	}
	return &DeepL{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: httpTimeout},
	}
}

// Name returns the service name.
func (d *DeepL) Name() string { return "deepl" }

type deeplResponse struct {
	Translations []struct {
		DetectedSourceLanguage string `json:"detected_source_language"`
		Text                   string `json:"text"`
	} `json:"translations"`
}

// Translate translates req.Text. source_lang is only sent when the caller
// named a source language.
func (d *DeepL) Translate(ctx context.Context, req Request) (Result, error) {
	key := apiKey(req, d.apiKey)
	if key == "" {
		return Result{}, ErrMissingAPIKey
	}

	res, done, err := prepare(&req, d.Name())
	if err != nil || done {
		return res, err
	}

	form := url.Values{}
	form.Set("text", req.Text)
	form.Set("target_lang", req.Target.DeepLCode())
	if code := req.Source.DeepLCode(); code != "" {
		form.Set("source_lang", code)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return Result{}, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("Authorization", "DeepL-Auth-Key "+key)

	body, err := doRequest(d.httpClient, httpReq, d.Name())
	if err != nil {
		var tErr *Error
		if errors.As(err, &tErr) && tErr.Status != 0 {
			tErr.Message = deeplMessage(tErr.Status, tErr.Message)
		}
		return Result{}, err
	}

	var dResp deeplResponse
	if err := json.Unmarshal(body, &dResp); err != nil {
		return Result{}, &Error{Service: d.Name(), Message: "unexpected response", Err: err}
	}
	if len(dResp.Translations) == 0 {
		return Result{}, &Error{Service: d.Name(), Err: ErrNoTranslation}
	}
	res.Text = dResp.Translations[0].Text
	return res, nil
}

// deeplMessage turns a DeepL error status into a user-facing message.
func deeplMessage(status int, body string) string {
	var detail struct {
		Message string `json:"message"`
	}
	if json.Unmarshal([]byte(body), &detail) == nil && detail.Message != "" {
		body = detail.Message
	}

	switch status {
	case http.StatusForbidden:
		return "invalid API key, check the DeepL key"
	case StatusQuotaExceeded:
		return "monthly quota of the free plan exceeded"
	case http.StatusBadRequest:
		if body == "" {
			body = "bad request"
		}
		return "request rejected: " + body
	default:
		if body == "" {
			body = http.StatusText(status)
		}
		return body
	}
}
