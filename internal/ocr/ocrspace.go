package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"codeberg.org/snonux/vopet/internal/language"
)

const (
	ocrSpaceURL = "https://api.ocr.space/parse/image"

	// DemoAPIKey is the public OCR.space demo key.
	DemoAPIKey = "helloworld"

	ocrTimeout = 60 * time.Second
)

// Engines are tried in this order until one returns text.
var Engines = []string{"2", "1"}

// OCRSpace is a client for the OCR.space parse API.
type OCRSpace struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewOCRSpace creates a client. An empty apiKey uses the demo key and an
// empty endpoint the public API.
func NewOCRSpace(apiKey, endpoint string, logger *slog.Logger) *OCRSpace {
	if apiKey == "" {
		apiKey = DemoAPIKey
	}
	if endpoint == "" {
		endpoint = ocrSpaceURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &OCRSpace{
		apiKey:     apiKey,
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: ocrTimeout},
		logger:     logger,
	}
}

type parseResponse struct {
	ParsedResults []struct {
		ParsedText string `json:"ParsedText"`
	} `json:"ParsedResults"`
	OCRExitCode           int             `json:"OCRExitCode"`
	IsErroredOnProcessing bool            `json:"IsErroredOnProcessing"`
	ErrorMessage          json.RawMessage `json:"ErrorMessage"`
}

// ExtractText runs OCR on a PNG image, trying each engine in Engines. It
// returns ErrNoText when no engine produced text; the last engine failure is
// joined to it.
func (o *OCRSpace) ExtractText(ctx context.Context, image []byte, lang language.Language) (string, error) {
	if len(image) == 0 {
		return "", fmt.Errorf("empty image: %w", ErrNoText)
	}

	var lastErr error
	for _, engine := range Engines {
		text, err := o.tryEngine(ctx, image, lang.OCRCode(), engine)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			o.logger.Debug("ocr engine failed", "engine", engine, "error", err)
			lastErr = err
			continue
		}
		if text != "" {
			return text, nil
		}
		o.logger.Debug("ocr engine found no text", "engine", engine)
	}

	if lastErr != nil {
		return "", errors.Join(ErrNoText, lastErr)
	}
	return "", ErrNoText
}

func (o *OCRSpace) tryEngine(ctx context.Context, image []byte, langCode, engine string) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fields := [][2]string{
		{"apikey", o.apiKey},
		{"base64Image", "data:image/png;base64," + base64.StdEncoding.EncodeToString(image)},
		{"language", langCode},
		{"isOverlayRequired", "false"},
		{"OCREngine", engine},
		{"scale", "true"},
		{"detectOrientation", "true"},
	}
	for _, f := range fields {
		if err := mw.WriteField(f[0], f[1]); err != nil {
			return "", fmt.Errorf("failed to write form field %s: %w", f[0], err)
		}
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("failed to close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.endpoint, &body)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return "", &Error{Engine: engine, Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &Error{Engine: engine, Message: "failed to read response", Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return "", &Error{Engine: engine, Status: resp.StatusCode, Message: strings.TrimSpace(string(raw))}
	}

	var pr parseResponse
	if err := json.Unmarshal(raw, &pr); err != nil {
		return "", &Error{Engine: engine, Message: "unexpected response", Err: err}
	}
	if pr.OCRExitCode == 1 && len(pr.ParsedResults) > 0 {
		if text := strings.TrimSpace(pr.ParsedResults[0].ParsedText); text != "" {
			return text, nil
		}
	}
	if msg := errorMessage(pr.ErrorMessage); msg != "" {
		return "", &Error{Engine: engine, Message: msg}
	}
	return "", nil
}

// errorMessage flattens ErrorMessage, which OCR.space sends either as a
// string or as a list of strings.
func errorMessage(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return strings.Join(list, "; ")
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return ""
}
