package translation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"codeberg.org/snonux/vopet/internal/language"
)

// Translator translates text into a target language.
type Translator interface {
	Translate(ctx context.Context, req Request) (Result, error)
	Name() string
}

// Request is a single translation request.
type Request struct {
	Text   string
	Source language.Language // language.Auto detects from Text
	Target language.Language
	APIKey string // overrides the key the translator was created with
}

// Result is the outcome of a translation.
type Result struct {
	Text         string
	Source       language.Language
	Service      string
	SameLanguage bool // source equals target, Text is the input unchanged
	Cached       bool
}

var (
	// ErrMissingAPIKey is returned by keyed services that have no API key.
	ErrMissingAPIKey = errors.New("API key not configured")

	// ErrEmptyText is returned for blank input.
	ErrEmptyText = errors.New("text to translate is empty")

	// ErrNoTranslation is returned when a backend answers without a result.
	ErrNoTranslation = errors.New("no translation returned")
)

// Error is a failure reported by a translation backend.
type Error struct {
	Service string
	Status  int // HTTP status, 0 if none
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Status != 0 {
		return fmt.Sprintf("%s (%d): %s", e.Service, e.Status, msg)
	}
	return e.Service + ": " + msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// prepare validates req, resolves an automatic source language and reports
// whether the text can be returned untranslated.
func prepare(req *Request, service string) (Result, bool, error) {
	req.Text = strings.TrimSpace(req.Text)
	if req.Text == "" {
		return Result{}, false, ErrEmptyText
	}
	if req.Target == language.Auto {
		req.Target = language.Korean
	}

	source := req.Source
	if source == language.Auto {
		source = language.Detect(req.Text)
	}
	if source == req.Target {
		return Result{
			Text:         req.Text,
			Source:       source,
			Service:      service,
			SameLanguage: true,
		}, true, nil
	}
	return Result{Source: source, Service: service}, false, nil
}

func apiKey(req Request, fallback string) string {
	if k := strings.TrimSpace(req.APIKey); k != "" {
		return k
	}
	return strings.TrimSpace(fallback)
}
