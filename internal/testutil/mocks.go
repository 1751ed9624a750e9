package testutil

import (
	"context"
	"strings"
	"sync"

	"codeberg.org/snonux/vopet/internal/language"
	"codeberg.org/snonux/vopet/internal/translation"
)

// MockTranslator implements translation.Translator. Texts found in
// Responses are answered from there, everything else is echoed upper-cased.
type MockTranslator struct {
	Responses map[string]string
	Errors    map[string]error

	mu    sync.Mutex
	Calls []translation.Request
}

// NewMockTranslator creates a mock translator.
func NewMockTranslator() *MockTranslator {
	return &MockTranslator{
		Responses: make(map[string]string),
		Errors:    make(map[string]error),
	}
}

// Translate returns the configured response for req.Text.
func (m *MockTranslator) Translate(_ context.Context, req translation.Request) (translation.Result, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, req)
	m.mu.Unlock()

	if err, ok := m.Errors[req.Text]; ok {
		return translation.Result{}, err
	}
	if strings.TrimSpace(req.Text) == "" {
		return translation.Result{}, translation.ErrEmptyText
	}

	text, ok := m.Responses[req.Text]
	if !ok {
		text = strings.ToUpper(req.Text)
	}
	source := req.Source
	if source == language.Auto {
		source = language.Detect(req.Text)
	}
	return translation.Result{Text: text, Source: source, Service: m.Name()}, nil
}

// Name returns "mock".
func (m *MockTranslator) Name() string { return "mock" }

// CallCount returns the number of Translate calls.
func (m *MockTranslator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// MockExtractor implements ocr.Extractor with a fixed answer.
type MockExtractor struct {
	Text string
	Err  error

	mu    sync.Mutex
	Calls int
}

// ExtractText returns Text or Err.
func (m *MockExtractor) ExtractText(_ context.Context, _ []byte, _ language.Language) (string, error) {
	m.mu.Lock()
	m.Calls++
	m.mu.Unlock()
	return m.Text, m.Err
}
