package models

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"strings"
	"testing"
)

func TestNewLister(t *testing.T) {
	lister := NewLister("test-api-key", "")

	if lister.apiKey != "test-api-key" {
		t.Errorf("Expected API key 'test-api-key', got '%s'", lister.apiKey)
	}
	if lister.client == nil {
		t.Error("OpenAI client not initialized")
	}
}

func TestList_NoAPIKey(t *testing.T) {
	_, err := NewLister("", "").List(context.Background())
	if !errors.Is(err, ErrNoAPIKey) {
		t.Errorf("Expected ErrNoAPIKey, got %v", err)
	}
}

func TestList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/models" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer key" {
			t.Errorf("Unexpected Authorization header %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"data": []map[string]any{
				{"id": "tts-1", "object": "model"},
				{"id": "gpt-4o-mini", "object": "model"},
				{"id": "dall-e-3", "object": "model"},
				{"id": "gpt-4o", "object": "model"},
				{"id": "gpt-4o-audio-preview", "object": "model"},
			},
		})
	}))
	defer server.Close()

	m, err := NewLister("key", server.URL+"/v1").List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if want := []string{"gpt-4o", "gpt-4o-mini"}; !reflect.DeepEqual(m.Translation, want) {
		t.Errorf("Translation = %v, want %v", m.Translation, want)
	}
	if want := []string{"dall-e-3", "gpt-4o-audio-preview", "tts-1"}; !reflect.DeepEqual(m.Other, want) {
		t.Errorf("Other = %v, want %v", m.Other, want)
	}
}

func TestModelsPrint(t *testing.T) {
	other := make([]string, 12)
	for i := range other {
		other[i] = "model"
	}
	var buf bytes.Buffer
	Models{Translation: []string{"gpt-4o"}, Other: other}.Print(&buf)

	out := buf.String()
	if !strings.Contains(out, "  gpt-4o\n") {
		t.Errorf("Expected translation model in output, got %q", out)
	}
	if !strings.Contains(out, "... and 2 more models") {
		t.Errorf("Expected truncation note, got %q", out)
	}

	buf.Reset()
	Models{}.Print(&buf)
	if !strings.Contains(buf.String(), "No chat models found") {
		t.Errorf("Expected empty note, got %q", buf.String())
	}
}

func TestList_Integration(t *testing.T) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		t.Skip("Skipping integration test: OPENAI_API_KEY not set")
	}

	if _, err := NewLister(apiKey, "").List(context.Background()); err != nil {
		t.Errorf("List failed: %v", err)
	}
}
