package models

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// ErrNoAPIKey is returned when no OpenAI key is configured.
var ErrNoAPIKey = errors.New("OpenAI API key not found. Set OPENAI_API_KEY environment variable or configure translator.api_key in .vopet.yaml")

// maxListed caps the other models shown by Print.
const maxListed = 10

// Lister lists available OpenAI models.
type Lister struct {
	apiKey string
	client *openai.Client
}

// NewLister creates a lister. A non-empty baseURL replaces the OpenAI API
// endpoint.
func NewLister(apiKey, baseURL string) *Lister {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Lister{apiKey: apiKey, client: openai.NewClientWithConfig(cfg)}
}

// Models are the available model ids, sorted.
type Models struct {
	Translation []string // chat models that can translate
	Other       []string
}

// List fetches and categorizes the available models.
func (l *Lister) List(ctx context.Context) (Models, error) {
	if l.apiKey == "" {
		return Models{}, ErrNoAPIKey
	}

	list, err := l.client.ListModels(ctx)
	if err != nil {
		return Models{}, fmt.Errorf("failed to list models: %w", err)
	}

	var m Models
	for _, model := range list.Models {
		if isTranslationModel(model.ID) {
			m.Translation = append(m.Translation, model.ID)
		} else {
			m.Other = append(m.Other, model.ID)
		}
	}
	sort.Strings(m.Translation)
	sort.Strings(m.Other)
	return m, nil
}

func isTranslationModel(id string) bool {
	for _, skip := range []string{"tts", "audio", "realtime", "transcribe", "search", "image", "embedding"} {
		if strings.Contains(id, skip) {
			return false
		}
	}
	return strings.HasPrefix(id, "gpt-") || strings.HasPrefix(id, "o1") ||
		strings.HasPrefix(id, "o3") || strings.HasPrefix(id, "o4") || strings.Contains(id, "chat")
}

// Print writes the models to w.
func (m Models) Print(w io.Writer) {
	fmt.Fprintln(w, "Available OpenAI Models:")

	fmt.Fprintln(w, "\nTranslation Models:")
	if len(m.Translation) == 0 {
		fmt.Fprintln(w, "  No chat models found")
	}
	for _, id := range m.Translation {
		fmt.Fprintf(w, "  %s\n", id)
	}

	if len(m.Other) == 0 {
		return
	}
	fmt.Fprintln(w, "\nOther Models:")
	for i, id := range m.Other {
		if i == maxListed {
			fmt.Fprintf(w, "  ... and %d more models\n", len(m.Other)-maxListed)
			break
		}
		fmt.Fprintf(w, "  %s\n", id)
	}
}
