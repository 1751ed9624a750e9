package pronunciation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"codeberg.org/snonux/vopet/internal/language"
)

// ErrNoAPIKey is returned by OpenAIProvider without an API key.
var ErrNoAPIKey = errors.New("OpenAI API key not configured")

// OpenAIProvider asks an OpenAI chat model for a short IPA transcription.
type OpenAIProvider struct {
	apiKey string
	model  string
	client *openai.Client
}

// NewOpenAIProvider creates a provider. baseURL overrides the API endpoint
// when set.
func NewOpenAIProvider(apiKey, model, baseURL string) *OpenAIProvider {
	if model == "" {
		model = openai.GPT4oMini
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIProvider{
		apiKey: apiKey,
		model:  model,
		client: openai.NewClientWithConfig(cfg),
	}
}

// Name returns the provider name.
func (p *OpenAIProvider) Name() string { return "openai" }

var promptLanguage = map[language.Language]string{
	language.Korean:   "Korean",
	language.English:  "English",
	language.Japanese: "Japanese",
	language.Chinese:  "Chinese",
}

// Pronounce returns the IPA transcription of term, e.g. "/ˈæp.əl/".
func (p *OpenAIProvider) Pronounce(ctx context.Context, term string, lang language.Language) (string, error) {
	if p.apiKey == "" {
		return "", ErrNoAPIKey
	}
	if lang == language.Auto {
		lang = language.Detect(term)
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a language expert helping learners with pronunciation. Answer with the IPA transcription only, between slashes, without explanations.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf("IPA transcription of the %s word '%s'", promptLanguage[lang], term),
			},
		},
		Temperature: 0.3,
		MaxTokens:   50,
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("no response from OpenAI")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
