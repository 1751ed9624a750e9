package translation

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

var languageNames = map[string]string{
	"ko": "Korean",
	"en": "English",
	"ja": "Japanese",
	"zh": "Chinese (Simplified)",
}

// OpenAITranslator translates with an OpenAI chat model.
type OpenAITranslator struct {
	apiKey string
	model  string
	client *openai.Client
}

// NewOpenAITranslator creates a translator using model, or gpt-4o-mini when
// model is empty. baseURL overrides the API endpoint when set.
func NewOpenAITranslator(apiKey, model, baseURL string) *OpenAITranslator {
	if model == "" {
		model = openai.GPT4oMini
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAITranslator{
		apiKey: apiKey,
		model:  model,
		client: openai.NewClientWithConfig(cfg),
	}
}

// Name returns the service name.
func (t *OpenAITranslator) Name() string { return "openai" }

// Translate translates req.Text.
func (t *OpenAITranslator) Translate(ctx context.Context, req Request) (Result, error) {
	if t.apiKey == "" {
		return Result{}, ErrMissingAPIKey
	}

	res, done, err := prepare(&req, t.Name())
	if err != nil || done {
		return res, err
	}

	chatReq := openai.ChatCompletionRequest{
		Model: t.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: translationPrompt(res.Source.String(), req.Target.String(), req.Text),
			},
		},
		MaxTokens:   500,
		Temperature: 0.3,
	}

	resp, err := t.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return Result{}, &Error{Service: t.Name(), Message: "OpenAI API error", Err: err}
	}
	if len(resp.Choices) == 0 {
		return Result{}, &Error{Service: t.Name(), Err: ErrNoTranslation}
	}

	res.Text = strings.TrimSpace(resp.Choices[0].Message.Content)
	return res, nil
}

func translationPrompt(source, target, text string) string {
	from := languageNames[source]
	if from == "" {
		from = "the source language"
	}
	to := languageNames[target]
	if to == "" {
		to = target
	}
	return fmt.Sprintf("Translate the following text from %s to %s. Respond with only the translation, nothing else.\n\n%s", from, to, text)
}
