package translation

import (
	"context"
	"strings"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.0-flash"

// GeminiTranslator translates with a Gemini model.
type GeminiTranslator struct {
	apiKey string
	model  string
	client *genai.Client
}

// NewGeminiTranslator creates a Gemini translator.
func NewGeminiTranslator(ctx context.Context, apiKey, model string) (*GeminiTranslator, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if model == "" {
		model = defaultGeminiModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, &Error{Service: "gemini", Message: "failed to create client", Err: err}
	}
	return &GeminiTranslator{apiKey: apiKey, model: model, client: client}, nil
}

// Name returns the service name.
func (t *GeminiTranslator) Name() string { return "gemini" }

// Translate translates req.Text.
func (t *GeminiTranslator) Translate(ctx context.Context, req Request) (Result, error) {
	res, done, err := prepare(&req, t.Name())
	if err != nil || done {
		return res, err
	}

	prompt := translationPrompt(res.Source.String(), req.Target.String(), req.Text)
	resp, err := t.client.Models.GenerateContent(ctx, t.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.3),
	})
	if err != nil {
		return Result{}, &Error{Service: t.Name(), Message: "Gemini API error", Err: err}
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return Result{}, &Error{Service: t.Name(), Err: ErrNoTranslation}
	}
	res.Text = text
	return res, nil
}
