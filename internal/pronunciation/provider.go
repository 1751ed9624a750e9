package pronunciation

import (
	"context"
	"log/slog"
	"strings"

	"codeberg.org/snonux/vopet/internal/language"
)

// Provider returns the pronunciation of a term. An empty string with a nil
// error means the provider has nothing to offer for that term.
type Provider interface {
	Pronounce(ctx context.Context, term string, lang language.Language) (string, error)
	Name() string
}

// Reader produces the hiragana reading of Japanese text.
type Reader interface {
	Reading(text string) (string, bool)
}

// KanaProvider reads Japanese terms that contain kanji.
type KanaProvider struct {
	reader Reader
}

// NewKanaProvider creates a provider backed by reader.
func NewKanaProvider(reader Reader) *KanaProvider {
	return &KanaProvider{reader: reader}
}

// Name returns the provider name.
func (k *KanaProvider) Name() string { return "kana" }

// Pronounce returns the hiragana reading of term when it is Japanese.
func (k *KanaProvider) Pronounce(ctx context.Context, term string, lang language.Language) (string, error) {
	if lang == language.Auto {
		lang = language.Detect(term)
	}
	if lang != language.Japanese {
		return "", nil
	}
	reading, ok := k.reader.Reading(strings.TrimSpace(term))
	if !ok {
		return "", nil
	}
	return reading, nil
}

// Chain asks each provider in turn and returns the first non-empty answer.
type Chain struct {
	providers []Provider
	logger    *slog.Logger
}

// NewChain creates a chain. Nil providers are skipped.
func NewChain(logger *slog.Logger, providers ...Provider) *Chain {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Chain{logger: logger}
	for _, p := range providers {
		if p != nil {
			c.providers = append(c.providers, p)
		}
	}
	return c
}

// Name returns the provider name.
func (c *Chain) Name() string { return "chain" }

// Pronounce never fails: provider errors are logged and the next provider
// is tried. The pronunciation is optional, so an empty string is a valid
// answer.
func (c *Chain) Pronounce(ctx context.Context, term string, lang language.Language) (string, error) {
	for _, p := range c.providers {
		out, err := p.Pronounce(ctx, term, lang)
		if err != nil {
			c.logger.Warn("pronunciation lookup failed", "provider", p.Name(), "term", term, "error", err)
			continue
		}
		if out = strings.TrimSpace(out); out != "" {
			return out, nil
		}
	}
	return "", nil
}
