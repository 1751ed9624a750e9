package translation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Service names accepted by New.
const (
	ServiceGoogleFree = "google-free"
	ServiceGoogle     = "google"
	ServiceDeepL      = "deepl"
	ServiceOpenAI     = "openai"
	ServiceGemini     = "gemini"
)

// Services lists the service names accepted by New.
var Services = []string{ServiceGoogleFree, ServiceGoogle, ServiceDeepL, ServiceOpenAI, ServiceGemini}

// Config selects and configures a translator.
type Config struct {
	Service        string
	APIKey         string
	Model          string // OpenAI and Gemini only
	BaseURL        string // endpoint override, mainly for tests
	CacheCapacity  int    // 0 uses DefaultCacheCapacity, negative disables the cache
	BreakerTimeout time.Duration
	Logger         *slog.Logger
}

// New builds the translator named by cfg.Service, wrapped in a circuit
// breaker and, unless disabled, a cache. Keyed services without a key fail
// with ErrMissingAPIKey. The keyless Google translator is the default.
func New(ctx context.Context, cfg Config) (Translator, error) {
	var (
		t   Translator
		err error
	)

	service := strings.ToLower(strings.TrimSpace(cfg.Service))
	switch service {
	case "", ServiceGoogleFree:
		t = NewGoogleFree(cfg.BaseURL)
	case ServiceGoogle:
		t = NewGoogleCloud(cfg.APIKey, cfg.BaseURL)
	case ServiceDeepL:
		t = NewDeepL(cfg.APIKey, cfg.BaseURL)
	case ServiceOpenAI:
		t = NewOpenAITranslator(cfg.APIKey, cfg.Model, cfg.BaseURL)
	case ServiceGemini:
		t, err = NewGeminiTranslator(ctx, cfg.APIKey, cfg.Model)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown translator service %q (valid: %s)", cfg.Service, strings.Join(Services, ", "))
	}

	if service != "" && service != ServiceGoogleFree && strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("%s: %w", service, ErrMissingAPIKey)
	}

	timeout := cfg.BreakerTimeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	t = NewBreaker(t, timeout, cfg.Logger)

	if cfg.CacheCapacity >= 0 {
		t = NewCachedTranslator(t, NewCache(cfg.CacheCapacity))
	}
	return t, nil
}
