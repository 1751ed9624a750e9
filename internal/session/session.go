package session

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"codeberg.org/snonux/vopet/internal/language"
	"codeberg.org/snonux/vopet/internal/ledger"
	"codeberg.org/snonux/vopet/internal/ocr"
	"codeberg.org/snonux/vopet/internal/pronunciation"
	"codeberg.org/snonux/vopet/internal/store"
	"codeberg.org/snonux/vopet/internal/translation"
	"codeberg.org/snonux/vopet/internal/wordapi"
)

// DefaultSaveRetries is how often SaveWord retries after a concurrent change.
const DefaultSaveRetries = 5

// Config holds the session settings.
type Config struct {
	Target      language.Language // translation target, Korean if unset
	OCRLanguage language.Language // OCR language, English if unset
	Migration   ledger.MigrationPolicy
	SaveRetries int
	ArchiveDir  string // where Disconnect archives the ledger, empty to skip
}

// WordExtractor picks the words of a phrase.
type WordExtractor interface {
	Extract(text string) []string
}

// Settings stores free-form values next to the ledger.
type Settings interface {
	Value(ctx context.Context, key string) (string, error)
	SetValue(ctx context.Context, key, value string) error
}

// WordSyncer sends saved words to a remote service.
type WordSyncer interface {
	Save(ctx context.Context, w wordapi.Word) (map[string]any, error)
}

// Deps are the collaborators of a session. Only Translator and Store are
// required.
type Deps struct {
	Translator translation.Translator
	Store      store.Store
	Pronouncer pronunciation.Provider
	Words      WordExtractor
	OCR        ocr.Extractor
	Syncer     WordSyncer
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Session holds all state of a running vopet instance.
type Session struct {
	cfg        Config
	translator translation.Translator
	store      store.Store
	pronouncer pronunciation.Provider
	words      WordExtractor
	ocr        ocr.Extractor
	syncer     WordSyncer
	httpClient *http.Client
	writer     *ledger.Writer
	logger     *slog.Logger

	fileMu       sync.Mutex
	fileRevision int64 // revision last written to the ledger file
}

// New creates a session.
func New(cfg Config, deps Deps) *Session {
	if cfg.Target == language.Auto {
		cfg.Target = language.Korean
	}
	if cfg.OCRLanguage == language.Auto {
		cfg.OCRLanguage = language.English
	}
	if cfg.SaveRetries < 1 {
		cfg.SaveRetries = DefaultSaveRetries
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.HTTPClient == nil {
		deps.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &Session{
		cfg:        cfg,
		translator: deps.Translator,
		store:      deps.Store,
		pronouncer: deps.Pronouncer,
		words:      deps.Words,
		ocr:        deps.OCR,
		syncer:     deps.Syncer,
		httpClient: deps.HTTPClient,
		writer:     ledger.NewWriter(cfg.Migration),
		logger:     deps.Logger,
	}
}

// Target returns the default translation target.
func (s *Session) Target() language.Language {
	return s.cfg.Target
}

// Translate translates text into target, or into the session target when
// target is language.Auto.
func (s *Session) Translate(ctx context.Context, text string, source, target language.Language) (translation.Result, error) {
	if target == language.Auto {
		target = s.cfg.Target
	}
	res, err := s.translator.Translate(ctx, translation.Request{
		Text:   text,
		Source: source,
		Target: target,
	})
	if err != nil {
		return res, err
	}
	s.logger.Debug("translated", "service", res.Service, "source", res.Source, "target", target, "cached", res.Cached)
	return res, nil
}

// Pronounce returns the pronunciation of term, or "" when none is known.
func (s *Session) Pronounce(ctx context.Context, term string, lang language.Language) string {
	if s.pronouncer == nil {
		return ""
	}
	out, err := s.pronouncer.Pronounce(ctx, term, lang)
	if err != nil {
		s.logger.Warn("pronunciation lookup failed", "term", term, "error", err)
		return ""
	}
	return out
}
