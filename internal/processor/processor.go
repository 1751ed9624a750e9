package processor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/viper"

	"codeberg.org/snonux/vopet/internal/cli"
	"codeberg.org/snonux/vopet/internal/japanese"
	"codeberg.org/snonux/vopet/internal/language"
	"codeberg.org/snonux/vopet/internal/ledger"
	"codeberg.org/snonux/vopet/internal/ocr"
	"codeberg.org/snonux/vopet/internal/pronunciation"
	"codeberg.org/snonux/vopet/internal/session"
	"codeberg.org/snonux/vopet/internal/store"
	"codeberg.org/snonux/vopet/internal/translation"
	"codeberg.org/snonux/vopet/internal/wordapi"
	"codeberg.org/snonux/vopet/internal/words"
)

var (
	colorTitle = color.New(color.FgCyan, color.Bold)
	colorOK    = color.New(color.FgGreen, color.Bold)
	colorWarn  = color.New(color.FgYellow)
	colorDim   = color.New(color.Faint)
)

// Processor handles the command-line workflows
type Processor struct {
	flags   *cli.Flags
	session *session.Session
	store   io.Closer
	logger  *slog.Logger
	out     io.Writer
}

// NewProcessor builds a session from the configuration. Close releases
// the state database.
func NewProcessor(ctx context.Context, flags *cli.Flags) (*Processor, error) {
	logger := cli.NewLogger(os.Stderr, flags.Verbose)

	cfg, err := sessionConfig(flags)
	if err != nil {
		return nil, err
	}

	storePath := setting(cli.KeyStorePath, flags.StorePath)
	if err := os.MkdirAll(filepath.Dir(storePath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}
	st, err := store.OpenSQLite(storePath)
	if err != nil {
		return nil, err
	}

	deps, err := buildDeps(ctx, flags, logger)
	if err != nil {
		st.Close()
		return nil, err
	}
	deps.Store = st

	return newProcessor(flags, session.New(cfg, deps), st, logger, os.Stdout), nil
}

func newProcessor(flags *cli.Flags, sess *session.Session, closer io.Closer, logger *slog.Logger, out io.Writer) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		flags:   flags,
		session: sess,
		store:   closer,
		logger:  logger,
		out:     out,
	}
}

// Close releases the resources held by the processor.
func (p *Processor) Close() error {
	if p.store == nil {
		return nil
	}
	return p.store.Close()
}

// setting returns the viper value of key, or fallback when unset.
func setting(key, fallback string) string {
	if v := viper.GetString(key); v != "" {
		return v
	}
	return fallback
}

func sessionConfig(flags *cli.Flags) (session.Config, error) {
	target, err := language.Parse(setting(cli.KeyTarget, flags.Target))
	if err != nil {
		return session.Config{}, fmt.Errorf("invalid target language: %w", err)
	}
	ocrLang, err := language.Parse(setting(cli.KeyOCRLanguage, flags.OCRLanguage))
	if err != nil {
		return session.Config{}, fmt.Errorf("invalid OCR language: %w", err)
	}
	policy, err := ledger.ParseMigrationPolicy(setting(cli.KeyMigration, flags.Migration))
	if err != nil {
		return session.Config{}, err
	}

	archiveDir := flags.ArchiveDir
	if viper.IsSet(cli.KeyArchiveDir) {
		archiveDir = viper.GetString(cli.KeyArchiveDir)
	}

	return session.Config{
		Target:      target,
		OCRLanguage: ocrLang,
		Migration:   policy,
		ArchiveDir:  archiveDir,
	}, nil
}

func buildDeps(ctx context.Context, flags *cli.Flags, logger *slog.Logger) (session.Deps, error) {
	service := setting(cli.KeyService, flags.Service)

	capacity := viper.GetInt(cli.KeyCacheCapacity)
	if flags.NoCache {
		capacity = -1
	}

	t, err := translation.New(ctx, translation.Config{
		Service:       service,
		APIKey:        cli.GetAPIKey(service),
		Model:         setting(cli.KeyModel, flags.Model),
		CacheCapacity: capacity,
		Logger:        logger,
	})
	if err != nil {
		return session.Deps{}, err
	}

	deps := session.Deps{
		Translator: t,
		Logger:     logger,
		OCR: ocr.NewBreaker(
			ocr.NewOCRSpace(cli.GetOCRKey(), viper.GetString(cli.KeyOCREndpoint), logger),
			time.Minute, logger),
	}

	var providers []pronunciation.Provider
	analyzer, err := japanese.NewAnalyzer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Japanese analyzer unavailable: %v\n", err)
		deps.Words = words.NewExtractor(nil)
	} else {
		providers = append(providers, pronunciation.NewKanaProvider(analyzer))
		deps.Words = words.NewExtractor(analyzer)
	}
	if key := cli.GetOpenAIKey(); key != "" {
		providers = append(providers, pronunciation.NewOpenAIProvider(key, "", ""))
	}
	if len(providers) > 0 {
		deps.Pronouncer = pronunciation.NewChain(logger, providers...)
	}

	if url := setting(cli.KeyWordAPIURL, flags.WordAPIURL); url != "" {
		deps.Syncer = wordapi.NewClient(url)
	}
	return deps, nil
}

// languages returns the configured source and target languages.
func (p *Processor) languages() (source, target language.Language, err error) {
	source, err = language.Parse(setting(cli.KeySource, p.flags.Source))
	if err != nil {
		return language.Auto, language.Auto, fmt.Errorf("invalid source language: %w", err)
	}
	return source, p.session.Target(), nil
}
