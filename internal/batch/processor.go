package batch

import (
	"context"
	"errors"
	"fmt"

	"codeberg.org/snonux/vopet/internal/language"
	"codeberg.org/snonux/vopet/internal/ledger"
	"codeberg.org/snonux/vopet/internal/session"
	"codeberg.org/snonux/vopet/internal/translation"
)

// ErrSourceRequired is returned for "= meaning" entries when the term
// language is not known.
var ErrSourceRequired = errors.New("term language must be set to translate meanings back")

// Session is the part of a session a batch run needs.
type Session interface {
	Translate(ctx context.Context, text string, source, target language.Language) (translation.Result, error)
	Pronounce(ctx context.Context, term string, lang language.Language) string
	SaveWord(ctx context.Context, rec ledger.Record, example string) (session.SaveResult, error)
}

// Outcome is the result of processing one entry.
type Outcome struct {
	Entry  WordEntry
	Record ledger.Record
	Err    error
}

// Processor fills in missing terms, meanings and pronunciations and saves
// each entry.
type Processor struct {
	session Session
	source  language.Language // language of the terms, Auto to detect
	target  language.Language // language of the meanings
	// DryRun resolves entries without saving them.
	DryRun bool
}

// NewProcessor creates a processor translating from source to target.
func NewProcessor(sess Session, source, target language.Language) *Processor {
	return &Processor{session: sess, source: source, target: target}
}

// Process handles entries in order and calls progress, if set, after each
// one. A failing entry does not stop the run.
func (p *Processor) Process(ctx context.Context, entries []WordEntry, progress func(Outcome)) ([]Outcome, error) {
	outcomes := make([]Outcome, 0, len(entries))
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}
		o := p.processEntry(ctx, e)
		outcomes = append(outcomes, o)
		if progress != nil {
			progress(o)
		}
	}
	return outcomes, nil
}

func (p *Processor) processEntry(ctx context.Context, e WordEntry) Outcome {
	o := Outcome{Entry: e}
	rec, err := p.resolve(ctx, e)
	if err != nil {
		o.Err = err
		return o
	}

	if p.DryRun {
		o.Record = rec
		return o
	}
	res, err := p.session.SaveWord(ctx, rec, "")
	if err != nil {
		o.Err = err
		return o
	}
	o.Record = res.Record
	if res.FileError != nil {
		o.Err = fmt.Errorf("saved as #%d but the ledger file was not updated: %w", res.Record.Sequence, res.FileError)
	}
	return o
}

func (p *Processor) resolve(ctx context.Context, e WordEntry) (ledger.Record, error) {
	rec := ledger.Record{Term: e.Term, Meaning: e.Meaning}
	lang := p.source

	switch {
	case e.NeedsTranslation:
		if p.source == language.Auto {
			return rec, ErrSourceRequired
		}
		res, err := p.session.Translate(ctx, e.Meaning, p.target, p.source)
		if err != nil {
			return rec, fmt.Errorf("failed to translate %q: %w", e.Meaning, err)
		}
		rec.Term = res.Text
	case e.Meaning == "":
		res, err := p.session.Translate(ctx, e.Term, p.source, p.target)
		if err != nil {
			return rec, fmt.Errorf("failed to translate %q: %w", e.Term, err)
		}
		rec.Meaning = res.Text
		if lang == language.Auto {
			lang = res.Source
		}
	}

	if lang == language.Auto {
		lang = language.Detect(rec.Term)
	}
	rec.Pronunciation = p.session.Pronounce(ctx, rec.Term, lang)
	return rec, nil
}
