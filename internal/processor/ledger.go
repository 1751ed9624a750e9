package processor

import (
	"context"
	"fmt"
	"strings"

	"codeberg.org/snonux/vopet/internal/language"
	"codeberg.org/snonux/vopet/internal/ledger"
	"codeberg.org/snonux/vopet/internal/session"
)

// Translate translates text and prints the result with the words it
// contains.
func (p *Processor) Translate(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	source, target, err := p.languages()
	if err != nil {
		return err
	}

	res, err := p.session.Translate(ctx, text, source, target)
	if err != nil {
		return fmt.Errorf("translation failed: %w", err)
	}

	colorTitle.Fprintf(p.out, "%s\n", res.Text)
	if res.SameLanguage {
		colorWarn.Fprintf(p.out, "Text is already in %s\n", target)
	}
	detected := res.Source
	if detected == language.Auto {
		detected = language.Detect(text)
	}
	if reading := p.session.Pronounce(ctx, text, detected); reading != "" {
		fmt.Fprintf(p.out, "Pronunciation: %s\n", reading)
	}
	colorDim.Fprintf(p.out, "%s -> %s via %s\n", detected, target, res.Service)

	if !p.flags.NoWords {
		lookups, err := p.session.LookupWords(ctx, text, target)
		if err != nil {
			return err
		}
		p.printWords(lookups)
	}

	fmt.Fprintf(p.out, "Papago: %s\n", language.PapagoURL(text, detected, target))
	return nil
}

func (p *Processor) printWords(lookups []session.WordLookup) {
	if len(lookups) < 2 {
		return
	}
	fmt.Fprintln(p.out, "\nWords:")
	for _, w := range lookups {
		switch {
		case w.Error != "":
			colorWarn.Fprintf(p.out, "  %s: %s\n", w.Word, w.Error)
		case w.Pronunciation != "":
			fmt.Fprintf(p.out, "  %s [%s]: %s\n", w.Word, w.Pronunciation, w.Meaning)
		default:
			fmt.Fprintf(p.out, "  %s: %s\n", w.Word, w.Meaning)
		}
	}
}

// SaveWord appends a word to the ledger. A missing meaning is translated
// and a missing pronunciation looked up.
func (p *Processor) SaveWord(ctx context.Context, term, meaning string) error {
	term = strings.TrimSpace(term)
	meaning = strings.TrimSpace(meaning)
	if term == "" {
		return ledger.ErrEmptyTerm
	}

	source, target, err := p.languages()
	if err != nil {
		return err
	}
	if source == language.Auto {
		source = language.Detect(term)
	}

	if meaning == "" {
		res, err := p.session.Translate(ctx, term, source, target)
		if err != nil {
			return fmt.Errorf("failed to translate '%s': %w", term, err)
		}
		meaning = res.Text
		fmt.Fprintf(p.out, "Translated '%s' to: %s\n", term, meaning)
	}

	pron := strings.TrimSpace(p.flags.Pronunciation)
	if pron == "" {
		pron = p.session.Pronounce(ctx, term, source)
	}

	res, err := p.session.SaveWord(ctx, ledger.Record{
		Term:          term,
		Pronunciation: pron,
		Meaning:       meaning,
	}, p.flags.Example)
	if err != nil {
		return err
	}

	if res.HeaderAdded {
		colorDim.Fprintf(p.out, "Added header to %s\n", res.FileName)
	}
	for _, issue := range res.Issues {
		colorWarn.Fprintf(p.out, "Warning: %v\n", issue)
	}
	colorOK.Fprintf(p.out, "Saved #%d %s", res.Record.Sequence, res.Record.Term)
	fmt.Fprintf(p.out, " = %s to %s\n", res.Record.Meaning, res.FileName)
	if res.FileError != nil {
		return fmt.Errorf("word saved but the ledger file was not updated: %w", res.FileError)
	}
	return nil
}

// ListRecords prints the records of the ledger.
func (p *Processor) ListRecords(ctx context.Context) error {
	records, issues, err := p.session.ListRecords(ctx)
	if err != nil {
		return err
	}

	for _, r := range records {
		if r.Pronunciation != "" {
			fmt.Fprintf(p.out, "%4d  %s [%s]  %s\n", r.Sequence, r.Term, r.Pronunciation, r.Meaning)
		} else {
			fmt.Fprintf(p.out, "%4d  %s  %s\n", r.Sequence, r.Term, r.Meaning)
		}
	}
	for _, issue := range issues {
		colorWarn.Fprintf(p.out, "Warning: %v\n", issue)
	}
	fmt.Fprintf(p.out, "\n%d words\n", len(records))
	return nil
}

// Connect makes the CSV file at path the ledger.
func (p *Processor) Connect(ctx context.Context, path string) error {
	snap, err := p.session.Connect(ctx, path)
	if err != nil {
		return err
	}
	colorOK.Fprintf(p.out, "Connected %s\n", snap.FileName)
	if snap.Content == nil || *snap.Content == "" {
		fmt.Fprintln(p.out, "The ledger is empty; the header is written with the first word.")
	}
	return nil
}

// Disconnect forgets the ledger and reports where it was archived.
func (p *Processor) Disconnect(ctx context.Context) error {
	archived, err := p.session.Disconnect(ctx)
	if err != nil {
		return err
	}
	colorOK.Fprintln(p.out, "Disconnected")
	if archived != "" {
		fmt.Fprintf(p.out, "Archived to %s\n", archived)
	}
	return nil
}

// Status prints the ledger state.
func (p *Processor) Status(ctx context.Context) error {
	snap, err := p.session.Status(ctx)
	if err != nil {
		return err
	}
	if !snap.Connected() {
		fmt.Fprintln(p.out, "No ledger connected")
		return nil
	}

	fmt.Fprintf(p.out, "Ledger: %s\n", snap.FileName)
	if snap.HandlePath != "" {
		fmt.Fprintf(p.out, "Path: %s\n", snap.HandlePath)
	}
	if !snap.LastModified.IsZero() {
		fmt.Fprintf(p.out, "Last modified: %s\n", snap.LastModified.Local().Format("2006-01-02 15:04:05"))
	}
	return nil
}

// Words translates each word of text on its own.
func (p *Processor) Words(ctx context.Context, text string) error {
	lookups, err := p.session.LookupWords(ctx, strings.TrimSpace(text), p.session.Target())
	if err != nil {
		return err
	}
	if len(lookups) == 0 {
		fmt.Fprintln(p.out, "No words found")
		return nil
	}
	for _, w := range lookups {
		switch {
		case w.Error != "":
			colorWarn.Fprintf(p.out, "%s: %s\n", w.Word, w.Error)
		case w.Pronunciation != "":
			fmt.Fprintf(p.out, "%s [%s]: %s\n", w.Word, w.Pronunciation, w.Meaning)
		default:
			fmt.Fprintf(p.out, "%s: %s\n", w.Word, w.Meaning)
		}
	}
	return nil
}
