package processor

import (
	"context"
	"fmt"
	"strings"

	"codeberg.org/snonux/vopet/internal"
	"codeberg.org/snonux/vopet/internal/anki"
)

// ExportAnki writes the ledger as an Anki package, or as a CSV import
// file with --anki-csv.
func (p *Processor) ExportAnki(ctx context.Context) (string, error) {
	records, issues, err := p.session.ListRecords(ctx)
	if err != nil {
		return "", err
	}
	for _, issue := range issues {
		colorWarn.Fprintf(p.out, "Warning: skipping %v\n", issue)
	}

	deckName := strings.TrimSpace(p.flags.DeckName)
	if deckName == "" {
		deckName = anki.DefaultGeneratorOptions().DeckName
	}

	outputPath := p.flags.OutputPath
	if outputPath == "" {
		ext := ".apkg"
		if p.flags.AnkiCSV {
			ext = ".csv"
		}
		outputPath = internal.SanitizeFilename(deckName) + ext
	}

	opts := anki.DefaultGeneratorOptions()
	opts.DeckName = deckName
	opts.OutputPath = outputPath
	gen := anki.NewGenerator(opts)

	if n := gen.AddRecords(records); n == 0 {
		return "", fmt.Errorf("no words to export")
	}

	if p.flags.AnkiCSV {
		err = gen.GenerateCSV()
	} else {
		err = gen.GenerateAPKG(outputPath)
	}
	if err != nil {
		return "", err
	}

	total, withPron := gen.Stats()
	colorOK.Fprintf(p.out, "Exported %d cards to %s\n", total, outputPath)
	fmt.Fprintf(p.out, "  With pronunciation: %d/%d\n", withPron, total)
	return outputPath, nil
}
