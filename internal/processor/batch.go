package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"

	"codeberg.org/snonux/vopet/internal/batch"
)

// ProcessBatch saves every entry of a batch file to the ledger.
func (p *Processor) ProcessBatch(ctx context.Context, path string) error {
	entries, err := batch.ReadBatchFile(path)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(p.out, "No words found in batch file")
		return nil
	}

	source, target, err := p.languages()
	if err != nil {
		return err
	}
	proc := batch.NewProcessor(p.session, source, target)
	proc.DryRun = p.flags.DryRun

	bar := progressbar.NewOptions(len(entries),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription(fmt.Sprintf("[cyan]%s[reset]", filepath.Base(path))),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))

	outcomes, err := proc.Process(ctx, entries, func(batch.Outcome) {
		_ = bar.Add(1)
	})
	_ = bar.Finish()
	fmt.Fprintln(os.Stderr)

	saved, failed := p.printOutcomes(outcomes)

	fmt.Fprintf(p.out, "\n=== Batch Processing Summary ===\n")
	fmt.Fprintf(p.out, "Total words: %d\n", len(entries))
	if p.flags.DryRun {
		fmt.Fprintf(p.out, "Resolved (dry run): %d\n", saved)
	} else {
		fmt.Fprintf(p.out, "Saved: %d\n", saved)
	}
	if failed > 0 {
		colorWarn.Fprintf(p.out, "Errors: %d\n", failed)
	}
	if err != nil {
		return err
	}
	if failed > 0 && saved == 0 {
		return fmt.Errorf("all %d entries failed", failed)
	}
	return nil
}

func (p *Processor) printOutcomes(outcomes []batch.Outcome) (ok, failed int) {
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
			name := o.Entry.Term
			if name == "" {
				name = o.Entry.Meaning
			}
			colorWarn.Fprintf(p.out, "Error processing '%s': %v\n", name, o.Err)
			continue
		}
		ok++
		r := o.Record
		if r.Pronunciation != "" {
			fmt.Fprintf(p.out, "  ✓ #%d %s [%s] = %s\n", r.Sequence, r.Term, r.Pronunciation, r.Meaning)
		} else {
			fmt.Fprintf(p.out, "  ✓ #%d %s = %s\n", r.Sequence, r.Term, r.Meaning)
		}
	}
	return ok, failed
}
