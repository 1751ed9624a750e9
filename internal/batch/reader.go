package batch

import (
	"fmt"
	"os"
	"strings"

	"codeberg.org/snonux/vopet/internal/ledger"
)

// WordEntry is one line of a batch file.
type WordEntry struct {
	Term    string
	Meaning string
	// NeedsTranslation is set for "= meaning" lines, whose term has to be
	// translated back from the meaning.
	NeedsTranslation bool
}

// ReadBatchFile reads the entries of filename.
func ReadBatchFile(filename string) ([]WordEntry, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	return ParseEntries(string(content)), nil
}

// ParseEntries parses batch file content.
func ParseEntries(content string) []WordEntry {
	var entries []WordEntry

	for _, line := range splitLines(strings.TrimPrefix(content, ledger.BOM)) {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		term, meaning, found := strings.Cut(line, "=")
		if !found {
			entries = append(entries, WordEntry{Term: line})
			continue
		}

		term = strings.TrimSpace(term)
		meaning = strings.TrimSpace(meaning)
		switch {
		case term == "" && meaning != "":
			entries = append(entries, WordEntry{Meaning: meaning, NeedsTranslation: true})
		case term != "" && meaning != "":
			entries = append(entries, WordEntry{Term: term, Meaning: meaning})
		case term != "":
			// "term =" is treated like a bare term.
			entries = append(entries, WordEntry{Term: term})
		}
	}

	return entries
}

// splitLines splits s at LF, CRLF and lone CR line breaks.
func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
