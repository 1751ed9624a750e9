package ledger

import "strings"

// Writer appends records to ledger text.
type Writer struct {
	Migration MigrationPolicy
}

// NewWriter creates a writer with the given migration policy.
func NewWriter(policy MigrationPolicy) *Writer {
	return &Writer{Migration: policy}
}

// Result is the outcome of an append.
type Result struct {
	Text        string     // new ledger text, without BOM
	Record      Record     // the appended record with its sequence
	HeaderAdded bool       // the input had no header line
	Issues      []RowIssue // existing rows that are not four fields wide
}

// Append adds rec as the last row of text and returns the new ledger text.
// The sequence of rec is ignored and replaced by NextSequence. Existing rows
// keep their order; legacy rows and headers are migrated to four columns.
func (w *Writer) Append(text string, rec Record) Result {
	lines := Normalize(text)
	header, data, found := DetectHeader(lines)
	header = MigrateHeader(header)
	firstLine := 1
	if found {
		firstLine = 2
	}
	data, issues := MigrateRows(data, w.Migration, firstLine)

	rec.Sequence = NextSequence(data)
	data = append(data, EncodeRow(rec))

	return Result{
		Text:        header + "\n" + strings.Join(data, "\n"),
		Record:      rec,
		HeaderAdded: !found,
		Issues:      issues,
	}
}
