package ledger

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyTerm is returned by Record.Validate when the term is blank.
	ErrEmptyTerm = errors.New("term must be non-empty")

	// ErrEmptyMeaning is returned by Record.Validate when the meaning is blank.
	ErrEmptyMeaning = errors.New("meaning must be non-empty")

	// ErrMalformedRow marks a data row that does not have the expected
	// number of fields. Such rows are reported and passed through unchanged.
	ErrMalformedRow = errors.New("malformed ledger row")
)

// RowIssue describes a data row that does not match the four-column layout.
type RowIssue struct {
	Line   int    // 1-based line of the row in the input ledger, blank lines not counted
	Fields int    // number of fields found
	Text   string // the row as stored
}

func (i RowIssue) Error() string {
	return fmt.Sprintf("line %d: %d fields: %v", i.Line, i.Fields, ErrMalformedRow)
}

// Unwrap lets errors.Is match ErrMalformedRow.
func (i RowIssue) Unwrap() error {
	return ErrMalformedRow
}
