package ledger

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ParseRecords reads every data row of a ledger. Four-field rows map to
// (sequence, term, pronunciation, meaning), legacy three-field rows to
// (sequence, term, meaning). Rows of any other width are returned as issues
// and skipped. A row whose first field is not a number gets sequence 0.
func ParseRecords(text string) ([]Record, []RowIssue, error) {
	text = strings.TrimPrefix(text, BOM)
	if strings.TrimSpace(text) == "" {
		return nil, nil, nil
	}

	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	var (
		records []Record
		issues  []RowIssue
		first   = true
	)
	for {
		fields, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read ledger: %w", err)
		}
		line, _ := r.FieldPos(0)

		if first {
			first = false
			if IsHeader(strings.Join(fields, ",")) {
				continue
			}
		}
		if blank(fields) {
			continue
		}

		rec := Record{}
		switch len(fields) {
		case 4:
			rec.Term, rec.Pronunciation, rec.Meaning = fields[1], fields[2], fields[3]
		case 3:
			rec.Term, rec.Meaning = fields[1], fields[2]
		default:
			issues = append(issues, RowIssue{Line: line, Fields: len(fields), Text: strings.Join(fields, ",")})
			continue
		}
		if n, err := strconv.Atoi(strings.TrimSpace(fields[0])); err == nil {
			rec.Sequence = n
		}
		records = append(records, rec)
	}
	return records, issues, nil
}

func blank(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
