package ledger

import "strings"

// BOM is the UTF-8 byte-order mark some spreadsheet tools expect at the
// start of a CSV file.
const BOM = "\uFEFF"

// Normalize splits raw ledger text into trimmed, non-empty lines.
//
// A single leading BOM is removed and the whole text is trimmed before
// splitting on "\n" or "\r\n". Line breaks inside a double-quoted field do
// not split the row, so values with embedded newlines survive a later
// append. If the text ends inside an open quote the quoting is ignored and
// every line break splits. Empty or blank input yields nil, which callers
// treat as a new ledger.
func Normalize(text string) []string {
	text = strings.TrimPrefix(text, BOM)
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	raw, ok := splitRows(text)
	if !ok {
		raw = strings.Split(text, "\n")
	}

	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// splitRows splits text on line breaks that are not inside a quoted field.
// A quote only opens a field when it is the first non-blank character of
// the field. ok is false when a quoted field is never closed.
func splitRows(text string) (rows []string, ok bool) {
	var current strings.Builder
	inQuotes := false
	fieldStart := true

	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case inQuotes:
			if c == '"' {
				if i+1 < len(text) && text[i+1] == '"' {
					current.WriteString(`""`)
					i++
					continue
				}
				inQuotes = false
			}
			current.WriteByte(c)
		case c == '\n':
			rows = append(rows, current.String())
			current.Reset()
			fieldStart = true
		case c == '"' && fieldStart:
			inQuotes = true
			fieldStart = false
			current.WriteByte(c)
		case c == ' ' || c == '\t' || c == '\r':
			current.WriteByte(c)
		default:
			fieldStart = c == ','
			current.WriteByte(c)
		}
	}

	if inQuotes {
		return nil, false
	}
	rows = append(rows, current.String())
	return rows, true
}
