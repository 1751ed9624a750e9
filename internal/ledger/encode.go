package ledger

import (
	"strconv"
	"strings"
)

// EscapeField quotes value only when it contains a comma, a double quote or
// a line break, doubling any internal quotes. Other values are returned as is.
func EscapeField(value string) string {
	if strings.ContainsAny(value, ",\"\n\r") {
		return QuoteField(value)
	}
	return value
}

// QuoteField always wraps value in double quotes and doubles internal quotes.
// The textual columns of a row are written this way.
func QuoteField(value string) string {
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}

// EncodeRow renders r as sequence,"term","pronunciation","meaning".
func EncodeRow(r Record) string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(r.Sequence))
	for _, f := range []string{r.Term, r.Pronunciation, r.Meaning} {
		b.WriteByte(',')
		b.WriteString(QuoteField(f))
	}
	return b.String()
}
