package ledger

import "strings"

const (
	// DefaultHeader is the current four-column header.
	DefaultHeader = "순서,단어,발음,뜻"

	// LegacyHeader is the three-column header written before the
	// pronunciation column existed.
	LegacyHeader = "순서,단어,뜻"

	// PronunciationColumn is the column name inserted by MigrateHeader.
	PronunciationColumn = "발음"
)

// headerKeywords mark a line as the header: order, word, meaning,
// pronunciation and furigana.
var headerKeywords = []string{"순서", "단어", "뜻", "발음", "후리가나"}

// pronunciationKeywords mark a header that already has a pronunciation column.
var pronunciationKeywords = []string{"발음", "후리가나"}

// IsHeader reports whether line contains one of the header keywords.
func IsHeader(line string) bool {
	return containsAny(strings.ToLower(line), headerKeywords)
}

// DetectHeader splits normalized lines into the header and the data lines.
// When the first line is not a header the whole input is data and
// DefaultHeader is returned with found set to false.
func DetectHeader(lines []string) (header string, data []string, found bool) {
	if len(lines) == 0 {
		return DefaultHeader, nil, false
	}
	if IsHeader(lines[0]) {
		return lines[0], lines[1:], true
	}
	return DefaultHeader, lines, false
}

// MigrateHeader inserts the pronunciation column at index 2 of a
// three-column header that has none. Other headers are returned unchanged.
func MigrateHeader(header string) string {
	if containsAny(strings.ToLower(header), pronunciationKeywords) {
		return header
	}
	parts := strings.Split(header, ",")
	if len(parts) != 3 {
		return header
	}
	return strings.Join([]string{parts[0], parts[1], PronunciationColumn, parts[2]}, ",")
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
