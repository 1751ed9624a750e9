package store

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// DecodeCSV converts a ledger file to UTF-8. UTF-8 (with or without BOM)
// and UTF-16 with BOM are recognized directly; anything else goes through
// charset detection. Spreadsheets saved on Korean Windows are usually
// EUC-KR (CP949), which is the fallback when detection fails.
func DecodeCSV(raw []byte) (string, error) {
	switch {
	case bytes.HasPrefix(raw, bomUTF8):
		return string(raw[len(bomUTF8):]), nil
	case bytes.HasPrefix(raw, bomUTF16LE), bytes.HasPrefix(raw, bomUTF16BE):
		return decodeWith(unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM), raw)
	case utf8.Valid(raw):
		return string(raw), nil
	}

	enc := encoding.Encoding(korean.EUCKR)
	if det, err := chardet.NewTextDetector().DetectBest(raw); err == nil && det != nil {
		if e, err := htmlindex.Get(strings.ToLower(det.Charset)); err == nil {
			enc = e
		}
	}
	return decodeWith(enc, raw)
}

func decodeWith(enc encoding.Encoding, raw []byte) (string, error) {
	out, _, err := transform.Bytes(enc.NewDecoder(), raw)
	if err != nil {
		return "", fmt.Errorf("failed to decode ledger: %w", err)
	}
	return string(out), nil
}
