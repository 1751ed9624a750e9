package japanese

import (
	"strings"
	"unicode"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

// Token is a single analyzed unit of text.
type Token struct {
	Surface  string // text as it appears, e.g. "行っ"
	BaseForm string // dictionary form, e.g. "行く"
	Reading  string // katakana reading, e.g. "イッ"
	POS      string // primary part of speech, e.g. "動詞"
}

// Analyzer tokenizes Japanese text with the IPA dictionary.
type Analyzer struct {
	t *tokenizer.Tokenizer
}

// NewAnalyzer creates an analyzer. Loading the dictionary takes a moment, so
// callers keep one analyzer around.
func NewAnalyzer() (*Analyzer, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, err
	}
	return &Analyzer{t: t}, nil
}

// Analyze breaks text into tokens with readings and base forms. Whitespace
// tokens are dropped.
func (a *Analyzer) Analyze(text string) []Token {
	var result []Token
	for _, token := range a.t.Tokenize(text) {
		if token.Class == tokenizer.DUMMY {
			continue
		}
		if strings.TrimSpace(token.Surface) == "" {
			continue
		}

		// IPA features: 0 POS, 1-3 sub-POS, 4-5 conjugation, 6 base form,
		// 7 reading, 8 pronunciation.
		features := token.Features()

		base := token.Surface
		if len(features) > 6 && features[6] != "*" {
			base = features[6]
		}
		reading := ""
		if len(features) > 7 && features[7] != "*" {
			reading = features[7]
		}
		pos := ""
		if len(features) > 0 {
			pos = features[0]
		}

		result = append(result, Token{
			Surface:  token.Surface,
			BaseForm: base,
			Reading:  reading,
			POS:      pos,
		})
	}
	return result
}

// Reading returns the hiragana reading of text, e.g. "日本語" -> "にほんご".
// ok is false when text has no kanji or the reading equals the input.
func (a *Analyzer) Reading(text string) (reading string, ok bool) {
	if !hasKanji(text) {
		return "", false
	}

	var b strings.Builder
	for _, tok := range a.Analyze(text) {
		if tok.Reading != "" {
			b.WriteString(KatakanaToHiragana(tok.Reading))
		} else {
			b.WriteString(tok.Surface)
		}
	}

	reading = b.String()
	if reading == "" || reading == text {
		return "", false
	}
	return reading, true
}

// Furigana annotates every kanji token with its reading in parentheses,
// e.g. "日本語を話す" -> "日本語(にほんご)を話(はな)す".
func (a *Analyzer) Furigana(text string) (string, bool) {
	if !hasKanji(text) {
		return "", false
	}

	var b strings.Builder
	for _, tok := range a.Analyze(text) {
		b.WriteString(tok.Surface)
		if !hasKanji(tok.Surface) || tok.Reading == "" {
			continue
		}
		hira := KatakanaToHiragana(tok.Reading)
		if hira != tok.Surface {
			b.WriteString("(" + hira + ")")
		}
	}

	out := b.String()
	if out == "" || out == text {
		return "", false
	}
	return out, true
}

// contentPOS are the parts of speech that carry meaning on their own.
var contentPOS = map[string]bool{
	"名詞":  true,
	"動詞":  true,
	"形容詞": true,
	"副詞":  true,
}

// ContentWords returns the base forms of nouns, verbs, adjectives and
// adverbs in order of first appearance. Numbers, symbols and single kana
// are skipped.
func (a *Analyzer) ContentWords(text string) []string {
	seen := make(map[string]bool)
	var words []string
	for _, tok := range a.Analyze(text) {
		if !contentPOS[tok.POS] {
			continue
		}
		w := tok.BaseForm
		if !meaningful(w) || seen[w] {
			continue
		}
		seen[w] = true
		words = append(words, w)
	}
	return words
}

func meaningful(w string) bool {
	if hasKanji(w) {
		return true
	}
	n := 0
	for _, r := range w {
		if !unicode.In(r, unicode.Hiragana, unicode.Katakana) {
			return false
		}
		n++
	}
	return n >= 2
}

// KatakanaToHiragana converts katakana to hiragana. The long vowel mark and
// other characters are kept.
func KatakanaToHiragana(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'ァ' && r <= 'ヶ' {
			return r - 0x60
		}
		return r
	}, s)
}

func hasKanji(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}
