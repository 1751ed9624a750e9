package words

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"codeberg.org/snonux/vopet/internal/language"
)

// MaxWords is the maximum number of words Extract returns.
const MaxWords = 10

// Analyzer finds content words in Japanese text.
type Analyzer interface {
	ContentWords(text string) []string
}

// Extractor splits a phrase into words.
type Extractor struct {
	japanese Analyzer
}

// NewExtractor creates an extractor. A nil analyzer makes Japanese
// extraction fall back to kanji-run matching.
func NewExtractor(japanese Analyzer) *Extractor {
	return &Extractor{japanese: japanese}
}

var (
	jaParticles       = regexp.MustCompile(`^[はがをにでとからまでよりへてでのですますだ]+$`)
	jaParticleAnyChar = regexp.MustCompile(`[はがをにでとからまでよりへてでのですますだ]`)
	jaKanjiWord       = regexp.MustCompile(`\p{Han}+[\p{Hiragana}\p{Katakana}]*|[\p{Hiragana}\p{Katakana}]*\p{Han}+`)

	koParticles = regexp.MustCompile(`[은는이가을를에게에서로으로와과의도만까지밖에부터처럼같이]+`)
	koEndings   = regexp.MustCompile(`(합니다|해요|입니다|이에요|예요|이다|였습니다|했어요|했어|하는|한|된|되는)$`)
	koWord      = regexp.MustCompile(`\p{Hangul}{2,}`)
	koOnly      = regexp.MustCompile(`^\p{Hangul}+$`)

	separators = regexp.MustCompile(`[\s.,!?。、！？\-]+`)
	wordChars  = regexp.MustCompile(`^[a-zA-Z\p{Hangul}\p{Han}\p{Hiragana}\p{Katakana}]+$`)
)

var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "is": true, "are": true, "was": true,
	"were": true, "be": true, "been": true, "being": true, "have": true,
	"has": true, "had": true, "do": true, "does": true, "did": true,
	"will": true, "would": true, "should": true, "could": true, "may": true,
	"might": true, "must": true, "can": true, "to": true, "of": true,
	"in": true, "on": true, "at": true, "by": true, "for": true, "with": true,
	"from": true, "as": true, "and": true, "or": true, "but": true, "if": true,
	"it": true, "this": true, "that": true, "these": true, "those": true,
}

// Extract returns up to MaxWords distinct words of text in order of
// appearance. Texts of two characters or less yield nothing.
func (e *Extractor) Extract(text string) []string {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) <= 2 {
		return nil
	}

	lang := language.Detect(text)
	var candidates []string
	switch lang {
	case language.Japanese:
		candidates = e.japaneseWords(text)
	case language.Korean:
		candidates = koreanWords(text)
	default:
		candidates = otherWords(text, lang)
	}

	seen := make(map[string]bool)
	var out []string
	for _, w := range candidates {
		w = strings.TrimSpace(w)
		if w == "" || seen[w] {
			continue
		}
		if lang != language.Japanese && utf8.RuneCountInString(w) < 2 {
			continue
		}
		if lang == language.Japanese && jaParticles.MatchString(w) {
			continue
		}
		seen[w] = true
		out = append(out, w)
		if len(out) == MaxWords {
			break
		}
	}
	return out
}

func (e *Extractor) japaneseWords(text string) []string {
	var words []string
	if e.japanese != nil {
		words = e.japanese.ContentWords(text)
	} else {
		for _, w := range jaKanjiWord.FindAllString(text, -1) {
			if !jaParticles.MatchString(w) {
				words = append(words, w)
			}
		}
	}

	// A short kanji phrase without particles is a word in itself.
	if utf8.RuneCountInString(text) <= 5 && language.HasHan(text) && !jaParticleAnyChar.MatchString(text) {
		if !contains(words, text) {
			words = append([]string{text}, words...)
		}
	}
	return words
}

func koreanWords(text string) []string {
	cleaned := koParticles.ReplaceAllString(text, " ")
	cleaned = koEndings.ReplaceAllString(cleaned, " ")
	words := koWord.FindAllString(cleaned, -1)

	if utf8.RuneCountInString(text) <= 4 && koOnly.MatchString(text) && !koParticles.MatchString(text) {
		if !contains(words, text) {
			words = append([]string{text}, words...)
		}
	}
	return words
}

func otherWords(text string, lang language.Language) []string {
	var words []string
	for _, w := range separators.Split(text, -1) {
		w = strings.ToLower(strings.TrimSpace(w))
		if utf8.RuneCountInString(w) < 2 {
			continue
		}
		if lang == language.English && stopWords[w] {
			continue
		}
		if wordChars.MatchString(w) {
			words = append(words, w)
		}
	}
	return words
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
