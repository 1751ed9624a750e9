package language

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode"

	xlang "golang.org/x/text/language"
)

// Language is a supported language identified by its ISO 639-1 code.
type Language string

const (
	Korean   Language = "ko"
	English  Language = "en"
	Japanese Language = "ja"
	Chinese  Language = "zh"
)

// Auto asks the backend to detect the source language.
const Auto Language = ""

// ErrUnsupported is returned for language codes vopet has no tables for.
var ErrUnsupported = errors.New("unsupported language")

// All lists the supported languages.
var All = []Language{Korean, English, Japanese, Chinese}

type codes struct {
	deepl, google, ocr, papago string
}

var table = map[Language]codes{
	Korean:   {"KO", "ko", "kor", "ko"},
	English:  {"EN", "en", "eng", "en"},
	Japanese: {"JA", "ja", "jpn", "ja"},
	Chinese:  {"ZH", "zh-CN", "chs", "zh-CN"},
}

// Parse maps a BCP 47 tag such as "ko", "ja-JP" or "zh-CN" to a Language.
// The empty string and "auto" yield Auto.
func Parse(code string) (Language, error) {
	code = strings.TrimSpace(code)
	if code == "" || strings.EqualFold(code, "auto") {
		return Auto, nil
	}

	tag, err := xlang.Parse(code)
	if err != nil {
		return Auto, fmt.Errorf("%w: %s", ErrUnsupported, code)
	}
	base, _ := tag.Base()

	l := Language(base.String())
	if _, ok := table[l]; !ok {
		return Auto, fmt.Errorf("%w: %s", ErrUnsupported, code)
	}
	return l, nil
}

// MustParse is like Parse but panics on error. Intended for constants in tests
// and defaults.
func MustParse(code string) Language {
	l, err := Parse(code)
	if err != nil {
		panic(err)
	}
	return l
}

func (l Language) String() string {
	if l == Auto {
		return "auto"
	}
	return string(l)
}

// DeepLCode returns the DeepL target_lang/source_lang value.
func (l Language) DeepLCode() string { return table[l].deepl }

// GoogleCode returns the Google Translate language code.
func (l Language) GoogleCode() string { return table[l].google }

// OCRCode returns the OCR.space language code. Unknown languages fall back
// to English.
func (l Language) OCRCode() string {
	if c, ok := table[l]; ok {
		return c.ocr
	}
	return table[English].ocr
}

// PapagoCode returns the Papago language code. Auto and unknown languages
// map to Korean.
func (l Language) PapagoCode() string {
	if c, ok := table[l]; ok {
		return c.papago
	}
	return table[Korean].papago
}

// Detect guesses the language of text from its script. Hangul wins over
// kana and Han; Han without Hangul is treated as Japanese, so Chinese is
// never detected. Everything else is English.
func Detect(text string) Language {
	japanese := false
	for _, r := range text {
		switch {
		case unicode.In(r, unicode.Hangul):
			return Korean
		case unicode.In(r, unicode.Hiragana, unicode.Katakana, unicode.Han):
			japanese = true
		}
	}
	if japanese {
		return Japanese
	}
	return English
}

// HasHan reports whether text contains a Han character (kanji, hanja).
func HasHan(text string) bool {
	for _, r := range text {
		if unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}

const papagoBaseURL = "https://papago.naver.com/"

// PapagoURL builds the link that opens text in the Papago web translator.
func PapagoURL(text string, source, target Language) string {
	params := url.Values{}
	params.Set("sk", source.PapagoCode())
	params.Set("tk", target.PapagoCode())
	params.Set("hn", "0")
	params.Set("st", text)
	return papagoBaseURL + "?" + params.Encode()
}
