// Package japanese wraps the kagome morphological analyzer to produce
// hiragana readings, furigana annotations and the content words of a
// Japanese text.
package japanese
