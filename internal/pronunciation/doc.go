// Package pronunciation looks up the reading of a term: hiragana for
// Japanese kanji via the morphological analyzer, IPA for everything else via
// OpenAI.
package pronunciation
