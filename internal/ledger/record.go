package ledger

import "strings"

// Record is one learned word.
type Record struct {
	Sequence      int    // row number, assigned by NextSequence
	Term          string // original-language word or phrase
	Pronunciation string // optional reading (furigana, romanization, IPA)
	Meaning       string // translated text
}

// Validate checks the save preconditions: term and meaning must be non-empty
// after trimming. Append itself does not enforce them.
func (r Record) Validate() error {
	if strings.TrimSpace(r.Term) == "" {
		return ErrEmptyTerm
	}
	if strings.TrimSpace(r.Meaning) == "" {
		return ErrEmptyMeaning
	}
	return nil
}
