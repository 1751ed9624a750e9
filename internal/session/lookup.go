package session

import (
	"context"

	"codeberg.org/snonux/vopet/internal/language"
)

// WordLookup is the translation of one word of a phrase.
type WordLookup struct {
	Word          string `json:"word"`
	Meaning       string `json:"meaning,omitempty"`
	Pronunciation string `json:"pronunciation,omitempty"`
	Error         string `json:"error,omitempty"`
}

// LookupWords extracts the words of text and translates each of them. A
// failing word is reported in its Error field and does not stop the others.
func (s *Session) LookupWords(ctx context.Context, text string, target language.Language) ([]WordLookup, error) {
	if s.words == nil {
		return nil, nil
	}
	if target == language.Auto {
		target = s.cfg.Target
	}

	words := s.words.Extract(text)
	source := language.Detect(text)

	out := make([]WordLookup, 0, len(words))
	for _, w := range words {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		lookup := WordLookup{Word: w}
		res, err := s.Translate(ctx, w, source, target)
		if err != nil {
			s.logger.Warn("word translation failed", "word", w, "error", err)
			lookup.Error = err.Error()
		} else {
			lookup.Meaning = res.Text
		}
		lookup.Pronunciation = s.Pronounce(ctx, w, source)
		out = append(out, lookup)
	}
	return out, nil
}
