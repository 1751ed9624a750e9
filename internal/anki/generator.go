package anki

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"codeberg.org/snonux/vopet/internal/ledger"
)

// Card is one flashcard.
type Card struct {
	Front         string // the learned term
	Pronunciation string
	Back          string // the meaning
	Tags          []string
}

// GeneratorOptions configures the export.
type GeneratorOptions struct {
	OutputPath     string
	DeckName       string
	IncludeHeaders bool
	Tags           []string // added to every card
}

// DefaultGeneratorOptions returns the default options.
func DefaultGeneratorOptions() *GeneratorOptions {
	return &GeneratorOptions{
		OutputPath:     "anki_import.csv",
		DeckName:       "vopet",
		IncludeHeaders: true,
		Tags:           []string{"vopet"},
	}
}

// Generator collects cards and writes them out.
type Generator struct {
	options *GeneratorOptions
	cards   []Card
}

// NewGenerator creates a generator. Nil options use the defaults.
func NewGenerator(options *GeneratorOptions) *Generator {
	if options == nil {
		options = DefaultGeneratorOptions()
	}
	return &Generator{options: options}
}

// AddCard adds a card.
func (g *Generator) AddCard(card Card) {
	card.Tags = append(append([]string(nil), g.options.Tags...), card.Tags...)
	g.cards = append(g.cards, card)
}

// AddRecords adds a card per record, skipping rows without term or meaning.
func (g *Generator) AddRecords(records []ledger.Record) int {
	added := 0
	for _, r := range records {
		if r.Validate() != nil {
			continue
		}
		g.AddCard(Card{Front: r.Term, Pronunciation: r.Pronunciation, Back: r.Meaning})
		added++
	}
	return added
}

// Cards returns the collected cards.
func (g *Generator) Cards() []Card {
	return g.cards
}

// GenerateCSV writes the cards to the configured output path.
func (g *Generator) GenerateCSV() error {
	file, err := os.Create(g.options.OutputPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	if err := g.WriteCSV(file); err != nil {
		return err
	}
	return file.Close()
}

// WriteCSV writes the cards as CSV to w.
func (g *Generator) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)

	if g.options.IncludeHeaders {
		if err := writer.Write([]string{"Front", "Pronunciation", "Back", "Tags"}); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for _, card := range g.cards {
		record := []string{card.Front, card.Pronunciation, card.Back, strings.Join(card.Tags, " ")}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write card: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// Stats returns the number of cards and of cards with a pronunciation.
func (g *Generator) Stats() (totalCards, withPronunciation int) {
	totalCards = len(g.cards)
	for _, card := range g.cards {
		if card.Pronunciation != "" {
			withPronunciation++
		}
	}
	return
}
