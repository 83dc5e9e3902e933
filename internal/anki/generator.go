package anki

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"codeberg.org/snonux/neoanki/internal/table"
)

// Card represents a single Anki flashcard
type Card struct {
	Word        string // The word being learned
	Translation string // Optional translation
	Tags        string // Space separated Anki tags
}

// GeneratorOptions configures the Anki export
type GeneratorOptions struct {
	OutputPath     string // Output CSV file path
	IncludeHeaders bool   // Include CSV headers
	Tags           string // Tags added to every card
}

// DefaultGeneratorOptions returns sensible defaults
func DefaultGeneratorOptions() *GeneratorOptions {
	return &GeneratorOptions{
		OutputPath:     "anki_import.csv",
		IncludeHeaders: true,
		Tags:           "neoanki",
	}
}

// Generator creates Anki-compatible import files
type Generator struct {
	options *GeneratorOptions
	cards   []Card
}

// NewGenerator creates a new Anki generator
func NewGenerator(options *GeneratorOptions) *Generator {
	if options == nil {
		options = DefaultGeneratorOptions()
	}
	return &Generator{
		options: options,
		cards:   make([]Card, 0),
	}
}

// AddCard adds a card to the collection
func (g *Generator) AddCard(card Card) {
	if card.Tags == "" {
		card.Tags = g.options.Tags
	}
	g.cards = append(g.cards, card)
}

// AddTable adds one card per row.
func (g *Generator) AddTable(t table.Table) {
	for _, r := range t {
		g.AddCard(Card{Word: r.Word, Translation: r.Translation})
	}
}

// GetCards returns a slice of all cards for modification
func (g *Generator) GetCards() []Card {
	return g.cards
}

// GenerateCSV creates a CSV file for Anki import
func (g *Generator) GenerateCSV() error {
	file, err := os.Create(g.options.OutputPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}

	if err := g.WriteCSV(file); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// WriteCSV writes the cards as CSV to w.
func (g *Generator) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)

	if g.options.IncludeHeaders {
		headers := []string{"Word", "Translation", "Tags"}
		if err := writer.Write(headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for _, card := range g.cards {
		record := []string{
			card.Word,
			card.Translation,
			card.Tags,
		}

		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write card: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// GenerateAPKG creates a proper .apkg file for Anki import
func (g *Generator) GenerateAPKG(outputPath, deckName string) error {
	apkgGen := NewAPKGGenerator(deckName)

	for _, card := range g.cards {
		apkgGen.AddCard(card)
	}

	return apkgGen.GenerateAPKG(outputPath)
}

// Stats returns statistics about the card collection
func (g *Generator) Stats() (totalCards, translated int) {
	totalCards = len(g.cards)

	for _, card := range g.cards {
		if card.Translation != "" {
			translated++
		}
	}

	return
}
