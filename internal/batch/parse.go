package batch

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/unicode/norm"

	"codeberg.org/snonux/neoanki/internal/table"
)

// Separator splits a cell into word and translation.
const Separator = "|"

// CellSeparator splits a line into cells.
const CellSeparator = ","

// ParseCell parses a single cell of the form "word|translation".
// Formats:
// - Word only: "hello" (no translation)
// - With translation: "hello | cześć"
// Everything after the first separator belongs to the translation.
func ParseCell(cell string) table.Row {
	cell = clean(cell)
	word, translation, found := strings.Cut(cell, Separator)
	if !found {
		return table.Row{Word: cell}
	}
	return table.Row{
		Word:        clean(word),
		Translation: clean(translation),
	}
}

// ParseLine parses comma separated cells, e.g. "a|b, c, d|e". Blank cells
// and cells without a word are skipped.
func ParseLine(line string) table.Table {
	var t table.Table
	for _, cell := range strings.Split(line, CellSeparator) {
		if strings.TrimSpace(cell) == "" {
			continue
		}
		row := ParseCell(cell)
		if row.Word == "" {
			continue
		}
		t = append(t, row)
	}
	return t
}

// ReadBatchFile reads a table from a text file. Every line holds one or
// more comma separated cells.
func ReadBatchFile(filename string) (table.Table, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	return ParseText(string(content)), nil
}

// ParseText parses multi-line input, one or more cells per line.
func ParseText(text string) table.Table {
	var t table.Table
	text = strings.ReplaceAll(text, "\r\n", "\n")
	for _, line := range strings.Split(text, "\n") {
		t = append(t, ParseLine(line)...)
	}
	return t
}

// FormatCells renders a table in the format ParseLine reads, so a table can
// be edited as text and parsed back.
func FormatCells(t table.Table) string {
	cells := make([]string, 0, len(t))
	for _, r := range t {
		if r.HasTranslation() {
			cells = append(cells, r.Word+Separator+r.Translation)
		} else {
			cells = append(cells, r.Word)
		}
	}
	return strings.Join(cells, CellSeparator+" ")
}

// clean trims whitespace and brings the text into NFC so that words typed
// with combining marks compare equal to precomposed ones.
func clean(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
