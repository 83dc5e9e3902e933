package batch

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"codeberg.org/snonux/neoanki/internal/table"
)

func TestParseCell(t *testing.T) {
	tests := []struct {
		name string
		cell string
		want table.Row
	}{
		{name: "word only", cell: "hello", want: table.Row{Word: "hello"}},
		{name: "with translation", cell: "hello|cześć", want: table.Row{Word: "hello", Translation: "cześć"}},
		{name: "spaces around", cell: "  hello |  cześć ", want: table.Row{Word: "hello", Translation: "cześć"}},
		{name: "empty translation", cell: "hello|", want: table.Row{Word: "hello"}},
		{name: "multiple separators", cell: "a|b|c", want: table.Row{Word: "a", Translation: "b|c"}},
		{name: "decomposed accents", cell: "czes\u0301c\u0301|hi", want: table.Row{Word: "cze\u015b\u0107", Translation: "hi"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseCell(tt.cell); got != tt.want {
				t.Errorf("ParseCell(%q) = %+v, want %+v", tt.cell, got, tt.want)
			}
		})
	}
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want table.Table
	}{
		{name: "empty", line: "", want: nil},
		{name: "only separators", line: " , ,, ", want: nil},
		{
			name: "mixed",
			line: "word|translation,word1|translation1,word2,word3|trans3",
			want: table.Table{
				{Word: "word", Translation: "translation"},
				{Word: "word1", Translation: "translation1"},
				{Word: "word2"},
				{Word: "word3", Translation: "trans3"},
			},
		},
		{
			name: "cells without a word are skipped",
			line: "|orphan, dog",
			want: table.Table{{Word: "dog"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseLine(tt.line)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseLine(%q) = %+v, want %+v", tt.line, got, tt.want)
			}
		})
	}
}

func TestReadBatchFile(t *testing.T) {
	tests := []struct {
		name        string
		fileContent string
		want        table.Table
	}{
		{name: "empty file", fileContent: "", want: nil},
		{name: "only whitespace", fileContent: "   \n\t\r\n   ", want: nil},
		{
			name:        "one cell per line",
			fileContent: "ябълка|apple\nкотка|cat\nкуче",
			want: table.Table{
				{Word: "ябълка", Translation: "apple"},
				{Word: "котка", Translation: "cat"},
				{Word: "куче"},
			},
		},
		{
			name:        "windows line endings and cells",
			fileContent: "a|1, b|2\r\nc\r\n",
			want: table.Table{
				{Word: "a", Translation: "1"},
				{Word: "b", Translation: "2"},
				{Word: "c"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "words.txt")
			if err := os.WriteFile(path, []byte(tt.fileContent), 0644); err != nil {
				t.Fatalf("Failed to write test file: %v", err)
			}

			got, err := ReadBatchFile(path)
			if err != nil {
				t.Fatalf("ReadBatchFile() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ReadBatchFile() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestReadBatchFile_Missing(t *testing.T) {
	_, err := ReadBatchFile(filepath.Join(t.TempDir(), "missing.txt"))
	if err == nil {
		t.Fatal("Expected error for missing file")
	}
}

func TestFormatCells_RoundTrip(t *testing.T) {
	tbl := table.Table{
		{Word: "hello", Translation: "cześć"},
		{Word: "dog"},
		{Word: "cat", Translation: "kot"},
	}

	text := FormatCells(tbl)
	if text != "hello|cześć, dog, cat|kot" {
		t.Errorf("FormatCells() = %q", text)
	}

	if got := ParseLine(text); !reflect.DeepEqual(got, tbl) {
		t.Errorf("ParseLine(FormatCells()) = %+v, want %+v", got, tbl)
	}
}
