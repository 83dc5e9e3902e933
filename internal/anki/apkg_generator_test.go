package anki

import (
	"archive/zip"
	"database/sql"
	"io"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewAPKGGenerator(t *testing.T) {
	gen := NewAPKGGenerator("Test Deck")

	if gen == nil {
		t.Fatal("NewAPKGGenerator returned nil")
	}

	if gen.deckName != "Test Deck" {
		t.Errorf("Expected deck name 'Test Deck', got '%s'", gen.deckName)
	}

	if len(gen.cards) != 0 {
		t.Errorf("Expected empty cards slice, got %d cards", len(gen.cards))
	}

	if gen.modelID == gen.deckID {
		t.Error("Expected distinct deck and model IDs")
	}
}

func TestGenerateAPKG(t *testing.T) {
	tempDir := t.TempDir()

	gen := NewAPKGGenerator("Test Deck")
	gen.AddCard(Card{Word: "dog", Translation: "pies"})
	gen.AddCard(Card{Word: "cat"})

	outputPath := filepath.Join(tempDir, "nested", "test.apkg")
	if err := gen.GenerateAPKG(outputPath); err != nil {
		t.Fatalf("GenerateAPKG() error = %v", err)
	}

	reader, err := zip.OpenReader(outputPath)
	if err != nil {
		t.Fatalf("Failed to open APKG as zip: %v", err)
	}
	defer reader.Close()

	found := map[string]bool{}
	for _, file := range reader.File {
		found[file.Name] = true
		if file.Name == "media" {
			rc, err := file.Open()
			if err != nil {
				t.Fatalf("Failed to open media entry: %v", err)
			}
			data, _ := io.ReadAll(rc)
			rc.Close()
			if string(data) != "{}" {
				t.Errorf("Expected empty media mapping, got %q", data)
			}
		}
	}

	for _, name := range []string{"collection.anki2", "media"} {
		if !found[name] {
			t.Errorf("Required file '%s' not found in APKG", name)
		}
	}
}

func TestCreateDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.anki2")

	gen := NewAPKGGenerator("Test Deck")
	gen.AddCard(Card{Word: "dog", Translation: "pies", Tags: "animals basics"})
	gen.AddCard(Card{Word: "cat"})

	if err := gen.createDatabase(dbPath); err != nil {
		t.Fatalf("createDatabase() error = %v", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	var noteCount, cardCount int
	if err := db.QueryRow("SELECT COUNT(*) FROM notes").Scan(&noteCount); err != nil {
		t.Fatalf("Failed to count notes: %v", err)
	}
	if err := db.QueryRow("SELECT COUNT(*) FROM cards").Scan(&cardCount); err != nil {
		t.Fatalf("Failed to count cards: %v", err)
	}
	if noteCount != 2 {
		t.Errorf("Expected 2 notes, got %d", noteCount)
	}
	if cardCount != 4 {
		t.Errorf("Expected 4 cards (forward and reverse), got %d", cardCount)
	}

	rows, err := db.Query("SELECT flds, tags, guid FROM notes ORDER BY id")
	if err != nil {
		t.Fatalf("Failed to query notes: %v", err)
	}
	defer rows.Close()

	var flds, tags, guids []string
	for rows.Next() {
		var f, tg, g string
		if err := rows.Scan(&f, &tg, &g); err != nil {
			t.Fatalf("Failed to scan note: %v", err)
		}
		flds = append(flds, f)
		tags = append(tags, tg)
		guids = append(guids, g)
	}

	if flds[0] != "dog\x1fpies" {
		t.Errorf("Unexpected fields: %q", flds[0])
	}
	if flds[1] != "cat\x1fTranslation needed" {
		t.Errorf("Expected placeholder translation, got %q", flds[1])
	}
	if tags[0] != " animals basics " {
		t.Errorf("Unexpected tags: %q", tags[0])
	}
	if guids[0] == guids[1] {
		t.Error("Expected unique note GUIDs")
	}

	var models string
	if err := db.QueryRow("SELECT models FROM col").Scan(&models); err != nil {
		t.Fatalf("Failed to read collection: %v", err)
	}
	if !strings.Contains(models, `"Reverse"`) || !strings.Contains(models, `"Translation"`) {
		t.Errorf("Note type is missing templates or fields: %s", models)
	}
}

func TestFieldChecksum(t *testing.T) {
	// sha1("dog") = e49512524f47b4138d850c9d9d85972927281da0
	if got := fieldChecksum("dog"); got != 0xe4951252 {
		t.Errorf("fieldChecksum(dog) = %x", got)
	}
}
