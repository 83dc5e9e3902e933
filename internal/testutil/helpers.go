package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"codeberg.org/snonux/neoanki/internal/backup"
	"codeberg.org/snonux/neoanki/internal/table"
)

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// SampleSet returns a small set of tables used across tests
func SampleSet() table.Set {
	return table.Set{
		"Animals": {
			{Word: "dog", Translation: "pies"},
			{Word: "cat", Translation: "kot"},
			{Word: "horse"},
		},
		"Greetings": {
			{Word: "hello", Translation: "cześć"},
			{Word: "good morning", Translation: "dzień dobry"},
		},
	}
}

// NewMemStore creates a backup store on an in-memory filesystem, seeded
// with set unless it is nil.
func NewMemStore(t *testing.T, set table.Set) (*backup.Store, afero.Fs) {
	t.Helper()

	fs := afero.NewMemMapFs()
	store := backup.New(backup.PathsFor("/data/"+backup.DefaultFileName),
		backup.WithFs(fs),
		backup.WithLogger(NewTestLogger()),
	)
	if set != nil {
		if err := store.Save(set); err != nil {
			t.Fatalf("Failed to seed store: %v", err)
		}
	}
	return store, fs
}

// CreateTestFile creates a test file with content
func CreateTestFile(t *testing.T, path string, content []byte) {
	t.Helper()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create directory for test file: %v", err)
	}

	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("Failed to create test file %s: %v", path, err)
	}
}

// AssertFileExists checks if a file exists
func AssertFileExists(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("Expected file to exist: %s", path)
	}
}

// AssertFileNotExists checks if a file does not exist
func AssertFileNotExists(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Stat(path); err == nil {
		t.Errorf("Expected file to not exist: %s", path)
	}
}

// AssertFileContent checks if a file has expected content
func AssertFileContent(t *testing.T, path string, expected []byte) {
	t.Helper()

	actual, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}

	if string(actual) != string(expected) {
		t.Errorf("File content mismatch in %s\nExpected: %q\nActual: %q", path, expected, actual)
	}
}

// AssertFileContains checks if a file contains a substring
func AssertFileContains(t *testing.T, path string, substring string) {
	t.Helper()

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}

	if !strings.Contains(string(content), substring) {
		t.Errorf("File %s does not contain expected substring: %q", path, substring)
	}
}
