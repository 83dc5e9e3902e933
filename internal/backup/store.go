package backup

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"codeberg.org/snonux/neoanki/internal/table"
	"codeberg.org/snonux/neoanki/internal/validate"
)

const (
	// DefaultFileName is the primary backup file name.
	DefaultFileName = "neoanki_backup.json"
	// SecondarySuffix is appended to the primary path to get the secondary.
	SecondarySuffix = ".bak"

	filePerm = 0o600
	dirPerm  = 0o755
)

// ErrInvalidStructure is returned by Save when the caller hands over data
// that is not a mapping of names to well-formed tables. No file is touched
// in that case.
var ErrInvalidStructure = errors.New("invalid backup structure")

// Paths locates the two files backing a store.
type Paths struct {
	Primary   string
	Secondary string
}

// PathsFor returns the paths for a primary file, with the secondary next to
// it.
func PathsFor(primary string) Paths {
	return Paths{
		Primary:   primary,
		Secondary: primary + SecondarySuffix,
	}
}

// DefaultPaths places the backup next to the running executable.
func DefaultPaths() (Paths, error) {
	exe, err := os.Executable()
	if err != nil {
		return Paths{}, fmt.Errorf("failed to locate executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return PathsFor(filepath.Join(filepath.Dir(exe), DefaultFileName)), nil
}

// Store persists a table.Set across a primary file and a one generation
// old secondary copy.
type Store struct {
	fs     afero.Fs
	paths  Paths
	logger *zap.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithFs sets the filesystem the store works on. Defaults to the OS.
func WithFs(fs afero.Fs) Option {
	return func(s *Store) {
		s.fs = fs
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New creates a store for the given paths.
func New(paths Paths, opts ...Option) *Store {
	s := &Store{
		fs:     afero.NewOsFs(),
		paths:  paths,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Paths returns the files backing the store.
func (s *Store) Paths() Paths {
	return s.paths
}

// Load returns the saved tables. The primary file is tried first, then the
// secondary. When the secondary is used, its bytes are copied back over the
// primary and the second result (recovered) is true. If neither file holds
// a valid store the result is an empty set; missing or broken files are
// never an error.
func (s *Store) Load() (table.Set, bool) {
	if _, set, ok := s.read(s.paths.Primary); ok {
		return set, false
	}

	data, set, ok := s.read(s.paths.Secondary)
	if !ok {
		return table.Set{}, false
	}

	s.logger.Warn("Primary backup unusable, recovered from secondary",
		zap.String("primary", s.paths.Primary),
		zap.String("secondary", s.paths.Secondary),
	)
	if err := s.writeAtomic(data); err != nil {
		s.logger.Warn("Failed to repair primary backup", zap.Error(err))
	}

	return set, true
}

// read loads and validates one file. Any failure means the file is simply
// not available.
func (s *Store) read(path string) ([]byte, table.Set, bool) {
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		s.logger.Debug("Backup file not readable", zap.String("path", path), zap.Error(err))
		return nil, nil, false
	}

	// encoding/json would replace invalid UTF-8 with U+FFFD
	if !utf8.Valid(data) {
		s.logger.Debug("Backup file is not valid UTF-8", zap.String("path", path))
		return nil, nil, false
	}

	var tree any
	if err := json.Unmarshal(data, &tree); err != nil {
		s.logger.Debug("Backup file not valid JSON", zap.String("path", path), zap.Error(err))
		return nil, nil, false
	}

	set, err := validate.Store(tree)
	if err != nil {
		s.logger.Debug("Backup file has invalid structure", zap.String("path", path), zap.Error(err))
		return nil, nil, false
	}

	return data, set, true
}

// Save validates and writes the tables. The current primary is first copied
// to the secondary (a failure there is logged and ignored), then the new
// content replaces the primary atomically.
func (s *Store) Save(set table.Set) error {
	if err := validate.Set(set); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidStructure, err)
	}
	return s.save(set)
}

// SaveValue is Save for data whose shape is not guaranteed by the type
// system, such as a decoded JSON import. It accepts a table.Set, a
// map[string]table.Table, a map[string][][]string or a generic
// map[string]any; everything else fails with ErrInvalidStructure.
func (s *Store) SaveValue(v any) error {
	set := make(table.Set)

	switch m := v.(type) {
	case table.Set:
		return s.Save(m)
	case map[string]table.Table:
		return s.Save(table.Set(m))
	case map[string][][]string:
		for name, raw := range m {
			t, err := validate.Table(raw)
			if err != nil {
				return fmt.Errorf("%w: table %q: %w", ErrInvalidStructure, name, err)
			}
			set[name] = t
		}
	case map[string]any:
		for name, raw := range m {
			t, err := validate.Table(raw)
			if err != nil {
				return fmt.Errorf("%w: table %q: %w", ErrInvalidStructure, name, err)
			}
			set[name] = t
		}
	default:
		return fmt.Errorf("%w: got %T, want a mapping of tables", ErrInvalidStructure, v)
	}

	return s.Save(set)
}

func (s *Store) save(set table.Set) error {
	data, err := Encode(set)
	if err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}

	s.rotate()

	if err := s.writeAtomic(data); err != nil {
		return err
	}

	s.logger.Debug("Backup saved",
		zap.String("path", s.paths.Primary),
		zap.Int("tables", len(set)),
	)
	return nil
}

// rotate copies the current primary bytes to the secondary, best-effort.
func (s *Store) rotate() {
	data, err := afero.ReadFile(s.fs, s.paths.Primary)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("Failed to read primary backup for rotation", zap.Error(err))
		}
		return
	}

	if err := afero.WriteFile(s.fs, s.paths.Secondary, data, filePerm); err != nil {
		s.logger.Warn("Failed to rotate backup, saving without secondary copy",
			zap.String("secondary", s.paths.Secondary),
			zap.Error(err),
		)
	}
}

// writeAtomic writes data to a temp file next to the primary and renames it
// into place, so readers only ever see the old or the new content.
func (s *Store) writeAtomic(data []byte) error {
	dir := filepath.Dir(s.paths.Primary)
	if err := s.fs.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("failed to create backup directory: %w", err)
	}

	f, err := afero.TempFile(s.fs, dir, filepath.Base(s.paths.Primary)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmp := f.Name()

	cleanup := func() {
		if err := s.fs.Remove(tmp); err != nil && !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("Failed to remove temp file", zap.String("path", tmp), zap.Error(err))
		}
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		cleanup()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		cleanup()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := s.fs.Rename(tmp, s.paths.Primary); err != nil {
		cleanup()
		return fmt.Errorf("failed to replace backup file: %w", err)
	}

	return nil
}

// Encode renders a set in the on-disk format: an indented JSON object of
// [word, translation] pairs with non-ASCII text left as is.
func Encode(set table.Set) ([]byte, error) {
	out := make(map[string][][2]string, len(set))
	for name, t := range set {
		rows := make([][2]string, 0, len(t))
		for _, r := range t {
			rows = append(rows, [2]string{r.Word, r.Translation})
		}
		out[name] = rows
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return nil, err
	}

	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
