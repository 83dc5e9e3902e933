package shell

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"codeberg.org/snonux/neoanki/internal/batch"
	"codeberg.org/snonux/neoanki/internal/drill"
	"codeberg.org/snonux/neoanki/internal/table"
)

const (
	backupLoad   = "Load table"
	backupSave   = "Save current"
	backupEdit   = "Edit table"
	backupDelete = "Delete tables"
	backupBack   = "Back"

	saveNew       = "[new table]"
	deleteConfirm = "Yes, delete"
	deleteCancel  = "No, go back"

	// nameStampLayout is appended to new table names.
	nameStampLayout = "2006-01-02 15-04"
	// deletePreview is how many rows are shown next to each table when
	// picking tables to delete.
	deletePreview = 8
)

func (s *Shell) backupMenu() error {
	s.clearScreen()
	name := s.name
	if name == "" {
		name = "(unnamed)"
	}
	fmt.Fprintf(s.out, "Current table: %s\n", name)
	if len(s.current) > 0 {
		fmt.Fprintln(s.out, drill.TableDisplay(s.current, 0))
	} else {
		fmt.Fprintln(s.out, "(empty)")
	}
	fmt.Fprintln(s.out)

	choice, err := s.selectLabel("Backup:",
		[]string{backupLoad, backupSave, backupEdit, backupDelete, backupBack})
	if err != nil {
		return err
	}

	switch choice {
	case backupLoad:
		return s.loadTable()
	case backupSave:
		return s.saveCurrent()
	case backupEdit:
		return s.editTable()
	case backupDelete:
		return s.deleteTables()
	}
	return nil
}

// loadSaved loads the backup and prints it. It returns false when there is
// nothing saved.
func (s *Shell) loadSaved() (table.Set, bool, error) {
	set := s.load()
	if len(set) == 0 {
		return nil, false, s.pause("No saved tables. Enter...")
	}
	s.clearScreen()
	drill.PrintBackupList(s.out, set)
	return set, true, nil
}

func (s *Shell) loadTable() error {
	set, ok, err := s.loadSaved()
	if !ok || err != nil {
		return err
	}

	name, err := s.selectLabel("Which table to load?", set.Names())
	if err != nil {
		return ignoreAbort(err)
	}
	s.current, s.name = set[name].Clone(), name
	return nil
}

func (s *Shell) saveCurrent() error {
	set := s.load()
	s.clearScreen()
	drill.PrintBackupList(s.out, set)

	target, err := s.selectLabel("Save as (new or overwrite selected):",
		append([]string{saveNew}, set.Names()...))
	if err != nil {
		return ignoreAbort(err)
	}

	if target != saveNew {
		set[target] = s.current.Clone()
		if !s.save(set) {
			return nil
		}
		s.name = target
		return s.pause("Overwritten: %s. Enter...", target)
	}

	base, err := s.prompt.Input("Table name (optional):")
	if err != nil {
		return ignoreAbort(err)
	}
	name := s.newTableName(base)

	// Reload so the save works on what is on disk right now.
	set = s.load()
	set[name] = s.current.Clone()
	if !s.save(set) {
		return nil
	}
	s.name = name
	return s.pause("Saved as: %s. Enter...", name)
}

func (s *Shell) newTableName(base string) string {
	stamp := s.now().Format(nameStampLayout)
	base = strings.TrimSpace(base)
	if base == "" {
		return stamp
	}
	return base + " " + stamp
}

func (s *Shell) editTable() error {
	set, ok, err := s.loadSaved()
	if !ok || err != nil {
		return err
	}

	name, err := s.selectLabel("Which table to edit?", set.Names())
	if err != nil {
		return ignoreAbort(err)
	}

	edited, err := s.editText(batch.FormatCells(set[name]))
	if err != nil {
		s.logger.Warn("Editing table failed", zap.String("table", name), zap.Error(err))
		return s.pause("Editor failed, table not changed: %v. Enter...", err)
	}

	t := batch.ParseText(edited)
	if len(t) == 0 {
		return s.pause("No words found, table not changed. Enter...")
	}
	set[name] = t
	if !s.save(set) {
		return nil
	}
	if s.name == name {
		s.current = t.Clone()
	}
	return s.pause("Saved: %s. Enter...", name)
}

// editText round-trips text through the external editor via a temp file.
func (s *Shell) editText(text string) (string, error) {
	f, err := os.CreateTemp("", "neoanki-*.txt")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)

	if _, err := f.WriteString(text); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := s.edit(path); err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read edited file: %w", err)
	}
	return string(data), nil
}

func (s *Shell) deleteTables() error {
	set, ok, err := s.loadSaved()
	if !ok || err != nil {
		return err
	}
	fmt.Fprintln(s.out, "Select the numbers to delete. To go back without deleting: select nothing.")
	fmt.Fprintln(s.out)

	names := set.Names()
	choices := make([]string, 0, len(names))
	for _, name := range names {
		choices = append(choices, name+" | "+drill.TableDisplay(set[name], deletePreview))
	}

	selected, err := s.prompt.MultiSelect("Which tables to delete?", choices)
	if err != nil {
		return ignoreAbort(err)
	}
	if len(selected) == 0 {
		return s.pause("Cancelled (nothing deleted). Enter...")
	}

	confirm, err := s.selectLabel(fmt.Sprintf("Delete %d table(s) from backup?", len(selected)),
		[]string{deleteConfirm, deleteCancel})
	if err != nil || confirm != deleteConfirm {
		return ignoreAbort(err)
	}

	deleted := make([]string, 0, len(selected))
	for _, idx := range selected {
		delete(set, names[idx])
		deleted = append(deleted, names[idx])
	}
	if !s.save(set) {
		return nil
	}
	return s.pause("Deleted from backup: %s. Enter...", strings.Join(deleted, ", "))
}

func (s *Shell) load() table.Set {
	set, _ := s.store.Load()
	if set == nil {
		set = table.Set{}
	}
	return set
}

// save writes the set and tells the user when that failed. The shell keeps
// running either way.
func (s *Shell) save(set table.Set) bool {
	err := s.store.Save(set)
	if err == nil {
		return true
	}

	s.logger.Error("Failed to save backup", zap.Error(err))
	_ = s.pause("Save failed: %v. Enter...", err)
	return false
}
