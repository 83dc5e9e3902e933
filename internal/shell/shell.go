package shell

import (
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"time"

	"go.uber.org/zap"

	"codeberg.org/snonux/neoanki/internal/batch"
	"codeberg.org/snonux/neoanki/internal/drill"
	"codeberg.org/snonux/neoanki/internal/table"
)

// Menu entries. The scripted tests pick entries by these labels.
const (
	startEnter = "Enter table"
	startLoad  = "Load table from backup"
	startMenu  = "Go to menu"

	menuShuffle = "Shuffle"
	menuNew     = "New table"
	menuBackup  = "Backup"
	menuExit    = "Exit"

	modeSingle = "One by one (word by word)"
	modeAll    = "All at once (comma-separated)"

	answerYes = "Yes"
	answerNo  = "No"

	clearSequence = "\033[H\033[2J"
)

// Store is the persistence the shell works against; *backup.Store
// implements it.
type Store interface {
	Load() (table.Set, bool)
	Save(set table.Set) error
}

// Shell runs the interactive menus.
type Shell struct {
	store  Store
	prompt Prompter
	out    io.Writer
	logger *zap.Logger
	rand   drill.Shuffler
	now    func() time.Time
	edit   func(path string) error
	clear  bool

	current table.Table
	name    string
}

// Option configures a Shell.
type Option func(*Shell)

// WithOutput sets where menus and tables are printed. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(s *Shell) { s.out = w }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Shell) { s.logger = logger }
}

// WithShuffler sets the random source used for drills.
func WithShuffler(r drill.Shuffler) Option {
	return func(s *Shell) { s.rand = r }
}

// WithClock sets the clock used for new table names.
func WithClock(now func() time.Time) Option {
	return func(s *Shell) { s.now = now }
}

// WithEditor replaces the external editor used by "Edit table".
func WithEditor(edit func(path string) error) Option {
	return func(s *Shell) { s.edit = edit }
}

// WithClearScreen clears the terminal before every screen.
func WithClearScreen(clear bool) Option {
	return func(s *Shell) { s.clear = clear }
}

// New creates a shell.
func New(store Store, prompt Prompter, opts ...Option) *Shell {
	s := &Shell{
		store:  store,
		prompt: prompt,
		out:    os.Stdout,
		logger: zap.NewNop(),
		rand:   rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)),
		now:    time.Now,
		edit:   runEditor,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Current returns the table being worked on and its saved name, if any.
func (s *Shell) Current() (table.Table, string) {
	return s.current, s.name
}

// Run shows the start menu and then the main menu until the user exits.
// Cancelling a prompt in the main menu exits without error.
func (s *Shell) Run() error {
	s.clearScreen()
	if _, recovered := s.store.Load(); recovered {
		fmt.Fprintln(s.out, "Recovered backup from .bak file (main file was corrupted).")
		if err := s.prompt.Pause("Enter..."); err != nil {
			return ignoreAbort(err)
		}
		s.clearScreen()
	}

	if err := s.start(); err != nil {
		return ignoreAbort(err)
	}
	return ignoreAbort(s.mainMenu())
}

func (s *Shell) start() error {
	choice, err := s.selectLabel("What do you want to do?", []string{startEnter, startLoad, startMenu})
	if err != nil {
		return err
	}

	switch choice {
	case startEnter:
		t, err := s.inputTable()
		if err != nil {
			return err
		}
		s.current, s.name = t, ""
	case startLoad:
		return s.loadTable()
	}
	return nil
}

func (s *Shell) mainMenu() error {
	for {
		s.clearScreen()
		choices := []string{menuNew, menuBackup, menuExit}
		if len(s.current) > 0 {
			choices = append([]string{menuShuffle}, choices...)
		}

		choice, err := s.selectLabel("Choose:", choices)
		if err != nil {
			return err
		}

		switch choice {
		case menuExit:
			return nil
		case menuShuffle:
			err = s.shuffle()
		case menuNew:
			var t table.Table
			t, err = s.inputTable()
			if err == nil {
				s.current, s.name = t, ""
			}
		case menuBackup:
			err = s.backupMenu()
		}
		if err != nil && !errors.Is(err, ErrAborted) {
			return err
		}
	}
}

func (s *Shell) inputTable() (table.Table, error) {
	s.clearScreen()
	mode, err := s.selectLabel("How to add words?", []string{modeSingle, modeAll})
	if errors.Is(err, ErrAborted) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var t table.Table
	if mode == modeSingle {
		t, err = s.inputSingle()
	} else {
		t, err = s.inputAllAtOnce()
	}
	if err != nil {
		return nil, err
	}

	ok, err := s.confirmTable(t)
	if err != nil || !ok {
		return nil, err
	}
	return t, nil
}

func (s *Shell) inputSingle() (table.Table, error) {
	var t table.Table
	for {
		s.clearScreen()
		if len(t) > 0 {
			fmt.Fprintf(s.out, "Word count: %d\nAdd empty word to finish\n", len(t))
			fmt.Fprintln(s.out, drill.RenderRevealed(t, len(t)))
			fmt.Fprintln(s.out)
		}

		line, err := s.prompt.Input("Word|translation (empty Enter = finish): ")
		if errors.Is(err, ErrAborted) {
			return t, nil
		}
		if err != nil {
			return nil, err
		}

		row := batch.ParseCell(line)
		if row.Word == "" {
			return t, nil
		}
		t = append(t, row)
	}
}

func (s *Shell) inputAllAtOnce() (table.Table, error) {
	s.clearScreen()
	raw, err := s.prompt.Input("Enter elements (element|translation separated by comma)\n" +
		"Example: word|translation,word1|translation1,word2,word3|trans3\n" +
		"Translations are optional\n")
	if errors.Is(err, ErrAborted) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return batch.ParseLine(raw), nil
}

func (s *Shell) confirmTable(t table.Table) (bool, error) {
	if len(t) == 0 {
		return false, nil
	}
	s.clearScreen()
	fmt.Fprintln(s.out, "Table:")
	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, drill.RenderRevealed(t, len(t)))
	fmt.Fprintln(s.out)

	answer, err := s.selectLabel("Confirm table?", []string{answerYes, answerNo})
	if errors.Is(err, ErrAborted) {
		return false, nil
	}
	return answer == answerYes, err
}

func (s *Shell) selectLabel(label string, choices []string) (string, error) {
	idx, err := s.prompt.Select(label, choices)
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(choices) {
		return "", fmt.Errorf("invalid choice %d", idx)
	}
	return choices[idx], nil
}

// pause shows a message and waits for Enter. Cancelling counts as Enter.
func (s *Shell) pause(format string, args ...any) error {
	s.clearScreen()
	return ignoreAbort(s.prompt.Pause(fmt.Sprintf(format, args...)))
}

func (s *Shell) clearScreen() {
	if s.clear {
		fmt.Fprint(s.out, clearSequence)
	}
}

func ignoreAbort(err error) error {
	if errors.Is(err, ErrAborted) {
		return nil
	}
	return err
}
