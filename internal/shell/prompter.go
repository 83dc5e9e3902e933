package shell

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"golang.org/x/term"
)

var (
	// ErrAborted is returned by a Prompter when the user cancels with
	// Ctrl-C or Ctrl-D.
	ErrAborted = errors.New("aborted")
	// ErrNotTerminal is returned when the shell is started without a
	// terminal on stdin.
	ErrNotTerminal = errors.New("interactive mode needs a terminal")
)

// Prompter asks the user questions.
type Prompter interface {
	// Select returns the index of the chosen entry.
	Select(label string, choices []string) (int, error)
	// MultiSelect returns the indexes of the chosen entries, possibly none.
	MultiSelect(label string, choices []string) ([]int, error)
	// Input returns a line of free text.
	Input(label string) (string, error)
	// Pause waits until the user presses Enter.
	Pause(message string) error
}

// IsTerminal reports whether stdin is an interactive terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// ReadlinePrompter asks questions on the terminal with numbered menus.
type ReadlinePrompter struct {
	rl *readline.Instance
}

// NewReadlinePrompter creates a prompter on stdin/stdout.
func NewReadlinePrompter() (*ReadlinePrompter, error) {
	if !IsTerminal() {
		return nil, ErrNotTerminal
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize prompt: %w", err)
	}
	return &ReadlinePrompter{rl: rl}, nil
}

// Close restores the terminal.
func (p *ReadlinePrompter) Close() error {
	return p.rl.Close()
}

func (p *ReadlinePrompter) readLine(prompt string) (string, error) {
	p.rl.SetPrompt(prompt)
	line, err := p.rl.Readline()
	if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
		return "", ErrAborted
	}
	return line, err
}

func (p *ReadlinePrompter) printChoices(label string, choices []string) {
	w := p.rl.Stdout()
	fmt.Fprintln(w, label)
	width := len(strconv.Itoa(len(choices)))
	for i, c := range choices {
		fmt.Fprintf(w, "  %*d) %s\n", width, i+1, c)
	}
}

// Select shows a numbered menu and reads the number of one entry.
func (p *ReadlinePrompter) Select(label string, choices []string) (int, error) {
	p.printChoices(label, choices)
	for {
		line, err := p.readLine(fmt.Sprintf("Choice [1-%d]: ", len(choices)))
		if err != nil {
			return 0, err
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		idx, err := parseChoice(line, len(choices))
		if err != nil {
			fmt.Fprintln(p.rl.Stdout(), err)
			continue
		}
		return idx, nil
	}
}

// MultiSelect shows a numbered menu and reads any number of entries.
func (p *ReadlinePrompter) MultiSelect(label string, choices []string) ([]int, error) {
	p.printChoices(label, choices)
	for {
		line, err := p.readLine("Numbers separated by spaces (empty = none): ")
		if err != nil {
			return nil, err
		}
		idx, err := parseChoices(line, len(choices))
		if err != nil {
			fmt.Fprintln(p.rl.Stdout(), err)
			continue
		}
		return idx, nil
	}
}

// Input reads a line of text. For a multi-line label the last line becomes
// the prompt.
func (p *ReadlinePrompter) Input(label string) (string, error) {
	label = strings.TrimSuffix(label, "\n")
	if i := strings.LastIndex(label, "\n"); i >= 0 {
		fmt.Fprintln(p.rl.Stdout(), label[:i])
		label = label[i+1:]
	}
	if !strings.HasSuffix(label, " ") {
		label += " "
	}
	return p.readLine(label)
}

// Pause waits for Enter.
func (p *ReadlinePrompter) Pause(message string) error {
	_, err := p.readLine(message + " ")
	return err
}

// parseChoice turns a 1-based menu number into an index.
func parseChoice(s string, n int) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v < 1 || v > n {
		return 0, fmt.Errorf("please enter a number between 1 and %d", n)
	}
	return v - 1, nil
}

// parseChoices parses space or comma separated menu numbers into sorted,
// unique indexes.
func parseChoices(s string, n int) ([]int, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t'
	})

	seen := make(map[int]bool, len(fields))
	out := make([]int, 0, len(fields))
	for _, f := range fields {
		idx, err := parseChoice(f, n)
		if err != nil {
			return nil, err
		}
		if !seen[idx] {
			seen[idx] = true
			out = append(out, idx)
		}
	}
	sort.Ints(out)
	return out, nil
}
