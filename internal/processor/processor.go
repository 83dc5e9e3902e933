package processor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/jedib0t/go-pretty/v6/table"
	"go.uber.org/zap"

	"codeberg.org/snonux/neoanki/internal"
	"codeberg.org/snonux/neoanki/internal/anki"
	"codeberg.org/snonux/neoanki/internal/backup"
	"codeberg.org/snonux/neoanki/internal/batch"
	"codeberg.org/snonux/neoanki/internal/cli"
	"codeberg.org/snonux/neoanki/internal/drill"
	"codeberg.org/snonux/neoanki/internal/logging"
	"codeberg.org/snonux/neoanki/internal/models"
	"codeberg.org/snonux/neoanki/internal/shell"
	vocab "codeberg.org/snonux/neoanki/internal/table"
	"codeberg.org/snonux/neoanki/internal/translation"
	"codeberg.org/snonux/neoanki/internal/validate"
)

// ErrTableNotFound is returned (wrapped with the name) when a command
// names a table that is not in the backup.
var ErrTableNotFound = errors.New("table not found")

const (
	previewRows = 5
	ankiTags    = "neoanki"
)

// Store is the part of backup.Store the commands need.
type Store interface {
	Load() (vocab.Set, bool)
	Save(set vocab.Set) error
	SaveValue(v any) error
}

type modelLister interface {
	ListAvailableModels(ctx context.Context, w io.Writer) error
}

// Processor handles the command-line operations
type Processor struct {
	flags         *cli.Flags
	store         Store
	logger        *zap.Logger
	out           io.Writer
	newTranslator func(ctx context.Context) (translation.Translator, error)
	lister        modelLister
}

// Option configures a Processor.
type Option func(*Processor)

// WithStore replaces the backup store resolved from the configuration.
func WithStore(s Store) Option {
	return func(p *Processor) { p.store = s }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Processor) { p.logger = logger }
}

// WithOutput redirects command output, stdout by default.
func WithOutput(w io.Writer) Option {
	return func(p *Processor) { p.out = w }
}

// WithTranslator uses tr instead of the configured provider.
func WithTranslator(tr translation.Translator) Option {
	return func(p *Processor) {
		p.newTranslator = func(context.Context) (translation.Translator, error) { return tr, nil }
	}
}

// WithModelLister replaces the OpenAI model lister.
func WithModelLister(l modelLister) Option {
	return func(p *Processor) { p.lister = l }
}

// NewProcessor creates a new processor instance. Anything not supplied as
// an option is resolved from flags and the viper configuration.
func NewProcessor(flags *cli.Flags, opts ...Option) (*Processor, error) {
	p := &Processor{flags: flags}
	for _, opt := range opts {
		opt(p)
	}

	if p.out == nil {
		p.out = os.Stdout
	}
	if p.logger == nil {
		p.logger = logging.New(cli.Verbose(), os.Stderr)
	}
	if p.store == nil {
		paths, err := cli.StorePaths()
		if err != nil {
			return nil, err
		}
		p.logger.Debug("Using backup file", zap.String("path", paths.Primary))
		p.store = backup.New(paths, backup.WithLogger(p.logger))
	}
	if p.newTranslator == nil {
		p.newTranslator = func(ctx context.Context) (translation.Translator, error) {
			return translation.New(ctx, cli.TranslationConfig(), p.logger)
		}
	}
	if p.lister == nil {
		p.lister = models.NewLister(cli.GetOpenAIKey())
	}

	return p, nil
}

// Shell runs the interactive menu on the terminal.
func (p *Processor) Shell() error {
	prompter, err := shell.NewReadlinePrompter()
	if err != nil {
		return err
	}
	defer prompter.Close()

	sh := shell.New(p.store, prompter,
		shell.WithOutput(p.out),
		shell.WithLogger(p.logger),
		shell.WithClearScreen(true),
	)
	return sh.Run()
}

// List prints one line per saved table.
func (p *Processor) List() error {
	set := p.load()
	if len(set) == 0 {
		fmt.Fprintln(p.out, "No saved tables.")
		return nil
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(p.out)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"Name", "Rows", "Translated", "Preview"})
	for _, name := range set.Names() {
		t := set[name]
		tw.AppendRow(table.Row{name, len(t), t.Translated(), drill.TableDisplay(t, previewRows)})
	}
	tw.Render()
	return nil
}

// Show prints a saved table with its translations.
func (p *Processor) Show(name string) error {
	set := p.load()
	t, ok := set[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrTableNotFound, name)
	}

	fmt.Fprintln(p.out, name)
	fmt.Fprintln(p.out, drill.RenderRevealed(t, len(t)))
	return nil
}

// Import stores the table read from file under name. Text files are
// parsed as cells; with --json the file is a JSON table that has to pass
// the strict save validation.
func (p *Processor) Import(name, file string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("table name must not be empty")
	}

	set := p.load()
	if _, exists := set[name]; exists && !p.flags.Replace {
		return fmt.Errorf("table %q already exists (use --replace)", name)
	}

	if p.flags.JSON {
		return p.importJSON(set, name, file)
	}

	t, err := batch.ReadBatchFile(file)
	if err != nil {
		return err
	}
	if len(t) == 0 {
		return fmt.Errorf("no words found in %s", file)
	}

	set[name] = t
	if err := p.store.Save(set); err != nil {
		return err
	}
	fmt.Fprintf(p.out, "Imported %d rows into %q\n", len(t), name)
	return nil
}

func (p *Processor) importJSON(set vocab.Set, name, file string) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("failed to read import file: %w", err)
	}

	if !utf8.Valid(data) {
		return fmt.Errorf("%w: %s is not valid UTF-8", backup.ErrInvalidStructure, file)
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to parse %s: %w", file, err)
	}

	t, err := validate.Table(raw)
	if err != nil {
		return fmt.Errorf("%w: table %q: %w", backup.ErrInvalidStructure, name, err)
	}

	value := make(map[string]any, len(set)+1)
	for n, existing := range set {
		value[n] = existing
	}
	value[name] = raw

	if err := p.store.SaveValue(value); err != nil {
		return err
	}

	fmt.Fprintf(p.out, "Imported %d rows into %q\n", len(t), name)
	return nil
}

// Delete removes the named tables. Nothing is deleted when one of the
// names does not exist.
func (p *Processor) Delete(names []string) error {
	set := p.load()
	for _, name := range names {
		if _, ok := set[name]; !ok {
			return fmt.Errorf("%w: %s", ErrTableNotFound, name)
		}
	}

	for _, name := range names {
		delete(set, name)
	}
	if err := p.store.Save(set); err != nil {
		return err
	}
	fmt.Fprintf(p.out, "Deleted from backup: %s\n", strings.Join(names, ", "))
	return nil
}

// Rename moves a table to a new name that is not taken yet.
func (p *Processor) Rename(oldName, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return errors.New("new table name must not be empty")
	}

	set := p.load()
	t, ok := set[oldName]
	if !ok {
		return fmt.Errorf("%w: %s", ErrTableNotFound, oldName)
	}
	if _, taken := set[newName]; taken {
		return fmt.Errorf("table %q already exists", newName)
	}

	delete(set, oldName)
	set[newName] = t
	if err := p.store.Save(set); err != nil {
		return err
	}
	fmt.Fprintf(p.out, "Renamed %q to %q\n", oldName, newName)
	return nil
}

// Export writes a table as an Anki CSV file or APKG package.
func (p *Processor) Export(name string) error {
	set := p.load()
	t, ok := set[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrTableNotFound, name)
	}

	format := strings.ToLower(p.flags.Format)
	if format != "csv" && format != "apkg" {
		return fmt.Errorf("unsupported export format: %s (use csv or apkg)", p.flags.Format)
	}

	output := p.flags.Output
	if output == "" {
		output = internal.SanitizeFilename(name) + "." + format
	}

	gen := anki.NewGenerator(&anki.GeneratorOptions{
		OutputPath:     output,
		IncludeHeaders: true,
		Tags:           ankiTags,
	})
	gen.AddTable(t)

	var err error
	if format == "csv" {
		err = gen.GenerateCSV()
	} else {
		err = gen.GenerateAPKG(output, cli.DeckName(name))
	}
	if err != nil {
		return fmt.Errorf("failed to export %q: %w", name, err)
	}

	total, translated := gen.Stats()
	fmt.Fprintf(p.out, "Exported %d cards (%d translated) to %s\n", total, translated, output)
	return nil
}

// Translate fills the missing translations of a table and saves it.
func (p *Processor) Translate(ctx context.Context, name string) error {
	set := p.load()
	t, ok := set[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrTableNotFound, name)
	}
	if t.Translated() == len(t) {
		fmt.Fprintf(p.out, "Nothing to translate in %q\n", name)
		return nil
	}

	tr, err := p.newTranslator(ctx)
	if err != nil {
		return err
	}

	res, err := translation.Fill(ctx, tr, t, p.flags.Concurrency)
	if err != nil {
		return err
	}

	if res.Filled > 0 {
		set[name] = res.Table
		if err := p.store.Save(set); err != nil {
			return err
		}
	}
	fmt.Fprintf(p.out, "Translated %d rows of %q, %d failed\n", res.Filled, name, res.Failed)
	if res.Failed > 0 {
		p.logger.Warn("Some translations failed", zap.String("table", name), zap.Int("failed", res.Failed))
	}
	return nil
}

func (p *Processor) load() vocab.Set {
	set, _ := p.store.Load()
	if set == nil {
		set = vocab.Set{}
	}
	return set
}

// Models lists the OpenAI chat models available for the configured key.
func (p *Processor) Models(ctx context.Context) error {
	return p.lister.ListAvailableModels(ctx, p.out)
}
