package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/neoanki/internal"
)

// Runner executes the work behind each command. The processor package
// provides the production implementation.
type Runner interface {
	Shell() error
	List() error
	Show(name string) error
	Import(name, file string) error
	Delete(names []string) error
	Rename(oldName, newName string) error
	Export(name string) error
	Translate(ctx context.Context, name string) error
	Models(ctx context.Context) error
}

// RunnerFactory builds a Runner once flags and configuration are resolved.
type RunnerFactory func() (Runner, error)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags, newRunner RunnerFactory) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "neoanki",
		Short: "Vocabulary drill with a crash-safe backup",
		Long: `neoanki keeps named vocabulary tables (word and optional translation)
in a JSON backup file and drills them in an interactive shell.

Examples:
  neoanki                          # Launch the interactive shell (default)
  neoanki list                     # Show saved tables
  neoanki import Animals words.txt # Import "word|translation" cells
  neoanki translate Animals        # Fill missing translations
  neoanki export Animals           # Write an Anki package`,
		Args:          cobra.NoArgs,
		Version:       internal.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := newRunner()
			if err != nil {
				return err
			}
			return r.Shell()
		},
	}

	setupFlags(rootCmd, flags)
	rootCmd.AddCommand(
		subcommand("list", "List saved tables", cobra.NoArgs, newRunner,
			func(r Runner, cmd *cobra.Command, args []string) error { return r.List() }),
		subcommand("show NAME", "Print a saved table", cobra.ExactArgs(1), newRunner,
			func(r Runner, cmd *cobra.Command, args []string) error { return r.Show(args[0]) }),
		importCommand(flags, newRunner),
		subcommand("delete NAME...", "Delete saved tables", cobra.MinimumNArgs(1), newRunner,
			func(r Runner, cmd *cobra.Command, args []string) error { return r.Delete(args) }),
		subcommand("rename OLD NEW", "Rename a saved table", cobra.ExactArgs(2), newRunner,
			func(r Runner, cmd *cobra.Command, args []string) error { return r.Rename(args[0], args[1]) }),
		exportCommand(flags, newRunner),
		translateCommand(flags, newRunner),
		subcommand("models", "List available OpenAI chat models", cobra.NoArgs, newRunner,
			func(r Runner, cmd *cobra.Command, args []string) error { return r.Models(cmd.Context()) }),
	)

	return rootCmd
}

func subcommand(use, short string, args cobra.PositionalArgs, newRunner RunnerFactory,
	run func(r Runner, cmd *cobra.Command, args []string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := newRunner()
			if err != nil {
				return err
			}
			return run(r, cmd, args)
		},
	}
}

func importCommand(flags *Flags, newRunner RunnerFactory) *cobra.Command {
	cmd := subcommand("import NAME FILE", "Import a table from a text or JSON file", cobra.ExactArgs(2), newRunner,
		func(r Runner, cmd *cobra.Command, args []string) error { return r.Import(args[0], args[1]) })
	cmd.Long = `Import a table from FILE and store it under NAME.

Text files hold comma-separated cells, one or more per line, each cell
either "word" or "word|translation". With --json the file must contain a
JSON array of [word, translation] pairs, the same shape the backup uses.`
	cmd.Flags().BoolVar(&flags.JSON, "json", false, "Read FILE as a JSON table")
	cmd.Flags().BoolVar(&flags.Replace, "replace", false, "Replace an existing table with the same name")
	return cmd
}

func exportCommand(flags *Flags, newRunner RunnerFactory) *cobra.Command {
	cmd := subcommand("export NAME", "Export a table for Anki import", cobra.ExactArgs(1), newRunner,
		func(r Runner, cmd *cobra.Command, args []string) error { return r.Export(args[0]) })
	cmd.Flags().StringVarP(&flags.Format, "format", "f", flags.Format, "Export format (csv or apkg)")
	cmd.Flags().StringVarP(&flags.Output, "output", "o", "", "Output file (default: sanitised table name)")
	cmd.Flags().StringVar(&flags.DeckName, "deck-name", "", "Deck name for APKG export (default: table name)")
	viper.BindPFlag("export.deck_name", cmd.Flags().Lookup("deck-name"))
	return cmd
}

func translateCommand(flags *Flags, newRunner RunnerFactory) *cobra.Command {
	cmd := subcommand("translate NAME", "Fill missing translations of a table", cobra.ExactArgs(1), newRunner,
		func(r Runner, cmd *cobra.Command, args []string) error { return r.Translate(cmd.Context(), args[0]) })
	cmd.Flags().StringVar(&flags.Provider, "provider", flags.Provider, "Translation provider (openai or gemini)")
	cmd.Flags().StringVar(&flags.Model, "model", "", "Model name (default depends on the provider)")
	cmd.Flags().StringVar(&flags.SourceLang, "source-lang", flags.SourceLang, "Language of the words")
	cmd.Flags().StringVar(&flags.TargetLang, "target-lang", flags.TargetLang, "Language of the translations")
	cmd.Flags().IntVar(&flags.Concurrency, "concurrency", flags.Concurrency, "Parallel translation requests")
	viper.BindPFlag("translation.provider", cmd.Flags().Lookup("provider"))
	viper.BindPFlag("translation.model", cmd.Flags().Lookup("model"))
	viper.BindPFlag("translation.source_lang", cmd.Flags().Lookup("source-lang"))
	viper.BindPFlag("translation.target_lang", cmd.Flags().Lookup("target-lang"))
	return cmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.neoanki.yaml)")
	cmd.PersistentFlags().StringVar(&flags.StorePath, "store", "", "Backup file (default: neoanki_backup.json next to the executable)")
	cmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Log debug messages to stderr")

	// Bind flags to viper
	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	viper.BindPFlag("store.path", cmd.PersistentFlags().Lookup("store"))
	viper.BindPFlag("log.verbose", cmd.PersistentFlags().Lookup("verbose"))
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	// A missing .env file is the normal case
	_ = godotenv.Load()

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".neoanki" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".neoanki")
	}

	// Environment variables, NEOANKI_STORE_PATH maps to store.path
	viper.SetEnvPrefix("NEOANKI")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
