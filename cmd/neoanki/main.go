package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"codeberg.org/snonux/neoanki/internal/cli"
	"codeberg.org/snonux/neoanki/internal/processor"
	"codeberg.org/snonux/neoanki/internal/shell"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// Create root command, the processor is built once config is loaded
	rootCmd := cli.CreateRootCommand(flags, func() (cli.Runner, error) {
		return processor.NewProcessor(flags)
	})

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Execute command
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if errors.Is(err, shell.ErrNotTerminal) {
			fmt.Fprintln(os.Stderr, "Error: the interactive shell needs a terminal, see 'neoanki --help' for commands")
		} else {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		stop()
		os.Exit(1)
	}
}
