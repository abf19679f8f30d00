package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Records string // records file path
}

// NewRootCommand creates the root command for the deckpilot CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "deckpilot",
		Short: "Generate presentation decks from source documents",
		Long: `deckpilot converts source documents (.docx, .pdf, .txt, .md) into
generated presentation decks via the Gamma API and exports the result to a
local PDF or PPTX, skipping content that was already processed.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Records, "records", "", "path to the generation records file (default from env)")

	// Add subcommands
	cmd.AddCommand(NewProcessCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewExportAuditCommand(opts))

	return cmd
}

// newSlog builds the logger handed to the leaf components.
func newSlog(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
