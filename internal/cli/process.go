package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/deckpilot/deckpilot/internal/common"
	"github.com/deckpilot/deckpilot/internal/export"
	"github.com/deckpilot/deckpilot/internal/extract"
	"github.com/deckpilot/deckpilot/internal/gamma"
	"github.com/deckpilot/deckpilot/internal/orchestrator"
	"github.com/deckpilot/deckpilot/internal/record"
)

// ProcessOptions holds flags for the process command.
type ProcessOptions struct {
	*RootOptions
	Force       bool
	OptionsFile string
}

// NewProcessCommand creates the process command (the default action).
func NewProcessCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ProcessOptions{RootOptions: rootOpts}
	cfg := common.LoadConfig()

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Discover source documents and generate decks for them",
		Long: `Discover source documents in the input directory, submit new content to
the generation service, wait for completion and export each deck locally.

Content already generated and exported is skipped; --force reprocesses
everything, recording a fresh attempt while keeping the old one as history.

Example:
  deckpilot process --input-dir ./dataset --output-dir ./output
  deckpilot process --force --prefer-browser`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(cmd, opts, cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.Paths.InputDir, "input-dir", cfg.Paths.InputDir, "directory to discover source documents in")
	cmd.Flags().StringVar(&cfg.Paths.OutputDir, "output-dir", cfg.Paths.OutputDir, "directory exported decks are written to")
	cmd.Flags().StringVar(&cfg.Paths.PriorityMarker, "priority-marker", cfg.Paths.PriorityMarker, "files whose content contains this marker are processed first")
	cmd.Flags().StringVar(&cfg.Export.Format, "format", cfg.Export.Format, "export format (pdf|pptx)")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "reprocess files even if already generated")
	cmd.Flags().BoolVar(&cfg.Export.PreferBrowser, "prefer-browser", cfg.Export.PreferBrowser, "try browser-automation export before the API export")
	cmd.Flags().BoolVar(&cfg.Export.DisableAPI, "no-api-export", false, "skip the direct API export entirely")
	cmd.Flags().BoolVar(&cfg.Export.Headless, "headless", cfg.Export.Headless, "run the export browser headless")
	cmd.Flags().StringVar(&opts.OptionsFile, "options", "", "JSON file with generation options (tone, audience, images, ...)")

	return cmd
}

func runProcess(cmd *cobra.Command, opts *ProcessOptions, cfg *common.Config) error {
	if opts.Records != "" {
		cfg.Paths.RecordsFile = opts.Records
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	genOpts := gamma.Options{}
	if opts.OptionsFile != "" {
		var err error
		genOpts, err = gamma.LoadOptionsFile(opts.OptionsFile)
		if err != nil {
			return err
		}
	}
	genOpts.ExportAs = cfg.Export.Format

	// Logger wiring: zap for the orchestration layer, slog for the leaves.
	zlog, err := zap.NewProduction()
	if opts.Verbose {
		zlog, err = zap.NewDevelopment()
	}
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer zlog.Sync()
	slogger := newSlog(opts.Verbose)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := record.Open(cfg.Paths.RecordsFile, slogger)
	if err != nil {
		return err
	}

	client := gamma.NewClient(gamma.Config{
		APIKey:        cfg.Gamma.APIKey,
		BaseURL:       cfg.Gamma.BaseURL,
		ThemeID:       cfg.Gamma.ThemeID,
		Timeout:       cfg.Gamma.Timeout,
		MaxInputChars: cfg.Gamma.MaxInputChars,
	}, slogger)
	poller := gamma.NewPoller(client, cfg.Poll, slogger)
	resolver := export.NewResolver(export.BuildStrategies(
		client,
		cfg.Export.PreferBrowser,
		cfg.Export.DisableAPI,
		cfg.Export.Headless,
		cfg.Export.DownloadWait,
		slogger,
	), slogger)
	extractor := extract.NewFileExtractor(slogger)

	orch := orchestrator.New(store, extractor, client, poller, resolver, genOpts, cfg, opts.Force, zlog)
	sum, err := orch.Run(ctx)
	if err != nil {
		return err
	}

	printSummary(cmd, sum)
	if !sum.OK() {
		return fmt.Errorf("%d of %d files failed", sum.Failed, sum.Discovered)
	}
	return nil
}

func printSummary(cmd *cobra.Command, sum orchestrator.Summary) {
	out := cmd.OutOrStdout()
	for _, o := range sum.Outcomes {
		if o.Err != nil {
			fmt.Fprintf(out, "%-13s %s (%v)\n", o.Result+":", o.Path, o.Err)
		} else {
			fmt.Fprintf(out, "%-13s %s\n", o.Result+":", o.Path)
		}
	}
	fmt.Fprintf(out, "\n%d discovered, %d skipped, %d succeeded, %d failed\n",
		sum.Discovered, sum.Skipped, sum.Succeeded, sum.Failed)
}
