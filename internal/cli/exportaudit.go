package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/deckpilot/deckpilot/internal/common"
	"github.com/deckpilot/deckpilot/internal/export"
	"github.com/deckpilot/deckpilot/internal/record"
)

// NewExportAuditCommand creates the export-audit command.
func NewExportAuditCommand(rootOpts *RootOptions) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:           "export-audit",
		Short:         "Write the full generation history to an XLSX workbook",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := common.LoadConfig()
			if rootOpts.Records != "" {
				cfg.Paths.RecordsFile = rootOpts.Records
			}

			logger := newSlog(rootOpts.Verbose)
			store, err := record.Open(cfg.Paths.RecordsFile, logger)
			if err != nil {
				return err
			}

			raw, err := export.AuditXLSX(store.List(), logger)
			if err != nil {
				return err
			}
			if err := os.WriteFile(outPath, raw, 0o644); err != nil {
				return fmt.Errorf("write workbook: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d records to %s\n", store.Len(), outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "generation_records.xlsx", "output XLSX path")
	return cmd
}
