package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/deckpilot/deckpilot/internal/common"
	"github.com/deckpilot/deckpilot/internal/record"
)

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List all generation records, newest first",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := common.LoadConfig()
			if rootOpts.Records != "" {
				cfg.Paths.RecordsFile = rootOpts.Records
			}

			store, err := record.Open(cfg.Paths.RecordsFile, newSlog(rootOpts.Verbose))
			if err != nil {
				return err
			}

			records := store.List()
			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "no generation records found")
				return nil
			}

			for i := len(records) - 1; i >= 0; i-- {
				r := records[i]
				fmt.Fprintf(out, "record %s\n", r.ID)
				fmt.Fprintf(out, "  file:          %s\n", r.FileName)
				fmt.Fprintf(out, "  source:        %s\n", r.SourcePath)
				fmt.Fprintf(out, "  generation id: %s\n", valueOrDash(r.GenerationID))
				fmt.Fprintf(out, "  status:        %s\n", r.Status)
				if r.FailureCause != "" {
					fmt.Fprintf(out, "  cause:         %s\n", r.FailureCause)
				}
				fmt.Fprintf(out, "  export:        %s\n", r.ExportStatus)
				if r.ExportPath != "" {
					fmt.Fprintf(out, "  export path:   %s (%s)\n", r.ExportPath, r.ExportMethod)
				}
				fmt.Fprintf(out, "  remote url:    %s\n", valueOrDash(r.RemoteURL))
				if r.Superseded {
					fmt.Fprintf(out, "  superseded:    true\n")
				}
				fmt.Fprintf(out, "  created:       %s\n", r.CreatedAt.UTC().Format(time.RFC3339))
				fmt.Fprintf(out, "  updated:       %s\n\n", r.UpdatedAt.UTC().Format(time.RFC3339))
			}
			return nil
		},
	}
	return cmd
}

func valueOrDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
