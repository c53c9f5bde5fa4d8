package commands

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/stratumlabs/stratum/internal/runstore"
)

// NewListCmd builds the `stratum list` command: a table of past runs
// from the run history store.
func NewListCmd(globals *GlobalFlags) *cobra.Command {
	var status string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List past runs recorded in the run history store",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := runstore.Open(filepath.Join(globals.OutDir, "stratum.db"))
			if err != nil {
				return exitErr(1, fmt.Sprintf("stratum list: %v", err))
			}
			defer store.Close()

			runs, err := store.ListRuns(runstore.ListRunsOptions{Status: status, Limit: limit})
			if err != nil {
				return exitErr(1, fmt.Sprintf("stratum list: %v", err))
			}
			if len(runs) == 0 {
				fmt.Println("no runs recorded")
				return nil
			}

			fmt.Printf("%-28s %-10s %-20s %s\n", "RUN ID", "STATUS", "STARTED", "SAMPLES")
			for _, r := range runs {
				fmt.Printf("%-28s %-10s %-20s %s\n", r.RunID, r.Status, r.StartedAt.Format(time.RFC3339), r.SamplesFile)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by run status (running, completed, failed, cancelled)")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to list")
	return cmd
}
