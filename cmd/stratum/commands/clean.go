package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/stratumlabs/stratum/internal/runstore"
)

// NewCleanCmd builds the `stratum clean` command: prunes run history
// rows (and their on-disk work directories) older than --older-than,
// or every non-running run when --all is set.
func NewCleanCmd(globals *GlobalFlags) *cobra.Command {
	var olderThan time.Duration
	var all bool

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove old run history and work directories",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := runstore.Open(filepath.Join(globals.OutDir, "stratum.db"))
			if err != nil {
				return exitErr(1, fmt.Sprintf("stratum clean: %v", err))
			}
			defer store.Close()

			opts := runstore.ListRunsOptions{OlderThan: olderThan}
			if all {
				opts.OlderThan = 0
			}
			runs, err := store.ListRuns(opts)
			if err != nil {
				return exitErr(1, fmt.Sprintf("stratum clean: %v", err))
			}

			removed := 0
			for _, r := range runs {
				if r.Status == "running" {
					continue
				}
				if err := store.DeleteRun(r.RunID); err != nil {
					fmt.Printf("warning: removing %s: %v\n", r.RunID, err)
					continue
				}
				workDir := filepath.Join(globals.OutDir, "work", r.RunID)
				_ = os.RemoveAll(workDir)
				removed++
			}

			fmt.Printf("removed %d run(s)\n", removed)
			return nil
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", 7*24*time.Hour, "Remove runs started more than this long ago")
	cmd.Flags().BoolVar(&all, "all", false, "Remove every non-running run regardless of age")
	return cmd
}
