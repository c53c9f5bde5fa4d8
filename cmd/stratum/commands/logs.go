package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/stratumlabs/stratum/internal/runstore"
)

// NewLogsCmd builds the `stratum logs` command: prints the recorded
// error message (if any) for one run, or for one runner within it.
func NewLogsCmd(globals *GlobalFlags) *cobra.Command {
	var runnerName string

	cmd := &cobra.Command{
		Use:   "logs <run-id>",
		Short: "Show the recorded error output for a run, or one of its runners",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runID := args[0]

			store, err := runstore.Open(filepath.Join(globals.OutDir, "stratum.db"))
			if err != nil {
				return exitErr(1, fmt.Sprintf("stratum logs: %v", err))
			}
			defer store.Close()

			if runnerName == "" {
				run, err := store.GetRun(runID)
				if err != nil {
					return exitErr(1, fmt.Sprintf("stratum logs: %v", err))
				}
				if run.ErrorMessage == "" {
					fmt.Println("(no error recorded for this run)")
					return nil
				}
				fmt.Println(run.ErrorMessage)
				return nil
			}

			outcomes, err := store.GetOutcomes(runID)
			if err != nil {
				return exitErr(1, fmt.Sprintf("stratum logs: %v", err))
			}
			for _, o := range outcomes {
				if o.RunnerName != runnerName {
					continue
				}
				if o.ErrorMessage == "" {
					fmt.Println("(no error recorded for this runner)")
					return nil
				}
				fmt.Println(o.ErrorMessage)
				return nil
			}
			return exitErr(1, fmt.Sprintf("stratum logs: runner %q did not run in %s", runnerName, runID))
		},
	}

	cmd.Flags().StringVar(&runnerName, "runner", "", "Show one runner's recorded error instead of the run's own")
	return cmd
}
