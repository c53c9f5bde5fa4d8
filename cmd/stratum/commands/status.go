package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/stratumlabs/stratum/internal/pathfmt"
	"github.com/stratumlabs/stratum/internal/runstore"
)

// NewStatusCmd builds the `stratum status` command: reports one run's
// record plus every runner's outcome within it.
func NewStatusCmd(globals *GlobalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status <run-id>",
		Short: "Show a single run's record and per-runner outcomes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runID := args[0]

			store, err := runstore.Open(filepath.Join(globals.OutDir, "stratum.db"))
			if err != nil {
				return exitErr(1, fmt.Sprintf("stratum status: %v", err))
			}
			defer store.Close()

			run, err := store.GetRun(runID)
			if err != nil {
				return exitErr(1, fmt.Sprintf("stratum status: %v", err))
			}

			fmt.Printf("run:      %s\n", run.RunID)
			fmt.Printf("status:   %s\n", run.Status)
			fmt.Printf("modules:  %s\n", run.ModulesDir)
			fmt.Printf("samples:  %s\n", run.SamplesFile)
			fmt.Printf("started:  %s\n", run.StartedAt)
			if run.CompletedAt != nil {
				fmt.Printf("finished: %s\n", *run.CompletedAt)
			}
			if run.ErrorMessage != "" {
				fmt.Printf("error:    %s\n", run.ErrorMessage)
			}

			outcomes, err := store.GetOutcomes(runID)
			if err != nil {
				return exitErr(1, fmt.Sprintf("stratum status: %v", err))
			}
			if len(outcomes) == 0 {
				return nil
			}

			fmt.Printf("\n%-24s %-8s %-8s %s\n", "RUNNER", "SAMPLES", "DONE", "STATE")
			for _, o := range outcomes {
				state := "ok"
				if o.Crashed {
					state = "crashed"
				} else if o.Cached {
					state = "cached"
				}
				fmt.Printf("%-24s %-8d %-8d %s\n", o.RunnerName, o.SampleCount, o.DoneCount, state)
				if o.Fingerprint != "" {
					fmt.Printf("  %s\n", pathfmt.RunnerOutputURI(globals.OutDir, o.RunnerName, o.Fingerprint, ""))
				}
			}
			return nil
		},
	}
	return cmd
}
