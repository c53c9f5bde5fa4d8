package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/stratumlabs/stratum/internal/onboarding"
)

// NewInitCmd builds the `stratum init` command: a thin wrapper around
// the interactive onboarding wizard that discovers a modules directory,
// walks its merged schema with huh forms, and writes a starter config.
func NewInitCmd(globals *GlobalFlags) *cobra.Command {
	var reconfigure bool
	var yes bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Interactively generate a starter config for the current modules directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			stratumDir := filepath.Join(filepath.Dir(globals.OutDir), ".stratum")
			interactive := !yes && term.IsTerminal(int(os.Stdout.Fd()))

			outputPath := globals.ConfigPath
			if outputPath == "" {
				outputPath = "stratum.config.yaml"
			}

			result, err := onboarding.RunWizard(onboarding.WizardConfig{
				StratumDir:  stratumDir,
				Interactive: interactive,
				Reconfigure: reconfigure,
				ModulesDir:  globals.ModulesDir,
				BaseSchema:  globals.BaseSchema,
				OutputPath:  outputPath,
			})
			if err != nil {
				return exitErr(1, fmt.Sprintf("stratum init: %v", err))
			}

			if result.Reused {
				fmt.Printf("%s already onboarded for modules=%s, reusing %d values (pass --reconfigure to re-prompt)\n", result.ConfigPath, result.ModulesDir, len(result.Values))
				return nil
			}

			fmt.Printf("wrote %s (%d values, modules=%s)\n", result.ConfigPath, len(result.Values), result.ModulesDir)
			return nil
		},
	}

	cmd.Flags().BoolVar(&reconfigure, "reconfigure", false, "Re-run the wizard even if this directory was already onboarded")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Accept schema defaults without prompting (non-interactive)")
	return cmd
}
