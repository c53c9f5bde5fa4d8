package commands

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/stratumlabs/stratum/internal/tui"
)

// NewModulesCmd builds the `stratum modules` command: browse the
// extensions discovered under the modules directory. On a terminal it
// launches the interactive selector, which previews each extension's
// hook/runner/mixin counts and composes a ready-to-paste `stratum run`
// command; with --plain (or no TTY) it prints a table instead.
func NewModulesCmd(globals *GlobalFlags) *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "modules [filter]",
		Short: "Browse extensions in the modules directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := ""
			if len(args) == 1 {
				filter = args[0]
			}

			if !plain && term.IsTerminal(int(os.Stdout.Fd())) {
				if _, err := tui.RunModuleSelector(globals.ModulesDir, filter); err != nil {
					if errors.Is(err, huh.ErrUserAborted) {
						return nil
					}
					return exitErr(1, fmt.Sprintf("stratum modules: %v", err))
				}
				return nil
			}

			infos, err := tui.DiscoverModules(globals.ModulesDir)
			if err != nil {
				return exitErr(1, fmt.Sprintf("stratum modules: %v", err))
			}

			printed := 0
			for _, m := range infos {
				if filter != "" && !strings.Contains(strings.ToLower(m.Name), strings.ToLower(filter)) {
					continue
				}
				if printed == 0 {
					fmt.Printf("%-20s %-6s %-8s %-7s %-7s %s\n", "NAME", "HOOKS", "RUNNERS", "MIXINS", "SCHEMA", "STATE")
				}
				state := "ok"
				if m.Broken {
					state = "broken"
				}
				schemaMark := "-"
				if m.HasSchema {
					schemaMark = "yes"
				}
				fmt.Printf("%-20s %-6d %-8d %-7d %-7s %s\n", m.Name, m.Hooks, m.Runners, m.Mixins, schemaMark, state)
				printed++
			}
			if printed == 0 {
				fmt.Println("no extensions found")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "Print a plain table instead of the interactive selector")
	return cmd
}
