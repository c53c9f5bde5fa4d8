// Command stratum is the CLI entrypoint for the Stratum pipeline
// orchestrator: it binds the merged schema to flags, loads the
// effective config, and drives the core (loader, hook scheduler,
// supervisor, aggregator).
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stratumlabs/stratum/cmd/stratum/commands"
	"github.com/stratumlabs/stratum/internal/supervisor"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// The hidden "__run-extension" subcommand is the process-isolated
	// runner child: it is only ever re-exec'd by ProcessExecutor, never
	// typed by a user, so it bypasses cobra entirely and exits with the
	// child's own status code.
	if len(os.Args) >= 2 && os.Args[1] == "__run-extension" {
		if len(os.Args) != 4 {
			fmt.Fprintln(os.Stderr, "stratum: __run-extension requires <job-path> <result-path>")
			os.Exit(1)
		}
		os.Exit(supervisor.RunExtension(os.Args[2], os.Args[3]))
	}

	globals := commands.PreParseGlobals(os.Args[1:])
	doc, _, err := commands.LoadSchema(globals)
	if err != nil {
		fmt.Fprintf(os.Stderr, "stratum: %v\n", err)
		os.Exit(1)
	}

	root := &cobra.Command{
		Use:     "stratum",
		Short:   "Stratum modular sample-pipeline orchestrator",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	}
	root.SetVersionTemplate("stratum version {{.Version}}\n")
	// Flags and arguments have parsed by the time this runs, so an error
	// returned from RunE (e.g. an ExitError) no longer prints usage text.
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		cmd.SilenceUsage = true
	}

	root.PersistentFlags().StringVarP(&globals.ModulesDir, "modules", "m", globals.ModulesDir, "Directory of extension source files to load")
	root.PersistentFlags().StringVarP(&globals.SamplesFile, "samples", "s", globals.SamplesFile, "Path to the samples YAML file")
	root.PersistentFlags().StringVarP(&globals.ConfigPath, "config", "c", globals.ConfigPath, "Path to a config YAML file")
	root.PersistentFlags().StringVar(&globals.BaseSchema, "schema", globals.BaseSchema, "Path to a base schema YAML fragment")
	root.PersistentFlags().StringVarP(&globals.OutDir, "outdir", "o", globals.OutDir, "Directory for run cache and artifacts")
	root.PersistentFlags().StringVar(&globals.CacheDir, "cache-dir", globals.CacheDir, "Run cache directory (defaults to outdir)")
	root.PersistentFlags().IntVar(&globals.Concurrency, "concurrency", globals.Concurrency, "Max concurrent runner instances (0 = unbounded)")
	root.PersistentFlags().BoolVar(&globals.Debug, "debug", globals.Debug, "Enable debug logging")
	root.PersistentFlags().BoolVar(&globals.NoCache, "no-cache", globals.NoCache, "Bypass the run cache")
	root.PersistentFlags().BoolVar(&globals.TUI, "tui", globals.TUI, "Render a live hook/runner progress dashboard")

	root.AddCommand(commands.NewRunCmd(&globals, doc))
	root.AddCommand(commands.NewValidateCmd(&globals, doc))
	root.AddCommand(commands.NewInitCmd(&globals))
	root.AddCommand(commands.NewListCmd(&globals))
	root.AddCommand(commands.NewModulesCmd(&globals))
	root.AddCommand(commands.NewStatusCmd(&globals))
	root.AddCommand(commands.NewLogsCmd(&globals))
	root.AddCommand(commands.NewCleanCmd(&globals))

	if err := root.Execute(); err != nil {
		var exit *commands.ExitError
		if errors.As(err, &exit) {
			os.Exit(exit.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
