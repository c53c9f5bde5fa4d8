package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stratumlabs/stratum/internal/config"
	"github.com/stratumlabs/stratum/internal/extension"
	"github.com/stratumlabs/stratum/internal/sample"
	"github.com/stratumlabs/stratum/internal/schema"
)

// NewValidateCmd builds the `stratum validate` command: load the
// samples file, extensions, and config exactly as `run` would, but stop
// short of executing any hook or runner, reporting every schema
// violation instead of just the first.
func NewValidateCmd(globals *GlobalFlags, doc *schema.Document) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the samples file, modules, and config without running the pipeline",
	}
	flagSource := BindSchemaFlags(cmd.Flags(), doc)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runValidate(*globals, doc, flagSource)
	}
	return cmd
}

func runValidate(g GlobalFlags, doc *schema.Document, flags config.FlagSource) error {
	ok := true

	if g.SamplesFile != "" {
		samples, err := sample.FromFile(g.SamplesFile)
		if err != nil {
			fmt.Printf("samples: %v\n", err)
			ok = false
		} else {
			invalid := samples.Validate()
			for _, s := range invalid {
				fmt.Printf("samples: invalid sample %q (missing id or files)\n", s.ID)
				ok = false
			}
			fmt.Printf("samples: %d valid, %d invalid\n", len(samples), len(invalid))
		}
	}

	loaded, err := extension.Load(g.ModulesDir)
	if err != nil {
		fmt.Printf("modules: %v\n", err)
		ok = false
	} else {
		for _, lerr := range loaded.Errors {
			fmt.Printf("modules: %v\n", lerr)
			ok = false
		}
		fmt.Printf("modules: %d hooks, %d runners, %d mixins loaded\n",
			len(loaded.Module.Hooks.Descriptors()), len(loaded.Module.Runners.Descriptors()), loaded.Module.Mixins.Count())
	}

	_, verrs, err := config.Load(g.ConfigPath, doc, flags)
	if err != nil {
		fmt.Printf("config: %v\n", err)
		ok = false
	} else {
		for _, e := range verrs {
			fmt.Printf("config: %v\n", e)
			ok = false
		}
		if len(verrs) == 0 {
			fmt.Println("config: valid")
		}
	}

	if !ok {
		return exitErr(1, "stratum validate: one or more checks failed")
	}
	return nil
}
