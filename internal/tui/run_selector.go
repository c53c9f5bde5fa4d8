package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Selection holds the result of the interactive run selection: which
// module to run and which samples file to run it over.
type Selection struct {
	Module      string
	SamplesFile string
	Flags       []string
}

// Flag represents a toggleable CLI flag shown in the TUI.
type Flag struct {
	Name        string
	Description string
}

// DefaultFlags returns the flags presented in the interactive selector.
func DefaultFlags() []Flag {
	return []Flag{
		{Name: "--tui", Description: "Live hook/runner progress dashboard"},
		{Name: "--no-cache", Description: "Ignore the run cache"},
		{Name: "--debug", Description: "Debug logging"},
	}
}

// RunModuleSelector launches the interactive TUI for picking a module
// to run: it previews every extension discovered under modulesRoot,
// prompts for a samples file and flags, and composes the matching
// `stratum run` command. preFilter narrows the initial list (e.g. from
// a partial name argument).
func RunModuleSelector(modulesRoot, preFilter string) (*Selection, error) {
	modules, err := DiscoverModules(modulesRoot)
	if err != nil {
		return nil, fmt.Errorf("discovering modules: %w", err)
	}
	if len(modules) == 0 {
		return nil, fmt.Errorf("no modules found in %s", modulesRoot)
	}

	if preFilter != "" {
		modules = filterModules(modules, preFilter)
		if len(modules) == 0 {
			return nil, fmt.Errorf("no modules match %q", preFilter)
		}
		if len(modules) == 1 {
			fmt.Println(StratumLogo())
			return runSamplesAndFlags(modules[0])
		}
	}

	fmt.Println(StratumLogo())

	var selectedModule string
	var samplesFile string
	var selectedFlags []string

	options := buildModuleOptions(modules)
	flags := DefaultFlags()
	flagOptions := buildFlagOptions(flags)

	selectField := huh.NewSelect[string]().
		Title("Select module").
		Options(options...).
		Height(8).
		Value(&selectedModule)

	samplesField := huh.NewInput().
		Title("Samples file").
		Value(&samplesFile)

	multiSelect := huh.NewMultiSelect[string]().
		Title("Options").
		Options(flagOptions...).
		Value(&selectedFlags)

	form := huh.NewForm(
		huh.NewGroup(selectField, samplesField, multiSelect),
	).WithTheme(StratumTheme())

	if err := form.Run(); err != nil {
		return nil, err
	}

	return confirmAndReturn(selectedModule, samplesFile, selectedFlags)
}

// runSamplesAndFlags runs the samples-file prompt, flag selection, and
// confirmation when the module is already known (auto-selected via
// preFilter).
func runSamplesAndFlags(selected ModuleInfo) (*Selection, error) {
	var samplesFile string
	var selectedFlags []string

	flags := DefaultFlags()
	flagOptions := buildFlagOptions(flags)

	moduleLabel := lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Render("Module:")
	moduleName := lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true).Render(selected.Name)
	fmt.Printf("  %s %s\n\n", moduleLabel, moduleName)

	samplesField := huh.NewInput().
		Title("Samples file").
		Value(&samplesFile)

	multiSelect := huh.NewMultiSelect[string]().
		Title("Options").
		Options(flagOptions...).
		Value(&selectedFlags)

	form := huh.NewForm(
		huh.NewGroup(samplesField, multiSelect),
	).WithTheme(StratumTheme())

	if err := form.Run(); err != nil {
		return nil, err
	}

	return confirmAndReturn(selected.Name, samplesFile, selectedFlags)
}

// confirmAndReturn shows the composed command, asks for confirmation, and returns the selection.
func confirmAndReturn(module, samplesFile string, selectedFlags []string) (*Selection, error) {
	var confirmed bool
	cmdStr := ComposeCommand(module, samplesFile, selectedFlags)

	confirm := huh.NewConfirm().
		Title(cmdStr).
		Description("Run this command?").
		Affirmative("Run").
		Negative("Cancel").
		Value(&confirmed)

	confirmForm := huh.NewForm(huh.NewGroup(confirm)).
		WithTheme(StratumTheme())

	if err := confirmForm.Run(); err != nil {
		return nil, err
	}

	if !confirmed {
		return nil, huh.ErrUserAborted
	}

	cmdStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Render("$")
	cmdText := lipgloss.NewStyle().Foreground(lipgloss.Color("7")).Render(cmdStr)
	fmt.Printf("  %s %s\n\n", cmdStyle, cmdText)

	return &Selection{
		Module:      module,
		SamplesFile: samplesFile,
		Flags:       selectedFlags,
	}, nil
}

// buildModuleOptions creates huh options from module info.
func buildModuleOptions(modules []ModuleInfo) []huh.Option[string] {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	options := make([]huh.Option[string], len(modules))
	for i, m := range modules {
		label := m.Name
		summary := fmt.Sprintf("%d hooks, %d runners", m.Hooks, m.Runners)
		if m.Broken {
			summary = "broken"
		}
		label = fmt.Sprintf("%-20s %s", m.Name, dimStyle.Render(summary))
		options[i] = huh.NewOption(label, m.Name)
	}
	return options
}

// buildFlagOptions creates huh options from flags.
func buildFlagOptions(flags []Flag) []huh.Option[string] {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	options := make([]huh.Option[string], len(flags))
	for i, f := range flags {
		label := fmt.Sprintf("%-16s %s", f.Name, dimStyle.Render(f.Description))
		options[i] = huh.NewOption(label, f.Name)
	}
	return options
}

// filterModules returns modules whose names contain the filter string (case-insensitive).
func filterModules(modules []ModuleInfo, filter string) []ModuleInfo {
	filter = strings.ToLower(filter)
	var matched []ModuleInfo
	for _, m := range modules {
		if strings.Contains(strings.ToLower(m.Name), filter) {
			matched = append(matched, m)
		}
	}
	return matched
}

// ComposeCommand builds the command string shown in the confirmation step.
func ComposeCommand(module, samplesFile string, flags []string) string {
	parts := []string{"stratum run", "--modules", module}
	if samplesFile != "" {
		parts = append(parts, "--samples", samplesFile)
	}
	parts = append(parts, flags...)
	return strings.Join(parts, " ")
}
