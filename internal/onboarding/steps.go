package onboarding

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/stratumlabs/stratum/internal/schema"
	"github.com/stratumlabs/stratum/internal/tui"
)

// --- LocateModulesStep ---

// LocateModulesStep asks for (or confirms) the modules directory the
// new config will point at.
type LocateModulesStep struct{}

func (s *LocateModulesStep) Name() string { return "Locate Modules" }

func (s *LocateModulesStep) Run(cfg *WizardConfig) (*StepResult, error) {
	dir := cfg.ModulesDir
	if dir == "" {
		dir = "./modules"
	}

	if cfg.Interactive {
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Modules directory").
					Description("Directory of extension source files to load.").
					Value(&dir).
					Placeholder("./modules"),
			).Title("Step 1 of 2 — Locate Modules"),
		).WithTheme(tui.StratumTheme())

		if err := form.Run(); err != nil {
			if err == huh.ErrUserAborted {
				return nil, fmt.Errorf("wizard cancelled by user")
			}
			return nil, err
		}
	}

	if dir == "" {
		dir = "./modules"
	}

	return &StepResult{
		Data: map[string]interface{}{
			"modules_dir": dir,
		},
	}, nil
}

// --- ConfigValuesStep ---

// ConfigValuesStep merges the base schema with every schema fragment
// discovered under the modules directory, then walks every leaf and
// prompts for a value. A leaf is pre-filled with cfg.Existing's value
// for its path when present (a --reconfigure run reusing prior
// answers), falling back to the leaf's declared schema default.
type ConfigValuesStep struct{}

func (s *ConfigValuesStep) Name() string { return "Configuration Values" }

func (s *ConfigValuesStep) Run(cfg *WizardConfig) (*StepResult, error) {
	doc, err := loadMergedSchema(cfg.BaseSchema, cfg.ModulesDir)
	if err != nil {
		return nil, err
	}

	leaves := doc.Properties()
	values := map[string]any{}

	effectiveDefault := func(leaf schema.Leaf) any {
		if cfg.Existing != nil {
			if v, ok := cfg.Existing[strings.Join(leaf.Path, ".")]; ok {
				return v
			}
		}
		return leaf.Default
	}

	if !cfg.Interactive {
		for _, leaf := range leaves {
			if v := effectiveDefault(leaf); v != nil {
				values[strings.Join(leaf.Path, ".")] = v
			}
		}
		return &StepResult{Data: map[string]interface{}{"values": values}}, nil
	}

	if len(leaves) == 0 {
		return &StepResult{Data: map[string]interface{}{"values": values}}, nil
	}

	fmt.Fprintf(os.Stderr, "\n  Step 2 of 2 — Configuration Values\n\n")

	for _, leaf := range leaves {
		leaf.Default = effectiveDefault(leaf)
		value, err := promptLeaf(leaf)
		if err != nil {
			return nil, err
		}
		if value != nil {
			values[strings.Join(leaf.Path, ".")] = value
		}
	}

	return &StepResult{Data: map[string]interface{}{"values": values}}, nil
}

// promptLeaf asks the user for one leaf's value, choosing a huh field
// appropriate to the leaf's declared type.
func promptLeaf(leaf schema.Leaf) (any, error) {
	title := strings.Join(leaf.Path, ".")
	if leaf.Secret {
		title += " (secret)"
	}

	switch leaf.Type {
	case schema.TypeBool:
		value, _ := leaf.Default.(bool)
		field := huh.NewConfirm().
			Title(title).
			Description(leaf.Description).
			Value(&value)
		if err := runField(field); err != nil {
			return nil, err
		}
		return value, nil

	case schema.TypeEnum:
		value := fmt.Sprintf("%v", leaf.Default)
		options := make([]huh.Option[string], len(leaf.Enum))
		for i, opt := range leaf.Enum {
			options[i] = huh.NewOption(opt, opt)
		}
		field := huh.NewSelect[string]().
			Title(title).
			Description(leaf.Description).
			Options(options...).
			Value(&value)
		if err := runField(field); err != nil {
			return nil, err
		}
		return value, nil

	case schema.TypeInteger, schema.TypeNumber:
		raw := ""
		if leaf.Default != nil {
			raw = fmt.Sprintf("%v", leaf.Default)
		}
		field := huh.NewInput().
			Title(title).
			Description(leaf.Description).
			Value(&raw)
		if leaf.Secret {
			field = field.EchoMode(huh.EchoModePassword)
		}
		if err := runField(field); err != nil {
			return nil, err
		}
		if raw == "" {
			return leaf.Default, nil
		}
		if leaf.Type == schema.TypeInteger {
			n, err := strconv.Atoi(raw)
			if err != nil {
				return nil, fmt.Errorf("%s: expected an integer, got %q", title, raw)
			}
			return n, nil
		}
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: expected a number, got %q", title, raw)
		}
		return n, nil

	default: // string, path, array, mapping: free text, stored verbatim
		raw := ""
		if leaf.Default != nil {
			raw = fmt.Sprintf("%v", leaf.Default)
		}
		field := huh.NewInput().
			Title(title).
			Description(leaf.Description).
			Value(&raw)
		if leaf.Secret {
			field = field.EchoMode(huh.EchoModePassword)
		}
		if err := runField(field); err != nil {
			return nil, err
		}
		if raw == "" {
			return leaf.Default, nil
		}
		return raw, nil
	}
}

// runField wraps a single huh field in its own form and runs it,
// translating a user abort into a wizard-cancellation error.
func runField(field huh.Field) error {
	form := huh.NewForm(huh.NewGroup(field)).WithTheme(tui.StratumTheme())
	if err := form.Run(); err != nil {
		if err == huh.ErrUserAborted {
			return fmt.Errorf("wizard cancelled by user")
		}
		return err
	}
	return nil
}
