// Package onboarding implements the interactive `stratum init` wizard:
// it discovers a modules directory, merges its schema fragments with
// any base schema, walks the resulting leaves with huh forms, and
// writes a starter YAML config.
package onboarding

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/stratumlabs/stratum/internal/extension"
	"github.com/stratumlabs/stratum/internal/schema"
)

// WizardConfig holds configuration for the onboarding wizard.
type WizardConfig struct {
	StratumDir  string // path to the .stratum state directory
	Interactive bool   // false when --yes or no TTY
	Reconfigure bool   // true when --reconfigure flag is set
	Existing    map[string]any
	ModulesDir  string // directory the wizard loads extensions from
	BaseSchema  string // optional path to a base schema.yaml, merged first
	OutputPath  string // path the resulting config is written to
}

// WizardResult holds the collected results from all wizard steps.
type WizardResult struct {
	ModulesDir string
	ConfigPath string         // where the (possibly reused) config lives
	Values     map[string]any // flattened "a.b.c" -> leaf value
	Reused     bool           // true when a prior onboarded config was returned unprompted
}

// StepResult holds the output of a single wizard step.
type StepResult struct {
	Skipped bool
	Data    map[string]interface{}
}

// WizardStep defines the interface for individual wizard steps.
type WizardStep interface {
	Name() string
	Run(cfg *WizardConfig) (*StepResult, error)
}

// RunWizard executes the onboarding wizard with all steps: locating the
// modules directory, merging its schema with the base schema, prompting
// for every leaf value, and writing the resulting config.
//
// A prior completed run against the same modules directory changes two
// things: without --reconfigure, the wizard short-circuits entirely and
// hands back the previously written config untouched; with
// --reconfigure, the previous config's values seed cfg.Existing so
// ConfigValuesStep pre-fills prior answers instead of bare schema
// defaults.
func RunWizard(cfg WizardConfig) (*WizardResult, error) {
	result := &WizardResult{
		Values: map[string]any{},
	}

	locateStep := &LocateModulesStep{}
	locateResult, err := locateStep.Run(&cfg)
	if err != nil {
		return nil, fmt.Errorf("locating modules: %w", err)
	}
	if v, ok := locateResult.Data["modules_dir"].(string); ok {
		result.ModulesDir = v
		cfg.ModulesDir = v
	}

	if prior, err := ReadState(cfg.StratumDir); err == nil && prior != nil &&
		prior.Completed && prior.ModulesDir == cfg.ModulesDir {
		if !cfg.Reconfigure {
			if values := loadPreviousValues(prior.ConfigPath); values != nil {
				result.Values = values
				result.ConfigPath = prior.ConfigPath
				result.Reused = true
				return result, nil
			}
		}
		if cfg.Existing == nil {
			cfg.Existing = loadPreviousValues(prior.ConfigPath)
		}
	}

	configStep := &ConfigValuesStep{}
	configResult, err := configStep.Run(&cfg)
	if err != nil {
		return nil, fmt.Errorf("collecting config values: %w", err)
	}
	if v, ok := configResult.Data["values"].(map[string]any); ok {
		result.Values = v
	}

	result.ConfigPath = cfg.OutputPath

	if err := writeConfig(cfg, result); err != nil {
		return nil, fmt.Errorf("failed to write config: %w", err)
	}

	if err := MarkOnboarded(cfg.StratumDir, cfg.ModulesDir, cfg.OutputPath); err != nil {
		return nil, fmt.Errorf("failed to mark onboarding complete: %w", err)
	}

	return result, nil
}

// writeConfig builds a nested map from the flattened leaf values and
// writes it as YAML to cfg.OutputPath.
func writeConfig(cfg WizardConfig, result *WizardResult) error {
	nested := map[string]any{}
	for path, value := range result.Values {
		setNested(nested, path, value)
	}

	data, err := yaml.Marshal(nested)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if dir := filepath.Dir(cfg.OutputPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	return os.WriteFile(cfg.OutputPath, data, 0644)
}

// setNested assigns value into nested at the "." separated path,
// creating intermediate maps as needed.
func setNested(nested map[string]any, path string, value any) {
	parts := splitPath(path)
	cur := nested
	for i, part := range parts {
		if i == len(parts)-1 {
			cur[part] = value
			return
		}
		next, ok := cur[part].(map[string]any)
		if !ok {
			next = map[string]any{}
			cur[part] = next
		}
		cur = next
	}
}

func splitPath(path string) []string {
	var parts []string
	start := 0
	for i := 0; i < len(path); i++ {
		if path[i] == '.' {
			parts = append(parts, path[start:i])
			start = i + 1
		}
	}
	parts = append(parts, path[start:])
	return parts
}

// loadMergedSchema discovers extensions under modulesDir and merges the
// base schema (if any) with every discovered extension's schema
// fragment, base first.
func loadMergedSchema(baseSchema, modulesDir string) (*schema.Document, error) {
	var doc *schema.Document
	var err error
	if baseSchema != "" {
		doc, err = schema.Load(baseSchema)
		if err != nil {
			return nil, err
		}
	} else {
		doc = schema.Empty()
	}

	if modulesDir == "" {
		return doc, nil
	}

	result, err := extension.Load(modulesDir)
	if err != nil {
		return doc, nil // swallow: init still writes whatever the base schema has
	}
	if len(result.SchemaPaths) > 0 {
		extDoc, err := schema.Load(result.SchemaPaths...)
		if err == nil {
			doc.MergeFragment(extDoc.Root().Raw())
		}
	}
	return doc, nil
}
