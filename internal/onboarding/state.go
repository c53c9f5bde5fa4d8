package onboarding

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// State is the wizard's own persisted record: not just "has init ever
// run here" but which modules directory and config file it last wrote.
// That lets RunWizard tell a repeat run against the same modules
// directory (reuse prior answers, skip prompting unless --reconfigure)
// apart from a run against a different one (the prior record doesn't
// apply; prompt fresh regardless of --reconfigure).
type State struct {
	Completed   bool      `json:"completed"`
	CompletedAt time.Time `json:"completed_at"`
	Version     int       `json:"version"`
	ModulesDir  string    `json:"modules_dir"`
	ConfigPath  string    `json:"config_path"`
}

// stateFile returns the path to the onboarding state file.
func stateFile(stratumDir string) string {
	return filepath.Join(stratumDir, ".onboarded")
}

// IsOnboarded reports whether stratumDir carries a completed wizard
// record for modulesDir specifically. A record left behind by an
// onboarding run against a different modules directory doesn't count:
// that directory's schema leaves (and so its prior answers) may not
// even exist here.
func IsOnboarded(stratumDir, modulesDir string) bool {
	state, err := ReadState(stratumDir)
	if err != nil || state == nil {
		return false
	}
	return state.Completed && state.ModulesDir == modulesDir
}

// MarkOnboarded writes the onboarding state file to stratumDir,
// recording that the wizard completed against modulesDir and wrote its
// result to configPath. The parent directory is created if needed.
func MarkOnboarded(stratumDir, modulesDir, configPath string) error {
	if err := os.MkdirAll(stratumDir, 0755); err != nil {
		return err
	}

	state := State{
		Completed:   true,
		CompletedAt: time.Now(),
		Version:     1,
		ModulesDir:  modulesDir,
		ConfigPath:  configPath,
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(stateFile(stratumDir), data, 0644)
}

// ClearOnboarding removes the onboarding state file from stratumDir.
// If the file does not exist, nil is returned.
func ClearOnboarding(stratumDir string) error {
	err := os.Remove(stateFile(stratumDir))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// ReadState reads and parses the onboarding state file from stratumDir.
// If the file does not exist, it returns (nil, nil).
func ReadState(stratumDir string) (*State, error) {
	data, err := os.ReadFile(stateFile(stratumDir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}

	return &state, nil
}

// loadPreviousValues reads a previously written config file and
// flattens it back into the "a.b.c" -> value shape ConfigValuesStep
// produces, so a --reconfigure run can pre-fill the wizard with prior
// answers instead of falling back to schema defaults. A missing or
// unreadable file yields a nil map, which callers treat the same as
// "no prior answers".
func loadPreviousValues(configPath string) map[string]any {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil
	}

	var nested map[string]any
	if err := yaml.Unmarshal(data, &nested); err != nil {
		return nil
	}

	values := map[string]any{}
	flattenValues("", nested, values)
	return values
}

// flattenValues is setNested's inverse: it walks a nested map and
// writes every leaf into dst keyed by its dotted path.
func flattenValues(prefix string, nested map[string]any, dst map[string]any) {
	for key, value := range nested {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		if child, ok := value.(map[string]any); ok {
			flattenValues(path, child, dst)
			continue
		}
		dst[path] = value
	}
}
