package onboarding

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const wizardSchemaYAML = `
properties:
  runner:
    properties:
      timeout_seconds:
        type: integer
        default: 30
      parallel:
        type: bool
        default: true
      name:
        type: string
        default: default-runner
`

func TestRunWizard_NonInteractive(t *testing.T) {
	dir := t.TempDir()
	stratumDir := filepath.Join(dir, ".stratum")
	outputPath := filepath.Join(dir, "stratum.yaml")
	schemaPath := filepath.Join(dir, "schema.yaml")
	require.NoError(t, os.WriteFile(schemaPath, []byte(wizardSchemaYAML), 0644))

	cfg := WizardConfig{
		StratumDir:  stratumDir,
		Interactive: false,
		BaseSchema:  schemaPath,
		OutputPath:  outputPath,
	}

	result, err := RunWizard(cfg)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, 30, result.Values["runner.timeout_seconds"])
	assert.Equal(t, true, result.Values["runner.parallel"])
	assert.Equal(t, "default-runner", result.Values["runner.name"])

	data, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	assert.NotEmpty(t, data)

	var m map[string]interface{}
	require.NoError(t, yaml.Unmarshal(data, &m))

	runner, ok := m["runner"].(map[string]interface{})
	require.True(t, ok, "config must contain a nested runner section")
	assert.Equal(t, 30, runner["timeout_seconds"])
	assert.Equal(t, "default-runner", runner["name"])

	assert.True(t, IsOnboarded(stratumDir, result.ModulesDir))
}

func TestRunWizard_MarksOnboarded(t *testing.T) {
	dir := t.TempDir()
	stratumDir := filepath.Join(dir, ".stratum")
	outputPath := filepath.Join(dir, "stratum.yaml")

	assert.False(t, IsOnboarded(stratumDir, "./modules"))

	cfg := WizardConfig{
		StratumDir:  stratumDir,
		Interactive: false,
		OutputPath:  outputPath,
	}

	result, err := RunWizard(cfg)
	require.NoError(t, err)

	assert.True(t, IsOnboarded(stratumDir, result.ModulesDir))
}

func TestRunWizard_ReconfigureReusesPriorAnswersByDefault(t *testing.T) {
	dir := t.TempDir()
	stratumDir := filepath.Join(dir, ".stratum")
	outputPath := filepath.Join(dir, "stratum.yaml")
	schemaPath := filepath.Join(dir, "schema.yaml")
	require.NoError(t, os.WriteFile(schemaPath, []byte(wizardSchemaYAML), 0644))

	cfg := WizardConfig{
		StratumDir:  stratumDir,
		Interactive: false,
		BaseSchema:  schemaPath,
		OutputPath:  outputPath,
	}

	first, err := RunWizard(cfg)
	require.NoError(t, err)
	require.False(t, first.Reused)

	// Hand-edit the written config so a later run without --reconfigure
	// can prove it reused this value rather than re-deriving the schema
	// default.
	data, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, yaml.Unmarshal(data, &m))
	runner := m["runner"].(map[string]any)
	runner["name"] = "hand-edited-runner"
	edited, err := yaml.Marshal(m)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(outputPath, edited, 0644))

	second, err := RunWizard(cfg)
	require.NoError(t, err)
	assert.True(t, second.Reused)
	assert.Equal(t, "hand-edited-runner", second.Values["runner.name"])

	cfg.Reconfigure = true
	third, err := RunWizard(cfg)
	require.NoError(t, err)
	assert.False(t, third.Reused)
	assert.Equal(t, "hand-edited-runner", third.Values["runner.name"])
}

func TestRunWizard_DefaultsModulesDir(t *testing.T) {
	dir := t.TempDir()
	cfg := WizardConfig{
		StratumDir:  filepath.Join(dir, ".stratum"),
		Interactive: false,
		OutputPath:  filepath.Join(dir, "stratum.yaml"),
	}

	result, err := RunWizard(cfg)
	require.NoError(t, err)
	assert.Equal(t, "./modules", result.ModulesDir)
}

func TestSetNested(t *testing.T) {
	nested := map[string]any{}
	setNested(nested, "runner.timeout_seconds", 30)
	setNested(nested, "runner.name", "fetcher")
	setNested(nested, "cache.dir", "/tmp/cache")

	runner, ok := nested["runner"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 30, runner["timeout_seconds"])
	assert.Equal(t, "fetcher", runner["name"])

	cache, ok := nested["cache"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "/tmp/cache", cache["dir"])
}
