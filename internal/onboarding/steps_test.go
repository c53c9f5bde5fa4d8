package onboarding

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocateModulesStep(t *testing.T) {
	step := &LocateModulesStep{}
	assert.Equal(t, "Locate Modules", step.Name())

	cfg := &WizardConfig{Interactive: false}
	result, err := step.Run(cfg)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "./modules", result.Data["modules_dir"])
}

func TestLocateModulesStep_UsesConfiguredDir(t *testing.T) {
	step := &LocateModulesStep{}
	cfg := &WizardConfig{Interactive: false, ModulesDir: "./extensions"}

	result, err := step.Run(cfg)
	require.NoError(t, err)
	assert.Equal(t, "./extensions", result.Data["modules_dir"])
}

func TestConfigValuesStep_NoSchema(t *testing.T) {
	step := &ConfigValuesStep{}
	assert.Equal(t, "Configuration Values", step.Name())

	cfg := &WizardConfig{Interactive: false}
	result, err := step.Run(cfg)
	require.NoError(t, err)
	require.NotNil(t, result)

	values, ok := result.Data["values"].(map[string]any)
	require.True(t, ok)
	assert.Empty(t, values)
}

func TestConfigValuesStep_NonInteractiveUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "schema.yaml")
	require.NoError(t, os.WriteFile(schemaPath, []byte(`
properties:
  cache:
    properties:
      ttl_seconds:
        type: integer
        default: 3600
      dir:
        type: string
`), 0644))

	step := &ConfigValuesStep{}
	cfg := &WizardConfig{Interactive: false, BaseSchema: schemaPath}

	result, err := step.Run(cfg)
	require.NoError(t, err)

	values, ok := result.Data["values"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 3600, values["cache.ttl_seconds"])
	_, hasDir := values["cache.dir"]
	assert.False(t, hasDir, "leaf without a default is left unset in non-interactive mode")
}

func TestLoadMergedSchema_MissingModulesDirIsNotFatal(t *testing.T) {
	doc, err := loadMergedSchema("", "/nonexistent/modules/dir")
	require.NoError(t, err)
	assert.Empty(t, doc.Properties())
}
