package tui

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validExtensionSource = `package checker

import "github.com/stratumlabs/stratum/internal/extension"

func Register(m *extension.Module) {}
`

func TestDiscoverModulesListsAndSorts(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "zeta.go"), []byte(validExtensionSource), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "alpha.go"), []byte(validExtensionSource), 0o644))

	got, err := DiscoverModules(dir)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "alpha", got[0].Name)
	assert.Equal(t, "zeta", got[1].Name)
	assert.False(t, got[0].Broken)
}

func TestDiscoverModulesFlagsBrokenExtensions(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.go"), []byte("not valid go"), 0o644))

	got, err := DiscoverModules(dir)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].Broken)
}

func TestDiscoverModulesEmptyDirectory(t *testing.T) {
	got, err := DiscoverModules(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDiscoverModulesNonexistentDir(t *testing.T) {
	_, err := DiscoverModules("/nonexistent/path")
	assert.Error(t, err)
}
