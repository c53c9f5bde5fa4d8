package extension

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspectReportsCountsAndErrors(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.go"), []byte("not valid go"), 0o644))

	infos, err := Inspect(dir)
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "broken", infos[0].Name)
	assert.Error(t, infos[0].Err)
}

func TestInspectSkipsNonGoFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("hello"), 0o644))

	infos, err := Inspect(dir)
	require.NoError(t, err)
	assert.Empty(t, infos)
}
