package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratumlabs/stratum/internal/schema"
)

type fakeFlags struct {
	changed map[string]bool
	values  map[string]any
}

func (f *fakeFlags) Changed(name string) bool { return f.changed[name] }
func (f *fakeFlags) Value(name string) (any, bool) {
	v, ok := f.values[name]
	return v, ok
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func testSchema(t *testing.T, dir string) *schema.Document {
	t.Helper()
	p := writeFile(t, dir, "schema.yaml", `
properties:
  threads:
    type: integer
    default: 1
  label:
    type: string
    default: "unset"
`)
	doc, err := schema.Load(p)
	require.NoError(t, err)
	return doc
}

func TestLoadAppliesSchemaDefaultsWhenNoFileOrFlags(t *testing.T) {
	dir := t.TempDir()
	doc := testSchema(t, dir)

	cfg, errs, err := Load("", doc, nil)
	require.NoError(t, err)
	assert.Empty(t, errs)

	v, _ := cfg.Get("threads")
	assert.Equal(t, 1, v)
}

func TestLoadFileValueSurvivesWithoutFlagOverride(t *testing.T) {
	dir := t.TempDir()
	doc := testSchema(t, dir)
	cfgFile := writeFile(t, dir, "config.yaml", "threads: 8\n")

	flags := &fakeFlags{changed: map[string]bool{}, values: map[string]any{"threads": 99}}

	cfg, errs, err := Load(cfgFile, doc, flags)
	require.NoError(t, err)
	assert.Empty(t, errs)

	v, _ := cfg.Get("threads")
	assert.Equal(t, 8, v, "unsupplied flag must not override the config file value")
}

func TestLoadSuppliedFlagOverridesFile(t *testing.T) {
	dir := t.TempDir()
	doc := testSchema(t, dir)
	cfgFile := writeFile(t, dir, "config.yaml", "threads: 8\n")

	flags := &fakeFlags{
		changed: map[string]bool{"threads": true},
		values:  map[string]any{"threads": 16},
	}

	cfg, errs, err := Load(cfgFile, doc, flags)
	require.NoError(t, err)
	assert.Empty(t, errs)

	v, _ := cfg.Get("threads")
	assert.Equal(t, 16, v)
}

func TestParseMappingValidIdentifiers(t *testing.T) {
	out, err := ParseMapping([]string{"a=1 b=2"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, out)
}

func TestParseMappingRejectsInvalidIdentifier(t *testing.T) {
	_, err := ParseMapping([]string{"1bad=1"})
	assert.Error(t, err)
}

func TestParseMappingRejectsMissingEquals(t *testing.T) {
	_, err := ParseMapping([]string{"noequals"})
	assert.Error(t, err)
}
