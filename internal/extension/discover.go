package extension

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// entrypoint is one discovered extension source: its name, its source
// file, and an optional schema fragment to merge into the CLI's schema.
type entrypoint struct {
	Name       string
	SourcePath string
	SchemaPath string
}

// discover enumerates a modules directory: every
// top-level *.go file is its own extension; every immediate
// subdirectory contributes one extension via its entrypoint file
// (named <dir>.go) plus an optional schema.yaml alongside it. Entries
// are returned sorted by name for deterministic load order.
func discover(dir string) ([]entrypoint, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var found []entrypoint
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() {
			entryFile := filepath.Join(dir, name, name+".go")
			if _, err := os.Stat(entryFile); err != nil {
				continue
			}
			ep := entrypoint{Name: name, SourcePath: entryFile}
			schemaFile := filepath.Join(dir, name, "schema.yaml")
			if _, err := os.Stat(schemaFile); err == nil {
				ep.SchemaPath = schemaFile
			}
			found = append(found, ep)
			continue
		}
		if !strings.HasSuffix(name, ".go") {
			continue
		}
		found = append(found, entrypoint{
			Name:       strings.TrimSuffix(name, ".go"),
			SourcePath: filepath.Join(dir, name),
		})
	}

	sort.Slice(found, func(i, j int) bool { return found[i].Name < found[j].Name })
	return found, nil
}
