package tui

import (
	"sort"

	"github.com/stratumlabs/stratum/internal/extension"
)

// ModuleInfo holds discoverable metadata about one extension, for
// `stratum`'s interactive module browser.
type ModuleInfo struct {
	Name      string
	Hooks     int
	Runners   int
	Mixins    int
	HasSchema bool
	Broken    bool
}

// DiscoverModules scans a modules directory and returns a
// display-ready, name-sorted summary of every extension found, for the
// picker a user sees before `stratum run` loads the directory for
// real. Extensions that fail to load are still listed, flagged Broken,
// since the loader swallows their errors at run time and an operator
// should still be able to see what's there.
func DiscoverModules(dir string) ([]ModuleInfo, error) {
	infos, err := extension.Inspect(dir)
	if err != nil {
		return nil, err
	}

	out := make([]ModuleInfo, 0, len(infos))
	for _, info := range infos {
		out = append(out, ModuleInfo{
			Name:      info.Name,
			Hooks:     info.Hooks,
			Runners:   info.Runners,
			Mixins:    info.Mixins,
			HasSchema: info.HasSchema,
			Broken:    info.Err != nil,
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
