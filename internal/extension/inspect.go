package extension

// Info is discoverable metadata about one extension, used by the CLI's
// interactive module browser and the init wizard to preview what a
// modules directory contributes before a run starts.
type Info struct {
	Name       string
	SourcePath string
	HasSchema  bool
	Hooks      int
	Runners    int
	Mixins     int
	Err        error
}

// Inspect enumerates dir like Load does, but loads each entrypoint into
// its own fresh Module so the per-extension hook/runner/mixin counts
// don't get fused together, and reports (rather than swallows) load
// errors so a browsing UI can surface them.
func Inspect(dir string) ([]Info, error) {
	entrypoints, err := discover(dir)
	if err != nil {
		return nil, err
	}

	out := make([]Info, 0, len(entrypoints))
	for _, ep := range entrypoints {
		info := Info{Name: ep.Name, SourcePath: ep.SourcePath, HasSchema: ep.SchemaPath != ""}
		module := NewModule()
		if err := loadOne(ep, module); err != nil {
			info.Err = err
			out = append(out, info)
			continue
		}
		info.Hooks = len(module.Hooks.Descriptors())
		info.Runners = len(module.Runners.Descriptors())
		info.Mixins = module.Mixins.Count()
		out = append(out, info)
	}
	return out, nil
}
