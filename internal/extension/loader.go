package extension

import (
	"fmt"
	"log"
	"os"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
)

// LoadError records a single extension's failure to load. A
// syntactically broken module is skipped with a debug log and does not
// abort the rest of the load.
type LoadError struct {
	Extension string
	Err       error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("extension %s: %v", e.Extension, e.Err)
}

// Result is everything the loader collected from a modules directory:
// the fused Module and every extension's schema fragment path, in load
// order.
type Result struct {
	Module      *Module
	SchemaPaths []string
	Errors      []LoadError
}

// Load enumerates dir per discover, and loads each entrypoint in
// isolation: a fresh interpreter per extension, the standard library
// plus the authoring-API symbols exposed, and stdlib log output
// snapshotted around the eval so a misbehaving extension's logging
// setup can't leak into the host. Import/compile failures are swallowed: they
// are recorded in Result.Errors and logged at debug level, but loading
// continues with the remaining extensions.
func Load(dir string) (*Result, error) {
	entrypoints, err := discover(dir)
	if err != nil {
		return nil, fmt.Errorf("extension: discovering %s: %w", dir, err)
	}

	result := &Result{Module: NewModule()}
	for _, ep := range entrypoints {
		runnersBefore := len(result.Module.Runners.Descriptors())
		if err := loadOne(ep, result.Module); err != nil {
			result.Errors = append(result.Errors, LoadError{Extension: ep.Name, Err: err})
			log.Printf("debug: extension %s failed to load: %v", ep.Name, err)
			continue
		}
		result.Module.Runners.StampSourcePath(runnersBefore, ep.SourcePath)
		if ep.SchemaPath != "" {
			result.SchemaPaths = append(result.SchemaPaths, ep.SchemaPath)
		}
	}
	return result, nil
}

// LoadFile loads exactly one extension source file into module, the
// same way Load does for each entrypoint it discovers. The supervisor's
// process-isolated runner child (cmd/stratum's hidden __run-extension
// subcommand) uses this to re-load a single runner's extension inside a
// fresh OS process.
func LoadFile(path string, module *Module) error {
	runnersBefore := len(module.Runners.Descriptors())
	if err := loadOne(entrypoint{Name: packageNameOfFile(path), SourcePath: path}, module); err != nil {
		return err
	}
	module.Runners.StampSourcePath(runnersBefore, path)
	return nil
}

func packageNameOfFile(path string) string {
	source, err := os.ReadFile(path)
	if err != nil {
		return "main"
	}
	return packageNameOf(string(source))
}

func loadOne(ep entrypoint, module *Module) error {
	restore := snapshotLogOutput()
	defer restore()

	source, err := os.ReadFile(ep.SourcePath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", ep.SourcePath, err)
	}

	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return fmt.Errorf("loading stdlib symbols: %w", err)
	}
	if err := i.Use(symbols); err != nil {
		return fmt.Errorf("loading authoring symbols: %w", err)
	}

	if _, err := i.Eval(string(source)); err != nil {
		return fmt.Errorf("evaluating %s: %w", ep.SourcePath, err)
	}

	v, err := i.Eval(fmt.Sprintf("%s.Register", packageNameOf(string(source))))
	if err != nil {
		return fmt.Errorf("no Register function: %w", err)
	}

	register, ok := v.Interface().(func(*Module))
	if !ok {
		return fmt.Errorf("Register has wrong signature, expected func(*extension.Module)")
	}

	register(module)
	return nil
}

// snapshotLogOutput records the standard logger's current output and
// returns a restore func, so an extension that redirects log output
// during its package-level init cannot leave the host's log stream
// pointed somewhere else.
func snapshotLogOutput() func() {
	previous := log.Writer()
	return func() { log.SetOutput(previous) }
}
