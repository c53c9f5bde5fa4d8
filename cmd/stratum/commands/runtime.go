// Package commands implements the stratum CLI's subcommands: binding
// the merged schema to flags, loading config, and invoking the core
// orchestrator.
package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/stratumlabs/stratum/internal/config"
	"github.com/stratumlabs/stratum/internal/extension"
	"github.com/stratumlabs/stratum/internal/schema"
)

// GlobalFlags are the well-known flags every pipeline-running subcommand
// shares, resolved eagerly, before the schema-derived flags can even be
// computed.
type GlobalFlags struct {
	ModulesDir  string
	SamplesFile string
	ConfigPath  string
	BaseSchema  string
	OutDir      string
	CacheDir    string
	Concurrency int
	Debug       bool
	NoCache     bool
	TUI         bool
}

// PreParseGlobals scans argv for the handful of flags the schema build
// needs before the rest of the command tree even exists, tolerating
// unknown flags and parse errors (they belong to whichever subcommand
// cobra eventually dispatches to). The modules directory and config
// file must be known before the per-leaf flags can be generated.
func PreParseGlobals(args []string) GlobalFlags {
	fs := pflag.NewFlagSet("preparse", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.Usage = func() {}

	var g GlobalFlags
	fs.StringVarP(&g.ModulesDir, "modules", "m", "./modules", "")
	fs.StringVarP(&g.SamplesFile, "samples", "s", "", "")
	fs.StringVarP(&g.ConfigPath, "config", "c", "", "")
	fs.StringVar(&g.BaseSchema, "schema", "", "")
	fs.StringVarP(&g.OutDir, "outdir", "o", "./out", "")
	fs.StringVar(&g.CacheDir, "cache-dir", "", "")
	fs.IntVar(&g.Concurrency, "concurrency", 0, "")
	fs.BoolVar(&g.Debug, "debug", false, "")
	fs.BoolVar(&g.NoCache, "no-cache", false, "")
	fs.BoolVar(&g.TUI, "tui", false, "")

	_ = fs.Parse(args)
	if g.CacheDir == "" {
		g.CacheDir = g.OutDir
	}
	return g
}

// LoadSchema builds the merged schema document: base schema first, then
// every per-module schema.yaml found
// alongside an extension. A modules directory that cannot be read is
// not fatal: the merged doc stays base-only. A base or extension schema
// file that fails to load is returned as an error, since the CLI then
// cannot describe its own flags.
func LoadSchema(g GlobalFlags) (*schema.Document, *extension.Result, error) {
	var doc *schema.Document
	if g.BaseSchema != "" {
		loaded, err := schema.Load(g.BaseSchema)
		if err != nil {
			return nil, nil, fmt.Errorf("loading base schema: %w", err)
		}
		doc = loaded
	} else {
		doc = schema.Empty()
	}

	result, err := extension.Load(g.ModulesDir)
	if err != nil {
		// No modules directory yet (e.g. first run of `stratum init`) is
		// not fatal to schema discovery; the merged doc just stays base-only.
		return doc, &extension.Result{Module: extension.NewModule()}, nil
	}
	if len(result.SchemaPaths) > 0 {
		extDoc, err := schema.Load(result.SchemaPaths...)
		if err != nil {
			return nil, nil, fmt.Errorf("loading extension schemas: %w", err)
		}
		doc.MergeFragment(extDoc.Root().Raw())
	}
	return doc, result, nil
}

// BindSchemaFlags adds one flag per schema leaf to fs (underscore-joined
// path names, repeatable flags for arrays and mappings) and returns a
// config.FlagSource that reports which flags the user actually supplied.
func BindSchemaFlags(fs *pflag.FlagSet, doc *schema.Document) *SchemaFlagSource {
	src := &SchemaFlagSource{fs: fs, getters: map[string]func() any{}}
	for _, leaf := range doc.Flags() {
		leaf := leaf
		name := leaf.FlagName()
		desc := leaf.Description
		if leaf.Secret {
			desc = "[secret] " + desc
		}

		switch leaf.Type {
		case schema.TypeBool:
			def, _ := leaf.Default.(bool)
			v := fs.Bool(name, def, desc)
			src.getters[name] = func() any { return *v }

		case schema.TypeInteger:
			def := intDefault(leaf.Default)
			v := fs.Int(name, def, desc)
			src.getters[name] = func() any { return *v }

		case schema.TypeNumber:
			def := floatDefault(leaf.Default)
			v := fs.Float64(name, def, desc)
			src.getters[name] = func() any { return *v }

		case schema.TypeArray:
			v := fs.StringArray(name, nil, desc)
			src.getters[name] = func() any {
				out := make([]any, len(*v))
				for i, s := range *v {
					out[i] = s
				}
				return out
			}

		case schema.TypeMapping:
			v := fs.StringArray(name, nil, desc+" (key=value, repeatable)")
			src.getters[name] = func() any {
				out := map[string]any{}
				parsed, err := config.ParseMapping(*v)
				if err != nil {
					return out
				}
				for k, val := range parsed {
					out[k] = val
				}
				return out
			}

		case schema.TypeEnum:
			def := fmt.Sprintf("%v", leaf.Default)
			v := fs.String(name, def, fmt.Sprintf("%s (one of: %s)", desc, strings.Join(leaf.Enum, ", ")))
			src.getters[name] = func() any { return *v }

		case schema.TypePath:
			def, _ := leaf.Default.(string)
			v := fs.String(name, def, desc)
			src.getters[name] = func() any { return *v }

		default: // TypeString and anything unrecognized
			def, _ := leaf.Default.(string)
			v := fs.String(name, def, desc)
			src.getters[name] = func() any { return *v }
		}

		if leaf.Secret {
			suppressDefaultDisplay(fs, name, leaf.Type)
		}
	}
	return src
}

// suppressDefaultDisplay clears a secret leaf's displayed default so
// `--help` renders the flag's name and description without echoing its
// current default value; the option itself stays listed, only its
// default is withheld. pflag's FlagUsages omits the "(default ...)" suffix only
// when a flag's DefValue string equals its type's zero value, so this
// rewrites DefValue to that zero string rather than calling MarkHidden,
// which would drop the flag from --help entirely and regress
// discoverability of a real, settable config leaf.
func suppressDefaultDisplay(fs *pflag.FlagSet, name string, typ schema.LeafType) {
	f := fs.Lookup(name)
	if f == nil {
		return
	}
	switch typ {
	case schema.TypeBool:
		f.DefValue = "false"
	case schema.TypeInteger, schema.TypeNumber:
		f.DefValue = "0"
	case schema.TypeArray, schema.TypeMapping:
		f.DefValue = "[]"
	default: // string, path, enum
		f.DefValue = ""
	}
}

func intDefault(v any) int {
	switch t := v.(type) {
	case int:
		return t
	case int64:
		return int(t)
	case float64:
		return int(t)
	default:
		return 0
	}
}

func floatDefault(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int:
		return float64(t)
	case int64:
		return float64(t)
	default:
		return 0
	}
}

// SchemaFlagSource adapts a *pflag.FlagSet to config.FlagSource.
type SchemaFlagSource struct {
	fs      *pflag.FlagSet
	getters map[string]func() any
}

func (s *SchemaFlagSource) Changed(flagName string) bool {
	return s.fs.Changed(flagName)
}

func (s *SchemaFlagSource) Value(flagName string) (any, bool) {
	get, ok := s.getters[flagName]
	if !ok {
		return nil, false
	}
	return get(), true
}
