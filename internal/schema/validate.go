package schema

import (
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/stratumlabs/stratum/internal/container"
)

// ValidationError reports one failing schema leaf; callers are expected
// to surface every error, not just the first.
type ValidationError struct {
	Path   string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}

// Validate checks instance (typically the effective Config's raw tree)
// against the document using santhosh-tekuri/jsonschema/v6, translating
// this package's extra typetags (bool, path, mapping) into the closest
// standard JSON-schema vocabulary the validator understands, since
// those are not JSON-schema primitives.
func Validate(doc *Document, instance *container.Container) []*ValidationError {
	schemaDoc := toJSONSchema(container.ToPlain(doc.root))

	compiler := jsonschema.NewCompiler()
	const resourceURL = "stratum://merged-schema.json"
	if err := compiler.AddResource(resourceURL, schemaDoc); err != nil {
		return []*ValidationError{{Path: "$", Reason: fmt.Sprintf("invalid merged schema: %v", err)}}
	}

	compiled, err := compiler.Compile(resourceURL)
	if err != nil {
		return []*ValidationError{{Path: "$", Reason: fmt.Sprintf("schema compilation failed: %v", err)}}
	}

	plainInstance := container.ToPlain(instance)
	if err := compiled.Validate(plainInstance); err != nil {
		if verr, ok := err.(*jsonschema.ValidationError); ok {
			return flattenValidationError(verr)
		}
		return []*ValidationError{{Path: "$", Reason: err.Error()}}
	}
	return nil
}

func flattenValidationError(verr *jsonschema.ValidationError) []*ValidationError {
	var out []*ValidationError
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			path := "$"
			if len(e.InstanceLocation) > 0 {
				path = "$/" + strings.Join(e.InstanceLocation, "/")
			}
			out = append(out, &ValidationError{Path: path, Reason: e.Error()})
			return
		}
		for _, cause := range e.Causes {
			walk(cause)
		}
	}
	walk(verr)
	return out
}

// toJSONSchema recursively rewrites this package's typetags into
// standard JSON-schema keywords so the merged document can be fed
// straight to a conformant validator.
func toJSONSchema(node any) any {
	m, ok := node.(map[string]any)
	if !ok {
		return node
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	if t, ok := out["type"].(string); ok {
		switch LeafType(t) {
		case TypeBool:
			out["type"] = "boolean"
		case TypePath:
			out["type"] = "string"
		case TypeMapping:
			out["type"] = "object"
		}
	}
	if props, ok := out["properties"]; ok {
		if propsMap, ok := props.(map[string]any); ok {
			rewritten := make(map[string]any, len(propsMap))
			for k, v := range propsMap {
				rewritten[k] = toJSONSchema(v)
			}
			out["properties"] = rewritten
		}
	}
	if items, ok := out["items"]; ok {
		out["items"] = toJSONSchema(items)
	}
	return out
}
