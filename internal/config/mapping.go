package config

import (
	"fmt"
	"go/token"
	"strings"
)

// ParseMapping parses the "--flag=k=v l=m" repeated-flag syntax for
// mapping-typed schema leaves into a single merged map, validating that
// every key is a valid identifier.
func ParseMapping(entries []string) (map[string]string, error) {
	out := map[string]string{}
	for _, entry := range entries {
		for _, kv := range strings.Fields(entry) {
			k, v, ok := strings.Cut(kv, "=")
			if !ok {
				return nil, fmt.Errorf("config: mapping entry %q must be 'key=value'", kv)
			}
			k = strings.Trim(k, "{}")
			if !token.IsIdentifier(k) {
				return nil, fmt.Errorf("config: %q is not a valid identifier", k)
			}
			out[k] = v
		}
	}
	return out, nil
}
