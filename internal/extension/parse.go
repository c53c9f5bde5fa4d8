package extension

import "strings"

// packageNameOf extracts the declared package name from an extension's
// source text, so the loader knows what to prefix its Register lookup
// with. Extension sources are expected to declare a single package
// clause near the top of the file, as any normal Go source file would.
func packageNameOf(source string) string {
	for _, line := range strings.Split(source, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "package ") {
			return strings.TrimSpace(strings.TrimPrefix(trimmed, "package"))
		}
	}
	return "main"
}
