package pathfmt

import (
	"path/filepath"
	"strings"
)

// FileURI prefixes absolute file paths with the file:// URI scheme so they
// become clickable hyperlinks in modern terminal emulators. Relative paths,
// empty strings, and paths that already contain a URI scheme are returned
// unchanged.
func FileURI(path string) string {
	if path == "" {
		return path
	}
	// Skip paths that already contain a URI scheme (e.g., file://, https://)
	if strings.Contains(path, "://") {
		return path
	}
	// Only prefix absolute paths (starting with /)
	if !strings.HasPrefix(path, "/") {
		return path
	}
	return "file://" + path
}

// RunnerOutputURI builds a clickable link to a runner's run-cache entry,
// i.e. the "<outdir>/<runnerName>_<fingerprintHex>" layout runcache.Dir
// produces. payload, when non-empty, is joined onto the
// entry directory to point at one file inside it (e.g. ".cache" or a
// reported artifact); an empty payload links at the entry directory
// itself. Used by `stratum status`'s per-runner table so a user can
// jump straight to a runner's cached outputs without hand-assembling
// the cache directory name.
func RunnerOutputURI(outdir, runnerName, fingerprintHex, payload string) string {
	dir := filepath.Join(outdir, runnerName+"_"+fingerprintHex)
	if payload != "" {
		dir = filepath.Join(dir, payload)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return FileURI(dir)
	}
	return FileURI(abs)
}
