package runcache

import (
	"bytes"
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/crypto/blake2b"

	"github.com/stratumlabs/stratum/internal/sample"
)

const (
	integrityFile = ".integrity"
	cacheFile     = ".cache"
)

// Dir returns the cache directory for one runner invocation:
// outdir/<runnerName>_<fingerprint hex, 16 chars>.
func Dir(outdir, runnerName string, fp Fingerprint) string {
	return filepath.Join(outdir, fmt.Sprintf("%s_%s", runnerName, fp.Hex(16)))
}

// Entry wraps one cache directory's lifecycle: checking whether a prior
// run's result can be reused, and writing a fresh one.
type Entry struct {
	dir string
}

// Open returns an Entry for dir, creating it if necessary.
func Open(dir string) (*Entry, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("runcache: creating %s: %w", dir, err)
	}
	return &Entry{dir: dir}, nil
}

// Dir returns the underlying cache directory path.
func (e *Entry) Dir() string { return e.dir }

// Load returns the cached Samples and true if the .integrity sidecar is
// present and equals the current hash of the directory listing. Any
// mismatch or missing file is treated as a cache miss, not an error.
func (e *Entry) Load() (sample.Collection, bool, error) {
	recorded, err := os.ReadFile(filepath.Join(e.dir, integrityFile))
	if err != nil {
		return nil, false, nil
	}
	current, err := e.listingHash()
	if err != nil {
		return nil, false, fmt.Errorf("runcache: hashing listing of %s: %w", e.dir, err)
	}
	if !bytes.Equal(bytes.TrimSpace(recorded), []byte(current)) {
		return nil, false, nil
	}

	raw, err := os.ReadFile(filepath.Join(e.dir, cacheFile))
	if err != nil {
		return nil, false, nil
	}
	var out sample.Collection
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&out); err != nil {
		return nil, false, fmt.Errorf("runcache: decoding %s: %w", filepath.Join(e.dir, cacheFile), err)
	}
	return out, true, nil
}

// Store writes the runner's return value and a fresh integrity sidecar
// computed over the directory listing as it stands after writing the
// payload.
func (e *Entry) Store(out sample.Collection) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(out); err != nil {
		return fmt.Errorf("runcache: encoding result: %w", err)
	}
	if err := os.WriteFile(filepath.Join(e.dir, cacheFile), buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("runcache: writing %s: %w", filepath.Join(e.dir, cacheFile), err)
	}

	listing, err := e.listingHash()
	if err != nil {
		return fmt.Errorf("runcache: hashing listing of %s: %w", e.dir, err)
	}
	if err := os.WriteFile(filepath.Join(e.dir, integrityFile), []byte(listing), 0o644); err != nil {
		return fmt.Errorf("runcache: writing %s: %w", filepath.Join(e.dir, integrityFile), err)
	}
	return nil
}

// listingHash hashes the name and size of every entry currently in the
// cache directory, excluding the integrity sidecar itself.
func (e *Entry) listingHash() (string, error) {
	entries, err := os.ReadDir(e.dir)
	if err != nil {
		return "", err
	}
	names := make([]string, 0, len(entries))
	sizes := make(map[string]int64, len(entries))
	for _, ent := range entries {
		if ent.Name() == integrityFile {
			continue
		}
		info, err := ent.Info()
		if err != nil {
			return "", err
		}
		names = append(names, ent.Name())
		sizes[ent.Name()] = info.Size()
	}
	sort.Strings(names)

	h, err := blake2b.New(16, nil)
	if err != nil {
		return "", err
	}
	for _, name := range names {
		fmt.Fprintf(h, "%s:%d\n", name, sizes[name])
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
