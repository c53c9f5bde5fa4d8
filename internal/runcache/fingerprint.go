// Package runcache implements the run-scoped cache: a 128-bit
// fingerprint over (config, runner source, input files) that lets a
// runner skip re-executing main when nothing it depends on has changed.
package runcache

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/sourcegraph/conc/pool"
	"golang.org/x/crypto/blake2b"

	"github.com/stratumlabs/stratum/internal/container"
)

// Fingerprint is the 128-bit digest identifying a cacheable runner
// invocation.
type Fingerprint [16]byte

// Hex returns the first n hex characters of the fingerprint, used to
// build the cache directory name.
func (f Fingerprint) Hex(n int) string {
	s := fmt.Sprintf("%x", f[:])
	if n >= len(s) {
		return s
	}
	return s[:n]
}

// maxChunk is the window of leading and trailing bytes hashed per
// input file; anything in between is represented by the size alone.
const maxChunk = 128 << 20

// Compute derives the run fingerprint from a stable serialization of the
// effective Config, the runner's source text, and a content digest of
// every referenced input file (size plus first/last maxChunk bytes),
// hashed concurrently across files with a bounded pool.
func Compute(cfg *container.Container, mainSource string, files []string) (Fingerprint, error) {
	cfgJSON, err := stableConfigJSON(cfg)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("runcache: serializing config: %w", err)
	}

	sortedFiles := append([]string(nil), files...)
	sort.Strings(sortedFiles)

	fileDigests := make([][]byte, len(sortedFiles))
	p := pool.NewWithResults[indexedDigest]().WithMaxGoroutines(8)
	for i, path := range sortedFiles {
		i, path := i, path
		p.Go(func() indexedDigest {
			d, err := digestFile(path)
			return indexedDigest{index: i, digest: d, err: err}
		})
	}
	for _, res := range p.Wait() {
		if res.err != nil {
			return Fingerprint{}, fmt.Errorf("runcache: hashing %s: %w", sortedFiles[res.index], res.err)
		}
		fileDigests[res.index] = res.digest
	}

	h, err := blake2b.New(16, nil)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("runcache: initializing digest: %w", err)
	}
	h.Write(cfgJSON)
	h.Write([]byte("\x00"))
	h.Write([]byte(mainSource))
	for i, path := range sortedFiles {
		h.Write([]byte("\x00"))
		h.Write([]byte(path))
		h.Write(fileDigests[i])
	}

	var out Fingerprint
	copy(out[:], h.Sum(nil))
	return out, nil
}

type indexedDigest struct {
	index  int
	digest []byte
	err    error
}

// stableConfigJSON serializes a Container the same way regardless of
// Go map iteration order: encoding/json sorts map[string]any keys
// alphabetically, so ToPlain + Marshal is already a stable
// serialization of the whole tree.
func stableConfigJSON(cfg *container.Container) ([]byte, error) {
	if cfg == nil {
		return []byte("null"), nil
	}
	return json.Marshal(container.ToPlain(cfg))
}

// digestFile hashes a file's size plus its first and last maxChunk
// bytes, or the whole file if it is smaller.
func digestFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size := info.Size()

	h, err := blake2b.New(16, nil)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(h, "%d", size)

	if size <= 2*maxChunk {
		if _, err := io.Copy(h, f); err != nil {
			return nil, err
		}
		return h.Sum(nil), nil
	}

	head := make([]byte, maxChunk)
	if _, err := io.ReadFull(f, head); err != nil {
		return nil, err
	}
	h.Write(head)

	if _, err := f.Seek(size-maxChunk, io.SeekStart); err != nil {
		return nil, err
	}
	tail := make([]byte, maxChunk)
	if _, err := io.ReadFull(f, tail); err != nil {
		return nil, err
	}
	h.Write(tail)

	return h.Sum(nil), nil
}
