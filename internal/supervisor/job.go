package supervisor

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/stratumlabs/stratum/internal/container"
	"github.com/stratumlabs/stratum/internal/sample"
)

// Job is everything a runner-instance child process needs to execute
// one group of samples: which extension to reload, which runner inside
// it to invoke, the group itself, and the effective config. It crosses
// the process boundary as a gob-encoded file; parent and child share
// no memory, so a file takes the place of a channel across the fork.
type Job struct {
	RunnerInstance uuid.UUID
	ExtensionPath  string
	RunnerName     string
	Samples        sample.Collection
	Config         *container.Container
}

// Outcome is the one message a runner instance sends back: the samples
// it produced plus the bookkeeping the parent needs to classify the
// result without re-deriving it from the child's exit code alone.
type Outcome struct {
	RunnerInstance uuid.UUID
	Samples        sample.Collection
	// Mutated is true when the runner's Main returned nil but the
	// input was observably changed in place ("modified but not
	// returned").
	Mutated bool
	// Crashed is true when Main returned an error or the child process
	// was killed before it could write an Outcome at all.
	Crashed bool
	Err     string
}

func writeGob(path string, v any) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return fmt.Errorf("supervisor: encoding %s: %w", path, err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o600)
}

func readGob(path string, v any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("supervisor: reading %s: %w", path, err)
	}
	return gob.NewDecoder(bytes.NewReader(raw)).Decode(v)
}

// WriteJob serializes a Job to path for the child process to read.
func WriteJob(path string, job Job) error { return writeGob(path, job) }

// ReadJob is the child-side counterpart of WriteJob.
func ReadJob(path string) (Job, error) {
	var job Job
	err := readGob(path, &job)
	return job, err
}

// WriteOutcome serializes an Outcome to path for the parent to read
// after the child process exits.
func WriteOutcome(path string, out Outcome) error { return writeGob(path, out) }

// ReadOutcome is the parent-side counterpart of WriteOutcome.
func ReadOutcome(path string) (Outcome, error) {
	var out Outcome
	err := readGob(path, &out)
	return out, err
}
