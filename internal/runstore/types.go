package runstore

import "time"

// RunRecord is one `stratum run` invocation: the modules directory and
// samples file it loaded, its status, and when it started/finished.
type RunRecord struct {
	RunID        string
	ModulesDir   string
	SamplesFile  string
	Status       string
	StartedAt    time.Time
	CompletedAt  *time.Time
	ErrorMessage string
}

// ListRunsOptions filters a ListRuns query.
type ListRunsOptions struct {
	Status    string
	OlderThan time.Duration
	Limit     int
}

// RunnerOutcomeRecord is one runner's contribution to a run: how many
// samples it covered, how many it returned done=true for, whether the
// run cache served it, and whether it crashed. Mirrors
// supervisor.Outcome, persisted for `stratum status`/`stratum logs`.
type RunnerOutcomeRecord struct {
	ID           int64
	RunID        string
	RunnerName   string
	Fingerprint  string
	SampleCount  int
	DoneCount    int
	Cached       bool
	Crashed      bool
	StartedAt    time.Time
	CompletedAt  *time.Time
	ErrorMessage string
}
