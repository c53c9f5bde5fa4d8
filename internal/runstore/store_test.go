package runstore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "runs.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCreateAndGetRun(t *testing.T) {
	s := openTestStore(t)

	runID, err := s.CreateRun("./modules", "samples.jsonl")
	require.NoError(t, err)
	require.NotEmpty(t, runID)

	record, err := s.GetRun(runID)
	require.NoError(t, err)
	assert.Equal(t, "./modules", record.ModulesDir)
	assert.Equal(t, "samples.jsonl", record.SamplesFile)
	assert.Equal(t, "running", record.Status)
	assert.Nil(t, record.CompletedAt)
}

func TestCompleteRun(t *testing.T) {
	s := openTestStore(t)
	runID, err := s.CreateRun("./modules", "samples.jsonl")
	require.NoError(t, err)

	require.NoError(t, s.CompleteRun(runID, "completed", ""))

	record, err := s.GetRun(runID)
	require.NoError(t, err)
	assert.Equal(t, "completed", record.Status)
	require.NotNil(t, record.CompletedAt)
	assert.Empty(t, record.ErrorMessage)
}

func TestCompleteRunWithError(t *testing.T) {
	s := openTestStore(t)
	runID, err := s.CreateRun("./modules", "samples.jsonl")
	require.NoError(t, err)

	require.NoError(t, s.CompleteRun(runID, "failed", "runner crashed"))

	record, err := s.GetRun(runID)
	require.NoError(t, err)
	assert.Equal(t, "failed", record.Status)
	assert.Equal(t, "runner crashed", record.ErrorMessage)
}

func TestGetRunNotFound(t *testing.T) {
	s := openTestStore(t)
	_, err := s.GetRun("does-not-exist")
	assert.Error(t, err)
}

func TestListRunsFiltersByStatus(t *testing.T) {
	s := openTestStore(t)

	r1, _ := s.CreateRun("./modules", "a.jsonl")
	r2, _ := s.CreateRun("./modules", "b.jsonl")
	require.NoError(t, s.CompleteRun(r1, "completed", ""))

	completed, err := s.ListRuns(ListRunsOptions{Status: "completed"})
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, r1, completed[0].RunID)

	running, err := s.ListRuns(ListRunsOptions{Status: "running"})
	require.NoError(t, err)
	require.Len(t, running, 1)
	assert.Equal(t, r2, running[0].RunID)
}

func TestListRunsRespectsLimit(t *testing.T) {
	s := openTestStore(t)
	for i := 0; i < 5; i++ {
		_, err := s.CreateRun("./modules", "samples.jsonl")
		require.NoError(t, err)
	}

	records, err := s.ListRuns(ListRunsOptions{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestDeleteRun(t *testing.T) {
	s := openTestStore(t)
	runID, err := s.CreateRun("./modules", "samples.jsonl")
	require.NoError(t, err)

	require.NoError(t, s.DeleteRun(runID))
	_, err = s.GetRun(runID)
	assert.Error(t, err)
}

func TestRecordAndGetOutcomes(t *testing.T) {
	s := openTestStore(t)
	runID, err := s.CreateRun("./modules", "samples.jsonl")
	require.NoError(t, err)

	require.NoError(t, s.RecordOutcome(RunnerOutcomeRecord{
		RunID:       runID,
		RunnerName:  "fetch",
		Fingerprint: "deadbeef",
		SampleCount: 10,
		DoneCount:   10,
	}))
	require.NoError(t, s.RecordOutcome(RunnerOutcomeRecord{
		RunID:        runID,
		RunnerName:   "transform",
		Fingerprint:  "cafef00d",
		SampleCount:  10,
		DoneCount:    3,
		Crashed:      true,
		ErrorMessage: "nil pointer dereference",
	}))

	outcomes, err := s.GetOutcomes(runID)
	require.NoError(t, err)
	require.Len(t, outcomes, 2)
	assert.Equal(t, "fetch", outcomes[0].RunnerName)
	assert.Equal(t, 10, outcomes[0].DoneCount)
	assert.False(t, outcomes[0].Crashed)
	assert.Equal(t, "transform", outcomes[1].RunnerName)
	assert.True(t, outcomes[1].Crashed)
	assert.Equal(t, "nil pointer dereference", outcomes[1].ErrorMessage)
}

func TestOpenAppliesMigrationsIdempotently(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")

	s1, err := Open(path)
	require.NoError(t, err)
	runID, err := s1.CreateRun("./modules", "samples.jsonl")
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	record, err := s2.GetRun(runID)
	require.NoError(t, err)
	assert.Equal(t, runID, record.RunID)
}
