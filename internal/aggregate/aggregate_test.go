package aggregate

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/stratumlabs/stratum/internal/hook"
	"github.com/stratumlabs/stratum/internal/sample"
)

func ids(c sample.Collection) []string {
	out := make([]string, len(c))
	for i, s := range c {
		out[i] = s.ID
	}
	return out
}

func TestAggregatorFanOutCompletion(t *testing.T) {
	s1, s2, s3 := sample.New("s1"), sample.New("s2"), sample.New("s3")
	r1, r2 := uuid.New(), uuid.New()

	a := New(sample.Collection{s1, s2, s3})
	for _, s := range []sample.Sample{s1, s2, s3} {
		a.Cover(s.ID, r1)
		a.Cover(s.ID, r2)
	}

	mark := func(s sample.Sample, done bool) sample.Sample {
		s.Done = done
		return s
	}
	a.Report(r1, sample.Collection{mark(s1, true), mark(s2, true), mark(s3, true)})
	a.Report(r2, sample.Collection{mark(s1, true), mark(s2, false), mark(s3, true)})
	a.Finalize()

	assert.ElementsMatch(t, []string{"s1", "s3"}, ids(a.Complete()))
	assert.ElementsMatch(t, []string{"s2"}, ids(a.Failed()))
	assert.Empty(t, a.Partial())

	assert.ElementsMatch(t, []string{"s1", "s3"}, ids(a.FilterFor(hook.ConditionComplete)))
	assert.ElementsMatch(t, []string{"s2"}, ids(a.FilterFor(hook.ConditionFailed)))
	assert.ElementsMatch(t, []string{"s1", "s2", "s3"}, ids(a.FilterFor(hook.ConditionAlways)))
}

func TestAggregatorNeverReportedIsFailedAtTeardown(t *testing.T) {
	s1 := sample.New("s1")
	r1 := uuid.New()

	a := New(sample.Collection{s1})
	a.Cover(s1.ID, r1)
	// r1 never reports (crashed or killed).
	a.Finalize()

	assert.ElementsMatch(t, []string{"s1"}, ids(a.Failed()))
	assert.Empty(t, a.Complete())
}

func TestAggregatorPartialBeforeFinalize(t *testing.T) {
	s1 := sample.New("s1")
	r1, r2 := uuid.New(), uuid.New()

	a := New(sample.Collection{s1})
	a.Cover(s1.ID, r1)
	a.Cover(s1.ID, r2)

	done := s1
	done.Done = true
	a.Report(r1, sample.Collection{done})
	// r2 has not reported yet: pending is non-empty but one runner
	// already said done=true.

	assert.ElementsMatch(t, []string{"s1"}, ids(a.Partial()))
	assert.Empty(t, a.Complete())
	assert.Empty(t, a.Failed())
}

// After Finalize, Complete and Failed are a total, disjoint cover.
func TestAggregatorTotalDisjointCover(t *testing.T) {
	samples := sample.Collection{sample.New("a"), sample.New("b"), sample.New("c")}
	r1 := uuid.New()
	a := New(samples)
	for _, s := range samples {
		a.Cover(s.ID, r1)
	}
	doneA := samples[0]
	doneA.Done = true
	notDoneB := samples[1]
	notDoneB.Done = false
	a.Report(r1, sample.Collection{doneA, notDoneB})
	// c never reported at all.
	a.Finalize()

	complete := ids(a.Complete())
	partial := ids(a.Partial())
	failed := ids(a.Failed())

	assert.Empty(t, partial)
	total := append(append([]string{}, complete...), failed...)
	assert.ElementsMatch(t, []string{"a", "b", "c"}, total)

	seen := map[string]int{}
	for _, id := range total {
		seen[id]++
	}
	for id, count := range seen {
		assert.Equalf(t, 1, count, "sample %s counted %d times", id, count)
	}
}
