// Package aggregate collects the (samples, runner-id) results emitted
// by runner instances and partitions the input sample set into
// complete/partial/failed views for post-hook filtering.
package aggregate

import (
	"github.com/google/uuid"

	"github.com/stratumlabs/stratum/internal/hook"
	"github.com/stratumlabs/stratum/internal/sample"
)

// report is one runner instance's verdict on one sample.
type report struct {
	runner uuid.UUID
	done   bool
}

// Aggregator tracks, per sample ID, which runner instances still owe a
// result (the sample's pending set) and what each runner that has
// already reported said about it.
type Aggregator struct {
	order   []string
	samples map[string]sample.Sample
	pending map[string]map[uuid.UUID]struct{}
	reports map[string][]report
}

// New returns an Aggregator seeded with the initial input set. Every
// sample starts with an empty pending set; Cover must be called for
// each runner instance that will act on it before results are reported.
func New(initial sample.Collection) *Aggregator {
	a := &Aggregator{
		samples: make(map[string]sample.Sample, len(initial)),
		pending: make(map[string]map[uuid.UUID]struct{}, len(initial)),
		reports: make(map[string][]report, len(initial)),
	}
	for _, s := range initial {
		if _, ok := a.samples[s.ID]; !ok {
			a.order = append(a.order, s.ID)
		}
		a.samples[s.ID] = s
		if a.pending[s.ID] == nil {
			a.pending[s.ID] = map[uuid.UUID]struct{}{}
		}
	}
	return a
}

// Cover registers that runner instance id is responsible for sampleID,
// i.e. adds it to that sample's pending set.
func (a *Aggregator) Cover(sampleID string, runner uuid.UUID) {
	if a.pending[sampleID] == nil {
		a.pending[sampleID] = map[uuid.UUID]struct{}{}
	}
	a.pending[sampleID][runner] = struct{}{}
}

// Report records one runner instance's returned samples. For each
// sample, the runner is removed from its pending set and the sample's
// latest field values are recorded.
func (a *Aggregator) Report(runner uuid.UUID, out sample.Collection) {
	for _, s := range out {
		if _, ok := a.pending[s.ID]; ok {
			delete(a.pending[s.ID], runner)
		}
		a.reports[s.ID] = append(a.reports[s.ID], report{runner: runner, done: s.Done})
		if _, ok := a.samples[s.ID]; !ok {
			a.order = append(a.order, s.ID)
		}
		a.samples[s.ID] = s
	}
}

// Complete returns every sample whose pending set is empty and whose
// every report was done=true.
func (a *Aggregator) Complete() sample.Collection {
	return a.filter(func(id string) bool { return a.isComplete(id) })
}

// Partial is the observation-time view: samples with at least one
// done=true report but a non-empty pending set. Once every covering
// runner has reported (or Finalize has run), no sample remains partial.
func (a *Aggregator) Partial() sample.Collection {
	return a.filter(func(id string) bool { return a.isPartial(id) })
}

// Failed returns every sample that is neither complete nor partial:
// it returned with done=false, never returned at all, or its covering
// runner crashed.
func (a *Aggregator) Failed() sample.Collection {
	return a.filter(func(id string) bool { return !a.isComplete(id) && !a.isPartial(id) })
}

// Finalize empties every remaining pending set, so samples whose
// runners never reported drop out of the partial view and land in
// Failed. After Finalize, Complete and Failed are a total, disjoint
// cover of the input set and Partial is always empty.
func (a *Aggregator) Finalize() {
	for id, set := range a.pending {
		if len(set) > 0 {
			a.pending[id] = map[uuid.UUID]struct{}{}
		}
	}
}

func (a *Aggregator) isComplete(id string) bool {
	pending := a.pending[id]
	if len(pending) > 0 {
		return false
	}
	reports := a.reports[id]
	if len(reports) == 0 {
		return false
	}
	for _, r := range reports {
		if !r.done {
			return false
		}
	}
	return true
}

func (a *Aggregator) isPartial(id string) bool {
	if len(a.pending[id]) == 0 {
		return false
	}
	for _, r := range a.reports[id] {
		if r.done {
			return true
		}
	}
	return false
}

func (a *Aggregator) filter(keep func(id string) bool) sample.Collection {
	var out sample.Collection
	for _, id := range a.order {
		if keep(id) {
			out = append(out, a.samples[id])
		}
	}
	return out
}

// FilterFor selects the samples a post-hook with the given condition
// receives: complete -> Complete(), failed -> Failed(), always -> every
// sample the aggregator has seen, in first-seen order.
func (a *Aggregator) FilterFor(condition hook.Condition) sample.Collection {
	switch condition {
	case hook.ConditionComplete:
		return a.Complete()
	case hook.ConditionFailed:
		return a.Failed()
	default:
		var out sample.Collection
		for _, id := range a.order {
			out = append(out, a.samples[id])
		}
		return out
	}
}
