// Package supervisor is the centerpiece of the orchestrator: it fans
// each registered Runner out across isolated process instances, drains
// their results through an output channel, tracks per-sample
// completion, and supports cooperative cancellation.
package supervisor

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/stratumlabs/stratum/internal/aggregate"
	"github.com/stratumlabs/stratum/internal/container"
	"github.com/stratumlabs/stratum/internal/runcache"
	"github.com/stratumlabs/stratum/internal/runnerapi"
	"github.com/stratumlabs/stratum/internal/sample"
)

// Supervisor drives the post-pre-hook phase of a run to completion.
type Supervisor struct {
	// Executor runs one runner instance; production code should pass a
	// ProcessExecutor, tests an InProcessExecutor or a fake.
	Executor RunnerExecutor
	// Concurrency bounds how many runner instances may be in flight at
	// once, across all runners. Zero means unbounded.
	Concurrency int
	// CacheDir, when non-empty, enables the run cache: each runner
	// instance's result is fingerprinted and reused across runs when
	// config, code and inputs are unchanged.
	CacheDir string
	// MainSource, keyed by runner name, supplies the source text the
	// cache fingerprint hashes. Absent entries
	// fall back to the runner's name, so identical (config, inputs)
	// reruns hit the cache even when the extension file has been edited:
	// neither SourcePath's content nor its mtime is part of the
	// fingerprint; only explicit source text is.
	MainSource map[string]string
}

// instance is the bookkeeping the supervisor keeps for one runner
// instance between fan-out and drain.
type instance struct {
	id     uuid.UUID
	runner runnerapi.Descriptor
	group  sample.Collection
}

// Run fans the given runners out over samples and drains their results
// into an Aggregator, applying the run cache and the return-value
// semantics table along the way. It returns once every runner instance
// has reported or ctx was cancelled and all live instances were
// terminated.
func (s *Supervisor) Run(ctx context.Context, samples sample.Collection, runners []runnerapi.Descriptor, cfg *container.Container) (*aggregate.Aggregator, error) {
	agg := aggregate.New(samples)

	var instances []instance
	for _, r := range runners {
		var groups []sample.Collection
		if r.IndividualSamples {
			groups = samples.Split(r.LinkBy)
		} else {
			groups = []sample.Collection{samples}
		}
		for _, g := range groups {
			inst := instance{id: uuid.New(), runner: r, group: g}
			for _, s := range g {
				agg.Cover(s.ID, inst.id)
			}
			instances = append(instances, inst)
		}
	}

	outcomes := make(chan Outcome, len(instances))

	// The errgroup's derived context is cancelled the moment the caller
	// cancels ctx (e.g. on SIGINT), which is exactly the signal
	// ProcessExecutor.Execute watches to SIGTERM a runner instance's
	// whole process group.
	group, gctx := errgroup.WithContext(ctx)
	if s.Concurrency > 0 {
		group.SetLimit(s.Concurrency)
	}

	for _, inst := range instances {
		inst := inst
		group.Go(func() error {
			out, err := s.runOne(gctx, inst, cfg)
			if err != nil {
				log.Printf("critical: runner %s instance %s: %v", inst.runner.Name, inst.id, err)
			}
			outcomes <- out
			return nil
		})
	}

	go func() {
		group.Wait()
		close(outcomes)
	}()

	for out := range outcomes {
		if out.Mutated {
			log.Printf("warning: runner instance %s modified samples but did not return them", out.RunnerInstance)
		}
		if out.Crashed {
			log.Printf("critical: runner instance %s crashed: %s", out.RunnerInstance, out.Err)
		}
		agg.Report(out.RunnerInstance, out.Samples)
	}

	agg.Finalize()
	return agg, nil
}

// runOne executes a single runner instance, consulting the run cache
// first when enabled.
func (s *Supervisor) runOne(gctx context.Context, inst instance, cfg *container.Container) (Outcome, error) {
	if s.CacheDir == "" {
		return s.Executor.Execute(gctx, inst.id, inst.runner, inst.group, cfg), nil
	}

	mainSource := inst.runner.Name
	if s.MainSource != nil {
		if src, ok := s.MainSource[inst.runner.Name]; ok {
			mainSource = src
		}
	}

	var files []string
	for _, samp := range inst.group {
		files = append(files, samp.Files...)
	}

	fp, err := runcache.Compute(cfg, mainSource, files)
	if err != nil {
		return Outcome{}, fmt.Errorf("supervisor: computing cache fingerprint: %w", err)
	}

	dir := runcache.Dir(s.CacheDir, inst.runner.Name, fp)
	entry, err := runcache.Open(dir)
	if err != nil {
		return Outcome{}, fmt.Errorf("supervisor: opening cache entry: %w", err)
	}

	if cached, hit, err := entry.Load(); err == nil && hit {
		log.Printf("info: runner %s instance %s: using cached results", inst.runner.Name, inst.id)
		out := make(sample.Collection, len(cached))
		copy(out, cached)
		for i := range out {
			out[i].Done = true
		}
		return Outcome{RunnerInstance: inst.id, Samples: out}, nil
	}

	out := s.Executor.Execute(gctx, inst.id, inst.runner, inst.group, cfg)
	if !out.Crashed {
		if err := entry.Store(out.Samples); err != nil {
			log.Printf("warning: runner %s instance %s: writing cache entry: %v", inst.runner.Name, inst.id, err)
		}
	}
	return out, nil
}
