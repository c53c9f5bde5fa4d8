package commands

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/stratumlabs/stratum/internal/aggregate"
	"github.com/stratumlabs/stratum/internal/config"
	"github.com/stratumlabs/stratum/internal/extension"
	"github.com/stratumlabs/stratum/internal/hook"
	"github.com/stratumlabs/stratum/internal/logctx"
	"github.com/stratumlabs/stratum/internal/pathfmt"
	"github.com/stratumlabs/stratum/internal/runnerapi"
	"github.com/stratumlabs/stratum/internal/runstore"
	"github.com/stratumlabs/stratum/internal/sample"
	"github.com/stratumlabs/stratum/internal/schema"
	"github.com/stratumlabs/stratum/internal/supervisor"
	"github.com/stratumlabs/stratum/internal/tui"
	"golang.org/x/term"
)

// NewRunCmd builds the `stratum run` command: the main entrypoint that
// drives pre-hooks, the runner supervisor's fan-out, and post-hooks
// over the aggregator's filtered views.
func NewRunCmd(globals *GlobalFlags, doc *schema.Document) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the pipeline: pre-hooks, runners, post-hooks",
	}
	flagSource := BindSchemaFlags(cmd.Flags(), doc)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runPipeline(*globals, doc, flagSource)
	}
	return cmd
}

func runPipeline(g GlobalFlags, doc *schema.Document, flags config.FlagSource) error {
	if g.SamplesFile == "" {
		return exitErr(1, "stratum run: --samples is required")
	}

	samples, err := sample.FromFile(g.SamplesFile)
	if err != nil {
		return exitErr(1, fmt.Sprintf("stratum run: %v", err))
	}
	for _, invalid := range samples.Validate() {
		log.Printf("warning: sample %q is invalid (missing files or id) and was removed", invalid.ID)
	}

	loaded, err := extension.Load(g.ModulesDir)
	if err != nil {
		return exitErr(1, fmt.Sprintf("stratum run: loading modules: %v", err))
	}
	for _, lerr := range loaded.Errors {
		log.Printf("debug: %v", lerr)
	}

	mixins := sample.NewRegistry()
	loaded.Module.Mixins.Into(mixins)
	mixins.Apply(&samples)

	cfg, verrs, err := config.Load(g.ConfigPath, doc, flags)
	if err != nil {
		return exitErr(1, fmt.Sprintf("stratum run: %v", err))
	}
	if len(verrs) > 0 {
		for _, e := range verrs {
			log.Printf("critical: config validation: %v", e)
		}
		return exitErr(1, "stratum run: config failed schema validation")
	}

	preHooks, err := resolvePhase(loaded.Module.Hooks.Descriptors(), hook.Pre)
	if err != nil {
		return exitErr(1, fmt.Sprintf("stratum run: %v", err))
	}
	postHooks, err := resolvePhase(loaded.Module.Hooks.Descriptors(), hook.Post)
	if err != nil {
		return exitErr(1, fmt.Sprintf("stratum run: %v", err))
	}

	emitter, dashboard := newEmitter(g)
	defer func() {
		if dashboard != nil {
			dashboard.Quit()
		}
	}()

	store, err := runstore.Open(filepath.Join(g.OutDir, "stratum.db"))
	if err != nil {
		return exitErr(1, fmt.Sprintf("stratum run: opening run store: %v", err))
	}
	defer store.Close()

	runID, err := store.CreateRun(g.ModulesDir, g.SamplesFile)
	if err != nil {
		return exitErr(1, fmt.Sprintf("stratum run: %v", err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	for _, h := range preHooks {
		started := time.Now()
		emitter.Emit(logctx.Event{Timestamp: started, RunID: runID, HookName: h.Name, State: logctx.StateStarted})
		out, err := h.Fn(ctx, samples, cfg)
		if err != nil {
			emitter.Emit(logctx.Event{Timestamp: time.Now(), RunID: runID, HookName: h.Name, State: logctx.StateCrashed, Message: err.Error()})
			_ = store.CompleteRun(runID, "failed", err.Error())
			return exitErr(1, fmt.Sprintf("stratum run: pre-hook %s: %v", h.Name, err))
		}
		if out != nil {
			samples = out
		}
		emitter.Emit(logctx.Event{Timestamp: time.Now(), RunID: runID, HookName: h.Name, State: logctx.StateCompleted, DurationMs: time.Since(started).Milliseconds()})
	}

	runners := loaded.Module.Runners.Descriptors()
	cacheDir := g.CacheDir
	if g.NoCache {
		cacheDir = ""
	}

	sup := &supervisor.Supervisor{
		Executor:    supervisor.ProcessExecutor{BinaryPath: currentBinary(), WorkDir: filepath.Join(g.OutDir, "work", runID)},
		Concurrency: g.Concurrency,
		CacheDir:    cacheDir,
	}

	agg, err := sup.Run(ctx, samples, runners, cfg)
	if err != nil {
		_ = store.CompleteRun(runID, "failed", err.Error())
		return exitErr(1, fmt.Sprintf("stratum run: %v", err))
	}
	recordRunnerOutcomes(store, runID, samples, runners, agg)

	for _, h := range postHooks {
		selected := agg.FilterFor(h.Condition)
		started := time.Now()
		emitter.Emit(logctx.Event{Timestamp: started, RunID: runID, HookName: h.Name, State: logctx.StateStarted})
		if _, err := h.Fn(ctx, selected, cfg); err != nil {
			emitter.Emit(logctx.Event{Timestamp: time.Now(), RunID: runID, HookName: h.Name, State: logctx.StateCrashed, Message: err.Error()})
			log.Printf("critical: post-hook %s: %v", h.Name, err)
			continue
		}
		emitter.Emit(logctx.Event{Timestamp: time.Now(), RunID: runID, HookName: h.Name, State: logctx.StateCompleted, DurationMs: time.Since(started).Milliseconds()})
	}

	interrupted := ctx.Err() != nil
	status := "completed"
	if interrupted {
		status = "cancelled"
	}
	_ = store.CompleteRun(runID, status, "")

	fmt.Printf("run %s: complete=%d failed=%d\n", runID, len(agg.Complete()), len(agg.Failed()))
	if abs, err := filepath.Abs(g.OutDir); err == nil {
		fmt.Printf("output: %s\n", pathfmt.FileURI(abs))
	}

	if interrupted {
		return exitErr(130, "stratum run: interrupted")
	}
	return nil
}

func resolvePhase(descs []hook.Descriptor, phase hook.Phase) ([]hook.Descriptor, error) {
	var subset []hook.Descriptor
	for _, d := range descs {
		if d.When == phase {
			subset = append(subset, d)
		}
	}
	resolved, err := hook.Resolve(subset)
	if err != nil {
		return nil, fmt.Errorf("resolving %s-hooks: %w", phase, err)
	}
	return resolved, nil
}

// runnerSampleIDs recomputes which samples one runner's fan-out covers,
// mirroring supervisor.Supervisor.Run's own grouping so the run store
// can record a per-runner outcome without the supervisor needing to
// expose its internal instance bookkeeping.
func runnerSampleIDs(samples sample.Collection, r runnerapi.Descriptor) []string {
	var groups []sample.Collection
	if r.IndividualSamples {
		groups = samples.Split(r.LinkBy)
	} else {
		groups = []sample.Collection{samples}
	}
	var ids []string
	for _, g := range groups {
		for _, s := range g {
			ids = append(ids, s.ID)
		}
	}
	return ids
}

func recordRunnerOutcomes(store runstore.Store, runID string, input sample.Collection, runners []runnerapi.Descriptor, agg *aggregate.Aggregator) {
	completeIDs := map[string]bool{}
	for _, s := range agg.Complete() {
		completeIDs[s.ID] = true
	}
	for _, r := range runners {
		ids := runnerSampleIDs(input, r)
		done := 0
		for _, id := range ids {
			if completeIDs[id] {
				done++
			}
		}
		err := store.RecordOutcome(runstore.RunnerOutcomeRecord{
			RunID:       runID,
			RunnerName:  r.Name,
			SampleCount: len(ids),
			DoneCount:   done,
		})
		if err != nil {
			log.Printf("warning: recording outcome for %s: %v", r.Name, err)
		}
	}
}

func newEmitter(g GlobalFlags) (logctx.Emitter, *tui.Dashboard) {
	if g.TUI {
		dash := tui.NewDashboard()
		return logctx.NewSinkOnlyEmitter(dash), dash
	}
	if term.IsTerminal(int(os.Stdout.Fd())) {
		return logctx.NewNDJSONEmitterWithHumanReadable(), nil
	}
	return logctx.NewNDJSONEmitter(), nil
}

func currentBinary() string {
	if exe, err := os.Executable(); err == nil {
		return exe
	}
	return os.Args[0]
}
