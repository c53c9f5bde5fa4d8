package supervisor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/stratumlabs/stratum/internal/container"
	"github.com/stratumlabs/stratum/internal/runnerapi"
	"github.com/stratumlabs/stratum/internal/sample"
)

// RunnerExecutor runs one runner instance (one group of samples, one
// runner descriptor) to completion and returns its Outcome. Swapping
// implementations is how the supervisor gets process isolation in
// production while staying unit-testable: tests use an in-process
// executor so they don't need a built `stratum` binary on disk.
type RunnerExecutor interface {
	Execute(ctx context.Context, instance uuid.UUID, runner runnerapi.Descriptor, group sample.Collection, cfg *container.Container) Outcome
}

// InProcessExecutor calls a runner's Main directly in the calling
// goroutine. It still applies the full return-value semantics table,
// but gives up the crash isolation a separate process provides, so it
// is appropriate for unit tests and for trusted, purely in-process
// extension sets, not for the production CLI path.
type InProcessExecutor struct{}

func (InProcessExecutor) Execute(ctx context.Context, instance uuid.UUID, runner runnerapi.Descriptor, group sample.Collection, cfg *container.Container) Outcome {
	defer func() {
		// A panicking runner is a runner crash, not an
		// orchestrator-fatal error; InProcessExecutor can't
		// resurrect the call already in flight when it panics, but
		// recovering here at least stops one bad runner from taking
		// down the whole drain loop in tests.
		recover()
	}()
	return invoke(ctx, instance, runner.Main, group, cfg)
}

// ProcessExecutor spawns a runner instance as a separate OS process by
// re-invoking the current binary with the hidden "__run-extension"
// subcommand, so a crashing runner cannot corrupt the orchestrator.
// The child reloads just that one runner's extension file
// (SourcePath) via extension.LoadFile so Main is re-bound fresh in the
// child's own interpreter rather than shared across the fork.
type ProcessExecutor struct {
	// BinaryPath is the executable to re-invoke, normally os.Args[0].
	BinaryPath string
	// WorkDir holds per-instance job/result files; it is created if
	// missing and is safe to share across concurrent runner instances
	// since each uses a uuid-named subdirectory.
	WorkDir string
}

func (p ProcessExecutor) Execute(ctx context.Context, instance uuid.UUID, runner runnerapi.Descriptor, group sample.Collection, cfg *container.Container) Outcome {
	dir := filepath.Join(p.WorkDir, instance.String())
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return Outcome{RunnerInstance: instance, Crashed: true, Err: fmt.Sprintf("supervisor: creating workdir: %v", err)}
	}
	jobPath := filepath.Join(dir, "job.gob")
	resultPath := filepath.Join(dir, "result.gob")

	job := Job{
		RunnerInstance: instance,
		ExtensionPath:  runner.SourcePath,
		RunnerName:     runner.Name,
		Samples:        group,
		Config:         cfg,
	}
	if err := WriteJob(jobPath, job); err != nil {
		return Outcome{RunnerInstance: instance, Crashed: true, Err: err.Error()}
	}

	cmd := exec.Command(p.BinaryPath, "__run-extension", jobPath, resultPath)
	// Redirect stdout/stderr to a null sink so noisy third-party tools
	// invoked by a runner cannot pollute the user's terminal.
	if devnull, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0); err == nil {
		defer devnull.Close()
		cmd.Stdout = devnull
		cmd.Stderr = devnull
	}
	// A dedicated process group lets the parent terminate every
	// descendant the runner itself may have spawned (e.g. a batch
	// submission CLI) with a single signal to -pid.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Start(); err != nil {
		return Outcome{RunnerInstance: instance, Crashed: true, Err: err.Error()}
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	var runErr error
	select {
	case runErr = <-done:
	case <-ctx.Done():
		// SIGTERM the whole group, then give it a bounded grace
		// period before escalating to SIGKILL.
		_ = killGroup(cmd.Process.Pid, syscall.SIGTERM)
		select {
		case runErr = <-done:
		case <-time.After(5 * time.Second):
			_ = killGroup(cmd.Process.Pid, syscall.SIGKILL)
			runErr = <-done
		}
	}

	out, readErr := ReadOutcome(resultPath)
	if readErr != nil {
		// The child never got to write a result: it was killed (SIGINT
		// cancellation, or SIGTERM from our own termination handler) or
		// crashed before writing.
		msg := "no result written"
		if runErr != nil {
			msg = runErr.Error()
		}
		return Outcome{RunnerInstance: instance, Samples: group, Crashed: true, Err: msg}
	}
	return out
}

// killGroup sends sig to every process in instance's OS process group,
// used by the supervisor's SIGINT/SIGTERM cancellation path.
func killGroup(pid int, sig syscall.Signal) error {
	return syscall.Kill(-pid, sig)
}
