package supervisor

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/stratumlabs/stratum/internal/extension"
)

// RunExtension is the entrypoint cmd/stratum's hidden "__run-extension"
// subcommand calls: it reads a Job, reloads exactly that one runner's
// extension source in this (fresh) process via extension.LoadFile,
// invokes the matching runner's Main, and writes an Outcome back.
//
// On SIGTERM this process terminates its own process group's other
// members (any subprocess the runner itself spawned), writes the
// original unmodified samples as the Outcome, and exits 1.
func RunExtension(jobPath, resultPath string) (exitCode int) {
	job, err := ReadJob(jobPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "stratum: reading job: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		// Terminate any descendants this runner spawned (e.g. a batch
		// scheduler submission) before this process itself exits.
		if pid := os.Getpid(); pid > 0 {
			_ = killGroup(pid, syscall.SIGTERM)
		}
		_ = WriteOutcome(resultPath, Outcome{RunnerInstance: job.RunnerInstance, Samples: job.Samples})
		os.Exit(1)
	}()

	module := extension.NewModule()
	if err := extension.LoadFile(job.ExtensionPath, module); err != nil {
		_ = WriteOutcome(resultPath, Outcome{RunnerInstance: job.RunnerInstance, Samples: job.Samples, Crashed: true, Err: err.Error()})
		return 1
	}

	for _, r := range module.Runners.Descriptors() {
		if r.Name != job.RunnerName {
			continue
		}
		out := invoke(ctx, job.RunnerInstance, r.Main, job.Samples, job.Config)
		if err := WriteOutcome(resultPath, out); err != nil {
			fmt.Fprintf(os.Stderr, "stratum: writing outcome: %v\n", err)
			return 1
		}
		if out.Crashed {
			return 1
		}
		return 0
	}

	_ = WriteOutcome(resultPath, Outcome{
		RunnerInstance: job.RunnerInstance,
		Samples:        job.Samples,
		Crashed:        true,
		Err:            fmt.Sprintf("runner %q not found in %s", job.RunnerName, job.ExtensionPath),
	})
	return 1
}
