// Package logctx is the ambient structured-logging sink used by the
// CLI's run command and the TUI dashboard: one NDJSON event per hook/runner
// lifecycle transition, with an optional dual-stream human-readable
// rendering for terminals.
package logctx

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// Event is one lifecycle transition: a hook firing, a runner
// finishing, the aggregator classifying a sample.
type Event struct {
	Timestamp  time.Time `json:"timestamp"`
	RunID      string    `json:"run_id"`
	HookName   string    `json:"hook_name,omitempty"`
	RunnerName string    `json:"runner_name,omitempty"`
	SampleID   string    `json:"sample_id,omitempty"`
	State      string    `json:"state"`
	DurationMs int64     `json:"duration_ms,omitempty"`
	Message    string    `json:"message,omitempty"`
	Level      string    `json:"level,omitempty"`
}

// Event state constants for the hook/runner lifecycle.
const (
	StateStarted   = "started"
	StateRunning   = "running"
	StateCompleted = "completed"
	StateFailed    = "failed"
	StateCrashed   = "crashed"
	StateCached    = "cached"
	StateRetrying  = "retrying"
)

// Log levels, used for messages with no lifecycle state of their own
// (e.g. a swallowed extension-load error).
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// Emitter is anything that can receive Stratum lifecycle events. The
// run command depends on this interface, not a concrete emitter, so the
// TUI dashboard or a test's recording stub can stand in.
type Emitter interface {
	Emit(event Event)
}

// NDJSONEmitter writes one JSON object per line to stdout or, in
// human-readable mode for an interactive terminal, a colorized one-line
// rendering in place of the JSON. NDJSON stays machine-parseable on
// stdout unless that rendering replaces it, and `--tui` substitutes a
// bubbletea dashboard without touching the event producers.
type NDJSONEmitter struct {
	encoder       *json.Encoder
	humanReadable bool
	suppressJSON  bool
	mu            sync.Mutex
	sink          Emitter // optional second sink, e.g. a TUI program
}

// NewNDJSONEmitter returns a plain machine-readable emitter.
func NewNDJSONEmitter() *NDJSONEmitter {
	return &NDJSONEmitter{encoder: json.NewEncoder(os.Stdout)}
}

// NewNDJSONEmitterWithHumanReadable returns an emitter that renders a
// colorized one-line summary per event instead of raw JSON, for
// interactive use without `--tui`.
func NewNDJSONEmitterWithHumanReadable() *NDJSONEmitter {
	return &NDJSONEmitter{encoder: json.NewEncoder(os.Stdout), humanReadable: true}
}

// NewNDJSONEmitterWithSink returns an emitter that forwards every event
// to sink (e.g. a TUI dashboard's event channel) in addition to its own
// stdout behavior.
func NewNDJSONEmitterWithSink(sink Emitter) *NDJSONEmitter {
	return &NDJSONEmitter{encoder: json.NewEncoder(os.Stdout), sink: sink}
}

// NewSinkOnlyEmitter returns an emitter that forwards only to sink and
// suppresses stdout NDJSON entirely, for `--tui` mode where the
// dashboard owns the terminal.
func NewSinkOnlyEmitter(sink Emitter) *NDJSONEmitter {
	return &NDJSONEmitter{encoder: json.NewEncoder(os.Stdout), suppressJSON: true, sink: sink}
}

// SetSink installs or replaces the secondary sink at runtime.
func (e *NDJSONEmitter) SetSink(sink Emitter) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sink = sink
}

// Emit writes event to stdout (as NDJSON or a human-readable line) and
// forwards it to the secondary sink, if any.
func (e *NDJSONEmitter) Emit(event Event) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.sink != nil {
		e.sink.Emit(event)
	}

	if e.suppressJSON {
		return
	}

	if e.humanReadable {
		e.renderHumanReadable(event)
		return
	}

	e.encoder.Encode(event)
}

func (e *NDJSONEmitter) renderHumanReadable(event Event) {
	const (
		dim   = "\033[90m"
		reset = "\033[0m"
	)

	stateColors := map[string]string{
		StateStarted:   "\033[36m",
		StateRunning:   "\033[33m",
		StateCompleted: "\033[32m",
		StateFailed:    "\033[31m",
		StateCrashed:   "\033[31m",
		StateCached:    "\033[35m",
		StateRetrying:  "\033[33m",
	}
	color := stateColors[event.State]
	if color == "" {
		color = reset
	}

	ts := event.Timestamp.Format("15:04:05")
	name := event.RunnerName
	if name == "" {
		name = event.HookName
	}

	if name != "" {
		fmt.Printf("%s[%s]%s %s%-10s%s %-20s", dim, ts, reset, color, event.State, reset, name)
		if event.SampleID != "" {
			fmt.Printf(" (%s)", event.SampleID)
		}
		if event.DurationMs > 0 {
			secs := float64(event.DurationMs) / 1000.0
			if secs < 10 {
				fmt.Printf(" %5.1fs", secs)
			} else {
				fmt.Printf(" %5.0fs", secs)
			}
		}
		if event.Message != "" {
			fmt.Printf(" %s", event.Message)
		}
		fmt.Println()
		return
	}

	fmt.Printf("%s[%s]%s %s%-10s%s %s %s\n", dim, ts, reset, color, event.State, reset, event.RunID, event.Message)
}
