package logctx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type recordingSink struct {
	events []Event
}

func (r *recordingSink) Emit(e Event) {
	r.events = append(r.events, e)
}

func TestNDJSONEmitterForwardsToSink(t *testing.T) {
	sink := &recordingSink{}
	e := NewNDJSONEmitterWithSink(sink)

	ev := Event{RunID: "run-1", RunnerName: "fetch", State: StateCompleted, Timestamp: time.Unix(0, 0)}
	e.Emit(ev)

	require := assert.New(t)
	require.Len(sink.events, 1)
	require.Equal("fetch", sink.events[0].RunnerName)
}

func TestSinkOnlyEmitterSuppressesStdout(t *testing.T) {
	sink := &recordingSink{}
	e := NewSinkOnlyEmitter(sink)

	e.Emit(Event{RunID: "run-1", State: StateStarted, Timestamp: time.Unix(0, 0)})

	assert.Len(t, sink.events, 1)
	assert.True(t, e.suppressJSON)
}

func TestSetSinkReplacesTarget(t *testing.T) {
	e := NewNDJSONEmitter()
	sink := &recordingSink{}
	e.SetSink(sink)

	e.Emit(Event{RunID: "run-1", State: StateFailed, Timestamp: time.Unix(0, 0)})

	assert.Len(t, sink.events, 1)
	assert.Equal(t, StateFailed, sink.events[0].State)
}

func TestHumanReadableEmitterDoesNotPanic(t *testing.T) {
	e := NewNDJSONEmitterWithHumanReadable()
	assert.NotPanics(t, func() {
		e.Emit(Event{RunID: "run-1", RunnerName: "fetch", SampleID: "s1", State: StateCompleted, DurationMs: 1500, Timestamp: time.Now()})
		e.Emit(Event{RunID: "run-1", State: StateStarted, Message: "starting run", Timestamp: time.Now()})
	})
}
