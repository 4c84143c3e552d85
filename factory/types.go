package factory

import (
	"context"
	"time"
)

// Sample is one reporter observation: the counter value at a given tick.
//
// Fields:
//   - Tick: zero-based index of the reporter iteration
//   - Elapsed: wall-clock time since the reporter started
//   - Count: value of the shared counter when the sample was taken
type Sample struct {
	Tick    int
	Elapsed time.Duration
	Count   int64
}

// Seconds returns the elapsed time as float seconds.
func (s Sample) Seconds() float64 {
	return s.Elapsed.Seconds()
}

// Sink receives samples from the reporter. Emit is only ever called from the
// reporter goroutine, so implementations need no locking of their own.
type Sink interface {
	Emit(Sample)
}

// SinkFunc adapts a plain function to the Sink interface.
type SinkFunc func(Sample)

// Emit calls f(s).
func (f SinkFunc) Emit(s Sample) {
	f(s)
}

type discardSink struct{}

func (discardSink) Emit(Sample) {}

// WorkFunc performs one unit of work lasting roughly d. It must honor ctx
// cancellation. A non-nil error (other than a context error) marks the unit
// as failed and it is not counted.
type WorkFunc func(ctx context.Context, workerID int, d time.Duration) error

// WorkerStats is a point-in-time snapshot of one worker's progress.
type WorkerStats struct {
	ID        int
	Completed int64
	Failed    int64
}
