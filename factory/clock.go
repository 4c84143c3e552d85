package factory

import (
	"context"
	"time"
)

// Clock is the time source used by workers and the reporter.
// Tests substitute a fake to make timing deterministic.
type Clock interface {
	Now() time.Time

	// Sleep suspends the calling goroutine for d, returning ctx.Err()
	// early if ctx is cancelled first.
	Sleep(ctx context.Context, d time.Duration) error
}

type realClock struct{}

// RealClock returns a Clock backed by the runtime's monotonic clock and timers.
func RealClock() Clock {
	return realClock{}
}

func (realClock) Now() time.Time {
	return time.Now()
}

func (realClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
