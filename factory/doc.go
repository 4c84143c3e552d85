// Package factory runs a small producer/reporter system: any number of
// workers repeatedly perform a unit of work of randomized duration and
// increment a shared counter, while a single reporter samples that counter
// once per time unit.
//
// The primary type is Supervisor. It owns the Counter, starts the workers and
// the reporter, and waits for them. Runs are unbounded: they end when the
// context passed to Run is cancelled, or once an optional unit limit is hit.
//
// # Basic Usage
//
//	sup, err := factory.New(
//	    factory.WithWorkerCount(3),
//	    factory.WithSink(factory.SinkFunc(func(s factory.Sample) {
//	        fmt.Printf("seconds: %0.2f boots: %d\n", s.Seconds(), s.Count)
//	    })),
//	)
//	if err != nil {
//	    return err
//	}
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
//	defer stop()
//	return sup.Run(ctx)
//
// # Work Durations
//
// Each work unit lasts a value drawn from a DurationStrategy, expressed in
// time units. The default draws uniformly from {1, 3, 5}. WithTimeUnit maps
// one unit to wall-clock time (one second by default), which lets tests run
// the same arithmetic at millisecond scale:
//
//	factory.New(
//	    factory.WithTimeUnit(10*time.Millisecond),
//	    factory.WithDurations(algorithms.DurationFixed, 1),
//	)
//
// # Reporter Drift Correction
//
// Sleeping exactly one unit per tick lets scheduling overhead accumulate, so
// tick 50 might report 51.20 seconds. By default the reporter compares the
// elapsed time, rounded to two decimals, with the tick index and sleeps 0.99
// units instead of 1.00 whenever it has overrun by at least 0.01. The rule is
// a fixed-step heuristic and is kept exactly as is. WithDriftCorrection(false)
// restores the naive fixed interval.
//
// # Configuration Options
//
//   - WithWorkerCount(n): number of workers (default 1, zero allowed)
//   - WithTimeUnit(d): wall-clock length of one unit (default 1s)
//   - WithDurations(type, values...): work duration distribution
//   - WithDriftCorrection(bool): reporter interval policy
//   - WithUnitLimit(k): stop after k completed units
//   - WithRateLimit(perSec, burst): cap the rate at which units start
//   - WithCPUAffinity(bool): pin worker goroutines to OS threads / cores
//   - WithSink(s), WithLogger(l), WithClock(c), WithWorkFunc(fn), WithOnUnitDone(fn)
//
// # Errors
//
// New rejects bad configuration with an error wrapping ErrInvalidConfig.
// Cancellation is not an error: Run returns nil when its context is done.
// A work unit that fails or panics only affects its own worker.
package factory
