package factory

import (
	"log/slog"
	"time"

	"github.com/utkarsh5026/bootfactory/internal/algorithms"
	"golang.org/x/time/rate"
)

// Option is a functional option for configuring a Supervisor.
type Option func(*config)

type config struct {
	workerCount     int
	unit            time.Duration
	durationType    algorithms.DurationType
	durations       []float64
	durationSource  algorithms.DurationStrategy
	driftCorrection bool
	unitLimit       int64
	rateLimiter     *rate.Limiter
	pinCPU          bool

	clock      Clock
	sink       Sink
	logger     *slog.Logger
	workFunc   WorkFunc
	onUnitDone func(workerID int, count int64)
}

func defaultConfig() *config {
	return &config{
		workerCount:     1,
		unit:            time.Second,
		durationType:    algorithms.DurationRandomChoice,
		durations:       algorithms.DefaultDurations,
		driftCorrection: true,
		clock:           RealClock(),
		sink:            discardSink{},
		logger:          slog.New(slog.DiscardHandler),
	}
}

// WithWorkerCount sets the number of concurrent workers. Zero is allowed
// and runs the reporter alone; negative values are rejected by New.
// Defaults to 1.
func WithWorkerCount(count int) Option {
	return func(cfg *config) {
		cfg.workerCount = count
	}
}

// WithTimeUnit sets the wall-clock length of one time unit. Work durations
// and the reporter interval are expressed in units. Defaults to time.Second.
func WithTimeUnit(unit time.Duration) Option {
	return func(cfg *config) {
		cfg.unit = unit
	}
}

// WithDurations sets the set of work durations (in units) and how a value is
// drawn from it for each work unit. Defaults to a uniform random choice from
// {1, 3, 5}.
//
// Example:
//
//	WithDurations(algorithms.DurationSequence, 1, 2) // 1, 2, 1, 2, ...
func WithDurations(durationType algorithms.DurationType, values ...float64) Option {
	return func(cfg *config) {
		cfg.durationType = durationType
		cfg.durations = values
		cfg.durationSource = nil
	}
}

// WithDurationStrategy installs a custom duration strategy, overriding
// WithDurations.
func WithDurationStrategy(strategy algorithms.DurationStrategy) Option {
	return func(cfg *config) {
		cfg.durationSource = strategy
	}
}

// WithDriftCorrection toggles the reporter's drift correction. When disabled
// the reporter sleeps a fixed interval and drift accumulates. Enabled by default.
func WithDriftCorrection(enabled bool) Option {
	return func(cfg *config) {
		cfg.driftCorrection = enabled
	}
}

// WithUnitLimit stops the run after limit work units have completed across
// all workers. The reporter emits one final sample and Run returns nil.
// Zero (the default) means run until cancelled.
func WithUnitLimit(limit int64) Option {
	return func(cfg *config) {
		cfg.unitLimit = limit
	}
}

// WithRateLimit caps how many work units may start per second across all
// workers. burst is the maximum number started back to back.
// If not specified, no rate limiting is applied.
//
// Example:
//
//	WithRateLimit(10, 5) // at most 10 units/sec with a burst of 5
func WithRateLimit(unitsPerSecond float64, burst int) Option {
	return func(cfg *config) {
		if unitsPerSecond > 0 && burst > 0 {
			cfg.rateLimiter = rate.NewLimiter(rate.Limit(unitsPerSecond), burst)
		}
	}
}

// WithCPUAffinity locks each worker goroutine to its own OS thread and, where
// the platform allows it, pins that thread to core workerID % NumCPU.
func WithCPUAffinity(enabled bool) Option {
	return func(cfg *config) {
		cfg.pinCPU = enabled
	}
}

// WithClock replaces the real clock. Intended for tests.
func WithClock(clock Clock) Option {
	return func(cfg *config) {
		if clock != nil {
			cfg.clock = clock
		}
	}
}

// WithSink sets where reporter samples go. Defaults to discarding them.
func WithSink(sink Sink) Option {
	return func(cfg *config) {
		if sink != nil {
			cfg.sink = sink
		}
	}
}

// WithLogger sets the structured logger. Defaults to a discard logger.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithWorkFunc replaces the default work unit (a sleep of the drawn
// duration). fn receives the drawn duration already scaled by the time unit.
func WithWorkFunc(fn WorkFunc) Option {
	return func(cfg *config) {
		cfg.workFunc = fn
	}
}

// WithOnUnitDone registers a hook called after each successful work unit
// with the worker id and the counter value that increment produced.
// The hook runs on the worker goroutine and must be safe for concurrent use.
func WithOnUnitDone(fn func(workerID int, count int64)) Option {
	return func(cfg *config) {
		cfg.onUnitDone = fn
	}
}

// validate checks the configuration before anything is started.
func (cfg *config) validate() error {
	if cfg.workerCount < 0 {
		return newConfigError("worker_count", cfg.workerCount, "must not be negative")
	}
	if cfg.unit <= 0 {
		return newConfigError("unit", cfg.unit, "must be positive")
	}
	if cfg.durationSource == nil {
		if len(cfg.durations) == 0 {
			return newConfigError("durations", cfg.durations, "must not be empty")
		}
		for _, d := range cfg.durations {
			if d < 0 {
				return newConfigError("durations", cfg.durations, "must not contain negative values")
			}
		}
	}
	if cfg.unitLimit < 0 {
		return newConfigError("unit_limit", cfg.unitLimit, "must not be negative")
	}
	if cfg.unitLimit > 0 && cfg.workerCount == 0 {
		return newConfigError("unit_limit", cfg.unitLimit, "can never be reached without workers")
	}
	return nil
}
