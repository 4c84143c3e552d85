package factory

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/utkarsh5026/bootfactory/internal/algorithms"
	"golang.org/x/sync/errgroup"
)

// Supervisor owns the shared counter and runs the workers and the reporter
// that share it.
//
// A Supervisor may be run more than once, one run at a time. The counter and
// worker statistics carry over between runs and are never reset.
type Supervisor struct {
	conf      *config
	counter   Counter
	workers   []*workerState
	durations algorithms.DurationStrategy
	policy    algorithms.IntervalPolicy
	work      WorkFunc
	clock     Clock
	logger    *slog.Logger

	running   atomic.Bool
	claimed   atomic.Int64
	startedAt atomic.Pointer[time.Time]
	lastTick  int // written by the reporter goroutine, read after it exits
}

// New validates the options and returns a Supervisor ready to Run.
// Nothing is started until Run is called.
//
// Default configuration:
//   - one worker
//   - durations drawn uniformly from {1, 3, 5} units of one second
//   - drift-corrected reporter interval
//   - samples discarded, logs discarded
//
// Returns an error wrapping ErrInvalidConfig if any option is out of range.
//
// Example:
//
//	sup, err := factory.New(
//	    factory.WithWorkerCount(4),
//	    factory.WithSink(factory.SinkFunc(func(s factory.Sample) {
//	        fmt.Printf("seconds: %0.2f boots: %d\n", s.Seconds(), s.Count)
//	    })),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = sup.Run(ctx) // returns nil once ctx is cancelled
func New(opts ...Option) (*Supervisor, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	durations := cfg.durationSource
	if durations == nil {
		durations = algorithms.NewDurationStrategy(cfg.durationType, cfg.durations)
	}

	s := &Supervisor{
		conf:      cfg,
		workers:   make([]*workerState, cfg.workerCount),
		durations: durations,
		policy:    algorithms.NewIntervalPolicy(cfg.driftCorrection),
		clock:     cfg.clock,
		logger:    cfg.logger,
	}
	for i := range s.workers {
		s.workers[i] = &workerState{id: i}
	}

	s.work = cfg.workFunc
	if s.work == nil {
		s.work = s.sleepWork
	}

	return s, nil
}

// Run starts the workers and the reporter and blocks until they have all
// stopped.
//
// Without a unit limit that only happens when ctx is cancelled, which is the
// normal way to end a run: Run then returns nil once every goroutine has
// unwound, within one pending sleep. With a unit limit, Run also returns nil
// after the last unit completes and a final sample has been emitted.
//
// Returns ErrAlreadyRunning if another Run is in progress.
func (s *Supervisor) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer s.running.Store(false)

	s.logger.Info("factory starting",
		"workers", len(s.workers),
		"unit", s.conf.unit,
		"drift_correction", s.conf.driftCorrection,
		"unit_limit", s.conf.unitLimit,
	)

	reporterCtx, stopReporter := context.WithCancel(ctx)
	defer stopReporter()

	reporterDone := make(chan error, 1)
	go func() {
		reporterDone <- s.report(reporterCtx)
	}()

	g, workerCtx := errgroup.WithContext(ctx)
	for _, ws := range s.workers {
		g.Go(func() error {
			return s.worker(workerCtx, ws)
		})
	}

	workerErr := g.Wait()
	limitReached := workerErr == nil && s.conf.unitLimit > 0
	if limitReached || (workerErr != nil && !isCancellation(workerErr)) {
		stopReporter()
	}

	reporterErr := <-reporterDone

	if limitReached {
		s.emit(Sample{
			Tick:    s.lastTick + 1,
			Elapsed: s.Elapsed(),
			Count:   s.counter.Read(),
		})
		s.logger.Info("unit limit reached", "count", s.counter.Read())
	}

	if workerErr != nil && !isCancellation(workerErr) {
		s.logger.Error("factory stopped with error", "error", workerErr)
		return workerErr
	}
	if reporterErr != nil && !isCancellation(reporterErr) {
		return reporterErr
	}

	s.logger.Info("factory stopped", "count", s.counter.Read())
	return nil
}

// Counter returns the shared counter.
func (s *Supervisor) Counter() *Counter {
	return &s.counter
}

// Stats returns a snapshot of every worker's progress, ordered by worker id.
func (s *Supervisor) Stats() []WorkerStats {
	stats := make([]WorkerStats, len(s.workers))
	for i, ws := range s.workers {
		stats[i] = ws.snapshot()
	}
	return stats
}

// Elapsed returns the time since the reporter of the latest run started, or
// zero if Run has never been called.
func (s *Supervisor) Elapsed() time.Duration {
	start := s.startedAt.Load()
	if start == nil {
		return 0
	}
	return s.clock.Now().Sub(*start)
}
