package factory

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sourcegraph/conc/panics"
	"github.com/utkarsh5026/bootfactory/internal/cpu"
)

// workerState tracks one worker's progress. Fields are atomics so Stats can
// read them while the worker runs.
type workerState struct {
	id        int
	completed atomic.Int64
	failed    atomic.Int64
}

func (ws *workerState) snapshot() WorkerStats {
	return WorkerStats{
		ID:        ws.id,
		Completed: ws.completed.Load(),
		Failed:    ws.failed.Load(),
	}
}

// worker is the work loop run by each worker goroutine. It draws a duration,
// performs one work unit, and increments the shared counter, until ctx is
// cancelled or the unit budget runs out.
//
// A unit interrupted by cancellation is never counted. A unit that fails or
// panics is recorded against this worker only; the loop carries on after a
// short backoff.
func (s *Supervisor) worker(ctx context.Context, ws *workerState) error {
	if s.conf.pinCPU {
		release := cpu.SetupWorkerAffinity(ws.id)
		defer release()
	}

	log := s.logger.With("worker", ws.id)
	log.Debug("worker started")

	consecutiveFailures := 0
	for {
		if !s.claimUnit() {
			log.Debug("unit budget exhausted, worker exiting")
			return nil
		}

		if s.conf.rateLimiter != nil {
			if err := s.waitRate(ctx); err != nil {
				s.releaseUnit()
				return err
			}
		}

		d := scale(s.durations.Next(), s.conf.unit)
		err := s.performUnit(ctx, ws.id, d)
		if err != nil {
			s.releaseUnit()
			if ctx.Err() != nil {
				log.Debug("worker cancelled mid-unit")
				return ctx.Err()
			}

			ws.failed.Add(1)
			consecutiveFailures++
			log.Warn("work unit failed", "error", err, "consecutive_failures", consecutiveFailures)

			if err := s.clock.Sleep(ctx, calcFailureBackoff(s.conf.unit, consecutiveFailures)); err != nil {
				return err
			}
			continue
		}

		consecutiveFailures = 0
		count := s.counter.Increment()
		ws.completed.Add(1)
		if s.conf.onUnitDone != nil {
			s.conf.onUnitDone(ws.id, count)
		}
	}
}

// performUnit runs one work unit with panic recovery so a misbehaving unit
// cannot take down sibling workers or the reporter.
func (s *Supervisor) performUnit(ctx context.Context, workerID int, d time.Duration) (err error) {
	var pc panics.Catcher
	pc.Try(func() {
		err = s.work(ctx, workerID, d)
	})

	if r := pc.Recovered(); r != nil {
		return r.AsError()
	}
	return err
}

// waitRate blocks until the rate limiter admits one more unit.
//
// Wait refuses early when the next slot lies beyond the ctx deadline. The
// run is over in that case, so the worker waits for the deadline and reports
// it. Any other refusal is returned as is.
func (s *Supervisor) waitRate(ctx context.Context) error {
	err := s.conf.rateLimiter.Wait(ctx)
	if err == nil {
		return nil
	}

	if _, hasDeadline := ctx.Deadline(); hasDeadline || ctx.Err() != nil {
		<-ctx.Done()
		return ctx.Err()
	}
	return fmt.Errorf("rate limiter: %w", err)
}

// sleepWork is the default work unit: it just takes d.
func (s *Supervisor) sleepWork(ctx context.Context, _ int, d time.Duration) error {
	return s.clock.Sleep(ctx, d)
}

// claimUnit reserves one unit from the budget. It always succeeds when no
// unit limit is configured.
func (s *Supervisor) claimUnit() bool {
	if s.conf.unitLimit == 0 {
		return true
	}

	for {
		claimed := s.claimed.Load()
		if claimed >= s.conf.unitLimit {
			return false
		}
		if s.claimed.CompareAndSwap(claimed, claimed+1) {
			return true
		}
	}
}

// releaseUnit returns a claimed but uncompleted unit to the budget.
func (s *Supervisor) releaseUnit() {
	if s.conf.unitLimit == 0 {
		return
	}
	s.claimed.Add(-1)
}
