package factory

import (
	"context"
)

// report is the reporter loop. Each tick it samples the counter, hands the
// sample to the sink, asks the interval policy how long to sleep, and
// sleeps. It only returns once ctx is cancelled.
//
// The start time is captured on entry, so tick 0 reports an elapsed time of
// (close to) zero.
func (s *Supervisor) report(ctx context.Context) error {
	start := s.clock.Now()
	s.startedAt.Store(&start)

	for tick := 0; ; tick++ {
		elapsed := s.clock.Now().Sub(start)
		s.emit(Sample{Tick: tick, Elapsed: elapsed, Count: s.counter.Read()})

		sleep := s.policy.NextSleep(inUnits(elapsed, s.conf.unit), tick)
		if err := s.clock.Sleep(ctx, scale(sleep, s.conf.unit)); err != nil {
			s.lastTick = tick
			return err
		}
	}
}

// emit delivers one sample to the sink. The sink is only ever called from
// the reporter goroutine, or from Run after the reporter has exited.
func (s *Supervisor) emit(sample Sample) {
	s.logger.Debug("tick",
		"tick", sample.Tick,
		"elapsed", sample.Elapsed,
		"count", sample.Count,
	)
	s.conf.sink.Emit(sample)
}
