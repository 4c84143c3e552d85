package algorithms

// DurationStrategy draws the length of the next work unit, in time units.
//
// Implementations must be safe for concurrent use: every worker goroutine
// shares the same strategy.
type DurationStrategy interface {
	// Next returns the duration of the next work unit in units (>= 0).
	Next() float64
}

// IntervalPolicy decides how long the reporter sleeps after a tick.
type IntervalPolicy interface {
	// NextSleep returns the sleep in units, given the measured elapsed time
	// (in units) and the zero-based tick index.
	NextSleep(elapsed float64, tick int) float64
}
