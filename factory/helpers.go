package factory

import (
	"context"
	"errors"
	"math"
	"time"
)

const maxFailureBackoffExp = 6

// calcFailureBackoff returns how long a worker pauses after consecutive
// failed work units. It starts at a tenth of a unit and doubles per failure,
// capped at 6.4 units.
//   - 1 failure: unit/10
//   - 2 failures: unit/5
//   - 3 failures: 2*unit/5
func calcFailureBackoff(unit time.Duration, failures int) time.Duration {
	if failures <= 0 {
		return 0
	}

	exp := min(failures-1, maxFailureBackoffExp)
	backoffFactor := math.Pow(2, float64(exp))
	return time.Duration(float64(unit) / 10 * backoffFactor)
}

// scale converts a value in units to a duration.
func scale(units float64, unit time.Duration) time.Duration {
	return time.Duration(units * float64(unit))
}

// inUnits converts a duration to a value in units.
func inUnits(d, unit time.Duration) float64 {
	return float64(d) / float64(unit)
}

// isCancellation reports whether err only signals that the run was asked to stop.
func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
