package algorithms

import (
	"strconv"
)

const (
	// NominalInterval is the reporter interval, in units.
	NominalInterval = 1.00
	// CorrectedInterval replaces NominalInterval on ticks that have overrun.
	CorrectedInterval = 0.99
	// OverrunThreshold is the smallest overrun that triggers a correction.
	OverrunThreshold = 0.01
)

// FixedInterval sleeps NominalInterval after every tick and lets drift
// accumulate.
type FixedInterval struct{}

// NextSleep always returns NominalInterval.
func (FixedInterval) NextSleep(float64, int) float64 {
	return NominalInterval
}

// DriftCorrected shortens the sleep by one hundredth of a unit whenever the
// measured elapsed time has run ahead of the tick index:
//
//	overrun = round(round(elapsed, 2) - tick, 2)
//	sleep   = 0.99 if overrun >= 0.01 else 1.00
//
// It is a fixed-step heuristic, not a deadline scheduler. It only ever
// shortens a sleep and never lengthens one, so an early tick is not pushed back.
type DriftCorrected struct{}

// NextSleep applies the correction law.
func (DriftCorrected) NextSleep(elapsed float64, tick int) float64 {
	if Overrun(elapsed, tick) >= OverrunThreshold {
		return CorrectedInterval
	}
	return NominalInterval
}

// Overrun returns how far the measured elapsed time (in units) is ahead of
// the nominal time of tick, at two decimal places.
func Overrun(elapsed float64, tick int) float64 {
	return Round2(Round2(elapsed) - float64(tick))
}

// Round2 rounds x to two decimal places using the exact binary value of x,
// breaking exact ties to even. 2.675 therefore rounds to 2.67 because its
// float64 value is slightly below the midpoint.
func Round2(x float64) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(x, 'f', 2, 64), 64)
	if err != nil {
		return x
	}
	return r
}
