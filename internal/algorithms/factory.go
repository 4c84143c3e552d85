package algorithms

import "fmt"

// DurationType selects a work duration distribution.
type DurationType int

const (
	// DurationRandomChoice draws uniformly from a fixed set (default).
	DurationRandomChoice DurationType = iota
	// DurationFixed always returns the first value of the set.
	DurationFixed
	// DurationSequence cycles through the set in order.
	DurationSequence
)

// DefaultDurations is the reference work duration set, in units.
var DefaultDurations = []float64{1, 3, 5}

// String returns the name used in config files and flags.
func (t DurationType) String() string {
	switch t {
	case DurationFixed:
		return "fixed"
	case DurationSequence:
		return "sequence"
	default:
		return "random"
	}
}

// ParseDurationType maps a config name to a DurationType.
func ParseDurationType(name string) (DurationType, error) {
	switch name {
	case "", "random":
		return DurationRandomChoice, nil
	case "fixed":
		return DurationFixed, nil
	case "sequence":
		return DurationSequence, nil
	default:
		return 0, fmt.Errorf("unknown duration strategy %q", name)
	}
}

// NewDurationStrategy creates a duration strategy over values.
// values must be non-empty and non-negative; callers validate first.
func NewDurationStrategy(durationType DurationType, values []float64) DurationStrategy {
	vals := make([]float64, len(values))
	copy(vals, values)

	switch durationType {
	case DurationFixed:
		return newFixedDuration(vals[0])

	case DurationSequence:
		return newSequenceDuration(vals)

	default:
		return newRandomChoice(vals)
	}
}

// NewIntervalPolicy returns the drift-corrected policy when corrected is
// true, otherwise the naive fixed-interval one.
func NewIntervalPolicy(corrected bool) IntervalPolicy {
	if corrected {
		return DriftCorrected{}
	}
	return FixedInterval{}
}
