package algorithms

import (
	"testing"
)

func TestDriftCorrected_NextSleep(t *testing.T) {
	tests := []struct {
		name    string
		elapsed float64
		tick    int
		want    float64
	}{
		{name: "first tick on time", elapsed: 0.00, tick: 0, want: 1.00},
		{name: "overrun of two hundredths", elapsed: 5.02, tick: 5, want: 0.99},
		{name: "sub-hundredth lag rounds to aligned", elapsed: 9.995, tick: 10, want: 1.00},
		{name: "exactly one hundredth over", elapsed: 3.01, tick: 3, want: 0.99},
		{name: "just below threshold", elapsed: 3.004, tick: 3, want: 1.00},
		{name: "running early never lengthens", elapsed: 6.90, tick: 7, want: 1.00},
		{name: "large accumulated drift", elapsed: 51.20, tick: 50, want: 0.99},
		{name: "raw value rounds up into threshold", elapsed: 2.0051, tick: 2, want: 0.99},
	}

	policy := DriftCorrected{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := policy.NextSleep(tt.elapsed, tt.tick)
			if got != tt.want {
				t.Errorf("NextSleep(%v, %d) = %v, want %v (overrun %v)",
					tt.elapsed, tt.tick, got, tt.want, Overrun(tt.elapsed, tt.tick))
			}
		})
	}
}

func TestFixedInterval_NextSleep(t *testing.T) {
	policy := FixedInterval{}
	for _, elapsed := range []float64{0, 5.02, 51.2, 99.99} {
		if got := policy.NextSleep(elapsed, 3); got != NominalInterval {
			t.Errorf("NextSleep(%v) = %v, want %v", elapsed, got, NominalInterval)
		}
	}
}

func TestOverrun(t *testing.T) {
	tests := []struct {
		elapsed float64
		tick    int
		want    float64
	}{
		{0, 0, 0},
		{5.02, 5, 0.02},
		{10.00, 10, 0},
		{51.2, 50, 1.2},
		{6.9, 7, -0.1},
	}

	for _, tt := range tests {
		if got := Overrun(tt.elapsed, tt.tick); got != tt.want {
			t.Errorf("Overrun(%v, %d) = %v, want %v", tt.elapsed, tt.tick, got, tt.want)
		}
	}
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{1.234, 1.23},
		{1.235001, 1.24},
		{2.675, 2.67}, // binary value sits below the midpoint
		{0.125, 0.12}, // exact tie breaks to even
		{0.375, 0.38}, // exact tie breaks to even
		{-0.019999, -0.02},
	}

	for _, tt := range tests {
		if got := Round2(tt.in); got != tt.want {
			t.Errorf("Round2(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewIntervalPolicy(t *testing.T) {
	if _, ok := NewIntervalPolicy(true).(DriftCorrected); !ok {
		t.Error("NewIntervalPolicy(true) should return DriftCorrected")
	}
	if _, ok := NewIntervalPolicy(false).(FixedInterval); !ok {
		t.Error("NewIntervalPolicy(false) should return FixedInterval")
	}
}
