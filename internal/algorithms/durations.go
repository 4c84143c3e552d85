package algorithms

import (
	"math/rand"
	"sync"
	"sync/atomic"
	"time"
)

// randomChoice picks uniformly from a discrete set of durations.
type randomChoice struct {
	values []float64
	rng    *rand.Rand
	mu     sync.Mutex // rand.Rand is not safe for concurrent use
}

func newRandomChoice(values []float64) *randomChoice {
	return &randomChoice{
		values: values,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())), // #nosec G404 -- simulated work, not security sensitive
	}
}

func (rc *randomChoice) Next() float64 {
	rc.mu.Lock()
	i := rc.rng.Intn(len(rc.values))
	rc.mu.Unlock()
	return rc.values[i]
}

// fixedDuration always returns the same value. Useful for tests and for
// measuring pure scheduling overhead.
type fixedDuration struct {
	value float64
}

func newFixedDuration(value float64) *fixedDuration {
	return &fixedDuration{value: value}
}

func (fd *fixedDuration) Next() float64 {
	return fd.value
}

// sequenceDuration cycles through values in order, shared across callers.
type sequenceDuration struct {
	values []float64
	next   atomic.Uint64
}

func newSequenceDuration(values []float64) *sequenceDuration {
	return &sequenceDuration{values: values}
}

func (sd *sequenceDuration) Next() float64 {
	i := sd.next.Add(1) - 1
	return sd.values[i%uint64(len(sd.values))]
}
