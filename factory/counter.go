package factory

import "sync/atomic"

// Counter is the shared work counter. Workers increment it, the reporter
// reads it. The zero value is ready to use and starts at 0.
//
// Every operation is a single atomic instruction, so concurrent increments
// are applied in some total order and a read never observes a half-applied
// increment.
type Counter struct {
	n atomic.Int64
}

// Increment adds one completed work unit and returns the new value.
func (c *Counter) Increment() int64 {
	return c.n.Add(1)
}

// Read returns the number of work units completed so far.
func (c *Counter) Read() int64 {
	return c.n.Load()
}
