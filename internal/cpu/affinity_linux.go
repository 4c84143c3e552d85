//go:build linux

package cpu

import (
	"golang.org/x/sys/unix"
)

// pinToCore restricts the current OS thread to a single core and returns a
// function that puts the previous mask back.
// Must be called with the goroutine locked to its thread.
func pinToCore(core int) (restore func() error, err error) {
	var prev unix.CPUSet
	if err := unix.SchedGetaffinity(0, &prev); err != nil {
		return nil, err
	}

	var mask unix.CPUSet
	mask.Zero()
	mask.Set(core)

	if err := unix.SchedSetaffinity(0, &mask); err != nil { // 0 = calling thread
		return nil, err
	}

	return func() error {
		return unix.SchedSetaffinity(0, &prev)
	}, nil
}
