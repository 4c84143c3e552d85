//go:build windows

package cpu

import (
	"syscall"
)

var (
	kernel32              = syscall.NewLazyDLL("kernel32.dll")
	setThreadAffinityMask = kernel32.NewProc("SetThreadAffinityMask")
	getCurrentThread      = kernel32.NewProc("GetCurrentThread")
)

// pinToCore restricts the current OS thread to a single core and returns a
// function that puts the previous mask back.
// Must be called with the goroutine locked to its thread.
func pinToCore(core int) (restore func() error, err error) {
	handle, _, _ := getCurrentThread.Call()

	// Bit N selects core N.
	prev, _, callErr := setThreadAffinityMask.Call(handle, uintptr(1)<<uint(core))
	if prev == 0 {
		return nil, callErr
	}

	return func() error {
		if r, _, callErr := setThreadAffinityMask.Call(handle, prev); r == 0 {
			return callErr
		}
		return nil
	}, nil
}
