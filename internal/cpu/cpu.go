// Package cpu locks worker goroutines to OS threads and, where the platform
// supports it, pins those threads to a core.
package cpu

import "runtime"

// SetupWorkerAffinity locks the calling goroutine to its OS thread and pins
// the thread to core workerID % NumCPU. Pinning is best effort: on failure,
// or on platforms without thread affinity, the goroutine is only locked.
//
// The returned function restores the thread's previous affinity and unlocks
// it. It must be called from the same goroutine, typically via defer.
func SetupWorkerAffinity(workerID int) (release func()) {
	runtime.LockOSThread()

	restore, err := pinToCore(coreFor(workerID))
	if err != nil {
		return runtime.UnlockOSThread
	}

	return func() {
		// A thread we cannot restore must not go back to the scheduler's pool:
		// leaving it locked makes the runtime discard it when the goroutine exits.
		if restore() != nil {
			return
		}
		runtime.UnlockOSThread()
	}
}

// coreFor maps a worker id onto the available cores.
func coreFor(workerID int) int {
	n := runtime.NumCPU()
	if workerID < 0 {
		workerID = -workerID
	}
	return workerID % n
}
