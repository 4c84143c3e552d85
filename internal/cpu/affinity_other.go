//go:build !linux && !windows

package cpu

import "errors"

var errUnsupported = errors.New("thread affinity not supported on this platform")

// pinToCore always fails where thread affinity is unavailable (e.g. macOS),
// leaving the goroutine locked but unpinned.
func pinToCore(int) (func() error, error) {
	return nil, errUnsupported
}
