package exec

import "sync"

// StopFlag is the cooperative-cancellation primitive spec §5/§6 names: an
// atomic flag guarded by a mutex, mirroring
// original_source/interpretor.py's go_sem/stop_check pair. Run observes it
// between instructions and between one-second sleep slices, so a pending
// Stop terminates within roughly one second.
type StopFlag struct {
	mu      sync.Mutex
	stopped bool
}

// Stop requests termination of the in-flight Run.
func (f *StopFlag) Stop() {
	f.mu.Lock()
	f.stopped = true
	f.mu.Unlock()
}

// Stopped reports whether Stop has been called since the last Reset.
func (f *StopFlag) Stopped() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stopped
}

// Reset clears the flag so the same StopFlag can guard a subsequent Run.
func (f *StopFlag) Reset() {
	f.mu.Lock()
	f.stopped = false
	f.mu.Unlock()
}
