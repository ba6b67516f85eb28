package spawn

import "sync/atomic"

// AbortSignal is a process-wide cooperative abort flag. The dispatcher polls
// it before starting each new task in a batch; setting it stops new work but
// lets in-flight tasks finish (the runner honors context cancellation at its
// own step boundaries).
type AbortSignal struct {
	set atomic.Bool
}

// NewAbortSignal creates an unset AbortSignal.
func NewAbortSignal() *AbortSignal {
	return &AbortSignal{}
}

// Set raises the flag. Safe to call from any goroutine, repeatedly.
func (s *AbortSignal) Set() {
	s.set.Store(true)
}

// Aborted reports whether the flag has been raised.
// A nil signal never aborts.
func (s *AbortSignal) Aborted() bool {
	if s == nil {
		return false
	}
	return s.set.Load()
}

// Reset clears the flag so the orchestrator can accept new work.
func (s *AbortSignal) Reset() {
	s.set.Store(false)
}
