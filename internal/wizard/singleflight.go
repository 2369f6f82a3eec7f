package wizard

import "sync"

// SingleFlight guards per-step persistence: at most one remote persist call
// per step at a time. The sync gateway itself is a stateless pass-through, so
// dedup of double-submits lives here with the caller.
type SingleFlight struct {
	mu       sync.Mutex
	inflight map[StepKey]bool
}

// NewSingleFlight creates an empty guard.
func NewSingleFlight() *SingleFlight {
	return &SingleFlight{inflight: make(map[StepKey]bool)}
}

// Begin marks a persist for step as in flight. It returns false, without
// marking, when one is already running; the caller should drop the duplicate
// submission rather than queue it.
func (s *SingleFlight) Begin(step StepKey) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inflight[step] {
		return false
	}
	s.inflight[step] = true
	return true
}

// Done clears the in-flight mark for step.
func (s *SingleFlight) Done(step StepKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, step)
}

// InFlight reports whether a persist for step is currently running.
func (s *SingleFlight) InFlight(step StepKey) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inflight[step]
}
