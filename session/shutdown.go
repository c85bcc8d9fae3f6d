package session

import (
	"sync"
	"time"
)

// ShutdownSignal lets one goroutine (a signal handler, a UI quit key) tell
// the tracker loop to stop, and lets the tracker loop sleep its poll
// interval in a way that wakes immediately on shutdown instead of riding
// out the full interval.
type ShutdownSignal struct {
	mu       sync.Mutex
	cond     *sync.Cond
	shutdown bool
}

// NewShutdownSignal creates a signal in the not-shutdown state.
func NewShutdownSignal() *ShutdownSignal {
	s := &ShutdownSignal{}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// Trigger marks the signal as shutdown and wakes every waiter.
func (s *ShutdownSignal) Trigger() {
	s.mu.Lock()
	s.shutdown = true
	s.mu.Unlock()
	s.cond.Broadcast()
}

// IsShutdown reports whether Trigger has been called.
func (s *ShutdownSignal) IsShutdown() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shutdown
}

// Wait blocks for up to d, returning early (true) if Trigger is called
// before the duration elapses, or false if it times out first.
func (s *ShutdownSignal) Wait(d time.Duration) bool {
	deadline := time.Now().Add(d)

	timer := time.AfterFunc(d, s.cond.Broadcast)
	defer timer.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()
	for !s.shutdown && time.Now().Before(deadline) {
		s.cond.Wait()
	}
	return s.shutdown
}
