// Package schedule provides a set of cancellable timers tied to a single
// session's lifetime, so a reconnect can drop all pending scheduled work in
// one call.
package schedule

import (
	"sync"
	"time"
)

// TimerSet owns AfterFunc timers on behalf of one session.
type TimerSet struct {
	mu      sync.Mutex
	seq     int
	timers  map[int]*time.Timer
	stopped bool
}

func NewTimerSet() *TimerSet {
	return &TimerSet{timers: make(map[int]*time.Timer)}
}

// AfterFunc schedules f to run after d. Once the set has been stopped,
// further calls are ignored.
func (s *TimerSet) AfterFunc(d time.Duration, f func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	id := s.seq
	s.seq++
	s.timers[id] = time.AfterFunc(d, func() {
		s.mu.Lock()
		delete(s.timers, id)
		stopped := s.stopped
		s.mu.Unlock()
		if !stopped {
			f()
		}
	})
}

// StopAll cancels every pending timer and marks the set terminal.
func (s *TimerSet) StopAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
}

// Pending returns the number of timers that have not yet fired.
func (s *TimerSet) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}
