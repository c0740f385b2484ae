// Package liveness tracks keep-alive traffic in both directions. The monitor
// performs no I/O itself; the connection supervisor reports timestamps to it
// and asks whether a self-initiated signal is due.
package liveness

import (
	"sync"
	"time"
)

// selfSignalAfter is how long the client waits for a server probe before
// speaking up on its own. Some deployments expect the client to self-report
// even without being asked.
const selfSignalAfter = 25 * time.Second

type Monitor struct {
	mu           sync.Mutex
	lastInbound  time.Time
	lastOutbound time.Time
}

func NewMonitor() *Monitor {
	return &Monitor{}
}

// RecordInbound notes a liveness probe received from the server.
func (m *Monitor) RecordInbound(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastInbound = t
}

// RecordOutbound notes a liveness signal sent to the server.
func (m *Monitor) RecordOutbound(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastOutbound = t
}

// SelfSignalDue reports whether no inbound probe has been observed within the
// last 25 seconds. A connection that has never seen a probe is due.
func (m *Monitor) SelfSignalDue(now time.Time) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.lastInbound.IsZero() {
		return true
	}
	return now.Sub(m.lastInbound) >= selfSignalAfter
}

// LastInbound returns the time of the most recent server probe.
func (m *Monitor) LastInbound() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastInbound
}

// LastOutbound returns the time of the most recent signal sent.
func (m *Monitor) LastOutbound() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastOutbound
}
