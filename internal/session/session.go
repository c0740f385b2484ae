package session

import (
	"github.com/google/uuid"

	"github.com/foxseedlab/rvrbot/internal/liveness"
	"github.com/foxseedlab/rvrbot/internal/schedule"
)

// ConnState tracks one connection attempt through its lifecycle.
type ConnState int

const (
	StateDisconnected ConnState = iota
	StateConnecting
	StateOpen
	StateAwaitingJoin
	StateJoined
	StateClosing
)

func (s ConnState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateAwaitingJoin:
		return "awaiting_join"
	case StateJoined:
		return "joined"
	case StateClosing:
		return "closing"
	}
	return "unknown"
}

// Session is the mutable aggregate owned by the supervisor for the lifetime
// of a single connection attempt. A fresh Session is created per attempt and
// discarded, never reused, on disconnect. Room state lives elsewhere and
// survives it.
type Session struct {
	ID        string
	State     ConnState
	ChannelID string
	SelfID    string
	Timers    *schedule.TimerSet
	Monitor   *liveness.Monitor
}

func newSession(channelID string) *Session {
	return &Session{
		ID:        uuid.NewString(),
		State:     StateDisconnected,
		ChannelID: channelID,
		Timers:    schedule.NewTimerSet(),
		Monitor:   liveness.NewMonitor(),
	}
}
