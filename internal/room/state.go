// Package room maintains the client's local mirror of channel state. The
// server is the sole writer of truth: every mutation is a total replacement
// keyed by event type, applied from the inbound-frame path only. The mirror
// survives reconnects as a best-effort cache; the next snapshot from the
// server always wins.
package room

import (
	"sync"
	"time"

	"github.com/foxseedlab/rvrbot/internal/wire"
)

const (
	historyCap = 100

	// voteSettleDelay gives the server's track transition time to settle
	// before the automatic favorable vote goes out.
	voteSettleDelay = 2 * time.Second
)

// Scheduler defers the store's one side effect (the post-track-change vote)
// without the store owning a timer of its own.
type Scheduler interface {
	AfterFunc(d time.Duration, f func())
}

// State is the local mirror of roster, DJ queue, meter, history and the
// current track.
type State struct {
	mu           sync.Mutex
	roster       map[string]wire.User
	djQueue      []string
	voteTally    map[string]wire.Vote
	trackHistory []wire.Track
	currentTrack *wire.Track

	sched Scheduler
	vote  func()
}

func NewState() *State {
	return &State{
		roster:    make(map[string]wire.User),
		voteTally: make(map[string]wire.Vote),
	}
}

// BindSession points the store's scheduled side effects at the current
// connection. Called by the supervisor at the start of every attempt; the
// previous session's timer set is cancelled by its owner on teardown.
func (s *State) BindSession(sched Scheduler, vote func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sched = sched
	s.vote = vote
}

// ApplyRosterSnapshot replaces the roster wholesale.
func (s *State) ApplyRosterSnapshot(users []wire.User) {
	roster := make(map[string]wire.User, len(users))
	for _, u := range users {
		roster[u.ID] = u
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roster = roster
}

// FindSelf scans the roster for this bot's own entry: a bot-typed user whose
// display name matches the configured bot name.
func (s *State) FindSelf(botName string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.roster {
		if u.Type == wire.UserTypeBot && u.UserName == botName {
			return u.ID, true
		}
	}
	return "", false
}

// ApplyDjUpdate replaces the ordered DJ queue.
func (s *State) ApplyDjUpdate(djs []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.djQueue = append([]string(nil), djs...)
}

// ApplyVoteUpdate replaces the per-user vote tally.
func (s *State) ApplyVoteUpdate(voting map[string]wire.Vote) {
	tally := make(map[string]wire.Vote, len(voting))
	for id, v := range voting {
		tally[id] = v
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.voteTally = tally
}

// ApplyTrackHistoryAppend appends tracks to the history, evicting the oldest
// entries beyond the cap.
func (s *State) ApplyTrackHistoryAppend(tracks []wire.Track) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trackHistory = append(s.trackHistory, tracks...)
	if n := len(s.trackHistory); n > historyCap {
		s.trackHistory = append([]wire.Track(nil), s.trackHistory[n-historyCap:]...)
	}
}

// ApplyCurrentTrack records the track change and schedules the automatic
// favorable vote for it.
func (s *State) ApplyCurrentTrack(t wire.Track) {
	s.mu.Lock()
	s.currentTrack = &t
	sched, vote := s.sched, s.vote
	s.mu.Unlock()
	if sched != nil && vote != nil {
		sched.AfterFunc(voteSettleDelay, vote)
	}
}

// Roster returns a snapshot of the roster.
func (s *State) Roster() map[string]wire.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]wire.User, len(s.roster))
	for id, u := range s.roster {
		out[id] = u
	}
	return out
}

// DjQueue returns a snapshot of the DJ queue.
func (s *State) DjQueue() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.djQueue...)
}

// VoteTally returns a snapshot of the current track's vote tally.
func (s *State) VoteTally() map[string]wire.Vote {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]wire.Vote, len(s.voteTally))
	for id, v := range s.voteTally {
		out[id] = v
	}
	return out
}

// TrackHistory returns a snapshot of the play history, oldest first.
func (s *State) TrackHistory() []wire.Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]wire.Track(nil), s.trackHistory...)
}

// CurrentTrack returns the now-playing track, or nil before the first track
// event.
func (s *State) CurrentTrack() *wire.Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentTrack == nil {
		return nil
	}
	t := *s.currentTrack
	return &t
}
