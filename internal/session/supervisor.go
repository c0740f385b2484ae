// Package session owns the connection lifecycle: dialing the gateway,
// identifying the bot, joining its channel, routing inbound frames, keeping
// the connection alive and reconnecting after abnormal closures.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/foxseedlab/rvrbot/internal/archive"
	"github.com/foxseedlab/rvrbot/internal/collab"
	"github.com/foxseedlab/rvrbot/internal/command"
	"github.com/foxseedlab/rvrbot/internal/config"
	"github.com/foxseedlab/rvrbot/internal/gateway"
	"github.com/foxseedlab/rvrbot/internal/notify"
	"github.com/foxseedlab/rvrbot/internal/room"
	"github.com/foxseedlab/rvrbot/internal/wire"
)

const (
	// reconnectBaseDelay is the wait before the first retry after an
	// abnormal closure. Subsequent consecutive failures double it up to
	// reconnectMaxDelay; any successful join resets the backoff.
	reconnectBaseDelay = 5 * time.Second
	reconnectMaxDelay  = 60 * time.Second

	livenessTickInterval = 30 * time.Second
	handshakeTimeout     = 10 * time.Second

	// joinRequestID tags the join intent so its acknowledgement is
	// correlatable in server logs.
	joinRequestID int64 = 1
)

// Supervisor drives the bot's single gateway connection. One Supervisor is
// constructed per process; each connection attempt gets a fresh Session while
// the room state mirror and the story arbiter persist across attempts.
type Supervisor struct {
	cfg      *config.Config
	dialer   gateway.Dialer
	store    *room.State
	arch     archive.Archive
	notifier notify.Sender

	arbiter    *collab.Arbiter
	dispatcher *command.Dispatcher

	mu   sync.Mutex
	conn gateway.Conn
	sess *Session
}

func NewSupervisor(
	cfg *config.Config,
	dialer gateway.Dialer,
	store *room.State,
	arch archive.Archive,
	notifier notify.Sender,
) *Supervisor {
	return &Supervisor{
		cfg:      cfg,
		dialer:   dialer,
		store:    store,
		arch:     arch,
		notifier: notifier,
	}
}

// Attach wires the chat consumers. They depend on the supervisor as their
// publisher, so they are attached after construction rather than passed to it.
func (s *Supervisor) Attach(arbiter *collab.Arbiter, dispatcher *command.Dispatcher) {
	s.arbiter = arbiter
	s.dispatcher = dispatcher
}

// Dispatcher exposes the command dispatcher for handler registration.
func (s *Supervisor) Dispatcher() *command.Dispatcher {
	return s.dispatcher
}

// Run connects and reconnects until ctx is cancelled or the server closes the
// connection cleanly.
func (s *Supervisor) Run(ctx context.Context) error {
	delay := time.Duration(0)
	for {
		clean, joined, err := s.runOnce(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if clean {
			slog.Info("gateway closed the connection cleanly, shutting down")
			return nil
		}

		delay = nextReconnectDelay(delay, joined)
		if err != nil {
			slog.Warn("connection lost", "error", err, "retry_in", delay)
		} else {
			slog.Warn("connection closed abnormally", "retry_in", delay)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}

// nextReconnectDelay computes the backoff for the coming retry. A session
// that reached the joined state resets the schedule, so a healthy connection
// that drops is retried at the base delay.
func nextReconnectDelay(prev time.Duration, joined bool) time.Duration {
	if joined || prev == 0 {
		return reconnectBaseDelay
	}
	next := prev * 2
	if next > reconnectMaxDelay {
		next = reconnectMaxDelay
	}
	return next
}

// runOnce performs a single connection attempt end to end. It reports whether
// the closure was clean and whether the session reached the joined state.
func (s *Supervisor) runOnce(ctx context.Context) (clean, joined bool, err error) {
	sess := newSession(s.cfg.ChannelID)
	sess.State = StateConnecting

	dialCtx, cancelDial := context.WithTimeout(ctx, handshakeTimeout)
	conn, err := s.dialer.Dial(dialCtx, s.cfg.GatewayEndpoint())
	cancelDial()
	if err != nil {
		return false, false, err
	}

	sess.State = StateOpen
	slog.Info("connected to gateway", "session", sess.ID)

	s.mu.Lock()
	s.conn = conn
	s.sess = sess
	s.mu.Unlock()

	s.store.BindSession(sess.Timers, s.sendTrackVote)

	defer func() {
		s.mu.Lock()
		sess.State = StateClosing
		s.conn = nil
		s.sess = nil
		s.mu.Unlock()
		sess.Timers.StopAll()
		_ = conn.Close(gateway.CloseNormal)
	}()

	connCtx, cancelConn := context.WithCancel(ctx)
	defer cancelConn()

	// Cancellation unblocks the read loop by tearing the socket down.
	go func() {
		<-connCtx.Done()
		_ = conn.Close(gateway.CloseNormal)
	}()

	go s.livenessLoop(connCtx, conn, sess)

	if err := conn.WriteText(wire.Join(sess.ChannelID, joinRequestID)); err != nil {
		return false, false, err
	}
	if err := conn.WriteText(wire.EditUser(s.cfg.BotBio)); err != nil {
		return false, false, err
	}
	sess.State = StateAwaitingJoin

	for {
		data, err := conn.ReadText()
		if err != nil {
			var closeErr *gateway.CloseError
			if errors.As(err, &closeErr) {
				return closeErr.Clean(), s.sessionJoined(sess), nil
			}
			return false, s.sessionJoined(sess), err
		}
		s.handleFrame(connCtx, conn, sess, data)
	}
}

// handleFrame decodes and routes one inbound frame. Malformed and unknown
// frames are logged and dropped; they never affect the connection.
func (s *Supervisor) handleFrame(ctx context.Context, conn gateway.Conn, sess *Session, data []byte) {
	ev, err := wire.Decode(data)
	if err != nil {
		if errors.Is(err, wire.ErrUnknownMethod) {
			slog.Debug("ignoring frame", "error", err)
		} else {
			slog.Warn("dropping malformed frame", "error", err)
		}
		return
	}

	switch ev := ev.(type) {
	case wire.ReadyEvent:
		if ev.ChannelID != "" {
			sess.ChannelID = ev.ChannelID
		}
		s.adoptSelfID(sess, ev.UserID)
		slog.Info("gateway ready", "channel", sess.ChannelID)

	case wire.JoinSuccessEvent:
		s.adoptSelfID(sess, ev.UserID)
		s.markJoined(sess)
		slog.Info("joined channel", "channel", sess.ChannelID)

	case wire.KeepAwakeEvent:
		sess.Monitor.RecordInbound(time.Now())
		s.writeLiveness(conn, sess)

	case wire.UsersEvent:
		s.store.ApplyRosterSnapshot(ev.Users)
		if id, ok := s.store.FindSelf(s.cfg.BotName); ok {
			s.adoptSelfID(sess, id)
		}

	case wire.DjsEvent:
		s.store.ApplyDjUpdate(ev.Djs)

	case wire.MeterEvent:
		s.store.ApplyVoteUpdate(ev.Voting)

	case wire.HistoryEvent:
		s.store.ApplyTrackHistoryAppend(ev.Tracks)

	case wire.TrackEvent:
		s.archiveFinishedTrack(ctx)
		s.store.ApplyCurrentTrack(ev.Track)
		go s.announceTrack(ctx, ev.Track)

	case wire.MessageEvent:
		if s.arbiter != nil && s.arbiter.Offer(ev.UserName, ev.Payload) {
			return
		}
		if s.dispatcher != nil {
			s.dispatcher.Dispatch(ctx, ev.UserName, ev.Payload)
		}
	}
}

func (s *Supervisor) adoptSelfID(sess *Session, id string) {
	if id == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess.SelfID == "" {
		sess.SelfID = id
	}
}

func (s *Supervisor) selfID(sess *Session) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sess.SelfID
}

func (s *Supervisor) markJoined(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess.State = StateJoined
}

func (s *Supervisor) sessionJoined(sess *Session) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sess.State == StateJoined
}

// livenessLoop self-signals when the server has gone quiet for too long.
func (s *Supervisor) livenessLoop(ctx context.Context, conn gateway.Conn, sess *Session) {
	ticker := time.NewTicker(livenessTickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if sess.Monitor.SelfSignalDue(now) {
				s.writeLiveness(conn, sess)
			}
		}
	}
}

// writeLiveness sends the stayAwake acknowledgement. A write failure here is
// only logged; the read loop surfaces the closure.
func (s *Supervisor) writeLiveness(conn gateway.Conn, sess *Session) {
	now := time.Now()
	if err := conn.WriteText(wire.StayAwake(now.UnixMilli())); err != nil {
		slog.Warn("failed to send liveness signal", "error", err)
		return
	}
	sess.Monitor.RecordOutbound(now)
}

// Push publishes a chat message to the room. During a disconnect the message
// is dropped; chat output is best effort.
func (s *Supervisor) Push(text string) {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn == nil {
		slog.Debug("dropping chat message while disconnected", "text", text)
		return
	}
	if err := conn.WriteText(wire.PushMessage(text)); err != nil {
		slog.Warn("failed to push chat message", "error", err)
	}
}

// sendTrackVote submits the automatic favorable vote for the current track.
// It fires from the store's settle timer, two seconds after a track change.
func (s *Supervisor) sendTrackVote() {
	s.mu.Lock()
	conn := s.conn
	sess := s.sess
	s.mu.Unlock()
	if conn == nil || sess == nil {
		return
	}
	id := s.selfID(sess)
	if id == "" {
		slog.Warn("skipping track vote, own user id not yet known")
		return
	}
	vote := wire.MeterUpdate(map[string]wire.Vote{
		id: {Dope: 1, Star: 1, BoofStar: true, VotedCount: 1},
	})
	if err := conn.WriteText(vote); err != nil {
		slog.Warn("failed to send track vote", "error", err)
	}
}

// archiveFinishedTrack persists the outgoing track's final vote tally before
// the new track replaces it.
func (s *Supervisor) archiveFinishedTrack(ctx context.Context) {
	prev := s.store.CurrentTrack()
	if prev == nil {
		return
	}
	tally := s.store.VoteTally()
	if len(tally) == 0 {
		return
	}
	recs := make([]archive.MeterRecord, 0, len(tally))
	now := time.Now()
	for userID, v := range tally {
		recs = append(recs, archive.MeterRecord{
			TrackID:    prev.ID,
			UserID:     userID,
			Dope:       v.Dope,
			Nope:       v.Nope,
			Star:       v.Star,
			BoofStar:   v.BoofStar,
			RecordedAt: now,
		})
	}
	go func() {
		if err := s.arch.RecordMeter(ctx, recs); err != nil {
			slog.Error("failed to archive track votes", "track", prev.ID, "error", err)
		}
	}()
}

// announceTrack archives the new play and notifies the now-playing webhook.
func (s *Supervisor) announceTrack(ctx context.Context, t wire.Track) {
	artist := ""
	if len(t.Artists) > 0 {
		artist = t.Artists[0].Name
	}
	now := time.Now()

	if err := s.arch.RecordPlay(ctx, archive.PlayRecord{
		TrackID:  t.ID,
		Name:     t.Name,
		Artist:   artist,
		PlayedAt: now,
	}); err != nil {
		slog.Error("failed to archive play", "track", t.ID, "error", err)
	}

	if err := s.notifier.SendNowPlaying(ctx, notify.NowPlaying{
		TrackID:   t.ID,
		Name:      t.Name,
		Artist:    artist,
		StartedAt: now,
	}); err != nil {
		slog.Error("failed to send now-playing notification", "track", t.ID, "error", err)
	}
}
