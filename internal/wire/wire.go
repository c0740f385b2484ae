// Package wire implements the JSON-RPC shaped envelope spoken by the rvrb
// gateway. Inbound frames are decoded exactly once into a closed set of typed
// events so the rest of the client never switches on raw method strings.
package wire

import (
	"encoding/json"
	"errors"
	"fmt"
)

const Version = "2.0"

var (
	// ErrMalformedFrame is returned when a frame cannot be parsed or is
	// missing the fields its method requires. The frame is dropped; the
	// connection stays up.
	ErrMalformedFrame = errors.New("wire: malformed frame")

	// ErrUnknownMethod is returned for methods this client does not consume.
	ErrUnknownMethod = errors.New("wire: unknown method")
)

// Envelope is the outermost JSON-RPC structure of every frame.
type Envelope struct {
	JSONRPC string          `json:"jsonrpc,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	ID      *int64          `json:"id,omitempty"`
}

// UserTypeBot marks roster entries belonging to bot accounts.
const UserTypeBot = "bot"

// User is one roster entry.
type User struct {
	ID       string `json:"_id"`
	UserName string `json:"userName"`
	Type     string `json:"type,omitempty"`
}

// Artist is one credited artist on a track.
type Artist struct {
	Name string `json:"name"`
}

// Track is the now-playing record, including the audio-feature fields that
// derived chat commands read.
type Track struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Artists      []Artist `json:"artists"`
	Danceability float64  `json:"danceability,omitempty"`
	Energy       float64  `json:"energy,omitempty"`
	Tempo        float64  `json:"tempo,omitempty"`
	Valence      float64  `json:"valence,omitempty"`
}

// Vote is a single user's per-track meter contribution.
type Vote struct {
	Dope       int  `json:"dope"`
	Nope       int  `json:"nope"`
	Star       int  `json:"star"`
	BoofStar   bool `json:"boofStar"`
	VotedCount int  `json:"votedCount"`
	Chat       int  `json:"chat"`
}

// Event is implemented by every decoded inbound frame.
type Event interface {
	method() string
}

// ReadyEvent is the server's first push after the socket opens. It may carry
// the channel the bot was routed to and the bot's own user id.
type ReadyEvent struct {
	ChannelID string
	UserID    string
}

// JoinSuccessEvent acknowledges the join intent.
type JoinSuccessEvent struct {
	UserID string
}

// UsersEvent is a full roster snapshot. It replaces, never merges.
type UsersEvent struct {
	Users []User
}

// DjsEvent replaces the ordered DJ queue.
type DjsEvent struct {
	Djs []string
}

// MeterEvent replaces the per-user vote tally for the current track.
type MeterEvent struct {
	Voting map[string]Vote
}

// HistoryEvent appends tracks to the play history.
type HistoryEvent struct {
	Tracks []Track
}

// TrackEvent announces a track change.
type TrackEvent struct {
	Track Track
}

// MessageEvent is one chat message pushed to the channel.
type MessageEvent struct {
	UserName string
	Payload  string
}

// KeepAwakeEvent is the server's liveness probe. It must be acknowledged
// before the next frame is processed.
type KeepAwakeEvent struct {
	Latency int64
}

func (ReadyEvent) method() string       { return "ready" }
func (JoinSuccessEvent) method() string { return "joinSuccess" }
func (UsersEvent) method() string       { return "updateChannelUsers" }
func (DjsEvent) method() string         { return "updateChannelDjs" }
func (MeterEvent) method() string       { return "updateChannelMeter" }
func (HistoryEvent) method() string     { return "updateChannelHistory" }
func (TrackEvent) method() string       { return "playChannelTrack" }
func (MessageEvent) method() string     { return "pushChannelMessage" }
func (KeepAwakeEvent) method() string   { return "keepAwake" }

// Decode parses a single inbound frame into its typed event.
func Decode(data []byte) (Event, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}

	switch env.Method {
	case "ready":
		var p struct {
			ChannelID string `json:"channelId"`
			UserID    string `json:"userId"`
			LegacyID  string `json:"_id"`
		}
		if err := decodeParams(env.Params, &p, true); err != nil {
			return nil, err
		}
		userID := p.UserID
		if userID == "" {
			userID = p.LegacyID
		}
		return ReadyEvent{ChannelID: p.ChannelID, UserID: userID}, nil

	case "joinSuccess":
		var p struct {
			UserID string `json:"userId"`
		}
		if err := decodeParams(env.Params, &p, true); err != nil {
			return nil, err
		}
		return JoinSuccessEvent{UserID: p.UserID}, nil

	case "updateChannelUsers":
		var p struct {
			Users []User `json:"users"`
		}
		if err := decodeParams(env.Params, &p, false); err != nil {
			return nil, err
		}
		return UsersEvent{Users: p.Users}, nil

	case "updateChannelDjs":
		var p struct {
			Djs []string `json:"djs"`
		}
		if err := decodeParams(env.Params, &p, false); err != nil {
			return nil, err
		}
		return DjsEvent{Djs: p.Djs}, nil

	case "updateChannelMeter":
		var p struct {
			Voting map[string]Vote `json:"voting"`
		}
		if err := decodeParams(env.Params, &p, false); err != nil {
			return nil, err
		}
		return MeterEvent{Voting: p.Voting}, nil

	case "updateChannelHistory":
		var p struct {
			Tracks []Track `json:"tracks"`
		}
		if err := decodeParams(env.Params, &p, false); err != nil {
			return nil, err
		}
		return HistoryEvent{Tracks: p.Tracks}, nil

	case "playChannelTrack":
		var p struct {
			Track *Track `json:"track"`
		}
		if err := decodeParams(env.Params, &p, false); err != nil {
			return nil, err
		}
		if p.Track == nil {
			return nil, fmt.Errorf("%w: playChannelTrack without track", ErrMalformedFrame)
		}
		return TrackEvent{Track: *p.Track}, nil

	case "pushChannelMessage":
		var p struct {
			UserName string `json:"userName"`
			Payload  string `json:"payload"`
		}
		if err := decodeParams(env.Params, &p, false); err != nil {
			return nil, err
		}
		return MessageEvent{UserName: p.UserName, Payload: p.Payload}, nil

	case "keepAwake":
		var p struct {
			Latency int64 `json:"latency"`
		}
		if err := decodeParams(env.Params, &p, true); err != nil {
			return nil, err
		}
		return KeepAwakeEvent{Latency: p.Latency}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, env.Method)
}

func decodeParams(raw json.RawMessage, dst any, optional bool) error {
	if len(raw) == 0 {
		if optional {
			return nil
		}
		return fmt.Errorf("%w: missing params", ErrMalformedFrame)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}
	return nil
}

// --- Outbound builders ---

// Join builds the join intent for a channel.
func Join(channelID string, id int64) []byte {
	return marshalOutbound("join", map[string]string{"channelId": channelID}, &id)
}

// EditUser builds the profile-update intent.
func EditUser(bio string) []byte {
	return marshalOutbound("editUser", map[string]string{"bio": bio}, nil)
}

// PushMessage builds an ordinary chat message.
func PushMessage(payload string) []byte {
	return marshalOutbound("pushMessage", map[string]string{"payload": payload}, nil)
}

// PushCommand builds a chat message flagged as a command.
func PushCommand(payload string) []byte {
	return marshalOutbound("pushMessage", map[string]string{
		"payload": payload,
		"type":    "command",
	}, nil)
}

// MeterUpdate builds this bot's vote contribution for the current track.
func MeterUpdate(voting map[string]Vote) []byte {
	return marshalOutbound("updateChannelMeter", map[string]any{"voting": voting}, nil)
}

// StayAwake builds the liveness acknowledgement. date is Unix milliseconds.
func StayAwake(date int64) []byte {
	return marshalOutbound("stayAwake", map[string]int64{"date": date}, nil)
}

func marshalOutbound(method string, params any, id *int64) []byte {
	raw, _ := json.Marshal(params)
	data, _ := json.Marshal(Envelope{
		JSONRPC: Version,
		Method:  method,
		Params:  raw,
		ID:      id,
	})
	return data
}
