package wire

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestDecode_KeepAwake(t *testing.T) {
	ev, err := Decode([]byte(`{"jsonrpc":"2.0","method":"keepAwake","params":{"latency":42}}`))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	ka, ok := ev.(KeepAwakeEvent)
	if !ok {
		t.Fatalf("expected KeepAwakeEvent, got %T", ev)
	}
	if ka.Latency != 42 {
		t.Fatalf("unexpected latency: %d", ka.Latency)
	}
}

func TestDecode_KeepAwakeWithoutParams(t *testing.T) {
	ev, err := Decode([]byte(`{"jsonrpc":"2.0","method":"keepAwake"}`))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, ok := ev.(KeepAwakeEvent); !ok {
		t.Fatalf("expected KeepAwakeEvent, got %T", ev)
	}
}

func TestDecode_Ready(t *testing.T) {
	ev, err := Decode([]byte(`{"method":"ready","params":{"channelId":"c1","_id":"u1"}}`))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	ready, ok := ev.(ReadyEvent)
	if !ok {
		t.Fatalf("expected ReadyEvent, got %T", ev)
	}
	if ready.ChannelID != "c1" {
		t.Fatalf("unexpected channel id: %s", ready.ChannelID)
	}
	if ready.UserID != "u1" {
		t.Fatalf("expected legacy _id fallback, got %q", ready.UserID)
	}
}

func TestDecode_Users(t *testing.T) {
	raw := `{"method":"updateChannelUsers","params":{"users":[
		{"_id":"u1","userName":"alice"},
		{"_id":"u2","userName":"groovebot","type":"bot"}]}}`
	ev, err := Decode([]byte(raw))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	users, ok := ev.(UsersEvent)
	if !ok {
		t.Fatalf("expected UsersEvent, got %T", ev)
	}
	if len(users.Users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users.Users))
	}
	if users.Users[1].Type != UserTypeBot {
		t.Fatalf("unexpected user type: %s", users.Users[1].Type)
	}
}

func TestDecode_Message(t *testing.T) {
	ev, err := Decode([]byte(`{"method":"pushChannelMessage","params":{"userName":"alice","payload":"+ping"}}`))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	msg, ok := ev.(MessageEvent)
	if !ok {
		t.Fatalf("expected MessageEvent, got %T", ev)
	}
	if msg.UserName != "alice" || msg.Payload != "+ping" {
		t.Fatalf("unexpected message: %+v", msg)
	}
}

func TestDecode_Track(t *testing.T) {
	raw := `{"method":"playChannelTrack","params":{"track":{"id":"t1","name":"Song","artists":[{"name":"Artist"}],"energy":0.8}}}`
	ev, err := Decode([]byte(raw))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	track, ok := ev.(TrackEvent)
	if !ok {
		t.Fatalf("expected TrackEvent, got %T", ev)
	}
	if track.Track.Name != "Song" || len(track.Track.Artists) != 1 {
		t.Fatalf("unexpected track: %+v", track.Track)
	}
}

func TestDecode_TrackMissingTrack(t *testing.T) {
	_, err := Decode([]byte(`{"method":"playChannelTrack","params":{}}`))
	if !errors.Is(err, ErrMalformedFrame) {
		t.Fatalf("expected ErrMalformedFrame, got %v", err)
	}
}

func TestDecode_Meter(t *testing.T) {
	raw := `{"method":"updateChannelMeter","params":{"voting":{"u1":{"dope":1,"boofStar":true,"votedCount":1}}}}`
	ev, err := Decode([]byte(raw))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	meter, ok := ev.(MeterEvent)
	if !ok {
		t.Fatalf("expected MeterEvent, got %T", ev)
	}
	vote := meter.Voting["u1"]
	if vote.Dope != 1 || !vote.BoofStar {
		t.Fatalf("unexpected vote: %+v", vote)
	}
}

func TestDecode_MalformedJSON(t *testing.T) {
	_, err := Decode([]byte(`{not json`))
	if !errors.Is(err, ErrMalformedFrame) {
		t.Fatalf("expected ErrMalformedFrame, got %v", err)
	}
}

func TestDecode_MissingRequiredParams(t *testing.T) {
	_, err := Decode([]byte(`{"method":"pushChannelMessage"}`))
	if !errors.Is(err, ErrMalformedFrame) {
		t.Fatalf("expected ErrMalformedFrame, got %v", err)
	}
}

func TestDecode_UnknownMethod(t *testing.T) {
	_, err := Decode([]byte(`{"method":"updateChannelUserStatus","params":{}}`))
	if !errors.Is(err, ErrUnknownMethod) {
		t.Fatalf("expected ErrUnknownMethod, got %v", err)
	}
}

func TestOutbound_Join(t *testing.T) {
	var env Envelope
	if err := json.Unmarshal(Join("c1", 7), &env); err != nil {
		t.Fatalf("failed to parse join frame: %v", err)
	}
	if env.JSONRPC != Version || env.Method != "join" {
		t.Fatalf("unexpected envelope: %+v", env)
	}
	if env.ID == nil || *env.ID != 7 {
		t.Fatal("expected id 7 on join frame")
	}
	var params map[string]string
	if err := json.Unmarshal(env.Params, &params); err != nil {
		t.Fatalf("failed to parse params: %v", err)
	}
	if params["channelId"] != "c1" {
		t.Fatalf("unexpected channelId: %s", params["channelId"])
	}
}

func TestOutbound_PushMessageHasNoID(t *testing.T) {
	var env Envelope
	if err := json.Unmarshal(PushMessage("hello"), &env); err != nil {
		t.Fatalf("failed to parse pushMessage frame: %v", err)
	}
	if env.ID != nil {
		t.Fatal("pushMessage must not carry an id")
	}
	var params map[string]string
	if err := json.Unmarshal(env.Params, &params); err != nil {
		t.Fatalf("failed to parse params: %v", err)
	}
	if params["payload"] != "hello" {
		t.Fatalf("unexpected payload: %s", params["payload"])
	}
	if _, ok := params["type"]; ok {
		t.Fatal("plain chat message must not carry a type")
	}
}

func TestOutbound_PushCommand(t *testing.T) {
	var env Envelope
	if err := json.Unmarshal(PushCommand("spin"), &env); err != nil {
		t.Fatalf("failed to parse frame: %v", err)
	}
	var params map[string]string
	if err := json.Unmarshal(env.Params, &params); err != nil {
		t.Fatalf("failed to parse params: %v", err)
	}
	if params["type"] != "command" {
		t.Fatalf("expected command type, got %q", params["type"])
	}
}

func TestOutbound_MeterUpdate(t *testing.T) {
	frame := MeterUpdate(map[string]Vote{"u9": {Dope: 1, Star: 1, BoofStar: true, VotedCount: 1}})
	var env Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		t.Fatalf("failed to parse frame: %v", err)
	}
	if env.Method != "updateChannelMeter" {
		t.Fatalf("unexpected method: %s", env.Method)
	}
	var params struct {
		Voting map[string]Vote `json:"voting"`
	}
	if err := json.Unmarshal(env.Params, &params); err != nil {
		t.Fatalf("failed to parse params: %v", err)
	}
	if !params.Voting["u9"].BoofStar {
		t.Fatal("expected boofStar to survive the round trip")
	}
}

func TestOutbound_StayAwake(t *testing.T) {
	var env Envelope
	if err := json.Unmarshal(StayAwake(1700000000000), &env); err != nil {
		t.Fatalf("failed to parse frame: %v", err)
	}
	if env.Method != "stayAwake" {
		t.Fatalf("unexpected method: %s", env.Method)
	}
	var params map[string]int64
	if err := json.Unmarshal(env.Params, &params); err != nil {
		t.Fatalf("failed to parse params: %v", err)
	}
	if params["date"] != 1700000000000 {
		t.Fatalf("unexpected date: %d", params["date"])
	}
}
