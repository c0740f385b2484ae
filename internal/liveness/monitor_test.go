package liveness

import (
	"testing"
	"time"
)

func TestSelfSignalDue_NeverProbed(t *testing.T) {
	m := NewMonitor()
	if !m.SelfSignalDue(time.Now()) {
		t.Fatal("expected a signal to be due before the first probe")
	}
}

func TestSelfSignalDue_RecentProbe(t *testing.T) {
	m := NewMonitor()
	now := time.Now()
	m.RecordInbound(now)
	if m.SelfSignalDue(now.Add(10 * time.Second)) {
		t.Fatal("signal must not be due 10s after a probe")
	}
	if m.SelfSignalDue(now.Add(24 * time.Second)) {
		t.Fatal("signal must not be due 24s after a probe")
	}
}

func TestSelfSignalDue_StaleProbe(t *testing.T) {
	m := NewMonitor()
	now := time.Now()
	m.RecordInbound(now)
	if !m.SelfSignalDue(now.Add(25 * time.Second)) {
		t.Fatal("expected a signal to be due 25s after the last probe")
	}
}

func TestRecordTimestamps(t *testing.T) {
	m := NewMonitor()
	in := time.Unix(100, 0)
	out := time.Unix(200, 0)
	m.RecordInbound(in)
	m.RecordOutbound(out)
	if !m.LastInbound().Equal(in) {
		t.Fatalf("unexpected inbound timestamp: %v", m.LastInbound())
	}
	if !m.LastOutbound().Equal(out) {
		t.Fatalf("unexpected outbound timestamp: %v", m.LastOutbound())
	}
}
