// Package archive persists a best-effort play log: which tracks played and
// how the room voted on them. The session core only ever writes to it; room
// state itself is never persisted or read back.
package archive

import (
	"context"
	"time"
)

type PlayRecord struct {
	TrackID  string
	Name     string
	Artist   string
	PlayedAt time.Time
}

type MeterRecord struct {
	TrackID    string
	UserID     string
	Dope       int
	Nope       int
	Star       int
	BoofStar   bool
	RecordedAt time.Time
}

type Archive interface {
	RecordPlay(ctx context.Context, rec PlayRecord) error
	RecordMeter(ctx context.Context, recs []MeterRecord) error
}

// Disabled is the no-op archive used when no database is configured.
type Disabled struct{}

func (Disabled) RecordPlay(context.Context, PlayRecord) error     { return nil }
func (Disabled) RecordMeter(context.Context, []MeterRecord) error { return nil }
