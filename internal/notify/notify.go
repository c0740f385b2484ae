// Package notify announces track changes to an optional external webhook.
package notify

import (
	"context"
	"time"
)

type NowPlaying struct {
	TrackID   string    `json:"trackId"`
	Name      string    `json:"name"`
	Artist    string    `json:"artist"`
	StartedAt time.Time `json:"startedAt"`
}

type Sender interface {
	SendNowPlaying(ctx context.Context, np NowPlaying) error
}
