package archive

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

var migrationStatements = []string{
	`CREATE TABLE IF NOT EXISTS plays (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		track_id TEXT NOT NULL,
		name TEXT NOT NULL,
		artist TEXT NOT NULL,
		played_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_plays_played_at ON plays (played_at)`,
	`CREATE TABLE IF NOT EXISTS meter_votes (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		track_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		dope INTEGER NOT NULL DEFAULT 0,
		nope INTEGER NOT NULL DEFAULT 0,
		star INTEGER NOT NULL DEFAULT 0,
		boof_star BOOLEAN NOT NULL DEFAULT FALSE,
		recorded_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_meter_votes_track ON meter_votes (track_id)`,
}

func RunMigration(ctx context.Context, pool *pgxpool.Pool) error {
	for _, s := range migrationStatements {
		stmt := strings.TrimSpace(s)
		if stmt == "" {
			continue
		}
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
