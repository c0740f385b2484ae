package archive

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/foxseedlab/rvrbot/internal/archive"
)

type PostgresArchive struct {
	pool *pgxpool.Pool
}

func NewPostgresArchive(pool *pgxpool.Pool) archive.Archive {
	return &PostgresArchive{pool: pool}
}

func (a *PostgresArchive) RecordPlay(ctx context.Context, rec archive.PlayRecord) error {
	_, err := a.pool.Exec(ctx,
		`INSERT INTO plays (track_id, name, artist, played_at)
		 VALUES ($1, $2, $3, $4)`,
		rec.TrackID, rec.Name, rec.Artist, rec.PlayedAt)
	return err
}

func (a *PostgresArchive) RecordMeter(ctx context.Context, recs []archive.MeterRecord) error {
	for _, rec := range recs {
		_, err := a.pool.Exec(ctx,
			`INSERT INTO meter_votes (track_id, user_id, dope, nope, star, boof_star, recorded_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			rec.TrackID, rec.UserID, rec.Dope, rec.Nope, rec.Star, rec.BoofStar, rec.RecordedAt)
		if err != nil {
			return err
		}
	}
	return nil
}
