// Package store persists athletes, their tokens and the activities the
// worker has fetched in Postgres.
package store

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

type Store struct {
	pool *pgxpool.Pool
}

func New(connectionURL string) (*Store, error) {
	ctx := context.Background()

	pool, err := pgxpool.New(ctx, connectionURL)
	if err != nil {
		return nil, errors.Wrap(err, "store: error creating pool")
	}

	return &Store{
		pool: pool,
	}, nil
}

// EnsureSchema creates the tables the store uses if they do not exist.
func (s Store) EnsureSchema(ctx context.Context) error {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return errors.Wrap(err, "store: error acquiring connection")
	}
	defer conn.Release()

	for _, stmt := range schema {
		_, err = conn.Exec(ctx, stmt)
		if err != nil {
			return errors.Wrap(err, "store: error creating schema")
		}
	}
	log.Println("store: schema ready")
	return nil
}

func (s Store) Cleanup() {
	s.pool.Close()
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS athletes (
	athlete_id BIGINT PRIMARY KEY,
	username   TEXT NOT NULL DEFAULT '',
	firstname  TEXT NOT NULL DEFAULT '',
	lastname   TEXT NOT NULL DEFAULT '',
	scopes     TEXT NOT NULL DEFAULT ''
)`,
	`CREATE TABLE IF NOT EXISTS access_tokens (
	athlete_id   BIGINT PRIMARY KEY REFERENCES athletes (athlete_id) ON DELETE CASCADE,
	access_token TEXT NOT NULL,
	token_type   TEXT NOT NULL DEFAULT 'Bearer',
	expires_at   TIMESTAMPTZ NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS refresh_tokens (
	athlete_id    BIGINT PRIMARY KEY REFERENCES athletes (athlete_id) ON DELETE CASCADE,
	refresh_token TEXT NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS activities (
	id                   BIGINT PRIMARY KEY,
	athlete_id           BIGINT NOT NULL REFERENCES athletes (athlete_id) ON DELETE CASCADE,
	name                 TEXT NOT NULL,
	activity_type        TEXT NOT NULL DEFAULT '',
	sport_type           TEXT NOT NULL,
	distance             DOUBLE PRECISION NOT NULL,
	moving_time          INTEGER NOT NULL,
	elapsed_time         INTEGER NOT NULL,
	total_elevation_gain DOUBLE PRECISION NOT NULL,
	start_date           TIMESTAMPTZ NOT NULL,
	local_tz             TEXT NOT NULL,
	summary_polyline     TEXT,
	private              BOOLEAN NOT NULL DEFAULT false,
	external_id          TEXT NOT NULL DEFAULT ''
)`,
	`ALTER TABLE activities ADD COLUMN IF NOT EXISTS activity_type TEXT NOT NULL DEFAULT ''`,
}
