package db

import (
	"context"
	"database/sql"
	"fmt"
)

// schema is applied statement by statement on startup; every statement is
// idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS league_matches (
		id              SERIAL PRIMARY KEY,
		competition_id  TEXT NOT NULL,
		local_team_id   TEXT NOT NULL,
		visitor_team_id TEXT NOT NULL,
		match_time      TIMESTAMPTZ NOT NULL,
		status          TEXT NOT NULL DEFAULT 'scheduled',
		local_score     INTEGER,
		visitor_score   INTEGER,
		has_act         BOOLEAN NOT NULL DEFAULT FALSE,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_league_matches_competition ON league_matches (competition_id, match_time)`,
	`CREATE TABLE IF NOT EXISTS match_acts (
		id          UUID PRIMARY KEY,
		match_id    INTEGER NOT NULL,
		state       TEXT NOT NULL CHECK (state IN ('draft', 'completed', 'signed')),
		document    JSONB NOT NULL,
		reconciled  BOOLEAN NOT NULL DEFAULT FALSE,
		archive_key TEXT,
		created_at  TIMESTAMPTZ NOT NULL,
		updated_at  TIMESTAMPTZ NOT NULL,
		CONSTRAINT match_acts_match_id_key UNIQUE (match_id),
		CONSTRAINT match_acts_match_id_fkey FOREIGN KEY (match_id) REFERENCES league_matches (id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_match_acts_unreconciled ON match_acts (updated_at) WHERE reconciled = FALSE`,
}

// EnsureSchema creates the tables used by the act service if they are missing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement %d: %w", i+1, err)
		}
	}
	return nil
}
