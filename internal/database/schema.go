// internal/database/schema.go
package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// schema is applied in order by Migrate; every statement is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS games (
		id         UUID PRIMARY KEY,
		cycle_id   UUID,
		day        INT,
		status     TEXT NOT NULL DEFAULT 'in_progress',
		players    JSONB,
		ranking    JSONB,
		caught     JSONB,
		rounds     INT,
		start_time TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		end_time   TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS game_results (
		game_id UUID NOT NULL REFERENCES games(id) ON DELETE CASCADE,
		player  TEXT NOT NULL,
		place   INT  NOT NULL,
		caught  BOOLEAN NOT NULL DEFAULT FALSE,
		PRIMARY KEY (game_id, player)
	)`,
	`CREATE TABLE IF NOT EXISTS cheat_attempts (
		game_id        UUID NOT NULL REFERENCES games(id) ON DELETE CASCADE,
		seq            INT  NOT NULL,
		attacker       TEXT NOT NULL,
		target         TEXT NOT NULL,
		prompt         TEXT,
		counter_prompt TEXT,
		attacker_bonus INT,
		defender_bonus INT,
		attacker_roll  INT,
		defender_roll  INT,
		success        BOOLEAN NOT NULL,
		effect         TEXT,
		betrayal       BOOLEAN NOT NULL DEFAULT FALSE,
		reasoning      TEXT,
		attempted_at   TIMESTAMPTZ,
		PRIMARY KEY (game_id, seq)
	)`,
	`CREATE TABLE IF NOT EXISTS game_actions (
		game_id        UUID NOT NULL REFERENCES games(id) ON DELETE CASCADE,
		action_index   INT  NOT NULL,
		actor          TEXT,
		action_type    TEXT NOT NULL,
		action_payload JSONB,
		recorded_at    TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (game_id, action_index)
	)`,
	`CREATE TABLE IF NOT EXISTS player_ratings (
		player TEXT PRIMARY KEY,
		rating DOUBLE PRECISION NOT NULL,
		rd     DOUBLE PRECISION NOT NULL,
		sigma  DOUBLE PRECISION NOT NULL,
		games  INT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS ratings (
		player     TEXT NOT NULL,
		game_id    UUID NOT NULL,
		old_rating DOUBLE PRECISION NOT NULL,
		new_rating DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (player, game_id)
	)`,
}

// Migrate creates any missing tables.
func (s *Store) Migrate(ctx context.Context) error {
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		for i, stmt := range schema {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("schema statement %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
