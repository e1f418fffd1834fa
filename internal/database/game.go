// internal/database/game.go
package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jason-s-yu/daifugo/internal/game"
	"github.com/jason-s-yu/daifugo/internal/models"
	"github.com/sirupsen/logrus"
)

// SaveGame persists a finished game: the game row, one result row per ranked
// player and the cheat history, in a single transaction.
func (s *Store) SaveGame(ctx context.Context, summary models.GameSummary) error {
	players, err := json.Marshal(summary.Players)
	if err != nil {
		return fmt.Errorf("marshal players: %w", err)
	}
	ranking, err := json.Marshal(summary.Ranking)
	if err != nil {
		return fmt.Errorf("marshal ranking: %w", err)
	}
	caught, err := json.Marshal(summary.Caught)
	if err != nil {
		return fmt.Errorf("marshal caught: %w", err)
	}
	caughtSet := make(map[string]bool, len(summary.Caught))
	for _, p := range summary.Caught {
		caughtSet[p] = true
	}

	err = s.inTx(ctx, func(tx pgx.Tx) error {
		upsertGame := `
			INSERT INTO games (id, cycle_id, day, status, players, ranking, caught, rounds, end_time)
			VALUES ($1, $2, $3, 'completed', $4, $5, $6, $7, $8)
			ON CONFLICT (id) DO UPDATE
			SET cycle_id = $2, day = $3, status = 'completed', players = $4,
			    ranking = $5, caught = $6, rounds = $7, end_time = $8
		`
		if _, e := tx.Exec(ctx, upsertGame, summary.GameID, summary.CycleID, summary.Day,
			players, ranking, caught, summary.Rounds, summary.FinishedAt); e != nil {
			return e
		}

		for i, p := range summary.Ranking {
			q := `
				INSERT INTO game_results (game_id, player, place, caught)
				VALUES ($1, $2, $3, $4)
				ON CONFLICT (game_id, player)
				DO UPDATE SET place = $3, caught = $4
			`
			if _, e := tx.Exec(ctx, q, summary.GameID, p, i+1, caughtSet[p]); e != nil {
				return e
			}
		}

		for i, c := range summary.Cheats {
			q := `
				INSERT INTO cheat_attempts (
					game_id, seq, attacker, target, prompt, counter_prompt,
					attacker_bonus, defender_bonus, attacker_roll, defender_roll,
					success, effect, betrayal, reasoning, attempted_at
				) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
				ON CONFLICT (game_id, seq) DO NOTHING
			`
			if _, e := tx.Exec(ctx, q, summary.GameID, i+1, c.Attacker, c.Target, c.Prompt, c.CounterPrompt,
				c.AttackerBonus, c.DefenderBonus, c.AttackerRoll, c.DefenderRoll,
				c.Success, string(c.Effect), c.Betrayal, c.Reasoning, c.At); e != nil {
				return e
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("tx save game %s: %w", summary.GameID, err)
	}
	s.log.WithFields(logrus.Fields{
		"game":   summary.GameID,
		"cheats": len(summary.Cheats),
	}).Debug("game summary stored")
	return nil
}

// InsertActions writes a batch of action records in one transaction. The game
// row is created on first sight; a game_end action marks it completed.
// Re-inserting an already stored index is a no-op.
func (s *Store) InsertActions(ctx context.Context, records []models.ActionRecord) error {
	if len(records) == 0 {
		return nil
	}
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		for _, rec := range records {
			if err := insertActionTx(ctx, tx, rec); err != nil {
				return fmt.Errorf("insertActionTx: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("tx insert %d actions: %w", len(records), err)
	}
	return nil
}

func insertActionTx(ctx context.Context, tx pgx.Tx, rec models.ActionRecord) error {
	upsertGameQ := `
		INSERT INTO games (id, status, start_time)
		VALUES ($1, 'in_progress', NOW())
		ON CONFLICT (id) DO NOTHING
	`
	if _, err := tx.Exec(ctx, upsertGameQ, rec.GameID); err != nil {
		return err
	}

	jsonPayload, err := json.Marshal(rec.Payload)
	if err != nil {
		return err
	}
	actionInsertQ := `
		INSERT INTO game_actions (
			game_id, action_index, actor, action_type, action_payload, recorded_at
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (game_id, action_index) DO NOTHING
	`
	if _, err := tx.Exec(ctx, actionInsertQ,
		rec.GameID, rec.ActionIndex, rec.Actor, rec.ActionType, jsonPayload, time.UnixMilli(rec.Timestamp),
	); err != nil {
		return err
	}

	if rec.ActionType == game.ActionGameOver {
		finalizeQ := `
			UPDATE games
			SET status = 'completed', end_time = NOW()
			WHERE id = $1 AND status = 'in_progress'
		`
		if _, err := tx.Exec(ctx, finalizeQ, rec.GameID); err != nil {
			return err
		}
	}
	return nil
}

// MarkAbandoned flags a game that is still in progress as abandoned.
func (s *Store) MarkAbandoned(ctx context.Context, gameID uuid.UUID) error {
	q := `
		UPDATE games
		SET status = 'abandoned', end_time = NOW()
		WHERE id = $1 AND status = 'in_progress'
	`
	return s.inTx(ctx, func(tx pgx.Tx) error {
		_, e := tx.Exec(ctx, q, gameID)
		return e
	})
}
