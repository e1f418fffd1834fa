// internal/database/rating.go
package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jason-s-yu/daifugo/internal/rating"
)

// SaveStandings upserts each player's standing and logs the change against
// gameID. before holds the rating each player had going into the game.
func (s *Store) SaveStandings(ctx context.Context, gameID uuid.UUID, before map[string]float64, after []rating.Standing) error {
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		for _, st := range after {
			upsert := `
				INSERT INTO player_ratings (player, rating, rd, sigma, games)
				VALUES ($1, $2, $3, $4, $5)
				ON CONFLICT (player)
				DO UPDATE SET rating = $2, rd = $3, sigma = $4, games = $5
			`
			if _, e := tx.Exec(ctx, upsert, st.Player, st.Rating, st.RD, st.Sigma, st.Games); e != nil {
				return e
			}

			old, ok := before[st.Player]
			if !ok {
				old = rating.DefaultRating
			}
			insQ := `
				INSERT INTO ratings (player, game_id, old_rating, new_rating)
				VALUES ($1, $2, $3, $4)
				ON CONFLICT (player, game_id) DO NOTHING
			`
			if _, e := tx.Exec(ctx, insQ, st.Player, gameID, old, st.Rating); e != nil {
				return e
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save standings for game %s: %w", gameID, err)
	}
	return nil
}
