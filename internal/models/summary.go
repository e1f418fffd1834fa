// internal/models/summary.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// GameSummary is what gets archived once a game reaches GameOver.
type GameSummary struct {
	GameID     uuid.UUID      `json:"game_id"`
	CycleID    uuid.UUID      `json:"cycle_id"`
	Day        int            `json:"day"`
	Players    []string       `json:"players"`
	Ranking    []string       `json:"ranking"`
	Caught     []string       `json:"caught"`
	Rounds     int            `json:"rounds"`
	Cheats     []CheatAttempt `json:"cheats"`
	FinishedAt time.Time      `json:"finished_at"`
}
