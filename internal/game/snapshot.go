// internal/game/snapshot.go
package game

import "github.com/google/uuid"

// Snapshot is the public table view. It carries hand sizes only; no player's
// cards are ever exposed through it.
type Snapshot struct {
	GameID        uuid.UUID      `json:"game_id"`
	Phase         Phase          `json:"phase"`
	CurrentPlayer string         `json:"current_player"`
	HandCounts    map[string]int `json:"hand_counts"`
	LastMove      string         `json:"last_move,omitempty"`
	LastOwner     string         `json:"last_owner,omitempty"`
	PassCount     int            `json:"pass_count"`
	DiscardCount  int            `json:"discard_count"`
	Ranking       []string       `json:"ranking"`
	Caught        []string       `json:"caught"`
	CheatQueue    []string       `json:"cheat_queue,omitempty"`
	Round         int            `json:"round"`
}

// Snapshot captures the current public state.
func (e *Engine) Snapshot() Snapshot {
	counts := make(map[string]int, len(e.players))
	for _, p := range e.players {
		counts[p] = len(e.hands[p])
	}
	snap := Snapshot{
		GameID:       e.ID,
		Phase:        e.phase,
		HandCounts:   counts,
		LastOwner:    e.lastOwner,
		PassCount:    e.passCount,
		DiscardCount: len(e.discard),
		Ranking:      e.Ranking(),
		Caught:       e.Caught(),
		CheatQueue:   e.CheatQueue(),
		Round:        e.rounds,
	}
	if !e.lastMove.IsPass() {
		snap.LastMove = e.lastMove.String()
	}
	switch e.phase {
	case PhasePlaying:
		snap.CurrentPlayer = e.players[e.current]
	case PhaseCheatResolution:
		snap.CurrentPlayer, _ = e.CheatQueueHead()
	}
	return snap
}
