package ai

import (
	"github.com/jason-s-yu/daifugo/internal/cards"
	"github.com/jason-s-yu/daifugo/internal/models"
)

// StrategyInput is everything a built-in strategy may look at.
type StrategyInput struct {
	Self       string
	Moves      []cards.Move // as returned by EnumerateLegalMoves: pass first
	HandSize   int
	HandCounts map[string]int
	LastOwner  string         // empty on an open field
	Affinity   map[string]int // Self's affinity toward each other player
}

// Strategy picks an index into in.Moves.
type Strategy func(in StrategyInput) int

// Strategies are the offline move pickers keyed by archetype.
var Strategies = map[models.CharacterType]Strategy{
	models.Logical:       logical,
	models.Vengeful:      vengeful,
	models.Sycophant:     sycophant,
	models.Revolutionary: revolutionary,
}

// StrategyFor returns the strategy for t, defaulting to Logical.
func StrategyFor(t models.CharacterType) Strategy {
	if s, ok := Strategies[t]; ok {
		return s
	}
	return logical
}

const strongRank = 11 // "A" and "2"

// logical sheds its weakest play and keeps aces and twos for the endgame
// while the hand is still large.
func logical(in StrategyInput) int {
	if len(in.Moves) < 2 {
		return 0
	}
	if in.LastOwner != "" && in.HandSize > 3 && in.Moves[1].Rank() >= strongRank {
		return 0
	}
	return 1
}

// vengeful spends its strongest play to take the field from someone it
// dislikes.
func vengeful(in StrategyInput) int {
	if len(in.Moves) < 2 {
		return 0
	}
	if in.LastOwner != "" && in.Affinity[in.LastOwner] < 0 {
		return len(in.Moves) - 1
	}
	return 1
}

// sycophant never contests a field held by the leader or a friend.
func sycophant(in StrategyInput) int {
	if len(in.Moves) < 2 {
		return 0
	}
	if in.LastOwner != "" && (in.Affinity[in.LastOwner] >= 30 || isLeader(in.LastOwner, in.HandCounts)) {
		return 0
	}
	return 1
}

// revolutionary breaks any contested field with its strongest play and opens
// with the biggest group it holds.
func revolutionary(in StrategyInput) int {
	if len(in.Moves) < 2 {
		return 0
	}
	if in.LastOwner != "" {
		return len(in.Moves) - 1
	}
	best := 1
	for i := 2; i < len(in.Moves); i++ {
		if len(in.Moves[i]) > len(in.Moves[best]) {
			best = i
		}
	}
	return best
}

// isLeader reports whether p holds strictly the fewest cards among players
// still holding any.
func isLeader(p string, counts map[string]int) bool {
	mine, ok := counts[p]
	if !ok || mine == 0 {
		return false
	}
	for other, n := range counts {
		if other != p && n > 0 && n <= mine {
			return false
		}
	}
	return true
}
