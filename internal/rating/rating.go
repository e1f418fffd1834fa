// internal/rating/rating.go
package rating

import (
	"math"
	"sort"
	"sync"
)

// Standing is one player's cross-game rating.
type Standing struct {
	Player string  `json:"player"`
	Rating float64 `json:"rating"`
	RD     float64 `json:"rd"`
	Sigma  float64 `json:"sigma"`
	Games  int     `json:"games"`
}

// NewStanding returns the baseline standing for player.
func NewStanding(player string) Standing {
	return Standing{Player: player, Rating: DefaultRating, RD: DefaultRD, Sigma: DefaultSigma}
}

// PlacementScores maps a finish order to [0,1]: first place 1, last 0,
// linear in between.
func PlacementScores(ranking []string) map[string]float64 {
	out := make(map[string]float64, len(ranking))
	if len(ranking) == 1 {
		out[ranking[0]] = 1
		return out
	}
	for i, p := range ranking {
		out[p] = 1 - float64(i)/float64(len(ranking)-1)
	}
	return out
}

// Board tracks standings across games. It is safe for concurrent use.
type Board struct {
	mu        sync.Mutex
	standings map[string]Standing
}

func NewBoard() *Board {
	return &Board{standings: make(map[string]Standing)}
}

// Get returns player's standing, or the baseline if they have not played.
func (b *Board) Get(player string) Standing {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.get(player)
}

func (b *Board) get(player string) Standing {
	if s, ok := b.standings[player]; ok {
		return s
	}
	return NewStanding(player)
}

// Record applies one finished game. Each player is rated against a single
// virtual opponent whose rating is the mean of the rest of the table.
// Rankings with fewer than two players are ignored.
func (b *Board) Record(ranking []string) []Standing {
	if len(ranking) < 2 {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	scores := PlacementScores(ranking)
	before := make([]Standing, len(ranking))
	var total float64
	for i, p := range ranking {
		before[i] = b.get(p)
		total += before[i].Rating
	}

	after := make([]Standing, len(ranking))
	for i, s := range before {
		oppRating := (total - s.Rating) / float64(len(ranking)-1)
		opp := toGlicko(oppRating, DefaultRD, DefaultSigma)
		next := update(toGlicko(s.Rating, s.RD, s.Sigma), opp, scores[s.Player])
		after[i] = Standing{
			Player: s.Player,
			Rating: math.Round(next.rating()*100) / 100,
			RD:     next.rd(),
			Sigma:  next.sigma,
			Games:  s.Games + 1,
		}
	}
	for _, s := range after {
		b.standings[s.Player] = s
	}
	return after
}

// Leaderboard returns every known standing, best rating first.
func (b *Board) Leaderboard() []Standing {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Standing, 0, len(b.standings))
	for _, s := range b.standings {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Rating != out[j].Rating {
			return out[i].Rating > out[j].Rating
		}
		return out[i].Player < out[j].Player
	})
	return out
}
