// Package progression applies end-of-round rewards, leveling and the
// day/evening/night cycle on top of finished games. It reads a game only
// through its final ranking.
package progression

import (
	"fmt"

	"github.com/jason-s-yu/daifugo/internal/dice"
	"github.com/jason-s-yu/daifugo/internal/models"
)

const (
	TopExp         = 30
	MiddleExp      = 20
	BottomExp      = 10
	BottomHPLoss   = 20
	LevelExpFactor = 100 // exp needed to leave level L is L*LevelExpFactor
	LevelUpPoints  = 3   // random stat increments per level gained
)

// Title is the class a player holds after an evening.
type Title string

const (
	Tycoon   Title = "tycoon"
	Commoner Title = "commoner"
	Pauper   Title = "pauper"
)

// Change summarizes what one round did to a player.
type Change struct {
	Player       string          `json:"player"`
	ExpGained    int             `json:"exp_gained"`
	HPLost       int             `json:"hp_lost"`
	StatRaised   models.StatName `json:"stat_raised,omitempty"`
	LevelsGained int             `json:"levels_gained"`
}

// Roster owns every player's stats and current title.
type Roster struct {
	order  []string
	stats  map[string]*models.PlayerStats
	titles map[string]Title
}

// NewRoster starts every player at models.DefaultStats.
func NewRoster(players []string) *Roster {
	r := &Roster{
		order:  append([]string(nil), players...),
		stats:  make(map[string]*models.PlayerStats, len(players)),
		titles: make(map[string]Title, len(players)),
	}
	for _, p := range players {
		s := models.DefaultStats()
		r.stats[p] = &s
	}
	return r
}

// Stats returns a copy of player's stats.
func (r *Roster) Stats(player string) (models.PlayerStats, bool) {
	s, ok := r.stats[player]
	if !ok {
		return models.PlayerStats{}, false
	}
	return *s, true
}

// Set replaces player's stats.
func (r *Roster) Set(player string, s models.PlayerStats) {
	if _, ok := r.stats[player]; !ok {
		r.order = append(r.order, player)
	}
	r.stats[player] = &s
}

// Title returns player's current class, empty before the first evening.
func (r *Roster) Title(player string) Title { return r.titles[player] }

// Players returns the roster order.
func (r *Roster) Players() []string { return append([]string(nil), r.order...) }

// AnyDefeated reports whether some player's hp has reached zero.
func (r *Roster) AnyDefeated() bool {
	for _, s := range r.stats {
		if s.HP <= 0 {
			return true
		}
	}
	return false
}

// ApplyRoundResults rewards the top of ranking, penalizes the bottom and
// gives everyone else flat experience. Ranking must hold at least two known
// players.
func (r *Roster) ApplyRoundResults(ranking []string, src dice.Source) ([]Change, error) {
	if len(ranking) < 2 {
		return nil, fmt.Errorf("ranking needs at least two players, got %d", len(ranking))
	}
	for _, p := range ranking {
		if _, ok := r.stats[p]; !ok {
			return nil, fmt.Errorf("unknown player %q in ranking", p)
		}
	}

	changes := make([]Change, 0, len(ranking))
	last := len(ranking) - 1
	for i, p := range ranking {
		s := r.stats[p]
		ch := Change{Player: p}
		switch i {
		case 0:
			ch.StatRaised = models.TrainableStats[src.Intn(len(models.TrainableStats))]
			s.Add(ch.StatRaised, 1)
			ch.ExpGained = TopExp
		case last:
			s.HP -= BottomHPLoss
			if s.HP < 0 {
				s.HP = 0
			}
			ch.HPLost = BottomHPLoss
			ch.ExpGained = BottomExp
		default:
			ch.ExpGained = MiddleExp
		}
		ch.LevelsGained = r.AddExperience(p, ch.ExpGained, src)
		changes = append(changes, ch)
	}
	return changes, nil
}

// AddExperience credits exp and levels up while the threshold is met. Each
// level restores hp to max and grants LevelUpPoints random stat increments.
// It returns the number of levels gained. A defeated player does not revive.
func (r *Roster) AddExperience(player string, exp int, src dice.Source) int {
	s, ok := r.stats[player]
	if !ok || exp <= 0 {
		return 0
	}
	s.Experience += exp
	gained := 0
	for s.Experience >= s.Level*LevelExpFactor {
		s.Experience -= s.Level * LevelExpFactor
		s.Level++
		gained++
		if s.HP > 0 {
			s.HP = s.MaxHP
		}
		for i := 0; i < LevelUpPoints; i++ {
			s.Add(models.TrainableStats[src.Intn(len(models.TrainableStats))], 1)
		}
	}
	return gained
}

// AssignTitles gives first place Tycoon, last place Pauper and everyone in
// between Commoner.
func (r *Roster) AssignTitles(ranking []string) map[string]Title {
	out := make(map[string]Title, len(ranking))
	for i, p := range ranking {
		t := Commoner
		switch i {
		case 0:
			t = Tycoon
		case len(ranking) - 1:
			t = Pauper
		}
		r.titles[p] = t
		out[p] = t
	}
	return out
}
