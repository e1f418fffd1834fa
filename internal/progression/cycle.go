package progression

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jason-s-yu/daifugo/internal/dice"
	"github.com/sirupsen/logrus"
)

// Phase is the current part of a day.
type Phase string

const (
	Day     Phase = "day_card_game"
	Evening Phase = "evening_results"
	Night   Phase = "night_adventure"
	Ended   Phase = "ended"
)

var ErrWrongPhase = errors.New("cycle is not in the required phase")

// Dealer starts a fresh game while keeping relationships.
type Dealer interface {
	Deal()
}

// Episode is a night event offered to players holding RequiredTitle.
type Episode struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	RequiredTitle Title    `json:"required_title"`
	NPCs          []string `json:"npcs,omitempty"`
	Choices       []string `json:"choices,omitempty"`
	RewardExp     int      `json:"reward_exp"`
}

// DefaultEpisodes is the built-in night event table.
func DefaultEpisodes() []Episode {
	return []Episode{
		{Title: "The Gala", Description: "An invitation to the mansion's private salon.", RequiredTitle: Tycoon, NPCs: []string{"butler"}, Choices: []string{"mingle", "leave early"}, RewardExp: 15},
		{Title: "Investment Pitch", Description: "A stranger asks for funding.", RequiredTitle: Tycoon, Choices: []string{"invest", "decline"}, RewardExp: 10},
		{Title: "Market Rumors", Description: "Gossip at the night market.", RequiredTitle: Commoner, NPCs: []string{"vendor"}, Choices: []string{"listen", "spread"}, RewardExp: 10},
		{Title: "Back Alley", Description: "Someone offers a marked deck.", RequiredTitle: Pauper, NPCs: []string{"fixer"}, Choices: []string{"accept", "refuse"}, RewardExp: 20},
	}
}

// NightResult is one player's episode outcome.
type NightResult struct {
	Player       string  `json:"player"`
	Episode      Episode `json:"episode"`
	LevelsGained int     `json:"levels_gained"`
}

// EveningReport is produced when a day's game is scored.
type EveningReport struct {
	Day     int              `json:"day"`
	Ranking []string         `json:"ranking"`
	Changes []Change         `json:"changes"`
	Titles  map[string]Title `json:"titles"`
}

// Cycle runs Day -> Evening -> Night until someone is defeated or MaxDays
// days have been played.
type Cycle struct {
	ID       uuid.UUID
	Roster   *Roster
	MaxDays  int
	Episodes []Episode

	phase Phase
	day   int
	src   dice.Source
	log   logrus.FieldLogger
}

// NewCycle prepares a cycle positioned before day 1.
func NewCycle(players []string, maxDays int, src dice.Source, log logrus.FieldLogger) *Cycle {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Cycle{
		ID:       uuid.New(),
		Roster:   NewRoster(players),
		MaxDays:  maxDays,
		Episodes: DefaultEpisodes(),
		phase:    Night,
		src:      src,
		log:      log,
	}
}

func (c *Cycle) Phase() Phase { return c.phase }
func (c *Cycle) Day() int     { return c.day }

// Over reports whether the cycle has terminated.
func (c *Cycle) Over() bool { return c.phase == Ended }

// BeginDay deals a new game and moves to Day. It ends the cycle instead,
// returning false, once a player is defeated or MaxDays is reached.
func (c *Cycle) BeginDay(d Dealer) (bool, error) {
	if c.phase != Night {
		return false, fmt.Errorf("%w: begin day from %s", ErrWrongPhase, c.phase)
	}
	if c.Roster.AnyDefeated() || (c.MaxDays > 0 && c.day >= c.MaxDays) {
		c.phase = Ended
		c.log.WithFields(logrus.Fields{"cycle": c.ID, "day": c.day}).Info("cycle ended")
		return false, nil
	}
	c.day++
	c.phase = Day
	d.Deal()
	c.log.WithFields(logrus.Fields{"cycle": c.ID, "day": c.day}).Info("day started")
	return true, nil
}

// EndDay scores the finished game and moves to Evening.
func (c *Cycle) EndDay(ranking []string) (EveningReport, error) {
	if c.phase != Day {
		return EveningReport{}, fmt.Errorf("%w: end day from %s", ErrWrongPhase, c.phase)
	}
	changes, err := c.Roster.ApplyRoundResults(ranking, c.src)
	if err != nil {
		return EveningReport{}, err
	}
	titles := c.Roster.AssignTitles(ranking)
	c.phase = Evening
	c.log.WithFields(logrus.Fields{"cycle": c.ID, "day": c.day, "ranking": ranking}).Info("evening results")
	return EveningReport{
		Day:     c.day,
		Ranking: append([]string(nil), ranking...),
		Changes: changes,
		Titles:  titles,
	}, nil
}

// RunNight hands each titled player a random matching episode and credits
// its experience, then moves to Night.
func (c *Cycle) RunNight() ([]NightResult, error) {
	if c.phase != Evening {
		return nil, fmt.Errorf("%w: night from %s", ErrWrongPhase, c.phase)
	}
	var out []NightResult
	for _, p := range c.Roster.Players() {
		title := c.Roster.Title(p)
		var pool []Episode
		for _, ep := range c.Episodes {
			if ep.RequiredTitle == title {
				pool = append(pool, ep)
			}
		}
		if len(pool) == 0 {
			continue
		}
		ep := pool[dice.Pick(c.src, len(pool))]
		levels := c.Roster.AddExperience(p, ep.RewardExp, c.src)
		out = append(out, NightResult{Player: p, Episode: ep, LevelsGained: levels})
	}
	c.phase = Night
	return out, nil
}
