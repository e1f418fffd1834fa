// Package skills implements named stat-based checks on top of the contest
// resolver. A check reads stats through StatLookup and writes through Table,
// so it runs against any engine that exposes those two narrow surfaces.
package skills

import (
	"errors"
	"fmt"
	"sort"

	"github.com/jason-s-yu/daifugo/internal/contest"
	"github.com/jason-s-yu/daifugo/internal/dice"
	"github.com/jason-s-yu/daifugo/internal/models"
)

// Kind identifies what a skill does on success.
type Kind string

const (
	Intimidate Kind = "intimidate" // forced pass plus fear
	Charm      Kind = "charm"      // affinity toward the actor
	Persuade   Kind = "persuade"   // turns the target against a third player
	Bluff      Kind = "bluff"      // target loses their next turn
	Observe    Kind = "observe"    // information only
)

var (
	ErrUnknownSkill      = errors.New("unknown skill")
	ErrRequirementsUnmet = errors.New("skill requirements not met")
	ErrOnCooldown        = errors.New("skill on cooldown")
	ErrBadTarget         = errors.New("invalid skill target")
)

// Skill is one catalog entry. Power is the size of the success effect.
type Skill struct {
	Name         string                  `json:"name"`
	Kind         Kind                    `json:"kind"`
	Power        int                     `json:"power"`
	Requirements map[models.StatName]int `json:"requirements,omitempty"`
	Cooldown     int                     `json:"cooldown"`
}

// pairing maps each kind to the actor stat it uses and the target stat that resists it.
var pairing = map[Kind][2]models.StatName{
	Intimidate: {models.StatCharisma, models.StatLogic},
	Charm:      {models.StatCharm, models.StatLogic},
	Persuade:   {models.StatCharisma, models.StatIntuition},
	Bluff:      {models.StatActing, models.StatIntuition},
	Observe:    {models.StatIntuition, models.StatActing},
}

// DefaultCatalog returns the standard skill set keyed by name.
func DefaultCatalog() map[string]Skill {
	return map[string]Skill{
		"stare_down":       {Name: "stare_down", Kind: Intimidate, Power: 10, Requirements: map[models.StatName]int{models.StatCharisma: 2}, Cooldown: 3},
		"tearful_plea":     {Name: "tearful_plea", Kind: Charm, Power: 15, Cooldown: 2},
		"whisper_campaign": {Name: "whisper_campaign", Kind: Persuade, Power: 20, Requirements: map[models.StatName]int{models.StatCharisma: 3}, Cooldown: 3},
		"poker_face":       {Name: "poker_face", Kind: Bluff, Power: 1, Requirements: map[models.StatName]int{models.StatActing: 2}, Cooldown: 4},
		"keen_eye":         {Name: "keen_eye", Kind: Observe, Power: 0, Cooldown: 1},
	}
}

// Names returns catalog keys sorted.
func Names(catalog map[string]Skill) []string {
	out := make([]string, 0, len(catalog))
	for k := range catalog {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Meets reports whether stats satisfy every requirement of s.
func (s Skill) Meets(stats models.PlayerStats) bool {
	for name, want := range s.Requirements {
		if stats.Get(name) < want {
			return false
		}
	}
	return true
}

// StatBonus converts a raw stat into a contest bonus: stat 1 gives 0, and the
// result is clamped to the contest range.
func StatBonus(stat int) int {
	return contest.ClampBonus(stat - 1)
}

// StatLookup resolves a player's stats.
type StatLookup interface {
	Stats(player string) (models.PlayerStats, bool)
}

// Table is the slice of engine state a check may touch.
type Table interface {
	IsSeated(player string) bool
	IsActive(player string) bool
	SkipNextTurn(target string) error
	ForcePass(target string) error
	UpdateRelationship(a, b string, delta int) error
	UpdateFear(a, b string, delta int) error
	Source() dice.Source
}

// Use is one skill invocation. Third is only read by Persuade.
type Use struct {
	Skill  string
	Actor  string
	Target string
	Third  string
}

// Result describes a finished check.
type Result struct {
	Skill     Skill
	Use       Use
	Contest   contest.Result
	Narrative string
}

// Book holds the catalog and per-player cooldowns.
type Book struct {
	Catalog   map[string]Skill
	cooldowns map[string]map[string]int
}

// NewBook returns a Book over catalog; nil means DefaultCatalog.
func NewBook(catalog map[string]Skill) *Book {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &Book{Catalog: catalog, cooldowns: make(map[string]map[string]int)}
}

// Remaining returns how many ticks until player may use skill again.
func (b *Book) Remaining(player, skill string) int { return b.cooldowns[player][skill] }

// Tick counts down every cooldown for player by one.
func (b *Book) Tick(player string) {
	for name, left := range b.cooldowns[player] {
		if left <= 1 {
			delete(b.cooldowns[player], name)
			continue
		}
		b.cooldowns[player][name] = left - 1
	}
}

// Available lists the skills player may use right now, sorted by name.
func (b *Book) Available(player string, stats models.PlayerStats) []Skill {
	var out []Skill
	for _, name := range Names(b.Catalog) {
		s := b.Catalog[name]
		if s.Meets(stats) && b.Remaining(player, name) == 0 {
			out = append(out, s)
		}
	}
	return out
}

// Perform validates the use, runs the contest and applies the success effect.
// A failed check changes nothing on the table; the cooldown starts either way.
func (b *Book) Perform(t Table, stats StatLookup, u Use) (Result, error) {
	s, ok := b.Catalog[u.Skill]
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownSkill, u.Skill)
	}
	pair, ok := pairing[s.Kind]
	if !ok {
		return Result{}, fmt.Errorf("%w: kind %q", ErrUnknownSkill, s.Kind)
	}
	actor, ok := stats.Stats(u.Actor)
	if !ok {
		return Result{}, fmt.Errorf("%w: no stats for %q", ErrBadTarget, u.Actor)
	}
	if !t.IsSeated(u.Actor) {
		return Result{}, fmt.Errorf("%w: %q has no seat", ErrBadTarget, u.Actor)
	}
	target, ok := stats.Stats(u.Target)
	if !ok || u.Target == u.Actor || !t.IsActive(u.Target) {
		return Result{}, fmt.Errorf("%w: %q", ErrBadTarget, u.Target)
	}
	if s.Kind == Persuade && (u.Third == "" || u.Third == u.Actor || u.Third == u.Target) {
		return Result{}, fmt.Errorf("%w: persuade needs a distinct third player", ErrBadTarget)
	}
	if s.Kind == Persuade {
		if _, ok := stats.Stats(u.Third); !ok || !t.IsSeated(u.Third) {
			return Result{}, fmt.Errorf("%w: %q", ErrBadTarget, u.Third)
		}
	}
	if !s.Meets(actor) {
		return Result{}, ErrRequirementsUnmet
	}
	if b.Remaining(u.Actor, s.Name) > 0 {
		return Result{}, ErrOnCooldown
	}

	res := contest.Roll(t.Source(), contest.Input{
		AttackerBonus: StatBonus(actor.Get(pair[0])),
		DefenderBonus: StatBonus(target.Get(pair[1])),
	})
	if s.Cooldown > 0 {
		if b.cooldowns[u.Actor] == nil {
			b.cooldowns[u.Actor] = make(map[string]int)
		}
		b.cooldowns[u.Actor][s.Name] = s.Cooldown
	}

	out := Result{Skill: s, Use: u, Contest: res}
	if !res.Success {
		out.Narrative = fmt.Sprintf("%s tried %s on %s and failed", u.Actor, s.Name, u.Target)
		return out, nil
	}

	var err error
	switch s.Kind {
	case Intimidate:
		if err = t.ForcePass(u.Target); err == nil {
			err = t.UpdateFear(u.Actor, u.Target, s.Power)
		}
		out.Narrative = fmt.Sprintf("%s intimidated %s into passing", u.Actor, u.Target)
	case Charm:
		err = t.UpdateRelationship(u.Actor, u.Target, s.Power)
		out.Narrative = fmt.Sprintf("%s charmed %s", u.Actor, u.Target)
	case Persuade:
		err = t.UpdateRelationship(u.Target, u.Third, -s.Power)
		out.Narrative = fmt.Sprintf("%s turned %s against %s", u.Actor, u.Target, u.Third)
	case Bluff:
		err = t.SkipNextTurn(u.Target)
		out.Narrative = fmt.Sprintf("%s bluffed %s out of their next turn", u.Actor, u.Target)
	case Observe:
		out.Narrative = fmt.Sprintf("%s read %s closely", u.Actor, u.Target)
	}
	return out, err
}
