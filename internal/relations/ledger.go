// Package relations holds the pairwise affinity/fear ledger and the exclusive
// alliance map.
package relations

import (
	"errors"
	"fmt"
	"sort"
)

const (
	MinValue = -100
	MaxValue = 100
)

// ErrInvariantViolation marks state that the public API can never produce.
var ErrInvariantViolation = errors.New("relations invariant violated")

type pair struct{ a, b string }

func key(a, b string) pair {
	if b < a {
		a, b = b, a
	}
	return pair{a, b}
}

// Ledger stores one affinity and one fear value per unordered pair, so reads
// of (a,b) and (b,a) always agree. Missing pairs read as 0.
type Ledger struct {
	affinity map[pair]int
	fear     map[pair]int
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		affinity: make(map[pair]int),
		fear:     make(map[pair]int),
	}
}

// Reset zeroes every pair among players.
func (l *Ledger) Reset(players []string) {
	l.affinity = make(map[pair]int)
	l.fear = make(map[pair]int)
	for i, a := range players {
		for _, b := range players[i+1:] {
			l.affinity[key(a, b)] = 0
			l.fear[key(a, b)] = 0
		}
	}
}

// Affinity returns the symmetric liking score between a and b.
func (l *Ledger) Affinity(a, b string) int { return l.affinity[key(a, b)] }

// Fear returns the symmetric intimidation score between a and b.
func (l *Ledger) Fear(a, b string) int { return l.fear[key(a, b)] }

// UpdateRelationship adds delta to affinity(a,b) and clamps. It returns the
// new value. Self-pairs are ignored.
func (l *Ledger) UpdateRelationship(a, b string, delta int) int {
	return apply(l.affinity, a, b, delta)
}

// UpdateFear adds delta to fear(a,b) and clamps.
func (l *Ledger) UpdateFear(a, b string, delta int) int {
	return apply(l.fear, a, b, delta)
}

func apply(m map[pair]int, a, b string, delta int) int {
	if a == b {
		return 0
	}
	k := key(a, b)
	v := clamp(m[k] + delta)
	m[k] = v
	return v
}

func clamp(v int) int {
	if v < MinValue {
		return MinValue
	}
	if v > MaxValue {
		return MaxValue
	}
	return v
}

// Entry is one row of a player's relationship view.
type Entry struct {
	Other    string `json:"other"`
	Affinity int    `json:"affinity"`
	Fear     int    `json:"fear"`
	Label    Level  `json:"label"`
}

// View lists player's relationships with every other name in others, sorted
// by name.
func (l *Ledger) View(player string, others []string) []Entry {
	out := make([]Entry, 0, len(others))
	for _, o := range others {
		if o == player {
			continue
		}
		aff := l.Affinity(player, o)
		out = append(out, Entry{Other: o, Affinity: aff, Fear: l.Fear(player, o), Label: Label(aff)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Other < out[j].Other })
	return out
}

// Validate checks the clamp range for every stored value.
func (l *Ledger) Validate() error {
	for k, v := range l.affinity {
		if v < MinValue || v > MaxValue {
			return fmt.Errorf("%w: affinity %s/%s = %d", ErrInvariantViolation, k.a, k.b, v)
		}
	}
	for k, v := range l.fear {
		if v < MinValue || v > MaxValue {
			return fmt.Errorf("%w: fear %s/%s = %d", ErrInvariantViolation, k.a, k.b, v)
		}
	}
	return nil
}

// Level is the narrative label for an affinity value.
type Level string

const (
	Enemy    Level = "enemy"
	Hostile  Level = "hostile"
	Neutral  Level = "neutral"
	Friendly Level = "friendly"
	Ally     Level = "ally"
)

// Label is a step function over affinity. For display only.
func Label(affinity int) Level {
	switch {
	case affinity <= -60:
		return Enemy
	case affinity <= -30:
		return Hostile
	case affinity <= 29:
		return Neutral
	case affinity <= 59:
		return Friendly
	default:
		return Ally
	}
}
