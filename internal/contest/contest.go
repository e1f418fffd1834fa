// Package contest implements the opposed "2d6 + bonus" check shared by cheat
// attempts and named skill checks.
package contest

import "github.com/jason-s-yu/daifugo/internal/dice"

const (
	// MinBonus and MaxBonus bound a collaborator-supplied bonus.
	MinBonus = 0
	MaxBonus = 3

	// AffinityThreshold is the |affinity| at which relationships tilt a contest.
	AffinityThreshold = 60
)

// Input carries each side's bonus. Adjustment is added to the attacker only.
type Input struct {
	AttackerBonus int
	DefenderBonus int
	Adjustment    int
}

// Result is the full record of one contest.
type Result struct {
	AttackerRoll  int
	DefenderRoll  int
	AttackerBonus int // includes Adjustment
	DefenderBonus int
	AttackerTotal int
	DefenderTotal int
	Success       bool
}

// Margin is AttackerTotal - DefenderTotal; positive means the attacker won.
func (r Result) Margin() int {
	return r.AttackerTotal - r.DefenderTotal
}

// Resolve is the pure core: the attacker must strictly exceed the defender,
// ties go to the defender.
func Resolve(in Input, attackerRoll, defenderRoll int) Result {
	ab := in.AttackerBonus + in.Adjustment
	at := attackerRoll + ab
	dt := defenderRoll + in.DefenderBonus
	return Result{
		AttackerRoll:  attackerRoll,
		DefenderRoll:  defenderRoll,
		AttackerBonus: ab,
		DefenderBonus: in.DefenderBonus,
		AttackerTotal: at,
		DefenderTotal: dt,
		Success:       at > dt,
	}
}

// Roll draws the attacker's 2d6 then the defender's and resolves.
func Roll(src dice.Source, in Input) Result {
	a := dice.Roll2D6(src)
	d := dice.Roll2D6(src)
	return Resolve(in, a, d)
}

// ClampBonus forces a bonus into [MinBonus, MaxBonus].
func ClampBonus(b int) int {
	if b < MinBonus {
		return MinBonus
	}
	if b > MaxBonus {
		return MaxBonus
	}
	return b
}

// AffinityAdjustment maps the attacker's affinity toward the defender to
// -1, 0 or +1.
func AffinityAdjustment(affinity int) int {
	switch {
	case affinity >= AffinityThreshold:
		return 1
	case affinity <= -AffinityThreshold:
		return -1
	default:
		return 0
	}
}
