// internal/models/cheat.go
package models

import "time"

// EffectKind is the outcome applied by a successful cheat.
type EffectKind string

const (
	EffectPeek       EffectKind = "peek"
	EffectSwap       EffectKind = "swap"
	EffectSkip       EffectKind = "skip"
	EffectExtraCards EffectKind = "extra_cards"
)

// Valid reports whether k is one of the four known effects.
func (k EffectKind) Valid() bool {
	switch k {
	case EffectPeek, EffectSwap, EffectSkip, EffectExtraCards:
		return true
	}
	return false
}

// Evaluation is the judged outcome of an attack/counter description pair.
type Evaluation struct {
	AttackerBonus int        `json:"cheat_bonus"`
	DefenderBonus int        `json:"counter_bonus"`
	Effect        EffectKind `json:"effect"`
	Reasoning     string     `json:"reasoning"`
}

// NeutralEvaluation is substituted whenever no judgment is available.
func NeutralEvaluation() Evaluation {
	return Evaluation{AttackerBonus: 1, DefenderBonus: 1, Effect: EffectPeek, Reasoning: "no evaluation available"}
}

// CheatAttempt is an immutable history entry for one resolved cheat.
type CheatAttempt struct {
	Attacker      string     `json:"attacker"`
	Target        string     `json:"target"`
	Prompt        string     `json:"prompt"`
	CounterPrompt string     `json:"counter_prompt"`
	AttackerBonus int        `json:"attacker_bonus"`
	DefenderBonus int        `json:"defender_bonus"`
	AttackerRoll  int        `json:"attacker_roll"`
	DefenderRoll  int        `json:"defender_roll"`
	Success       bool       `json:"success"`
	Effect        EffectKind `json:"effect"`
	Caught        bool       `json:"caught"`
	Betrayal      bool       `json:"betrayal"`
	Reasoning     string     `json:"reasoning,omitempty"`
	At            time.Time  `json:"at"`
}
