// internal/models/personality.go
package models

// CharacterType tags the behavioral archetype of an automated player.
type CharacterType string

const (
	Logical       CharacterType = "logical"
	Vengeful      CharacterType = "vengeful"
	Sycophant     CharacterType = "sycophant"
	Revolutionary CharacterType = "revolutionary"
)

// CharacterTypes lists every archetype in a stable order.
var CharacterTypes = []CharacterType{Logical, Vengeful, Sycophant, Revolutionary}

// Personality describes an automated player. Tendencies are in [0,1].
type Personality struct {
	Name          string        `json:"name"`
	CharacterName string        `json:"character_name"`
	Description   string        `json:"description"`
	SpeechStyle   string        `json:"speech_style"`
	Aggression    float64       `json:"aggression"`
	Cooperation   float64       `json:"cooperation"`
	Honesty       float64       `json:"honesty"`
	CheatTendency float64       `json:"cheat_tendency"`
	Backstory     string        `json:"backstory"`
	CharacterType CharacterType `json:"character_type"`
}

// Clamp forces every tendency into [0,1] and fills an unknown archetype.
func (p *Personality) Clamp() {
	p.Aggression = clamp01(p.Aggression)
	p.Cooperation = clamp01(p.Cooperation)
	p.Honesty = clamp01(p.Honesty)
	p.CheatTendency = clamp01(p.CheatTendency)
	switch p.CharacterType {
	case Logical, Vengeful, Sycophant, Revolutionary:
	default:
		p.CharacterType = Logical
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
