// internal/models/stats.go
package models

// StatName names one of the five trainable attributes.
type StatName string

const (
	StatCharisma  StatName = "charisma"
	StatCharm     StatName = "charm"
	StatLogic     StatName = "logic"
	StatActing    StatName = "acting_power"
	StatIntuition StatName = "intuition"
)

// TrainableStats lists the attributes that leveling and round rewards may raise.
var TrainableStats = []StatName{StatCharisma, StatCharm, StatLogic, StatActing, StatIntuition}

// PlayerStats holds the RPG layer's per-player attributes.
type PlayerStats struct {
	Charisma    int `json:"charisma"`
	Charm       int `json:"charm"`
	Logic       int `json:"logic"`
	ActingPower int `json:"acting_power"`
	Intuition   int `json:"intuition"`

	MaxHP      int `json:"max_hp"`
	HP         int `json:"hp"`
	Level      int `json:"level"`
	Experience int `json:"exp"`
}

// DefaultStats returns a level 1 character with every attribute at 1.
func DefaultStats() PlayerStats {
	return PlayerStats{
		Charisma:    1,
		Charm:       1,
		Logic:       1,
		ActingPower: 1,
		Intuition:   1,
		MaxHP:       100,
		HP:          100,
		Level:       1,
	}
}

// Get returns the named attribute, or 0 for an unknown name.
func (s PlayerStats) Get(name StatName) int {
	switch name {
	case StatCharisma:
		return s.Charisma
	case StatCharm:
		return s.Charm
	case StatLogic:
		return s.Logic
	case StatActing:
		return s.ActingPower
	case StatIntuition:
		return s.Intuition
	}
	return 0
}

// Add raises the named attribute by delta. Unknown names are ignored.
func (s *PlayerStats) Add(name StatName, delta int) {
	switch name {
	case StatCharisma:
		s.Charisma += delta
	case StatCharm:
		s.Charm += delta
	case StatLogic:
		s.Logic += delta
	case StatActing:
		s.ActingPower += delta
	case StatIntuition:
		s.Intuition += delta
	}
}
