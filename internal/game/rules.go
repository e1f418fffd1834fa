// internal/game/rules.go
package game

import "fmt"

// HouseRules holds the engine's tunable constants. Zero values are not
// meaningful; start from DefaultHouseRules.
type HouseRules struct {
	MaxPlayers            int     `json:"maxPlayers"`            // seats allowed at one table
	BetrayalPenalty       int     `json:"betrayalPenalty"`       // affinity lost when a cheat targets one's own ally
	VictimResentment      int     `json:"victimResentment"`      // affinity lost by a successful cheater toward the victim
	ChatBonus             int     `json:"chatBonus"`             // affinity gained per answered chat
	ObservePenalty        int     `json:"observePenalty"`        // affinity lost when observing someone
	AllianceAcceptBonus   int     `json:"allianceAcceptBonus"`   // affinity gained when an offer is accepted
	AllianceRejectPenalty int     `json:"allianceRejectPenalty"` // affinity lost when an offer is rejected
	AccusePenalty         int     `json:"accusePenalty"`         // affinity lost by any accusation
	AccuseConfirmedBonus  int     `json:"accuseConfirmedBonus"`  // extra affinity lost when the accused was caught
	RenouncePenalty       int     `json:"renouncePenalty"`       // affinity lost when an alliance is renounced
	NeutralAttackerBonus  int     `json:"neutralAttackerBonus"`  // cheat bonus used without an evaluation
	NeutralDefenderBonus  int     `json:"neutralDefenderBonus"`  // counter bonus used without an evaluation
	AllianceAcceptScale   float64 `json:"allianceAcceptScale"`   // multiplier on the alliance accept probability
}

// DefaultHouseRules returns the standard table constants.
func DefaultHouseRules() HouseRules {
	return HouseRules{
		MaxPlayers:            8,
		BetrayalPenalty:       20,
		VictimResentment:      10,
		ChatBonus:             2,
		ObservePenalty:        5,
		AllianceAcceptBonus:   20,
		AllianceRejectPenalty: 5,
		AccusePenalty:         10,
		AccuseConfirmedBonus:  10,
		RenouncePenalty:       20,
		NeutralAttackerBonus:  1,
		NeutralDefenderBonus:  1,
		AllianceAcceptScale:   1,
	}
}

// Update will update the house rules with the new rules provided.
// If a rule is not set or defined, it will be ignored, and the old value will persist.
// On error the receiver is left untouched.
func (rules *HouseRules) Update(newRules map[string]interface{}) error {
	next := *rules

	assignInt := func(field *int, key string, minVal, maxVal int) error {
		val, exists := newRules[key]
		if !exists || val == nil {
			return nil
		}
		var n int
		switch v := val.(type) {
		case float64: // JSON numbers decode as float64
			n = int(v)
		case int:
			n = v
		default:
			return fmt.Errorf("invalid type for %s", key)
		}
		if n < minVal || n > maxVal {
			return fmt.Errorf("%s must be within [%d, %d]", key, minVal, maxVal)
		}
		*field = n
		return nil
	}

	assignFloat := func(field *float64, key string, minVal, maxVal float64) error {
		val, exists := newRules[key]
		if !exists || val == nil {
			return nil
		}
		var f float64
		switch v := val.(type) {
		case float64:
			f = v
		case int:
			f = float64(v)
		default:
			return fmt.Errorf("invalid type for %s", key)
		}
		if f < minVal || f > maxVal {
			return fmt.Errorf("%s must be within [%g, %g]", key, minVal, maxVal)
		}
		*field = f
		return nil
	}

	ints := []struct {
		field    *int
		key      string
		min, max int
	}{
		{&next.MaxPlayers, "maxPlayers", 2, 8},
		{&next.BetrayalPenalty, "betrayalPenalty", 0, 200},
		{&next.VictimResentment, "victimResentment", 0, 200},
		{&next.ChatBonus, "chatBonus", 0, 200},
		{&next.ObservePenalty, "observePenalty", 0, 200},
		{&next.AllianceAcceptBonus, "allianceAcceptBonus", 0, 200},
		{&next.AllianceRejectPenalty, "allianceRejectPenalty", 0, 200},
		{&next.AccusePenalty, "accusePenalty", 0, 200},
		{&next.AccuseConfirmedBonus, "accuseConfirmedBonus", 0, 200},
		{&next.RenouncePenalty, "renouncePenalty", 0, 200},
		{&next.NeutralAttackerBonus, "neutralAttackerBonus", 0, 3},
		{&next.NeutralDefenderBonus, "neutralDefenderBonus", 0, 3},
	}
	for _, r := range ints {
		if err := assignInt(r.field, r.key, r.min, r.max); err != nil {
			return err
		}
	}
	if err := assignFloat(&next.AllianceAcceptScale, "allianceAcceptScale", 0, 2); err != nil {
		return err
	}

	*rules = next
	return nil
}

// ParseRules converts a map of rules to a HouseRules struct. It will ensure the types are valid.
func ParseRules(rules map[string]interface{}, current HouseRules) (HouseRules, error) {
	houseRules := current
	err := houseRules.Update(rules)
	return houseRules, err
}
