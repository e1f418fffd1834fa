package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlayerStats_AddGet(t *testing.T) {
	s := DefaultStats()
	for _, name := range TrainableStats {
		assert.Equal(t, 1, s.Get(name), name)
		s.Add(name, 2)
		assert.Equal(t, 3, s.Get(name), name)
	}
	s.Add("luck", 5)
	assert.Equal(t, 0, s.Get("luck"))
	assert.Equal(t, 100, s.HP)
}

func TestPersonality_Clamp(t *testing.T) {
	p := Personality{Aggression: 1.4, Cooperation: -0.2, Honesty: 0.5, CheatTendency: 2, CharacterType: "chaotic"}
	p.Clamp()
	assert.Equal(t, 1.0, p.Aggression)
	assert.Equal(t, 0.0, p.Cooperation)
	assert.Equal(t, 0.5, p.Honesty)
	assert.Equal(t, 1.0, p.CheatTendency)
	assert.Equal(t, Logical, p.CharacterType)

	p.CharacterType = Vengeful
	p.Clamp()
	assert.Equal(t, Vengeful, p.CharacterType)
}

func TestEffectKind_Valid(t *testing.T) {
	for _, k := range []EffectKind{EffectPeek, EffectSwap, EffectSkip, EffectExtraCards} {
		assert.True(t, k.Valid(), k)
	}
	assert.False(t, EffectKind("steal").Valid())
	assert.True(t, NeutralEvaluation().Effect.Valid())
}
