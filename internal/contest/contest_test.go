package contest

import (
	"testing"

	"github.com/jason-s-yu/daifugo/internal/dice"
	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name        string
		in          Input
		a, d        int
		wantA       int
		wantD       int
		wantSuccess bool
	}{
		{name: "attacker wins with bonus", in: Input{AttackerBonus: 1}, a: 7, d: 5, wantA: 8, wantD: 5, wantSuccess: true},
		{name: "tie favors defender", in: Input{AttackerBonus: 1, DefenderBonus: 1}, a: 6, d: 6, wantA: 7, wantD: 7, wantSuccess: false},
		{name: "defender bonus swings it", in: Input{DefenderBonus: 3}, a: 9, d: 7, wantA: 9, wantD: 10, wantSuccess: false},
		{name: "negative adjustment", in: Input{AttackerBonus: 0, Adjustment: -1}, a: 6, d: 5, wantA: 5, wantD: 5, wantSuccess: false},
		{name: "positive adjustment", in: Input{AttackerBonus: 2, Adjustment: 1}, a: 4, d: 6, wantA: 7, wantD: 6, wantSuccess: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Resolve(tt.in, tt.a, tt.d)
			assert.Equal(t, tt.wantA, r.AttackerTotal)
			assert.Equal(t, tt.wantD, r.DefenderTotal)
			assert.Equal(t, tt.wantSuccess, r.Success)
			assert.Equal(t, tt.a, r.AttackerRoll)
			assert.Equal(t, tt.d, r.DefenderRoll)
			assert.Equal(t, tt.wantA-tt.wantD, r.Margin())
		})
	}
}

func TestRoll_DeterministicDice(t *testing.T) {
	r := Roll(dice.Dice(7, 5), Input{AttackerBonus: 1})
	assert.True(t, r.Success)
	assert.Equal(t, 8, r.AttackerTotal)
	assert.Equal(t, 5, r.DefenderTotal)
}

func TestClampBonus(t *testing.T) {
	assert.Equal(t, 0, ClampBonus(-4))
	assert.Equal(t, 2, ClampBonus(2))
	assert.Equal(t, 3, ClampBonus(9))
}

func TestAffinityAdjustment(t *testing.T) {
	assert.Equal(t, -1, AffinityAdjustment(-100))
	assert.Equal(t, -1, AffinityAdjustment(-60))
	assert.Equal(t, 0, AffinityAdjustment(-59))
	assert.Equal(t, 0, AffinityAdjustment(0))
	assert.Equal(t, 0, AffinityAdjustment(59))
	assert.Equal(t, 1, AffinityAdjustment(60))
}
