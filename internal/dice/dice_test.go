package dice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoll2D6_Range(t *testing.T) {
	src := NewSeeded(42)
	for i := 0; i < 1000; i++ {
		v := Roll2D6(src)
		require.GreaterOrEqual(t, v, 2)
		require.LessOrEqual(t, v, 12)
	}
}

func TestSeeded_Deterministic(t *testing.T) {
	a, b := NewSeeded(7), NewSeeded(7)
	for i := 0; i < 20; i++ {
		assert.Equal(t, a.Intn(100), b.Intn(100))
	}
	assert.Equal(t, int64(7), a.Seed())
}

func TestNewRandom(t *testing.T) {
	src, err := NewRandom()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, src.Intn(6), 0)
}

func TestDiceScript(t *testing.T) {
	src := Dice(7, 5, 12, 2)
	assert.Equal(t, 7, Roll2D6(src))
	assert.Equal(t, 5, Roll2D6(src))
	assert.Equal(t, 12, Roll2D6(src))
	assert.Equal(t, 2, Roll2D6(src))
}

func TestScripted_Floats(t *testing.T) {
	src := NewScripted().WithFloats(0.25, 0.75)
	assert.Equal(t, 0.25, src.Float64())
	assert.Equal(t, 0.75, src.Float64())
	assert.Equal(t, 0.25, src.Float64())
	assert.Equal(t, 0, src.Intn(3))
}
