package relations

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var players = []string{"Player 1", "Player 2", "Player 3", "Player 4"}

func TestLedger_SymmetricAndClamped(t *testing.T) {
	l := NewLedger()
	l.Reset(players)
	rng := rand.New(rand.NewSource(3))

	for i := 0; i < 500; i++ {
		a := players[rng.Intn(len(players))]
		b := players[rng.Intn(len(players))]
		delta := rng.Intn(81) - 40
		if rng.Intn(2) == 0 {
			l.UpdateRelationship(a, b, delta)
		} else {
			l.UpdateFear(a, b, delta)
		}
		require.NoError(t, l.Validate())
		for _, x := range players {
			for _, y := range players {
				require.Equal(t, l.Affinity(x, y), l.Affinity(y, x))
				require.Equal(t, l.Fear(x, y), l.Fear(y, x))
				require.GreaterOrEqual(t, l.Affinity(x, y), MinValue)
				require.LessOrEqual(t, l.Affinity(x, y), MaxValue)
			}
		}
	}
}

func TestLedger_Clamp(t *testing.T) {
	l := NewLedger()
	assert.Equal(t, 100, l.UpdateRelationship("a", "b", 250))
	assert.Equal(t, -100, l.UpdateRelationship("b", "a", -500))
	assert.Equal(t, -90, l.UpdateRelationship("a", "b", 10))
	assert.Equal(t, 0, l.UpdateRelationship("a", "a", 10), "self pairs are ignored")
	assert.Equal(t, 0, l.Affinity("a", "a"))
}

func TestLedger_View(t *testing.T) {
	l := NewLedger()
	l.UpdateRelationship("Player 1", "Player 3", 65)
	l.UpdateFear("Player 1", "Player 2", 10)

	view := l.View("Player 1", players)
	require.Len(t, view, 3)
	assert.Equal(t, Entry{Other: "Player 2", Affinity: 0, Fear: 10, Label: Neutral}, view[0])
	assert.Equal(t, Entry{Other: "Player 3", Affinity: 65, Fear: 0, Label: Ally}, view[1])
}

func TestLabel(t *testing.T) {
	tests := []struct {
		v    int
		want Level
	}{
		{-100, Enemy}, {-60, Enemy}, {-59, Hostile}, {-30, Hostile}, {-29, Neutral},
		{0, Neutral}, {29, Neutral}, {30, Friendly}, {59, Friendly}, {60, Ally}, {100, Ally},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Label(tt.v), "affinity %d", tt.v)
	}
}

func TestAlliances_ProposeBreaksOldPacts(t *testing.T) {
	al := NewAlliances()
	al.Propose("A", "B")
	al.Propose("C", "D")

	dropped := al.Propose("A", "C")
	assert.ElementsMatch(t, []string{"B", "D"}, dropped)
	assert.True(t, al.Allied("A", "C"))
	assert.True(t, al.Allied("C", "A"))
	_, ok := al.PartnerOf("B")
	assert.False(t, ok)
	_, ok = al.PartnerOf("D")
	assert.False(t, ok)
	require.NoError(t, al.Validate())
}

func TestAlliances_BreakOnlyMatchingPair(t *testing.T) {
	al := NewAlliances()
	al.Propose("A", "B")

	assert.False(t, al.Break("A", "C"))
	assert.True(t, al.Allied("A", "B"))

	assert.True(t, al.Break("B", "A"))
	assert.False(t, al.Allied("A", "B"))
	require.NoError(t, al.Validate())
}

func TestAlliances_RandomSequencesStaySymmetric(t *testing.T) {
	al := NewAlliances()
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 1000; i++ {
		a := players[rng.Intn(len(players))]
		b := players[rng.Intn(len(players))]
		if rng.Intn(3) == 0 {
			al.Break(a, b)
		} else {
			al.Propose(a, b)
		}
		require.NoError(t, al.Validate())
		for p, q := range al.Pairs() {
			back, ok := al.PartnerOf(q)
			require.True(t, ok)
			require.Equal(t, p, back)
		}
	}
}
