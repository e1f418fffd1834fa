package game

import (
	"testing"

	"github.com/jason-s-yu/daifugo/internal/dice"
	"github.com/jason-s-yu/daifugo/internal/relations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChat(t *testing.T) {
	e, _ := setupTestGame(t, four, fourHands(), nil)

	require.NoError(t, e.Chat("A", "B", "nice hand?", ""))
	assert.Equal(t, 0, e.Affinity("A", "B"))

	require.NoError(t, e.Chat("A", "B", "want to team up?", "maybe"))
	assert.Equal(t, 2, e.Affinity("B", "A"))

	log := e.Conversation("B", "A")
	require.Len(t, log, 3)
	assert.Equal(t, Message{Sender: "B", Text: "maybe", Kind: KindChat}, log[2])

	assert.ErrorIs(t, e.Chat("A", "A", "hi", ""), ErrInvalidTarget)
	assert.ErrorIs(t, e.Chat("A", "Z", "hi", ""), ErrUnknownPlayer)
}

func TestObserve(t *testing.T) {
	e, _ := setupTestGame(t, four, fourHands(), nil)
	require.NoError(t, e.Observe("A", "C", "holds something strong"))

	assert.Equal(t, []string{"[C] holds something strong"}, e.RevealedInfo("A"))
	assert.Empty(t, e.RevealedInfo("C"))
	assert.Equal(t, -5, e.Affinity("A", "C"))
	assert.Equal(t, KindObserve, e.Conversation("A", "C")[0].Kind)
}

func TestOfferAlliance(t *testing.T) {
	src := dice.NewScripted(0).WithFloats(0.3, 0.9)
	e, _ := setupTestGame(t, four, fourHands(), src)

	// cooperation 1, affinity 0: chance 0.5
	ok, err := e.OfferAlliance("A", "B", 1)
	require.NoError(t, err)
	assert.True(t, ok)
	partner, allied := e.PartnerOf("B")
	assert.True(t, allied)
	assert.Equal(t, "A", partner)
	assert.Equal(t, 20, e.Affinity("A", "B"))

	// 0.9 is above 1 * (0+100)/200
	ok, err = e.OfferAlliance("C", "D", 1)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, -5, e.Affinity("C", "D"))
	_, allied = e.PartnerOf("C")
	assert.False(t, allied)
}

func TestOfferAlliance_ReplacesExistingPact(t *testing.T) {
	src := dice.NewScripted(0).WithFloats(0)
	e, _ := setupTestGame(t, four, fourHands(), src)
	require.NoError(t, e.ProposeAlliance("A", "B"))

	ok, err := e.OfferAlliance("C", "A", 0.5)
	require.NoError(t, err)
	require.True(t, ok)

	partner, _ := e.PartnerOf("A")
	assert.Equal(t, "C", partner)
	_, allied := e.PartnerOf("B")
	assert.False(t, allied)
}

func TestAccuse(t *testing.T) {
	e, _ := setupTestGame(t, four, fourHands(), nil)

	confirmed, err := e.Accuse("A", "B")
	require.NoError(t, err)
	assert.False(t, confirmed)
	assert.Equal(t, -10, e.Affinity("A", "B"))

	require.NoError(t, e.CatchCheater("C"))
	confirmed, err = e.Accuse("A", "C")
	require.NoError(t, err)
	assert.True(t, confirmed)
	assert.Equal(t, -20, e.Affinity("A", "C"))
	assert.Equal(t, []string{"[C] confirmed cheater"}, e.RevealedInfo("A"))
}

func TestRenounceAlliance(t *testing.T) {
	e, _ := setupTestGame(t, four, fourHands(), nil)

	broke, err := e.RenounceAlliance("A", "B")
	require.NoError(t, err)
	assert.False(t, broke)
	assert.Equal(t, 0, e.Affinity("A", "B"))

	require.NoError(t, e.ProposeAlliance("A", "B"))
	broke, err = e.RenounceAlliance("B", "A")
	require.NoError(t, err)
	assert.True(t, broke)
	assert.Equal(t, -20, e.Affinity("A", "B"))
	assert.Equal(t, KindBreakAlliance, e.Conversation("A", "B")[0].Kind)
}

func TestRelationships(t *testing.T) {
	e, _ := setupTestGame(t, four, fourHands(), nil)
	require.NoError(t, e.UpdateRelationship("A", "D", 70))
	require.NoError(t, e.UpdateFear("A", "D", 10))
	require.NoError(t, e.UpdateRelationship("A", "B", -500))

	view := e.Relationships("A")
	require.Len(t, view, 3)
	assert.Equal(t, relations.Entry{Other: "B", Affinity: -100, Label: relations.Enemy}, view[0])
	assert.Equal(t, relations.Entry{Other: "D", Affinity: 70, Fear: 10, Label: relations.Ally}, view[2])
}

func TestLedgerSurvivesRedeal(t *testing.T) {
	e, _ := setupTestGame(t, four, fourHands(), nil)
	require.NoError(t, e.UpdateRelationship("A", "B", 40))
	oldID := e.ID

	e.Deal()
	assert.NotEqual(t, oldID, e.ID)
	assert.Equal(t, 40, e.Affinity("A", "B"))
	assert.Empty(t, e.Ranking())
}
