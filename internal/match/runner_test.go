package match

import (
	"context"
	"testing"

	"github.com/jason-s-yu/daifugo/internal/dice"
	"github.com/jason-s-yu/daifugo/internal/game"
	"github.com/jason-s-yu/daifugo/internal/models"
	"github.com/jason-s-yu/daifugo/internal/progression"
	"github.com/jason-s-yu/daifugo/internal/rating"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memArchive struct {
	saved []models.GameSummary
	err   error
}

func (m *memArchive) SaveGame(_ context.Context, s models.GameSummary) error {
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, s)
	return nil
}

func TestRunner_PlaysEveryDay(t *testing.T) {
	logger, _ := test.NewNullLogger()
	players := []string{"A", "B", "C", "D"}
	eng, err := game.NewEngine(players,
		game.WithSource(dice.NewSeeded(11)),
		game.WithLogger(logger),
		game.WithInvariantChecks(true),
	)
	require.NoError(t, err)

	cycle := progression.NewCycle(players, 2, dice.NewSeeded(12), logger)
	archive := &memArchive{}
	r := NewRunner(NewSession(eng), cycle)
	r.Board = rating.NewBoard()
	r.Archive = archive

	reports, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.True(t, cycle.Over())

	require.Len(t, archive.saved, 2)
	assert.NotEqual(t, archive.saved[0].GameID, archive.saved[1].GameID, "each day deals a fresh game")
	for i, rep := range reports {
		assert.Equal(t, i+1, rep.Summary.Day)
		assert.Equal(t, cycle.ID, rep.Summary.CycleID)
		assert.Len(t, rep.Summary.Ranking, 4)
		assert.Len(t, rep.Standings, 4)
		assert.Equal(t, progression.Tycoon, rep.Evening.Titles[rep.Summary.Ranking[0]])
		assert.Equal(t, progression.Pauper, rep.Evening.Titles[rep.Summary.Ranking[3]])
	}
	assert.Equal(t, 2, r.Board.Get("A").Games)
}

func TestRunner_ArchiveFailureDoesNotStopCycle(t *testing.T) {
	logger, hook := test.NewNullLogger()
	players := []string{"A", "B", "C"}
	eng, err := game.NewEngine(players, game.WithSource(dice.NewSeeded(5)), game.WithLogger(logger))
	require.NoError(t, err)

	r := NewRunner(NewSession(eng), progression.NewCycle(players, 1, dice.NewSeeded(6), logger))
	r.Archive = &memArchive{err: errDown}

	reports, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, reports, 1)
	assert.NotEmpty(t, warnings(hook))
}
