package match

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jason-s-yu/daifugo/internal/ai"
	"github.com/jason-s-yu/daifugo/internal/cards"
	"github.com/jason-s-yu/daifugo/internal/dice"
	"github.com/jason-s-yu/daifugo/internal/game"
	"github.com/jason-s-yu/daifugo/internal/models"
	"github.com/jason-s-yu/daifugo/internal/relations"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errDown = errors.New("service down")

// fakeCollab answers from fixed fields; a set err makes every call fail.
type fakeCollab struct {
	err         error
	moveIdx     int
	moveErr     error
	counter     string
	eval        models.Evaluation
	evalErr     error
	describe    string
	reply       string
	hint        string
	action      ai.Action
	personaErrs map[string]bool

	messages []string
}

func (f *fakeCollab) ChooseMove(context.Context, ai.MoveContext, []cards.Move) (int, error) {
	if f.moveErr != nil {
		return 0, f.moveErr
	}
	return f.moveIdx, f.err
}

func (f *fakeCollab) GeneratePersonality(_ context.Context, seat string) (models.Personality, error) {
	if f.personaErrs[seat] {
		return models.Personality{}, errDown
	}
	return models.Personality{Name: "gen-" + seat, CharacterName: "gen-" + seat, CharacterType: models.Revolutionary}, f.err
}

func (f *fakeCollab) ChatReply(_ context.Context, _ models.Personality, _, message string, _ int) (string, error) {
	f.messages = append(f.messages, message)
	return f.reply, f.err
}

func (f *fakeCollab) ObservationHint(context.Context, models.Personality, int, string) (string, error) {
	return f.hint, f.err
}

func (f *fakeCollab) CounterMeasure(context.Context, models.Personality, string, string) (string, error) {
	return f.counter, f.err
}

func (f *fakeCollab) EvaluateCheat(context.Context, string, string) (models.Evaluation, error) {
	if f.evalErr != nil {
		return models.Evaluation{}, f.evalErr
	}
	return f.eval, f.err
}

func (f *fakeCollab) DescribeCheat(context.Context, models.Personality, string) (string, error) {
	return f.describe, f.err
}

func (f *fakeCollab) DecideAction(context.Context, models.Personality, string, []relations.Entry) (ai.Action, error) {
	return f.action, f.err
}

func c(s cards.Suit, r cards.Rank) cards.Card { return cards.MustCard(s, r) }

func threeHands() map[string][]cards.Card {
	return map[string][]cards.Card{
		"A": {c(cards.Spade, "3")},
		"B": {c(cards.Diamond, "5")},
		"C": {c(cards.Heart, "3"), c(cards.Club, "K")},
	}
}

func fourHands() map[string][]cards.Card {
	return map[string][]cards.Card{
		"A": {c(cards.Spade, "3"), c(cards.Spade, "9"), c(cards.Heart, "K")},
		"B": {c(cards.Heart, "4"), c(cards.Heart, "5"), c(cards.Diamond, "Q")},
		"C": {c(cards.Club, "4"), c(cards.Club, "6"), c(cards.Club, "J")},
		"D": {c(cards.Diamond, "7"), c(cards.Diamond, "8"), c(cards.Club, "2")},
	}
}

// newTestSession seats players with the given hands and returns the session
// and a hook capturing its log entries.
func newTestSession(t *testing.T, hands map[string][]cards.Card, src dice.Source, opts ...Option) (*Session, *test.Hook) {
	t.Helper()
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	players := make([]string, 0, len(hands))
	for _, p := range []string{"A", "B", "C", "D"} {
		if _, ok := hands[p]; ok {
			players = append(players, p)
		}
	}
	eng, err := game.NewEngine(players,
		game.WithSource(src),
		game.WithLogger(logger),
		game.WithInvariantChecks(true),
	)
	require.NoError(t, err)
	require.NoError(t, eng.SetupHands(hands))
	return NewSession(eng, opts...), hook
}

func openCheatWindow(t *testing.T, s *Session) {
	t.Helper()
	for _, p := range []string{"A", "B"} {
		_, err := s.Engine.ApplyMove(p, nil)
		require.NoError(t, err)
	}
	require.Equal(t, game.PhaseCheatResolution, s.Engine.Phase())
}

func warnings(hook *test.Hook) []*logrus.Entry {
	var out []*logrus.Entry
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel {
			out = append(out, e)
		}
	}
	return out
}

func withTendency(p string, tendency float64) Option {
	persona := ai.FallbackFor(0)
	persona.CheatTendency = tendency
	return WithPersonalities(map[string]models.Personality{p: persona})
}

func TestCheatTurn_OfflineUsesDefaults(t *testing.T) {
	// three template picks, then attacker rolls 7 and defender 5
	src := dice.NewScripted(0, 0, 0, 5, 0, 3, 0).WithFloats(0.1)
	s, _ := newTestSession(t, threeHands(), src, withTendency("A", 0.5))
	openCheatWindow(t, s)

	out, err := s.CheatTurn(context.Background())
	require.NoError(t, err)
	require.NotNil(t, out)

	assert.Equal(t, "B", out.Attempt.Target, "ties on affinity go to the smaller hand")
	assert.Equal(t, "with a perfect plan, with quick hands, peek at B", out.Attempt.Prompt)
	assert.Equal(t, DefaultCounterPrompt, out.Attempt.CounterPrompt)
	assert.True(t, out.Attempt.Success)
	assert.Equal(t, models.EffectPeek, out.Attempt.Effect)
	assert.Equal(t, []cards.Card{c(cards.Diamond, "5")}, out.Revealed)
	assert.Equal(t, -10, s.Engine.Affinity("A", "B"))
	assert.Equal(t, []string{"B", "C"}, s.Engine.CheatQueue())
}

func TestCheatTurn_DeclinesAboveTendency(t *testing.T) {
	src := dice.NewScripted(0).WithFloats(0.9)
	s, _ := newTestSession(t, threeHands(), src, withTendency("A", 0.5))
	openCheatWindow(t, s)

	out, err := s.CheatTurn(context.Background())
	require.NoError(t, err)
	assert.Nil(t, out)
	assert.Empty(t, s.Engine.CheatHistory())
	assert.Equal(t, []string{"B", "C"}, s.Engine.CheatQueue())
}

func TestCheatTurn_CollaboratorSuppliesPromptsAndEvaluation(t *testing.T) {
	fc := &fakeCollab{
		describe: "I palm a card",
		counter:  "I hold my cards tight",
		eval:     models.Evaluation{AttackerBonus: 3, DefenderBonus: 0, Effect: models.EffectSwap},
	}
	// both roll 5; the swap draws cycle back to zero
	src := dice.NewScripted(3, 0, 3, 0).WithFloats(0.1)
	s, _ := newTestSession(t, threeHands(), src, withTendency("A", 0.5), WithCollaborator(fc))
	openCheatWindow(t, s)

	out, err := s.CheatTurn(context.Background())
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, "I palm a card", out.Attempt.Prompt)
	assert.Equal(t, "I hold my cards tight", out.Attempt.CounterPrompt)
	assert.True(t, out.Attempt.Success)
	assert.Equal(t, models.EffectSwap, out.Attempt.Effect)

	a, _ := s.Engine.HandOf("A")
	assert.Equal(t, []cards.Card{c(cards.Diamond, "5")}, a)
}

func TestCheatTurn_EvaluationFailureFallsBackToNeutral(t *testing.T) {
	fc := &fakeCollab{describe: "quick swap", counter: "watching", evalErr: errDown}
	// attacker 5, defender 5: neutral bonuses tie, the defender wins
	src := dice.NewScripted(3, 0, 3, 0).WithFloats(0.1)
	s, hook := newTestSession(t, threeHands(), src, withTendency("A", 0.5), WithCollaborator(fc))
	openCheatWindow(t, s)

	out, err := s.CheatTurn(context.Background())
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, 1, out.Attempt.AttackerBonus)
	assert.Equal(t, 1, out.Attempt.DefenderBonus)
	assert.True(t, out.Attempt.Caught)
	assert.True(t, s.Engine.IsCaught("A"))

	var fallback bool
	for _, e := range warnings(hook) {
		if e.Data["call"] == "evaluate" {
			fallback = true
		}
	}
	assert.True(t, fallback, "evaluation failure is logged with its default")
}

func TestPlayTurn_OfflineStrategyLeadsLowest(t *testing.T) {
	s, _ := newTestSession(t, fourHands(), dice.NewScripted(0))
	res, err := s.PlayTurn(context.Background())
	require.NoError(t, err)

	last, owner := s.Engine.LastMove()
	assert.Equal(t, cards.Move{c(cards.Spade, "3")}, last)
	assert.Equal(t, "A", owner)
	assert.Equal(t, "B", res.Next)
}

func TestPlayTurn_CollaboratorFailureFallsBackToRandom(t *testing.T) {
	for name, fc := range map[string]*fakeCollab{
		"error":        {moveErr: errDown},
		"out of range": {moveIdx: 9},
	} {
		t.Run(name, func(t *testing.T) {
			// random pick lands on index 2, the spontaneous roll misses
			src := dice.NewScripted(2).WithFloats(0.9)
			s, hook := newTestSession(t, fourHands(), src, WithCollaborator(fc))

			_, err := s.PlayTurn(context.Background())
			require.NoError(t, err)
			last, _ := s.Engine.LastMove()
			assert.Equal(t, cards.Move{c(cards.Spade, "9")}, last)
			require.NotEmpty(t, warnings(hook))
			assert.Equal(t, "move", warnings(hook)[0].Data["call"])
		})
	}
}

func TestPlayTurn_SpontaneousAccuse(t *testing.T) {
	fc := &fakeCollab{moveIdx: 1, action: ai.Action{Kind: ai.ActionAccuse, Target: "B", Message: "I saw that"}}
	src := dice.NewScripted(0).WithFloats(0.1)
	s, _ := newTestSession(t, fourHands(), src, WithCollaborator(fc))

	_, err := s.PlayTurn(context.Background())
	require.NoError(t, err)
	assert.Equal(t, -10, s.Engine.Affinity("A", "B"))
}

func TestPlayTurn_SpontaneousAllianceUsesRecipientCooperation(t *testing.T) {
	offer := ai.Action{Kind: ai.ActionCooperate, Target: "B", Message: "team up?"}
	personas := func(a, b float64) map[string]models.Personality {
		return map[string]models.Personality{
			"A": {Name: "A", CharacterType: models.Logical, Cooperation: a},
			"B": {Name: "B", CharacterType: models.Logical, Cooperation: b},
		}
	}

	// chance = 1.0 * (0+100)/200 = 0.5, draw 0.1
	s, _ := newTestSession(t, fourHands(), dice.NewScripted(0).WithFloats(0.1),
		WithCollaborator(&fakeCollab{moveIdx: 1, action: offer}), WithPersonalities(personas(0, 1)))
	_, err := s.PlayTurn(context.Background())
	require.NoError(t, err)
	partner, ok := s.Engine.PartnerOf("A")
	require.True(t, ok, "a cooperative recipient accepts an uncooperative proposer")
	assert.Equal(t, "B", partner)
	assert.Equal(t, 20, s.Engine.Affinity("A", "B"))

	s, _ = newTestSession(t, fourHands(), dice.NewScripted(0).WithFloats(0.1),
		WithCollaborator(&fakeCollab{moveIdx: 1, action: offer}), WithPersonalities(personas(1, 0)))
	_, err = s.PlayTurn(context.Background())
	require.NoError(t, err)
	_, ok = s.Engine.PartnerOf("A")
	assert.False(t, ok, "an uncooperative recipient always refuses")
	assert.Equal(t, -5, s.Engine.Affinity("A", "B"))
}

func TestPlayTurn_SpontaneousChatIsUnanswered(t *testing.T) {
	fc := &fakeCollab{moveIdx: 1, action: ai.Action{Kind: ai.ActionChat, Target: "C", Message: "nice play"}}
	src := dice.NewScripted(0).WithFloats(0.1)
	s, _ := newTestSession(t, fourHands(), src, WithCollaborator(fc))

	_, err := s.PlayTurn(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, s.Engine.Affinity("A", "C"))
	require.Len(t, s.Engine.Conversation("A", "C"), 1)
}

func TestChat(t *testing.T) {
	s, _ := newTestSession(t, fourHands(), dice.NewScripted(0))
	reply, err := s.Chat(context.Background(), "A", "B", "hello")
	require.NoError(t, err)
	assert.Empty(t, reply)
	assert.Equal(t, 0, s.Engine.Affinity("A", "B"), "no answer, no bonus")

	fc := &fakeCollab{reply: "hi yourself"}
	s, _ = newTestSession(t, fourHands(), dice.NewScripted(0), WithCollaborator(fc))
	reply, err = s.Chat(context.Background(), "A", "B", "hello")
	require.NoError(t, err)
	assert.Equal(t, "hi yourself", reply)
	assert.Equal(t, 2, s.Engine.Affinity("A", "B"))
	assert.Len(t, s.Engine.Conversation("A", "B"), 2)

	_, err = s.Chat(context.Background(), "A", "A", "me")
	assert.ErrorIs(t, err, game.ErrInvalidTarget)
	_, err = s.Chat(context.Background(), "A", "Z", "who")
	assert.ErrorIs(t, err, game.ErrUnknownPlayer)
}

func TestObserve(t *testing.T) {
	s, _ := newTestSession(t, fourHands(), dice.NewScripted(0))
	hint, err := s.Observe(context.Background(), "A", "B")
	require.NoError(t, err)
	assert.Equal(t, "B is holding 3 cards.", hint)
	assert.Equal(t, []string{"[B] B is holding 3 cards."}, s.Engine.RevealedInfo("A"))
	assert.Equal(t, -5, s.Engine.Affinity("A", "B"))

	fc := &fakeCollab{hint: strings.Repeat("z", 100)}
	s, _ = newTestSession(t, fourHands(), dice.NewScripted(0), WithCollaborator(fc))
	hint, err = s.Observe(context.Background(), "A", "B")
	require.NoError(t, err)
	assert.Len(t, hint, ai.MaxHintRunes)
}

func TestOfferAllianceAndAccuse(t *testing.T) {
	fc := &fakeCollab{reply: "deal"}
	partner := ai.FallbackFor(2) // cooperation 0.9
	s, _ := newTestSession(t, fourHands(), dice.NewScripted(0).WithFloats(0.1),
		WithCollaborator(fc), WithPersonalities(map[string]models.Personality{"B": partner}))

	accepted, reply, err := s.OfferAlliance(context.Background(), "A", "B")
	require.NoError(t, err)
	assert.True(t, accepted)
	assert.Equal(t, "deal", reply)
	p, ok := s.Engine.PartnerOf("A")
	require.True(t, ok)
	assert.Equal(t, "B", p)

	confirmed, _, err := s.Accuse(context.Background(), "A", "B")
	require.NoError(t, err)
	assert.False(t, confirmed)
	assert.Equal(t, 10, s.Engine.Affinity("A", "B"))
	assert.Contains(t, fc.messages[len(fc.messages)-1], "Deny it.")

	broke, err := s.Renounce("A", "B")
	require.NoError(t, err)
	assert.True(t, broke)
	assert.Equal(t, -10, s.Engine.Affinity("A", "B"))
}

func TestLoadPersonalities(t *testing.T) {
	fc := &fakeCollab{personaErrs: map[string]bool{"B": true}}
	keep := ai.FallbackFor(3)
	s, hook := newTestSession(t, fourHands(), dice.NewScripted(0),
		WithCollaborator(fc), WithPersonalities(map[string]models.Personality{"D": keep}))

	s.LoadPersonalities(context.Background())
	assert.Equal(t, "gen-A", s.Persona("A").Name)
	assert.Equal(t, ai.FallbackFor(1), s.Persona("B"))
	assert.Equal(t, "gen-C", s.Persona("C").Name)
	assert.Equal(t, keep, s.Persona("D"))
	assert.Len(t, warnings(hook), 1)
}

func TestPlay_OfflineGameFinishes(t *testing.T) {
	logger, _ := test.NewNullLogger()
	eng, err := game.NewEngine([]string{"A", "B", "C", "D"},
		game.WithSource(dice.NewSeeded(2024)),
		game.WithLogger(logger),
		game.WithInvariantChecks(true),
	)
	require.NoError(t, err)
	eng.Deal()

	s := NewSession(eng)
	ranking, err := s.Play(context.Background(), 5000)
	require.NoError(t, err)
	assert.Equal(t, game.PhaseGameOver, eng.Phase())
	assert.ElementsMatch(t, []string{"A", "B", "C", "D"}, ranking)
}

func TestPlay_RespectsStepLimitAndContext(t *testing.T) {
	s, _ := newTestSession(t, fourHands(), dice.NewScripted(0))
	_, err := s.Play(context.Background(), 1)
	assert.ErrorIs(t, err, ErrStalled)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Play(ctx, 0)
	assert.ErrorIs(t, err, context.Canceled)
}
