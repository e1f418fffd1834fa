// internal/game/engine.go
package game

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/daifugo/internal/cards"
	"github.com/jason-s-yu/daifugo/internal/dice"
	"github.com/jason-s-yu/daifugo/internal/models"
	"github.com/jason-s-yu/daifugo/internal/relations"
	"github.com/sirupsen/logrus"
)

// Phase is the engine's top-level state.
type Phase string

const (
	PhaseSetup           Phase = "setup"
	PhasePlaying         Phase = "playing"
	PhaseCheatResolution Phase = "cheat_resolution"
	PhaseRoundOver       Phase = "round_over"
	PhaseGameOver        Phase = "game_over"
)

// OnGameEndFunc is called once when a game reaches GameOver.
type OnGameEndFunc func(gameID uuid.UUID, ranking []string, caught []string)

// Engine holds the entire state for a single table in memory. It is not safe
// for concurrent use; callers such as match.Session serialize access.
type Engine struct {
	ID    uuid.UUID
	Rules HouseRules

	// OnGameEnd, if set, fires when the last active player is determined.
	OnGameEnd OnGameEndFunc

	players []string
	seat    map[string]int
	hands   map[string][]cards.Card
	discard []cards.Card

	phase     Phase
	current   int
	lastMove  cards.Move
	lastOwner string
	passCount int
	rounds    int

	finishers []string // finish order, survivor last
	caught    []string // catch order
	finished  map[string]bool
	caughtSet map[string]bool

	skipNext   map[string]bool
	forcedPass map[string]bool // cleared at every round reset
	cheatQueue []string
	cheats     []models.CheatAttempt

	ledger        *relations.Ledger
	alliances     *relations.Alliances
	conversations map[convKey][]Message
	revealed      map[string][]string

	src             dice.Source
	log             logrus.FieldLogger
	recorder        ActionRecorder
	now             func() time.Time
	actionIndex     int
	checkInvariants bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithSource injects the randomness used for shuffles, dice and random picks.
func WithSource(src dice.Source) Option { return func(e *Engine) { e.src = src } }

// WithLogger sets the engine logger.
func WithLogger(l logrus.FieldLogger) Option { return func(e *Engine) { e.log = l } }

// WithRecorder sets the action log sink.
func WithRecorder(r ActionRecorder) Option { return func(e *Engine) { e.recorder = r } }

// WithRules overrides DefaultHouseRules.
func WithRules(r HouseRules) Option { return func(e *Engine) { e.Rules = r } }

// WithClock overrides time.Now for timestamps.
func WithClock(now func() time.Time) Option { return func(e *Engine) { e.now = now } }

// WithInvariantChecks makes the engine validate the ledger, alliances and
// ranking after every mutation and panic on a violation.
func WithInvariantChecks(on bool) Option { return func(e *Engine) { e.checkInvariants = on } }

// NewEngine seats players in the given order. Names must be unique and non-empty.
func NewEngine(players []string, opts ...Option) (*Engine, error) {
	e := &Engine{
		ID:        uuid.New(),
		Rules:     DefaultHouseRules(),
		phase:     PhaseSetup,
		log:       logrus.StandardLogger(),
		recorder:  noopRecorder{},
		now:       defaultClock,
		ledger:    relations.NewLedger(),
		alliances: relations.NewAlliances(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.src == nil {
		src, err := dice.NewRandom()
		if err != nil {
			return nil, err
		}
		e.src = src
	}

	if len(players) < 2 || len(players) > e.Rules.MaxPlayers {
		return nil, fmt.Errorf("%w: need 2..%d players, got %d", ErrBadSetup, e.Rules.MaxPlayers, len(players))
	}
	e.seat = make(map[string]int, len(players))
	for i, p := range players {
		if p == "" {
			return nil, fmt.Errorf("%w: empty player name", ErrBadSetup)
		}
		if _, dup := e.seat[p]; dup {
			return nil, fmt.Errorf("%w: duplicate player %q", ErrBadSetup, p)
		}
		e.seat[p] = i
	}
	e.players = append([]string(nil), players...)
	e.ledger.Reset(e.players)
	e.resetTable()
	e.conversations = make(map[convKey][]Message)
	e.revealed = make(map[string][]string)
	return e, nil
}

func (e *Engine) resetTable() {
	e.hands = make(map[string][]cards.Card, len(e.players))
	e.discard = nil
	e.lastMove = nil
	e.lastOwner = ""
	e.passCount = 0
	e.rounds = 0
	e.finishers = nil
	e.caught = nil
	e.finished = make(map[string]bool)
	e.caughtSet = make(map[string]bool)
	e.skipNext = make(map[string]bool)
	e.forcedPass = make(map[string]bool)
	e.cheatQueue = nil
	e.cheats = nil
}

// Deal shuffles a fresh deck and gives each player 52/N cards; the remainder
// stays undealt. The ♠3 holder acts first. Relationships, alliances, the
// conversation log and revealed info carry over from any previous deal.
func (e *Engine) Deal() {
	deck := cards.NewDeck()
	e.src.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })

	per := len(deck) / len(e.players)
	hands := make(map[string][]cards.Card, len(e.players))
	for i, p := range e.players {
		hands[p] = append([]cards.Card(nil), deck[i*per:(i+1)*per]...)
	}
	e.start(hands, len(deck)-per*len(e.players))
}

// SetupHands starts a game from explicit hands instead of a shuffle. Every
// seated player needs a non-empty hand; no card may appear twice.
func (e *Engine) SetupHands(hands map[string][]cards.Card) error {
	seen := make(map[cards.Card]string)
	for p, h := range hands {
		if _, ok := e.seat[p]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownPlayer, p)
		}
		if len(h) == 0 {
			return fmt.Errorf("%w: empty hand for %q", ErrBadSetup, p)
		}
		for _, c := range h {
			if !c.Rank.Valid() {
				return fmt.Errorf("%w: bad card %v", ErrBadSetup, c)
			}
			if owner, dup := seen[c]; dup {
				return fmt.Errorf("%w: %s dealt to both %s and %s", ErrBadSetup, c, owner, p)
			}
			seen[c] = p
		}
	}
	for _, p := range e.players {
		if _, ok := hands[p]; !ok {
			return fmt.Errorf("%w: no hand for %q", ErrBadSetup, p)
		}
	}
	copied := make(map[string][]cards.Card, len(hands))
	for p, h := range hands {
		copied[p] = append([]cards.Card(nil), h...)
	}
	e.start(copied, 52-len(seen))
	return nil
}

func (e *Engine) start(hands map[string][]cards.Card, undealt int) {
	e.ID = uuid.New()
	e.actionIndex = 0
	e.resetTable()
	for p, h := range hands {
		cards.SortByRank(h)
		e.hands[p] = h
	}

	e.current = 0
	opener := cards.MustCard(cards.Spade, "3")
	for i, p := range e.players {
		if cards.Contains(e.hands[p], []cards.Card{opener}) {
			e.current = i
			break
		}
	}
	e.phase = PhasePlaying

	counts := make(map[string]interface{}, len(e.players))
	for _, p := range e.players {
		counts[p] = len(e.hands[p])
	}
	e.log.WithFields(logrus.Fields{
		"game":    e.ID,
		"players": len(e.players),
		"first":   e.players[e.current],
	}).Info("dealt new game")
	e.logAction(e.players[e.current], ActionDeal, map[string]interface{}{
		"hand_counts": counts,
		"undealt":     undealt,
	})
}

// Players returns the seat order.
func (e *Engine) Players() []string { return append([]string(nil), e.players...) }

// Phase returns the current phase.
func (e *Engine) Phase() Phase { return e.phase }

// CurrentPlayer returns whose turn it is in the Playing phase.
func (e *Engine) CurrentPlayer() string { return e.players[e.current] }

// LastMove returns the move on the field and its owner. An empty move means
// the field is open.
func (e *Engine) LastMove() (cards.Move, string) {
	return append(cards.Move(nil), e.lastMove...), e.lastOwner
}

// PassCount returns the consecutive passes since the last play.
func (e *Engine) PassCount() int { return e.passCount }

// Rounds returns how many times the field has been cleared this game.
func (e *Engine) Rounds() int { return e.rounds }

// HandOf returns a copy of player's own hand. Callers must only show it to
// that player.
func (e *Engine) HandOf(player string) ([]cards.Card, error) {
	if _, ok := e.seat[player]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPlayer, player)
	}
	return append([]cards.Card(nil), e.hands[player]...), nil
}

// HandCount returns the number of cards player holds.
func (e *Engine) HandCount(player string) int { return len(e.hands[player]) }

// DiscardCount returns the size of the shared discard pile.
func (e *Engine) DiscardCount() int { return len(e.discard) }

// IsActive reports whether player has neither finished nor been caught.
func (e *Engine) IsActive(player string) bool {
	_, seated := e.seat[player]
	return seated && !e.finished[player] && !e.caughtSet[player]
}

// ActivePlayers lists active players in seat order. It is derived on every call.
func (e *Engine) ActivePlayers() []string {
	out := make([]string, 0, len(e.players))
	for _, p := range e.players {
		if e.IsActive(p) {
			out = append(out, p)
		}
	}
	return out
}

// Ranking returns final standings so far: finishers in finish order, then
// caught players from the tail, so the first player caught is last.
func (e *Engine) Ranking() []string {
	out := make([]string, 0, len(e.finishers)+len(e.caught))
	out = append(out, e.finishers...)
	for i := len(e.caught) - 1; i >= 0; i-- {
		out = append(out, e.caught[i])
	}
	return out
}

// Caught returns caught players in catch order.
func (e *Engine) Caught() []string { return append([]string(nil), e.caught...) }

// IsCaught reports whether player was caught cheating.
func (e *Engine) IsCaught(player string) bool { return e.caughtSet[player] }

// CheatHistory returns every resolved attempt of the current game.
func (e *Engine) CheatHistory() []models.CheatAttempt {
	return append([]models.CheatAttempt(nil), e.cheats...)
}

// Source exposes the engine's randomness so callers share one stream.
func (e *Engine) Source() dice.Source { return e.src }

// Logger returns the engine logger.
func (e *Engine) Logger() logrus.FieldLogger { return e.log }

// IsSeated reports whether player has a seat at this table, in play or not.
func (e *Engine) IsSeated(player string) bool {
	_, ok := e.seat[player]
	return ok
}

func (e *Engine) mustSeat(player string) error {
	if _, ok := e.seat[player]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPlayer, player)
	}
	return nil
}

func (e *Engine) fields(player string) logrus.Fields {
	return logrus.Fields{"game": e.ID, "player": player, "phase": e.phase}
}

// verify panics if a public-API invariant is broken and checks are enabled.
func (e *Engine) verify() {
	if !e.checkInvariants {
		return
	}
	err := e.ledger.Validate()
	if err == nil {
		err = e.alliances.Validate()
	}
	if err == nil {
		seen := make(map[string]bool)
		for _, p := range e.Ranking() {
			if seen[p] {
				err = fmt.Errorf("%w: %s ranked twice", relations.ErrInvariantViolation, p)
				break
			}
			seen[p] = true
		}
	}
	if err != nil {
		e.log.WithField("game", e.ID).WithError(err).Error("engine invariant violated")
		panic(err)
	}
}
