// internal/match/session.go
package match

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jason-s-yu/daifugo/internal/ai"
	"github.com/jason-s-yu/daifugo/internal/dice"
	"github.com/jason-s-yu/daifugo/internal/game"
	"github.com/jason-s-yu/daifugo/internal/models"
	"github.com/jason-s-yu/daifugo/internal/skills"
	"github.com/sirupsen/logrus"
)

// ErrStalled is returned by Play when a game does not finish within the step limit.
var ErrStalled = errors.New("game did not finish within the step limit")

// Config tunes automated behavior.
type Config struct {
	// SpontaneousChance is the probability an automated player takes a social
	// action after moving.
	SpontaneousChance float64
	// SkillChance is the probability an automated player uses an available
	// skill at the start of its turn.
	SkillChance float64
	// CallTimeout bounds each collaborator call.
	CallTimeout time.Duration
}

// DefaultConfig returns the stock tuning.
func DefaultConfig() Config {
	return Config{SpontaneousChance: 0.2, SkillChance: 0.1, CallTimeout: 20 * time.Second}
}

// Session drives an engine with automated players. The collaborator is
// optional; every call that fails falls back to a local default.
type Session struct {
	Engine   *game.Engine
	Personas map[string]models.Personality
	Skills   *skills.Book
	Stats    skills.StatLookup

	collab ai.Collaborator
	src    dice.Source
	log    logrus.FieldLogger
	cfg    Config
}

// Option configures a Session.
type Option func(*Session)

// WithCollaborator sets the automated-decision service.
func WithCollaborator(c ai.Collaborator) Option { return func(s *Session) { s.collab = c } }

// WithPersonalities seeds the personas instead of generating them.
func WithPersonalities(p map[string]models.Personality) Option {
	return func(s *Session) {
		for k, v := range p {
			s.Personas[k] = v
		}
	}
}

// WithStats enables skill use against the given stat table.
func WithStats(st skills.StatLookup) Option { return func(s *Session) { s.Stats = st } }

// WithSkillBook overrides the default skill catalog.
func WithSkillBook(b *skills.Book) Option { return func(s *Session) { s.Skills = b } }

// WithLogger sets the session logger.
func WithLogger(l logrus.FieldLogger) Option { return func(s *Session) { s.log = l } }

// WithConfig overrides DefaultConfig.
func WithConfig(c Config) Option { return func(s *Session) { s.cfg = c } }

// NewSession wraps eng. Randomness comes from the engine's source so a seeded
// engine makes the whole session reproducible.
func NewSession(eng *game.Engine, opts ...Option) *Session {
	s := &Session{
		Engine:   eng,
		Personas: make(map[string]models.Personality),
		Skills:   skills.NewBook(nil),
		src:      eng.Source(),
		log:      eng.Logger(),
		cfg:      DefaultConfig(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Collaborator returns the configured collaborator, or nil.
func (s *Session) Collaborator() ai.Collaborator { return s.collab }

// LoadPersonalities fills in a persona for every seat that lacks one,
// generating it when a collaborator is configured.
func (s *Session) LoadPersonalities(ctx context.Context) {
	for i, p := range s.Engine.Players() {
		if _, ok := s.Personas[p]; ok {
			continue
		}
		persona := ai.FallbackFor(i)
		if s.collab != nil {
			cctx, cancel := s.callCtx(ctx)
			gen, err := s.collab.GeneratePersonality(cctx, p)
			cancel()
			if err != nil {
				s.warn(p, "personality", err, persona.Name)
			} else {
				persona = gen
			}
		}
		s.Personas[p] = persona
	}
}

// Persona returns player's personality, falling back to the seat's fixed persona.
func (s *Session) Persona(player string) models.Personality {
	if p, ok := s.Personas[player]; ok {
		return p
	}
	for i, seat := range s.Engine.Players() {
		if seat == player {
			return ai.FallbackFor(i)
		}
	}
	return ai.FallbackFor(0)
}

// Step advances the game by one decision: a move while playing, one cheat
// attempt or decline during the cheat window.
func (s *Session) Step(ctx context.Context) error {
	switch s.Engine.Phase() {
	case game.PhasePlaying:
		_, err := s.PlayTurn(ctx)
		return err
	case game.PhaseCheatResolution:
		_, err := s.CheatTurn(ctx)
		return err
	default:
		return fmt.Errorf("%w: %s", game.ErrWrongPhase, s.Engine.Phase())
	}
}

// Play steps until GameOver and returns the final Ranking.
func (s *Session) Play(ctx context.Context, maxSteps int) ([]string, error) {
	for steps := 0; s.Engine.Phase() != game.PhaseGameOver; steps++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if maxSteps > 0 && steps >= maxSteps {
			return nil, fmt.Errorf("%w (%d)", ErrStalled, maxSteps)
		}
		if err := s.Step(ctx); err != nil {
			return nil, err
		}
	}
	return s.Engine.Ranking(), nil
}

func (s *Session) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.CallTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.cfg.CallTimeout)
}

// warn logs a collaborator failure together with the default substituted for it.
func (s *Session) warn(player, call string, err error, fallback interface{}) {
	s.log.WithFields(logrus.Fields{
		"game":     s.Engine.ID,
		"player":   player,
		"call":     call,
		"fallback": fallback,
	}).WithError(err).Warn("collaborator failed, using default")
}

// opponentsByGrudge returns player's active opponents ordered by ascending
// affinity, ties broken by fewest cards, then seat order.
func (s *Session) opponentsByGrudge(player string) []string {
	targets := s.Engine.CheatTargets(player)
	for i := 1; i < len(targets); i++ {
		for j := i; j > 0 && s.lessGrudge(player, targets[j], targets[j-1]); j-- {
			targets[j], targets[j-1] = targets[j-1], targets[j]
		}
	}
	return targets
}

func (s *Session) lessGrudge(player, a, b string) bool {
	fa, fb := s.Engine.Affinity(player, a), s.Engine.Affinity(player, b)
	if fa != fb {
		return fa < fb
	}
	return s.Engine.HandCount(a) < s.Engine.HandCount(b)
}
