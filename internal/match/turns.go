// internal/match/turns.go
package match

import (
	"context"
	"fmt"

	"github.com/jason-s-yu/daifugo/internal/ai"
	"github.com/jason-s-yu/daifugo/internal/cards"
	"github.com/jason-s-yu/daifugo/internal/dice"
	"github.com/jason-s-yu/daifugo/internal/game"
	"github.com/jason-s-yu/daifugo/internal/models"
	"github.com/jason-s-yu/daifugo/internal/skills"
	"github.com/sirupsen/logrus"
)

// DefaultCounterPrompt is the defense used when no counter-measure is generated.
const DefaultCounterPrompt = "guard cards"

var (
	cheatMethods    = []string{"peek at", "swap a card with", "stall", "slip extra cards to"}
	cheatApproaches = []string{"with quick hands", "with a distracting story", "while they look away", "with a poker face"}
	cheatConfidence = []string{"with a perfect plan", "trusting luck", "carefully", "boldly"}
)

// CheatTemplate composes a canned cheat description against target.
func CheatTemplate(src dice.Source, target string) string {
	return fmt.Sprintf("%s, %s, %s %s",
		cheatConfidence[dice.Pick(src, len(cheatConfidence))],
		cheatApproaches[dice.Pick(src, len(cheatApproaches))],
		cheatMethods[dice.Pick(src, len(cheatMethods))],
		target)
}

// PlayTurn lets the current player act: an optional skill, then a move, then
// an optional spontaneous social action.
func (s *Session) PlayTurn(ctx context.Context) (game.MoveResult, error) {
	if s.Engine.Phase() != game.PhasePlaying {
		return game.MoveResult{}, fmt.Errorf("%w: %s", game.ErrWrongPhase, s.Engine.Phase())
	}
	player := s.Engine.CurrentPlayer()

	s.Skills.Tick(player)
	s.maybeUseSkill(player)

	moves, err := s.Engine.LegalMoves(player)
	if err != nil {
		return game.MoveResult{}, err
	}
	move := moves[s.chooseMove(ctx, player, moves)]
	res, err := s.Engine.ApplyMove(player, move)
	if err != nil {
		return game.MoveResult{}, err
	}
	s.log.WithFields(logrus.Fields{
		"game":   s.Engine.ID,
		"player": player,
		"move":   move.String(),
		"next":   res.Next,
	}).Debug("turn played")

	if res.Phase == game.PhasePlaying && s.collab != nil && s.src.Float64() < s.cfg.SpontaneousChance {
		s.spontaneous(ctx, player)
	}
	return res, nil
}

// chooseMove returns an index into moves. Without a collaborator the
// persona's strategy decides; a failed or out-of-range collaborator answer
// falls back to a random legal move.
func (s *Session) chooseMove(ctx context.Context, player string, moves []cards.Move) int {
	if len(moves) == 1 {
		return 0
	}
	persona := s.Persona(player)
	if s.collab == nil {
		return ai.StrategyFor(persona.CharacterType)(s.strategyInput(player, moves))
	}

	hand, _ := s.Engine.HandOf(player)
	cctx, cancel := s.callCtx(ctx)
	defer cancel()
	idx, err := s.collab.ChooseMove(cctx, ai.MoveContext{
		Player:      player,
		Personality: persona,
		Hand:        hand,
		Table:       s.Engine.Snapshot(),
	}, moves)
	if err == nil && (idx < 0 || idx >= len(moves)) {
		err = fmt.Errorf("%w: move index %d out of range", ai.ErrCollaborator, idx)
	}
	if err != nil {
		idx = dice.Pick(s.src, len(moves))
		s.warn(player, "move", err, moves[idx].String())
	}
	return idx
}

func (s *Session) strategyInput(player string, moves []cards.Move) ai.StrategyInput {
	snap := s.Engine.Snapshot()
	last, owner := s.Engine.LastMove()
	if last.IsPass() {
		owner = ""
	}
	affinity := make(map[string]int, len(snap.HandCounts))
	for _, p := range s.Engine.Players() {
		if p != player {
			affinity[p] = s.Engine.Affinity(player, p)
		}
	}
	return ai.StrategyInput{
		Self:       player,
		Moves:      moves,
		HandSize:   s.Engine.HandCount(player),
		HandCounts: snap.HandCounts,
		LastOwner:  owner,
		Affinity:   affinity,
	}
}

// UseSkill performs a skill check on the engine.
func (s *Session) UseSkill(u skills.Use) (skills.Result, error) {
	if s.Stats == nil {
		return skills.Result{}, fmt.Errorf("%w: no stat table configured", skills.ErrRequirementsUnmet)
	}
	res, err := s.Skills.Perform(s.Engine, s.Stats, u)
	if err != nil {
		return res, err
	}
	s.log.WithFields(logrus.Fields{
		"game":    s.Engine.ID,
		"player":  u.Actor,
		"skill":   u.Skill,
		"target":  u.Target,
		"success": res.Contest.Success,
	}).Info(res.Narrative)
	return res, nil
}

func (s *Session) maybeUseSkill(player string) {
	if s.Stats == nil || s.cfg.SkillChance <= 0 {
		return
	}
	stats, ok := s.Stats.Stats(player)
	if !ok {
		return
	}
	avail := s.Skills.Available(player, stats)
	targets := s.opponentsByGrudge(player)
	if len(avail) == 0 || len(targets) == 0 || s.src.Float64() >= s.cfg.SkillChance {
		return
	}
	sk := avail[dice.Pick(s.src, len(avail))]
	u := skills.Use{Skill: sk.Name, Actor: player, Target: targets[0]}
	if sk.Kind == skills.Persuade {
		if len(targets) < 2 {
			return
		}
		u.Third = targets[len(targets)-1]
	}
	if _, err := s.UseSkill(u); err != nil {
		s.log.WithFields(logrus.Fields{"player": player, "skill": sk.Name}).WithError(err).Debug("skill not used")
	}
}

// CheatTurn handles the head of the cheat queue. The player attempts a cheat
// with probability equal to its cheat tendency, against the opponent it
// likes least; otherwise it declines. The outcome is nil on a decline.
func (s *Session) CheatTurn(ctx context.Context) (*game.CheatOutcome, error) {
	head, ok := s.Engine.CheatQueueHead()
	if !ok {
		return nil, fmt.Errorf("%w: %s", game.ErrWrongPhase, s.Engine.Phase())
	}
	targets := s.opponentsByGrudge(head)
	if len(targets) == 0 || s.src.Float64() >= s.Persona(head).CheatTendency {
		return nil, s.Engine.DeclineCheat(head)
	}
	out, err := s.DeclareCheat(ctx, head, targets[0], "")
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeclareCheat resolves a cheat by attacker on target. An empty prompt is
// generated by the collaborator or filled from a template; the counter-measure
// and the evaluation come from the collaborator when it answers, else the
// defaults apply.
func (s *Session) DeclareCheat(ctx context.Context, attacker, target, prompt string) (game.CheatOutcome, error) {
	if prompt == "" {
		prompt = s.describeCheat(ctx, attacker, target)
	}
	decl := game.CheatDeclaration{
		Attacker:      attacker,
		Target:        target,
		Prompt:        prompt,
		CounterPrompt: DefaultCounterPrompt,
	}
	if s.collab != nil {
		cctx, cancel := s.callCtx(ctx)
		counter, err := s.collab.CounterMeasure(cctx, s.Persona(target), attacker, prompt)
		cancel()
		if err != nil {
			s.warn(target, "counter", err, DefaultCounterPrompt)
		} else if counter != "" {
			decl.CounterPrompt = counter
		}

		cctx, cancel = s.callCtx(ctx)
		ev, err := s.collab.EvaluateCheat(cctx, decl.Prompt, decl.CounterPrompt)
		cancel()
		if err != nil {
			s.warn(attacker, "evaluate", err, models.NeutralEvaluation())
		} else {
			decl.Evaluation = &ev
		}
	}

	out, err := s.Engine.ResolveCheat(decl)
	if err != nil {
		return out, err
	}
	s.log.WithFields(logrus.Fields{
		"game":     s.Engine.ID,
		"attacker": attacker,
		"target":   target,
		"effect":   out.Attempt.Effect,
		"success":  out.Attempt.Success,
	}).Info(out.Narrative)
	return out, nil
}

func (s *Session) describeCheat(ctx context.Context, attacker, target string) string {
	if s.collab != nil {
		cctx, cancel := s.callCtx(ctx)
		defer cancel()
		desc, err := s.collab.DescribeCheat(cctx, s.Persona(attacker), target)
		if err == nil && desc != "" {
			return desc
		}
		if err == nil {
			err = fmt.Errorf("%w: empty cheat description", ai.ErrCollaborator)
		}
		tmpl := CheatTemplate(s.src, target)
		s.warn(attacker, "describe", err, tmpl)
		return tmpl
	}
	return CheatTemplate(s.src, target)
}
