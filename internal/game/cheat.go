// internal/game/cheat.go
package game

import (
	"fmt"

	"github.com/jason-s-yu/daifugo/internal/cards"
	"github.com/jason-s-yu/daifugo/internal/contest"
	"github.com/jason-s-yu/daifugo/internal/models"
	"github.com/sirupsen/logrus"
)

// CheatDeclaration is one attempt handed to ResolveCheat. Evaluation is
// whatever the caller obtained for the prompt pair; a nil Evaluation uses the
// neutral bonuses from HouseRules with a peek.
type CheatDeclaration struct {
	Attacker      string
	Target        string
	Prompt        string
	CounterPrompt string
	Evaluation    *models.Evaluation
}

// CheatOutcome is the result of ResolveCheat.
type CheatOutcome struct {
	Attempt   models.CheatAttempt
	Contest   contest.Result
	Narrative string
	// Revealed is the target's hand, set only for a successful peek and only
	// meant for the attacker.
	Revealed []cards.Card
}

// CheatQueue returns the players still to act in this cheat window.
func (e *Engine) CheatQueue() []string { return append([]string(nil), e.cheatQueue...) }

// CheatQueueHead returns whose turn it is to attempt or decline a cheat.
func (e *Engine) CheatQueueHead() (string, bool) {
	if e.phase != PhaseCheatResolution || len(e.cheatQueue) == 0 {
		return "", false
	}
	return e.cheatQueue[0], true
}

// CheatTargets lists the active opponents player may attack.
func (e *Engine) CheatTargets(player string) []string {
	out := make([]string, 0, len(e.players))
	for _, p := range e.ActivePlayers() {
		if p != player {
			out = append(out, p)
		}
	}
	return out
}

func (e *Engine) checkQueueHead(player string) error {
	if err := e.mustSeat(player); err != nil {
		return err
	}
	if e.phase != PhaseCheatResolution {
		return fmt.Errorf("%w: %s", ErrWrongPhase, e.phase)
	}
	if head, ok := e.CheatQueueHead(); !ok || head != player {
		return ErrNotQueueHead
	}
	return nil
}

// DeclineCheat pops player off the cheat queue without acting.
func (e *Engine) DeclineCheat(player string) error {
	if err := e.checkQueueHead(player); err != nil {
		return err
	}
	e.logAction(player, ActionCheatDecline, nil)
	e.popQueue()
	e.verify()
	return nil
}

// ResolveCheat runs the opposed contest for the queue head's declaration and
// applies the result: the effect on success, a catch on failure.
func (e *Engine) ResolveCheat(decl CheatDeclaration) (CheatOutcome, error) {
	if err := e.checkQueueHead(decl.Attacker); err != nil {
		return CheatOutcome{}, err
	}
	if err := e.mustSeat(decl.Target); err != nil {
		return CheatOutcome{}, err
	}
	if decl.Target == decl.Attacker || !e.IsActive(decl.Target) {
		return CheatOutcome{}, fmt.Errorf("%w: %q", ErrInvalidTarget, decl.Target)
	}

	eval := e.normalizeEvaluation(decl.Evaluation)
	affinity := e.ledger.Affinity(decl.Attacker, decl.Target)
	res := contest.Roll(e.src, contest.Input{
		AttackerBonus: eval.AttackerBonus,
		DefenderBonus: eval.DefenderBonus,
		Adjustment:    contest.AffinityAdjustment(affinity),
	})

	attempt := models.CheatAttempt{
		Attacker:      decl.Attacker,
		Target:        decl.Target,
		Prompt:        decl.Prompt,
		CounterPrompt: decl.CounterPrompt,
		AttackerBonus: res.AttackerBonus,
		DefenderBonus: res.DefenderBonus,
		AttackerRoll:  res.AttackerRoll,
		DefenderRoll:  res.DefenderRoll,
		Success:       res.Success,
		Effect:        eval.Effect,
		Reasoning:     eval.Reasoning,
		At:            e.now(),
	}
	out := CheatOutcome{Contest: res}

	if res.Success {
		if e.alliances.Allied(decl.Attacker, decl.Target) {
			attempt.Betrayal = true
			e.alliances.Break(decl.Attacker, decl.Target)
			e.updateRelationship(decl.Attacker, decl.Target, -e.Rules.BetrayalPenalty)
		}
		out.Narrative, out.Revealed = e.applyEffect(decl.Attacker, decl.Target, eval.Effect)
		e.updateRelationship(decl.Attacker, decl.Target, -e.Rules.VictimResentment)
	} else {
		attempt.Caught = true
		out.Narrative = fmt.Sprintf("%s was caught cheating against %s", decl.Attacker, decl.Target)
	}

	e.cheats = append(e.cheats, attempt)
	out.Attempt = attempt

	e.log.WithFields(logrus.Fields{
		"game":     e.ID,
		"player":   decl.Attacker,
		"target":   decl.Target,
		"effect":   eval.Effect,
		"attacker": res.AttackerTotal,
		"defender": res.DefenderTotal,
		"success":  res.Success,
	}).Info("cheat resolved")
	e.logAction(decl.Attacker, ActionCheatResolve, map[string]interface{}{
		"target":         decl.Target,
		"effect":         string(eval.Effect),
		"attacker_total": res.AttackerTotal,
		"defender_total": res.DefenderTotal,
		"success":        res.Success,
		"betrayal":       attempt.Betrayal,
	})

	if attempt.Caught {
		e.catch(decl.Attacker)
	}
	if e.phase == PhaseCheatResolution {
		e.popQueue()
	}
	e.verify()
	return out, nil
}

func (e *Engine) normalizeEvaluation(ev *models.Evaluation) models.Evaluation {
	if ev == nil {
		n := models.NeutralEvaluation()
		n.AttackerBonus = e.Rules.NeutralAttackerBonus
		n.DefenderBonus = e.Rules.NeutralDefenderBonus
		return n
	}
	out := *ev
	out.AttackerBonus = contest.ClampBonus(out.AttackerBonus)
	out.DefenderBonus = contest.ClampBonus(out.DefenderBonus)
	if !out.Effect.Valid() {
		out.Effect = models.EffectPeek
	}
	return out
}

func (e *Engine) applyEffect(attacker, target string, kind models.EffectKind) (string, []cards.Card) {
	switch kind {
	case models.EffectSwap:
		ah, th := e.hands[attacker], e.hands[target]
		if len(ah) == 0 || len(th) == 0 {
			return "there was nothing to swap", nil
		}
		i, j := e.src.Intn(len(ah)), e.src.Intn(len(th))
		ah[i], th[j] = th[j], ah[i]
		cards.SortByRank(ah)
		cards.SortByRank(th)
		return fmt.Sprintf("%s swapped a card with %s", attacker, target), nil

	case models.EffectSkip:
		e.flagSkip(target)
		return fmt.Sprintf("%s will skip their next turn", target), nil

	case models.EffectExtraCards:
		n := 2
		if len(e.discard) < n {
			n = len(e.discard)
		}
		if n == 0 {
			return fmt.Sprintf("no cards could be added to %s", target), nil
		}
		moved := e.discard[len(e.discard)-n:]
		e.hands[target] = append(e.hands[target], moved...)
		e.discard = e.discard[:len(e.discard)-n]
		cards.SortByRank(e.hands[target])
		return fmt.Sprintf("%s received %d extra card(s)", target, n), nil

	default:
		return fmt.Sprintf("%s peeked at %s's hand", attacker, target),
			append([]cards.Card(nil), e.hands[target]...)
	}
}

// popQueue drops the head plus any entries no longer in play, and returns to
// Playing once the window is empty.
func (e *Engine) popQueue() {
	if len(e.cheatQueue) > 0 {
		e.cheatQueue = e.cheatQueue[1:]
	}
	for len(e.cheatQueue) > 0 && !e.IsActive(e.cheatQueue[0]) {
		e.cheatQueue = e.cheatQueue[1:]
	}
	if len(e.cheatQueue) == 0 || len(e.ActivePlayers()) < 2 {
		e.cheatQueue = nil
		if e.phase == PhaseCheatResolution {
			e.phase = PhasePlaying
			e.AdvanceTurn()
		}
	}
}
