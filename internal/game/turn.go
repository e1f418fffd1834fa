// internal/game/turn.go
package game

import (
	"fmt"

	"github.com/jason-s-yu/daifugo/internal/cards"
	"github.com/sirupsen/logrus"
)

// MoveResult reports what an accepted move did to the table.
type MoveResult struct {
	Finished   bool  // the mover emptied their hand
	RoundReset bool  // the field was cleared
	Phase      Phase // phase after the move
	Next       string
}

// LegalMoves enumerates player's candidate moves against the current field,
// pass first. A player under a forced pass only gets the pass.
func (e *Engine) LegalMoves(player string) ([]cards.Move, error) {
	if err := e.mustSeat(player); err != nil {
		return nil, err
	}
	if e.forcedPass[player] {
		return []cards.Move{{}}, nil
	}
	return cards.EnumerateLegalMoves(e.hands[player], e.lastMove), nil
}

// ApplyMove plays move for player; an empty move is a pass. Every check runs
// before any state changes, so a rejected move leaves the table untouched.
func (e *Engine) ApplyMove(player string, move cards.Move) (MoveResult, error) {
	if err := e.mustSeat(player); err != nil {
		return MoveResult{}, err
	}
	if e.phase != PhasePlaying {
		return MoveResult{}, fmt.Errorf("%w: %s", ErrWrongPhase, e.phase)
	}
	if e.players[e.current] != player {
		return MoveResult{}, ErrNotYourTurn
	}

	if move.IsPass() {
		return e.pass(player), nil
	}

	if e.forcedPass[player] {
		return MoveResult{}, ErrForcedPass
	}
	if err := ownsAll(e.hands[player], move); err != nil {
		return MoveResult{}, err
	}
	if err := cards.CheckMove(move, e.lastMove); err != nil {
		return MoveResult{}, err
	}
	return e.play(player, move), nil
}

func ownsAll(hand []cards.Card, move cards.Move) error {
	seen := make(map[cards.Card]bool, len(move))
	for _, c := range move {
		if seen[c] {
			return fmt.Errorf("%w: %s listed twice", ErrCardNotOwned, c)
		}
		seen[c] = true
	}
	if !cards.Contains(hand, move) {
		return ErrCardNotOwned
	}
	return nil
}

func (e *Engine) pass(player string) MoveResult {
	delete(e.forcedPass, player)
	e.passCount++
	e.logAction(player, ActionPass, map[string]interface{}{"pass_count": e.passCount})

	// Active count is re-derived on every pass; catches or finishes earlier in
	// the round lower the threshold.
	if e.passCount >= len(e.ActivePlayers())-1 {
		e.resetRound()
		e.verify()
		return MoveResult{RoundReset: true, Phase: e.phase, Next: e.nextActor()}
	}
	e.AdvanceTurn()
	e.verify()
	return MoveResult{Phase: e.phase, Next: e.nextActor()}
}

func (e *Engine) play(player string, move cards.Move) MoveResult {
	played := append(cards.Move(nil), move...)
	cards.SortByRank(played)

	e.hands[player] = cards.RemoveCards(e.hands[player], played)
	e.discard = append(e.discard, played...)
	e.lastMove = played
	e.lastOwner = player
	e.passCount = 0

	e.log.WithFields(e.fields(player)).WithField("move", played.String()).Debug("cards played")
	e.logAction(player, ActionPlay, map[string]interface{}{
		"cards":     played.String(),
		"remaining": len(e.hands[player]),
	})

	res := MoveResult{}
	if len(e.hands[player]) == 0 {
		res.Finished = true
		e.finish(player)
	}
	if e.phase == PhasePlaying {
		e.AdvanceTurn()
	}
	e.verify()
	res.Phase = e.phase
	res.Next = e.nextActor()
	return res
}

func (e *Engine) finish(player string) {
	e.finished[player] = true
	e.finishers = append(e.finishers, player)
	e.log.WithFields(e.fields(player)).WithField("place", len(e.finishers)).Info("player finished")
	e.logAction(player, ActionFinish, map[string]interface{}{"place": len(e.finishers)})
	e.checkGameOver()
}

// checkGameOver ends the game once at most one active player remains; that
// player is ranked after every finisher.
func (e *Engine) checkGameOver() {
	if e.phase == PhaseGameOver {
		return
	}
	active := e.ActivePlayers()
	if len(active) > 1 {
		return
	}
	if len(active) == 1 {
		survivor := active[0]
		e.finished[survivor] = true
		e.finishers = append(e.finishers, survivor)
	}
	e.phase = PhaseGameOver
	e.cheatQueue = nil

	ranking := e.Ranking()
	e.log.WithFields(logrus.Fields{"game": e.ID, "ranking": ranking}).Info("game over")
	e.logAction("", ActionGameOver, map[string]interface{}{
		"ranking": ranking,
		"caught":  e.Caught(),
	})
	if e.OnGameEnd != nil {
		e.OnGameEnd(e.ID, ranking, e.Caught())
	}
}

// AdvanceTurn moves to the next active seat, skipping finished and caught
// players and consuming one pending skip flag per skipped player.
func (e *Engine) AdvanceTurn() {
	if e.phase == PhaseGameOver || len(e.ActivePlayers()) == 0 {
		return
	}
	// Every skip flag is consumed on its first visit, so two laps suffice.
	for i := 0; i < 2*len(e.players); i++ {
		e.current = (e.current + 1) % len(e.players)
		p := e.players[e.current]
		if !e.IsActive(p) {
			continue
		}
		if e.skipNext[p] {
			delete(e.skipNext, p)
			e.log.WithFields(e.fields(p)).Debug("turn skipped")
			e.logAction(p, ActionSkipped, nil)
			continue
		}
		return
	}
}

// resetRound clears the field and opens the cheat window for every active
// player in seat order. With fewer than two active players play resumes.
func (e *Engine) resetRound() {
	e.lastMove = nil
	e.lastOwner = ""
	e.passCount = 0
	e.rounds++
	e.forcedPass = make(map[string]bool)

	active := e.ActivePlayers()
	e.logAction("", ActionRoundReset, map[string]interface{}{"round": e.rounds, "queue": active})
	if len(active) < 2 {
		e.AdvanceTurn()
		return
	}
	e.cheatQueue = active
	e.phase = PhaseCheatResolution
	e.log.WithFields(logrus.Fields{"game": e.ID, "round": e.rounds, "queue": active}).Debug("field cleared")
}

func (e *Engine) nextActor() string {
	switch e.phase {
	case PhasePlaying:
		return e.players[e.current]
	case PhaseCheatResolution:
		if head, ok := e.CheatQueueHead(); ok {
			return head
		}
	}
	return ""
}

// CatchCheater removes player from play and ranks them from the tail. Catching
// an already caught or finished player is a no-op.
func (e *Engine) CatchCheater(player string) error {
	if err := e.mustSeat(player); err != nil {
		return err
	}
	e.catch(player)
	e.verify()
	return nil
}

func (e *Engine) catch(player string) {
	if e.caughtSet[player] || e.finished[player] {
		return
	}
	e.caughtSet[player] = true
	e.caught = append(e.caught, player)
	e.log.WithFields(e.fields(player)).Warn("player caught cheating")
	e.logAction(player, ActionCaught, nil)

	e.checkGameOver()
	if e.phase == PhasePlaying && e.players[e.current] == player {
		e.AdvanceTurn()
	}
}

// SkipNextTurn flags target to lose their next turn once.
func (e *Engine) SkipNextTurn(target string) error {
	if !e.IsActive(target) {
		return fmt.Errorf("%w: %q is not in play", ErrInvalidTarget, target)
	}
	e.flagSkip(target)
	return nil
}

func (e *Engine) flagSkip(target string) {
	e.skipNext[target] = true
	e.logAction(target, ActionSkipFlag, nil)
}

// ForcePass obliges target to pass on their next turn this round.
func (e *Engine) ForcePass(target string) error {
	if !e.IsActive(target) {
		return fmt.Errorf("%w: %q is not in play", ErrInvalidTarget, target)
	}
	e.forcedPass[target] = true
	e.logAction(target, ActionForcePass, nil)
	return nil
}

// IsForcedToPass reports a pending forced pass.
func (e *Engine) IsForcedToPass(player string) bool { return e.forcedPass[player] }

// HasPendingSkip reports a pending skip flag.
func (e *Engine) HasPendingSkip(player string) bool { return e.skipNext[player] }
