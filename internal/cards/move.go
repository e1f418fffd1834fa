// internal/cards/move.go
package cards

import "errors"

// MaxMoveSize is the largest same-rank group a deck can hold.
const MaxMoveSize = 4

var (
	// ErrIllegalMove is the parent of every move-shape rejection.
	ErrIllegalMove = errors.New("illegal move")
	ErrMixedRanks  = wrap("cards must share one rank")
	ErrWrongCount  = wrap("card count must match the field")
	ErrTooWeak     = wrap("rank must beat the field")
	ErrTooMany     = wrap("at most four cards may be played")
)

type moveError struct{ msg string }

func (e *moveError) Error() string        { return "illegal move: " + e.msg }
func (e *moveError) Is(target error) bool { return target == ErrIllegalMove }

func wrap(msg string) error { return &moveError{msg: msg} }

// Move is a set of cards played together; empty means pass.
type Move []Card

// IsPass reports whether the move plays no cards.
func (m Move) IsPass() bool { return len(m) == 0 }

// Rank returns the shared rank value, or -1 for a pass or a mixed move.
func (m Move) Rank() int {
	if len(m) == 0 {
		return -1
	}
	r := m[0].RankValue()
	for _, c := range m[1:] {
		if c.RankValue() != r {
			return -1
		}
	}
	return r
}

func (m Move) String() string {
	if m.IsPass() {
		return "pass"
	}
	return Join(m)
}

// CheckMove explains why move cannot be played onto lastMove, or returns nil.
func CheckMove(move, lastMove Move) error {
	if move.IsPass() {
		return nil
	}
	if len(move) > MaxMoveSize {
		return ErrTooMany
	}
	rank := move.Rank()
	if rank < 0 {
		return ErrMixedRanks
	}
	if lastMove.IsPass() {
		return nil
	}
	if len(move) != len(lastMove) {
		return ErrWrongCount
	}
	if rank <= lastMove.Rank() {
		return ErrTooWeak
	}
	return nil
}

// IsLegalMove is the legality predicate: pass always, otherwise a same-rank
// group that either opens the field or beats it with equal cardinality.
func IsLegalMove(move, lastMove Move) bool {
	return CheckMove(move, lastMove) == nil
}

// EnumerateLegalMoves lists pass first, then candidate plays in ascending rank.
// Within a rank an open field lists every singleton (suit order) followed by
// the 2, 3 and 4 card groups built from the lowest suits; a contested field
// lists every beating singleton, or one lowest-suit group of the required size
// per stronger rank. The order is stable
// so an index chosen by an external caller is reproducible.
func EnumerateLegalMoves(hand []Card, lastMove Move) []Move {
	moves := []Move{{}}
	groups := GroupByRank(hand)

	for v := range RankOrder {
		group := groups[v]
		if len(group) == 0 {
			continue
		}
		if lastMove.IsPass() {
			for _, c := range group {
				moves = append(moves, Move{c})
			}
			for n := 2; n <= len(group) && n <= MaxMoveSize; n++ {
				moves = append(moves, cloneMove(group[:n]))
			}
			continue
		}
		need := len(lastMove)
		if v <= lastMove.Rank() || len(group) < need {
			continue
		}
		if need == 1 {
			for _, c := range group {
				moves = append(moves, Move{c})
			}
			continue
		}
		moves = append(moves, cloneMove(group[:need]))
	}
	return moves
}

func cloneMove(cs []Card) Move {
	out := make(Move, len(cs))
	copy(out, cs)
	return out
}
